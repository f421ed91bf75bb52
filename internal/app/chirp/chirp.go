// Package chirp собирает HTTP-приложение: хранилище, кеш, брокер,
// платёжный шлюз, сервисы и маршруты.
package chirp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chirp-backend/internal/cache"
	"github.com/magabrotheeeer/chirp-backend/internal/config"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/jwt"
	queues "github.com/magabrotheeeer/chirp-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/smtp"
	"github.com/magabrotheeeer/chirp-backend/internal/migrations"
	"github.com/magabrotheeeer/chirp-backend/internal/paymentprovider"
	"github.com/magabrotheeeer/chirp-backend/internal/rabbitmq"
	otpservice "github.com/magabrotheeeer/chirp-backend/internal/services/otp"
	postservice "github.com/magabrotheeeer/chirp-backend/internal/services/post"
	quotaservice "github.com/magabrotheeeer/chirp-backend/internal/services/quota"
	senderservice "github.com/magabrotheeeer/chirp-backend/internal/services/sender"
	subscriptionservice "github.com/magabrotheeeer/chirp-backend/internal/services/subscription"
	"github.com/magabrotheeeer/chirp-backend/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, queues.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := queues.NewPublisher(ch, queues.Exchange)

	providerClient := paymentprovider.NewClient(cfg.StripeGateway)
	tokenParser := jwt.NewParser(cfg.JWTSecretKey)
	smtpTransport := smtp.NewTransport(cfg.SMTPConnection, logger)

	checkoutService := subscriptionservice.NewCheckoutService(
		db, providerClient, cacheRedis, publisher, logger,
		cfg.ConfirmRetryDelay, cfg.PeriodDays)
	postService := postservice.New(db, logger)
	quotaService := quotaservice.New(db, logger)
	senderService := senderservice.NewSenderService(logger, smtpTransport)
	otpService := otpservice.New(cacheRedis, senderService, cfg.CodeTTL, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenParser,
		postService, quotaService, checkoutService, otpService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.ch.Close(); closeErr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", closeErr))
		}
		if closeErr := a.conn.Close(); closeErr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		a.db.DB.Close()
		return err
	}
}
