// Package chirp предоставляет маршруты для основного приложения.
package chirp

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chirp-backend/internal/http/handlers/health"
	otpsend "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/otp/send"
	otpverify "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/otp/verify"
	planshandler "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/plans"
	postcreate "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/post/create"
	postlist "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/post/list"
	subscriptioncheckout "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/subscription/checkout"
	subscriptionconfirm "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/subscription/confirm"
	subscriptionread "github.com/magabrotheeeer/chirp-backend/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/chirp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/jwt"
	otpservice "github.com/magabrotheeeer/chirp-backend/internal/services/otp"
	postservice "github.com/magabrotheeeer/chirp-backend/internal/services/post"
	quotaservice "github.com/magabrotheeeer/chirp-backend/internal/services/quota"
	subscriptionservice "github.com/magabrotheeeer/chirp-backend/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser *jwt.Parser,
	postService *postservice.PostService, quotaService *quotaservice.QuotaService,
	checkoutService *subscriptionservice.CheckoutService, otpService *otpservice.OTPService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/plans", planshandler.New(logger).ServeHTTP)
		r.Post("/otp/send", otpsend.New(logger, otpService).ServeHTTP)
		r.Post("/otp/verify", otpverify.New(logger, otpService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.With(middlewarectx.PostLimitMiddleware(logger, quotaService)).
				Post("/posts", postcreate.New(logger, postService).ServeHTTP)
			r.Get("/posts", postlist.New(logger, postService).ServeHTTP)
			r.Post("/subscription/checkout", subscriptioncheckout.New(logger, checkoutService).ServeHTTP)
			r.Post("/subscription/confirm", subscriptionconfirm.New(logger, checkoutService).ServeHTTP)
			r.Get("/subscription", subscriptionread.New(logger, checkoutService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
