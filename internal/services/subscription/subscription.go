// Package subscription реализует оформление платной подписки через
// checkout-сессии платёжного шлюза и применение подписки после оплаты.
//
// Жизненный цикл попытки: создание сессии -> оплата на стороне шлюза ->
// подтверждение. Авторитетный путь подтверждения — явный вызов клиента
// после возврата со страницы оплаты; отложенная фоновая попытка после
// создания сессии — только не-авторитетный повтор. Оба пути сходятся
// на одном идемпотентном переходе статуса сессии.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chirp-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/chirp-backend/internal/models"
	"github.com/magabrotheeeer/chirp-backend/internal/paymentprovider"
	"github.com/magabrotheeeer/chirp-backend/internal/plans"
)

// Repository определяет методы хранилища для подписок и сессий оплаты.
type Repository interface {
	// GetEntitlement возвращает текущую подписку пользователя.
	GetEntitlement(ctx context.Context, userUID string) (*models.Entitlement, error)
	// GetUserByUID возвращает профиль пользователя.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// CreateCheckoutSession сохраняет локальную запись сессии оплаты.
	CreateCheckoutSession(ctx context.Context, session models.CheckoutSession) error
	// ReadCheckoutSession возвращает локальную запись сессии оплаты.
	ReadCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	// ConfirmCheckoutSession атомарно подтверждает сессию и записывает подписку.
	ConfirmCheckoutSession(ctx context.Context, sessionID string, e models.Entitlement) (bool, error)
}

// PaymentProvider описывает операции платёжного шлюза.
type PaymentProvider interface {
	CreateCheckoutSession(userUID, plan string, price int64) (*paymentprovider.Session, error)
	RetrieveCheckoutSession(sessionID string) (*paymentprovider.Session, error)
}

// Cache описывает методы для кэширования подписок.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Publisher публикует задания на отправку писем.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// CheckoutService реализует оформление и подтверждение подписки.
type CheckoutService struct {
	repo       Repository
	provider   PaymentProvider
	cache      Cache
	publisher  Publisher
	log        *slog.Logger
	retryDelay time.Duration
	periodDays int
}

// NewCheckoutService создает новый экземпляр CheckoutService.
func NewCheckoutService(repo Repository, provider PaymentProvider, cache Cache,
	publisher Publisher, log *slog.Logger, retryDelay time.Duration, periodDays int) *CheckoutService {
	return &CheckoutService{
		repo:       repo,
		provider:   provider,
		cache:      cache,
		publisher:  publisher,
		log:        log,
		retryDelay: retryDelay,
		periodDays: periodDays,
	}
}

// CreateCheckout открывает checkout-сессию шлюза на месячную подписку
// и сохраняет её локальную запись. Возвращает идентификатор сессии
// и ссылку на страницу оплаты.
func (s *CheckoutService) CreateCheckout(ctx context.Context, userUID, planName string, price int) (string, string, error) {
	const op = "services.subscription.CreateCheckout"

	plan, ok := plans.Lookup(planName)
	if !ok {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrUnknownPlan)
	}

	sess, err := s.provider.CreateCheckoutSession(userUID, plan.Name, int64(price))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	entry := models.CheckoutSession{
		SessionID: sess.ID,
		UserUID:   userUID,
		Plan:      plan.Name,
		Status:    models.CheckoutStatusCreated,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateCheckoutSession(ctx, entry); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("checkout session created",
		slog.String("session_id", sess.ID),
		slog.String("user_uid", userUID),
		slog.String("plan", plan.Name))

	// Не-авторитетная фоновая попытка: шлюз мог ещё не увидеть оплату,
	// тогда попытка ничего не изменит. Клиентский confirm после редиректа
	// остаётся основным путём.
	time.AfterFunc(s.retryDelay, func() {
		retryCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if _, err := s.ConfirmCheckout(retryCtx, sess.ID); err != nil {
			s.log.Warn("delayed checkout confirmation failed",
				slog.String("session_id", sess.ID), sl.Err(err))
		}
	})

	return sess.ID, sess.URL, nil
}

// ConfirmCheckout запрашивает у шлюза состояние сессии и, если она оплачена,
// применяет подписку: лимит тарифа, дата оформления и дата окончания через
// periodDays дней. Неоплаченная сессия ничего не изменяет. Вызов идемпотентен:
// повторное подтверждение оплаченной сессии возвращает true без изменений.
func (s *CheckoutService) ConfirmCheckout(ctx context.Context, sessionID string) (bool, error) {
	const op = "services.subscription.ConfirmCheckout"

	local, err := s.repo.ReadCheckoutSession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	sess, err := s.provider.RetrieveCheckoutSession(sessionID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !sess.Paid() {
		s.log.Info("payment not completed for session", slog.String("session_id", sessionID))
		return false, nil
	}

	plan, ok := plans.Lookup(local.Plan)
	if !ok {
		return false, fmt.Errorf("%s: %w", op, models.ErrUnknownPlan)
	}

	now := time.Now().UTC()
	expiresAt := now.AddDate(0, 0, s.periodDays)
	entitlement := models.Entitlement{
		Plan:         plan.Name,
		SubscribedAt: &now,
		ExpiresAt:    &expiresAt,
	}
	if !plan.Unlimited {
		limit := plan.PostLimit
		entitlement.PostLimit = &limit
	}

	applied, err := s.repo.ConfirmCheckoutSession(ctx, sessionID, entitlement)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !applied {
		return true, nil
	}

	if err := s.cache.Invalidate(entitlementKey(local.UserUID)); err != nil {
		s.log.Warn("failed to invalidate entitlement cache",
			slog.String("user_uid", local.UserUID), sl.Err(err))
	}

	s.log.Info("subscription confirmed",
		slog.String("session_id", sessionID),
		slog.String("user_uid", local.UserUID),
		slog.String("plan", plan.Name))

	s.publishConfirmation(ctx, local.UserUID, plan.Name, expiresAt)
	return true, nil
}

// GetEntitlement возвращает подписку пользователя, используя кеш или хранилище.
func (s *CheckoutService) GetEntitlement(ctx context.Context, userUID string) (*models.Entitlement, error) {
	const op = "services.subscription.GetEntitlement"

	var result *models.Entitlement
	cacheKey := entitlementKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read entitlement cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil {
		return result, nil
	}

	result, err = s.repo.GetEntitlement(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache entitlement", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// publishConfirmation отправляет задание на письмо о подтверждённой подписке.
// Ошибка доставки не откатывает подтверждение, только логируется.
func (s *CheckoutService) publishConfirmation(ctx context.Context, userUID, plan string, expiresAt time.Time) {
	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		s.log.Warn("failed to load user for confirmation email",
			slog.String("user_uid", userUID), sl.Err(err))
		return
	}
	info := models.ConfirmationInfo{
		Email:     user.Email,
		Username:  user.Username,
		Plan:      plan,
		ExpiresAt: expiresAt,
	}
	if err := s.publisher.Publish(rabbitmq.RoutingKeySubscriptionConfirmed, info); err != nil {
		s.log.Error("failed to publish confirmation email task",
			slog.String("user_uid", userUID), sl.Err(err))
	}
}

func entitlementKey(userUID string) string {
	return fmt.Sprintf("entitlement:%s", userUID)
}
