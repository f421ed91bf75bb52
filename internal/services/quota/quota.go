// Package quota реализует проверку лимита постов перед их созданием.
// Решение о допуске принимается по снимку подписки пользователя и количеству
// постов в текущем периоде. Проверка и последующая вставка поста намеренно
// не связаны общей блокировкой: на границе лимита два одновременных запроса
// могут пройти оба, это известное и допустимое окно.
package quota

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
	"github.com/magabrotheeeer/chirp-backend/internal/plans"
)

// periodDays — длительность расчётного периода подписки.
const periodDays = 30

// Repository определяет методы хранилища, необходимые для проверки лимита.
type Repository interface {
	// GetEntitlement возвращает текущую подписку пользователя.
	GetEntitlement(ctx context.Context, userUID string) (*models.Entitlement, error)
	// CountPostsSince возвращает количество постов пользователя с начала периода.
	CountPostsSince(ctx context.Context, userUID string, periodStart time.Time) (int, error)
}

// QuotaService принимает решение о допуске нового поста.
type QuotaService struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр QuotaService.
func New(repo Repository, log *slog.Logger) *QuotaService {
	return &QuotaService{
		repo: repo,
		log:  log,
	}
}

// AdmitPost проверяет, может ли пользователь создать ещё один пост.
// Возвращает nil при допуске, models.ErrQuotaExceeded при исчерпанном лимите,
// models.ErrUserNotFound если пользователь отсутствует.
func (s *QuotaService) AdmitPost(ctx context.Context, userUID string) error {
	const op = "services.quota.AdmitPost"

	ent, err := s.repo.GetEntitlement(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	limit, unlimited := resolveLimit(ent, now)
	if unlimited {
		return nil
	}

	count, err := s.repo.CountPostsSince(ctx, userUID, periodStart(ent, now))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if count >= limit {
		s.log.Info("post limit reached",
			slog.String("user_uid", userUID),
			slog.Int("count", count),
			slog.Int("limit", limit))
		return fmt.Errorf("%s: %w", op, models.ErrQuotaExceeded)
	}
	return nil
}

// resolveLimit возвращает действующий лимит постов. Истёкшая платная подписка
// понижается до лимита бесплатного тарифа, а не сохраняет оплаченный.
func resolveLimit(ent *models.Entitlement, now time.Time) (int, bool) {
	if ent.Expired(now) {
		free, _ := plans.Lookup(plans.FreePlanName)
		return free.PostLimit, false
	}
	if ent.PostLimit == nil {
		return 0, true
	}
	return *ent.PostLimit, false
}

// periodStart возвращает начало текущего расчётного периода.
// Для действующей подписки окно привязано к дате оформления и сдвигается
// шагами по periodDays; без подписки (или после её истечения) окно — текущий
// календарный месяц.
func periodStart(ent *models.Entitlement, now time.Time) time.Time {
	if ent.SubscribedAt != nil && !ent.Expired(now) {
		anchor := ent.SubscribedAt.UTC()
		period := time.Duration(periodDays) * 24 * time.Hour
		if now.Before(anchor) {
			return anchor
		}
		steps := now.Sub(anchor) / period
		return anchor.Add(steps * period)
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
