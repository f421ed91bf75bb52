package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// CreateCheckoutSession сохраняет локальную запись сессии оплаты со статусом created.
func (s *Storage) CreateCheckoutSession(ctx context.Context, session models.CheckoutSession) error {
	const op = "storage.CreateCheckoutSession"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO checkout_sessions (session_id, user_uid, plan, status, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		session.SessionID, session.UserUID, session.Plan, session.Status, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadCheckoutSession возвращает локальную запись сессии оплаты.
// Возвращает models.ErrSessionNotFound, если сессия не создавалась этим сервисом.
func (s *Storage) ReadCheckoutSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	const op = "storage.ReadCheckoutSession"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT session_id, user_uid, plan, status, created_at
			  FROM checkout_sessions
			  WHERE session_id = $1`
	row := s.DB.QueryRowContext(ctx, query, sessionID)

	var result models.CheckoutSession
	if err := row.Scan(&result.SessionID, &result.UserUID, &result.Plan,
		&result.Status, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ConfirmCheckoutSession переводит сессию в статус confirmed и в той же
// транзакции записывает подписку в строку пользователя. Возвращает true,
// если переход выполнен этим вызовом, и false, если сессия уже была
// подтверждена ранее — подписка при этом не перезаписывается, поэтому
// повторные подтверждения не продлевают её ещё раз.
func (s *Storage) ConfirmCheckoutSession(ctx context.Context, sessionID string, e models.Entitlement) (bool, error) {
	const op = "storage.ConfirmCheckoutSession"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var userUID string
	query := `UPDATE checkout_sessions
			  SET status = $1
			  WHERE session_id = $2 AND status <> $1
			  RETURNING user_uid`
	err = tx.QueryRowContext(ctx, query, models.CheckoutStatusConfirmed, sessionID).Scan(&userUID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var postLimit sql.NullInt64
	if e.PostLimit != nil {
		postLimit = sql.NullInt64{Int64: int64(*e.PostLimit), Valid: true}
	}
	var subscribedAt, expiresAt sql.NullTime
	if e.SubscribedAt != nil {
		subscribedAt = sql.NullTime{Time: *e.SubscribedAt, Valid: true}
	}
	if e.ExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *e.ExpiresAt, Valid: true}
	}

	result, err := tx.ExecContext(ctx, `UPDATE users
			  SET plan = $1, post_limit = $2, subscribed_at = $3, expires_at = $4
			  WHERE uid = $5`,
		e.Plan, postLimit, subscribedAt, expiresAt, userUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return false, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
