package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// GetEntitlement возвращает текущую подписку пользователя.
// Возвращает models.ErrUserNotFound, если пользователь отсутствует.
func (s *Storage) GetEntitlement(ctx context.Context, userUID string) (*models.Entitlement, error) {
	const op = "storage.GetEntitlement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT plan, post_limit, subscribed_at, expires_at
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var e models.Entitlement
	var postLimit sql.NullInt64
	var subscribedAt, expiresAt sql.NullTime
	if err := row.Scan(&e.Plan, &postLimit, &subscribedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if postLimit.Valid {
		limit := int(postLimit.Int64)
		e.PostLimit = &limit
	}
	if subscribedAt.Valid {
		e.SubscribedAt = &subscribedAt.Time
	}
	if expiresAt.Valid {
		e.ExpiresAt = &expiresAt.Time
	}
	return &e, nil
}

// SetEntitlement записывает подписку в строку пользователя.
// Возвращает models.ErrUserNotFound, если пользователь отсутствует.
func (s *Storage) SetEntitlement(ctx context.Context, userUID string, e models.Entitlement) error {
	const op = "storage.SetEntitlement"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
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

	query := `UPDATE users
			  SET plan = $1, post_limit = $2, subscribed_at = $3, expires_at = $4
			  WHERE uid = $5`
	result, err := s.DB.ExecContext(ctx, query, e.Plan, postLimit, subscribedAt, expiresAt, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

// GetUserByUID возвращает профиль пользователя вместе с подпиской.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, plan, post_limit, subscribed_at, expires_at
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	u := &models.User{}
	var postLimit sql.NullInt64
	var subscribedAt, expiresAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Username, &u.Email,
		&u.Entitlement.Plan, &postLimit, &subscribedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if postLimit.Valid {
		limit := int(postLimit.Int64)
		u.Entitlement.PostLimit = &limit
	}
	if subscribedAt.Valid {
		u.Entitlement.SubscribedAt = &subscribedAt.Time
	}
	if expiresAt.Valid {
		u.Entitlement.ExpiresAt = &expiresAt.Time
	}
	return u, nil
}
