package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// CreatePost вставляет новый пост и возвращает его идентификатор.
func (s *Storage) CreatePost(ctx context.Context, post models.Post) (string, error) {
	const op = "storage.CreatePost"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO posts (id, user_uid, text, img, audio, video, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		post.ID, post.UserUID, post.Text, post.Img, post.Audio, post.Video, post.CreatedAt).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CountPostsSince возвращает количество постов пользователя, созданных
// начиная с periodStart. Используется квота-гвардом для расчёта остатка лимита.
func (s *Storage) CountPostsSince(ctx context.Context, userUID string, periodStart time.Time) (int, error) {
	const op = "storage.CountPostsSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM posts
			  WHERE user_uid = $1 AND created_at >= $2`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, userUID, periodStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListPosts возвращает список постов пользователя с пагинацией,
// новые записи первыми.
func (s *Storage) ListPosts(ctx context.Context, userUID string, limit, offset int) ([]*models.Post, error) {
	const op = "storage.ListPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, text, img, audio, video, created_at
			  FROM posts
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result []*models.Post
	for rows.Next() {
		var item models.Post
		if err := rows.Scan(&item.ID, &item.UserUID, &item.Text, &item.Img,
			&item.Audio, &item.Video, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	err = rows.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
