// Package post содержит бизнес-логику создания и чтения постов.
// Допуском поста по лимиту занимается отдельный сервис квоты,
// подключённый как middleware перед обработчиком создания.
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// Repository определяет методы для работы с постами в хранилище.
type Repository interface {
	// CreatePost добавляет новый пост и возвращает его идентификатор.
	CreatePost(ctx context.Context, post models.Post) (string, error)
	// ListPosts возвращает посты пользователя с пагинацией.
	ListPosts(ctx context.Context, userUID string, limit, offset int) ([]*models.Post, error)
}

// PostService реализует бизнес-логику работы с постами.
type PostService struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр PostService.
func New(repo Repository, log *slog.Logger) *PostService {
	return &PostService{
		repo: repo,
		log:  log,
	}
}

// Create создает новый пост пользователя и возвращает его идентификатор.
func (s *PostService) Create(ctx context.Context, userUID string, req models.DummyPost) (string, error) {
	const op = "services.post.Create"

	entry := models.Post{
		ID:        uuid.New().String(),
		UserUID:   userUID,
		Text:      req.Text,
		Img:       req.Img,
		Audio:     req.Audio,
		Video:     req.Video,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.repo.CreatePost(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new post", slog.String("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// List возвращает посты пользователя, новые первыми.
func (s *PostService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Post, error) {
	const op = "services.post.List"

	result, err := s.repo.ListPosts(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
