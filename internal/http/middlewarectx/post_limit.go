package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chirp-backend/internal/http/response"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// QuotaService определяет интерфейс проверки лимита постов.
type QuotaService interface {
	AdmitPost(ctx context.Context, userUID string) error
}

// PostLimitMiddleware создает middleware, которое пропускает запрос на создание
// поста только при неисчерпанном лимите подписки пользователя.
func PostLimitMiddleware(log *slog.Logger, quota QuotaService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			err := quota.AdmitPost(r.Context(), userUID)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, models.ErrQuotaExceeded):
				log.Info("post denied by quota", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("post limit reached, upgrade to post more"))
			case errors.Is(err, models.ErrUserNotFound):
				log.Error("user not found", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error("user not found"))
			default:
				log.Error("failed to check post limit", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
			}
		})
	}
}
