// Package confirm реализует HTTP-обработчик подтверждения оплаты подписки.
//
// Вызывается клиентом после возврата со страницы оплаты. Подтверждение
// идемпотентно: повторный вызов для уже подтверждённой сессии возвращает
// тот же результат без изменений подписки.
package confirm

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chirp-backend/internal/http/response"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// Request описывает тело запроса на подтверждение оплаты.
type Request struct {
	SessionID string `json:"session_id" validate:"required"` // Идентификатор сессии шлюза
}

// Handler управляет HTTP-запросами на подтверждение оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подтверждения оплаты.
type Service interface {
	ConfirmCheckout(ctx context.Context, sessionID string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Подтвердить оплату подписки
// @Description Запрашивает у шлюза статус сессии и применяет подписку, если она оплачена.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body Request true "Идентификатор сессии"
// @Success 200 {object} map[string]any "Результат подтверждения"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /subscription/confirm [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.confirm"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	confirmed, err := h.service.ConfirmCheckout(r.Context(), req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionNotFound):
			log.Error("checkout session not found", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("checkout session not found"))
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found for session", slog.String("session_id", req.SessionID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		default:
			log.Error("failed to confirm checkout", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		}
		return
	}

	log.Info("checkout confirmation processed",
		slog.String("session_id", req.SessionID),
		slog.Bool("confirmed", confirmed))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"confirmed": confirmed,
	}))
}
