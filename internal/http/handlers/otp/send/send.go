// Package send реализует HTTP-обработчик отправки одноразового кода на email.
package send

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chirp-backend/internal/http/response"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
)

// Request описывает тело запроса на отправку кода.
type Request struct {
	Email string `json:"email" validate:"required,email"` // Адрес получателя кода
}

// Handler управляет HTTP-запросами на отправку одноразового кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики выдачи кодов.
type Service interface {
	Issue(email string) error
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
// @Summary Отправить одноразовый код
// @Description Генерирует шестизначный код и отправляет его на указанный email.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Email получателя"
// @Success 200 {object} response.Response "Код отправлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка отправки письма"
// @Router /otp/send [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.send"
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

	if err := h.service.Issue(req.Email); err != nil {
		log.Error("failed to issue otp code", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to send code"))
		return
	}

	log.Info("otp code sent", slog.String("email", req.Email))
	render.JSON(w, r, response.OK())
}
