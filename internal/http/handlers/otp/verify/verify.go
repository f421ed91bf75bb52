// Package verify реализует HTTP-обработчик проверки одноразового кода.
package verify

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

// Request описывает тело запроса на проверку кода.
type Request struct {
	Email string `json:"email" validate:"required,email"`       // Адрес, на который был отправлен код
	Code  string `json:"code" validate:"required,numeric,len=6"` // Шестизначный код из письма
}

// Handler управляет HTTP-запросами на проверку одноразового кода.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики проверки кодов.
type Service interface {
	Verify(email, code string) (bool, error)
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
// @Summary Проверить одноразовый код
// @Description Сверяет код с выданным ранее. Успешная проверка гасит код.
// @Tags OTP
// @Accept  json
// @Produce  json
// @Param request body Request true "Email и код"
// @Success 200 {object} map[string]any "Результат проверки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неверный код"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /otp/verify [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.otp.verify"
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

	valid, err := h.service.Verify(req.Email, req.Code)
	if err != nil {
		log.Error("failed to verify otp code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify code"))
		return
	}

	if !valid {
		log.Info("otp code rejected", slog.String("email", req.Email))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid or expired code"))
		return
	}

	log.Info("otp code verified", slog.String("email", req.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"valid": true,
	}))
}
