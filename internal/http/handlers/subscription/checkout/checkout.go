// Package checkout реализует HTTP-обработчик оформления платной подписки.
//
// Handler принимает имя тарифа и цену, валидирует их, открывает checkout-сессию
// платёжного шлюза через сервис и возвращает идентификатор сессии со ссылкой
// на страницу оплаты.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/chirp-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chirp-backend/internal/http/response"
	"github.com/magabrotheeeer/chirp-backend/internal/lib/sl"
	"github.com/magabrotheeeer/chirp-backend/internal/models"
)

// Request описывает тело запроса на оформление подписки.
type Request struct {
	Plan  string `json:"plan" validate:"required"`      // Имя тарифа из каталога
	Price int    `json:"price" validate:"required,gte=0"` // Цена в минимальных единицах валюты
}

// Handler управляет HTTP-запросами на оформление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	CreateCheckout(ctx context.Context, userUID, planName string, price int) (string, string, error)
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
// @Summary Оформить подписку
// @Description Открывает checkout-сессию платёжного шлюза для текущего пользователя.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body Request true "Тариф и цена"
// @Success 200 {object} map[string]any "Идентификатор сессии и ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Неизвестный тариф"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /subscription/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.checkout"
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

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sessionID, url, err := h.service.CreateCheckout(r.Context(), userUID, req.Plan, req.Price)
	if err != nil {
		if errors.Is(err, models.ErrUnknownPlan) {
			log.Error("unknown plan", slog.String("plan", req.Plan))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("unknown plan"))
			return
		}
		log.Error("failed to create checkout session", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("payment gateway unavailable"))
		return
	}

	log.Info("checkout session created", slog.String("session_id", sessionID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"session_id": sessionID,
		"url":        url,
	}))
}
