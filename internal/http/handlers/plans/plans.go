// Package plans реализует HTTP-обработчик каталога тарифов.
package plans

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chirp-backend/internal/http/response"
	planscatalog "github.com/magabrotheeeer/chirp-backend/internal/plans"
)

// Handler отдаёт статический каталог тарифов.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Каталог тарифов
// @Description Возвращает список тарифов с ценами, лимитами и возможностями.
// @Tags Plans
// @Produce  json
// @Success 200 {object} map[string]any "Каталог тарифов"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": planscatalog.All(),
	}))
}
