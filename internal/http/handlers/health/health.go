// Package health содержит HTTP-обработчик проверки готовности сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response состояние сервиса.
type Response struct {
	Status string `json:"status" example:"ok"`
}

// Handler отвечает на проверки готовности.
type Handler struct {
	log     *slog.Logger
	pingers map[string]Pinger
}

// New создаёт обработчик; pingers — зависимости по имени.
func New(log *slog.Logger, pingers map[string]Pinger) *Handler {
	return &Handler{log: log, pingers: pingers}
}

// ServeHTTP проверяет зависимости.
// @Summary Проверка готовности
// @Tags health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} response.ErrorResponse
// @Router /healthz [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	for name, p := range h.pingers {
		if err := p.Ping(ctx); err != nil {
			h.log.Error("health check failed", slog.String("dependency", name), sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error(name+" unavailable"))
			return
		}
	}

	render.JSON(w, r, Response{Status: "ok"})
}
