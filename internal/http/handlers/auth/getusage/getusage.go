// Package getusage содержит HTTP-обработчик статистики использования.
package getusage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// UsageService возвращает статистику использования пользователя.
type UsageService interface {
	GetUsage(ctx context.Context, userUID string) (*models.Usage, error)
}

// Handler обрабатывает запрос статистики.
type Handler struct {
	log          *slog.Logger
	usageService UsageService
}

// New создаёт обработчик.
func New(log *slog.Logger, usageService UsageService) *Handler {
	return &Handler{log: log, usageService: usageService}
}

// ServeHTTP возвращает число конспектов и колод и лимиты тарифа.
// @Summary Статистика использования
// @Description Лимиты равны null для платных пользователей.
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Usage
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.getusage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	usage, err := h.usageService.GetUsage(r.Context(), userUID)
	if err != nil {
		response.RenderError(w, r, log, err, "Error fetching usage stats")
		return
	}

	render.JSON(w, r, usage)
}
