// Package status содержит HTTP-обработчик чтения состояния подписки.
package status

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

// SubscriptionService возвращает снимок подписки.
type SubscriptionService interface {
	GetStatus(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Handler обрабатывает чтение подписки.
type Handler struct {
	log                 *slog.Logger
	subscriptionService SubscriptionService
}

// New создаёт обработчик.
func New(log *slog.Logger, subscriptionService SubscriptionService) *Handler {
	return &Handler{log: log, subscriptionService: subscriptionService}
}

// ServeHTTP возвращает состояние подписки с учётом истечения срока.
// @Summary Состояние подписки
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Subscription
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.GetStatus(r.Context(), userUID)
	if err != nil {
		response.RenderError(w, r, log, err, "Error fetching subscription status")
		return
	}

	render.JSON(w, r, sub)
}
