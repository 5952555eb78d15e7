// Package cancel содержит HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// SubscriptionService отменяет подписку.
type SubscriptionService interface {
	Cancel(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Response результат отмены: доступ сохраняется до SubscriptionEnd.
type Response struct {
	Message            string                    `json:"message" example:"Subscription cancelled successfully"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscriptionStatus" example:"cancelled"`
	SubscriptionEnd    *time.Time                `json:"subscriptionEnd"`
}

// Handler обрабатывает отмену подписки.
type Handler struct {
	log                 *slog.Logger
	subscriptionService SubscriptionService
}

// New создаёт обработчик.
func New(log *slog.Logger, subscriptionService SubscriptionService) *Handler {
	return &Handler{log: log, subscriptionService: subscriptionService}
}

// ServeHTTP отменяет подписку с сохранением доступа до конца оплаченного периода.
// @Summary Отмена подписки
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/subscription/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Cancel(r.Context(), userUID)
	if err != nil {
		response.RenderError(w, r, log, err, "Error cancelling subscription")
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", userUID))
	render.JSON(w, r, Response{
		Message:            "Subscription cancelled successfully",
		SubscriptionStatus: sub.Status,
		SubscriptionEnd:    sub.End,
	})
}
