// Package update содержит HTTP-обработчик частичного обновления подписки.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// SubscriptionService применяет частичное обновление подписки.
type SubscriptionService interface {
	Update(ctx context.Context, userUID string, patch models.SubscriptionPatch) (*models.Subscription, error)
}

// Handler обрабатывает обновление подписки.
type Handler struct {
	log                 *slog.Logger
	subscriptionService SubscriptionService
	validate            *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, subscriptionService SubscriptionService) *Handler {
	return &Handler{log: log, subscriptionService: subscriptionService, validate: validator.New()}
}

// ServeHTTP обновляет переданные поля подписки. Запись затем нормализуется,
// номер карты сохраняется только в виде типа и последних цифр.
// @Summary Обновление подписки
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.SubscriptionPatch true "Изменяемые поля"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	var patch models.SubscriptionPatch
	if err := response.Bind(r, h.validate, &patch); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	sub, err := h.subscriptionService.Update(r.Context(), userUID, patch)
	if err != nil {
		response.RenderError(w, r, log, err, "Error updating subscription")
		return
	}

	log.Info("subscription updated", slog.String("user_uid", userUID), slog.String("status", string(sub.Status)))
	render.JSON(w, r, sub)
}
