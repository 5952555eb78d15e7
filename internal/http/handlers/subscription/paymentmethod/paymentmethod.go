// Package paymentmethod содержит HTTP-обработчик замены платёжной карты.
package paymentmethod

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

// SubscriptionService обновляет платёжный метод без изменения статуса подписки.
type SubscriptionService interface {
	UpdatePaymentMethod(ctx context.Context, userUID string, details models.PaymentDetails) (*models.Subscription, error)
}

// Response сообщение и снимок подписки после замены карты.
type Response struct {
	Message string `json:"message" example:"Payment method updated successfully"`
	models.Subscription
}

// Handler обрабатывает замену карты.
type Handler struct {
	log                 *slog.Logger
	subscriptionService SubscriptionService
	validate            *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, subscriptionService SubscriptionService) *Handler {
	return &Handler{log: log, subscriptionService: subscriptionService, validate: validator.New()}
}

// ServeHTTP сохраняет новую карту пользователя.
// @Summary Замена платёжной карты
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.PaymentDetails true "Реквизиты карты"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/subscription/payment-method [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.paymentmethod"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	var details models.PaymentDetails
	if err := response.Bind(r, h.validate, &details); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	sub, err := h.subscriptionService.UpdatePaymentMethod(r.Context(), userUID, details)
	if err != nil {
		response.RenderError(w, r, log, err, "Error updating payment method")
		return
	}

	render.JSON(w, r, Response{Message: "Payment method updated successfully", Subscription: *sub})
}
