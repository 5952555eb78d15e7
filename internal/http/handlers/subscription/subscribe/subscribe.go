// Package subscribe содержит HTTP-обработчик оформления премиум-подписки.
package subscribe

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

// SubscriptionService оформляет подписку с оплатой картой.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userUID string, details models.PaymentDetails) (*models.Subscription, error)
}

// Response сообщение и снимок подписки после оплаты.
type Response struct {
	Message string `json:"message" example:"Subscription activated successfully"`
	models.Subscription
}

// Handler обрабатывает оформление подписки.
type Handler struct {
	log                 *slog.Logger
	subscriptionService SubscriptionService
	validate            *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, subscriptionService SubscriptionService) *Handler {
	return &Handler{log: log, subscriptionService: subscriptionService, validate: validator.New()}
}

// ServeHTTP списывает стоимость тарифа и активирует премиум на 30 дней.
// @Summary Оформление подписки
// @Description Номер карты и CVV не сохраняются: в профиле остаются тип карты, последние 4 цифры и срок действия.
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.PaymentDetails true "Реквизиты карты"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/subscription/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

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

	sub, err := h.subscriptionService.Subscribe(r.Context(), userUID, details)
	if err != nil {
		response.RenderError(w, r, log, err, "Error processing subscription")
		return
	}

	log.Info("subscription activated", slog.String("user_uid", userUID))
	render.JSON(w, r, Response{Message: "Subscription activated successfully", Subscription: *sub})
}
