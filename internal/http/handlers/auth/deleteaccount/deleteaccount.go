// Package deleteaccount содержит HTTP-обработчик удаления аккаунта.
package deleteaccount

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
)

// AuthService определяет удаление аккаунта.
type AuthService interface {
	DeleteAccount(ctx context.Context, userUID, password string) error
}

// Request подтверждение удаления паролем.
type Request struct {
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает удаление аккаунта.
type Handler struct {
	log         *slog.Logger
	authService AuthService
	validate    *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, authService AuthService) *Handler {
	return &Handler{log: log, authService: authService, validate: validator.New()}
}

// ServeHTTP удаляет аккаунт вместе с конспектами и колодами.
// @Summary Удаление аккаунта
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Пароль"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/delete-account [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deleteaccount"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	var req Request
	if err := response.Bind(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), userUID, req.Password); err != nil {
		response.RenderError(w, r, log, err, "Error deleting account")
		return
	}

	log.Info("account deleted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.MessageResponse{Message: "Account deleted successfully"})
}
