// Package changepassword содержит HTTP-обработчик смены пароля.
package changepassword

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

// AuthService определяет смену пароля.
type AuthService interface {
	ChangePassword(ctx context.Context, userUID, currentPassword, newPassword string) error
}

// Request тело запроса на смену пароля.
type Request struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// Handler обрабатывает смену пароля.
type Handler struct {
	log         *slog.Logger
	authService AuthService
	validate    *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, authService AuthService) *Handler {
	return &Handler{log: log, authService: authService, validate: validator.New()}
}

// ServeHTTP меняет пароль текущего пользователя.
// @Summary Смена пароля
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Текущий и новый пароль"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/change-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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

	if err := h.authService.ChangePassword(r.Context(), userUID, req.CurrentPassword, req.NewPassword); err != nil {
		response.RenderError(w, r, log, err, "Error changing password")
		return
	}

	log.Info("password changed", slog.String("user_uid", userUID))
	render.JSON(w, r, response.MessageResponse{Message: "Password changed successfully"})
}
