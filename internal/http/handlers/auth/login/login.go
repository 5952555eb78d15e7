// Package login содержит HTTP-обработчик входа пользователя.
package login

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Request тело запроса на вход.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response токен доступа и профиль пользователя.
type Response struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

// Handler обрабатывает вход.
type Handler struct {
	log         *slog.Logger
	authService AuthService
	validate    *validator.Validate
}

// New создаёт обработчик входа.
func New(log *slog.Logger, authService AuthService) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		validate:    validator.New(),
	}
}

// ServeHTTP проверяет учётные данные и выдаёт JWT.
// @Summary Вход пользователя
// @Description Возвращает токен на 24 часа и профиль с актуальным состоянием подписки.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Email и пароль"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := response.Bind(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.RenderError(w, r, log, err, "Error logging in")
		return
	}

	log.Info("user logged in", slog.String("user_uid", user.UUID))
	render.JSON(w, r, Response{Token: token, User: user.Profile()})
}
