// Package register содержит HTTP-обработчик регистрации пользователя.
package register

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
)

// Request тело запроса на регистрацию.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler обрабатывает регистрацию.
type Handler struct {
	log         *slog.Logger
	authService AuthService
	validate    *validator.Validate
}

// New создаёт обработчик регистрации.
func New(log *slog.Logger, authService AuthService) *Handler {
	return &Handler{
		log:         log,
		authService: authService,
		validate:    validator.New(),
	}
}

// ServeHTTP регистрирует пользователя.
// @Summary Регистрация пользователя
// @Description Создаёт пользователя с бесплатным тарифом. Пароль: не короче 8 символов, заглавная и строчная буква, цифра.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Email и пароль"
// @Success 201 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := response.Bind(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	userUID, err := h.authService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.RenderError(w, r, log, err, "Error creating user")
		return
	}

	log.Info("user registered", slog.String("user_uid", userUID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.MessageResponse{Message: "User created successfully"})
}
