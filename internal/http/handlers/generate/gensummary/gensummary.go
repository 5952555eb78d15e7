// Package gensummary содержит HTTP-обработчик генерации конспекта без сохранения.
package gensummary

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

// ContentService генерирует конспект текста.
type ContentService interface {
	GenerateSummary(ctx context.Context, text string) (string, error)
}

// Request исходный текст.
type Request struct {
	Text string `json:"text" validate:"required"`
}

// Response сгенерированный конспект.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Summary string `json:"summary"`
}

// Handler обрабатывает генерацию конспекта.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP возвращает конспект текста.
// @Summary Генерация конспекта
// @Tags generate
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Текст"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /generate-summary [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generate.gensummary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if _, ok := middlewarectx.RequireUser(w, r, log); !ok {
		return
	}

	var req Request
	if err := response.Bind(r, h.validate, &req); err != nil {
		response.RenderError(w, r, log, err, response.InternalMessage)
		return
	}

	summary, err := h.contentService.GenerateSummary(r.Context(), req.Text)
	if err != nil {
		response.RenderError(w, r, log, err, "Error generating summary")
		return
	}

	render.JSON(w, r, Response{Success: true, Summary: summary})
}
