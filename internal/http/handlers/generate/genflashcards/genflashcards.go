// Package genflashcards содержит HTTP-обработчик генерации карточек без сохранения.
package genflashcards

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

// ContentService генерирует карточки по тексту.
type ContentService interface {
	GenerateFlashcards(ctx context.Context, text string) ([]models.QA, error)
}

// Request исходный текст.
type Request struct {
	Text string `json:"text" validate:"required"`
}

// Response сгенерированные пары вопрос/ответ.
type Response struct {
	Success    bool        `json:"success" example:"true"`
	Flashcards []models.QA `json:"flashcards"`
}

// Handler обрабатывает генерацию карточек.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP возвращает карточки по тексту.
// @Summary Генерация карточек
// @Tags generate
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Текст"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /generate-flashcards [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generate.genflashcards"

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

	cards, err := h.contentService.GenerateFlashcards(r.Context(), req.Text)
	if err != nil {
		response.RenderError(w, r, log, err, "Error generating flashcards")
		return
	}
	if cards == nil {
		cards = []models.QA{}
	}

	render.JSON(w, r, Response{Success: true, Flashcards: cards})
}
