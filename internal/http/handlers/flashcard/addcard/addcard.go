// Package addcard содержит HTTP-обработчик добавления карточки в колоду.
package addcard

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

// ContentService добавляет карточку в колоду пользователя.
type ContentService interface {
	AddFlashcard(ctx context.Context, userUID, deckID string, qa models.QA) (*models.Flashcard, error)
}

// Request новая карточка.
type Request struct {
	DeckID   string `json:"deckId" validate:"required,uuid"`
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

// Response созданная карточка.
type Response struct {
	Success   bool              `json:"success" example:"true"`
	Flashcard *models.Flashcard `json:"flashcard"`
}

// Handler обрабатывает добавление карточки.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP добавляет карточку в конец колоды.
// @Summary Добавление карточки
// @Tags flashcard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Карточка"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /flashcard/flashcard [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flashcard.addcard"

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

	card, err := h.contentService.AddFlashcard(r.Context(), userUID, req.DeckID, models.QA{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		response.RenderError(w, r, log, err, "Error adding flashcard")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Success: true, Flashcard: card})
}
