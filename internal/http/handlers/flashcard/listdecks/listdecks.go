// Package listdecks содержит HTTP-обработчик списка колод.
package listdecks

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// ContentService возвращает колоды пользователя с карточками.
type ContentService interface {
	ListDecks(ctx context.Context, userUID string) ([]*models.FlashcardDeck, error)
}

// Response список колод.
type Response struct {
	Success        bool                    `json:"success" example:"true"`
	FlashcardDecks []*models.FlashcardDeck `json:"flashcardDecks"`
}

// Handler обрабатывает список колод.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService}
}

// ServeHTTP возвращает колоды пользователя.
// @Summary Список колод
// @Tags flashcard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /flashcard/flashcard-decks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flashcard.listdecks"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	decks, err := h.contentService.ListDecks(r.Context(), userUID)
	if err != nil {
		response.RenderError(w, r, log, err, "Error fetching flashcard decks")
		return
	}
	if decks == nil {
		decks = []*models.FlashcardDeck{}
	}

	render.JSON(w, r, Response{Success: true, FlashcardDecks: decks})
}
