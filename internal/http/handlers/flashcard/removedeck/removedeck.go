// Package removedeck содержит HTTP-обработчик удаления колоды.
package removedeck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
)

// ContentService удаляет колоду пользователя.
type ContentService interface {
	DeleteDeck(ctx context.Context, userUID, deckID string) error
}

// Handler обрабатывает удаление колоды.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService}
}

// ServeHTTP удаляет колоду вместе с карточками.
// @Summary Удаление колоды
// @Tags flashcard
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID колоды"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /flashcard/flashcard-deck/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flashcard.removedeck"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		response.RenderError(w, r, log, apperr.Wrap(err, apperr.KindValidation, "Invalid flashcard deck id"), "")
		return
	}

	if err := h.contentService.DeleteDeck(r.Context(), userUID, id); err != nil {
		response.RenderError(w, r, log, err, "Error deleting flashcard deck")
		return
	}

	log.Info("flashcard deck deleted", slog.String("deck_id", id))
	render.JSON(w, r, response.SuccessResponse{Success: true, Message: "Flashcard deck deleted successfully"})
}
