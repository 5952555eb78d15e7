// Package createdeck содержит HTTP-обработчик создания колоды карточек.
package createdeck

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
	"github.com/magabrotheeeer/study-assistant/internal/services/content"
)

// ContentService создаёт колоду с учётом квоты.
type ContentService interface {
	CreateDeck(ctx context.Context, userUID string, quota models.Quota, in content.DeckInput) (*models.FlashcardDeck, error)
}

// Request данные новой колоды. Если generate=true и карточки не переданы,
// они генерируются из extractedText.
type Request struct {
	DeckName      string      `json:"deckName" validate:"required"`
	ExtractedText string      `json:"extractedText"`
	Flashcards    []models.QA `json:"flashcards" validate:"dive"`
	Generate      bool        `json:"generate"`
}

// Response созданная колода.
type Response struct {
	Success       bool                  `json:"success" example:"true"`
	FlashcardDeck *models.FlashcardDeck `json:"flashcardDeck"`
}

// Handler обрабатывает создание колоды.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP создаёт колоду.
// @Summary Создание колоды карточек
// @Description Бесплатный тариф ограничен тремя колодами.
// @Tags flashcard
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Колода"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.LimitResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /flashcard/flashcard-deck [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.flashcard.createdeck"

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

	deck, err := h.contentService.CreateDeck(r.Context(), userUID, middlewarectx.QuotaFromContext(r.Context()), content.DeckInput{
		Name:          req.DeckName,
		ExtractedText: req.ExtractedText,
		Flashcards:    req.Flashcards,
		Generate:      req.Generate,
	})
	if err != nil {
		response.RenderError(w, r, log, err, "Error creating flashcard deck")
		return
	}

	log.Info("flashcard deck created", slog.String("deck_id", deck.ID), slog.Int("cards", len(deck.Flashcards)))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Success: true, FlashcardDeck: deck})
}
