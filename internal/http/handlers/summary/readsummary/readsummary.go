// Package readsummary содержит HTTP-обработчик чтения конспекта.
package readsummary

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
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// ContentService возвращает конспект пользователя.
type ContentService interface {
	GetSummary(ctx context.Context, userUID, id string) (*models.Summary, error)
}

// Response найденный конспект.
type Response struct {
	Success bool            `json:"success" example:"true"`
	Summary *models.Summary `json:"summary"`
}

// Handler обрабатывает чтение конспекта.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService}
}

// ServeHTTP возвращает конспект по идентификатору.
// @Summary Чтение конспекта
// @Tags summary
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID конспекта"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /summary/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.readsummary"

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
		response.RenderError(w, r, log, apperr.Wrap(err, apperr.KindValidation, "Invalid summary id"), "")
		return
	}

	summary, err := h.contentService.GetSummary(r.Context(), userUID, id)
	if err != nil {
		response.RenderError(w, r, log, err, "Error fetching summary")
		return
	}

	render.JSON(w, r, Response{Success: true, Summary: summary})
}
