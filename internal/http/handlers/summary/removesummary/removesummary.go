// Package removesummary содержит HTTP-обработчик удаления конспекта.
package removesummary

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

// ContentService удаляет конспект пользователя.
type ContentService interface {
	DeleteSummary(ctx context.Context, userUID, id string) error
}

// Handler обрабатывает удаление конспекта.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService}
}

// ServeHTTP удаляет конспект по идентификатору.
// @Summary Удаление конспекта
// @Tags summary
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID конспекта"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /summary/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.removesummary"

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

	if err := h.contentService.DeleteSummary(r.Context(), userUID, id); err != nil {
		response.RenderError(w, r, log, err, "Error deleting summary")
		return
	}

	log.Info("summary deleted", slog.String("summary_id", id))
	render.JSON(w, r, response.SuccessResponse{Success: true, Message: "Summary deleted successfully"})
}
