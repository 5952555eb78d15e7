// Package updatesummary содержит HTTP-обработчик редактирования конспекта.
package updatesummary

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

// ContentService изменяет текст конспекта.
type ContentService interface {
	UpdateSummary(ctx context.Context, userUID, id, text string) (*models.Summary, error)
}

// Request новый текст конспекта.
type Request struct {
	SummaryID string `json:"summaryId" validate:"required,uuid"`
	Summary   string `json:"summary" validate:"required"`
}

// Response обновлённый конспект.
type Response struct {
	Success bool            `json:"success" example:"true"`
	Summary *models.Summary `json:"summary"`
}

// Handler обрабатывает редактирование конспекта.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP заменяет текст конспекта.
// @Summary Редактирование конспекта
// @Tags summary
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Идентификатор и новый текст"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /summary/update-summary [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.updatesummary"

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

	summary, err := h.contentService.UpdateSummary(r.Context(), userUID, req.SummaryID, req.Summary)
	if err != nil {
		response.RenderError(w, r, log, err, "Error updating summary")
		return
	}

	render.JSON(w, r, Response{Success: true, Summary: summary})
}
