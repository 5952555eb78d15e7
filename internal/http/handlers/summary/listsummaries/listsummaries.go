// Package listsummaries содержит HTTP-обработчик списка конспектов.
package listsummaries

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

// ContentService возвращает конспекты пользователя.
type ContentService interface {
	ListSummaries(ctx context.Context, userUID string) ([]*models.Summary, error)
}

// Response список конспектов.
type Response struct {
	Success   bool              `json:"success" example:"true"`
	Summaries []*models.Summary `json:"summaries"`
}

// Handler обрабатывает список конспектов.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService}
}

// ServeHTTP возвращает конспекты пользователя, новые первыми.
// @Summary Список конспектов
// @Tags summary
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /summary/summaries [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.listsummaries"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.RequireUser(w, r, log)
	if !ok {
		return
	}

	summaries, err := h.contentService.ListSummaries(r.Context(), userUID)
	if err != nil {
		response.RenderError(w, r, log, err, "Error fetching summaries")
		return
	}
	if summaries == nil {
		summaries = []*models.Summary{}
	}

	render.JSON(w, r, Response{Success: true, Summaries: summaries})
}
