// Package uploadraw содержит HTTP-обработчик сохранения конспекта
// из извлечённого текста.
package uploadraw

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

// ContentService сохраняет конспект с учётом квоты.
type ContentService interface {
	CreateSummary(ctx context.Context, userUID string, quota models.Quota, in content.SummaryInput) (*models.Summary, error)
}

// Request исходный текст и, при наличии, готовый конспект.
type Request struct {
	Title         string `json:"title" example:"Lecture 1"`
	ExtractedText string `json:"extractedText" validate:"required"`
	SummaryText   string `json:"summaryText"`
}

// Response сохранённый конспект.
type Response struct {
	Success       bool   `json:"success" example:"true"`
	ExtractedText string `json:"extractedText"`
	Summary       string `json:"summary"`
	SummaryID     string `json:"summaryId"`
}

// Handler обрабатывает сохранение конспекта.
type Handler struct {
	log            *slog.Logger
	contentService ContentService
	validate       *validator.Validate
}

// New создаёт обработчик.
func New(log *slog.Logger, contentService ContentService) *Handler {
	return &Handler{log: log, contentService: contentService, validate: validator.New()}
}

// ServeHTTP сохраняет конспект. Пустой summaryText генерируется из extractedText.
// @Summary Сохранение конспекта
// @Description Бесплатный тариф ограничен тремя конспектами.
// @Tags summary
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Request true "Текст документа"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.LimitResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /summary/upload-raw [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.summary.uploadraw"

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

	summary, err := h.contentService.CreateSummary(r.Context(), userUID, middlewarectx.QuotaFromContext(r.Context()), content.SummaryInput{
		Title:       req.Title,
		Text:        req.ExtractedText,
		SummaryText: req.SummaryText,
	})
	if err != nil {
		response.RenderError(w, r, log, err, "Error processing text")
		return
	}

	log.Info("summary saved", slog.String("summary_id", summary.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Success:       true,
		ExtractedText: summary.ExtractedText,
		Summary:       summary.Summary,
		SummaryID:     summary.ID,
	})
}
