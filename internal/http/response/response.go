// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: ошибок, ошибок валидации
// и ответа при исчерпании бесплатного лимита.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

const (
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
	// InternalMessage сообщение клиенту при внутренней ошибке.
	InternalMessage = "Internal server error"
)

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Status  string `json:"status" example:"Error"`
	Message string `json:"message" example:"User not found"`
}

// LimitResponse тело ответа 403 при исчерпании бесплатного лимита.
type LimitResponse struct {
	Status       string `json:"status" example:"Error"`
	Error        string `json:"error" example:"FREE_TIER_LIMIT"`
	Message      string `json:"message" example:"Free-tier users can only generate 3 summaries."`
	CurrentCount int    `json:"currentCount" example:"3"`
	Limit        int    `json:"limit" example:"3"`
	ResourceType string `json:"resourceType" example:"summary"`
}

// MessageResponse ответ с текстовым сообщением.
type MessageResponse struct {
	Message string `json:"message" example:"User created successfully"`
}

// SuccessResponse ответ об успешной операции над материалами.
type SuccessResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Summary deleted successfully"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Message: msg,
	}
}

// Limit формирует тело ответа по ошибке лимита.
func Limit(e *apperr.LimitError) LimitResponse {
	return LimitResponse{
		Status:       StatusError,
		Error:        apperr.LimitCode,
		Message:      e.Message(),
		CurrentCount: e.CurrentCount,
		Limit:        e.Limit,
		ResourceType: e.ResourceType,
	}
}

// ValidationError формирует сообщение на основе ошибок валидации.
// Каждое нарушение превращается в человеко‑читаемый текст, тексты объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		case "min", "max", "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has invalid length", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// Bind декодирует JSON-тело запроса в dst и проверяет его валидатором.
// Ошибки возвращаются как ошибки валидации с сообщением для клиента.
func Bind(r *http.Request, validate *validator.Validate, dst any) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return apperr.Wrap(err, apperr.KindValidation, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return apperr.Wrap(err, apperr.KindValidation, ValidationError(verrs).Message)
		}
		return apperr.Wrap(err, apperr.KindValidation, "invalid request body")
	}
	return nil
}

// RenderError пишет ответ для err: статус выбирается по виду ошибки,
// внутренние ошибки логируются и скрываются за fallback.
func RenderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, fallback string) {
	code := apperr.HTTPStatus(err)
	render.Status(r, code)

	var limitErr *apperr.LimitError
	if errors.As(err, &limitErr) {
		log.Info("free tier limit reached",
			slog.String("resource", limitErr.ResourceType),
			slog.Int("current_count", limitErr.CurrentCount))
		render.JSON(w, r, Limit(limitErr))
		return
	}

	if code >= http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Warn("request rejected", slog.Int("status", code), sl.Err(err))
	}
	render.JSON(w, r, Error(apperr.Message(err, fallback)))
}
