// Package apperr описывает таксономию ошибок приложения.
//
// Каждая ошибка бизнес-уровня несёт Kind, по которому HTTP-слой выбирает
// статус ответа, и сообщение, безопасное для показа клиенту. Ошибка превышения
// бесплатного лимита оформлена отдельным типом LimitError, так как клиенту
// возвращается машиночитаемая полезная нагрузка.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку для слоя транспорта.
type Kind int

const (
	// KindInternal непредвиденная ошибка хранилища или конфигурации.
	KindInternal Kind = iota
	// KindValidation некорректные входные данные.
	KindValidation
	// KindAuth неверные учётные данные.
	KindAuth
	// KindUnauthorized отсутствующий или невалидный токен.
	KindUnauthorized
	// KindNotFound пользователь или ресурс не найден.
	KindNotFound
	// KindLimit превышен бесплатный лимит.
	KindLimit
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindLimit:
		return "limit"
	default:
		return "internal"
	}
}

// Error ошибка приложения с видом и клиентским сообщением.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New создаёт ошибку заданного вида.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap оборачивает err, сохраняя возможность errors.Is/As по исходной ошибке.
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation создаёт ошибку валидации с сообщением для клиента.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// KindOf возвращает вид ошибки; ошибки вне таксономии считаются внутренними.
func KindOf(err error) Kind {
	var limitErr *LimitError
	if errors.As(err, &limitErr) {
		return KindLimit
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message возвращает клиентское сообщение ошибки или fallback для внутренних ошибок.
func Message(err error, fallback string) string {
	var limitErr *LimitError
	if errors.As(err, &limitErr) {
		return limitErr.Message()
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return fallback
}

// HTTPStatus сопоставляет вид ошибки HTTP-статусу.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindAuth:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindLimit:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
