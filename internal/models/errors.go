package models

import "github.com/magabrotheeeer/study-assistant/internal/lib/apperr"

// Ошибки предметной области. Сообщения возвращаются клиенту как есть.
var (
	ErrUserNotFound              = apperr.New(apperr.KindNotFound, "User not found")
	ErrUserExists                = apperr.New(apperr.KindValidation, "User already exists")
	ErrUnknownEmail              = apperr.New(apperr.KindAuth, "User not found")
	ErrInvalidPassword           = apperr.New(apperr.KindAuth, "Invalid password")
	ErrIncorrectCurrentPassword  = apperr.New(apperr.KindAuth, "Current password is incorrect")
	ErrIncorrectPassword         = apperr.New(apperr.KindAuth, "Password is incorrect")
	ErrNoActiveSubscription      = apperr.New(apperr.KindValidation, "No active subscription to cancel")
	ErrSummaryNotFound           = apperr.New(apperr.KindNotFound, "Summary not found")
	ErrDeckNotFound              = apperr.New(apperr.KindNotFound, "Flashcard deck not found")
	ErrInvalidRouteConfiguration = apperr.New(apperr.KindInternal, "Invalid route configuration")
	ErrGeneratorUnavailable      = apperr.New(apperr.KindValidation, "Content generation is not configured")
	ErrPaymentDeclined           = apperr.New(apperr.KindValidation, "Payment was declined")
	ErrInvalidCard               = apperr.New(apperr.KindValidation, "Invalid card details")
	ErrUnauthorized              = apperr.New(apperr.KindUnauthorized, "User not authenticated")
)
