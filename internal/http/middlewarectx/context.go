// Package middlewarectx содержит middleware HTTP-сервера: проверку JWT,
// ограничение бесплатного тарифа и ограничение частоты запросов, а также
// типизированные ключи контекста запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Key тип ключей контекста запроса.
type Key string

const (
	// UserUIDKey идентификатор пользователя из токена.
	UserUIDKey Key = "user_uid"
	// EmailKey email пользователя из токена.
	EmailKey Key = "email"
	// QuotaKey решение ограничителя бесплатного тарифа.
	QuotaKey Key = "quota"
)

// WithUser кладёт данные пользователя в контекст.
func WithUser(ctx context.Context, userUID, email string) context.Context {
	ctx = context.WithValue(ctx, UserUIDKey, userUID)
	return context.WithValue(ctx, EmailKey, email)
}

// UserUIDFromContext возвращает идентификатор пользователя, положенный JWTMiddleware.
func UserUIDFromContext(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(UserUIDKey).(string)
	return uid, ok && uid != ""
}

// EmailFromContext возвращает email пользователя из контекста.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

// WithQuota кладёт решение ограничителя в контекст.
func WithQuota(ctx context.Context, quota models.Quota) context.Context {
	return context.WithValue(ctx, QuotaKey, quota)
}

// QuotaFromContext возвращает решение ограничителя; без него квота не ограничена.
func QuotaFromContext(ctx context.Context) models.Quota {
	if quota, ok := ctx.Value(QuotaKey).(models.Quota); ok {
		return quota
	}
	return models.Quota{Unlimited: true}
}

// RequireUser достаёт идентификатор пользователя или отвечает 401.
func RequireUser(w http.ResponseWriter, r *http.Request, log *slog.Logger) (string, bool) {
	uid, ok := UserUIDFromContext(r.Context())
	if !ok {
		response.RenderError(w, r, log, models.ErrUnauthorized, models.ErrUnauthorized.Message)
		return "", false
	}
	return uid, true
}
