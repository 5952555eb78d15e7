package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

// TokenValidator проверяет токен и возвращает идентификатор и email пользователя.
// Реализуется локальным сервисом аутентификации или gRPC-клиентом.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, string, error)
}

// JWTMiddleware возвращает middleware, которое проверяет JWT‑токен в заголовке Authorization
// и кладёт идентификатор и email пользователя в контекст запроса.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Access token required"))
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			userUID, email, err := validator.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userUID, email)))
		})
	}
}
