package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/metrics"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Authorizer решает, может ли пользователь создать ещё один ресурс по маршруту path.
type Authorizer interface {
	Authorize(ctx context.Context, userUID, path string) (models.Quota, error)
}

// FreeTierMiddleware пропускает премиум-пользователей, а бесплатным запрещает
// создание ресурса сверх лимита. Решение кладётся в контекст для обработчика,
// который повторно проверяет лимит в транзакции вставки.
func FreeTierMiddleware(log *slog.Logger, authorizer Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.FreeTierMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := RequireUser(w, r, log)
			if !ok {
				return
			}

			quota, err := authorizer.Authorize(r.Context(), userUID, r.URL.Path)
			if err != nil {
				var limitErr *apperr.LimitError
				if errors.As(err, &limitErr) {
					metrics.FreeTierRejections.WithLabelValues(limitErr.ResourceType).Inc()
				}
				fallback := "Error checking usage limits"
				if errors.Is(err, models.ErrInvalidRouteConfiguration) {
					fallback = models.ErrInvalidRouteConfiguration.Message
				}
				response.RenderError(w, r, log, err, fallback)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithQuota(r.Context(), quota)))
		})
	}
}
