// Package studyassistant собирает HTTP API: маршруты, middleware и зависимости.
package studyassistant

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/auth/deleteaccount"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/auth/getusage"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/flashcard/addcard"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/flashcard/createdeck"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/flashcard/listdecks"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/flashcard/removedeck"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/generate/genflashcards"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/generate/gensummary"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/health"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/subscription/cancel"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/subscription/paymentmethod"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/subscription/status"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/subscription/subscribe"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/summary/listsummaries"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/summary/readsummary"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/summary/removesummary"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/summary/updatesummary"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/summary/uploadraw"
	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/study-assistant/internal/services/auth"
	"github.com/magabrotheeeer/study-assistant/internal/services/content"
	"github.com/magabrotheeeer/study-assistant/internal/services/subscription"
	"github.com/magabrotheeeer/study-assistant/internal/services/usage"
)

const rateLimitIdleTTL = 10 * time.Minute

// Services зависимости обработчиков.
type Services struct {
	Auth           *authservice.Service
	Subscriptions  *subscription.Service
	Usage          *usage.Service
	Content        *content.Service
	TokenValidator middlewarectx.TokenValidator
	Pingers        map[string]health.Pinger
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, svc Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)

	limiter := middlewarectx.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateLimitIdleTTL)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))
			r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.TokenValidator, logger))

			r.Post("/auth/change-password", changepassword.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/delete-account", deleteaccount.New(logger, svc.Auth).ServeHTTP)
			r.Get("/auth/usage", getusage.New(logger, svc.Usage).ServeHTTP)

			r.Get("/auth/subscription", status.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/auth/subscription", update.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/auth/subscription/cancel", cancel.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/auth/subscription/subscribe", subscribe.New(logger, svc.Subscriptions).ServeHTTP)
			r.Post("/auth/subscription/payment-method", paymentmethod.New(logger, svc.Subscriptions).ServeHTTP)

			r.Get("/summary/summaries", listsummaries.New(logger, svc.Content).ServeHTTP)
			r.Post("/summary/update-summary", updatesummary.New(logger, svc.Content).ServeHTTP)
			r.Get("/summary/{id}", readsummary.New(logger, svc.Content).ServeHTTP)
			r.Delete("/summary/{id}", removesummary.New(logger, svc.Content).ServeHTTP)

			r.Post("/flashcard/flashcard", addcard.New(logger, svc.Content).ServeHTTP)
			r.Get("/flashcard/flashcard-decks", listdecks.New(logger, svc.Content).ServeHTTP)
			r.Delete("/flashcard/flashcard-deck/{id}", removedeck.New(logger, svc.Content).ServeHTTP)

			r.Post("/generate-summary", gensummary.New(logger, svc.Content).ServeHTTP)
			r.Post("/generate-flashcards", genflashcards.New(logger, svc.Content).ServeHTTP)

			// Создание материалов ограничено бесплатным тарифом
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.FreeTierMiddleware(logger, svc.Usage))
				r.Post("/summary/upload-raw", uploadraw.New(logger, svc.Content).ServeHTTP)
				r.Post("/flashcard/flashcard-deck", createdeck.New(logger, svc.Content).ServeHTTP)
			})
		})
	})

	r.Get("/healthz", health.New(logger, svc.Pingers).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
