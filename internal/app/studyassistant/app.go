package studyassistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/study-assistant/internal/cache"
	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/generator"
	"github.com/magabrotheeeer/study-assistant/internal/grpc/client"
	"github.com/magabrotheeeer/study-assistant/internal/http/handlers/health"
	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/migrations"
	"github.com/magabrotheeeer/study-assistant/internal/paymentprovider"
	"github.com/magabrotheeeer/study-assistant/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/study-assistant/internal/services/auth"
	"github.com/magabrotheeeer/study-assistant/internal/services/content"
	"github.com/magabrotheeeer/study-assistant/internal/services/subscription"
	"github.com/magabrotheeeer/study-assistant/internal/services/usage"
	"github.com/magabrotheeeer/study-assistant/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP API сервиса.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New поднимает хранилище, кэш, брокер и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, cacheRedis)

	events, err := app.newEventPublisher(cfg.RabbitMQ)
	if err != nil {
		app.close()
		return nil, err
	}

	payments, err := newPaymentProvider(cfg.Payment)
	if err != nil {
		app.close()
		return nil, err
	}

	var gen content.Generator
	if gpt := generator.New(cfg.OpenAI); gpt != nil {
		gen = gpt
	} else {
		logger.Warn("openai api key is not set, content generation disabled")
	}

	subscriptionService := subscription.New(logger, db, cacheRedis, payments, events, cfg.CacheTTL)
	authService := authservice.New(db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL), subscriptionService)

	var validator middlewarectx.TokenValidator = authService
	if cfg.GRPCAuthAddress != "" {
		authClient, err := client.NewAuthClient(cfg.GRPCAuthAddress)
		if err != nil {
			app.close()
			return nil, err
		}
		app.closers = append(app.closers, authClient)
		validator = authClient
		logger.Info("validating tokens through auth service", slog.String("address", cfg.GRPCAuthAddress))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Auth:           authService,
		Subscriptions:  subscriptionService,
		Usage:          usage.New(db),
		Content:        content.New(db, gen),
		TokenValidator: validator,
		Pingers: map[string]health.Pinger{
			"database": db,
			"redis":    cacheRedis,
		},
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// newEventPublisher подключается к RabbitMQ; без адреса события не публикуются.
func (a *App) newEventPublisher(cfg config.RabbitMQ) (subscription.EventPublisher, error) {
	if cfg.URL == "" {
		a.logger.Warn("rabbitmq url is not set, subscription events disabled")
		return rabbitmq.NopPublisher{}, nil
	}
	conn, err := rabbitmq.Connect(cfg.URL, cfg.MaxRetries, cfg.RetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, conn)

	ch, err := rabbitmq.SetupChannel(conn, cfg.Exchange, rabbitmq.SubscriptionEventQueues(cfg.Queue))
	if err != nil {
		return nil, err
	}
	// Канал закрывается раньше соединения.
	a.closers = append(a.closers, ch)
	return rabbitmq.NewPublisher(ch, cfg.Exchange), nil
}

func newPaymentProvider(cfg config.Payment) (paymentprovider.Provider, error) {
	switch cfg.Provider {
	case "", "mock":
		return paymentprovider.NewMockProvider(), nil
	case "http":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("payment provider http requires api_url")
		}
		return paymentprovider.NewClient(cfg.APIURL, cfg.ShopID, cfg.SecretKey), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// close освобождает ресурсы в обратном порядке.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

// Run запускает HTTP-сервер и останавливает его по отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}
