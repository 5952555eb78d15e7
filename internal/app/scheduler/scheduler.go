// Package scheduler запускает фоновую проверку подписок.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/cache"
	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/paymentprovider"
	"github.com/magabrotheeeer/study-assistant/internal/rabbitmq"
	schedulerservice "github.com/magabrotheeeer/study-assistant/internal/services/scheduler"
	"github.com/magabrotheeeer/study-assistant/internal/services/subscription"
	"github.com/magabrotheeeer/study-assistant/internal/storage/repository"
)

const (
	dbReadyRetries = 10
	dbReadyDelay   = 3 * time.Second
)

// App процесс планировщика.
type App struct {
	schedulerService *schedulerservice.Service
	closers          []io.Closer
	logger           *slog.Logger
}

// New подключает хранилище, кэш и брокер и собирает планировщик.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, db)

	if err = waitForDB(ctx, db); err != nil {
		app.close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("cache not initialized: %w", err)
	}
	app.closers = append(app.closers, cacheRedis)

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, conn)
	logger.Info("connected to RabbitMQ")

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.SubscriptionEventQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		app.close()
		return nil, err
	}
	app.closers = append(app.closers, ch)

	events := rabbitmq.NewPublisher(ch, cfg.RabbitMQ.Exchange)
	subscriptionService := subscription.New(logger, db, cacheRedis, paymentprovider.NewMockProvider(), events, cfg.CacheTTL)

	app.schedulerService = schedulerservice.New(
		logger,
		subscriptionService,
		db,
		events,
		cfg.Scheduler.Interval,
		cfg.Scheduler.ReminderWindow,
	)
	return app, nil
}

func waitForDB(ctx context.Context, db *repository.Storage) error {
	for range dbReadyRetries {
		if err := repository.CheckDatabaseReady(ctx, db); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(dbReadyDelay):
		}
	}
	return fmt.Errorf("database not ready after retries")
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

// Run выполняет проверки по таймеру до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.Run(ctx)
	a.logger.Info("shutting down scheduler service")
	a.close()
	return nil
}
