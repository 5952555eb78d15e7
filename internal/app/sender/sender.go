// Package sender запускает потребителя событий подписки, отправляющего письма.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-assistant/internal/config"
	"github.com/magabrotheeeer/study-assistant/internal/lib/mail"
	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/study-assistant/internal/services/sender"
)

// App процесс отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	queue         string
	concurrency   int
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и настраивает SMTP.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitMQ.Exchange, rabbitmq.SubscriptionEventQueues(cfg.RabbitMQ.Queue))
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	mailer := mail.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)

	return &App{
		conn:          conn,
		ch:            ch,
		queue:         cfg.RabbitMQ.Queue,
		concurrency:   cfg.RabbitMQ.Concurrency,
		senderService: senderservice.New(mailer, logger),
		logger:        logger,
	}, nil
}

// Run читает очередь событий до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, a.concurrency, a.logger, a.senderService.HandleEvent)
	if err != nil {
		a.logger.Error("failed to start consumer", slog.String("queue", a.queue), sl.Err(err))
		a.closeResources()
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	a.closeResources()
	return nil
}

func (a *App) closeResources() {
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
}
