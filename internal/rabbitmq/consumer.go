package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
)

// Consumer часть *amqp.Channel, необходимая для чтения очереди.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// Handler обрабатывает тело сообщения.
type Handler func(ctx context.Context, body []byte) error

// ConsumerMessage читает очередь queueName и обрабатывает сообщения не более
// чем concurrency обработчиками одновременно. Успешно обработанные сообщения
// подтверждаются; при ошибке сообщение возвращается в очередь один раз,
// повторная неудача отбрасывает его. Чтение прекращается при отмене ctx.
func ConsumerMessage(ctx context.Context, ch Consumer, queueName string, concurrency int, log *slog.Logger, handler Handler) error {
	const op = "rabbitmq.ConsumerMessage"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					handle(ctx, d, log, handler)
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func handle(ctx context.Context, d amqp.Delivery, log *slog.Logger, handler Handler) {
	if err := handler(ctx, d.Body); err != nil {
		requeue := !d.Redelivered
		log.Error("failed to handle message",
			slog.String("routing_key", d.RoutingKey),
			slog.Bool("requeue", requeue),
			sl.Err(err))
		if nackErr := d.Nack(false, requeue); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
		return
	}
	if ackErr := d.Ack(false); ackErr != nil {
		log.Error("failed to ack message", sl.Err(ackErr))
	}
}
