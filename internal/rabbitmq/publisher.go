package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Channel часть *amqp.Channel, необходимая для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует события подписки в обменник. Канал AMQP не
// потокобезопасен, поэтому публикации сериализуются мьютексом.
type Publisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх канала ch.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// PublishMessage публикует message в JSON с ключом маршрутизации routingKey.
func (p *Publisher) PublishMessage(ctx context.Context, routingKey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// PublishEvent публикует событие подписки с ключом, равным типу события.
func (p *Publisher) PublishEvent(ctx context.Context, event models.SubscriptionEvent) error {
	return p.PublishMessage(ctx, string(event.Type), event)
}

// NopPublisher отбрасывает события; используется, когда брокер не настроен.
type NopPublisher struct{}

// PublishEvent ничего не делает.
func (NopPublisher) PublishEvent(context.Context, models.SubscriptionEvent) error {
	return nil
}
