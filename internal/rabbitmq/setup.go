package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// QueueConfig описывает очередь и ключи маршрутизации, которыми она связана с обменником.
type QueueConfig struct {
	QueueName   string
	RoutingKeys []string
}

// SubscriptionEventQueues возвращает очередь, получающую все события подписки.
func SubscriptionEventQueues(queueName string) []QueueConfig {
	return []QueueConfig{
		{
			QueueName: queueName,
			RoutingKeys: []string{
				string(models.EventActivated),
				string(models.EventCancelled),
				string(models.EventExpired),
				string(models.EventExpiring),
			},
		},
	}
}

// SetupChannel открывает канал, объявляет direct-обменник exchange и
// привязывает к нему очереди queues.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = ch.Qos(10, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err = ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		for _, key := range q.RoutingKeys {
			if err = ch.QueueBind(q.QueueName, key, exchange, false, nil); err != nil {
				_ = ch.Close()
				return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, key, err)
			}
		}
	}

	return ch, nil
}
