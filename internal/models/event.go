package models

import "time"

// EventType тип события жизненного цикла подписки.
type EventType string

// Типы событий, публикуемых в обменник уведомлений.
const (
	EventActivated EventType = "subscription.activated"
	EventCancelled EventType = "subscription.cancelled"
	EventExpired   EventType = "subscription.expired"
	EventExpiring  EventType = "subscription.expiring"
)

// SubscriptionEvent сообщение о переходе подписки, доставляемое через RabbitMQ.
type SubscriptionEvent struct {
	Type            EventType          `json:"type"`
	UserUID         string             `json:"userId"`
	Email           string             `json:"email"`
	Status          SubscriptionStatus `json:"subscriptionStatus"`
	SubscriptionEnd *time.Time         `json:"subscriptionEnd,omitempty"`
	OccurredAt      time.Time          `json:"occurredAt"`
}
