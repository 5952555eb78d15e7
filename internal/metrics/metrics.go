// Package metrics содержит счётчики Prometheus, экспортируемые на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FreeTierRejections число запросов, отклонённых бесплатным лимитом, по типу ресурса.
	FreeTierRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "study_assistant",
		Name:      "free_tier_rejections_total",
		Help:      "Requests rejected by the free-tier limit.",
	}, []string{"resource"})

	// SubscriptionTransitions число переходов подписки по целевому статусу.
	SubscriptionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "study_assistant",
		Name:      "subscription_transitions_total",
		Help:      "Subscription lifecycle transitions by resulting status.",
	}, []string{"status"})

	// PaymentCharges результаты списаний через платёжного провайдера.
	PaymentCharges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "study_assistant",
		Name:      "payment_charges_total",
		Help:      "Payment provider charges by outcome.",
	}, []string{"outcome"})

	// EventsPublished события подписки, отправленные в брокер, по типу.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "study_assistant",
		Name:      "events_published_total",
		Help:      "Subscription events published to the message broker.",
	}, []string{"type"})
)
