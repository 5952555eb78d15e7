// Package scheduler периодически деактивирует истёкшие подписки и
// напоминает пользователям о скором окончании оплаченного периода.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

// Expirer деактивирует истёкшие подписки.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// Repository ищет подписки, заканчивающиеся в заданном интервале.
type Repository interface {
	FindSubscriptionsEndingBetween(ctx context.Context, from, to time.Time) ([]*models.User, error)
}

// EventPublisher публикует события подписки.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.SubscriptionEvent) error
}

// Service запускает проверку подписок по таймеру.
type Service struct {
	log            *slog.Logger
	expirer        Expirer
	repo           Repository
	events         EventPublisher
	interval       time.Duration
	reminderWindow time.Duration
	now            func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, expirer Expirer, repo Repository, events EventPublisher, interval, reminderWindow time.Duration) *Service {
	return &Service{
		log:            log,
		expirer:        expirer,
		repo:           repo,
		events:         events,
		interval:       interval,
		reminderWindow: reminderWindow,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// Run выполняет проверку сразу и затем каждые interval, пока не отменён ctx.
func (s *Service) Run(ctx context.Context) {
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce деактивирует истёкшие подписки и рассылает напоминания.
func (s *Service) RunOnce(ctx context.Context) {
	s.log.Info("starting subscription sweep")

	expired, err := s.expirer.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
	} else if expired > 0 {
		s.log.Info("expired subscriptions", slog.Int("count", expired))
	}

	s.remind(ctx)
}

// remind публикует напоминание для подписок, чья дата окончания вошла в окно
// напоминания с момента прошлого запуска; каждый пользователь получает
// напоминание один раз.
func (s *Service) remind(ctx context.Context) {
	now := s.now()
	to := now.Add(s.reminderWindow)
	from := to.Add(-s.interval)

	users, err := s.repo.FindSubscriptionsEndingBetween(ctx, from, to)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", slog.Int("count", len(users)))

	for _, u := range users {
		err := s.events.PublishEvent(ctx, models.SubscriptionEvent{
			Type:            models.EventExpiring,
			UserUID:         u.UUID,
			Email:           u.Email,
			Status:          u.Status,
			SubscriptionEnd: u.End,
			OccurredAt:      now,
		})
		if err != nil {
			s.log.Error("failed to publish message", slog.String("user_uid", u.UUID), sl.Err(err))
		}
	}
}
