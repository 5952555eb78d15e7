// Package subscription управляет жизненным циклом премиум-подписки:
// оформлением, сменой карты, отменой, истечением и чтением статуса.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/study-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/study-assistant/internal/metrics"
	"github.com/magabrotheeeer/study-assistant/internal/models"
	"github.com/magabrotheeeer/study-assistant/internal/paymentprovider"
)

// Repository определяет методы хранилища, нужные для управления подпиской.
type Repository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateSubscription сохраняет снимок подписки пользователя.
	UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error
	// ExpireSubscriptions деактивирует все истёкшие подписки.
	ExpireSubscriptions(ctx context.Context, now time.Time) ([]*models.User, error)
}

// Cache описывает методы для кеширования снимков подписки.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события жизненного цикла подписки.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event models.SubscriptionEvent) error
}

// Service реализует операции над подпиской пользователя.
type Service struct {
	log      *slog.Logger
	repo     Repository
	cache    Cache
	payments paymentprovider.Provider
	events   EventPublisher
	cacheTTL time.Duration
	now      func() time.Time
}

// New создаёт Service. cache и events могут быть nil.
func New(log *slog.Logger, repo Repository, cache Cache, payments paymentprovider.Provider, events EventPublisher, cacheTTL time.Duration) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		cache:    cache,
		payments: payments,
		events:   events,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func cacheKey(userUID string) string {
	return "subscription:" + userUID
}

// Subscribe списывает стоимость премиум-плана с карты и активирует подписку.
func (s *Service) Subscribe(ctx context.Context, userUID string, details models.PaymentDetails) (*models.Subscription, error) {
	const op = "subscription.Subscribe"

	pm, err := SanitizeCard(details)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.payments.Charge(ctx, models.Charge{
		UserUID:     userUID,
		AmountCents: models.PremiumPriceCents,
		Currency:    models.PremiumCurrency,
		Description: "Premium subscription",
		CardNumber:  details.CardNumber,
		ExpiryDate:  pm.ExpiryDate,
		CVV:         details.CVV,
	})
	if err != nil {
		metrics.PaymentCharges.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.PaymentCharges.WithLabelValues("succeeded").Inc()
	s.log.Info("payment charged",
		slog.String("user_uid", userUID),
		slog.String("transaction_id", result.TransactionID))

	sub := user.Subscription
	Activate(&sub, pm, s.now())
	if err := s.save(ctx, user, sub, models.EventActivated); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// UpdatePaymentMethod заменяет сохранённую карту, не меняя статус подписки.
func (s *Service) UpdatePaymentMethod(ctx context.Context, userUID string, details models.PaymentDetails) (*models.Subscription, error) {
	const op = "subscription.UpdatePaymentMethod"

	pm, err := SanitizeCard(details)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := user.Subscription
	sub.PaymentMethod = pm
	if err := s.save(ctx, user, sub, ""); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// Update применяет частичное обновление полей подписки.
func (s *Service) Update(ctx context.Context, userUID string, patch models.SubscriptionPatch) (*models.Subscription, error) {
	const op = "subscription.Update"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := user.Subscription
	if err := ApplyPatch(&sub, patch, s.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.save(ctx, user, sub, transitionEvent(user.Subscription, sub)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// Cancel отменяет подписку; доступ сохраняется до даты окончания.
func (s *Service) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "subscription.Cancel"

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err = s.ExpiryCheck(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := user.Subscription
	if err := Cancel(&sub, s.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.save(ctx, user, sub, models.EventCancelled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// GetStatus возвращает снимок подписки с учётом истечения срока.
func (s *Service) GetStatus(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "subscription.GetStatus"

	var cached models.Subscription
	if s.cache != nil {
		found, err := s.cache.Get(ctx, cacheKey(userUID), &cached)
		if err != nil {
			s.log.Warn("failed to read subscription cache", slog.String("user_uid", userUID), sl.Err(err))
		} else if found {
			return &cached, nil
		}
	}

	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err = s.ExpiryCheck(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sub := user.Subscription
	s.cacheSnapshot(ctx, userUID, sub)
	return &sub, nil
}

// ExpiryCheck деактивирует истёкшую подписку пользователя и сохраняет
// изменения. Повторный вызов ничего не меняет.
func (s *Service) ExpiryCheck(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "subscription.ExpiryCheck"

	sub := user.Subscription
	if !ApplyExpiry(&sub, s.now()) {
		return user, nil
	}
	if err := s.save(ctx, user, sub, models.EventExpired); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated := *user
	updated.Subscription = sub
	return &updated, nil
}

// ExpireOverdue деактивирует все истёкшие подписки и возвращает их число.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	const op = "subscription.ExpireOverdue"

	users, err := s.repo.ExpireSubscriptions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	for _, u := range users {
		s.invalidate(ctx, u.UUID)
		s.publish(ctx, u, models.EventExpired)
	}
	return len(users), nil
}

func (s *Service) save(ctx context.Context, user *models.User, sub models.Subscription, event models.EventType) error {
	if err := s.repo.UpdateSubscription(ctx, user.UUID, sub); err != nil {
		return err
	}
	s.invalidate(ctx, user.UUID)

	if event == "" {
		return nil
	}
	updated := *user
	updated.Subscription = sub
	s.publish(ctx, &updated, event)
	return nil
}

func (s *Service) publish(ctx context.Context, user *models.User, event models.EventType) {
	metrics.SubscriptionTransitions.WithLabelValues(string(user.Status)).Inc()
	s.log.Info("subscription transition",
		slog.String("user_uid", user.UUID),
		slog.String("event", string(event)),
		slog.String("status", string(user.Status)))

	if s.events == nil {
		return
	}
	err := s.events.PublishEvent(ctx, models.SubscriptionEvent{
		Type:            event,
		UserUID:         user.UUID,
		Email:           user.Email,
		Status:          user.Status,
		SubscriptionEnd: user.End,
		OccurredAt:      s.now(),
	})
	if err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("event", string(event)), sl.Err(err))
		return
	}
	metrics.EventsPublished.WithLabelValues(string(event)).Inc()
}

func (s *Service) invalidate(ctx context.Context, userUID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate subscription cache", slog.String("user_uid", userUID), sl.Err(err))
	}
}

// cacheSnapshot кеширует снимок не дольше, чем до окончания подписки.
func (s *Service) cacheSnapshot(ctx context.Context, userUID string, sub models.Subscription) {
	if s.cache == nil {
		return
	}
	ttl := s.cacheTTL
	if sub.End != nil {
		if untilEnd := sub.End.Sub(s.now()); untilEnd < ttl {
			ttl = untilEnd
		}
	}
	if ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(userUID), sub, ttl); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("user_uid", userUID), sl.Err(err))
	}
}

func transitionEvent(before, after models.Subscription) models.EventType {
	if before.Status == after.Status {
		return ""
	}
	switch after.Status {
	case models.StatusActive:
		return models.EventActivated
	case models.StatusCancelled:
		return models.EventCancelled
	case models.StatusInactive:
		if before.IsPaidUser {
			return models.EventExpired
		}
	}
	return ""
}
