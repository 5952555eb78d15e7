package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-assistant/internal/models"
	"github.com/magabrotheeeer/study-assistant/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdateSubscription(ctx context.Context, userUID string, sub models.Subscription) error {
	return m.Called(ctx, userUID, sub).Error(0)
}

func (m *RepoMock) ExpireSubscriptions(ctx context.Context, now time.Time) ([]*models.User, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) Charge(ctx context.Context, charge models.Charge) (*models.ChargeResult, error) {
	args := m.Called(ctx, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChargeResult), args.Error(1)
}

type EventsMock struct{ mock.Mock }

func (m *EventsMock) PublishEvent(ctx context.Context, event models.SubscriptionEvent) error {
	return m.Called(ctx, event).Error(0)
}

type fixture struct {
	repo     *RepoMock
	cache    *CacheMock
	provider *ProviderMock
	events   *EventsMock
	svc      *Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:     new(RepoMock),
		cache:    new(CacheMock),
		provider: new(ProviderMock),
		events:   new(EventsMock),
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = New(log, f.repo, f.cache, f.provider, f.events, 10*time.Minute).
		WithClock(func() time.Time { return testNow })
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.repo.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.provider.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func freeUser() *models.User {
	u := models.NewUser("user@example.com", "hash")
	u.UUID = "uid-1"
	return u
}

func TestService_Subscribe(t *testing.T) {
	details := models.PaymentDetails{CardNumber: "4242 4242 4242 4242", ExpiryDate: "12/30", CVV: "123"}

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(freeUser(), nil).Once()
		f.provider.On("Charge", mock.Anything, mock.MatchedBy(func(c models.Charge) bool {
			return c.UserUID == "uid-1" && c.AmountCents == models.PremiumPriceCents && c.CVV == "123"
		})).Return(&models.ChargeResult{TransactionID: "tx-1", Status: "succeeded"}, nil).Once()
		f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
			return s.IsPaidUser && s.Status == models.StatusActive && s.Plan == models.PlanPremium &&
				s.PaymentMethod != nil && s.PaymentMethod.LastFourDigits == "4242" && s.PaymentMethod.CardType == "Visa"
		})).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()
		f.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventActivated && e.Email == "user@example.com"
		})).Return(nil).Once()

		sub, err := f.svc.Subscribe(context.Background(), "uid-1", details)
		require.NoError(t, err)
		assert.True(t, sub.HasPremiumAccess())
		assert.Equal(t, testNow.Add(models.SubscriptionPeriod), *sub.End)
		f.assertExpectations(t)
	})

	t.Run("declined payment leaves user untouched", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(freeUser(), nil).Once()
		f.provider.On("Charge", mock.Anything, mock.Anything).Return(nil, models.ErrPaymentDeclined).Once()

		_, err := f.svc.Subscribe(context.Background(), "uid-1", details)
		assert.ErrorIs(t, err, models.ErrPaymentDeclined)
		f.repo.AssertNotCalled(t, "UpdateSubscription", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("invalid card is rejected before charging", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Subscribe(context.Background(), "uid-1", models.PaymentDetails{CardNumber: "12", ExpiryDate: "12/30"})
		assert.ErrorIs(t, err, models.ErrInvalidCard)
		f.assertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(nil, models.ErrUserNotFound).Once()
		_, err := f.svc.Subscribe(context.Background(), "uid-1", details)
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		f.assertExpectations(t)
	})

	t.Run("mock provider round trip", func(t *testing.T) {
		f := newFixture()
		f.svc.payments = paymentprovider.NewMockProvider()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(freeUser(), nil).Once()
		f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.Anything).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()
		f.events.On("PublishEvent", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		sub, err := f.svc.Subscribe(context.Background(), "uid-1", details)
		require.NoError(t, err, "publish failure must not fail the request")
		assert.Equal(t, models.StatusActive, sub.Status)
	})
}

func TestService_UpdatePaymentMethod(t *testing.T) {
	f := newFixture()
	end := testNow.Add(5 * 24 * time.Hour)
	user := freeUser()
	user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusCancelled, Plan: models.PlanPremium, End: &end}

	f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
	f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
		return s.Status == models.StatusCancelled && s.PaymentMethod.CardType == "American Express"
	})).Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()

	sub, err := f.svc.UpdatePaymentMethod(context.Background(), "uid-1",
		models.PaymentDetails{CardNumber: "371449635398431", ExpiryDate: "10/29"})
	require.NoError(t, err)
	assert.Equal(t, "8431", sub.PaymentMethod.LastFourDigits)
	assert.Equal(t, models.StatusCancelled, sub.Status)
	f.assertExpectations(t)
}

func TestService_Cancel(t *testing.T) {
	t.Run("active subscription", func(t *testing.T) {
		f := newFixture()
		user := freeUser()
		user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusActive, Plan: models.PlanPremium}

		f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
			return s.Status == models.StatusCancelled && s.IsPaidUser && s.End != nil
		})).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()
		f.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventCancelled
		})).Return(nil).Once()

		sub, err := f.svc.Cancel(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, sub.Status)
		assert.Equal(t, testNow.Add(models.SubscriptionPeriod), *sub.End)
		f.assertExpectations(t)
	})

	t.Run("free user", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(freeUser(), nil).Once()

		_, err := f.svc.Cancel(context.Background(), "uid-1")
		assert.ErrorIs(t, err, models.ErrNoActiveSubscription)
		f.assertExpectations(t)
	})
	t.Run("lapsed cancellation is expired instead", func(t *testing.T) {
		f := newFixture()
		end := testNow.Add(-time.Hour)
		user := freeUser()
		user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusCancelled, Plan: models.PlanPremium, End: &end}

		f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
			return !s.IsPaidUser && s.Status == models.StatusInactive
		})).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()
		f.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventExpired
		})).Return(nil).Once()

		_, err := f.svc.Cancel(context.Background(), "uid-1")
		assert.ErrorIs(t, err, models.ErrNoActiveSubscription)
		f.events.AssertNotCalled(t, "PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventCancelled
		}))
		f.assertExpectations(t)
	})
}

func TestService_Update(t *testing.T) {
	f := newFixture()
	user := freeUser()
	user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusActive, Plan: models.PlanPremium}
	status := models.StatusPastDue

	f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
	f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
		return s.Status == models.StatusPastDue && !s.IsPaidUser
	})).Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()

	sub, err := f.svc.Update(context.Background(), "uid-1", models.SubscriptionPatch{Status: &status})
	require.NoError(t, err)
	assert.False(t, sub.IsPaidUser)
	f.assertExpectations(t)
}

func TestService_GetStatus(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "subscription:uid-1", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.Subscription) = models.Subscription{IsPaidUser: true, Status: models.StatusActive, Plan: models.PlanPremium}
			}).Return(true, nil).Once()

		sub, err := f.svc.GetStatus(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, sub.Status)
		f.repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("miss caches until subscription end", func(t *testing.T) {
		f := newFixture()
		end := testNow.Add(2 * time.Minute)
		user := freeUser()
		user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusCancelled, Plan: models.PlanPremium, End: &end}

		f.cache.On("Get", mock.Anything, "subscription:uid-1", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		f.cache.On("Set", mock.Anything, "subscription:uid-1", mock.Anything, 2*time.Minute).Return(nil).Once()

		sub, err := f.svc.GetStatus(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCancelled, sub.Status)
		f.assertExpectations(t)
	})

	t.Run("expired subscription is deactivated on read", func(t *testing.T) {
		f := newFixture()
		end := testNow.Add(-time.Hour)
		user := freeUser()
		user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusCancelled, Plan: models.PlanPremium, End: &end}

		f.cache.On("Get", mock.Anything, "subscription:uid-1", mock.Anything).Return(false, errors.New("redis down")).Once()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil).Once()
		f.repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(s models.Subscription) bool {
			return !s.IsPaidUser && s.Status == models.StatusInactive
		})).Return(nil).Once()
		f.cache.On("Invalidate", mock.Anything, "subscription:uid-1").Return(nil).Once()
		f.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
			return e.Type == models.EventExpired
		})).Return(nil).Once()

		sub, err := f.svc.GetStatus(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusInactive, sub.Status)
		assert.False(t, sub.IsPaidUser)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("user not found", func(t *testing.T) {
		f := newFixture()
		f.cache.On("Get", mock.Anything, "subscription:uid-1", mock.Anything).Return(false, nil).Once()
		f.repo.On("GetUser", mock.Anything, "uid-1").Return(nil, models.ErrUserNotFound).Once()

		_, err := f.svc.GetStatus(context.Background(), "uid-1")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		f.assertExpectations(t)
	})
}

func TestService_ExpiryCheck_NoChange(t *testing.T) {
	f := newFixture()
	user := freeUser()

	got, err := f.svc.ExpiryCheck(context.Background(), user)
	require.NoError(t, err)
	assert.Same(t, user, got)
	f.assertExpectations(t)
}

func TestService_ExpireOverdue(t *testing.T) {
	f := newFixture()
	expired := []*models.User{
		{UUID: "a", Email: "a@example.com", Subscription: models.Subscription{Status: models.StatusInactive}},
		{UUID: "b", Email: "b@example.com", Subscription: models.Subscription{Status: models.StatusInactive}},
	}
	f.repo.On("ExpireSubscriptions", mock.Anything, testNow).Return(expired, nil).Once()
	f.cache.On("Invalidate", mock.Anything, "subscription:a").Return(nil).Once()
	f.cache.On("Invalidate", mock.Anything, "subscription:b").Return(nil).Once()
	f.events.On("PublishEvent", mock.Anything, mock.MatchedBy(func(e models.SubscriptionEvent) bool {
		return e.Type == models.EventExpired
	})).Return(nil).Twice()

	n, err := f.svc.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	f.assertExpectations(t)
}

func TestService_NilCollaborators(t *testing.T) {
	repo := new(RepoMock)
	svc := New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, nil, paymentprovider.NewMockProvider(), nil, time.Minute).
		WithClock(func() time.Time { return testNow })

	user := freeUser()
	user.Subscription = models.Subscription{IsPaidUser: true, Status: models.StatusActive, Plan: models.PlanPremium}
	repo.On("GetUser", mock.Anything, "uid-1").Return(user, nil)
	repo.On("UpdateSubscription", mock.Anything, "uid-1", mock.Anything).Return(nil)

	_, err := svc.Cancel(context.Background(), "uid-1")
	require.NoError(t, err)
	sub, err := svc.GetStatus(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, sub.Status)
}
