package cancel

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(svc SubscriptionService) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/subscription/cancel", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), "uid-1", "a@b.c"))
	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, req)
	return rr
}

func TestCancelHandler(t *testing.T) {
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	svc := new(MockSubscriptionService)
	svc.On("Cancel", mock.Anything, "uid-1").Return(&models.Subscription{
		IsPaidUser: true,
		Status:     models.StatusCancelled,
		Plan:       models.PlanPremium,
		End:        &end,
	}, nil)

	rr := serve(svc)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusCancelled, resp.SubscriptionStatus)
	require.NotNil(t, resp.SubscriptionEnd)
	assert.True(t, end.Equal(*resp.SubscriptionEnd))
}

func TestCancelHandler_NoActiveSubscription(t *testing.T) {
	svc := new(MockSubscriptionService)
	svc.On("Cancel", mock.Anything, "uid-1").Return(nil, models.ErrNoActiveSubscription)

	rr := serve(svc)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No active subscription to cancel")
}

func TestCancelHandler_NotFound(t *testing.T) {
	svc := new(MockSubscriptionService)
	svc.On("Cancel", mock.Anything, "uid-1").Return(nil, models.ErrUserNotFound)

	assert.Equal(t, http.StatusNotFound, serve(svc).Code)
}
