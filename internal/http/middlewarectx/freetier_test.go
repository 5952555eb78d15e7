package middlewarectx_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/http/response"
	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/metrics"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, userUID, path string) (models.Quota, error) {
	args := m.Called(ctx, userUID, path)
	return args.Get(0).(models.Quota), args.Error(1)
}

func authedRequest(path string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	return req.WithContext(middlewarectx.WithUser(req.Context(), "uid-1", "a@b.c"))
}

func TestFreeTierMiddleware_Allows(t *testing.T) {
	authorizer := new(MockAuthorizer)
	quota := models.Quota{Resource: models.ResourceSummary, CurrentCount: 2, Limit: 3}
	authorizer.On("Authorize", mock.Anything, "uid-1", "/api/summary/upload-raw").Return(quota, nil)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		assert.Equal(t, quota, middlewarectx.QuotaFromContext(r.Context()))
		w.WriteHeader(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	middlewarectx.FreeTierMiddleware(newNoopLogger(), authorizer)(next).ServeHTTP(w, authedRequest("/api/summary/upload-raw"))

	assert.True(t, nextCalled)
	assert.Equal(t, http.StatusCreated, w.Code)
	authorizer.AssertExpectations(t)
}

func TestFreeTierMiddleware_LimitReached(t *testing.T) {
	authorizer := new(MockAuthorizer)
	limitErr := &apperr.LimitError{ResourceType: "flashcard", CurrentCount: 3, Limit: 3}
	authorizer.On("Authorize", mock.Anything, "uid-1", "/api/flashcard/flashcard-deck").
		Return(models.Quota{Resource: models.ResourceFlashcard, CurrentCount: 3, Limit: 3}, fmt.Errorf("usage.Authorize: %w", limitErr))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called over the limit")
	})

	before := testutil.ToFloat64(metrics.FreeTierRejections.WithLabelValues("flashcard"))
	w := httptest.NewRecorder()
	middlewarectx.FreeTierMiddleware(newNoopLogger(), authorizer)(next).ServeHTTP(w, authedRequest("/api/flashcard/flashcard-deck"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "FREE_TIER_LIMIT", body["error"])
	assert.Equal(t, "flashcard", body["resourceType"])
	assert.Equal(t, float64(3), body["currentCount"])
	assert.Equal(t, float64(3), body["limit"])
	assert.Equal(t, "Free-tier users can only generate 3 flashcard decks.", body["message"])
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FreeTierRejections.WithLabelValues("flashcard")))
}

func TestFreeTierMiddleware_Errors(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{name: "user not found", err: models.ErrUserNotFound, wantCode: http.StatusNotFound, wantMessage: "User not found"},
		{name: "unknown route", err: fmt.Errorf("usage.Authorize: %w", models.ErrInvalidRouteConfiguration), wantCode: http.StatusInternalServerError, wantMessage: "Invalid route configuration"},
		{name: "storage failure", err: errors.New("connection refused"), wantCode: http.StatusInternalServerError, wantMessage: "Error checking usage limits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorizer := new(MockAuthorizer)
			authorizer.On("Authorize", mock.Anything, "uid-1", "/api/other").Return(models.Quota{}, tt.err)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler should not be called")
			})

			w := httptest.NewRecorder()
			middlewarectx.FreeTierMiddleware(newNoopLogger(), authorizer)(next).ServeHTTP(w, authedRequest("/api/other"))
			assert.Equal(t, tt.wantCode, w.Code)

			var body response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestFreeTierMiddleware_Unauthenticated(t *testing.T) {
	authorizer := new(MockAuthorizer)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/summary/upload-raw", nil)
	middlewarectx.FreeTierMiddleware(newNoopLogger(), authorizer)(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	authorizer.AssertNotCalled(t, "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaFromContext_Default(t *testing.T) {
	assert.True(t, middlewarectx.QuotaFromContext(context.Background()).Unlimited)
}
