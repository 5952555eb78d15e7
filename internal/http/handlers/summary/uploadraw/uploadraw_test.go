package uploadraw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/lib/apperr"
	"github.com/magabrotheeeer/study-assistant/internal/models"
	"github.com/magabrotheeeer/study-assistant/internal/services/content"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) CreateSummary(ctx context.Context, userUID string, quota models.Quota, in content.SummaryInput) (*models.Summary, error) {
	args := m.Called(ctx, userUID, quota, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Summary), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func request(body string, quota models.Quota) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/summary/upload-raw", bytes.NewBufferString(body))
	ctx := middlewarectx.WithUser(req.Context(), "uid-1", "a@b.c")
	return req.WithContext(middlewarectx.WithQuota(ctx, quota))
}

func TestUploadRawHandler(t *testing.T) {
	quota := models.Quota{Resource: models.ResourceSummary, CurrentCount: 1, Limit: 3}
	svc := new(MockContentService)
	svc.On("CreateSummary", mock.Anything, "uid-1", quota, content.SummaryInput{
		Title:       "Lecture",
		Text:        "raw text",
		SummaryText: "short",
	}).Return(&models.Summary{ID: "sum-1", ExtractedText: "raw text", Summary: "short"}, nil)

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, request(`{"title":"Lecture","extractedText":"raw text","summaryText":"short"}`, quota))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, Response{Success: true, ExtractedText: "raw text", Summary: "short", SummaryID: "sum-1"}, resp)
	svc.AssertExpectations(t)
}

func TestUploadRawHandler_LimitLostRace(t *testing.T) {
	quota := models.Quota{Resource: models.ResourceSummary, CurrentCount: 2, Limit: 3}
	svc := new(MockContentService)
	svc.On("CreateSummary", mock.Anything, "uid-1", quota, mock.Anything).
		Return(nil, fmt.Errorf("repository.CreateSummary: %w", &apperr.LimitError{ResourceType: "summary", CurrentCount: 3, Limit: 3}))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, request(`{"extractedText":"raw text"}`, quota))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "FREE_TIER_LIMIT", body["error"])
	assert.Equal(t, "Free-tier users can only generate 3 summaries.", body["message"])
}

func TestUploadRawHandler_MissingText(t *testing.T) {
	svc := new(MockContentService)

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, request(`{"title":"x"}`, models.Quota{Unlimited: true}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "field ExtractedText is a required field")
	svc.AssertNotCalled(t, "CreateSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
