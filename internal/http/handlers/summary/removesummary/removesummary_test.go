package removesummary

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/study-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

const summaryID = "7f1d2c3e-4b5a-4c6d-8e9f-0a1b2c3d4e5f"

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) DeleteSummary(ctx context.Context, userUID, id string) error {
	return m.Called(ctx, userUID, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(svc ContentService, id string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/summary/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	req = req.WithContext(middlewarectx.WithUser(ctx, "uid-1", "a@b.c"))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, req)
	return rr
}

func TestRemoveSummaryHandler(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		err      error
		call     bool
		wantCode int
		wantBody string
	}{
		{name: "success", id: summaryID, call: true, wantCode: http.StatusOK, wantBody: `"success":true`},
		{name: "other user's summary", id: summaryID, call: true, err: models.ErrSummaryNotFound, wantCode: http.StatusNotFound, wantBody: "Summary not found"},
		{name: "invalid id", id: "42", wantCode: http.StatusBadRequest, wantBody: "Invalid summary id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockContentService)
			if tt.call {
				svc.On("DeleteSummary", mock.Anything, "uid-1", tt.id).Return(tt.err)
			}

			rr := serve(svc, tt.id)

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}
