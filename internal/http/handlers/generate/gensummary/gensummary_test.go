package gensummary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	"github.com/magabrotheeeer/study-assistant/internal/models"
)

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) GenerateSummary(ctx context.Context, text string) (string, error) {
	args := m.Called(ctx, text)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(svc ContentService, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-summary", bytes.NewBufferString(body))
	req = req.WithContext(middlewarectx.WithUser(req.Context(), "uid-1", "a@b.c"))
	rr := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(rr, req)
	return rr
}

func TestGenerateSummaryHandler(t *testing.T) {
	tests := []struct {
		name        string
		summary     string
		err         error
		wantCode    int
		wantMessage string
	}{
		{name: "success", summary: "short", wantCode: http.StatusOK},
		{name: "not configured", err: fmt.Errorf("content.GenerateSummary: %w", models.ErrGeneratorUnavailable), wantCode: http.StatusBadRequest, wantMessage: "Content generation is not configured"},
		{name: "upstream failure", err: errors.New("openai: 502"), wantCode: http.StatusInternalServerError, wantMessage: "Error generating summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockContentService)
			svc.On("GenerateSummary", mock.Anything, "long text").Return(tt.summary, tt.err)

			rr := serve(svc, `{"text":"long text"}`)

			assert.Equal(t, tt.wantCode, rr.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			if tt.err == nil {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, tt.summary, body["summary"])
			} else {
				assert.Equal(t, tt.wantMessage, body["message"])
			}
		})
	}
}

func TestGenerateSummaryHandler_EmptyText(t *testing.T) {
	svc := new(MockContentService)

	rr := serve(svc, `{"text":""}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "GenerateSummary", mock.Anything, mock.Anything)
}
