package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHealthHandler(t *testing.T) {
	ok := pingerFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	})
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("healthy", func(t *testing.T) {
		rr := httptest.NewRecorder()
		New(newNoopLogger(), map[string]Pinger{"database": ok}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("dependency down", func(t *testing.T) {
		rr := httptest.NewRecorder()
		New(newNoopLogger(), map[string]Pinger{"database": ok, "redis": down}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Contains(t, rr.Body.String(), "redis unavailable")
	})
}
