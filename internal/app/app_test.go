package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/EcommerceGo/wishlist/internal/config"
	"github.com/utafrali/EcommerceGo/wishlist/pkg/tracing"
)

func stubTracer(t *testing.T, shutdownErr error) *int {
	t.Helper()
	calls := new(int)
	orig := initTracer
	initTracer = func(context.Context, tracing.Config) (func(context.Context) error, error) {
		return func(ctx context.Context) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			*calls++
			return shutdownErr
		}, nil
	}
	t.Cleanup(func() { initTracer = orig })
	return calls
}

func TestNewApp_ShutsDownTracerWhenPostgresFails(t *testing.T) {
	calls := stubTracer(t, nil)
	cfg := &config.Config{
		PostgresHost: "bad host with spaces",
		PostgresPort: -1,
		PostgresDB:   "wishlist",
	}

	_, err := NewApp(cfg, slog.New(slog.DiscardHandler))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to postgres")
	assert.Equal(t, 1, *calls)
}

func TestShutdownTracer_ReturnsError(t *testing.T) {
	err := shutdownTracer(func(context.Context) error {
		return errors.New("exporter unreachable")
	}, slog.New(slog.DiscardHandler))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter unreachable")
}
