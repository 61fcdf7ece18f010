package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"callassist-server/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWindow_SlidesOverTime(t *testing.T) {
	w := NewMemoryWindow()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 2; i++ {
		res, err := w.Hit(ctx, "caller:+15550001111", 2, time.Minute, start.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 1-i, res.Remaining)
	}

	res, err := w.Hit(ctx, "caller:+15550001111", 2, time.Minute, start.Add(10*time.Second))
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 50*time.Second, res.RetryAfter)

	// other callers have their own window
	res, err = w.Hit(ctx, "caller:+15550002222", 2, time.Minute, start.Add(10*time.Second))
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = w.Hit(ctx, "caller:+15550001111", 2, time.Minute, start.Add(61*time.Second))
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestService_ZeroLimitDisables(t *testing.T) {
	s := NewService(NewMemoryWindow(), 0, time.Minute, observability.NewLogger())
	for i := 0; i < 5; i++ {
		res, err := s.Allow(context.Background(), "caller:x")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
}

type failingWindow struct{}

func (failingWindow) Hit(context.Context, string, int, time.Duration, time.Time) (Result, error) {
	return Result{}, errors.New("redis down")
}

func TestService_WindowErrorIsReturned(t *testing.T) {
	s := NewService(failingWindow{}, 1, time.Minute, observability.NewLogger())
	_, err := s.Allow(context.Background(), "call:+15550001111")
	assert.Error(t, err)
}

func TestMemoryWindow_SweepsIdleCallers(t *testing.T) {
	w := NewMemoryWindow()
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 100; i++ {
		_, err := w.Hit(ctx, fmt.Sprintf("call:+1555000%04d", i), 5, time.Minute, start)
		require.NoError(t, err)
	}
	assert.Equal(t, 100, w.Len())

	_, err := w.Hit(ctx, "call:+15559999999", 5, time.Minute, start.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, w.Len())
}
