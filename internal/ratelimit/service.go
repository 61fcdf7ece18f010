package ratelimit

import (
	"callassist-server/internal/observability"
	"context"
	"fmt"
	"sync"
	"time"

	goredislib "github.com/redis/go-redis/v9"
)

// Result represents the result of a rate limit check
type Result struct {
	Allowed    bool          `json:"allowed"`
	Limit      int           `json:"limit"`
	Remaining  int           `json:"remaining"`
	ResetAt    time.Time     `json:"reset_at"`
	RetryAfter time.Duration `json:"retry_after,omitempty"`
}

// Window counts hits per key over a sliding window
type Window interface {
	Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error)
}

// Service limits how often a single caller can reach the call webhooks
type Service struct {
	window Window
	limit  int
	period time.Duration
	logger *observability.Logger
	now    func() time.Time
}

// NewService creates a rate limiter allowing limit hits per period per key.
// A limit of zero or less disables limiting.
func NewService(window Window, limit int, period time.Duration, logger *observability.Logger) *Service {
	if period <= 0 {
		period = time.Minute
	}
	return &Service{
		window: window,
		limit:  limit,
		period: period,
		logger: logger,
		now:    time.Now,
	}
}

// Allow records a hit for key and reports whether it is within the limit
func (s *Service) Allow(ctx context.Context, key string) (Result, error) {
	if s.limit <= 0 {
		return Result{Allowed: true}, nil
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "rate_limit_key", Value: key},
		observability.Field{Key: "rate_limit", Value: s.limit},
	)

	result, err := s.window.Hit(ctx, key, s.limit, s.period, s.now())
	if err != nil {
		s.logger.Error(ctx, "failed to check rate limit", err)
		return Result{}, fmt.Errorf("failed to check rate limit: %w", err)
	}
	return result, nil
}

// RedisWindow keeps one sorted set of hit timestamps per key so every
// instance shares the same window.
type RedisWindow struct {
	client *goredislib.Client
}

func NewRedisWindow(client *goredislib.Client) *RedisWindow {
	return &RedisWindow{client: client}
}

func (r *RedisWindow) Hit(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	key = "rl:" + key
	nowMs := now.UnixMilli()
	windowStartMs := now.Add(-window).UnixMilli()

	// Remove old entries outside the window
	if err := r.client.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStartMs)).Err(); err != nil {
		return Result{}, fmt.Errorf("failed to remove old entries: %w", err)
	}

	count, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to count hits: %w", err)
	}

	if int(count) >= limit {
		oldest, err := r.client.ZRangeWithScores(ctx, key, 0, 0).Result()
		if err != nil || len(oldest) == 0 {
			return denied(limit, now.Add(window), now), nil
		}
		return denied(limit, time.UnixMilli(int64(oldest[0].Score)).Add(window), now), nil
	}

	// Member carries a nanosecond suffix so two hits in the same millisecond both count
	member := fmt.Sprintf("%d-%d", nowMs, now.UnixNano())
	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, goredislib.Z{Score: float64(nowMs), Member: member})
	pipe.Expire(ctx, key, 2*window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("failed to add hit: %w", err)
	}

	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - int(count) - 1,
		ResetAt:   now.Add(window),
	}, nil
}

// MemoryWindow is the single-instance window used when Redis is disabled.
// Keys with no hit inside the window are swept once per window.
type MemoryWindow struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	lastSweep time.Time
}

func NewMemoryWindow() *MemoryWindow {
	return &MemoryWindow{hits: make(map[string][]time.Time)}
}

func (m *MemoryWindow) Hit(_ context.Context, key string, limit int, window time.Duration, now time.Time) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := now.Add(-window)
	if now.Sub(m.lastSweep) >= window {
		m.sweep(cutoff)
		m.lastSweep = now
	}

	hits := m.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= limit {
		m.hits[key] = kept
		return denied(limit, kept[0].Add(window), now), nil
	}

	kept = append(kept, now)
	m.hits[key] = kept
	return Result{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(kept),
		ResetAt:   now.Add(window),
	}, nil
}

// sweep drops keys whose newest hit is at or before cutoff
func (m *MemoryWindow) sweep(cutoff time.Time) {
	for key, hits := range m.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(m.hits, key)
		}
	}
}

// Len returns the number of keys currently tracked
func (m *MemoryWindow) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hits)
}

func denied(limit int, resetAt, now time.Time) Result {
	retryAfter := resetAt.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Result{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}
}
