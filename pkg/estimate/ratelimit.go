package estimate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyBudgetExhausted is returned when a RateLimitedBackend has spent its
// daily call budget.
var ErrDailyBudgetExhausted = errors.New("daily LLM call budget exhausted")

// RateLimitedBackend wraps an LLMBackend with a token bucket and an optional
// rolling 24-hour call budget.
type RateLimitedBackend struct {
	next    LLMBackend
	limiter *rate.Limiter

	mu       sync.Mutex
	maxDaily int64
	daily    int64
	resetAt  time.Time
	nowFunc  func() time.Time
}

// RateLimitOption configures a RateLimitedBackend.
type RateLimitOption func(*RateLimitedBackend)

// WithDailyBudget caps calls per rolling 24-hour window. Zero means unlimited.
func WithDailyBudget(n int64) RateLimitOption {
	return func(r *RateLimitedBackend) {
		r.maxDaily = n
	}
}

// WithRateLimitNowFunc overrides the time function for testing.
func WithRateLimitNowFunc(f func() time.Time) RateLimitOption {
	return func(r *RateLimitedBackend) {
		r.nowFunc = f
	}
}

// NewRateLimitedBackend allows perSecond calls per second to next with the
// given burst. A non-positive perSecond disables the token bucket.
func NewRateLimitedBackend(
	next LLMBackend,
	perSecond float64,
	burst int,
	opts ...RateLimitOption,
) *RateLimitedBackend {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	r := &RateLimitedBackend{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(24 * time.Hour)
	return r
}

// Name returns the wrapped backend's name.
func (r *RateLimitedBackend) Name() string {
	return r.next.Name()
}

// Generate waits for a token, charges the daily budget, then delegates.
func (r *RateLimitedBackend) Generate(
	ctx context.Context,
	req GenerateRequest,
) (GenerateResponse, error) {
	if err := r.charge(); err != nil {
		return GenerateResponse{}, err
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return GenerateResponse{}, fmt.Errorf("rate limiter wait: %w", err)
	}
	return r.next.Generate(ctx, req)
}

// Remaining returns the calls left in the current window, or -1 when the
// budget is unlimited.
func (r *RateLimitedBackend) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxDaily <= 0 {
		return -1
	}
	r.resetIfDue()
	return max(r.maxDaily-r.daily, 0)
}

func (r *RateLimitedBackend) charge() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxDaily <= 0 {
		return nil
	}
	r.resetIfDue()
	if r.daily >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyBudgetExhausted, r.daily, r.maxDaily)
	}
	r.daily++
	return nil
}

// resetIfDue must be called with mu held.
func (r *RateLimitedBackend) resetIfDue() {
	now := r.nowFunc()
	if now.After(r.resetAt) {
		r.daily = 0
		r.resetAt = now.Add(24 * time.Hour)
	}
}
