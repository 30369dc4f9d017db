package estimate

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const defaultCallTimeout = 30 * time.Second

// Observer receives per-call outcomes from a FallbackEstimator.
type Observer interface {
	// ObserveCall is called after every primary call.
	ObserveCall(subtask Subtask, d time.Duration, err error)
	// ObserveFallback is called each time the fallback answer is used.
	ObserveFallback(subtask Subtask)
}

type noopObserver struct{}

func (noopObserver) ObserveCall(Subtask, time.Duration, error) {}
func (noopObserver) ObserveFallback(Subtask)                   {}

// FallbackEstimator calls a primary Estimator under a per-call timeout and
// answers from a fallback Estimator when the primary fails. Fallback
// answers are marked Degraded.
type FallbackEstimator struct {
	primary  Estimator
	fallback Estimator
	timeout  time.Duration
	log      *slog.Logger
	observer Observer
}

// FallbackOption configures the FallbackEstimator.
type FallbackOption func(*FallbackEstimator)

// WithCallTimeout bounds each primary call. Non-positive values keep the default.
func WithCallTimeout(d time.Duration) FallbackOption {
	return func(f *FallbackEstimator) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) FallbackOption {
	return func(f *FallbackEstimator) {
		f.log = l
	}
}

// WithObserver registers an Observer for call durations and fallbacks.
func WithObserver(o Observer) FallbackOption {
	return func(f *FallbackEstimator) {
		if o != nil {
			f.observer = o
		}
	}
}

// NewFallbackEstimator wraps primary with fallback.
func NewFallbackEstimator(primary, fallback Estimator, opts ...FallbackOption) *FallbackEstimator {
	f := &FallbackEstimator{
		primary:  primary,
		fallback: fallback,
		timeout:  defaultCallTimeout,
		log:      slog.Default(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the primary estimator's name.
func (f *FallbackEstimator) Name() string {
	return f.primary.Name()
}

// call runs one primary call and reports whether it succeeded.
func call[T any](
	ctx context.Context,
	f *FallbackEstimator,
	subtask Subtask,
	primary func(context.Context) (T, error),
) (T, bool) {
	cctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	start := time.Now()
	v, err := primary(cctx)
	f.observer.ObserveCall(subtask, time.Since(start), err)
	if err != nil {
		f.log.Warn("estimator call failed, using fallback",
			"subtask", subtask,
			"estimator", f.primary.Name(),
			"error", err,
		)
		f.observer.ObserveFallback(subtask)
		var zero T
		return zero, false
	}
	return v, true
}

// Categorize categorizes with the primary, falling back on failure.
func (f *FallbackEstimator) Categorize(ctx context.Context, description string) (Categorization, error) {
	if c, ok := call(ctx, f, SubtaskCategorize, func(ctx context.Context) (Categorization, error) {
		return f.primary.Categorize(ctx, description)
	}); ok {
		return c, nil
	}

	c, err := f.fallback.Categorize(ctx, description)
	c.Degraded = true
	return c, err
}

// ExtractBrandModel extracts brand and model with the primary, falling back on failure.
func (f *FallbackEstimator) ExtractBrandModel(
	ctx context.Context,
	description string,
	category domain.Category,
) (BrandModel, error) {
	if bm, ok := call(ctx, f, SubtaskBrandModel, func(ctx context.Context) (BrandModel, error) {
		return f.primary.ExtractBrandModel(ctx, description, category)
	}); ok {
		return bm, nil
	}

	bm, err := f.fallback.ExtractBrandModel(ctx, description, category)
	bm.Degraded = true
	return bm, err
}

// Valuate values with the primary, falling back on failure.
func (f *FallbackEstimator) Valuate(ctx context.Context, in ValuationInput) (Valuation, error) {
	if v, ok := call(ctx, f, SubtaskValuate, func(ctx context.Context) (Valuation, error) {
		return f.primary.Valuate(ctx, in)
	}); ok {
		return v, nil
	}

	v, err := f.fallback.Valuate(ctx, in)
	v.Degraded = true
	return v, err
}

// AssessRisk assesses risk with the primary, falling back on failure.
func (f *FallbackEstimator) AssessRisk(ctx context.Context, in RiskInput) (RiskAssessment, error) {
	if r, ok := call(ctx, f, SubtaskRisk, func(ctx context.Context) (RiskAssessment, error) {
		return f.primary.AssessRisk(ctx, in)
	}); ok {
		return r, nil
	}

	r, err := f.fallback.AssessRisk(ctx, in)
	r.Degraded = true
	return r, err
}
