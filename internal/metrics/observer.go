package metrics

import (
	"time"

	"github.com/donaldgifford/manifest-analyzer/pkg/estimate"
)

// EstimatorObserver records estimator outcomes as Prometheus metrics. It
// implements estimate.Observer.
type EstimatorObserver struct {
	budget func() int64
}

// ObserverOption configures an EstimatorObserver.
type ObserverOption func(*EstimatorObserver)

// WithBudget reports the remaining LLM call budget after every call.
func WithBudget(remaining func() int64) ObserverOption {
	return func(o *EstimatorObserver) {
		o.budget = remaining
	}
}

// NewEstimatorObserver creates an EstimatorObserver.
func NewEstimatorObserver(opts ...ObserverOption) *EstimatorObserver {
	o := &EstimatorObserver{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ObserveCall records call duration and failures per subtask.
func (o *EstimatorObserver) ObserveCall(subtask estimate.Subtask, d time.Duration, err error) {
	EstimatorCallDuration.WithLabelValues(string(subtask)).Observe(d.Seconds())
	if err != nil {
		EstimatorErrorsTotal.WithLabelValues(string(subtask)).Inc()
	}
	if o.budget != nil {
		LLMBudgetRemaining.Set(float64(o.budget()))
	}
}

// ObserveFallback counts a fallback answer for subtask.
func (o *EstimatorObserver) ObserveFallback(subtask estimate.Subtask) {
	EstimatorFallbacksTotal.WithLabelValues(string(subtask)).Inc()
}

var _ estimate.Observer = (*EstimatorObserver)(nil)
