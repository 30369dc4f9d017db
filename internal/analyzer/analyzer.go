// Package analyzer runs the manifest analysis pipeline: parse, enrich each
// item with bounded concurrency, aggregate, and hand the result to the store.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/manifest-analyzer/internal/metrics"
	"github.com/donaldgifford/manifest-analyzer/internal/notify"
	"github.com/donaldgifford/manifest-analyzer/internal/store"
	"github.com/donaldgifford/manifest-analyzer/pkg/enrich"
	"github.com/donaldgifford/manifest-analyzer/pkg/insight"
	"github.com/donaldgifford/manifest-analyzer/pkg/manifest"
	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const (
	defaultConcurrency = 4
	tracerName         = "github.com/donaldgifford/manifest-analyzer/internal/analyzer"
)

// Analyzer orchestrates parsing, enrichment, aggregation and storage.
type Analyzer struct {
	enricher    *enrich.Enricher
	store       store.Store
	log         *slog.Logger
	tracer      trace.Tracer
	concurrency int
	nowFunc     func() time.Time

	notifier   notify.Notifier
	notifyMin  domain.RecommendedAction
	notifyBase string
}

// Option configures the Analyzer.
type Option func(*Analyzer)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.log = l
	}
}

// WithStore sets the store used by Save, AnalyzeAndStore and Sweep.
func WithStore(s store.Store) Option {
	return func(a *Analyzer) {
		a.store = s
	}
}

// WithConcurrency bounds how many items are enriched at once. Values below
// 1 keep the default.
func WithConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n >= 1 {
			a.concurrency = n
		}
	}
}

// WithNotifier announces stored analyses whose recommendation is at least
// minAction. baseURL, when set, is used to link the stored analysis.
func WithNotifier(n notify.Notifier, minAction domain.RecommendedAction, baseURL string) Option {
	return func(a *Analyzer) {
		a.notifier = n
		a.notifyMin = minAction
		a.notifyBase = baseURL
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(a *Analyzer) {
		a.nowFunc = f
	}
}

// New creates an Analyzer around an Enricher.
func New(e *enrich.Enricher, opts ...Option) *Analyzer {
	a := &Analyzer{
		enricher:    e,
		log:         slog.Default(),
		tracer:      otel.Tracer(tracerName),
		concurrency: defaultConcurrency,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the configured store, or nil.
func (a *Analyzer) Store() store.Store {
	return a.store
}

// Validate decodes, normalizes and validates a manifest without enriching
// it. A manifest with no valid rows is reported through the result, not as
// an error; decode and format failures are errors.
func (a *Analyzer) Validate(fileName string, data []byte) (domain.ValidationResult, error) {
	_, res, err := manifest.Parse(fileName, data)
	var valErr *manifest.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Result, nil
	}
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return res, nil
}

// Analyze runs the pipeline over one manifest file. It returns
// *manifest.DecodeError, manifest.ErrFormatNotSupported or
// *manifest.ValidationError for unusable input and *PartialError when ctx
// is cancelled before every item started.
func (a *Analyzer) Analyze(ctx context.Context, fileName string, data []byte) (*domain.ManifestAnalysis, error) {
	ctx, span := a.tracer.Start(ctx, "analyzer.Analyze", trace.WithAttributes(
		attribute.String("manifest.file_name", fileName),
		attribute.Int("manifest.bytes", len(data)),
	))
	defer span.End()

	start := a.nowFunc()

	items, res, err := manifest.Parse(fileName, data)
	if err != nil {
		metrics.ManifestsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("analyzing %s: %w", fileName, err)
	}
	span.SetAttributes(
		attribute.Int("manifest.total_items", res.TotalItems),
		attribute.Int("manifest.valid_items", res.ValidItems),
	)

	a.log.Info("analyzing manifest",
		"file", fileName,
		"total_items", res.TotalItems,
		"valid_items", res.ValidItems,
		"estimator", a.enricher.EstimatorName(),
	)

	enriched, err := a.enrichAll(ctx, items)
	if err != nil {
		metrics.ManifestsFailedTotal.WithLabelValues(failureReason(err)).Inc()
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ins := insight.Aggregate(enriched)
	elapsed := a.nowFunc().Sub(start)

	analysis := &domain.ManifestAnalysis{
		ManifestID:           uuid.NewString(),
		FileName:             fileName,
		UploadTimestamp:      start.UTC(),
		ProcessingDurationMs: elapsed.Milliseconds(),
		TotalItems:           res.TotalItems,
		ValidItems:           res.ValidItems,
		TotalRetailValue:     ins.TotalRetailValue,
		TotalPotentialProfit: ins.TotalPotentialProfit,
		ExecutiveSummary:     ins.Summary,
		Categories:           ins.Categories,
		EstimatorName:        a.enricher.EstimatorName(),
		Items:                enriched,
	}
	if len(res.Errors) > 0 {
		analysis.ValidationErrors = res.Errors
	}

	metrics.ManifestsAnalyzedTotal.Inc()
	metrics.AnalysisDuration.Observe(elapsed.Seconds())
	metrics.ManifestItemsHistogram.Observe(float64(len(enriched)))
	metrics.ItemsEnrichedTotal.Add(float64(len(enriched)))
	if n := countDegraded(enriched); n > 0 {
		metrics.ItemsDegradedTotal.Add(float64(n))
	}

	span.SetAttributes(attribute.String("manifest.id", analysis.ManifestID))
	a.log.Info("manifest analyzed",
		"manifest_id", analysis.ManifestID,
		"file", fileName,
		"items", len(enriched),
		"roi", analysis.ExecutiveSummary.AverageROI,
		"action", analysis.ExecutiveSummary.RecommendedAction,
		"duration", elapsed,
	)

	return analysis, nil
}

// enrichAll enriches items with at most a.concurrency in flight. Results
// keep input order. Items not yet started when ctx is cancelled are
// skipped; items already running finish on a detached context.
func (a *Analyzer) enrichAll(ctx context.Context, items []domain.ManifestItem) ([]domain.EnrichedItem, error) {
	out := make([]domain.EnrichedItem, len(items))
	detached := context.WithoutCancel(ctx)

	var (
		g         errgroup.Group
		completed atomic.Int64
	)
	g.SetLimit(a.concurrency)

	for i := range items {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = a.enricher.Enrich(detached, items[i])
			completed.Add(1)
			return nil
		})
	}
	waitErr := g.Wait()

	if done := int(completed.Load()); done < len(items) {
		err := ctx.Err()
		if err == nil {
			err = waitErr
		}
		a.log.Warn("analysis cancelled",
			"completed", done,
			"total", len(items),
			"error", err,
		)
		return nil, &PartialError{Completed: done, Total: len(items), Err: err}
	}

	return out, nil
}

// Save persists a completed analysis. Failures are returned as *StoreError
// carrying the analysis.
func (a *Analyzer) Save(ctx context.Context, analysis *domain.ManifestAnalysis) error {
	if a.store == nil {
		return &StoreError{Analysis: analysis, Err: ErrNoStore}
	}
	if err := a.store.Put(ctx, analysis); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("put").Inc()
		a.log.Error("storing analysis failed",
			"manifest_id", analysis.ManifestID,
			"error", err,
		)
		return &StoreError{Analysis: analysis, Err: err}
	}
	return nil
}

// AnalyzeAndStore analyzes a manifest and saves the result. On a store
// failure the analysis is returned together with the *StoreError.
func (a *Analyzer) AnalyzeAndStore(ctx context.Context, fileName string, data []byte) (*domain.ManifestAnalysis, error) {
	analysis, err := a.Analyze(ctx, fileName, data)
	if err != nil {
		return nil, err
	}
	if err := a.Save(ctx, analysis); err != nil {
		return analysis, err
	}
	a.announce(ctx, analysis)
	return analysis, nil
}

// announce sends a notification for a stored analysis that meets the
// threshold. Failures are logged and counted, never returned.
func (a *Analyzer) announce(ctx context.Context, analysis *domain.ManifestAnalysis) {
	if a.notifier == nil || !notify.MeetsThreshold(analysis.ExecutiveSummary.RecommendedAction, a.notifyMin) {
		return
	}

	p := notify.PayloadFrom(analysis, a.notifyBase)
	if err := a.notifier.NotifyAnalysis(ctx, &p); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		a.log.Warn("sending analysis notification failed",
			"manifest_id", analysis.ManifestID,
			"error", err,
		)
		return
	}
	metrics.NotificationsSentTotal.Inc()
}

// Sweep deletes stored analyses uploaded more than maxAge ago.
func (a *Analyzer) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	if a.store == nil {
		return 0, ErrNoStore
	}

	cutoff := a.nowFunc().Add(-maxAge)
	n, err := a.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("delete_older_than").Inc()
		return 0, fmt.Errorf("sweeping analyses older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	metrics.RetentionDeletedTotal.Add(float64(n))
	metrics.RetentionLastRunTimestamp.Set(float64(a.nowFunc().Unix()))
	return n, nil
}

func countDegraded(items []domain.EnrichedItem) int {
	var n int
	for i := range items {
		if len(items[i].Degraded) > 0 {
			n++
		}
	}
	return n
}

// failureReason is the metrics label for a failed analysis.
func failureReason(err error) string {
	var (
		decErr  *manifest.DecodeError
		valErr  *manifest.ValidationError
		partErr *PartialError
	)
	switch {
	case errors.Is(err, manifest.ErrFormatNotSupported):
		return "format"
	case errors.As(err, &decErr):
		return "decode"
	case errors.As(err, &valErr):
		return "validation"
	case errors.As(err, &partErr):
		return "cancelled"
	default:
		return "other"
	}
}
