package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// CatalogExtractor reads the raw TLE text of a whole catalog.
type CatalogExtractor interface {
	Extract(ctx context.Context) (string, error)
}

// Transformer converts raw TLE text into enriched records.
type Transformer interface {
	Transform(ctx context.Context, text string) ([]domain.ParsedElement, error)
}

// BatchLoader writes a full catalog to a destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, records []domain.ParsedElement) error
}

// Pipeline orchestrates the periodic extract-transform-load cycle.
type Pipeline struct {
	extractor   CatalogExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	clock       clockwork.Clock
	interval    time.Duration
	ready       atomic.Bool
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the ticker time source.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline with the given stages and observability. interval is
// the period between runs.
func New(e CatalogExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		clock:       clockwork.NewRealClock(),
		interval:    interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a catalog has been loaded, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not loaded a catalog yet")
	}
	return nil
}

// Run executes one ETL run immediately and another on every interval tick
// until the context is cancelled. Failed runs are retried with backoff.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if !p.runWithRetry(ctx, ticker.Chan()) {
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}

// pendingLoad is a transformed batch that some sinks have not accepted yet.
type pendingLoad struct {
	records []domain.ParsedElement
	loader  BatchLoader
	start   time.Time
}

// runWithRetry repeats the run with exponential backoff until it succeeds.
// A failed load keeps its batch and retries only the sinks that rejected it,
// so the source is not fetched again until the next tick. Returns false if
// the pipeline should stop.
func (p *Pipeline) runWithRetry(ctx context.Context, tick <-chan time.Time) bool {
	backoff := initialBackoff
	var pending *pendingLoad
	for {
		var err error
		if pending == nil {
			pending, err = p.run(ctx)
		} else {
			pending, err = p.retryLoad(ctx, pending)
		}
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("etl run failed", "error", err, "retry_in", backoff, "load_only", pending != nil)
		if !retry.SleepWithContext(ctx, backoff) {
			return false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)

		if pending == nil {
			continue
		}
		select {
		case <-tick:
			p.logger.Warn("dropping undelivered batch for a fresh run", "batch_size", len(pending.records))
			pending = nil
			backoff = initialBackoff
		default:
		}
	}
}

// RunOnce performs a single extract-transform-load run without retrying.
func (p *Pipeline) RunOnce(ctx context.Context) error {
	_, err := p.run(ctx)
	return err
}

// run performs extract, transform and load. When the load fails the returned
// pendingLoad holds the batch and a loader for the sinks still missing it.
func (p *Pipeline) run(ctx context.Context) (pending *pendingLoad, err error) {
	ctx, span := observability.Tracer().Start(ctx, "etl.run")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.metrics.Runs.WithLabelValues("error").Inc()
		}
		span.End()
	}()

	start := time.Now()

	text, err := p.extract(ctx)
	if err != nil {
		return nil, err
	}

	records, err := p.transform(ctx, text)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("catalog.size", len(records)))

	pending = &pendingLoad{records: records, loader: p.loader, start: start}
	if err = p.load(ctx, pending.loader, records); err != nil {
		p.afterLoadError(pending, err)
		return pending, err
	}
	p.loaded(records, start)
	return nil, nil
}

func (p *Pipeline) retryLoad(ctx context.Context, pending *pendingLoad) (_ *pendingLoad, err error) {
	ctx, span := observability.Tracer().Start(ctx, "etl.retry_load")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			p.metrics.Runs.WithLabelValues("error").Inc()
		}
		span.End()
	}()

	if err = p.load(ctx, pending.loader, pending.records); err != nil {
		p.afterLoadError(pending, err)
		return pending, err
	}
	p.loaded(pending.records, pending.start)
	return nil, nil
}

// afterLoadError narrows pending to the sinks that failed. Once any sink has
// the batch the catalog is served, so the pipeline reports ready.
func (p *Pipeline) afterLoadError(pending *pendingLoad, err error) {
	fan, ok := pending.loader.(*FanOutLoader)
	var loadErr *LoadError
	if !ok || !errors.As(err, &loadErr) {
		return
	}
	if len(loadErr.Sinks) < len(fan.sinks) {
		p.observeCatalog(pending.records)
		p.ready.Store(true)
		p.logger.Warn("catalog partially loaded", "batch_size", len(pending.records), "failed_sinks", loadErr.Sinks)
	}
	pending.loader = fan.only(loadErr.Sinks)
}

func (p *Pipeline) loaded(records []domain.ParsedElement, start time.Time) {
	p.observeCatalog(records)
	p.metrics.Runs.WithLabelValues("success").Inc()
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
	p.logger.Info("catalog loaded", "batch_size", len(records), "duration", time.Since(start))
}

func (p *Pipeline) extract(ctx context.Context) (string, error) {
	ctx, span := observability.Tracer().Start(ctx, "etl.extract")
	defer span.End()

	text, err := p.extractor.Extract(ctx)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("extract: %w", err)
	}
	span.SetAttributes(attribute.Int("bytes", len(text)))
	return text, nil
}

func (p *Pipeline) transform(ctx context.Context, text string) ([]domain.ParsedElement, error) {
	ctx, span := observability.Tracer().Start(ctx, "etl.transform")
	defer span.End()

	records, err := p.transformer.Transform(ctx, text)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("transform: %w", err)
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func (p *Pipeline) load(ctx context.Context, l BatchLoader, records []domain.ParsedElement) error {
	ctx, span := observability.Tracer().Start(ctx, "etl.load")
	defer span.End()

	if err := l.LoadBatch(ctx, records); err != nil {
		span.RecordError(err)
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

func (p *Pipeline) observeCatalog(records []domain.ParsedElement) {
	counts := make(map[domain.OrbitClass]int, len(domain.OrbitClasses))
	for i := range records {
		counts[records[i].OrbitClass]++
	}
	for _, c := range domain.OrbitClasses {
		p.metrics.RecordsByClass.WithLabelValues(string(c)).Set(float64(counts[c]))
	}
	p.metrics.CatalogSize.Set(float64(len(records)))
}
