package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
)

// ErrEmptyCatalog is returned when fetched text holds no complete element
// sets. Loading an empty catalog would wipe every sink, so the run fails.
var ErrEmptyCatalog = errors.New("catalog text contains no element sets")

// CatalogTransformer implements Transformer with the domain splitter and
// enrichment chain, fanning records out to a fixed pool of workers.
type CatalogTransformer struct {
	propagator domain.Propagator
	workers    int
	opts       domain.EnrichOptions
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewTransformer creates a CatalogTransformer. workers below 1 is treated as 1.
func NewTransformer(p domain.Propagator, workers int, toleranceDays float64, logger *slog.Logger, metrics *observability.Metrics) *CatalogTransformer {
	return &CatalogTransformer{
		propagator: p,
		workers:    max(workers, 1),
		opts:       domain.EnrichOptions{ToleranceDays: toleranceDays, Logger: logger},
		logger:     logger,
		metrics:    metrics,
	}
}

func (t *CatalogTransformer) Transform(ctx context.Context, text string) ([]domain.ParsedElement, error) {
	records := domain.SplitRecords(text)
	if len(records) == 0 {
		return nil, ErrEmptyCatalog
	}
	t.metrics.RecordsParsed.Add(float64(len(records)))

	enriched, err := t.Enrich(ctx, records)
	if err != nil {
		return nil, err
	}

	for i := range enriched {
		t.metrics.AltitudeSources.WithLabelValues(string(enriched[i].AltitudeSource)).Inc()
		if s := enriched[i].Propagation; s != domain.StatusOK {
			t.metrics.PropagationFailures.WithLabelValues(string(s)).Inc()
		}
	}
	return enriched, nil
}

// Enrich runs EnrichElement over records in parallel. The output has the
// same length and order as the input. It returns the context error if the
// context is cancelled before every record has been processed.
func (t *CatalogTransformer) Enrich(ctx context.Context, records []domain.ParsedElement) ([]domain.ParsedElement, error) {
	out := make([]domain.ParsedElement, len(records))
	if len(records) == 0 {
		return out, nil
	}

	// Every record in a batch is evaluated at the same instant.
	opts := t.opts
	if opts.Now.IsZero() {
		opts.Now = domain.Now()
	}

	jobs := make(chan int, t.workers*2)

	var wg sync.WaitGroup
	for range min(t.workers, len(records)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = domain.EnrichElement(records[i], t.propagator, opts)
			}
		}()
	}

	// Feed jobs until done or cancelled.
	func() {
		defer close(jobs)
		for i := range records {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
