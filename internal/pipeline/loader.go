package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
	"github.com/couchcryptid/orbit-catalog-etl/internal/observability"
)

// Sink is a named BatchLoader.
type Sink struct {
	Name   string
	Loader BatchLoader
}

// LoadError names the sinks that rejected a batch.
type LoadError struct {
	Sinks []string
	errs  []error
}

func (e *LoadError) Error() string { return errors.Join(e.errs...).Error() }

func (e *LoadError) Unwrap() []error { return e.errs }

// FanOutLoader loads every batch into each sink in order. A failing sink does
// not stop the others; failures are collected in a *LoadError.
type FanOutLoader struct {
	sinks   []Sink
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFanOutLoader creates a loader over sinks.
func NewFanOutLoader(logger *slog.Logger, metrics *observability.Metrics, sinks ...Sink) *FanOutLoader {
	return &FanOutLoader{sinks: sinks, logger: logger, metrics: metrics}
}

// Sinks returns the configured sink names.
func (f *FanOutLoader) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name
	}
	return names
}

func (f *FanOutLoader) LoadBatch(ctx context.Context, records []domain.ParsedElement) error {
	var failed LoadError
	for _, s := range f.sinks {
		if err := f.loadSink(ctx, s, records); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.metrics.LoadErrors.WithLabelValues(s.Name).Inc()
			f.logger.Error("sink load failed", "sink", s.Name, "error", err, "batch_size", len(records))
			failed.Sinks = append(failed.Sinks, s.Name)
			failed.errs = append(failed.errs, fmt.Errorf("%s: %w", s.Name, err))
		}
	}
	if len(failed.errs) == 0 {
		return nil
	}
	return &failed
}

// only returns a loader over the named sinks, keeping their order.
func (f *FanOutLoader) only(names []string) *FanOutLoader {
	sub := &FanOutLoader{logger: f.logger, metrics: f.metrics}
	for _, s := range f.sinks {
		if slices.Contains(names, s.Name) {
			sub.sinks = append(sub.sinks, s)
		}
	}
	return sub
}

func (f *FanOutLoader) loadSink(ctx context.Context, s Sink, records []domain.ParsedElement) error {
	ctx, span := observability.Tracer().Start(ctx, "etl.load."+s.Name)
	defer span.End()
	span.SetAttributes(attribute.String("sink", s.Name), attribute.Int("records", len(records)))

	err := s.Loader.LoadBatch(ctx, records)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
