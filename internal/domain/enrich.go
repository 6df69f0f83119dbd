package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// EnrichOptions tunes EnrichElement.
type EnrichOptions struct {
	// ToleranceDays bounds how far in the future an epoch may be before it is
	// logged as suspicious. Zero means DefaultClampToleranceDays.
	ToleranceDays float64
	// Now is the evaluation instant. Zero means the package clock.
	Now    time.Time
	Logger *slog.Logger
}

// altitudeCandidate is one source in the ordered altitude chain.
type altitudeCandidate struct {
	source   AltitudeSource
	estimate func() (float64, bool)
}

// EnrichElement derives epoch, approximate altitude, orbit class and type for
// one record. Altitude comes from the first usable source in the chain:
//
//	SGP4 at the clamped offset → mean motion via Kepler → none
//
// A failing or panicking propagator only removes its candidate from the
// chain; it never escapes the record.
func EnrichElement(el ParsedElement, p Propagator, opts EnrichOptions) ParsedElement {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tolerance := opts.ToleranceDays
	if tolerance <= 0 {
		tolerance = DefaultClampToleranceDays
	}
	now := opts.Now
	if now.IsZero() {
		now = Now()
	}

	el.Epoch = resolveElementEpoch(p, el, logger)

	if ClassifyOffset(el.Epoch, now, tolerance) == OffsetFarFuture {
		logger.Warn("epoch is far in the future, propagating at epoch",
			"name", el.Name,
			"epoch", *el.Epoch,
			"tolerance_days", tolerance,
		)
	}
	offset := OffsetMinutes(el.Epoch, now, tolerance)

	outcome := safePropagate(p, el.Line1, el.Line2, offset)
	el.Propagation = outcome.Status
	if !outcome.OK() {
		logger.Debug("sgp4 propagation failed",
			"name", el.Name,
			"status", outcome.Status,
			"offset_minutes", offset,
		)
	}

	candidates := []altitudeCandidate{
		{AltitudeSGP4, func() (float64, bool) { return AltitudeFromOutcome(outcome) }},
		{AltitudeMeanMotion, func() (float64, bool) {
			if el.MeanMotionRevPerDay == nil {
				return 0, false
			}
			return AltitudeFromMeanMotion(*el.MeanMotionRevPerDay)
		}},
	}

	el.ApproxAltitudeKm = nil
	el.AltitudeSource = AltitudeNone
	for _, c := range candidates {
		if alt, ok := c.estimate(); ok {
			el.ApproxAltitudeKm = &alt
			el.AltitudeSource = c.source
			break
		}
	}

	el.OrbitClass = ClassifyOrbit(el.ApproxAltitudeKm)
	el.Type = ClassifyType(el.Name)
	el.ProcessedAt = now
	return el
}

func resolveElementEpoch(p Propagator, el ParsedElement, logger *slog.Logger) *time.Time {
	set, err := safeElements(p, el.Line1, el.Line2)
	if err != nil {
		logger.Debug("element set unreadable", "name", el.Name, "error", err)
		return nil
	}
	epoch, ok := set.Epoch()
	if !ok {
		logger.Debug("epoch unresolvable",
			"name", el.Name,
			"epoch_year", set.EpochYear,
			"epoch_day", set.EpochDay,
		)
		return nil
	}
	return &epoch
}

func safeElements(p Propagator, line1, line2 string) (set ElementSet, err error) {
	if p == nil {
		return ElementSet{}, errors.New("no propagator")
	}
	defer func() {
		if r := recover(); r != nil {
			set, err = ElementSet{}, fmt.Errorf("parse element set: panic: %v", r)
		}
	}()
	return p.Elements(line1, line2)
}

func safePropagate(p Propagator, line1, line2 string, offsetMinutes float64) (out PropagationOutcome) {
	if p == nil {
		return PropagationOutcome{Status: StatusError}
	}
	defer func() {
		if r := recover(); r != nil {
			out = PropagationOutcome{Status: StatusError}
		}
	}()
	return p.Propagate(line1, line2, offsetMinutes)
}
