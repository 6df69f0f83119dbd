// Package propagation evaluates TLE element sets with the SGP4 model.
package propagation

import (
	"log/slog"
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// maxOffsetMinutes bounds the propagation span; anything larger is treated
// as a failure rather than handed to the model.
const maxOffsetMinutes = 1e8

// Position magnitude bounds for a usable result. Below the WGS72 equatorial
// radius the orbit has decayed; beyond the Earth's Hill sphere the
// solution has diverged.
const (
	decayRadiusKm    = 6378.135
	divergedRadiusKm = 1.5e6
)

// SGP4 initialiser error codes that indicate eccentricity out of range.
const (
	errMeanEccentricity      = 1
	errPerturbedEccentricity = 3
)

// Engine implements domain.Propagator on top of go-satellite with WGS72
// gravity constants.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an SGP4 engine. A nil logger discards diagnostics.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Elements implements domain.Propagator.
func (e *Engine) Elements(line1, line2 string) (domain.ElementSet, error) {
	return ParseElements(line1, line2)
}

// Propagate implements domain.Propagator. It never panics: malformed input,
// initialiser errors and non-finite output are reported through the status.
func (e *Engine) Propagate(line1, line2 string, offsetMinutes float64) (out domain.PropagationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("sgp4 panicked", "panic", r)
			out = domain.PropagationOutcome{Status: domain.StatusError}
		}
	}()

	set, err := ParseElements(line1, line2)
	if err != nil {
		e.logger.Debug("element set rejected", "error", err)
		return failed(domain.StatusError)
	}
	epoch, ok := set.Epoch()
	if !ok {
		return failed(domain.StatusError)
	}
	if math.IsNaN(offsetMinutes) || math.IsInf(offsetMinutes, 0) || math.Abs(offsetMinutes) > maxOffsetMinutes {
		return failed(domain.StatusError)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		e.logger.Debug("sgp4 init failed",
			"catalog_number", set.CatalogNumber,
			"code", sat.Error,
			"reason", sat.ErrorStr,
		)
		return failed(statusForInitError(int(sat.Error)))
	}

	// go-satellite takes whole seconds and truncates the element epoch to whole
	// seconds as well, so an evaluation instant resolves to about one second
	// (some 7.6 km along-track in low orbit).
	at := epoch.Add(time.Duration(offsetMinutes * float64(time.Minute))).Round(time.Second)
	year, month, day := at.Date()
	hour, minute, sec := at.Clock()
	pos, vel := satellite.Propagate(sat, year, int(month), day, hour, minute, sec)

	out = domain.PropagationOutcome{
		Status:   domain.StatusOK,
		Position: [3]float64{pos.X, pos.Y, pos.Z},
		Velocity: [3]float64{vel.X, vel.Y, vel.Z},
	}
	if !finite(out.Position) || !finite(out.Velocity) {
		return failed(domain.StatusError)
	}
	// go-satellite sets runtime error codes (decay among them) on its own
	// copy of the satellite, so they never reach the caller.
	if r := out.Radius(); r < decayRadiusKm || r > divergedRadiusKm {
		e.logger.Debug("sgp4 position out of range",
			"catalog_number", set.CatalogNumber,
			"radius_km", r,
			"offset_minutes", offsetMinutes,
		)
		return failed(domain.StatusError)
	}
	return out
}

func statusForInitError(code int) domain.PropagationStatus {
	switch code {
	case errMeanEccentricity, errPerturbedEccentricity:
		return domain.StatusEccentricity
	default:
		return domain.StatusError
	}
}

func failed(status domain.PropagationStatus) domain.PropagationOutcome {
	return domain.PropagationOutcome{Status: status}
}

func finite(v [3]float64) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
