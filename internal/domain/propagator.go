package domain

import (
	"math"
	"time"
)

// PropagationStatus is the outcome class of a single SGP4 evaluation.
type PropagationStatus string

const (
	StatusOK    PropagationStatus = "ok"
	StatusError PropagationStatus = "error"

	// StatusEccentricity reports a numerical degeneracy flagged by the SGP4
	// initialiser: mean or perturbed eccentricity outside [0, 1).
	StatusEccentricity PropagationStatus = "eccentricity"
)

// PropagationOutcome is the state vector produced by one evaluation, in the
// TEME frame. Position is in km, velocity in km/s. Vectors are meaningful
// only when Status is StatusOK.
type PropagationOutcome struct {
	Status   PropagationStatus
	Position [3]float64
	Velocity [3]float64
}

// OK reports whether the outcome carries a usable state vector.
func (o PropagationOutcome) OK() bool {
	return o.Status == StatusOK
}

// Radius returns the geocentric distance of the position vector in km.
func (o PropagationOutcome) Radius() float64 {
	return math.Sqrt(o.Position[0]*o.Position[0] + o.Position[1]*o.Position[1] + o.Position[2]*o.Position[2])
}

// ElementSet holds the fields parsed from a pair of element lines, in the
// units they appear in the text.
type ElementSet struct {
	CatalogNumber  int
	EpochYear      int
	EpochDay       float64
	MeanMotionDot  float64
	MeanMotionDDot float64
	BStar          float64
	InclinationDeg float64
	RAANDeg        float64
	Eccentricity   float64
	ArgPerigeeDeg  float64
	MeanAnomalyDeg float64
	MeanMotion     float64
}

// Epoch resolves the element set's two-digit year and day of year.
func (s ElementSet) Epoch() (time.Time, bool) {
	return ResolveEpoch(s.EpochYear, s.EpochDay)
}

// Propagator evaluates element sets. Implementations must report failures
// through the outcome status rather than panicking, but callers still guard
// against panics.
type Propagator interface {
	// Elements parses the element lines into their numeric fields.
	Elements(line1, line2 string) (ElementSet, error)
	// Propagate evaluates the element set offsetMinutes after its epoch.
	Propagate(line1, line2 string, offsetMinutes float64) PropagationOutcome
}
