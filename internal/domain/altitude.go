package domain

import "math"

const (
	// EarthRadiusKm is the spherical Earth radius subtracted from geocentric
	// distances.
	EarthRadiusKm = 6371.0

	// EarthMu is the standard gravitational parameter in km^3/s^2.
	EarthMu = 398600.4418

	MinPlausibleAltitudeKm = 80.0
	MaxPlausibleAltitudeKm = 100000.0

	secondsPerDay = 86400.0
)

// PlausibleAltitude reports whether alt lies within the plausibility window.
// Values outside are discarded, never clamped.
func PlausibleAltitude(alt float64) bool {
	return !math.IsNaN(alt) && alt >= MinPlausibleAltitudeKm && alt <= MaxPlausibleAltitudeKm
}

// AltitudeFromOutcome returns ‖r‖ minus the Earth radius for a successful,
// plausible propagation.
func AltitudeFromOutcome(o PropagationOutcome) (float64, bool) {
	if !o.OK() {
		return 0, false
	}
	alt := o.Radius() - EarthRadiusKm
	if !PlausibleAltitude(alt) {
		return 0, false
	}
	return alt, true
}

// AltitudeFromMeanMotion estimates altitude from mean motion via Kepler's
// third law: a = (mu / n^2)^(1/3), with n in rad/s.
func AltitudeFromMeanMotion(revPerDay float64) (float64, bool) {
	if math.IsNaN(revPerDay) || math.IsInf(revPerDay, 0) || revPerDay <= 0 {
		return 0, false
	}
	n := revPerDay * 2 * math.Pi / secondsPerDay
	a := math.Cbrt(EarthMu / (n * n))
	alt := a - EarthRadiusKm
	if !PlausibleAltitude(alt) {
		return 0, false
	}
	return alt, true
}
