package domain

import (
	"math"
	"time"
)

// GeodeticFix is an approximate sub-satellite point at the element epoch.
// The coordinates are nil together when the projection failed. Epoch is
// set on success when the element set's epoch fields resolve.
type GeodeticFix struct {
	LatitudeDeg  *float64   `json:"lat"`
	LongitudeDeg *float64   `json:"lon"`
	AltitudeKm   *float64   `json:"alt_km"`
	Epoch        *time.Time `json:"epoch,omitempty"`
}

// Valid reports whether the fix carries coordinates.
func (f GeodeticFix) Valid() bool {
	return f.LatitudeDeg != nil && f.LongitudeDeg != nil && f.AltitudeKm != nil
}

// ProjectGeodetic propagates the element set at offset 0 and converts the
// inertial position to spherical latitude, longitude and altitude. No Earth
// rotation is applied, so the longitude is inertial rather than geographic.
func ProjectGeodetic(p Propagator, line1, line2 string) GeodeticFix {
	outcome := safePropagate(p, line1, line2, 0)
	if !outcome.OK() {
		return GeodeticFix{}
	}

	r := outcome.Radius()
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return GeodeticFix{}
	}
	x, y, z := outcome.Position[0], outcome.Position[1], outcome.Position[2]

	lat := math.Asin(z/r) * 180 / math.Pi
	lon := math.Atan2(y, x) * 180 / math.Pi
	alt := r - EarthRadiusKm
	fix := GeodeticFix{LatitudeDeg: &lat, LongitudeDeg: &lon, AltitudeKm: &alt}

	if set, err := safeElements(p, line1, line2); err == nil {
		if epoch, ok := set.Epoch(); ok {
			fix.Epoch = &epoch
		}
	}
	return fix
}
