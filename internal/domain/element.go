package domain

import (
	"strconv"
	"strings"
	"time"
)

// OrbitClass buckets an object by approximate altitude.
type OrbitClass string

const (
	OrbitLEO     OrbitClass = "LEO"
	OrbitMEO     OrbitClass = "MEO"
	OrbitGEO     OrbitClass = "GEO"
	OrbitHEO     OrbitClass = "HEO"
	OrbitUnknown OrbitClass = "UNKNOWN"
)

// OrbitClasses lists every class in display order.
var OrbitClasses = []OrbitClass{OrbitLEO, OrbitMEO, OrbitGEO, OrbitHEO, OrbitUnknown}

// ParseOrbitClass returns the class matching s (case-insensitive) and whether
// it was recognised.
func ParseOrbitClass(s string) (OrbitClass, bool) {
	for _, c := range OrbitClasses {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ObjectType is a coarse functional bucket derived from the object name.
type ObjectType string

const (
	TypeStation    ObjectType = "Station"
	TypeTelescope  ObjectType = "Telescope"
	TypeNavigation ObjectType = "Navigation"
	TypeWeather    ObjectType = "Weather"
	TypeComms      ObjectType = "Comms"
	TypeUnknown    ObjectType = "Unknown"
)

// AltitudeSource records which estimator produced ApproxAltitudeKm.
type AltitudeSource string

const (
	AltitudeSGP4       AltitudeSource = "sgp4"
	AltitudeMeanMotion AltitudeSource = "mean_motion"
	AltitudeNone       AltitudeSource = "none"
)

// ParsedElement is one catalog object: the raw element lines plus every field
// derived from them. Optional fields are nil when they could not be derived
// and marshal as JSON null.
type ParsedElement struct {
	Name                string            `json:"name"`
	Line1               string            `json:"line1"`
	Line2               string            `json:"line2"`
	CatalogNumber       *int              `json:"catalog_number"`
	MeanMotionRevPerDay *float64          `json:"mean_motion_rev_per_day"`
	Epoch               *time.Time        `json:"epoch"`
	ApproxAltitudeKm    *float64          `json:"approx_alt_km"`
	AltitudeSource      AltitudeSource    `json:"altitude_source,omitempty"`
	Propagation         PropagationStatus `json:"propagation_status,omitempty"`
	OrbitClass          OrbitClass        `json:"orbit_class"`
	Type                ObjectType        `json:"type"`
	ProcessedAt         time.Time         `json:"processed_at"`
}

// Key returns a stable identifier for the object: the catalog number when
// known, otherwise the name.
func (e ParsedElement) Key() string {
	if e.CatalogNumber != nil {
		return strconv.Itoa(*e.CatalogNumber)
	}
	return e.Name
}
