package domain

import (
	"math"
	"strings"
)

const (
	leoCeilingKm   = 2000.0
	meoCeilingKm   = 35586.0
	geoAltitudeKm  = 35786.0
	geoToleranceKm = 200.0
)

// ClassifyOrbit buckets an approximate altitude. The thresholds are evaluated
// in order, so the first match wins.
func ClassifyOrbit(alt *float64) OrbitClass {
	if alt == nil {
		return OrbitUnknown
	}
	switch a := *alt; {
	case a < leoCeilingKm:
		return OrbitLEO
	case a < meoCeilingKm:
		return OrbitMEO
	case math.Abs(a-geoAltitudeKm) <= geoToleranceKm:
		return OrbitGEO
	default:
		return OrbitHEO
	}
}

type typeRule struct {
	typ      ObjectType
	keywords []string
}

// typeRules are checked in order against the upper-cased name.
var typeRules = []typeRule{
	{TypeStation, []string{"ISS", "ZARYA", "TIANGONG", "CSS ("}},
	{TypeTelescope, []string{"HUBBLE"}},
	{TypeNavigation, []string{"GPS", "NAVSTAR", "GALILEO", "GLONASS", "BEIDOU"}},
	{TypeWeather, []string{"WEATHER", "METEOR", "MET-", "NOAA", "GOES", "METOP"}},
	{TypeComms, []string{"STARLINK", "ONEWEB", "IRIDIUM", "INTELSAT", "KU"}},
}

// ClassifyType assigns a coarse functional type by case-insensitive substring
// match on the object name. Short keywords match inside longer words, so "KU"
// also matches "KUIPER" and "SAKURA".
func ClassifyType(name string) ObjectType {
	upper := strings.ToUpper(name)
	for _, r := range typeRules {
		for _, kw := range r.keywords {
			if strings.Contains(upper, kw) {
				return r.typ
			}
		}
	}
	return TypeUnknown
}
