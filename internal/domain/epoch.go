package domain

import (
	"math"
	"time"
)

// epochPivotYear separates 19yy from 20yy two-digit epoch years.
const epochPivotYear = 57

// ResolveEpoch converts a two-digit TLE epoch year and a 1-based fractional
// day of year into a UTC instant. Years below 57 map to 20yy, others to 19yy.
// It reports false for a year outside [0, 99] or a negative or non-finite day.
func ResolveEpoch(yearField int, dayOfYear float64) (time.Time, bool) {
	if yearField < 0 || yearField > 99 {
		return time.Time{}, false
	}
	if math.IsNaN(dayOfYear) || math.IsInf(dayOfYear, 0) || dayOfYear < 0 {
		return time.Time{}, false
	}

	year := 1900 + yearField
	if yearField < epochPivotYear {
		year = 2000 + yearField
	}

	whole := math.Floor(dayOfYear)
	frac := dayOfYear - whole
	micros := math.Round(frac * 24 * float64(time.Hour/time.Microsecond))

	t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, int(whole)-1).
		Add(time.Duration(micros) * time.Microsecond)
	return t, true
}
