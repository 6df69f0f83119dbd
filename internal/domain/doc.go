// Package domain models Two-Line Element (TLE) catalog data and the derived
// per-object summaries served by the catalog service.
//
// # Data Source
//
// Element sets originate from CelesTrak group listings
// (https://celestrak.org/NORAD/elements/gp.php?GROUP=active&FORMAT=tle). Each
// object is three lines of text: a free-form name line followed by the two
// fixed-column element lines.
//
// # TLE Conventions
//
// Column layout (0-based, half-open slices):
//
//	Line 1 [2:7]    catalog number, space padded
//	Line 1 [18:20]  epoch year, two digits
//	Line 1 [20:32]  epoch day of year with fractional day, 1-based
//	Line 2 [52:63]  mean motion in revolutions per day
//
// Epoch year pivot:
//
//	Two-digit years below 57 are 20yy, 57 and above are 19yy. The first
//	artificial satellite launched in 1957, so no valid element set predates it.
//
// Epoch day:
//
//	Day 1.0 is January 1 at 00:00 UTC. The fractional part is a fraction of a
//	24-hour day and is resolved to the microsecond. See [ResolveEpoch].
//
// # Derived Fields
//
// Altitude is approximate and intended for display and bucketing only:
//
//	SGP4 position at the element epoch (offset clamped, see [OffsetMinutes])
//	  → geocentric distance minus a spherical Earth radius of 6371 km
//	Mean motion fallback via Kepler's third law when SGP4 is unusable
//	  → semi-major axis minus 6371 km
//
// Both sources are discarded outside the plausibility window [80, 100000] km.
//
// Orbit classes are ordered thresholds on altitude:
//
//	< 2000 km LEO | < 35586 km MEO | within 200 km of 35786 km GEO | else HEO
//	no altitude → UNKNOWN
//
// Object types are first-match keyword buckets on the upper-cased name; see
// [ClassifyType].
//
// # Geodetic Fix
//
// Latitude and longitude are computed directly from the inertial (TEME)
// position without Earth-rotation correction, so longitude is not a true
// ground-track longitude. See [ProjectGeodetic].
package domain
