package propagation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/orbit-catalog-etl/internal/domain"
)

// tleLineLength is the fixed width of a TLE element line.
const tleLineLength = 69

var (
	ErrLineLength = errors.New("element line must be 69 characters")
	ErrLineNumber = errors.New("element line has wrong line number")
)

// field describes one numeric column as the SGP4 library reads it. The text
// transform mirrors the library exactly so that every column accepted here is
// also accepted there.
type field struct {
	name  string
	text  func(line string) string
	isInt bool
}

func slice(from, to int) func(string) string {
	return func(l string) string { return l[from:to] }
}

func squeezed(from, to int) func(string) string {
	return func(l string) string { return strings.Replace(l[from:to], " ", "", 2) }
}

// exponent builds the implied-decimal "±NNNNN±E" notation used for the
// second derivative of mean motion and BSTAR.
func exponent(sign, mantissaFrom, mantissaTo, expTo int) func(string) string {
	return func(l string) string {
		s := l[sign:mantissaFrom] + "." + l[mantissaFrom:mantissaTo] + "e" + l[mantissaTo:expTo]
		return strings.Replace(s, " ", "", 2)
	}
}

var line1Fields = []field{
	{name: "catalog number", text: func(l string) string { return strings.TrimSpace(l[2:7]) }, isInt: true},
	{name: "epoch year", text: slice(18, 20), isInt: true},
	{name: "epoch day", text: slice(20, 32)},
	{name: "mean motion first derivative", text: squeezed(33, 43)},
	{name: "mean motion second derivative", text: exponent(44, 45, 50, 52)},
	{name: "bstar", text: exponent(53, 54, 59, 61)},
}

var line2Fields = []field{
	{name: "inclination", text: squeezed(8, 16)},
	{name: "right ascension", text: squeezed(17, 25)},
	{name: "eccentricity", text: func(l string) string { return "." + l[26:33] }},
	{name: "argument of perigee", text: squeezed(34, 42)},
	{name: "mean anomaly", text: squeezed(43, 51)},
	{name: "mean motion", text: squeezed(52, 63)},
}

// ParseElements validates both element lines and returns their numeric
// fields. Checksums are not verified.
func ParseElements(line1, line2 string) (domain.ElementSet, error) {
	if err := checkLine(line1, '1'); err != nil {
		return domain.ElementSet{}, fmt.Errorf("line 1: %w", err)
	}
	if err := checkLine(line2, '2'); err != nil {
		return domain.ElementSet{}, fmt.Errorf("line 2: %w", err)
	}

	v1, err := parseFields(line1, line1Fields)
	if err != nil {
		return domain.ElementSet{}, fmt.Errorf("line 1: %w", err)
	}
	v2, err := parseFields(line2, line2Fields)
	if err != nil {
		return domain.ElementSet{}, fmt.Errorf("line 2: %w", err)
	}

	return domain.ElementSet{
		CatalogNumber:  int(v1[0]),
		EpochYear:      int(v1[1]),
		EpochDay:       v1[2],
		MeanMotionDot:  v1[3],
		MeanMotionDDot: v1[4],
		BStar:          v1[5],
		InclinationDeg: v2[0],
		RAANDeg:        v2[1],
		Eccentricity:   v2[2],
		ArgPerigeeDeg:  v2[3],
		MeanAnomalyDeg: v2[4],
		MeanMotion:     v2[5],
	}, nil
}

func checkLine(line string, number byte) error {
	if len(line) != tleLineLength {
		return fmt.Errorf("%w, got %d", ErrLineLength, len(line))
	}
	if line[0] != number || line[1] != ' ' {
		return fmt.Errorf("%w: want %q, got %q", ErrLineNumber, number, line[0])
	}
	return nil
}

func parseFields(line string, fields []field) ([]float64, error) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		s := f.text(line)
		if f.isInt {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", f.name, s, err)
			}
			values[i] = float64(n)
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", f.name, s, err)
		}
		values[i] = v
	}
	return values, nil
}
