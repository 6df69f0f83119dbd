package domain

import (
	"strconv"
	"strings"
)

// SplitRecords groups TLE text into name/line1/line2 triples. Blank lines are
// ignored and trailing whitespace is trimmed; a trailing group of fewer than
// three lines is dropped. Catalog number, mean motion and type are extracted
// here; every other derived field is left for EnrichElement.
func SplitRecords(text string) []ParsedElement {
	lines := nonBlankLines(text)

	records := make([]ParsedElement, 0, len(lines)/3)
	for i := 0; i+2 < len(lines); i += 3 {
		name, l1, l2 := strings.TrimSpace(lines[i]), lines[i+1], lines[i+2]
		records = append(records, ParsedElement{
			Name:                name,
			Line1:               l1,
			Line2:               l2,
			CatalogNumber:       extractCatalogNumber(l1),
			MeanMotionRevPerDay: extractMeanMotion(l2),
			Type:                ClassifyType(name),
			OrbitClass:          OrbitUnknown,
			AltitudeSource:      AltitudeNone,
		})
	}
	return records
}

func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, " \t\r\f\v")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// extractCatalogNumber reads line 1 columns [2:7].
func extractCatalogNumber(line1 string) *int {
	field, ok := column(line1, 2, 7)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return nil
	}
	return &n
}

// extractMeanMotion reads line 2 columns [52:63].
func extractMeanMotion(line2 string) *float64 {
	field, ok := column(line2, 52, 63)
	if !ok {
		return nil
	}
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}

func column(line string, from, to int) (string, bool) {
	if len(line) < to {
		return "", false
	}
	return line[from:to], true
}
