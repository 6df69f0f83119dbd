package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"

	noaaName  = "NOAA 19"
	noaaLine1 = "1 33591U 09005A   25074.18988975  .00000419  00000+0  24768-3 0  9991"
	noaaLine2 = "2 33591  99.0072 138.3781 0012918 245.4492 114.5334 14.13308947829901"
)

func tleBlock(lines ...string) string {
	return strings.Join(lines, "\n")
}

func TestSplitRecords_Triples(t *testing.T) {
	text := tleBlock(issName, issLine1, issLine2, noaaName, noaaLine1, noaaLine2)

	records := SplitRecords(text)
	require.Len(t, records, 2)

	assert.Equal(t, issName, records[0].Name)
	assert.Equal(t, issLine1, records[0].Line1)
	assert.Equal(t, issLine2, records[0].Line2)
	require.NotNil(t, records[0].CatalogNumber)
	assert.Equal(t, 25544, *records[0].CatalogNumber)
	require.NotNil(t, records[0].MeanMotionRevPerDay)
	assert.InDelta(t, 15.49370953, *records[0].MeanMotionRevPerDay, 1e-9)
	assert.Equal(t, TypeStation, records[0].Type)

	assert.Equal(t, noaaName, records[1].Name)
	require.NotNil(t, records[1].CatalogNumber)
	assert.Equal(t, 33591, *records[1].CatalogNumber)
	assert.Equal(t, TypeWeather, records[1].Type)
}

func TestSplitRecords_BlankLinesAndCRLF(t *testing.T) {
	text := "\r\n" + issName + "   \r\n\r\n" + issLine1 + "\r\n   \r\n" + issLine2 + "\t\r\n\n"

	records := SplitRecords(text)
	require.Len(t, records, 1)
	assert.Equal(t, issName, records[0].Name)
	assert.Equal(t, issLine1, records[0].Line1)
	assert.Equal(t, issLine2, records[0].Line2)
}

func TestSplitRecords_TrailingPartialGroupDropped(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"one extra line", tleBlock(issName, issLine1, issLine2, noaaName)},
		{"two extra lines", tleBlock(issName, issLine1, issLine2, noaaName, noaaLine1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := SplitRecords(tt.text)
			require.Len(t, records, 1)
			assert.Equal(t, issName, records[0].Name)
		})
	}
}

func TestSplitRecords_Empty(t *testing.T) {
	assert.Empty(t, SplitRecords(""))
	assert.Empty(t, SplitRecords("\n\n   \n"))
	assert.Empty(t, SplitRecords(tleBlock(issName, issLine1)))
}

func TestSplitRecords_PreservesOrder(t *testing.T) {
	var b strings.Builder
	names := []string{"STARLINK-1007", "GPS BIIR-2", "HUBBLE", "UNKNOWN OBJECT"}
	for _, n := range names {
		b.WriteString(tleBlock(n, issLine1, issLine2))
		b.WriteString("\n")
	}

	records := SplitRecords(b.String())
	require.Len(t, records, len(names))
	for i, n := range names {
		assert.Equal(t, n, records[i].Name)
	}
}

func TestSplitRecords_DefaultsUnknownClass(t *testing.T) {
	records := SplitRecords(tleBlock(issName, issLine1, issLine2))
	require.Len(t, records, 1)
	assert.Equal(t, OrbitUnknown, records[0].OrbitClass)
	assert.Equal(t, AltitudeNone, records[0].AltitudeSource)
	assert.Nil(t, records[0].ApproxAltitudeKm)
	assert.Nil(t, records[0].Epoch)
}

func TestExtractCatalogNumber(t *testing.T) {
	tests := []struct {
		name     string
		line1    string
		expected *int
	}{
		{"valid", issLine1, intPtr(25544)},
		{"padded", "1   900U 64063C   21275.59097222  .00000204  00000-0  10270-4 0  9990", intPtr(900)},
		{"short line", "1 255", nil},
		{"non numeric", "1 A5544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990", nil},
		{"blank field", "1      U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCatalogNumber(tt.line1))
		})
	}
}

func TestExtractMeanMotion(t *testing.T) {
	tests := []struct {
		name     string
		line2    string
		expected *float64
	}{
		{"valid", issLine2, floatPtr(15.49370953)},
		{"geo", "2 28884   0.0165 261.5416 0002463 110.9440 293.7440  1.00271424 62870", floatPtr(1.00271424)},
		{"short line", "2 25544  51.6459 115.9059", nil},
		{"blank field", "2 25544  51.6459 115.9059 0001817  61.3028  35.9198            57760", nil},
		{"garbage", "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.4937x95357760", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractMeanMotion(tt.line2)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.expected, *got, 1e-9)
		})
	}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
