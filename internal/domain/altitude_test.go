package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAltitudeFromMeanMotion(t *testing.T) {
	tests := []struct {
		name      string
		revPerDay float64
		expected  float64
	}{
		{"low earth orbit", 15.5, 423.86},
		{"iss", 15.49370953, 425.70},
		{"sun synchronous", 14.13308947, 855.21},
		{"semi synchronous", 2.0, 20239.22},
		{"geostationary", 1.0027, 35794.23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alt, ok := AltitudeFromMeanMotion(tt.revPerDay)
			require.True(t, ok)
			assert.InDelta(t, tt.expected, alt, 0.5)
		})
	}
}

func TestAltitudeFromMeanMotion_Discarded(t *testing.T) {
	tests := []struct {
		name      string
		revPerDay float64
	}{
		{"zero", 0},
		{"negative", -15.5},
		{"NaN", math.NaN()},
		{"infinite", math.Inf(1)},
		{"beyond window", 0.1},
		{"below window", 17.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := AltitudeFromMeanMotion(tt.revPerDay)
			assert.False(t, ok)
		})
	}
}

func TestPlausibleAltitude(t *testing.T) {
	assert.True(t, PlausibleAltitude(80))
	assert.True(t, PlausibleAltitude(100000))
	assert.True(t, PlausibleAltitude(420))
	assert.False(t, PlausibleAltitude(79.99))
	assert.False(t, PlausibleAltitude(100000.01))
	assert.False(t, PlausibleAltitude(-6371))
	assert.False(t, PlausibleAltitude(math.NaN()))
}

func TestAltitudeFromOutcome(t *testing.T) {
	t.Run("plausible", func(t *testing.T) {
		alt, ok := AltitudeFromOutcome(PropagationOutcome{Status: StatusOK, Position: [3]float64{6791, 0, 0}})
		require.True(t, ok)
		assert.InDelta(t, 420, alt, 1e-9)
	})

	t.Run("below window", func(t *testing.T) {
		_, ok := AltitudeFromOutcome(PropagationOutcome{Status: StatusOK, Position: [3]float64{6421, 0, 0}})
		assert.False(t, ok)
	})

	t.Run("failed status", func(t *testing.T) {
		_, ok := AltitudeFromOutcome(PropagationOutcome{Status: StatusError, Position: [3]float64{6791, 0, 0}})
		assert.False(t, ok)
	})

	t.Run("eccentricity status", func(t *testing.T) {
		_, ok := AltitudeFromOutcome(PropagationOutcome{Status: StatusEccentricity})
		assert.False(t, ok)
	})
}
