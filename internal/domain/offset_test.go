package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOffsetMinutes(t *testing.T) {
	epoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		epoch    *time.Time
		now      time.Time
		expected float64
		kind     OffsetKind
	}{
		{"nil epoch", nil, epoch, 0, OffsetNoEpoch},
		{"now equals epoch", &epoch, epoch, 0, OffsetElapsed},
		{"ninety minutes elapsed", &epoch, epoch.Add(90 * time.Minute), 90, OffsetElapsed},
		{"one week elapsed", &epoch, epoch.Add(7 * 24 * time.Hour), 7 * 24 * 60, OffsetElapsed},
		{"twelve hours ahead", &epoch, epoch.Add(-12 * time.Hour), 0, OffsetNearFuture},
		{"exactly at tolerance", &epoch, epoch.Add(-24 * time.Hour), 0, OffsetNearFuture},
		{"three days ahead", &epoch, epoch.Add(-72 * time.Hour), 0, OffsetFarFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OffsetMinutes(tt.epoch, tt.now, DefaultClampToleranceDays)
			assert.InDelta(t, tt.expected, got, 1e-9)
			assert.Equal(t, tt.kind, ClassifyOffset(tt.epoch, tt.now, DefaultClampToleranceDays))
		})
	}
}

func TestOffsetMinutes_NeverNegative(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for h := -1000; h <= 1000; h += 37 {
		epoch := now.Add(time.Duration(h) * time.Hour)
		assert.GreaterOrEqual(t, OffsetMinutes(&epoch, now, DefaultClampToleranceDays), 0.0, "epoch offset %dh", h)
	}
}

func TestClassifyOffset_ZeroTolerance(t *testing.T) {
	epoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, OffsetFarFuture, ClassifyOffset(&epoch, epoch.Add(-time.Minute), 0))
	assert.Equal(t, OffsetElapsed, ClassifyOffset(&epoch, epoch, 0))
}

func TestOffsetKind_String(t *testing.T) {
	assert.Equal(t, "no_epoch", OffsetNoEpoch.String())
	assert.Equal(t, "elapsed", OffsetElapsed.String())
	assert.Equal(t, "near_future", OffsetNearFuture.String())
	assert.Equal(t, "far_future", OffsetFarFuture.String())
}
