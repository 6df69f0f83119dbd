package domain

import "time"

// DefaultClampToleranceDays is how far in the future an epoch may sit before
// it is reported as OffsetFarFuture.
const DefaultClampToleranceDays = 1.0

// OffsetKind describes which branch of the offset clamp applied.
type OffsetKind int

const (
	// OffsetNoEpoch means the epoch could not be resolved.
	OffsetNoEpoch OffsetKind = iota
	// OffsetElapsed means the epoch is at or before now.
	OffsetElapsed
	// OffsetNearFuture means the epoch is ahead of now by at most the tolerance.
	OffsetNearFuture
	// OffsetFarFuture means the epoch is ahead of now by more than the tolerance.
	OffsetFarFuture
)

func (k OffsetKind) String() string {
	switch k {
	case OffsetElapsed:
		return "elapsed"
	case OffsetNearFuture:
		return "near_future"
	case OffsetFarFuture:
		return "far_future"
	default:
		return "no_epoch"
	}
}

// ClassifyOffset reports which clamp branch applies to epoch at now.
func ClassifyOffset(epoch *time.Time, now time.Time, toleranceDays float64) OffsetKind {
	if epoch == nil {
		return OffsetNoEpoch
	}
	elapsed := now.Sub(*epoch)
	switch {
	case elapsed >= 0:
		return OffsetElapsed
	case elapsed.Hours()/24 >= -toleranceDays:
		return OffsetNearFuture
	default:
		return OffsetFarFuture
	}
}

// OffsetMinutes returns the propagation offset in minutes since epoch at now.
// The result is never negative: a missing epoch and every future epoch give 0.
func OffsetMinutes(epoch *time.Time, now time.Time, toleranceDays float64) float64 {
	if ClassifyOffset(epoch, now, toleranceDays) != OffsetElapsed {
		return 0
	}
	return now.Sub(*epoch).Minutes()
}
