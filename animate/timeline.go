package animate

import (
	"fmt"
	"time"
)

// Timeline holds the cumulative end offsets of an ordered list of segments.
// Segments are added untimed and receive their boundaries from Add or
// AddEach; boundaries only ever grow.
type Timeline struct {
	segments   int
	boundaries []time.Duration
	total      time.Duration
}

// AddSegment appends an untimed segment.
func (tl *Timeline) AddSegment() {
	tl.segments++
}

// Len returns the number of segments.
func (tl *Timeline) Len() int {
	return tl.segments
}

// Pending returns the number of segments still waiting for a duration.
func (tl *Timeline) Pending() int {
	return tl.segments - len(tl.boundaries)
}

// Add spreads total evenly over the pending segments.
func (tl *Timeline) Add(total time.Duration) error {
	n := tl.Pending()
	if n == 0 {
		return ErrNoPendingSegments
	}
	if total < 0 {
		return ErrNegativeDuration
	}

	last := tl.last()
	for i := 1; i <= n; i++ {
		// Scale before dividing so the final boundary is exact.
		tl.boundaries = append(tl.boundaries, last+time.Duration(int64(total)*int64(i)/int64(n)))
	}
	tl.total += total
	return nil
}

// AddEach assigns one duration to each pending segment, in order.
func (tl *Timeline) AddEach(ds ...time.Duration) error {
	if len(ds) != tl.Pending() {
		return fmt.Errorf("%w: %d durations for %d pending segments", ErrDurationMismatch, len(ds), tl.Pending())
	}
	for _, d := range ds {
		if d < 0 {
			return ErrNegativeDuration
		}
	}

	last := tl.last()
	for _, d := range ds {
		last += d
		tl.boundaries = append(tl.boundaries, last)
		tl.total += d
	}
	return nil
}

// Boundary returns the cumulative end offset of segment i.
func (tl *Timeline) Boundary(i int) time.Duration {
	return tl.boundaries[i]
}

// Previous returns the start offset of segment i.
func (tl *Timeline) Previous(i int) time.Duration {
	if i == 0 {
		return 0
	}
	return tl.boundaries[i-1]
}

// Total returns the sum of all added durations.
func (tl *Timeline) Total() time.Duration {
	return tl.total
}

// Progress returns how far elapsed is through segment i. The result is a
// linear ramp and is not clamped, so it may fall outside [0,1].
func (tl *Timeline) Progress(elapsed time.Duration, i int) float64 {
	prev := tl.Previous(i)
	span := tl.Boundary(i) - prev
	if span <= 0 {
		return 1
	}
	return float64(elapsed-prev) / float64(span)
}

func (tl *Timeline) last() time.Duration {
	if len(tl.boundaries) == 0 {
		return 0
	}
	return tl.boundaries[len(tl.boundaries)-1]
}

func (tl *Timeline) clone() *Timeline {
	c := *tl
	c.boundaries = append([]time.Duration(nil), tl.boundaries...)
	return &c
}
