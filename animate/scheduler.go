package animate

import "time"

// Handle is a scheduled callback. Cancel is safe to call more than once and
// after the callback has run.
type Handle interface {
	Cancel()
}

// Scheduler is the host's frame and timer source.
type Scheduler interface {
	// Now returns the current time of a monotonic clock.
	Now() time.Time
	// RequestFrame runs fn once before the next frame. The time passed to
	// fn is when the host delivered the frame, which may be stale.
	RequestFrame(fn func(time.Time)) Handle
	// AfterFunc runs fn once d has passed.
	AfterFunc(d time.Duration, fn func()) Handle
}
