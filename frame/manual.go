package frame

import (
	"sort"
	"time"

	"github.com/matt-g-everett/ledkey/animate"
)

type manualTimer struct {
	*request
	due time.Time
	seq int
	fn  func()
}

// Manual is a Scheduler whose clock and frames move only when told to.
// Everything runs on the calling goroutine.
type Manual struct {
	now    time.Time
	frames []frameRequest
	timers []manualTimer
	seq    int
}

// NewManual returns a Manual scheduler whose clock starts at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the scheduler's clock.
func (m *Manual) Now() time.Time {
	return m.now
}

// RequestFrame queues fn for the next Flush.
func (m *Manual) RequestFrame(fn func(time.Time)) animate.Handle {
	r := &request{}
	m.frames = append(m.frames, frameRequest{request: r, fn: fn})
	return r
}

// AfterFunc queues fn to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) animate.Handle {
	r := &request{}
	m.seq++
	m.timers = append(m.timers, manualTimer{request: r, due: m.now.Add(d), seq: m.seq, fn: fn})
	return r
}

// Pending returns the number of live frame requests and timers.
func (m *Manual) Pending() (frames, timers int) {
	for _, f := range m.frames {
		if f.live() {
			frames++
		}
	}
	for _, t := range m.timers {
		if t.live() {
			timers++
		}
	}
	return frames, timers
}

// Advance moves the clock forward by d and fires the timers that fell due,
// earliest first. Frames are not delivered.
func (m *Manual) Advance(d time.Duration) {
	m.now = m.now.Add(d)
	for {
		due := m.due()
		if len(due) == 0 {
			return
		}
		for _, t := range due {
			if t.live() {
				t.fn()
			}
		}
	}
}

// Flush delivers one frame to every frame callback requested so far,
// passing the current clock. Callbacks requested during the flush wait for
// the next one.
func (m *Manual) Flush() int {
	return m.FlushAt(m.now)
}

// FlushAt is Flush with an explicit delivered timestamp, for hosts whose
// frame time lags the clock.
func (m *Manual) FlushAt(delivered time.Time) int {
	frames := m.frames
	m.frames = nil
	n := 0
	for _, f := range frames {
		if f.live() {
			f.fn(delivered)
			n++
		}
	}
	return n
}

// Step advances the clock by d, fires due timers, then flushes one frame.
func (m *Manual) Step(d time.Duration) int {
	m.Advance(d)
	return m.Flush()
}

func (m *Manual) due() []manualTimer {
	var due, rest []manualTimer
	for _, t := range m.timers {
		if !t.due.After(m.now) {
			due = append(due, t)
		} else {
			rest = append(rest, t)
		}
	}
	m.timers = rest
	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	return due
}
