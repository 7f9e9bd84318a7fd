// Package frame provides schedulers that drive animations: a Loop paced by
// a ticker for real output, and a Manual scheduler for deterministic tests.
package frame

import (
	"context"
	"sync"
	"time"

	"github.com/matt-g-everett/ledkey/animate"
)

// request is a pending callback. Cancellation is checked when the callback
// is about to run, so cancelling a request that already ran is harmless.
type request struct {
	mu        sync.Mutex
	cancelled bool
	timer     *time.Timer
}

func (r *request) Cancel() {
	r.mu.Lock()
	r.cancelled = true
	t := r.timer
	r.mu.Unlock()
	if t != nil {
		t.Stop()
	}
}

func (r *request) live() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.cancelled
}

type frameRequest struct {
	*request
	fn func(time.Time)
}

// Loop runs frame callbacks, timer callbacks and posted functions on a
// single goroutine, one at a time. Frames are delivered at a fixed rate.
type Loop struct {
	interval time.Duration
	tasks    chan func()
	quit     chan struct{}
	stop     sync.Once

	mu     sync.Mutex
	frames []frameRequest
}

// NewLoop creates a Loop delivering frameRate frames per second.
func NewLoop(frameRate float64) *Loop {
	if frameRate <= 0 {
		frameRate = 30
	}
	return &Loop{
		interval: time.Duration(float64(time.Second) / frameRate),
		tasks:    make(chan func(), 64),
		quit:     make(chan struct{}),
	}
}

// Interval returns the time between frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Now returns the wall clock. time.Time carries a monotonic reading, so
// differences between two Now values are immune to clock changes.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// RequestFrame runs fn on the loop at the next frame.
func (l *Loop) RequestFrame(fn func(time.Time)) animate.Handle {
	r := &request{}
	l.mu.Lock()
	l.frames = append(l.frames, frameRequest{request: r, fn: fn})
	l.mu.Unlock()
	return r
}

// AfterFunc runs fn on the loop once d has passed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) animate.Handle {
	r := &request{}
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			if r.live() {
				fn()
			}
		})
	})
	r.mu.Lock()
	r.timer = t
	r.mu.Unlock()
	return r
}

// Post runs fn on the loop. It is the way for other goroutines to touch
// anything the loop owns. Post reports false, without running fn, once Run
// has returned.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Run delivers frames and callbacks until ctx is done. A Loop runs once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop.Do(func() { close(l.quit) })
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case now := <-ticker.C:
			l.flush(now)
		}
	}
}

// flush runs the frames requested before this tick. Frames requested by
// these callbacks wait for the next tick.
func (l *Loop) flush(now time.Time) {
	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, f := range frames {
		if f.live() {
			f.fn(now)
		}
	}
}
