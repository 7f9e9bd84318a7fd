package animate

import (
	"fmt"
	"time"
)

// State is the lifecycle state of a Session.
//
//	        Run()              timeline exhausted / Over()
//	Idle ──────────► Running ──────────────────────────────► Completed
//	                   │  ▲
//	                   └──┘ Run() cancels and restarts
type State int

const (
	Idle State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session plays a Spec on its target. It owns all playback state: the
// active segment, progress, start values and scheduled callbacks.
//
// A Session is not safe for concurrent use. Call Run and Over from the
// goroutine that delivers the Scheduler's callbacks.
type Session[T any] struct {
	spec  *Spec[T]
	sched Scheduler

	state   State
	step    int
	process float64
	start   time.Time
	gen     uint64
	frame   Handle
	timer   Handle

	startState map[string]any
	targets    []map[string]any
	endState   map[string]any
	endKeys    []string
	registry   Registry[T]

	done   chan struct{}
	closed bool
	err    error
}

// NewSession prepares a Session of sp driven by sched.
func (sp *Spec[T]) NewSession(sched Scheduler) *Session[T] {
	s := &Session[T]{
		spec:  sp,
		sched: sched,
		done:  make(chan struct{}),
	}
	s.registry.Register(sp.conditions)
	return s
}

// State returns the lifecycle state.
func (s *Session[T]) State() State { return s.state }

// Step returns the index of the active segment.
func (s *Session[T]) Step() int { return s.step }

// Process returns the linear progress through the active segment.
func (s *Session[T]) Process() float64 { return s.process }

// Target returns the animated object.
func (s *Session[T]) Target() T { return s.spec.target }

// Spec returns the configuration being played.
func (s *Session[T]) Spec() *Spec[T] { return s.spec }

// Err returns the error that aborted the last run, if any.
func (s *Session[T]) Err() error { return s.err }

// Done is closed when the current run completes.
func (s *Session[T]) Done() <-chan struct{} { return s.done }

// Run starts playback, restarting it if it is already running. Conditions
// that fired in an earlier run stay fired.
func (s *Session[T]) Run() error {
	s.cancel()
	s.gen++
	gen := s.gen
	if s.closed {
		s.done = make(chan struct{})
		s.closed = false
	}
	s.state = Running
	s.step = 0
	s.process = 0
	s.err = nil
	s.endState = nil
	s.startState = make(map[string]any, len(s.spec.fromKeys))

	if s.spec.onStart != nil {
		s.spec.onStart(s)
		if gen != s.gen || s.state != Running {
			return nil
		}
	}

	sp := s.spec
	for _, key := range sp.fromKeys {
		base, err := sp.backend.Current(sp.target, key)
		if err != nil {
			return s.abort(backendError("Session.Run", key, err))
		}
		v, err := sp.backend.Resolve(key, base, sp.from[key])
		if err != nil {
			return s.abort(backendError("Session.Run", key, err))
		}
		if err := sp.backend.Set(sp.target, key, v); err != nil {
			return s.abort(backendError("Session.Run", key, err))
		}
		s.startState[key] = v
	}
	if err := s.plan(); err != nil {
		return s.abort(err)
	}

	s.start = s.sched.Now()
	s.frame = s.sched.RequestFrame(func(time.Time) { s.tick(gen) })
	s.timer = s.sched.AfterFunc(sp.timeline.Total(), func() {
		if gen == s.gen {
			s.Over(true)
		}
	})
	return nil
}

// Over finishes playback. The final conditions and the end hook run, and
// with snap every property is written at its final value. Calling Over on
// a completed session does nothing.
func (s *Session[T]) Over(snap bool) error {
	if s.state == Completed {
		return nil
	}
	sp := s.spec
	if s.endState == nil {
		if err := s.plan(); err != nil {
			return s.abort(err)
		}
	}

	gen := s.gen
	s.state = Completed
	s.process = 1
	s.registry.Evaluate(s.step, s.process, sp.target)
	if sp.onEnd != nil {
		sp.onEnd(s)
		if gen != s.gen {
			return nil
		}
	}

	var err error
	if snap {
		for _, key := range s.endKeys {
			if e := sp.backend.Set(sp.target, key, s.endState[key]); e != nil && err == nil {
				err = backendError("Session.Over", key, e)
			}
		}
	}
	s.cancel()
	s.closeDone()
	return err
}

// plan resolves every segment's targets to absolute values. Relative
// specifications chain: each is taken against the previous segment's
// target for the same property, or the live value for its first use.
func (s *Session[T]) plan() error {
	sp := s.spec
	projected := make(map[string]any)
	targets := make([]map[string]any, len(sp.segments))
	end := make(map[string]any)
	for i, seg := range sp.segments {
		targets[i] = make(map[string]any, len(seg))
		for _, key := range sp.keys[i] {
			base, ok := projected[key]
			if !ok {
				var err error
				if base, err = sp.backend.Current(sp.target, key); err != nil {
					return backendError("Session.plan", key, err)
				}
			}
			v, err := sp.backend.Resolve(key, base, seg[key])
			if err != nil {
				return backendError("Session.plan", key, err)
			}
			targets[i][key] = v
			projected[key] = v
			end[key] = v
		}
	}

	s.targets = targets
	s.endState = end
	s.endKeys = sortedKeys(end)
	return nil
}

func (s *Session[T]) tick(gen uint64) {
	if gen != s.gen || s.state != Running {
		return
	}
	s.frame = nil

	// Frame delivery stalls while the host is throttled, so the time the
	// frame was delivered with is ignored.
	elapsed := s.sched.Now().Sub(s.start)
	tl := s.spec.timeline
	s.process = tl.Progress(elapsed, s.step)
	if err := s.animateStep(); err != nil {
		s.abort(err)
		return
	}
	if gen != s.gen || s.state != Running {
		return
	}

	if elapsed >= tl.Total() {
		s.Over(true)
		return
	}
	if elapsed > tl.Boundary(s.step) && s.step+1 < tl.Len() {
		s.step++
		sp := s.spec
		for _, key := range sp.keys[s.step] {
			v, err := sp.backend.Current(sp.target, key)
			if err != nil {
				s.abort(backendError("Session.tick", key, err))
				return
			}
			s.startState[key] = v
		}
	}
	s.frame = s.sched.RequestFrame(func(time.Time) { s.tick(gen) })
}

func (s *Session[T]) animateStep() error {
	sp := s.spec
	targets := s.targets[s.step]
	progress := sp.ease(s.process)
	for _, key := range sp.keys[s.step] {
		from, ok := s.startState[key]
		if !ok {
			v, err := sp.backend.Current(sp.target, key)
			if err != nil {
				return backendError("Session.tick", key, err)
			}
			from = v
			s.startState[key] = v
		}
		if err := sp.backend.Apply(sp.target, key, from, targets[key], progress); err != nil {
			return backendError("Session.tick", key, err)
		}
	}

	if sp.onStep != nil {
		gen := s.gen
		sp.onStep(s.step, s.process, sp.target)
		if gen != s.gen || s.state != Running {
			return nil
		}
	}
	s.registry.Evaluate(s.step, s.process, sp.target)
	return nil
}

// abort stops playback without writing end values.
func (s *Session[T]) abort(err error) error {
	s.err = err
	s.state = Completed
	s.cancel()
	s.closeDone()
	if s.spec.logger != nil {
		s.spec.logger.Printf("animation aborted: %v", err)
	}
	return err
}

func (s *Session[T]) cancel() {
	if s.frame != nil {
		s.frame.Cancel()
		s.frame = nil
	}
	if s.timer != nil {
		s.timer.Cancel()
		s.timer = nil
	}
}

func (s *Session[T]) closeDone() {
	if !s.closed {
		close(s.done)
		s.closed = true
	}
}
