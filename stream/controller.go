package stream

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/matt-g-everett/ledkey/animate"
)

var (
	// ErrUnknownAnimation is returned for names with no configured animation.
	ErrUnknownAnimation = errors.New("unknown animation")
	// ErrNotPlaying is returned when stopping an animation that is not current.
	ErrNotPlaying = errors.New("animation is not playing")
)

// Controller that manages animations on a single Strip. Only one animation
// drives the strip at a time.
//
// A Controller is not safe for concurrent use; call it from the scheduler's
// goroutine.
type Controller struct {
	strip   *Strip
	sched   animate.Scheduler
	specs   map[string]*animate.Spec[*Strip]
	current string
	session *animate.Session[*Strip]
}

// NewController creates an instance of a Controller.
func NewController(strip *Strip, sched animate.Scheduler, specs map[string]*animate.Spec[*Strip]) *Controller {
	c := new(Controller)
	c.strip = strip
	c.sched = sched
	c.specs = specs
	return c
}

// Names returns the configured animation names in order.
func (c *Controller) Names() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is configured. The set of names never changes,
// so Has may be called from any goroutine.
func (c *Controller) Has(name string) bool {
	_, ok := c.specs[name]
	return ok
}

// Current returns the animation driving the strip and its state.
func (c *Controller) Current() (string, animate.State) {
	if c.session == nil {
		return "", animate.Idle
	}
	return c.current, c.session.State()
}

// Play starts name. Playing the current animation again restarts it;
// playing another one leaves the strip where the current one got to.
func (c *Controller) Play(name string) error {
	spec, ok := c.specs[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}

	if c.session != nil && c.current != name {
		if err := c.session.Over(false); err != nil {
			log.Printf("finish %s: %v", c.current, err)
		}
		c.session = nil
	}
	if c.session == nil {
		c.session = spec.NewSession(c.sched)
		c.current = name
	}

	log.Printf("play %s (%v)", name, spec.Duration())
	return c.session.Run()
}

// Stop finishes name, optionally snapping the strip to its final values.
func (c *Controller) Stop(name string, snap bool) error {
	if !c.Has(name) {
		return fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	if c.session == nil || c.current != name {
		return fmt.Errorf("%w: %q", ErrNotPlaying, name)
	}
	return c.session.Over(snap)
}
