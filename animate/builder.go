package animate

import (
	"log"
	"reflect"
	"sort"
	"time"

	"github.com/matt-g-everett/ledkey/easing"
)

// StepFunc observes every frame with the active segment and its linear
// progress.
type StepFunc[T any] func(step int, process float64, target T)

// Hook runs at a lifecycle point of a Session.
type Hook[T any] func(s *Session[T])

// Spec is a fully configured animation. It is immutable; every Session
// created from it starts from the same configuration.
type Spec[T any] struct {
	target     T
	backend    Backend[T]
	from       Props
	fromKeys   []string
	segments   []Props
	keys       [][]string
	timeline   *Timeline
	ease       easing.Func
	onStart    Hook[T]
	onEnd      Hook[T]
	onStep     StepFunc[T]
	conditions []Condition[T]
	logger     *log.Logger
}

// Target returns the animated object.
func (sp *Spec[T]) Target() T {
	return sp.target
}

// Duration returns the length of the whole timeline.
func (sp *Spec[T]) Duration() time.Duration {
	return sp.timeline.Total()
}

// Segments returns the number of segments.
func (sp *Spec[T]) Segments() int {
	return len(sp.segments)
}

// Boundary returns the cumulative end offset of segment i.
func (sp *Spec[T]) Boundary(i int) time.Duration {
	return sp.timeline.Boundary(i)
}

// Builder assembles a Spec. Every method returns the builder so calls can
// be chained. The first configuration error is kept and every later call
// is ignored; Err and Build report it.
type Builder[T any] struct {
	target    T
	hasTarget bool
	backend   Backend[T]
	from      Props
	segments  []Props
	timeline  Timeline
	ease      easing.Func
	resolver  easing.Resolver
	onStart   Hook[T]
	onEnd     Hook[T]
	onStep    StepFunc[T]
	conds     []Condition[T]
	logger    *log.Logger
	err       error
}

// New returns a Builder with linear easing and no segments.
func New[T any]() *Builder[T] {
	return &Builder[T]{ease: easing.Linear}
}

// Target binds the animated object. A nil target is a configuration error.
func (b *Builder[T]) Target(target T) *Builder[T] {
	if b.err != nil {
		return b
	}
	if isNil(target) {
		b.err = configError("Builder.Target", ErrNoTarget)
		return b
	}
	b.target = target
	b.hasTarget = true
	return b
}

// Backend sets the property backend used to read and write the target.
func (b *Builder[T]) Backend(backend Backend[T]) *Builder[T] {
	if b.err == nil {
		b.backend = backend
	}
	return b
}

// OnStart registers the hook run at the start of every Run.
func (b *Builder[T]) OnStart(fn Hook[T]) *Builder[T] {
	if b.err == nil {
		b.onStart = fn
	}
	return b
}

// OnEnd registers the hook run when playback finishes.
func (b *Builder[T]) OnEnd(fn Hook[T]) *Builder[T] {
	if b.err == nil {
		b.onEnd = fn
	}
	return b
}

// OnStep registers the hook run on every frame.
func (b *Builder[T]) OnStep(fn StepFunc[T]) *Builder[T] {
	if b.err == nil {
		b.onStep = fn
	}
	return b
}

// Conditions replaces the registered one-shot triggers.
func (b *Builder[T]) Conditions(cs ...Condition[T]) *Builder[T] {
	if b.err == nil {
		b.conds = append([]Condition[T](nil), cs...)
	}
	return b
}

// From sets values written to the target verbatim when playback starts.
func (b *Builder[T]) From(p Props) *Builder[T] {
	if b.err == nil {
		b.from = copyProps(p)
	}
	return b
}

// To appends a segment. The segment needs a duration from Duration or
// Durations before Build.
func (b *Builder[T]) To(p Props) *Builder[T] {
	if b.err == nil {
		b.segments = append(b.segments, copyProps(p))
		b.timeline.AddSegment()
	}
	return b
}

// Duration spreads total evenly over every segment added since the last
// duration call.
func (b *Builder[T]) Duration(total time.Duration) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.timeline.Add(total); err != nil {
		b.err = configError("Builder.Duration", err)
	}
	return b
}

// Durations gives each segment added since the last duration call its own
// duration. The number of durations must match those segments.
func (b *Builder[T]) Durations(ds ...time.Duration) *Builder[T] {
	if b.err != nil {
		return b
	}
	if err := b.timeline.AddEach(ds...); err != nil {
		b.err = configError("Builder.Durations", err)
	}
	return b
}

// StrictEasing makes later Easing calls fail on specifications they do not
// recognize instead of keeping the current curve.
func (b *Builder[T]) StrictEasing(strict bool) *Builder[T] {
	if b.err == nil {
		b.resolver.Strict = strict
	}
	return b
}

// Easing selects the progress curve: a preset name, four cubic-bezier
// control coordinates or a function. See easing.Resolver.
func (b *Builder[T]) Easing(spec any) *Builder[T] {
	if b.err != nil {
		return b
	}
	f, err := b.resolver.Resolve(spec, b.ease)
	if err != nil {
		b.err = &Error{Op: "Builder.Easing", Kind: KindEasing, Err: err}
		return b
	}
	b.ease = f
	return b
}

// Logger sets where sessions report aborted playback. Sessions are silent
// without one.
func (b *Builder[T]) Logger(l *log.Logger) *Builder[T] {
	if b.err == nil {
		b.logger = l
	}
	return b
}

// Err returns the first configuration error.
func (b *Builder[T]) Err() error {
	return b.err
}

// Build validates the configuration and returns an immutable Spec.
func (b *Builder[T]) Build() (*Spec[T], error) {
	if b.err != nil {
		return nil, b.err
	}
	switch {
	case !b.hasTarget:
		return nil, configError("Builder.Build", ErrNoTarget)
	case b.backend == nil:
		return nil, configError("Builder.Build", ErrNoBackend)
	case len(b.segments) == 0:
		return nil, configError("Builder.Build", ErrNoSegments)
	case b.timeline.Pending() > 0:
		return nil, configError("Builder.Build", ErrUntimedSegments)
	}

	sp := &Spec[T]{
		target:     b.target,
		backend:    b.backend,
		from:       copyProps(b.from),
		fromKeys:   sortedKeys(b.from),
		segments:   make([]Props, len(b.segments)),
		keys:       make([][]string, len(b.segments)),
		timeline:   b.timeline.clone(),
		ease:       b.ease,
		onStart:    b.onStart,
		onEnd:      b.onEnd,
		onStep:     b.onStep,
		conditions: append([]Condition[T](nil), b.conds...),
		logger:     b.logger,
	}
	for i, seg := range b.segments {
		sp.segments[i] = copyProps(seg)
		sp.keys[i] = sortedKeys(seg)
	}
	return sp, nil
}

func copyProps(p Props) Props {
	c := make(Props, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
