package animate

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of an Error.
type ErrorKind int

const (
	// KindConfiguration marks misuse of the builder: missing target,
	// segment/duration mismatch and similar.
	KindConfiguration ErrorKind = iota
	// KindEasing marks an easing specification a strict builder rejected.
	KindEasing
	// KindBackend marks a failure reported by the property backend.
	KindBackend
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindEasing:
		return "easing"
	case KindBackend:
		return "backend"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrNoTarget          = errors.New("target is missing")
	ErrNoBackend         = errors.New("property backend is missing")
	ErrNoSegments        = errors.New("no segments declared")
	ErrNoPendingSegments = errors.New("no segment is waiting for a duration")
	ErrDurationMismatch  = errors.New("duration count does not match pending segments")
	ErrNegativeDuration  = errors.New("duration is negative")
	ErrUntimedSegments   = errors.New("segments without a duration")
)

// Error is a failure raised while configuring or playing an animation.
type Error struct {
	// Op is the operation that failed (e.g. "Builder.Durations").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Property is the property being processed, if any.
	Property string
	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s [%s] property=%s: %v", e.Op, e.Kind, e.Property, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindConfiguration
}

func configError(op string, err error) error {
	return &Error{Op: op, Kind: KindConfiguration, Err: err}
}

func backendError(op, property string, err error) error {
	return &Error{Op: op, Kind: KindBackend, Property: property, Err: err}
}
