// Package easing turns speed specifications into progress curves.
//
// A specification is a preset name ("ease-in", "out-bounce", ...), four
// cubic-bezier control coordinates, or a function used verbatim. Curves are
// not clamped: elastic and back presets overshoot [0,1] on purpose.
package easing

import (
	"errors"
	"fmt"

	"github.com/fogleman/ease"
)

// Func maps linear progress to eased progress.
type Func func(t float64) float64

// ErrUnrecognized is returned by a strict Resolver for specifications it
// cannot turn into a curve.
var ErrUnrecognized = errors.New("unrecognized easing")

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// USpeed accelerates out of the start, coasts through the middle and
// accelerates into the end.
func USpeed(t float64) float64 {
	return 4*t*t*t - 6*t*t + 3*t
}

var (
	Ease      = CubicBezier(0.25, 0.1, 0.25, 1)
	EaseIn    = CubicBezier(0.42, 0, 1, 1)
	EaseOut   = CubicBezier(0, 0, 0.58, 1)
	EaseInOut = CubicBezier(0.42, 0, 0.58, 1)
)

var presets = map[string]Func{
	"linear":      Linear,
	"u-speed":     USpeed,
	"ease":        Ease,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,

	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"in-cubic":       ease.InCubic,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-quart":       ease.InQuart,
	"out-quart":      ease.OutQuart,
	"in-out-quart":   ease.InOutQuart,
	"in-quint":       ease.InQuint,
	"out-quint":      ease.OutQuint,
	"in-out-quint":   ease.InOutQuint,
	"in-sine":        ease.InSine,
	"out-sine":       ease.OutSine,
	"in-out-sine":    ease.InOutSine,
	"in-expo":        ease.InExpo,
	"out-expo":       ease.OutExpo,
	"in-out-expo":    ease.InOutExpo,
	"in-circ":        ease.InCirc,
	"out-circ":       ease.OutCirc,
	"in-out-circ":    ease.InOutCirc,
	"in-elastic":     ease.InElastic,
	"out-elastic":    ease.OutElastic,
	"in-out-elastic": ease.InOutElastic,
	"in-back":        ease.InBack,
	"out-back":       ease.OutBack,
	"in-out-back":    ease.InOutBack,
	"in-bounce":      ease.InBounce,
	"out-bounce":     ease.OutBounce,
	"in-out-bounce":  ease.InOutBounce,
}

// Named returns the preset registered under name.
func Named(name string) (Func, bool) {
	f, ok := presets[name]
	return f, ok
}

// Resolver turns specifications into curves. A non-strict Resolver keeps
// the current curve when it meets a specification it does not understand;
// a strict one also reports ErrUnrecognized.
type Resolver struct {
	Strict bool
}

// Resolve returns the curve described by spec. current is returned
// unchanged for unrecognized specifications.
func (r Resolver) Resolve(spec any, current Func) (Func, error) {
	f, err := parse(spec)
	if err != nil {
		if r.Strict {
			return current, err
		}
		return current, nil
	}
	return f, nil
}

// Resolve is Resolver{}.Resolve with Linear as the fallback curve.
func Resolve(spec any) Func {
	f, _ := Resolver{}.Resolve(spec, Linear)
	return f
}

func parse(spec any) (Func, error) {
	switch s := spec.(type) {
	case nil:
		return Linear, nil
	case string:
		if s == "" {
			return Linear, nil
		}
		if f, ok := presets[s]; ok {
			return f, nil
		}
		return nil, fmt.Errorf("%w: preset %q", ErrUnrecognized, s)
	case Func:
		if s == nil {
			return nil, fmt.Errorf("%w: nil function", ErrUnrecognized)
		}
		return s, nil
	case func(float64) float64:
		if s == nil {
			return nil, fmt.Errorf("%w: nil function", ErrUnrecognized)
		}
		return s, nil
	case [4]float64:
		return bezier(s[:])
	case []float64:
		return bezier(s)
	case []any:
		points := make([]float64, 0, len(s))
		for _, v := range s {
			p, ok := number(v)
			if !ok {
				return nil, fmt.Errorf("%w: control point %v is not a number", ErrUnrecognized, v)
			}
			points = append(points, p)
		}
		return bezier(points)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnrecognized, spec)
}

func bezier(p []float64) (Func, error) {
	if len(p) < 4 {
		return nil, fmt.Errorf("%w: need 4 control points, got %d", ErrUnrecognized, len(p))
	}
	if p[0] < 0 || p[0] > 1 || p[2] < 0 || p[2] > 1 {
		return nil, fmt.Errorf("%w: bezier x values must be in [0, 1]", ErrUnrecognized)
	}
	return CubicBezier(p[0], p[1], p[2], p[3]), nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
