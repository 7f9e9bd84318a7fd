package easing

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestCubicBezierEndpoints(t *testing.T) {
	for _, name := range []string{"ease", "ease-in", "ease-out", "ease-in-out"} {
		f, ok := Named(name)
		if !ok {
			t.Fatalf("preset %q missing", name)
		}
		if got := f(0); got != 0 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := f(1); got != 1 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestEaseInMatchesControlPoints(t *testing.T) {
	want := CubicBezier(0.42, 0, 1, 1)
	got := Resolve("ease-in")
	for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1} {
		if !near(got(x), want(x)) {
			t.Errorf("ease-in(%v) = %v, want %v", x, got(x), want(x))
		}
	}
	// ease-in is slow out of the start.
	if got(0.5) >= 0.5 {
		t.Errorf("ease-in(0.5) = %v, want < 0.5", got(0.5))
	}
}

func TestCubicBezierKnownValue(t *testing.T) {
	f := CubicBezier(0.4, 0.0, 0.2, 1.0)
	if got := f(0.5); math.Abs(got-0.78) > 0.01 {
		t.Errorf("cubic-bezier(0.4,0,0.2,1)(0.5) = %v, want ~0.78", got)
	}
}

func TestCubicBezierDiagonalIsLinear(t *testing.T) {
	f := CubicBezier(0.3, 0.3, 0.7, 0.7)
	for _, x := range []float64{-0.5, 0.2, 0.5, 1.5} {
		if f(x) != x {
			t.Errorf("f(%v) = %v, want identity", x, f(x))
		}
	}
}

func TestUSpeed(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{0.25, 4*0.015625 - 6*0.0625 + 0.75},
	}
	f := Resolve("u-speed")
	for _, tt := range tests {
		if got := f(tt.in); !near(got, tt.want) {
			t.Errorf("u-speed(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveSpecs(t *testing.T) {
	custom := func(t float64) float64 { return t * t }
	tests := []struct {
		name string
		spec any
		at   float64
		want float64
	}{
		{"nil", nil, 0.3, 0.3},
		{"empty", "", 0.3, 0.3},
		{"linear", "linear", 0.3, 0.3},
		{"custom func", custom, 0.5, 0.25},
		{"custom Func", Func(custom), 0.5, 0.25},
		{"float slice", []float64{0.42, 0, 1, 1}, 0.5, EaseIn(0.5)},
		{"array", [4]float64{0, 0, 0.58, 1}, 0.5, EaseOut(0.5)},
		{"yaml list", []any{0.42, 0, 0.58, 1}, 0.5, EaseInOut(0.5)},
		{"extra points", []float64{0.25, 0.1, 0.25, 1, 9}, 0.5, Ease(0.5)},
		{"penner preset", "in-quad", 0.5, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Resolver{Strict: true}.Resolve(tt.spec, nil)
			if err != nil {
				t.Fatalf("Resolve(%v) error: %v", tt.spec, err)
			}
			if got := f(tt.at); !near(got, tt.want) {
				t.Errorf("f(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestResolveUnrecognizedKeepsCurrent(t *testing.T) {
	specs := []any{
		"wobble",
		[]float64{0.1, 0.2},
		[]float64{1.5, 0, 0.5, 1},
		[]any{"a", 0, 1, 1},
		42,
	}
	current := Func(USpeed)
	for _, spec := range specs {
		f, err := Resolver{}.Resolve(spec, current)
		if err != nil {
			t.Errorf("lenient Resolve(%v) error = %v, want nil", spec, err)
		}
		if f(0.25) != USpeed(0.25) {
			t.Errorf("lenient Resolve(%v) replaced the current curve", spec)
		}

		f, err = Resolver{Strict: true}.Resolve(spec, current)
		if !errors.Is(err, ErrUnrecognized) {
			t.Errorf("strict Resolve(%v) error = %v, want ErrUnrecognized", spec, err)
		}
		if f(0.25) != USpeed(0.25) {
			t.Errorf("strict Resolve(%v) replaced the current curve", spec)
		}
	}
}

func TestOvershootPreserved(t *testing.T) {
	f := Resolve("out-back")
	peak := 0.0
	for i := 0; i <= 100; i++ {
		if v := f(float64(i) / 100); v > peak {
			peak = v
		}
	}
	if peak <= 1 {
		t.Errorf("out-back peak = %v, want overshoot above 1", peak)
	}
}
