package stream

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownProperty is returned for property names a Strip does not have.
var ErrUnknownProperty = errors.New("unknown property")

const (
	PropColor      = "color"
	PropBackground = "background"
	PropBrightness = "brightness"
	PropPosition   = "position"
	PropLength     = "length"
)

// StripBackend reads and writes Strip properties for the animator.
//
// Colour properties take a hex string ("#ff8000", "#f80") or a
// colorful.Color and blend in HCL space. Numeric properties take a number,
// a numeric string or a relative form: "+=n", "-=n" or "*=n".
type StripBackend struct{}

func (StripBackend) Current(s *Strip, property string) (any, error) {
	switch property {
	case PropColor:
		return s.Color, nil
	case PropBackground:
		return s.Background, nil
	case PropBrightness:
		return s.Brightness, nil
	case PropPosition:
		return s.Position, nil
	case PropLength:
		return s.Length, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, property)
}

func (StripBackend) Resolve(property string, base, raw any) (any, error) {
	switch property {
	case PropColor, PropBackground:
		return parseColour(raw)
	case PropBrightness, PropPosition, PropLength:
		b, _ := base.(float64)
		return parseNumber(b, raw)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, property)
}

func (StripBackend) Apply(s *Strip, property string, from, to any, progress float64) error {
	switch property {
	case PropColor, PropBackground:
		c1, ok1 := from.(colorful.Color)
		c2, ok2 := to.(colorful.Color)
		if !ok1 || !ok2 {
			return fmt.Errorf("%s: cannot blend %T to %T", property, from, to)
		}
		return setStrip(s, property, c1.BlendHcl(c2, progress))
	case PropBrightness, PropPosition, PropLength:
		v1, ok1 := from.(float64)
		v2, ok2 := to.(float64)
		if !ok1 || !ok2 {
			return fmt.Errorf("%s: cannot blend %T to %T", property, from, to)
		}
		return setStrip(s, property, v1+(v2-v1)*progress)
	}
	return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
}

func (StripBackend) Set(s *Strip, property string, value any) error {
	return setStrip(s, property, value)
}

func setStrip(s *Strip, property string, value any) error {
	switch property {
	case PropColor, PropBackground:
		c, ok := value.(colorful.Color)
		if !ok {
			return fmt.Errorf("%s: want a colour, got %T", property, value)
		}
		if property == PropColor {
			s.Color = c
		} else {
			s.Background = c
		}
		return nil
	case PropBrightness, PropPosition, PropLength:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%s: want a number, got %T", property, value)
		}
		switch property {
		case PropBrightness:
			s.Brightness = v
		case PropPosition:
			s.Position = v
		default:
			s.Length = v
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
}

func parseColour(raw any) (colorful.Color, error) {
	switch v := raw.(type) {
	case colorful.Color:
		return v, nil
	case string:
		c, err := colorful.Hex(strings.TrimSpace(v))
		if err != nil {
			return colorful.Color{}, fmt.Errorf("colour %q: %w", v, err)
		}
		return c, nil
	}
	return colorful.Color{}, fmt.Errorf("colour: unsupported value %v (%T)", raw, raw)
}

func parseNumber(base float64, raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if len(s) > 2 && s[1] == '=' {
			d, err := strconv.ParseFloat(strings.TrimSpace(s[2:]), 64)
			if err != nil {
				return 0, fmt.Errorf("number %q: %w", v, err)
			}
			switch s[0] {
			case '+':
				return base + d, nil
			case '-':
				return base - d, nil
			case '*':
				return base * d, nil
			}
			return 0, fmt.Errorf("number %q: unknown operator %q", v, s[0])
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("number %q: %w", v, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("number: unsupported value %v (%T)", raw, raw)
}
