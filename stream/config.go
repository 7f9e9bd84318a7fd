package stream

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/matt-g-everett/ledkey/animate"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	FrameRate  float64                    `yaml:"frameRate"`
	Pixels     int                        `yaml:"pixels"`
	Strip      map[string]interface{}     `yaml:"strip"`
	Autoplay   string                     `yaml:"autoplay"`
	Animations map[string]AnimationConfig `yaml:"animations"`
}

// ErrConflictingDurations is returned for an animation that sets both an
// overall duration and per-segment durations.
var ErrConflictingDurations = errors.New("both duration and segment durations set")

// AnimationConfig describes one named keyframe animation.
//
// With Duration set it is spread evenly over the segments; otherwise each
// segment uses its own duration. Setting both is an error.
type AnimationConfig struct {
	From     map[string]interface{} `yaml:"from"`
	Segments []SegmentConfig        `yaml:"segments"`
	Duration time.Duration          `yaml:"duration"`
	Easing   interface{}            `yaml:"easing"`
	Strict   bool                   `yaml:"strict"`
}

type SegmentConfig struct {
	To       map[string]interface{} `yaml:"to"`
	Duration time.Duration          `yaml:"duration"`
}

const (
	defaultFrameRate = 30
	defaultPixels    = 500
	defaultTopic     = "home/xmastree/stream"
)

// ReadConfig decodes a YAML config and fills in defaults.
func ReadConfig(r io.Reader) (Config, error) {
	var c Config
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return c, err
	}
	if c.FrameRate <= 0 {
		c.FrameRate = defaultFrameRate
	}
	if c.Pixels <= 0 {
		c.Pixels = defaultPixels
	}
	// Frames carry the pixel count in 16 bits.
	if c.Pixels > math.MaxUint16 {
		return c, fmt.Errorf("pixels: %d exceeds %d", c.Pixels, math.MaxUint16)
	}
	if c.Mqtt.Topics.Stream == "" {
		c.Mqtt.Topics.Stream = defaultTopic
	}
	if c.Autoplay != "" {
		if _, ok := c.Animations[c.Autoplay]; !ok {
			return c, fmt.Errorf("autoplay: %w: %q", ErrUnknownAnimation, c.Autoplay)
		}
	}
	for name, a := range c.Animations {
		if err := a.validate(); err != nil {
			return c, fmt.Errorf("animation %q: %w", name, err)
		}
	}
	return c, nil
}

func (a AnimationConfig) validate() error {
	if a.Duration <= 0 {
		return nil
	}
	for i, seg := range a.Segments {
		if seg.Duration != 0 {
			return fmt.Errorf("segment %d: %w", i, ErrConflictingDurations)
		}
	}
	return nil
}

// LoadConfig reads the config file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return ReadConfig(f)
}

// NewStrip creates the strip described by the config, with its initial
// property values applied.
func (c Config) NewStrip() (*Strip, error) {
	s := NewStrip(c.Pixels)
	var b StripBackend
	for prop, raw := range c.Strip {
		base, err := b.Current(s, prop)
		if err != nil {
			return nil, fmt.Errorf("strip: %w", err)
		}
		v, err := b.Resolve(prop, base, raw)
		if err != nil {
			return nil, fmt.Errorf("strip: %w", err)
		}
		if err := b.Set(s, prop, v); err != nil {
			return nil, fmt.Errorf("strip: %w", err)
		}
	}
	return s, nil
}

// Builder returns an animation builder for strip configured from a.
func (a AnimationConfig) Builder(strip *Strip) *animate.Builder[*Strip] {
	b := animate.New[*Strip]().
		Target(strip).
		Backend(StripBackend{}).
		StrictEasing(a.Strict).
		Easing(a.Easing)
	if len(a.From) > 0 {
		b.From(animate.Props(a.From))
	}
	for _, seg := range a.Segments {
		b.To(animate.Props(seg.To))
	}
	if a.Duration > 0 {
		return b.Duration(a.Duration)
	}
	ds := make([]time.Duration, len(a.Segments))
	for i, seg := range a.Segments {
		ds[i] = seg.Duration
	}
	return b.Durations(ds...)
}

// BuildAnimations builds every configured animation for strip. Lifecycle
// events are reported to logger when it is not nil.
func (c Config) BuildAnimations(strip *Strip, logger *log.Logger) (map[string]*animate.Spec[*Strip], error) {
	specs := make(map[string]*animate.Spec[*Strip], len(c.Animations))
	for name, a := range c.Animations {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		b := a.Builder(strip)
		if logger != nil {
			name := name
			b.Logger(logger).
				OnStart(func(s *animate.Session[*Strip]) {
					logger.Printf("%s: start", name)
				}).
				OnEnd(func(s *animate.Session[*Strip]) {
					logger.Printf("%s: end at step %d", name, s.Step())
				})
		}
		spec, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", name, err)
		}
		specs[name] = spec
	}
	return specs, nil
}
