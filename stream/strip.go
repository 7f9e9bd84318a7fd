package stream

import (
	"github.com/lucasb-eyer/go-colorful"
)

// A Renderer produces the next Frame to stream.
type Renderer interface {
	Render() *Frame
}

// Strip is the animated target: a run of pixels lit with Color over a
// Background. Pixels in [Position, Position+Length) are lit.
type Strip struct {
	Color      colorful.Color
	Background colorful.Color
	Brightness float64
	Position   float64
	Length     float64

	pixels int
}

// NewStrip creates a dark, fully bright Strip of n pixels with every pixel
// lit.
func NewStrip(n int) *Strip {
	s := new(Strip)
	s.pixels = n
	s.Brightness = 1
	s.Length = float64(n)
	return s
}

// Pixels returns the number of pixels on the strip.
func (s *Strip) Pixels() int {
	return s.pixels
}

// Render draws the strip into a new Frame.
func (s *Strip) Render() *Frame {
	f := NewFrame(s.pixels)
	fore := dim(s.Color, s.Brightness)
	back := dim(s.Background, s.Brightness)
	end := s.Position + s.Length
	for i := range f.pixels {
		p := float64(i)
		if p >= s.Position && p < end {
			f.pixels[i] = fore
		} else {
			f.pixels[i] = back
		}
	}

	return f
}

// dim scales the luminance of c by gain.
func dim(c colorful.Color, gain float64) colorful.Color {
	if gain == 1 {
		return c
	}
	if gain < 0 {
		gain = 0
	}
	h, ch, l := c.Hcl()
	return colorful.Hcl(h, ch, l*gain)
}
