package stream

import (
	"encoding/binary"
	"testing"
)

func TestStripRender(t *testing.T) {
	s := NewStrip(6)
	s.Color = mustHex(t, "#ff0000")
	s.Background = mustHex(t, "#0000ff")
	s.Position = 1.5
	s.Length = 2

	f := s.Render()
	if f.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", f.Len())
	}
	// Pixels 2 and 3 fall inside [1.5, 3.5).
	lit := map[int]bool{2: true, 3: true}
	for i := 0; i < f.Len(); i++ {
		want := s.Background
		if lit[i] {
			want = s.Color
		}
		if f.Pixel(i) != want {
			t.Errorf("pixel %d = %v, want %v", i, f.Pixel(i).Hex(), want.Hex())
		}
	}
}

func TestStripBrightnessDims(t *testing.T) {
	s := NewStrip(1)
	s.Color = mustHex(t, "#ffffff")
	s.Brightness = 0.5

	_, _, l := s.Render().Pixel(0).Hcl()
	_, _, full := s.Color.Hcl()
	if l >= full || l <= 0 {
		t.Errorf("dimmed luminance = %v, full = %v", l, full)
	}

	s.Brightness = 0
	if r, g, b := s.Render().Pixel(0).Clamped().RGB255(); r+g+b != 0 {
		t.Errorf("zero brightness = %d,%d,%d, want black", r, g, b)
	}
}

func TestFrameMarshalBinary(t *testing.T) {
	s := NewStrip(3)
	s.Color = mustHex(t, "#102030")
	data, err := s.Render().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2+3*3 {
		t.Fatalf("len = %d, want 11", len(data))
	}
	if n := binary.LittleEndian.Uint16(data); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
	if data[2] != 0x10 || data[3] != 0x20 || data[4] != 0x30 {
		t.Errorf("first pixel = % x, want 10 20 30", data[2:5])
	}
}
