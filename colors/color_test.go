package colors

import (
	"image/color"
	"math"
	"testing"
)

func TestStandardColorRoundTrip(t *testing.T) {
	c := FromStandardColor(color.NRGBA{R: 255, G: 128, B: 0, A: 255})
	if c.R != 1 || c.B != 0 || c.A != 1 || math.Abs(c.G-128.0/255) > 1e-6 {
		t.Fatalf("unexpected color %+v", c)
	}
	if got := c.ToNRGBA(); got != (color.NRGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Fatalf("ToNRGBA = %+v", got)
	}
	if FromStandardColor(color.RGBA{}) != (Color4{}) {
		t.Fatal("transparent input should map to zero color")
	}
	if FromStandardColor(SunMarker) != SunMarker {
		t.Fatal("Color4 should pass through unchanged")
	}
}

func TestOver(t *testing.T) {
	base := Black()
	if got := base.Over(White()); got != White() {
		t.Errorf("opaque over = %+v", got)
	}
	if got := base.Over(White().Mul(New(1, 1, 1, 0))); got != base {
		t.Errorf("transparent over = %+v", got)
	}
	half := base.Over(New(1, 1, 1, 0.5))
	if half.R != 0.5 || half.A != 1 {
		t.Errorf("half over = %+v", half)
	}
}

func TestClampAndEightBit(t *testing.T) {
	c := New(1.5, -0.2, 0.5, 2).Clamp01()
	if c != New(1, 0, 0.5, 1) {
		t.Fatalf("Clamp01 = %+v", c)
	}
	if From8BitRgb(255, 0, 0, 255).ToNRGBA().R != 255 {
		t.Fatal("8 bit round trip lost red")
	}
	if l := White().Luminance(); math.Abs(l-1) > 1e-12 {
		t.Fatalf("white luminance %v", l)
	}
}
