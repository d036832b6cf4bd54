package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/echoflaresat/sunephem/colors"
)

// quadrants is a 4x2 map: west/east halves red/green in the north and
// blue/white in the south.
func quadrants() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	fill := []color.NRGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255},
		{0, 0, 255, 255}, {255, 255, 255, 255},
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, fill[y*2+x/2])
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFallsBackToPNG(t *testing.T) {
	tex, err := Load(writePNG(t, quadrants()))
	if err != nil {
		t.Fatal(err)
	}
	defer tex.Close()
	if tex.Width != 4 || tex.Height != 2 {
		t.Fatalf("size %dx%d", tex.Width, tex.Height)
	}

	cases := []struct {
		lat, lon float64
		want     colors.Color4
	}{
		{45, -90, colors.New(1, 0, 0, 1)},
		{45, 90, colors.New(0, 1, 0, 1)},
		{-45, -90, colors.New(0, 0, 1, 1)},
		{-45, 90, colors.White()},
		{90, 180, colors.New(1, 0, 0, 1)},
		{-90, -180, colors.New(0, 0, 1, 1)},
		{45, 270, colors.New(1, 0, 0, 1)},
	}
	for _, c := range cases {
		if got := tex.Sample(c.lat, c.lon); got != c.want {
			t.Errorf("Sample(%v, %v) = %+v, want %+v", c.lat, c.lon, got, c.want)
		}
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.tif")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, quadrants()); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestCache(t *testing.T) {
	path := writePNG(t, quadrants())
	c, err := NewCache(2)
	if err != nil {
		t.Fatal(err)
	}
	a, err := c.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Get(path)
	if err != nil {
		t.Fatal(err)
	}
	if a.Image() != b.Image() {
		t.Error("second Get reloaded the texture")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after purge = %d", c.Len())
	}
	if _, err := NewCache(0); err == nil {
		t.Error("expected error for zero size cache")
	}
}
