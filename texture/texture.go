// Package texture loads equirectangular world images for the day/night map.
package texture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/echoflaresat/sunephem/colors"
	"github.com/echoflaresat/sunephem/texture/tiff"
	etiff "github.com/echoflaresat/tiff"

	_ "image/jpeg" // register JPEG format with image.Decode
	_ "image/png"  // register PNG format with image.Decode
)

// Texture is an equirectangular image: x spans longitude -180..180 and y
// spans latitude 90..-90.
type Texture struct {
	Width  int
	Height int
	img    image.Image
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) Texture {
	b := img.Bounds()
	return Texture{Width: b.Dx(), Height: b.Dy(), img: img}
}

// Load opens path with the memory-mapped TIFF readers, then the generic
// TIFF decoder, then the standard image codecs.
func Load(path string) (Texture, error) {
	img, err := loadImage(path)
	if err != nil {
		return Texture{}, fmt.Errorf("load texture %s: %w", path, err)
	}
	return FromImage(img), nil
}

func loadImage(path string) (image.Image, error) {
	img, err := tiff.LoadStripedTiff(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) && !errors.Is(err, tiff.ErrWrongLayout) {
		slog.Warn("failed to load striped TIFF", "path", path, "error", err)
	}

	img, err = tiff.LoadTiledTiff(path)
	if err == nil {
		return img, nil
	}
	if !errors.Is(err, tiff.ErrInvalidTiffHeader) && !errors.Is(err, tiff.ErrWrongLayout) {
		slog.Warn("failed to load tiled TIFF", "path", path, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a fully decoded image from r, trying TIFF first and then
// the registered image formats.
func Decode(r io.ReadSeeker) (image.Image, error) {
	img, err := etiff.Decode(r)
	if err == nil {
		return img, nil
	}

	// fallback to image codecs
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, _, err = image.Decode(r)
	return img, err
}

// Close releases the memory mapping behind TIFF-backed textures.
func (t Texture) Close() error {
	if c, ok := t.img.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Image returns the underlying image.
func (t Texture) Image() image.Image {
	return t.img
}

// Sample returns the color at latitude and longitude in degrees, nearest
// neighbour.
func (t Texture) Sample(lat, lon float64) colors.Color4 {
	x, y := t.xy(lat, lon)
	b := t.img.Bounds()
	return colors.FromStandardColor(t.img.At(b.Min.X+x, b.Min.Y+y))
}

func (t Texture) xy(lat, lon float64) (int, int) {
	u := (lon + 180) / 360 * float64(t.Width)
	u = math.Mod(u, float64(t.Width))
	if u < 0 {
		u += float64(t.Width)
	}
	v := (90 - lat) / 180 * float64(t.Height)

	x := int(u)
	y := int(v)
	if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return x, y
}
