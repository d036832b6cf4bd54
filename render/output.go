package render

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"log/slog"
	"time"

	"golang.org/x/image/draw"
)

// WritePNG encodes img favouring speed over size.
func WritePNG(w io.Writer, img image.Image) error {
	return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
}

// Frame renders scene and writes it to w as PNG.
func Frame(ctx context.Context, w io.Writer, scene Scene, opts Options) error {
	img, err := Render(ctx, scene, opts)
	if err != nil {
		return err
	}
	return WritePNG(w, img)
}

// Animate renders one frame per scene and writes a looping GIF to w, each
// frame shown for delay.
func Animate(ctx context.Context, w io.Writer, scenes []Scene, opts Options, delay time.Duration) error {
	if len(scenes) == 0 {
		return fmt.Errorf("animate: no scenes")
	}

	anim := &gif.GIF{
		Image: make([]*image.Paletted, 0, len(scenes)),
		Delay: make([]int, 0, len(scenes)),
	}
	centis := int(delay / (10 * time.Millisecond))
	for i, scene := range scenes {
		img, err := Render(ctx, scene, opts)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		anim.Image = append(anim.Image, quantize(img))
		anim.Delay = append(anim.Delay, centis)

		if (i+1)%24 == 0 || i == len(scenes)-1 {
			slog.Info("animation progress", "frames", i+1, "total", len(scenes))
		}
	}
	return gif.EncodeAll(w, anim)
}

func quantize(img image.Image) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, img, b.Min)
	return p
}
