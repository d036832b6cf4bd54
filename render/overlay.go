package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/echoflaresat/sunephem/colors"
)

// markerRadius scales with the map so markers stay visible on large frames.
func markerRadius(height int) int {
	return max(3, height/90)
}

// drawMarker paints a filled disc with a dark rim at (lat, lon). The disc
// wraps across the antimeridian.
func drawMarker(img *image.NRGBA, lat, lon float64, c colors.Color4) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := Project(lat, lon, w, h)
	r := markerRadius(h)
	rim := colors.Black()

	for dy := -r - 1; dy <= r+1; dy++ {
		y := cy + dy
		if y < 0 || y >= h {
			continue
		}
		for dx := -r - 1; dx <= r+1; dx++ {
			d2 := dx*dx + dy*dy
			if d2 > (r+1)*(r+1) {
				continue
			}
			x := ((cx+dx)%w + w) % w
			if d2 > r*r {
				img.SetNRGBA(x, y, rim.ToNRGBA())
			} else {
				img.SetNRGBA(x, y, c.ToNRGBA())
			}
		}
	}
}

var labelFace = basicfont.Face7x13

// drawLabel writes text in the lower left corner over a translucent box.
func drawLabel(img *image.NRGBA, text string) {
	const pad = 4
	b := img.Bounds()
	width := font.MeasureString(labelFace, text).Ceil()
	height := labelFace.Metrics().Height.Ceil()

	box := image.Rect(b.Min.X, b.Max.Y-height-2*pad, b.Min.X+width+2*pad, b.Max.Y).Intersect(b)
	draw.Draw(img, box, image.NewUniform(color.NRGBA{A: 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: labelFace,
		Dot:  fixed.P(b.Min.X+pad, b.Max.Y-pad-labelFace.Metrics().Descent.Ceil()),
	}
	d.DrawString(text)
}
