// Package render draws equirectangular world maps lit by the Sun.
package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/sunephem/colors"
	"github.com/echoflaresat/sunephem/earth"
	"github.com/echoflaresat/sunephem/julian"
	"github.com/echoflaresat/sunephem/sidereal"
	"github.com/echoflaresat/sunephem/solar"
	"github.com/echoflaresat/sunephem/texture"
	"github.com/echoflaresat/sunephem/vectors"
)

// Scene is what one frame shows: the sub-solar point at an instant.
type Scene struct {
	Time         time.Time
	SunLatitude  float64
	SunLongitude float64
}

// SceneAt places the sub-solar point from the solar ephemeris: latitude is
// the declination and longitude is where the Greenwich hour angle of the
// Sun is zero.
func SceneAt(t time.Time) Scene {
	t = t.UTC()
	jd := julian.TimeToJD(t)
	eq := solar.Position(jd, t.Year())
	lon := solar.Normalize360(eq.RightAscension - sidereal.Greenwich(jd))
	if lon > 180 {
		lon -= 360
	}
	return Scene{Time: t, SunLatitude: eq.Declination, SunLongitude: lon}
}

// Options control the size and decoration of a map.
type Options struct {
	Width, Height int
	Workers       int // GOMAXPROCS when <= 0

	// Textures replace the flat palette when set.
	Day, Night *texture.Texture

	Graticule bool
	Markers   bool
	Label     bool

	// Observer, when set and Markers is on, is marked on the map.
	Observer *earth.Location
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("invalid map size %dx%d", o.Width, o.Height)
	}
	if o.Observer != nil {
		if err := o.Observer.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Project maps latitude and longitude in degrees to a pixel.
func Project(lat, lon float64, width, height int) (x, y int) {
	x = int(math.Floor((lon + 180) / 360 * float64(width)))
	y = int(math.Floor((90 - lat) / 180 * float64(height)))
	return min(max(x, 0), width-1), min(max(y, 0), height-1)
}

// Unproject returns the latitude and longitude at the centre of pixel (x, y).
func Unproject(x, y, width, height int) (lat, lon float64) {
	lon = (float64(x)+0.5)/float64(width)*360 - 180
	lat = 90 - (float64(y)+0.5)/float64(height)*180
	return lat, lon
}

// Render shades a map for scene. Rows are shaded concurrently.
func Render(ctx context.Context, scene Scene, opts Options) (*image.NRGBA, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := earth.ValidateLatitude(scene.SunLatitude); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	sunDir := earth.SunDirectionECEF(scene.SunLatitude, scene.SunLongitude)
	img := image.NewNRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y := 0; y < opts.Height; y++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for x := 0; x < opts.Width; x++ {
				img.SetNRGBA(x, y, shadePixel(x, y, sunDir, opts).ToNRGBA())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if opts.Markers {
		drawMarker(img, scene.SunLatitude, scene.SunLongitude, colors.SunMarker)
		if opts.Observer != nil {
			drawMarker(img, opts.Observer.Latitude, opts.Observer.Longitude, colors.Observer)
		}
	}
	if opts.Label {
		drawLabel(img, scene.Time.UTC().Format("2006-01-02 15:04 UTC"))
	}

	slog.Debug("rendered map",
		"time", scene.Time,
		"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"elapsed", time.Since(start),
	)
	return img, nil
}

func shadePixel(x, y int, sunDir vectors.Vec3, opts Options) colors.Color4 {
	lat, lon := Unproject(x, y, opts.Width, opts.Height)

	day, night := colors.DayOcean, colors.NightOcean
	if opts.Day != nil {
		day = opts.Day.Sample(lat, lon)
	}
	if opts.Night != nil {
		night = opts.Night.Sample(lat, lon)
	}

	light := Daylight(earth.SurfaceNormal(lat, lon), sunDir)
	c := BlendNightDayEnergyConserving(day, night, light)

	if opts.Graticule && onGraticule(x, y, opts.Width, opts.Height) {
		c = c.Over(colors.Graticule)
	}
	return c
}

const graticuleStep = 30.0

// onGraticule reports whether a multiple of graticuleStep degrees of
// latitude or longitude falls inside the pixel.
func onGraticule(x, y, width, height int) bool {
	lon0 := float64(x)/float64(width)*360 - 180
	lon1 := float64(x+1)/float64(width)*360 - 180
	lat0 := 90 - float64(y)/float64(height)*180
	lat1 := 90 - float64(y+1)/float64(height)*180
	return crosses(lon0, lon1) || crosses(lat1, lat0)
}

// crosses reports whether a grid line lies in [lo, hi).
func crosses(lo, hi float64) bool {
	return math.Ceil(lo/graticuleStep)*graticuleStep < hi
}
