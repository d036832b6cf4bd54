// Package horizon transforms equatorial coordinates into an observer's
// horizontal frame.
package horizon

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"

	"github.com/echoflaresat/sunephem/earth"
)

var ErrDegenerateGeometry = errors.New("degenerate geometry")

// poleTolerance is how close to ±90° a latitude must be for the azimuth to
// be treated as undefined.
const poleTolerance = 1e-9

// HorizontalPosition is azimuth in [0, 360) measured from North through
// East, and elevation in [-90, 90], both in degrees.
//
// Degenerate is set when the observer stands on a pole. Every direction is
// then south (or north) and Azimuth holds the fallback value 0.
type HorizontalPosition struct {
	Azimuth    float64
	Elevation  float64
	Degenerate bool
}

// Check returns ErrDegenerateGeometry when p carries the pole fallback.
func (p HorizontalPosition) Check() error {
	if p.Degenerate {
		return fmt.Errorf("%w: azimuth undefined at the pole", ErrDegenerateGeometry)
	}
	return nil
}

// Transform converts declination and hour angle (degrees) into azimuth and
// elevation for an observer at latitude (degrees, north positive).
//
// The azimuth follows Meeus (13.5), which measures from South toward West,
// rotated by 180° so that 0 is North and 90 is East.
func Transform(latitude, declination, hourAngle float64) (HorizontalPosition, error) {
	if err := earth.ValidateLatitude(latitude); err != nil {
		return HorizontalPosition{}, err
	}

	phi := unit.AngleFromDeg(latitude)
	dec := unit.AngleFromDeg(declination)
	ha := unit.AngleFromDeg(hourAngle)

	sinPhi, cosPhi := phi.Sincos()
	sinDec, cosDec := dec.Sincos()
	sinHA, cosHA := ha.Sincos()

	sinEl := sinPhi*sinDec + cosPhi*cosDec*cosHA
	el := unit.Angle(math.Asin(clamp(sinEl, -1, 1)))

	if math.Abs(math.Abs(latitude)-90) <= poleTolerance {
		return HorizontalPosition{Azimuth: 0, Elevation: el.Deg(), Degenerate: true}, nil
	}

	az := unit.Angle(math.Atan2(sinHA, cosHA*sinPhi-dec.Tan()*cosPhi))

	return HorizontalPosition{
		Azimuth:   normalize(az.Deg() + 180),
		Elevation: el.Deg(),
	}, nil
}

// Zenith returns the angular distance from the zenith, 90° - elevation.
func (p HorizontalPosition) Zenith() float64 {
	return 90 - p.Elevation
}

// AboveHorizon reports whether the geometric center is above the
// mathematical horizon. No refraction correction is applied.
func (p HorizontalPosition) AboveHorizon() bool {
	return p.Elevation > 0
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func normalize(deg float64) float64 {
	r := unit.PMod(deg, 360)
	if r >= 360 {
		r = 0
	}
	return r
}
