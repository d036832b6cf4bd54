// Package solar computes the Sun's geocentric equatorial position with the
// low precision formulas of the Astronomical Almanac (about 0.01° between
// 1950 and 2050).
package solar

import (
	"math"
	"time"

	"github.com/soniakeys/unit"

	"github.com/echoflaresat/sunephem/julian"
)

// EquatorialPosition holds right ascension in [0, 360) and declination in
// [-90, 90], both in degrees.
type EquatorialPosition struct {
	RightAscension float64
	Declination    float64
}

// Obliquity is the linear secular approximation of the obliquity of the
// ecliptic for year, in degrees.
func Obliquity(year int) float64 {
	return 23.4393 - 0.0000004*float64(year)
}

// EclipticLongitude returns the apparent ecliptic longitude λ of the Sun in
// degrees for n days since J2000.0: mean longitude plus the equation of
// center. The result is not range-reduced.
func EclipticLongitude(n float64) float64 {
	L := unit.PMod(280.460+0.9856474*n, 360)
	g := unit.AngleFromDeg(unit.PMod(357.528+0.9856003*n, 360))
	return L + 1.915*g.Sin() + 0.020*g.Mul(2).Sin()
}

// Position returns the Sun's right ascension and declination at jd. year
// selects the obliquity term.
func Position(jd float64, year int) EquatorialPosition {
	eps := unit.AngleFromDeg(Obliquity(year))
	lambda := unit.AngleFromDeg(EclipticLongitude(julian.DaysSinceJ2000(jd)))

	sinL, cosL := lambda.Sincos()
	alpha := unit.Angle(math.Atan2(eps.Cos()*sinL, cosL))
	delta := unit.Angle(math.Asin(eps.Sin() * sinL))

	return EquatorialPosition{
		RightAscension: Normalize360(alpha.Deg()),
		Declination:    delta.Deg(),
	}
}

// OnDate evaluates Position at 0h UTC of the date d (or at the time encoded
// in a fractional day).
func OnDate(d julian.CalendarDate) (EquatorialPosition, error) {
	jd, err := julian.ToJD(d)
	if err != nil {
		return EquatorialPosition{}, err
	}
	return Position(jd, d.Year), nil
}

// At evaluates Position at the instant t.
func At(t time.Time) EquatorialPosition {
	t = t.UTC()
	return Position(julian.TimeToJD(t), t.Year())
}

// Normalize360 reduces deg into [0, 360).
func Normalize360(deg float64) float64 {
	r := unit.PMod(deg, 360)
	if r >= 360 {
		r = 0
	}
	return r
}
