// Package subsolar estimates the point on the Earth's surface directly
// beneath the Sun.
//
// The model is a single harmonic: declination follows a sine of the
// fraction of a Julian year elapsed since J2000 noon, and longitude follows
// the UTC clock at 15° per hour. It is much coarser than package solar
// (errors of several degrees in declination near the solstices, and no
// equation of time in longitude) and is meant for plotting tracks, not
// for pointing anything.
package subsolar

import (
	"time"

	"github.com/soniakeys/unit"
)

// AxialTilt is the amplitude of the declination harmonic, degrees.
const AxialTilt = 23.44

// Epoch is the reference instant of the model, 2000-01-01 12:00 UTC.
var Epoch = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Point is an approximate sub-solar location in degrees. Longitude is in
// (-180, 180].
type Point struct {
	Declination float64
	Longitude   float64
}

// Latitude is the sub-solar latitude, equal to the declination.
func (p Point) Latitude() float64 {
	return p.Declination
}

// At returns the approximate sub-solar point at t.
func At(t time.Time) Point {
	t = t.UTC()
	return Point{
		Declination: Declination(t),
		Longitude:   Longitude(UTCHour(t)),
	}
}

// DaysSinceEpoch returns fractional days from Epoch to t.
func DaysSinceEpoch(t time.Time) float64 {
	return t.Sub(Epoch).Seconds() / 86400.0
}

// OrbitalAngle is the fraction of a Julian year since Epoch, in degrees
// [0, 360).
func OrbitalAngle(t time.Time) float64 {
	return unit.PMod(DaysSinceEpoch(t)/365.25*360, 360)
}

// Declination is the single harmonic declination estimate at t.
func Declination(t time.Time) float64 {
	return AxialTilt * unit.AngleFromDeg(OrbitalAngle(t)).Sin()
}

// UTCHour returns the UTC time of day of t as fractional hours.
func UTCHour(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600 +
		float64(t.Nanosecond())/3.6e12
}

// Longitude maps a UTC hour to ((h-12)*15) mod 360, remapped into
// (-180, 180].
func Longitude(utcHour float64) float64 {
	lon := unit.PMod((utcHour-12)*15, 360)
	if lon >= 360 {
		lon = 0
	}
	if lon > 180 {
		lon -= 360
	}
	return lon
}

// ClockLongitude is the display longitude used for a single marker on a
// world map: the UTC fraction of the day spread over 360°, starting at
// -180 at 0h UTC. localHour is read on a clock utcOffset hours from UTC.
func ClockLongitude(localHour, utcOffset float64) float64 {
	utcHour := localHour - utcOffset
	return utcHour/24.0*360 - 180
}
