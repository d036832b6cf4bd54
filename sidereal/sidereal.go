// Package sidereal computes Greenwich and local sidereal time and the Sun's
// local hour angle.
//
// Longitudes are east positive. The hour angle is LST - RA where
// LST = GST + longitude, so an observer east of Greenwich sees objects cross
// the meridian earlier.
package sidereal

import (
	"math"

	"github.com/soniakeys/unit"

	"github.com/echoflaresat/sunephem/julian"
)

const (
	gst0hAtJ2000 = 6.697374558       // hours, GST at 0h UT counted from J2000
	gstPerDay0   = 0.06570982441908  // hours gained per day at 0h UT
	siderealRate = 1.00273790935     // sidereal hours per UT hour
	gstT2        = 0.000026          // hours per century²
	hoursPerDay  = 24.06570982441908 // sidereal hours per solar day
)

// GreenwichHours returns Greenwich sidereal time in hours, [0, 24).
//
// The 6.697374558h constant is GST at 0h UT, so the day count is split at
// the preceding midnight: D0 whole days (ending in .5) plus H hours of UT.
// Folding both back together gives 18.697374558 + 24.06570982441908*D.
func GreenwichHours(jd float64) float64 {
	jd0 := math.Floor(jd-0.5) + 0.5
	d0 := julian.DaysSinceJ2000(jd0)
	h := (jd - jd0) * 24
	T := julian.CenturiesSinceJ2000(jd)

	gst := unit.PMod(gst0hAtJ2000+gstPerDay0*d0+siderealRate*h+gstT2*T*T, 24)
	if gst >= 24 {
		gst = 0
	}
	return gst
}

// GreenwichHoursContinuous is the single-term form of GreenwichHours,
// 18.697374558 + 24.06570982441908*D. It loses precision far from J2000
// because 24*D is reduced only at the end.
func GreenwichHoursContinuous(jd float64) float64 {
	d := julian.DaysSinceJ2000(jd)
	T := julian.CenturiesSinceJ2000(jd)
	h := unit.PMod(gst0hAtJ2000+12+hoursPerDay*d+gstT2*T*T, 24)
	if h >= 24 {
		h = 0
	}
	return h
}

// Greenwich returns Greenwich sidereal time in degrees, [0, 360).
func Greenwich(jd float64) float64 {
	return GreenwichHours(jd) * 15.0
}

// Local returns local sidereal time in degrees, [0, 360), for an observer
// at longitude degrees east.
func Local(jd, longitude float64) float64 {
	lst := unit.PMod(Greenwich(jd)+longitude, 360)
	if lst >= 360 {
		lst = 0
	}
	return lst
}

// HourAngle returns the local hour angle in degrees of an object with right
// ascension ra. The result is not range-reduced; callers feed it straight
// into trig functions.
func HourAngle(jd, longitude, ra float64) float64 {
	return Greenwich(jd) + longitude - ra
}
