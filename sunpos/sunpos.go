// Package sunpos chains the Julian Day, solar position, sidereal time and
// horizontal transforms into a single observation of the Sun.
package sunpos

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	meeussidereal "github.com/soniakeys/meeus/v3/sidereal"
	meeussolar "github.com/soniakeys/meeus/v3/solar"

	"github.com/echoflaresat/sunephem/earth"
	"github.com/echoflaresat/sunephem/horizon"
	"github.com/echoflaresat/sunephem/julian"
	"github.com/echoflaresat/sunephem/sidereal"
	"github.com/echoflaresat/sunephem/solar"
)

// Observation is the Sun as seen from a location at one instant.
type Observation struct {
	Instant     time.Time
	Location    earth.Location
	JD          float64
	Equatorial  solar.EquatorialPosition
	SiderealDeg float64 // Greenwich sidereal time
	HourAngle   float64 // degrees, not range reduced
	Horizontal  horizon.HorizontalPosition
}

// Observe computes the Sun's equatorial and horizontal coordinates at t for
// an observer at loc.
func Observe(t time.Time, loc earth.Location) (Observation, error) {
	if err := loc.Validate(); err != nil {
		return Observation{}, err
	}
	t = t.UTC()
	jd := julian.TimeToJD(t)
	eq := solar.Position(jd, t.Year())
	return observe(t, loc, jd, eq, sidereal.Greenwich(jd))
}

// Reference computes the same observation from the meeus library's solar
// theory (with nutation and aberration) and IAU 1982 mean sidereal time.
// It is slower and is used to check the low precision chain.
func Reference(t time.Time, loc earth.Location) (Observation, error) {
	if err := loc.Validate(); err != nil {
		return Observation{}, err
	}
	t = t.UTC()
	jd := julian.TimeToJD(t)
	ra, dec := meeussolar.ApparentEquatorial(jd)
	eq := solar.EquatorialPosition{
		RightAscension: solar.Normalize360(ra.Deg()),
		Declination:    dec.Deg(),
	}
	return observe(t, loc, jd, eq, meeussidereal.Mean(jd).Angle().Deg())
}

func observe(t time.Time, loc earth.Location, jd float64, eq solar.EquatorialPosition, gst float64) (Observation, error) {
	ha := gst + loc.Longitude - eq.RightAscension
	hz, err := horizon.Transform(loc.Latitude, eq.Declination, ha)
	if err != nil {
		return Observation{}, err
	}
	if hz.Degenerate {
		slog.Warn("azimuth undefined at the pole, using fallback",
			"latitude", loc.Latitude,
			"azimuth", hz.Azimuth,
			"error", hz.Check(),
		)
	}
	return Observation{
		Instant:     t,
		Location:    loc,
		JD:          jd,
		Equatorial:  eq,
		SiderealDeg: gst,
		HourAngle:   ha,
		Horizontal:  hz,
	}, nil
}

// LocalTime converts a wall clock reading at loc (date plus fractional hour
// on a clock UTCOffsetHours from UTC) into a UTC instant.
func LocalTime(year, month, day int, hour float64, loc earth.Location) (time.Time, error) {
	d := julian.CalendarDate{Year: year, Month: month, Day: float64(day)}
	if err := d.Validate(); err != nil {
		return time.Time{}, err
	}
	if math.IsNaN(hour) || hour < 0 || hour >= 24 {
		return time.Time{}, fmt.Errorf("%w: hour %v outside [0,24)", julian.ErrInvalidDate, hour)
	}
	if err := loc.Validate(); err != nil {
		return time.Time{}, err
	}
	nanos := time.Duration(math.Round(hour * float64(time.Hour)))
	midnight := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc.Zone())
	return midnight.Add(nanos).UTC(), nil
}

// Format renders the observation the way the command line prints it, with
// two decimals.
func Format(o Observation) string {
	s := fmt.Sprintf("Right Ascension: %.2f degrees, Declination: %.2f degrees\n",
		o.Equatorial.RightAscension, o.Equatorial.Declination)
	s += fmt.Sprintf("The sun's azimuth is %.2f degrees and elevation is %.2f degrees",
		o.Horizontal.Azimuth, o.Horizontal.Elevation)
	if o.Horizontal.Degenerate {
		s += " (azimuth undefined at the pole)"
	}
	return s
}
