// Package julian converts Gregorian calendar dates to Julian Day numbers.
package julian

import (
	"errors"
	"fmt"
	"math"
	"time"

	meeus "github.com/soniakeys/meeus/v3/julian"
)

// J2000 is the Julian Day of 2000-01-01 12:00 UTC.
const J2000 = 2451545.0

var ErrInvalidDate = errors.New("invalid date")

// CalendarDate is a Gregorian date. Day may carry a fraction encoding the
// time of day: day + hour/24 + minute/1440 + second/86400.
type CalendarDate struct {
	Year  int
	Month int
	Day   float64
}

var monthDays = [...]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the length of month in the Gregorian calendar,
// or 0 when month is outside 1..12.
func DaysInMonth(year, month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && meeus.LeapYearGregorian(year) {
		return 29
	}
	return monthDays[month-1]
}

// Validate checks the month range and that the whole day exists in the month.
func (d CalendarDate) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: month %d outside 1-12", ErrInvalidDate, d.Month)
	}
	if math.IsNaN(d.Day) || math.IsInf(d.Day, 0) {
		return fmt.Errorf("%w: day %v", ErrInvalidDate, d.Day)
	}
	whole := int(math.Floor(d.Day))
	if n := DaysInMonth(d.Year, d.Month); whole < 1 || whole > n {
		return fmt.Errorf("%w: day %v not in %04d-%02d (%d days)", ErrInvalidDate, d.Day, d.Year, d.Month, n)
	}
	return nil
}

// ToJD returns the Julian Day for d.
func ToJD(d CalendarDate) (float64, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return jd(d.Year, d.Month, d.Day), nil
}

// jd is the Gregorian calendar formula. Jan and Feb count as months 13 and
// 14 of the previous year so the leap day falls at the end of the year.
func jd(year, month int, day float64) float64 {
	y := float64(year)
	m := float64(month)
	if m <= 2 {
		y -= 1
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + day + B - 1524.5
}

// FromTime returns the UTC calendar date of t with the time of day folded
// into the fractional day.
func FromTime(t time.Time) CalendarDate {
	t = t.UTC()
	secs := float64(t.Hour()*3600+t.Minute()*60+t.Second()) + float64(t.Nanosecond())/1e9
	return CalendarDate{
		Year:  t.Year(),
		Month: int(t.Month()),
		Day:   float64(t.Day()) + secs/86400.0,
	}
}

// TimeToJD returns the Julian Day of the instant t.
func TimeToJD(t time.Time) float64 {
	d := FromTime(t)
	return jd(d.Year, d.Month, d.Day)
}

// DaysSinceJ2000 is n in the low precision solar formulas.
func DaysSinceJ2000(jd float64) float64 {
	return jd - J2000
}

// CenturiesSinceJ2000 returns Julian centuries of 36525 days since J2000.
func CenturiesSinceJ2000(jd float64) float64 {
	return (jd - J2000) / 36525.0
}
