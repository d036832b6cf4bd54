// Package los estimates how long a low Earth orbit satellite stays above a
// ground station's geometric horizon during an overhead pass.
package los

import (
	"errors"
	"fmt"
	"math"
)

// HorizonFactor is k in d ≈ k·sqrt(h) with h in km and d in km. It is the
// line-of-sight rule of thumb, which underestimates the true great circle
// distance at orbital altitudes; the estimate is a lower bound.
const HorizonFactor = 3.57

var (
	ErrInvalidAltitude = errors.New("invalid altitude")
	ErrInvalidSpeed    = errors.New("invalid satellite speed")
	ErrInvalidRange    = errors.New("invalid altitude range")
)

// Orbit describes the altitude band of a satellite and its speed in km/s.
type Orbit struct {
	MinAltitudeKm float64
	MaxAltitudeKm float64
	SpeedKmps     float64
}

// Bound is the horizon distance and pass duration at one altitude.
type Bound struct {
	AltitudeKm        float64
	HorizonDistanceKm float64
	DurationMinutes   float64
}

// Window bounds the expected visibility of a pass over the altitude band.
type Window struct {
	Min                    Bound
	Max                    Bound
	AverageDurationMinutes float64
}

// HorizonDistanceKm returns the distance to the visible horizon from
// altitudeKm.
func HorizonDistanceKm(altitudeKm float64) (float64, error) {
	if math.IsNaN(altitudeKm) || math.IsInf(altitudeKm, 0) || altitudeKm < 0 {
		return 0, fmt.Errorf("%w: %v km", ErrInvalidAltitude, altitudeKm)
	}
	return HorizonFactor * math.Sqrt(altitudeKm), nil
}

// DurationMinutes is the time to cross a chord of twice the horizon
// distance at speedKmps.
func DurationMinutes(horizonKm, speedKmps float64) (float64, error) {
	if math.IsNaN(speedKmps) || math.IsInf(speedKmps, 0) || speedKmps <= 0 {
		return 0, fmt.Errorf("%w: %v km/s", ErrInvalidSpeed, speedKmps)
	}
	return 2 * horizonKm / speedKmps / 60, nil
}

func bound(altitudeKm, speedKmps float64) (Bound, error) {
	d, err := HorizonDistanceKm(altitudeKm)
	if err != nil {
		return Bound{}, err
	}
	m, err := DurationMinutes(d, speedKmps)
	if err != nil {
		return Bound{}, err
	}
	return Bound{AltitudeKm: altitudeKm, HorizonDistanceKm: d, DurationMinutes: m}, nil
}

func (o Orbit) Validate() error {
	if _, err := HorizonDistanceKm(o.MinAltitudeKm); err != nil {
		return err
	}
	if _, err := HorizonDistanceKm(o.MaxAltitudeKm); err != nil {
		return err
	}
	if o.MinAltitudeKm > o.MaxAltitudeKm {
		return fmt.Errorf("%w: min %v km > max %v km", ErrInvalidRange, o.MinAltitudeKm, o.MaxAltitudeKm)
	}
	if _, err := DurationMinutes(0, o.SpeedKmps); err != nil {
		return err
	}
	return nil
}

// Estimate computes the window at both ends of the altitude band and the
// mean of the two durations.
func Estimate(o Orbit) (Window, error) {
	if err := o.Validate(); err != nil {
		return Window{}, err
	}
	lo, err := bound(o.MinAltitudeKm, o.SpeedKmps)
	if err != nil {
		return Window{}, err
	}
	hi, err := bound(o.MaxAltitudeKm, o.SpeedKmps)
	if err != nil {
		return Window{}, err
	}
	return Window{
		Min:                    lo,
		Max:                    hi,
		AverageDurationMinutes: (lo.DurationMinutes + hi.DurationMinutes) / 2,
	}, nil
}

// AverageDurationSeconds returns the mean duration in seconds.
func (w Window) AverageDurationSeconds() float64 {
	return w.AverageDurationMinutes * 60
}
