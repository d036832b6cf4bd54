// Package almanac generates hourly sub-solar point tracks and stores them as
// flat CSV records.
package almanac

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/echoflaresat/sunephem/julian"
	"github.com/echoflaresat/sunephem/subsolar"
)

// Sample is one point of a track. Latitude is the sub-solar declination.
type Sample struct {
	Time      time.Time
	Latitude  float64
	Longitude float64
}

// SampleAt evaluates the sub-solar point at t.
func SampleAt(t time.Time) Sample {
	p := subsolar.At(t)
	return Sample{Time: t.UTC(), Latitude: p.Latitude(), Longitude: p.Longitude}
}

// Month returns one sample per local hour of the given month. Local hours
// are read on a clock utcOffset hours from UTC and converted to UTC before
// evaluation. Days are generated concurrently on up to workers goroutines
// (GOMAXPROCS when workers <= 0); the result is in chronological order.
func Month(ctx context.Context, year, month int, utcOffset float64, workers int) ([]Sample, error) {
	days := julian.DaysInMonth(year, month)
	if days == 0 {
		return nil, fmt.Errorf("%w: month %d outside 1-12", julian.ErrInvalidDate, month)
	}
	if math.IsNaN(utcOffset) || math.IsInf(utcOffset, 0) {
		return nil, fmt.Errorf("invalid utc offset: %v", utcOffset)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	shift := time.Duration(math.Round(utcOffset * float64(time.Hour)))
	samples := make([]Sample, days*24)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for day := 1; day <= days; day++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for hour := 0; hour < 24; hour++ {
				local := time.Date(year, time.Month(month), day, hour, 0, 0, 0, time.UTC)
				samples[(day-1)*24+hour] = SampleAt(local.Add(-shift))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return samples, nil
}
