package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/echoflaresat/sunephem/almanac"
	"github.com/echoflaresat/sunephem/config"
	"github.com/echoflaresat/sunephem/earth"
	"github.com/echoflaresat/sunephem/los"
	"github.com/echoflaresat/sunephem/render"
	"github.com/echoflaresat/sunephem/sunpos"
	"github.com/echoflaresat/sunephem/texture"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func bindObserver(fs *flag.FlagSet, cfg *config.Config) {
	fs.Float64Var(&cfg.Observer.Latitude, "lat", cfg.Observer.Latitude, "Observer latitude in degrees, north positive")
	fs.Float64Var(&cfg.Observer.Longitude, "lon", cfg.Observer.Longitude, "Observer longitude in degrees, east positive")
	fs.Float64Var(&cfg.Observer.UTCOffsetHours, "utc-offset", cfg.Observer.UTCOffsetHours, "Observer clock offset from UTC in hours (e.g. -5)")
}

func runPosition(_ context.Context, args []string, stdout io.Writer) error {
	cfg := config.Default()
	var common commonFlags
	fs := newFlagSet("position")
	common.register(fs)
	bindObserver(fs, cfg)
	date := fs.String("date", "", "Local date YYYY-MM-DD; defaults to today")
	clock := fs.String("time", "", "Local clock time HH:MM[:SS]; defaults to now")
	at := fs.String("at", "", "Instant in RFC3339 (overrides -date and -time)")
	reference := fs.Bool("reference", false, "Also print the meeus reference solution")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s position [options]\n\n", os.Args[0])
		printGroup(fs, "Observer", []string{"lat", "lon", "utc-offset"})
		printGroup(fs, "Time", []string{"date", "time", "at"})
		printGroup(fs, "Misc", []string{"reference", "config", "v"})
	}
	if err := parseWithConfig(fs, &common, cfg, args); err != nil {
		return err
	}

	loc := cfg.Location()
	instant, err := resolveInstant(*at, *date, *clock, loc, time.Now())
	if err != nil {
		return err
	}

	obs, err := sunpos.Observe(instant, loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Time: %s (JD %.5f)\n", instant.Format(time.RFC3339), obs.JD)
	fmt.Fprintln(stdout, sunpos.Format(obs))

	if *reference {
		ref, err := sunpos.Reference(instant, loc)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Reference:")
		fmt.Fprintln(stdout, sunpos.Format(ref))
	}
	return nil
}

// resolveInstant picks the UTC instant from -at, or from a local date and
// clock reading at loc. Missing parts default to now on loc's clock.
func resolveInstant(at, date, clock string, loc earth.Location, now time.Time) (time.Time, error) {
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid -at: %w", err)
		}
		return t.UTC(), nil
	}

	local := now.In(loc.Zone())
	year, month, day := local.Date()
	if date != "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid -date: %w", err)
		}
		year, month, day = d.Date()
	}
	hour := float64(local.Hour()) + float64(local.Minute())/60 + float64(local.Second())/3600
	if clock != "" {
		h, err := parseClock(clock)
		if err != nil {
			return time.Time{}, err
		}
		hour = h
	}
	return sunpos.LocalTime(year, int(month), day, hour, loc)
}

// parseClock converts HH:MM or HH:MM:SS to fractional hours.
func parseClock(s string) (float64, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM[:SS])", s)
	}
	limits := []float64{24, 60, 60}
	scale := []float64{1, 60, 3600}
	hour := 0.0
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 || v >= limits[i] || math.IsNaN(v) {
			return 0, fmt.Errorf("invalid time %q", s)
		}
		hour += v / scale[i]
	}
	return hour, nil
}

func runAlmanac(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := config.Default()
	var common commonFlags
	now := time.Now()
	fs := newFlagSet("almanac")
	common.register(fs)
	fs.Float64Var(&cfg.Observer.UTCOffsetHours, "utc-offset", cfg.Observer.UTCOffsetHours, "Clock offset from UTC in hours for the local hours")
	year := fs.Int("year", now.Year(), "Year")
	month := fs.Int("month", int(now.Month()), "Month (1-12)")
	fs.StringVar(&cfg.Almanac.Output, "out", cfg.Almanac.Output, "Output CSV path")
	fs.IntVar(&cfg.Almanac.Workers, "workers", cfg.Almanac.Workers, "Concurrent days (0 = GOMAXPROCS)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s almanac [options]\n\n", os.Args[0])
		printGroup(fs, "Period", []string{"year", "month", "utc-offset"})
		printGroup(fs, "Output", []string{"out", "workers"})
		printGroup(fs, "Misc", []string{"config", "v"})
	}
	if err := parseWithConfig(fs, &common, cfg, args); err != nil {
		return err
	}

	samples, err := almanac.Month(ctx, *year, *month, cfg.Observer.UTCOffsetHours, cfg.Almanac.Workers)
	if err != nil {
		return err
	}
	if err := almanac.SaveCSV(cfg.Almanac.Output, samples); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %d samples to %s\n", len(samples), cfg.Almanac.Output)
	return nil
}

func runMap(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := config.Default()
	var common commonFlags
	fs := newFlagSet("map")
	common.register(fs)
	bindObserver(fs, cfg)
	at := fs.String("at", "", "Instant in RFC3339 for a single frame; defaults to now")
	csvPath := fs.String("csv", "", "Almanac CSV to animate instead of a single frame")
	every := fs.Int("every", 1, "Use every Nth sample of the CSV")
	out := fs.String("out", "", "Output path (default sun_map.png, or sun_map.gif with -csv)")
	fs.IntVar(&cfg.Map.Width, "width", cfg.Map.Width, "Map width in pixels")
	fs.IntVar(&cfg.Map.Height, "height", cfg.Map.Height, "Map height in pixels")
	fs.IntVar(&cfg.Map.Workers, "workers", cfg.Map.Workers, "Concurrent rows (0 = GOMAXPROCS)")
	fs.IntVar(&cfg.Map.FrameDelayMS, "delay", cfg.Map.FrameDelayMS, "GIF frame delay in milliseconds")
	fs.StringVar(&cfg.Map.DayTexture, "day", cfg.Map.DayTexture, "Day texture path")
	fs.StringVar(&cfg.Map.NightTexture, "night", cfg.Map.NightTexture, "Night texture path")
	observer := fs.Bool("observer", false, "Mark the observer location")
	grid := fs.Bool("grid", true, "Draw a 30° graticule")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s map [options]\n\n", os.Args[0])
		printGroup(fs, "Source", []string{"at", "csv", "every"})
		printGroup(fs, "Rendering Options", []string{"width", "height", "workers", "delay", "grid", "observer"})
		printGroup(fs, "Observer", []string{"lat", "lon", "utc-offset"})
		printGroup(fs, "Assets", []string{"day", "night"})
		printGroup(fs, "Output", []string{"out"})
		printGroup(fs, "Misc", []string{"config", "v"})
	}
	if err := parseWithConfig(fs, &common, cfg, args); err != nil {
		return err
	}
	if *every < 1 {
		return fmt.Errorf("invalid -every %d", *every)
	}

	opts := render.Options{
		Width:     cfg.Map.Width,
		Height:    cfg.Map.Height,
		Workers:   cfg.Map.Workers,
		Graticule: *grid,
		Markers:   true,
		Label:     true,
	}
	if *observer {
		loc := cfg.Location()
		opts.Observer = &loc
	}

	textures, err := texture.NewCache(2)
	if err != nil {
		return err
	}
	defer textures.Purge()
	if cfg.Map.DayTexture != "" {
		t, err := textures.Get(cfg.Map.DayTexture)
		if err != nil {
			return err
		}
		opts.Day = &t
	}
	if cfg.Map.NightTexture != "" {
		t, err := textures.Get(cfg.Map.NightTexture)
		if err != nil {
			return err
		}
		opts.Night = &t
	}

	if *csvPath != "" {
		samples, err := almanac.LoadCSV(*csvPath)
		if err != nil {
			return err
		}
		scenes := scenesFromSamples(samples, *every)
		path := outputPath(*out, ".gif")
		err = writeFile(path, func(w io.Writer) error {
			return render.Animate(ctx, w, scenes, opts, cfg.FrameDelay())
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Wrote %d frames to %s\n", len(scenes), path)
		return nil
	}

	instant := time.Now().UTC()
	if *at != "" {
		if instant, err = time.Parse(time.RFC3339, *at); err != nil {
			return fmt.Errorf("invalid -at: %w", err)
		}
	}
	scene := render.SceneAt(instant)
	path := outputPath(*out, ".png")
	err = writeFile(path, func(w io.Writer) error {
		return render.Frame(ctx, w, scene, opts)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Sub-solar point at %s: %.2f, %.2f\nWrote %s\n",
		scene.Time.Format(time.RFC3339), scene.SunLatitude, scene.SunLongitude, path)
	return nil
}

func scenesFromSamples(samples []almanac.Sample, every int) []render.Scene {
	scenes := make([]render.Scene, 0, len(samples)/every+1)
	for i := 0; i < len(samples); i += every {
		s := samples[i]
		scenes = append(scenes, render.Scene{Time: s.Time, SunLatitude: s.Latitude, SunLongitude: s.Longitude})
	}
	return scenes
}

func outputPath(out, ext string) string {
	if out != "" {
		return out
	}
	return "sun_map" + ext
}

// writeFile creates path, runs write and removes the file if write fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func runLOS(_ context.Context, args []string, stdout io.Writer) error {
	cfg := config.Default()
	var common commonFlags
	fs := newFlagSet("los")
	common.register(fs)
	fs.Float64Var(&cfg.Satellite.MinAltitudeKm, "min-alt", cfg.Satellite.MinAltitudeKm, "Minimum orbital altitude in km")
	fs.Float64Var(&cfg.Satellite.MaxAltitudeKm, "max-alt", cfg.Satellite.MaxAltitudeKm, "Maximum orbital altitude in km")
	fs.Float64Var(&cfg.Satellite.SpeedKmps, "speed", cfg.Satellite.SpeedKmps, "Ground track speed in km/s")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s los [options]\n\n", os.Args[0])
		printGroup(fs, "Orbit", []string{"min-alt", "max-alt", "speed"})
		printGroup(fs, "Misc", []string{"config", "v"})
	}
	if err := parseWithConfig(fs, &common, cfg, args); err != nil {
		return err
	}

	w, err := los.Estimate(cfg.Orbit())
	if err != nil {
		return err
	}
	for _, b := range []los.Bound{w.Min, w.Max} {
		fmt.Fprintf(stdout, "At %.0f km: horizon distance %.2f km, LOS duration %.3f minutes\n",
			b.AltitudeKm, b.HorizonDistanceKm, b.DurationMinutes)
	}
	fmt.Fprintf(stdout, "Average LOS duration: %.2f minutes (%.1f seconds)\n",
		w.AverageDurationMinutes, w.AverageDurationSeconds())
	return nil
}
