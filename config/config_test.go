package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/echoflaresat/sunephem/earth"
	"github.com/echoflaresat/sunephem/los"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sunephem.yaml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.Satellite.MinAltitudeKm != 590 || cfg.Satellite.MaxAltitudeKm != 630 || cfg.Satellite.SpeedKmps != 7.5 {
		t.Fatalf("unexpected satellite defaults: %+v", cfg.Satellite)
	}
	if cfg.Almanac.Output != "sun_positions.csv" {
		t.Fatalf("expected almanac output sun_positions.csv, got %q", cfg.Almanac.Output)
	}
	if cfg.Map.Width != 720 || cfg.Map.Height != 360 {
		t.Fatalf("unexpected map size %dx%d", cfg.Map.Width, cfg.Map.Height)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
observer:
  latitude: 40.7128
  longitude: -74.006
  utc_offset_hours: -5
satellite:
  speed_kmps: 7.66
map:
  width: 360
  frame_delay_ms: 50
logging:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := earth.Location{Latitude: 40.7128, Longitude: -74.006, UTCOffsetHours: -5}
	if cfg.Location() != want {
		t.Fatalf("location = %+v, want %+v", cfg.Location(), want)
	}
	if got := cfg.Orbit(); got != (los.Orbit{MinAltitudeKm: 590, MaxAltitudeKm: 630, SpeedKmps: 7.66}) {
		t.Fatalf("orbit = %+v", got)
	}
	if cfg.Map.Width != 360 || cfg.Map.Height != 360 {
		t.Fatalf("map size %dx%d, want 360x360", cfg.Map.Width, cfg.Map.Height)
	}
	if cfg.FrameDelay() != 50*time.Millisecond {
		t.Fatalf("frame delay %v", cfg.FrameDelay())
	}
	if lvl, _ := cfg.LogLevel(); lvl != slog.LevelDebug {
		t.Fatalf("log level %v, want debug", lvl)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{"latitude", "observer:\n  latitude: 91\n", earth.ErrInvalidLatitude},
		{"longitude", "observer:\n  longitude: 200\n", earth.ErrInvalidLongitude},
		{"speed", "satellite:\n  speed_kmps: 0\n", los.ErrInvalidSpeed},
		{"range", "satellite:\n  min_altitude_km: 700\n", los.ErrInvalidRange},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, c.text))
			if !errors.Is(err, c.want) {
				t.Fatalf("Load() error = %v, want %v", err, c.want)
			}
		})
	}

	if _, err := Load(writeConfig(t, "map:\n  width: 0\n")); err == nil {
		t.Fatal("expected error for zero map width")
	}
	if _, err := Load(writeConfig(t, "logging:\n  level: loud\n")); err == nil {
		t.Fatal("expected error for unknown log level")
	}
	if _, err := Load(writeConfig(t, "observer: [1, 2\n")); err == nil {
		t.Fatal("expected YAML parse error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load() error = %v, want os.ErrNotExist", err)
	}
	cfg, err := LoadOrDefault("")
	if err != nil || cfg.Map.Width != 720 {
		t.Fatalf("LoadOrDefault(\"\") = %+v, %v", cfg, err)
	}
}
