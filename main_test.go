package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"image/gif"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/echoflaresat/sunephem/almanac"
	"github.com/echoflaresat/sunephem/earth"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00", 0},
		{"12:30", 12.5},
		{"12:30:36", 12.51},
		{"23:59:59", 23 + 59.0/60 + 59.0/3600},
	}
	for _, c := range cases {
		got, err := parseClock(c.in)
		if err != nil {
			t.Fatalf("parseClock(%q): %v", c.in, err)
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("parseClock(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"12", "24:00", "12:60", "ab:cd", "1:2:3:4", "-1:00"} {
		if _, err := parseClock(bad); err == nil {
			t.Errorf("parseClock(%q) should fail", bad)
		}
	}
}

func TestResolveInstant(t *testing.T) {
	loc := earth.Location{Latitude: 40.7, Longitude: -74, UTCOffsetHours: -5}
	now := time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC)

	got, err := resolveInstant("", "2024-12-31", "20:30", loc, now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2025, 1, 1, 1, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("local date and time: got %v, want %v", got, want)
	}

	got, err = resolveInstant("", "", "", loc, now)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(now) {
		t.Errorf("defaults: got %v, want %v", got, now)
	}

	got, err = resolveInstant("2024-03-20T08:00:00+02:00", "1999-01-01", "", loc, now)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 3, 20, 6, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("-at: got %v, want %v", got, want)
	}

	if _, err := resolveInstant("yesterday", "", "", loc, now); err == nil {
		t.Error("expected error for bad -at")
	}
	if _, err := resolveInstant("", "2024-02-30", "", loc, now); err == nil {
		t.Error("expected error for bad -date")
	}
}

func TestRunPosition(t *testing.T) {
	var out bytes.Buffer
	err := runPosition(context.Background(), []string{
		"-at", "2024-06-21T12:00:00Z", "-lat", "51.4779", "-lon", "0", "-reference",
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	s := out.String()
	for _, want := range []string{"Time: 2024-06-21T12:00:00Z", "Right Ascension: ", "The sun's azimuth is ", "Reference:"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}

	if err := runPosition(context.Background(), []string{"-lat", "95"}, &out); !errors.Is(err, earth.ErrInvalidLatitude) {
		t.Errorf("bad latitude: %v", err)
	}
	if err := runPosition(context.Background(), []string{"-h"}, &out); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: %v", err)
	}
}

func TestRunLOSConfigPrecedence(t *testing.T) {
	var out bytes.Buffer
	if err := runLOS(context.Background(), nil, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Average LOS duration: 0.39 minutes (23.5 seconds)") {
		t.Errorf("default output:\n%s", out.String())
	}

	path := filepath.Join(t.TempDir(), "sunephem.yaml")
	if err := os.WriteFile(path, []byte("satellite:\n  speed_kmps: 7.66\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out.Reset()
	if err := runLOS(context.Background(), []string{"-config", path}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Average LOS duration: 0.38 minutes") {
		t.Errorf("config output:\n%s", out.String())
	}

	out.Reset()
	if err := runLOS(context.Background(), []string{"-config", path, "-speed", "8"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Average LOS duration: 0.37 minutes") {
		t.Errorf("flag should override config:\n%s", out.String())
	}
}

func TestRunAlmanacAndMap(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "sun_positions.csv")

	var out bytes.Buffer
	err := runAlmanac(context.Background(), []string{
		"-year", "2024", "-month", "2", "-utc-offset", "-5", "-out", csvPath,
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Wrote 696 samples") {
		t.Errorf("almanac output: %s", out.String())
	}
	samples, err := almanac.LoadCSV(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 29*24 {
		t.Fatalf("%d samples in CSV", len(samples))
	}

	gifPath := filepath.Join(dir, "feb.gif")
	err = runMap(context.Background(), []string{
		"-csv", csvPath, "-every", "100", "-width", "48", "-height", "24", "-out", gifPath,
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(gifPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 7 {
		t.Errorf("%d frames, want 7", len(anim.Image))
	}

	pngPath := filepath.Join(dir, "frame.png")
	err = runMap(context.Background(), []string{
		"-at", "2024-06-21T12:00:00Z", "-width", "36", "-height", "18", "-observer", "-lat", "10", "-out", pngPath,
	}, &out)
	if err != nil {
		t.Fatal(err)
	}
	pf, err := os.Open(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	img, err := png.Decode(pf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 36 || img.Bounds().Dy() != 18 {
		t.Errorf("frame bounds %v", img.Bounds())
	}

	if err := runMap(context.Background(), []string{"-every", "0"}, &out); err == nil {
		t.Error("expected error for -every 0")
	}
}
