package horizon

import (
	"errors"
	"math"
	"testing"

	"github.com/echoflaresat/sunephem/earth"
)

const toleranceDegree = 1e-4

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestTransformKnownPositions(t *testing.T) {
	testCases := []struct {
		name      string
		lat       float64
		dec       float64
		ha        float64
		expectAz  float64
		expectEl  float64
		checkAz   bool
		tolerance float64
	}{
		{name: "equator zenith", lat: 0, dec: 0, ha: 0, expectEl: 90, tolerance: toleranceDegree},
		{name: "northern noon due south", lat: 45, dec: 0, ha: 0, expectAz: 180, expectEl: 45, checkAz: true, tolerance: toleranceDegree},
		{name: "southern noon due north", lat: -35, dec: 0, ha: 0, expectAz: 0, expectEl: 55, checkAz: true, tolerance: toleranceDegree},
		{name: "equinox sunrise east", lat: 45, dec: 0, ha: -90, expectAz: 90, expectEl: 0, checkAz: true, tolerance: toleranceDegree},
		{name: "equinox sunset west", lat: 45, dec: 0, ha: 90, expectAz: 270, expectEl: 0, checkAz: true, tolerance: toleranceDegree},
		{name: "midnight below horizon", lat: 45, dec: 0, ha: 180, expectAz: 0, expectEl: -45, checkAz: true, tolerance: toleranceDegree},
		{name: "equator sun north of zenith", lat: 0, dec: 10, ha: 0, expectAz: 0, expectEl: 80, checkAz: true, tolerance: toleranceDegree},
		// Meeus, Astronomical Algorithms, example 13.b (Venus from Washington),
		// A = 68.0337° from South, h = 15.1249°.
		{name: "Meeus 13.b", lat: 38.921389, dec: -6.719892, ha: 64.352133, expectAz: 248.0337, expectEl: 15.1249, checkAz: true, tolerance: 1e-3},
		// Hour angles are not range reduced before use.
		{name: "unreduced hour angle", lat: 45, dec: 0, ha: 720 - 90, expectAz: 90, expectEl: 0, checkAz: true, tolerance: toleranceDegree},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Transform(tc.lat, tc.dec, tc.ha)
			if err != nil {
				t.Fatalf("Transform: %v", err)
			}
			if got.Degenerate {
				t.Fatal("unexpected degenerate result")
			}
			if !almostEqual(got.Elevation, tc.expectEl, tc.tolerance) {
				t.Errorf("El: expected %v°, got %v°", tc.expectEl, got.Elevation)
			}
			if tc.checkAz {
				d := math.Mod(got.Azimuth-tc.expectAz+540, 360) - 180
				if math.Abs(d) > tc.tolerance {
					t.Errorf("Az: expected %v°, got %v°", tc.expectAz, got.Azimuth)
				}
			}
		})
	}
}

func TestTransformPoles(t *testing.T) {
	for _, lat := range []float64{90, -90} {
		got, err := Transform(lat, 12.5, 33)
		if err != nil {
			t.Fatalf("lat %v: %v", lat, err)
		}
		if !got.Degenerate {
			t.Fatalf("lat %v: expected degenerate result", lat)
		}
		if got.Azimuth != 0 {
			t.Errorf("lat %v: fallback azimuth %v, want 0", lat, got.Azimuth)
		}
		wantEl := 12.5
		if lat < 0 {
			wantEl = -12.5
		}
		if !almostEqual(got.Elevation, wantEl, 1e-9) {
			t.Errorf("lat %v: elevation %v, want %v", lat, got.Elevation, wantEl)
		}
		if err := got.Check(); !errors.Is(err, ErrDegenerateGeometry) {
			t.Errorf("lat %v: Check() = %v, want ErrDegenerateGeometry", lat, err)
		}
	}

	got, err := Transform(89.999, 12.5, 33)
	if err != nil {
		t.Fatal(err)
	}
	if got.Degenerate || got.Check() != nil {
		t.Error("near-pole latitude flagged as degenerate")
	}
}

func TestTransformInvalidLatitude(t *testing.T) {
	for _, lat := range []float64{-90.5, 91, math.NaN()} {
		if _, err := Transform(lat, 0, 0); !errors.Is(err, earth.ErrInvalidLatitude) {
			t.Errorf("lat %v: got %v, want ErrInvalidLatitude", lat, err)
		}
	}
}

func TestTransformRanges(t *testing.T) {
	for lat := -89.0; lat <= 89; lat += 7.3 {
		for dec := -23.44; dec <= 23.44; dec += 4.1 {
			for ha := -400.0; ha <= 400; ha += 13.7 {
				got, err := Transform(lat, dec, ha)
				if err != nil {
					t.Fatal(err)
				}
				if got.Azimuth < 0 || got.Azimuth >= 360 {
					t.Fatalf("(%v,%v,%v): azimuth %v out of [0,360)", lat, dec, ha, got.Azimuth)
				}
				if got.Elevation < -90 || got.Elevation > 90 {
					t.Fatalf("(%v,%v,%v): elevation %v out of [-90,90]", lat, dec, ha, got.Elevation)
				}
			}
		}
	}
}

func TestMorningEastAfternoonWest(t *testing.T) {
	for _, lat := range []float64{-50, -10, 30, 60} {
		am, _ := Transform(lat, 5, -45)
		pm, _ := Transform(lat, 5, 45)
		if am.Azimuth <= 0 || am.Azimuth >= 180 {
			t.Errorf("lat %v: morning azimuth %v not in the east", lat, am.Azimuth)
		}
		if pm.Azimuth <= 180 || pm.Azimuth >= 360 {
			t.Errorf("lat %v: afternoon azimuth %v not in the west", lat, pm.Azimuth)
		}
		if !almostEqual(am.Elevation, pm.Elevation, 1e-9) {
			t.Errorf("lat %v: elevation not symmetric about the meridian", lat)
		}
		if !almostEqual(am.Azimuth+pm.Azimuth, 360, 1e-9) {
			t.Errorf("lat %v: azimuths %v/%v not mirrored", lat, am.Azimuth, pm.Azimuth)
		}
	}
}

func TestZenithAndHorizon(t *testing.T) {
	p := HorizontalPosition{Azimuth: 10, Elevation: 30}
	if p.Zenith() != 60 {
		t.Errorf("Zenith = %v", p.Zenith())
	}
	if !p.AboveHorizon() {
		t.Error("30° elevation should be above the horizon")
	}
	if (HorizontalPosition{Elevation: -0.1}).AboveHorizon() {
		t.Error("negative elevation reported above horizon")
	}
}

func BenchmarkTransform(b *testing.B) {
	for range b.N {
		_, _ = Transform(38.921389, -6.719892, 64.352133)
	}
}
