package earth

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/echoflaresat/sunephem/vectors"
)

const Radius = 6371.0 // Earth radius in km (spherical approximation)

var (
	ErrInvalidLatitude  = errors.New("invalid latitude")
	ErrInvalidLongitude = errors.New("invalid longitude")
)

// Location is a ground observer. Latitude is positive north, longitude
// positive east, both in degrees. UTCOffsetHours is the offset of the
// observer's wall clock from UTC (e.g. -5 for EST).
type Location struct {
	Latitude       float64
	Longitude      float64
	UTCOffsetHours float64
}

// ValidateLatitude reports ErrInvalidLatitude for values outside [-90, 90].
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, lat)
	}
	return nil
}

// ValidateLongitude reports ErrInvalidLongitude for values outside [-180, 180].
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, lon)
	}
	return nil
}

func (l Location) Validate() error {
	if err := ValidateLatitude(l.Latitude); err != nil {
		return err
	}
	if err := ValidateLongitude(l.Longitude); err != nil {
		return err
	}
	if math.IsNaN(l.UTCOffsetHours) || math.IsInf(l.UTCOffsetHours, 0) {
		return fmt.Errorf("invalid utc offset: %v", l.UTCOffsetHours)
	}
	return nil
}

// Zone returns a fixed time zone for the observer's UTC offset.
func (l Location) Zone() *time.Location {
	secs := int(math.Round(l.UTCOffsetHours * 3600))
	return time.FixedZone(fmt.Sprintf("UTC%+.2g", l.UTCOffsetHours), secs)
}

// SurfaceNormal returns the unit vector from the Earth's center through the
// point at (latDeg, lonDeg) on a spherical Earth, in ECEF axes.
func SurfaceNormal(latDeg, lonDeg float64) vectors.Vec3 {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0
	return vectors.Vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// SunDirectionECEF is the unit vector toward the Sun for a sub-solar point
// given as declination (deg) and longitude (deg).
func SunDirectionECEF(declination, longitude float64) vectors.Vec3 {
	return SurfaceNormal(declination, longitude)
}

// Antipode returns the point diametrically opposite (lat, lon).
func Antipode(lat, lon float64) (float64, float64) {
	alon := lon + 180
	if alon > 180 {
		alon -= 360
	}
	return -lat, alon
}
