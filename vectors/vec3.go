package vectors

import "math"

// Vec3 is a 3D vector in Earth-centred, Earth-fixed axes.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product v · o.
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Norm returns the Euclidean length ||v||.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector v / ||v||.
// If ||v|| == 0, it returns the zero vector (0,0,0).
func (v Vec3) Normalize() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	inv := 1.0 / n
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// AngleDeg is the angle between v and o in degrees, [0, 180].
func (v Vec3) AngleDeg(o Vec3) float64 {
	c := v.Normalize().Dot(o.Normalize())
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// LatLon returns the geocentric latitude and longitude of v in degrees.
func (v Vec3) LatLon() (lat, lon float64) {
	lat = math.Atan2(v.Z, math.Hypot(v.X, v.Y)) * 180 / math.Pi
	lon = math.Atan2(v.Y, v.X) * 180 / math.Pi
	return lat, lon
}
