package render

import (
	"math"

	"github.com/echoflaresat/sunephem/colors"
	"github.com/echoflaresat/sunephem/vectors"
)

// Twilight is the half width of the terminator band as the cosine of the
// Sun's zenith angle (about 5.7° of solar elevation).
const Twilight = 0.1

// Smoothstep performs a Hermite interpolation between 0 and 1 across [edge0, edge1].
// Returns 0 if x < edge0, 1 if x > edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	// Avoid division by zero
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}

	t := Clip((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3.0 - 2.0*t)
}

// Clip clamps x into the inclusive range [min, max].
func Clip(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// BlendNightDayEnergyConserving blends day and night colors using an
// energy-conserving root-sum-square method to ensure a smooth transition.
func BlendNightDayEnergyConserving(CDay, CNight colors.Color4, light float64) colors.Color4 {
	r := math.Sqrt((1-light)*CNight.R*CNight.R + light*CDay.R*CDay.R)
	g := math.Sqrt((1-light)*CNight.G*CNight.G + light*CDay.G*CDay.G)
	b := math.Sqrt((1-light)*CNight.B*CNight.B + light*CDay.B*CDay.B)
	return colors.Color4{R: r, G: g, B: b, A: 1.0}
}

// Daylight is the fraction of daylight, 0..1, at a surface point with unit
// normal n when the Sun lies along sunDir.
func Daylight(n, sunDir vectors.Vec3) float64 {
	return Smoothstep(-Twilight, Twilight, n.Dot(sunDir))
}
