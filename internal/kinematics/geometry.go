package kinematics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func vec(k Keypoint) r3.Vec {
	return r3.Vec{X: k.X, Y: k.Y, Z: k.Z}
}

// Angle returns the angle in degrees at vertex b between the rays b→a and
// b→c. A zero-length ray (a or c coincident with b) yields 0.
func Angle(a, b, c Keypoint) float64 {
	ba := r3.Sub(vec(a), vec(b))
	bc := r3.Sub(vec(c), vec(b))
	denom := r3.Norm(ba) * r3.Norm(bc)
	if denom == 0 || !isFinite(denom) {
		return 0
	}
	cos := r3.Dot(ba, bc) / denom
	// Clamp: rounding can push |cos| just past 1.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// PlanarDistance is the Euclidean distance between p1 and p2 in the image
// plane; z is ignored.
func PlanarDistance(p1, p2 Keypoint) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// Speed is the planar displacement from prev to curr divided by dt seconds.
// It is 0 when dt is not positive.
func Speed(prev, curr Keypoint, dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	return PlanarDistance(prev, curr) / dt
}

// Diff is the bilateral difference left − right.
func Diff(left, right float64) float64 {
	return left - right
}

// Ratio is the bilateral ratio left / right, defined as 0 when right is 0.
func Ratio(left, right float64) float64 {
	if right == 0 {
		return 0
	}
	r := left / right
	if !isFinite(r) {
		return 0
	}
	return r
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
