package rawanim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LerpTranslation interpolates two translation values component-wise.
// This must be the same lerp the runtime sampler uses.
func LerpTranslation(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// LerpRotation blends two rotations with normalized linear interpolation.
// When the quaternions' dot product is negative the second operand is negated
// first: q and -q encode the same rotation, and interpolating through the
// short arc requires consistent sign.
// This must be the same blend the runtime sampler uses.
func LerpRotation(a, b mgl64.Quat, alpha float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatNlerp(a, b, alpha)
}

// LerpScale interpolates two scale values component-wise.
// This must be the same lerp the runtime sampler uses.
func LerpScale(a, b mgl64.Vec3, alpha float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(alpha))
}

// AngleBetween returns the angular deviation between two rotations in
// radians, in [0, pi], ignoring quaternion sign.
func AngleBetween(a, b mgl64.Quat) float64 {
	dot := math.Abs(a.Normalize().Dot(b.Normalize()))
	if dot > 1 {
		dot = 1
	}
	return 2 * math.Acos(dot)
}
