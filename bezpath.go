/*
Package bezpath provides the shared geometry vocabulary for a cubic
bezier path engine: epsilon arithmetic, angle helpers in degrees,
coordinate spaces with explicit plane projection, and similarity
transforms applied around a pivot.

The path machinery itself lives in the subpackages: package cubic
implements the primitives over a single curve segment, package spline
implements editable control-point paths and their sampled polyline
form, and package polygon consumes closed planar paths.
*/
package bezpath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'geom'
func tracer() tracing.Trace {
	return tracing.Select("geom")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Clamp01 clamps n into the unit interval.
func Clamp01(n float64) float64 {
	return mgl64.Clamp(n, 0, 1)
}

// InverseLerp maps v into [0,1] relative to the interval a..b.
// Degenerate intervals map to 0.
func InverseLerp(a, b, v float64) float64 {
	if Is0(b - a) {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// PingPong reflects t back and forth inside [0,length].
func PingPong(t, length float64) float64 {
	t = math.Abs(math.Mod(t, 2*length))
	return length - math.Abs(t-length)
}

// === Vectors ===============================================================

// Lerp1 interpolates linearly between two scalars. t is not clamped.
func Lerp1(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Lerp interpolates linearly between two points. t is not clamped.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// CompMul is the component-wise product of two vectors.
func CompMul(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// SafeNormalize normalizes v, falling back to the given direction for
// (near-)zero input instead of producing NaNs.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if Is0(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// ClosestPointOnSegment projects p onto the segment a-b and returns the
// nearest point on the segment.
func ClosestPointOnSegment(p, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if Is0(den) {
		return a
	}
	t := Clamp01(p.Sub(a).Dot(ab) / den)
	return a.Add(ab.Mul(t))
}

// === Angles ================================================================

// Angle returns the unsigned angle between two vectors, in degrees.
func Angle(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if Is0(la) || Is0(lb) {
		return 0
	}
	cos := mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos) / Deg2Rad
}

// CornerAngle returns the angle at corner b of the triangle a-b-c,
// in degrees.
func CornerAngle(a, b, c mgl64.Vec3) float64 {
	return Angle(a.Sub(b), c.Sub(b))
}

// SignedAngle returns the angle from one vector to another around an
// axis, in degrees. The sign follows the right-hand rule on axis.
func SignedAngle(from, to, axis mgl64.Vec3) float64 {
	unsigned := Angle(from, to)
	if axis.Dot(from.Cross(to)) < 0 {
		return -unsigned
	}
	return unsigned
}

// DeltaAngle returns the shortest signed difference between two angles
// given in degrees, in the range (-180,180].
func DeltaAngle(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// WrapAngle reduces an angle in degrees to [0,360).
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// RotateAround rotates v around axis by an angle in degrees.
func RotateAround(v, axis mgl64.Vec3, degrees float64) mgl64.Vec3 {
	if Is0(axis.Len()) {
		tracer().Debugf("rotation around zero axis ignored")
		return v
	}
	q := mgl64.QuatRotate(degrees*Deg2Rad, axis.Normalize())
	return q.Rotate(v)
}

// LookRotation builds the orientation whose forward axis points along
// forward and whose up axis is as close to up as orthonormality allows.
// A zero forward direction yields the identity orientation.
func LookRotation(forward, up mgl64.Vec3) mgl64.Quat {
	if Is0(forward.Len()) {
		tracer().Debugf("look rotation for zero forward direction")
		return mgl64.QuatIdent()
	}
	f := forward.Normalize()
	r := up.Cross(f)
	if Is0(r.Len()) {
		// up is (anti)parallel to forward, pick any perpendicular
		r = perpendicular(f)
	} else {
		r = r.Normalize()
	}
	u := f.Cross(r)
	m := mgl64.Mat4{
		r[0], r[1], r[2], 0,
		u[0], u[1], u[2], 0,
		f[0], f[1], f[2], 0,
		0, 0, 0, 1,
	}
	return mgl64.Mat4ToQuat(m).Normalize()
}

// Any unit vector perpendicular to v. v must be non-zero.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	w := mgl64.Vec3{1, 0, 0}
	if math.Abs(v[0]) > math.Abs(v[1]) {
		w = mgl64.Vec3{0, 1, 0}
	}
	return v.Cross(w).Normalize()
}
