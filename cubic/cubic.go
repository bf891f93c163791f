/*
Package cubic implements primitives over a single cubic bezier segment
in 3D: evaluation of position and derivatives, normals, a cheap length
estimate for subdivision heuristics, extrema parameters for tight
bounding boxes, and De Casteljau splitting.

All functions are pure; a Curve is a plain value and is never mutated.
Curve parameters outside [0,1] are clamped, never rejected.
*/
package cubic

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// Curve is one cubic bezier segment. P0 and P3 are the on-curve anchor
// points, P1 and P2 the off-curve control points.
type Curve struct {
	P0, P1, P2, P3 mgl64.Vec3
}

// Point evaluates the curve position at t (clamped to [0,1]) with the
// cubic Bernstein blend.
func (c Curve) Point(t float64) mgl64.Vec3 {
	t = bezpath.Clamp01(t)
	mt := 1 - t
	a := c.P0.Mul(mt * mt * mt)
	b := c.P1.Mul(3 * mt * mt * t)
	d := c.P2.Mul(3 * mt * t * t)
	e := c.P3.Mul(t * t * t)
	return a.Add(b).Add(d).Add(e)
}

// Velocity is the first derivative of the curve at t (clamped).
func (c Curve) Velocity(t float64) mgl64.Vec3 {
	t = bezpath.Clamp01(t)
	mt := 1 - t
	v1 := c.P1.Sub(c.P0).Mul(3 * mt * mt)
	v2 := c.P2.Sub(c.P1).Mul(6 * mt * t)
	v3 := c.P3.Sub(c.P2).Mul(3 * t * t)
	return v1.Add(v2).Add(v3)
}

// Acceleration is the second derivative of the curve at t (clamped).
func (c Curve) Acceleration(t float64) mgl64.Vec3 {
	t = bezpath.Clamp01(t)
	a1 := c.P2.Sub(c.P1.Mul(2)).Add(c.P0).Mul(6 * (1 - t))
	a2 := c.P3.Sub(c.P2.Mul(2)).Add(c.P1).Mul(6 * t)
	return a1.Add(a2)
}

// Tangent is the normalized velocity at t. Zero for a degenerate curve.
func (c Curve) Tangent(t float64) mgl64.Vec3 {
	return bezpath.SafeNormalize(c.Velocity(t), mgl64.Vec3{})
}

// Normal returns the unit curve normal at t, derived from velocity and
// acceleration. The result is the zero vector where the two are
// collinear (straight segments); callers must tolerate that.
func (c Curve) Normal(t float64) mgl64.Vec3 {
	v := c.Velocity(t)
	a := c.Acceleration(t)
	n := a.Cross(v).Cross(v)
	l := n.Len()
	if bezpath.Is0(l) {
		return mgl64.Vec3{}
	}
	return n.Mul(1 / l)
}

// EstimateLength blends the chord with half the control net length.
// It is an error-bounded heuristic for choosing subdivision counts,
// not an exact arc length.
func (c Curve) EstimateLength() float64 {
	chord := c.P3.Sub(c.P0).Len()
	net := c.P1.Sub(c.P0).Len() + c.P2.Sub(c.P1).Len() + c.P3.Sub(c.P2).Len()
	return chord + net/2
}

// Split subdivides the curve at t by De Casteljau. Concatenating the
// two halves reproduces the original curve up to floating point.
func (c Curve) Split(t float64) (Curve, Curve) {
	t = bezpath.Clamp01(t)
	a1 := bezpath.Lerp(c.P0, c.P1, t)
	a2 := bezpath.Lerp(c.P1, c.P2, t)
	a3 := bezpath.Lerp(c.P2, c.P3, t)
	b1 := bezpath.Lerp(a1, a2, t)
	b2 := bezpath.Lerp(a2, a3, t)
	p := bezpath.Lerp(b1, b2, t)
	return Curve{c.P0, a1, b1, p}, Curve{p, b2, a3, c.P3}
}

// Extrema returns the parameters in (0,1) at which some coordinate of
// the curve reaches a local extremum, sorted ascending. Up to two roots
// per axis.
func (c Curve) Extrema() []float64 {
	d0 := c.P1.Sub(c.P0)
	d1 := c.P2.Sub(c.P1)
	d2 := c.P3.Sub(c.P2)
	var out []float64
	for axis := 0; axis < 3; axis++ {
		// derivative ∝ d0(1-t)² + 2 d1 t(1-t) + d2 t²
		a := d0[axis] - 2*d1[axis] + d2[axis]
		b := 2 * (d1[axis] - d0[axis])
		roots, n := solveQuadratic(d0[axis], b, a)
		for _, t := range roots[:n] {
			if t > 0 && t < 1 {
				out = append(out, t)
			}
		}
	}
	sort.Float64s(out)
	return out
}

// Bounds returns the tight axis-aligned bounding box of the curve,
// evaluated at the endpoints and all extrema.
func (c Curve) Bounds() (min, max mgl64.Vec3) {
	min, max = c.P0, c.P0
	min, max = grow(min, max, c.P3)
	for _, t := range c.Extrema() {
		min, max = grow(min, max, c.Point(t))
	}
	return min, max
}

func grow(min, max, v mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		if v[i] < min[i] {
			min[i] = v[i]
		}
		if v[i] > max[i] {
			max[i] = v[i]
		}
	}
	return min, max
}

// solveQuadratic finds the real roots of c0 + c1 x + c2 x² = 0,
// degrading gracefully to the linear and degenerate cases.
func solveQuadratic(c0, c1, c2 float64) ([2]float64, int) {
	sc0 := c0 / c2
	sc1 := c1 / c2
	if math.IsInf(sc0, 0) || math.IsInf(sc1, 0) || math.IsNaN(sc0) || math.IsNaN(sc1) {
		// c2 is zero or very small, treat as a linear equation
		root := -c0 / c1
		if !math.IsInf(root, 0) && !math.IsNaN(root) {
			return [2]float64{root}, 1
		}
		return [2]float64{}, 0
	}
	arg := sc1*sc1 - 4*sc0
	if arg < 0 {
		return [2]float64{}, 0
	} else if arg == 0 {
		return [2]float64{-0.5 * sc1}, 1
	}
	root1 := -0.5 * (sc1 + math.Copysign(math.Sqrt(arg), sc1))
	root2 := sc0 / root1
	if math.IsInf(root2, 0) || math.IsNaN(root2) {
		return [2]float64{root1}, 1
	}
	if root2 < root1 {
		root1, root2 = root2, root1
	}
	return [2]float64{root1, root2}, 2
}
