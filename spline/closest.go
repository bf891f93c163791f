package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// ClosestPointOnPath returns the point on the polyline nearest to a
// world-space query point.
func (pl *Polyline) ClosestPointOnPath(point mgl64.Vec3) mgl64.Vec3 {
	prev, next, frac := pl.closestSegment(point)
	return bezpath.Lerp(pl.vertices[prev], pl.vertices[next], frac)
}

// ClosestTimeOnPath returns the normalized time of the nearest point on
// the polyline.
func (pl *Polyline) ClosestTimeOnPath(point mgl64.Vec3) float64 {
	prev, next, frac := pl.closestSegment(point)
	return bezpath.Lerp1(pl.times[prev], pl.times[next], frac)
}

// ClosestDistanceAlongPath returns the arc-length position of the
// nearest point on the polyline.
func (pl *Polyline) ClosestDistanceAlongPath(point mgl64.Vec3) float64 {
	prev, next, frac := pl.closestSegment(point)
	return bezpath.Lerp1(pl.cumulativeLength[prev], pl.cumulativeLength[next], frac)
}

// closestSegment scans all polyline segments (wrapping across the seam
// of a closed loop) for the one whose projection of point is nearest.
func (pl *Polyline) closestSegment(point mgl64.Vec3) (prev, next int, frac float64) {
	bestSqr := math.Inf(1)
	n := len(pl.vertices)
	for i := 0; i < n; i++ {
		j := i + 1
		if j >= n {
			if !pl.closed {
				break
			}
			j = 0
		}
		onSegment := bezpath.ClosestPointOnSegment(point, pl.vertices[i], pl.vertices[j])
		d := point.Sub(onSegment)
		if sqr := d.Dot(d); sqr < bestSqr {
			bestSqr = sqr
			prev, next = i, j
			seg := pl.vertices[j].Sub(pl.vertices[i])
			if l := seg.Len(); bezpath.Is0(l) {
				frac = 0
			} else {
				frac = onSegment.Sub(pl.vertices[i]).Len() / l
			}
		}
	}
	return prev, next, frac
}
