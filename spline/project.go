package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// Projector maps a world-space point onto a 2D view plane, typically a
// screen. The path engine is agnostic to how the projection is done.
type Projector func(mgl64.Vec3) mgl64.Vec2

// ProjectionIndex precomputes the 2D image of a polyline so a cursor
// position can be mapped back to a point and time on the 3D path. Used
// by interactive editing surfaces; rebuild it whenever the polyline or
// the view changes.
type ProjectionIndex struct {
	pl     *Polyline
	points []mgl64.Vec2
}

// Hit describes the nearest path position for a 2D query point.
type Hit struct {
	Time        float64    // normalized time on the path
	Distance    float64    // arc length along the path
	Point       mgl64.Vec3 // world-space point on the path
	PlaneDst    float64    // 2D distance from the query to the path image
	VertexIndex int        // first vertex of the hit segment
}

// NewProjectionIndex projects every polyline vertex through proj. A nil
// projector drops the third coordinate.
func NewProjectionIndex(pl *Polyline, proj Projector) *ProjectionIndex {
	if proj == nil {
		proj = func(v mgl64.Vec3) mgl64.Vec2 {
			return mgl64.Vec2{v[0], v[1]}
		}
	}
	ix := &ProjectionIndex{
		pl:     pl,
		points: make([]mgl64.Vec2, pl.NumVertices()),
	}
	for i := 0; i < pl.NumVertices(); i++ {
		ix.points[i] = proj(pl.Vertex(i))
	}
	return ix
}

// Nearest finds the polyline segment whose 2D image is closest to pt
// and returns the corresponding position on the 3D path.
func (ix *ProjectionIndex) Nearest(pt mgl64.Vec2) Hit {
	bestSqr := math.Inf(1)
	bestPrev, bestNext := 0, 0
	bestFrac := 0.0
	n := len(ix.points)
	for i := 0; i < n; i++ {
		j := i + 1
		if j >= n {
			if !ix.pl.closed {
				break
			}
			j = 0
		}
		onSeg, frac := closestOnSegment2D(pt, ix.points[i], ix.points[j])
		d := pt.Sub(onSeg)
		if sqr := d.Dot(d); sqr < bestSqr {
			bestSqr = sqr
			bestPrev, bestNext = i, j
			bestFrac = frac
		}
	}
	time := bezpath.Lerp1(ix.pl.times[bestPrev], ix.pl.times[bestNext], bestFrac)
	return Hit{
		Time:        time,
		Distance:    time * ix.pl.length,
		Point:       bezpath.Lerp(ix.pl.vertices[bestPrev], ix.pl.vertices[bestNext], bestFrac),
		PlaneDst:    math.Sqrt(bestSqr),
		VertexIndex: bestPrev,
	}
}

func closestOnSegment2D(p, a, b mgl64.Vec2) (mgl64.Vec2, float64) {
	ab := b.Sub(a)
	den := ab.Dot(ab)
	if bezpath.Is0(den) {
		return a, 0
	}
	t := bezpath.Clamp01(p.Sub(a).Dot(ab) / den)
	return a.Add(ab.Mul(t)), t
}
