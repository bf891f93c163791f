package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds returns the axis-aligned bounding box over the exact extrema
// of all segments, in the path's local coordinates. The box is cached
// and recomputed lazily after mutations.
func (p *Path) Bounds() (min, max mgl64.Vec3) {
	if !p.boundsOK {
		p.updateBounds()
	}
	return p.boundsMin, p.boundsMax
}

func (p *Path) updateBounds() {
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for seg := 0; seg < p.NumSegments(); seg++ {
		smin, smax := p.SegmentPoints(seg).Bounds()
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], smin[i])
			max[i] = math.Max(max[i], smax[i])
		}
	}
	p.boundsMin, p.boundsMax = min, max
	p.boundsOK = true
}
