package spline

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// Automatic control placement: for an anchor A with neighbors P and N,
// controls are placed along ±normalize(normalize(P-A) - normalize(N-A))
// at the distance to the respective neighbor scaled by the auto control
// length. Open-path endpoints and the 2-anchor case use simplified
// symmetric placement to avoid degenerate directions.

func (p *Path) autoSetAllControlPoints() {
	if p.NumAnchors() > 2 {
		for i := 0; i < len(p.points); i += 3 {
			p.autoSetAnchorControlPoints(i)
		}
	}
	p.autoSetStartAndEndControls()
}

// Recompute the controls around an updated anchor and its neighbors.
func (p *Path) autoSetAllAffectedControlPoints(updatedAnchorIndex int) {
	for i := updatedAnchorIndex - 3; i <= updatedAnchorIndex+3; i += 3 {
		if i >= 0 && i < len(p.points) || p.closed {
			p.autoSetAnchorControlPoints(p.LoopIndex(i))
		}
	}
	p.autoSetStartAndEndControls()
}

func (p *Path) autoSetAnchorControlPoints(anchorIndex int) {
	anchor := p.points[anchorIndex]
	var dir mgl64.Vec3
	var neighborDst [2]float64

	if anchorIndex-3 >= 0 || p.closed {
		offset := p.points[p.LoopIndex(anchorIndex-3)].Sub(anchor)
		dir = dir.Add(bezpath.SafeNormalize(offset, mgl64.Vec3{}))
		neighborDst[0] = offset.Len()
	}
	if anchorIndex+3 < len(p.points) || p.closed {
		offset := p.points[p.LoopIndex(anchorIndex+3)].Sub(anchor)
		dir = dir.Sub(bezpath.SafeNormalize(offset, mgl64.Vec3{}))
		neighborDst[1] = -offset.Len()
	}
	dir = bezpath.SafeNormalize(dir, mgl64.Vec3{})

	for i := 0; i < 2; i++ {
		controlIndex := anchorIndex + i*2 - 1
		if controlIndex >= 0 && controlIndex < len(p.points) || p.closed {
			p.points[p.LoopIndex(controlIndex)] = anchor.Add(dir.Mul(neighborDst[i] * p.autoCtrlLen))
		}
	}
}

func (p *Path) autoSetStartAndEndControls() {
	if p.closed {
		if p.NumAnchors() == 2 {
			// 2-anchor loop: place controls perpendicular to the
			// anchor-to-anchor axis to form a lens shape
			dirAToB := bezpath.SafeNormalize(p.points[3].Sub(p.points[0]), mgl64.Vec3{1, 0, 0})
			dstAToB := p.points[3].Sub(p.points[0]).Len()
			planeAxis := mgl64.Vec3{0, 0, 1}
			if p.space == bezpath.PlaneXZ {
				planeAxis = mgl64.Vec3{0, 1, 0}
			}
			perp := dirAToB.Cross(planeAxis)
			if bezpath.Is0(perp.Len()) {
				// anchor axis parallel to the default plane axis (free
				// 3D only), pick another one
				perp = dirAToB.Cross(mgl64.Vec3{0, 1, 0})
			}
			perp = bezpath.SafeNormalize(perp, mgl64.Vec3{0, 1, 0})
			p.points[1] = p.points[0].Add(perp.Mul(dstAToB / 2))
			p.points[5] = p.points[3].Add(perp.Mul(dstAToB / 2))
			p.points[2] = p.points[3].Add(perp.Mul(-dstAToB / 2))
			p.points[4] = p.points[0].Add(perp.Mul(-dstAToB / 2))
		} else {
			p.autoSetAnchorControlPoints(0)
			p.autoSetAnchorControlPoints(len(p.points) - 3)
		}
		return
	}
	if p.NumAnchors() == 2 {
		// straight-ish symmetric controls; solving the general case for
		// 2 anchors makes the path flip on minor adjustments
		p.points[1] = p.points[0].Add(p.points[3].Sub(p.points[0]).Mul(0.25))
		p.points[2] = p.points[3].Add(p.points[0].Sub(p.points[3]).Mul(0.25))
	} else {
		p.points[1] = p.points[0].Add(p.points[2]).Mul(0.5)
		p.points[len(p.points)-2] = p.points[len(p.points)-1].Add(p.points[len(p.points)-3]).Mul(0.5)
	}
}
