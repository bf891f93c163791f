package spline

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// AddAnchorAtEnd appends a new anchor after the last one, continuing
// the existing tangent direction. Ignored on a closed path.
func (p *Path) AddAnchorAtEnd(pos mgl64.Vec3) {
	if p.closed {
		tracer().Debugf("add anchor ignored: path is closed")
		return
	}
	pos = p.space.Project(pos)
	last := len(p.points) - 1
	// second control for the old last anchor: mirror its counterpart,
	// or in aligned/free mode keep the direction at half the distance
	// to the new anchor
	secondCtrl := p.points[last].Mul(2).Sub(p.points[last-1])
	if p.mode != ModeMirrored && p.mode != ModeAutomatic {
		dst := p.points[last].Sub(pos).Len()
		dir := bezpath.SafeNormalize(p.points[last].Sub(p.points[last-1]), mgl64.Vec3{})
		secondCtrl = p.points[last].Add(dir.Mul(dst * 0.5))
	}
	ctrlForNew := secondCtrl.Add(pos).Mul(0.5)
	p.points = append(p.points, secondCtrl, ctrlForNew, pos)
	p.anchorAngles = append(p.anchorAngles, p.anchorAngles[len(p.anchorAngles)-1])
	if p.mode == ModeAutomatic {
		p.autoSetAllAffectedControlPoints(len(p.points) - 1)
	}
	p.notify()
}

// AddAnchorAtStart prepends a new anchor before the first one.
// Ignored on a closed path.
func (p *Path) AddAnchorAtStart(pos mgl64.Vec3) {
	if p.closed {
		tracer().Debugf("add anchor ignored: path is closed")
		return
	}
	pos = p.space.Project(pos)
	secondCtrlOffset := p.points[0].Sub(p.points[1])
	if p.mode != ModeMirrored && p.mode != ModeAutomatic {
		dst := p.points[0].Sub(pos).Len()
		secondCtrlOffset = bezpath.SafeNormalize(secondCtrlOffset, mgl64.Vec3{}).Mul(dst * 0.5)
	}
	secondCtrl := p.points[0].Add(secondCtrlOffset)
	ctrlForNew := pos.Add(secondCtrl).Mul(0.5)
	p.points = append([]mgl64.Vec3{pos, ctrlForNew, secondCtrl}, p.points...)
	p.anchorAngles = append([]float64{p.anchorAngles[0]}, p.anchorAngles...)
	if p.mode == ModeAutomatic {
		p.autoSetAllAffectedControlPoints(0)
	}
	p.notify()
}

// InsertAnchor splits segment segIndex at parameter t, adding a new
// anchor at pos. Outside Automatic mode the split preserves the curve
// shape via De Casteljau subdivision before the new anchor is snapped
// to pos. Out-of-range segment indices are ignored.
func (p *Path) InsertAnchor(segIndex int, pos mgl64.Vec3, t float64) {
	if segIndex < 0 || segIndex >= p.NumSegments() {
		tracer().Debugf("insert anchor ignored: segment %d out of range", segIndex)
		return
	}
	pos = p.space.Project(pos)
	t = bezpath.Clamp01(t)
	if p.mode == ModeAutomatic {
		p.insertPoints(segIndex*3+2, mgl64.Vec3{}, pos, mgl64.Vec3{})
		p.autoSetAllAffectedControlPoints(segIndex*3 + 3)
	} else {
		// split the curve so the inserted controls least affect its shape
		left, right := p.SegmentPoints(segIndex).Split(t)
		p.insertPoints(segIndex*3+2, left.P2, left.P3, right.P1)
		newAnchor := segIndex*3 + 3
		p.movePoint(newAnchor-2, left.P1, true)
		p.movePoint(newAnchor+2, right.P2, true)
		p.movePoint(newAnchor, pos, true)
		if p.mode == ModeMirrored {
			avgDst := (left.P2.Sub(pos).Len() + right.P1.Sub(pos).Len()) / 2
			dir := bezpath.SafeNormalize(right.P1.Sub(pos), mgl64.Vec3{})
			p.movePoint(newAnchor+1, pos.Add(dir.Mul(avgDst)), true)
		}
	}
	// twist of the new anchor: average of its neighbors
	newAngleIndex := segIndex + 1
	prevAngle := p.anchorAngles[segIndex]
	nextAngle := p.anchorAngles[newAngleIndex%len(p.anchorAngles)]
	p.anchorAngles = append(p.anchorAngles, 0)
	copy(p.anchorAngles[newAngleIndex+1:], p.anchorAngles[newAngleIndex:])
	p.anchorAngles[newAngleIndex] = (prevAngle + nextAngle) / 2
	p.notify()
}

// DeleteAnchor removes the anchor at point index anchorPointIndex along
// with its control points. The request is ignored if it would leave
// fewer than 2 segments on a closed path or 1 segment on an open path.
func (p *Path) DeleteAnchor(anchorPointIndex int) {
	if anchorPointIndex < 0 || anchorPointIndex >= len(p.points) || anchorPointIndex%3 != 0 {
		tracer().Debugf("delete ignored: %d is not an anchor index", anchorPointIndex)
		return
	}
	if p.NumSegments() <= 2 && p.closed || p.NumSegments() <= 1 && !p.closed {
		tracer().Debugf("delete ignored: path is at its minimum size")
		return
	}
	switch {
	case anchorPointIndex == 0:
		if p.closed {
			p.points[len(p.points)-1] = p.points[2]
		}
		p.points = p.points[3:]
	case anchorPointIndex == len(p.points)-1 && !p.closed:
		p.points = p.points[:anchorPointIndex-2]
	default:
		p.points = append(p.points[:anchorPointIndex-1], p.points[anchorPointIndex+2:]...)
	}
	ai := anchorPointIndex / 3
	p.anchorAngles = append(p.anchorAngles[:ai], p.anchorAngles[ai+1:]...)
	if p.mode == ModeAutomatic {
		p.autoSetAllControlPoints()
	}
	p.notify()
}

// MovePoint moves the point at index i to pos, projected into the
// active plane. Moving an anchor drags its adjacent controls along; in
// Aligned/Mirrored mode moving a control re-derives its sibling. In
// Automatic mode controls are derived and the request is ignored.
func (p *Path) MovePoint(i int, pos mgl64.Vec3) {
	p.movePoint(i, pos, false)
}

func (p *Path) movePoint(i int, pos mgl64.Vec3, suppressNotify bool) {
	if i < 0 || i >= len(p.points) {
		tracer().Debugf("move ignored: point %d out of range", i)
		return
	}
	pos = p.space.Project(pos)
	deltaMove := pos.Sub(p.points[i])
	isAnchor := i%3 == 0

	if !isAnchor && p.mode == ModeAutomatic {
		tracer().Debugf("move ignored: controls are derived in automatic mode")
		return
	}
	p.points[i] = pos
	if p.mode == ModeAutomatic {
		p.autoSetAllAffectedControlPoints(i)
	} else if isAnchor {
		// drag the adjacent control points along
		if i+1 < len(p.points) || p.closed {
			j := p.LoopIndex(i + 1)
			p.points[j] = p.points[j].Add(deltaMove)
		}
		if i-1 >= 0 || p.closed {
			j := p.LoopIndex(i - 1)
			p.points[j] = p.points[j].Add(deltaMove)
		}
	} else if p.mode != ModeFree {
		// keep the sibling control collinear through the anchor
		nextIsAnchor := (i+1)%3 == 0
		siblingIndex := i - 2
		anchorIndex := i - 1
		if nextIsAnchor {
			siblingIndex = i + 2
			anchorIndex = i + 1
		}
		if siblingIndex >= 0 && siblingIndex < len(p.points) || p.closed {
			anchor := p.points[p.LoopIndex(anchorIndex)]
			var dstFromAnchor float64
			if p.mode == ModeAligned {
				// preserve the sibling's own distance from the anchor
				dstFromAnchor = anchor.Sub(p.points[p.LoopIndex(siblingIndex)]).Len()
			} else if p.mode == ModeMirrored {
				// equalize both distances
				dstFromAnchor = anchor.Sub(p.points[i]).Len()
			}
			dir := bezpath.SafeNormalize(anchor.Sub(pos), mgl64.Vec3{})
			p.points[p.LoopIndex(siblingIndex)] = anchor.Add(dir.Mul(dstFromAnchor))
		}
	}
	if !suppressNotify {
		p.notify()
	}
}

// insertPoints inserts three points at index i.
func (p *Path) insertPoints(i int, a, b, c mgl64.Vec3) {
	p.points = append(p.points, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	copy(p.points[i+3:], p.points[i:])
	p.points[i] = a
	p.points[i+1] = b
	p.points[i+2] = c
}
