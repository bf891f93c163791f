package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
	"github.com/bezpath/bezpath/cubic"
)

// Sampling defaults.
const (
	// DefaultAccuracy multiplies the estimated segment length to obtain
	// the number of parameter steps walked per segment.
	DefaultAccuracy = 10.0
	// DefaultMaxAngleError is the largest tolerated deviation, in
	// degrees, between the polyline and the curve direction.
	DefaultMaxAngleError = 0.3
	// DefaultMinVertexDst is the minimum distance between emitted
	// vertices for angle-error sampling (0: no floor).
	DefaultMinVertexDst = 0.0
	// minVertexSpacing floors the spacing of uniform sampling.
	minVertexSpacing = 0.01
)

// splitData accumulates the discretized form of a path: vertices with
// tangents, cumulative length, the vertex index at which each anchor's
// segment begins, and a running bounding box.
type splitData struct {
	vertices         []mgl64.Vec3
	tangents         []mgl64.Vec3
	cumulativeLength []float64
	anchorVertexMap  []int
	min, max         mgl64.Vec3
}

func newSplitData(p *Path) *splitData {
	sd := &splitData{
		min: mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		max: mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	first := p.Point(0)
	sd.vertices = append(sd.vertices, first)
	sd.tangents = append(sd.tangents, p.SegmentPoints(0).Tangent(0))
	sd.cumulativeLength = append(sd.cumulativeLength, 0)
	sd.anchorVertexMap = append(sd.anchorVertexMap, 0)
	sd.grow(first)
	return sd
}

func (sd *splitData) grow(v mgl64.Vec3) {
	for i := 0; i < 3; i++ {
		sd.min[i] = math.Min(sd.min[i], v[i])
		sd.max[i] = math.Max(sd.max[i], v[i])
	}
}

func (sd *splitData) emit(v, tangent mgl64.Vec3, pathLength float64) {
	sd.cumulativeLength = append(sd.cumulativeLength, pathLength)
	sd.vertices = append(sd.vertices, v)
	sd.tangents = append(sd.tangents, tangent)
	sd.grow(v)
}

// Parameter step per segment: the estimated length times the accuracy
// factor gives the number of samples walked.
func stepFor(c cubic.Curve, accuracy float64) float64 {
	divisions := math.Ceil(c.EstimateLength() * accuracy)
	if divisions < 1 {
		divisions = 1
	}
	return 1 / divisions
}

// splitByAngleError walks each segment in small parameter steps and
// emits a vertex whenever the accumulated angular deviation exceeds
// maxAngleError degrees and at least minVertexDst has been travelled
// since the last vertex. The final point of the path is always emitted.
func splitByAngleError(p *Path, maxAngleError, minVertexDst, accuracy float64) *splitData {
	sd := newSplitData(p)
	prevOnPath := p.Point(0)
	lastAdded := p.Point(0)
	pathLength := 0.0
	dstSinceVertex := 0.0

	numSegments := p.NumSegments()
	for seg := 0; seg < numSegments; seg++ {
		curve := p.SegmentPoints(seg)
		increment := stepFor(curve, accuracy)
		for t := increment; t <= 1; t += increment {
			isLastOnPath := t+increment > 1 && seg == numSegments-1
			if isLastOnPath {
				t = 1
			}
			onPath := curve.Point(t)
			nextOnPath := curve.Point(t + increment)

			// deviation at the current sample...
			localAngle := 180 - bezpath.CornerAngle(prevOnPath, onPath, nextOnPath)
			// ...and relative to the last emitted vertex
			angleFromVertex := 180 - bezpath.CornerAngle(lastAdded, onPath, nextOnPath)
			angleError := math.Max(localAngle, angleFromVertex)

			if angleError > maxAngleError && dstSinceVertex >= minVertexDst || isLastOnPath {
				pathLength += lastAdded.Sub(onPath).Len()
				sd.emit(onPath, curve.Tangent(t), pathLength)
				lastAdded = onPath
				dstSinceVertex = 0
			} else {
				dstSinceVertex += onPath.Sub(prevOnPath).Len()
			}
			prevOnPath = onPath
		}
		sd.anchorVertexMap = append(sd.anchorVertexMap, len(sd.vertices)-1)
	}
	return sd
}

// splitEvenly walks each segment and emits a vertex whenever the
// distance travelled since the last one reaches spacing, backtracking
// onto the chord to make the spacing exact rather than merely bounded.
func splitEvenly(p *Path, spacing, accuracy float64) *splitData {
	sd := newSplitData(p)
	prevOnPath := p.Point(0)
	lastAdded := p.Point(0)
	pathLength := 0.0
	dstSinceVertex := 0.0

	numSegments := p.NumSegments()
	for seg := 0; seg < numSegments; seg++ {
		curve := p.SegmentPoints(seg)
		increment := stepFor(curve, accuracy)
		for t := increment; t <= 1; t += increment {
			isLastOnPath := t+increment > 1 && seg == numSegments-1
			if isLastOnPath {
				t = 1
			}
			onPath := curve.Point(t)
			dstSinceVertex += onPath.Sub(prevOnPath).Len()

			// went past the spacing: back up onto the chord by the overshoot
			if dstSinceVertex > spacing {
				overshoot := dstSinceVertex - spacing
				back := bezpath.SafeNormalize(prevOnPath.Sub(onPath), mgl64.Vec3{})
				onPath = onPath.Add(back.Mul(overshoot))
				t -= increment
			}
			if dstSinceVertex >= spacing || isLastOnPath {
				pathLength += lastAdded.Sub(onPath).Len()
				sd.emit(onPath, curve.Tangent(t), pathLength)
				lastAdded = onPath
				dstSinceVertex = 0
			}
			prevOnPath = onPath
		}
		sd.anchorVertexMap = append(sd.anchorVertexMap, len(sd.vertices)-1)
	}
	return sd
}
