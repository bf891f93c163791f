package spline

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/bezpath/bezpath"
)

// EndOfPath selects how distance/time queries outside [0,length] map
// back into range.
type EndOfPath uint8

// End-of-path policies.
const (
	// Loop wraps the parameter modulo the path length.
	Loop EndOfPath = iota
	// Reverse ping-pongs the parameter back and forth.
	Reverse
	// Stop clamps the parameter to the path ends.
	Stop
)

// Polyline is the immutable sampled form of a Path: world-space
// vertices with unit tangents, twist-minimized unit normals, cumulative
// arc length and normalized time. A Polyline is a snapshot — it does
// not observe later mutations of its source path — and is safe for
// concurrent readers.
type Polyline struct {
	space  bezpath.Space
	closed bool

	vertices         []mgl64.Vec3
	tangents         []mgl64.Vec3
	normals          []mgl64.Vec3
	times            []float64
	cumulativeLength []float64
	anchorVertexMap  []int

	length               float64
	boundsMin, boundsMax mgl64.Vec3
	up                   mgl64.Vec3
}

// Sample discretizes a path with the default angle-error parameters.
func Sample(p *Path) *Polyline {
	return SampleByAngle(p, DefaultMaxAngleError, DefaultMinVertexDst, DefaultAccuracy)
}

// SampleByAngle discretizes a path with error-bounded adaptive
// sampling: vertices are emitted where the path bends by more than
// maxAngleError degrees, at least minVertexDst apart.
func SampleByAngle(p *Path, maxAngleError, minVertexDst, accuracy float64) *Polyline {
	return newPolyline(p, splitByAngleError(p, maxAngleError, minVertexDst, accuracy))
}

// SampleEvenly discretizes a path into vertices spaced exactly spacing
// world units apart (floored to a small minimum).
func SampleEvenly(p *Path, spacing, accuracy float64) *Polyline {
	return newPolyline(p, splitEvenly(p, math.Max(spacing, minVertexSpacing), accuracy))
}

func newPolyline(p *Path, sd *splitData) *Polyline {
	n := len(sd.vertices)
	pl := &Polyline{
		space:            p.Space(),
		closed:           p.IsClosed(),
		vertices:         sd.vertices,
		tangents:         sd.tangents,
		normals:          make([]mgl64.Vec3, n),
		times:            make([]float64, n),
		cumulativeLength: sd.cumulativeLength,
		anchorVertexMap:  sd.anchorVertexMap,
		length:           sd.cumulativeLength[n-1],
		boundsMin:        sd.min,
		boundsMax:        sd.max,
	}

	// seed the frame: for planar paths the plane fixes it, for 3D pick
	// the world axis most orthogonal to the overall extent
	size := sd.max.Sub(sd.min)
	if pl.space.IsPlanar() {
		pl.up = pl.space.Up()
	} else if size[2] > size[1] {
		pl.up = mgl64.Vec3{0, 1, 0}
	} else {
		pl.up = mgl64.Vec3{0, 0, -1}
	}

	flipSign := -1.0
	if p.FlipNormals() {
		flipSign = 1
	}
	lastRotationAxis := pl.up
	for i := 0; i < n; i++ {
		if pl.space.IsPlanar() {
			pl.normals[i] = pl.tangents[i].Cross(pl.up).Mul(flipSign)
			continue
		}
		if i == 0 {
			pl.normals[0] = bezpath.SafeNormalize(lastRotationAxis.Cross(pl.tangents[0]), mgl64.Vec3{})
			continue
		}
		// double reflection: reflect the previous rotation axis and
		// tangent in the plane bisecting the vertex offset, then in the
		// plane bisecting the tangent change
		offset := pl.vertices[i].Sub(pl.vertices[i-1])
		sqrDst := offset.Dot(offset)
		r := lastRotationAxis
		t := pl.tangents[i-1]
		if !bezpath.Is0(sqrDst) {
			r = lastRotationAxis.Sub(offset.Mul(2 / sqrDst * offset.Dot(lastRotationAxis)))
			t = pl.tangents[i-1].Sub(offset.Mul(2 / sqrDst * offset.Dot(pl.tangents[i-1])))
		}

		v2 := pl.tangents[i].Sub(t)
		c2 := v2.Dot(v2)
		finalRot := r
		if !bezpath.Is0(c2) {
			finalRot = r.Sub(v2.Mul(2 / c2 * v2.Dot(r)))
		}
		pl.normals[i] = bezpath.SafeNormalize(finalRot.Cross(pl.tangents[i]), mgl64.Vec3{})
		lastRotationAxis = finalRot
	}

	if !pl.space.IsPlanar() {
		pl.correctSeam()
		pl.applyTwist(p)
	}
	pl.bake(p.Transform())
	return pl
}

// correctSeam redistributes the angular mismatch between the last and
// first frame of a closed loop linearly across all vertices, so the
// seam stays continuous. A first-order patch, not a global minimizer.
func (pl *Polyline) correctSeam() {
	if !pl.closed || len(pl.normals) < 2 {
		return
	}
	seamError := bezpath.SignedAngle(pl.normals[len(pl.normals)-1], pl.normals[0], pl.tangents[0])
	if math.Abs(seamError) <= 0.1 {
		return
	}
	for i := 1; i < len(pl.normals); i++ {
		t := float64(i) / float64(len(pl.normals)-1)
		pl.normals[i] = bezpath.RotateAround(pl.normals[i], pl.tangents[i], seamError*t)
	}
}

// applyTwist rotates each vertex normal around its tangent by the
// anchor twist angles, interpolated linearly across each anchor-to-
// anchor vertex range.
func (pl *Polyline) applyTwist(p *Path) {
	numAnchors := len(p.anchorAngles)
	for ai := 0; ai < len(pl.anchorVertexMap)-1; ai++ {
		nextAI := ai + 1
		if pl.closed {
			nextAI = (ai + 1) % numAnchors
		}
		startAngle := p.AnchorAngle(ai) + p.GlobalAngle()
		endAngle := p.AnchorAngle(nextAI) + p.GlobalAngle()
		delta := bezpath.DeltaAngle(startAngle, endAngle)

		startVert := pl.anchorVertexMap[ai]
		endVert := pl.anchorVertexMap[ai+1]
		num := endVert - startVert
		if ai == len(pl.anchorVertexMap)-2 {
			num++
		}
		for i := 0; i < num; i++ {
			vi := startVert + i
			t := 1.0
			if num > 1 {
				t = float64(i) / float64(num-1)
			}
			angle := startAngle + delta*t
			pl.normals[vi] = bezpath.RotateAround(pl.normals[vi], pl.tangents[vi], angle)
		}
	}
}

// bake applies the path's similarity transform to the snapshot, so all
// queries answer in world space. Arc length and times are recomputed
// from the transformed vertices, keeping distance queries consistent
// with the world-space geometry.
func (pl *Polyline) bake(tr bezpath.Transform) {
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range pl.vertices {
		pl.vertices[i] = tr.Apply(pl.vertices[i])
		pl.tangents[i] = tr.ApplyToDirection(pl.tangents[i])
		pl.normals[i] = tr.ApplyToDirection(pl.normals[i])
		if i > 0 {
			pl.cumulativeLength[i] = pl.cumulativeLength[i-1] +
				pl.vertices[i].Sub(pl.vertices[i-1]).Len()
		}
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], pl.vertices[i][axis])
			max[axis] = math.Max(max[axis], pl.vertices[i][axis])
		}
	}
	pl.up = tr.ApplyToDirection(pl.up)
	pl.length = pl.cumulativeLength[len(pl.cumulativeLength)-1]
	if bezpath.Is0(pl.length) && len(pl.times) > 1 {
		// all vertices coincide; spread times by index so the last one
		// is still 1 and queries stay well defined
		for i := range pl.times {
			pl.times[i] = float64(i) / float64(len(pl.times)-1)
		}
	} else {
		totalLength := math.Max(pl.length, bezpath.Epsilon)
		for i := range pl.times {
			pl.times[i] = pl.cumulativeLength[i] / totalLength
		}
	}
	pl.boundsMin, pl.boundsMax = min, max
}

// === Accessors =============================================================

// NumVertices is the number of sampled vertices.
func (pl *Polyline) NumVertices() int { return len(pl.vertices) }

// Length is the total arc length of the polyline.
func (pl *Polyline) Length() float64 { return pl.length }

// IsClosed reports whether the source path was a closed loop at
// sampling time.
func (pl *Polyline) IsClosed() bool { return pl.closed }

// Space is the coordinate space copied from the source path.
func (pl *Polyline) Space() bezpath.Space { return pl.space }

// Vertex returns the sampled vertex position at index i.
func (pl *Polyline) Vertex(i int) mgl64.Vec3 { return pl.vertices[i] }

// Tangent returns the unit tangent at vertex i.
func (pl *Polyline) Tangent(i int) mgl64.Vec3 { return pl.tangents[i] }

// Normal returns the unit normal at vertex i.
func (pl *Polyline) Normal(i int) mgl64.Vec3 { return pl.normals[i] }

// Time returns the normalized arc-length parameter of vertex i.
func (pl *Polyline) Time(i int) float64 { return pl.times[i] }

// CumulativeLength returns the arc length from the path start to
// vertex i.
func (pl *Polyline) CumulativeLength(i int) float64 { return pl.cumulativeLength[i] }

// Bounds is the axis-aligned box around all vertices.
func (pl *Polyline) Bounds() (min, max mgl64.Vec3) { return pl.boundsMin, pl.boundsMax }

// Vertices returns a copy of all vertex positions.
func (pl *Polyline) Vertices() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(pl.vertices))
	copy(out, pl.vertices)
	return out
}

// === Queries ===============================================================

// distanceToTime floors the divisor so a degenerate zero-length path
// yields a finite time instead of NaN.
func (pl *Polyline) distanceToTime(dst float64) float64 {
	return dst / math.Max(pl.length, bezpath.Epsilon)
}

// PointAtDistance returns the position dst world units along the path.
func (pl *Polyline) PointAtDistance(dst float64, eop EndOfPath) mgl64.Vec3 {
	return pl.PointAtTime(pl.distanceToTime(dst), eop)
}

// DirectionAtDistance returns the unit direction of travel dst units
// along the path.
func (pl *Polyline) DirectionAtDistance(dst float64, eop EndOfPath) mgl64.Vec3 {
	return pl.DirectionAtTime(pl.distanceToTime(dst), eop)
}

// NormalAtDistance returns the unit normal dst units along the path.
func (pl *Polyline) NormalAtDistance(dst float64, eop EndOfPath) mgl64.Vec3 {
	return pl.NormalAtTime(pl.distanceToTime(dst), eop)
}

// RotationAtDistance returns the orientation dst units along the path,
// with the tangent as forward axis and the normal as up axis.
func (pl *Polyline) RotationAtDistance(dst float64, eop EndOfPath) mgl64.Quat {
	return pl.RotationAtTime(pl.distanceToTime(dst), eop)
}

// PointAtTime returns the position at normalized time t ∈ [0,1].
func (pl *Polyline) PointAtTime(t float64, eop EndOfPath) mgl64.Vec3 {
	prev, next, frac := pl.locate(t, eop)
	return bezpath.Lerp(pl.vertices[prev], pl.vertices[next], frac)
}

// DirectionAtTime returns the unit direction of travel at time t.
func (pl *Polyline) DirectionAtTime(t float64, eop EndOfPath) mgl64.Vec3 {
	prev, next, frac := pl.locate(t, eop)
	dir := bezpath.Lerp(pl.tangents[prev], pl.tangents[next], frac)
	return bezpath.SafeNormalize(dir, pl.tangents[prev])
}

// NormalAtTime returns the unit normal at time t.
func (pl *Polyline) NormalAtTime(t float64, eop EndOfPath) mgl64.Vec3 {
	prev, next, frac := pl.locate(t, eop)
	n := bezpath.Lerp(pl.normals[prev], pl.normals[next], frac)
	return bezpath.SafeNormalize(n, pl.normals[prev])
}

// RotationAtTime returns the orientation at time t, tangent forward and
// normal up.
func (pl *Polyline) RotationAtTime(t float64, eop EndOfPath) mgl64.Quat {
	prev, next, frac := pl.locate(t, eop)
	dir := bezpath.Lerp(pl.tangents[prev], pl.tangents[next], frac)
	norm := bezpath.Lerp(pl.normals[prev], pl.normals[next], frac)
	return bezpath.LookRotation(dir, norm)
}

// locate maps t through the end-of-path policy and finds the bracketing
// vertex pair by binary search, seeded near the proportional index.
func (pl *Polyline) locate(t float64, eop EndOfPath) (prev, next int, frac float64) {
	switch eop {
	case Loop:
		if t < 0 {
			t += math.Ceil(math.Abs(t))
		}
		t = math.Mod(t, 1)
	case Reverse:
		t = bezpath.PingPong(t, 1)
	default:
		t = bezpath.Clamp01(t)
	}

	if math.IsNaN(t) {
		t = 0
	}
	n := len(pl.times)
	prev = 0
	next = n - 1
	i := int(math.Round(t * float64(n-1)))
	if i < 0 {
		i = 0
	} else if i > n-1 {
		i = n - 1
	}
	for {
		if t <= pl.times[i] {
			next = i
		} else {
			prev = i
		}
		i = (next + prev) / 2
		if next-prev <= 1 {
			break
		}
	}
	frac = bezpath.InverseLerp(pl.times[prev], pl.times[next], t)
	return prev, next, frac
}
