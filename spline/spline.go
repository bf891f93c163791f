/*
Package spline implements editable cubic bezier paths and their sampled
polyline form.

A Path owns an ordered, mutable sequence of on-curve anchor points and
off-curve control points: every third point is an anchor, the two
points between are the controls shaping the curve segment joining the
surrounding anchors. An open path of N anchors stores 3(N-1)+1 points;
closing the path adds two bridging control points for a total of 3N.

Editing operations (adding, inserting, deleting and moving points)
respect the active control mode. In Aligned and Mirrored mode a moved
control drags its sibling to keep the joint smooth; in Automatic mode
all controls are derived from anchor geometry and cannot be placed by
hand. The path favors silent clamping and no-ops over errors, as it is
meant to sit under an interactive editor: structural requests that
would break its invariants are traced and ignored.

A Polyline is the immutable sampled form of a Path: vertices with unit
tangents, twist-minimized unit normals, cumulative arc length and
normalized time, queryable by distance or time with a configurable
end-of-path policy.
*/
package spline

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"

	"github.com/bezpath/bezpath"
	"github.com/bezpath/bezpath/cubic"
)

// tracer writes to trace with key 'spline'
func tracer() tracing.Trace {
	return tracing.Select("spline")
}

var (
	// ErrTooFewAnchors indicates a path was built from fewer than 2 anchors.
	ErrTooFewAnchors = errors.New("path needs at least 2 anchor points")
	// ErrInvalidAnchor indicates an anchor coordinate contains NaN/Inf.
	ErrInvalidAnchor = errors.New("path has invalid anchor coordinate")
)

// ControlMode governs how moving one point propagates to its
// neighboring control points.
type ControlMode uint8

// Control mode constants.
const (
	// ModeAligned keeps a control and its sibling collinear through the
	// anchor, each preserving its own distance from the anchor.
	ModeAligned ControlMode = iota
	// ModeMirrored keeps sibling controls collinear and equidistant.
	ModeMirrored
	// ModeFree leaves every control where the caller put it.
	ModeFree
	// ModeAutomatic derives all control points from anchor geometry;
	// controls are not directly settable in this mode.
	ModeAutomatic
)

// String returns a human-readable name of the control mode.
func (m ControlMode) String() string {
	switch m {
	case ModeAligned:
		return "aligned"
	case ModeMirrored:
		return "mirrored"
	case ModeFree:
		return "free"
	case ModeAutomatic:
		return "automatic"
	}
	return "<invalid mode>"
}

// DefaultAutoControlLength scales automatic control offsets relative to
// the distance between neighboring anchors.
const DefaultAutoControlLength = 0.3

// Path is a mutable sequence of anchor and control points forming one
// or more stitched cubic bezier segments.
type Path struct {
	points       []mgl64.Vec3
	closed       bool
	space        bezpath.Space
	mode         ControlMode
	autoCtrlLen  float64
	anchorAngles []float64 // one twist angle per anchor, degrees in [0,360)
	globalAngle  float64
	flipNormals  bool
	transform    bezpath.Transform

	boundsMin, boundsMax mgl64.Vec3
	boundsOK             bool

	version   uint64
	observers []func()
}

// New creates a path of two anchors straddling centre, with gently
// sloped control points, in Aligned mode.
func New(centre mgl64.Vec3, space bezpath.Space) *Path {
	dir := mgl64.Vec3{0, 1, 0}
	if space == bezpath.PlaneXZ {
		dir = mgl64.Vec3{0, 0, 1}
	}
	const width, ctrlWidth, ctrlHeight = 2.0, 1.0, 0.5
	p := &Path{
		space:       space,
		mode:        ModeAligned,
		autoCtrlLen: DefaultAutoControlLength,
		transform:   bezpath.IdentityTransform(),
		points: []mgl64.Vec3{
			centre.Add(mgl64.Vec3{-width, 0, 0}),
			centre.Add(mgl64.Vec3{-ctrlWidth, 0, 0}).Add(dir.Mul(ctrlHeight)),
			centre.Add(mgl64.Vec3{ctrlWidth, 0, 0}).Sub(dir.Mul(ctrlHeight)),
			centre.Add(mgl64.Vec3{width, 0, 0}),
		},
		anchorAngles: []float64{0, 0},
	}
	for i := range p.points {
		p.points[i] = space.Project(p.points[i])
	}
	return p
}

// FromAnchors builds a path through the given anchor positions, placing
// control points automatically. It reports ErrTooFewAnchors for fewer
// than two anchors and ErrInvalidAnchor for non-finite coordinates.
func FromAnchors(anchors []mgl64.Vec3, space bezpath.Space) (*Path, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAnchors, len(anchors))
	}
	for i, a := range anchors {
		for axis := 0; axis < 3; axis++ {
			if math.IsNaN(a[axis]) || math.IsInf(a[axis], 0) {
				return nil, fmt.Errorf("%w at anchor %d", ErrInvalidAnchor, i)
			}
		}
	}
	p := &Path{
		space:       space,
		mode:        ModeAutomatic,
		autoCtrlLen: DefaultAutoControlLength,
		transform:   bezpath.IdentityTransform(),
	}
	p.points = append(p.points, space.Project(anchors[0]))
	p.anchorAngles = append(p.anchorAngles, 0)
	for _, a := range anchors[1:] {
		a = space.Project(a)
		p.points = append(p.points, mgl64.Vec3{}, mgl64.Vec3{}, a)
		p.anchorAngles = append(p.anchorAngles, 0)
	}
	p.autoSetAllControlPoints()
	return p, nil
}

// === Accessors =============================================================

// NumPoints is the total number of stored points, anchors and controls.
func (p *Path) NumPoints() int {
	return len(p.points)
}

// NumAnchors is the number of on-curve anchor points.
func (p *Path) NumAnchors() int {
	if p.closed {
		return len(p.points) / 3
	}
	return len(p.points)/3 + 1
}

// NumSegments is the number of cubic segments in the path.
func (p *Path) NumSegments() int {
	return len(p.points) / 3
}

// Point returns the point at index i (anchors at multiples of 3).
func (p *Path) Point(i int) mgl64.Vec3 {
	return p.points[p.LoopIndex(i)]
}

// Anchor returns the position of the anchor with the given anchor index.
func (p *Path) Anchor(anchorIndex int) mgl64.Vec3 {
	return p.points[p.LoopIndex(anchorIndex*3)]
}

// Points returns a copy of the full point sequence.
func (p *Path) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(p.points))
	copy(out, p.points)
	return out
}

// SegmentPoints returns segment segIndex as a cubic curve. For a closed
// path the last segment bridges back to the first anchor.
func (p *Path) SegmentPoints(segIndex int) cubic.Curve {
	i := segIndex * 3
	return cubic.Curve{
		P0: p.points[p.LoopIndex(i)],
		P1: p.points[p.LoopIndex(i+1)],
		P2: p.points[p.LoopIndex(i+2)],
		P3: p.points[p.LoopIndex(i+3)],
	}
}

// LoopIndex wraps a point index into range, so that closed-loop seams
// need no special casing at call sites.
func (p *Path) LoopIndex(i int) int {
	n := len(p.points)
	return ((i % n) + n) % n
}

// IsClosed is a predicate: does the last anchor join back to the first?
func (p *Path) IsClosed() bool {
	return p.closed
}

// Space returns the coordinate space the path is confined to.
func (p *Path) Space() bezpath.Space {
	return p.space
}

// Mode returns the active control mode.
func (p *Path) Mode() ControlMode {
	return p.mode
}

// AutoControlLength is the scale factor for automatic control offsets.
func (p *Path) AutoControlLength() float64 {
	return p.autoCtrlLen
}

// AnchorAngle returns the twist override of an anchor, degrees.
func (p *Path) AnchorAngle(anchorIndex int) float64 {
	return p.anchorAngles[anchorIndex]
}

// GlobalAngle is the twist added to every anchor angle, degrees.
func (p *Path) GlobalAngle() float64 {
	return p.globalAngle
}

// FlipNormals reports whether planar normals are inverted.
func (p *Path) FlipNormals() bool {
	return p.flipNormals
}

// Transform returns the similarity transform placing the path in world
// space.
func (p *Path) Transform() bezpath.Transform {
	return p.transform
}

// Version is a change counter; it increments on every mutation and is
// meant for cache invalidation by sampling consumers.
func (p *Path) Version() uint64 {
	return p.version
}

// OnChange registers a callback invoked after every mutation. Callers
// that re-sample on demand should prefer polling Version instead.
func (p *Path) OnChange(fn func()) {
	p.observers = append(p.observers, fn)
}

func (p *Path) notify() {
	p.version++
	p.boundsOK = false
	for _, fn := range p.observers {
		fn()
	}
}

// === Setters ===============================================================

// SetClosed joins or disconnects the last anchor and the first. Closing
// appends two bridging control points; opening removes them.
func (p *Path) SetClosed(closed bool) {
	if p.closed == closed {
		return
	}
	p.closed = closed
	if closed {
		last := len(p.points) - 1
		// mirror the bridging controls around their anchors
		lastAnchorCtrl := p.points[last].Mul(2).Sub(p.points[last-1])
		firstAnchorCtrl := p.points[0].Mul(2).Sub(p.points[1])
		if p.mode != ModeMirrored && p.mode != ModeAutomatic {
			// align with the existing controls at half the distance
			// between the two end anchors
			dstEnds := p.points[last].Sub(p.points[0]).Len()
			lastDir := bezpath.SafeNormalize(p.points[last].Sub(p.points[last-1]), mgl64.Vec3{})
			firstDir := bezpath.SafeNormalize(p.points[0].Sub(p.points[1]), mgl64.Vec3{})
			lastAnchorCtrl = p.points[last].Add(lastDir.Mul(dstEnds * 0.5))
			firstAnchorCtrl = p.points[0].Add(firstDir.Mul(dstEnds * 0.5))
		}
		p.points = append(p.points, lastAnchorCtrl, firstAnchorCtrl)
	} else {
		p.points = p.points[:len(p.points)-2]
	}
	if p.mode == ModeAutomatic {
		p.autoSetStartAndEndControls()
	}
	p.notify()
}

// SetSpace re-projects every point into a new coordinate space. Leaving
// full 3D drops the one axis with the smallest bounding extent; this is
// a lossy projection and cannot be undone by switching back. Switching
// between the two planes carries the in-plane coordinate across.
func (p *Path) SetSpace(space bezpath.Space) {
	if space == p.space {
		return
	}
	prev := p.space
	p.space = space
	switch {
	case prev == bezpath.FullyFree3D && space.IsPlanar():
		min, max := p.Bounds()
		size := max.Sub(min)
		drop := 0
		for i := 1; i < 3; i++ {
			if size[i] < size[drop] {
				drop = i
			}
		}
		tracer().Debugf("projecting path from %s to %s, dropping axis %d (extent %g)", prev, space, drop, size[drop])
		for i := range p.points {
			pt := p.points[i]
			if space == bezpath.PlaneXY {
				x, y := pt[0], pt[1]
				if drop == 0 {
					x = pt[2]
				}
				if drop == 1 {
					y = pt[2]
				}
				p.points[i] = mgl64.Vec3{x, y, 0}
			} else {
				x, z := pt[0], pt[2]
				if drop == 0 {
					x = pt[1]
				}
				if drop == 2 {
					z = pt[1]
				}
				p.points[i] = mgl64.Vec3{x, 0, z}
			}
		}
	case prev.IsPlanar() && space.IsPlanar():
		// both planes share the x axis, the in-plane coordinate moves
		// onto the other plane's axis
		for i := range p.points {
			p.points[i] = swapYZ(p.points[i])
		}
		p.transform.Position = swapYZ(p.transform.Position)
		p.transform.Pivot = swapYZ(p.transform.Pivot)
		p.transform.Scale = swapYZ(p.transform.Scale)
		// conjugate the rotation by the axis swap
		p.transform.Rotation = mgl64.Quat{
			W: p.transform.Rotation.W,
			V: swapYZ(p.transform.Rotation.V).Mul(-1),
		}
	default:
		// previously dropped coordinates stay 0, no information returns
		for i := range p.points {
			p.points[i] = space.Project(p.points[i])
		}
	}
	p.transform = p.transform.Constrain(space)
	p.notify()
}

func swapYZ(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[2], v[1]}
}

// SetControlMode switches the control mode. Switching to Automatic
// recomputes every control point; switching away keeps the current
// positions as explicit overrides.
func (p *Path) SetControlMode(mode ControlMode) {
	if p.mode == mode {
		return
	}
	p.mode = mode
	if mode == ModeAutomatic {
		p.autoSetAllControlPoints()
	}
	p.notify()
}

// SetAutoControlLength sets the automatic control offset scale,
// floored to 0.01.
func (p *Path) SetAutoControlLength(length float64) {
	length = math.Max(length, 0.01)
	if length == p.autoCtrlLen {
		return
	}
	p.autoCtrlLen = length
	p.autoSetAllControlPoints()
	p.notify()
}

// SetAnchorAngle sets the twist override of one anchor, wrapped to
// [0,360). Twist is meaningful only in the free 3D space.
func (p *Path) SetAnchorAngle(anchorIndex int, degrees float64) {
	if anchorIndex < 0 || anchorIndex >= len(p.anchorAngles) {
		tracer().Debugf("anchor angle index %d out of range, ignored", anchorIndex)
		return
	}
	p.anchorAngles[anchorIndex] = bezpath.WrapAngle(degrees)
	p.notify()
}

// SetGlobalAngle sets the twist added to every anchor angle.
func (p *Path) SetGlobalAngle(degrees float64) {
	p.globalAngle = degrees
	p.notify()
}

// SetFlipNormals inverts the sign of computed planar normals.
func (p *Path) SetFlipNormals(flip bool) {
	if p.flipNormals == flip {
		return
	}
	p.flipNormals = flip
	p.notify()
}

// SetTransform replaces the path's similarity transform, constrained to
// the degrees of freedom of the active space.
func (p *Path) SetTransform(tr bezpath.Transform) {
	p.transform = tr.Constrain(p.space)
	p.notify()
}

// === Debugging =============================================================

// AsString renders the path as a MetaPost-flavored expression, one
// segment per ".. controls .. and .." join.
func (p *Path) AsString() string {
	var sb strings.Builder
	for seg := 0; seg < p.NumSegments(); seg++ {
		c := p.SegmentPoints(seg)
		if seg == 0 {
			sb.WriteString(vstring(c.P0))
		}
		fmt.Fprintf(&sb, " .. controls %s and %s\n  .. ", vstring(c.P1), vstring(c.P2))
		if p.closed && seg == p.NumSegments()-1 {
			sb.WriteString("cycle")
		} else {
			sb.WriteString(vstring(c.P3))
		}
	}
	return sb.String()
}

func vstring(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", bezpath.Zap(v[0]), bezpath.Zap(v[1]), bezpath.Zap(v[2]))
}
