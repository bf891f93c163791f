/*
Package polygon implements planar polygons as consumers of closed
sampled paths. A closed path confined to a coordinate plane flattens to
a polygon; polygons support area and orientation queries and boolean
set operations (union, intersection, difference, xor), the latter
provided by polyclip-go.
*/
package polygon

import (
	"errors"
	"fmt"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing"

	"github.com/bezpath/bezpath"
	"github.com/bezpath/bezpath/spline"
)

// L writes to trace with key 'polygon'
func L() tracing.Trace {
	return tracing.Select("polygon")
}

var (
	// ErrNotClosed indicates a polyline that is not a closed loop.
	ErrNotClosed = errors.New("polyline is not a closed loop")
	// ErrNotPlanar indicates a polyline in the free 3D space.
	ErrNotPlanar = errors.New("polyline is not confined to a plane")
)

// Polygon is a closed polygon in a coordinate plane. Build one with
// the builder calls, with Box, or flatten a closed planar path with
// FromPolyline.
type Polygon struct {
	knots []mgl64.Vec2
	cycle bool
}

// NullPolygon creates an empty polygon, to be extended by subsequent
// builder calls and completed with Cycle.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a corner point. Part of builder functionality.
func (pg *Polygon) Knot(p mgl64.Vec2) *Polygon {
	pg.knots = append(pg.knots, p)
	return pg
}

// Cycle closes the polygon. Part of builder functionality.
func (pg *Polygon) Cycle() *Polygon {
	pg.cycle = true
	return pg
}

// Box creates a rectangle from two opposite corner points.
func Box(a, b mgl64.Vec2) *Polygon {
	return NullPolygon().
		Knot(a).
		Knot(mgl64.Vec2{b[0], a[1]}).
		Knot(b).
		Knot(mgl64.Vec2{a[0], b[1]}).
		Cycle()
}

// FromPolyline flattens a closed planar polyline into a polygon, one
// knot per path vertex. It reports ErrNotClosed for open paths and
// ErrNotPlanar for paths in the free 3D space.
func FromPolyline(pl *spline.Polyline) (*Polygon, error) {
	if !pl.Space().IsPlanar() {
		return nil, fmt.Errorf("%w: space is %s", ErrNotPlanar, pl.Space())
	}
	if !pl.IsClosed() {
		return nil, ErrNotClosed
	}
	pg := NullPolygon()
	for i := 0; i < pl.NumVertices(); i++ {
		pg.Knot(pl.Space().Flatten(pl.Vertex(i)))
	}
	return pg.Cycle(), nil
}

// N returns the number of corner points.
func (pg *Polygon) N() int {
	return len(pg.knots)
}

// Z returns the knot at position (i mod N).
func (pg *Polygon) Z(i int) mgl64.Vec2 {
	n := len(pg.knots)
	return pg.knots[((i%n)+n)%n]
}

// IsCycle is a predicate: has the polygon been closed?
func (pg *Polygon) IsCycle() bool {
	return pg.cycle
}

// Area returns the signed area (shoelace formula); positive for
// counterclockwise winding.
func (pg *Polygon) Area() float64 {
	if len(pg.knots) < 3 {
		return 0
	}
	sum := 0.0
	for i := range pg.knots {
		a := pg.Z(i)
		b := pg.Z(i + 1)
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

// IsCCW is a predicate: does the polygon wind counterclockwise?
func (pg *Polygon) IsCCW() bool {
	return pg.Area() > 0
}

// BoundingBox returns the min and max corners of the polygon.
func (pg *Polygon) BoundingBox() (min, max mgl64.Vec2) {
	if len(pg.knots) == 0 {
		return min, max
	}
	min, max = pg.knots[0], pg.knots[0]
	for _, k := range pg.knots[1:] {
		for i := 0; i < 2; i++ {
			if k[i] < min[i] {
				min[i] = k[i]
			}
			if k[i] > max[i] {
				max[i] = k[i]
			}
		}
	}
	return min, max
}

// Union returns the boolean union with another polygon, one result
// polygon per output contour.
func (pg *Polygon) Union(other *Polygon) []*Polygon {
	return pg.construct(polyclip.UNION, other)
}

// Intersect returns the boolean intersection with another polygon.
func (pg *Polygon) Intersect(other *Polygon) []*Polygon {
	return pg.construct(polyclip.INTERSECTION, other)
}

// Subtract returns the boolean difference with another polygon.
func (pg *Polygon) Subtract(other *Polygon) []*Polygon {
	return pg.construct(polyclip.DIFFERENCE, other)
}

// Xor returns the symmetric difference with another polygon.
func (pg *Polygon) Xor(other *Polygon) []*Polygon {
	return pg.construct(polyclip.XOR, other)
}

func (pg *Polygon) construct(op polyclip.Op, other *Polygon) []*Polygon {
	result := pg.clip().Construct(op, other.clip())
	L().Debugf("clip op yields %d contour(s)", len(result))
	out := make([]*Polygon, 0, len(result))
	for _, contour := range result {
		r := NullPolygon()
		for _, pt := range contour {
			r.Knot(mgl64.Vec2{pt.X, pt.Y})
		}
		out = append(out, r.Cycle())
	}
	return out
}

func (pg *Polygon) clip() polyclip.Polygon {
	contour := make(polyclip.Contour, 0, len(pg.knots))
	for _, k := range pg.knots {
		contour = append(contour, polyclip.Point{X: k[0], Y: k[1]})
	}
	return polyclip.Polygon{contour}
}

// AsString returns a polygon as a (debugging) string, one line per
// polygon.
func AsString(pg *Polygon) string {
	var sb strings.Builder
	for i, k := range pg.knots {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		fmt.Fprintf(&sb, "(%.4g,%.4g)", bezpath.Zap(k[0]), bezpath.Zap(k[1]))
	}
	if pg.cycle {
		sb.WriteString(" -- cycle")
	}
	return sb.String()
}
