package cubic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func testcurve() Curve {
	return Curve{
		P0: mgl64.Vec3{0, 0, 0},
		P1: mgl64.Vec3{1, 2, 0},
		P2: mgl64.Vec3{3, 2, 1},
		P3: mgl64.Vec3{4, 0, 0},
	}
}

func approx(a, b mgl64.Vec3, eps float64) bool {
	return a.ApproxEqualThreshold(b, eps)
}

func TestEndpoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := testcurve()
	if c.Point(0) != c.P0 {
		t.Errorf("Point(0) = %v, want first anchor %v", c.Point(0), c.P0)
	}
	if c.Point(1) != c.P3 {
		t.Errorf("Point(1) = %v, want last anchor %v", c.Point(1), c.P3)
	}
	// out-of-range parameters clamp, never reject
	if c.Point(-2) != c.P0 || c.Point(5) != c.P3 {
		t.Errorf("Expected out-of-range t to clamp to the endpoints")
	}
}

func TestVelocityMatchesFiniteDifference(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := testcurve()
	h := 1e-6
	for _, tt := range []float64{0.2, 0.5, 0.8} {
		fd := c.Point(tt + h).Sub(c.Point(tt - h)).Mul(1 / (2 * h))
		if !approx(fd, c.Velocity(tt), 1e-4) {
			t.Errorf("Velocity(%g) = %v, finite difference %v", tt, c.Velocity(tt), fd)
		}
	}
}

func TestSplitRejoin(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := testcurve()
	for _, ts := range []float64{0.25, 0.5, 0.8} {
		left, right := c.Split(ts)
		for _, u := range []float64{0, 0.3, 0.7, 1} {
			want := c.Point(ts * u)
			if got := left.Point(u); !approx(got, want, 1e-5) {
				t.Errorf("left.Point(%g) = %v, want %v", u, got, want)
			}
			want = c.Point(ts + (1-ts)*u)
			if got := right.Point(u); !approx(got, want, 1e-5) {
				t.Errorf("right.Point(%g) = %v, want %v", u, got, want)
			}
		}
		if left.P3 != right.P0 {
			t.Errorf("Split halves do not share the split point")
		}
	}
}

func TestNormalDegeneratesOnStraightSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	straight := Curve{
		P0: mgl64.Vec3{0, 0, 0},
		P1: mgl64.Vec3{1, 0, 0},
		P2: mgl64.Vec3{2, 0, 0},
		P3: mgl64.Vec3{3, 0, 0},
	}
	if n := straight.Normal(0.5); n != (mgl64.Vec3{}) {
		t.Errorf("Expected zero normal on a straight segment, got %v", n)
	}
	c := testcurve()
	n := c.Normal(0.5)
	if math.Abs(n.Len()-1) > 1e-9 {
		t.Errorf("Expected unit normal, length is %g", n.Len())
	}
	if math.Abs(n.Dot(c.Tangent(0.5))) > 1e-9 {
		t.Errorf("Normal not perpendicular to tangent")
	}
}

func TestEstimateLength(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// straight chain of collinear points: estimate is 1.5x the chord
	straight := Curve{
		P0: mgl64.Vec3{0, 0, 0},
		P1: mgl64.Vec3{1, 0, 0},
		P2: mgl64.Vec3{2, 0, 0},
		P3: mgl64.Vec3{3, 0, 0},
	}
	if got := straight.EstimateLength(); math.Abs(got-4.5) > 1e-9 {
		t.Errorf("EstimateLength = %g, want 4.5", got)
	}
}

func TestBoundsCoverCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := testcurve()
	min, max := c.Bounds()
	for i := 0; i <= 100; i++ {
		p := c.Point(float64(i) / 100)
		for axis := 0; axis < 3; axis++ {
			if p[axis] < min[axis]-1e-9 || p[axis] > max[axis]+1e-9 {
				t.Fatalf("Point %v escapes bounds [%v,%v]", p, min, max)
			}
		}
	}
	// the y-extremum lies strictly inside the control hull, so the
	// box must be tighter than the hull in y
	if max[1] >= 2 {
		t.Errorf("Bounds not tight: max.y = %g, control hull reaches 2", max[1])
	}
}

func TestExtremaOfSymmetricArch(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	arch := Curve{
		P0: mgl64.Vec3{0, 0, 0},
		P1: mgl64.Vec3{0, 1, 0},
		P2: mgl64.Vec3{1, 1, 0},
		P3: mgl64.Vec3{1, 0, 0},
	}
	ex := arch.Extrema()
	found := false
	for _, tt := range ex {
		if math.Abs(tt-0.5) < 1e-9 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected y-extremum at t=0.5, extrema are %v", ex)
	}
}
