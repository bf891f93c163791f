package bezpath

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNumericBasic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := 0.000000008
	if !Is0(a) {
		t.Errorf("Expected a to be zero, is not")
	}
	if Zap(a) != 0 {
		t.Errorf("Expected Zap(a) to be 0, is %g", Zap(a))
	}
}

func TestAngles(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	x := mgl64.Vec3{1, 0, 0}
	y := mgl64.Vec3{0, 1, 0}
	z := mgl64.Vec3{0, 0, 1}
	if a := Angle(x, y); math.Abs(a-90) > 1e-9 {
		t.Errorf("Expected angle x/y to be 90, is %g", a)
	}
	if a := SignedAngle(x, y, z); math.Abs(a-90) > 1e-9 {
		t.Errorf("Expected signed angle to be +90, is %g", a)
	}
	if a := SignedAngle(y, x, z); math.Abs(a+90) > 1e-9 {
		t.Errorf("Expected signed angle to be -90, is %g", a)
	}
	if a := DeltaAngle(350, 10); math.Abs(a-20) > 1e-9 {
		t.Errorf("Expected delta 350..10 to be 20, is %g", a)
	}
	if a := WrapAngle(-30); math.Abs(a-330) > 1e-9 {
		t.Errorf("Expected wrap of -30 to be 330, is %g", a)
	}
}

func TestPingPong(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	cases := [][2]float64{{0.25, 0.25}, {1.25, 0.75}, {2.25, 0.25}, {-0.25, 0.25}}
	for _, c := range cases {
		if got := PingPong(c[0], 1); math.Abs(got-c[1]) > 1e-9 {
			t.Errorf("PingPong(%g,1) = %g, want %g", c[0], got, c[1])
		}
	}
}

func TestSpaceProjection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	v := mgl64.Vec3{1, 2, 3}
	if got := PlaneXY.Project(v); got != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("PlaneXY projection wrong: %v", got)
	}
	if got := PlaneXZ.Project(v); got != (mgl64.Vec3{1, 0, 3}) {
		t.Errorf("PlaneXZ projection wrong: %v", got)
	}
	if got := FullyFree3D.Project(v); got != v {
		t.Errorf("FullyFree3D projection must be a no-op, got %v", got)
	}
	if got := PlaneXZ.Flatten(v); got != (mgl64.Vec2{1, 3}) {
		t.Errorf("PlaneXZ flatten wrong: %v", got)
	}
}

func TestRotateAround(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	v := RotateAround(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}, 90)
	if !v.ApproxEqualThreshold(mgl64.Vec3{0, 1, 0}, 1e-9) {
		t.Errorf("Expected rotation of x around z to give y, got %v", v)
	}
	// rotation around a zero axis must be ignored
	v = RotateAround(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, 90)
	if v != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Expected zero-axis rotation to return input, got %v", v)
	}
}

func TestLookRotation(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	fwd := mgl64.Vec3{0, 0, 1}
	up := mgl64.Vec3{0, 1, 0}
	q := LookRotation(fwd, up)
	if got := q.Rotate(mgl64.Vec3{0, 0, 1}); !got.ApproxEqualThreshold(fwd, 1e-9) {
		t.Errorf("Expected identity look rotation, forward maps to %v", got)
	}
	fwd = mgl64.Vec3{1, 0, 0}
	q = LookRotation(fwd, up)
	if got := q.Rotate(mgl64.Vec3{0, 0, 1}); !got.ApproxEqualThreshold(fwd, 1e-9) {
		t.Errorf("Expected forward to map onto +x, got %v", got)
	}
	if got := q.Rotate(mgl64.Vec3{0, 1, 0}); !got.ApproxEqualThreshold(up, 1e-9) {
		t.Errorf("Expected up to stay +y, got %v", got)
	}
}

func TestTransformApply(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := IdentityTransform()
	p := mgl64.Vec3{1, 2, 3}
	if got := tr.Apply(p); !got.ApproxEqualThreshold(p, 1e-12) {
		t.Errorf("Identity transform moved point to %v", got)
	}
	tr.Position = mgl64.Vec3{0, 0, 5}
	tr.Scale = mgl64.Vec3{2, 2, 2}
	got := tr.Apply(mgl64.Vec3{1, 0, 0})
	if !got.ApproxEqualThreshold(mgl64.Vec3{2, 0, 5}, 1e-12) {
		t.Errorf("Expected (2,0,5), got %v", got)
	}
	// zero scale must be floored, not collapse the axis to NaN territory
	tr.Scale = mgl64.Vec3{0, 1, 1}
	got = tr.Apply(mgl64.Vec3{1, 0, 0})
	if math.IsNaN(got[0]) || got[0] < 0 {
		t.Errorf("Zero scale not floored: %v", got)
	}
}

func TestTransformConstrain(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := IdentityTransform()
	tr.Position = mgl64.Vec3{1, 2, 3}
	tr.Rotation = mgl64.QuatRotate(0.5, mgl64.Vec3{1, 0, 0}) // off-plane rotation
	tr.Scale = mgl64.Vec3{2, 3, 4}
	c := tr.Constrain(PlaneXY)
	if c.Position[2] != 0 {
		t.Errorf("Constrained position keeps z: %v", c.Position)
	}
	if c.Scale[2] != 1 {
		t.Errorf("Constrained scale keeps z factor: %v", c.Scale)
	}
	// the rotation about x has no twist about the plane normal z
	if got := c.Rotation.Rotate(mgl64.Vec3{1, 0, 0}); !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-9) {
		t.Errorf("Expected x-rotation to be dropped in PlaneXY, x maps to %v", got)
	}
	// a rotation about z survives unchanged
	tr.Rotation = mgl64.QuatRotate(0.5, mgl64.Vec3{0, 0, 1})
	c = tr.Constrain(PlaneXY)
	want := tr.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	if got := c.Rotation.Rotate(mgl64.Vec3{1, 0, 0}); !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Expected z-rotation to survive, got %v want %v", got, want)
	}
}
