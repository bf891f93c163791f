package spline

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"

	"github.com/bezpath/bezpath"
)

func TestAddAnchorAtEnd(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := New(mgl64.Vec3{}, bezpath.PlaneXY)
	p.AddAnchorAtEnd(mgl64.Vec3{6, 2, 0})
	if p.NumPoints() != 7 || p.NumSegments() != 2 || p.NumAnchors() != 3 {
		t.Errorf("expected 7 points / 2 segments / 3 anchors, got %d/%d/%d",
			p.NumPoints(), p.NumSegments(), p.NumAnchors())
	}
	if p.Anchor(2) != (mgl64.Vec3{6, 2, 0}) {
		t.Errorf("new last anchor = %v", p.Anchor(2))
	}
	// on a closed path the request is ignored
	p.SetClosed(true)
	n := p.NumPoints()
	p.AddAnchorAtEnd(mgl64.Vec3{9, 9, 0})
	if p.NumPoints() != n {
		t.Errorf("adding to a closed path should be a no-op")
	}
}

func TestAddAnchorAtStart(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := New(mgl64.Vec3{}, bezpath.PlaneXY)
	first := p.Anchor(0)
	p.AddAnchorAtStart(mgl64.Vec3{-6, 2, 0})
	if p.NumPoints() != 7 || p.NumSegments() != 2 {
		t.Errorf("expected 7 points / 2 segments, got %d/%d", p.NumPoints(), p.NumSegments())
	}
	if p.Anchor(0) != (mgl64.Vec3{-6, 2, 0}) {
		t.Errorf("new first anchor = %v", p.Anchor(0))
	}
	if p.Anchor(1) != first {
		t.Errorf("old first anchor moved to %v", p.Anchor(1))
	}
}

func TestInsertAnchorPreservesShape(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {6, 4, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.SetControlMode(ModeFree)
	orig := p.SegmentPoints(0)
	const ts = 0.4
	p.InsertAnchor(0, orig.Point(ts), ts)
	if p.NumSegments() != 2 || p.NumAnchors() != 3 {
		t.Fatalf("expected 2 segments / 3 anchors, got %d/%d", p.NumSegments(), p.NumAnchors())
	}
	// inserting at the on-curve point must not change the traced curve
	left := p.SegmentPoints(0)
	right := p.SegmentPoints(1)
	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		want := orig.Point(ts * u)
		if got := left.Point(u); !got.ApproxEqualThreshold(want, 1e-9) {
			t.Errorf("left.Point(%g) = %v, want %v", u, got, want)
		}
		want = orig.Point(ts + (1-ts)*u)
		if got := right.Point(u); !got.ApproxEqualThreshold(want, 1e-9) {
			t.Errorf("right.Point(%g) = %v, want %v", u, got, want)
		}
	}
}

func TestInsertAnchorIgnoresBadSegment(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p := New(mgl64.Vec3{}, bezpath.PlaneXY)
	n := p.NumPoints()
	p.InsertAnchor(5, mgl64.Vec3{1, 1, 0}, 0.5)
	p.InsertAnchor(-1, mgl64.Vec3{1, 1, 0}, 0.5)
	if p.NumPoints() != n {
		t.Errorf("out-of-range segment index must be ignored")
	}
}

func TestDeleteAnchor(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.DeleteAnchor(3)
	if p.NumAnchors() != 2 || p.NumSegments() != 1 || p.NumPoints() != 4 {
		t.Errorf("expected 2 anchors / 1 segment / 4 points, got %d/%d/%d",
			p.NumAnchors(), p.NumSegments(), p.NumPoints())
	}
	// at the minimum size further deletes are ignored
	p.DeleteAnchor(0)
	if p.NumAnchors() != 2 {
		t.Errorf("delete below 2 anchors must be a no-op")
	}
	// a control index is not a valid target
	p.DeleteAnchor(1)
	if p.NumPoints() != 4 {
		t.Errorf("deleting a control index must be a no-op")
	}
}

func TestDeleteAnchorOnClosedPath(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.SetClosed(true)
	p.DeleteAnchor(0)
	if p.NumAnchors() != 2 || p.NumSegments() != 2 {
		t.Errorf("expected 2 anchors / 2 segments, got %d/%d", p.NumAnchors(), p.NumSegments())
	}
	// a closed loop needs at least 2 segments
	p.DeleteAnchor(0)
	if p.NumAnchors() != 2 {
		t.Errorf("delete below 2 segments on a loop must be a no-op")
	}
}

func TestMovePointDragsControls(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.SetControlMode(ModeAligned)
	before2, before4 := p.Point(2), p.Point(4)
	delta := mgl64.Vec3{1, -2, 0}
	p.MovePoint(3, p.Point(3).Add(delta))
	if !p.Point(2).ApproxEqualThreshold(before2.Add(delta), 1e-9) ||
		!p.Point(4).ApproxEqualThreshold(before4.Add(delta), 1e-9) {
		t.Errorf("moving an anchor should drag both adjacent controls")
	}
}

func TestMoveControlAligned(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.SetControlMode(ModeAligned)
	anchor := p.Point(3)
	siblingDst := anchor.Sub(p.Point(4)).Len()
	p.MovePoint(2, mgl64.Vec3{3, 5, 0})
	// sibling stays collinear through the anchor at its own distance
	a := anchor.Sub(p.Point(2))
	b := p.Point(4).Sub(anchor)
	if a.Cross(b).Len() > 1e-9 || a.Dot(b) < 0 {
		t.Errorf("sibling control not collinear through the anchor")
	}
	if got := anchor.Sub(p.Point(4)).Len(); !almostEq(got, siblingDst, 1e-9) {
		t.Errorf("sibling distance changed from %g to %g", siblingDst, got)
	}
}

func TestMoveControlMirrored(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	p.SetControlMode(ModeMirrored)
	anchor := p.Point(3)
	p.MovePoint(2, mgl64.Vec3{3, 5, 0})
	dstMoved := anchor.Sub(p.Point(2)).Len()
	dstSibling := anchor.Sub(p.Point(4)).Len()
	if !almostEq(dstMoved, dstSibling, 1e-9) {
		t.Errorf("mirrored controls should be equidistant: %g vs %g", dstMoved, dstSibling)
	}
}

func TestMoveControlIgnoredInAutomaticMode(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	p, err := FromAnchors([]mgl64.Vec3{{0, 0, 0}, {5, 3, 0}, {10, 0, 0}}, bezpath.PlaneXY)
	require.NoError(t, err)
	before := p.Point(1)
	p.MovePoint(1, mgl64.Vec3{99, 99, 0})
	if p.Point(1) != before {
		t.Errorf("controls are derived in automatic mode, move must be ignored")
	}
	// moving an anchor re-derives the controls around it
	before = p.Point(2)
	p.MovePoint(3, mgl64.Vec3{5, 6, 0})
	if p.Point(2) == before {
		t.Errorf("moving an anchor should re-derive neighboring controls")
	}
}

func almostEq(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}
