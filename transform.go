package bezpath

import "github.com/go-gl/mathgl/mgl64"

// === Similarity Transforms =================================================

// Transform places a path's local points in world space. Points are
// scaled and rotated around Pivot, then translated by Position.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
	Pivot    mgl64.Vec3
}

// IdentityTransform maps every point onto itself.
func IdentityTransform() Transform {
	return Transform{
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// SafeScale returns the scale with zero components floored to Epsilon,
// so that the transform never collapses an axis completely.
func (tr Transform) SafeScale() mgl64.Vec3 {
	s := tr.Scale
	for i := 0; i < 3; i++ {
		if Is0(s[i]) {
			s[i] = Epsilon
		}
	}
	return s
}

// Apply maps a local point to world space.
func (tr Transform) Apply(p mgl64.Vec3) mgl64.Vec3 {
	v := CompMul(p.Sub(tr.Pivot), tr.SafeScale())
	return tr.Rotation.Rotate(v).Add(tr.Pivot).Add(tr.Position)
}

// ApplyToDirection rotates a direction vector. Translation and scale do
// not apply to directions.
func (tr Transform) ApplyToDirection(d mgl64.Vec3) mgl64.Vec3 {
	return tr.Rotation.Rotate(d)
}

// Constrain reduces the transform to the degrees of freedom of the
// given space: in-plane translation and pivot, per-plane-axis scale,
// and rotation about the plane normal only (the twist component of the
// swing-twist decomposition). For FullyFree3D the transform is returned
// unchanged.
func (tr Transform) Constrain(s Space) Transform {
	if !s.IsPlanar() {
		return tr
	}
	out := tr
	out.Position = s.Project(tr.Position)
	out.Pivot = s.Project(tr.Pivot)
	if dropped := s.DroppedAxis(); dropped >= 0 {
		out.Scale[dropped] = 1
	}
	axis := s.RotationAxis()
	proj := axis.Mul(tr.Rotation.V.Dot(axis))
	twist := mgl64.Quat{W: tr.Rotation.W, V: proj}
	if Is0(twist.Len()) {
		// rotation was a pure 180° swing, nothing of it survives
		out.Rotation = mgl64.QuatIdent()
	} else {
		out.Rotation = twist.Normalize()
	}
	return out
}
