package bezpath

import "github.com/go-gl/mathgl/mgl64"

// Space constrains path geometry to an embedding. Planar spaces force
// the disabled coordinate of every stored point to zero; FullyFree3D
// leaves points untouched.
type Space uint8

// Space constants.
const (
	FullyFree3D Space = iota
	PlaneXY
	PlaneXZ
)

// String returns a human-readable name of the space.
func (s Space) String() string {
	switch s {
	case FullyFree3D:
		return "xyz"
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	}
	return "<invalid space>"
}

// IsPlanar is a predicate: is this a 2D embedding?
func (s Space) IsPlanar() bool {
	return s == PlaneXY || s == PlaneXZ
}

// Project forces the disabled coordinate of v to 0. This is the single
// place where plane masking happens; every mutation boundary goes
// through it.
func (s Space) Project(v mgl64.Vec3) mgl64.Vec3 {
	switch s {
	case PlaneXY:
		v[2] = 0
	case PlaneXZ:
		v[1] = 0
	}
	return v
}

// DroppedAxis is the coordinate index zeroed by Project, or -1 for the
// free 3D space.
func (s Space) DroppedAxis() int {
	switch s {
	case PlaneXY:
		return 2
	case PlaneXZ:
		return 1
	}
	return -1
}

// RotationAxis is the single axis a planar path may rotate around
// (the plane normal). For the free 3D space any axis is allowed and
// the zero vector is returned.
func (s Space) RotationAxis() mgl64.Vec3 {
	switch s {
	case PlaneXY:
		return mgl64.Vec3{0, 0, 1}
	case PlaneXZ:
		return mgl64.Vec3{0, 1, 0}
	}
	return mgl64.Vec3{}
}

// Up is the reference vector used to derive in-plane normals from
// tangents of a planar path.
func (s Space) Up() mgl64.Vec3 {
	switch s {
	case PlaneXY:
		return mgl64.Vec3{0, 0, -1}
	case PlaneXZ:
		return mgl64.Vec3{0, 1, 0}
	}
	return mgl64.Vec3{}
}

// Flatten drops the plane's disabled coordinate, yielding the 2D image
// of a point in this plane. Meaningful only for planar spaces.
func (s Space) Flatten(v mgl64.Vec3) mgl64.Vec2 {
	if s == PlaneXZ {
		return mgl64.Vec2{v[0], v[2]}
	}
	return mgl64.Vec2{v[0], v[1]}
}
