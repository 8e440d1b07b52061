package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrTransformCycle = errors.New("transform parent would create a cycle")

// Transform is a node in a pose hierarchy. Position, rotation and scale are
// stored relative to the parent; a nil parent means world space.
type Transform struct {
	name     string
	position mgl64.Vec3
	rotation mgl64.Quat
	scale    mgl64.Vec3
	parent   *Transform
	active   bool
}

// NewTransform creates an active world-space transform at the origin.
func NewTransform(name string) *Transform {
	return &Transform{
		name:     name,
		rotation: mgl64.QuatIdent(),
		scale:    Splat(1),
		active:   true,
	}
}

func (t *Transform) Name() string          { return t.name }
func (t *Transform) Parent() *Transform    { return t.parent }
func (t *Transform) Active() bool          { return t.active }
func (t *Transform) SetActive(active bool) { t.active = active }

func (t *Transform) LocalPosition() mgl64.Vec3 { return t.position }
func (t *Transform) LocalRotation() mgl64.Quat { return t.rotation }
func (t *Transform) LocalScale() mgl64.Vec3    { return t.scale }

func (t *Transform) SetLocalPosition(p mgl64.Vec3) { t.position = p }
func (t *Transform) SetLocalRotation(q mgl64.Quat) { t.rotation = q.Normalize() }
func (t *Transform) SetLocalScale(s mgl64.Vec3)    { t.scale = s }

// Position returns the world-space position.
func (t *Transform) Position() mgl64.Vec3 {
	if t.parent == nil {
		return t.position
	}
	return t.parent.TransformPoint(t.position)
}

// Rotation returns the world-space orientation.
func (t *Transform) Rotation() mgl64.Quat {
	if t.parent == nil {
		return t.rotation
	}
	return t.parent.Rotation().Mul(t.rotation)
}

// LossyScale approximates the world-space scale as the product of the
// local scales up the hierarchy. Skew from rotated non-uniform parents is
// ignored.
func (t *Transform) LossyScale() mgl64.Vec3 {
	if t.parent == nil {
		return t.scale
	}
	return Mul3(t.parent.LossyScale(), t.scale)
}

// SetPosition moves the transform so that its world position is p.
func (t *Transform) SetPosition(p mgl64.Vec3) {
	if t.parent == nil {
		t.position = p
		return
	}
	t.position = t.parent.InverseTransformPoint(p)
}

// SetRotation orients the transform so that its world rotation is q.
func (t *Transform) SetRotation(q mgl64.Quat) {
	if t.parent == nil {
		t.rotation = q.Normalize()
		return
	}
	t.rotation = t.parent.Rotation().Inverse().Mul(q).Normalize()
}

// TransformPoint maps a point from this transform's local space to world space.
func (t *Transform) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position().Add(t.Rotation().Rotate(Mul3(t.LossyScale(), local)))
}

// InverseTransformPoint maps a world-space point into this transform's local space.
func (t *Transform) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	rel := world.Sub(t.Position())
	return Div3(t.Rotation().Inverse().Rotate(rel), t.LossyScale())
}

// SetParent re-parents the transform. With keepWorld the world pose is
// preserved, otherwise the local values are kept as they are. A nil parent
// moves the transform to world space.
func (t *Transform) SetParent(parent *Transform, keepWorld bool) error {
	for p := parent; p != nil; p = p.parent {
		if p == t {
			return ErrTransformCycle
		}
	}
	if !keepWorld {
		t.parent = parent
		return nil
	}

	pos, rot, scale := t.Position(), t.Rotation(), t.LossyScale()
	t.parent = parent
	t.SetPosition(pos)
	t.SetRotation(rot)
	if parent != nil {
		t.scale = Div3(scale, parent.LossyScale())
	} else {
		t.scale = scale
	}
	return nil
}
