package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDeltaSlicef(t, want[:], got[:], 1e-9, "want %v, got %v", want, got)
}

func TestTransformHierarchy(t *testing.T) {
	root := NewTransform("rig")
	root.SetLocalPosition(mgl64.Vec3{1, 0, 0})
	root.SetLocalRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))

	child := NewTransform("hand")
	require.NoError(t, child.SetParent(root, false))
	child.SetLocalPosition(mgl64.Vec3{0, 0, 1})

	// +Z rotated 90 degrees around Y becomes +X.
	vecNear(t, mgl64.Vec3{2, 0, 0}, child.Position())

	child.SetPosition(mgl64.Vec3{1, 2, 0})
	vecNear(t, mgl64.Vec3{1, 2, 0}, child.Position())
	vecNear(t, mgl64.Vec3{0, 2, 0}, child.LocalPosition())
}

func TestSetParentKeepsWorldPose(t *testing.T) {
	surface := NewTransform("wall")
	surface.SetLocalPosition(mgl64.Vec3{0, 3, 0})
	surface.SetLocalScale(mgl64.Vec3{2, 2, 2})

	anchor := NewTransform("anchor")
	anchor.SetPosition(mgl64.Vec3{1, 3, 0})
	require.NoError(t, anchor.SetParent(surface, true))
	vecNear(t, mgl64.Vec3{1, 3, 0}, anchor.Position())
	vecNear(t, mgl64.Vec3{1, 1, 1}, anchor.LossyScale())

	surface.SetLocalPosition(mgl64.Vec3{0, 4, 0})
	vecNear(t, mgl64.Vec3{1, 4, 0}, anchor.Position())
}

func TestSetParentRejectsCycle(t *testing.T) {
	a := NewTransform("a")
	b := NewTransform("b")
	require.NoError(t, b.SetParent(a, true))
	assert.ErrorIs(t, a.SetParent(b, true), ErrTransformCycle)
	assert.ErrorIs(t, a.SetParent(a, false), ErrTransformCycle)
}

func TestBoundsClosestPoint(t *testing.T) {
	b := Bounds{Center: mgl64.Vec3{0, 0, 0}, Extents: mgl64.Vec3{1, 1, 1}}

	vecNear(t, mgl64.Vec3{0.5, 0, 0}, b.ClosestPoint(mgl64.Vec3{0.5, 0, 0}))
	vecNear(t, mgl64.Vec3{1, 1, 0}, b.ClosestPoint(mgl64.Vec3{3, 2, 0}))
	assert.InDelta(t, 5.0, b.SqrDistance(mgl64.Vec3{3, 2, 0}), 1e-12)
	assert.True(t, b.Contains(mgl64.Vec3{1, -1, 1}))
	assert.False(t, b.Contains(mgl64.Vec3{1.01, 0, 0}))
}

func TestTransformBounds(t *testing.T) {
	tr := NewTransform("button")
	tr.SetLocalPosition(mgl64.Vec3{0, 1, 0})
	tr.SetLocalScale(mgl64.Vec3{2, 1, 1})
	tr.SetLocalRotation(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}))

	local := Bounds{Extents: mgl64.Vec3{0.5, 0.25, 0.1}}
	world := TransformBounds(local, tr)

	vecNear(t, mgl64.Vec3{0, 1, 0}, world.Center)
	// x-extent 1.0 after scale is rotated onto Y.
	vecNear(t, mgl64.Vec3{0.25, 1.0, 0.1}, world.Extents)
}

func TestRigidBodyIntegrate(t *testing.T) {
	tr := NewTransform("player")
	rb := NewRigidBody(tr)
	rb.Velocity = mgl64.Vec3{1, 0, 0}

	rb.Integrate(0.5, mgl64.Vec3{0, -2, 0})
	vecNear(t, mgl64.Vec3{1, -1, 0}, rb.Velocity)
	vecNear(t, mgl64.Vec3{0.5, -0.5, 0}, tr.Position())

	rb.Kinematic = true
	rb.Integrate(0.5, mgl64.Vec3{0, -2, 0})
	vecNear(t, mgl64.Vec3{0.5, -0.5, 0}, tr.Position())
}

func TestDiv3ZeroComponent(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{2, 0, 1}, Div3(mgl64.Vec3{4, 3, 1}, mgl64.Vec3{2, 0, 1}))
}
