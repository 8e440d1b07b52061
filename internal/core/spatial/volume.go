package spatial

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// Shape is the geometric primitive of a volume.
type Shape uint8

const (
	ShapeBox Shape = iota
	ShapeSphere
)

func (s Shape) String() string {
	if s == ShapeSphere {
		return "sphere"
	}
	return "box"
}

// VolumeID identifies a volume inside a World. It is derived from the
// volume name so the same scene always produces the same IDs.
type VolumeID uint64

// IDOf returns the VolumeID for a volume name.
func IDOf(name string) VolumeID { return VolumeID(xxhash.Sum64String(name)) }

// Volume is an interaction volume attached to a transform. Box half extents
// and sphere radius are local and scale with the transform.
type Volume struct {
	id          VolumeID
	name        string
	layer       Layer
	shape       Shape
	transform   *physics.Transform
	center      mgl64.Vec3
	halfExtents mgl64.Vec3
	radius      float64
	enabled     bool
}

// NewBox creates an enabled oriented box volume.
func NewBox(name string, layer Layer, t *physics.Transform, halfExtents mgl64.Vec3) *Volume {
	return &Volume{
		id:          IDOf(name),
		name:        name,
		layer:       layer,
		shape:       ShapeBox,
		transform:   t,
		halfExtents: halfExtents,
		enabled:     true,
	}
}

// NewSphere creates an enabled sphere volume.
func NewSphere(name string, layer Layer, t *physics.Transform, radius float64) *Volume {
	return &Volume{
		id:        IDOf(name),
		name:      name,
		layer:     layer,
		shape:     ShapeSphere,
		transform: t,
		radius:    radius,
		enabled:   true,
	}
}

// WithCenter offsets the volume from its transform origin, in local space.
func (v *Volume) WithCenter(c mgl64.Vec3) *Volume {
	v.center = c
	return v
}

func (v *Volume) ID() VolumeID                  { return v.id }
func (v *Volume) Name() string                  { return v.name }
func (v *Volume) Layer() Layer                  { return v.layer }
func (v *Volume) Shape() Shape                  { return v.shape }
func (v *Volume) Transform() *physics.Transform { return v.transform }
func (v *Volume) Enabled() bool                 { return v.enabled }

// SetEnabled turns collision response on or off. Disabled volumes are
// invisible to overlap queries.
func (v *Volume) SetEnabled(enabled bool) { v.enabled = enabled }

// WorldCenter returns the volume center in world space.
func (v *Volume) WorldCenter() mgl64.Vec3 { return v.transform.TransformPoint(v.center) }

// WorldRotation returns the volume orientation in world space.
func (v *Volume) WorldRotation() mgl64.Quat { return v.transform.Rotation() }

// WorldHalfExtents returns the box half extents scaled to world space.
func (v *Volume) WorldHalfExtents() mgl64.Vec3 {
	return physics.Abs3(physics.Mul3(v.halfExtents, v.transform.LossyScale()))
}

// WorldRadius returns the sphere radius scaled by the largest axis scale.
func (v *Volume) WorldRadius() float64 {
	s := physics.Abs3(v.transform.LossyScale())
	return v.radius * math.Max(s[0], math.Max(s[1], s[2]))
}

// ClosestPoint returns the point on or inside the volume nearest to p.
func (v *Volume) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	if v.shape == ShapeSphere {
		return closestOnSphere(v.WorldCenter(), v.WorldRadius(), p)
	}
	return closestOnBox(v.WorldCenter(), v.WorldRotation(), v.WorldHalfExtents(), p)
}

// Bounds returns the world-space AABB of the volume.
func (v *Volume) Bounds() physics.Bounds {
	if v.shape == ShapeSphere {
		return physics.Bounds{Center: v.WorldCenter(), Extents: physics.Splat(v.WorldRadius())}
	}
	rot := v.WorldRotation()
	half := v.WorldHalfExtents()
	var ext mgl64.Vec3
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1
		ext = ext.Add(physics.Abs3(rot.Rotate(axis)).Mul(half[i]))
	}
	return physics.Bounds{Center: v.WorldCenter(), Extents: ext}
}
