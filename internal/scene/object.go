package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeusync/xrinteract/internal/core/interaction/button"
	"github.com/zeusync/xrinteract/internal/core/interaction/effects"
	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// DefaultColor is the material color of objects that do not set one.
var DefaultColor = colorful.Color{R: 1, G: 1, B: 1}

// Object is a scene node: a transform plus the optional mesh, material,
// collision volumes and rigid body the interaction systems work with.
type Object struct {
	*physics.Transform

	Tag   string
	Layer spatial.Layer
	// Body is nil for static objects.
	Body    *physics.RigidBody
	Volumes []*spatial.Volume

	mesh    physics.Bounds
	hasMesh bool
	skinned bool
	color   colorful.Color
}

var (
	_ button.Owner        = (*Object)(nil)
	_ effects.Activatable = (*Object)(nil)
	_ effects.Material    = (*Object)(nil)
	_ effects.Collider    = (*Object)(nil)
)

// NewObject creates an active object at the origin with DefaultColor.
func NewObject(name string, layer spatial.Layer) *Object {
	return &Object{
		Transform: physics.NewTransform(name),
		Layer:     layer,
		color:     DefaultColor,
	}
}

// SetMesh sets the local mesh bounds. A skinned mesh has no readable mesh
// data and only reports renderer bounds.
func (o *Object) SetMesh(local physics.Bounds, skinned bool) {
	o.mesh = local
	o.hasMesh = true
	o.skinned = skinned
}

func (o *Object) MeshBounds() (physics.Bounds, bool) {
	if !o.hasMesh || o.skinned {
		return physics.Bounds{}, false
	}
	return o.mesh, true
}

// RendererBounds returns the world AABB of the mesh under the current pose.
func (o *Object) RendererBounds() (physics.Bounds, bool) {
	if !o.hasMesh {
		return physics.Bounds{}, false
	}
	return physics.TransformBounds(o.mesh, o.Transform), true
}

func (o *Object) Color() colorful.Color     { return o.color }
func (o *Object) SetColor(c colorful.Color) { o.color = c }

// SetActive switches the object and its volumes together.
func (o *Object) SetActive(active bool) {
	o.Transform.SetActive(active)
	o.SetEnabled(active)
}

// SetEnabled switches collision for every volume of the object.
func (o *Object) SetEnabled(enabled bool) {
	for _, v := range o.Volumes {
		v.SetEnabled(enabled)
	}
}

// AddBox attaches a box volume. A zero half extent sizes the box from the
// mesh bounds, or from the scale when there is no mesh.
func (o *Object) AddBox(name string, layer spatial.Layer, center, halfExtents mgl64.Vec3) *spatial.Volume {
	if halfExtents == (mgl64.Vec3{}) {
		if o.hasMesh {
			halfExtents = o.mesh.Extents
			center = o.mesh.Center
		} else {
			halfExtents = physics.Splat(0.5)
		}
	}
	v := spatial.NewBox(name, layer, o.Transform, halfExtents).WithCenter(center)
	o.Volumes = append(o.Volumes, v)
	return v
}

func (o *Object) AddSphere(name string, layer spatial.Layer, center mgl64.Vec3, radius float64) *spatial.Volume {
	v := spatial.NewSphere(name, layer, o.Transform, radius).WithCenter(center)
	o.Volumes = append(o.Volumes, v)
	return v
}

// eulerToQuat converts XYZ euler angles in degrees, applied Z then X then Y.
func eulerToQuat(deg mgl64.Vec3) mgl64.Quat {
	x, y, z := mgl64.DegToRad(deg[0]), mgl64.DegToRad(deg[1]), mgl64.DegToRad(deg[2])
	return mgl64.AnglesToQuat(y, x, z, mgl64.YXZ)
}
