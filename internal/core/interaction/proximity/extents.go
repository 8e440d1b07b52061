package proximity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// Padding is added to every axis of a mesh or renderer derived volume.
const Padding = 0.02

// Geometry exposes the sizing sources of an interactive object, most
// precise first. Either bounds source may be absent.
type Geometry interface {
	// MeshBounds returns the local-space bounds of the object's mesh.
	MeshBounds() (physics.Bounds, bool)
	// RendererBounds returns the world-space AABB of the object's visual.
	RendererBounds() (physics.Bounds, bool)
	LossyScale() mgl64.Vec3
}

// Source records which sizing source produced a volume.
type Source uint8

const (
	SourceMesh Source = iota
	SourceRenderer
	SourceScale
)

func (s Source) String() string {
	switch s {
	case SourceMesh:
		return "mesh"
	case SourceRenderer:
		return "renderer"
	default:
		return "scale"
	}
}

// HalfExtents sizes the interaction box of g:
//
//	mesh extents × |lossy scale| + Padding
//	renderer extents + Padding
//	lossy scale × 0.5
//
// The first available source wins.
func HalfExtents(g Geometry) (mgl64.Vec3, Source) {
	pad := physics.Splat(Padding)
	if local, ok := g.MeshBounds(); ok {
		scaled := physics.Mul3(local.Extents, physics.Abs3(g.LossyScale()))
		return scaled.Add(pad), SourceMesh
	}
	if world, ok := g.RendererBounds(); ok {
		return world.Extents.Add(pad), SourceRenderer
	}
	return g.LossyScale().Mul(0.5), SourceScale
}
