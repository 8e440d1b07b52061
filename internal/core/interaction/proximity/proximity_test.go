package proximity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

type geometry struct {
	mesh     *physics.Bounds
	renderer *physics.Bounds
	scale    mgl64.Vec3
}

func (g geometry) MeshBounds() (physics.Bounds, bool) {
	if g.mesh == nil {
		return physics.Bounds{}, false
	}
	return *g.mesh, true
}

func (g geometry) RendererBounds() (physics.Bounds, bool) {
	if g.renderer == nil {
		return physics.Bounds{}, false
	}
	return *g.renderer, true
}

func (g geometry) LossyScale() mgl64.Vec3 { return g.scale }

func TestGateThreshold(t *testing.T) {
	box := physics.Bounds{Extents: physics.Splat(0.5)}
	g := NewGate(0.25)

	tests := []struct {
		name string
		p    mgl64.Vec3
		want bool
	}{
		{"inside", mgl64.Vec3{0.1, 0, 0}, true},
		{"on surface", mgl64.Vec3{0.5, 0, 0}, true},
		{"within threshold", mgl64.Vec3{0.625, 0, 0}, true},
		{"exactly at threshold", mgl64.Vec3{0.75, 0, 0}, false},
		{"far", mgl64.Vec3{0, 3, 0}, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Near(box, tt.p))
		})
	}
}

func TestGateAnyNearSkipsNil(t *testing.T) {
	box := physics.Bounds{Extents: physics.Splat(0.5)}
	g := NewGate(0.05)

	far := physics.NewTransform("far")
	far.SetPosition(mgl64.Vec3{4, 0, 0})
	near := physics.NewTransform("near")
	near.SetPosition(mgl64.Vec3{0, 0.5, 0})

	assert.False(t, g.AnyNear(box))
	assert.False(t, g.AnyNear(box, nil, far))
	assert.True(t, g.AnyNear(box, nil, far, near))
	assert.Equal(t, 0.05, g.Threshold())
	assert.Equal(t, 0.0, NewGate(-1).Threshold())
}

func TestHalfExtentsFallbackChain(t *testing.T) {
	mesh := physics.Bounds{Extents: mgl64.Vec3{0.5, 0.25, 1}}
	renderer := physics.Bounds{Center: mgl64.Vec3{3, 0, 0}, Extents: mgl64.Vec3{0.75, 0.75, 0.75}}
	scale := mgl64.Vec3{2, -4, 1}

	got, src := HalfExtents(geometry{mesh: &mesh, renderer: &renderer, scale: scale})
	assert.Equal(t, SourceMesh, src)
	assert.InDeltaSlice(t, []float64{1.02, 1.02, 1.02}, got[:], 1e-12)

	got, src = HalfExtents(geometry{renderer: &renderer, scale: scale})
	assert.Equal(t, SourceRenderer, src)
	assert.InDeltaSlice(t, []float64{0.77, 0.77, 0.77}, got[:], 1e-12)

	got, src = HalfExtents(geometry{scale: mgl64.Vec3{2, 1, 0.5}})
	assert.Equal(t, SourceScale, src)
	assert.Equal(t, mgl64.Vec3{1, 0.5, 0.25}, got)
	assert.Equal(t, "scale", src.String())
}
