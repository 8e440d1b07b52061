package spatial

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilVolume       = errors.New("volume is nil")
	ErrDuplicateVolume = errors.New("volume already registered")
	ErrVolumeNotFound  = errors.New("volume not found")
)

var _ Query = (*World)(nil)

// World is a brute-force in-memory overlap query over registered volumes.
// Volumes are tested in registration order, which makes results and
// tie-breaking deterministic for a given scene.
type World struct {
	volumes []*Volume
	index   map[VolumeID]int
}

func NewWorld() *World {
	return &World{index: make(map[VolumeID]int)}
}

// Add registers a volume. Names must be unique within the world.
func (w *World) Add(v *Volume) error {
	if v == nil {
		return ErrNilVolume
	}
	if _, exists := w.index[v.ID()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateVolume, v.Name())
	}
	w.index[v.ID()] = len(w.volumes)
	w.volumes = append(w.volumes, v)
	return nil
}

// Remove unregisters the volume with the given id.
func (w *World) Remove(id VolumeID) error {
	idx, ok := w.index[id]
	if !ok {
		return ErrVolumeNotFound
	}
	w.volumes = append(w.volumes[:idx], w.volumes[idx+1:]...)
	delete(w.index, id)
	for i := idx; i < len(w.volumes); i++ {
		w.index[w.volumes[i].ID()] = i
	}
	return nil
}

// Get looks a volume up by id.
func (w *World) Get(id VolumeID) (*Volume, bool) {
	idx, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return w.volumes[idx], true
}

// Lookup finds a volume by name.
func (w *World) Lookup(name string) (*Volume, bool) { return w.Get(IDOf(name)) }

// Volumes returns the registered volumes in registration order.
func (w *World) Volumes() []*Volume { return w.volumes }

func (w *World) Len() int { return len(w.volumes) }

func (w *World) OverlapBox(center mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, mask LayerMask, results *Buffer) int {
	results.Reset()
	box := newOBB(center, rotation, halfExtents)
	for _, v := range w.volumes {
		if !v.Enabled() || !mask.Has(v.Layer()) {
			continue
		}
		if v.overlapsBox(box) {
			results.Add(v)
		}
	}
	return results.Len()
}

func (w *World) OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask, results *Buffer) int {
	results.Reset()
	for _, v := range w.volumes {
		if !v.Enabled() || !mask.Has(v.Layer()) {
			continue
		}
		if v.overlapsSphere(center, radius) {
			results.Add(v)
		}
	}
	return results.Len()
}
