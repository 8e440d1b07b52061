package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned box described by its center and half extents.
type Bounds struct {
	Center  mgl64.Vec3
	Extents mgl64.Vec3
}

// BoundsFromMinMax builds bounds spanning min..max.
func BoundsFromMinMax(min, max mgl64.Vec3) Bounds {
	return Bounds{
		Center:  min.Add(max).Mul(0.5),
		Extents: max.Sub(min).Mul(0.5),
	}
}

func (b Bounds) Min() mgl64.Vec3  { return b.Center.Sub(b.Extents) }
func (b Bounds) Max() mgl64.Vec3  { return b.Center.Add(b.Extents) }
func (b Bounds) Size() mgl64.Vec3 { return b.Extents.Mul(2) }

// Contains reports whether p lies inside or on the bounds.
func (b Bounds) Contains(p mgl64.Vec3) bool {
	min, max := b.Min(), b.Max()
	return p[0] >= min[0] && p[0] <= max[0] &&
		p[1] >= min[1] && p[1] <= max[1] &&
		p[2] >= min[2] && p[2] <= max[2]
}

// ClosestPoint returns the point of the bounds nearest to p; p itself when inside.
func (b Bounds) ClosestPoint(p mgl64.Vec3) mgl64.Vec3 {
	min, max := b.Min(), b.Max()
	return mgl64.Vec3{
		mgl64.Clamp(p[0], min[0], max[0]),
		mgl64.Clamp(p[1], min[1], max[1]),
		mgl64.Clamp(p[2], min[2], max[2]),
	}
}

// SqrDistance returns the squared distance from p to the bounds, zero inside.
func (b Bounds) SqrDistance(p mgl64.Vec3) float64 {
	return SqrDistance(b.ClosestPoint(p), p)
}

// Encapsulate grows the bounds to include p.
func (b Bounds) Encapsulate(p mgl64.Vec3) Bounds {
	min, max := b.Min(), b.Max()
	for i := 0; i < 3; i++ {
		min[i] = math.Min(min[i], p[i])
		max[i] = math.Max(max[i], p[i])
	}
	return BoundsFromMinMax(min, max)
}

// TransformBounds returns the world-space AABB enclosing local bounds placed
// under t.
func TransformBounds(local Bounds, t *Transform) Bounds {
	lo, hi := local.Min(), local.Max()
	var out Bounds
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{lo[0], lo[1], lo[2]}
		if i&1 != 0 {
			corner[0] = hi[0]
		}
		if i&2 != 0 {
			corner[1] = hi[1]
		}
		if i&4 != 0 {
			corner[2] = hi[2]
		}
		w := t.TransformPoint(corner)
		if i == 0 {
			out = Bounds{Center: w}
			continue
		}
		out = out.Encapsulate(w)
	}
	return out
}
