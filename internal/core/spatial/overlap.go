package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// parallelEpsilon keeps the separating-axis test stable when box edges are
// nearly parallel and the cross-product axes degenerate.
const parallelEpsilon = 1e-9

type obb struct {
	center mgl64.Vec3
	axes   [3]mgl64.Vec3
	half   mgl64.Vec3
}

func newOBB(center mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) obb {
	return obb{
		center: center,
		axes: [3]mgl64.Vec3{
			rot.Rotate(mgl64.Vec3{1, 0, 0}),
			rot.Rotate(mgl64.Vec3{0, 1, 0}),
			rot.Rotate(mgl64.Vec3{0, 0, 1}),
		},
		half: half,
	}
}

func closestOnBox(center mgl64.Vec3, rot mgl64.Quat, half, p mgl64.Vec3) mgl64.Vec3 {
	b := newOBB(center, rot, half)
	d := p.Sub(center)
	out := center
	for i := 0; i < 3; i++ {
		dist := mgl64.Clamp(d.Dot(b.axes[i]), -half[i], half[i])
		out = out.Add(b.axes[i].Mul(dist))
	}
	return out
}

func closestOnSphere(center mgl64.Vec3, radius float64, p mgl64.Vec3) mgl64.Vec3 {
	d := p.Sub(center)
	if physics.SqrMagnitude(d) <= radius*radius {
		return p
	}
	return center.Add(d.Normalize().Mul(radius))
}

// boxBox is the separating-axis test for two oriented boxes. Touching
// boxes count as overlapping.
func boxBox(a, b obb) bool {
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = a.axes[i].Dot(b.axes[j])
			absR[i][j] = math.Abs(r[i][j]) + parallelEpsilon
		}
	}

	d := b.center.Sub(a.center)
	t := mgl64.Vec3{d.Dot(a.axes[0]), d.Dot(a.axes[1]), d.Dot(a.axes[2])}

	for i := 0; i < 3; i++ {
		ra := a.half[i]
		rb := b.half[0]*absR[i][0] + b.half[1]*absR[i][1] + b.half[2]*absR[i][2]
		if math.Abs(t[i]) > ra+rb {
			return false
		}
	}

	for j := 0; j < 3; j++ {
		ra := a.half[0]*absR[0][j] + a.half[1]*absR[1][j] + a.half[2]*absR[2][j]
		rb := b.half[j]
		if math.Abs(t[0]*r[0][j]+t[1]*r[1][j]+t[2]*r[2][j]) > ra+rb {
			return false
		}
	}

	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := a.half[i1]*absR[i2][j] + a.half[i2]*absR[i1][j]
			rb := b.half[j1]*absR[i][j2] + b.half[j2]*absR[i][j1]
			if math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) > ra+rb {
				return false
			}
		}
	}
	return true
}

func boxSphere(b obb, center mgl64.Vec3, radius float64) bool {
	d := center.Sub(b.center)
	var sq float64
	for i := 0; i < 3; i++ {
		dist := d.Dot(b.axes[i])
		if excess := math.Abs(dist) - b.half[i]; excess > 0 {
			sq += excess * excess
		}
	}
	return sq <= radius*radius
}

func sphereSphere(a mgl64.Vec3, ra float64, b mgl64.Vec3, rb float64) bool {
	sum := ra + rb
	return physics.SqrDistance(a, b) <= sum*sum
}

// overlapsBox reports whether the volume intersects the given oriented box.
func (v *Volume) overlapsBox(box obb) bool {
	if v.shape == ShapeSphere {
		return boxSphere(box, v.WorldCenter(), v.WorldRadius())
	}
	return boxBox(box, newOBB(v.WorldCenter(), v.WorldRotation(), v.WorldHalfExtents()))
}

// overlapsSphere reports whether the volume intersects the given sphere.
func (v *Volume) overlapsSphere(center mgl64.Vec3, radius float64) bool {
	if v.shape == ShapeSphere {
		return sphereSphere(v.WorldCenter(), v.WorldRadius(), center, radius)
	}
	return boxSphere(newOBB(v.WorldCenter(), v.WorldRotation(), v.WorldHalfExtents()), center, radius)
}
