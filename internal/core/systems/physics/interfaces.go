package physics

import "github.com/go-gl/mathgl/mgl64"

// Lightweight spatial abstractions shared by the interaction systems.
// Vector math is delegated to mgl64; these helpers cover the few
// component-wise operations it does not provide.

// Tracker provides a world-space position. Tracked hands, the body and
// any Transform satisfy it.
type Tracker interface {
	Position() mgl64.Vec3
}

// Rotator provides a world-space orientation.
type Rotator interface {
	Rotation() mgl64.Quat
}

// Posed is something with both a world position and orientation.
type Posed interface {
	Tracker
	Rotator
}

// Mul3 multiplies two vectors component-wise.
func Mul3(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Div3 divides a by b component-wise. Zero components of b yield zero.
func Div3(a, b mgl64.Vec3) mgl64.Vec3 {
	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		if b[i] != 0 {
			out[i] = a[i] / b[i]
		}
	}
	return out
}

// Abs3 returns the component-wise absolute value.
func Abs3(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{mgl64.Abs(v[0]), mgl64.Abs(v[1]), mgl64.Abs(v[2])}
}

// SqrMagnitude returns the squared length of v.
func SqrMagnitude(v mgl64.Vec3) float64 { return v.Dot(v) }

// SqrDistance returns the squared Euclidean distance between a and b.
func SqrDistance(a, b mgl64.Vec3) float64 { return SqrMagnitude(b.Sub(a)) }

// Splat returns a vector with every component set to s.
func Splat(s float64) mgl64.Vec3 { return mgl64.Vec3{s, s, s} }
