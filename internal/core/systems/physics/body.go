package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultGravity is the world acceleration applied to bodies using gravity.
var DefaultGravity = mgl64.Vec3{0, -9.81, 0}

// RigidBody is the minimal dynamic state the interaction systems drive:
// climbing overwrites its velocity, teleporting toggles kinematic mode and
// gravity around a pose change.
type RigidBody struct {
	Transform  *Transform
	Velocity   mgl64.Vec3
	Kinematic  bool
	UseGravity bool
}

func NewRigidBody(t *Transform) *RigidBody {
	return &RigidBody{Transform: t, UseGravity: true}
}

// Integrate advances the body by one fixed step with semi-implicit Euler.
// Kinematic bodies are left untouched.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb == nil || rb.Transform == nil || rb.Kinematic {
		return
	}
	if rb.UseGravity {
		rb.Velocity = rb.Velocity.Add(gravity.Mul(dt))
	}
	rb.Transform.SetPosition(rb.Transform.Position().Add(rb.Velocity.Mul(dt)))
}
