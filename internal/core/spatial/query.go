package spatial

import "github.com/go-gl/mathgl/mgl64"

// Query is the overlap contract the interaction state machines consume.
// Implementations write matches into the caller's buffer (after resetting
// it), skip disabled volumes and volumes whose layer is not in mask, and
// return the number of results stored. They must not allocate per call.
type Query interface {
	OverlapBox(center mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, mask LayerMask, results *Buffer) int
	OverlapSphere(center mgl64.Vec3, radius float64, mask LayerMask, results *Buffer) int
}
