// Package proximity holds the cheap geometric checks shared by interaction
// systems: the distance gate that decides whether an overlap query is worth
// running, and the interaction volume sizing for an object.
package proximity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// Gate reports whether any tracked actor is within Threshold of a bounding
// box. Distances are compared squared against a cached Threshold².
type Gate struct {
	threshold float64
	sqr       float64
}

func NewGate(threshold float64) Gate {
	if threshold < 0 {
		threshold = 0
	}
	return Gate{threshold: threshold, sqr: threshold * threshold}
}

func (g Gate) Threshold() float64 { return g.threshold }

// Near reports whether p lies strictly closer than the threshold to bounds.
func (g Gate) Near(bounds physics.Bounds, p mgl64.Vec3) bool {
	return bounds.SqrDistance(p) < g.sqr
}

// AnyNear reports whether at least one tracker is near bounds. Nil trackers
// are skipped.
func (g Gate) AnyNear(bounds physics.Bounds, trackers ...physics.Tracker) bool {
	for _, t := range trackers {
		if t == nil {
			continue
		}
		if g.Near(bounds, t.Position()) {
			return true
		}
	}
	return false
}
