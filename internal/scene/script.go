package scene

import (
	"slices"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/interaction/grab"
	"github.com/zeusync/xrinteract/internal/core/systems"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// SelectionThreshold is the selection track value above which a hand counts
// as holding a regular grabbable.
const SelectionThreshold = 0.5

type axisID struct {
	hand    grab.Hand
	channel grab.InputChannel
}

type track struct {
	target *physics.Transform
	keys   []PositionKey
}

// Script replays keyframed poses and controller input. Tracks set local
// positions, so tracked hands keep following their parent rig while it
// moves. Values are linearly interpolated and held past the last key.
type Script struct {
	tracks     []track
	axes       map[axisID][]AxisKey
	selections map[grab.Hand][]AxisKey
	time       float64
}

var _ grab.Input = (*Script)(nil)

// NewScript binds desc to the given transforms. Tracks whose object is not
// in targets are ignored.
func NewScript(desc ScriptDesc, targets map[string]*physics.Transform) *Script {
	s := &Script{
		axes:       make(map[axisID][]AxisKey),
		selections: make(map[grab.Hand][]AxisKey),
	}
	for _, t := range desc.Tracks {
		if target, ok := targets[t.Object]; ok && len(t.Keys) > 0 {
			s.tracks = append(s.tracks, track{target: target, keys: t.Keys})
		}
	}
	for _, a := range desc.Axes {
		id := axisID{a.Hand, a.Channel}
		s.axes[id] = append(s.axes[id], a.Keys...)
	}
	for _, a := range desc.Selections {
		s.selections[a.Hand] = append(s.selections[a.Hand], a.Keys...)
	}
	// Several tracks may feed the same axis.
	byTime := func(a, b AxisKey) int { return cmpTime(a.T, b.T) }
	for _, keys := range s.axes {
		slices.SortStableFunc(keys, byTime)
	}
	for _, keys := range s.selections {
		slices.SortStableFunc(keys, byTime)
	}
	return s
}

// Seek moves the script to t and applies every track.
func (s *Script) Seek(t float64) {
	s.time = t
	for _, tr := range s.tracks {
		tr.target.SetLocalPosition(samplePosition(tr.keys, t))
	}
}

func (s *Script) Time() float64 { return s.time }

// Axis samples the input track of hand and channel. Missing tracks read 0.
func (s *Script) Axis(hand grab.Hand, channel grab.InputChannel) float64 {
	return sampleAxis(s.axes[axisID{hand, channel}], s.time)
}

// Interactor reports the scripted selection state of hand.
func (s *Script) Interactor(hand grab.Hand) grab.Interactor {
	return grab.InteractorFunc(func() bool {
		return sampleAxis(s.selections[hand], s.time) > SelectionThreshold
	})
}

// System applies the script at the start of every frame. Register it before
// the systems that read tracked poses.
func (s *Script) System() systems.System {
	return systems.Hooks{
		ID:    "script",
		Init:  func() error { s.Seek(0); return nil },
		Frame: func(f systems.Frame) { s.Seek(f.Time) },
	}
}

// segment returns the index of the last key at or before t, -1 before the
// first key.
func segment(n int, at func(int) float64, t float64) int {
	return sort.Search(n, func(i int) bool { return at(i) > t }) - 1
}

func samplePosition(keys []PositionKey, t float64) mgl64.Vec3 {
	i := segment(len(keys), func(i int) float64 { return keys[i].T }, t)
	switch {
	case i < 0:
		return keys[0].Position
	case i >= len(keys)-1:
		return keys[len(keys)-1].Position
	}
	a, b := keys[i], keys[i+1]
	return lerpVec(a.Position, b.Position, (t-a.T)/(b.T-a.T))
}

func sampleAxis(keys []AxisKey, t float64) float64 {
	if len(keys) == 0 {
		return 0
	}
	i := segment(len(keys), func(i int) float64 { return keys[i].T }, t)
	switch {
	case i < 0:
		return keys[0].Value
	case i >= len(keys)-1:
		return keys[len(keys)-1].Value
	}
	a, b := keys[i], keys[i+1]
	return a.Value + (b.Value-a.Value)*(t-a.T)/(b.T-a.T)
}

func lerpVec(a, b mgl64.Vec3, f float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}
