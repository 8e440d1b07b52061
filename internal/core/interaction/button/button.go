// Package button turns per-frame overlap results into debounced press,
// release and hold events for three independent contact channels: the left
// hand, the right hand and the body.
package button

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/actors"
	"github.com/zeusync/xrinteract/internal/core/interaction/proximity"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// Owner is the interactive object a button is attached to.
type Owner interface {
	proximity.Geometry
	physics.Posed
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Log) Option {
	return func(m *Machine) { m.logger = log.OrNop(l) }
}

// WithName sets the system name reported to the runner.
func WithName(name string) Option {
	return func(m *Machine) { m.name = name }
}

// Machine is the button state machine. One cooldown clock is shared by all
// channels; releases are never gated.
type Machine struct {
	cfg     Config
	owner   Owner
	actors  [channelCount]physics.Tracker
	query   spatial.Query
	handler Handler
	logger  log.Log
	name    string

	gate        proximity.Gate
	halfExtents mgl64.Vec3
	initialized bool
	buffer      *spatial.Buffer

	channels       [channelCount]channelState
	lastActivation float64
}

var _ systems.System = (*Machine)(nil)

// New creates a button for owner. Actor positions come from set; a nil
// actor never contacts the button. A nil handler is replaced by NopHandler.
func New(cfg Config, owner Owner, set actors.Set, query spatial.Query, handler Handler, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrNilOwner
	}
	if query == nil {
		return nil, ErrNilQuery
	}
	if handler == nil {
		handler = NopHandler{}
	}

	m := &Machine{
		cfg:            cfg,
		owner:          owner,
		query:          query,
		handler:        handler,
		logger:         log.Nop(),
		name:           "button",
		gate:           proximity.NewGate(cfg.ProximityThreshold),
		buffer:         spatial.NewBuffer(BufferCapacity),
		lastActivation: math.Inf(-1),
	}
	m.actors[ChannelLeftHand] = set.LeftHand
	m.actors[ChannelRightHand] = set.RightHand
	m.actors[ChannelBody] = set.Body
	if cfg.LeftHandOnly {
		m.actors[ChannelRightHand] = nil
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(log.Component("button"), log.String("button", m.name))
	return m, nil
}

func (m *Machine) Name() string { return m.name }

// OnInit sizes the interaction volume. It never fails: missing geometry
// falls back to the owner scale.
func (m *Machine) OnInit() error {
	if m.initialized {
		return nil
	}
	var src proximity.Source
	m.halfExtents, src = proximity.HalfExtents(m.owner)
	m.initialized = true

	m.logger.Debug("interaction volume sized",
		log.Stringer("source", src),
		log.Float64("x", m.halfExtents[0]),
		log.Float64("y", m.halfExtents[1]),
		log.Float64("z", m.halfExtents[2]),
	)
	for _, ch := range Channels {
		if m.actors[ch] == nil && (ch != ChannelRightHand || !m.cfg.LeftHandOnly) {
			m.logger.Warn("tracked actor not resolved", log.Stringer("channel", ch))
		}
	}
	return nil
}

// OnFrame runs detection for one frame at f.Time, accumulating hold timers
// by f.DeltaTime.
func (m *Machine) OnFrame(f systems.Frame) {
	if !m.initialized {
		_ = m.OnInit()
	}

	// The gate only skips the query while nothing is inside; releases are
	// always decided by the overlap result.
	if !m.anyInside() && !m.near() {
		return
	}
	var found [channelCount]bool
	m.detect(&found)

	now := f.Time
	for _, ch := range Channels {
		if found[ch] {
			m.press(ch, now)
		}
	}
	for _, ch := range Channels {
		if !found[ch] {
			m.release(ch)
		}
	}
	for _, ch := range Channels {
		m.hold(ch, f.DeltaTime)
	}
}

func (m *Machine) OnFixedStep(systems.Frame) {}

// near is the proximity gate. Owners without renderer bounds always pass.
func (m *Machine) near() bool {
	bounds, ok := m.owner.RendererBounds()
	if !ok {
		return true
	}
	return m.gate.AnyNear(bounds, m.actors[:]...)
}

func (m *Machine) detect(found *[channelCount]bool) {
	m.query.OverlapBox(m.owner.Position(), m.owner.Rotation(), m.halfExtents, spatial.ActorMask, m.buffer)
	if d := m.buffer.Dropped(); d > 0 {
		m.logger.Debug("overlap results dropped", log.Int("dropped", d))
	}
	for _, v := range m.buffer.Results() {
		ch, ok := channelOf(v.Layer())
		if !ok || (ch == ChannelRightHand && m.cfg.LeftHandOnly) {
			continue
		}
		found[ch] = true
	}
}

func (m *Machine) anyInside() bool {
	for _, s := range m.channels {
		if s.inside {
			return true
		}
	}
	return false
}

func (m *Machine) press(ch Channel, now float64) {
	s := &m.channels[ch]
	if s.inside || now-m.lastActivation < m.cfg.Cooldown {
		return
	}
	s.inside = true
	m.lastActivation = now
	m.logger.Debug("pressed", log.Stringer("channel", ch), log.Float64("time", now))
	m.activate(ch, true)
}

func (m *Machine) release(ch Channel) {
	s := &m.channels[ch]
	if !s.inside {
		return
	}
	*s = channelState{}
	m.logger.Debug("released", log.Stringer("channel", ch))
	m.activate(ch, false)
}

func (m *Machine) hold(ch Channel, dt float64) {
	s := &m.channels[ch]
	if !s.inside {
		return
	}
	s.holdTimer += dt
	if s.holding || s.holdTimer < m.holdDuration(ch) {
		return
	}
	s.holding = true
	m.logger.Debug("held", log.Stringer("channel", ch), log.Float64("duration", s.holdTimer))
	if ch == ChannelBody {
		m.handler.OnBodyHold(s.holdTimer)
	} else {
		m.handler.OnHandHold(ch == ChannelLeftHand, s.holdTimer)
	}
}

func (m *Machine) holdDuration(ch Channel) float64 {
	if ch == ChannelBody {
		return m.cfg.BodyHoldDuration
	}
	return m.cfg.HandHoldDuration
}

func (m *Machine) activate(ch Channel, pressed bool) {
	if ch == ChannelBody {
		m.handler.OnBodyActivation(pressed)
		return
	}
	m.handler.OnHandActivation(ch == ChannelLeftHand, pressed)
}

// SimulatePress delivers a press immediately followed by a release on ch,
// bypassing detection, cooldown and channel state. It exists for manual
// testing of effects.
func (m *Machine) SimulatePress(ch Channel) error {
	if ch >= channelCount {
		return fmt.Errorf("%w: unknown channel %d", ErrInvalidConfig, ch)
	}
	m.logger.Info("simulated press", log.Stringer("channel", ch))
	m.activate(ch, true)
	m.activate(ch, false)
	return nil
}

// State returns the current state of ch.
func (m *Machine) State(ch Channel) State {
	if ch >= channelCount {
		return StateOutside
	}
	return m.channels[ch].state()
}

// HalfExtents returns the cached interaction volume half extents. It is
// zero until OnInit has run.
func (m *Machine) HalfExtents() mgl64.Vec3 { return m.halfExtents }

// LastActivation returns the time of the most recent press, or -Inf.
func (m *Machine) LastActivation() float64 { return m.lastActivation }

func (m *Machine) Config() Config { return m.cfg }
