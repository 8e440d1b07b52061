// Package grab lets a tracked hand attach to nearby climbable volumes and
// drives the player body so that the hand stays on the grabbed point.
package grab

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

// AnchorPrefix prefixes the name of every anchor transform.
const AnchorPrefix = "GrabPoint-"

type Option func(*Machine)

// WithPlayer sets the body that receives the climbing velocity.
func WithPlayer(rb *physics.RigidBody) Option {
	return func(m *Machine) { m.player = rb }
}

// WithInteractor sets the selection source that overrides climbing.
func WithInteractor(i Interactor) Option {
	return func(m *Machine) { m.interactor = i }
}

func WithLogger(l log.Log) Option {
	return func(m *Machine) { m.logger = log.OrNop(l) }
}

func WithName(name string) Option {
	return func(m *Machine) { m.name = name }
}

// Machine is a single grab point in one of two states, idle or grabbing.
// While grabbing, attached and anchor are both set; while idle both are nil.
type Machine struct {
	cfg        Config
	hand       *physics.Transform
	query      spatial.Query
	input      Input
	interactor Interactor
	player     *physics.RigidBody
	logger     log.Log
	name       string

	buffer   *spatial.Buffer
	grabbing bool
	attached *spatial.Volume
	anchor   *physics.Transform

	lastPosition mgl64.Vec3
	velocity     mgl64.Vec3

	onGrab    []func()
	onRelease []func()
}

var _ systems.System = (*Machine)(nil)

// New creates a grab point for hand. A nil input never activates.
func New(cfg Config, hand *physics.Transform, query spatial.Query, input Input, opts ...Option) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hand == nil {
		return nil, ErrNilHand
	}
	if query == nil {
		return nil, ErrNilQuery
	}
	if input == nil {
		input = InputFunc(func(Hand, InputChannel) float64 { return 0 })
	}

	m := &Machine{
		cfg:          cfg,
		hand:         hand,
		query:        query,
		input:        input,
		logger:       log.Nop(),
		name:         "grab-" + cfg.Hand.String(),
		buffer:       spatial.NewBuffer(BufferCapacity),
		lastPosition: hand.Position(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(log.Component("grab"), log.Stringer("hand", cfg.Hand))
	return m, nil
}

// OnGrab registers fn to run after every grab starts.
func (m *Machine) OnGrab(fn func()) {
	if fn != nil {
		m.onGrab = append(m.onGrab, fn)
	}
}

// OnRelease registers fn to run after every grab ends.
func (m *Machine) OnRelease(fn func()) {
	if fn != nil {
		m.onRelease = append(m.onRelease, fn)
	}
}

func (m *Machine) Name() string { return m.name }

// OnInit reports a missing player body. The grab point keeps working
// without one, it just never moves the player.
func (m *Machine) OnInit() error {
	if m.player == nil || m.player.Transform == nil {
		m.logger.Error("velocity transfer disabled", log.Error(ErrNoPlayer))
	}
	return nil
}

func (m *Machine) OnFrame(systems.Frame) {
	if m.interactor != nil && m.interactor.HasSelection() {
		if m.grabbing {
			m.release()
		}
		return
	}

	pressed := m.input.Axis(m.cfg.Hand, m.cfg.Input) > ActivationThreshold
	switch {
	case pressed && !m.grabbing:
		if surface, ok := m.nearest(); ok {
			m.grab(surface)
		}
	case !pressed && m.grabbing:
		m.release()
	}
}

// OnFixedStep updates the hand velocity estimate and, while grabbing,
// sets the player velocity that brings the hand back onto the anchor
// within one step.
func (m *Machine) OnFixedStep(f systems.Frame) {
	dt := f.DeltaTime
	if dt <= 0 {
		return
	}
	if m.cfg.UseInstantaneousVelocity {
		pos := m.hand.Position()
		if pos != m.lastPosition {
			m.velocity = pos.Sub(m.lastPosition).Mul(1 / dt)
		} else {
			m.velocity = mgl64.Vec3{}
		}
		m.lastPosition = pos
	}
	if m.grabbing && m.anchor != nil && m.player != nil {
		m.player.Velocity = m.anchor.Position().Sub(m.hand.Position()).Mul(1 / dt)
	}
}

// nearest returns the enabled climbable within GrabRadius whose closest
// point is nearest to the hand. The first of equally near candidates wins.
func (m *Machine) nearest() (*spatial.Volume, bool) {
	origin := m.hand.Position()
	m.query.OverlapSphere(origin, m.cfg.GrabRadius, m.cfg.ClimbMask, m.buffer)

	var best *spatial.Volume
	bestDist := math.Inf(1)
	for _, v := range m.buffer.Results() {
		if v == m.attached {
			continue
		}
		if d := physics.SqrDistance(origin, v.ClosestPoint(origin)); d < bestDist {
			bestDist = d
			best = v
		}
	}
	return best, best != nil
}

func (m *Machine) grab(surface *spatial.Volume) {
	anchor := physics.NewTransform(AnchorPrefix + uuid.NewString())
	anchor.SetPosition(m.hand.Position())
	anchor.SetRotation(m.hand.Rotation())
	if err := anchor.SetParent(surface.Transform(), true); err != nil {
		m.logger.Warn("grab anchor rejected", log.String("surface", surface.Name()), log.Error(err))
		return
	}

	m.grabbing = true
	m.attached = surface
	m.anchor = anchor
	surface.SetEnabled(false)

	for _, fn := range m.onGrab {
		fn()
	}
	m.logger.Info("grab started", log.String("surface", surface.Name()))
}

func (m *Machine) release() {
	m.grabbing = false
	if m.anchor != nil {
		m.anchor.SetActive(false)
		m.anchor = nil
	}
	if m.attached != nil {
		m.attached.SetEnabled(true)
		m.attached = nil
	}

	for _, fn := range m.onRelease {
		fn()
	}
	m.logger.Info("grab ended")
}

func (m *Machine) Grabbing() bool { return m.grabbing }

// Attached returns the grabbed volume, or nil when idle.
func (m *Machine) Attached() *spatial.Volume { return m.attached }

// Anchor returns the anchor transform, or nil when idle.
func (m *Machine) Anchor() *physics.Transform { return m.anchor }

// Velocity returns the hand velocity estimated at the last fixed step.
func (m *Machine) Velocity() mgl64.Vec3 { return m.velocity }

func (m *Machine) Config() Config { return m.cfg }
