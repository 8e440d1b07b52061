package effects

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/interaction/button"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
	"github.com/zeusync/xrinteract/pkg/sequence"
)

var (
	ErrNoScheduler   = errors.New("teleport scheduler is nil")
	ErrNoDestination = errors.New("teleport destination not assigned")
	ErrNoPlayer      = errors.New("teleport player not assigned")
)

// Pauses around the pose change of a physics-driven player.
const (
	settleDelay  = 0.1
	confirmDelay = 0.05
	releaseDelay = 0.1
)

// TeleportConfig holds the timings of a teleport, in seconds.
type TeleportConfig struct {
	Delay float64 `yaml:"delay" mapstructure:"delay"`
	// GravityDelay keeps gravity off after arrival.
	GravityDelay float64 `yaml:"gravity_delay" mapstructure:"gravity_delay"`
	// Timeout bounds the whole sequence; zero disables it.
	Timeout float64 `yaml:"timeout" mapstructure:"timeout"`
}

func DefaultTeleportConfig() TeleportConfig {
	return TeleportConfig{Delay: 0, GravityDelay: 1, Timeout: 10}
}

func (c TeleportConfig) Validate() error {
	if c.Delay < 0 || c.GravityDelay < 0 || c.Timeout < 0 {
		return fmt.Errorf("teleport timings must not be negative: %+v", c)
	}
	return nil
}

// TeleportTargets are the scene references a teleport acts on. Body is
// optional; without it the player is moved directly.
type TeleportTargets struct {
	Destination physics.Posed
	Player      *physics.Transform
	Body        *physics.RigidBody
	// Colliders are disabled for the duration of the sequence so the player
	// can pass through geometry.
	Colliders      []Collider
	EnableObjects  []Activatable
	DisableObjects []Activatable
}

// Teleport moves the player to a destination on press. Only one sequence
// runs at a time; presses while it runs are ignored. Colliders are
// re-enabled and the in-progress flag cleared however the sequence ends.
type Teleport struct {
	button.NopHandler
	common

	cfg       TeleportConfig
	targets   TeleportTargets
	scheduler *sequence.Scheduler

	disabled bool
	current  *sequence.Sequence
}

var _ button.Handler = (*Teleport)(nil)

// NewTeleport validates its inputs. Missing scene references are logged,
// not returned: without a destination the effect stays inert, without a
// player the sequence runs but moves nothing.
func NewTeleport(cfg TeleportConfig, targets TeleportTargets, scheduler *sequence.Scheduler, opts ...Option) (*Teleport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if scheduler == nil {
		return nil, ErrNoScheduler
	}
	t := &Teleport{
		common:    newCommon("teleport", opts),
		cfg:       cfg,
		targets:   targets,
		scheduler: scheduler,
	}

	switch {
	case targets.Destination == nil:
		t.logger.Error("teleport disabled", log.Error(ErrNoDestination))
		t.disabled = true
	case targets.Player == nil:
		t.logger.Error("teleport will not move anything", log.Error(ErrNoPlayer))
	case targets.Body == nil:
		t.logger.Warn("player has no rigid body, moving transform directly")
	}
	return t, nil
}

func (t *Teleport) OnHandActivation(_, isPressed bool) { t.handle(isPressed) }
func (t *Teleport) OnBodyActivation(isPressed bool)    { t.handle(isPressed) }

// InProgress reports whether a teleport sequence is running.
func (t *Teleport) InProgress() bool { return t.current != nil }

// Disabled reports whether the effect was disabled at construction.
func (t *Teleport) Disabled() bool { return t.disabled }

// Cancel aborts a running teleport. The finalizer still runs.
func (t *Teleport) Cancel() {
	if t.current != nil {
		t.current.Cancel()
	}
}

func (t *Teleport) handle(isPressed bool) {
	if !isPressed || t.disabled {
		return
	}
	if t.current != nil {
		t.logger.Debug("teleport already in progress")
		return
	}

	t.setColliders(false)
	// The destination pose is taken at press time.
	dest := t.targets.Destination
	seq := t.build(dest.Position(), dest.Rotation())
	t.current = seq
	t.publish(bus.TypeTeleportStarted, t.payload(""))
	if err := t.scheduler.Start(seq); err != nil {
		t.logger.Error("teleport sequence not started", log.Error(err))
		t.finish(sequence.OutcomeCancelled)
	}
}

func (t *Teleport) build(pos mgl64.Vec3, rot mgl64.Quat) *sequence.Sequence {
	seq := sequence.New("teleport-" + t.name).
		WithTimeout(t.cfg.Timeout).
		Wait(t.cfg.Delay)

	player, body := t.targets.Player, t.targets.Body
	switch {
	case player == nil:
	case body == nil:
		// Only the position of a transform-driven player changes.
		seq.Do(func() { t.move(pos) })
	default:
		seq.Do(func() {
			body.Kinematic = true
			body.UseGravity = false
			body.Velocity = mgl64.Vec3{}
			t.applyObjects()
		}).
			Wait(settleDelay).
			Do(func() { t.move(pos); player.SetRotation(rot) }).
			Wait(confirmDelay).
			Do(func() { t.move(pos); player.SetRotation(rot) }).
			Wait(t.cfg.GravityDelay).
			Do(func() { body.UseGravity = true }).
			Wait(releaseDelay).
			Do(func() { body.Kinematic = false })
	}
	return seq.Finally(t.finish)
}

func (t *Teleport) move(p mgl64.Vec3) {
	t.targets.Player.SetPosition(p)
	t.logger.Info("player teleported",
		log.Float64("x", p[0]), log.Float64("y", p[1]), log.Float64("z", p[2]))
}

func (t *Teleport) applyObjects() {
	for _, o := range t.targets.EnableObjects {
		if o != nil {
			o.SetActive(true)
		}
	}
	for _, o := range t.targets.DisableObjects {
		if o != nil {
			o.SetActive(false)
		}
	}
}

func (t *Teleport) finish(outcome sequence.Outcome) {
	if outcome != sequence.OutcomeCompleted {
		if body := t.targets.Body; body != nil {
			body.Kinematic = false
			body.UseGravity = true
		}
		t.logger.Warn("teleport interrupted", log.Stringer("outcome", outcome))
	}
	t.setColliders(true)
	t.current = nil
	t.publish(bus.TypeTeleportFinished, t.payload(outcome.String()))
}

func (t *Teleport) setColliders(enabled bool) {
	for _, c := range t.targets.Colliders {
		if c != nil {
			c.SetEnabled(enabled)
		}
	}
}

func (t *Teleport) payload(outcome string) bus.TeleportEvent {
	var dest [3]float64
	if t.targets.Destination != nil {
		dest = t.targets.Destination.Position()
	}
	return bus.TeleportEvent{Button: t.name, Destination: dest, Outcome: outcome}
}
