package scene

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/zeusync/xrinteract/internal/core/actors"
	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/interaction/button"
	"github.com/zeusync/xrinteract/internal/core/interaction/effects"
	"github.com/zeusync/xrinteract/internal/core/interaction/grab"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
	"github.com/zeusync/xrinteract/pkg/sequence"
)

type Option func(*builder)

func WithLogger(l log.Log) Option {
	return func(b *builder) { b.logger = log.OrNop(l) }
}

// WithBus sets the bus interaction events are published on. By default a
// private in-memory bus is created.
func WithBus(eb bus.EventBus) Option {
	return func(b *builder) { b.bus = eb }
}

func WithRunnerConfig(cfg systems.RunnerConfig) Option {
	return func(b *builder) { b.runnerCfg = cfg }
}

// Scene is an assembled simulation ready to be stepped through Runner.
type Scene struct {
	Name      string
	Duration  float64
	World     *spatial.World
	Registry  *actors.Registry
	Actors    actors.Set
	Objects   map[string]*Object
	Buttons   []*button.Machine
	Effects   map[string]button.Handler
	Grabs     []*grab.Machine
	Script    *Script
	Scheduler *sequence.Scheduler
	Runner    *systems.Runner
	Bus       bus.EventBus
}

// Object returns the named object, or nil.
func (s *Scene) Object(name string) *Object { return s.Objects[name] }

// Run steps the scene for its scripted duration with a fixed frame delta.
// Sequences still pending when it returns are cancelled on the calling
// goroutine, after the last step.
func (s *Scene) Run(ctx context.Context, dt float64) error {
	defer s.Scheduler.CancelAll()
	return s.Runner.RunFor(ctx, s.Duration, dt)
}

// RunRealtime is Run on a wall-clock ticker.
func (s *Scene) RunRealtime(ctx context.Context, interval time.Duration) error {
	defer s.Scheduler.CancelAll()
	return s.Runner.RunRealtime(ctx, interval, s.Duration)
}

type builder struct {
	logger    log.Log
	bus       bus.EventBus
	runnerCfg systems.RunnerConfig

	desc    *Description
	scene   *Scene
	order   []*Object
	gravity mgl64.Vec3
}

// Build assembles d. Systems are registered in this order: script, grab
// points, buttons, sequences, physics. Poses are therefore up to date when
// detection runs and climbing velocities are set before integration.
func Build(d *Description, opts ...Option) (*Scene, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil description", ErrInvalidScene)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		logger:    log.Nop(),
		runnerCfg: systems.DefaultRunnerConfig(),
		desc:      d,
		gravity:   physics.DefaultGravity,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.bus == nil {
		b.bus = bus.New()
	}
	if d.Physics.Gravity != nil {
		b.gravity = *d.Physics.Gravity
	}
	b.logger = b.logger.With(log.Component("scene"), log.String("scene", d.Name))

	runner, err := systems.NewRunner(b.runnerCfg, b.logger)
	if err != nil {
		return nil, err
	}
	b.scene = &Scene{
		Name:      d.Name,
		Duration:  d.Script.Duration,
		World:     spatial.NewWorld(),
		Registry:  actors.NewRegistry(),
		Objects:   make(map[string]*Object, len(d.Objects)),
		Effects:   make(map[string]button.Handler, len(d.Buttons)),
		Scheduler: sequence.NewScheduler(),
		Runner:    runner,
		Bus:       b.bus,
	}

	steps := []func() error{
		b.buildObjects,
		b.buildScript,
		b.buildGrabs,
		b.buildButtons,
		b.registerRuntime,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	b.logger.Info("scene built",
		log.Int("objects", len(b.order)),
		log.Int("volumes", b.scene.World.Len()),
		log.Int("buttons", len(b.scene.Buttons)),
		log.Int("grabs", len(b.scene.Grabs)),
	)
	return b.scene, nil
}

func (b *builder) buildObjects() error {
	s := b.scene
	for _, od := range b.desc.Objects {
		o := NewObject(od.Name, spatial.Layer(od.Layer))
		o.Tag = od.Tag
		o.SetLocalPosition(od.Position)
		o.SetLocalRotation(eulerToQuat(od.Rotation))
		o.SetLocalScale(od.Scale)
		if od.Color != "" {
			c, err := effects.ParseColor(od.Color)
			if err != nil {
				return err
			}
			o.SetColor(c)
		}
		if od.Mesh != nil {
			o.SetMesh(physics.Bounds{Center: od.Mesh.Center, Extents: od.Mesh.Extents}, od.Mesh.Skinned)
		}
		for i, vd := range od.Volumes {
			name := vd.Name
			if name == "" {
				name = od.Name
				if i > 0 {
					name += "#" + strconv.Itoa(i)
				}
			}
			layer := o.Layer
			if vd.Layer != nil {
				layer = spatial.Layer(*vd.Layer)
			}
			var v *spatial.Volume
			if vd.Shape == "sphere" {
				v = o.AddSphere(name, layer, vd.Center, vd.Radius)
			} else {
				v = o.AddBox(name, layer, vd.Center, vd.HalfExtents)
			}
			if err := s.World.Add(v); err != nil {
				return fmt.Errorf("object %q: %w", od.Name, err)
			}
		}
		if od.Body != nil {
			o.Body = physics.NewRigidBody(o.Transform)
			o.Body.Kinematic = od.Body.Kinematic
			o.Body.UseGravity = !od.Body.NoGravity
		}
		s.Objects[od.Name] = o
		b.order = append(b.order, o)
	}

	for _, od := range b.desc.Objects {
		if od.Parent == "" {
			continue
		}
		if err := s.Objects[od.Name].SetParent(s.Objects[od.Parent].Transform, false); err != nil {
			return fmt.Errorf("object %q: %w", od.Name, err)
		}
	}
	// Deactivate after parenting so volumes follow their owner.
	for i, od := range b.desc.Objects {
		if od.Inactive {
			b.order[i].SetActive(false)
		}
	}

	for _, o := range b.order {
		s.Registry.Register(actors.Entry{Name: o.Name(), Tag: o.Tag, Layer: o.Layer, Transform: o.Transform})
	}
	s.Actors = s.Registry.Resolve()
	if missing := s.Actors.Missing(); len(missing) > 0 {
		b.logger.Warn("tracked actors missing", log.Any("actors", missing))
	}
	return nil
}

func (b *builder) buildScript() error {
	targets := make(map[string]*physics.Transform, len(b.scene.Objects))
	for name, o := range b.scene.Objects {
		targets[name] = o.Transform
	}
	b.scene.Script = NewScript(b.desc.Script, targets)
	return b.scene.Runner.Register(b.scene.Script.System())
}

func (b *builder) buildGrabs() error {
	s := b.scene
	for i, gd := range b.desc.Grabs {
		cfg := grab.Config(gd.Config)
		for _, l := range gd.ClimbLayers {
			cfg.ClimbMask |= spatial.MaskOf(spatial.Layer(l))
		}
		name := gd.Name
		if name == "" {
			name = "grab-" + strconv.Itoa(i) + "-" + cfg.Hand.String()
		}

		opts := []grab.Option{
			grab.WithName(name),
			grab.WithLogger(b.logger),
			grab.WithInteractor(s.Script.Interactor(cfg.Hand)),
		}
		if player := s.Objects[gd.Player]; player != nil && player.Body != nil {
			opts = append(opts, grab.WithPlayer(player.Body))
		}

		m, err := grab.New(cfg, s.Objects[gd.HandObject].Transform, s.World, s.Script, opts...)
		if err != nil {
			return fmt.Errorf("grab %q: %w", name, err)
		}
		hand := cfg.Hand.String()
		m.OnGrab(func() {
			b.publish(bus.TypeGrabStarted, name, bus.GrabEvent{GrabPoint: name, Hand: hand, Surface: m.Attached().Name()})
		})
		m.OnRelease(func() {
			b.publish(bus.TypeGrabEnded, name, bus.GrabEvent{GrabPoint: name, Hand: hand})
		})
		if err := s.Runner.Register(m); err != nil {
			return err
		}
		s.Grabs = append(s.Grabs, m)
	}
	return nil
}

func (b *builder) buildButtons() error {
	s := b.scene
	for _, bd := range b.desc.Buttons {
		owner := s.Objects[bd.Object]
		common := []effects.Option{
			effects.WithName(bd.Name),
			effects.WithLogger(b.logger),
			effects.WithBus(b.bus),
			effects.WithClock(s.Runner.Time),
		}

		effect, err := b.effect(bd, owner, common)
		if err != nil {
			return fmt.Errorf("button %q: %w", bd.Name, err)
		}
		handlers := button.Handlers{effects.NewPublisher(common...)}
		if effect != nil {
			handlers = append(button.Handlers{effect}, handlers...)
			s.Effects[bd.Name] = effect
		}

		m, err := button.New(button.Config(bd.Config), owner, s.Actors, s.World, handlers,
			button.WithName(bd.Name),
			button.WithLogger(b.logger),
		)
		if err != nil {
			return fmt.Errorf("button %q: %w", bd.Name, err)
		}
		if err := s.Runner.Register(m); err != nil {
			return err
		}
		s.Buttons = append(s.Buttons, m)
	}
	return nil
}

func (b *builder) effect(bd ButtonDesc, owner *Object, opts []effects.Option) (button.Handler, error) {
	e := bd.Effect
	switch e.Type {
	case EffectColor:
		pressed, err := effects.ParseColor(e.Color)
		if err != nil {
			return nil, err
		}
		return effects.NewColorChange(owner, pressed, opts...), nil

	case EffectToggle:
		return effects.NewObjectToggle(e.Mode, e.Toggle, owner, b.activatables(e.Targets), opts...), nil

	case EffectTeleport:
		targets := effects.TeleportTargets{
			EnableObjects:  b.activatables(e.EnableObjects),
			DisableObjects: b.activatables(e.DisableObjects),
		}
		if dest := b.scene.Objects[e.Destination]; dest != nil {
			targets.Destination = dest
		}
		if player := b.scene.Objects[e.Player]; player != nil {
			targets.Player = player.Transform
			targets.Body = player.Body
		}
		for _, name := range e.Colliders {
			if o := b.scene.Objects[name]; o != nil {
				targets.Colliders = append(targets.Colliders, o)
			}
		}
		return effects.NewTeleport(effects.TeleportConfig(e.Teleport), targets, b.scene.Scheduler, opts...)

	case EffectTrigger:
		t := effects.NewEventTrigger(e.Touch, opts...)
		name := bd.Name
		t.OnPress(func() { b.logger.Info("event triggered", log.String("button", name)) })
		return t, nil
	}
	return nil, nil
}

func (b *builder) activatables(names []string) []effects.Activatable {
	out := make([]effects.Activatable, 0, len(names))
	for _, n := range names {
		if o := b.scene.Objects[n]; o != nil {
			out = append(out, o)
		}
	}
	return out
}

// registerRuntime adds the sequence scheduler, ticked once per frame, and
// rigid body integration, run every fixed step.
func (b *builder) registerRuntime() error {
	s := b.scene
	var bodies []*physics.RigidBody
	for _, o := range b.order {
		if o.Body != nil {
			bodies = append(bodies, o.Body)
		}
	}
	floor := b.desc.Physics.Floor

	sequences := systems.Hooks{
		ID:    "sequences",
		Frame: func(f systems.Frame) { s.Scheduler.Tick(f.DeltaTime) },
	}
	integrate := systems.Hooks{
		ID: "physics",
		FixedStep: func(f systems.Frame) {
			for _, rb := range bodies {
				rb.Integrate(f.DeltaTime, b.gravity)
				if floor != nil {
					clampToFloor(rb, *floor)
				}
			}
		},
	}
	if err := s.Runner.Register(sequences); err != nil {
		return err
	}
	return s.Runner.Register(integrate)
}

func clampToFloor(rb *physics.RigidBody, floor float64) {
	if rb.Kinematic {
		return
	}
	p := rb.Transform.Position()
	if p[1] >= floor {
		return
	}
	p[1] = floor
	rb.Transform.SetPosition(p)
	if rb.Velocity[1] < 0 {
		rb.Velocity[1] = 0
	}
}

func (b *builder) publish(eventType, source string, data any) {
	if err := b.bus.Publish(bus.NewEvent(eventType, source, b.scene.Runner.Time(), data)); err != nil {
		b.logger.Warn("event handler failed", log.String("type", eventType), log.Error(err))
	}
}
