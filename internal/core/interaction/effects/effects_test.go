package effects

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
	"github.com/zeusync/xrinteract/pkg/sequence"
)

type material struct{ c colorful.Color }

func (m *material) Color() colorful.Color     { return m.c }
func (m *material) SetColor(c colorful.Color) { m.c = c }

type object struct {
	name   string
	active bool
}

func (o *object) Name() string          { return o.name }
func (o *object) Active() bool          { return o.active }
func (o *object) SetActive(active bool) { o.active = active }

type collider struct{ enabled bool }

func (c *collider) SetEnabled(enabled bool) { c.enabled = enabled }

func collect(t *testing.T, b bus.EventBus) *[]bus.Event {
	t.Helper()
	var got []bus.Event
	_, err := b.Subscribe(bus.WildcardType, func(e bus.Event) error {
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)
	return &got
}

func TestColorChange(t *testing.T) {
	red := colorful.Color{R: 1}
	m := &material{c: red}
	pressed, err := ParseColor("#0000ff")
	require.NoError(t, err)

	c := NewColorChange(m, pressed)
	c.OnHandActivation(true, true)
	assert.Equal(t, "#0000ff", m.c.Hex())
	c.OnBodyActivation(true)
	assert.Equal(t, "#0000ff", m.c.Hex())
	c.OnHandActivation(false, false)
	assert.Equal(t, red, m.c)

	assert.NotPanics(t, func() { NewColorChange(nil, pressed).OnHandActivation(true, true) })

	def, err := ParseColor("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPressedColor, def)
	_, err = ParseColor("green-ish")
	assert.Error(t, err)
}

func TestObjectToggleModes(t *testing.T) {
	self := &object{name: "self", active: true}
	a, b := &object{name: "a", active: true}, &object{name: "b", active: true}

	off := NewObjectToggle(ModeDisable, false, self, []Activatable{a, self, b})
	off.OnHandActivation(true, false)
	assert.True(t, a.active)
	off.OnHandActivation(true, true)
	assert.False(t, a.active)
	assert.False(t, b.active)
	assert.True(t, self.active)

	on := NewObjectToggle(ModeEnable, false, self, []Activatable{a, b})
	on.OnBodyActivation(true)
	assert.True(t, a.active)
	assert.True(t, b.active)
}

func TestObjectToggleAlternates(t *testing.T) {
	a := &object{name: "a"}
	tg := NewObjectToggle(ModeDisable, true, nil, []Activatable{a})

	var states []bool
	for iter := 0; iter < 4; iter++ {
		tg.OnHandActivation(false, true)
		tg.OnHandActivation(false, false)
		states = append(states, a.active)
	}
	assert.Equal(t, []bool{true, false, true, false}, states)
}

func TestObjectToggleWithoutTargetsLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tg := NewObjectToggle(ModeEnable, false, nil, nil, WithLogger(log.NewWithCore(core)), WithName("gate"))
	tg.OnHandActivation(true, true)
	entries := logs.FilterMessage("no target objects configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "gate", entries[0].ContextMap()["button"])

	var mode ToggleMode
	require.NoError(t, mode.UnmarshalText([]byte("Enable")))
	assert.Equal(t, ModeEnable, mode)
	assert.Error(t, mode.UnmarshalText([]byte("flip")))
}

func TestEventTriggerTouchModes(t *testing.T) {
	tests := []struct {
		mode       TouchMode
		hand, body int
	}{
		{TouchHand, 1, 0},
		{TouchBody, 0, 1},
		{TouchBoth, 1, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.mode.String(), func(t *testing.T) {
			b := bus.New()
			got := collect(t, b)
			calls := 0
			e := NewEventTrigger(tt.mode, WithBus(b), WithName("bell"), WithClock(func() float64 { return 2.5 }))
			e.OnPress(func() { calls++ })

			e.OnHandActivation(true, true)
			e.OnHandActivation(true, false)
			assert.Equal(t, tt.hand, calls)
			e.OnBodyActivation(true)
			e.OnBodyActivation(false)
			assert.Equal(t, tt.hand+tt.body, calls)

			require.Len(t, *got, calls)
			for _, ev := range *got {
				assert.Equal(t, bus.TypeButtonTriggered, ev.Type())
				assert.Equal(t, "bell", ev.Source())
				assert.Equal(t, 2.5, ev.Time())
			}
		})
	}
}

func TestPublisherMirrorsButtonEvents(t *testing.T) {
	b := bus.New()
	got := collect(t, b)
	p := NewPublisher(WithBus(b), WithName("door"))

	p.OnHandActivation(true, true)
	p.OnHandHold(true, 0.5)
	p.OnHandActivation(true, false)
	p.OnBodyActivation(true)

	require.Len(t, *got, 4)
	assert.Equal(t, bus.TypeButtonPressed, (*got)[0].Type())
	assert.Equal(t, bus.ButtonEvent{Button: "door", Channel: "left_hand", Pressed: true, Duration: 0.5}, (*got)[1].Data())
	assert.Equal(t, bus.TypeButtonReleased, (*got)[2].Type())
	assert.Equal(t, bus.ButtonEvent{Button: "door", Channel: "body", Pressed: true}, (*got)[3].Data())

	assert.NotPanics(t, func() { NewPublisher().OnBodyHold(1) })
}

type teleportFixture struct {
	sched     *sequence.Scheduler
	dest      *physics.Transform
	player    *physics.Transform
	body      *physics.RigidBody
	colliders []*collider
	enable    *object
	disable   *object
	events    *[]bus.Event
	tp        *Teleport
}

func newTeleportFixture(t *testing.T, cfg TeleportConfig, withBody bool) *teleportFixture {
	t.Helper()
	f := &teleportFixture{
		sched:     sequence.NewScheduler(),
		dest:      physics.NewTransform("dest"),
		player:    physics.NewTransform("player"),
		colliders: []*collider{{enabled: true}, {enabled: true}},
		enable:    &object{name: "on"},
		disable:   &object{name: "off", active: true},
	}
	f.dest.SetPosition(mgl64.Vec3{10, 2, -4})
	f.dest.SetRotation(mgl64.QuatRotate(mgl64.DegToRad(90), mgl64.Vec3{0, 1, 0}))
	if withBody {
		f.body = physics.NewRigidBody(f.player)
		f.body.Velocity = mgl64.Vec3{0, -3, 0}
	}
	b := bus.New()
	f.events = collect(t, b)

	targets := TeleportTargets{
		Destination:    f.dest,
		Player:         f.player,
		Body:           f.body,
		Colliders:      []Collider{f.colliders[0], f.colliders[1]},
		EnableObjects:  []Activatable{f.enable},
		DisableObjects: []Activatable{f.disable},
	}
	tp, err := NewTeleport(cfg, targets, f.sched, WithBus(b), WithName("portal"), WithClock(f.sched.Time))
	require.NoError(t, err)
	f.tp = tp
	return f
}

func (f *teleportFixture) collidersEnabled() []bool {
	out := make([]bool, len(f.colliders))
	for i, c := range f.colliders {
		out[i] = c.enabled
	}
	return out
}

func TestTeleportWithRigidBody(t *testing.T) {
	cfg := TeleportConfig{Delay: 0.25, GravityDelay: 0.5, Timeout: 10}
	f := newTeleportFixture(t, cfg, true)

	f.tp.OnHandActivation(false, true)
	assert.True(t, f.tp.InProgress())
	assert.Equal(t, []bool{false, false}, f.collidersEnabled())

	// A second press while running is ignored.
	f.tp.OnBodyActivation(true)
	assert.Equal(t, 1, f.sched.Len())

	f.sched.Tick(0.25)
	assert.True(t, f.body.Kinematic)
	assert.False(t, f.body.UseGravity)
	assert.Equal(t, mgl64.Vec3{}, f.body.Velocity)
	assert.True(t, f.enable.active)
	assert.False(t, f.disable.active)
	assert.Equal(t, mgl64.Vec3{}, f.player.Position())

	f.sched.Tick(0.125)
	assert.Equal(t, f.dest.Position(), f.player.Position())
	assert.True(t, f.dest.Rotation().ApproxEqual(f.player.Rotation()))

	f.sched.Tick(0.5)
	assert.False(t, f.body.UseGravity)
	f.sched.Tick(0.03125)
	assert.True(t, f.body.UseGravity)
	assert.True(t, f.body.Kinematic)
	assert.True(t, f.tp.InProgress())

	f.sched.Tick(0.125)
	assert.False(t, f.body.Kinematic)
	assert.False(t, f.tp.InProgress())
	assert.Equal(t, []bool{true, true}, f.collidersEnabled())

	require.Len(t, *f.events, 2)
	assert.Equal(t, bus.TypeTeleportStarted, (*f.events)[0].Type())
	finished := (*f.events)[1]
	assert.Equal(t, bus.TypeTeleportFinished, finished.Type())
	assert.Equal(t, bus.TeleportEvent{Button: "portal", Destination: [3]float64{10, 2, -4}, Outcome: "completed"}, finished.Data())
	assert.Equal(t, 1.03125, finished.Time())

	f.tp.OnHandActivation(false, true)
	assert.True(t, f.tp.InProgress(), "a new teleport may start once the previous one ended")
}

func TestTeleportWithoutRigidBodyMovesDirectly(t *testing.T) {
	f := newTeleportFixture(t, DefaultTeleportConfig(), false)
	f.tp.OnHandActivation(true, true)

	assert.Equal(t, f.dest.Position(), f.player.Position())
	assert.Equal(t, mgl64.QuatIdent(), f.player.Rotation())
	assert.False(t, f.tp.InProgress())
	assert.Equal(t, []bool{true, true}, f.collidersEnabled())
	assert.False(t, f.enable.active)
	assert.Equal(t, 0, f.sched.Len())
}

func TestTeleportUsesDestinationPoseAtPress(t *testing.T) {
	f := newTeleportFixture(t, TeleportConfig{Delay: 0.25, GravityDelay: 0.5, Timeout: 10}, true)
	want, wantRot := f.dest.Position(), f.dest.Rotation()

	f.tp.OnHandActivation(true, true)
	f.dest.SetPosition(mgl64.Vec3{-1, 0, 0})
	f.dest.SetRotation(mgl64.QuatIdent())
	f.sched.Tick(2)

	assert.False(t, f.tp.InProgress())
	assert.Equal(t, want, f.player.Position())
	assert.True(t, wantRot.ApproxEqual(f.player.Rotation()))
}

func TestTeleportCancelRestoresColliders(t *testing.T) {
	f := newTeleportFixture(t, TeleportConfig{Delay: 0, GravityDelay: 1, Timeout: 10}, true)
	f.tp.OnHandActivation(true, true)
	f.sched.Tick(0.125)
	require.True(t, f.body.Kinematic)

	f.tp.Cancel()
	assert.False(t, f.tp.InProgress())
	assert.Equal(t, []bool{true, true}, f.collidersEnabled())
	assert.False(t, f.body.Kinematic)
	assert.True(t, f.body.UseGravity)
	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, "cancelled", last.Data().(bus.TeleportEvent).Outcome)
}

func TestTeleportTimeout(t *testing.T) {
	f := newTeleportFixture(t, TeleportConfig{Delay: 5, GravityDelay: 1, Timeout: 2}, true)
	f.tp.OnHandActivation(true, true)
	f.sched.Tick(1)
	assert.True(t, f.tp.InProgress())
	f.sched.Tick(1)
	assert.False(t, f.tp.InProgress())
	assert.Equal(t, []bool{true, true}, f.collidersEnabled())
	assert.Equal(t, mgl64.Vec3{}, f.player.Position())
	last := (*f.events)[len(*f.events)-1]
	assert.Equal(t, "timed_out", last.Data().(bus.TeleportEvent).Outcome)
}

func TestTeleportMissingReferences(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sched := sequence.NewScheduler()
	c := &collider{enabled: true}

	tp, err := NewTeleport(DefaultTeleportConfig(), TeleportTargets{Colliders: []Collider{c}}, sched, WithLogger(log.NewWithCore(core)))
	require.NoError(t, err)
	assert.True(t, tp.Disabled())
	tp.OnHandActivation(true, true)
	assert.True(t, c.enabled)
	assert.Equal(t, 1, logs.FilterMessage("teleport disabled").Len())

	dest := physics.NewTransform("dest")
	tp, err = NewTeleport(DefaultTeleportConfig(), TeleportTargets{Destination: dest}, sched, WithLogger(log.NewWithCore(core)))
	require.NoError(t, err)
	assert.False(t, tp.Disabled())
	assert.NotPanics(t, func() { tp.OnHandActivation(true, true) })
	assert.False(t, tp.InProgress())
	assert.Equal(t, 1, logs.FilterMessage("teleport will not move anything").Len())

	_, err = NewTeleport(DefaultTeleportConfig(), TeleportTargets{}, nil)
	assert.ErrorIs(t, err, ErrNoScheduler)
	_, err = NewTeleport(TeleportConfig{Delay: -1}, TeleportTargets{}, sched)
	assert.Error(t, err)
}
