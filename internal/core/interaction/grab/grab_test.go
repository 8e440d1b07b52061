package grab

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/xrinteract/internal/core/observability/log"
	"github.com/zeusync/xrinteract/internal/core/spatial"
	"github.com/zeusync/xrinteract/internal/core/systems"
	"github.com/zeusync/xrinteract/internal/core/systems/physics"
)

const climbLayer spatial.Layer = 10

type controller struct {
	axis     float64
	selected bool
}

func (c *controller) Axis(h Hand, ch InputChannel) float64 {
	if h != HandRight || ch != InputTrigger {
		return 0
	}
	return c.axis
}

func (c *controller) HasSelection() bool { return c.selected }

type fixture struct {
	world  *spatial.World
	hand   *physics.Transform
	player *physics.RigidBody
	ctl    *controller
	m      *Machine
	grabs  int
	drops  int
}

func newFixture(t *testing.T, cfg Config, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		world:  spatial.NewWorld(),
		hand:   physics.NewTransform("right-hand"),
		player: physics.NewRigidBody(physics.NewTransform("player")),
		ctl:    &controller{},
	}
	opts = append([]Option{WithPlayer(f.player), WithInteractor(f.ctl)}, opts...)
	m, err := New(cfg, f.hand, f.world, f.ctl, opts...)
	require.NoError(t, err)
	m.OnGrab(func() { f.grabs++ })
	m.OnRelease(func() { f.drops++ })
	require.NoError(t, m.OnInit())
	f.m = m
	return f
}

func (f *fixture) climbable(t *testing.T, name string, center mgl64.Vec3) *spatial.Volume {
	t.Helper()
	tr := physics.NewTransform(name)
	tr.SetPosition(center)
	v := spatial.NewBox(name, climbLayer, tr, physics.Splat(0.05))
	require.NoError(t, f.world.Add(v))
	return v
}

func climbConfig(radius float64) Config {
	cfg := DefaultConfig()
	cfg.ClimbMask = spatial.MaskOf(climbLayer)
	cfg.GrabRadius = radius
	return cfg
}

func TestNewValidates(t *testing.T) {
	w := spatial.NewWorld()
	hand := physics.NewTransform("hand")

	_, err := New(Config{}, hand, w, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = New(DefaultConfig(), nil, w, nil)
	assert.ErrorIs(t, err, ErrNilHand)
	_, err = New(DefaultConfig(), hand, nil, nil)
	assert.ErrorIs(t, err, ErrNilQuery)

	m, err := New(DefaultConfig(), hand, w, nil)
	require.NoError(t, err)
	assert.Equal(t, "grab-right", m.Name())
	m.OnFrame(systems.Frame{})
	assert.False(t, m.Grabbing())
}

func TestGrabSelectsNearestClimbable(t *testing.T) {
	f := newFixture(t, climbConfig(0.25))
	// Closest-point squared distances 0.02, 0.01 and 0.05.
	f.climbable(t, "a", mgl64.Vec3{math.Sqrt(0.02) + 0.05, 0, 0})
	b := f.climbable(t, "b", mgl64.Vec3{0, math.Sqrt(0.01) + 0.05, 0})
	f.climbable(t, "c", mgl64.Vec3{0, 0, -(math.Sqrt(0.05) + 0.05)})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})

	require.True(t, f.m.Grabbing())
	assert.Same(t, b, f.m.Attached())
	assert.False(t, b.Enabled())
	assert.Equal(t, 1, f.grabs)

	anchor := f.m.Anchor()
	require.NotNil(t, anchor)
	assert.True(t, strings.HasPrefix(anchor.Name(), AnchorPrefix))
	assert.Same(t, b.Transform(), anchor.Parent())
	pos := anchor.Position()
	assert.InDeltaSlice(t, []float64{0, 0, 0}, pos[:], 1e-12)
}

func TestNearestTieKeepsFirstCandidate(t *testing.T) {
	f := newFixture(t, climbConfig(0.25))
	first := f.climbable(t, "first", mgl64.Vec3{0.125, 0, 0})
	f.climbable(t, "second", mgl64.Vec3{-0.125, 0, 0})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	assert.Same(t, first, f.m.Attached())
}

func TestNearestIsMinimumOverCandidates(t *testing.T) {
	positions := []mgl64.Vec3{
		{0.2, 0, 0}, {0, -0.11, 0}, {0.09, 0.09, 0}, {0, 0, 0.3}, {-0.15, 0.02, 0.01},
	}
	for rot := range positions {
		f := newFixture(t, climbConfig(0.5))
		var vols []*spatial.Volume
		for i := range positions {
			p := positions[(i+rot)%len(positions)]
			vols = append(vols, f.climbable(t, string(rune('a'+i)), p))
		}
		f.ctl.axis = 1
		f.m.OnFrame(systems.Frame{})
		require.True(t, f.m.Grabbing())

		origin := f.hand.Position()
		got := physics.SqrDistance(origin, f.m.Attached().ClosestPoint(origin))
		for _, v := range vols {
			if v == f.m.Attached() {
				continue
			}
			assert.LessOrEqual(t, got, physics.SqrDistance(origin, v.ClosestPoint(origin)))
		}
	}
}

func TestNoGrabOutsideRadiusOrBelowThreshold(t *testing.T) {
	f := newFixture(t, climbConfig(0.08))
	f.climbable(t, "far", mgl64.Vec3{0.5, 0, 0})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	assert.False(t, f.m.Grabbing())

	near := f.climbable(t, "near", mgl64.Vec3{0.1, 0, 0})
	f.ctl.axis = ActivationThreshold
	f.m.OnFrame(systems.Frame{})
	assert.False(t, f.m.Grabbing())

	f.ctl.axis = 0.8
	f.m.OnFrame(systems.Frame{})
	assert.Same(t, near, f.m.Attached())
}

func TestReleaseOnInputDrop(t *testing.T) {
	f := newFixture(t, climbConfig(0.08))
	v := f.climbable(t, "rung", mgl64.Vec3{0.1, 0, 0})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	anchor := f.m.Anchor()
	require.NotNil(t, anchor)

	f.m.OnFrame(systems.Frame{})
	assert.Equal(t, 1, f.grabs)

	f.ctl.axis = 0
	f.m.OnFrame(systems.Frame{})
	assert.False(t, f.m.Grabbing())
	assert.Nil(t, f.m.Attached())
	assert.Nil(t, f.m.Anchor())
	assert.False(t, anchor.Active())
	assert.True(t, v.Enabled())
	assert.Equal(t, 1, f.drops)

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	require.NotNil(t, f.m.Anchor())
	assert.NotSame(t, anchor, f.m.Anchor())
	assert.NotEqual(t, anchor.Name(), f.m.Anchor().Name())
}

func TestInteractorSelectionForcesRelease(t *testing.T) {
	f := newFixture(t, climbConfig(0.08))
	f.climbable(t, "rung", mgl64.Vec3{0.1, 0, 0})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	require.True(t, f.m.Grabbing())

	f.ctl.selected = true
	f.m.OnFrame(systems.Frame{})
	assert.False(t, f.m.Grabbing())
	assert.Nil(t, f.m.Attached())
	assert.Equal(t, 1, f.drops)

	f.m.OnFrame(systems.Frame{})
	assert.False(t, f.m.Grabbing())
	assert.Equal(t, 1, f.drops)
}

func TestGrabbingIffAttached(t *testing.T) {
	f := newFixture(t, climbConfig(0.08))
	f.climbable(t, "rung", mgl64.Vec3{0.1, 0, 0})

	seed := uint32(3)
	for iter := 0; iter < 300; iter++ {
		seed = seed*1664525 + 1013904223
		f.ctl.axis = float64(seed>>24) / 255
		f.ctl.selected = seed&0x7 == 0
		f.m.OnFrame(systems.Frame{})
		require.Equal(t, f.m.Grabbing(), f.m.Attached() != nil)
		require.Equal(t, f.m.Grabbing(), f.m.Anchor() != nil)
	}
	assert.Positive(t, f.grabs)
	assert.InDelta(t, f.grabs, f.drops, 1)
}

func TestVelocityTransferWhileGrabbing(t *testing.T) {
	f := newFixture(t, climbConfig(0.08))
	rung := f.climbable(t, "rung", mgl64.Vec3{0.1, 0, 0})

	f.ctl.axis = 1
	f.m.OnFrame(systems.Frame{})
	require.True(t, f.m.Grabbing())

	// Pulling the hand down by 0.25 asks the player to rise by the same
	// amount within one fixed step.
	f.hand.SetPosition(mgl64.Vec3{0, -0.25, 0})
	f.m.OnFixedStep(systems.Frame{DeltaTime: 0.125})
	assert.InDeltaSlice(t, []float64{0, 2, 0}, f.player.Velocity[:], 1e-12)
	vel := f.m.Velocity()
	assert.InDeltaSlice(t, []float64{0, -2, 0}, vel[:], 1e-12)

	// Moving the surface drags the anchor along.
	rung.Transform().SetPosition(mgl64.Vec3{0.1, 0.25, 0})
	f.hand.SetPosition(mgl64.Vec3{})
	f.m.OnFixedStep(systems.Frame{DeltaTime: 0.125})
	assert.InDeltaSlice(t, []float64{0, 2, 0}, f.player.Velocity[:], 1e-12)

	f.m.OnFixedStep(systems.Frame{DeltaTime: 0.125})
	assert.Equal(t, mgl64.Vec3{}, f.m.Velocity())

	f.ctl.axis = 0
	f.m.OnFrame(systems.Frame{})
	f.player.Velocity = mgl64.Vec3{}
	f.hand.SetPosition(mgl64.Vec3{1, 0, 0})
	f.m.OnFixedStep(systems.Frame{DeltaTime: 0.125})
	assert.Equal(t, mgl64.Vec3{}, f.player.Velocity)
}

func TestInstantaneousVelocityDisabled(t *testing.T) {
	cfg := climbConfig(0.08)
	cfg.UseInstantaneousVelocity = false
	f := newFixture(t, cfg)

	f.hand.SetPosition(mgl64.Vec3{1, 0, 0})
	f.m.OnFixedStep(systems.Frame{DeltaTime: 0.125})
	assert.Equal(t, mgl64.Vec3{}, f.m.Velocity())
}

func TestMissingPlayerIsLoggedNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := spatial.NewWorld()
	hand := physics.NewTransform("hand")
	ctl := &controller{axis: 1}
	m, err := New(climbConfig(0.08), hand, w, ctl, WithLogger(log.NewWithCore(core)))
	require.NoError(t, err)

	require.NoError(t, m.OnInit())
	require.Equal(t, 1, logs.FilterMessage("velocity transfer disabled").Len())

	tr := physics.NewTransform("rung")
	tr.SetPosition(mgl64.Vec3{0.1, 0, 0})
	require.NoError(t, w.Add(spatial.NewBox("rung", climbLayer, tr, physics.Splat(0.05))))
	m.OnFrame(systems.Frame{})
	assert.True(t, m.Grabbing())
	assert.NotPanics(t, func() { m.OnFixedStep(systems.Frame{DeltaTime: 0.02}) })
	assert.Equal(t, 1, logs.FilterMessage("grab started").Len())
}

func TestConfigText(t *testing.T) {
	var h Hand
	require.NoError(t, h.UnmarshalText([]byte("Left")))
	assert.Equal(t, HandLeft, h)
	assert.Error(t, h.UnmarshalText([]byte("third")))

	var c InputChannel
	require.NoError(t, c.UnmarshalText([]byte("grip")))
	assert.Equal(t, InputGrip, c)
	assert.Equal(t, "grip", c.String())
	assert.Error(t, c.UnmarshalText([]byte("thumb")))
}
