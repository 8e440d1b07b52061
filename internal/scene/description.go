// Package scene loads a YAML scene description and assembles it into a
// runnable simulation: a spatial world, the tracked actors, buttons with
// their effects, grab points and a keyframe script driving hands and inputs.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/xrinteract/internal/core/interaction/button"
	"github.com/zeusync/xrinteract/internal/core/interaction/effects"
	"github.com/zeusync/xrinteract/internal/core/interaction/grab"
	"github.com/zeusync/xrinteract/internal/core/spatial"
)

var ErrInvalidScene = errors.New("invalid scene")

// Effect kinds accepted in a button description.
const (
	EffectNone     = "none"
	EffectColor    = "color"
	EffectToggle   = "toggle"
	EffectTeleport = "teleport"
	EffectTrigger  = "trigger"
)

// Description is the decoded scene file.
type Description struct {
	Name    string       `yaml:"name"`
	Physics PhysicsDesc  `yaml:"physics"`
	Objects []ObjectDesc `yaml:"objects"`
	Buttons []ButtonDesc `yaml:"buttons"`
	Grabs   []GrabDesc   `yaml:"grabs"`
	Script  ScriptDesc   `yaml:"script"`
}

type PhysicsDesc struct {
	// Gravity defaults to physics.DefaultGravity when omitted.
	Gravity *mgl64.Vec3 `yaml:"gravity"`
	// Floor, when set, stops bodies from falling below this height.
	Floor *float64 `yaml:"floor"`
}

// ObjectDesc describes one scene node. Position and rotation are local to
// the parent; rotation is given as euler angles in degrees.
type ObjectDesc struct {
	Name     string       `yaml:"name"`
	Parent   string       `yaml:"parent"`
	Tag      string       `yaml:"tag"`
	Layer    uint8        `yaml:"layer"`
	Inactive bool         `yaml:"inactive"`
	Position mgl64.Vec3   `yaml:"position"`
	Rotation mgl64.Vec3   `yaml:"rotation"`
	Scale    mgl64.Vec3   `yaml:"scale"`
	Color    string       `yaml:"color"`
	Mesh     *MeshDesc    `yaml:"mesh"`
	Volumes  []VolumeDesc `yaml:"volumes"`
	Body     *BodyDesc    `yaml:"rigid_body"`
}

// MeshDesc gives the local bounds of an object's mesh. A skinned mesh only
// exposes renderer bounds.
type MeshDesc struct {
	Center  mgl64.Vec3 `yaml:"center"`
	Extents mgl64.Vec3 `yaml:"extents"`
	Skinned bool       `yaml:"skinned"`
}

type VolumeDesc struct {
	Name        string     `yaml:"name"`
	Shape       string     `yaml:"shape"`
	Layer       *uint8     `yaml:"layer"`
	Center      mgl64.Vec3 `yaml:"center"`
	HalfExtents mgl64.Vec3 `yaml:"half_extents"`
	Radius      float64    `yaml:"radius"`
}

type BodyDesc struct {
	Kinematic bool `yaml:"kinematic"`
	NoGravity bool `yaml:"no_gravity"`
}

type ButtonDesc struct {
	Name   string       `yaml:"name"`
	Object string       `yaml:"object"`
	Config ButtonConfig `yaml:"config"`
	Effect EffectDesc   `yaml:"effect"`
}

// EffectDesc selects and configures the effect of a button. Only the fields
// of the selected type are read.
type EffectDesc struct {
	Type string `yaml:"type"`

	Color string `yaml:"color"`

	Mode    effects.ToggleMode `yaml:"mode"`
	Toggle  bool               `yaml:"toggle"`
	Targets []string           `yaml:"targets"`

	Destination    string         `yaml:"destination"`
	Player         string         `yaml:"player"`
	Colliders      []string       `yaml:"colliders"`
	EnableObjects  []string       `yaml:"enable_objects"`
	DisableObjects []string       `yaml:"disable_objects"`
	Teleport       TeleportConfig `yaml:"teleport"`

	Touch effects.TouchMode `yaml:"touch"`
}

type GrabDesc struct {
	Name string `yaml:"name"`
	// HandObject is the tracked transform the grab point follows.
	HandObject string `yaml:"hand_object"`
	// Player is the object whose rigid body receives the climbing velocity.
	Player      string     `yaml:"player"`
	ClimbLayers []uint8    `yaml:"climb_layers"`
	Config      GrabConfig `yaml:"config"`
}

// ScriptDesc drives the simulation: object tracks move transforms, axis
// tracks feed controller inputs and selection tracks mark hands holding a
// regular grabbable. Keys of each track must be in ascending time order.
type ScriptDesc struct {
	Duration   float64         `yaml:"duration"`
	Tracks     []TrackDesc     `yaml:"tracks"`
	Axes       []AxisTrackDesc `yaml:"axes"`
	Selections []AxisTrackDesc `yaml:"selections"`
}

type TrackDesc struct {
	Object string        `yaml:"object"`
	Keys   []PositionKey `yaml:"keys"`
}

type PositionKey struct {
	T        float64    `yaml:"t"`
	Position mgl64.Vec3 `yaml:"position"`
}

type AxisTrackDesc struct {
	Hand    grab.Hand         `yaml:"hand"`
	Channel grab.InputChannel `yaml:"channel"`
	Keys    []AxisKey         `yaml:"keys"`
}

type AxisKey struct {
	T     float64 `yaml:"t"`
	Value float64 `yaml:"value"`
}

// ButtonConfig decodes onto button.DefaultConfig so omitted fields keep
// their defaults.
type ButtonConfig button.Config

func (c *ButtonConfig) UnmarshalYAML(node *yaml.Node) error {
	cfg := button.DefaultConfig()
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*c = ButtonConfig(cfg)
	return nil
}

// GrabConfig decodes onto grab.DefaultConfig.
type GrabConfig grab.Config

func (c *GrabConfig) UnmarshalYAML(node *yaml.Node) error {
	cfg := grab.DefaultConfig()
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*c = GrabConfig(cfg)
	return nil
}

// TeleportConfig decodes onto effects.DefaultTeleportConfig.
type TeleportConfig effects.TeleportConfig

func (c *TeleportConfig) UnmarshalYAML(node *yaml.Node) error {
	cfg := effects.DefaultTeleportConfig()
	if err := node.Decode(&cfg); err != nil {
		return err
	}
	*c = TeleportConfig(cfg)
	return nil
}

// Load decodes a scene from r and validates it. Unknown top-level and
// object fields are rejected.
func Load(r io.Reader) (*Description, error) {
	var d Description
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// LoadFile loads the scene at path.
func LoadFile(path string) (*Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	d, err := Load(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// applyDefaults fills in what a config block left out entirely; blocks
// that are present were already decoded onto their defaults.
func (d *Description) applyDefaults() {
	for i := range d.Objects {
		if d.Objects[i].Scale == (mgl64.Vec3{}) {
			d.Objects[i].Scale = mgl64.Vec3{1, 1, 1}
		}
	}
	for i := range d.Buttons {
		b := &d.Buttons[i]
		if b.Config == (ButtonConfig{}) {
			b.Config = ButtonConfig(button.DefaultConfig())
		}
		if b.Effect.Type == EffectTeleport && b.Effect.Teleport == (TeleportConfig{}) {
			b.Effect.Teleport = TeleportConfig(effects.DefaultTeleportConfig())
		}
		if b.Name == "" {
			b.Name = b.Object
		}
	}
	for i := range d.Grabs {
		g := &d.Grabs[i]
		if g.Config == (GrabConfig{}) {
			g.Config = GrabConfig(grab.DefaultConfig())
		}
	}
}

// Validate reports every structural problem of the description at once.
func (d *Description) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidScene}, args...)...))
	}

	names := make(map[string]int, len(d.Objects))
	for i, o := range d.Objects {
		if o.Name == "" {
			fail("object %d has no name", i)
			continue
		}
		if _, dup := names[o.Name]; dup {
			fail("duplicate object %q", o.Name)
		}
		names[o.Name] = i
		if spatial.Layer(o.Layer) > spatial.MaxLayer {
			fail("object %q: layer %d out of range", o.Name, o.Layer)
		}
		if o.Color != "" {
			if _, err := effects.ParseColor(o.Color); err != nil {
				fail("object %q: %v", o.Name, err)
			}
		}
		for j, v := range o.Volumes {
			switch v.Shape {
			case "box", "":
				if v.HalfExtents == (mgl64.Vec3{}) && o.Mesh == nil {
					fail("object %q: box volume %d has no size", o.Name, j)
				}
			case "sphere":
				if v.Radius <= 0 {
					fail("object %q: sphere volume %d needs a positive radius", o.Name, j)
				}
			default:
				fail("object %q: unknown volume shape %q", o.Name, v.Shape)
			}
			if v.Layer != nil && spatial.Layer(*v.Layer) > spatial.MaxLayer {
				fail("object %q: volume %d layer %d out of range", o.Name, j, *v.Layer)
			}
		}
	}
	has := func(name string) bool {
		_, ok := names[name]
		return ok
	}
	requireObject := func(owner, field, name string) {
		if name != "" && !has(name) {
			fail("%s: %s references unknown object %q", owner, field, name)
		}
	}

	for _, o := range d.Objects {
		requireObject("object "+o.Name, "parent", o.Parent)
	}

	buttons := make(map[string]struct{}, len(d.Buttons))
	for i, b := range d.Buttons {
		owner := fmt.Sprintf("button %q", b.Name)
		if b.Object == "" {
			fail("button %d has no object", i)
		}
		requireObject(owner, "object", b.Object)
		if _, dup := buttons[b.Name]; dup {
			fail("duplicate button %q", b.Name)
		}
		buttons[b.Name] = struct{}{}
		if err := button.Config(b.Config).Validate(); err != nil {
			fail("%s: %v", owner, err)
		}

		e := b.Effect
		switch e.Type {
		case EffectNone, "", EffectTrigger:
		case EffectColor:
			if _, err := effects.ParseColor(e.Color); err != nil {
				fail("%s: %v", owner, err)
			}
		case EffectToggle:
			for _, t := range e.Targets {
				requireObject(owner, "target", t)
			}
		case EffectTeleport:
			requireObject(owner, "destination", e.Destination)
			requireObject(owner, "player", e.Player)
			for _, group := range [][]string{e.Colliders, e.EnableObjects, e.DisableObjects} {
				for _, n := range group {
					requireObject(owner, "teleport object", n)
				}
			}
			if err := effects.TeleportConfig(e.Teleport).Validate(); err != nil {
				fail("%s: %v", owner, err)
			}
		default:
			fail("%s: unknown effect %q", owner, e.Type)
		}
	}

	for i, g := range d.Grabs {
		owner := fmt.Sprintf("grab %d", i)
		if g.HandObject == "" {
			fail("%s has no hand object", owner)
		}
		requireObject(owner, "hand_object", g.HandObject)
		requireObject(owner, "player", g.Player)
		for _, l := range g.ClimbLayers {
			if spatial.Layer(l) > spatial.MaxLayer {
				fail("%s: climb layer %d out of range", owner, l)
			}
		}
		if err := grab.Config(g.Config).Validate(); err != nil {
			fail("%s: %v", owner, err)
		}
	}

	s := d.Script
	if s.Duration < 0 {
		fail("script duration %v is negative", s.Duration)
	}
	for _, t := range s.Tracks {
		requireObject("track", "object", t.Object)
		if !slices.IsSortedFunc(t.Keys, func(a, b PositionKey) int { return cmpTime(a.T, b.T) }) {
			fail("track %q: keys out of order", t.Object)
		}
	}
	for _, group := range [][]AxisTrackDesc{s.Axes, s.Selections} {
		for _, a := range group {
			if !slices.IsSortedFunc(a.Keys, func(x, y AxisKey) int { return cmpTime(x.T, y.T) }) {
				fail("%s %s axis: keys out of order", a.Hand, a.Channel)
			}
		}
	}

	return errors.Join(errs...)
}

func cmpTime(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
