package effects

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/zeusync/xrinteract/internal/core/interaction/button"
)

// DefaultPressedColor is used when no pressed color is configured.
var DefaultPressedColor = colorful.Color{R: 0, G: 1, B: 0}

// Material is the surface color of an object.
type Material interface {
	Color() colorful.Color
	SetColor(c colorful.Color)
}

// ParseColor parses a "#rrggbb" string. An empty string yields
// DefaultPressedColor.
func ParseColor(hex string) (colorful.Color, error) {
	if hex == "" {
		return DefaultPressedColor, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	return c, nil
}

// ColorChange shows the pressed color while a hand is pressing and restores
// the original color on release. Body contacts are ignored.
type ColorChange struct {
	button.NopHandler
	common

	material  Material
	pressed   colorful.Color
	unpressed colorful.Color
}

var _ button.Handler = (*ColorChange)(nil)

// NewColorChange captures the current material color as the released color.
// A nil material makes the effect a no-op.
func NewColorChange(material Material, pressed colorful.Color, opts ...Option) *ColorChange {
	c := &ColorChange{
		common:   newCommon("color_change", opts),
		material: material,
		pressed:  pressed,
	}
	if material != nil {
		c.unpressed = material.Color()
	} else {
		c.logger.Debug("no material, color change disabled")
	}
	return c
}

func (c *ColorChange) OnHandActivation(_, isPressed bool) {
	if c.material == nil {
		return
	}
	if isPressed {
		c.material.SetColor(c.pressed)
		return
	}
	c.material.SetColor(c.unpressed)
}
