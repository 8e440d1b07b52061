package effects

import (
	"fmt"
	"strings"

	"github.com/zeusync/xrinteract/internal/core/interaction/button"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
)

// ToggleMode is the state targets are set to by a non-toggling ObjectToggle.
type ToggleMode uint8

const (
	ModeDisable ToggleMode = iota
	ModeEnable
)

func (m ToggleMode) String() string {
	if m == ModeEnable {
		return "enable"
	}
	return "disable"
}

func (m *ToggleMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "disable", "":
		*m = ModeDisable
	case "enable":
		*m = ModeEnable
	default:
		return fmt.Errorf("unknown toggle mode %q", text)
	}
	return nil
}

// ObjectToggle switches target objects on every press, from the hand or the
// body. In toggle mode targets alternate between enabled and disabled,
// starting with enabled; otherwise they are set according to the mode.
// The button's own object is never touched.
type ObjectToggle struct {
	button.NopHandler
	common

	mode    ToggleMode
	toggle  bool
	targets []Activatable
	self    Activatable

	// toggled is false while the next toggle press enables targets.
	toggled bool
}

var _ button.Handler = (*ObjectToggle)(nil)

func NewObjectToggle(mode ToggleMode, toggle bool, self Activatable, targets []Activatable, opts ...Option) *ObjectToggle {
	return &ObjectToggle{
		common:  newCommon("object_toggle", opts),
		mode:    mode,
		toggle:  toggle,
		targets: targets,
		self:    self,
	}
}

func (o *ObjectToggle) OnHandActivation(_, isPressed bool) { o.handle(isPressed) }
func (o *ObjectToggle) OnBodyActivation(isPressed bool)    { o.handle(isPressed) }

func (o *ObjectToggle) handle(isPressed bool) {
	if len(o.targets) == 0 {
		o.logger.Error("no target objects configured")
		return
	}
	if !isPressed {
		return
	}

	active := o.mode == ModeEnable
	if o.toggle {
		active = !o.toggled
		o.toggled = !o.toggled
	}
	for _, target := range o.targets {
		if target == nil || target == o.self {
			continue
		}
		target.SetActive(active)
	}
	o.logger.Debug("targets switched", log.Bool("active", active), log.Int("targets", len(o.targets)))
}
