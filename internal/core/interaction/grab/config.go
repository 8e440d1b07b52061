package grab

import (
	"fmt"
	"strings"

	"github.com/zeusync/xrinteract/internal/core/spatial"
)

// BufferCapacity is the maximum number of climbable candidates considered
// per search.
const BufferCapacity = 10

// ActivationThreshold is the axis value above which an input counts as held.
const ActivationThreshold = 0.75

// Hand selects the controller whose input drives a grab point.
type Hand uint8

const (
	HandRight Hand = iota
	HandLeft
)

func (h Hand) String() string {
	if h == HandLeft {
		return "left"
	}
	return "right"
}

func (h *Hand) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "right", "right_hand", "":
		*h = HandRight
	case "left", "left_hand":
		*h = HandLeft
	default:
		return fmt.Errorf("%w: unknown hand %q", ErrInvalidConfig, text)
	}
	return nil
}

// InputChannel selects the controller axis that triggers a grab.
type InputChannel uint8

const (
	InputTrigger InputChannel = iota
	InputGrip
)

func (c InputChannel) String() string {
	if c == InputGrip {
		return "grip"
	}
	return "trigger"
}

func (c *InputChannel) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "trigger", "":
		*c = InputTrigger
	case "grip":
		*c = InputGrip
	default:
		return fmt.Errorf("%w: unknown input channel %q", ErrInvalidConfig, text)
	}
	return nil
}

// Config is fixed once a grab point is created.
type Config struct {
	Hand  Hand         `yaml:"hand" mapstructure:"hand"`
	Input InputChannel `yaml:"input" mapstructure:"input"`
	// ClimbMask selects the layers that count as climbable.
	ClimbMask  spatial.LayerMask `yaml:"climb_mask" mapstructure:"climb_mask"`
	GrabRadius float64           `yaml:"grab_radius" mapstructure:"grab_radius"`
	// UseInstantaneousVelocity estimates the hand velocity from positional
	// deltas each fixed step instead of relying on tracking velocity.
	UseInstantaneousVelocity bool `yaml:"use_instantaneous_velocity" mapstructure:"use_instantaneous_velocity"`
}

func DefaultConfig() Config {
	return Config{
		Hand:                     HandRight,
		Input:                    InputTrigger,
		GrabRadius:               0.08,
		UseInstantaneousVelocity: true,
	}
}

func (c Config) Validate() error {
	if c.GrabRadius <= 0 {
		return fmt.Errorf("%w: grab radius %v must be positive", ErrInvalidConfig, c.GrabRadius)
	}
	if c.Hand > HandLeft {
		return fmt.Errorf("%w: hand %d", ErrInvalidConfig, c.Hand)
	}
	if c.Input > InputGrip {
		return fmt.Errorf("%w: input channel %d", ErrInvalidConfig, c.Input)
	}
	return nil
}
