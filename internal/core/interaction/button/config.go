package button

import "fmt"

// BufferCapacity is the maximum number of actor volumes one overlap query
// reports. Extra contacts are dropped.
const BufferCapacity = 4

// Config is fixed once a button is created. Durations are in seconds of
// simulation time.
type Config struct {
	LeftHandOnly       bool    `yaml:"left_hand_only" mapstructure:"left_hand_only"`
	Cooldown           float64 `yaml:"cooldown" mapstructure:"cooldown"`
	ProximityThreshold float64 `yaml:"proximity_threshold" mapstructure:"proximity_threshold"`
	HandHoldDuration   float64 `yaml:"hand_hold_duration" mapstructure:"hand_hold_duration"`
	BodyHoldDuration   float64 `yaml:"body_hold_duration" mapstructure:"body_hold_duration"`
}

func DefaultConfig() Config {
	return Config{
		Cooldown:           0.15,
		ProximityThreshold: 0.05,
		HandHoldDuration:   0.5,
		BodyHoldDuration:   0.5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Cooldown < 0:
		return fmt.Errorf("%w: cooldown %v is negative", ErrInvalidConfig, c.Cooldown)
	case c.ProximityThreshold < 0:
		return fmt.Errorf("%w: proximity threshold %v is negative", ErrInvalidConfig, c.ProximityThreshold)
	case c.HandHoldDuration < 0:
		return fmt.Errorf("%w: hand hold duration %v is negative", ErrInvalidConfig, c.HandHoldDuration)
	case c.BodyHoldDuration < 0:
		return fmt.Errorf("%w: body hold duration %v is negative", ErrInvalidConfig, c.BodyHoldDuration)
	}
	return nil
}
