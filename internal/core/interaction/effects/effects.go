// Package effects holds the button handlers shipped with the simulator:
// color change, object toggling, teleportation and event triggering, plus a
// publisher that mirrors every button event onto the event bus.
package effects

import (
	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/observability/log"
)

// Clock returns the current simulation time in seconds.
type Clock func() float64

// Activatable is a scene object that can be switched on and off.
type Activatable interface {
	Name() string
	Active() bool
	SetActive(active bool)
}

// Collider is a collision volume that can be disabled.
type Collider interface {
	SetEnabled(enabled bool)
}

type common struct {
	name   string
	logger log.Log
	bus    bus.EventBus
	clock  Clock
}

// Option configures any effect.
type Option func(*common)

// WithName names the effect in logs and as the source of published events.
func WithName(name string) Option {
	return func(c *common) { c.name = name }
}

func WithLogger(l log.Log) Option {
	return func(c *common) { c.logger = log.OrNop(l) }
}

// WithBus publishes effect events on b.
func WithBus(b bus.EventBus) Option {
	return func(c *common) { c.bus = b }
}

// WithClock stamps published events with simulation time.
func WithClock(clock Clock) Option {
	return func(c *common) { c.clock = clock }
}

func newCommon(kind string, opts []Option) common {
	c := common{name: kind, logger: log.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	c.logger = c.logger.With(log.Component(kind), log.String("button", c.name))
	return c
}

func (c *common) now() float64 {
	if c.clock == nil {
		return 0
	}
	return c.clock()
}

// publish sends an event when a bus is configured. Handler failures are
// logged and never reach the button.
func (c *common) publish(eventType string, data any) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(bus.NewEvent(eventType, c.name, c.now(), data)); err != nil {
		c.logger.Warn("event handler failed", log.String("type", eventType), log.Error(err))
	}
}
