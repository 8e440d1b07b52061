package effects

import (
	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/interaction/button"
)

// Publisher mirrors every event of a button onto the bus. It is meant to be
// combined with another effect through button.Handlers.
type Publisher struct {
	common
}

var _ button.Handler = (*Publisher)(nil)

func NewPublisher(opts ...Option) *Publisher {
	return &Publisher{common: newCommon("publisher", opts)}
}

func (p *Publisher) OnHandActivation(isLeftHand, isPressed bool) {
	p.activation(handChannel(isLeftHand), isPressed)
}

func (p *Publisher) OnBodyActivation(isPressed bool) {
	p.activation(button.ChannelBody, isPressed)
}

func (p *Publisher) OnHandHold(isLeftHand bool, duration float64) {
	p.hold(handChannel(isLeftHand), duration)
}

func (p *Publisher) OnBodyHold(duration float64) {
	p.hold(button.ChannelBody, duration)
}

func (p *Publisher) activation(ch button.Channel, pressed bool) {
	typ := bus.TypeButtonReleased
	if pressed {
		typ = bus.TypeButtonPressed
	}
	p.publish(typ, bus.ButtonEvent{Button: p.name, Channel: ch.String(), Pressed: pressed})
}

func (p *Publisher) hold(ch button.Channel, duration float64) {
	p.publish(bus.TypeButtonHeld, bus.ButtonEvent{Button: p.name, Channel: ch.String(), Pressed: true, Duration: duration})
}

func handChannel(isLeftHand bool) button.Channel {
	if isLeftHand {
		return button.ChannelLeftHand
	}
	return button.ChannelRightHand
}
