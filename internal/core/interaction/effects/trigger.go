package effects

import (
	"fmt"
	"strings"

	"github.com/zeusync/xrinteract/internal/core/events/bus"
	"github.com/zeusync/xrinteract/internal/core/interaction/button"
)

// TouchMode selects which contacts fire an EventTrigger.
type TouchMode uint8

const (
	TouchHand TouchMode = iota
	TouchBody
	TouchBoth
)

func (m TouchMode) String() string {
	switch m {
	case TouchBody:
		return "body"
	case TouchBoth:
		return "both"
	default:
		return "hand"
	}
}

func (m *TouchMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "hand", "":
		*m = TouchHand
	case "body":
		*m = TouchBody
	case "both":
		*m = TouchBoth
	default:
		return fmt.Errorf("unknown touch mode %q", text)
	}
	return nil
}

// EventTrigger runs its callbacks and publishes TypeButtonTriggered on
// presses from the configured source. Releases and holds are ignored.
type EventTrigger struct {
	button.NopHandler
	common

	mode      TouchMode
	callbacks []func()
}

var _ button.Handler = (*EventTrigger)(nil)

func NewEventTrigger(mode TouchMode, opts ...Option) *EventTrigger {
	return &EventTrigger{common: newCommon("event_trigger", opts), mode: mode}
}

// OnPress registers fn to run on every matching press.
func (e *EventTrigger) OnPress(fn func()) {
	if fn != nil {
		e.callbacks = append(e.callbacks, fn)
	}
}

func (e *EventTrigger) OnHandActivation(isLeftHand, isPressed bool) {
	e.handle(isPressed, TouchHand, handChannel(isLeftHand))
}

func (e *EventTrigger) OnBodyActivation(isPressed bool) {
	e.handle(isPressed, TouchBody, button.ChannelBody)
}

func (e *EventTrigger) handle(isPressed bool, source TouchMode, channel button.Channel) {
	if !isPressed {
		return
	}
	if e.mode != TouchBoth && e.mode != source {
		return
	}
	for _, fn := range e.callbacks {
		fn()
	}
	e.publish(bus.TypeButtonTriggered, bus.ButtonEvent{Button: e.name, Channel: channel.String(), Pressed: true})
}
