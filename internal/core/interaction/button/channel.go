package button

import "github.com/zeusync/xrinteract/internal/core/spatial"

// Channel is one of the independent contact sources of a button.
type Channel uint8

// Channels are evaluated in declaration order within a frame.
const (
	ChannelLeftHand Channel = iota
	ChannelRightHand
	ChannelBody

	channelCount = 3
)

// Channels lists every channel in evaluation order.
var Channels = [channelCount]Channel{ChannelLeftHand, ChannelRightHand, ChannelBody}

func (c Channel) String() string {
	switch c {
	case ChannelLeftHand:
		return "left_hand"
	case ChannelRightHand:
		return "right_hand"
	case ChannelBody:
		return "body"
	default:
		return "unknown"
	}
}

// IsHand reports whether c is one of the hand channels.
func (c Channel) IsHand() bool { return c == ChannelLeftHand || c == ChannelRightHand }

// Layer returns the actor layer that feeds c.
func (c Channel) Layer() spatial.Layer {
	switch c {
	case ChannelLeftHand:
		return spatial.LayerLeftHand
	case ChannelRightHand:
		return spatial.LayerRightHand
	default:
		return spatial.LayerBody
	}
}

// channelOf maps an actor layer to its channel.
func channelOf(l spatial.Layer) (Channel, bool) {
	switch l {
	case spatial.LayerLeftHand:
		return ChannelLeftHand, true
	case spatial.LayerRightHand:
		return ChannelRightHand, true
	case spatial.LayerBody:
		return ChannelBody, true
	default:
		return 0, false
	}
}

// State is the contact state of a single channel.
type State uint8

const (
	StateOutside State = iota
	StateInsideNotHolding
	StateInsideHolding
)

func (s State) String() string {
	switch s {
	case StateInsideNotHolding:
		return "inside"
	case StateInsideHolding:
		return "holding"
	default:
		return "outside"
	}
}

type channelState struct {
	inside    bool
	holding   bool
	holdTimer float64
}

func (s channelState) state() State {
	switch {
	case !s.inside:
		return StateOutside
	case s.holding:
		return StateInsideHolding
	default:
		return StateInsideNotHolding
	}
}
