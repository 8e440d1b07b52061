package bus

// Interaction event types published by the simulator.
const (
	TypeButtonPressed  = "button.pressed"
	TypeButtonReleased = "button.released"
	TypeButtonHeld     = "button.held"
	// TypeButtonTriggered is raised by event buttons when a press matches
	// their touch mode.
	TypeButtonTriggered = "button.triggered"

	TypeGrabStarted = "grab.started"
	TypeGrabEnded   = "grab.ended"

	TypeTeleportStarted  = "teleport.started"
	TypeTeleportFinished = "teleport.finished"
)

// ButtonEvent is the payload of button events. Duration is set for holds.
type ButtonEvent struct {
	Button   string  `json:"button"`
	Channel  string  `json:"channel"`
	Pressed  bool    `json:"pressed"`
	Duration float64 `json:"duration,omitempty"`
}

// GrabEvent is the payload of grab events. Surface is empty on release.
type GrabEvent struct {
	GrabPoint string `json:"grab_point"`
	Hand      string `json:"hand"`
	Surface   string `json:"surface,omitempty"`
}

// TeleportEvent is the payload of teleport events. Outcome is set once the
// sequence has finished.
type TeleportEvent struct {
	Button      string     `json:"button"`
	Destination [3]float64 `json:"destination"`
	Outcome     string     `json:"outcome,omitempty"`
}
