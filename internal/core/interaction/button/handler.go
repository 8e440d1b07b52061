package button

// Handler receives the events of a button. Calls are synchronous on the
// simulation goroutine and must not block. Durations are in seconds.
type Handler interface {
	OnHandActivation(isLeftHand, isPressed bool)
	OnBodyActivation(isPressed bool)
	OnHandHold(isLeftHand bool, duration float64)
	OnBodyHold(duration float64)
}

// NopHandler ignores every event. Embed it to implement only some methods.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) OnHandActivation(bool, bool) {}
func (NopHandler) OnBodyActivation(bool)       {}
func (NopHandler) OnHandHold(bool, float64)    {}
func (NopHandler) OnBodyHold(float64)          {}

// HandlerFuncs adapts plain functions to Handler. Nil functions are skipped.
type HandlerFuncs struct {
	HandActivation func(isLeftHand, isPressed bool)
	BodyActivation func(isPressed bool)
	HandHold       func(isLeftHand bool, duration float64)
	BodyHold       func(duration float64)
}

var _ Handler = HandlerFuncs{}

func (h HandlerFuncs) OnHandActivation(isLeftHand, isPressed bool) {
	if h.HandActivation != nil {
		h.HandActivation(isLeftHand, isPressed)
	}
}

func (h HandlerFuncs) OnBodyActivation(isPressed bool) {
	if h.BodyActivation != nil {
		h.BodyActivation(isPressed)
	}
}

func (h HandlerFuncs) OnHandHold(isLeftHand bool, duration float64) {
	if h.HandHold != nil {
		h.HandHold(isLeftHand, duration)
	}
}

func (h HandlerFuncs) OnBodyHold(duration float64) {
	if h.BodyHold != nil {
		h.BodyHold(duration)
	}
}

// Handlers fans every event out to each handler in order.
type Handlers []Handler

var _ Handler = Handlers(nil)

func (hs Handlers) OnHandActivation(isLeftHand, isPressed bool) {
	for _, h := range hs {
		h.OnHandActivation(isLeftHand, isPressed)
	}
}

func (hs Handlers) OnBodyActivation(isPressed bool) {
	for _, h := range hs {
		h.OnBodyActivation(isPressed)
	}
}

func (hs Handlers) OnHandHold(isLeftHand bool, duration float64) {
	for _, h := range hs {
		h.OnHandHold(isLeftHand, duration)
	}
}

func (hs Handlers) OnBodyHold(duration float64) {
	for _, h := range hs {
		h.OnBodyHold(duration)
	}
}
