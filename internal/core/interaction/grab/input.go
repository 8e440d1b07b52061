package grab

// Input samples controller axes in [0, 1].
type Input interface {
	Axis(hand Hand, channel InputChannel) float64
}

// InputFunc adapts a function to Input.
type InputFunc func(hand Hand, channel InputChannel) float64

func (f InputFunc) Axis(hand Hand, channel InputChannel) float64 { return f(hand, channel) }

// Interactor reports whether the hand already holds a regular grabbable
// object. Such selections take priority over climbing.
type Interactor interface {
	HasSelection() bool
}

// InteractorFunc adapts a function to Interactor.
type InteractorFunc func() bool

func (f InteractorFunc) HasSelection() bool { return f() }
