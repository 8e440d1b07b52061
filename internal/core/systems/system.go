package systems

// System is a per-frame interaction processor driven by the host loop.
// All entry points run on the loop goroutine; they must not block.
type System interface {
	// Identity

	Name() string

	// Lifecycle

	// OnInit runs once before the first frame. A returned error is logged by
	// the runner; the system keeps being ticked and is expected to degrade
	// on its own.
	OnInit() error

	// Execution

	// OnFrame runs once per rendered frame at a variable interval.
	OnFrame(frame Frame)
	// OnFixedStep runs once per fixed simulation step.
	OnFixedStep(step Frame)
}

// Frame carries the clock for one invocation. Time is the simulation time
// at the end of the step, DeltaTime the length of the step.
type Frame struct {
	Time      float64
	DeltaTime float64
	Index     int64
}

// Hooks adapts plain functions to System. Nil hooks are skipped.
type Hooks struct {
	ID        string
	Init      func() error
	Frame     func(Frame)
	FixedStep func(Frame)
}

var _ System = Hooks{}

func (h Hooks) Name() string { return h.ID }

func (h Hooks) OnInit() error {
	if h.Init == nil {
		return nil
	}
	return h.Init()
}

func (h Hooks) OnFrame(f Frame) {
	if h.Frame != nil {
		h.Frame(f)
	}
}

func (h Hooks) OnFixedStep(f Frame) {
	if h.FixedStep != nil {
		h.FixedStep(f)
	}
}
