// Package sequence runs finite lists of timed steps on a caller-driven
// clock. A Sequence is built once, started on a Scheduler and advanced by
// Tick from the simulation loop; nothing here spawns goroutines.
package sequence

import (
	"errors"
	"math"
)

var (
	ErrNilSequence    = errors.New("sequence is nil")
	ErrAlreadyStarted = errors.New("sequence already started")
)

// Outcome is how a sequence ended.
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeCompleted
	OutcomeCancelled
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "pending"
	}
}

type step struct {
	wait float64
	fn   func()
}

// Sequence is an ordered list of actions and waits followed by finalizers.
// Finalizers run exactly once, whichever way the sequence ends.
type Sequence struct {
	name     string
	steps    []step
	finally  []func(Outcome)
	timeout  float64
	started  bool
	next     int
	waitLeft float64
	elapsed  float64
	outcome  Outcome
}

func New(name string) *Sequence {
	return &Sequence{name: name, waitLeft: math.NaN()}
}

// Do appends an action. Steps must be added before the sequence starts.
func (s *Sequence) Do(fn func()) *Sequence {
	if !s.started && fn != nil {
		s.steps = append(s.steps, step{fn: fn})
	}
	return s
}

// Wait appends a pause of the given seconds. Non-positive waits are no-ops.
func (s *Sequence) Wait(seconds float64) *Sequence {
	if !s.started && seconds > 0 {
		s.steps = append(s.steps, step{wait: seconds})
	}
	return s
}

// Finally registers fn to run when the sequence ends.
func (s *Sequence) Finally(fn func(Outcome)) *Sequence {
	if !s.started && fn != nil {
		s.finally = append(s.finally, fn)
	}
	return s
}

// WithTimeout ends the sequence with OutcomeTimedOut once it has run for
// seconds without completing. Zero disables the timeout.
func (s *Sequence) WithTimeout(seconds float64) *Sequence {
	if !s.started && seconds >= 0 {
		s.timeout = seconds
	}
	return s
}

// Cancel ends a running sequence now with OutcomeCancelled. Cancelling a
// sequence that already ended does nothing.
func (s *Sequence) Cancel() {
	if s.started && s.outcome == OutcomePending {
		s.finish(OutcomeCancelled)
	}
}

func (s *Sequence) Name() string     { return s.name }
func (s *Sequence) Done() bool       { return s.outcome != OutcomePending }
func (s *Sequence) Outcome() Outcome { return s.outcome }
func (s *Sequence) Elapsed() float64 { return s.elapsed }
func (s *Sequence) Remaining() int   { return len(s.steps) - s.next }
func (s *Sequence) Timeout() float64 { return s.timeout }
func (s *Sequence) Started() bool    { return s.started }

// advance runs steps for dt seconds. Time left over after a wait carries
// into the following steps.
func (s *Sequence) advance(dt float64) {
	if s.Done() {
		return
	}
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt

	budget := dt
	for s.next < len(s.steps) {
		st := s.steps[s.next]
		if st.fn != nil {
			s.next++
			st.fn()
			if s.Done() {
				return
			}
			continue
		}
		if math.IsNaN(s.waitLeft) {
			s.waitLeft = st.wait
		}
		if s.waitLeft > budget {
			s.waitLeft -= budget
			break
		}
		budget -= s.waitLeft
		s.waitLeft = math.NaN()
		s.next++
	}

	switch {
	case s.next >= len(s.steps):
		s.finish(OutcomeCompleted)
	case s.timeout > 0 && s.elapsed >= s.timeout:
		s.finish(OutcomeTimedOut)
	}
}

func (s *Sequence) finish(o Outcome) {
	s.outcome = o
	for _, fn := range s.finally {
		fn(o)
	}
}
