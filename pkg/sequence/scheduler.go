package sequence

// Scheduler advances running sequences in start order.
type Scheduler struct {
	running []*Sequence
	time    float64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start begins seq and runs its leading actions immediately. A sequence
// that has nothing to wait for completes inside Start.
func (s *Scheduler) Start(seq *Sequence) error {
	if seq == nil {
		return ErrNilSequence
	}
	if seq.started {
		return ErrAlreadyStarted
	}
	seq.started = true
	seq.advance(0)
	if !seq.Done() {
		s.running = append(s.running, seq)
	}
	return nil
}

// Tick advances every running sequence by dt seconds and drops the ones
// that ended.
func (s *Scheduler) Tick(dt float64) {
	s.time += dt
	if len(s.running) == 0 {
		return
	}
	// Sequences started by a step during this tick begin on the next one.
	current := s.running
	for _, seq := range current {
		seq.advance(dt)
	}
	kept := s.running[:0]
	for _, seq := range s.running {
		if !seq.Done() {
			kept = append(kept, seq)
		}
	}
	clear(s.running[len(kept):])
	s.running = kept
}

// CancelAll cancels every running sequence in start order.
func (s *Scheduler) CancelAll() {
	running := s.running
	s.running = nil
	for _, seq := range running {
		seq.Cancel()
	}
}

func (s *Scheduler) Len() int      { return len(s.running) }
func (s *Scheduler) Time() float64 { return s.time }
