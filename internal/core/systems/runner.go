package systems

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/zeusync/xrinteract/internal/core/observability/log"
)

var (
	ErrNilSystem       = errors.New("system is nil")
	ErrDuplicateSystem = errors.New("system already registered")
	ErrRunnerStarted   = errors.New("runner already initialized")
	ErrInvalidStep     = errors.New("step must be positive")
)

// RunnerConfig controls the fixed-step cadence.
type RunnerConfig struct {
	// FixedDeltaTime is the length of one fixed simulation step in seconds.
	FixedDeltaTime float64 `yaml:"fixed_delta_time" mapstructure:"fixed_delta_time"`
	// MaxFixedSteps caps catch-up steps per frame; older backlog is dropped.
	MaxFixedSteps int `yaml:"max_fixed_steps" mapstructure:"max_fixed_steps"`
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{FixedDeltaTime: 1.0 / 50.0, MaxFixedSteps: 8}
}

func (c RunnerConfig) Validate() error {
	if c.FixedDeltaTime <= 0 {
		return fmt.Errorf("fixed delta time %v: %w", c.FixedDeltaTime, ErrInvalidStep)
	}
	if c.MaxFixedSteps <= 0 {
		return fmt.Errorf("max fixed steps %d: %w", c.MaxFixedSteps, ErrInvalidStep)
	}
	return nil
}

// Runner is the single-threaded host loop. Each Step advances a variable
// frame and as many fixed steps as the accumulated time allows. Fixed steps
// run before the frame, systems run in registration order.
type Runner struct {
	cfg     RunnerConfig
	logger  log.Log
	systems []System
	names   map[string]struct{}

	initialized bool
	time        float64
	fixedTime   float64
	accumulator float64
	frames      int64
	fixedSteps  int64
}

func NewRunner(cfg RunnerConfig, logger log.Log) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: log.OrNop(logger).With(log.Component("runner")),
		names:  make(map[string]struct{}),
	}, nil
}

// Register appends a system. Registration closes once the runner is initialized.
func (r *Runner) Register(s System) error {
	if s == nil {
		return ErrNilSystem
	}
	if r.initialized {
		return ErrRunnerStarted
	}
	if _, exists := r.names[s.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateSystem, s.Name())
	}
	r.names[s.Name()] = struct{}{}
	r.systems = append(r.systems, s)
	return nil
}

// Init runs OnInit on every system once. Failures are logged and joined
// into the returned error, but never stop the remaining systems.
func (r *Runner) Init() error {
	if r.initialized {
		return nil
	}
	r.initialized = true

	var all error
	for _, s := range r.systems {
		if err := s.OnInit(); err != nil {
			r.logger.Error("system init failed", log.String("system", s.Name()), log.Error(err))
			all = errors.Join(all, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	r.logger.Debug("runner initialized", log.Int("systems", len(r.systems)))
	return all
}

// Step advances the simulation by dt seconds.
func (r *Runner) Step(dt float64) {
	if !r.initialized {
		_ = r.Init()
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	fixed := r.cfg.FixedDeltaTime
	r.accumulator += dt
	steps := 0
	for r.accumulator >= fixed && steps < r.cfg.MaxFixedSteps {
		r.accumulator -= fixed
		r.fixedTime += fixed
		r.fixedSteps++
		step := Frame{Time: r.fixedTime, DeltaTime: fixed, Index: r.fixedSteps}
		for _, s := range r.systems {
			s.OnFixedStep(step)
		}
		steps++
	}
	if r.accumulator >= fixed {
		dropped := math.Floor(r.accumulator / fixed)
		r.accumulator -= dropped * fixed
		r.fixedTime += dropped * fixed
		r.logger.Warn("fixed step backlog dropped", log.Float64("steps", dropped))
	}

	r.time += dt
	r.frames++
	frame := Frame{Time: r.time, DeltaTime: dt, Index: r.frames}
	for _, s := range r.systems {
		s.OnFrame(frame)
	}
}

// RunFor steps the simulation with a constant dt, as fast as possible, until
// duration seconds of simulation time have elapsed or ctx is done.
func (r *Runner) RunFor(ctx context.Context, duration, dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("frame delta %v: %w", dt, ErrInvalidStep)
	}
	for r.time+dt/2 < duration {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.Step(dt)
	}
	return nil
}

// RunRealtime steps the simulation on a wall-clock ticker until ctx is done
// or duration seconds have elapsed (duration <= 0 runs until cancelled).
func (r *Runner) RunRealtime(ctx context.Context, interval time.Duration, duration float64) error {
	if interval <= 0 {
		return fmt.Errorf("frame interval %v: %w", interval, ErrInvalidStep)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.Step(now.Sub(last).Seconds())
			last = now
			if duration > 0 && r.time >= duration {
				return nil
			}
		}
	}
}

func (r *Runner) Time() float64        { return r.time }
func (r *Runner) Frames() int64        { return r.frames }
func (r *Runner) FixedSteps() int64    { return r.fixedSteps }
func (r *Runner) Systems() []System    { return r.systems }
func (r *Runner) Config() RunnerConfig { return r.cfg }
