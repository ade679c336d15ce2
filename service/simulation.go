package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"okto-simulator/metrics"
)

var (
	ErrSuperseded = errors.New("simulation superseded by a newer run")
	ErrCancelled  = errors.New("simulation cancelled")
)

type Phase string

// Phases names the three states a simulator flow moves through.
type Phases struct {
	Idle    Phase
	Pending Phase
	Done    Phase
}

var (
	ValuationPhases = Phases{Idle: "idle", Pending: "loading", Done: "complete"}
	ScanPhases      = Phases{Idle: "idle", Pending: "scanning", Done: "analyzed"}
)

type Snapshot[T any] struct {
	Phase    Phase  `json:"phase"`
	Sequence uint64 `json:"sequence"`
	Result   *T     `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Run is the handle for one Start call.
type Run[T any] struct {
	Sequence uint64

	cancel context.CancelCauseFunc
	done   chan struct{}
	result T
	err    error
}

// Wait blocks until the run publishes, fails, is superseded or ctx ends.
func (r *Run[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		return r.result, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Simulation computes a result right away and reveals it after a fixed
// delay. Starting a new run cancels the pending one; only the most recent
// run may publish.
type Simulation[T any] struct {
	flow   string
	phases Phases
	delay  time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
	phase  Phase
	result *T
	err    error
}

func NewSimulation[T any](flow string, phases Phases, delay time.Duration, logger *zap.Logger) *Simulation[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulation[T]{
		flow:   flow,
		phases: phases,
		delay:  delay,
		logger: logger,
		phase:  phases.Idle,
	}
}

// Start begins a new run. The caller owns ctx; cancelling it abandons the
// run the same way Cancel does.
func (s *Simulation[T]) Start(ctx context.Context, compute func(context.Context) (T, error)) *Run[T] {
	runCtx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel(ErrSuperseded)
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.phase = s.phases.Pending
	s.result = nil
	s.err = nil
	s.mu.Unlock()

	run := &Run[T]{Sequence: seq, cancel: cancel, done: make(chan struct{})}
	go s.execute(runCtx, run, compute)
	return run
}

func (s *Simulation[T]) execute(ctx context.Context, run *Run[T], compute func(context.Context) (T, error)) {
	value, err := compute(ctx)
	if err == nil {
		timer := time.NewTimer(s.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			err = context.Cause(ctx)
		}
	}
	s.finish(run, value, err)
}

func (s *Simulation[T]) finish(run *Run[T], value T, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer close(run.done)

	// Release the run's context from its parent; a no-op if already cancelled.
	run.cancel(nil)

	if run.Sequence != s.seq {
		run.err = ErrSuperseded
		if errors.Is(err, ErrCancelled) {
			run.err = ErrCancelled
		}
		s.record(run.err)
		return
	}

	s.cancel = nil
	switch {
	case err == nil:
		s.phase = s.phases.Done
		s.result = &value
		run.result = value
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.phase = s.phases.Idle
	default:
		s.phase = s.phases.Idle
		s.err = err
	}
	run.err = err
	s.record(err)
}

func (s *Simulation[T]) record(err error) {
	outcome := "complete"
	switch {
	case err == nil:
	case errors.Is(err, ErrSuperseded):
		outcome = "superseded"
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = "cancelled"
	default:
		outcome = "failed"
	}
	metrics.SimulationsTotal.WithLabelValues(s.flow, outcome).Inc()
	s.logger.Debug("simulation finished", zap.String("flow", s.flow), zap.String("outcome", outcome))
}

// Cancel abandons the pending run, if any, and returns to idle. A finished
// result is cleared as well.
func (s *Simulation[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel(ErrCancelled)
		s.cancel = nil
	}
	s.seq++
	s.phase = s.phases.Idle
	s.result = nil
	s.err = nil
}

func (s *Simulation[T]) Status() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot[T]{Phase: s.phase, Sequence: s.seq}
	if s.result != nil {
		v := *s.result
		snap.Result = &v
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
