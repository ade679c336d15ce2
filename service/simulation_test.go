package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func constant(v int) func(context.Context) (int, error) {
	return func(context.Context) (int, error) { return v, nil }
}

func TestSimulation_StartsIdle(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, time.Millisecond, zap.NewNop())

	snap := sim.Status()
	if snap.Phase != "idle" || snap.Result != nil {
		t.Errorf("expected idle with no result, got %+v", snap)
	}
}

func TestSimulation_CompletesAfterDelay(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, 20*time.Millisecond, zap.NewNop())

	run := sim.Start(context.Background(), constant(7))
	if phase := sim.Status().Phase; phase != "loading" {
		t.Errorf("expected loading right after start, got %s", phase)
	}

	got, err := run.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("expected 7, got %d", got)
	}

	snap := sim.Status()
	if snap.Phase != "complete" {
		t.Errorf("expected complete, got %s", snap.Phase)
	}
	if snap.Result == nil || *snap.Result != 7 {
		t.Errorf("expected result 7 in snapshot, got %+v", snap.Result)
	}
}

func TestSimulation_LaterRunSupersedes(t *testing.T) {
	sim := NewSimulation[int]("test", ScanPhases, 50*time.Millisecond, zap.NewNop())

	first := sim.Start(context.Background(), constant(1))
	second := sim.Start(context.Background(), constant(2))

	if _, err := first.Wait(waitCtx(t)); !errors.Is(err, ErrSuperseded) {
		t.Errorf("expected first run superseded, got %v", err)
	}

	got, err := second.Wait(waitCtx(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2 {
		t.Errorf("expected 2, got %d", got)
	}

	snap := sim.Status()
	if snap.Phase != "analyzed" || snap.Result == nil || *snap.Result != 2 {
		t.Errorf("expected analyzed with 2, got %+v", snap)
	}
	if snap.Sequence != second.Sequence {
		t.Errorf("expected sequence %d, got %d", second.Sequence, snap.Sequence)
	}
}

func TestSimulation_Cancel(t *testing.T) {
	sim := NewSimulation[int]("test", ScanPhases, time.Hour, zap.NewNop())

	run := sim.Start(context.Background(), constant(1))
	sim.Cancel()

	if _, err := run.Wait(waitCtx(t)); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}

	snap := sim.Status()
	if snap.Phase != "idle" || snap.Result != nil {
		t.Errorf("expected idle with no result, got %+v", snap)
	}
}

func TestSimulation_CallerContextCancels(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	run := sim.Start(ctx, constant(1))
	cancel()

	if _, err := run.Wait(waitCtx(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if phase := sim.Status().Phase; phase != "idle" {
		t.Errorf("expected idle, got %s", phase)
	}
}

func TestSimulation_ReleasesContextWhenDone(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, time.Millisecond, zap.NewNop())

	parent, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runCtx context.Context
	run := sim.Start(parent, func(ctx context.Context) (int, error) {
		runCtx = ctx
		return 1, nil
	})

	if _, err := run.Wait(waitCtx(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if runCtx.Err() == nil {
		t.Errorf("expected run context released after completion")
	}
	if parent.Err() != nil {
		t.Errorf("parent context should stay alive")
	}
}

func TestSimulation_ComputeError(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, time.Millisecond, zap.NewNop())
	boom := errors.New("boom")

	run := sim.Start(context.Background(), func(context.Context) (int, error) { return 0, boom })

	if _, err := run.Wait(waitCtx(t)); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}

	snap := sim.Status()
	if snap.Phase != "idle" || snap.Error != "boom" {
		t.Errorf("expected idle with error, got %+v", snap)
	}
}

func TestSimulation_RestartAfterComplete(t *testing.T) {
	sim := NewSimulation[int]("test", ValuationPhases, time.Millisecond, zap.NewNop())

	first := sim.Start(context.Background(), constant(1))
	if _, err := first.Wait(waitCtx(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := sim.Start(context.Background(), constant(3))
	if snap := sim.Status(); snap.Result != nil {
		t.Errorf("restart should clear the previous result, got %d", *snap.Result)
	}
	if got, _ := second.Wait(waitCtx(t)); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}
