package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyvernlang/fiberscheme/fiber"
	"github.com/wyvernlang/fiberscheme/interp"
	"github.com/wyvernlang/fiberscheme/scheduler"
)

// driveUntilDone runs sched in the background until ctx is cancelled,
// giving the assertions below something to await against without each
// test hand-rolling its own Tick loop.
func driveUntilDone(t *testing.T, sched *scheduler.Scheduler) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		// Run returns as soon as no fiber has pending work, which can
		// happen before a test spawns its first fiber; restart it until
		// ctx is cancelled so later spawns are still driven.
		for ctx.Err() == nil {
			_ = sched.Run(ctx)
			time.Sleep(time.Millisecond)
		}
	}()
	return func() {
		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop after cancellation")
		}
	}
}

func number(n float64) fiber.Computation {
	return func(y *fiber.Yielder) (interp.Value, error) {
		return interp.NewNumber(n), nil
	}
}

func failing(msg string) fiber.Computation {
	return func(y *fiber.Yielder) (interp.Value, error) {
		return interp.Value{}, errors.New(msg)
	}
}

func TestSpawnTaskAwaitReturnsResult(t *testing.T) {
	sched := scheduler.New(2)
	stop := driveUntilDone(t, sched)
	defer stop()

	h := SpawnTask(sched, context.Background(), nil, number(42))
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Number())
}

func TestSpawnTaskAwaitPropagatesError(t *testing.T) {
	sched := scheduler.New(2)
	stop := driveUntilDone(t, sched)
	defer stop()

	h := SpawnTask(sched, context.Background(), nil, failing("boom"))
	_, err := h.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAwaitHonorsCallerContext(t *testing.T) {
	sched := scheduler.New(0) // never driven: the task can never complete
	h := SpawnTask(sched, context.Background(), nil, func(y *fiber.Yielder) (interp.Value, error) {
		y.Yield(fiber.SuspendReason{Kind: fiber.Yielded})
		return interp.NewNil(), nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := h.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSchedulerShutdownCancelsOutstandingAwait(t *testing.T) {
	sched := scheduler.New(0) // never driven: the fiber never gets a chance to complete
	h := SpawnTask(sched, context.Background(), nil, func(y *fiber.Yielder) (interp.Value, error) {
		return interp.NewNumber(1), nil
	})

	sched.Shutdown()

	_, err := h.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestAwaitReportsCancelledWhenSinkClosedWithoutValue(t *testing.T) {
	h := &TaskHandle{id: 1, receiver: make(chan fiber.Result)}
	close(h.receiver)
	_, err := h.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestWaitForFiberResolvesAfterTarget(t *testing.T) {
	sched := scheduler.New(2)
	stop := driveUntilDone(t, sched)
	defer stop()

	target := sched.Spawn(context.Background(), nil, number(7))
	h := SpawnTask(sched, context.Background(), nil, WaitForFiber(sched, target))
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.Number())
}

func TestWaitForFiberFailsOnUnknownTarget(t *testing.T) {
	sched := scheduler.New(2)
	stop := driveUntilDone(t, sched)
	defer stop()

	h := SpawnTask(sched, context.Background(), nil, WaitForFiber(sched, fiber.ID(999)))
	_, err := h.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestJoinAllPreservesOrder(t *testing.T) {
	sched := scheduler.New(4)
	stop := driveUntilDone(t, sched)
	defer stop()

	vals, err := JoinAll(context.Background(), sched, nil, []fiber.Computation{
		number(1), number(2), number(3),
	})
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{vals[0].Number(), vals[1].Number(), vals[2].Number()})
}

func TestJoinAllFailsFastOnFirstError(t *testing.T) {
	sched := scheduler.New(4)
	stop := driveUntilDone(t, sched)
	defer stop()

	_, err := JoinAll(context.Background(), sched, nil, []fiber.Computation{
		number(1), failing("second task died"), number(3),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second task died")
}

func TestRaceReturnsFirstSpawnedComputation(t *testing.T) {
	sched := scheduler.New(4)
	stop := driveUntilDone(t, sched)
	defer stop()

	v, err := Race(context.Background(), sched, nil, []fiber.Computation{
		number(100), number(200),
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number())
}

func TestRaceRejectsEmptyInput(t *testing.T) {
	sched := scheduler.New(1)
	_, err := Race(context.Background(), sched, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no computations")
}
