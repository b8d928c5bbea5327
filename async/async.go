// Package async exposes the coordination primitives built on top of the
// scheduler: spawned task handles, fiber-completion futures, join-all,
// and race. They are usable both from library code and from Scheme
// built-ins that need to suspend.
package async

import (
	"context"

	"github.com/wyvernlang/fiberscheme/fiber"
	"github.com/wyvernlang/fiberscheme/interp"
	"github.com/wyvernlang/fiberscheme/scheduler"
)

// TaskHandle is a spawned fiber plus a single-shot channel its completion
// is delivered to.
type TaskHandle struct {
	id       fiber.ID
	receiver chan fiber.Result
}

// ID returns the underlying fiber's identifier.
func (t *TaskHandle) ID() fiber.ID { return t.id }

// SpawnTask wraps Scheduler.Spawn, additionally allocating the
// single-shot completion channel the returned handle awaits on.
func SpawnTask(sched *scheduler.Scheduler, ctx context.Context, parent *fiber.ID, compute fiber.Computation) *TaskHandle {
	ch := make(chan fiber.Result, 1)
	id := sched.SpawnWithSink(ctx, parent, compute, ch)
	return &TaskHandle{id: id, receiver: ch}
}

// Await blocks until the task completes, the channel is closed without a
// value (the task was cancelled, e.g. by Scheduler.Shutdown), or ctx is
// done. A closed-without-value receiver reports a runtime error: "task
// cancelled or failed to complete".
func (t *TaskHandle) Await(ctx context.Context) (interp.Value, error) {
	select {
	case res, ok := <-t.receiver:
		if !ok {
			return interp.Value{}, interp.Wrap(interp.NewRuntimeError("task cancelled or failed to complete"), "async.Await")
		}
		if res.Err != nil {
			// The error originated inside the fiber's own goroutine, whose
			// stack is gone by the time it surfaces here: Wrap attaches a
			// fresh trace at the point it actually crosses back into the
			// awaiting caller.
			return interp.Value{}, interp.Wrap(res.Err, "async.Await")
		}
		return res.Value, nil
	case <-ctx.Done():
		return interp.Value{}, ctx.Err()
	}
}

// WaitForFiber builds a Computation that, when run as (or within) a
// fiber, suspends with SuspendReason{Kind: WaitingForFiber} until target
// reaches StateCompleted, then returns target's actual result. If target
// is unknown to sched at poll time, it fails immediately.
func WaitForFiber(sched *scheduler.Scheduler, target fiber.ID) fiber.Computation {
	return func(y *fiber.Yielder) (interp.Value, error) {
		for {
			f, ok := sched.Get(target)
			if !ok {
				return interp.Value{}, interp.NewRuntimeError("wait-for-fiber: fiber %d not found", target)
			}
			if res, done := f.Result(); done {
				return res.Value, res.Err
			}
			y.Yield(fiber.SuspendReason{Kind: fiber.WaitingForFiber, WaitingOn: target})
		}
	}
}

// JoinAll spawns every computation (as children of parent, if non-nil),
// awaits each in spawn order, and fails on the first error encountered.
func JoinAll(ctx context.Context, sched *scheduler.Scheduler, parent *fiber.ID, computations []fiber.Computation) ([]interp.Value, error) {
	handles := make([]*TaskHandle, len(computations))
	for i, c := range computations {
		handles[i] = SpawnTask(sched, ctx, parent, c)
	}
	results := make([]interp.Value, len(handles))
	for i, h := range handles {
		v, err := h.Await(ctx)
		if err != nil {
			return nil, err
		}
		results[i] = v
	}
	return results, nil
}

// Race spawns every computation so they all run, then returns the first
// in spawn order to complete; the rest are left to finish on their own.
// An empty input is an error.
func Race(ctx context.Context, sched *scheduler.Scheduler, parent *fiber.ID, computations []fiber.Computation) (interp.Value, error) {
	if len(computations) == 0 {
		return interp.Value{}, interp.NewRuntimeError("race: no computations provided")
	}
	handles := make([]*TaskHandle, len(computations))
	for i, c := range computations {
		handles[i] = SpawnTask(sched, ctx, parent, c)
	}
	return handles[0].Await(ctx)
}
