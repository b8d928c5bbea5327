// Package scheduler implements the cooperative fiber runtime: a ready
// queue, a parent/child fiber graph, and a worker pool that advances
// fibers to completion one suspend-or-complete step at a time.
//
// All shared state sits behind a single mutex plus an atomic shutdown
// flag; stepping a fiber's computation happens with the lock released.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wyvernlang/fiberscheme/fiber"
)

// idleSleep is how long an idle worker parks before re-checking the ready
// queue, so an empty queue does not busy-wait.
const idleSleep = time.Millisecond

// Stats is a point-in-time snapshot of scheduler occupancy, the idiomatic
// Go equivalent of the original Rust scheduler's Debug impl (ready_count,
// fiber_count, current_fiber, thread_count, is_running).
type Stats struct {
	ReadyCount   int
	FiberCount   int
	CurrentFiber fiber.ID
	HasCurrent   bool
	WorkerCount  int
	Running      bool
}

// Scheduler owns every Fiber it has spawned, a FIFO ready queue of their
// IDs, and the worker pool that steps them. All mutation of fibers/ready/
// current goes through mu; stepping a fiber's Computation itself happens
// with mu released (Fiber.Step blocks on channels, not locks).
type Scheduler struct {
	mu      sync.Mutex
	fibers  map[fiber.ID]*fiber.Fiber
	ready   []fiber.ID
	current fiber.ID
	hasCur  bool
	nextID  uint64

	workers    int
	shutdown   atomic.Bool
	ioResolver func(id fiber.ID, label string) bool
}

// New creates a Scheduler with the given worker count. workers == 0 is
// valid and means single-threaded test use: the caller drives progress
// explicitly via Tick instead of calling Run.
func New(workers int) *Scheduler {
	return &Scheduler{
		fibers:  make(map[fiber.ID]*fiber.Fiber),
		workers: workers,
	}
}

// Spawn allocates a fresh fiber ID, creates the Fiber in Ready state,
// links it into parent's child set when parent is non-nil, and enqueues
// it. It never blocks on the computation itself.
func (s *Scheduler) Spawn(ctx context.Context, parent *fiber.ID, compute fiber.Computation) fiber.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fiber.ID(s.nextID)
	f := fiber.New(ctx, id, parent, compute)
	s.fibers[id] = f
	s.ready = append(s.ready, id)
	if parent != nil {
		if pf, ok := s.fibers[*parent]; ok {
			pf.AddChild(id)
		}
	}
	return id
}

// SpawnWithSink is Spawn plus registration of a completion sink, used by
// the async package to back a TaskHandle. The sink is registered before
// the fiber is enqueued, so no worker can complete it without a sink.
func (s *Scheduler) SpawnWithSink(ctx context.Context, parent *fiber.ID, compute fiber.Computation, sink chan<- fiber.Result) fiber.ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := fiber.ID(s.nextID)
	f := fiber.New(ctx, id, parent, compute)
	f.SetSink(sink)
	s.fibers[id] = f
	s.ready = append(s.ready, id)
	if parent != nil {
		if pf, ok := s.fibers[*parent]; ok {
			pf.AddChild(id)
		}
	}
	return id
}

// Get returns the fiber with the given ID, if it is still tracked.
func (s *Scheduler) Get(id fiber.ID) (*fiber.Fiber, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fibers[id]
	return f, ok
}

// Resume transitions a Suspended fiber back to Ready, appending it to the
// ready queue. Resuming a non-suspended fiber is an error.
func (s *Scheduler) Resume(id fiber.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fibers[id]
	if !ok {
		return errFiberNotFound(id)
	}
	if f.State() != fiber.StateSuspended {
		return errNotSuspended(id)
	}
	f.SetState(fiber.StateReady)
	s.ready = append(s.ready, id)
	return nil
}

// Stats reports a snapshot of the scheduler's current occupancy.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		ReadyCount:   len(s.ready),
		FiberCount:   len(s.fibers),
		CurrentFiber: s.current,
		HasCurrent:   s.hasCur,
		WorkerCount:  s.workers,
		Running:      !s.shutdown.Load(),
	}
}

// popReady removes and returns the head of the ready queue.
func (s *Scheduler) popReady() (fiber.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ready) == 0 {
		return 0, false
	}
	id := s.ready[0]
	s.ready = s.ready[1:]
	return id, true
}

func (s *Scheduler) setCurrent(id fiber.ID, has bool) {
	s.mu.Lock()
	s.current, s.hasCur = id, has
	s.mu.Unlock()
}

// Tick performs one iteration of the scheduler's main loop body: step the
// head of the ready queue (if any) and wake suspended fibers whose
// conditions resolved. It returns whether any tracked fiber is not yet
// Completed, so a caller driving the scheduler single-threaded (workers ==
// 0) can loop until false. Tick is the unit both Run's workers and a
// test harness use.
//
// Tick does not reap completed fibers itself (see Reap): a fiber that
// finishes on the same Tick another fiber first observes it via WaitForFiber
// or a raw Get must still be visible to that observer, and there is no
// general way to know every interested party has already looked. Callers
// that want to bound memory call Reap once they know a fiber's result has
// been consumed (e.g. after async.JoinAll returns, or periodically for a
// long-lived server).
func (s *Scheduler) Tick() bool {
	id, ok := s.popReady()
	if ok {
		s.setCurrent(id, true)
		f, exists := s.Get(id)
		if exists {
			outcome := f.Step()
			if outcome.Completed {
				s.onComplete(id, f)
			}
			// A non-completed step already left the fiber Suspended
			// (Fiber.Step sets that state itself); nothing else to do
			// here until wake() or Resume() promotes it again.
		}
		s.setCurrent(0, false)
	}

	s.wake()

	return s.hasPendingWork()
}

// hasPendingWork reports whether any tracked fiber is not yet Completed.
// Completed fibers may still be sitting in s.fibers awaiting Reap, so this
// is not simply len(s.fibers) > 0.
func (s *Scheduler) hasPendingWork() bool {
	s.mu.Lock()
	fibers := make([]*fiber.Fiber, 0, len(s.fibers))
	for _, f := range s.fibers {
		fibers = append(fibers, f)
	}
	s.mu.Unlock()
	for _, f := range fibers {
		if f.State() != fiber.StateCompleted {
			return true
		}
	}
	return false
}

// onComplete finalizes a fiber that just finished: deliver its result to
// any registered sink, remove it from its parent's child set, and clear
// every child's parent link (children of a completed parent are not
// cancelled; they become roots).
func (s *Scheduler) onComplete(id fiber.ID, f *fiber.Fiber) {
	f.Deliver()
	if parentID, ok := f.Parent(); ok {
		s.mu.Lock()
		if pf, exists := s.fibers[parentID]; exists {
			pf.RemoveChild(id)
		}
		s.mu.Unlock()
	}
	for _, childID := range f.ChildIDs() {
		if cf, ok := s.Get(childID); ok {
			cf.ClearParent()
		}
	}
}

// wake scans Suspended fibers and promotes any whose suspension
// condition has resolved back to Ready: WaitingForFiber resolves when
// its target is Completed, Yielded resolves immediately, and
// IOOperation resolves once the resolver installed with
// RegisterIOResolver reports its label ready.
func (s *Scheduler) wake() {
	s.mu.Lock()
	candidates := make([]fiber.ID, 0, len(s.fibers))
	for id, f := range s.fibers {
		if f.State() == fiber.StateSuspended {
			candidates = append(candidates, id)
		}
	}
	s.mu.Unlock()

	for _, id := range candidates {
		f, ok := s.Get(id)
		if !ok {
			continue
		}
		reason := f.SuspendReason()
		ready := false
		switch reason.Kind {
		case fiber.Yielded:
			ready = true
		case fiber.WaitingForFiber:
			if target, ok := s.Get(reason.WaitingOn); ok {
				ready = target.State() == fiber.StateCompleted
			} else {
				ready = true // target vanished: don't wait forever
			}
		case fiber.IOOperation:
			ready = s.ioResolved(id, reason.IOLabel)
		}
		if ready {
			_ = s.Resume(id)
		}
	}
}

// ioResolved is overridden per-scheduler by RegisterIOResolver; absent a
// resolver, IO-labeled suspensions never auto-resolve and must be woken
// explicitly via Resume.
func (s *Scheduler) ioResolved(id fiber.ID, label string) bool {
	s.mu.Lock()
	resolver := s.ioResolver
	s.mu.Unlock()
	if resolver == nil {
		return false
	}
	return resolver(id, label)
}

// RegisterIOResolver installs the predicate the wake policy consults for
// IOOperation-suspended fibers. Without one, such fibers stay suspended
// until something calls Resume directly.
func (s *Scheduler) RegisterIOResolver(fn func(id fiber.ID, label string) bool) {
	s.mu.Lock()
	s.ioResolver = fn
	s.mu.Unlock()
}

// Reap drops every currently-Completed fiber from the scheduler's
// bookkeeping. It is never called automatically (see Tick): call it once
// the caller is sure nothing still needs to observe those fibers' Result,
// e.g. after the async handles awaiting them have all returned.
func (s *Scheduler) Reap() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.fibers {
		if f.State() == fiber.StateCompleted {
			delete(s.fibers, id)
		}
	}
}

// Run starts the worker pool and drives the scheduler until ctx is
// cancelled, Shutdown is called, or every fiber has completed. It uses
// errgroup.WithContext so a worker error (there are none today) would
// cancel the remaining workers instead of leaking them.
func (s *Scheduler) Run(ctx context.Context) error {
	workers := s.workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				if s.shutdown.Load() {
					return nil
				}
				anyLeft := s.Tick()
				if !anyLeft {
					return nil
				}
				s.mu.Lock()
				idle := len(s.ready) == 0
				s.mu.Unlock()
				if idle {
					time.Sleep(idleSleep)
				}
			}
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Shutdown sets the shutdown flag, causing Run's workers to drain their
// current tick and exit. Every tracked fiber's sink is closed before its
// bookkeeping is dropped, so an async.TaskHandle awaiting a fiber that
// never gets to complete observes its receiver close instead of blocking
// forever (see async.TaskHandle.Await).
func (s *Scheduler) Shutdown() {
	s.shutdown.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.fibers {
		f.CloseSink()
	}
	s.fibers = make(map[fiber.ID]*fiber.Fiber)
	s.ready = nil
}
