// Package fiber defines the cooperative unit of concurrency the scheduler
// drives: a Fiber wraps a Computation, tracks its State, and records its
// place in a parent/child hierarchy.
package fiber

import (
	"context"
	"sync"

	"github.com/wyvernlang/fiberscheme/interp"
)

// ID identifies a Fiber within a Scheduler.
type ID uint64

// State is a Fiber's scheduling state.
type State uint8

const (
	StateReady State = iota
	StateRunning
	StateSuspended
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// SuspendKind classifies why a Fiber is parked.
type SuspendKind uint8

const (
	// Yielded means the fiber cooperatively gave up its turn and is
	// immediately eligible to run again.
	Yielded SuspendKind = iota
	// WaitingForFiber means the fiber is parked until another fiber
	// (WaitingOn) completes.
	WaitingForFiber
	// IOOperation means the fiber is parked until an external source
	// signals the labeled operation is ready.
	IOOperation
)

func (k SuspendKind) String() string {
	switch k {
	case Yielded:
		return "yielded"
	case WaitingForFiber:
		return "waiting-for-fiber"
	case IOOperation:
		return "io-operation"
	default:
		return "unknown"
	}
}

// SuspendReason records why a fiber is currently Suspended.
type SuspendReason struct {
	Kind      SuspendKind
	WaitingOn ID
	IOLabel   string
}

// Result is a fiber's final outcome.
type Result struct {
	Value interp.Value
	Err   error
}

// Yielder is the handle a Computation uses to cooperate with its fiber.
type Yielder struct {
	fiber *Fiber
}

// Yield parks the calling goroutine until the scheduler resumes this
// fiber, reporting reason so the scheduler knows when it may do so.
func (y *Yielder) Yield(reason SuspendReason) {
	y.fiber.stepDone <- StepOutcome{Reason: reason}
	<-y.fiber.resumeCh
}

// Context returns the context the fiber's Computation should honor for
// cancellation.
func (y *Yielder) Context() context.Context { return y.fiber.ctx }

// Computation is the work a Fiber drives to completion. It is handed a
// Yielder to cooperate with the scheduler and must return its final value
// or error when done.
type Computation func(y *Yielder) (interp.Value, error)

// StepOutcome is what one Fiber.Step call produced: either a completion
// (Completed, Result set) or a suspension (Reason set).
type StepOutcome struct {
	Completed bool
	Result    Result
	Reason    SuspendReason
}

// Fiber is one cooperatively-scheduled computation plus its place in the
// spawn hierarchy. All exported accessors lock mu, so a Fiber is safe to
// read concurrently with the scheduler driving it.
type Fiber struct {
	mu       sync.Mutex
	id       ID
	state    State
	reason   SuspendReason
	result   Result
	parent   *ID
	children map[ID]struct{}

	ctx      context.Context
	compute  Computation
	resumeCh chan struct{}
	stepDone chan StepOutcome
	started  bool

	// sink delivers the fiber's Result once, best-effort, to whoever is
	// awaiting it (async.TaskHandle). A full or absent sink is not an
	// error: the fiber still completes and its Result stays readable via
	// Fiber.Result.
	sink       chan<- Result
	sinkClosed bool
}

// New constructs a Fiber in the Ready state. The Computation's goroutine
// is started lazily, the first time the scheduler steps it.
func New(ctx context.Context, id ID, parent *ID, compute Computation) *Fiber {
	return &Fiber{
		id:       id,
		state:    StateReady,
		parent:   parent,
		children: make(map[ID]struct{}),
		ctx:      ctx,
		compute:  compute,
		resumeCh: make(chan struct{}),
		stepDone: make(chan StepOutcome, 1),
	}
}

func (f *Fiber) ID() ID { return f.id }

func (f *Fiber) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Fiber) SuspendReason() SuspendReason {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}

// Result returns the fiber's outcome; ok is false until the fiber reaches
// StateCompleted.
func (f *Fiber) Result() (Result, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.state == StateCompleted
}

func (f *Fiber) Parent() (ID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.parent == nil {
		return 0, false
	}
	return *f.parent, true
}

// ClearParent drops f's parent link, turning it into a root. Used when a
// parent completes: its children are not cancelled, they simply stop
// having a parent. Arguably a structured-concurrency gap; cancel-children
// and wait-for-children semantics are both defensible alternatives.
func (f *Fiber) ClearParent() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parent = nil
}

// AddChild records id as one of f's children.
func (f *Fiber) AddChild(id ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.children[id] = struct{}{}
}

// RemoveChild drops id from f's child set.
func (f *Fiber) RemoveChild(id ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.children, id)
}

// ChildIDs returns a snapshot of f's current children.
func (f *Fiber) ChildIDs() []ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ID, 0, len(f.children))
	for id := range f.children {
		out = append(out, id)
	}
	return out
}

// SetState forces f's state directly; used by the scheduler to move a
// Suspended fiber back to Ready on Resume.
func (f *Fiber) SetState(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Fiber) setSuspended(reason SuspendReason) {
	f.mu.Lock()
	f.state = StateSuspended
	f.reason = reason
	f.mu.Unlock()
}

// SetSink registers the channel Deliver sends this fiber's Result to.
// Only one sink may be registered; a fiber spawned without a task handle
// has none.
func (f *Fiber) SetSink(sink chan<- Result) {
	f.mu.Lock()
	f.sink = sink
	f.mu.Unlock()
}

// Step drives the fiber through exactly one suspend-or-complete
// transition: starting its goroutine on first call, resuming it on every
// later call. It blocks until the computation yields or returns, but
// never while holding f.mu or any scheduler lock, so a long-running
// computation on one fiber cannot stall the scheduler's other workers.
func (f *Fiber) Step() StepOutcome {
	f.mu.Lock()
	first := !f.started
	f.started = true
	f.state = StateRunning
	f.mu.Unlock()

	if first {
		go func() {
			y := &Yielder{fiber: f}
			val, err := f.compute(y)
			f.stepDone <- StepOutcome{Completed: true, Result: Result{Value: val, Err: err}}
		}()
	} else {
		f.resumeCh <- struct{}{}
	}

	outcome := <-f.stepDone
	if outcome.Completed {
		f.mu.Lock()
		f.state = StateCompleted
		f.result = outcome.Result
		f.mu.Unlock()
	} else {
		f.setSuspended(outcome.Reason)
	}
	return outcome
}

// Deliver sends f's result to its registered sink, if any, without
// blocking: the sink is a single-shot, buffered-by-one channel, so a
// full channel is silently ignored (delivery is best-effort). A no-op if
// the sink was already closed (CloseSink) or never set.
func (f *Fiber) Deliver() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sink == nil || f.sinkClosed {
		return
	}
	select {
	case f.sink <- f.result:
	default:
	}
}

// CloseSink closes f's registered sink without sending a value, if one is
// registered and not already closed/served. Used by Scheduler.Shutdown so
// an async.TaskHandle awaiting a fiber that never completes observes the
// channel close (and reports the "task cancelled" error) instead of
// blocking forever.
func (f *Fiber) CloseSink() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sink == nil || f.sinkClosed {
		return
	}
	f.sinkClosed = true
	close(f.sink)
}
