package interp

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// Options configures a new Interp. Every field has a usable zero value:
// Stdout/Stderr default to os.Stdout/os.Stderr.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer
}

var nextInterpID uint64

// Interp is a single instance of the language: one global environment plus
// the builtins registered into it. Multiple Interps are independent; they
// share no mutable state.
type Interp struct {
	id     uint64
	mutex  sync.RWMutex
	opts   Options
	global *ChainFrame
	done   chan struct{}
	closed bool
}

// New creates an Interp with a fresh global environment and every builtin
// procedure installed.
func New(opts Options) *Interp {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	in := &Interp{
		id:     atomic.AddUint64(&nextInterpID, 1),
		opts:   opts,
		global: NewChainFrame(nil),
		done:   make(chan struct{}),
	}
	registerBuiltins(in.global, in.opts.Stdout)
	return in
}

// ID returns a process-unique identifier for this Interp, useful for
// log correlation when several run concurrently.
func (in *Interp) ID() uint64 { return in.id }

// Global exposes the top-level environment for lookups. Frame has no
// Define method; a host adds bindings through Interp.Define.
func (in *Interp) Global() Frame { return in.global }

// Define installs a binding directly into the global environment.
func (in *Interp) Define(name string, v Value) {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	in.global.Define(NewSymbol(name), v)
}

// Eval evaluates expr against the global environment.
func (in *Interp) Eval(expr Expression) (Value, error) {
	return Eval(expr, in.global)
}

// EvalWithContext evaluates expr on its own goroutine, returning early
// with ctx's error if ctx is cancelled before evaluation finishes. The
// in-flight goroutine is not forcibly killed (the subset has no
// preemption point inside a single Eval call); cancellation is meant for
// bounding how long a caller waits, with the fiber scheduler being the
// mechanism for genuinely cooperative long-running programs.
func (in *Interp) EvalWithContext(ctx context.Context, expr Expression) (Value, error) {
	type outcome struct {
		val Value
		err error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		v, err := Eval(expr, in.global)
		resultCh <- outcome{v, err}
	}()
	select {
	case <-ctx.Done():
		return Value{}, ctx.Err()
	case out := <-resultCh:
		return out.val, out.err
	case <-in.done:
		return Value{}, context.Canceled
	}
}

// Stop marks the Interp as closed, unblocking any in-flight
// EvalWithContext calls. It is idempotent.
func (in *Interp) Stop() {
	in.mutex.Lock()
	defer in.mutex.Unlock()
	if in.closed {
		return
	}
	in.closed = true
	close(in.done)
}
