package async

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyvernlang/fiberscheme/interp"
	"github.com/wyvernlang/fiberscheme/scheduler"
)

// selfLambda builds (lambda (self) body), the one-argument thunk shape
// every Scheme-level fiber entry point in these tests uses: self is the
// dispatcher InstallConcurrencyBuiltins/SchemeComputation hands a running
// fiber to yield, spawn, and wait on further fibers.
func selfLambda(pos interp.Position, body interp.Expression) interp.Expression {
	return interp.NewExprList(pos, []interp.Expression{
		interp.NewSymbolRef(pos, interp.NewSymbol("lambda")),
		interp.NewExprList(pos, []interp.Expression{interp.NewSymbolRef(pos, interp.NewSymbol("self"))}),
		body,
	})
}

func quotedSymbol(pos interp.Position, name string) interp.Expression {
	return interp.NewQuote(pos, interp.NewSymbolRef(pos, interp.NewSymbol(name)))
}

// selfOp builds (self 'op args...).
func selfOp(pos interp.Position, op string, args ...interp.Expression) interp.Expression {
	elems := []interp.Expression{
		interp.NewSymbolRef(pos, interp.NewSymbol("self")),
		quotedSymbol(pos, op),
	}
	elems = append(elems, args...)
	return interp.NewExprList(pos, elems)
}

func callOf(pos interp.Position, name string, args ...interp.Expression) interp.Expression {
	elems := make([]interp.Expression, 0, len(args)+1)
	elems = append(elems, interp.NewSymbolRef(pos, interp.NewSymbol(name)))
	elems = append(elems, args...)
	return interp.NewExprList(pos, elems)
}

func numberOf(pos interp.Position, n float64) interp.Expression {
	return interp.NewAtom(pos, interp.NewNumber(n))
}

// spawnAsFiber evaluates program (a one-argument `(lambda (self) ...)`
// Expression) to a Procedure value against in's global environment, then
// runs it as a top-level fiber: the real entry point a host uses to get
// Scheme code onto the scheduler.
func spawnAsFiber(t *testing.T, in *interp.Interp, sched *scheduler.Scheduler, program interp.Expression) *TaskHandle {
	t.Helper()
	thunk, err := in.Eval(program)
	require.NoError(t, err)
	return SpawnTask(sched, context.Background(), nil, SchemeComputation(sched, thunk))
}

func TestSchemeSpawnAndWaitRunsNestedFiber(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(2)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	// (lambda (self) (self 'wait (self 'spawn (lambda (self) 42))))
	program := selfLambda(pos, selfOp(pos, "wait", selfOp(pos, "spawn", selfLambda(pos, numberOf(pos, 42)))))

	h := spawnAsFiber(t, in, sched, program)
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.0, v.Number())
}

func TestSchemeYieldThenContinues(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(2)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	// (lambda (self) (begin (self 'yield) 7))
	program := selfLambda(pos, interp.NewExprList(pos, []interp.Expression{
		interp.NewSymbolRef(pos, interp.NewSymbol("begin")),
		selfOp(pos, "yield"),
		numberOf(pos, 7),
	}))

	h := spawnAsFiber(t, in, sched, program)
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7.0, v.Number())
}

func TestSchemeJoinAllCollectsResultsInSpawnOrder(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(4)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	thunks := callOf(pos, "list", selfLambda(pos, numberOf(pos, 1)), selfLambda(pos, numberOf(pos, 2)), selfLambda(pos, numberOf(pos, 3)))
	// (lambda (self) (self 'join-all (list (lambda (self) 1) (lambda (self) 2) (lambda (self) 3))))
	program := selfLambda(pos, selfOp(pos, "join-all", thunks))

	h := spawnAsFiber(t, in, sched, program)
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	require.True(t, v.IsList())
	got := v.List().Elements()
	require.Len(t, got, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{got[0].Number(), got[1].Number(), got[2].Number()})
}

func TestSchemeRaceReturnsFirstSpawned(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(4)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	thunks := callOf(pos, "list", selfLambda(pos, numberOf(pos, 100)), selfLambda(pos, numberOf(pos, 200)))
	program := selfLambda(pos, selfOp(pos, "race", thunks))

	h := spawnAsFiber(t, in, sched, program)
	v, err := h.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.Number())
}

func TestSchemeWaitOnUnknownFiberIDIsWrappedError(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(2)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	// (lambda (self) (self 'wait 999))
	program := selfLambda(pos, selfOp(pos, "wait", numberOf(pos, 999)))

	h := spawnAsFiber(t, in, sched, program)
	_, err := h.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTopLevelSpawnBuiltinReturnsFiberID(t *testing.T) {
	in := interp.New(interp.Options{})
	sched := scheduler.New(2)
	InstallConcurrencyBuiltins(in, sched)
	stop := driveUntilDone(t, sched)
	defer stop()

	pos := interp.Position{}
	// (spawn (lambda (self) 1))
	v, err := in.Eval(callOf(pos, "spawn", selfLambda(pos, numberOf(pos, 1))))
	require.NoError(t, err)
	assert.True(t, v.IsNumber())
}
