package async

import (
	"context"

	"github.com/wyvernlang/fiberscheme/fiber"
	"github.com/wyvernlang/fiberscheme/interp"
	"github.com/wyvernlang/fiberscheme/scheduler"
)

// InstallConcurrencyBuiltins installs the single `spawn` procedure into
// in's global environment: the entry point a host program uses to get a
// Scheme thunk running as a top-level fiber.
//
// A spawned thunk must accept exactly one argument, conventionally named
// self: a dispatcher procedure, closed over that fiber's own Yielder, used
// as `(self 'yield)`, `(self 'spawn thunk)`, `(self 'wait id)`,
// `(self 'join-all (list thunk ...))`, and `(self 'race (list thunk ...))`.
// A Scheme lambda captures its defining environment lexically, so the
// running fiber's Yielder cannot ride along through ordinary variable
// lookup the way the other builtins do; passing self as an explicit call
// argument at each spawn threads it correctly without resorting to
// mutable global or goroutine-local state.
func InstallConcurrencyBuiltins(in *interp.Interp, sched *scheduler.Scheduler) {
	in.Define("spawn", interp.NewProcedureValue(interp.NewBuiltin("spawn", func(name string, args []interp.Value) (interp.Value, error) {
		if len(args) != 1 {
			return interp.Value{}, interp.NewArityError(interp.Position{}, name, 1, len(args))
		}
		if !args[0].IsProcedure() {
			return interp.Value{}, interp.NewTypeError(name, "procedure", args[0])
		}
		id := sched.Spawn(context.Background(), nil, SchemeComputation(sched, args[0]))
		return interp.NewNumber(float64(id)), nil
	})))
}

// SchemeComputation builds a fiber.Computation that applies thunk, a
// one-argument Scheme procedure, to a fresh self dispatcher bound to this
// fiber's Yielder and sched. Every fiber the scheduler steps by calling
// this Computation runs interp.Eval under the hood via interp.Apply.
func SchemeComputation(sched *scheduler.Scheduler, thunk interp.Value) fiber.Computation {
	return func(y *fiber.Yielder) (interp.Value, error) {
		if !thunk.IsProcedure() {
			return interp.Value{}, interp.NewTypeError("spawn", "procedure", thunk)
		}
		self := selfDispatcher(sched, y)
		return interp.Apply(thunk, []interp.Value{self}, interp.Position{})
	}
}

// selfDispatcher builds the `self` value passed to a spawned thunk: a
// builtin procedure whose first argument names the operation (a symbol)
// and whose remaining arguments are that operation's parameters. Dispatch
// on a leading symbol keeps every fiber operation reachable through a
// single Value the thunk already received as a normal argument, rather
// than as a family of ambiently-scoped globals.
func selfDispatcher(sched *scheduler.Scheduler, y *fiber.Yielder) interp.Value {
	dispatch := func(name string, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 || !args[0].IsSymbol() {
			return interp.Value{}, interp.NewTypeError(name, "symbol", firstArg(args))
		}
		op := args[0].Symbol().String()
		rest := args[1:]
		switch op {
		case "yield":
			return dispatchYield(name, rest, y)
		case "spawn":
			return dispatchSpawn(name, rest, sched, y)
		case "wait":
			return dispatchWait(name, rest, sched, y)
		case "join-all":
			return dispatchJoinAll(name, rest, sched, y)
		case "race":
			return dispatchRace(name, rest, sched, y)
		default:
			return interp.Value{}, interp.NewRuntimeError("%s: unknown fiber operation '%s'", name, op)
		}
	}
	return interp.NewProcedureValue(interp.NewBuiltin("fiber-self", dispatch))
}

func dispatchYield(name string, rest []interp.Value, y *fiber.Yielder) (interp.Value, error) {
	if len(rest) != 0 {
		return interp.Value{}, interp.NewArityError(interp.Position{}, name, 0, len(rest))
	}
	y.Yield(fiber.SuspendReason{Kind: fiber.Yielded})
	return interp.NewNil(), nil
}

func dispatchSpawn(name string, rest []interp.Value, sched *scheduler.Scheduler, y *fiber.Yielder) (interp.Value, error) {
	if len(rest) != 1 || !rest[0].IsProcedure() {
		return interp.Value{}, interp.NewTypeError(name, "procedure", firstArg(rest))
	}
	id := sched.Spawn(y.Context(), nil, SchemeComputation(sched, rest[0]))
	return interp.NewNumber(float64(id)), nil
}

func dispatchWait(name string, rest []interp.Value, sched *scheduler.Scheduler, y *fiber.Yielder) (interp.Value, error) {
	if len(rest) != 1 {
		return interp.Value{}, interp.NewArityError(interp.Position{}, name, 1, len(rest))
	}
	target, err := fiberIDArg(name, rest[0])
	if err != nil {
		return interp.Value{}, err
	}
	v, err := awaitFiberID(sched, y, target)
	if err != nil {
		return interp.Value{}, interp.Wrap(err, "wait")
	}
	return v, nil
}

func dispatchJoinAll(name string, rest []interp.Value, sched *scheduler.Scheduler, y *fiber.Yielder) (interp.Value, error) {
	if len(rest) != 1 || !rest[0].IsList() {
		return interp.Value{}, interp.NewTypeError(name, "list", firstArg(rest))
	}
	thunks := rest[0].List().Elements()
	ids := make([]fiber.ID, len(thunks))
	for i, thunk := range thunks {
		if !thunk.IsProcedure() {
			return interp.Value{}, interp.NewTypeError(name, "procedure", thunk)
		}
		ids[i] = sched.Spawn(y.Context(), nil, SchemeComputation(sched, thunk))
	}
	results := make([]interp.Value, len(ids))
	for i, id := range ids {
		v, err := awaitFiberID(sched, y, id)
		if err != nil {
			return interp.Value{}, interp.Wrap(err, "join-all")
		}
		results[i] = v
	}
	return interp.NewListValue(interp.NewList(results...)), nil
}

func dispatchRace(name string, rest []interp.Value, sched *scheduler.Scheduler, y *fiber.Yielder) (interp.Value, error) {
	if len(rest) != 1 || !rest[0].IsList() {
		return interp.Value{}, interp.NewTypeError(name, "list", firstArg(rest))
	}
	thunks := rest[0].List().Elements()
	if len(thunks) == 0 {
		return interp.Value{}, interp.NewRuntimeError("%s: no computations provided", name)
	}
	ids := make([]fiber.ID, len(thunks))
	for i, thunk := range thunks {
		if !thunk.IsProcedure() {
			return interp.Value{}, interp.NewTypeError(name, "procedure", thunk)
		}
		ids[i] = sched.Spawn(y.Context(), nil, SchemeComputation(sched, thunk))
	}
	v, err := awaitFiberID(sched, y, ids[0])
	if err != nil {
		return interp.Value{}, interp.Wrap(err, "race")
	}
	return v, nil
}

// awaitFiberID suspends the fiber behind y as WaitingForFiber(target) until
// target reaches StateCompleted, then returns its result. It is the
// current-fiber counterpart of WaitForFiber, which instead builds a
// separate spawned Computation for the same purpose.
func awaitFiberID(sched *scheduler.Scheduler, y *fiber.Yielder, target fiber.ID) (interp.Value, error) {
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

func fiberIDArg(procName string, v interp.Value) (fiber.ID, error) {
	if !v.IsNumber() {
		return 0, interp.NewTypeError(procName, "number", v)
	}
	return fiber.ID(v.Number()), nil
}

func firstArg(args []interp.Value) interp.Value {
	if len(args) == 0 {
		return interp.NewNil()
	}
	return args[0]
}
