package interp

func predicateBuiltin(check func(Value) bool) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, NewArityError(Position{}, name, 1, len(args))
		}
		return NewBoolean(check(args[0])), nil
	}
}

var (
	builtinNumberP    = predicateBuiltin(Value.IsNumber)
	builtinStringP    = predicateBuiltin(Value.IsString)
	builtinBooleanP   = predicateBuiltin(Value.IsBoolean)
	builtinSymbolP    = predicateBuiltin(Value.IsSymbol)
	builtinListP      = predicateBuiltin(Value.IsListLike)
	builtinProcedureP = predicateBuiltin(Value.IsProcedure)
)

func builtinNot(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	return NewBoolean(!args[0].IsTruthy()), nil
}
