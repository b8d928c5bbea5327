package interp

func builtinCons(name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, NewArityError(Position{}, name, 2, len(args))
	}
	if !args[1].IsList() {
		return Value{}, NewTypeError(name, "list", args[1])
	}
	return NewListValue(Cons(args[0], args[1].List())), nil
}

func builtinCar(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	if !args[0].IsList() {
		return Value{}, NewTypeError(name, "list", args[0])
	}
	head, ok := args[0].List().Head()
	if !ok {
		return Value{}, NewRuntimeError("%s: empty list", name)
	}
	return head, nil
}

func builtinCdr(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	if !args[0].IsList() {
		return Value{}, NewTypeError(name, "list", args[0])
	}
	if args[0].List().IsEmpty() {
		return Value{}, NewRuntimeError("%s: empty list", name)
	}
	return NewListValue(args[0].List().Tail()), nil
}

func builtinList(name string, args []Value) (Value, error) {
	return NewListValue(NewList(args...)), nil
}

func builtinLength(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	if args[0].IsNil() {
		return NewNumber(0), nil
	}
	if !args[0].IsList() {
		return Value{}, NewTypeError(name, "list", args[0])
	}
	return NewNumber(float64(args[0].List().Len())), nil
}

func builtinNullP(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	if args[0].IsNil() {
		return NewBoolean(true), nil
	}
	return NewBoolean(args[0].IsList() && args[0].List().IsEmpty()), nil
}

func builtinAppend(name string, args []Value) (Value, error) {
	var all []Value
	for _, a := range args {
		if !a.IsList() {
			return Value{}, NewTypeError(name, "list", a)
		}
		all = append(all, a.List().Elements()...)
	}
	return NewListValue(NewList(all...)), nil
}

func builtinReverse(name string, args []Value) (Value, error) {
	if len(args) != 1 {
		return Value{}, NewArityError(Position{}, name, 1, len(args))
	}
	if !args[0].IsList() {
		return Value{}, NewTypeError(name, "list", args[0])
	}
	elems := args[0].List().Elements()
	out := make([]Value, len(elems))
	for i, v := range elems {
		out[len(elems)-1-i] = v
	}
	return NewListValue(NewList(out...)), nil
}
