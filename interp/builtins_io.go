package interp

import "io"

// makeDisplayBuiltin binds the display builtin to a concrete output writer,
// since BuiltinFunc itself carries no I/O context.
func makeDisplayBuiltin(w io.Writer) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if len(args) != 1 {
			return Value{}, NewArityError(Position{}, name, 1, len(args))
		}
		if err := Display(w, args[0]); err != nil {
			return Value{}, NewRuntimeError("%s: %v", name, err)
		}
		return NewNil(), nil
	}
}

func makeNewlineBuiltin(w io.Writer) BuiltinFunc {
	return func(name string, args []Value) (Value, error) {
		if len(args) != 0 {
			return Value{}, NewArityError(Position{}, name, 0, len(args))
		}
		if err := Newline(w); err != nil {
			return Value{}, NewRuntimeError("%s: %v", name, err)
		}
		return NewNil(), nil
	}
}
