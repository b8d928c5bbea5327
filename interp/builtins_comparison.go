package interp

func chainCompare(name string, args []Value, ok func(a, b float64) bool) (Value, error) {
	nums, err := requireNumbers(name, args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) < 2 {
		return Value{}, NewArityErrorRange(Position{}, name, 2, -1, len(nums))
	}
	for i := 1; i < len(nums); i++ {
		if !ok(nums[i-1], nums[i]) {
			return NewBoolean(false), nil
		}
	}
	return NewBoolean(true), nil
}

func builtinNumEq(name string, args []Value) (Value, error) {
	return chainCompare(name, args, func(a, b float64) bool { return a == b })
}

func builtinLt(name string, args []Value) (Value, error) {
	return chainCompare(name, args, func(a, b float64) bool { return a < b })
}

func builtinGt(name string, args []Value) (Value, error) {
	return chainCompare(name, args, func(a, b float64) bool { return a > b })
}

func builtinLe(name string, args []Value) (Value, error) {
	return chainCompare(name, args, func(a, b float64) bool { return a <= b })
}

func builtinGe(name string, args []Value) (Value, error) {
	return chainCompare(name, args, func(a, b float64) bool { return a >= b })
}

func builtinEqP(name string, args []Value) (Value, error) {
	if len(args) != 2 {
		return Value{}, NewArityError(Position{}, name, 2, len(args))
	}
	return NewBoolean(args[0].Equal(args[1])), nil
}
