package interp

func requireNumbers(name string, args []Value) ([]float64, error) {
	nums := make([]float64, len(args))
	for i, a := range args {
		if !a.IsNumber() {
			return nil, NewTypeError(name, "number", a)
		}
		nums[i] = a.Number()
	}
	return nums, nil
}

func builtinAdd(name string, args []Value) (Value, error) {
	nums, err := requireNumbers(name, args)
	if err != nil {
		return Value{}, err
	}
	sum := 0.0
	for _, n := range nums {
		sum += n
	}
	return NewNumber(sum), nil
}

func builtinMul(name string, args []Value) (Value, error) {
	nums, err := requireNumbers(name, args)
	if err != nil {
		return Value{}, err
	}
	product := 1.0
	for _, n := range nums {
		product *= n
	}
	return NewNumber(product), nil
}

func builtinSub(name string, args []Value) (Value, error) {
	nums, err := requireNumbers(name, args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return Value{}, NewArityErrorRange(Position{}, name, 1, -1, 0)
	}
	if len(nums) == 1 {
		return NewNumber(-nums[0]), nil
	}
	result := nums[0]
	for _, n := range nums[1:] {
		result -= n
	}
	return NewNumber(result), nil
}

func builtinDiv(name string, args []Value) (Value, error) {
	nums, err := requireNumbers(name, args)
	if err != nil {
		return Value{}, err
	}
	if len(nums) == 0 {
		return Value{}, NewArityErrorRange(Position{}, name, 1, -1, 0)
	}
	if len(nums) == 1 {
		if nums[0] == 0 {
			return Value{}, NewRuntimeError("%s: division by zero", name)
		}
		return NewNumber(1 / nums[0]), nil
	}
	result := nums[0]
	for _, n := range nums[1:] {
		if n == 0 {
			return Value{}, NewRuntimeError("%s: division by zero", name)
		}
		result /= n
	}
	return NewNumber(result), nil
}
