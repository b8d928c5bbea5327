package interp

// evalQuoteForm implements (quote datum).
func evalQuoteForm(elems []Expression) (Value, error) {
	if len(elems) != 2 {
		return Value{}, NewSyntaxError(elems[0].Pos, "quote: expected exactly 1 argument, got %d", len(elems)-1)
	}
	return quoteToValue(elems[1]), nil
}

// evalIfForm implements (if cond then else), returning the branch chosen
// so the caller can continue evaluating it in tail position. The else
// branch is mandatory.
func evalIfForm(elems []Expression, env Frame) (Expression, error) {
	if len(elems) != 4 {
		return Expression{}, NewSyntaxError(elems[0].Pos, "if: expected 3 arguments, got %d", len(elems)-1)
	}
	cond, err := Eval(elems[1], env)
	if err != nil {
		return Expression{}, err
	}
	if cond.IsTruthy() {
		return elems[2], nil
	}
	return elems[3], nil
}

// evalLambdaForm implements (lambda (params...) body...) and the variadic
// form (lambda rest body...), where rest is a bare symbol collecting every
// argument as a list.
func evalLambdaForm(elems []Expression, env Frame) (Value, error) {
	if len(elems) < 3 {
		return Value{}, NewSyntaxError(elems[0].Pos, "lambda: expected a parameter list and at least one body expression")
	}
	paramsExpr := elems[1]
	body := elems[2:]

	var params []Symbol
	variadic := false
	switch {
	case paramsExpr.Kind == ExprAtom && paramsExpr.Atom.Kind() == KindSymbol:
		params = []Symbol{paramsExpr.Atom.Symbol()}
		variadic = true
	case paramsExpr.Kind == ExprList:
		seen := make(map[Symbol]struct{}, len(paramsExpr.List))
		for _, p := range paramsExpr.List {
			if p.Kind != ExprAtom || p.Atom.Kind() != KindSymbol {
				return Value{}, NewSyntaxError(p.Pos, "lambda: parameter list must contain only identifiers")
			}
			sym := p.Atom.Symbol()
			if _, dup := seen[sym]; dup {
				return Value{}, NewValidationError(p.Pos, "lambda: duplicate parameter '%s'", sym.String())
			}
			seen[sym] = struct{}{}
			params = append(params, sym)
		}
	default:
		return Value{}, NewSyntaxError(paramsExpr.Pos, "lambda: malformed parameter list")
	}

	lambda := &Lambda{Params: params, Variadic: variadic, Body: body}
	if cf, ok := env.(*ChainFrame); ok {
		lambda.Env = CaptureClosureEnv(env, cf)
	} else {
		lambda.Env = CaptureClosureEnv(env, nil)
	}
	return NewProcedureValue(NewLambdaProcedure(lambda)), nil
}

// evalDefineForm implements (define name value) and the procedure
// shorthand (define (name params...) body...). The environment currently
// in scope at the point of the define is the frame the binding lands in
// and, for a lambda value, also the frame its DetachedFrame weakly
// back-references for self-recursive lookups.
func evalDefineForm(elems []Expression, env Frame) (Value, error) {
	if len(elems) < 2 {
		return Value{}, NewSyntaxError(elems[0].Pos, "define: expected a name and a value")
	}
	cf, ok := env.(*ChainFrame)
	if !ok {
		return Value{}, NewRuntimeError("define: no enclosing mutable frame")
	}

	switch elems[1].Kind {
	case ExprAtom:
		if elems[1].Atom.Kind() != KindSymbol {
			return Value{}, NewSyntaxError(elems[1].Pos, "define: name must be an identifier")
		}
		if len(elems) != 3 {
			return Value{}, NewSyntaxError(elems[0].Pos, "define: expected exactly one value expression")
		}
		name := elems[1].Atom.Symbol()
		// evalLambdaForm (reached via Eval when the value is a lambda
		// literal) captures env's own ChainFrame as its installer, which
		// is exactly cf: the frame about to receive this binding.
		val, err := Eval(elems[2], env)
		if err != nil {
			return Value{}, err
		}
		cf.Define(name, val)
		return NewNil(), nil

	case ExprList:
		if len(elems[1].List) == 0 || elems[1].List[0].Kind != ExprAtom || elems[1].List[0].Atom.Kind() != KindSymbol {
			return Value{}, NewSyntaxError(elems[1].Pos, "define: malformed procedure header")
		}
		name := elems[1].List[0].Atom.Symbol()
		lambdaElems := make([]Expression, 0, len(elems)-1)
		lambdaElems = append(lambdaElems, NewAtom(elems[0].Pos, NewSymbolValue(NewSymbol("lambda"))))
		lambdaElems = append(lambdaElems, NewExprList(elems[1].Pos, elems[1].List[1:]))
		lambdaElems = append(lambdaElems, elems[2:]...)
		val, err := evalLambdaForm(lambdaElems, env)
		if err != nil {
			return Value{}, err
		}
		cf.Define(name, val)
		return NewNil(), nil

	default:
		return Value{}, NewSyntaxError(elems[1].Pos, "define: malformed form")
	}
}

// evalLetForm implements (let ((name val) ...) body...), evaluating every
// val in the outer environment and binding them in one new frame.
func evalLetForm(elems []Expression, env Frame) (Frame, []Expression, error) {
	if len(elems) < 2 || elems[1].Kind != ExprList {
		return nil, nil, NewSyntaxError(elems[0].Pos, "let: expected a binding list")
	}
	frame := NewChainFrame(env)
	seen := make(map[Symbol]struct{}, len(elems[1].List))
	for _, b := range elems[1].List {
		name, valExpr, err := parseBindingPair(b)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, nil, NewValidationError(b.Pos, "let: duplicate binding '%s'", name.String())
		}
		seen[name] = struct{}{}
		val, err := Eval(valExpr, env)
		if err != nil {
			return nil, nil, err
		}
		frame.Define(name, val)
	}
	return frame, elems[2:], nil
}

// evalLetrecForm implements (letrec ((name val) ...) body...): every name
// is pre-bound to an uninitialized sentinel in one shared frame before any
// val is evaluated, so mutually recursive lambdas can close over names
// that are not yet filled in, as long as they are not referenced before
// the letrec finishes evaluating every val.
func evalLetrecForm(elems []Expression, env Frame) (Frame, []Expression, error) {
	if len(elems) < 2 || elems[1].Kind != ExprList {
		return nil, nil, NewSyntaxError(elems[0].Pos, "letrec: expected a binding list")
	}
	frame := NewChainFrame(env)
	names := make([]Symbol, 0, len(elems[1].List))
	exprs := make([]Expression, 0, len(elems[1].List))
	seen := make(map[Symbol]struct{}, len(elems[1].List))
	for _, b := range elems[1].List {
		name, valExpr, err := parseBindingPair(b)
		if err != nil {
			return nil, nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, nil, NewValidationError(b.Pos, "letrec: duplicate binding '%s'", name.String())
		}
		seen[name] = struct{}{}
		frame.Define(name, uninitializedValue())
		names = append(names, name)
		exprs = append(exprs, valExpr)
	}
	for i, valExpr := range exprs {
		val, err := Eval(valExpr, frame)
		if err != nil {
			return nil, nil, err
		}
		frame.Define(names[i], val)
	}
	return frame, elems[2:], nil
}

func parseBindingPair(b Expression) (Symbol, Expression, error) {
	if b.Kind != ExprList || len(b.List) != 2 {
		return Symbol{}, Expression{}, NewSyntaxError(b.Pos, "expected a (name value) binding pair")
	}
	if b.List[0].Kind != ExprAtom || b.List[0].Atom.Kind() != KindSymbol {
		return Symbol{}, Expression{}, NewSyntaxError(b.List[0].Pos, "binding name must be an identifier")
	}
	return b.List[0].Atom.Symbol(), b.List[1], nil
}
