package interp

// Eval evaluates expr in env, tail-call optimized: a call in tail position
// (the last expression of a lambda body, begin, let/letrec body, or the
// chosen branch of an if) reuses this call's stack frame via the loop
// below instead of recursing, so arbitrarily deep tail recursion runs in
// constant Go stack space.
func Eval(expr Expression, env Frame) (Value, error) {
	for {
		switch expr.Kind {
		case ExprQuote:
			return quoteToValue(*expr.Quoted), nil

		case ExprAtom:
			v := expr.Atom
			if v.Kind() != KindSymbol {
				return v, nil
			}
			return lookupSymbol(v.Symbol(), env, expr.Pos)

		case ExprList:
			elems := expr.List
			if len(elems) == 0 {
				return NewListValue(EmptyList()), nil
			}

			if name, ok := specialFormName(elems[0]); ok {
				switch name {
				case "quote":
					val, err := evalQuoteForm(elems)
					return val, err

				case "if":
					branch, err := evalIfForm(elems, env)
					if err != nil {
						return Value{}, err
					}
					expr = branch
					continue

				case "lambda":
					return evalLambdaForm(elems, env)

				case "define":
					return evalDefineForm(elems, env)

				case "let":
					bodyEnv, body, err := evalLetForm(elems, env)
					if err != nil {
						return Value{}, err
					}
					v, err := evalBodySequenceTail(body, bodyEnv)
					if err != nil {
						return Value{}, err
					}
					if v.isTail {
						expr, env = v.expr, v.env
						continue
					}
					return v.value, nil

				case "letrec":
					bodyEnv, body, err := evalLetrecForm(elems, env)
					if err != nil {
						return Value{}, err
					}
					v, err := evalBodySequenceTail(body, bodyEnv)
					if err != nil {
						return Value{}, err
					}
					if v.isTail {
						expr, env = v.expr, v.env
						continue
					}
					return v.value, nil

				case "begin":
					v, err := evalBodySequenceTail(elems[1:], env)
					if err != nil {
						return Value{}, err
					}
					if v.isTail {
						expr, env = v.expr, v.env
						continue
					}
					return v.value, nil
				}
			}

			// Ordinary application.
			calleeVal, err := Eval(elems[0], env)
			if err != nil {
				return Value{}, err
			}
			if !calleeVal.IsProcedure() {
				return Value{}, NewTypeError("apply", "procedure", calleeVal)
			}
			argExprs := elems[1:]
			argVals := make([]Value, len(argExprs))
			for i, ae := range argExprs {
				av, err := Eval(ae, env)
				if err != nil {
					return Value{}, err
				}
				argVals[i] = av
			}

			proc := calleeVal.Procedure()
			if proc.IsLambda() {
				newEnv, err := bindLambdaArgs(proc, argVals, expr.Pos)
				if err != nil {
					return Value{}, err
				}
				lambda := proc.Lambda()
				if len(lambda.Body) == 0 {
					return NewNil(), nil
				}
				for i := 0; i < len(lambda.Body)-1; i++ {
					if _, err := Eval(lambda.Body[i], newEnv); err != nil {
						return Value{}, err
					}
				}
				expr = lambda.Body[len(lambda.Body)-1]
				env = newEnv
				continue
			}

			return proc.builtin(proc.name, argVals)
		}
	}
}

// Apply calls procVal with args directly, without going through an
// ExprList application: the path a host embedding the interpreter needs
// to invoke a Scheme procedure value from Go code (e.g. a fiber's
// Computation running a Scheme thunk handed to `spawn`). A lambda's body
// runs exactly as it would in tail position inside Eval; a builtin is
// invoked directly.
func Apply(procVal Value, args []Value, pos Position) (Value, error) {
	if !procVal.IsProcedure() {
		return Value{}, NewTypeError("apply", "procedure", procVal)
	}
	proc := procVal.Procedure()
	if proc.IsLambda() {
		newEnv, err := bindLambdaArgs(proc, args, pos)
		if err != nil {
			return Value{}, err
		}
		lambda := proc.Lambda()
		if len(lambda.Body) == 0 {
			return NewNil(), nil
		}
		for i := 0; i < len(lambda.Body)-1; i++ {
			if _, err := Eval(lambda.Body[i], newEnv); err != nil {
				return Value{}, err
			}
		}
		return Eval(lambda.Body[len(lambda.Body)-1], newEnv)
	}
	return proc.builtin(proc.name, args)
}

// tailResult is either a final value (the sequence had no further tail
// expression to hand back to the trampoline) or an unevaluated tail
// expression plus the environment to evaluate it in.
type tailResult struct {
	isTail bool
	expr   Expression
	env    Frame
	value  Value
}

// evalBodySequenceTail evaluates every expression but the last for effect,
// then hands the last one back unevaluated so the caller's trampoline loop
// can continue it in tail position. An empty sequence evaluates to nil.
func evalBodySequenceTail(body []Expression, env Frame) (tailResult, error) {
	if len(body) == 0 {
		return tailResult{value: NewNil()}, nil
	}
	for i := 0; i < len(body)-1; i++ {
		if _, err := Eval(body[i], env); err != nil {
			return tailResult{}, err
		}
	}
	return tailResult{isTail: true, expr: body[len(body)-1], env: env}, nil
}

func lookupSymbol(sym Symbol, env Frame, pos Position) (Value, error) {
	v, ok := env.Lookup(sym)
	if !ok {
		suggestions := findSimilarIdentifiers(env, sym.String())
		return Value{}, NewUnboundIdentifier(pos, sym.String(), suggestions)
	}
	if v.isUninitialized() {
		return Value{}, NewValidationError(pos, "reference to uninitialized binding '%s'", sym.String())
	}
	return v, nil
}

// specialFormNames lists the identifiers recognized by syntactic position,
// never by value: rebinding one of these names does not shadow the form.
var specialFormNames = map[string]struct{}{
	"quote": {}, "if": {}, "lambda": {}, "define": {},
	"let": {}, "letrec": {}, "begin": {},
}

func specialFormName(head Expression) (string, bool) {
	if head.Kind != ExprAtom || head.Atom.Kind() != KindSymbol {
		return "", false
	}
	name := head.Atom.Symbol().String()
	if _, ok := specialFormNames[name]; ok {
		return name, true
	}
	return "", false
}

// bindLambdaArgs builds the call frame for applying proc's lambda to args.
func bindLambdaArgs(proc *Procedure, args []Value, pos Position) (*ChainFrame, error) {
	lambda := proc.Lambda()
	frame := NewChainFrame(lambda.Env)

	if lambda.Variadic {
		fixed := len(lambda.Params) - 1
		if len(args) < fixed {
			return nil, NewArityErrorRange(pos, proc.Name(), fixed, -1, len(args))
		}
		for i := 0; i < fixed; i++ {
			frame.Define(lambda.Params[i], args[i])
		}
		frame.Define(lambda.Params[fixed], NewListValue(NewList(args[fixed:]...)))
		return frame, nil
	}

	if len(args) != len(lambda.Params) {
		return nil, NewArityError(pos, proc.Name(), len(lambda.Params), len(args))
	}
	for i, p := range lambda.Params {
		frame.Define(p, args[i])
	}
	return frame, nil
}
