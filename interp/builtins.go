package interp

import "io"

// registerBuiltins installs every primitive procedure into root, binding
// the I/O-facing ones (display, newline) to stdout.
func registerBuiltins(root *ChainFrame, stdout io.Writer) {
	install := func(name string, fn BuiltinFunc) {
		root.Define(NewSymbol(name), NewProcedureValue(NewBuiltin(name, fn)))
	}

	install("+", builtinAdd)
	install("-", builtinSub)
	install("*", builtinMul)
	install("/", builtinDiv)

	install("=", builtinNumEq)
	install("<", builtinLt)
	install(">", builtinGt)
	install("<=", builtinLe)
	install(">=", builtinGe)
	install("eq?", builtinEqP)

	install("cons", builtinCons)
	install("car", builtinCar)
	install("cdr", builtinCdr)
	install("list", builtinList)
	install("length", builtinLength)
	install("null?", builtinNullP)
	install("append", builtinAppend)
	install("reverse", builtinReverse)

	install("number?", builtinNumberP)
	install("string?", builtinStringP)
	install("boolean?", builtinBooleanP)
	install("symbol?", builtinSymbolP)
	install("list?", builtinListP)
	install("procedure?", builtinProcedureP)
	install("not", builtinNot)

	install("display", makeDisplayBuiltin(stdout))
	install("newline", makeNewlineBuiltin(stdout))
}
