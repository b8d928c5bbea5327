package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLetBindsSimultaneouslyInOuterEnv(t *testing.T) {
	env := newTestEnv()
	mustEval(t, listE(sym("define"), sym("x"), numE(1)), env)
	// (let ((x 2) (y x)) (+ x y)) -- y's initializer sees the outer x (1),
	// not the not-yet-bound inner x (2): simultaneous binding.
	expr := listE(sym("let"),
		listE(listE(sym("x"), numE(2)), listE(sym("y"), sym("x"))),
		listE(sym("+"), sym("x"), sym("y")))
	v := mustEval(t, expr, env)
	assert.Equal(t, 3.0, v.Number())
}

func TestLetDuplicateBindingIsError(t *testing.T) {
	env := newTestEnv()
	expr := listE(sym("let"), listE(listE(sym("x"), numE(1)), listE(sym("x"), numE(2))), sym("x"))
	_, err := Eval(expr, env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ValidationErrorKind, se.Kind)
}

func TestLetrecReferencingUninitializedSlotIsError(t *testing.T) {
	env := newTestEnv()
	// (letrec ((a b) (b 1)) a) -- a's initializer references b before the
	// letrec fills any slot in.
	expr := listE(sym("letrec"), listE(listE(sym("a"), sym("b")), listE(sym("b"), numE(1))), sym("a"))
	_, err := Eval(expr, env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ValidationErrorKind, se.Kind)
}

func TestLetrecDuplicateBindingIsError(t *testing.T) {
	env := newTestEnv()
	expr := listE(sym("letrec"), listE(listE(sym("x"), numE(1)), listE(sym("x"), numE(2))), sym("x"))
	_, err := Eval(expr, env)
	require.Error(t, err)
}

func TestLambdaDuplicateParameterIsRejected(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("lambda"), listE(sym("a"), sym("a")), sym("a")), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ValidationErrorKind, se.Kind)
}

func TestLambdaRequiresAtLeastOneBodyExpression(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("lambda"), listE(sym("a"))), env)
	require.Error(t, err)
}

func TestLambdaZeroArityIsValid(t *testing.T) {
	env := newTestEnv()
	mustEval(t, listE(sym("define"), sym("const5"), listE(sym("lambda"), listE(), numE(5))), env)
	v := mustEval(t, listE(sym("const5")), env)
	assert.Equal(t, 5.0, v.Number())
}

func TestVariadicLambdaCollectsRestAsList(t *testing.T) {
	env := newTestEnv()
	mustEval(t, listE(sym("define"), sym("f"), listE(sym("lambda"), sym("rest"), sym("rest"))), env)
	v := mustEval(t, listE(sym("f"), numE(1), numE(2), numE(3)), env)
	require.True(t, v.IsList())
	assert.Equal(t, 3, v.List().Len())
}

func TestDefineValueFormRecursion(t *testing.T) {
	env := newTestEnv()
	// (define fact (lambda (n) (if (= n 0) 1 (* n (fact (- n 1))))))
	mustEval(t, listE(sym("define"), sym("fact"),
		listE(sym("lambda"), listE(sym("n")),
			listE(sym("if"), listE(sym("="), sym("n"), numE(0)),
				numE(1),
				listE(sym("*"), sym("n"), listE(sym("fact"), listE(sym("-"), sym("n"), numE(1))))))),
		env)
	v := mustEval(t, listE(sym("fact"), numE(5)), env)
	assert.Equal(t, 120.0, v.Number())
}

func TestDefineProcedureFormShorthandEquivalence(t *testing.T) {
	env := newTestEnv()
	mustEval(t, listE(sym("define"), listE(sym("square"), sym("n")), listE(sym("*"), sym("n"), sym("n"))), env)
	v := mustEval(t, listE(sym("square"), numE(6)), env)
	assert.Equal(t, 36.0, v.Number())
}

func TestDefineEmptyParamListHeaderIsSyntaxError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("define"), listE()), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, SyntaxErrorKind, se.Kind)
}

func TestDefineReturnsNil(t *testing.T) {
	env := newTestEnv()
	v := mustEval(t, listE(sym("define"), sym("x"), numE(1)), env)
	assert.True(t, v.IsNil())

	v = mustEval(t, listE(sym("define"), listE(sym("f"), sym("n")), sym("n")), env)
	assert.True(t, v.IsNil())
}
