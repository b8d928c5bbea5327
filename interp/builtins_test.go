package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonChainsAreVariadicLeftToRight(t *testing.T) {
	env := newTestEnv()
	v := mustEval(t, listE(sym("<"), numE(1), numE(2), numE(3)), env)
	assert.True(t, v.Boolean())
	v = mustEval(t, listE(sym("<"), numE(1), numE(3), numE(2)), env)
	assert.False(t, v.Boolean())
}

func TestComparisonRequiresAtLeastTwoArgs(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("<"), numE(1)), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ArityErrorKind, se.Kind)
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("/"), numE(1), numE(0)), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, RuntimeErrorKind, se.Kind)
}

func TestUnaryArithmetic(t *testing.T) {
	env := newTestEnv()
	assert.Equal(t, -5.0, mustEval(t, listE(sym("-"), numE(5)), env).Number())
	assert.Equal(t, 0.5, mustEval(t, listE(sym("/"), numE(2)), env).Number())
}

func TestArithmeticTypeErrorOnNonNumber(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("+"), strE("x")), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, TypeErrorKind, se.Kind)
}

func TestConsRejectsNonListSecondArg(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("cons"), numE(1), numE(2)), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, TypeErrorKind, se.Kind)
}

func TestListPredicateTrueForListAndNil(t *testing.T) {
	env := newTestEnv()
	assert.True(t, mustEval(t, listE(sym("list?"), quoteE(listE())), env).Boolean())
	assert.True(t, mustEval(t, listE(sym("list?"), quoteE(listE(numE(1)))), env).Boolean())
	assert.False(t, mustEval(t, listE(sym("list?"), numE(1)), env).Boolean())

	// (begin) evaluates to Nil, which list? must treat the same as the
	// empty list.
	nilExpr := listE(sym("begin"))
	assert.True(t, mustEval(t, listE(sym("list?"), nilExpr), env).Boolean())
}

func TestNullPredicateTrueForEmptyListOnly(t *testing.T) {
	env := newTestEnv()
	assert.True(t, mustEval(t, listE(sym("null?"), quoteE(listE())), env).Boolean())
	nilExpr := listE(sym("begin"))
	assert.True(t, mustEval(t, listE(sym("null?"), nilExpr), env).Boolean())
	assert.False(t, mustEval(t, listE(sym("null?"), quoteE(listE(numE(1)))), env).Boolean())
}

func TestTypePredicatesNeverRaise(t *testing.T) {
	env := newTestEnv()
	preds := []string{"number?", "string?", "boolean?", "symbol?", "list?", "procedure?"}
	inputs := []Expression{numE(1), strE("s"), boolE(true), quoteE(sym("s")), quoteE(listE()), sym("+")}
	for _, p := range preds {
		for _, in := range inputs {
			_, err := Eval(listE(sym(p), in), env)
			require.NoError(t, err, "%s should never raise", p)
		}
	}
}

func TestEqPStructuralEquality(t *testing.T) {
	env := newTestEnv()
	v := mustEval(t, listE(sym("eq?"), quoteE(listE(numE(1), numE(2))), quoteE(listE(numE(1), numE(2)))), env)
	assert.True(t, v.Boolean())
}

func TestLengthOfListMatchesListPredicate(t *testing.T) {
	env := newTestEnv()
	v := mustEval(t, listE(sym("length"), quoteE(listE(numE(1), numE(2), numE(3)))), env)
	assert.Equal(t, 3.0, v.Number())

	// list? is true for Nil, so length must succeed on it as well.
	nilExpr := listE(sym("begin"))
	assert.True(t, mustEval(t, listE(sym("list?"), nilExpr), env).Boolean())
	assert.Equal(t, 0.0, mustEval(t, listE(sym("length"), nilExpr), env).Number())
}

func TestLengthOnNonListIsTypeError(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("length"), numE(1)), env)
	require.Error(t, err)
	var se *SchemeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, TypeErrorKind, se.Kind)
}

func TestDisplayAndNewlineArity(t *testing.T) {
	env := newTestEnv()
	_, err := Eval(listE(sym("display")), env)
	require.Error(t, err)
	_, err = Eval(listE(sym("newline"), numE(1)), env)
	require.Error(t, err)
}

func TestDisplayReturnsNil(t *testing.T) {
	env := newTestEnv()
	v := mustEval(t, listE(sym("display"), numE(1)), env)
	assert.True(t, v.IsNil())
}
