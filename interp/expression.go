package interp

// Position locates an Expression in source text, for error reporting.
type Position struct {
	Line   int
	Column int
}

// ExprKind discriminates the variants of Expression.
type ExprKind uint8

const (
	// ExprAtom wraps a self-evaluating Value, or (when the Value's Kind is
	// KindSymbol) a reference to be looked up in the environment.
	ExprAtom ExprKind = iota
	// ExprList is a compound form: a special form or a procedure application.
	ExprList
	// ExprQuote suppresses evaluation of its inner Expression, converting
	// it structurally into a Value instead.
	ExprQuote
)

// Expression is the read-only AST node the evaluator consumes. It is
// produced by a reader external to this package and never mutated once
// built.
type Expression struct {
	Kind   ExprKind
	Pos    Position
	Atom   Value
	List   []Expression
	Quoted *Expression
}

// NewAtom builds a self-evaluating literal or symbol-reference Expression.
func NewAtom(pos Position, v Value) Expression {
	return Expression{Kind: ExprAtom, Pos: pos, Atom: v}
}

// NewSymbolRef builds an Expression that looks sym up when evaluated.
func NewSymbolRef(pos Position, sym Symbol) Expression {
	return NewAtom(pos, NewSymbolValue(sym))
}

// NewExprList builds a compound-form Expression.
func NewExprList(pos Position, elems []Expression) Expression {
	return Expression{Kind: ExprList, Pos: pos, List: elems}
}

// NewQuote builds a quoted Expression.
func NewQuote(pos Position, inner Expression) Expression {
	return Expression{Kind: ExprQuote, Pos: pos, Quoted: &inner}
}

// quoteToValue converts an unevaluated Expression into the Value it denotes
// structurally: atoms keep their literal, nested lists become List values,
// and nested quotes unwrap (quote is idempotent under this conversion).
func quoteToValue(e Expression) Value {
	switch e.Kind {
	case ExprAtom:
		return e.Atom
	case ExprQuote:
		return quoteToValue(*e.Quoted)
	case ExprList:
		vals := make([]Value, len(e.List))
		for i, sub := range e.List {
			vals[i] = quoteToValue(sub)
		}
		return NewListValue(NewList(vals...))
	default:
		return NewNil()
	}
}
