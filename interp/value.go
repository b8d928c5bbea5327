package interp

// Kind discriminates the variants of Value.
type Kind uint8

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindSymbol
	KindList
	KindProcedure
	kindUninitialized // internal sentinel for letrec slots, never user-visible
)

// Value is the sum type every Scheme datum is represented by. Only the
// field matching Kind is meaningful; the rest are zero. Strings are held
// by pointer so that copying a Value (routine, since it is passed by
// value throughout the evaluator) never copies string bytes.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  *string
	sym  Symbol
	list List
	proc *Procedure
}

// NewNil returns the empty/unspecified value.
func NewNil() Value { return Value{kind: KindNil} }

// NewBoolean wraps a boolean.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// NewNumber wraps a float64. The subset has no separate integer type;
// integral numbers simply display without a fractional part.
func NewNumber(n float64) Value { return Value{kind: KindNumber, num: n} }

// NewString wraps a string.
func NewString(s string) Value { return Value{kind: KindString, str: &s} }

// NewSymbolValue wraps a Symbol as a self-evaluating reference marker; an
// Atom expression carrying a Value of this kind means "look this name up",
// per the evaluator's treatment of Expression.Atom.
func NewSymbolValue(sym Symbol) Value { return Value{kind: KindSymbol, sym: sym} }

// NewListValue wraps a List.
func NewListValue(l List) Value { return Value{kind: KindList, list: l} }

// NewProcedureValue wraps a Procedure.
func NewProcedureValue(p *Procedure) Value { return Value{kind: KindProcedure, proc: p} }

func uninitializedValue() Value { return Value{kind: kindUninitialized} }

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNil() bool              { return v.kind == KindNil }
func (v Value) IsBoolean() bool          { return v.kind == KindBoolean }
func (v Value) IsNumber() bool           { return v.kind == KindNumber }
func (v Value) IsString() bool           { return v.kind == KindString }
func (v Value) IsSymbol() bool           { return v.kind == KindSymbol }
func (v Value) IsList() bool             { return v.kind == KindList }
func (v Value) IsProcedure() bool        { return v.kind == KindProcedure }

// IsListLike reports whether v is a List or Nil: '() and Nil are
// behaviorally indistinguishable for list?/null?.
func (v Value) IsListLike() bool { return v.kind == KindList || v.kind == KindNil }
func (v Value) isUninitialized() bool    { return v.kind == kindUninitialized }

// IsTruthy implements the subset's truthiness rule: everything is truthy
// except the boolean value #f.
func (v Value) IsTruthy() bool {
	return !(v.kind == KindBoolean && !v.b)
}

// Number returns the numeric payload; callers must check IsNumber first.
func (v Value) Number() float64 { return v.num }

// Boolean returns the boolean payload; callers must check IsBoolean first.
func (v Value) Boolean() bool { return v.b }

// String returns the string payload; callers must check IsString first.
func (v Value) String() string {
	if v.str == nil {
		return ""
	}
	return *v.str
}

// Symbol returns the symbol payload; callers must check IsSymbol first.
func (v Value) Symbol() Symbol { return v.sym }

// List returns the list payload; callers must check IsList first.
func (v Value) List() List { return v.list }

// Procedure returns the procedure payload; callers must check IsProcedure first.
func (v Value) Procedure() *Procedure { return v.proc }

// TypeName returns the subset's user-facing type name, used in TypeError messages.
func (v Value) TypeName() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindList:
		return "list"
	case KindProcedure:
		return "procedure"
	default:
		return "unknown"
	}
}

// Equal implements eq?/equal? for the subset: numbers by value, strings and
// symbols by content, booleans by value, lists elementwise, procedures and
// nil by identity/kind.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBoolean:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.String() == other.String()
	case KindSymbol:
		return v.sym == other.sym
	case KindList:
		return v.list.Equal(other.list)
	case KindProcedure:
		return v.proc == other.proc
	default:
		return false
	}
}

// Procedure is either a builtin Go function or a user-defined Lambda.
// Exactly one of builtin/lambda is non-nil.
type Procedure struct {
	name    string
	builtin BuiltinFunc
	lambda  *Lambda
}

// BuiltinFunc implements a primitive procedure. args are already evaluated.
type BuiltinFunc func(name string, args []Value) (Value, error)

// NewBuiltin constructs a builtin procedure.
func NewBuiltin(name string, fn BuiltinFunc) *Procedure {
	return &Procedure{name: name, builtin: fn}
}

// NewLambdaProcedure constructs a user-defined procedure.
func NewLambdaProcedure(l *Lambda) *Procedure {
	return &Procedure{name: "lambda", builtin: nil, lambda: l}
}

func (p *Procedure) Name() string     { return p.name }
func (p *Procedure) IsBuiltin() bool  { return p.builtin != nil }
func (p *Procedure) IsLambda() bool   { return p.lambda != nil }
func (p *Procedure) Lambda() *Lambda  { return p.lambda }

// Lambda is a user-defined procedure's closure: parameters, an ordered body
// (the value of the last expression is the result), and the environment
// captured at creation time.
type Lambda struct {
	Params   []Symbol
	Variadic bool // when true, the final Param collects extra args as a list
	Body     []Expression
	Env      Frame
}
