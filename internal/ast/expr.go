package ast

var (
	_ Expr = (*Assignment)(nil)
	_ Expr = (*Call)(nil)
	_ Expr = (*FunctionLiteral)(nil)
	_ Expr = (*Identifier)(nil)
	_ Expr = (*If)(nil)
	_ Expr = (*Literal)(nil)
	_ Expr = (*OperatorCall)(nil)
	_ Expr = (*Unit)(nil)
)

// Expr is a single clip expression. Everything in a program is an
// expression; there are no statements.
type Expr interface {
	isExpr()
}

type (
	// Assignment binds the evaluated Value to Name and yields that value.
	Assignment struct {
		Name  string
		Value Expr
	}

	// Call applies Callee to Args. A nil Args means the call was written
	// with the unit form `f ()` and passes no arguments at all.
	Call struct {
		Callee Expr
		Args   []Expr
	}

	// FunctionLiteral is a `{ [params] body }` block. Body expressions
	// run in order; the last one produces the function's value.
	FunctionLiteral struct {
		Params []string
		Body   []Expr
	}

	Identifier struct {
		Name string
	}

	// If evaluates Then when Condition yields true, Else otherwise. A nil
	// Else yields unit. An `elif` chain parses as a nested If inside Else.
	If struct {
		Condition Expr
		Then      []Expr
		Else      []Expr
	}

	// Literal holds an integer (int64), float (float64), string or
	// boolean constant.
	Literal struct {
		Value any
	}

	// OperatorCall applies a variadic prefix operator to its operands.
	OperatorCall struct {
		Operator Operator
		Operands []Expr
	}

	// Unit is the `()` value.
	Unit struct{}
)

func (e Assignment) isExpr()      {}
func (e Call) isExpr()            {}
func (e FunctionLiteral) isExpr() {}
func (e Identifier) isExpr()      {}
func (e If) isExpr()              {}
func (e Literal) isExpr()         {}
func (e OperatorCall) isExpr()    {}
func (e Unit) isExpr()            {}
