package evaluate

import (
	"fmt"

	"github.com/devnote-dev/clip/internal/ast"
)

// numeric constrains a fold to one value type; mixing integer and float
// operands is a type error, never an implicit conversion.
type numeric interface {
	Integer | Float
	Value
}

type ordered interface {
	Integer | Float | String
	Value
}

func applyOperator(operator ast.Operator, operands []Value) (Value, error) {
	if operator == ast.OperatorNot {
		return applyInverse(operands)
	}

	if len(operands) < 2 {
		return nil, &ArityError{
			Message: fmt.Sprintf("expected at least 2 arguments for %s operator", operator.Name()),
		}
	}

	switch operator {
	case ast.OperatorAdd, ast.OperatorSubtract, ast.OperatorMultiply, ast.OperatorDivide:
		return applyArithmetic(operator, operands)

	case ast.OperatorEqual:
		return applyEquality(operands)

	case ast.OperatorGreaterThan, ast.OperatorGreaterThanOrEqual, ast.OperatorLessThan, ast.OperatorLessThanOrEqual:
		return applyComparison(operator, operands)

	case ast.OperatorAnd, ast.OperatorOr:
		return applyLogical(operator, operands)
	}

	return nil, fmt.Errorf("unsupported operator: %s", operator)
}

func applyInverse(operands []Value) (Value, error) {
	if len(operands) != 1 {
		return nil, &ArityError{
			Message: "expected exactly one argument for inverse operator",
		}
	}

	operand, ok := operands[0].(Boolean)
	if !ok {
		return nil, typeErrorf("cannot inverse type %s", operands[0].Kind())
	}

	return !operand, nil
}

func applyArithmetic(operator ast.Operator, operands []Value) (Value, error) {
	switch first := operands[0].(type) {
	case Integer:
		return foldArithmetic(operator, first, operands[1:])

	case Float:
		return foldArithmetic(operator, first, operands[1:])

	default:
		return nil, typeErrorf("cannot %s type %s", operator.Name(), operands[0].Kind())
	}
}

func foldArithmetic[T numeric](operator ast.Operator, first T, rest []Value) (Value, error) {
	result := first

	for _, value := range rest {
		operand, ok := value.(T)
		if !ok {
			return nil, typeErrorf("cannot %s type %s with type %s", operator.Name(), first.Kind(), value.Kind())
		}

		switch operator {
		case ast.OperatorAdd:
			result += operand

		case ast.OperatorSubtract:
			result -= operand

		case ast.OperatorMultiply:
			result *= operand

		case ast.OperatorDivide:
			if operand == 0 {
				return nil, &DivisionByZeroError{}
			}

			result /= operand
		}
	}

	return result, nil
}

// applyEquality checks the first operand against each of the rest and is
// true when any of them matches. Unit compares with anything and matches
// only unit; every other cross kind pair is a type error. Functions are
// equal only when they are the same closure.
func applyEquality(operands []Value) (Value, error) {
	result := false

	for _, value := range operands[1:] {
		equal, err := valuesEqual(operands[0], value)
		if err != nil {
			return nil, err
		}

		if equal {
			result = true
		}
	}

	return Boolean(result), nil
}

func valuesEqual(a, b Value) (bool, error) {
	_, aUnit := a.(Unit)
	_, bUnit := b.(Unit)
	if aUnit || bUnit {
		return aUnit && bUnit, nil
	}

	if a.Kind() != b.Kind() {
		return false, typeErrorf("cannot compare type %s with type %s", a.Kind(), b.Kind())
	}

	if function, ok := a.(*Function); ok {
		return function == b.(*Function), nil
	}

	return a == b, nil
}

// applyComparison orders the first operand against each of the rest and
// is true when any pair satisfies the operator. Only numbers and strings
// have an order.
func applyComparison(operator ast.Operator, operands []Value) (Value, error) {
	switch first := operands[0].(type) {
	case Integer:
		return foldComparison(operator, first, operands[1:])

	case Float:
		return foldComparison(operator, first, operands[1:])

	case String:
		return foldComparison(operator, first, operands[1:])

	default:
		return nil, typeErrorf("cannot compare type %s", operands[0].Kind())
	}
}

func foldComparison[T ordered](operator ast.Operator, first T, rest []Value) (Value, error) {
	result := false

	for _, value := range rest {
		operand, ok := value.(T)
		if !ok {
			return nil, typeErrorf("cannot compare type %s with type %s", first.Kind(), value.Kind())
		}

		if compare(operator, first, operand) {
			result = true
		}
	}

	return Boolean(result), nil
}

func compare[T ordered](operator ast.Operator, a, b T) bool {
	switch operator {
	case ast.OperatorGreaterThan:
		return a > b

	case ast.OperatorGreaterThanOrEqual:
		return a >= b

	case ast.OperatorLessThan:
		return a < b

	case ast.OperatorLessThanOrEqual:
		return a <= b
	}

	return false
}

// applyLogical folds && as "all operands true" and || as "any operand
// true". Operands must already be booleans; there is no truthiness.
func applyLogical(operator ast.Operator, operands []Value) (Value, error) {
	all := true
	any := false

	for _, value := range operands {
		operand, ok := value.(Boolean)
		if !ok {
			return nil, typeErrorf("cannot %s type %s", operator.Name(), value.Kind())
		}

		if bool(operand) {
			any = true
		} else {
			all = false
		}
	}

	if operator == ast.OperatorAnd {
		return Boolean(all), nil
	}

	return Boolean(any), nil
}
