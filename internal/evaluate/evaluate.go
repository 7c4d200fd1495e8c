package evaluate

import (
	"context"
	"fmt"

	"github.com/devnote-dev/clip/internal/ast"
	"github.com/devnote-dev/clip/internal/defaults"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/devnote-dev/clip/internal/evaluate"
)

type Evaluator struct {
	tracer trace.Tracer
}

func New(options ...func(*Evaluator)) *Evaluator {
	evaluator := Evaluator{
		tracer: defaults.TraceProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&evaluator)
	}

	return &evaluator
}

func WithTracerProvider(tp trace.TracerProvider) func(*Evaluator) {
	return func(e *Evaluator) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// Evaluate reduces one expression to a value within env. Errors carry no
// position; they identify the failing operation and the kinds involved.
func (e *Evaluator) Evaluate(ctx context.Context, expr ast.Expr, env *Environment) (Value, error) {
	_, span := e.tracer.Start(ctx, "evaluate expression")
	defer span.End()

	return e.evaluate(expr, env)
}

func (e *Evaluator) evaluate(expr ast.Expr, env *Environment) (Value, error) {
	switch expr := expr.(type) {
	case *ast.Assignment:
		return e.evaluateAssignment(expr, env)

	case *ast.Call:
		return e.evaluateCall(expr, env)

	case *ast.FunctionLiteral:
		return e.evaluateFunctionLiteral(expr, env)

	case *ast.Identifier:
		return e.evaluateIdentifier(expr, env)

	case *ast.If:
		return e.evaluateIf(expr, env)

	case *ast.Literal:
		return e.evaluateLiteral(expr)

	case *ast.OperatorCall:
		return e.evaluateOperatorCall(expr, env)

	case *ast.Unit:
		return Unit{}, nil

	default:
		return nil, fmt.Errorf("unsupported expression type: %T", expr)
	}
}

func (e *Evaluator) evaluateAssignment(expr *ast.Assignment, env *Environment) (Value, error) {
	value, err := e.evaluate(expr.Value, env)
	if err != nil {
		return nil, err
	}

	env.Set(expr.Name, value)

	return value, nil
}

func (e *Evaluator) evaluateCall(expr *ast.Call, env *Environment) (Value, error) {
	callee, err := e.evaluate(expr.Callee, env)
	if err != nil {
		return nil, err
	}

	function, ok := callee.(*Function)
	if !ok {
		return nil, typeErrorf("cannot call type %s as a function", callee.Kind())
	}

	// arguments evaluate in the calling scope, left to right
	args := make([]Value, 0, len(expr.Args))
	for _, arg := range expr.Args {
		value, err := e.evaluate(arg, env)
		if err != nil {
			return nil, err
		}

		args = append(args, value)
	}

	scope := function.Env.Child()

	switch {
	case len(args) == len(function.Params):
		for i, param := range function.Params {
			scope.Define(param, args[i])
		}

	// `f ()` applied to a single parameter function binds the parameter
	// to unit
	case len(args) == 0 && len(function.Params) == 1:
		scope.Define(function.Params[0], Unit{})

	default:
		return nil, &ArityError{
			Message: fmt.Sprintf("expected %d arguments to function; got %d", len(function.Params), len(args)),
		}
	}

	return e.evaluateSequence(function.Body, scope)
}

func (e *Evaluator) evaluateFunctionLiteral(expr *ast.FunctionLiteral, env *Environment) (Value, error) {
	function := Function{
		Params: expr.Params,
		Body:   expr.Body,
		Env:    env,
	}

	return &function, nil
}

func (e *Evaluator) evaluateIdentifier(expr *ast.Identifier, env *Environment) (Value, error) {
	value, ok := env.Get(expr.Name)
	if !ok {
		return nil, &NameError{
			Name: expr.Name,
		}
	}

	return value, nil
}

func (e *Evaluator) evaluateIf(expr *ast.If, env *Environment) (Value, error) {
	condition, err := e.evaluate(expr.Condition, env)
	if err != nil {
		return nil, err
	}

	matched, ok := condition.(Boolean)
	if !ok {
		return nil, typeErrorf("cannot use type %s as a condition", condition.Kind())
	}

	// branches run in the enclosing scope; only calls open a new one
	if bool(matched) {
		return e.evaluateSequence(expr.Then, env)
	}

	if expr.Else != nil {
		return e.evaluateSequence(expr.Else, env)
	}

	return Unit{}, nil
}

func (e *Evaluator) evaluateLiteral(expr *ast.Literal) (Value, error) {
	switch value := expr.Value.(type) {
	case int64:
		return Integer(value), nil

	case float64:
		return Float(value), nil

	case string:
		return String(value), nil

	case bool:
		return Boolean(value), nil

	default:
		return nil, fmt.Errorf("unsupported literal type: %T", expr.Value)
	}
}

func (e *Evaluator) evaluateOperatorCall(expr *ast.OperatorCall, env *Environment) (Value, error) {
	// every operand evaluates before the operator applies; there is no
	// short circuit, so side effects of later operands always happen
	operands := make([]Value, 0, len(expr.Operands))
	for _, operand := range expr.Operands {
		value, err := e.evaluate(operand, env)
		if err != nil {
			return nil, err
		}

		operands = append(operands, value)
	}

	return applyOperator(expr.Operator, operands)
}

func (e *Evaluator) evaluateSequence(exprs []ast.Expr, env *Environment) (Value, error) {
	var result Value = Unit{}

	for _, expr := range exprs {
		value, err := e.evaluate(expr, env)
		if err != nil {
			return nil, err
		}

		result = value
	}

	return result, nil
}
