package evaluate

import "fmt"

// The evaluator reports failures through one error type per failure
// class so callers can tell them apart with errors.As.
type (
	// ArityError reports a call or operator given the wrong number of
	// arguments.
	ArityError struct {
		Message string
	}

	// DivisionByZeroError reports a / fold that reached a zero divisor.
	DivisionByZeroError struct{}

	// NameError reports a reference to an unbound variable.
	NameError struct {
		Name string
	}

	// TypeError reports an operation applied to values of the wrong kind.
	TypeError struct {
		Message string
	}
)

func (e *ArityError) Error() string {
	return e.Message
}

func (e *DivisionByZeroError) Error() string {
	return "division by zero"
}

func (e *NameError) Error() string {
	return fmt.Sprintf("undefined variable %s", e.Name)
}

func (e *TypeError) Error() string {
	return e.Message
}

func typeErrorf(format string, args ...any) *TypeError {
	return &TypeError{
		Message: fmt.Sprintf(format, args...),
	}
}
