package ast

type Operator string

const (
	OperatorOr  Operator = "||"
	OperatorAnd Operator = "&&"

	OperatorEqual Operator = "=="

	OperatorGreaterThan        Operator = ">"
	OperatorGreaterThanOrEqual Operator = ">="
	OperatorLessThan           Operator = "<"
	OperatorLessThanOrEqual    Operator = "<="

	OperatorAdd      Operator = "+"
	OperatorSubtract Operator = "-"
	OperatorMultiply Operator = "*"
	OperatorDivide   Operator = "/"

	OperatorNot Operator = "!"
)

var operatorNames = map[Operator]string{
	OperatorOr:                 "or",
	OperatorAnd:                "and",
	OperatorEqual:              "equal",
	OperatorGreaterThan:        "greater than",
	OperatorGreaterThanOrEqual: "greater than or equal",
	OperatorLessThan:           "less than",
	OperatorLessThanOrEqual:    "less than or equal",
	OperatorAdd:                "add",
	OperatorSubtract:           "subtract",
	OperatorMultiply:           "multiply",
	OperatorDivide:             "divide",
	OperatorNot:                "inverse",
}

// Name returns the operator's spoken name as used in diagnostics, for
// example "add" for + and "inverse" for !.
func (o Operator) Name() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}

	return string(o)
}
