package evaluate

import (
	"fmt"
	"strconv"

	"github.com/devnote-dev/clip/internal/ast"
)

var (
	_ Value = (Boolean)(false)
	_ Value = (Float)(0)
	_ Value = (*Function)(nil)
	_ Value = (Integer)(0)
	_ Value = (String)("")
	_ Value = (Unit)(struct{}{})
)

type Kind string

const (
	KindBoolean  Kind = "boolean"
	KindFloat    Kind = "float"
	KindFunction Kind = "function"
	KindInteger  Kind = "integer"
	KindString   Kind = "string"
	KindUnit     Kind = "unit"
)

// Value is a runtime clip value.
type Value interface {
	Kind() Kind
	Render() string
}

type (
	Boolean bool

	Float float64

	// Function is a closure: a function literal's parameters and body
	// together with the environment it was created in. Two function
	// values are equal only when they are the same closure.
	Function struct {
		Params []string
		Body   []ast.Expr
		Env    *Environment
	}

	Integer int64

	String string

	// Unit is the `()` value, produced by empty bodies, by an if without
	// a matching branch and by the unit literal itself.
	Unit struct{}
)

func (v Boolean) Kind() Kind   { return KindBoolean }
func (v Float) Kind() Kind     { return KindFloat }
func (v *Function) Kind() Kind { return KindFunction }
func (v Integer) Kind() Kind   { return KindInteger }
func (v String) Kind() Kind    { return KindString }
func (v Unit) Kind() Kind      { return KindUnit }

func (v Boolean) Render() string   { return strconv.FormatBool(bool(v)) }
func (v Float) Render() string     { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v *Function) Render() string { return "function" }
func (v Integer) Render() string   { return strconv.FormatInt(int64(v), 10) }
func (v String) Render() string    { return string(v) }
func (v Unit) Render() string      { return "()" }

// Format renders a value the way the shell prints results, as the kind
// followed by the rendering, for example "integer : 5".
func Format(v Value) string {
	return fmt.Sprintf("%s : %s", v.Kind(), v.Render())
}
