package parser_test

import (
	"testing"

	"github.com/devnote-dev/clip/internal/ast"
	"github.com/devnote-dev/clip/internal/lexer"
	"github.com/devnote-dev/clip/internal/parser"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLexer struct {
	pos    int
	tokens []*lexer.Token
}

func (l *fakeLexer) ReadToken() (*lexer.Token, error) {
	if l.pos >= len(l.tokens) {
		return &lexer.Token{Type: lexer.TokenTypeEOF}, nil
	}

	token := l.tokens[l.pos]
	l.pos += 1

	return token, nil
}

func TestParser(t *testing.T) {
	t.Run("literals", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "integer",
				source: "5",
				program: []ast.Expr{
					&ast.Literal{Value: int64(5)},
				},
			},
			{
				name:   "float",
				source: "2.5",
				program: []ast.Expr{
					&ast.Literal{Value: 2.5},
				},
			},
			{
				name:   "float / trailing dot",
				source: "1.",
				program: []ast.Expr{
					&ast.Literal{Value: 1.0},
				},
			},
			{
				name:   "string",
				source: `"output"`,
				program: []ast.Expr{
					&ast.Literal{Value: "output"},
				},
			},
			{
				name:   "boolean",
				source: "false",
				program: []ast.Expr{
					&ast.Literal{Value: false},
				},
			},
			{
				name:   "unit",
				source: "()",
				program: []ast.Expr{
					&ast.Unit{},
				},
			},
			{
				name:   "identifier",
				source: "steps",
				program: []ast.Expr{
					&ast.Identifier{Name: "steps"},
				},
			},
			{
				name:   "grouped literal",
				source: "(5)",
				program: []ast.Expr{
					&ast.Literal{Value: int64(5)},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("assignments", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "literal value", // = foo 123
				source: "= foo 123",
				program: []ast.Expr{
					&ast.Assignment{
						Name:  "foo",
						Value: &ast.Literal{Value: int64(123)},
					},
				},
			},
			{
				name:   "unit value", // = foo ()
				source: "= foo ()",
				program: []ast.Expr{
					&ast.Assignment{
						Name:  "foo",
						Value: &ast.Unit{},
					},
				},
			},
			{
				name:   "chained", // = foo = bar 1
				source: "= foo = bar 1",
				program: []ast.Expr{
					&ast.Assignment{
						Name: "foo",
						Value: &ast.Assignment{
							Name:  "bar",
							Value: &ast.Literal{Value: int64(1)},
						},
					},
				},
			},
			{
				name:   "rebinding is not declaration", // = foo 24; = foo "bar"
				source: `= foo 24; = foo "bar"`,
				program: []ast.Expr{
					&ast.Assignment{
						Name:  "foo",
						Value: &ast.Literal{Value: int64(24)},
					},
					&ast.Assignment{
						Name:  "foo",
						Value: &ast.Literal{Value: "bar"},
					},
				},
			},
			{
				name:   "function value", // = add { [a b] + a b }
				source: "= add { [a b] + a b }",
				program: []ast.Expr{
					&ast.Assignment{
						Name: "add",
						Value: &ast.FunctionLiteral{
							Params: []string{"a", "b"},
							Body: []ast.Expr{
								&ast.OperatorCall{
									Operator: ast.OperatorAdd,
									Operands: []ast.Expr{
										&ast.Identifier{Name: "a"},
										&ast.Identifier{Name: "b"},
									},
								},
							},
						},
					},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("operator calls", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "variadic add", // + 1 2 3
				source: "+ 1 2 3",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Literal{Value: int64(1)},
							&ast.Literal{Value: int64(2)},
							&ast.Literal{Value: int64(3)},
						},
					},
				},
			},
			{
				name:   "nested operator gathers the rest", // + 1 * 2 3
				source: "+ 1 * 2 3",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Literal{Value: int64(1)},
							&ast.OperatorCall{
								Operator: ast.OperatorMultiply,
								Operands: []ast.Expr{
									&ast.Literal{Value: int64(2)},
									&ast.Literal{Value: int64(3)},
								},
							},
						},
					},
				},
			},
			{
				name:   "unit operand", // == a ()
				source: "== a ()",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorEqual,
						Operands: []ast.Expr{
							&ast.Identifier{Name: "a"},
							&ast.Unit{},
						},
					},
				},
			},
			{
				name:   "identifier operands stay flat", // + f x 1
				source: "+ f x 1",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Identifier{Name: "f"},
							&ast.Identifier{Name: "x"},
							&ast.Literal{Value: int64(1)},
						},
					},
				},
			},
			{
				name:   "group makes a call operand", // + (f x) 1
				source: "+ (f x) 1",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Call{
								Callee: &ast.Identifier{Name: "f"},
								Args: []ast.Expr{
									&ast.Identifier{Name: "x"},
								},
							},
							&ast.Literal{Value: int64(1)},
						},
					},
				},
			},
			{
				name:   "assignment operand does not swallow siblings", // + = x 5 2
				source: "+ = x 5 2",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Assignment{
								Name:  "x",
								Value: &ast.Literal{Value: int64(5)},
							},
							&ast.Literal{Value: int64(2)},
						},
					},
				},
			},
			{
				name:   "inverse", // ! true
				source: "! true",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorNot,
						Operands: []ast.Expr{
							&ast.Literal{Value: true},
						},
					},
				},
			},
			{
				name:   "logical", // && true false true
				source: "&& true false true",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAnd,
						Operands: []ast.Expr{
							&ast.Literal{Value: true},
							&ast.Literal{Value: false},
							&ast.Literal{Value: true},
						},
					},
				},
			},
			{
				name:   "no operands", // +
				source: "+",
				program: []ast.Expr{
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{},
					},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("calls", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "flat arguments", // f a b
				source: "f a b",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Identifier{Name: "f"},
						Args: []ast.Expr{
							&ast.Identifier{Name: "a"},
							&ast.Identifier{Name: "b"},
						},
					},
				},
			},
			{
				name:   "zero argument form", // f ()
				source: "f ()",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Identifier{Name: "f"},
						Args:   nil,
					},
				},
			},
			{
				name:   "unit among arguments", // f () 5
				source: "f () 5",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Identifier{Name: "f"},
						Args: []ast.Expr{
							&ast.Unit{},
							&ast.Literal{Value: int64(5)},
						},
					},
				},
			},
			{
				name:   "literal callee", // 5 x
				source: "5 x",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Literal{Value: int64(5)},
						Args: []ast.Expr{
							&ast.Identifier{Name: "x"},
						},
					},
				},
			},
			{
				name:   "grouped call argument", // f (g x)
				source: "f (g x)",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Identifier{Name: "f"},
						Args: []ast.Expr{
							&ast.Call{
								Callee: &ast.Identifier{Name: "g"},
								Args: []ast.Expr{
									&ast.Identifier{Name: "x"},
								},
							},
						},
					},
				},
			},
			{
				name:   "function literal argument", // f { 1 }
				source: "f { 1 }",
				program: []ast.Expr{
					&ast.Call{
						Callee: &ast.Identifier{Name: "f"},
						Args: []ast.Expr{
							&ast.FunctionLiteral{
								Params: nil,
								Body: []ast.Expr{
									&ast.Literal{Value: int64(1)},
								},
							},
						},
					},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("function literals", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "no parameter list", // { 42 }
				source: "{ 42 }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: nil,
						Body: []ast.Expr{
							&ast.Literal{Value: int64(42)},
						},
					},
				},
			},
			{
				name:   "empty parameter list", // { [] 42 }
				source: "{ [] 42 }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: []string{},
						Body: []ast.Expr{
							&ast.Literal{Value: int64(42)},
						},
					},
				},
			},
			{
				name:   "empty body", // { }
				source: "{ }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: nil,
						Body:   []ast.Expr{},
					},
				},
			},
			{
				name:   "multi expression body", // { [x] = y + x 1; * y 2 }
				source: "{ [x] = y + x 1; * y 2 }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: []string{"x"},
						Body: []ast.Expr{
							&ast.Assignment{
								Name: "y",
								Value: &ast.OperatorCall{
									Operator: ast.OperatorAdd,
									Operands: []ast.Expr{
										&ast.Identifier{Name: "x"},
										&ast.Literal{Value: int64(1)},
									},
								},
							},
							&ast.OperatorCall{
								Operator: ast.OperatorMultiply,
								Operands: []ast.Expr{
									&ast.Identifier{Name: "y"},
									&ast.Literal{Value: int64(2)},
								},
							},
						},
					},
				},
			},
			{
				name:   "nested literal", // { [a] { [] a } }
				source: "{ [a] { [] a } }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: []string{"a"},
						Body: []ast.Expr{
							&ast.FunctionLiteral{
								Params: []string{},
								Body: []ast.Expr{
									&ast.Identifier{Name: "a"},
								},
							},
						},
					},
				},
			},
			{
				name:   "call promotion inside body", // { f x }
				source: "{ f x }",
				program: []ast.Expr{
					&ast.FunctionLiteral{
						Params: nil,
						Body: []ast.Expr{
							&ast.Call{
								Callee: &ast.Identifier{Name: "f"},
								Args: []ast.Expr{
									&ast.Identifier{Name: "x"},
								},
							},
						},
					},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("if expressions", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "no else", // if true { 1 }
				source: "if true { 1 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Literal{Value: true},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: nil,
					},
				},
			},
			{
				name:   "with else", // if true { 1 } else { 2 }
				source: "if true { 1 } else { 2 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Literal{Value: true},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: []ast.Expr{
							&ast.Literal{Value: int64(2)},
						},
					},
				},
			},
			{
				name:   "elif chain", // if a { 1 } elif b { 2 } else { 3 }
				source: "if a { 1 } elif b { 2 } else { 3 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Identifier{Name: "a"},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: []ast.Expr{
							&ast.If{
								Condition: &ast.Identifier{Name: "b"},
								Then: []ast.Expr{
									&ast.Literal{Value: int64(2)},
								},
								Else: []ast.Expr{
									&ast.Literal{Value: int64(3)},
								},
							},
						},
					},
				},
			},
			{
				name:   "else if chain", // if a { 1 } else if b { 2 }
				source: "if a { 1 } else if b { 2 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Identifier{Name: "a"},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: []ast.Expr{
							&ast.If{
								Condition: &ast.Identifier{Name: "b"},
								Then: []ast.Expr{
									&ast.Literal{Value: int64(2)},
								},
								Else: nil,
							},
						},
					},
				},
			},
			{
				name:   "operator condition keeps its block", // if == a b { 1 }
				source: "if == a b { 1 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.OperatorCall{
							Operator: ast.OperatorEqual,
							Operands: []ast.Expr{
								&ast.Identifier{Name: "a"},
								&ast.Identifier{Name: "b"},
							},
						},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: nil,
					},
				},
			},
			{
				name:   "call condition keeps its block", // if f x { 1 }
				source: "if f x { 1 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Call{
							Callee: &ast.Identifier{Name: "f"},
							Args: []ast.Expr{
								&ast.Identifier{Name: "x"},
							},
						},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(1)},
						},
						Else: nil,
					},
				},
			},
			{
				name:   "non boolean condition still parses", // if 1 { 2 }
				source: "if 1 { 2 }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Literal{Value: int64(1)},
						Then: []ast.Expr{
							&ast.Literal{Value: int64(2)},
						},
						Else: nil,
					},
				},
			},
			{
				name:   "empty branches", // if true { } else { }
				source: "if true { } else { }",
				program: []ast.Expr{
					&ast.If{
						Condition: &ast.Literal{Value: true},
						Then:      []ast.Expr{},
						Else:      []ast.Expr{},
					},
				},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("programs", func(t *testing.T) {
		testCases := []parserTestCase{
			{
				name:   "semicolon separated", // 1; 2; 3
				source: "1; 2; 3",
				program: []ast.Expr{
					&ast.Literal{Value: int64(1)},
					&ast.Literal{Value: int64(2)},
					&ast.Literal{Value: int64(3)},
				},
			},
			{
				name:   "newlines are plain whitespace",
				source: "= x 5;\n+ x 2",
				program: []ast.Expr{
					&ast.Assignment{
						Name:  "x",
						Value: &ast.Literal{Value: int64(5)},
					},
					&ast.OperatorCall{
						Operator: ast.OperatorAdd,
						Operands: []ast.Expr{
							&ast.Identifier{Name: "x"},
							&ast.Literal{Value: int64(2)},
						},
					},
				},
			},
			{
				name:    "only semicolons",
				source:  ";;;",
				program: []ast.Expr{},
			},
			{
				name:    "empty source",
				source:  "",
				program: []ast.Expr{},
			},
			{
				name:    "comments only",
				source:  "# one\n# two",
				program: []ast.Expr{},
			},
		}

		runParserTestCases(t, testCases)
	})

	t.Run("errors", func(t *testing.T) {
		type testCase struct {
			name     string
			source   string
			err      error
			contains string
		}

		testCases := []testCase{
			{
				name:     "assignment to non identifier",
				source:   "= 5 1",
				err:      parser.ErrUnexpectedToken,
				contains: "expected identifier",
			},
			{
				name:   "unterminated function literal",
				source: "{ 1",
				err:    parser.ErrUnexpectedEOF,
			},
			{
				name:   "unterminated group",
				source: "( + 1 2",
				err:    parser.ErrUnexpectedEOF,
			},
			{
				name:   "assignment missing value",
				source: "= x",
				err:    parser.ErrUnexpectedEOF,
			},
			{
				name:   "if missing block",
				source: "if true",
				err:    parser.ErrUnexpectedEOF,
			},
			{
				name:     "else without block or if",
				source:   "if true { 1 } else 2",
				err:      parser.ErrUnexpectedToken,
				contains: "expected '{' or if",
			},
			{
				name:     "parameter list with non identifier",
				source:   "{ [a 5] a }",
				err:      parser.ErrUnexpectedToken,
				contains: "expected parameter name",
			},
			{
				name:     "integer literal overflow",
				source:   "99999999999999999999",
				err:      parser.ErrInvalidLiteral,
				contains: "invalid literal",
			},
			{
				name:     "stray closing brace",
				source:   "x; }",
				err:      parser.ErrUnexpectedToken,
				contains: "unexpected token",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				program, err := parser.ParseProgram(tc.source)

				t.Logf("source: %v", tc.source)
				t.Log(pretty.Sprint(program))

				require.Error(t, err)
				require.ErrorIs(t, err, tc.err)

				var parseErr *parser.Error
				require.ErrorAs(t, err, &parseErr)

				if tc.contains != "" {
					assert.Contains(t, err.Error(), tc.contains)
				}
			})
		}
	})

	t.Run("reads tokens through the lexer interface", func(t *testing.T) {
		lex := &fakeLexer{
			tokens: []*lexer.Token{
				{
					Type:  lexer.TokenTypeOperator,
					Value: "+",
				},
				{
					Type:  lexer.TokenTypeInteger,
					Value: "1",
				},
				{
					Type:  lexer.TokenTypeInteger,
					Value: "2",
				},
			},
		}

		program, err := parser.NewParser(lex).Parse()
		require.NoError(t, err)

		expected := []ast.Expr{
			&ast.OperatorCall{
				Operator: ast.OperatorAdd,
				Operands: []ast.Expr{
					&ast.Literal{Value: int64(1)},
					&ast.Literal{Value: int64(2)},
				},
			},
		}

		require.Equal(t, expected, program)
	})
}

type parserTestCase struct {
	name    string
	source  string
	program []ast.Expr
}

func runParserTestCases(t *testing.T, testCases []parserTestCase) {
	t.Helper()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Logf("source: %v", tc.source)

			t.Log("expected program:")
			t.Log(pretty.Sprint(tc.program))

			program, err := parser.ParseProgram(tc.source)
			require.NoError(t, err)

			t.Log("got program:")
			t.Log(pretty.Sprint(program))

			require.Equal(t, tc.program, program)
		})
	}
}
