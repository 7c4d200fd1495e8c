package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/devnote-dev/clip/internal/ast"
	"github.com/devnote-dev/clip/internal/lexer"
)

var (
	ErrInvalidLiteral  = errors.New("invalid literal")
	ErrUnexpectedEOF   = errors.New("unexpected end of file")
	ErrUnexpectedToken = errors.New("unexpected token")
)

// Error is a parsing failure bound to the token that broke the grammar.
// Callers can match Err with errors.Is; interactive callers use
// ErrUnexpectedEOF to detect input that may simply be incomplete.
type Error struct {
	Point    lexer.Point
	Expected string
	Found    string
	Err      error
}

func (e *Error) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("%d:%d: expected %s; got %s", e.Point.Line, e.Point.Column, e.Expected, e.Found)
	}

	if errors.Is(e.Err, ErrUnexpectedEOF) {
		return fmt.Sprintf("%d:%d: unexpected end of file", e.Point.Line, e.Point.Column)
	}

	return fmt.Sprintf("%d:%d: %s %s", e.Point.Line, e.Point.Column, e.Err, e.Found)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(expected string, found *lexer.Token) *Error {
	err := ErrUnexpectedToken
	if found.Type == lexer.TokenTypeEOF {
		err = ErrUnexpectedEOF
	}

	return &Error{
		Point:    found.Position.Start,
		Expected: expected,
		Found:    tokenLabel(found),
		Err:      err,
	}
}

func tokenLabel(token *lexer.Token) string {
	if token.Type == lexer.TokenTypeEOF {
		return "end of file"
	}

	return strconv.Quote(token.RawValue)
}

type Lexer interface {
	ReadToken() (*lexer.Token, error)
}

type Parser struct {
	lexer  Lexer
	tokens []*lexer.Token
	pos    int
}

func NewParser(lexer Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

// ParseProgram parses a whole source text into its top-level expressions.
func ParseProgram(source string) ([]ast.Expr, error) {
	return NewParser(lexer.NewLexer(source)).Parse()
}

// parseMode tracks the syntactic position being parsed. Greedy gathering
// of call arguments and operator operands depends on it: operand position
// never promotes an identifier to a call, and neither condition nor
// operand position lets '{' start a function literal, so an if keeps its
// block.
type parseMode int

const (
	modeExpression parseMode = iota
	modeCondition
	modeOperand
)

func canBeginExpression(token *lexer.Token, mode parseMode) bool {
	switch token.Type {
	case lexer.TokenTypeAssign,
		lexer.TokenTypeBoolean,
		lexer.TokenTypeFloat,
		lexer.TokenTypeIdentifier,
		lexer.TokenTypeIf,
		lexer.TokenTypeInteger,
		lexer.TokenTypeLParen,
		lexer.TokenTypeOperator,
		lexer.TokenTypeString:
		return true

	case lexer.TokenTypeLBrace:
		return mode == modeExpression
	}

	return false
}

// Parse consumes the token stream to exhaustion and returns the program's
// top-level expressions in source order.
func (p *Parser) Parse() ([]ast.Expr, error) {
	program := make([]ast.Expr, 0)

	for {
		token, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		if token.Type == lexer.TokenTypeEOF {
			return program, nil
		}

		if token.Type == lexer.TokenTypeSemicolon {
			p.skipToken()
			continue
		}

		expr, err := p.parseExpression(modeExpression)
		if err != nil {
			return nil, err
		}

		program = append(program, expr)
	}
}

// parseExpression parses one full expression. A leading identifier or
// literal followed by more expression starters is promoted to a call with
// the gathered expressions as arguments; any other head stands alone.
func (p *Parser) parseExpression(mode parseMode) (ast.Expr, error) {
	left, err := p.parsePrimaryExpression(mode)
	if err != nil {
		return nil, err
	}

	if mode == modeOperand {
		return left, nil
	}

	switch left.(type) {
	case *ast.Identifier, *ast.Literal:

	default:
		return left, nil
	}

	args := make([]ast.Expr, 0)

	for {
		token, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		if !canBeginExpression(token, mode) {
			break
		}

		arg, err := p.parsePrimaryExpression(mode)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	if len(args) == 0 {
		return left, nil
	}

	// `f ()` is the explicit zero argument call form
	if len(args) == 1 {
		if _, ok := args[0].(*ast.Unit); ok {
			args = nil
		}
	}

	return &ast.Call{
		Callee: left,
		Args:   args,
	}, nil
}

func (p *Parser) parsePrimaryExpression(mode parseMode) (ast.Expr, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}

	switch token.Type {
	case lexer.TokenTypeAssign:
		return p.parseAssignment(mode)

	case lexer.TokenTypeOperator:
		return p.parseOperatorCall(token)

	case lexer.TokenTypeLBrace:
		return p.parseFunctionLiteral()

	case lexer.TokenTypeIf:
		return p.parseIf()

	case lexer.TokenTypeLParen:
		return p.parseGroupedExpression()

	case lexer.TokenTypeIdentifier:
		return &ast.Identifier{
			Name: token.Value,
		}, nil

	case lexer.TokenTypeInteger:
		value, err := strconv.ParseInt(token.Value, 10, 64)
		if err != nil {
			return nil, &Error{
				Point: token.Position.Start,
				Found: tokenLabel(token),
				Err:   ErrInvalidLiteral,
			}
		}

		return &ast.Literal{
			Value: value,
		}, nil

	case lexer.TokenTypeFloat:
		value, err := strconv.ParseFloat(token.Value, 64)
		if err != nil {
			return nil, &Error{
				Point: token.Position.Start,
				Found: tokenLabel(token),
				Err:   ErrInvalidLiteral,
			}
		}

		return &ast.Literal{
			Value: value,
		}, nil

	case lexer.TokenTypeString:
		return &ast.Literal{
			Value: token.Value,
		}, nil

	case lexer.TokenTypeBoolean:
		return &ast.Literal{
			Value: token.Value == "true",
		}, nil
	}

	return nil, newError("", token)
}

// parseAssignment parses `= name value` with the leading = already
// consumed. The value inherits the enclosing mode so that an assignment
// used as an operand does not swallow its sibling operands.
func (p *Parser) parseAssignment(mode parseMode) (ast.Expr, error) {
	token, err := p.readToken()
	if err != nil {
		return nil, err
	}

	if token.Type != lexer.TokenTypeIdentifier {
		return nil, newError("identifier", token)
	}

	value, err := p.parseExpression(mode)
	if err != nil {
		return nil, err
	}

	return &ast.Assignment{
		Name:  token.Value,
		Value: value,
	}, nil
}

// parseOperatorCall gathers operands greedily until a token that cannot
// begin an operand. A '{' never does, so `if == a b { ... }` leaves the
// block to the if.
func (p *Parser) parseOperatorCall(token *lexer.Token) (ast.Expr, error) {
	operands := make([]ast.Expr, 0, 2)

	for {
		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		if !canBeginExpression(next, modeOperand) {
			break
		}

		operand, err := p.parsePrimaryExpression(modeOperand)
		if err != nil {
			return nil, err
		}

		operands = append(operands, operand)
	}

	return &ast.OperatorCall{
		Operator: ast.Operator(token.Value),
		Operands: operands,
	}, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expr, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	var params []string
	if token.Type == lexer.TokenTypeLBracket {
		p.skipToken()

		params = make([]string, 0)

		for {
			token, err := p.readToken()
			if err != nil {
				return nil, err
			}

			if token.Type == lexer.TokenTypeRBracket {
				break
			}

			if token.Type != lexer.TokenTypeIdentifier {
				return nil, newError("parameter name", token)
			}

			params = append(params, token.Value)
		}
	}

	body, err := p.parseSequence()
	if err != nil {
		return nil, err
	}

	return &ast.FunctionLiteral{
		Params: params,
		Body:   body,
	}, nil
}

// parseSequence parses expressions up to the closing '}' and consumes it.
func (p *Parser) parseSequence() ([]ast.Expr, error) {
	exprs := make([]ast.Expr, 0)

	for {
		token, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		switch token.Type {
		case lexer.TokenTypeEOF:
			return nil, newError("'}'", token)

		case lexer.TokenTypeSemicolon:
			p.skipToken()

		case lexer.TokenTypeRBrace:
			p.skipToken()

			return exprs, nil

		default:
			expr, err := p.parseExpression(modeExpression)
			if err != nil {
				return nil, err
			}

			exprs = append(exprs, expr)
		}
	}
}

func (p *Parser) parseBlock() ([]ast.Expr, error) {
	if err := p.expectToken(lexer.TokenTypeLBrace, "'{'"); err != nil {
		return nil, err
	}

	return p.parseSequence()
}

func (p *Parser) parseIf() (ast.Expr, error) {
	condition, err := p.parseExpression(modeCondition)
	if err != nil {
		return nil, err
	}

	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	var alternative []ast.Expr

	switch token.Type {
	case lexer.TokenTypeElse:
		p.skipToken()

		next, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		switch next.Type {
		case lexer.TokenTypeIf:
			p.skipToken()

			chained, err := p.parseIf()
			if err != nil {
				return nil, err
			}

			alternative = []ast.Expr{chained}

		case lexer.TokenTypeLBrace:
			alternative, err = p.parseBlock()
			if err != nil {
				return nil, err
			}

		default:
			return nil, newError("'{' or if", next)
		}

	case lexer.TokenTypeElif:
		// sugar for `else if`
		p.skipToken()

		chained, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		alternative = []ast.Expr{chained}
	}

	return &ast.If{
		Condition: condition,
		Then:      then,
		Else:      alternative,
	}, nil
}

// parseGroupedExpression parses the remainder of a '(' token: either the
// unit value `()` or a parenthesized expression, which resets gathering
// back to full expression mode.
func (p *Parser) parseGroupedExpression() (ast.Expr, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	if token.Type == lexer.TokenTypeRParen {
		p.skipToken()

		return &ast.Unit{}, nil
	}

	expr, err := p.parseExpression(modeExpression)
	if err != nil {
		return nil, err
	}

	if err := p.expectToken(lexer.TokenTypeRParen, "')'"); err != nil {
		return nil, err
	}

	return expr, nil
}

func (p *Parser) expectToken(tokenType lexer.TokenType, expected string) error {
	token, err := p.readToken()
	if err != nil {
		return err
	}

	if token.Type != tokenType {
		return newError(expected, token)
	}

	return nil
}

func (p *Parser) peekToken() (*lexer.Token, error) {
	if p.pos >= len(p.tokens) {
		token, err := p.lexer.ReadToken()
		if err != nil {
			return nil, err
		}

		p.tokens = append(p.tokens, token)
	}

	return p.tokens[p.pos], nil
}

func (p *Parser) readToken() (*lexer.Token, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	p.pos++

	return token, nil
}

// skipToken discards a token already seen through peekToken.
func (p *Parser) skipToken() {
	p.pos++
}
