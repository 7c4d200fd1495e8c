package lexer

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

type TokenType string

const (
	TokenTypeAssign     TokenType = "ASSIGN"
	TokenTypeBoolean    TokenType = "BOOLEAN"
	TokenTypeElif       TokenType = "ELIF"
	TokenTypeElse       TokenType = "ELSE"
	TokenTypeEOF        TokenType = "EOF"
	TokenTypeFloat      TokenType = "FLOAT"
	TokenTypeIdentifier TokenType = "IDENTIFIER"
	TokenTypeIf         TokenType = "IF"
	TokenTypeInteger    TokenType = "INTEGER"
	TokenTypeLBrace     TokenType = "LBRACE"
	TokenTypeLBracket   TokenType = "LBRACKET"
	TokenTypeLParen     TokenType = "LPAREN"
	TokenTypeOperator   TokenType = "OPERATOR"
	TokenTypeRBrace     TokenType = "RBRACE"
	TokenTypeRBracket   TokenType = "RBRACKET"
	TokenTypeRParen     TokenType = "RPAREN"
	TokenTypeSemicolon  TokenType = "SEMICOLON"
	TokenTypeString     TokenType = "STRING"
)

var (
	ErrInvalidCharacter   = errors.New("invalid character")
	ErrInvalidOperator    = errors.New("invalid operator")
	ErrMalformedNumber    = errors.New("malformed number")
	ErrRuneInvalid        = errors.New("decode rune: invalid rune")
	ErrUnterminatedString = errors.New("unterminated string")
)

// Error is a lexing failure bound to the point in the source where the
// offending character sits.
type Error struct {
	Point Point
	Char  rune
	Err   error
}

func (e *Error) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("%d:%d: %s: %q", e.Point.Line, e.Point.Column, e.Err, e.Char)
	}

	return fmt.Sprintf("%d:%d: %s", e.Point.Line, e.Point.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Point struct {
	Line   int
	Column int
}

type Position struct {
	Start Point
	End   Point
}

type Token struct {
	Type     TokenType
	RawValue string
	Value    string
	Position Position
}

// Lexer scans clip source text into tokens in a single forward pass.
// ReadToken never backtracks; once the end of input is reached it keeps
// returning the EOF token.
type Lexer struct {
	input    []byte
	point    Point
	position int
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input:    []byte(input),
		point:    Point{Line: 1, Column: 1},
		position: 0,
	}
}

func (l *Lexer) ReadToken() (*Token, error) {
	if err := l.advanceInsignificant(); err != nil {
		return nil, err
	}

	r, _, ok := l.peek()
	if !ok {
		token := Token{
			Type: TokenTypeEOF,
			Position: Position{
				Start: l.point,
				End:   l.point,
			},
		}

		return &token, nil
	}

	if isDigit(r) {
		return l.readNumber()
	}

	if isIdentifierOpeningCharacter(r) {
		return l.readIdentifier()
	}

	if isStringOpeningCharacter(r) {
		return l.readString()
	}

	if isOperatorOpeningCharacter(r) {
		return l.readOperator()
	}

	if t, ok := structuralTokens[r]; ok {
		startPoint := l.point

		_, err := l.read()
		invariant(err != nil, "ReadToken: unexpected read() error after peek()")

		token := Token{
			Type: t,
			Position: Position{
				Start: startPoint,
				End:   l.point,
			},
			RawValue: string(r),
			Value:    string(r),
		}

		return &token, nil
	}

	return nil, &Error{Point: l.point, Char: r, Err: ErrInvalidCharacter}
}

// advanceInsignificant consumes whitespace and '#' line comments; neither is
// ever emitted as a token.
func (l *Lexer) advanceInsignificant() error {
	for {
		r, _, ok := l.peek()
		if !ok {
			return nil
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r':
			// position and column updated inside read call
			_, _ = l.read()

		case r == '\n':
			_, _ = l.read()

			l.point.Line++
			l.point.Column = 1

		case r == '#':
			for {
				r, _, ok := l.peek()
				if !ok {
					return nil
				}

				if r == '\n' {
					break
				}

				_, _ = l.read()
			}

		default:
			return nil
		}
	}
}

func (l *Lexer) readIdentifier() (*Token, error) {
	startPoint := l.point

	r, err := l.read()
	invariant(err != nil, "readIdentifier: unexpected read() error when consuming first character")
	invariant(!isIdentifierOpeningCharacter(r), "readIdentifier: first character is not valid")

	value := []rune{r}

	for {
		r, _, ok := l.peek()
		if !ok {
			break
		}

		if !isIdentifierContinuationCharacter(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readIdentifier: unexpected read() error after peek()")

		value = append(value, r)
	}

	tokenType := TokenTypeIdentifier
	switch string(value) {
	case "true", "false":
		tokenType = TokenTypeBoolean
	case "if":
		tokenType = TokenTypeIf
	case "elif":
		tokenType = TokenTypeElif
	case "else":
		tokenType = TokenTypeElse
	}

	token := Token{
		Type: tokenType,
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
		RawValue: string(value),
		Value:    string(value),
	}

	return &token, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	// read first rune, we know it belongs to the number
	r, err := l.read()
	invariant(err != nil, "readNumber: unexpected read() error when consuming first character")

	value := []rune{r}

	// whether we already consumed the decimal point
	isFloat := false

	for {
		r, _, ok := l.peek()
		if !ok {
			break
		}

		if r == '.' {
			if isFloat {
				return nil, &Error{Point: l.point, Char: r, Err: ErrMalformedNumber}
			}

			isFloat = true
		} else if !isDigit(r) {
			break
		}

		_, err = l.read()
		invariant(err != nil, "readNumber: unexpected read() error after peek()")

		value = append(value, r)
	}

	tokenType := TokenTypeInteger
	if isFloat {
		tokenType = TokenTypeFloat
	}

	token := Token{
		Type: tokenType,
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
		RawValue: string(l.input[startPos:l.position]),
		Value:    string(value),
	}

	return &token, nil
}

func (l *Lexer) readString() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	// discard the opening quote
	r, err := l.read()
	invariant(err != nil, "readString: unexpected read() error when consuming first character")
	invariant(!isStringOpeningCharacter(r), "readString: first character is not valid")

	value := []rune{}

	for {
		r, _, ok := l.peek()
		if !ok {
			return nil, &Error{Point: startPoint, Err: ErrUnterminatedString}
		}

		if r == '\\' {
			_, err := l.read()
			invariant(err != nil, "readString: unexpected read() error after peek()")

			p, _, ok := l.peek()
			if !ok {
				return nil, &Error{Point: startPoint, Err: ErrUnterminatedString}
			}

			// \" and \\ collapse to the bare character, anything else
			// passes through untouched
			if p == '"' || p == '\\' {
				_, err := l.read()
				invariant(err != nil, "readString: unexpected read() error after peek()")

				value = append(value, p)
				continue
			}

			value = append(value, r)
			continue
		}

		if r == '\n' {
			_, err := l.read()
			invariant(err != nil, "readString: unexpected read() error after peek()")

			l.point.Line++
			l.point.Column = 1

			value = append(value, r)
			continue
		}

		_, err := l.read()
		invariant(err != nil, "readString: unexpected read() error after peek()")

		if r == '"' {
			break
		}

		value = append(value, r)
	}

	token := Token{
		Type: TokenTypeString,
		Position: Position{
			Start: startPoint,
			End:   l.point,
		},
		RawValue: string(l.input[startPos:l.position]),
		Value:    string(value),
	}

	return &token, nil
}

func (l *Lexer) readOperator() (*Token, error) {
	startPoint := l.point
	startPos := l.position

	newToken := func(t TokenType, value string) (*Token, error) {
		token := Token{
			Type: t,
			Position: Position{
				Start: startPoint,
				End:   l.point,
			},
			RawValue: string(l.input[startPos:l.position]),
			Value:    value,
		}

		return &token, nil
	}

	first, err := l.read()
	invariant(err != nil, "readOperator: unexpected read() error when consuming first character")

	second, _, ok := l.peek()

	switch first {
	case '+', '-', '*', '/':
		return newToken(TokenTypeOperator, string(first))

	case '!':
		return newToken(TokenTypeOperator, "!")

	case '=':
		if ok && second == '=' {
			_, err := l.read()
			invariant(err != nil, "readOperator: unexpected read() error after peek()")

			return newToken(TokenTypeOperator, "==")
		}

		return newToken(TokenTypeAssign, "=")

	case '<', '>':
		if ok && second == '=' {
			_, err := l.read()
			invariant(err != nil, "readOperator: unexpected read() error after peek()")

			return newToken(TokenTypeOperator, string(first)+"=")
		}

		return newToken(TokenTypeOperator, string(first))

	case '&', '|':
		if ok && second == first {
			_, err := l.read()
			invariant(err != nil, "readOperator: unexpected read() error after peek()")

			return newToken(TokenTypeOperator, string(first)+string(second))
		}

		return nil, &Error{Point: startPoint, Char: first, Err: ErrInvalidOperator}
	}

	return nil, &Error{Point: startPoint, Char: first, Err: ErrInvalidOperator}
}

func (l *Lexer) peek() (rune, int, bool) {
	if l.position >= len(l.input) {
		return 0, 0, false
	}

	r, size := utf8.DecodeRune(l.input[l.position:])
	if r == utf8.RuneError && size <= 1 {
		return utf8.RuneError, 1, true
	}

	return r, size, true
}

func (l *Lexer) read() (rune, error) {
	r, size, ok := l.peek()
	if !ok {
		return 0, ErrRuneInvalid
	}

	l.position += size
	l.point.Column++

	return r, nil
}

var structuralTokens = map[rune]TokenType{
	'{': TokenTypeLBrace,
	'}': TokenTypeRBrace,
	'[': TokenTypeLBracket,
	']': TokenTypeRBracket,
	'(': TokenTypeLParen,
	')': TokenTypeRParen,
	';': TokenTypeSemicolon,
}

func isDigit(r rune) bool {
	return (r >= '0' && r <= '9')
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentifierContinuationCharacter(r rune) bool {
	return isIdentifierOpeningCharacter(r) || isDigit(r)
}

func isIdentifierOpeningCharacter(r rune) bool {
	return isLetter(r) || r == '_'
}

func isStringOpeningCharacter(r rune) bool {
	return r == '"'
}

func isOperatorOpeningCharacter(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '!', '=', '<', '>', '&', '|':
		return true
	}

	return false
}

func invariant(assertion bool, message string) {
	if assertion {
		panic(message)
	}
}
