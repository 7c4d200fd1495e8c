// Package dump renders the intermediate stages of the pipeline for the
// --tokens and --ast debug modes.
package dump

import (
	"fmt"
	"io"

	"github.com/devnote-dev/clip/internal/ast"
	"github.com/devnote-dev/clip/internal/lexer"
	"github.com/kr/pretty"
)

// Tokens lexes source and writes one line per token, including the
// closing EOF token.
func Tokens(w io.Writer, source string) error {
	lex := lexer.NewLexer(source)

	for {
		token, err := lex.ReadToken()
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s %q %d:%d\n", token.Type, token.Value, token.Position.Start.Line, token.Position.Start.Column)

		if token.Type == lexer.TokenTypeEOF {
			return nil
		}
	}
}

// Program writes each top level expression as an indented tree.
func Program(w io.Writer, program []ast.Expr) {
	for _, expr := range program {
		fmt.Fprintln(w, pretty.Sprint(expr))
	}
}
