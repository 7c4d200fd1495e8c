package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/devnote-dev/clip/internal/defaults"
	"github.com/devnote-dev/clip/internal/dump"
	"github.com/devnote-dev/clip/internal/evaluate"
	"github.com/devnote-dev/clip/internal/log/semconv"
	"github.com/devnote-dev/clip/internal/parser"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"
)

const (
	tracerName = "github.com/devnote-dev/clip/internal/repl"
)

const (
	DefaultPrompt             = ">> "
	DefaultContinuationPrompt = ".. "
)

// Mode selects what a session does with each submission.
type Mode int

const (
	// ModeEvaluate runs submissions and prints their values.
	ModeEvaluate Mode = iota

	// ModeTokens prints the token stream instead of evaluating.
	ModeTokens

	// ModeAST prints the parsed expressions instead of evaluating.
	ModeAST
)

// Session is one interactive run. Submissions share a single top level
// environment, and an evaluation error leaves that environment intact, so
// earlier bindings survive a failed line.
type Session struct {
	continuation string
	env          *evaluate.Environment
	evaluator    *evaluate.Evaluator
	in           io.Reader
	mode         Mode
	out          io.Writer
	prompt       string
	tracer       trace.Tracer
}

func New(evaluator *evaluate.Evaluator, options ...func(*Session)) *Session {
	session := Session{
		continuation: DefaultContinuationPrompt,
		env:          evaluate.NewEnvironment(),
		evaluator:    evaluator,
		in:           os.Stdin,
		mode:         ModeEvaluate,
		out:          os.Stdout,
		prompt:       DefaultPrompt,
		tracer:       defaults.TraceProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&session)
	}

	return &session
}

func WithContinuationPrompt(prompt string) func(*Session) {
	return func(s *Session) {
		s.continuation = prompt
	}
}

func WithInput(in io.Reader) func(*Session) {
	return func(s *Session) {
		s.in = in
	}
}

func WithMode(mode Mode) func(*Session) {
	return func(s *Session) {
		s.mode = mode
	}
}

func WithOutput(out io.Writer) func(*Session) {
	return func(s *Session) {
		s.out = out
	}
}

func WithPrompt(prompt string) func(*Session) {
	return func(s *Session) {
		s.prompt = prompt
	}
}

func WithTracerProvider(tp trace.TracerProvider) func(*Session) {
	return func(s *Session) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// Run reads submissions until end of input. On a real terminal it takes
// over line editing in raw mode; otherwise it falls back to plain line
// reading, which keeps piped input and tests honest.
func (s *Session) Run(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "repl session")
	defer span.End()

	logger := zerolog.Ctx(ctx).With().Str(semconv.SessionID, uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Debug().Msg("session started")
	defer logger.Debug().Msg("session ended")

	if file, ok := s.in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return s.runTerminal(ctx, file)
	}

	return s.runScanner(ctx)
}

func (s *Session) runTerminal(ctx context.Context, file *os.File) error {
	fd := int(file.Fd())

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	screen := struct {
		io.Reader
		io.Writer
	}{s.in, s.out}

	terminal := term.NewTerminal(screen, s.prompt)

	pending := ""
	for {
		line, err := terminal.ReadLine()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read line: %w", err)
		}

		// the terminal converts newlines while in raw mode, so output
		// must go through it rather than the session writer
		pending = s.advance(ctx, terminal, pending, line)

		if pending == "" {
			terminal.SetPrompt(s.prompt)
		} else {
			terminal.SetPrompt(s.continuation)
		}
	}
}

func (s *Session) runScanner(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)

	pending := ""
	for {
		if pending == "" {
			fmt.Fprint(s.out, s.prompt)
		} else {
			fmt.Fprint(s.out, s.continuation)
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read line: %w", err)
			}

			return nil
		}

		pending = s.advance(ctx, s.out, pending, scanner.Text())
	}
}

// advance folds one input line into the pending submission. It returns
// the text still waiting for more lines, or "" once the submission was
// handled.
func (s *Session) advance(ctx context.Context, out io.Writer, pending, line string) string {
	submission := line
	if pending != "" {
		submission = pending + "\n" + line
	}

	if s.submit(ctx, out, submission) {
		return ""
	}

	return submission
}

// submit handles one submission and reports whether it was complete.
// Syntactically incomplete input, detected by the parser running out of
// tokens, is the only case that asks for more lines; every other failure
// is reported and the submission discarded.
func (s *Session) submit(ctx context.Context, out io.Writer, source string) bool {
	ctx, span := s.tracer.Start(ctx, "submission")
	defer span.End()

	if s.mode == ModeTokens {
		if err := dump.Tokens(out, source); err != nil {
			fmt.Fprintln(out, err)
		}

		return true
	}

	program, err := parser.ParseProgram(source)
	if err != nil {
		if errors.Is(err, parser.ErrUnexpectedEOF) {
			return false
		}

		fmt.Fprintln(out, err)

		return true
	}

	if s.mode == ModeAST {
		dump.Program(out, program)

		return true
	}

	if len(program) == 0 {
		return true
	}

	var result evaluate.Value
	for _, expr := range program {
		value, err := s.evaluator.Evaluate(ctx, expr, s.env)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("submission failed")
			fmt.Fprintln(out, err)

			return true
		}

		result = value
	}

	fmt.Fprintln(out, evaluate.Format(result))

	return true
}
