package script

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/devnote-dev/clip/internal/defaults"
	"github.com/devnote-dev/clip/internal/evaluate"
	"github.com/devnote-dev/clip/internal/log/semconv"
	"github.com/devnote-dev/clip/internal/parser"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/devnote-dev/clip/internal/script"
)

// Runner evaluates whole programs. All runs share the Runner's
// environment, so bindings made by one source text remain visible to the
// next; a fresh Runner is a fresh top level scope.
type Runner struct {
	env       *evaluate.Environment
	evaluator *evaluate.Evaluator
	tracer    trace.Tracer
}

func New(evaluator *evaluate.Evaluator, options ...func(*Runner)) *Runner {
	runner := Runner{
		env:       evaluate.NewEnvironment(),
		evaluator: evaluator,
		tracer:    defaults.TraceProvider.Tracer(tracerName),
	}

	for _, apply := range options {
		apply(&runner)
	}

	return &runner
}

func WithTracerProvider(tp trace.TracerProvider) func(*Runner) {
	return func(r *Runner) {
		r.tracer = tp.Tracer(tracerName)
	}
}

// RunFile reads a script from disk and runs it.
func (r *Runner) RunFile(ctx context.Context, path string) (evaluate.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script file: %w", err)
	}

	ctx = zerolog.Ctx(ctx).With().Str(semconv.ScriptPath, path).Logger().WithContext(ctx)

	return r.Run(ctx, string(data))
}

// Run parses source and evaluates its expressions in order, stopping at
// the first error. It returns the value of the last expression, or unit
// for an empty program. Bindings made before a failing expression stay in
// the environment.
func (r *Runner) Run(ctx context.Context, source string) (evaluate.Value, error) {
	ctx, span := r.tracer.Start(ctx, "run script")
	defer span.End()

	logger := zerolog.Ctx(ctx).With().Str(semconv.RunID, uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	started := time.Now()

	program, err := parser.ParseProgram(source)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}

	var result evaluate.Value = evaluate.Unit{}
	for _, expr := range program {
		value, err := r.evaluator.Evaluate(ctx, expr, r.env)
		if err != nil {
			return nil, fmt.Errorf("evaluate script: %w", err)
		}

		result = value
	}

	logger.Debug().
		Int(semconv.ExpressionCount, len(program)).
		Dur("duration", time.Since(started)).
		Msg("script evaluated")

	return result, nil
}
