package run

import (
	"errors"
	"fmt"
	"os"

	"github.com/devnote-dev/clip/internal/commandinit"
	"github.com/devnote-dev/clip/internal/defaults"
	"github.com/devnote-dev/clip/internal/dump"
	"github.com/devnote-dev/clip/internal/evaluate"
	"github.com/devnote-dev/clip/internal/parser"
	"github.com/devnote-dev/clip/internal/script"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Runs a clip script file.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tokens",
				Usage: "Print the token stream instead of evaluating.",
			},
			&cli.BoolFlag{
				Name:  "ast",
				Usage: "Print the parsed program instead of evaluating.",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Export OTLP traces for this run.",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging.",
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	logger := newLogger(cliCtx.Bool("verbose"))

	path := cliCtx.Args().First()
	if path == "" {
		logger.Error().Msg("missing script file argument")
		return ErrCommandFailed
	}

	if cliCtx.Bool("tokens") && cliCtx.Bool("ast") {
		logger.Error().Msg("cannot specify both --tokens and --ast flags")
		return ErrCommandFailed
	}

	traceProvider := trace.TracerProvider(defaults.TraceProvider)
	if cliCtx.Bool("trace") {
		provider, tpShutdown, err := commandinit.NewOpenTelemetry(ctx, "clip")
		if err != nil {
			logger.Error().Err(err).Msg("init OTEL provider")
			return ErrCommandFailed
		}
		defer tpShutdown(ctx)

		traceProvider = provider
	}

	ctx = logger.WithContext(ctx)

	if cliCtx.Bool("tokens") {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error().Err(err).Msg("read script file")
			return ErrCommandFailed
		}

		if err := dump.Tokens(os.Stdout, string(data)); err != nil {
			logger.Error().Err(err).Msg("lex script file")
			return ErrCommandFailed
		}

		return nil
	}

	if cliCtx.Bool("ast") {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error().Err(err).Msg("read script file")
			return ErrCommandFailed
		}

		program, err := parser.ParseProgram(string(data))
		if err != nil {
			logger.Error().Err(err).Msg("parse script file")
			return ErrCommandFailed
		}

		dump.Program(os.Stdout, program)

		return nil
	}

	runner := script.New(
		evaluate.New(evaluate.WithTracerProvider(traceProvider)),
		script.WithTracerProvider(traceProvider),
	)

	value, err := runner.RunFile(ctx, path)
	if err != nil {
		logger.Error().Err(err).Msg("run script file")
		return ErrCommandFailed
	}

	fmt.Println(evaluate.Format(value))

	return nil
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})

	return zerolog.New(writer).Level(level).With().Timestamp().Logger().With().Str("command", "run").Logger()
}
