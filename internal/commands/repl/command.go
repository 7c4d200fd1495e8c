package repl

import (
	"errors"
	"os"

	"github.com/devnote-dev/clip/internal/commandinit"
	"github.com/devnote-dev/clip/internal/defaults"
	"github.com/devnote-dev/clip/internal/evaluate"
	replsession "github.com/devnote-dev/clip/internal/repl"
	"github.com/devnote-dev/clip/internal/replconfig"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Starts an interactive session.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tokens",
				Usage: "Print the token stream of each submission instead of evaluating.",
			},
			&cli.BoolFlag{
				Name:  "ast",
				Usage: "Print the parsed program of each submission instead of evaluating.",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "Export OTLP traces for this session.",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging.",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the repl configuration file.",
				Value: replconfig.DefaultPath,
			},
		},
		Action: run,
	}
}

func run(cliCtx *cli.Context) error {
	ctx := cliCtx.Context

	logger := newLogger(cliCtx.Bool("verbose"))

	if cliCtx.Bool("tokens") && cliCtx.Bool("ast") {
		logger.Error().Msg("cannot specify both --tokens and --ast flags")
		return ErrCommandFailed
	}

	config, err := replconfig.ReadConfigFile(cliCtx.String("config"))
	if err != nil {
		logger.Error().Err(err).Msg("read repl config file")
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

	mode := replsession.ModeEvaluate
	if cliCtx.Bool("tokens") {
		mode = replsession.ModeTokens
	}
	if cliCtx.Bool("ast") {
		mode = replsession.ModeAST
	}

	session := replsession.New(
		evaluate.New(evaluate.WithTracerProvider(traceProvider)),
		replsession.WithPrompt(config.Prompt),
		replsession.WithContinuationPrompt(config.ContinuationPrompt),
		replsession.WithMode(mode),
		replsession.WithTracerProvider(traceProvider),
	)

	if err := session.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("run session")
		return ErrCommandFailed
	}

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

	return zerolog.New(writer).Level(level).With().Timestamp().Logger().With().Str("command", "repl").Logger()
}
