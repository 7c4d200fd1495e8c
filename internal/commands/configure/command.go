package configure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devnote-dev/clip/internal/replconfig"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "configure",
		Usage: "Writes the repl configuration file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prompt",
				Usage: "Prompt shown for a new submission.",
				Value: replconfig.Default().Prompt,
			},
			&cli.StringFlag{
				Name:  "continuation-prompt",
				Usage: "Prompt shown while a submission is incomplete.",
				Value: replconfig.Default().ContinuationPrompt,
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Destination path for the configuration file.",
				Value: replconfig.DefaultPath,
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
	logger := newLogger(cliCtx.Bool("verbose"))

	config := replconfig.Config{
		Prompt:             cliCtx.String("prompt"),
		ContinuationPrompt: cliCtx.String("continuation-prompt"),
	}

	path := cliCtx.String("config")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error().Err(err).Msg("create config directory")
			return ErrCommandFailed
		}
	}

	if err := replconfig.SaveConfigFile(path, &config); err != nil {
		logger.Error().Err(err).Msg("save repl config file")
		return ErrCommandFailed
	}

	fmt.Printf("wrote %s\n", path)

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

	return zerolog.New(writer).Level(level).With().Timestamp().Logger().With().Str("command", "configure").Logger()
}
