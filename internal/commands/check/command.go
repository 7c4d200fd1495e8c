package check

import (
	"errors"
	"fmt"
	"os"

	"github.com/devnote-dev/clip/internal/parser"
	"github.com/rs/zerolog"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var ErrCommandFailed = errors.New("command failed")

func NewCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Parses script files and reports syntax errors without running them.",
		Flags: []cli.Flag{
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

	paths := cliCtx.Args().Slice()
	if len(paths) == 0 {
		logger.Error().Msg("missing script file arguments")
		return ErrCommandFailed
	}

	// files parse concurrently; results stay indexed so the report keeps
	// the argument order
	results := make([]error, len(paths))

	var group errgroup.Group
	for i, path := range paths {
		i, path := i, path
		group.Go(func() error {
			if err := checkFile(path); err != nil {
				results[i] = err
				return err
			}

			return nil
		})
	}

	err := group.Wait()

	for i, path := range paths {
		if results[i] != nil {
			fmt.Fprintf(cliCtx.App.Writer, "%s: %s\n", path, results[i])
			continue
		}

		fmt.Fprintf(cliCtx.App.Writer, "%s: ok\n", path)
	}

	if err != nil {
		return ErrCommandFailed
	}

	return nil
}

func checkFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script file: %w", err)
	}

	if _, err := parser.ParseProgram(string(data)); err != nil {
		return err
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

	return zerolog.New(writer).Level(level).With().Timestamp().Logger().With().Str("command", "check").Logger()
}
