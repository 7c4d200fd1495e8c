package root

import (
	"github.com/devnote-dev/clip/internal/commands/check"
	"github.com/devnote-dev/clip/internal/commands/configure"
	"github.com/devnote-dev/clip/internal/commands/repl"
	"github.com/devnote-dev/clip/internal/commands/run"
	cli "github.com/urfave/cli/v2"
)

func NewCommand() *cli.App {
	return &cli.App{
		Name:  "clip",
		Usage: "An interpreter for the clip language.",
		Commands: []*cli.Command{
			check.NewCommand(),
			configure.NewCommand(),
			repl.NewCommand(),
			run.NewCommand(),
		},

		// plain `clip` drops into an interactive session
		DefaultCommand: "repl",
	}
}
