package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

// Command is implemented by every subcommand of the CLI.
type Command interface {
	Describe() *cli.Command
	Execute(*cli.Context) error
}

func main() {
	commands := []Command{
		&ServeCommand{},
		&ValidateCommand{},
		&ConvertCommand{},
		&SampleCommand{},
		&LdsCommand{},
	}

	app := &cli.App{
		Name:  "biometric-sdk",
		Usage: "validate ISO/IEC 19794 biometric records and convert them to plain images",
	}
	for _, c := range commands {
		app.Commands = append(app.Commands, c.Describe())
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
