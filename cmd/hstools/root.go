package main

import (
	"io"

	"github.com/spf13/cobra"

	"hstools/internal/config"
	"hstools/internal/logger"
)

// app carries what every command needs once the environment is loaded
type app struct {
	cfg    config.Config
	log    logger.Logger
	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "hstools",
		Short:         "Tools for migrating static sites into HubSpot themes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(newHTMLCmd(a))
	return root
}

// load reads .env and the environment and sets up diagnostics on stderr
func (a *app) load() error {
	a.cfg = config.Load()

	level, err := logger.ParseLevel(a.cfg.LogLevel)
	a.log = logger.NewText(a.stderr, level)
	if err != nil {
		a.log.Warn("invalid log level, using info", "value", a.cfg.LogLevel, "error", err)
	}
	return nil
}
