// Package main is the entry point for the keysplit command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keysplit/internal/host/memhost"
	"github.com/dshills/keysplit/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type globalFlags struct {
	width    int
	height   int
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "keysplit",
		Short: "Split panels on an in-memory editor",
		Long: `keysplit drives split panels against an in-memory editor and prints the
resulting window layout.

  keysplit run panel.lua          run a plugin script using require("ks")
  keysplit profile panel.toml     mount a split described by a profile
  keysplit profile -w panel.yaml  keep applying profile edits`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.IntVar(&flags.width, "width", memhost.DefaultColumns, "editor width in columns")
	pf.IntVar(&flags.height, "height", memhost.DefaultLines, "editor height in lines")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVar(&flags.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(newRunCmd(flags), newProfileCmd(flags))
	return root
}

func (f *globalFlags) logger() *logging.Logger {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(f.logLevel)
	if f.logJSON {
		cfg.Format = "json"
	}
	return logging.New(cfg)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
