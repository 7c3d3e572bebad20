package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keysplit/internal/plugin"
	klua "github.com/dshills/keysplit/internal/plugin/lua"
)

// maxTicks bounds how long scheduled callbacks may keep rescheduling.
const maxTicks = 100

func newRunCmd(flags *globalFlags) *cobra.Command {
	var (
		timeout  time.Duration
		settings map[string]string
	)

	cmd := &cobra.Command{
		Use:   "run <plugin>",
		Short: "Run a plugin script or directory and print the layout",
		Long: `Run loads a .lua file (or a directory with init.lua), calls setup with the
--set values and activate, runs scheduled callbacks, then prints the layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(flags)
			if err != nil {
				return err
			}
			defer s.close()

			config := make(map[string]any, len(settings))
			for k, v := range settings {
				config[k] = v
			}
			p, err := plugin.New(args[0], s.host,
				plugin.WithExecutionTimeout(timeout),
				plugin.WithConfig(config),
				plugin.WithLogger(s.log),
			)
			if err != nil {
				return err
			}
			if err := p.Load(); err != nil {
				return err
			}
			defer p.Unload()
			if err := p.Activate(); err != nil {
				return err
			}

			if n := s.host.Drain(maxTicks); n > 0 {
				s.log.Debug("ran %d scheduled callbacks", n)
			}
			if s.host.Pending() > 0 {
				s.log.Warn("%d callbacks still pending after %d ticks", s.host.Pending(), maxTicks)
			}
			return s.print(cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", klua.DefaultExecutionTimeout, "script execution timeout")
	cmd.Flags().StringToStringVar(&settings, "set", nil, "value passed to setup (key=value, repeatable)")
	return cmd
}
