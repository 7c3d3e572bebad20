package main

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/keysplit/internal/config"
	"github.com/dshills/keysplit/internal/split"
)

func newProfileCmd(flags *globalFlags) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Mount a split from a TOML or YAML profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runProfile(ctx, flags, args[0], watch, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "apply profile edits until interrupted")
	return cmd
}

func runProfile(ctx context.Context, flags *globalFlags, path string, watch bool, out io.Writer) error {
	p, err := config.Load(path)
	if err != nil {
		return err
	}

	s, err := newSession(flags)
	if err != nil {
		return err
	}
	defer s.close()

	sp, err := split.New(s.host, p.Options(), split.WithLogger(s.log))
	if err != nil {
		return err
	}
	if err := sp.Mount(); err != nil {
		return err
	}
	if err := s.print(out); err != nil {
		return err
	}
	if !watch {
		return nil
	}

	w, err := config.NewWatcher(path, config.WithWatcherLogger(s.log))
	if err != nil {
		return err
	}
	defer w.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.host.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err := <-w.Errors():
				s.log.Warn("profile not applied: %v", err)
			case p := <-w.Updates():
				s.host.Schedule(func() {
					if err := sp.UpdateLayout(p.Request()); err != nil {
						s.log.Warn("layout update failed: %v", err)
						return
					}
					if err := s.print(out); err != nil {
						s.log.Error("print: %v", err)
					}
				})
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
