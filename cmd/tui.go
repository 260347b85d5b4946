package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/desertthunder/dadrock/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	store, err := r.store()
	if err != nil {
		return err
	}

	if err := ui.Run(ctx, store, r.engine(store), cmd.String("channel")); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
