package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/dadrock/internal/tasks"
	"github.com/desertthunder/dadrock/internal/ui"
	"github.com/urfave/cli/v3"
)

// Sync imports a channel's uploads, printing progress as it goes.
//
// Interrupting with Ctrl+C stops the run and reports what was imported so far.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	req := tasks.SyncRequest{
		ChannelID: cmd.String("channel"),
		APIKey:    cmd.String("api-key"),
	}

	if cmd.Bool("json") {
		result, err := r.engine(store).Sync(ctx, req, nil)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		return r.writeJSON(result, true)
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progress {
			if update.Phase == tasks.Complete {
				continue
			}
			r.writePlain("%s\n", ui.RenderProgress(update))
		}
	}()

	result, err := r.engine(store).Sync(ctx, req, progress)
	close(progress)
	<-printed

	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	return r.writePlain("\n%s", ui.RenderSyncResult(result))
}
