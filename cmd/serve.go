package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/dadrock/internal/server"
	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve starts the catalog HTTP API and blocks until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = port
	}

	if cfg.AdminPassword == "" {
		r.logger.Warn("admin password not configured, admin endpoints will reject all requests")
	}

	logger := shared.WithLogger(r.logger, "component", "http")
	api := server.NewAPI(store, r.engine(store), cfg.AdminPassword, logger).WithSiteURL(cfg.SiteURL)
	srv := server.NewServer(cfg.Addr(), server.NewHandler(api, logger), logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
