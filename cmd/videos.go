package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/dadrock/internal/formatter"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/repositories"
	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/desertthunder/dadrock/internal/tasks"
	"github.com/desertthunder/dadrock/internal/ui"
	"github.com/urfave/cli/v3"
)

// exportPageSize is the page size used to walk the whole catalog.
const exportPageSize = 500

type videoListOutput struct {
	Videos []models.VideoJSON `json:"videos"`
	Total  int                `json:"total"`
}

// VideosList prints one page of catalog videos, optionally filtered by a search term.
func (r *Runner) VideosList(ctx context.Context, cmd *cli.Command) error {
	skip, limit := cmd.Int("skip"), cmd.Int("limit")
	if skip < 0 {
		return fmt.Errorf("%w: --skip must not be negative", shared.ErrInvalidArgument)
	}
	if limit < 1 {
		return fmt.Errorf("%w: --limit must be positive", shared.ErrInvalidArgument)
	}

	store, err := r.store()
	if err != nil {
		return err
	}

	videos, total, err := store.List(ctx, models.VideoQuery{
		Search:     cmd.String("search"),
		SearchType: models.ParseSearchType(cmd.String("type")),
		Skip:       skip,
		Limit:      limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list videos: %w", err)
	}

	if cmd.Bool("json") {
		out := videoListOutput{Videos: make([]models.VideoJSON, 0, len(videos)), Total: total}
		for _, v := range videos {
			out.Videos = append(out.Videos, v.JSON())
		}
		return r.writeJSON(out, true)
	}

	return r.writePlain("%s", ui.RenderVideos(videos, total, skip))
}

// VideosStats prints catalog totals.
func (r *Runner) VideosStats(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}
	return r.writePlain("%s", ui.RenderStats(stats))
}

// VideosImport inserts the rows of a CSV file into the catalog.
func (r *Runner) VideosImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: CSV file path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	rows, err := formatter.ParseVideosCSV(f)
	if err != nil {
		return err
	}

	store, err := r.store()
	if err != nil {
		return err
	}

	result, err := tasks.ImportVideos(ctx, store, rows)
	if err != nil {
		return fmt.Errorf("import interrupted after %d videos: %w", result.Added, err)
	}
	r.logger.Info("import finished", "file", path, "added", result.Added, "errors", len(result.Errors))

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.writePlain("%s", ui.RenderImportResult(result))
}

// VideosExport writes the whole catalog in the requested format.
func (r *Runner) VideosExport(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	videos, err := allVideos(ctx, store)
	if err != nil {
		return err
	}

	data, err := formatter.Export(videos, formatter.Format(cmd.String("format")))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	output := cmd.String("output")
	if err := formatter.WriteExport(data, output, r.output); err != nil {
		return err
	}
	if output != "" {
		r.logger.Info("catalog exported", "path", output, "videos", len(videos))
	}
	return nil
}

// allVideos pages through the catalog in insertion order.
func allVideos(ctx context.Context, store *repositories.VideoRepository) ([]*models.Video, error) {
	var videos []*models.Video
	for {
		page, total, err := store.List(ctx, models.VideoQuery{Skip: len(videos), Limit: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to list videos: %w", err)
		}
		videos = append(videos, page...)

		if len(page) == 0 || len(videos) >= total {
			return videos, nil
		}
	}
}
