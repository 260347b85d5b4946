package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/dadrock/internal/formatter"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/shared"
)

// ImportResult contains the outcome of a bulk CSV import.
type ImportResult struct {
	Added  int      `json:"videos_added"`
	Errors []string `json:"errors"`
}

// Message returns the human-readable completion summary.
func (r *ImportResult) Message() string {
	return fmt.Sprintf("Import completed. %d videos added.", r.Added)
}

// ImportVideos inserts parsed CSV rows into store in file order.
//
// Bad rows and failed inserts are recorded as "Row N: ..." and do not stop the import.
// Thumbnails are derived from the video URL.
func ImportVideos(ctx context.Context, store models.VideoStore, rows []formatter.ImportRow) (*ImportResult, error) {
	result := &ImportResult{Errors: []string{}}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if row.Err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Row, row.Err))
			continue
		}

		video := models.NewVideo(row.Song, row.Artist, row.YouTubeURL, shared.ThumbnailURL(row.YouTubeURL))
		video.SetID(shared.GenerateID())

		if err := store.Create(ctx, video); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Row, err))
			continue
		}
		result.Added++
	}

	return result, nil
}
