package tasks

import (
	"context"

	"github.com/desertthunder/dadrock/internal/models"
)

// DedupFilter answers whether a catalog item is already stored.
//
// Every call is one store lookup on the exact URL. Nothing is cached across a run.
type DedupFilter struct {
	store models.VideoStore
}

// NewDedupFilter creates a filter backed by store.
func NewDedupFilter(store models.VideoStore) *DedupFilter {
	return &DedupFilter{store: store}
}

// Exists reports whether a video with canonical URL url is stored.
func (d *DedupFilter) Exists(ctx context.Context, url string) (bool, error) {
	return d.store.ExistsByURL(ctx, url)
}
