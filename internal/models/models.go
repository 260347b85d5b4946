// package models defines the data model for the tab catalog service
package models

import (
	"context"
	"time"
)

// Model defines the base interface for all persistent models in the catalog.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// VideoStore defines the record store consumed by the channel sync engine.
//
// Implementations must enforce URL uniqueness and report a violation as [shared.ErrAlreadyExists].
type VideoStore interface {
	FindByURL(ctx context.Context, url string) (*Video, error) // FindByURL returns the video with the exact URL, or [shared.ErrNotFound]
	ExistsByURL(ctx context.Context, url string) (bool, error) // ExistsByURL reports whether a video with the exact URL is stored
	Create(ctx context.Context, video *Video) error            // Create inserts a new video, assigning its ID and sequence
}

// VideoQuery filters and pages catalog listings.
type VideoQuery struct {
	Search     string     // Case-insensitive substring; empty matches everything
	SearchType SearchType // Which fields Search applies to
	Skip       int
	Limit      int
}

// SearchType selects the fields a [VideoQuery] search matches.
type SearchType string

const (
	SearchAll    SearchType = "all"
	SearchSong   SearchType = "song"
	SearchArtist SearchType = "artist"
)

// ParseSearchType maps a user-supplied value onto a [SearchType], defaulting to [SearchAll].
func ParseSearchType(s string) SearchType {
	switch SearchType(s) {
	case SearchSong:
		return SearchSong
	case SearchArtist:
		return SearchArtist
	default:
		return SearchAll
	}
}

// CatalogStats summarises the stored catalog.
type CatalogStats struct {
	TotalVideos  int `json:"total_videos"`
	TotalArtists int `json:"total_artists"`
}
