// package services talks to the remote video catalog (YouTube Data API v3)
package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/desertthunder/dadrock/internal/shared"
)

// PageSize is the number of playlist items requested per listing call.
const PageSize = 50

// CatalogItem is one upload as listed by the remote API. It is never persisted.
type CatalogItem struct {
	VideoID   string
	Title     string
	URL       string // canonical watch URL, the dedup key
	Thumbnail string
}

// UploadsPage is one page of a channel's uploads listing.
//
// NextCursor is empty on the last page.
type UploadsPage struct {
	NextCursor string
	Items      []CatalogItem
}

// PageFetcher lists a channel's uploads one page at a time.
type PageFetcher interface {
	// UploadsPlaylistID resolves the uploads listing for channelID.
	// Returns [shared.ErrChannelNotFound] when the remote reports no such channel.
	UploadsPlaylistID(ctx context.Context, channelID string) (string, error)

	// FetchPage returns the page at cursor; an empty cursor selects the first page.
	FetchPage(ctx context.Context, playlistID, cursor string) (*UploadsPage, error)
}

// RemoteError is a remote API failure that is not quota, credential or lookup related.
// It carries the raw message returned by the remote.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("YouTube API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *RemoteError) Unwrap() error { return shared.ErrAPIRequest }

// ChannelUploads returns the lazy sequence of a channel's uploads in listing order.
//
// Nothing is fetched until the first pull. Pages are requested one at a time as the consumer
// advances, and iteration ends after the page without a continuation cursor. A fatal error is
// yielded once with a zero [CatalogItem] and ends the sequence. Stopping early leaves the
// remaining pages unfetched.
func ChannelUploads(ctx context.Context, fetcher PageFetcher, channelID string) iter.Seq2[CatalogItem, error] {
	return func(yield func(CatalogItem, error) bool) {
		playlistID, err := fetcher.UploadsPlaylistID(ctx, channelID)
		if err != nil {
			yield(CatalogItem{}, err)
			return
		}

		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(CatalogItem{}, err)
				return
			}

			page, err := fetcher.FetchPage(ctx, playlistID, cursor)
			if err != nil {
				yield(CatalogItem{}, err)
				return
			}

			for _, item := range page.Items {
				if !yield(item, nil) {
					return
				}
			}

			if page.NextCursor == "" {
				return
			}

			if page.NextCursor == cursor {
				yield(CatalogItem{}, fmt.Errorf("%w: page cursor %q repeated", shared.ErrRemoteProtocol, cursor))
				return
			}
			cursor = page.NextCursor
		}
	}
}
