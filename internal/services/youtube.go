// YouTube Data API v3 [PageFetcher] implementation
//
// Authenticates with a plain API key; no OAuth flow is involved.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/dadrock/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeOptions tunes a [YouTubeService].
type YouTubeOptions struct {
	Endpoint          string  // Base URL override; empty uses the public API
	RequestsPerSecond float64 // Request pacing; zero or less disables pacing
}

// YouTubeService implements [PageFetcher] against the YouTube Data API.
type YouTubeService struct {
	svc     *youtube.Service
	limiter *rate.Limiter
}

// NewYouTubeService creates a service authenticated with apiKey.
func NewYouTubeService(ctx context.Context, apiKey string, opts YouTubeOptions) (*YouTubeService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: YouTube API key not configured", shared.ErrMissingCredentials)
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(strings.TrimSuffix(opts.Endpoint, "/")+"/"))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	return &YouTubeService{
		svc:     svc,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// wait blocks until the limiter admits a request. The limiter refuses early when
// the next slot falls past the context deadline, so that refusal is reported as
// [context.DeadlineExceeded].
func (y *YouTubeService) wait(ctx context.Context) error {
	if err := y.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// UploadsPlaylistID resolves the channel's uploads playlist with one channels.list call.
func (y *YouTubeService) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	if err := y.wait(ctx); err != nil {
		return "", err
	}

	resp, err := y.svc.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Items) == 0 {
		return "", fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
	}

	details := resp.Items[0].ContentDetails
	if details == nil || details.RelatedPlaylists == nil || details.RelatedPlaylists.Uploads == "" {
		return "", fmt.Errorf("%w: channel %s has no uploads playlist", shared.ErrRemoteProtocol, channelID)
	}

	return details.RelatedPlaylists.Uploads, nil
}

// FetchPage requests up to [PageSize] items of the playlist starting at cursor.
func (y *YouTubeService) FetchPage(ctx context.Context, playlistID, cursor string) (*UploadsPage, error) {
	if err := y.wait(ctx); err != nil {
		return nil, err
	}

	call := y.svc.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(playlistID).
		MaxResults(PageSize)
	if cursor != "" {
		call = call.PageToken(cursor)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, classifyError(err)
	}

	page := &UploadsPage{
		NextCursor: resp.NextPageToken,
		Items:      make([]CatalogItem, 0, len(resp.Items)),
	}

	for i, item := range resp.Items {
		ci, err := extractItem(item)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", shared.ErrRemoteProtocol, i, err)
		}
		page.Items = append(page.Items, ci)
	}

	return page, nil
}

// extractItem maps a playlist item onto a [CatalogItem], rejecting items without the fields a sync needs.
func extractItem(item *youtube.PlaylistItem) (CatalogItem, error) {
	if item == nil || item.Snippet == nil {
		return CatalogItem{}, errors.New("missing snippet")
	}

	snippet := item.Snippet
	if snippet.ResourceId == nil {
		return CatalogItem{}, errors.New("missing resourceId")
	}
	if snippet.ResourceId.VideoId == "" {
		return CatalogItem{}, errors.New("missing videoId")
	}
	if snippet.Title == "" {
		return CatalogItem{}, errors.New("missing title")
	}

	return CatalogItem{
		VideoID:   snippet.ResourceId.VideoId,
		Title:     snippet.Title,
		URL:       shared.WatchURL(snippet.ResourceId.VideoId),
		Thumbnail: pickThumbnail(snippet.Thumbnails),
	}, nil
}

// pickThumbnail prefers the high resolution variant, then the default one.
func pickThumbnail(t *youtube.ThumbnailDetails) string {
	switch {
	case t == nil:
		return ""
	case t.High != nil && t.High.Url != "":
		return t.High.Url
	case t.Default != nil:
		return t.Default.Url
	default:
		return ""
	}
}

// classifyError maps a remote failure onto the sync error taxonomy.
//
// Context cancellation passes through unchanged so callers can tell it apart from remote failures.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	for _, item := range gerr.Errors {
		switch item.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded":
			return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, gerr.Message)
		case "keyInvalid", "keyExpired":
			return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, gerr.Message)
		case "channelNotFound", "playlistNotFound":
			return fmt.Errorf("%w: %s", shared.ErrChannelNotFound, gerr.Message)
		}
	}

	switch {
	case gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, gerr.Message)
	case strings.Contains(gerr.Message, "API key not valid"):
		return fmt.Errorf("%w: %s", shared.ErrInvalidCredentials, gerr.Message)
	}

	msg := gerr.Message
	if msg == "" {
		msg = strings.TrimSpace(gerr.Body)
	}
	return &RemoteError{StatusCode: gerr.Code, Message: msg}
}
