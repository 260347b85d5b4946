// package tasks implements the channel sync engine that fills the catalog from YouTube uploads.
//
// The core abstraction is SyncEngine, which walks a channel's uploads and folds one outcome per item into a SyncResult.
// Runs emit progress updates via channels for non-blocking status reporting to CLI/server layers.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/services"
	"github.com/desertthunder/dadrock/internal/shared"
)

// FetcherFactory builds a [services.PageFetcher] authenticated with apiKey.
type FetcherFactory func(ctx context.Context, apiKey string) (services.PageFetcher, error)

// SyncRequest selects the channel and optional credential override for one run.
type SyncRequest struct {
	ChannelID string // Empty uses the configured default channel
	APIKey    string // Empty uses the configured default key
}

// SyncResult contains the counts accumulated by one run.
//
// Total processed is Added + Skipped + len(Errors).
type SyncResult struct {
	ChannelID   string   `json:"channel_id"`
	Added       int      `json:"videos_added"`
	Skipped     int      `json:"videos_skipped"`
	Errors      []string `json:"errors"`
	Interrupted bool     `json:"interrupted,omitempty"` // Cancelled or timed out before the listing was exhausted
}

// Processed returns the number of items that produced an outcome.
func (r *SyncResult) Processed() int {
	return r.Added + r.Skipped + len(r.Errors)
}

// Message returns the human-readable completion summary.
func (r *SyncResult) Message() string {
	msg := fmt.Sprintf("Sync completed! %d videos added, %d already existed.", r.Added, r.Skipped)
	if r.Interrupted {
		msg = fmt.Sprintf("Sync interrupted. %d videos added, %d already existed.", r.Added, r.Skipped)
	}
	return msg
}

type outcomeKind int

const (
	outcomeAdded outcomeKind = iota
	outcomeSkipped
	outcomeFailed
)

// outcome is the result of processing a single catalog item.
type outcome struct {
	kind outcomeKind
	err  error
}

func (r *SyncResult) fold(item services.CatalogItem, o outcome) {
	switch o.kind {
	case outcomeAdded:
		r.Added++
	case outcomeSkipped:
		r.Skipped++
	case outcomeFailed:
		r.Errors = append(r.Errors, fmt.Sprintf("Failed to add '%s': %v", item.Title, o.err))
	}
}

// SyncOptions carries the process-wide defaults for a [SyncEngine].
type SyncOptions struct {
	DefaultChannelID string
	DefaultAPIKey    string
	Timeout          time.Duration // Overall bound per run; zero disables it
	Locker           *ChannelLocker
	Logger           *log.Logger
}

// SyncEngine imports a channel's uploads into the catalog.
//
// Only missing credentials and remote failures abort a run. Item failures are recorded and the run continues.
type SyncEngine struct {
	store      models.VideoStore
	dedup      *DedupFilter
	newFetcher FetcherFactory
	opts       SyncOptions
	logger     *log.Logger
}

// NewSyncEngine creates a new SyncEngine writing to store and listing through fetchers built by factory.
func NewSyncEngine(store models.VideoStore, factory FetcherFactory, opts SyncOptions) *SyncEngine {
	if opts.DefaultChannelID == "" {
		opts.DefaultChannelID = shared.DefaultChannelID
	}
	if opts.Locker == nil {
		opts.Locker = NewChannelLocker("")
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &SyncEngine{
		store:      store,
		dedup:      NewDedupFilter(store),
		newFetcher: factory,
		opts:       opts,
		logger:     shared.WithLogger(logger, "component", "sync"),
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *SyncEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Sync runs one channel sync.
//
// A cancelled or timed out ctx stops the run and returns the partial result with Interrupted set and a nil error.
func (e *SyncEngine) Sync(ctx context.Context, req SyncRequest, progress chan<- ProgressUpdate) (*SyncResult, error) {
	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		channelID = e.opts.DefaultChannelID
	}

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = e.opts.DefaultAPIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: YouTube API key not configured", shared.ErrMissingCredentials)
	}

	unlock, err := e.opts.Locker.TryLock(channelID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	fetcher, err := e.newFetcher(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	logger := shared.WithLogger(e.logger, "channel", channelID)
	logger.Info("sync started")
	start := time.Now()

	e.sendProgress(progress, resolveChannelUpdate(channelID))

	observed := &pageObserver{PageFetcher: fetcher, engine: e, progress: progress}
	result := &SyncResult{ChannelID: channelID, Errors: []string{}}

	for item, err := range services.ChannelUploads(ctx, observed, channelID) {
		if err != nil {
			if interrupted(ctx, err) {
				result.Interrupted = true
				break
			}
			logger.Error("sync failed", "error", err, "added", result.Added, "skipped", result.Skipped)
			return nil, err
		}

		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		o := e.processItem(ctx, item)
		if o.kind == outcomeFailed && ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		result.fold(item, o)
		if o.kind == outcomeFailed {
			logger.Warn("item failed", "title", item.Title, "url", item.URL, "error", o.err)
		}

		e.sendProgress(progress, processItemUpdate(result.Processed(), item, o))
	}

	logger.Info("sync finished",
		"added", result.Added,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"interrupted", result.Interrupted,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

// processItem decides one item's outcome: skip when stored, otherwise parse and insert.
func (e *SyncEngine) processItem(ctx context.Context, item services.CatalogItem) outcome {
	exists, err := e.dedup.Exists(ctx, item.URL)
	if err != nil {
		return outcome{kind: outcomeFailed, err: err}
	}
	if exists {
		return outcome{kind: outcomeSkipped}
	}

	song, artist := shared.ParseVideoTitle(item.Title)
	video := models.NewVideo(song, artist, item.URL, item.Thumbnail)
	video.SetID(shared.GenerateID())

	err = e.store.Create(ctx, video)
	switch {
	case err == nil:
		return outcome{kind: outcomeAdded}
	case errors.Is(err, shared.ErrAlreadyExists):
		return outcome{kind: outcomeSkipped}
	default:
		return outcome{kind: outcomeFailed, err: err}
	}
}

// pageObserver reports page fetches on the progress channel.
type pageObserver struct {
	services.PageFetcher
	engine   *SyncEngine
	progress chan<- ProgressUpdate
	pages    int
}

func (p *pageObserver) FetchPage(ctx context.Context, playlistID, cursor string) (*services.UploadsPage, error) {
	p.pages++
	p.engine.sendProgress(p.progress, fetchPageUpdate(p.pages))
	return p.PageFetcher.FetchPage(ctx, playlistID, cursor)
}

// interrupted reports whether err ended the run because its time ran out or it was cancelled.
func interrupted(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
