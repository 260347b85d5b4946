package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/dadrock/internal/services"
	"github.com/desertthunder/dadrock/internal/shared"
	tu "github.com/desertthunder/dadrock/internal/testing"
)

type engineFixture struct {
	engine   *SyncEngine
	store    *tu.MockStore
	fetcher  services.PageFetcher
	keys     []string
	factoryN int
}

func newFixture(t *testing.T, fetcher services.PageFetcher, opts SyncOptions) *engineFixture {
	t.Helper()

	f := &engineFixture{store: tu.NewMockStore(), fetcher: fetcher}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	factory := func(ctx context.Context, apiKey string) (services.PageFetcher, error) {
		f.factoryN++
		f.keys = append(f.keys, apiKey)
		return f.fetcher, nil
	}

	f.engine = NewSyncEngine(f.store, factory, opts)
	return f
}

// cancellingFetcher cancels the run when the page at cancelAt is requested.
type cancellingFetcher struct {
	*tu.MockFetcher
	cancel   context.CancelFunc
	cancelAt string
}

func (c *cancellingFetcher) FetchPage(ctx context.Context, playlistID, cursor string) (*services.UploadsPage, error) {
	if cursor == c.cancelAt {
		c.cancel()
		return nil, ctx.Err()
	}
	return c.MockFetcher.FetchPage(ctx, playlistID, cursor)
}

func TestSyncEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("adds new videos in listing order", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 50), tu.Items("b", 50), tu.Items("c", 10)), SyncOptions{DefaultAPIKey: "key"})

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Added != 110 || result.Skipped != 0 || len(result.Errors) != 0 {
			t.Errorf("expected 110 added, got %+v", result)
		}

		videos := f.store.Videos()
		if len(videos) != 110 {
			t.Fatalf("expected 110 stored videos, got %d", len(videos))
		}
		if videos[0].YouTubeURL() != shared.WatchURL("a000") || videos[109].YouTubeURL() != shared.WatchURL("c009") {
			t.Errorf("videos not stored in listing order: first %s last %s", videos[0].YouTubeURL(), videos[109].YouTubeURL())
		}

		first := videos[0]
		if first.Song() != "Song a000" || first.Artist() != "Band a" {
			t.Errorf("expected parsed song/artist, got %q / %q", first.Song(), first.Artist())
		}
		if first.ID() == "" {
			t.Error("expected generated id")
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 50), tu.Items("b", 10)), SyncOptions{DefaultAPIKey: "key"})

		first, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if first.Added != 60 {
			t.Fatalf("expected 60 added on first run, got %d", first.Added)
		}
		writes := f.store.Writes

		second, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		if second.Added != 0 || second.Skipped != 60 || len(second.Errors) != 0 {
			t.Errorf("expected 0 added 60 skipped, got %+v", second)
		}
		if f.store.Writes != writes {
			t.Errorf("second run should not write, writes went %d -> %d", writes, f.store.Writes)
		}
		if second.Message() != "Sync completed! 0 videos added, 60 already existed." {
			t.Errorf("unexpected message %q", second.Message())
		}
	})

	t.Run("item failure does not abort run", func(t *testing.T) {
		items := tu.Items("a", 10)
		f := newFixture(t, tu.NewMockFetcher(items), SyncOptions{DefaultAPIKey: "key"})
		f.store.FailOn[items[2].URL] = errors.New("disk full")

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Added != 9 {
			t.Errorf("expected 9 added, got %d", result.Added)
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 error, got %v", result.Errors)
		}

		want := fmt.Sprintf("Failed to add '%s': disk full", items[2].Title)
		if result.Errors[0] != want {
			t.Errorf("expected error %q, got %q", want, result.Errors[0])
		}
		if result.Processed() != 10 {
			t.Errorf("expected 10 processed, got %d", result.Processed())
		}
	})

	t.Run("lookup failure is per item", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 3)), SyncOptions{DefaultAPIKey: "key"})
		f.store.LookupErr = errors.New("database is locked")

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Errors) != 3 || result.Added != 0 {
			t.Errorf("expected 3 errors and nothing added, got %+v", result)
		}
		if f.store.Writes != 0 {
			t.Errorf("expected no writes after failed lookups, got %d", f.store.Writes)
		}
	})

	t.Run("unique violation on insert counts as skipped", func(t *testing.T) {
		items := tu.Items("a", 2)
		f := newFixture(t, tu.NewMockFetcher(items), SyncOptions{DefaultAPIKey: "key"})
		f.store.FailOn[items[0].URL] = fmt.Errorf("%w: %s", shared.ErrAlreadyExists, items[0].URL)

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Added != 1 || result.Skipped != 1 || len(result.Errors) != 0 {
			t.Errorf("expected 1 added 1 skipped, got %+v", result)
		}
	})

	t.Run("missing credential fails before any work", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 5)), SyncOptions{})

		result, err := f.engine.Sync(ctx, SyncRequest{ChannelID: "UCabc"}, nil)
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials, got %v", err)
		}
		if result != nil {
			t.Errorf("expected nil result, got %+v", result)
		}
		if f.factoryN != 0 {
			t.Errorf("expected no fetcher to be built, got %d", f.factoryN)
		}
		if f.store.Writes != 0 {
			t.Errorf("expected zero store writes, got %d", f.store.Writes)
		}
	})

	t.Run("request key overrides default", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(), SyncOptions{DefaultAPIKey: "default"})

		if _, err := f.engine.Sync(ctx, SyncRequest{APIKey: "override"}, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := f.engine.Sync(ctx, SyncRequest{APIKey: "  "}, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(f.keys) != 2 || f.keys[0] != "override" || f.keys[1] != "default" {
			t.Errorf("unexpected keys %v", f.keys)
		}
	})

	t.Run("default channel", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(), SyncOptions{DefaultAPIKey: "key"})

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.ChannelID != shared.DefaultChannelID {
			t.Errorf("expected default channel %s, got %s", shared.DefaultChannelID, result.ChannelID)
		}
	})

	t.Run("fatal errors abort", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
		}{
			{"channel not found", fmt.Errorf("%w: UCabc", shared.ErrChannelNotFound)},
			{"invalid key", fmt.Errorf("%w: API key not valid", shared.ErrInvalidCredentials)},
			{"quota", fmt.Errorf("%w: quota", shared.ErrQuotaExceeded)},
			{"remote", &services.RemoteError{StatusCode: 500, Message: "backend error"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fetcher := tu.NewMockFetcher(tu.Items("a", 5))
				fetcher.ResolveErr = tt.err
				f := newFixture(t, fetcher, SyncOptions{DefaultAPIKey: "key"})

				result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
				if !errors.Is(err, tt.err) {
					t.Fatalf("expected %v, got %v", tt.err, err)
				}
				if result != nil {
					t.Errorf("expected nil result, got %+v", result)
				}
			})
		}
	})

	t.Run("fatal error mid-run keeps inserted records", func(t *testing.T) {
		fetcher := tu.NewMockFetcher(tu.Items("a", 50), tu.Items("b", 50))
		fetcher.PageErrs = map[int]error{1: fmt.Errorf("%w: daily limit", shared.ErrQuotaExceeded)}
		f := newFixture(t, fetcher, SyncOptions{DefaultAPIKey: "key"})

		_, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
		if n := len(f.store.Videos()); n != 50 {
			t.Errorf("expected first page to stay inserted, got %d videos", n)
		}
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		defer cancel()

		fetcher := &cancellingFetcher{
			MockFetcher: tu.NewMockFetcher(tu.Items("a", 50), tu.Items("b", 50)),
			cancel:      cancel,
			cancelAt:    "1",
		}
		f := newFixture(t, fetcher, SyncOptions{DefaultAPIKey: "key"})

		result, err := f.engine.Sync(cctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Interrupted {
			t.Error("expected interrupted result")
		}
		if result.Added != 50 {
			t.Errorf("expected 50 added before cancellation, got %d", result.Added)
		}
		if !strings.HasPrefix(result.Message(), "Sync interrupted.") {
			t.Errorf("unexpected message %q", result.Message())
		}
	})

	t.Run("timeout returns partial result", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 5)), SyncOptions{DefaultAPIKey: "key", Timeout: time.Nanosecond})

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Interrupted || result.Added != 0 {
			t.Errorf("expected interrupted empty result, got %+v", result)
		}
	})

	t.Run("request pacing past the timeout returns partial result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch {
			case strings.HasSuffix(r.URL.Path, "/channels"):
				fmt.Fprint(w, `{"items":[{"contentDetails":{"relatedPlaylists":{"uploads":"UU123"}}}]}`)
			case strings.HasSuffix(r.URL.Path, "/playlistItems"):
				fmt.Fprint(w, `{"nextPageToken":"p1","items":[{"snippet":{"title":"Hysteria - Def Leppard","resourceId":{"videoId":"abc"}}}]}`)
			default:
				http.NotFound(w, r)
			}
		}))
		t.Cleanup(server.Close)

		svc, err := services.NewYouTubeService(ctx, "key", services.YouTubeOptions{Endpoint: server.URL, RequestsPerSecond: 1})
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		f := newFixture(t, svc, SyncOptions{DefaultAPIKey: "key", Timeout: 300 * time.Millisecond})

		result, err := f.engine.Sync(ctx, SyncRequest{}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.Interrupted {
			t.Errorf("expected interrupted result, got %+v", result)
		}
		if len(result.Errors) != 0 {
			t.Errorf("expected no item errors, got %v", result.Errors)
		}
	})

	t.Run("busy channel is rejected", func(t *testing.T) {
		locker := NewChannelLocker("")
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 5)), SyncOptions{DefaultAPIKey: "key", Locker: locker})

		unlock, err := locker.TryLock("UCabc")
		if err != nil {
			t.Fatalf("failed to lock: %v", err)
		}

		_, err = f.engine.Sync(ctx, SyncRequest{ChannelID: "UCabc"}, nil)
		if !errors.Is(err, shared.ErrSyncInProgress) {
			t.Fatalf("expected ErrSyncInProgress, got %v", err)
		}
		if f.store.Writes != 0 {
			t.Errorf("expected zero writes, got %d", f.store.Writes)
		}

		unlock()
		if _, err := f.engine.Sync(ctx, SyncRequest{ChannelID: "UCabc"}, nil); err != nil {
			t.Errorf("expected sync after unlock to succeed, got %v", err)
		}
	})

	t.Run("releases lock after run", func(t *testing.T) {
		locker := NewChannelLocker("")
		fetcher := tu.NewMockFetcher()
		fetcher.ResolveErr = shared.ErrChannelNotFound
		f := newFixture(t, fetcher, SyncOptions{DefaultAPIKey: "key", Locker: locker})

		if _, err := f.engine.Sync(ctx, SyncRequest{ChannelID: "UCabc"}, nil); err == nil {
			t.Fatal("expected error")
		}

		unlock, err := locker.TryLock("UCabc")
		if err != nil {
			t.Fatalf("expected lock to be released, got %v", err)
		}
		unlock()
	})

	t.Run("progress updates", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 3)), SyncOptions{DefaultAPIKey: "key"})
		progress := make(chan ProgressUpdate, 32)

		if _, err := f.engine.Sync(ctx, SyncRequest{}, progress); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		var phases []Phase
		for u := range progress {
			phases = append(phases, u.Phase)
		}

		want := []Phase{ResolveChannel, FetchPage, ProcessItem, ProcessItem, ProcessItem, Complete}
		if len(phases) != len(want) {
			t.Fatalf("expected phases %v, got %v", want, phases)
		}
		for i := range want {
			if phases[i] != want[i] {
				t.Errorf("update %d: expected %s, got %s", i, want[i], phases[i])
			}
		}
	})

	t.Run("progress never blocks", func(t *testing.T) {
		f := newFixture(t, tu.NewMockFetcher(tu.Items("a", 20)), SyncOptions{DefaultAPIKey: "key"})
		progress := make(chan ProgressUpdate)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := f.engine.Sync(ctx, SyncRequest{}, progress); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("sync blocked on an unread progress channel")
		}
	})
}

func TestPhaseString(t *testing.T) {
	tests := map[Phase]string{
		ResolveChannel: "resolve_channel",
		FetchPage:      "fetch_page",
		ProcessItem:    "process_item",
		Complete:       "complete",
		Phase(99):      "",
	}
	for p, want := range tests {
		if got := p.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", p, got, want)
		}
	}
}
