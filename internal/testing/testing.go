// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/services"
	"github.com/desertthunder/dadrock/internal/shared"
)

// MockFetcher is a test double for [services.PageFetcher] serving fixed pages.
//
// Pages are chained with cursors "1", "2", ... in order.
type MockFetcher struct {
	Pages      [][]services.CatalogItem
	ResolveErr error         // Returned by UploadsPlaylistID
	PageErrs   map[int]error // Returned by FetchPage for the page index

	mu    sync.Mutex
	calls int
}

// NewMockFetcher creates a fetcher serving pages.
func NewMockFetcher(pages ...[]services.CatalogItem) *MockFetcher {
	return &MockFetcher{Pages: pages}
}

func (m *MockFetcher) UploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.ResolveErr != nil {
		return "", m.ResolveErr
	}
	return "UU" + channelID, nil
}

func (m *MockFetcher) FetchPage(ctx context.Context, playlistID, cursor string) (*services.UploadsPage, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	idx := 0
	if cursor != "" {
		if _, err := fmt.Sscanf(cursor, "%d", &idx); err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
	}

	if err := m.PageErrs[idx]; err != nil {
		return nil, err
	}
	if idx >= len(m.Pages) {
		return &services.UploadsPage{}, nil
	}

	page := &services.UploadsPage{Items: m.Pages[idx]}
	if idx+1 < len(m.Pages) {
		page.NextCursor = fmt.Sprint(idx + 1)
	}
	return page, nil
}

// Calls returns the number of remote calls made.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Items builds n catalog items with video ids prefix000, prefix001, ...
func Items(prefix string, n int) []services.CatalogItem {
	items := make([]services.CatalogItem, n)
	for i := range n {
		id := fmt.Sprintf("%s%03d", prefix, i)
		items[i] = services.CatalogItem{
			VideoID: id,
			Title:   fmt.Sprintf("Song %s - Band %s Guitar Lesson", id, prefix),
			URL:     shared.WatchURL(id),
		}
	}
	return items
}

// MockStore is an in-memory test double for [models.VideoStore].
type MockStore struct {
	mu        sync.Mutex
	videos    []*models.Video
	byURL     map[string]*models.Video
	FailOn    map[string]error // Create fails with the error for the URL
	LookupErr error            // ExistsByURL fails with this error
	Writes    int              // Create calls, successful or not
}

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	return &MockStore{byURL: make(map[string]*models.Video), FailOn: make(map[string]error)}
}

func (m *MockStore) FindByURL(ctx context.Context, url string) (*models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.byURL[url]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (m *MockStore) ExistsByURL(ctx context.Context, url string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupErr != nil {
		return false, m.LookupErr
	}
	_, ok := m.byURL[url]
	return ok, nil
}

func (m *MockStore) Create(ctx context.Context, video *models.Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Writes++
	if err := m.FailOn[video.YouTubeURL()]; err != nil {
		return err
	}
	if _, ok := m.byURL[video.YouTubeURL()]; ok {
		return fmt.Errorf("%w: %s", shared.ErrAlreadyExists, video.YouTubeURL())
	}
	if err := video.Validate(); err != nil {
		return err
	}

	video.SetSequence(len(m.videos) + 1)
	m.videos = append(m.videos, video)
	m.byURL[video.YouTubeURL()] = video
	return nil
}

// Videos returns the stored videos in insertion order.
func (m *MockStore) Videos() []*models.Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.Video(nil), m.videos...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
