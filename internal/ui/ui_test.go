package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/tasks"
)

type stubCatalog struct {
	videos []*models.Video
	err    error
}

func (s *stubCatalog) List(ctx context.Context, q models.VideoQuery) ([]*models.Video, int, error) {
	return s.videos, len(s.videos), s.err
}

type stubSyncer struct {
	updates []tasks.ProgressUpdate
	result  *tasks.SyncResult
	err     error
	req     tasks.SyncRequest
}

func (s *stubSyncer) Sync(ctx context.Context, req tasks.SyncRequest, progress chan<- tasks.ProgressUpdate) (*tasks.SyncResult, error) {
	s.req = req
	for _, u := range s.updates {
		progress <- u
	}
	return s.result, s.err
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// drain runs cmd and feeds its messages back into m until the sync completes.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()

	for range 100 {
		if cmd == nil {
			return
		}
		msg := cmd()
		_, cmd = m.Update(msg)
		if _, done := msg.(syncCompleteMsg); done {
			return
		}
	}
	t.Fatal("sync did not complete")
}

func sampleVideos() []*models.Video {
	return []*models.Video{
		models.NewVideo("Hysteria", "Def Leppard", "https://www.youtube.com/watch?v=abc", ""),
		models.NewVideo("Kashmir", "Led Zeppelin", "https://www.youtube.com/watch?v=def", ""),
	}
}

func TestModel(t *testing.T) {
	t.Run("loads catalog", func(t *testing.T) {
		m := NewModel(context.Background(), &stubCatalog{videos: sampleVideos()}, &stubSyncer{}, "")

		m.Update(m.Init()())

		if m.total != 2 || len(m.videoList.Items()) != 2 {
			t.Errorf("expected 2 videos, got total %d items %d", m.total, len(m.videoList.Items()))
		}
		if m.view != CatalogView {
			t.Errorf("expected CatalogView, got %v", m.view)
		}
	})

	t.Run("load error is shown", func(t *testing.T) {
		m := NewModel(context.Background(), &stubCatalog{err: errors.New("db gone")}, &stubSyncer{}, "")

		m.Update(m.Init()())

		if !strings.Contains(m.View(), "db gone") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("confirm then sync", func(t *testing.T) {
		syncer := &stubSyncer{
			updates: []tasks.ProgressUpdate{
				{Phase: tasks.FetchPage, Step: 1, Message: "Fetching uploads page 1..."},
				{Phase: tasks.ProcessItem, Step: 1, Message: "[1] + Song"},
			},
			result: &tasks.SyncResult{ChannelID: "UCabc", Added: 1, Errors: []string{}},
		}
		m := NewModel(context.Background(), &stubCatalog{}, syncer, "UCabc")

		m.Update(keyPress('s'))
		if m.view != ConfirmView {
			t.Fatalf("expected ConfirmView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "UCabc") {
			t.Errorf("confirm view should name the channel")
		}

		_, cmd := m.Update(keyPress('y'))
		if m.view != SyncView {
			t.Fatalf("expected SyncView, got %v", m.view)
		}

		drain(t, m, cmd)

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		if m.result == nil || m.result.Added != 1 {
			t.Errorf("unexpected result %+v", m.result)
		}
		if syncer.req.ChannelID != "UCabc" {
			t.Errorf("expected channel UCabc, got %q", syncer.req.ChannelID)
		}
		if !strings.Contains(m.View(), "Sync complete") {
			t.Errorf("expected completion in view, got %q", m.View())
		}
	})

	t.Run("declining returns to catalog", func(t *testing.T) {
		m := NewModel(context.Background(), &stubCatalog{}, &stubSyncer{}, "")

		m.Update(keyPress('s'))
		m.Update(keyPress('n'))

		if m.view != CatalogView {
			t.Errorf("expected CatalogView, got %v", m.view)
		}
	})

	t.Run("sync failure", func(t *testing.T) {
		syncer := &stubSyncer{err: errors.New("quota")}
		m := NewModel(context.Background(), &stubCatalog{}, syncer, "")

		m.Update(keyPress('s'))
		_, cmd := m.Update(keyPress('y'))
		drain(t, m, cmd)

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "Sync failed: quota") {
			t.Errorf("expected failure in view, got %q", m.View())
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("RenderSyncResult", func(t *testing.T) {
		out := RenderSyncResult(&tasks.SyncResult{
			ChannelID: "UCabc",
			Added:     3,
			Skipped:   2,
			Errors:    []string{"Failed to add 'X': boom"},
		})

		for _, want := range []string{"UCabc", "3", "2", "1 errors:", "Failed to add 'X': boom"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("RenderSyncResult interrupted", func(t *testing.T) {
		out := RenderSyncResult(&tasks.SyncResult{Interrupted: true})
		if !strings.Contains(out, "Sync interrupted") {
			t.Errorf("expected interrupted banner, got %q", out)
		}
	})

	t.Run("RenderImportResult", func(t *testing.T) {
		out := RenderImportResult(&tasks.ImportResult{Added: 4, Errors: []string{"Row 3: Missing required fields"}})
		if !strings.Contains(out, "Import completed. 4 videos added.") || !strings.Contains(out, "Row 3") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("RenderStats", func(t *testing.T) {
		out := RenderStats(&models.CatalogStats{TotalVideos: 12, TotalArtists: 5})
		if !strings.Contains(out, "12") || !strings.Contains(out, "5") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("RenderVideos", func(t *testing.T) {
		out := RenderVideos(sampleVideos(), 10, 4)
		if !strings.Contains(out, "5. Def Leppard - Hysteria") {
			t.Errorf("expected numbering from skip, got %q", out)
		}
		if !strings.Contains(out, "Showing 5-6 of 10") {
			t.Errorf("expected range footer, got %q", out)
		}

		if out := RenderVideos(nil, 0, 0); !strings.Contains(out, "No videos found") {
			t.Errorf("expected empty message, got %q", out)
		}
	})
}
