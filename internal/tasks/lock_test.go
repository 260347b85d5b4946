package tasks

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/shared"
	tu "github.com/desertthunder/dadrock/internal/testing"
)

func TestChannelLocker(t *testing.T) {
	t.Run("in-process", func(t *testing.T) {
		locker := NewChannelLocker("")

		unlock, err := locker.TryLock("UCabc")
		if err != nil {
			t.Fatalf("expected lock, got %v", err)
		}

		if _, err := locker.TryLock("UCabc"); !errors.Is(err, shared.ErrSyncInProgress) {
			t.Errorf("expected ErrSyncInProgress, got %v", err)
		}

		other, err := locker.TryLock("UCother")
		if err != nil {
			t.Errorf("different channel should not be blocked, got %v", err)
		} else {
			other()
		}

		unlock()
		unlock()

		again, err := locker.TryLock("UCabc")
		if err != nil {
			t.Fatalf("expected lock after release, got %v", err)
		}
		again()
	})

	t.Run("lock file excludes other lockers", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "locks")
		first := NewChannelLocker(dir)
		second := NewChannelLocker(dir)

		unlock, err := first.TryLock("UC/abc")
		if err != nil {
			t.Fatalf("expected lock, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "sync-UC_abc.lock"))

		if _, err := second.TryLock("UC/abc"); !errors.Is(err, shared.ErrSyncInProgress) {
			t.Errorf("expected ErrSyncInProgress from second locker, got %v", err)
		}

		unlock()

		release, err := second.TryLock("UC/abc")
		if err != nil {
			t.Fatalf("expected lock after release, got %v", err)
		}
		release()
	})
}

func TestDedupFilter(t *testing.T) {
	store := tu.NewMockStore()
	filter := NewDedupFilter(store)
	items := tu.Items("a", 1)

	exists, err := filter.Exists(t.Context(), items[0].URL)
	if err != nil || exists {
		t.Fatalf("expected missing item, got %v %v", exists, err)
	}

	video := models.NewVideo("Song", "Band", items[0].URL, "")
	video.SetID("v1")
	if err := store.Create(t.Context(), video); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	exists, err = filter.Exists(t.Context(), items[0].URL)
	if err != nil || !exists {
		t.Errorf("expected stored item, got %v %v", exists, err)
	}

	exists, _ = filter.Exists(t.Context(), items[0].URL+"&list=x")
	if exists {
		t.Error("lookup must use the exact URL")
	}
}
