package tasks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/desertthunder/dadrock/internal/shared"
	"github.com/gofrs/flock"
)

// ChannelLocker guarantees at most one in-flight sync per channel.
//
// Locks are always tracked in-process. When dir is set, each lock is also backed by a flock file
// so separate processes sharing dir (CLI and server) exclude each other.
type ChannelLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
	dir  string
}

// NewChannelLocker creates a locker; an empty dir keeps locking in-process only.
func NewChannelLocker(dir string) *ChannelLocker {
	return &ChannelLocker{held: make(map[string]struct{}), dir: dir}
}

// TryLock acquires the lock for channelID without waiting.
//
// Returns [shared.ErrSyncInProgress] when another sync holds it. The returned func releases the lock.
func (l *ChannelLocker) TryLock(channelID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[channelID]; busy {
		return nil, fmt.Errorf("%w: channel %s", shared.ErrSyncInProgress, channelID)
	}

	var fl *flock.Flock
	if l.dir != "" {
		if err := os.MkdirAll(l.dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create lock directory: %w", err)
		}

		fl = flock.New(l.lockPath(channelID))
		ok, err := fl.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: channel %s (locked by another process)", shared.ErrSyncInProgress, channelID)
		}
	}

	l.held[channelID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if fl != nil {
				_ = fl.Unlock()
			}
			delete(l.held, channelID)
		})
	}, nil
}

func (l *ChannelLocker) lockPath(channelID string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, channelID)
	return filepath.Join(l.dir, "sync-"+safe+".lock")
}
