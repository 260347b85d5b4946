// package shared defines shared helpers
package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] appending to the file at path, creating parent directories as needed.
//
// Used when stderr belongs to a full-screen terminal UI.
func NewFileLogger(path string) (*log.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f), nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// WatchURL returns the canonical playable URL for a YouTube video ID.
//
// The result is the catalog's dedup key, so every producer must go through here.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// ThumbnailURL derives a medium quality thumbnail URL from a YouTube video URL.
//
// Recognizes watch?v=, youtu.be/ and embed/ forms. Returns "" for anything else.
func ThumbnailURL(videoURL string) string {
	var id string
	switch {
	case strings.Contains(videoURL, "youtube.com/watch?v="):
		_, rest, _ := strings.Cut(videoURL, "v=")
		id, _, _ = strings.Cut(rest, "&")
	case strings.Contains(videoURL, "youtu.be/"):
		_, rest, _ := strings.Cut(videoURL, "youtu.be/")
		id, _, _ = strings.Cut(rest, "?")
	case strings.Contains(videoURL, "youtube.com/embed/"):
		_, rest, _ := strings.Cut(videoURL, "embed/")
		id, _, _ = strings.Cut(rest, "?")
	}

	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/mqdefault.jpg"
}
