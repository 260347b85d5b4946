package ui

import (
	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/tasks"
)

// catalogLoadedMsg carries the first page of the catalog.
type catalogLoadedMsg struct {
	videos []*models.Video
	total  int
	err    error
}

// progressUpdateMsg wraps a [tasks.ProgressUpdate] received during a sync.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg is delivered once the progress channel closes.
type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}
