package tasks

import (
	"fmt"

	"github.com/desertthunder/dadrock/internal/services"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI or server log for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ResolveChannel Phase = iota
	FetchPage
	ProcessItem
	Complete
)

func (p Phase) String() string {
	switch p {
	case ResolveChannel:
		return "resolve_channel"
	case FetchPage:
		return "fetch_page"
	case ProcessItem:
		return "process_item"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func resolveChannelUpdate(channelID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveChannel,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Resolving uploads for channel %s...", channelID),
	}
}

func fetchPageUpdate(page int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Message: fmt.Sprintf("Fetching uploads page %d...", page),
	}
}

func processItemUpdate(step int, item services.CatalogItem, o outcome) ProgressUpdate {
	var mark string
	switch o.kind {
	case outcomeAdded:
		mark = "+"
	case outcomeSkipped:
		mark = "="
	default:
		mark = "✗"
	}
	return ProgressUpdate{
		Phase:   ProcessItem,
		Step:    step,
		Message: fmt.Sprintf("[%d] %s %s", step, mark, item.Title),
		Data:    item,
	}
}

func completeUpdate(result *SyncResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    result.Processed(),
		Total:   result.Processed(),
		Message: result.Message(),
		Data:    result,
	}
}
