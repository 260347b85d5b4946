package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/dadrock/internal/models"
	"github.com/desertthunder/dadrock/internal/tasks"
)

// RenderSyncResult formats a finished sync run for the terminal.
func RenderSyncResult(r *tasks.SyncResult) string {
	var b strings.Builder

	if r.Interrupted {
		b.WriteString(styles.warning.Render("Sync interrupted"))
	} else {
		b.WriteString(styles.success.Render("✓ Sync complete"))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s%s\n", styles.label.Render("Channel"), r.ChannelID)
	fmt.Fprintf(&b, "%s%d\n", styles.label.Render("Added"), r.Added)
	fmt.Fprintf(&b, "%s%d\n", styles.label.Render("Already stored"), r.Skipped)
	fmt.Fprintf(&b, "%s%d\n", styles.label.Render("Failed"), len(r.Errors))

	writeErrors(&b, r.Errors)
	return b.String()
}

// RenderImportResult formats a finished CSV import for the terminal.
func RenderImportResult(r *tasks.ImportResult) string {
	var b strings.Builder

	b.WriteString(styles.success.Render(r.Message()))
	b.WriteString("\n")

	writeErrors(&b, r.Errors)
	return b.String()
}

// RenderStats formats catalog counts.
func RenderStats(s *models.CatalogStats) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("DadRock Tabs Catalog"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s%d\n", styles.label.Render("Videos"), s.TotalVideos)
	fmt.Fprintf(&b, "%s%d\n", styles.label.Render("Artists"), s.TotalArtists)
	return b.String()
}

// RenderVideos formats one page of a catalog listing starting at position skip+1.
func RenderVideos(videos []*models.Video, total, skip int) string {
	var b strings.Builder

	if len(videos) == 0 {
		b.WriteString(styles.muted.Render("No videos found"))
		b.WriteString("\n")
		return b.String()
	}

	for i, v := range videos {
		fmt.Fprintf(&b, "%4d. %s - %s\n", skip+i+1, v.Artist(), v.Song())
		fmt.Fprintf(&b, "      %s\n", styles.muted.Render(v.YouTubeURL()))
	}

	b.WriteString("\n")
	b.WriteString(styles.muted.Render(fmt.Sprintf("Showing %d-%d of %d", skip+1, skip+len(videos), total)))
	b.WriteString("\n")
	return b.String()
}

// RenderProgress formats a progress update as a single line.
func RenderProgress(u tasks.ProgressUpdate) string {
	switch u.Phase {
	case tasks.ResolveChannel, tasks.FetchPage:
		return styles.muted.Render(u.Message)
	case tasks.Complete:
		return styles.success.Render(u.Message)
	default:
		return u.Message
	}
}

func writeErrors(b *strings.Builder, errs []string) {
	if len(errs) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString(styles.warning.Render(fmt.Sprintf("%d errors:", len(errs))))
	for _, e := range errs {
		fmt.Fprintf(b, "\n  • %s", e)
	}
	b.WriteString("\n")
}
