// Package ui renders catalog and sync output for the terminal.
//
// Plain command output uses the lipgloss [Palette] via [RenderSyncResult], [RenderImportResult],
// [RenderStats] and [RenderVideos].
//
// The interactive browser ([Model], started with [Run]) follows bubbletea's Init/Update/View pattern:
//  1. [CatalogView] : Browse and filter stored videos
//  2. [ConfirmView] : Confirm a channel sync
//  3. [SyncView] : Monitor progress updates while the sync runs
//  4. [ResultView] : Display added, skipped and failed counts
//
// Progress flows through a channel from the sync engine. The engine never blocks on a slow reader,
// so the view may skip intermediate updates.
package ui
