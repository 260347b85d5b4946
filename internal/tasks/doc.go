// Package tasks keeps the catalog in step with a YouTube channel's uploads, with real-time progress reporting.
//
// # Sync Run
//
// [SyncEngine.Sync] performs one run:
//
//  1. Resolve the channel (request value or configured default)
//  2. Resolve the API key (request override or configured default); none is [shared.ErrMissingCredentials]
//  3. Acquire the per-channel lock from [ChannelLocker]; busy is [shared.ErrSyncInProgress]
//  4. Walk [services.ChannelUploads] in listing order, folding one outcome per item:
//     - already stored (per [DedupFilter]) : skipped
//     - inserted : added
//     - insert lost a UNIQUE race ([shared.ErrAlreadyExists]) : skipped
//     - any other lookup or insert failure : recorded in [SyncResult.Errors], run continues
//
// Remote failures (channel not found, invalid key, quota, other remote errors) abort the run with no result.
// There is no rollback: re-running a sync is the recovery mechanism and is idempotent through the dedup check.
//
// # Cancellation
//
// Each run is bounded by the configured timeout. Cancellation or timeout stops page fetching and
// returns the result accumulated so far with [SyncResult.Interrupted] set.
//
// # Progress Reporting
//
// Progress is sent on an optional channel with select/default so reporting never blocks a run.
// Phases are [ResolveChannel], [FetchPage], [ProcessItem] and [Complete].
package tasks
