// Package repositories implements SQLite persistence for catalog entities.
//
// Key Implementations:
//   - [VideoRepository] : video catalog with URL-keyed lookups, paged search and stats
//
// Sequence numbers provide stable insertion ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function increments per-table counters in dedicated sequence tables and is
// called inside the insert transaction, so a rejected insert leaves the counter untouched.
package repositories
