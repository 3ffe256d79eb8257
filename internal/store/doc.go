// Package store provides SQLite-backed durable storage for baked clips.
//
// The store is an append-only log of bakes:
//   - Bakes: one row per distinct baked clip, keyed by its content ID
//   - Curves: the clip's bindings, in output order
//   - Keys: every keyframe of every keyed curve
//   - Bake logs: the merge log entries recorded with the bake
//
// # Patterns
//
// Content idempotency: writing a clip whose ID is already stored is a no-op,
// so re-baking identical input leaves exactly one row. The first writer's
// run ID and name are kept.
//
// Logical ordering: every list query orders by seq ASC, id ASC COLLATE
// BINARY. seq is assigned at insert time and never derived from wall time.
//
// Integrity: ReadBake recomputes the clip ID from the stored curves and
// fails if it no longer matches.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
