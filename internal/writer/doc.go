// Package writer implements the batching database writers.
//
// Each writer consumes records from a bounded channel, accumulates a batch,
// and flushes on size or interval using pgx.Batch with ON CONFLICT DO
// NOTHING, so replayed frames after a stream reconnect do not duplicate rows.
package writer
