// Package audit keeps an append-only trail of engine decisions.
//
// The engine emits a Record when a prompt is ingested or clears a policy,
// for every provider tool call decision and when a final response is
// rewritten. Records are observability only: policies never read them back,
// and a restart still starts every conversation from scratch.
//
// Writes go through a Recorder that hands records to a background writer
// over a bounded channel. A full channel drops the record with a warning so
// the conversation path never waits on storage.
//
// Backends live in audit/storage (memory and SQLite); age-based pruning on a
// cron schedule lives in audit/retention.
package audit
