// Package knowledge implements the document store and retriever backing
// the answer loop.
//
// A [Store] wraps one named collection of documents in PostgreSQL/pgvector.
// The collection must be initialized with [Store.EnsureCollection] before
// ingestion or retrieval; a freshly created collection triggers a one-time
// bulk ingestion of the configured knowledge directory.
//
// Ingestion is idempotent by document ID (the source filename). Content
// changes to an already-ingested file are not detected or re-indexed; this
// is a documented limitation, not a bug.
//
// Concurrent ingestion into the same collection is not synchronized.
// Callers that expect concurrent writers must serialize access themselves.
package knowledge
