// Package ingestion turns tabular initiative exports into catalog records
// with embeddings.
//
// The Pipeline type manages the offline ingestion workflow:
//   - Reading rows from a BOM-tolerant CSV export
//   - Deduplicating against the existing catalog by campfire id
//   - Computing embeddings in fixed-size batches with a delay between
//     batches to respect upstream rate limits
//   - Persisting the merged catalog via the catalog store
//
// A failed batch aborts the remaining batches, but embeddings computed in
// prior batches are kept and persisted; partial progress is preserved, not
// discarded.
package ingestion
