// Package cache implements the in-memory TTL store that sits between the
// data access facade and its two slow upstreams.
//
// Entries hold JSON-encoded values with a per-entry TTL, access metadata,
// and tags for group invalidation. Expiry is enforced lazily on read and by
// a periodic background sweep; capacity is enforced by an eviction pass
// (LRU, LFU, FIFO, or expired-only) that runs before an insert when the
// store is full. All operations are safe for concurrent use.
package cache
