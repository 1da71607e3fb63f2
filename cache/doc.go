// Package cache implements the read-through Redis identity cache that
// sits in front of the durable credential store. Entries are JSON
// snapshots of a principal keyed by email with an absolute TTL.
//
// The cache is an optimization, not a cache-of-record: the store stays
// authoritative, negative lookups are never cached, and entries are not
// invalidated when a principal is mutated. A stale snapshot may therefore
// be served until its TTL lapses; callers that cannot tolerate that
// window use Forget after mutating.
package cache
