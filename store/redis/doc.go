// Package redis provides a store.Collection backed by Redis. Documents and
// their embeddings are stored as JSON values keyed by ID with a set per
// collection as the index; similarity ranking happens client-side.
package redis
