// Package postgres provides a store.Collection backed by PostgreSQL via
// pgx. Embeddings are stored as JSONB alongside content and metadata;
// similarity ranking happens client-side.
package postgres
