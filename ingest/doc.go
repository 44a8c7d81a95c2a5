// Package ingest writes documents into a vector store collection through a
// single-node graph. Files load one-per-document with plain text, markdown
// and HTML support; re-ingesting an ID overwrites rather than duplicates.
package ingest
