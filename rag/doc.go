// Package rag implements the retrieval-augmented question-answering
// workflow: a three-node graph that logs the query, retrieves the most
// similar documents from a vector store and generates an answer grounded
// in them, with per-stage timings recorded on the shared state.
package rag
