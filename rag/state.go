package rag

import "time"

// RetrievedDocument is one chunk of context returned by the vector store.
type RetrievedDocument struct {
	Content  string
	Metadata map[string]any
}

// State carries the question through the workflow and accumulates each
// node's results. One State value is threaded, by pointer, through every
// node of a run.
type State struct {
	// Query is the user's question. Set before the run starts and never
	// modified by the workflow.
	Query string

	// RetrievedDocuments and Sources are filled by the retrieve node.
	// Sources holds one origin per retrieved document, in rank order.
	RetrievedDocuments []RetrievedDocument
	Sources            []string

	// Answer is filled by the answer node.
	Answer string

	// Per-stage and total wall-clock timings.
	RetrievalTime  time.Duration
	GenerationTime time.Duration
	TotalTime      time.Duration
}
