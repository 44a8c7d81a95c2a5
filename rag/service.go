package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/model"
	"github.com/smallnest/researchagent/store"
)

// EmptyCollectionMessage is the fixed answer returned, without touching the
// model, when the collection is confirmed to hold zero documents.
const EmptyCollectionMessage = "Collection is empty. Please ingest documents first."

// Result is the outcome of one question-answering run.
type Result struct {
	// Answer is the final text, source list included.
	Answer string
	// Sources lists one origin per retrieved document, in rank order.
	Sources []string

	RetrievalTime  time.Duration
	GenerationTime time.Duration
	TotalTime      time.Duration

	// History records the nodes that executed, in order.
	History []graph.StepRecord
}

// Run answers a question against the collection. When the collection is
// known to be empty the model is never invoked and a fixed message comes
// back with zero timings; stores that cannot count proceed to retrieval.
func Run(ctx context.Context, query string, collection store.Collection, m model.Model, opts ...Option) (*Result, error) {
	count, err := collection.Count(ctx)
	switch {
	case errors.Is(err, store.ErrCountUnavailable):
		// Cannot confirm emptiness, run the workflow anyway.
	case err != nil:
		return nil, fmt.Errorf("failed to inspect collection: %w", err)
	case count == 0:
		return &Result{Answer: EmptyCollectionMessage}, nil
	}

	workflow := NewWorkflow(collection, m, opts...)
	runnable, err := workflow.Graph().Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow: %w", err)
	}

	state := &State{Query: query}

	start := time.Now()
	runResult, err := runnable.Invoke(ctx, state)
	state.TotalTime = time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("question answering failed: %w", err)
	}

	answer, ok := runResult.Output.(string)
	if !ok {
		return nil, fmt.Errorf("workflow produced a %T instead of an answer", runResult.Output)
	}

	return &Result{
		Answer:         answer,
		Sources:        state.Sources,
		RetrievalTime:  state.RetrievalTime,
		GenerationTime: state.GenerationTime,
		TotalTime:      state.TotalTime,
		History:        runResult.History,
	}, nil
}
