package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/log"
	"github.com/smallnest/researchagent/store"
)

// NodeIngest is the single node of the ingestion workflow.
const NodeIngest = "ingest"

// Document is one unit of ingestable content. ID and Metadata are optional;
// missing values are filled in before the write.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// State carries the documents through the ingestion run.
type State struct {
	Documents []Document

	Ingested int
	Elapsed  time.Duration
}

// Summary is the terminal result of an ingestion run.
type Summary struct {
	// Ingested is the number of documents written.
	Ingested int
	// Elapsed is the wall-clock time of the store write.
	Elapsed time.Duration
}

// Workflow writes documents into a collection through a one-node graph.
type Workflow struct {
	collection store.Collection
	logger     log.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow's logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkflow creates an ingestion workflow over the given collection.
func NewWorkflow(collection store.Collection, opts ...Option) *Workflow {
	w := &Workflow{
		collection: collection,
		logger:     log.NewDefaultLogger(log.LevelInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Graph builds the one-node ingestion graph.
func (w *Workflow) Graph() *graph.Graph {
	g := graph.New()
	g.AddNode(NodeIngest, "write documents into the collection", w.ingestNode)
	g.SetEntryPoint(NodeIngest)
	return g
}

// ingestNode fills in missing IDs and metadata, upserts every document and
// terminates with a Summary. Re-ingesting an existing ID overwrites it.
func (w *Workflow) ingestNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)

	ids := make([]string, len(st.Documents))
	contents := make([]string, len(st.Documents))
	metadatas := make([]map[string]any, len(st.Documents))
	for i, doc := range st.Documents {
		ids[i] = doc.ID
		if ids[i] == "" {
			ids[i] = defaultID(i, doc.Metadata)
		}
		contents[i] = doc.Content
		metadatas[i] = doc.Metadata
	}

	start := time.Now()
	if err := w.collection.Upsert(ctx, ids, contents, metadatas); err != nil {
		return graph.Step{}, fmt.Errorf("failed to ingest documents: %w", err)
	}
	st.Elapsed = time.Since(start)
	st.Ingested = len(st.Documents)

	w.logger.Info("ingested %d documents in %v", st.Ingested, st.Elapsed)
	return graph.Done(Summary{Ingested: st.Ingested, Elapsed: st.Elapsed}), nil
}

// defaultID derives a stable ID from the document's position and, when
// known, its filename.
func defaultID(i int, metadata map[string]any) string {
	if filename, ok := metadata["filename"].(string); ok && filename != "" {
		return fmt.Sprintf("doc_%d_%s", i, filename)
	}
	return fmt.Sprintf("doc_%d", i)
}

// Run ingests the given documents into the collection.
func Run(ctx context.Context, collection store.Collection, docs []Document, opts ...Option) (*Summary, error) {
	workflow := NewWorkflow(collection, opts...)
	runnable, err := workflow.Graph().Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow: %w", err)
	}

	state := &State{Documents: docs}
	result, err := runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("ingestion failed: %w", err)
	}

	summary, ok := result.Output.(Summary)
	if !ok {
		return nil, fmt.Errorf("workflow produced a %T instead of a summary", result.Output)
	}
	return &summary, nil
}

// RunDirectory loads every supported file under dir, one file per document,
// and ingests the lot.
func RunDirectory(ctx context.Context, collection store.Collection, dir string, opts ...Option) (*Summary, error) {
	docs, err := LoadDirectory(dir)
	if err != nil {
		return nil, err
	}
	return Run(ctx, collection, docs, opts...)
}
