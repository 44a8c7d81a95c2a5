package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/log"
	"github.com/smallnest/researchagent/model"
	"github.com/smallnest/researchagent/store"
)

// Node names of the question-answering workflow.
const (
	NodeQuery    = "query"
	NodeRetrieve = "retrieve"
	NodeAnswer   = "answer"
)

// DefaultTopK is the number of documents requested from the store.
const DefaultTopK = 5

// Workflow is the three-stage question-answering pipeline: log the query,
// retrieve the most similar documents, generate an answer grounded in them.
type Workflow struct {
	collection store.Collection
	model      model.Model
	topK       int
	logger     log.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithTopK overrides the number of documents retrieved per query.
func WithTopK(k int) Option {
	return func(w *Workflow) {
		if k > 0 {
			w.topK = k
		}
	}
}

// WithLogger sets the workflow's logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkflow creates a Workflow over the given collection and model.
func NewWorkflow(collection store.Collection, m model.Model, opts ...Option) *Workflow {
	w := &Workflow{
		collection: collection,
		model:      m,
		topK:       DefaultTopK,
		logger:     log.NewDefaultLogger(log.LevelInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Graph builds the workflow's node graph. Each call returns a fresh Graph;
// the compiled Runnable is stateless and may be reused across runs.
func (w *Workflow) Graph() *graph.Graph {
	g := graph.New()
	g.AddNode(NodeQuery, "log the incoming question", w.queryNode)
	g.AddNode(NodeRetrieve, "fetch similar documents from the store", w.retrieveNode)
	g.AddNode(NodeAnswer, "generate an answer from the retrieved context", w.answerNode)
	g.SetEntryPoint(NodeQuery)
	return g
}

// queryNode logs the question and hands off to retrieval. The query itself
// passes through unchanged, empty strings included.
func (w *Workflow) queryNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)
	w.logger.Info("processing query: %s", st.Query)
	return graph.Continue(NodeRetrieve), nil
}

// retrieveNode asks the store for the top-K most similar documents and
// records them, their sources and the retrieval time on the state.
func (w *Workflow) retrieveNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)

	w.logger.Debug("retrieving up to %d documents for: %s", w.topK, st.Query)

	start := time.Now()
	result, err := w.collection.Query(ctx, []string{st.Query}, w.topK)
	st.RetrievalTime = time.Since(start)
	if err != nil {
		return graph.Step{}, &RetrievalError{Err: err}
	}
	if result == nil || len(result.Documents) == 0 || len(result.Metadatas) == 0 {
		return graph.Step{}, &RetrievalError{Err: fmt.Errorf("store returned no result set for the query")}
	}

	documents := result.Documents[0]
	metadatas := result.Metadatas[0]
	if len(metadatas) != len(documents) {
		return graph.Step{}, &RetrievalError{Err: fmt.Errorf("store returned %d documents but %d metadata records", len(documents), len(metadatas))}
	}

	st.RetrievedDocuments = make([]RetrievedDocument, len(documents))
	st.Sources = make([]string, len(documents))
	for i, doc := range documents {
		st.RetrievedDocuments[i] = RetrievedDocument{Content: doc, Metadata: metadatas[i]}
		st.Sources[i] = documentSource(metadatas[i])
	}

	w.logger.Info("retrieved %d documents in %v", len(documents), st.RetrievalTime)
	return graph.Continue(NodeAnswer), nil
}

// answerNode builds the grounded prompt, invokes the model and produces the
// terminal answer text with its source list appended.
func (w *Workflow) answerNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)

	prompt := BuildPrompt(st.Query, st.RetrievedDocuments, st.Sources)

	start := time.Now()
	result, err := w.model.Generate(ctx, prompt)
	st.GenerationTime = time.Since(start)
	if err != nil {
		return graph.Step{}, &GenerationError{Err: err}
	}

	st.Answer = result.Text
	w.logger.Info("generated answer of %d characters in %v", len(st.Answer), st.GenerationTime)

	text := st.Answer
	if len(st.Sources) > 0 {
		text += "\n\nSources: " + strings.Join(st.Sources, ", ")
	}
	return graph.Done(text), nil
}

// documentSource resolves a document's origin label from its metadata,
// preferring "source", then "filename", then "unknown".
func documentSource(metadata map[string]any) string {
	for _, key := range []string{"source", "filename"} {
		if v, ok := metadata[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "unknown"
}

// BuildPrompt renders the generation prompt: each document under a numbered
// heading naming its source, then the question, then the answering
// instructions. Identical inputs always produce identical text.
func BuildPrompt(query string, docs []RetrievedDocument, sources []string) string {
	var b strings.Builder

	b.WriteString("Based on the following information, please answer the question.\n\n")
	b.WriteString("CONTEXT:\n")
	if len(docs) == 0 {
		b.WriteString("No relevant documents found.\n")
	} else {
		for i, doc := range docs {
			source := "unknown"
			if i < len(sources) {
				source = sources[i]
			}
			fmt.Fprintf(&b, "Document %d (from %s):\n%s\n\n", i+1, source, doc.Content)
		}
	}

	b.WriteString("QUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\n")
	b.WriteString(`Answer the question based only on the provided context. If the context doesn't contain the information needed to answer the question, say "I don't have enough information to answer this question."`)
	b.WriteString("\n\nInclude citations to the relevant documents where appropriate.\n")

	return b.String()
}
