package store

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// LangChainCollection adapts a langchaingo vector store (Chroma, pgvector,
// Weaviate, ...) to the Collection interface. The underlying store owns
// embedding and persistence; this adapter only normalizes shapes.
//
// Limitations inherited from the langchaingo interface: there is no count
// operation (Count returns ErrCountUnavailable), no fetch-by-ID (Get is
// unsupported), and upsert-on-duplicate-ID depends on the specific backend's
// semantics rather than being guaranteed here.
type LangChainCollection struct {
	name  string
	store vectorstores.VectorStore
}

var _ Collection = (*LangChainCollection)(nil)

// NewLangChainCollection wraps a langchaingo vector store.
func NewLangChainCollection(name string, store vectorstores.VectorStore) *LangChainCollection {
	return &LangChainCollection{
		name:  name,
		store: store,
	}
}

// Query runs one similarity search per query text.
func (c *LangChainCollection) Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error) {
	result := &QueryResult{
		IDs:       make([][]string, len(queryTexts)),
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		Distances: make([][]float64, len(queryTexts)),
	}

	for qi, query := range queryTexts {
		docs, err := c.store.SimilaritySearch(ctx, query, nResults)
		if err != nil {
			return nil, fmt.Errorf("similarity search failed for collection %s: %w", c.name, err)
		}

		ids := make([]string, len(docs))
		documents := make([]string, len(docs))
		metadatas := make([]map[string]any, len(docs))
		distances := make([]float64, len(docs))

		for i, doc := range docs {
			documents[i] = doc.PageContent
			metadatas[i] = doc.Metadata
			distances[i] = 1 - float64(doc.Score)
			if id, ok := doc.Metadata["id"].(string); ok {
				ids[i] = id
			}
		}

		result.IDs[qi] = ids
		result.Documents[qi] = documents
		result.Metadatas[qi] = metadatas
		result.Distances[qi] = distances
	}

	return result, nil
}

// Upsert adds documents to the underlying store. The document ID is carried
// in the metadata under "id"; whether re-adding an existing ID overwrites or
// duplicates is decided by the backend.
func (c *LangChainCollection) Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) {
		return fmt.Errorf("ids and documents must have the same length, got %d and %d", len(ids), len(documents))
	}

	docs := make([]schema.Document, len(documents))
	for i, content := range documents {
		metadata := make(map[string]any)
		if i < len(metadatas) && metadatas[i] != nil {
			maps.Copy(metadata, metadatas[i])
		}
		metadata["id"] = ids[i]
		docs[i] = schema.Document{
			PageContent: content,
			Metadata:    metadata,
		}
	}

	if _, err := c.store.AddDocuments(ctx, docs); err != nil {
		return fmt.Errorf("failed to add documents to collection %s: %w", c.name, err)
	}
	return nil
}

// Count is not supported by the langchaingo vector store interface.
func (c *LangChainCollection) Count(ctx context.Context) (int, error) {
	return -1, ErrCountUnavailable
}

// Get is not supported by the langchaingo vector store interface.
func (c *LangChainCollection) Get(ctx context.Context, ids []string) (*GetResult, error) {
	return nil, fmt.Errorf("get by id: %w", errors.ErrUnsupported)
}
