package store

import (
	"context"
	"fmt"
	"sync"
)

// MemoryCollection is an in-memory Collection backed by cosine similarity
// over embeddings from the configured Embedder. Useful for tests and demos;
// nothing is persisted.
type MemoryCollection struct {
	mu       sync.RWMutex
	name     string
	embedder Embedder
	order    []string
	docs     map[string]Candidate
}

var _ Collection = (*MemoryCollection)(nil)

// NewMemoryCollection creates an empty in-memory collection. A nil embedder
// defaults to a HashEmbedder.
func NewMemoryCollection(name string, embedder Embedder) *MemoryCollection {
	if embedder == nil {
		embedder = NewHashEmbedder(64)
	}
	return &MemoryCollection{
		name:     name,
		embedder: embedder,
		docs:     make(map[string]Candidate),
	}
}

// Name returns the collection name.
func (c *MemoryCollection) Name() string {
	return c.name
}

// Upsert writes documents by ID, overwriting existing IDs in place.
func (c *MemoryCollection) Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) {
		return fmt.Errorf("ids and documents must have the same length, got %d and %d", len(ids), len(documents))
	}

	embeddings, err := c.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, id := range ids {
		var metadata map[string]any
		if i < len(metadatas) {
			metadata = metadatas[i]
		}
		if _, exists := c.docs[id]; !exists {
			c.order = append(c.order, id)
		}
		c.docs[id] = Candidate{
			ID:        id,
			Content:   documents[i],
			Metadata:  metadata,
			Embedding: embeddings[i],
		}
	}

	return nil
}

// Query returns the top nResults documents per query text by cosine similarity.
func (c *MemoryCollection) Query(ctx context.Context, queryTexts []string, nResults int) (*QueryResult, error) {
	queryEmbeddings, err := c.embedder.EmbedDocuments(ctx, queryTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed queries: %w", err)
	}

	c.mu.RLock()
	candidates := make([]Candidate, 0, len(c.order))
	for _, id := range c.order {
		candidates = append(candidates, c.docs[id])
	}
	c.mu.RUnlock()

	result := &QueryResult{
		IDs:       make([][]string, len(queryTexts)),
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		Distances: make([][]float64, len(queryTexts)),
	}

	for qi, queryEmbedding := range queryEmbeddings {
		ids, documents, metadatas, distances := RankCandidates(queryEmbedding, candidates, nResults)
		result.IDs[qi] = ids
		result.Documents[qi] = documents
		result.Metadatas[qi] = metadatas
		result.Distances[qi] = distances
	}

	return result, nil
}

// Count returns the number of stored documents.
func (c *MemoryCollection) Count(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs), nil
}

// Get fetches documents by ID, or everything when ids is empty.
func (c *MemoryCollection) Get(ctx context.Context, ids []string) (*GetResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(ids) == 0 {
		ids = c.order
	}

	result := &GetResult{}
	for _, id := range ids {
		doc, ok := c.docs[id]
		if !ok {
			continue
		}
		result.IDs = append(result.IDs, doc.ID)
		result.Documents = append(result.Documents, doc.Content)
		result.Metadatas = append(result.Metadatas, doc.Metadata)
	}

	return result, nil
}
