package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/researchagent/store"
)

// Collection is a store.Collection backed by Redis. Each document is stored
// as a JSON value under its own key; a set per collection indexes the IDs.
// Writing a key that already exists overwrites it, which gives upsert
// semantics for free.
type Collection struct {
	client   redis.UniversalClient
	name     string
	prefix   string
	embedder store.Embedder
}

var _ store.Collection = (*Collection)(nil)

// Options configuration for the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is the key prefix, default "researchagent:".
	Prefix string
	// Collection is the collection name.
	Collection string
	// Embedder computes embeddings; nil defaults to a HashEmbedder.
	Embedder store.Embedder
}

// New creates a Redis-backed collection.
func New(opts Options) *Collection {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return NewWithClient(client, opts.Collection, opts.Prefix, opts.Embedder)
}

// NewWithClient creates a collection over an existing client.
// Useful for testing with miniredis.
func NewWithClient(client redis.UniversalClient, collection, prefix string, embedder store.Embedder) *Collection {
	if prefix == "" {
		prefix = "researchagent:"
	}
	if embedder == nil {
		embedder = store.NewHashEmbedder(64)
	}
	return &Collection{
		client:   client,
		name:     collection,
		prefix:   prefix,
		embedder: embedder,
	}
}

type storedDocument struct {
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float32      `json:"embedding"`
}

func (c *Collection) indexKey() string {
	return fmt.Sprintf("%scollection:%s:ids", c.prefix, c.name)
}

func (c *Collection) documentKey(id string) string {
	return fmt.Sprintf("%scollection:%s:doc:%s", c.prefix, c.name, id)
}

// Upsert writes documents by ID, overwriting existing keys.
func (c *Collection) Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) {
		return fmt.Errorf("ids and documents must have the same length, got %d and %d", len(ids), len(documents))
	}

	embeddings, err := c.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	pipe := c.client.Pipeline()
	for i, id := range ids {
		doc := storedDocument{
			Content:   documents[i],
			Embedding: embeddings[i],
		}
		if i < len(metadatas) {
			doc.Metadata = metadatas[i]
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to marshal document %s: %w", id, err)
		}

		pipe.Set(ctx, c.documentKey(id), data, 0)
		pipe.SAdd(ctx, c.indexKey(), id)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to upsert documents to redis: %w", err)
	}
	return nil
}

// Query loads the collection's documents and ranks them by cosine similarity.
func (c *Collection) Query(ctx context.Context, queryTexts []string, nResults int) (*store.QueryResult, error) {
	queryEmbeddings, err := c.embedder.EmbedDocuments(ctx, queryTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed queries: %w", err)
	}

	candidates, err := c.loadCandidates(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := &store.QueryResult{
		IDs:       make([][]string, len(queryTexts)),
		Documents: make([][]string, len(queryTexts)),
		Metadatas: make([][]map[string]any, len(queryTexts)),
		Distances: make([][]float64, len(queryTexts)),
	}

	for qi, queryEmbedding := range queryEmbeddings {
		ids, documents, metadatas, distances := store.RankCandidates(queryEmbedding, candidates, nResults)
		result.IDs[qi] = ids
		result.Documents[qi] = documents
		result.Metadatas[qi] = metadatas
		result.Distances[qi] = distances
	}

	return result, nil
}

// Count returns the number of documents in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	count, err := c.client.SCard(ctx, c.indexKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count documents in redis: %w", err)
	}
	return int(count), nil
}

// Get fetches documents by ID, or everything when ids is empty.
func (c *Collection) Get(ctx context.Context, ids []string) (*store.GetResult, error) {
	candidates, err := c.loadCandidates(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &store.GetResult{}
	for _, cand := range candidates {
		result.IDs = append(result.IDs, cand.ID)
		result.Documents = append(result.Documents, cand.Content)
		result.Metadatas = append(result.Metadatas, cand.Metadata)
	}
	return result, nil
}

// Close closes the underlying client.
func (c *Collection) Close() error {
	return c.client.Close()
}

func (c *Collection) loadCandidates(ctx context.Context, ids []string) ([]store.Candidate, error) {
	if len(ids) == 0 {
		members, err := c.client.SMembers(ctx, c.indexKey()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to list document ids: %w", err)
		}
		ids = members
	}

	candidates := make([]store.Candidate, 0, len(ids))
	for _, id := range ids {
		data, err := c.client.Get(ctx, c.documentKey(id)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load document %s: %w", id, err)
		}

		var doc storedDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", id, err)
		}

		candidates = append(candidates, store.Candidate{
			ID:        id,
			Content:   doc.Content,
			Metadata:  doc.Metadata,
			Embedding: doc.Embedding,
		})
	}

	return candidates, nil
}
