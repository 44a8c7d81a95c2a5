package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/researchagent/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Collection is a store.Collection backed by PostgreSQL. Documents, metadata
// and embeddings live in one table keyed by (collection, id); similarity
// ranking happens client-side.
type Collection struct {
	pool      DBPool
	name      string
	tableName string
	embedder  store.Embedder
}

var _ store.Collection = (*Collection)(nil)

// Options configuration for the Postgres connection.
type Options struct {
	ConnString string
	// Collection is the collection name.
	Collection string
	// TableName defaults to "documents".
	TableName string
	// Embedder computes embeddings; nil defaults to a HashEmbedder.
	Embedder store.Embedder
}

// New creates a Postgres-backed collection and ensures the schema exists.
func New(ctx context.Context, opts Options) (*Collection, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	c := NewWithPool(pool, opts.Collection, opts.TableName, opts.Embedder)
	if err := c.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return c, nil
}

// NewWithPool creates a collection over an existing pool.
// Useful for testing with mocks.
func NewWithPool(pool DBPool, collection, tableName string, embedder store.Embedder) *Collection {
	if tableName == "" {
		tableName = "documents"
	}
	if embedder == nil {
		embedder = store.NewHashEmbedder(64)
	}
	return &Collection{
		pool:      pool,
		name:      collection,
		tableName: tableName,
		embedder:  embedder,
	}
}

// InitSchema creates the necessary table if it doesn't exist.
func (c *Collection) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB,
			embedding JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_%s_collection ON %s (collection);
	`, c.tableName, c.tableName, c.tableName)

	if _, err := c.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *Collection) Close() {
	c.pool.Close()
}

// Upsert writes documents by ID; conflicting (collection, id) rows are replaced.
func (c *Collection) Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) {
		return fmt.Errorf("ids and documents must have the same length, got %d and %d", len(ids), len(documents))
	}

	embeddings, err := c.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (collection, id, content, metadata, embedding)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (collection, id) DO UPDATE SET
			content = EXCLUDED.content,
			metadata = EXCLUDED.metadata,
			embedding = EXCLUDED.embedding
	`, c.tableName)

	for i, id := range ids {
		var metadataJSON []byte
		if i < len(metadatas) && metadatas[i] != nil {
			metadataJSON, err = json.Marshal(metadatas[i])
			if err != nil {
				return fmt.Errorf("failed to marshal metadata for %s: %w", id, err)
			}
		}
		embeddingJSON, err := json.Marshal(embeddings[i])
		if err != nil {
			return fmt.Errorf("failed to marshal embedding for %s: %w", id, err)
		}

		if _, err := c.pool.Exec(ctx, query, c.name, id, documents[i], metadataJSON, embeddingJSON); err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", id, err)
		}
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
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE collection = $1`, c.tableName)

	var count int
	if err := c.pool.QueryRow(ctx, query, c.name).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
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

func (c *Collection) loadCandidates(ctx context.Context, ids []string) ([]store.Candidate, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if len(ids) > 0 {
		query := fmt.Sprintf(`SELECT id, content, metadata, embedding FROM %s WHERE collection = $1 AND id = ANY($2) ORDER BY id`, c.tableName)
		rows, err = c.pool.Query(ctx, query, c.name, ids)
	} else {
		query := fmt.Sprintf(`SELECT id, content, metadata, embedding FROM %s WHERE collection = $1 ORDER BY id`, c.tableName)
		rows, err = c.pool.Query(ctx, query, c.name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	var candidates []store.Candidate
	for rows.Next() {
		var (
			cand          store.Candidate
			metadataJSON  []byte
			embeddingJSON []byte
		)
		if err := rows.Scan(&cand.ID, &cand.Content, &metadataJSON, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &cand.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", cand.ID, err)
			}
		}
		if err := json.Unmarshal(embeddingJSON, &cand.Embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding for %s: %w", cand.ID, err)
		}
		candidates = append(candidates, cand)
	}

	return candidates, rows.Err()
}
