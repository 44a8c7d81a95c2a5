package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/researchagent/store"
)

// DBFileName is the database file created under the storage directory.
const DBFileName = "research_agent.db"

// Options configures a SQLite-backed collection.
type Options struct {
	// Dir is the storage directory holding the database file.
	Dir string
	// Collection is the collection name.
	Collection string
	// Embedder computes embeddings for documents and queries.
	// Nil defaults to a HashEmbedder.
	Embedder store.Embedder
}

// Collection is a store.Collection persisted in a local SQLite database.
// One database file holds any number of named collections; documents carry
// their embedding so queries need no external service.
type Collection struct {
	db       *sql.DB
	name     string
	dir      string
	embedder store.Embedder
}

var _ store.Collection = (*Collection)(nil)

// Open opens an existing collection. It returns *store.CollectionNotFoundError
// when the storage directory has no database or the collection was never
// created, so callers can tell the user to ingest first.
func Open(opts Options) (*Collection, error) {
	dbPath := filepath.Join(opts.Dir, DBFileName)
	if _, err := os.Stat(dbPath); err != nil {
		return nil, &store.CollectionNotFoundError{Name: opts.Collection, Path: opts.Dir}
	}

	c, err := open(opts)
	if err != nil {
		return nil, err
	}

	var exists int
	err = c.db.QueryRow(`SELECT COUNT(*) FROM collections WHERE name = ?`, c.name).Scan(&exists)
	if err != nil {
		c.db.Close()
		return nil, fmt.Errorf("failed to look up collection %s: %w", c.name, err)
	}
	if exists == 0 {
		c.db.Close()
		return nil, &store.CollectionNotFoundError{Name: opts.Collection, Path: opts.Dir}
	}

	return c, nil
}

// OpenOrCreate opens a collection, creating the storage directory, database
// and collection row as needed.
func OpenOrCreate(opts Options) (*Collection, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", opts.Dir, err)
	}

	c, err := open(opts)
	if err != nil {
		return nil, err
	}

	_, err = c.db.Exec(`INSERT INTO collections (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, c.name)
	if err != nil {
		c.db.Close()
		return nil, fmt.Errorf("failed to register collection %s: %w", c.name, err)
	}

	return c, nil
}

func open(opts Options) (*Collection, error) {
	dbPath := filepath.Join(opts.Dir, DBFileName)
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open database %s: %w", dbPath, err)
	}

	embedder := opts.Embedder
	if embedder == nil {
		embedder = store.NewHashEmbedder(64)
	}

	c := &Collection{
		db:       db,
		name:     opts.Collection,
		dir:      opts.Dir,
		embedder: embedder,
	}

	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *Collection) initSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata TEXT,
			embedding TEXT NOT NULL,
			PRIMARY KEY (collection, id)
		);
		CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents (collection);
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Close closes the database connection.
func (c *Collection) Close() error {
	return c.db.Close()
}

// Upsert writes documents by ID; an existing (collection, id) row is replaced.
func (c *Collection) Upsert(ctx context.Context, ids []string, documents []string, metadatas []map[string]any) error {
	if len(ids) != len(documents) {
		return fmt.Errorf("ids and documents must have the same length, got %d and %d", len(ids), len(documents))
	}

	embeddings, err := c.embedder.EmbedDocuments(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

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

		_, err = tx.ExecContext(ctx, `
			INSERT INTO documents (collection, id, content, metadata, embedding)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (collection, id) DO UPDATE SET
				content = excluded.content,
				metadata = excluded.metadata,
				embedding = excluded.embedding
		`, c.name, id, documents[i], metadataJSON, embeddingJSON)
		if err != nil {
			return fmt.Errorf("failed to upsert document %s: %w", id, err)
		}
	}

	return tx.Commit()
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
	var count int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE collection = ?`, c.name).Scan(&count)
	if err != nil {
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
	query := `SELECT id, content, metadata, embedding FROM documents WHERE collection = ? ORDER BY rowid`
	args := []any{c.name}

	if len(ids) > 0 {
		query = `SELECT id, content, metadata, embedding FROM documents WHERE collection = ? AND id IN (`
		for i, id := range ids {
			if i > 0 {
				query += ", "
			}
			query += "?"
			args = append(args, id)
		}
		query += `) ORDER BY rowid`
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	defer rows.Close()

	var candidates []store.Candidate
	for rows.Next() {
		var (
			cand          store.Candidate
			metadataJSON  sql.NullString
			embeddingJSON string
		)
		if err := rows.Scan(&cand.ID, &cand.Content, &metadataJSON, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if metadataJSON.Valid && metadataJSON.String != "" {
			if err := json.Unmarshal([]byte(metadataJSON.String), &cand.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata for %s: %w", cand.ID, err)
			}
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &cand.Embedding); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding for %s: %w", cand.ID, err)
		}
		candidates = append(candidates, cand)
	}

	return candidates, rows.Err()
}
