// Package pgvector implements memory.VectorStore on PostgreSQL with the
// pgvector extension. Similarity ranking happens server-side via the cosine
// distance operator, so Search scales past what an in-process scan handles.
package pgvector

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/hupe1980/agentpool/memory"
)

// Options configure the pgvector store.
type Options struct {
	// Table is the memories table name. Defaults to "agent_memories".
	Table string
	// Dim is the embedding dimensionality declared on the vector column.
	// Defaults to memory.SimpleEmbeddingDim.
	Dim int
}

// Store is a PostgreSQL/pgvector-backed VectorStore. Safe for concurrent use;
// the pool serializes connections.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

var _ memory.VectorStore = (*Store)(nil)

// NewStore runs the schema migration (extension + table) and returns a ready
// Store bound to the given connection pool. The pool stays owned by the
// caller; Store never closes it.
func NewStore(ctx context.Context, pool *pgxpool.Pool, optFns ...func(o *Options)) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgvector: pool is required")
	}

	opts := Options{Table: "agent_memories", Dim: memory.SimpleEmbeddingDim}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Store{pool: pool, table: pgx.Identifier{opts.Table}.Sanitize()}
	if err := s.migrate(ctx, opts.Dim); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context, dim int) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("pgvector: create extension: %w", err)
	}
	schema := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id         UUID PRIMARY KEY,
			content    TEXT NOT NULL,
			embedding  vector(%d),
			metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table, dim)
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pgvector: create table: %w", err)
	}
	return nil
}

// Add implements memory.VectorStore.
func (s *Store) Add(ctx context.Context, content string, embedding []float32, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	id := uuid.NewString()
	insert := fmt.Sprintf(
		`INSERT INTO %s (id, content, embedding, metadata) VALUES ($1, $2, $3, $4)`, s.table)
	if _, err := s.pool.Exec(ctx, insert, id, content, pgv.NewVector(embedding), metadata); err != nil {
		return "", fmt.Errorf("pgvector: insert memory: %w", err)
	}
	return id, nil
}

// Search implements memory.VectorStore. The <=> operator is cosine distance;
// score is 1 - distance. NULL embeddings are excluded by the WHERE clause.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]memory.SearchResult, error) {
	if limit <= 0 {
		return []memory.SearchResult{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, content, embedding, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`, s.table)

	rows, err := s.pool.Query(ctx, query, pgv.NewVector(queryEmbedding), limit)
	if err != nil {
		return nil, fmt.Errorf("pgvector: search memories: %w", err)
	}
	defer rows.Close()

	results := []memory.SearchResult{}
	for rows.Next() {
		var (
			r   memory.SearchResult
			vec pgv.Vector
		)
		if err := rows.Scan(&r.ID, &r.Content, &vec, &r.Metadata, &r.Score); err != nil {
			return nil, fmt.Errorf("pgvector: scan memory: %w", err)
		}
		r.Embedding = vec.Slice()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector: iterate memories: %w", err)
	}
	return results, nil
}

// Get implements memory.VectorStore.
func (s *Store) Get(ctx context.Context, id string) (*memory.Memory, error) {
	query := fmt.Sprintf(`SELECT id, content, embedding, metadata FROM %s WHERE id = $1`, s.table)

	var (
		m   memory.Memory
		vec pgv.Vector
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Content, &vec, &m.Metadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("pgvector: get memory: %w", err)
	}
	m.Embedding = vec.Slice()
	return &m, nil
}

// Delete implements memory.VectorStore.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table), id)
	if err != nil {
		return false, fmt.Errorf("pgvector: delete memory: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Clear implements memory.VectorStore.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return fmt.Errorf("pgvector: clear memories: %w", err)
	}
	return nil
}

// Count implements memory.VectorStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgvector: count memories: %w", err)
	}
	return n, nil
}
