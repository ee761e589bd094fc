// Package sqlitevec implements memory.VectorStore on SQLite. Embeddings are
// stored as little-endian float32 BLOBs and metadata as JSON; similarity is
// ranked in-process after loading candidate rows, which is plenty for the
// store sizes a local runtime sees.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hupe1980/agentpool/memory"
)

// Store is a SQLite-backed VectorStore. Safe for concurrent use through the
// underlying single-writer connection.
type Store struct {
	db *sql.DB
}

var _ memory.VectorStore = (*Store)(nil)

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlitevec: open db: %w", err)
	}

	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlitevec: pragma: %w", err)
		}
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitevec: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS memories (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			embedding  BLOB,
			metadata   TEXT NOT NULL DEFAULT '{}',
			created_at TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// Add implements memory.VectorStore.
func (s *Store) Add(ctx context.Context, content string, embedding []float32, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return "", fmt.Errorf("sqlitevec: marshal metadata: %w", err)
	}

	id := uuid.NewString()
	const insert = `INSERT INTO memories (id, content, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, insert,
		id, content, float32ToBytes(embedding), string(meta),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return "", fmt.Errorf("sqlitevec: insert memory: %w", err)
	}
	return id, nil
}

// Search implements memory.VectorStore. Rows without a usable embedding are
// skipped; the rest are cosine-scored in-process and ranked descending.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]memory.SearchResult, error) {
	if limit <= 0 {
		return []memory.SearchResult{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, embedding, metadata FROM memories WHERE embedding IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("sqlitevec: query memories: %w", err)
	}
	defer rows.Close()

	var results []memory.SearchResult
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		score := memory.CosineSimilarity(queryEmbedding, m.Embedding)
		if score == 0 && zeroNorm(m.Embedding) {
			continue
		}
		results = append(results, memory.SearchResult{Memory: m, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitevec: iterate memories: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []memory.SearchResult{}
	}
	return results, nil
}

// Get implements memory.VectorStore.
func (s *Store) Get(ctx context.Context, id string) (*memory.Memory, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, content, embedding, metadata FROM memories WHERE id = ?`, id)

	m, err := scanMemory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Delete implements memory.VectorStore.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlitevec: delete memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlitevec: rows affected: %w", err)
	}
	return n > 0, nil
}

// Clear implements memory.VectorStore.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM memories`); err != nil {
		return fmt.Errorf("sqlitevec: clear memories: %w", err)
	}
	return nil
}

// Count implements memory.VectorStore.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlitevec: count memories: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemory(row rowScanner) (memory.Memory, error) {
	var (
		m        memory.Memory
		blob     []byte
		metaJSON string
	)
	if err := row.Scan(&m.ID, &m.Content, &blob, &metaJSON); err != nil {
		return memory.Memory{}, fmt.Errorf("sqlitevec: scan memory: %w", err)
	}
	m.Embedding = bytesToFloat32(blob)
	if err := json.Unmarshal([]byte(metaJSON), &m.Metadata); err != nil {
		return memory.Memory{}, fmt.Errorf("sqlitevec: unmarshal metadata: %w", err)
	}
	return m, nil
}

func zeroNorm(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func float32ToBytes(v []float32) []byte {
	if v == nil {
		return nil
	}
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func bytesToFloat32(b []byte) []float32 {
	if len(b) < 4 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
