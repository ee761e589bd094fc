package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// InMemoryStore is a naive process-local VectorStore keeping memories in a
// plain map with uuid keys. Search is a linear scan with cosine scoring.
//
// Good for tests, demos and small ephemeral sessions. It holds no lock: per
// the runtime's single-threaded execution model concurrent mutation is the
// caller's problem — wrap it in a mutex if shared across goroutines.
type InMemoryStore struct {
	memories map[string]*Memory
}

var _ VectorStore = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory vector store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{memories: make(map[string]*Memory)}
}

// Add implements VectorStore.
func (s *InMemoryStore) Add(_ context.Context, content string, embedding []float32, metadata map[string]any) (string, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	id := uuid.NewString()
	s.memories[id] = &Memory{
		ID:        id,
		Content:   content,
		Embedding: embedding,
		Metadata:  metadata,
	}
	return id, nil
}

// Search implements VectorStore. Memories without a usable embedding (missing
// or zero norm) are skipped entirely rather than scored at zero.
func (s *InMemoryStore) Search(_ context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	if len(s.memories) == 0 || limit <= 0 {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(s.memories))
	for _, m := range s.memories {
		if !hasNorm(m.Embedding) {
			continue
		}
		score := CosineSimilarity(queryEmbedding, m.Embedding)
		results = append(results, SearchResult{Memory: *m, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Get implements VectorStore.
func (s *InMemoryStore) Get(_ context.Context, id string) (*Memory, error) {
	m, ok := s.memories[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// Delete implements VectorStore.
func (s *InMemoryStore) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := s.memories[id]; !ok {
		return false, nil
	}
	delete(s.memories, id)
	return true, nil
}

// Clear implements VectorStore.
func (s *InMemoryStore) Clear(_ context.Context) error {
	s.memories = make(map[string]*Memory)
	return nil
}

// Count implements VectorStore.
func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	return len(s.memories), nil
}

func hasNorm(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}
