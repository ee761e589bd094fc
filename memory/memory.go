package memory

import (
	"context"
	"math"
)

// Memory represents a single fact persisted in long-term memory. Memories are
// immutable after creation; mutation is limited to delete/clear on the store.
type Memory struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Embedding []float32      `json:"embedding,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SearchResult is a retrieved memory together with its cosine similarity
// score against the query embedding.
type SearchResult struct {
	Memory
	Score float64 `json:"score"`
}

// VectorStore defines keyed storage plus similarity search over embedded
// memories. Implementations back search with any index they like as long as
// results come back ordered by descending cosine similarity.
type VectorStore interface {
	// Add persists a new memory and returns its generated id. Ids are never
	// reused after deletion within a store instance's lifetime.
	Add(ctx context.Context, content string, embedding []float32, metadata map[string]any) (string, error)

	// Search returns up to limit memories ranked by descending cosine
	// similarity to the query embedding. Memories whose embedding has zero
	// norm are skipped.
	Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error)

	// Get returns the memory with the given id, or nil if it does not exist.
	Get(ctx context.Context, id string) (*Memory, error)

	// Delete removes a memory, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// Clear removes all memories.
	Clear(ctx context.Context) error

	// Count returns the number of stored memories.
	Count(ctx context.Context) (int, error)
}

// CosineSimilarity computes dot(a,b) / (‖a‖·‖b‖) accumulating in float64.
// It returns 0 when either vector has zero norm, so callers never divide by
// zero; stores use that to skip unembeddable entries.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
