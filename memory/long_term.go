package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/agentpool/logging"
)

// LongTermMemory combines an EmbeddingGenerator with a VectorStore into the
// storage/retrieval contract agents use for semantic recall across sessions.
// It is shared by reference between agents and pool turns; nothing here
// assumes exclusive ownership and no destructive in-place edits happen.
type LongTermMemory struct {
	store    VectorStore
	embedder EmbeddingGenerator
	logger   logging.Logger
}

// Options configure a LongTermMemory instance.
type Options struct {
	// Store is the vector store backend. Defaults to an InMemoryStore.
	Store VectorStore
	// Embedder generates embeddings for stored content and queries.
	// Defaults to the deterministic SimpleEmbedder.
	Embedder EmbeddingGenerator
	// Logger receives structured debug output. Defaults to NoOpLogger.
	Logger logging.Logger
}

// NewLongTermMemory constructs a LongTermMemory with safe in-process defaults.
func NewLongTermMemory(optFns ...func(o *Options)) *LongTermMemory {
	opts := Options{
		Store:    NewInMemoryStore(),
		Embedder: NewSimpleEmbedder(),
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &LongTermMemory{store: opts.Store, embedder: opts.Embedder, logger: opts.Logger}
}

// Store embeds the content, stamps a creation timestamp into the metadata if
// absent, and persists the memory. It returns the generated id.
func (l *LongTermMemory) Store(ctx context.Context, content string, metadata map[string]any) (string, error) {
	embedding, err := l.embedder.Generate(ctx, content)
	if err != nil {
		return "", fmt.Errorf("generate embedding: %w", err)
	}

	md := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		md[k] = v
	}
	if _, ok := md["timestamp"]; !ok {
		md["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	}

	id, err := l.store.Add(ctx, content, embedding, md)
	if err != nil {
		return "", fmt.Errorf("store memory: %w", err)
	}

	l.logger.Debug("memory.stored", "id", id, "content_len", len(content))

	return id, nil
}

// RetrieveOptions tune a Retrieve call.
type RetrieveOptions struct {
	// MinSimilarity drops results whose cosine similarity is below the
	// threshold. Disabled when nil.
	MinSimilarity *float64
}

// WithMinSimilarity sets a minimum cosine similarity for retrieved memories.
func WithMinSimilarity(threshold float64) func(o *RetrieveOptions) {
	return func(o *RetrieveOptions) { o.MinSimilarity = &threshold }
}

// Retrieve embeds the query and returns up to limit memories ordered by
// descending similarity, optionally filtered by a minimum similarity.
func (l *LongTermMemory) Retrieve(ctx context.Context, query string, limit int, optFns ...func(o *RetrieveOptions)) ([]Memory, error) {
	var opts RetrieveOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	queryEmbedding, err := l.embedder.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate query embedding: %w", err)
	}

	results, err := l.store.Search(ctx, queryEmbedding, limit)
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}

	memories := make([]Memory, 0, len(results))
	for _, r := range results {
		if opts.MinSimilarity != nil && r.Score < *opts.MinSimilarity {
			continue
		}
		memories = append(memories, r.Memory)
	}
	return memories, nil
}

// Get returns a specific memory by id, or nil if it does not exist.
func (l *LongTermMemory) Get(ctx context.Context, id string) (*Memory, error) {
	return l.store.Get(ctx, id)
}

// Delete removes a memory, reporting whether it existed.
func (l *LongTermMemory) Delete(ctx context.Context, id string) (bool, error) {
	return l.store.Delete(ctx, id)
}

// Clear removes all memories.
func (l *LongTermMemory) Clear(ctx context.Context) error {
	return l.store.Clear(ctx)
}

// Count returns the number of stored memories.
func (l *LongTermMemory) Count(ctx context.Context) (int, error) {
	return l.store.Count(ctx)
}

// ExtractAndStore stores conversation text for later recall and returns the
// ids of the stored memories. It performs no model-based fact extraction; the
// whole conversation is stored as a single memory.
func (l *LongTermMemory) ExtractAndStore(ctx context.Context, conversation string, metadata map[string]any) ([]string, error) {
	id, err := l.Store(ctx, conversation, metadata)
	if err != nil {
		return nil, err
	}
	return []string{id}, nil
}

// FormatForContext renders memories as a labeled block suitable for prompt
// injection. An empty slice renders to an empty string.
func (l *LongTermMemory) FormatForContext(memories []Memory) string {
	if len(memories) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("=== RELEVANT MEMORIES ===\n")
	for i, m := range memories {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m.Content)
	}
	sb.WriteString("========================\n")
	return sb.String()
}
