package memory

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/openai/openai-go"
)

// EmbeddingGenerator turns text into a fixed-length vector. Implementations
// must be deterministic for identical input or retrieval quality degrades in
// surprising ways.
type EmbeddingGenerator interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// SimpleEmbeddingDim is the vector length produced by SimpleEmbedder.
const SimpleEmbeddingDim = 128

// SimpleEmbedder maps text to a deterministic sha256-based vector. The result
// is NOT semantically meaningful; it only exercises the retrieval machinery
// where no trained embedding backend is configured.
type SimpleEmbedder struct{}

var _ EmbeddingGenerator = SimpleEmbedder{}

// NewSimpleEmbedder creates the default hash-based embedder.
func NewSimpleEmbedder() SimpleEmbedder { return SimpleEmbedder{} }

// Generate implements EmbeddingGenerator. Each pair of digest bytes becomes a
// float in [-1, 1]; the vector is zero-padded to SimpleEmbeddingDim.
func (SimpleEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	digest := sha256.Sum256([]byte(text))

	vec := make([]float32, 0, SimpleEmbeddingDim)
	for i := 0; i+1 < len(digest); i += 2 {
		v := float32(binary.BigEndian.Uint16(digest[i:i+2]))/65535.0*2 - 1
		vec = append(vec, v)
	}
	for len(vec) < SimpleEmbeddingDim {
		vec = append(vec, 0)
	}
	return vec[:SimpleEmbeddingDim], nil
}

// OpenAIEmbedderOptions configure the OpenAI embedding backend.
type OpenAIEmbedderOptions struct {
	Model string
}

// OpenAIEmbedder generates embeddings via the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	opts   OpenAIEmbedderOptions
}

var _ EmbeddingGenerator = (*OpenAIEmbedder)(nil)

// NewOpenAIEmbedder creates an embedder using the official client (API key
// taken from the environment by the SDK).
func NewOpenAIEmbedder(optFns ...func(o *OpenAIEmbedderOptions)) *OpenAIEmbedder {
	client := openai.NewClient()
	return NewOpenAIEmbedderFromClient(&client, optFns...)
}

// NewOpenAIEmbedderFromClient creates an embedder from an existing client.
func NewOpenAIEmbedderFromClient(client *openai.Client, optFns ...func(o *OpenAIEmbedderOptions)) *OpenAIEmbedder {
	opts := OpenAIEmbedderOptions{Model: openai.EmbeddingModelTextEmbedding3Small}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &OpenAIEmbedder{client: client, opts: opts}
}

// Generate implements EmbeddingGenerator.
func (e *OpenAIEmbedder) Generate(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: e.opts.Model,
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings api error: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings api error: empty response")
	}

	raw := resp.Data[0].Embedding
	vec := make([]float32, len(raw))
	for i, v := range raw {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Embedding backend identifiers accepted by NewEmbedder.
const (
	EmbeddingBackendSimple = "simple"
	EmbeddingBackendOpenAI = "openai"
)

// NewEmbedder resolves a backend name to an EmbeddingGenerator. Unknown names
// fail with a configuration error instead of silently falling back.
func NewEmbedder(backend string, optFns ...func(o *OpenAIEmbedderOptions)) (EmbeddingGenerator, error) {
	switch backend {
	case "", EmbeddingBackendSimple:
		return NewSimpleEmbedder(), nil
	case EmbeddingBackendOpenAI:
		return NewOpenAIEmbedder(optFns...), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q (want %q or %q)",
			backend, EmbeddingBackendSimple, EmbeddingBackendOpenAI)
	}
}
