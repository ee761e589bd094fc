package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	embedder := NewSimpleEmbedder()

	a, err := embedder.Generate(ctx, "Test text")
	require.NoError(t, err)
	b, err := embedder.Generate(ctx, "Test text")
	require.NoError(t, err)

	assert.Len(t, a, SimpleEmbeddingDim)
	assert.Equal(t, a, b)
}

func TestSimpleEmbedder_DifferentInputsDiffer(t *testing.T) {
	ctx := context.Background()
	embedder := NewSimpleEmbedder()

	a, err := embedder.Generate(ctx, "alpha")
	require.NoError(t, err)
	b, err := embedder.Generate(ctx, "beta")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSimpleEmbedder_ValuesInRange(t *testing.T) {
	vec, err := NewSimpleEmbedder().Generate(context.Background(), "range check")
	require.NoError(t, err)

	for i, v := range vec {
		assert.GreaterOrEqual(t, v, float32(-1), "index %d", i)
		assert.LessOrEqual(t, v, float32(1), "index %d", i)
	}
	// Only the first 16 positions carry digest-derived values.
	for i := 16; i < SimpleEmbeddingDim; i++ {
		assert.Zero(t, vec[i])
	}
}

func TestNewEmbedder(t *testing.T) {
	e, err := NewEmbedder("")
	require.NoError(t, err)
	assert.IsType(t, SimpleEmbedder{}, e)

	e, err = NewEmbedder(EmbeddingBackendSimple)
	require.NoError(t, err)
	assert.IsType(t, SimpleEmbedder{}, e)

	_, err = NewEmbedder("word2vec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown embedding backend")
}
