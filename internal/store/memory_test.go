package store

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentiq/contentiq/internal/models"
)

type countingEmbedder struct {
	calls atomic.Int32
}

func (c *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	c.calls.Add(1)
	return []float32{float32(len(text)), 1, 0}, nil
}

func TestMemoryEmbeddingCacheReadYourWrites(t *testing.T) {
	embedder := &countingEmbedder{}
	m := NewMemory(embedder)
	ctx := context.Background()

	first, err := m.GetOrCreate(ctx, "a1", "some article text")
	require.NoError(t, err)

	second, err := m.GetOrCreate(ctx, "a1", "some article text")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), embedder.calls.Load(), "second read must hit the cache")
}

func TestMemoryUpsertInvalidatesEmbedding(t *testing.T) {
	embedder := &countingEmbedder{}
	m := NewMemory(embedder)
	ctx := context.Background()

	_, err := m.GetOrCreate(ctx, "a1", "v1 text")
	require.NoError(t, err)

	require.NoError(t, m.UpsertArticle(ctx, models.PublishedArticle{ID: "a1", Slug: "one", Content: "v2"}))

	_, err = m.GetOrCreate(ctx, "a1", "v2 text")
	require.NoError(t, err)
	assert.Equal(t, int32(2), embedder.calls.Load(), "upsert must invalidate the cached vector")
}

func TestMemoryArticles(t *testing.T) {
	m := NewMemory(&countingEmbedder{})
	ctx := context.Background()

	require.Error(t, m.UpsertArticle(ctx, models.PublishedArticle{}), "empty id rejected")

	require.NoError(t, m.UpsertArticle(ctx, models.PublishedArticle{ID: "2", Slug: "beta"}))
	require.NoError(t, m.UpsertArticle(ctx, models.PublishedArticle{ID: "1", Slug: "alpha"}))

	articles, err := m.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "alpha", articles[0].Slug, "listing is slug-ordered")

	got, err := m.GetArticle(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alpha", got.Slug)

	missing, err := m.GetArticle(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
