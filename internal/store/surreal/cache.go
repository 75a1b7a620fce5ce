package surreal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contentiq/contentiq/internal/store"
)

// namedEmbedder extends store.Embedder with the model name recorded next to
// each cached vector.
type namedEmbedder interface {
	store.Embedder
	Model() string
}

// Cache is the SurrealDB-backed embedding cache. Misses compute the vector
// and persist it before returning, so reads after a write always hit.
type Cache struct {
	client   *Client
	embedder namedEmbedder
}

// NewCache creates an embedding cache over an existing client.
func NewCache(client *Client, embedder namedEmbedder) *Cache {
	return &Cache{client: client, embedder: embedder}
}

// GetOrCreate implements store.EmbeddingCache.
func (c *Cache) GetOrCreate(ctx context.Context, articleID, text string) ([]float32, error) {
	vector, err := c.client.GetEmbedding(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if vector != nil {
		slog.Debug("embedding cache hit", "article", articleID)
		return vector, nil
	}

	vector, err = c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed article %s: %w", articleID, err)
	}
	if err := c.client.SaveEmbedding(ctx, articleID, vector, c.embedder.Model()); err != nil {
		return nil, err
	}
	slog.Debug("embedding cached", "article", articleID, "dimension", len(vector))
	return vector, nil
}
