// Package store defines the storage collaborators the analysis stages
// consume: the published-article store backing link suggestion, and the
// embedding cache that makes repeated analyses of the same article cheap.
// The engine only ever talks to these interfaces; internal/store/surreal
// provides the SurrealDB implementation and Memory backs tests and
// cache-free runs.
package store

import (
	"context"

	"github.com/contentiq/contentiq/internal/models"
)

// Embedder generates an embedding vector for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache returns the cached vector for an article, computing and
// storing it on a miss. Implementations must be read-your-writes: a vector
// returned by one call is visible to all later calls with the same id.
type EmbeddingCache interface {
	GetOrCreate(ctx context.Context, articleID, text string) ([]float32, error)
}

// ArticleStore supplies link-suggestion candidates.
type ArticleStore interface {
	ListPublished(ctx context.Context) ([]models.PublishedArticle, error)
	GetArticle(ctx context.Context, id string) (*models.PublishedArticle, error)
	UpsertArticle(ctx context.Context, article models.PublishedArticle) error
}
