package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/contentiq/contentiq/internal/models"
)

// Memory is an in-process implementation of ArticleStore and EmbeddingCache.
// Safe for concurrent use.
type Memory struct {
	embedder Embedder

	mu         sync.RWMutex
	articles   map[string]models.PublishedArticle
	embeddings map[string][]float32
}

// NewMemory creates an in-memory store backed by the given embedder.
func NewMemory(embedder Embedder) *Memory {
	return &Memory{
		embedder:   embedder,
		articles:   make(map[string]models.PublishedArticle),
		embeddings: make(map[string][]float32),
	}
}

// GetOrCreate returns the cached embedding for articleID, generating it on
// first use.
func (m *Memory) GetOrCreate(ctx context.Context, articleID, text string) ([]float32, error) {
	m.mu.RLock()
	vector, ok := m.embeddings[articleID]
	m.mu.RUnlock()
	if ok {
		return vector, nil
	}

	vector, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed article %s: %w", articleID, err)
	}

	m.mu.Lock()
	m.embeddings[articleID] = vector
	m.mu.Unlock()
	return vector, nil
}

// ListPublished returns all stored articles ordered by slug.
func (m *Memory) ListPublished(_ context.Context) ([]models.PublishedArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	articles := make([]models.PublishedArticle, 0, len(m.articles))
	for _, a := range m.articles {
		articles = append(articles, a)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].Slug < articles[j].Slug })
	return articles, nil
}

// GetArticle returns the article with the given id, or nil when absent.
func (m *Memory) GetArticle(_ context.Context, id string) (*models.PublishedArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	article, ok := m.articles[id]
	if !ok {
		return nil, nil
	}
	return &article, nil
}

// UpsertArticle stores or replaces an article and invalidates its cached
// embedding.
func (m *Memory) UpsertArticle(_ context.Context, article models.PublishedArticle) error {
	if article.ID == "" {
		return fmt.Errorf("upsert article: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles[article.ID] = article
	delete(m.embeddings, article.ID)
	return nil
}
