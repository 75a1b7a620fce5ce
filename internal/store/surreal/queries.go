package surreal

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/contentiq/contentiq/internal/models"
)

type articleRecord struct {
	ID              any    `json:"id"`
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	FocusKeyword    string `json:"focus_keyword"`
	MetaDescription string `json:"meta_description,omitempty"`
}

func (r articleRecord) toModel() models.PublishedArticle {
	return models.PublishedArticle{
		ID:              r.Slug, // slug doubles as the stable external id
		Slug:            r.Slug,
		Title:           r.Title,
		Content:         r.Content,
		FocusKeyword:    r.FocusKeyword,
		MetaDescription: r.MetaDescription,
	}
}

// ListPublished returns all stored articles ordered by slug.
func (c *Client) ListPublished(ctx context.Context) ([]models.PublishedArticle, error) {
	results, err := surrealdb.Query[[]articleRecord](ctx, c.db, `
		SELECT * FROM article ORDER BY slug
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	var articles []models.PublishedArticle
	if results != nil && len(*results) > 0 {
		for _, rec := range (*results)[0].Result {
			articles = append(articles, rec.toModel())
		}
	}
	return articles, nil
}

// GetArticle retrieves an article by its slug id. Returns nil when absent.
func (c *Client) GetArticle(ctx context.Context, id string) (*models.PublishedArticle, error) {
	results, err := surrealdb.Query[[]articleRecord](ctx, c.db, `
		SELECT * FROM article WHERE slug = $slug LIMIT 1
	`, map[string]any{"slug": id})
	if err != nil {
		return nil, fmt.Errorf("get article %s: %w", id, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	article := (*results)[0].Result[0].toModel()
	return &article, nil
}

// UpsertArticle stores or replaces an article keyed by slug and drops any
// cached embedding for it.
func (c *Client) UpsertArticle(ctx context.Context, article models.PublishedArticle) error {
	if article.ID == "" && article.Slug == "" {
		return fmt.Errorf("upsert article: empty id")
	}
	slug := article.Slug
	if slug == "" {
		slug = article.ID
	}

	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT article SET
			slug = $slug,
			title = $title,
			content = $content,
			focus_keyword = $focus_keyword,
			meta_description = $meta_description,
			updated = time::now()
		WHERE slug = $slug;
		DELETE article_embedding WHERE article_id = $slug;
	`, map[string]any{
		"slug":             slug,
		"title":            article.Title,
		"content":          article.Content,
		"focus_keyword":    article.FocusKeyword,
		"meta_description": article.MetaDescription,
	})
	if err != nil {
		return fmt.Errorf("upsert article %s: %w", slug, err)
	}
	return nil
}

type embeddingRecord struct {
	ArticleID string    `json:"article_id"`
	Vector    []float32 `json:"vector"`
	Model     string    `json:"model"`
}

// GetEmbedding returns the cached vector for an article, or nil on a miss.
func (c *Client) GetEmbedding(ctx context.Context, articleID string) ([]float32, error) {
	results, err := surrealdb.Query[[]embeddingRecord](ctx, c.db, `
		SELECT * FROM article_embedding WHERE article_id = $article_id LIMIT 1
	`, map[string]any{"article_id": articleID})
	if err != nil {
		return nil, fmt.Errorf("get embedding %s: %w", articleID, err)
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return (*results)[0].Result[0].Vector, nil
}

// SaveEmbedding stores the vector for an article, replacing any previous one.
func (c *Client) SaveEmbedding(ctx context.Context, articleID string, vector []float32, model string) error {
	_, err := surrealdb.Query[any](ctx, c.db, `
		UPSERT article_embedding SET
			article_id = $article_id,
			vector = $vector,
			model = $model,
			created = time::now()
		WHERE article_id = $article_id
	`, map[string]any{
		"article_id": articleID,
		"vector":     vector,
		"model":      model,
	})
	if err != nil {
		return fmt.Errorf("save embedding %s: %w", articleID, err)
	}
	return nil
}
