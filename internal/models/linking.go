package models

// PublishedArticle is a link-suggestion candidate supplied by the article
// store collaborator.
type PublishedArticle struct {
	ID              string    `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	FocusKeyword    string    `json:"focus_keyword"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Embedding       []float32 `json:"embedding,omitempty"`
}

// SuggestionStatus tracks the lifecycle of a link suggestion. Only the
// external consumer moves a suggestion past "suggested".
type SuggestionStatus string

const (
	StatusSuggested SuggestionStatus = "suggested"
	StatusAccepted  SuggestionStatus = "accepted"
	StatusRejected  SuggestionStatus = "rejected"
)

// LinkTarget identifies the article a suggestion points at.
type LinkTarget struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	FocusKeyword string `json:"focus_keyword"`
	URL          string `json:"url"`
}

// LinkPlacement locates where the anchor should be inserted.
type LinkPlacement struct {
	ParagraphIndex int    `json:"paragraph_index"`
	SentenceIndex  int    `json:"sentence_index"`
	Position       int    `json:"position"`
	Context        string `json:"context"`
}

// InternalLinkSuggestion is one proposed internal link. RelevanceScore is
// always at or above the configured minimum; lower candidates are never
// materialized.
type InternalLinkSuggestion struct {
	ID                 string           `json:"id"`
	TargetArticle      LinkTarget       `json:"target_article"`
	AnchorText         string           `json:"anchor_text"`
	RelevanceScore     int              `json:"relevance_score"`     // 0-100
	SemanticSimilarity float64          `json:"semantic_similarity"` // 0-1 cosine
	Placement          LinkPlacement    `json:"placement"`
	Reasoning          string           `json:"reasoning"`
	Bidirectional      bool             `json:"bidirectional"`
	Status             SuggestionStatus `json:"status"`
}

// ExistingLink is an internal anchor already present in the article body.
type ExistingLink struct {
	TargetID   string `json:"target_id"`
	AnchorText string `json:"anchor_text"`
}

// LinkingMetrics reports link-graph health for one article.
type LinkingMetrics struct {
	TotalInternalLinks   int     `json:"total_internal_links"`
	OptimalRangeMin      int     `json:"optimal_range_min"`
	OptimalRangeMax      int     `json:"optimal_range_max"`
	OrphanedContent      bool    `json:"orphaned_content"`
	TopicClusterCoverage float64 `json:"topic_cluster_coverage"` // 0-100
}

// InternalLinkingAnalysis is the full result of a link-suggestion run.
type InternalLinkingAnalysis struct {
	CurrentArticleID string                   `json:"current_article_id"`
	Suggestions      []InternalLinkSuggestion `json:"suggestions"`
	ExistingLinks    []ExistingLink           `json:"existing_links"`
	Metrics          LinkingMetrics           `json:"metrics"`
}
