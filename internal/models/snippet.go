package models

// SnippetFormat is the featured-snippet presentation shape.
type SnippetFormat string

const (
	SnippetParagraph SnippetFormat = "paragraph"
	SnippetList      SnippetFormat = "list"
	SnippetTable     SnippetFormat = "table"
)

// DetectedSnippet describes the incumbent featured snippet for a keyword,
// as supplied by the SERP collaborator.
type DetectedSnippet struct {
	Type    SnippetFormat `json:"type"`
	Content string        `json:"content"`
	Source  string        `json:"source"` // owning domain
	URL     string        `json:"url"`
}

// SnippetRecommendations carries format-specific authoring guidance.
type SnippetRecommendations struct {
	IdealLength int      `json:"ideal_length"` // words, items, or rows by format
	Structure   []string `json:"structure"`
}

// OptimizedSnippet holds the generated candidate in all representations.
// Only the field matching the target format is populated, plus HTML.
type OptimizedSnippet struct {
	Paragraph string              `json:"paragraph,omitempty"`
	List      []string            `json:"list,omitempty"`
	Table     []map[string]string `json:"table,omitempty"`
	HTML      string              `json:"html"`
}

// InsertionPoint suggests where snippet content belongs in the article.
type InsertionPoint struct {
	AfterHeading   string `json:"after_heading"`
	ParagraphIndex int    `json:"paragraph_index"`
	Reasoning      string `json:"reasoning"`
}

// SnippetOptimization is the full snippet recommendation for one keyword.
type SnippetOptimization struct {
	Keyword          string                 `json:"keyword"`
	CurrentSnippet   *DetectedSnippet       `json:"current_snippet,omitempty"`
	TargetFormat     SnippetFormat          `json:"target_format"`
	Recommendations  SnippetRecommendations `json:"recommendations"`
	OptimizedContent OptimizedSnippet       `json:"optimized_content"`
	InsertionPoint   InsertionPoint         `json:"insertion_point"`
	WinProbability   int                    `json:"win_probability"` // 0-100 estimate
}
