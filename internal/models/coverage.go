package models

// SubtopicDepth grades how deeply a subtopic is treated.
type SubtopicDepth string

const (
	DepthShallow SubtopicDepth = "shallow"
	DepthMedium  SubtopicDepth = "medium"
	DepthDeep    SubtopicDepth = "deep"
)

// Subtopic is one required subtopic with coverage judgments.
type Subtopic struct {
	Topic              string        `json:"topic"`
	Covered            bool          `json:"covered"`
	Depth              SubtopicDepth `json:"depth"`
	CompetitorCoverage int           `json:"competitor_coverage"` // % of competitors covering it
}

// SemanticKeyword is one LSI-style keyword with usage metrics.
type SemanticKeyword struct {
	Keyword            string `json:"keyword"`
	Relevance          int    `json:"relevance"` // 0-100
	Present            bool   `json:"present"`
	Frequency          int    `json:"frequency"`
	SuggestedFrequency int    `json:"suggested_frequency"`
}

// TopicCoverage is the scoring unit for one (article, keyword) pair.
// Immutable once computed; a new analysis produces a new value.
type TopicCoverage struct {
	MainTopic         string            `json:"main_topic"`
	RequiredSubtopics []Subtopic        `json:"required_subtopics"`
	SemanticKeywords  []SemanticKeyword `json:"semantic_keywords"`
	Entities          []Entity          `json:"entities"`
	Completeness      int               `json:"completeness"`       // 0-100, derived
	CompetitorAverage int               `json:"competitor_average"` // 0-100, derived
}

// KeywordUsage reports an under-utilized semantic keyword.
type KeywordUsage struct {
	Keyword   string `json:"keyword"`
	Current   int    `json:"current"`
	Suggested int    `json:"suggested"`
}

// CoverageGaps summarizes how an article trails its competitive set.
type CoverageGaps struct {
	MissingEntities  int `json:"missing_entities"`
	MissingSubtopics int `json:"missing_subtopics"`
	MissingKeywords  int `json:"missing_keywords"`
	ScoreGap         int `json:"score_gap"` // completeness - competitorAverage
}
