package config

// Thresholds carries every tunable used by the analysis stages. It is passed
// by value into each component at construction so tests can vary individual
// knobs without mutating shared state.
type Thresholds struct {
	// Topic coverage
	MaxCompetitors       int     `yaml:"max_competitors"`        // competitor excerpts sent to the LLM
	MinEntityMentions    int     `yaml:"min_entity_mentions"`    // competitor mentions for an entity to count as a gap
	ImportantEntityScore int     `yaml:"important_entity_score"` // importance floor for "important" entities
	TargetCompleteness   int     `yaml:"target_completeness"`    // recommendation target (0-100)
	EntityWeight         float64 `yaml:"entity_weight"`          // completeness weights, must sum to 1.0
	SubtopicWeight       float64 `yaml:"subtopic_weight"`
	KeywordWeight        float64 `yaml:"keyword_weight"`

	// Internal linking
	MaxLinkSuggestions int     `yaml:"max_link_suggestions"`
	MinRelevanceScore  int     `yaml:"min_relevance_score"`  // suggestions below this are dropped
	AdmissionThreshold float64 `yaml:"admission_threshold"`  // cosine floor for the candidate pool
	IdealLinksMin      int     `yaml:"ideal_links_min"`
	IdealLinksMax      int     `yaml:"ideal_links_max"`
	LLMCallDelayMs     int     `yaml:"llm_call_delay_ms"` // pacing between placement calls

	// Freshness
	FreshnessThresholdDays int     `yaml:"freshness_threshold_days"` // strictly older than this is stale
	OutdatedYearThreshold  int     `yaml:"outdated_year_threshold"`  // referenced years this much older are flagged
	HighPriorityRankDrop   float64 `yaml:"high_priority_rank_drop"`  // normalized decline triggering high priority

	// Featured snippets
	SnippetParagraphMinWords int `yaml:"snippet_paragraph_min_words"`
	SnippetParagraphMaxWords int `yaml:"snippet_paragraph_max_words"`
	SnippetListMinItems      int `yaml:"snippet_list_min_items"`
	SnippetListMaxItems      int `yaml:"snippet_list_max_items"`

	// Corpus analysis
	MaxCompetitorArticles int `yaml:"max_competitor_articles"`
	MinScrapedContentLen  int `yaml:"min_scraped_content_len"`
}

// DefaultThresholds returns the reference tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxCompetitors:       5,
		MinEntityMentions:    2,
		ImportantEntityScore: 50,
		TargetCompleteness:   85,
		EntityWeight:         0.4,
		SubtopicWeight:       0.4,
		KeywordWeight:        0.2,

		MaxLinkSuggestions: 5,
		MinRelevanceScore:  70,
		AdmissionThreshold: 0.3,
		IdealLinksMin:      3,
		IdealLinksMax:      10,
		LLMCallDelayMs:     500,

		FreshnessThresholdDays: 180,
		OutdatedYearThreshold:  2,
		HighPriorityRankDrop:   0.2,

		SnippetParagraphMinWords: 40,
		SnippetParagraphMaxWords: 60,
		SnippetListMinItems:      5,
		SnippetListMaxItems:      8,

		MaxCompetitorArticles: 10,
		MinScrapedContentLen:  500,
	}
}
