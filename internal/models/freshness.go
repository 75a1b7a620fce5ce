package models

// FreshnessFactors breaks the freshness score into its inputs.
type FreshnessFactors struct {
	AgeScore        int `json:"age_score"`
	ContentScore    int `json:"content_score"`
	DateScore       int `json:"date_score"`
	TechnologyScore int `json:"technology_score"`
}

// FreshnessScore grades how current an article is. Score never exceeds the
// raw age score: content penalties only subtract.
type FreshnessScore struct {
	Score       int              `json:"score"` // 0-100
	AgeInDays   int              `json:"age_in_days"`
	AgeInMonths int              `json:"age_in_months"`
	IsStale     bool             `json:"is_stale"`
	Factors     FreshnessFactors `json:"factors"`
}

// OutdatedType classifies a stale reference.
type OutdatedType string

const (
	OutdatedYear       OutdatedType = "year"
	OutdatedDate       OutdatedType = "date"
	OutdatedStatistic  OutdatedType = "statistic"
	OutdatedTechnology OutdatedType = "technology"
	OutdatedProduct    OutdatedType = "product"
)

// Confidence grades how certain a detector is that a reference is stale.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// OutdatedItem is one detected stale reference. Items are deduplicated only
// by exact Content match.
type OutdatedItem struct {
	Type       OutdatedType `json:"type"`
	Content    string       `json:"content"`
	Reason     string       `json:"reason"`
	Confidence Confidence   `json:"confidence"`
	Location   string       `json:"location,omitempty"`
}

// FreshnessAnalysis is the complete freshness result for one article.
type FreshnessAnalysis struct {
	FreshnessScore  FreshnessScore `json:"freshness_score"`
	OutdatedItems   []OutdatedItem `json:"outdated_items"`
	Recommendations []string       `json:"recommendations"`
	NeedsUpdate     bool           `json:"needs_update"`
}

// RankingData is one keyword ranking observation supplied by the caller.
// Positive Change means the position regressed (5 -> 10 is +5).
type RankingData struct {
	Keyword          string `json:"keyword"`
	Position         int    `json:"position"`
	PreviousPosition *int   `json:"previous_position,omitempty"`
	Change           int    `json:"change"`
	URL              string `json:"url,omitempty"`
}

// RefreshPriority is the four-level urgency ladder.
type RefreshPriority string

const (
	PriorityUrgent RefreshPriority = "urgent"
	PriorityHigh   RefreshPriority = "high"
	PriorityMedium RefreshPriority = "medium"
	PriorityLow    RefreshPriority = "low"
)

// UpdateType classifies a suggested refresh action.
type UpdateType string

const (
	UpdateContent  UpdateType = "content"
	UpdateStats    UpdateType = "stats"
	UpdateLinks    UpdateType = "links"
	UpdateImages   UpdateType = "images"
	UpdateKeywords UpdateType = "keywords"
)

// SuggestedUpdate is one typed refresh action with a 1-10 priority.
type SuggestedUpdate struct {
	Type        UpdateType `json:"type"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
}

// SectionUpdate groups outdated references under the section containing them.
type SectionUpdate struct {
	Section     string   `json:"section"`
	Reason      string   `json:"reason"`
	Priority    string   `json:"priority"` // high|medium|low
	Suggestions []string `json:"suggestions"`
}

// OutdatedInfo ties a stale reference to the section it lives in.
type OutdatedInfo struct {
	Section string `json:"section"`
	Content string `json:"content"`
	Reason  string `json:"reason"`
}

// RefreshAnalysis aggregates freshness, outdated evidence, and ranking
// decline into a prioritized refresh plan. Created on demand; not stored.
type RefreshAnalysis struct {
	ArticleID        string            `json:"article_id"`
	ArticleSlug      string            `json:"article_slug"`
	AgeInMonths      int               `json:"age_in_months"`
	CurrentRankings  []RankingData     `json:"current_rankings"`
	RankingDecline   float64           `json:"ranking_decline"` // 0-1 normalized
	NeedsRefresh     bool              `json:"needs_refresh"`
	RefreshPriority  RefreshPriority   `json:"refresh_priority"`
	Reasons          []string          `json:"reasons"`
	SuggestedUpdates []SuggestedUpdate `json:"suggested_updates"`
	Sections         []SectionUpdate   `json:"sections"`
	OutdatedInfo     []OutdatedInfo    `json:"outdated_info"`
}
