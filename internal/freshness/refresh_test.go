package freshness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentiq/contentiq/internal/models"
)

func intPtr(v int) *int { return &v }

func TestRankingDecline(t *testing.T) {
	tests := []struct {
		name     string
		rankings []models.RankingData
		want     float64
	}{
		{"no rankings", nil, 0},
		{"no history", []models.RankingData{{Keyword: "a", Position: 5, Change: 3}}, 0},
		{
			"average regression normalized",
			[]models.RankingData{
				{Keyword: "a", Position: 10, PreviousPosition: intPtr(5), Change: 5},
				{Keyword: "b", Position: 8, PreviousPosition: intPtr(3), Change: 5},
			},
			0.5,
		},
		{
			"improvement counts as zero decline",
			[]models.RankingData{
				{Keyword: "a", Position: 3, PreviousPosition: intPtr(8), Change: -5},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, rankingDecline(tt.rankings), 1e-9)
		})
	}
}

func TestPriorityLevel(t *testing.T) {
	tests := []struct {
		name      string
		freshness int
		decline   float64
		months    int
		outdated  int
		want      models.RefreshPriority
	}{
		// 30 + 30 + 15 + 10 = 85
		{"stale declining old article", 45, 0.25, 18, 12, models.PriorityUrgent},
		// 10 + 0 + 0 + 0 = 10
		{"fresh article", 95, 0, 1, 0, models.PriorityLow},
		// 20 + 0 + 10 + 5 = 35
		{"aging with some issues", 65, 0, 7, 5, models.PriorityMedium},
		// 30 + 10 + 15 + 0 = 55
		{"low freshness year old", 40, 0.1, 13, 2, models.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := priorityLevel(tt.freshness, tt.decline, tt.months, tt.outdated, 0.2)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIdentifySectionsAttributesItems(t *testing.T) {
	a := newTestAnalyzer()

	content := `<h2>Market Overview</h2>
<p>As of 2022, the market held steady with 35% market share for the leader.</p>
<h2>Getting Started</h2>
<p>Install the latest release and follow the guide.</p>`

	items := []models.OutdatedItem{
		{Type: models.OutdatedDate, Content: "As of 2022", Confidence: models.ConfidenceHigh},
		{Type: models.OutdatedStatistic, Content: "35% market share", Confidence: models.ConfidenceHigh},
	}

	sections := a.identifySections(content, items)
	require.Len(t, sections, 1, "only the section containing items is reported")
	assert.Equal(t, "Market Overview", sections[0].Section)
	assert.Equal(t, "Contains 2 outdated reference(s)", sections[0].Reason)
	assert.NotEmpty(t, sections[0].Suggestions)
}

func TestIdentifySectionsNoHeadings(t *testing.T) {
	a := newTestAnalyzer()

	items := []models.OutdatedItem{
		{Type: models.OutdatedStatistic, Content: "70% of users", Confidence: models.ConfidenceHigh},
		{Type: models.OutdatedTechnology, Content: "React 16", Confidence: models.ConfidenceMedium},
	}

	sections := a.identifySections("<p>Flat content with no headings.</p>", items)
	require.Len(t, sections, 1)
	assert.Equal(t, "Main Content", sections[0].Section)
	assert.Equal(t, "medium", sections[0].Priority)
	assert.Contains(t, sections[0].Suggestions, "Refresh statistics with current data")
	assert.Contains(t, sections[0].Suggestions, "Update technology versions and references")

	assert.Empty(t, a.identifySections("<p>Flat and clean.</p>", nil))
}

func TestIdentifySectionsPriorityLadder(t *testing.T) {
	high := models.OutdatedItem{Type: models.OutdatedDate, Content: "2021", Confidence: models.ConfidenceHigh}
	stat := models.OutdatedItem{Type: models.OutdatedStatistic, Content: "50% of teams", Confidence: models.ConfidenceMedium}

	// Two statistics push a section to high priority.
	s := sectionUpdate("Stats", []models.OutdatedItem{stat, {Type: models.OutdatedStatistic, Content: "8% growth", Confidence: models.ConfidenceMedium}})
	assert.Equal(t, "high", s.Priority)

	// A single high-confidence item is medium.
	s = sectionUpdate("Dates", []models.OutdatedItem{high})
	assert.Equal(t, "medium", s.Priority)

	// One medium item stays low.
	s = sectionUpdate("Misc", []models.OutdatedItem{stat})
	assert.Equal(t, "low", s.Priority)
}

func TestRecommendNewSections(t *testing.T) {
	suggestions := recommendNewSections([]string{"Best Practices for 2026", "FAQ", "Introduction"})

	var titles []string
	for _, s := range suggestions {
		titles = append(titles, s.Title)
	}
	assert.NotContains(t, titles, "Best Practices")
	assert.NotContains(t, titles, "Frequently Asked Questions (FAQ)")
	assert.Contains(t, titles, "Common Mistakes to Avoid")
	assert.Contains(t, titles, "Future Trends")
}

func TestSuggestRefresh(t *testing.T) {
	a := newTestAnalyzer()

	content := `<h2>Adoption Numbers</h2>
<p>As of 2022, 10 million users relied on React 16.</p>
<h2>Setup</h2>
<p>Run the installer.</p>`

	fresh := a.Analyze(content, daysAgo(600))
	require.True(t, fresh.NeedsUpdate)

	rankings := []models.RankingData{
		{Keyword: "react guide", Position: 12, PreviousPosition: intPtr(4), Change: 8},
	}

	analysis := a.SuggestRefresh("art-1", "react-guide", content, "react guide", daysAgo(600), rankings, fresh)

	assert.Equal(t, "art-1", analysis.ArticleID)
	assert.Equal(t, "react-guide", analysis.ArticleSlug)
	assert.Equal(t, 20, analysis.AgeInMonths)
	assert.InDelta(t, 0.8, analysis.RankingDecline, 0.001)
	assert.True(t, analysis.NeedsRefresh)
	assert.Equal(t, models.PriorityUrgent, analysis.RefreshPriority)
	assert.NotEmpty(t, analysis.Reasons)

	// Updates come back highest priority first and stay within 1-10.
	require.NotEmpty(t, analysis.SuggestedUpdates)
	last := 11
	for _, u := range analysis.SuggestedUpdates {
		assert.LessOrEqual(t, u.Priority, last)
		assert.GreaterOrEqual(t, u.Priority, 1)
		assert.LessOrEqual(t, u.Priority, 10)
		last = u.Priority
	}

	// Age over 18 months triggers the link, image, and keyword refreshes.
	var types []models.UpdateType
	for _, u := range analysis.SuggestedUpdates {
		types = append(types, u.Type)
	}
	assert.Contains(t, types, models.UpdateLinks)
	assert.Contains(t, types, models.UpdateImages)
	assert.Contains(t, types, models.UpdateKeywords)
	assert.Contains(t, types, models.UpdateStats)

	// Outdated evidence is carried through with its section context.
	require.NotEmpty(t, analysis.OutdatedInfo)
	for _, info := range analysis.OutdatedInfo {
		assert.NotEmpty(t, info.Section)
		assert.NotEmpty(t, info.Content)
	}

	// The section update names the heading that contains the stale claims.
	foundSection := false
	for _, u := range analysis.SuggestedUpdates {
		if u.Type == models.UpdateContent && strings.Contains(u.Description, "Adoption Numbers") {
			foundSection = true
		}
	}
	assert.True(t, foundSection)
}
