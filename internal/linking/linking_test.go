package linking

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"mismatched length", []float32{1, 2}, []float32{1, 2, 3}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// fakeModel always proposes the same placement with a per-target score.
type fakeModel struct {
	scores map[string]int // slug -> relevance; missing means not relevant
}

func (f *fakeModel) GenerateWithSystem(_ context.Context, _, userPrompt string) (string, error) {
	for slug, score := range f.scores {
		if strings.Contains(userPrompt, "slug-marker:"+slug) {
			return fmt.Sprintf(`{
				"anchorText": "related guide",
				"paragraphIndex": 1,
				"sentenceIndex": 0,
				"position": 50,
				"context": "some sentence",
				"relevanceScore": %d,
				"reasoning": "overlapping topic",
				"bidirectional": false
			}`, score), nil
		}
	}
	return `{"relevant": false, "reason": "unrelated"}`, nil
}

// fixedCache returns precomputed vectors by article id.
type fixedCache struct {
	vectors map[string][]float32
}

func (f *fixedCache) GetOrCreate(_ context.Context, articleID, _ string) ([]float32, error) {
	v, ok := f.vectors[articleID]
	if !ok {
		return nil, fmt.Errorf("no vector for %s", articleID)
	}
	return v, nil
}

func fastThresholds() config.Thresholds {
	th := config.DefaultThresholds()
	th.LLMCallDelayMs = 0
	return th
}

func candidate(id string) models.PublishedArticle {
	return models.PublishedArticle{
		ID:           id,
		Slug:         id,
		Title:        "Title " + id,
		Content:      "body of " + id,
		FocusKeyword: "slug-marker:" + id,
	}
}

const currentText = `First paragraph about react hooks. It explains state.

Second paragraph goes deeper. It covers effects. It mentions cleanup.`

func TestSuggestLinksNearDuplicateScenario(t *testing.T) {
	// duplicate is nearly parallel to the current vector, unrelated is
	// nearly orthogonal. Only the duplicate may be suggested.
	cache := &fixedCache{vectors: map[string][]float32{
		"current":   {1, 0, 0},
		"duplicate": {0.98, 0.05, 0},
		"unrelated": {0.02, 1, 0},
	}}
	model := &fakeModel{scores: map[string]int{"duplicate": 88, "unrelated": 90}}

	s := New(model, cache, fastThresholds())
	analysis, err := s.SuggestLinks(context.Background(),
		CurrentArticle{ID: "current", Title: "Current", Content: currentText, FocusKeyword: "react hooks"},
		[]models.PublishedArticle{candidate("duplicate"), candidate("unrelated")},
	)
	require.NoError(t, err)

	require.Len(t, analysis.Suggestions, 1)
	assert.Equal(t, "duplicate", analysis.Suggestions[0].TargetArticle.Slug)
	assert.Greater(t, analysis.Suggestions[0].SemanticSimilarity, 0.9)
	assert.Equal(t, models.StatusSuggested, analysis.Suggestions[0].Status)
}

func TestSuggestLinksFilteredAndSorted(t *testing.T) {
	vectors := map[string][]float32{"current": {1, 0}}
	scores := map[string]int{}
	var candidates []models.PublishedArticle
	for i, score := range []int{75, 90, 60, 82} {
		id := fmt.Sprintf("a%d", i)
		vectors[id] = []float32{1, float32(i) * 0.01}
		scores[id] = score
		candidates = append(candidates, candidate(id))
	}

	s := New(&fakeModel{scores: scores}, &fixedCache{vectors: vectors}, fastThresholds())
	analysis, err := s.SuggestLinks(context.Background(),
		CurrentArticle{ID: "current", Title: "Current", Content: currentText, FocusKeyword: "kw"},
		candidates,
	)
	require.NoError(t, err)

	// 60 is below the floor of 70; the rest come back highest first.
	require.Len(t, analysis.Suggestions, 3)
	last := 101
	for _, sug := range analysis.Suggestions {
		assert.GreaterOrEqual(t, sug.RelevanceScore, s.thresholds.MinRelevanceScore)
		assert.LessOrEqual(t, sug.RelevanceScore, last)
		last = sug.RelevanceScore
	}
	assert.Equal(t, 90, analysis.Suggestions[0].RelevanceScore)
}

func TestSuggestLinksEmptyCandidates(t *testing.T) {
	s := New(&fakeModel{}, &fixedCache{vectors: map[string][]float32{"current": {1}}}, fastThresholds())

	analysis, err := s.SuggestLinks(context.Background(),
		CurrentArticle{ID: "current", Content: currentText}, nil)
	require.NoError(t, err, "zero candidates is a valid empty result")

	assert.Empty(t, analysis.Suggestions)
	assert.True(t, analysis.Metrics.OrphanedContent)
	assert.Zero(t, analysis.Metrics.TopicClusterCoverage)
}

func TestSuggestLinksEmptyArticle(t *testing.T) {
	s := New(&fakeModel{}, &fixedCache{}, fastThresholds())
	_, err := s.SuggestLinks(context.Background(), CurrentArticle{ID: "x", Content: "   "}, nil)
	require.Error(t, err, "unreadable primary article is the one hard failure")
}

func TestSuggestLinksSkipsSelf(t *testing.T) {
	cache := &fixedCache{vectors: map[string][]float32{"current": {1, 0}}}
	s := New(&fakeModel{}, cache, fastThresholds())

	analysis, err := s.SuggestLinks(context.Background(),
		CurrentArticle{ID: "current", Content: currentText},
		[]models.PublishedArticle{candidate("current")},
	)
	require.NoError(t, err)
	assert.Empty(t, analysis.Suggestions)
}

func TestSuggestLinksCountsExistingLinks(t *testing.T) {
	content := `<p>Intro with <a href="/articles/old-post">an existing link</a> in it.</p>
<p>More text follows here.</p>`

	s := New(&fakeModel{}, &fixedCache{vectors: map[string][]float32{"current": {1}}}, fastThresholds())
	analysis, err := s.SuggestLinks(context.Background(),
		CurrentArticle{ID: "current", Content: content}, nil)
	require.NoError(t, err)

	require.Len(t, analysis.ExistingLinks, 1)
	assert.Equal(t, "old-post", analysis.ExistingLinks[0].TargetID)
	assert.Equal(t, 1, analysis.Metrics.TotalInternalLinks)
	assert.False(t, analysis.Metrics.OrphanedContent)
}

func TestMetricsClusterCoverage(t *testing.T) {
	s := New(&fakeModel{}, &fixedCache{}, fastThresholds())

	m := s.metrics(nil, make([]models.InternalLinkSuggestion, 5))
	assert.InDelta(t, 100.0, m.TopicClusterCoverage, 0.01)
	assert.Equal(t, s.thresholds.IdealLinksMin, m.OptimalRangeMin)
	assert.Equal(t, s.thresholds.IdealLinksMax, m.OptimalRangeMax)

	m = s.metrics(nil, make([]models.InternalLinkSuggestion, 2))
	assert.InDelta(t, 40.0, m.TopicClusterCoverage, 0.01)
}
