package coverage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/models"
)

// MissingSubtopics lists subtopics the article skips that at least half of
// the competitors cover.
func MissingSubtopics(coverage models.TopicCoverage) []string {
	var missing []string
	for _, st := range coverage.RequiredSubtopics {
		if !st.Covered && st.CompetitorCoverage >= 50 {
			missing = append(missing, st.Topic)
		}
	}
	return missing
}

// UnderUtilizedKeywords lists relevant keywords present in the article but
// used at less than 60% of their suggested frequency.
func UnderUtilizedKeywords(coverage models.TopicCoverage) []models.KeywordUsage {
	var out []models.KeywordUsage
	for _, kw := range coverage.SemanticKeywords {
		if kw.Present && kw.Relevance >= 60 && float64(kw.Frequency) < float64(kw.SuggestedFrequency)*0.6 {
			out = append(out, models.KeywordUsage{
				Keyword:   kw.Keyword,
				Current:   kw.Frequency,
				Suggested: kw.SuggestedFrequency,
			})
		}
	}
	return out
}

// MissingKeywords lists relevant keywords absent from the article, sorted
// by descending relevance.
func MissingKeywords(coverage models.TopicCoverage) []string {
	var absent []models.SemanticKeyword
	for _, kw := range coverage.SemanticKeywords {
		if !kw.Present && kw.Relevance >= 60 {
			absent = append(absent, kw)
		}
	}
	sort.SliceStable(absent, func(i, j int) bool { return absent[i].Relevance > absent[j].Relevance })

	out := make([]string, len(absent))
	for i, kw := range absent {
		out[i] = kw.Keyword
	}
	return out
}

// Gaps summarizes how the article trails its competitive set.
func Gaps(coverage models.TopicCoverage, thresholds config.Thresholds) models.CoverageGaps {
	gaps := models.CoverageGaps{
		ScoreGap: coverage.Completeness - coverage.CompetitorAverage,
	}
	for _, e := range coverage.Entities {
		if e.Coverage == models.CoverageMissing && e.CompetitorMentions >= thresholds.MinEntityMentions {
			gaps.MissingEntities++
		}
	}
	for _, st := range coverage.RequiredSubtopics {
		if !st.Covered && st.CompetitorCoverage >= 50 {
			gaps.MissingSubtopics++
		}
	}
	for _, kw := range coverage.SemanticKeywords {
		if !kw.Present && kw.Relevance >= 60 {
			gaps.MissingKeywords++
		}
	}
	return gaps
}

// Recommendations turns a coverage analysis into prioritized, actionable
// suggestions.
func Recommendations(coverage models.TopicCoverage, thresholds config.Thresholds) []string {
	var recs []string
	gaps := Gaps(coverage, thresholds)

	if coverage.Completeness < thresholds.TargetCompleteness {
		recs = append(recs, fmt.Sprintf(
			"Improve overall topic completeness by %d%% to reach target of %d%%",
			thresholds.TargetCompleteness-coverage.Completeness, thresholds.TargetCompleteness))
	}

	if missing := MissingSubtopics(coverage); len(missing) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Add sections on: %s (covered by most competitors)",
			strings.Join(firstN(missing, 3), ", ")))
	}

	var shallow []string
	for _, st := range coverage.RequiredSubtopics {
		if st.Covered && st.Depth == models.DepthShallow && st.CompetitorCoverage >= 60 {
			shallow = append(shallow, st.Topic)
		}
	}
	if len(shallow) > 0 {
		recs = append(recs, fmt.Sprintf("Expand coverage of: %s", strings.Join(firstN(shallow, 3), ", ")))
	}

	var missingEntities []string
	for _, e := range coverage.Entities {
		if e.Coverage == models.CoverageMissing && e.Importance >= 70 {
			missingEntities = append(missingEntities, e.Name)
		}
	}
	if len(missingEntities) > 0 {
		recs = append(recs, fmt.Sprintf("Mention important entities: %s", strings.Join(firstN(missingEntities, 3), ", ")))
	}

	if under := UnderUtilizedKeywords(coverage); len(under) > 0 {
		names := make([]string, 0, 2)
		for _, kw := range firstNUsage(under, 2) {
			names = append(names, kw.Keyword)
		}
		recs = append(recs, fmt.Sprintf("Increase usage of semantic keywords: %s", strings.Join(names, ", ")))
	}

	if missing := MissingKeywords(coverage); len(missing) > 0 {
		recs = append(recs, fmt.Sprintf("Incorporate missing semantic keywords: %s", strings.Join(firstN(missing, 3), ", ")))
	}

	switch {
	case gaps.ScoreGap < -10:
		recs = append(recs, fmt.Sprintf(
			"Your article scores %d%% below competitor average - focus on content gaps", -gaps.ScoreGap))
	case gaps.ScoreGap > 10:
		recs = append(recs, fmt.Sprintf(
			"Your article scores %d%% above competitor average - maintain quality", gaps.ScoreGap))
	}

	return recs
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func firstNUsage(items []models.KeywordUsage, n int) []models.KeywordUsage {
	if len(items) > n {
		return items[:n]
	}
	return items
}
