// Package freshness grades how current an article is. Age decays along a
// fixed piecewise curve; rule-based detectors add evidence of stale dates,
// statistics, and technology references, which can only lower the score.
package freshness

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/models"
)

// Analyzer runs freshness and refresh analysis. Safe for concurrent use.
type Analyzer struct {
	thresholds config.Thresholds
	clock      func() time.Time
}

func New(thresholds config.Thresholds) *Analyzer {
	return &Analyzer{thresholds: thresholds, clock: time.Now}
}

// AnalyzeAge scores the article purely on time since its last update.
//
// 0-90 days scores 100, 90-180 decays linearly to 80, 180-365 decays
// linearly to 50, and beyond a year the score falls 15 points per year
// toward zero.
func (a *Analyzer) AnalyzeAge(lastUpdated time.Time) models.FreshnessScore {
	ageInDays := int(a.clock().Sub(lastUpdated).Hours() / 24)
	if ageInDays < 0 {
		ageInDays = 0
	}
	ageInMonths := ageInDays / 30
	staleDays := a.thresholds.FreshnessThresholdDays

	ageScore := 100.0
	switch {
	case ageInDays > 90 && ageInDays <= staleDays:
		ageScore = 100 - float64(ageInDays-90)/90*20
	case ageInDays > staleDays && ageInDays <= 365:
		ageScore = 80 - float64(ageInDays-staleDays)/185*30
	case ageInDays > 365:
		yearsOld := float64(ageInDays) / 365
		ageScore = math.Max(0, 50-yearsOld*15)
	}

	rounded := int(math.Round(ageScore))
	return models.FreshnessScore{
		Score:       rounded,
		AgeInDays:   ageInDays,
		AgeInMonths: ageInMonths,
		IsStale:     ageInDays > staleDays,
		Factors: models.FreshnessFactors{
			AgeScore:        rounded,
			ContentScore:    100,
			DateScore:       100,
			TechnologyScore: 100,
		},
	}
}

// overallScore subtracts content penalties from the raw age score: a density
// penalty (items per 1000 characters, capped at 30) and a high-confidence
// penalty (5 per item, capped at 20). Penalties never raise the score.
func overallScore(ageScore models.FreshnessScore, contentLength int, items []models.OutdatedItem) int {
	score := float64(ageScore.Score)

	if contentLength > 0 {
		density := float64(len(items)) / (float64(contentLength) / 1000)
		score -= math.Min(30, density*10)
	}

	highConfidence := 0
	for _, item := range items {
		if item.Confidence == models.ConfidenceHigh {
			highConfidence++
		}
	}
	score -= math.Min(20, float64(highConfidence)*5)

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// dedupeItems keeps the first item per exact matched text.
func dedupeItems(items []models.OutdatedItem) []models.OutdatedItem {
	seen := make(map[string]struct{}, len(items))
	unique := items[:0:0]
	for _, item := range items {
		if _, ok := seen[item.Content]; ok {
			continue
		}
		seen[item.Content] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// Analyze runs the full freshness pass: age decay, all detectors, penalty
// scoring, and human-readable recommendations.
func (a *Analyzer) Analyze(content string, lastUpdated time.Time) models.FreshnessAnalysis {
	age := a.AnalyzeAge(lastUpdated)

	dates := a.DetectOutdatedDates(content)
	stats := a.DetectOutdatedStatistics(content)
	tech := a.DetectOutdatedTechnologies(content)

	all := make([]models.OutdatedItem, 0, len(dates)+len(stats)+len(tech))
	all = append(all, dates...)
	all = append(all, stats...)
	all = append(all, tech...)
	unique := dedupeItems(all)

	score := overallScore(age, len(content), unique)
	age.Score = score
	age.Factors.ContentScore = clampFactor(100 - len(unique)*5)
	age.Factors.DateScore = clampFactor(100 - len(dates)*10)
	age.Factors.TechnologyScore = clampFactor(100 - len(tech)*15)

	return models.FreshnessAnalysis{
		FreshnessScore:  age,
		OutdatedItems:   unique,
		Recommendations: a.recommendations(age, dates, stats, tech, score),
		NeedsUpdate:     score < 70 || age.IsStale,
	}
}

func (a *Analyzer) recommendations(age models.FreshnessScore, dates, stats, tech []models.OutdatedItem, score int) []string {
	var recs []string

	if age.AgeInMonths > 6 {
		recs = append(recs, fmt.Sprintf("Article is %d months old - consider updating", age.AgeInMonths))
	}
	if len(dates) > 0 {
		recs = append(recs, fmt.Sprintf("Update %d outdated date reference(s): %s",
			len(dates), summarizeContents(dates, 3)))
	}
	if len(stats) > 0 {
		recs = append(recs, fmt.Sprintf("Refresh %d statistic(s) with current data", len(stats)))
	}
	if len(tech) > 0 {
		recs = append(recs, fmt.Sprintf("Update references to: %s", summarizeFirstWords(tech, 3)))
	}
	if score < 50 {
		recs = append(recs, "Overall freshness is low - consider a comprehensive content refresh")
	}
	if len(recs) == 0 {
		recs = append(recs, "Content is fresh - no immediate updates needed")
	}
	return recs
}

// summarizeContents joins up to max distinct matched texts, appending "..."
// when more exist.
func summarizeContents(items []models.OutdatedItem, max int) string {
	var distinct []string
	seen := make(map[string]struct{})
	for _, item := range items {
		if _, ok := seen[item.Content]; ok {
			continue
		}
		seen[item.Content] = struct{}{}
		distinct = append(distinct, item.Content)
	}
	return joinCapped(distinct, max)
}

// summarizeFirstWords is summarizeContents over the first word of each match,
// so "React 16" and "React 15" collapse to one "React".
func summarizeFirstWords(items []models.OutdatedItem, max int) string {
	var distinct []string
	seen := make(map[string]struct{})
	for _, item := range items {
		word, _, _ := strings.Cut(item.Content, " ")
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		distinct = append(distinct, word)
	}
	return joinCapped(distinct, max)
}

func joinCapped(values []string, max int) string {
	if len(values) <= max {
		return strings.Join(values, ", ")
	}
	return strings.Join(values[:max], ", ") + "..."
}

func clampFactor(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
