// Package coverage scores how completely an article treats its topic
// relative to a competitive set: merged entity coverage, required subtopics,
// and semantic keyword usage combined into one 0-100 completeness score.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/extract"
	"github.com/contentiq/contentiq/internal/llm"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
)

// Scorer produces TopicCoverage analyses.
type Scorer struct {
	model      extract.LanguageModel
	extractor  *extract.Extractor
	thresholds config.Thresholds
}

// New creates a scorer. The extractor and scorer share the same model.
func New(model extract.LanguageModel, thresholds config.Thresholds) *Scorer {
	return &Scorer{
		model:      model,
		extractor:  extract.New(model),
		thresholds: thresholds,
	}
}

// Score analyzes one article against zero or more competitor articles.
// Zero competitors is a valid solo audit: competitor-derived terms stay
// empty and the competitor average is 0. Inputs may be HTML or plain text.
func (s *Scorer) Score(ctx context.Context, articleContent, keyword string, competitorArticles []string) (models.TopicCoverage, error) {
	if strings.TrimSpace(articleContent) == "" {
		return models.TopicCoverage{}, fmt.Errorf("score %q: empty article", keyword)
	}

	if len(competitorArticles) > s.thresholds.MaxCompetitors {
		competitorArticles = competitorArticles[:s.thresholds.MaxCompetitors]
	}

	plainText := parser.StripHTML(articleContent)
	competitorTexts := make([]string, len(competitorArticles))
	for i, c := range competitorArticles {
		competitorTexts[i] = parser.StripHTML(c)
	}

	own, err := s.extractor.Extract(ctx, plainText, keyword)
	if err != nil {
		return models.TopicCoverage{}, fmt.Errorf("extract article entities: %w", err)
	}

	competitorFrequency := map[string]int{}
	if len(competitorTexts) > 0 {
		competitorFrequency, err = s.extractor.CompetitorEntities(ctx, competitorTexts, keyword)
		if err != nil {
			return models.TopicCoverage{}, fmt.Errorf("extract competitor entities: %w", err)
		}
	}
	entities := extract.MergeEntityData(own.Entities, competitorFrequency)

	subtopics := s.requiredSubtopics(ctx, plainText, keyword, competitorTexts)
	keywords := s.semanticKeywords(ctx, plainText, keyword, competitorTexts)

	entities, err = s.addPlacements(ctx, entities, articleContent, keyword)
	if err != nil {
		return models.TopicCoverage{}, err
	}

	return models.TopicCoverage{
		MainTopic:         keyword,
		RequiredSubtopics: subtopics,
		SemanticKeywords:  keywords,
		Entities:          entities,
		Completeness:      s.Completeness(entities, subtopics, keywords),
		CompetitorAverage: CompetitorAverage(subtopics),
	}, nil
}

type subtopicResponse struct {
	Subtopics []struct {
		Topic              string `json:"topic"`
		Covered            bool   `json:"covered"`
		Depth              string `json:"depth"`
		CompetitorCoverage int    `json:"competitorCoverage"`
	} `json:"subtopics"`
}

func (s *Scorer) requiredSubtopics(ctx context.Context, yourText, keyword string, competitorTexts []string) []models.Subtopic {
	if s.model == nil {
		return nil
	}

	var sample strings.Builder
	for i, text := range competitorTexts {
		fmt.Fprintf(&sample, "## Competitor %d:\n%s\n\n", i+1, parser.Truncate(text, 2000))
	}

	systemPrompt := `You are a content analysis specialist. Identify the subtopics an article about a keyword must cover, and judge how the given article handles each.

Depth definitions:
- shallow: briefly mentioned, no explanation (1-2 sentences)
- medium: explained with some detail (1-2 paragraphs)
- deep: thoroughly explained with examples or detailed analysis (3+ paragraphs)

Output a single JSON object, no other text:
{"subtopics": [{"topic": "...", "covered": true, "depth": "shallow|medium|deep", "competitorCoverage": 85}]}

Identify 8-15 essential subtopics. competitorCoverage is the percentage of competitors covering the subtopic. Focus on substantive subtopics, not minor details.`

	userPrompt := fmt.Sprintf(`Keyword: %s

## YOUR ARTICLE:
%s

## COMPETITOR ARTICLES:
%s
JSON:`, keyword, parser.Truncate(yourText, 3000), sample.String())

	var resp subtopicResponse
	if !s.callJSON(ctx, "subtopic analysis", systemPrompt, userPrompt, &resp) {
		return nil
	}

	subtopics := make([]models.Subtopic, 0, len(resp.Subtopics))
	for _, st := range resp.Subtopics {
		if st.Topic == "" {
			continue
		}
		subtopics = append(subtopics, models.Subtopic{
			Topic:              st.Topic,
			Covered:            st.Covered,
			Depth:              parseDepth(st.Depth),
			CompetitorCoverage: clampPercent(st.CompetitorCoverage),
		})
	}
	return subtopics
}

type keywordResponse struct {
	Keywords []struct {
		Keyword            string `json:"keyword"`
		Relevance          int    `json:"relevance"`
		Present            bool   `json:"present"`
		Frequency          int    `json:"frequency"`
		SuggestedFrequency int    `json:"suggestedFrequency"`
	} `json:"keywords"`
}

func (s *Scorer) semanticKeywords(ctx context.Context, yourText, keyword string, competitorTexts []string) []models.SemanticKeyword {
	if s.model == nil {
		return nil
	}

	sample := "No competitor data available"
	if len(competitorTexts) > 0 {
		parts := make([]string, 0, 3)
		for _, text := range competitorTexts[:min(3, len(competitorTexts))] {
			parts = append(parts, parser.Truncate(text, 1500))
		}
		sample = strings.Join(parts, "\n\n")
	}

	systemPrompt := `You are an SEO specialist. Extract semantic and LSI keywords for a target keyword: terms that frequently co-occur with it, natural language variations, related technical terms, and common question phrases.

Relevance scoring: 90-100 core semantic keywords; 70-89 highly relevant supporting keywords; 50-69 moderately relevant context keywords; 30-49 tangential.

Output a single JSON object, no other text:
{"keywords": [{"keyword": "...", "relevance": 85, "present": true, "frequency": 3, "suggestedFrequency": 5}]}

Identify 15-25 keywords. present/frequency describe the given article; suggestedFrequency is based on its length.`

	userPrompt := fmt.Sprintf(`Keyword: %s

## YOUR ARTICLE:
%s

## COMPETITOR SAMPLES:
%s

JSON:`, keyword, parser.Truncate(yourText, 3000), sample)

	var resp keywordResponse
	if !s.callJSON(ctx, "semantic keyword extraction", systemPrompt, userPrompt, &resp) {
		return nil
	}

	keywords := make([]models.SemanticKeyword, 0, len(resp.Keywords))
	for _, kw := range resp.Keywords {
		if kw.Keyword == "" {
			continue
		}
		keywords = append(keywords, models.SemanticKeyword{
			Keyword:            kw.Keyword,
			Relevance:          clampPercent(kw.Relevance),
			Present:            kw.Present,
			Frequency:          kw.Frequency,
			SuggestedFrequency: kw.SuggestedFrequency,
		})
	}
	return keywords
}

// callJSON runs one model call and decodes the JSON response. Transport and
// parse failures log and return false so the stage degrades to an empty
// list, keeping the pipeline alive.
func (s *Scorer) callJSON(ctx context.Context, op, systemPrompt, userPrompt string, v any) bool {
	raw, err := s.model.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		if errors.Is(err, llm.ErrFatalAPI) || ctx.Err() != nil {
			slog.Error(op+" aborted", "error", err)
		} else {
			slog.Warn(op+" failed", "error", err)
		}
		return false
	}
	if err := llm.DecodeJSON(raw, v); err != nil {
		slog.Warn(op+" returned malformed JSON", "error", err)
		return false
	}
	return true
}

// addPlacements requests placement suggestions for important entities the
// article misses or barely mentions.
func (s *Scorer) addPlacements(ctx context.Context, entities []models.Entity, articleContent, keyword string) ([]models.Entity, error) {
	for i, entity := range entities {
		underCovered := entity.Coverage == models.CoverageMissing || entity.Coverage == models.CoverageMentioned
		if !underCovered || entity.Importance < s.thresholds.ImportantEntityScore {
			continue
		}
		placement, err := s.extractor.SuggestPlacement(ctx, entity, articleContent, keyword)
		if err != nil {
			return nil, fmt.Errorf("placement for %q: %w", entity.Name, err)
		}
		entities[i].SuggestedPlacement = placement
	}
	return entities, nil
}

// Completeness combines entity, subtopic, and keyword coverage into one
// 0-100 score: 40% important entities explained or detailed, 40% subtopics
// covered at medium or deep depth, 20% relevant keywords used at >=60% of
// their suggested frequency.
func (s *Scorer) Completeness(entities []models.Entity, subtopics []models.Subtopic, keywords []models.SemanticKeyword) int {
	if len(entities) == 0 && len(subtopics) == 0 && len(keywords) == 0 {
		return 0
	}

	var important, coveredEntities int
	for _, e := range entities {
		if e.Importance < s.thresholds.ImportantEntityScore {
			continue
		}
		important++
		if e.Coverage == models.CoverageExplained || e.Coverage == models.CoverageDetailed {
			coveredEntities++
		}
	}
	entityScore := 0.0
	if important > 0 {
		entityScore = float64(coveredEntities) / float64(important) * s.thresholds.EntityWeight * 100
	}

	coveredSubtopics := 0
	for _, st := range subtopics {
		if st.Covered && (st.Depth == models.DepthMedium || st.Depth == models.DepthDeep) {
			coveredSubtopics++
		}
	}
	subtopicScore := 0.0
	if len(subtopics) > 0 {
		subtopicScore = float64(coveredSubtopics) / float64(len(subtopics)) * s.thresholds.SubtopicWeight * 100
	}

	var relevant, present int
	for _, kw := range keywords {
		if kw.Relevance < 50 {
			continue
		}
		relevant++
		if kw.Present && float64(kw.Frequency) >= float64(kw.SuggestedFrequency)*0.6 {
			present++
		}
	}
	keywordScore := 0.0
	if relevant > 0 {
		keywordScore = float64(present) / float64(relevant) * s.thresholds.KeywordWeight * 100
	}

	total := entityScore + subtopicScore + keywordScore
	return int(math.Round(math.Min(100, math.Max(0, total))))
}

// CompetitorAverage is the mean competitor coverage across subtopics.
func CompetitorAverage(subtopics []models.Subtopic) int {
	if len(subtopics) == 0 {
		return 0
	}
	total := 0
	for _, st := range subtopics {
		total += st.CompetitorCoverage
	}
	return int(math.Round(float64(total) / float64(len(subtopics))))
}

func parseDepth(s string) models.SubtopicDepth {
	switch models.SubtopicDepth(strings.ToLower(s)) {
	case models.DepthMedium:
		return models.DepthMedium
	case models.DepthDeep:
		return models.DepthDeep
	default:
		return models.DepthShallow
	}
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
