package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/contentiq/contentiq/internal/llm"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
)

// CompetitorEntities extracts entities from each competitor text and returns
// a mention-frequency map keyed by canonical (lowercased) entity name.
// Individual extraction failures skip that document; the map is best-effort.
func (e *Extractor) CompetitorEntities(ctx context.Context, texts []string, keyword string) (map[string]int, error) {
	frequency := make(map[string]int)
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := e.Extract(ctx, text, keyword)
		if err != nil {
			return nil, fmt.Errorf("competitor %d: %w", i, err)
		}
		for _, entity := range result.Entities {
			frequency[canonicalName(entity.Name)] += entity.Mentions
		}
	}
	return frequency, nil
}

// MergeEntityData combines the article's own entities with the competitor
// frequency map. Own entities gain CompetitorMentions and a recomputed
// importance; entities only the competitors discuss are appended as missing
// when they clear the mention floor.
func MergeEntityData(own []models.Entity, competitorFrequency map[string]int) []models.Entity {
	merged := make([]models.Entity, 0, len(own))
	seen := make(map[string]bool, len(own))

	for _, entity := range own {
		key := canonicalName(entity.Name)
		seen[key] = true
		entity.CompetitorMentions = competitorFrequency[key]
		entity.Importance = combinedImportance(entity.Mentions, entity.CompetitorMentions, entity.Importance)
		merged = append(merged, entity)
	}

	for name, mentions := range competitorFrequency {
		if seen[name] || mentions < competitorOnlyMentionFloor {
			continue
		}
		entity := models.NewEntity(displayName(name), models.EntityConcept, 0, models.EstimateImportance(mentions))
		entity.CompetitorMentions = mentions
		merged = append(merged, entity)
	}

	return merged
}

// Entities the article never mentions need this many competitor mentions
// before they count as a real gap rather than extraction noise.
const competitorOnlyMentionFloor = 5

// combinedImportance keeps the model's judgment when present and lifts it
// when the competitor corpus leans on the entity harder than we do.
func combinedImportance(mentions, competitorMentions, modelScore int) int {
	derived := models.EstimateImportance(competitorMentions)
	if mentions > 0 && modelScore > derived {
		return modelScore
	}
	if derived > modelScore {
		return derived
	}
	return modelScore
}

func canonicalName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func displayName(canonical string) string {
	words := strings.Fields(canonical)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type placementResponse struct {
	Section string `json:"section"`
	Context string `json:"context"`
}

// SuggestPlacement asks the model where a missing entity should be
// introduced in the article. Returns nil (no suggestion) on any model or
// parse failure other than a fatal provider error.
func (e *Extractor) SuggestPlacement(ctx context.Context, entity models.Entity, articleHTML, keyword string) (*models.EntityPlacement, error) {
	if e.model == nil {
		return nil, nil
	}

	structure := parser.ParsePage(articleHTML, "")
	headings := strings.Join(structure.Headings, "\n- ")

	systemPrompt := `You are a content strategist. Suggest where a missing entity should be introduced in an article.

Output a single JSON object, no other text:
{"section": "existing heading text", "context": "one sentence describing how to introduce the entity naturally"}`

	userPrompt := fmt.Sprintf(`Article keyword: %s
Entity to introduce: %s (type: %s, competitors mention it %dx)

Existing sections:
- %s

JSON:`, keyword, entity.Name, entity.Type, entity.CompetitorMentions, headings)

	raw, err := e.model.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		if errors.Is(err, llm.ErrFatalAPI) || ctx.Err() != nil {
			return nil, err
		}
		slog.Debug("placement suggestion failed", "entity", entity.Name, "error", err)
		return nil, nil
	}

	var resp placementResponse
	if err := llm.DecodeJSON(raw, &resp); err != nil || resp.Section == "" {
		return nil, nil
	}
	return &models.EntityPlacement{Section: resp.Section, Context: resp.Context}, nil
}
