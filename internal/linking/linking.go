// Package linking suggests internal links for an article: embedding
// similarity picks candidate targets, a language-model call proposes the
// anchor text and placement for each, and suggestions below the relevance
// floor are dropped before they are ever materialized.
package linking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/llm"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
	"github.com/contentiq/contentiq/internal/store"
)

// internalPathPrefix is the article namespace existing links are matched
// against.
const internalPathPrefix = "/articles/"

const embedConcurrency = 4

// LanguageModel is the placement-reasoning collaborator.
type LanguageModel interface {
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// CurrentArticle is the article link suggestions are generated for.
type CurrentArticle struct {
	ID           string
	Title        string
	Content      string // HTML or plain text
	FocusKeyword string
}

// Suggester generates internal link suggestions.
type Suggester struct {
	model      LanguageModel
	cache      store.EmbeddingCache
	thresholds config.Thresholds
	limiter    *rate.Limiter
}

// New creates a suggester. The limiter paces placement calls toward the
// shared model service.
func New(model LanguageModel, cache store.EmbeddingCache, thresholds config.Thresholds) *Suggester {
	delay := time.Duration(thresholds.LLMCallDelayMs) * time.Millisecond
	limiter := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		limiter = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Suggester{model: model, cache: cache, thresholds: thresholds, limiter: limiter}
}

// SuggestLinks analyzes the current article against the candidate set.
// Zero candidates is a valid empty result, not an error; per-candidate
// failures drop that candidate only. The one hard failure is an unreadable
// primary article.
func (s *Suggester) SuggestLinks(ctx context.Context, current CurrentArticle, candidates []models.PublishedArticle) (models.InternalLinkingAnalysis, error) {
	plainText := parser.StripHTML(current.Content)
	if plainText == "" {
		return models.InternalLinkingAnalysis{}, fmt.Errorf("suggest links for %s: empty article", current.ID)
	}

	existingLinks := existingInternalLinks(current.Content)

	analysis := models.InternalLinkingAnalysis{
		CurrentArticleID: current.ID,
		ExistingLinks:    existingLinks,
	}

	eligible := make([]models.PublishedArticle, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != current.ID {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		analysis.Metrics = s.metrics(existingLinks, nil)
		return analysis, nil
	}

	currentEmbedding, err := s.cache.GetOrCreate(ctx, current.ID, plainText)
	if err != nil {
		return models.InternalLinkingAnalysis{}, fmt.Errorf("embed current article %s: %w", current.ID, err)
	}

	scored, err := s.embedCandidates(ctx, eligible)
	if err != nil {
		return models.InternalLinkingAnalysis{}, err
	}

	// The admission threshold is deliberately wider than the relevance floor
	// so the reasoning step sees enough candidates.
	pool := findSimilar(currentEmbedding, scored, s.thresholds.MaxLinkSuggestions*2, s.thresholds.AdmissionThreshold)

	structure := parseStructure(plainText)
	var suggestions []models.InternalLinkSuggestion
	for _, candidate := range pool {
		if len(suggestions) >= s.thresholds.MaxLinkSuggestions {
			break
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return models.InternalLinkingAnalysis{}, err
		}

		suggestion, err := s.placeLink(ctx, current, candidate, plainText, structure)
		if err != nil {
			return models.InternalLinkingAnalysis{}, err
		}
		if suggestion == nil {
			continue
		}
		if suggestion.RelevanceScore < s.thresholds.MinRelevanceScore {
			slog.Debug("suggestion below relevance floor",
				"target", suggestion.TargetArticle.Slug, "score", suggestion.RelevanceScore)
			continue
		}
		suggestions = append(suggestions, *suggestion)
	}

	sortSuggestions(suggestions)
	analysis.Suggestions = suggestions
	analysis.Metrics = s.metrics(existingLinks, suggestions)
	return analysis, nil
}

// embedCandidates retrieves or computes candidate embeddings concurrently.
// Results keep their input order via index assignment; candidates whose
// embedding fails are dropped with a warning.
func (s *Suggester) embedCandidates(ctx context.Context, candidates []models.PublishedArticle) ([]scoredCandidate, error) {
	scored := make([]scoredCandidate, len(candidates))
	failed := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i, article := range candidates {
		g.Go(func() error {
			if len(article.Embedding) == 0 {
				vector, err := s.cache.GetOrCreate(gctx, article.ID, parser.StripHTML(article.Content))
				if err != nil {
					if errors.Is(err, llm.ErrFatalAPI) || gctx.Err() != nil {
						return err
					}
					slog.Warn("candidate embedding failed, skipping", "article", article.ID, "error", err)
					failed[i] = true
					return nil
				}
				article.Embedding = vector
			}
			scored[i] = scoredCandidate{article: article}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}

	kept := scored[:0]
	for i, c := range scored {
		if !failed[i] {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// metrics derives link-graph health from existing and suggested links.
func (s *Suggester) metrics(existing []models.ExistingLink, suggestions []models.InternalLinkSuggestion) models.LinkingMetrics {
	total := len(existing) + len(suggestions)
	coverage := float64(len(suggestions)) / float64(s.thresholds.MaxLinkSuggestions) * 100
	if coverage > 100 {
		coverage = 100
	}
	return models.LinkingMetrics{
		TotalInternalLinks:   total,
		OptimalRangeMin:      s.thresholds.IdealLinksMin,
		OptimalRangeMax:      s.thresholds.IdealLinksMax,
		OrphanedContent:      total == 0,
		TopicClusterCoverage: coverage,
	}
}

func sortSuggestions(suggestions []models.InternalLinkSuggestion) {
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].RelevanceScore > suggestions[j].RelevanceScore
	})
}

// existingInternalLinks pulls anchors already pointing at the article
// namespace out of the HTML body.
func existingInternalLinks(content string) []models.ExistingLink {
	var links []models.ExistingLink
	for _, l := range parser.ExtractInternalAnchors(content, internalPathPrefix) {
		links = append(links, models.ExistingLink{TargetID: l.Target, AnchorText: l.Anchor})
	}
	return links
}

// parseStructure splits plain text into paragraphs of sentences, the
// coordinate system placement indexes refer to.
func parseStructure(plainText string) [][]string {
	paragraphs := parser.SplitParagraphs(plainText)
	structure := make([][]string, len(paragraphs))
	for i, p := range paragraphs {
		structure[i] = parser.SplitSentences(p)
	}
	return structure
}

func newSuggestionID() string {
	return "link-" + uuid.NewString()
}

func articleURL(slug string) string {
	return internalPathPrefix + strings.TrimPrefix(slug, "/")
}
