package linking

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

const placementSystemPrompt = `You are an SEO expert analyzing internal linking opportunities.

Given a current article and a target article, decide where and how to add an internal link from the current article to the target.

1. Choose the best anchor text (natural, contextual, not an exact keyword match, never "click here")
2. Identify the ideal placement (paragraph index and sentence index from the context snippets)
3. Score relevance (0-100) from topic overlap and reader value
4. Give one line of reasoning for why the link is valuable
5. Decide whether the target article should link back (bidirectional)

Prefer placements in the middle sections over intro and conclusion.

Return JSON only (no markdown):
{
  "anchorText": "natural anchor text here",
  "paragraphIndex": 0,
  "sentenceIndex": 0,
  "position": 50,
  "context": "surrounding sentence context",
  "relevanceScore": 85,
  "reasoning": "Why this link adds value",
  "bidirectional": true
}

If the link is NOT relevant or valuable, return:
{"relevant": false, "reason": "explanation"}`

type placementResponse struct {
	Relevant       *bool  `json:"relevant"`
	AnchorText     string `json:"anchorText"`
	ParagraphIndex *int   `json:"paragraphIndex"`
	SentenceIndex  *int   `json:"sentenceIndex"`
	Position       int    `json:"position"`
	Context        string `json:"context"`
	RelevanceScore *int   `json:"relevanceScore"`
	Reasoning      string `json:"reasoning"`
	Bidirectional  bool   `json:"bidirectional"`
}

// placeLink asks the model for an anchor and placement linking the current
// article to one candidate. A "not relevant" verdict, missing required
// fields, or a degraded call all produce nil: no suggestion, not an error.
func (s *Suggester) placeLink(ctx context.Context, current CurrentArticle, candidate scoredCandidate, plainText string, structure [][]string) (*models.InternalLinkSuggestion, error) {
	target := candidate.article

	var snippets []string
snippetLoop:
	for pIdx, sentences := range structure {
		for sIdx, sentence := range sentences {
			if len(snippets) >= 5 {
				break snippetLoop
			}
			snippets = append(snippets, fmt.Sprintf("[P%d:S%d] %s", pIdx, sIdx, parser.Truncate(sentence, 200)))
		}
	}

	meta := target.MetaDescription
	if meta == "" {
		meta = "N/A"
	}

	userPrompt := fmt.Sprintf(`CURRENT ARTICLE:
Title: %s
Focus Keyword: %s
Content Preview: %s

TARGET ARTICLE TO LINK TO:
Title: %s
Focus Keyword: %s
Meta Description: %s

SEMANTIC SIMILARITY: %.1f%%

CONTEXT SNIPPETS FROM CURRENT ARTICLE:
%s

JSON:`,
		current.Title, current.FocusKeyword, parser.Truncate(plainText, 1500),
		target.Title, target.FocusKeyword, meta,
		candidate.similarity*100,
		strings.Join(snippets, "\n"))

	raw, err := s.model.GenerateWithSystem(ctx, placementSystemPrompt, userPrompt)
	if err != nil {
		if errors.Is(err, llm.ErrFatalAPI) || ctx.Err() != nil {
			return nil, err
		}
		slog.Warn("link placement call failed, skipping candidate", "target", target.Slug, "error", err)
		return nil, nil
	}

	var resp placementResponse
	if err := llm.DecodeJSON(raw, &resp); err != nil {
		slog.Warn("link placement returned malformed JSON, skipping candidate", "target", target.Slug, "error", err)
		return nil, nil
	}

	if resp.Relevant != nil && !*resp.Relevant {
		return nil, nil
	}
	if resp.AnchorText == "" || resp.RelevanceScore == nil || resp.ParagraphIndex == nil || resp.SentenceIndex == nil {
		slog.Debug("link placement missing required fields", "target", target.Slug)
		return nil, nil
	}

	score := *resp.RelevanceScore
	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	reasoning := resp.Reasoning
	if reasoning == "" {
		reasoning = "Contextually relevant link"
	}

	return &models.InternalLinkSuggestion{
		ID: newSuggestionID(),
		TargetArticle: models.LinkTarget{
			ID:           target.ID,
			Slug:         target.Slug,
			Title:        target.Title,
			FocusKeyword: target.FocusKeyword,
			URL:          articleURL(target.Slug),
		},
		AnchorText:         resp.AnchorText,
		RelevanceScore:     score,
		SemanticSimilarity: candidate.similarity,
		Placement: models.LinkPlacement{
			ParagraphIndex: *resp.ParagraphIndex,
			SentenceIndex:  *resp.SentenceIndex,
			Position:       resp.Position,
			Context:        resp.Context,
		},
		Reasoning:     reasoning,
		Bidirectional: resp.Bidirectional,
		Status:        models.StatusSuggested,
	}, nil
}
