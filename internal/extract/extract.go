// Package extract turns article text into named entities, topics, and
// semantic keywords. The heavy lifting is delegated to a language model with
// a structured-JSON response contract; a frequency heuristic substitutes
// silently whenever the model call fails or returns malformed JSON, so
// callers always receive a well-typed result.
package extract

import (
	"context"
	"errors"
	"log/slog"

	"github.com/contentiq/contentiq/internal/llm"
	"github.com/contentiq/contentiq/internal/models"
)

// LanguageModel is the text-generation collaborator the extractor needs.
type LanguageModel interface {
	ExtractEntitiesAndTopics(ctx context.Context, text, keyword string) (string, error)
	GenerateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Result is one extraction over a single text.
type Result struct {
	Entities         []models.Entity
	Topics           []string
	SemanticKeywords []models.SemanticKeyword
}

// Extractor extracts entities and topics from plain text.
type Extractor struct {
	model LanguageModel
}

// New creates an extractor. model may be nil, in which case every extraction
// uses the frequency heuristic.
func New(model LanguageModel) *Extractor {
	return &Extractor{model: model}
}

type extractionResponse struct {
	Entities []struct {
		Name       string `json:"name"`
		Type       string `json:"type"`
		Mentions   int    `json:"mentions"`
		Importance int    `json:"importance"`
	} `json:"entities"`
	Topics           []string `json:"topics"`
	SemanticKeywords []struct {
		Keyword   string `json:"keyword"`
		Relevance int    `json:"relevance"`
	} `json:"semanticKeywords"`
}

// Extract analyzes text relative to the target keyword. It never returns an
// error short of context cancellation or a fatal provider failure: transport
// and parse problems degrade to the heuristic.
func (e *Extractor) Extract(ctx context.Context, text, keyword string) (Result, error) {
	if text == "" {
		return Result{}, nil
	}
	if e.model == nil {
		return e.heuristic(text, keyword), nil
	}

	raw, err := e.model.ExtractEntitiesAndTopics(ctx, text, keyword)
	if err != nil {
		if errors.Is(err, llm.ErrFatalAPI) || ctx.Err() != nil {
			return Result{}, err
		}
		slog.Warn("entity extraction model call failed, using heuristic", "keyword", keyword, "error", err)
		return e.heuristic(text, keyword), nil
	}

	var resp extractionResponse
	if err := llm.DecodeJSON(raw, &resp); err != nil {
		slog.Warn("entity extraction returned malformed JSON, using heuristic", "keyword", keyword, "error", err)
		return e.heuristic(text, keyword), nil
	}

	return e.fromResponse(resp), nil
}

func (e *Extractor) fromResponse(resp extractionResponse) Result {
	var out Result
	for _, ent := range resp.Entities {
		if ent.Name == "" {
			continue
		}
		entity := models.NewEntity(ent.Name, models.ParseEntityType(ent.Type), ent.Mentions, ent.Importance)
		out.Entities = append(out.Entities, entity)
	}
	out.Topics = resp.Topics
	for _, kw := range resp.SemanticKeywords {
		if kw.Keyword == "" {
			continue
		}
		out.SemanticKeywords = append(out.SemanticKeywords, models.SemanticKeyword{
			Keyword:   kw.Keyword,
			Relevance: min(kw.Relevance, 100),
		})
	}
	return out
}
