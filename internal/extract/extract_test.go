package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/contentiq/contentiq/internal/models"
)

type stubModel struct {
	response string
	err      error
}

func (s *stubModel) ExtractEntitiesAndTopics(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

func (s *stubModel) GenerateWithSystem(_ context.Context, _, _ string) (string, error) {
	return s.response, s.err
}

const sampleText = `React is a JavaScript library for building user interfaces.
It was created by Facebook and is now maintained by Meta.
React hooks have changed how developers write React components.
Popular frameworks are built on top of React. Facebook ships React weekly.`

func TestExtractModelResponse(t *testing.T) {
	model := &stubModel{response: `{
		"entities": [
			{"name": "React", "type": "Product", "mentions": 5, "importance": 95},
			{"name": "Facebook", "type": "Organization", "mentions": 2, "importance": 40}
		],
		"topics": ["react hooks", "user interfaces"],
		"semanticKeywords": [{"keyword": "javascript library", "relevance": 85}]
	}`}
	e := New(model)

	result, err := e.Extract(context.Background(), sampleText, "React hooks")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(result.Entities))
	}
	react := result.Entities[0]
	if react.Name != "React" || react.Type != models.EntityProduct {
		t.Errorf("unexpected first entity: %+v", react)
	}
	if react.Coverage != models.CoverageExplained {
		t.Errorf("5 mentions should be explained, got %s", react.Coverage)
	}
	if result.Entities[1].Coverage != models.CoverageMentioned {
		t.Errorf("2 mentions should be mentioned, got %s", result.Entities[1].Coverage)
	}
	if len(result.Topics) != 2 || len(result.SemanticKeywords) != 1 {
		t.Errorf("topics/keywords not carried through: %+v", result)
	}
}

func TestExtractFallsBackOnModelError(t *testing.T) {
	e := New(&stubModel{err: errors.New("connection refused")})

	result, err := e.Extract(context.Background(), sampleText, "React hooks")
	if err != nil {
		t.Fatalf("transport error must not propagate, got %v", err)
	}
	if len(result.Entities) == 0 {
		t.Fatal("heuristic fallback produced no entities")
	}
	for _, entity := range result.Entities {
		if entity.Mentions <= 1 {
			t.Errorf("heuristic kept single-mention entity %q", entity.Name)
		}
	}
}

func TestExtractFallsBackOnMalformedJSON(t *testing.T) {
	e := New(&stubModel{response: "Sorry, I can't do that."})

	result, err := e.Extract(context.Background(), sampleText, "React hooks")
	if err != nil {
		t.Fatalf("parse failure must not propagate, got %v", err)
	}
	if len(result.Entities) == 0 {
		t.Fatal("heuristic fallback produced no entities")
	}
}

func TestExtractEmptyText(t *testing.T) {
	e := New(&stubModel{response: "{}"})
	result, err := e.Extract(context.Background(), "", "keyword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Entities) != 0 || len(result.Topics) != 0 {
		t.Errorf("empty text should yield empty result, got %+v", result)
	}
}

func TestHeuristicEntities(t *testing.T) {
	entities := heuristicEntities(sampleText)

	byName := make(map[string]models.Entity)
	for _, e := range entities {
		byName[e.Name] = e
	}

	react, ok := byName["React"]
	if !ok {
		t.Fatal("expected React to be extracted")
	}
	if react.Mentions < 4 {
		t.Errorf("React mentions = %d, want >= 4", react.Mentions)
	}
	if _, ok := byName["It"]; ok {
		t.Error("stopword 'It' should not become an entity")
	}
	if _, ok := byName["Popular"]; ok {
		t.Error("single-occurrence sentence starter should be dropped")
	}
}

func TestMergeEntityData(t *testing.T) {
	own := []models.Entity{
		models.NewEntity("React", models.EntityProduct, 5, 95),
		models.NewEntity("Redux", models.EntityProduct, 1, 30),
	}
	competitor := map[string]int{
		"react":      20,
		"redux":      12,
		"typescript": 8, // competitor-only, above floor
		"svelte":     2, // competitor-only, below floor
	}

	merged := MergeEntityData(own, competitor)

	byName := make(map[string]models.Entity)
	for _, e := range merged {
		byName[e.Name] = e
	}

	if byName["React"].CompetitorMentions != 20 {
		t.Errorf("React competitor mentions = %d, want 20", byName["React"].CompetitorMentions)
	}
	if byName["React"].Importance != 95 {
		t.Errorf("model importance should win when higher, got %d", byName["React"].Importance)
	}
	if byName["Redux"].Importance != 36 {
		t.Errorf("Redux importance = %d, want 36 (12*3)", byName["Redux"].Importance)
	}

	ts, ok := byName["Typescript"]
	if !ok {
		t.Fatal("competitor-only entity above floor should be added")
	}
	if ts.Coverage != models.CoverageMissing || ts.Mentions != 0 {
		t.Errorf("competitor-only entity should be missing with zero mentions: %+v", ts)
	}
	if ts.Importance != 24 {
		t.Errorf("competitor-only importance = %d, want 24 (8*3)", ts.Importance)
	}
	if _, ok := byName["Svelte"]; ok {
		t.Error("competitor-only entity below mention floor should be dropped")
	}
}

func TestCompetitorEntitiesSumsMentions(t *testing.T) {
	model := &stubModel{response: `{
		"entities": [{"name": "React", "type": "Product", "mentions": 3, "importance": 80}],
		"topics": [], "semanticKeywords": []
	}`}
	e := New(model)

	freq, err := e.CompetitorEntities(context.Background(), []string{"doc one", "doc two"}, "react")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if freq["react"] != 6 {
		t.Errorf("react frequency = %d, want 6 (summed across docs)", freq["react"])
	}
}

func TestSuggestPlacement(t *testing.T) {
	article := `<h1>Guide</h1><h2>Getting Started</h2><p>intro</p><h2>Conclusion</h2><p>end</p>`
	entity := models.NewEntity("Redux", models.EntityProduct, 0, 75)
	entity.CompetitorMentions = 12

	t.Run("valid response", func(t *testing.T) {
		e := New(&stubModel{response: `{"section": "Conclusion", "context": "Mention Redux as an alternative."}`})
		placement, err := e.SuggestPlacement(context.Background(), entity, article, "react hooks")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if placement == nil || placement.Section != "Conclusion" {
			t.Errorf("unexpected placement: %+v", placement)
		}
	})

	t.Run("malformed response yields no suggestion", func(t *testing.T) {
		e := New(&stubModel{response: "not json"})
		placement, err := e.SuggestPlacement(context.Background(), entity, article, "react hooks")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if placement != nil {
			t.Errorf("expected nil placement, got %+v", placement)
		}
	})
}
