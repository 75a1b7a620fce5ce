package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/contentiq/contentiq/internal/models"
)

var capitalizedPhraseRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)

const (
	heuristicMaxEntities = 10
	heuristicMaxTopics   = 10
)

// heuristic is the no-model extraction path: capitalized phrases become
// entity candidates, frequent non-stopword tokens become topic candidates.
// Intentionally sparse rather than wrong.
func (e *Extractor) heuristic(text, keyword string) Result {
	return Result{
		Entities: heuristicEntities(text),
		Topics:   heuristicTopics(text, keyword),
	}
}

func heuristicEntities(text string) []models.Entity {
	counts := make(map[string]int)
	for _, m := range capitalizedPhraseRe.FindAllStringSubmatch(text, -1) {
		phrase := m[1]
		if isStopword(strings.ToLower(phrase)) {
			continue
		}
		counts[phrase]++
	}

	var entities []models.Entity
	for name, mentions := range counts {
		// Single occurrences are usually sentence-initial words, not entities.
		if mentions <= 1 {
			continue
		}
		entities = append(entities, models.NewEntity(name, models.EntityConcept, mentions, min(mentions*10, 100)))
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Mentions != entities[j].Mentions {
			return entities[i].Mentions > entities[j].Mentions
		}
		return entities[i].Name < entities[j].Name
	})
	if len(entities) > heuristicMaxEntities {
		entities = entities[:heuristicMaxEntities]
	}
	return entities
}

func heuristicTopics(text, keyword string) []string {
	counts := make(map[string]int)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]")
		if len(tok) < 4 || isStopword(tok) {
			continue
		}
		counts[tok]++
	}

	type freq struct {
		term  string
		count int
	}
	var topics []freq
	for term, count := range counts {
		if count >= 2 {
			topics = append(topics, freq{term, count})
		}
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].count != topics[j].count {
			return topics[i].count > topics[j].count
		}
		return topics[i].term < topics[j].term
	})

	out := make([]string, 0, heuristicMaxTopics)
	seen := make(map[string]bool)
	for _, part := range strings.Fields(strings.ToLower(keyword)) {
		if len(part) >= 4 && counts[part] > 0 && !seen[part] {
			out = append(out, part)
			seen[part] = true
		}
	}
	for _, f := range topics {
		if len(out) >= heuristicMaxTopics {
			break
		}
		if !seen[f.term] {
			out = append(out, f.term)
			seen[f.term] = true
		}
	}
	return out
}
