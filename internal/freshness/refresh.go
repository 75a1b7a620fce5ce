package freshness

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/contentiq/contentiq/internal/models"
)

var sectionHeadingRe = regexp.MustCompile(`(?i)<h[2-3][^>]*>(.*?)</h[2-3]>`)

// dataSuggestion is a new data point worth adding during a refresh.
type dataSuggestion struct {
	Type        string // statistic|example|case-study|tool|resource
	Description string
	Priority    int // 1-10
}

// sectionSuggestion is a missing section worth adding during a refresh.
type sectionSuggestion struct {
	Title       string
	Description string
}

// SuggestRefresh layers a prioritized refresh plan on top of a freshness
// analysis: sections are scored by the outdated items they contain, ranking
// decline and age feed an additive priority ladder, and every suggested
// update carries a type and a 1-10 priority.
func (a *Analyzer) SuggestRefresh(articleID, articleSlug, content, keyword string, lastUpdated time.Time, rankings []models.RankingData, fresh models.FreshnessAnalysis) models.RefreshAnalysis {
	ageInMonths := int(a.clock().Sub(lastUpdated).Hours() / 24 / 30)
	if ageInMonths < 0 {
		ageInMonths = 0
	}

	decline := rankingDecline(rankings)
	sections := a.identifySections(content, fresh.OutdatedItems)
	headings := extractHeadings(content)
	newSections := recommendNewSections(headings)
	data := a.suggestNewData(keyword)
	priority := priorityLevel(fresh.FreshnessScore.Score, decline, ageInMonths, len(fresh.OutdatedItems), a.thresholds.HighPriorityRankDrop)

	var reasons []string
	if ageInMonths >= 12 {
		reasons = append(reasons, fmt.Sprintf("Content is %d months old", ageInMonths))
	}
	if fresh.FreshnessScore.Score < 70 {
		reasons = append(reasons, fmt.Sprintf("Low freshness score: %d/100", fresh.FreshnessScore.Score))
	}
	if decline >= a.thresholds.HighPriorityRankDrop {
		reasons = append(reasons, fmt.Sprintf("Significant ranking decline detected (%d%%)", int(math.Round(decline*100))))
	}
	if len(fresh.OutdatedItems) > 0 {
		reasons = append(reasons, fmt.Sprintf("Contains %d outdated reference(s)", len(fresh.OutdatedItems)))
	}
	if len(sections) > 0 {
		reasons = append(reasons, fmt.Sprintf("%d section(s) need updates", len(sections)))
	}

	updates := buildUpdates(sections, data, newSections, ageInMonths)

	outdatedInfo := make([]models.OutdatedInfo, 0, len(fresh.OutdatedItems))
	for _, item := range fresh.OutdatedItems {
		section := item.Location
		if section == "" {
			section = "Unknown section"
		}
		outdatedInfo = append(outdatedInfo, models.OutdatedInfo{
			Section: section,
			Content: item.Content,
			Reason:  item.Reason,
		})
	}

	return models.RefreshAnalysis{
		ArticleID:        articleID,
		ArticleSlug:      articleSlug,
		AgeInMonths:      ageInMonths,
		CurrentRankings:  rankings,
		RankingDecline:   math.Round(decline*100) / 100,
		NeedsRefresh:     priority == models.PriorityUrgent || priority == models.PriorityHigh || fresh.NeedsUpdate,
		RefreshPriority:  priority,
		Reasons:          reasons,
		SuggestedUpdates: updates,
		Sections:         sections,
		OutdatedInfo:     outdatedInfo,
	}
}

// rankingDecline averages positional regression across observations with
// history and normalizes to 0-1. Positive change means the position got
// worse (5 to 10 is +5).
func rankingDecline(rankings []models.RankingData) float64 {
	sum, n := 0, 0
	for _, r := range rankings {
		if r.PreviousPosition == nil {
			continue
		}
		sum += r.Change
		n++
	}
	if n == 0 {
		return 0
	}
	avg := float64(sum) / float64(n)
	if avg <= 0 {
		return 0
	}
	return avg / 10
}

// identifySections splits content by h2/h3 headings and attributes each
// outdated item to the section whose text contains it. Without headings the
// whole article is one "Main Content" section.
func (a *Analyzer) identifySections(content string, items []models.OutdatedItem) []models.SectionUpdate {
	matches := sectionHeadingRe.FindAllStringSubmatchIndex(content, -1)

	if len(matches) == 0 {
		if len(items) == 0 {
			return nil
		}
		return []models.SectionUpdate{wholeArticleSection(items)}
	}

	var updates []models.SectionUpdate
	for i, m := range matches {
		headingText := strings.TrimSpace(stripTags(content[m[2]:m[3]]))
		start := m[0]
		end := len(content)
		if i < len(matches)-1 {
			end = matches[i+1][0]
		}
		sectionContent := content[start:end]

		var sectionItems []models.OutdatedItem
		for _, item := range items {
			if strings.Contains(sectionContent, item.Content) {
				sectionItems = append(sectionItems, item)
			}
		}
		if len(sectionItems) == 0 {
			continue
		}

		updates = append(updates, sectionUpdate(headingText, sectionItems))
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return priorityRank(updates[i].Priority) < priorityRank(updates[j].Priority)
	})
	return updates
}

func wholeArticleSection(items []models.OutdatedItem) models.SectionUpdate {
	var suggestions []string
	high := countHighConfidence(items)
	if high > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Update %d high-priority outdated reference(s)", high))
	}
	if hasType(items, models.OutdatedStatistic) {
		suggestions = append(suggestions, "Refresh statistics with current data")
	}
	if hasType(items, models.OutdatedTechnology) {
		suggestions = append(suggestions, "Update technology versions and references")
	}

	priority := "medium"
	if high > 3 {
		priority = "high"
	}
	return models.SectionUpdate{
		Section:     "Main Content",
		Reason:      "Contains outdated information",
		Priority:    priority,
		Suggestions: suggestions,
	}
}

func sectionUpdate(heading string, items []models.OutdatedItem) models.SectionUpdate {
	var suggestions []string
	var dateItems, statItems, techItems []models.OutdatedItem
	for _, item := range items {
		switch item.Type {
		case models.OutdatedDate, models.OutdatedYear:
			dateItems = append(dateItems, item)
		case models.OutdatedStatistic:
			statItems = append(statItems, item)
		case models.OutdatedTechnology, models.OutdatedProduct:
			techItems = append(techItems, item)
		}
	}

	if len(dateItems) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Update date references: %s", summarizeDates(dateItems)))
	}
	if len(statItems) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Refresh %d statistic(s) with current data", len(statItems)))
	}
	if len(techItems) > 0 {
		suggestions = append(suggestions, "Update technology references to current versions")
	}

	high := countHighConfidence(items)
	priority := "low"
	if high >= 3 || len(statItems) >= 2 {
		priority = "high"
	} else if high >= 1 || len(items) >= 3 {
		priority = "medium"
	}

	return models.SectionUpdate{
		Section:     heading,
		Reason:      fmt.Sprintf("Contains %d outdated reference(s)", len(items)),
		Priority:    priority,
		Suggestions: suggestions,
	}
}

func summarizeDates(items []models.OutdatedItem) string {
	var distinct []string
	seen := make(map[string]struct{})
	for _, item := range items {
		if _, ok := seen[item.Content]; ok {
			continue
		}
		seen[item.Content] = struct{}{}
		distinct = append(distinct, item.Content)
	}
	if len(distinct) <= 2 {
		return strings.Join(distinct, ", ")
	}
	return strings.Join(distinct[:2], ", ") + ", etc."
}

// suggestNewData proposes fresh data points keyed to the article topic.
func (a *Analyzer) suggestNewData(keyword string) []dataSuggestion {
	year := a.clock().Year()
	return []dataSuggestion{
		{"statistic", fmt.Sprintf("Add %d usage statistics or market data for %s", year, keyword), 9},
		{"example", fmt.Sprintf("Include %d real-world examples or case studies", year), 8},
		{"tool", fmt.Sprintf("Add current tools and resources related to %s", keyword), 7},
		{"case-study", fmt.Sprintf("Feature success stories or implementations from %d-%d", year-1, year), 7},
		{"resource", fmt.Sprintf("Link to recent documentation, guides, or authoritative sources (%d)", year), 6},
	}
}

// candidateSections are evergreen sections worth adding when no existing
// heading already covers them.
var candidateSections = []struct {
	Title       string
	Description string
	CheckExists []string
}{
	{"Best Practices", "Current best practices and recommended approaches", []string{"best practice", "recommendation", "guideline"}},
	{"Common Mistakes to Avoid", "Frequently encountered issues and how to prevent them", []string{"mistake", "error", "pitfall", "avoid"}},
	{"Tools & Resources", "Up-to-date tools, libraries, and resources", []string{"tool", "resource", "library"}},
	{"Frequently Asked Questions (FAQ)", "Common questions and answers about the topic", []string{"faq", "frequently asked", "question"}},
	{"Real-World Examples", "Practical examples and use cases", []string{"example", "use case", "real-world"}},
	{"Performance Optimization", "Tips for improving performance and efficiency", []string{"performance", "optimization", "optimize"}},
	{"Future Trends", "Upcoming developments and future directions", []string{"future", "trend", "upcoming"}},
}

func recommendNewSections(existingHeadings []string) []sectionSuggestion {
	normalized := make([]string, len(existingHeadings))
	for i, h := range existingHeadings {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var suggestions []sectionSuggestion
	for _, candidate := range candidateSections {
		exists := false
	checkLoop:
		for _, kw := range candidate.CheckExists {
			for _, h := range normalized {
				if strings.Contains(h, kw) {
					exists = true
					break checkLoop
				}
			}
		}
		if !exists {
			suggestions = append(suggestions, sectionSuggestion{candidate.Title, candidate.Description})
		}
	}
	return suggestions
}

func extractHeadings(content string) []string {
	var headings []string
	for _, m := range sectionHeadingRe.FindAllStringSubmatch(content, -1) {
		headings = append(headings, strings.TrimSpace(stripTags(m[1])))
	}
	return headings
}

// priorityLevel sums fixed point blocks per factor and maps the total onto
// the four-level ladder.
func priorityLevel(freshnessScore int, decline float64, ageInMonths, outdatedCount int, highDrop float64) models.RefreshPriority {
	points := 0

	switch {
	case freshnessScore < 30:
		points += 40
	case freshnessScore < 50:
		points += 30
	case freshnessScore < 70:
		points += 20
	default:
		points += 10
	}

	switch {
	case decline >= highDrop:
		points += 30
	case decline >= 0.15:
		points += 20
	case decline >= 0.1:
		points += 10
	}

	switch {
	case ageInMonths >= 24:
		points += 20
	case ageInMonths >= 12:
		points += 15
	case ageInMonths >= 6:
		points += 10
	}

	switch {
	case outdatedCount >= 10:
		points += 10
	case outdatedCount >= 5:
		points += 5
	}

	switch {
	case points >= 70:
		return models.PriorityUrgent
	case points >= 50:
		return models.PriorityHigh
	case points >= 30:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

func buildUpdates(sections []models.SectionUpdate, data []dataSuggestion, newSections []sectionSuggestion, ageInMonths int) []models.SuggestedUpdate {
	var updates []models.SuggestedUpdate

	for _, section := range sections {
		priority := 5
		switch section.Priority {
		case "high":
			priority = 10
		case "medium":
			priority = 7
		}
		updates = append(updates, models.SuggestedUpdate{
			Type:        models.UpdateContent,
			Description: fmt.Sprintf("Update %q: %s", section.Section, strings.Join(section.Suggestions, "; ")),
			Priority:    priority,
		})
	}

	for _, d := range data {
		updateType := models.UpdateContent
		if d.Type == "statistic" {
			updateType = models.UpdateStats
		}
		updates = append(updates, models.SuggestedUpdate{
			Type:        updateType,
			Description: d.Description,
			Priority:    d.Priority,
		})
	}

	for i, section := range newSections {
		if i >= 3 {
			break
		}
		updates = append(updates, models.SuggestedUpdate{
			Type:        models.UpdateContent,
			Description: fmt.Sprintf("Add new section: %q - %s", section.Title, section.Description),
			Priority:    6,
		})
	}

	if ageInMonths >= 12 {
		updates = append(updates, models.SuggestedUpdate{
			Type:        models.UpdateLinks,
			Description: "Review and update external links for broken/outdated URLs",
			Priority:    7,
		})
	}
	if ageInMonths >= 18 {
		updates = append(updates, models.SuggestedUpdate{
			Type:        models.UpdateImages,
			Description: "Consider updating screenshots and images to reflect current UI/designs",
			Priority:    5,
		})
	}
	if ageInMonths >= 6 {
		updates = append(updates, models.SuggestedUpdate{
			Type:        models.UpdateKeywords,
			Description: "Research current search trends and update target keywords",
			Priority:    6,
		})
	}

	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Priority > updates[j].Priority
	})
	return updates
}

func priorityRank(p string) int {
	switch p {
	case "high":
		return 0
	case "medium":
		return 1
	default:
		return 2
	}
}

func hasType(items []models.OutdatedItem, t models.OutdatedType) bool {
	for _, item := range items {
		if item.Type == t {
			return true
		}
	}
	return false
}

func countHighConfidence(items []models.OutdatedItem) int {
	n := 0
	for _, item := range items {
		if item.Confidence == models.ConfidenceHigh {
			n++
		}
	}
	return n
}
