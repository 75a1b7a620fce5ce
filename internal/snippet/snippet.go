// Package snippet builds featured-snippet candidates for a keyword:
// a paragraph answer sized to the target word band, a harvested list, or a
// comparison table, together with an insertion point and a win-probability
// estimate. The estimate is a heuristic, not a guarantee.
package snippet

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
)

var (
	tagRe           = regexp.MustCompile(`<[^>]+>`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
	endPunctRe      = regexp.MustCompile(`[.!?]$`)
	orderedItemRe   = regexp.MustCompile(`(?m)^\d+\.\s+(.+)$`)
	unorderedItemRe = regexp.MustCompile(`(?m)^[-•*]\s+(.+)$`)
	mdHeadingRe     = regexp.MustCompile(`(?m)^#{2,3}\s+(.+)$`)
	h2Re            = regexp.MustCompile(`(?i)<h2[^>]*>([^<]+)</h2>`)
	questionRe      = regexp.MustCompile(`(?i)^(what|why|when|where|which|who|how)\s`)
	actionVerbRe    = regexp.MustCompile(`(?i)^(ensure|make sure|start|begin|create|use|implement|optimize|analyze|measure|track)`)
	vsKeywordRe     = regexp.MustCompile(`(?i)^(.+?)\s+(?:vs|versus)\s+(.+)$`)
)

// Optimizer generates snippet candidates. Safe for concurrent use.
type Optimizer struct {
	thresholds config.Thresholds
}

func New(thresholds config.Thresholds) *Optimizer {
	return &Optimizer{thresholds: thresholds}
}

// Optimize produces the full recommendation for one keyword and format.
func (o *Optimizer) Optimize(keyword, articleContent string, current *models.DetectedSnippet, format models.SnippetFormat) models.SnippetOptimization {
	var optimized models.OptimizedSnippet
	var headers []string

	switch format {
	case models.SnippetList:
		optimized.List = o.ListSnippet(articleContent)
		optimized.HTML = renderList(optimized.List)
	case models.SnippetTable:
		optimized.Table, headers = o.TableSnippet(keyword)
		optimized.HTML = renderTable(optimized.Table, headers)
	default:
		optimized.Paragraph = o.ParagraphSnippet(articleContent)
		optimized.HTML = "<p>" + optimized.Paragraph + "</p>"
	}

	return models.SnippetOptimization{
		Keyword:          keyword,
		CurrentSnippet:   current,
		TargetFormat:     format,
		Recommendations:  recommendations(format),
		OptimizedContent: optimized,
		InsertionPoint:   insertionPoint(articleContent, keyword),
		WinProbability:   o.winProbability(keyword, articleContent, current, optimized),
	}
}

// ParagraphSnippet selects a direct answer from the opening paragraph.
// A sentence already inside the target word band is used verbatim; a short
// opener is merged with its successor when the pair still fits; otherwise
// the paragraph is cut at the band maximum.
func (o *Optimizer) ParagraphSnippet(articleContent string) string {
	first := firstParagraph(articleContent)

	minWords := o.thresholds.SnippetParagraphMinWords
	maxWords := o.thresholds.SnippetParagraphMaxWords

	var snippetText string
	sentences := splitRoughSentences(first)
	for i, sentence := range sentences {
		n := len(strings.Fields(sentence))
		if n >= minWords && n <= maxWords {
			snippetText = sentence + "."
			break
		}
		if n < minWords && i < len(sentences)-1 {
			combined := sentence + ". " + sentences[i+1] + "."
			if len(strings.Fields(combined)) <= maxWords {
				snippetText = combined
				break
			}
		}
	}

	if snippetText == "" {
		words := strings.Fields(first)
		if len(words) > maxWords {
			words = words[:maxWords]
		}
		snippetText = strings.Join(words, " ") + "..."
	}

	snippetText = capitalize(snippetText)
	if !endPunctRe.MatchString(snippetText) {
		snippetText += "."
	}
	return snippetText
}

// ListSnippet harvests list material in order of preference: existing HTML
// list items, plain-text list markers, headings, then action-verb sentences.
// The result is capped at the band maximum and padded to the minimum.
func (o *Optimizer) ListSnippet(articleContent string) []string {
	minItems := o.thresholds.SnippetListMinItems
	maxItems := o.thresholds.SnippetListMaxItems

	var items []string
	appendUsable := func(texts []string) {
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if len(t) > 10 && len(t) < 100 {
				items = append(items, t)
			}
		}
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleContent)); err == nil {
		var liTexts []string
		doc.Find("li").Each(func(_ int, s *goquery.Selection) {
			liTexts = append(liTexts, s.Text())
		})
		appendUsable(liTexts)
	}

	text := tagRe.ReplaceAllString(articleContent, "\n")
	if len(items) < minItems {
		appendUsable(captures(orderedItemRe, text))
	}
	if len(items) < minItems {
		appendUsable(captures(unorderedItemRe, text))
	}
	if len(items) < minItems {
		structure := parser.ParsePage(articleContent, "")
		appendUsable(structure.Headings)
		appendUsable(captures(mdHeadingRe, text))
	}
	if len(items) < minItems {
		for _, sentence := range sentenceSplitRe.Split(text, -1) {
			if len(items) >= maxItems {
				break
			}
			cleaned := strings.TrimSpace(sentence)
			if len(cleaned) > 20 && len(cleaned) < 150 && actionVerbRe.MatchString(cleaned) {
				items = append(items, cleaned)
			}
		}
	}

	if len(items) > maxItems {
		items = items[:maxItems]
	}
	for len(items) < minItems {
		items = append(items, fmt.Sprintf("Step %d: Complete this important task", len(items)+1))
	}
	return items
}

// TableSnippet builds a comparison scaffold when the keyword matches an
// "X vs Y" pattern, or a generic category table otherwise. The second return
// value is the column order for rendering.
func (o *Optimizer) TableSnippet(keyword string) ([]map[string]string, []string) {
	if m := vsKeywordRe.FindStringSubmatch(keyword); m != nil {
		left := strings.TrimSpace(m[1])
		right := strings.TrimSpace(m[2])
		headers := []string{"Feature", left, right}
		rows := []map[string]string{
			{"Feature": "Definition", left: "Key aspects of " + left, right: "Key aspects of " + right},
			{"Feature": "Best For", left: "Specific use case 1", right: "Specific use case 2"},
			{"Feature": "Cost", left: "Cost structure 1", right: "Cost structure 2"},
			{"Feature": "Time", left: "Timeline 1", right: "Timeline 2"},
		}
		return rows, headers
	}

	headers := []string{"Category", "Description", "Value"}
	rows := []map[string]string{
		{"Category": "Category 1", "Description": "Description 1", "Value": "Value 1"},
		{"Category": "Category 2", "Description": "Description 2", "Value": "Value 2"},
		{"Category": "Category 3", "Description": "Description 3", "Value": "Value 3"},
	}
	return rows, headers
}

// winProbability estimates the chance of capturing the snippet position.
// Base 50, plus keyword presence, article length, well-sized content, and
// the incumbent's authority.
func (o *Optimizer) winProbability(keyword, articleContent string, current *models.DetectedSnippet, optimized models.OptimizedSnippet) int {
	probability := 50

	if strings.Contains(strings.ToLower(articleContent), strings.ToLower(keyword)) {
		probability += 15
	}

	wordCount := len(strings.Fields(articleContent))
	if wordCount >= 1000 && wordCount <= 3000 {
		probability += 15
	} else if wordCount >= 500 {
		probability += 8
	}

	switch {
	case optimized.Paragraph != "":
		words := len(strings.Fields(optimized.Paragraph))
		if words >= o.thresholds.SnippetParagraphMinWords && words <= o.thresholds.SnippetParagraphMaxWords {
			probability += 20
		} else if words >= o.thresholds.SnippetParagraphMinWords-10 {
			probability += 10
		}
	case optimized.List != nil:
		n := len(optimized.List)
		if n >= o.thresholds.SnippetListMinItems && n <= o.thresholds.SnippetListMaxItems {
			probability += 20
		} else if n >= o.thresholds.SnippetListMinItems-2 {
			probability += 10
		}
	case optimized.Table != nil:
		if rows := len(optimized.Table); rows >= 3 && rows <= 6 {
			probability += 20
		}
	}

	if current != nil {
		source := strings.ToLower(current.Source)
		switch {
		case strings.Contains(source, "wikipedia"):
			probability -= 20
		case strings.Contains(source, "gov"), strings.Contains(source, "edu"):
			probability -= 15
		default:
			probability += 5
		}
	} else {
		probability += 10
	}

	if probability < 0 {
		return 0
	}
	if probability > 100 {
		return 100
	}
	return probability
}

// insertionPoint prefers the heading that names the keyword, then the first
// question-style heading, then the first heading of the article.
func insertionPoint(articleContent, keyword string) models.InsertionPoint {
	keywordLower := strings.ToLower(keyword)

	var headings []string
	for _, m := range h2Re.FindAllStringSubmatch(articleContent, -1) {
		headings = append(headings, strings.TrimSpace(m[1]))
	}

	target := ""
	index := -1
	for i, h := range headings {
		if strings.Contains(strings.ToLower(h), keywordLower) {
			target, index = h, i
			break
		}
	}
	if target == "" {
		for i, h := range headings {
			if questionRe.MatchString(h) {
				target, index = h, i
				break
			}
		}
	}
	if target == "" {
		index = 0
		if len(headings) > 0 {
			target = headings[0]
		} else {
			target = "Introduction"
		}
	}

	reasoning := "First relevant heading - good snippet placement for article introduction"
	if strings.Contains(strings.ToLower(target), keywordLower) {
		reasoning = "Heading directly relates to target keyword - ideal snippet placement"
	}

	return models.InsertionPoint{
		AfterHeading:   target,
		ParagraphIndex: index,
		Reasoning:      reasoning,
	}
}

func recommendations(format models.SnippetFormat) models.SnippetRecommendations {
	switch format {
	case models.SnippetList:
		return models.SnippetRecommendations{
			IdealLength: 6,
			Structure: []string{
				"Use 5-8 clear, distinct items",
				"Keep each item concise (under 15 words)",
				"Start each item with action verb when possible",
				"Maintain parallel structure",
				"Order logically (chronological or importance)",
			},
		}
	case models.SnippetTable:
		return models.SnippetRecommendations{
			IdealLength: 4,
			Structure: []string{
				"Use 2-4 columns for comparison",
				"Include 3-5 rows of data",
				"Clear, descriptive headers",
				"Parallel data structure",
				"Keep cell content brief",
			},
		}
	default:
		return models.SnippetRecommendations{
			IdealLength: 50,
			Structure: []string{
				"Start with direct answer to the question",
				"Keep between 40-60 words",
				"Use clear, concise language",
				"End with complete sentence",
				"Avoid pronouns without clear antecedents",
			},
		}
	}
}

func renderList(items []string) string {
	var b strings.Builder
	b.WriteString("<ol>\n")
	for _, item := range items {
		fmt.Fprintf(&b, "  <li>%s</li>\n", item)
	}
	b.WriteString("</ol>")
	return b.String()
}

func renderTable(rows []map[string]string, headers []string) string {
	var b strings.Builder
	b.WriteString("<table>\n  <thead>\n    <tr>\n")
	for _, h := range headers {
		fmt.Fprintf(&b, "      <th>%s</th>\n", h)
	}
	b.WriteString("    </tr>\n  </thead>\n  <tbody>\n")
	for _, row := range rows {
		b.WriteString("    <tr>\n")
		for _, h := range headers {
			fmt.Fprintf(&b, "      <td>%s</td>\n", row[h])
		}
		b.WriteString("    </tr>\n")
	}
	b.WriteString("  </tbody>\n</table>")
	return b.String()
}

// firstParagraph returns the opening body paragraph: the first <p> element
// for HTML input, or the first blank-line-delimited block for plain text.
// Headings never leak into the answer this way.
func firstParagraph(articleContent string) string {
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleContent)); err == nil {
		if p := strings.TrimSpace(doc.Find("p").First().Text()); p != "" {
			return p
		}
	}
	paragraphs := parser.SplitParagraphs(tagRe.ReplaceAllString(articleContent, " "))
	if len(paragraphs) == 0 {
		return ""
	}
	return paragraphs[0]
}

// splitRoughSentences splits on terminal punctuation, dropping the
// punctuation itself; callers re-terminate the selected sentence.
func splitRoughSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplitRe.Split(text, -1) {
		if t := strings.TrimSpace(s); t != "" {
			sentences = append(sentences, t)
		}
	}
	return sentences
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func captures(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}
