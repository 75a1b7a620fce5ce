package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/models"
)

func newOptimizer() *Optimizer {
	return New(config.DefaultThresholds())
}

// directAnswer is a single 45-word sentence, inside the 40-60 word band.
const directAnswer = "Search engine optimization is the ongoing practice of improving a website so that search engines can crawl, understand, and rank its pages, combining keyword research, technical fixes, quality content, and authoritative links to earn many more organic search visitors over time without paying for placement."

func TestParagraphSnippetSelectsBandSentenceVerbatim(t *testing.T) {
	require.Equal(t, 45, len(strings.Fields(directAnswer)))

	content := "<p>" + directAnswer + "</p>\n\n<p>The rest of the article goes into much deeper detail.</p>"

	got := newOptimizer().ParagraphSnippet(content)
	assert.Equal(t, directAnswer, got, "a sentence already in the band is used untouched")
}

func TestParagraphSnippetMergesShortOpener(t *testing.T) {
	content := "<p>Kubernetes automates deployment. It schedules containers across a cluster of machines so that applications stay available even when individual nodes fail unexpectedly during normal operation and recover without manual intervention from operators at any point.</p>"

	got := newOptimizer().ParagraphSnippet(content)
	assert.True(t, strings.HasPrefix(got, "Kubernetes automates deployment. It schedules"), "got %q", got)
	assert.Regexp(t, `[.!?]$`, got)
}

func TestParagraphSnippetTruncatesLongRun(t *testing.T) {
	// 80 words with no sentence boundary forces the word-cap fallback.
	long := strings.TrimSpace(strings.Repeat("container orchestration platforms coordinate workloads ", 16))

	got := newOptimizer().ParagraphSnippet("<p>" + long + "</p>")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, strings.Fields(got), 60)
}

func TestListSnippetHarvestsListItems(t *testing.T) {
	content := `<h2>Checklist</h2>
<ol>
<li>Research and select target keywords</li>
<li>Create high-quality relevant content</li>
<li>Optimize on-page elements carefully</li>
<li>Build quality backlinks over time</li>
<li>Monitor rankings and adjust strategy</li>
<li>Refresh stale sections every quarter</li>
</ol>`

	items := newOptimizer().ListSnippet(content)
	require.Len(t, items, 6)
	assert.Equal(t, "Research and select target keywords", items[0])
}

func TestListSnippetCapsAtMaximum(t *testing.T) {
	var b strings.Builder
	b.WriteString("<ul>")
	for i := 0; i < 12; i++ {
		b.WriteString("<li>A usable checklist entry number ")
		b.WriteByte(byte('a' + i))
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")

	items := newOptimizer().ListSnippet(b.String())
	assert.Len(t, items, 8)
}

func TestListSnippetPadsToMinimum(t *testing.T) {
	items := newOptimizer().ListSnippet("<ul><li>Install the package first</li></ul>")

	require.Len(t, items, 5)
	assert.Equal(t, "Install the package first", items[0])
	assert.Equal(t, "Step 2: Complete this important task", items[1])
	assert.Equal(t, "Step 5: Complete this important task", items[4])
}

func TestListSnippetFallsBackToHeadings(t *testing.T) {
	content := `<h2>Understanding the basics</h2><p>Text.</p>
<h2>Setting up your environment</h2><p>Text.</p>
<h2>Writing your first handler</h2><p>Text.</p>
<h2>Testing the application</h2><p>Text.</p>
<h2>Deploying to production</h2><p>Text.</p>`

	items := newOptimizer().ListSnippet(content)
	require.GreaterOrEqual(t, len(items), 5)
	assert.Equal(t, "Understanding the basics", items[0])
}

func TestTableSnippetComparison(t *testing.T) {
	rows, headers := newOptimizer().TableSnippet("seo vs sem")

	assert.Equal(t, []string{"Feature", "seo", "sem"}, headers)
	require.Len(t, rows, 4)
	assert.Equal(t, "Definition", rows[0]["Feature"])
	assert.Equal(t, "Key aspects of seo", rows[0]["seo"])
	assert.Equal(t, "Key aspects of sem", rows[0]["sem"])
}

func TestTableSnippetDefault(t *testing.T) {
	rows, headers := newOptimizer().TableSnippet("content marketing guide")

	assert.Equal(t, []string{"Category", "Description", "Value"}, headers)
	assert.Len(t, rows, 3)
}

func TestWinProbability(t *testing.T) {
	o := newOptimizer()

	article := "what is seo " + strings.TrimSpace(strings.Repeat("informative words about the search topic ", 250)) // ~1500 words
	goodParagraph := strings.TrimSpace(strings.Repeat("word ", 50))

	tests := []struct {
		name      string
		keyword   string
		article   string
		current   *models.DetectedSnippet
		optimized models.OptimizedSnippet
		want      int
	}{
		{
			// 50 + 15 keyword + 15 length + 20 content + 10 no incumbent, capped
			"everything aligned", "what is seo", article, nil,
			models.OptimizedSnippet{Paragraph: goodParagraph}, 100,
		},
		{
			// 50 + 15 + 15 + 20 - 20 wikipedia
			"wikipedia incumbent", "what is seo", article,
			&models.DetectedSnippet{Source: "en.wikipedia.org"},
			models.OptimizedSnippet{Paragraph: goodParagraph}, 80,
		},
		{
			// 50 + 15 + 15 + 20 - 15 authority domain
			"gov incumbent", "what is seo", article,
			&models.DetectedSnippet{Source: "data.gov"},
			models.OptimizedSnippet{Paragraph: goodParagraph}, 85,
		},
		{
			// 50 + 0 keyword + 0 length + 0 content + 5 ordinary incumbent
			"weak page ordinary incumbent", "unrelated phrase", "short text",
			&models.DetectedSnippet{Source: "someblog.com"},
			models.OptimizedSnippet{}, 55,
		},
		{
			// 50 + 15 + 15 + 20 list in band + 10
			"list in band", "what is seo", article, nil,
			models.OptimizedSnippet{List: make([]string, 6)}, 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := o.winProbability(tt.keyword, tt.article, tt.current, tt.optimized)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsertionPoint(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		keyword     string
		wantHeading string
		wantIndex   int
		wantIdeal   bool
	}{
		{
			"keyword heading preferred",
			"<h2>Background</h2><p>x</p><h2>What is SEO exactly</h2><p>y</p>",
			"seo", "What is SEO exactly", 1, true,
		},
		{
			"question heading fallback",
			"<h2>Background</h2><p>x</p><h2>How does it work</h2><p>y</p>",
			"kubernetes", "How does it work", 1, false,
		},
		{
			"first heading default",
			"<h2>Background</h2><p>x</p>",
			"kubernetes", "Background", 0, false,
		},
		{
			"no headings",
			"<p>plain content only</p>",
			"kubernetes", "Introduction", 0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := insertionPoint(tt.content, tt.keyword)
			assert.Equal(t, tt.wantHeading, ip.AfterHeading)
			assert.Equal(t, tt.wantIndex, ip.ParagraphIndex)
			if tt.wantIdeal {
				assert.Contains(t, ip.Reasoning, "ideal")
			}
		})
	}
}

func TestOptimizeParagraph(t *testing.T) {
	content := "<h2>What is SEO</h2><p>" + directAnswer + "</p>"

	opt := newOptimizer().Optimize("what is seo", content, nil, models.SnippetParagraph)

	assert.Equal(t, models.SnippetParagraph, opt.TargetFormat)
	assert.Equal(t, directAnswer, opt.OptimizedContent.Paragraph)
	assert.Equal(t, "<p>"+directAnswer+"</p>", opt.OptimizedContent.HTML)
	assert.Equal(t, 50, opt.Recommendations.IdealLength)
	assert.Equal(t, "What is SEO", opt.InsertionPoint.AfterHeading)
	assert.GreaterOrEqual(t, opt.WinProbability, 0)
	assert.LessOrEqual(t, opt.WinProbability, 100)
}

func TestOptimizeTableHTML(t *testing.T) {
	opt := newOptimizer().Optimize("seo vs sem", "<p>Comparing both approaches.</p>", nil, models.SnippetTable)

	assert.Contains(t, opt.OptimizedContent.HTML, "<th>Feature</th>")
	assert.Contains(t, opt.OptimizedContent.HTML, "<td>Definition</td>")
	require.Len(t, opt.OptimizedContent.Table, 4)
	assert.Equal(t, 4, opt.Recommendations.IdealLength)
}
