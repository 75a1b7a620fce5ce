package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/extract"
	"github.com/contentiq/contentiq/internal/fetch"
	"github.com/contentiq/contentiq/internal/models"
)

type stubFetcher struct {
	pages map[string]string
	fail  map[string]bool
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (fetch.Page, error) {
	if s.fail[url] {
		return fetch.Page{}, errors.New("blocked")
	}
	html, ok := s.pages[url]
	if !ok {
		return fetch.Page{}, errors.New("not found")
	}
	return fetch.Page{URL: url, HTML: html}, nil
}

func competitorHTML(title string, headings []string, body string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body>")
	for _, h := range headings {
		b.WriteString("<h2>" + h + "</h2>")
	}
	b.WriteString("<p>" + body + "</p></body></html>")
	return b.String()
}

func testThresholds() config.Thresholds {
	th := config.DefaultThresholds()
	th.MinScrapedContentLen = 10
	return th
}

func TestAnalyzeAggregatesDocuments(t *testing.T) {
	body := strings.Repeat("content about react hooks and state management. ", 20)
	fetcher := &stubFetcher{pages: map[string]string{
		"https://a.example/one": competitorHTML("One", []string{"Getting Started", "Best Practices"}, body),
		"https://b.example/two": competitorHTML("Two", []string{"Getting Started:", "Advanced Usage"}, body),
	}}

	analyzer := New(fetcher, extract.New(nil), testThresholds())
	stats, err := analyzer.Analyze(context.Background(), []models.SERPArticle{
		{URL: "https://a.example/one", Title: "One"},
		{URL: "https://b.example/two", Title: "Two"},
	}, "react hooks")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Documents)
	assert.Positive(t, stats.AverageWordCount)

	// "Getting Started" and "Getting Started:" normalize to one heading
	// counted once per document.
	var gettingStarted *models.FrequencyEntry
	for i := range stats.CommonHeadings {
		if stats.CommonHeadings[i].Value == "getting started" {
			gettingStarted = &stats.CommonHeadings[i]
		}
	}
	require.NotNil(t, gettingStarted, "normalized heading missing from frequency table")
	assert.Equal(t, 2, gettingStarted.Frequency)
}

func TestAnalyzeFallsBackPerURL(t *testing.T) {
	body := strings.Repeat("long enough article text for parsing to proceed. ", 20)
	fetcher := &stubFetcher{
		pages: map[string]string{"https://ok.example": competitorHTML("OK", []string{"Intro"}, body)},
		fail:  map[string]bool{"https://dead.example": true},
	}

	analyzer := New(fetcher, extract.New(nil), testThresholds())
	stats, err := analyzer.Analyze(context.Background(), []models.SERPArticle{
		{URL: "https://ok.example", Title: "OK"},
		{URL: "https://dead.example", Title: "Dead", Snippet: "a snippet", WordCount: 1200, Topics: []string{"react"}},
	}, "react")
	require.NoError(t, err, "one dead URL must not abort the batch")

	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 1200, stats.WordCountMax, "fallback word count should come from snippet metadata")
}

func TestAnalyzeEmptyInput(t *testing.T) {
	analyzer := New(&stubFetcher{}, extract.New(nil), testThresholds())
	stats, err := analyzer.Analyze(context.Background(), nil, "react")
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
}

func TestAnalyzeCapsArticleCount(t *testing.T) {
	fetcher := &stubFetcher{fail: map[string]bool{}}
	fetcher.pages = map[string]string{}

	th := testThresholds()
	th.MaxCompetitorArticles = 3

	var articles []models.SERPArticle
	for i := 0; i < 6; i++ {
		url := fmt.Sprintf("https://site%d.example", i)
		articles = append(articles, models.SERPArticle{URL: url, Title: "t", WordCount: 100})
		fetcher.fail[url] = true // all fall back, keeps the test offline-fast
	}

	analyzer := New(fetcher, extract.New(nil), th)
	stats, err := analyzer.Analyze(context.Background(), articles, "kw")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Documents)
}

func TestContentGaps(t *testing.T) {
	docs := make([]models.CompetitorContent, 7)
	for i := range docs {
		docs[i].WordCount = 1000
		docs[i].Topics = []string{"universal"}
		if i < 3 {
			docs[i].Topics = append(docs[i].Topics, "opportunity")
		}
		if i == 0 {
			docs[i].Topics = append(docs[i].Topics, "noise")
		}
	}

	stats := Aggregate(docs)

	joined := strings.Join(stats.ContentGaps, "\n")
	assert.Contains(t, joined, "opportunity", "topic in 3 of 7 docs is a gap")
	assert.NotContains(t, joined, "universal", "universal topics are required, not gaps")
	assert.NotContains(t, joined, "noise", "single-document topics are noise")
}

func TestAggregateStructurePatterns(t *testing.T) {
	docs := []models.CompetitorContent{
		{WordCount: 1000, Headings: []string{"a", "b"}, HasVideo: true, HasTable: true, InternalLinks: 10, Images: 4},
		{WordCount: 2000, Headings: []string{"c", "d", "e", "f"}, HasFAQ: true, InternalLinks: 6, Images: 2},
	}

	stats := Aggregate(docs)

	assert.Equal(t, 1500, stats.AverageWordCount)
	assert.Equal(t, 2000, stats.MedianWordCount)
	assert.Equal(t, 3, stats.Structure.AvgHeadings)
	assert.Equal(t, 8, stats.Structure.AvgInternalLinks)
	assert.InDelta(t, 50.0, stats.Structure.VideoPercentage, 0.01)
	assert.InDelta(t, 50.0, stats.Structure.FAQPercentage, 0.01)
}
