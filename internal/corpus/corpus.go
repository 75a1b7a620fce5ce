// Package corpus scrapes and aggregates a set of competitor pages into
// structural and topical statistics: word-count distribution, heading and
// topic frequency tables, common entities, content gaps, and structure
// patterns.
package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/extract"
	"github.com/contentiq/contentiq/internal/fetch"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
)

const (
	maxCommonHeadings = 15
	maxCommonTopics   = 20
	maxCommonEntities = 10
	maxContentGaps    = 10

	scrapeConcurrency = 4
)

// Analyzer scrapes competitor URLs and aggregates the corpus.
type Analyzer struct {
	fetcher    fetch.Fetcher
	extractor  *extract.Extractor
	thresholds config.Thresholds
}

// New creates a corpus analyzer.
func New(fetcher fetch.Fetcher, extractor *extract.Extractor, thresholds config.Thresholds) *Analyzer {
	return &Analyzer{fetcher: fetcher, extractor: extractor, thresholds: thresholds}
}

// Analyze scrapes each article's URL and aggregates the parsed documents.
// A scrape failure for one URL degrades to a fallback record built from the
// article's snippet metadata; it never fails the batch. Documents are
// processed concurrently and re-ordered by their input position afterward.
func (a *Analyzer) Analyze(ctx context.Context, articles []models.SERPArticle, keyword string) (models.CorpusStats, error) {
	if len(articles) > a.thresholds.MaxCompetitorArticles {
		articles = articles[:a.thresholds.MaxCompetitorArticles]
	}
	if len(articles) == 0 {
		return models.CorpusStats{}, nil
	}

	docs := make([]models.CompetitorContent, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scrapeConcurrency)
	for i, article := range articles {
		g.Go(func() error {
			doc, err := a.scrapeOne(gctx, article, keyword)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.CorpusStats{}, fmt.Errorf("analyze corpus: %w", err)
	}

	return Aggregate(docs), nil
}

// scrapeOne fetches and parses a single competitor page. Only context
// cancellation and fatal provider errors propagate; everything else becomes
// a fallback record.
func (a *Analyzer) scrapeOne(ctx context.Context, article models.SERPArticle, keyword string) (models.CompetitorContent, error) {
	page, err := a.fetcher.Fetch(ctx, article.URL)
	if err != nil {
		if ctx.Err() != nil {
			return models.CompetitorContent{}, ctx.Err()
		}
		slog.Warn("scrape failed, using snippet fallback", "url", article.URL, "error", err)
		return fallbackContent(article), nil
	}
	if len(page.HTML) < a.thresholds.MinScrapedContentLen {
		slog.Warn("scraped content too short, using snippet fallback", "url", article.URL, "bytes", len(page.HTML))
		return fallbackContent(article), nil
	}

	doc := a.parsePage(page, article.URL)
	if doc.LastModified == "" {
		doc.LastModified = page.LastModified
	}

	result, err := a.extractor.Extract(ctx, parser.StripHTML(page.HTML), keyword)
	if err != nil {
		return models.CompetitorContent{}, err
	}
	doc.Entities = result.Entities
	doc.Topics = result.Topics

	return doc, nil
}

func (a *Analyzer) parsePage(page fetch.Page, url string) models.CompetitorContent {
	ps := parser.ParsePage(page.HTML, url)
	return models.CompetitorContent{
		URL:           url,
		Title:         ps.Title,
		WordCount:     parser.WordCount(parser.StripHTML(page.HTML)),
		Headings:      ps.Headings,
		Paragraphs:    ps.Paragraphs,
		HasVideo:      ps.HasVideo,
		HasFAQ:        ps.HasFAQ,
		HasTable:      ps.HasTable,
		InternalLinks: ps.InternalLinks,
		ExternalLinks: ps.ExternalLinks,
		Images:        ps.Images,
		LastModified:  ps.LastModified,
	}
}

// fallbackContent builds a minimal record from SERP snippet metadata so one
// blocked or dead URL does not abort the whole batch.
func fallbackContent(article models.SERPArticle) models.CompetitorContent {
	entities := make([]models.Entity, 0, len(article.Entities))
	for _, name := range article.Entities {
		entity := models.NewEntity(name, models.EntityConcept, 1, 50)
		entity.CompetitorMentions = 1
		entities = append(entities, entity)
	}

	return models.CompetitorContent{
		URL:        article.URL,
		Title:      article.Title,
		WordCount:  article.WordCount,
		Headings:   article.Headings,
		Paragraphs: []string{article.Snippet},
		Topics:     article.Topics,
		Entities:   entities,
		HasVideo:   article.HasVideo,
		HasFAQ:     article.HasFAQ,
		HasTable:   article.HasTable,
		// Estimated: the snippet carries no link or image data.
		InternalLinks: 5,
		ExternalLinks: 3,
		Images:        3,
	}
}

// Aggregate computes corpus statistics over already-parsed documents.
func Aggregate(docs []models.CompetitorContent) models.CorpusStats {
	if len(docs) == 0 {
		return models.CorpusStats{}
	}

	wordCounts := make([]int, len(docs))
	for i, d := range docs {
		wordCounts[i] = d.WordCount
	}
	sort.Ints(wordCounts)

	sum := 0
	for _, wc := range wordCounts {
		sum += wc
	}

	headings := frequencyTable(docs, func(d models.CompetitorContent) []string {
		normalized := make([]string, 0, len(d.Headings))
		for _, h := range d.Headings {
			if n := parser.NormalizeHeading(h); n != "" {
				normalized = append(normalized, n)
			}
		}
		return normalized
	})
	topics := frequencyTable(docs, func(d models.CompetitorContent) []string { return d.Topics })

	stats := models.CorpusStats{
		AverageWordCount: sum / len(wordCounts),
		MedianWordCount:  wordCounts[len(wordCounts)/2],
		WordCountMin:     wordCounts[0],
		WordCountMax:     wordCounts[len(wordCounts)-1],
		CommonHeadings:   topN(headings, maxCommonHeadings),
		CommonTopics:     topN(topics, maxCommonTopics),
		CommonEntities:   commonEntities(docs),
		Structure:        structurePatterns(docs),
		Documents:        len(docs),
	}
	stats.ContentGaps = contentGaps(stats.CommonTopics, stats.CommonHeadings)
	return stats
}

// frequencyTable counts each value once per document it appears in.
func frequencyTable(docs []models.CompetitorContent, values func(models.CompetitorContent) []string) map[string]int {
	counts := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]bool)
		for _, v := range values(d) {
			if !seen[v] {
				seen[v] = true
				counts[v]++
			}
		}
	}
	return counts
}

func topN(counts map[string]int, n int) []models.FrequencyEntry {
	entries := make([]models.FrequencyEntry, 0, len(counts))
	for value, freq := range counts {
		entries = append(entries, models.FrequencyEntry{Value: value, Frequency: freq})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Frequency != entries[j].Frequency {
			return entries[i].Frequency > entries[j].Frequency
		}
		return entries[i].Value < entries[j].Value
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func commonEntities(docs []models.CompetitorContent) []models.Entity {
	byName := make(map[string]models.Entity)
	for _, d := range docs {
		for _, entity := range d.Entities {
			if existing, ok := byName[entity.Name]; ok {
				existing.SetMentions(existing.Mentions + entity.Mentions)
				existing.CompetitorMentions++
				byName[entity.Name] = existing
			} else {
				entity.CompetitorMentions = 1
				byName[entity.Name] = entity
			}
		}
	}

	entities := make([]models.Entity, 0, len(byName))
	for _, e := range byName {
		entities = append(entities, e)
	}
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].CompetitorMentions != entities[j].CompetitorMentions {
			return entities[i].CompetitorMentions > entities[j].CompetitorMentions
		}
		return entities[i].Name < entities[j].Name
	})
	if len(entities) > maxCommonEntities {
		entities = entities[:maxCommonEntities]
	}
	return entities
}

// contentGaps flags topics present in some but not all documents and
// headings frequent enough to matter but not universal. Universal topics are
// table stakes; topics in a single document are noise.
func contentGaps(topics, headings []models.FrequencyEntry) []string {
	var gaps []string
	for _, t := range topics {
		if t.Frequency >= 2 && t.Frequency <= 5 {
			gaps = append(gaps, fmt.Sprintf("Underexplored topic: %s", t.Value))
		}
	}
	for _, h := range headings {
		if h.Frequency >= 3 && h.Frequency <= 6 {
			gaps = append(gaps, fmt.Sprintf("Potential heading: %s", h.Value))
		}
	}
	if len(gaps) > maxContentGaps {
		gaps = gaps[:maxContentGaps]
	}
	return gaps
}

func structurePatterns(docs []models.CompetitorContent) models.StructurePatterns {
	total := len(docs)
	if total == 0 {
		return models.StructurePatterns{}
	}

	var headings, paragraphs, internal, external, images, videos, faqs, tables int
	for _, d := range docs {
		headings += len(d.Headings)
		paragraphs += len(d.Paragraphs)
		internal += d.InternalLinks
		external += d.ExternalLinks
		images += d.Images
		if d.HasVideo {
			videos++
		}
		if d.HasFAQ {
			faqs++
		}
		if d.HasTable {
			tables++
		}
	}

	return models.StructurePatterns{
		AvgHeadings:      headings / total,
		AvgParagraphs:    paragraphs / total,
		AvgInternalLinks: internal / total,
		AvgExternalLinks: external / total,
		AvgImages:        images / total,
		VideoPercentage:  float64(videos) / float64(total) * 100,
		FAQPercentage:    float64(faqs) / float64(total) * 100,
		TablePercentage:  float64(tables) / float64(total) * 100,
	}
}
