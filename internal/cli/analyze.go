package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/coverage"
	"github.com/contentiq/contentiq/internal/fetch"
	"github.com/contentiq/contentiq/internal/metrics"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/parser"
)

var (
	analyzeKeyword     string
	analyzeCompetitors []string
	analyzeTimeout     time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <article-file>",
	Short: "Score topic coverage against competitor articles",
	Long: `Score how completely an article covers its topic compared to
competitor pages.

Competitor URLs are fetched and their text is fed into the scorer alongside
the article. The output includes per-entity and per-subtopic coverage, the
completeness score, detected gaps, and prioritized recommendations.

Examples:
  contentiq analyze article.html -k "react hooks"
  contentiq analyze article.html -k "react hooks" -u https://a.example/post -u https://b.example/post`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeKeyword, "keyword", "k", "", "focus keyword (required)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeCompetitors, "url", "u", nil, "competitor article URL (repeatable)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 30*time.Second, "per-request fetch timeout")
	_ = analyzeCmd.MarkFlagRequired("keyword")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	article, err := readArticle(args[0])
	if err != nil {
		return err
	}

	m, err := getModel()
	if err != nil {
		return err
	}

	competitorTexts, err := fetchCompetitorTexts(ctx, analyzeCompetitors)
	if err != nil {
		return err
	}

	scorer := coverage.New(m, cfg.Thresholds)

	var result models.TopicCoverage
	err = collector.Time(metrics.OpCoverage, func() error {
		var scoreErr error
		result, scoreErr = scorer.Score(ctx, article, analyzeKeyword, competitorTexts)
		return scoreErr
	})
	if err != nil {
		return fmt.Errorf("score coverage: %w", err)
	}

	return printJSON(struct {
		Coverage        models.TopicCoverage `json:"coverage"`
		Gaps            models.CoverageGaps  `json:"gaps"`
		Recommendations []string             `json:"recommendations"`
	}{
		Coverage:        result,
		Gaps:            coverage.Gaps(result, cfg.Thresholds),
		Recommendations: coverage.Recommendations(result, cfg.Thresholds),
	})
}

// fetchCompetitorTexts downloads each URL and returns its readable text.
// A failed fetch drops that competitor with a warning instead of aborting.
func fetchCompetitorTexts(ctx context.Context, urls []string) ([]string, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	fetcher := fetch.NewHTTPFetcher(analyzeTimeout)
	var texts []string
	for _, url := range urls {
		var page fetch.Page
		err := collector.Time(metrics.OpScrape, func() error {
			var fetchErr error
			page, fetchErr = fetcher.Fetch(ctx, url)
			return fetchErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(os.Stderr, "Warning: skipping competitor %s: %v\n", url, err)
			continue
		}
		if text := parser.StripHTML(page.HTML); text != "" {
			texts = append(texts, text)
		}
	}
	return texts, nil
}
