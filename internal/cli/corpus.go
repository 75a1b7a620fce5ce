package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/corpus"
	"github.com/contentiq/contentiq/internal/extract"
	"github.com/contentiq/contentiq/internal/fetch"
	"github.com/contentiq/contentiq/internal/metrics"
	"github.com/contentiq/contentiq/internal/models"
)

var (
	corpusKeyword string
	corpusTimeout time.Duration
	corpusNoLLM   bool
)

var corpusCmd = &cobra.Command{
	Use:   "corpus <serp-file>",
	Short: "Aggregate statistics over a competitor corpus",
	Long: `Scrape and aggregate a set of competitor articles into corpus
statistics: word-count distribution, common headings and topics, shared
entities, structural averages, and content-gap opportunities.

The input file is a JSON array of SERP results (url, title, snippet, and
optional structural hints). URLs that fail to scrape fall back to their
snippet metadata instead of aborting the batch.

Examples:
  contentiq corpus serp.json -k "react hooks"
  contentiq corpus serp.json -k "react hooks" --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runCorpus,
}

func init() {
	corpusCmd.Flags().StringVarP(&corpusKeyword, "keyword", "k", "", "focus keyword (required)")
	corpusCmd.Flags().DurationVar(&corpusTimeout, "timeout", 30*time.Second, "per-request fetch timeout")
	corpusCmd.Flags().BoolVar(&corpusNoLLM, "no-llm", false, "use heuristic extraction only")
	_ = corpusCmd.MarkFlagRequired("keyword")
}

func runCorpus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read SERP file %s: %w", args[0], err)
	}
	var articles []models.SERPArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return fmt.Errorf("parse SERP file %s: %w", args[0], err)
	}

	extractor := extract.New(nil)
	if !corpusNoLLM {
		m, err := getModel()
		if err != nil {
			return err
		}
		extractor = extract.New(m)
	}

	analyzer := corpus.New(fetch.NewHTTPFetcher(corpusTimeout), extractor, cfg.Thresholds)

	var stats models.CorpusStats
	err = collector.Time(metrics.OpScrape, func() error {
		var analyzeErr error
		stats, analyzeErr = analyzer.Analyze(ctx, articles, corpusKeyword)
		return analyzeErr
	})
	if err != nil {
		return fmt.Errorf("analyze corpus: %w", err)
	}

	return printJSON(stats)
}
