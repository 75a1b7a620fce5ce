package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/metrics"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/snippet"
)

var (
	snippetKeyword   string
	snippetFormat    string
	snippetIncumbent string
)

var snippetCmd = &cobra.Command{
	Use:   "snippet <article-file>",
	Short: "Generate a featured-snippet candidate",
	Long: `Generate featured-snippet content for a keyword: a paragraph
answer sized to the target word band, a harvested list, or a comparison
table, plus an insertion point and a win-probability estimate.

Pass the incumbent snippet (JSON: type, content, source, url) to factor its
authority into the estimate.

Examples:
  contentiq snippet article.html -k "what is seo"
  contentiq snippet article.html -k "how to optimize seo" --format list
  contentiq snippet article.html -k "seo vs sem" --format table --incumbent current.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSnippet,
}

func init() {
	snippetCmd.Flags().StringVarP(&snippetKeyword, "keyword", "k", "", "target keyword (required)")
	snippetCmd.Flags().StringVarP(&snippetFormat, "format", "f", "paragraph", "snippet format: paragraph, list, or table")
	snippetCmd.Flags().StringVar(&snippetIncumbent, "incumbent", "", "JSON file describing the current snippet holder")
	_ = snippetCmd.MarkFlagRequired("keyword")
}

func runSnippet(cmd *cobra.Command, args []string) error {
	article, err := readArticle(args[0])
	if err != nil {
		return err
	}

	format := models.SnippetFormat(snippetFormat)
	switch format {
	case models.SnippetParagraph, models.SnippetList, models.SnippetTable:
	default:
		return fmt.Errorf("unknown format %q (want paragraph, list, or table)", snippetFormat)
	}

	var current *models.DetectedSnippet
	if snippetIncumbent != "" {
		data, err := os.ReadFile(snippetIncumbent)
		if err != nil {
			return fmt.Errorf("read incumbent file %s: %w", snippetIncumbent, err)
		}
		current = &models.DetectedSnippet{}
		if err := json.Unmarshal(data, current); err != nil {
			return fmt.Errorf("parse incumbent file %s: %w", snippetIncumbent, err)
		}
	}

	optimizer := snippet.New(cfg.Thresholds)

	var result models.SnippetOptimization
	_ = collector.Time(metrics.OpSnippet, func() error {
		result = optimizer.Optimize(snippetKeyword, article, current, format)
		return nil
	})

	return printJSON(result)
}
