package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/linking"
	"github.com/contentiq/contentiq/internal/metrics"
	"github.com/contentiq/contentiq/internal/models"
	"github.com/contentiq/contentiq/internal/store/surreal"
)

var (
	linksID      string
	linksTitle   string
	linksKeyword string
)

var linksCmd = &cobra.Command{
	Use:   "links <article-file>",
	Short: "Suggest internal links from the published article set",
	Long: `Suggest internal links for an article against the published
articles in the store.

Candidates are ranked by embedding similarity, then the model proposes an
anchor and placement for each. Suggestions below the relevance floor are
dropped. The output also reports existing internal links and link-graph
health metrics.

Examples:
  contentiq links article.html --id react-hooks-guide -k "react hooks"
  contentiq links draft.html --id draft-1 --title "React Hooks Guide" -k "react hooks"`,
	Args: cobra.ExactArgs(1),
	RunE: runLinks,
}

func init() {
	linksCmd.Flags().StringVar(&linksID, "id", "", "article identifier, excluded from candidates (required)")
	linksCmd.Flags().StringVar(&linksTitle, "title", "", "article title shown to the placement model")
	linksCmd.Flags().StringVarP(&linksKeyword, "keyword", "k", "", "focus keyword")
	_ = linksCmd.MarkFlagRequired("id")
}

func runLinks(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	article, err := readArticle(args[0])
	if err != nil {
		return err
	}

	m, err := getModel()
	if err != nil {
		return err
	}
	emb, err := getEmbedder()
	if err != nil {
		return err
	}

	client, err := surreal.NewClient(ctx, surreal.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, nil)
	if err != nil {
		return fmt.Errorf("connect to store: %w", err)
	}
	defer func() {
		if err := client.Close(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close store: %v\n", err)
		}
	}()

	if err := client.InitSchema(ctx, emb.Dimension()); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}

	candidates, err := client.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published articles: %w", err)
	}

	suggester := linking.New(m, surreal.NewCache(client, emb), cfg.Thresholds)

	var analysis models.InternalLinkingAnalysis
	err = collector.Time(metrics.OpLinking, func() error {
		var suggestErr error
		analysis, suggestErr = suggester.SuggestLinks(ctx, linking.CurrentArticle{
			ID:           linksID,
			Title:        linksTitle,
			Content:      article,
			FocusKeyword: linksKeyword,
		}, candidates)
		return suggestErr
	})
	if err != nil {
		return fmt.Errorf("suggest links: %w", err)
	}

	return printJSON(analysis)
}
