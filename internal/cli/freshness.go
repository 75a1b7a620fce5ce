package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/freshness"
	"github.com/contentiq/contentiq/internal/metrics"
	"github.com/contentiq/contentiq/internal/models"
)

var (
	freshnessUpdated  string
	freshnessKeyword  string
	freshnessID       string
	freshnessSlug     string
	freshnessRankings string
	freshnessRefresh  bool
)

var freshnessCmd = &cobra.Command{
	Use:   "freshness <article-file>",
	Short: "Score content freshness and plan a refresh",
	Long: `Score how current an article is: age decay from the last update
date, plus rule-based detection of outdated years, statistics, and
technology references.

With --refresh the output adds a prioritized refresh plan: sections needing
updates, suggested new data points and sections, and a four-level refresh
priority that also weighs optional ranking-decline data.

Examples:
  contentiq freshness article.html --updated 2024-06-15
  contentiq freshness article.html --updated 2023-01-10 --refresh -k "react hooks" \
      --id art-1 --slug react-hooks-guide --rankings rankings.json`,
	Args: cobra.ExactArgs(1),
	RunE: runFreshness,
}

func init() {
	freshnessCmd.Flags().StringVar(&freshnessUpdated, "updated", "", "last update date, YYYY-MM-DD or RFC 3339 (required)")
	freshnessCmd.Flags().StringVarP(&freshnessKeyword, "keyword", "k", "", "focus keyword, used by the refresh plan")
	freshnessCmd.Flags().StringVar(&freshnessID, "id", "", "article identifier for the refresh plan")
	freshnessCmd.Flags().StringVar(&freshnessSlug, "slug", "", "article slug for the refresh plan")
	freshnessCmd.Flags().StringVar(&freshnessRankings, "rankings", "", "JSON file with keyword ranking observations")
	freshnessCmd.Flags().BoolVar(&freshnessRefresh, "refresh", false, "include the refresh plan")
	_ = freshnessCmd.MarkFlagRequired("updated")
}

func runFreshness(cmd *cobra.Command, args []string) error {
	article, err := readArticle(args[0])
	if err != nil {
		return err
	}

	lastUpdated, err := parseDate(freshnessUpdated)
	if err != nil {
		return err
	}

	var rankings []models.RankingData
	if freshnessRankings != "" {
		data, err := os.ReadFile(freshnessRankings)
		if err != nil {
			return fmt.Errorf("read rankings file %s: %w", freshnessRankings, err)
		}
		if err := json.Unmarshal(data, &rankings); err != nil {
			return fmt.Errorf("parse rankings file %s: %w", freshnessRankings, err)
		}
	}

	analyzer := freshness.New(cfg.Thresholds)

	var analysis models.FreshnessAnalysis
	_ = collector.Time(metrics.OpFreshness, func() error {
		analysis = analyzer.Analyze(article, lastUpdated)
		return nil
	})

	if !freshnessRefresh {
		return printJSON(analysis)
	}

	plan := analyzer.SuggestRefresh(freshnessID, freshnessSlug, article, freshnessKeyword, lastUpdated, rankings, analysis)
	return printJSON(struct {
		Freshness models.FreshnessAnalysis `json:"freshness"`
		Refresh   models.RefreshAnalysis   `json:"refresh"`
	}{analysis, plan})
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse date %q: expected YYYY-MM-DD or RFC 3339", s)
}
