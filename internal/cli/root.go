// Package cli provides the command-line interface for contentiq.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/contentiq/contentiq/internal/config"
	"github.com/contentiq/contentiq/internal/llm"
	"github.com/contentiq/contentiq/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose        bool
	thresholdsFile string
	showTimings    bool

	// Global config and runtime state
	cfg       config.Config
	collector = metrics.NewCollector()
	logClose  func() error

	// Lazy-initialized LLM components
	model    *llm.Model
	embedder *llm.Embedder
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "contentiq",
	Short: "Content intelligence scoring engine",
	Long: `Contentiq analyzes articles against their competitive landscape:
entity and topic extraction, competitor corpus statistics, topic coverage
scoring, semantic internal-link suggestions, freshness and refresh
prioritization, and featured-snippet optimization.

Stages read one article (a local HTML or text file) plus optional
competitor inputs and print their analysis as JSON on stdout.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadWithOverrides(thresholdsFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		logClose = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if showTimings {
			printTimings()
		}
		if logClose != nil {
			if err := logClose(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// getModel lazily initializes the text-generation model.
func getModel() (*llm.Model, error) {
	if model == nil {
		var err error
		model, err = llm.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}
	return model, nil
}

// getEmbedder lazily initializes the embedding client.
func getEmbedder() (*llm.Embedder, error) {
	if embedder == nil {
		var err error
		embedder, err = llm.NewEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("init embedder: %w", err)
		}
	}
	return embedder, nil
}

// readArticle loads the article file every stage command takes as its
// first argument.
func readArticle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read article %s: %w", path, err)
	}
	return string(data), nil
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTimings() {
	snap := collector.Snapshot()
	if len(snap.Operations) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "\nTimings:")
	for op, s := range snap.Operations {
		fmt.Fprintf(os.Stderr, "  %-20s count=%d total=%dms avg=%.1fms\n",
			op, s.Count, s.TotalTimeMs, s.AvgTimeMs)
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&thresholdsFile, "thresholds", "c", "", "YAML file overriding analysis thresholds")
	rootCmd.PersistentFlags().BoolVar(&showTimings, "timings", false, "print per-operation timings to stderr")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(corpusCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(freshnessCmd)
	rootCmd.AddCommand(snippetCmd)
}
