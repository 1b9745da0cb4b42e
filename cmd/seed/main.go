package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"notecraft-be/internal/bootstrap"
	"notecraft-be/internal/config"
	"notecraft-be/internal/model"
	"notecraft-be/internal/pkg/logger"
	"notecraft-be/pkg/corpus"
	"notecraft-be/pkg/database"
	"notecraft-be/pkg/rag/indexing"
	"notecraft-be/pkg/rag/namespace"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Pre-populate the passage index from the built-in topic catalog",
	Long: `Pre-populate the passage index from the built-in topic catalog.

Examples:
  seed run --namespace biology --namespace medicine
  seed run --all --max-results 5
  seed list`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List namespaces and their catalog topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, ns := range namespace.All {
			source, _ := ns.Source()
			fmt.Fprintf(out, "%s (%s): %d topics\n", ns, source, len(catalog[ns]))
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch catalog topics and index them",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("namespace")
		all, _ := cmd.Flags().GetBool("all")
		maxResults, _ := cmd.Flags().GetInt("max-results")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		targets, err := selectNamespaces(names, all)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := config.Load()
		s := &seeder{
			fetchers:   corpus.NewDefaultRegistry(cfg.Rag.FetchTimeout, cfg.Keys.PubmedAPIKey),
			maxResults: maxResults,
			dryRun:     dryRun,
			out:        cmd.OutOrStdout(),
		}
		if !dryRun {
			indexer, err := newIndexer(ctx, cfg)
			if err != nil {
				return err
			}
			s.indexer = indexer
		}

		var total seedStats
		for _, ns := range targets {
			fmt.Fprintf(s.out, "%s\n", ns)
			stats, err := s.seedNamespace(ctx, ns, catalog[ns])
			total.Topics += stats.Topics
			total.Documents += stats.Documents
			total.Passages += stats.Passages
			total.Failed += stats.Failed
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(s.out, "Done: %d topics, %d documents, %d passages, %d failed\n",
			total.Topics, total.Documents, total.Passages, total.Failed)
		return nil
	},
}

func init() {
	runCmd.Flags().StringSlice("namespace", nil, "namespace to seed (repeatable)")
	runCmd.Flags().Bool("all", false, "seed every namespace")
	runCmd.Flags().Int("max-results", 3, "documents fetched per topic")
	runCmd.Flags().Bool("dry-run", false, "fetch only, do not embed or store")

	rootCmd.AddCommand(listCmd, runCmd)
}

func selectNamespaces(names []string, all bool) ([]namespace.Namespace, error) {
	if all {
		return namespace.All, nil
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("one of --namespace or --all is required")
	}

	seen := make(map[namespace.Namespace]bool)
	var out []namespace.Namespace
	for _, name := range names {
		ns, err := namespace.Parse(name)
		if err != nil {
			return nil, err
		}
		if !seen[ns] {
			seen[ns] = true
			out = append(out, ns)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func newIndexer(ctx context.Context, cfg *config.Config) (*indexing.Indexer, error) {
	var db *gorm.DB
	if cfg.Database.VectorStore == "pgvector" {
		var err error
		db, err = database.Open(cfg.Database.DatabaseOptions())
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := database.Migrate(db, &model.IndexedPassage{}); err != nil {
			return nil, err
		}
	} else {
		fmt.Fprintln(os.Stderr, "warning: VECTOR_STORE is memory, seeded passages are discarded on exit")
	}

	store, err := bootstrap.NewVectorStore(db, cfg)
	if err != nil {
		return nil, err
	}
	embedder, err := bootstrap.NewEmbeddingProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log := logger.NewZapLogger(cfg.App.WorkerLogFilePath, cfg.App.Environment == "production")
	return indexing.NewIndexer(embedder, store, indexing.Config{
		ChunkSize:        cfg.Rag.ChunkSize,
		ChunkOverlap:     cfg.Rag.ChunkOverlap,
		EmbedConcurrency: cfg.Rag.EmbedConcurrency,
		UpsertBatchSize:  cfg.Rag.UpsertBatchSize,
	}, log), nil
}
