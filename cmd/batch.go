package main

import (
	"fmt"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/talent-cli/internal/fetcher"
	"github.com/sells-group/talent-cli/internal/ingest"
)

var (
	batchMaxRows     int
	batchConcurrency int
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Ingest multiple ATS exports concurrently",
	Long: `Runs one independent ingestion per file. Each file gets its own
accumulator set (audit log, dedup maps), so concurrent runs never share
mutable state or audit numbering.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, files []string) error {
		ctx := cmd.Context()

		concurrency := batchConcurrency
		if concurrency == 0 {
			concurrency = cfg.Batch.MaxConcurrentFiles
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		saved := make(map[string]string, len(files))

		for _, file := range files {
			file := file
			g.Go(func() error {
				doc, err := fetcher.ReadFile(file, fetcher.Options{TrimHeaders: cfg.Ingest.TrimHeaders})
				if err != nil {
					return eris.Wrapf(err, "batch: read %s", file)
				}

				result := ingest.Ingest(doc, ingest.Options{MaxRows: batchMaxRows})

				if batchSave {
					run, err := st.CreateRun(gctx, result.SourceFile)
					if err != nil {
						return eris.Wrapf(err, "batch: create run for %s", file)
					}
					if err := st.SaveResult(gctx, run.ID, result); err != nil {
						return eris.Wrapf(err, "batch: save result for %s", file)
					}
					mu.Lock()
					saved[file] = run.ID
					mu.Unlock()
				}

				zap.L().Info("batch: file ingested",
					zap.String("file", file),
					zap.Int("applications", len(result.Applications)),
					zap.Int("events", len(result.Events)),
					zap.Float64("quality_score", result.QualityReport.QualityScore),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		for file, runID := range saved {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: run %s\n", file, runID)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ingested %d files\n", len(files))
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchMaxRows, "max-rows", 0, "per-file row cap (0 = unlimited)")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent files (0 = config default)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each run to the configured store")
	rootCmd.AddCommand(batchCmd)
}
