package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/talent-cli/internal/fetcher"
	"github.com/sells-group/talent-cli/internal/ingest"
	"github.com/sells-group/talent-cli/internal/model"
)

var (
	ingestFile    string
	ingestSheet   string
	ingestMaxRows int
	ingestSave    bool
	ingestOutput  string
	ingestFormat  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest one ATS export into the canonical dataset",
	Long: `Reads an iCIMS-style CSV or XLSX export and produces the canonical
requisition/candidate/application/event tables plus the audit log, data
capabilities, and quality report.

Examples:
  # Ingest a CSV and print the text report
  talent-cli ingest --file export.csv

  # Cap processing and persist the run
  talent-cli ingest --file export.csv --max-rows 1000 --save

  # Full result as JSON
  talent-cli ingest --file export.xlsx --format json --output result.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		doc, err := fetcher.ReadFile(ingestFile, fetcher.Options{
			TrimHeaders: cfg.Ingest.TrimHeaders,
			SheetName:   ingestSheet,
		})
		if err != nil {
			return eris.Wrap(err, "ingest: read file")
		}

		maxRows := ingestMaxRows
		if maxRows == 0 {
			maxRows = cfg.Ingest.MaxRows
		}

		result := ingest.Ingest(doc, ingest.Options{MaxRows: maxRows})

		if ingestSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}

			run, err := st.CreateRun(ctx, result.SourceFile)
			if err != nil {
				return eris.Wrap(err, "ingest: create run")
			}
			if err := st.SaveResult(ctx, run.ID, result); err != nil {
				return eris.Wrap(err, "ingest: save result")
			}
			zap.L().Info("ingest: run saved", zap.String("run_id", run.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "run saved: %s\n", run.ID)
		}

		return writeResult(cmd, result, ingestFormat, ingestOutput)
	},
}

// writeResult renders a result in the requested format to stdout or a file.
func writeResult(cmd *cobra.Command, result *model.IngestResult, format, output string) error {
	var rendered []byte
	switch format {
	case "json":
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result json")
		}
		rendered = b
	case "yaml":
		b, err := yaml.Marshal(result)
		if err != nil {
			return eris.Wrap(err, "marshal result yaml")
		}
		rendered = b
	case "text":
		rendered = []byte(ingest.FormatReport(result))
	default:
		return eris.Errorf("unknown format %q (want text, json, or yaml)", format)
	}

	if output != "" {
		if err := os.WriteFile(output, rendered, 0o644); err != nil {
			return eris.Wrapf(err, "write output %s", output)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(rendered))
	return nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "path to CSV or XLSX export (required)")
	ingestCmd.Flags().StringVar(&ingestSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	ingestCmd.Flags().IntVar(&ingestMaxRows, "max-rows", 0, "cap data rows processed (0 = config default)")
	ingestCmd.Flags().BoolVar(&ingestSave, "save", false, "persist the run to the configured store")
	ingestCmd.Flags().StringVar(&ingestOutput, "output", "", "write result to file instead of stdout")
	ingestCmd.Flags().StringVar(&ingestFormat, "format", "text", "output format: text, json, or yaml")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
