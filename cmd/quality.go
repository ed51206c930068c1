package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	qualityRunID  string
	qualityFile   string
	qualityFormat string
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Show the canonical quality report for a run",
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := loadResult(cmd.Context(), qualityRunID, qualityFile)
		if err != nil {
			return err
		}

		report := result.QualityReport

		switch qualityFormat {
		case "json":
			b, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal quality json")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		case "yaml":
			b, err := yaml.Marshal(report)
			if err != nil {
				return eris.Wrap(err, "marshal quality yaml")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		case "text":
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "quality score: %.1f%%\n", report.QualityScore)
			fmt.Fprintln(out, "missingness:")
			for _, m := range report.Missingness {
				fmt.Fprintf(out, "  %s.%s: %d/%d (%.1f%%)\n", m.Entity, m.Field, m.MissingCount, m.TotalCount, m.MissingPct)
			}
			fmt.Fprintln(out, "confidence rules:")
			for _, r := range report.ConfidenceRules {
				status := "PASS"
				if !r.Passed {
					status = "FAIL"
				}
				fmt.Fprintf(out, "  %s: %s (%s)\n", r.Rule, status, r.Details)
			}
		default:
			return eris.Errorf("unknown format %q (want text, json, or yaml)", qualityFormat)
		}
		return nil
	},
}

func init() {
	qualityCmd.Flags().StringVar(&qualityRunID, "run", "", "persisted run ID")
	qualityCmd.Flags().StringVar(&qualityFile, "file", "", "ingest this file instead of loading a run")
	qualityCmd.Flags().StringVar(&qualityFormat, "format", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(qualityCmd)
}
