package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/talent-cli/internal/metrics"
)

var (
	explainRunID  string
	explainFile   string
	explainFormat string
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Decompose time-to-offer into sequential phases",
	Long: `Breaks time-to-offer into applied->first-contact and
first-contact->offer phases per application, validates that the phases add
up to the total, and reports the slowest included applications.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := loadResult(cmd.Context(), explainRunID, explainFile)
		if err != nil {
			return err
		}

		breakdown := metrics.ExplainTimeToOffer(result.Applications)

		switch explainFormat {
		case "json":
			b, err := json.MarshalIndent(breakdown, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal breakdown json")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		case "yaml":
			b, err := yaml.Marshal(breakdown)
			if err != nil {
				return eris.Wrap(err, "marshal breakdown yaml")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
		case "text":
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "included: %d, excluded: %d\n", breakdown.IncludedCount, breakdown.ExcludedCount)
			for _, r := range breakdown.ExclusionReasons {
				fmt.Fprintf(out, "  excluded %d: %s\n", r.Count, r.Reason)
			}
			if breakdown.MedianTotalDays != nil {
				fmt.Fprintf(out, "median total: %.1f days (phase1 %.1f, phase2 %.1f)\n",
					*breakdown.MedianTotalDays, *breakdown.MedianPhase1Days, *breakdown.MedianPhase2Days)
			}
			if len(breakdown.MathInvariantErrors) > 0 {
				fmt.Fprintf(out, "phase-sum invariant violations: %d\n", len(breakdown.MathInvariantErrors))
				for _, e := range breakdown.MathInvariantErrors {
					fmt.Fprintf(out, "  %s: deviation %.2f days\n", e.ApplicationID, e.Deviation)
				}
			}
			if len(breakdown.TopDelayContributors) > 0 {
				fmt.Fprintln(out, "top delay contributors:")
				for _, p := range breakdown.TopDelayContributors {
					fmt.Fprintf(out, "  %s: %.1f days total\n", p.ApplicationID, p.TotalDays)
				}
			}
		default:
			return eris.Errorf("unknown format %q (want text, json, or yaml)", explainFormat)
		}
		return nil
	},
}

func init() {
	explainCmd.Flags().StringVar(&explainRunID, "run", "", "persisted run ID")
	explainCmd.Flags().StringVar(&explainFile, "file", "", "ingest this file instead of loading a run")
	explainCmd.Flags().StringVar(&explainFormat, "format", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(explainCmd)
}
