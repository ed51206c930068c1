package main

import (
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/talent-cli/internal/metrics"
	"github.com/sells-group/talent-cli/internal/model"
)

var (
	metricsRunID  string
	metricsFile   string
	metricsName   string
	metricsReqID  string
	metricsFormat string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Compute capability-gated hiring metrics",
	Long: `Computes one metric (or all known metrics) against a persisted run
or a freshly ingested file. Metrics whose data prerequisites are not met are
returned as structured blocked results, never approximated.

Examples:
  talent-cli metrics --file export.csv --metric time_to_offer
  talent-cli metrics --run 4f7c... --metric hire_rate --req REQ-100
  talent-cli metrics --file export.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := loadResult(cmd.Context(), metricsRunID, metricsFile)
		if err != nil {
			return err
		}

		filter := metrics.Filter{ReqID: metricsReqID}

		names := metrics.Known()
		if metricsName != "" {
			names = []string{metricsName}
		}

		results := make([]model.MetricResult, 0, len(names))
		for _, name := range names {
			results = append(results, metrics.Compute(name, result.Applications, result.Events, result.Capabilities, filter))
		}

		return writeMetricResults(cmd, results, metricsFormat)
	},
}

func writeMetricResults(cmd *cobra.Command, results []model.MetricResult, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal metrics json")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case "yaml":
		b, err := yaml.Marshal(results)
		if err != nil {
			return eris.Wrap(err, "marshal metrics yaml")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	case "text":
		for _, r := range results {
			if !r.ComputationPossible {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s blocked: %s\n", r.Metric, r.ComputationBlockedBy)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %.2f %s (included %d, excluded %d, confidence %s)\n",
				r.Metric, *r.Value, r.Unit, r.IncludedCount, r.ExcludedCount, r.Confidence.Grade)
		}
	default:
		return eris.Errorf("unknown format %q (want text, json, or yaml)", format)
	}
	return nil
}

func init() {
	metricsCmd.Flags().StringVar(&metricsRunID, "run", "", "persisted run ID")
	metricsCmd.Flags().StringVar(&metricsFile, "file", "", "ingest this file instead of loading a run")
	metricsCmd.Flags().StringVar(&metricsName, "metric", "", "metric name (default: all known metrics)")
	metricsCmd.Flags().StringVar(&metricsReqID, "req", "", "restrict to one requisition")
	metricsCmd.Flags().StringVar(&metricsFormat, "format", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(metricsCmd)
}
