package ingest

import (
	"fmt"
	"strings"

	"github.com/sells-group/talent-cli/internal/model"
)

// FormatReport generates a human-readable summary of one ingestion run.
func FormatReport(result *model.IngestResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Ingestion Report: %s\n", result.SourceFile)
	fmt.Fprintf(&b, "Report type: %s (%s confidence)\n\n", result.Detection.Type, result.Detection.Confidence)

	// Summary.
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Rows: %d in, %d processed, %d dropped\n",
		result.Stats.RowsIn, result.Stats.RowsProcessed, result.Stats.RowsDropped)
	fmt.Fprintf(&b, "- Requisitions: %d (%d merged)\n", len(result.Requisitions), result.Stats.ReqsMerged)
	fmt.Fprintf(&b, "- Candidates: %d (%d merged)\n", len(result.Candidates), result.Stats.CandidatesMerged)
	fmt.Fprintf(&b, "- Applications: %d\n", len(result.Applications))
	fmt.Fprintf(&b, "- Events: %d\n", len(result.Events))
	fmt.Fprintf(&b, "- Quality score: %.1f%%\n\n", result.QualityReport.QualityScore)

	// Capabilities.
	b.WriteString("## Capabilities\n")
	for _, m := range result.Capabilities.AvailableMetrics {
		fmt.Fprintf(&b, "- %s: available\n", m)
	}
	for _, m := range result.Capabilities.UnavailableMetrics {
		fmt.Fprintf(&b, "- %s: unavailable (%s)\n", m, result.Capabilities.UnavailableReasons[m])
	}
	b.WriteString("\n")

	// Confidence rules.
	b.WriteString("## Confidence Rules\n")
	for _, r := range result.QualityReport.ConfidenceRules {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Rule, status, r.Details)
	}
	b.WriteString("\n")

	// Warnings.
	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
