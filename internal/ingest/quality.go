package ingest

import (
	"fmt"
	"time"

	"github.com/sells-group/talent-cli/internal/model"
)

const missingnessSampleCap = 5

// GenerateQualityReport computes missingness, confidence-rule, and quality
// score statistics from the final in-memory tables of one run. Duplicate and
// orphan detection is reserved: the report declares the fields and exposes
// empty collections instead of fabricating findings.
func GenerateQualityReport(result *model.IngestResult) model.QualityReport {
	report := model.QualityReport{
		GeneratedAt:     time.Now().UTC(),
		DuplicateReqIDs: []string{},
		OrphanedApps:    []string{},
	}

	report.Missingness = append(report.Missingness, reqMissingness(result.Requisitions)...)
	report.Missingness = append(report.Missingness, appMissingness(result.Applications)...)
	report.ConfidenceRules = confidenceRules(result)
	report.QualityScore = qualityScore(result.Applications)

	return report
}

// reqMissingness covers the important requisition fields.
func reqMissingness(reqs []model.Requisition) []model.FieldMissingness {
	fields := []struct {
		name string
		get  func(model.Requisition) bool
	}{
		{"title", func(r model.Requisition) bool { return r.Title == "" }},
		{"department", func(r model.Requisition) bool { return r.Department == "" }},
		{"opened_at", func(r model.Requisition) bool { return r.OpenedAt == nil }},
		{"hiring_manager", func(r model.Requisition) bool { return r.HiringManager == "" && r.HiringManagerID == "" }},
	}

	out := make([]model.FieldMissingness, 0, len(fields))
	for _, f := range fields {
		m := model.FieldMissingness{Field: f.name, Entity: "requisition", TotalCount: len(reqs)}
		for _, r := range reqs {
			if f.get(r) {
				m.MissingCount++
				if len(m.SampleIDs) < missingnessSampleCap {
					m.SampleIDs = append(m.SampleIDs, r.ReqID)
				}
			}
		}
		m.MissingPct = pct(m.MissingCount, m.TotalCount)
		out = append(out, m)
	}
	return out
}

// appMissingness covers the important application fields.
func appMissingness(apps []model.Application) []model.FieldMissingness {
	fields := []struct {
		name string
		get  func(model.Application) bool
	}{
		{"applied_at", func(a model.Application) bool { return a.AppliedAt == nil }},
		{"first_contacted_at", func(a model.Application) bool { return a.FirstContactedAt == nil }},
		{"current_stage", func(a model.Application) bool { return a.CurrentStage == "" }},
	}

	out := make([]model.FieldMissingness, 0, len(fields))
	for _, f := range fields {
		m := model.FieldMissingness{Field: f.name, Entity: "application", TotalCount: len(apps)}
		for _, a := range apps {
			if f.get(a) {
				m.MissingCount++
				if len(m.SampleIDs) < missingnessSampleCap {
					m.SampleIDs = append(m.SampleIDs, a.ApplicationID)
				}
			}
		}
		m.MissingPct = pct(m.MissingCount, m.TotalCount)
		out = append(out, m)
	}
	return out
}

// confidenceRules evaluates the fixed data-trust rules. The no-fabricated-
// dates rule is definitionally true in this pipeline and exists as a
// self-check on that definition.
func confidenceRules(result *model.IngestResult) []model.ConfidenceRuleResult {
	withEvents := 0
	for _, a := range result.Applications {
		if a.EventCount > 0 {
			withEvents++
		}
	}
	majorityHaveEvents := len(result.Applications) > 0 && withEvents*2 > len(result.Applications)

	allEventsHigh := true
	for _, e := range result.Events {
		if e.Confidence.Grade != model.ConfidenceHigh {
			allEventsHigh = false
			break
		}
	}

	fabricated := 0
	for _, e := range result.Events {
		if e.Trace.RawValue == "" {
			fabricated++
		}
	}

	return []model.ConfidenceRuleResult{
		{
			Rule:    "majority_of_applications_have_event_history",
			Passed:  majorityHaveEvents,
			Details: fmt.Sprintf("%d of %d applications have at least one event", withEvents, len(result.Applications)),
		},
		{
			Rule:    "all_events_high_confidence",
			Passed:  allEventsHigh,
			Details: fmt.Sprintf("%d events checked", len(result.Events)),
		},
		{
			Rule:    "no_fabricated_dates",
			Passed:  fabricated == 0,
			Details: fmt.Sprintf("%d events without a literal source value", fabricated),
		},
	}
}

// qualityScore is the percentage of applications with at least one real
// extracted event.
func qualityScore(apps []model.Application) float64 {
	if len(apps) == 0 {
		return 0
	}
	withEvents := 0
	for _, a := range apps {
		if a.EventCount > 0 {
			withEvents++
		}
	}
	return pct(withEvents, len(apps))
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
