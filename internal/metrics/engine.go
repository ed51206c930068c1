package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/sells-group/talent-cli/internal/model"
)

const sampleTraceCap = 3

// Filter narrows the application set a metric is computed over.
type Filter struct {
	ReqID       string
	Disposition model.Disposition
}

func (f Filter) match(a model.Application) bool {
	if f.ReqID != "" && a.ReqID != f.ReqID {
		return false
	}
	if f.Disposition != "" && a.Disposition != f.Disposition {
		return false
	}
	return true
}

// durationMetric is a time-to-X definition: the median of non-negative
// day differences between two application timestamps.
type durationMetric struct {
	from func(model.Application) *time.Time
	to   func(model.Application) *time.Time
	// fromName/toName label the timestamp fields in exclusion reasons.
	fromName, toName string
	// eventTypes whose traces support the computed number.
	eventTypes []model.EventType
}

var durationMetrics = map[string]durationMetric{
	"time_to_hire": {
		from:     func(a model.Application) *time.Time { return a.AppliedAt },
		to:       func(a model.Application) *time.Time { return a.HiredAt },
		fromName: "applied_at", toName: "hired_at",
		eventTypes: []model.EventType{model.EventHired},
	},
	"time_to_offer": {
		from:     func(a model.Application) *time.Time { return a.AppliedAt },
		to:       func(a model.Application) *time.Time { return a.OfferSentAt },
		fromName: "applied_at", toName: "offer_sent_at",
		eventTypes: []model.EventType{model.EventOfferSent},
	},
	"time_to_first_contact": {
		from:     func(a model.Application) *time.Time { return a.AppliedAt },
		to:       func(a model.Application) *time.Time { return a.FirstContactedAt },
		fromName: "applied_at", toName: "first_contacted_at",
		eventTypes: []model.EventType{model.EventStageEntered},
	},
}

// knownMetrics is the full registry surface, including capability-gated
// metrics this pipeline can recognize but not always compute.
var knownMetrics = map[string]bool{
	"hire_rate":              true,
	"time_to_hire":           true,
	"time_to_offer":          true,
	"time_to_first_contact":  true,
	"days_in_stage":          true,
	"stage_conversion_dwell": true,
}

// Compute evaluates one metric against the finished canonical tables. It
// refuses, with a structured blocked result, whenever the data cannot
// legitimately support the number: an unknown name, a capability gap, or an
// empty inclusion set all yield a nil value rather than an approximation.
func Compute(name string, apps []model.Application, events []model.StageEvent, caps model.Capabilities, filter Filter) model.MetricResult {
	if !knownMetrics[name] {
		return model.MetricResult{
			Metric:               name,
			Confidence:           model.Confidence{Grade: model.ConfidenceLow, Reasons: []string{"unknown metric"}},
			ComputationPossible:  false,
			ComputationBlockedBy: fmt.Sprintf("unknown metric %q", name),
		}
	}

	if !caps.MetricAvailable(name) {
		reason := caps.UnavailableReasons[name]
		if reason == "" {
			reason = fmt.Sprintf("data capabilities do not support %s", name)
		}
		return model.MetricResult{
			Metric:        name,
			ExcludedCount: len(apps),
			Exclusions: []model.ExclusionReason{
				{Reason: reason, Count: len(apps)},
			},
			Confidence:           model.Confidence{Grade: model.ConfidenceLow, Reasons: []string{"required event kind absent"}},
			ComputationPossible:  false,
			ComputationBlockedBy: reason,
		}
	}

	filtered := make([]model.Application, 0, len(apps))
	for _, a := range apps {
		if filter.match(a) {
			filtered = append(filtered, a)
		}
	}

	if name == "hire_rate" {
		return hireRate(filtered)
	}

	// A metric can be capability-available without a computation here: the
	// dwell metrics are recognized for snapshot-diff inventories, but this
	// engine has no dwell computation yet. Refuse with structure rather
	// than dispatching into a definition that does not exist.
	def, ok := durationMetrics[name]
	if !ok {
		reason := fmt.Sprintf("%s is recognized but has no computation for this source", name)
		return model.MetricResult{
			Metric:               name,
			ExcludedCount:        len(filtered),
			Confidence:           model.Confidence{Grade: model.ConfidenceLow, Reasons: []string{"metric not implemented for this source"}},
			ComputationPossible:  false,
			ComputationBlockedBy: reason,
		}
	}
	return durationMedian(name, def, filtered, events)
}

// hireRate is hired-count over total, as a 0-1 ratio.
func hireRate(apps []model.Application) model.MetricResult {
	result := model.MetricResult{
		Metric:              "hire_rate",
		Unit:                "ratio",
		ComputationPossible: true,
	}
	if len(apps) == 0 {
		result.Confidence = model.Confidence{Grade: model.ConfidenceLow, Reasons: []string{"no applications in scope"}}
		result.ComputationPossible = false
		result.ComputationBlockedBy = "no applications to compute hire_rate over"
		return result
	}

	hired := 0
	for _, a := range apps {
		if a.Disposition == model.DispositionHired {
			hired++
			if len(result.SampleTraces) < sampleTraceCap {
				result.SampleTraces = append(result.SampleTraces, a.Trace)
			}
		}
	}

	v := float64(hired) / float64(len(apps))
	result.Value = &v
	result.IncludedCount = len(apps)
	result.Confidence = model.Confidence{Grade: model.ConfidenceHigh}
	return result
}

// durationMedian computes a time-to-X metric. Applications missing either
// endpoint or showing a negative span are explicitly excluded with a counted
// reason, never silently dropped.
func durationMedian(name string, def durationMetric, apps []model.Application, events []model.StageEvent) model.MetricResult {
	result := model.MetricResult{
		Metric:              name,
		Unit:                "days",
		ComputationPossible: true,
	}

	var days []float64
	missing := 0
	negative := 0

	for _, a := range apps {
		from, to := def.from(a), def.to(a)
		if from == nil || to == nil {
			missing++
			continue
		}
		d := to.Sub(*from).Hours() / 24
		if d < 0 {
			negative++
			continue
		}
		days = append(days, d)
		result.IncludedCount++
	}

	if missing > 0 {
		result.Exclusions = append(result.Exclusions, model.ExclusionReason{
			Reason: fmt.Sprintf("missing %s or %s", def.fromName, def.toName),
			Count:  missing,
		})
	}
	if negative > 0 {
		result.Exclusions = append(result.Exclusions, model.ExclusionReason{
			Reason: fmt.Sprintf("negative %s to %s span indicates a source ordering defect", def.fromName, def.toName),
			Count:  negative,
		})
	}
	result.ExcludedCount = missing + negative

	result.SourceColumns, result.SampleTraces = supportingEvidence(def, events)

	if len(days) == 0 {
		result.Confidence = model.Confidence{Grade: model.ConfidenceLow, Reasons: []string{"all applications excluded"}}
		result.ComputationPossible = false
		result.ComputationBlockedBy = fmt.Sprintf("no application has both %s and %s", def.fromName, def.toName)
		return result
	}

	v := median(days)
	result.Value = &v
	result.Confidence = model.Confidence{Grade: model.ConfidenceHigh}
	return result
}

// supportingEvidence collects the distinct source columns consulted and up
// to three literal traces from events of the metric's supporting types.
func supportingEvidence(def durationMetric, events []model.StageEvent) ([]string, []model.SourceTrace) {
	wanted := make(map[model.EventType]bool, len(def.eventTypes))
	for _, t := range def.eventTypes {
		wanted[t] = true
	}

	colSet := make(map[string]bool)
	var cols []string
	var traces []model.SourceTrace
	for _, e := range events {
		if !wanted[e.Type] {
			continue
		}
		if c := e.Trace.SourceColumn; c != "" && !colSet[c] {
			colSet[c] = true
			cols = append(cols, c)
		}
		if len(traces) < sampleTraceCap {
			traces = append(traces, e.Trace)
		}
	}
	sort.Strings(cols)
	return cols, traces
}

// median uses the standard midpoint-average rule for even counts.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Known returns the sorted registry of metric names.
func Known() []string {
	names := make([]string, 0, len(knownMetrics))
	for n := range knownMetrics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
