package ingest

import (
	"fmt"
	"sort"

	"github.com/sells-group/talent-cli/internal/model"
)

// metricRequirements declares, per metric, which event kind its computation
// legitimately needs. A metric is never marked available unless its
// prerequisite kind is actually present in the evaluated dataset.
var metricRequirements = map[string]model.EventKind{
	"hire_rate":              model.KindPointInTime,
	"time_to_hire":           model.KindPointInTime,
	"time_to_offer":          model.KindPointInTime,
	"time_to_first_contact":  model.KindPointInTime,
	"days_in_stage":          model.KindSnapshotDiff,
	"stage_conversion_dwell": model.KindSnapshotDiff,
}

// ComputeCapabilities inspects the produced event inventory and decides
// which downstream metrics are computable. Deliberately conservative.
func ComputeCapabilities(events []model.StageEvent) model.Capabilities {
	caps := model.Capabilities{
		AvailableMetrics:   []string{},
		UnavailableMetrics: []string{},
		UnavailableReasons: map[string]string{},
	}

	for _, e := range events {
		switch e.Kind {
		case model.KindPointInTime:
			caps.HasPointInTimeEvents = true
		case model.KindSnapshotDiff:
			caps.HasSnapshotDiffEvents = true
		}
	}

	caps.FunnelConversions = caps.HasPointInTimeEvents
	caps.TimeToMetrics = caps.HasPointInTimeEvents
	caps.StageDwellMetrics = caps.HasSnapshotDiffEvents

	for metric, kind := range metricRequirements {
		available := (kind == model.KindPointInTime && caps.HasPointInTimeEvents) ||
			(kind == model.KindSnapshotDiff && caps.HasSnapshotDiffEvents)
		if available {
			caps.AvailableMetrics = append(caps.AvailableMetrics, metric)
			continue
		}
		caps.UnavailableMetrics = append(caps.UnavailableMetrics, metric)
		caps.UnavailableReasons[metric] = unavailabilityReason(metric, kind)
	}

	sort.Strings(caps.AvailableMetrics)
	sort.Strings(caps.UnavailableMetrics)

	return caps
}

func unavailabilityReason(metric string, kind model.EventKind) string {
	if kind == model.KindSnapshotDiff {
		return fmt.Sprintf("%s requires snapshot-diff events (exit/dwell timing); this dataset contains none", metric)
	}
	return fmt.Sprintf("%s requires point-in-time events; this dataset contains none", metric)
}
