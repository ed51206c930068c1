package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-cli/internal/ingest"
	"github.com/sells-group/talent-cli/internal/model"
)

func day(d int) *time.Time {
	t := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func pointInTimeCaps() model.Capabilities {
	return model.Capabilities{
		HasPointInTimeEvents: true,
		TimeToMetrics:        true,
		FunnelConversions:    true,
		AvailableMetrics:     []string{"hire_rate", "time_to_first_contact", "time_to_hire", "time_to_offer"},
		UnavailableMetrics:   []string{"days_in_stage", "stage_conversion_dwell"},
		UnavailableReasons: map[string]string{
			"days_in_stage":          "days_in_stage requires snapshot-diff events (exit/dwell timing); this dataset contains none",
			"stage_conversion_dwell": "stage_conversion_dwell requires snapshot-diff events (exit/dwell timing); this dataset contains none",
		},
	}
}

func hiredApp(id string, applied, hired int) model.Application {
	return model.Application{
		ApplicationID: id,
		Disposition:   model.DispositionHired,
		AppliedAt:     day(applied),
		HiredAt:       day(hired),
	}
}

func TestCompute_UnknownMetric(t *testing.T) {
	result := Compute("attrition_velocity", nil, nil, pointInTimeCaps(), Filter{})

	assert.False(t, result.ComputationPossible)
	assert.Nil(t, result.Value)
	assert.Contains(t, result.ComputationBlockedBy, "unknown metric")
	assert.Equal(t, model.ConfidenceLow, result.Confidence.Grade)
}

func TestCompute_CapabilityBlocked(t *testing.T) {
	apps := []model.Application{hiredApp("a1", 1, 20), hiredApp("a2", 1, 25)}

	result := Compute("days_in_stage", apps, nil, pointInTimeCaps(), Filter{})

	assert.False(t, result.ComputationPossible)
	assert.Nil(t, result.Value)
	assert.Equal(t, len(apps), result.ExcludedCount)
	require.Len(t, result.Exclusions, 1)
	assert.Contains(t, result.Exclusions[0].Reason, "snapshot-diff")
	assert.Contains(t, result.ComputationBlockedBy, "snapshot-diff")
}

func TestCompute_DwellMetricsAvailableButNotComputed(t *testing.T) {
	// A snapshot-diff inventory marks the dwell metrics available, but the
	// engine has no dwell computation. The result must be a structured
	// refusal, never a crash.
	caps := ingest.ComputeCapabilities([]model.StageEvent{
		{EventID: "e1", Kind: model.KindSnapshotDiff, Type: model.EventStageEntered},
	})
	require.True(t, caps.MetricAvailable("days_in_stage"))
	apps := []model.Application{{ApplicationID: "a1"}, {ApplicationID: "a2"}}

	for _, name := range []string{"days_in_stage", "stage_conversion_dwell"} {
		result := Compute(name, apps, nil, caps, Filter{})

		assert.False(t, result.ComputationPossible, name)
		assert.Nil(t, result.Value, name)
		assert.Equal(t, len(apps), result.ExcludedCount, name)
		assert.Contains(t, result.ComputationBlockedBy, "no computation", name)
		assert.Equal(t, model.ConfidenceLow, result.Confidence.Grade, name)
	}
}

func TestCompute_HireRate(t *testing.T) {
	apps := []model.Application{
		hiredApp("a1", 1, 20),
		{ApplicationID: "a2", Disposition: model.DispositionRejected},
		{ApplicationID: "a3", Disposition: model.DispositionActive},
		{ApplicationID: "a4", Disposition: model.DispositionHired},
	}

	result := Compute("hire_rate", apps, nil, pointInTimeCaps(), Filter{})

	require.NotNil(t, result.Value)
	assert.InDelta(t, 0.5, *result.Value, 0.001)
	assert.Equal(t, "ratio", result.Unit)
	assert.Equal(t, 4, result.IncludedCount)
	assert.Equal(t, model.ConfidenceHigh, result.Confidence.Grade)
}

func TestCompute_HireRateEmptyScope(t *testing.T) {
	result := Compute("hire_rate", nil, nil, pointInTimeCaps(), Filter{})

	assert.False(t, result.ComputationPossible)
	assert.Nil(t, result.Value)
	assert.Contains(t, result.ComputationBlockedBy, "no applications")
}

func TestCompute_TimeToHireMedianOdd(t *testing.T) {
	apps := []model.Application{
		hiredApp("a1", 1, 11), // 10 days
		hiredApp("a2", 1, 21), // 20 days
		hiredApp("a3", 1, 31), // 30 days
	}

	result := Compute("time_to_hire", apps, nil, pointInTimeCaps(), Filter{})

	require.NotNil(t, result.Value)
	assert.InDelta(t, 20.0, *result.Value, 0.001)
	assert.Equal(t, "days", result.Unit)
	assert.Equal(t, 3, result.IncludedCount)
	assert.Zero(t, result.ExcludedCount)
}

func TestCompute_TimeToHireMedianEvenMidpoint(t *testing.T) {
	apps := []model.Application{
		hiredApp("a1", 1, 11), // 10
		hiredApp("a2", 1, 31), // 30
	}

	result := Compute("time_to_hire", apps, nil, pointInTimeCaps(), Filter{})

	require.NotNil(t, result.Value)
	assert.InDelta(t, 20.0, *result.Value, 0.001)
}

func TestCompute_TimeToHireExclusions(t *testing.T) {
	apps := []model.Application{
		hiredApp("a1", 1, 11),
		{ApplicationID: "a2", Disposition: model.DispositionHired, AppliedAt: day(1)},                    // no hired_at
		{ApplicationID: "a3", Disposition: model.DispositionHired, AppliedAt: day(20), HiredAt: day(10)}, // negative
	}

	result := Compute("time_to_hire", apps, nil, pointInTimeCaps(), Filter{})

	require.NotNil(t, result.Value)
	assert.Equal(t, 1, result.IncludedCount)
	assert.Equal(t, 2, result.ExcludedCount)
	require.Len(t, result.Exclusions, 2)
	assert.Contains(t, result.Exclusions[0].Reason, "missing")
	assert.Contains(t, result.Exclusions[1].Reason, "ordering defect")
}

func TestCompute_TimeToHireAllExcluded(t *testing.T) {
	apps := []model.Application{
		{ApplicationID: "a1", AppliedAt: day(1)},
	}

	result := Compute("time_to_hire", apps, nil, pointInTimeCaps(), Filter{})

	assert.False(t, result.ComputationPossible)
	assert.Nil(t, result.Value)
	assert.Contains(t, result.ComputationBlockedBy, "hired_at")
}

func TestCompute_FilterByReq(t *testing.T) {
	apps := []model.Application{
		{ApplicationID: "a1", ReqID: "REQ-1", Disposition: model.DispositionHired},
		{ApplicationID: "a2", ReqID: "REQ-2", Disposition: model.DispositionRejected},
	}

	result := Compute("hire_rate", apps, nil, pointInTimeCaps(), Filter{ReqID: "REQ-1"})

	require.NotNil(t, result.Value)
	assert.InDelta(t, 1.0, *result.Value, 0.001)
	assert.Equal(t, 1, result.IncludedCount)
}

func TestCompute_FilterByDisposition(t *testing.T) {
	apps := []model.Application{
		hiredApp("a1", 1, 11),
		{ApplicationID: "a2", Disposition: model.DispositionRejected, AppliedAt: day(1), HiredAt: day(5)},
	}

	result := Compute("time_to_hire", apps, nil, pointInTimeCaps(), Filter{Disposition: model.DispositionHired})

	assert.Equal(t, 1, result.IncludedCount)
}

func TestCompute_SupportingEvidence(t *testing.T) {
	apps := []model.Application{hiredApp("a1", 1, 11)}
	events := []model.StageEvent{
		{Type: model.EventHired, Trace: model.SourceTrace{SourceColumn: "Hire/Rehire Date", RawValue: "3/11/2024"}},
		{Type: model.EventStageEntered, Trace: model.SourceTrace{SourceColumn: "Date First Interviewed: Phone Screen"}},
		{Type: model.EventHired, Trace: model.SourceTrace{SourceColumn: "Hire/Rehire Date", RawValue: "3/20/2024"}},
	}

	result := Compute("time_to_hire", apps, events, pointInTimeCaps(), Filter{})

	assert.Equal(t, []string{"Hire/Rehire Date"}, result.SourceColumns)
	require.Len(t, result.SampleTraces, 2)
	assert.Equal(t, "3/11/2024", result.SampleTraces[0].RawValue)
}

func TestCompute_SampleTracesCapped(t *testing.T) {
	apps := []model.Application{hiredApp("a1", 1, 11)}
	var events []model.StageEvent
	for i := 0; i < 10; i++ {
		events = append(events, model.StageEvent{Type: model.EventHired, Trace: model.SourceTrace{SourceColumn: "Hire Date"}})
	}

	result := Compute("time_to_hire", apps, events, pointInTimeCaps(), Filter{})

	assert.Len(t, result.SampleTraces, sampleTraceCap)
}

func TestMedian(t *testing.T) {
	assert.InDelta(t, 3.0, median([]float64{5, 1, 3}), 0.001)
	assert.InDelta(t, 2.5, median([]float64{4, 1, 2, 3}), 0.001)
	assert.InDelta(t, 7.0, median([]float64{7}), 0.001)
}

func TestKnown(t *testing.T) {
	names := Known()

	assert.Equal(t, []string{
		"days_in_stage", "hire_rate", "stage_conversion_dwell",
		"time_to_first_contact", "time_to_hire", "time_to_offer",
	}, names)
}
