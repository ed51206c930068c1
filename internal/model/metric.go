package model

// ExclusionReason counts applications excluded from a metric and why.
type ExclusionReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// MetricResult is the outcome of one metric computation. ComputationPossible
// distinguishes "could not compute because the data cannot support it" from
// "computed, but on limited data" — the latter shows up as a value with a
// low/medium confidence grade instead.
type MetricResult struct {
	Metric               string            `json:"metric"`
	Value                *float64          `json:"value"`
	Unit                 string            `json:"unit,omitempty"`
	IncludedCount        int               `json:"included_count"`
	ExcludedCount        int               `json:"excluded_count"`
	Exclusions           []ExclusionReason `json:"exclusions,omitempty"`
	Confidence           Confidence        `json:"confidence"`
	SourceColumns        []string          `json:"source_columns,omitempty"`
	SampleTraces         []SourceTrace     `json:"sample_traces,omitempty"`
	ComputationPossible  bool              `json:"computation_possible"`
	ComputationBlockedBy string            `json:"computation_blocked_reason,omitempty"`
}

// PhaseBreakdown decomposes one application's time-to-offer into sequential
// phases, in whole days.
type PhaseBreakdown struct {
	ApplicationID string  `json:"application_id"`
	Phase1Days    float64 `json:"phase1_days"` // applied -> first contact
	Phase2Days    float64 `json:"phase2_days"` // first contact -> offer sent
	TotalDays     float64 `json:"total_days"`  // applied -> offer sent
}

// MathInvariantError records a phase-sum deviation beyond tolerance. The
// offending application stays in the aggregates; the error surfaces the
// anomaly without losing signal.
type MathInvariantError struct {
	ApplicationID string  `json:"application_id"`
	Deviation     float64 `json:"deviation_days"`
}

// TimeToOfferBreakdown is the explainer output: per-application phases,
// aggregate medians, validation errors, and the slowest included
// applications.
type TimeToOfferBreakdown struct {
	IncludedCount        int                  `json:"included_count"`
	ExcludedCount        int                  `json:"excluded_count"`
	ExclusionReasons     []ExclusionReason    `json:"exclusion_reasons,omitempty"`
	Phases               []PhaseBreakdown     `json:"phases"`
	MedianTotalDays      *float64             `json:"median_total_days"`
	MedianPhase1Days     *float64             `json:"median_phase1_days"`
	MedianPhase2Days     *float64             `json:"median_phase2_days"`
	MathInvariantErrors  []MathInvariantError `json:"math_invariant_errors"`
	TopDelayContributors []PhaseBreakdown     `json:"top_delay_contributors"`
}
