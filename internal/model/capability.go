package model

// Capabilities describes which downstream metrics the ingested event
// inventory can legitimately support. Recomputed in full on every ingestion;
// never persisted independently of its run.
type Capabilities struct {
	HasPointInTimeEvents  bool `json:"has_point_in_time_events"`
	HasSnapshotDiffEvents bool `json:"has_snapshot_diff_events"`

	// Metric family flags derived from the event inventory.
	FunnelConversions bool `json:"funnel_conversions"`
	TimeToMetrics     bool `json:"time_to_metrics"`
	StageDwellMetrics bool `json:"stage_dwell_metrics"`

	AvailableMetrics   []string          `json:"available_metrics"`
	UnavailableMetrics []string          `json:"unavailable_metrics"`
	UnavailableReasons map[string]string `json:"unavailable_reasons,omitempty"`
}

// MetricAvailable reports whether a metric name was marked computable.
func (c *Capabilities) MetricAvailable(name string) bool {
	for _, m := range c.AvailableMetrics {
		if m == name {
			return true
		}
	}
	return false
}
