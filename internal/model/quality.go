package model

import "time"

// FieldMissingness summarizes absence of one important field across a table.
type FieldMissingness struct {
	Field        string   `json:"field"`
	Entity       string   `json:"entity"`
	MissingCount int      `json:"missing_count"`
	TotalCount   int      `json:"total_count"`
	MissingPct   float64  `json:"missing_pct"`
	SampleIDs    []string `json:"sample_ids,omitempty"`
}

// ConfidenceRuleResult is one evaluated data-trust rule.
type ConfidenceRuleResult struct {
	Rule    string `json:"rule"`
	Passed  bool   `json:"passed"`
	Details string `json:"details,omitempty"`
}

// QualityReport is a snapshot of dataset health, generated once at the end of
// an ingestion run from the final in-memory tables. Duplicate and orphan
// collections are declared but always empty in this pipeline: detection is
// reserved, not implemented, and the empty lists make that explicit rather
// than fabricating findings.
type QualityReport struct {
	GeneratedAt     time.Time              `json:"generated_at"`
	Missingness     []FieldMissingness     `json:"missingness"`
	DuplicateReqIDs []string               `json:"duplicate_req_ids"`
	OrphanedApps    []string               `json:"orphaned_applications"`
	ConfidenceRules []ConfidenceRuleResult `json:"confidence_rules"`
	// QualityScore is the percentage of applications with at least one
	// real extracted event, 0-100.
	QualityScore float64 `json:"quality_score"`
}
