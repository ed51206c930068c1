package model

import "time"

// SourceTrace pins a canonical record or event to the literal cell(s) it came
// from. It is the sole provenance mechanism: immutable once created.
type SourceTrace struct {
	SourceFile   string    `json:"source_file"`
	SourceRowID  string    `json:"source_row_id"`
	SourceColumn string    `json:"source_column,omitempty"`
	IngestedAt   time.Time `json:"ingested_at"`
	RawValue     string    `json:"raw_value,omitempty"`
}

// ConfidenceGrade is a coarse trust level attached at record construction.
type ConfidenceGrade string

const (
	ConfidenceHigh   ConfidenceGrade = "high"
	ConfidenceMedium ConfidenceGrade = "medium"
	ConfidenceLow    ConfidenceGrade = "low"
)

// Confidence records how much a canonical record can be trusted and why.
// Computed once when the record is built; never upgraded later.
type Confidence struct {
	Grade          ConfidenceGrade `json:"grade"`
	Reasons        []string        `json:"reasons,omitempty"`
	InferredFields []string        `json:"inferred_fields,omitempty"`
}
