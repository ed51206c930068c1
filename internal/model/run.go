package model

import "time"

// RunStatus represents the current state of an ingestion run.
type RunStatus string

const (
	RunStatusQueued    RunStatus = "queued"
	RunStatusIngesting RunStatus = "ingesting"
	RunStatusComplete  RunStatus = "complete"
	RunStatusFailed    RunStatus = "failed"
)

// ReportType is the coarse classification of an input file's header shape.
type ReportType string

const (
	ReportTypeFullExport    ReportType = "full_export"
	ReportTypeMinimalExport ReportType = "minimal_export"
	ReportTypeUnknown       ReportType = "unknown"
)

// ReportTypeDetection pairs the classification with how sure the header
// inspection was. Diagnostics only; parsing never branches on it.
type ReportTypeDetection struct {
	Type       ReportType      `json:"type"`
	Confidence ConfidenceGrade `json:"confidence"`
}

// IngestStats carries row/time/event counters for one run.
type IngestStats struct {
	RowsIn           int           `json:"rows_in"`
	RowsProcessed    int           `json:"rows_processed"`
	RowsDropped      int           `json:"rows_dropped"`
	ReqsMerged       int           `json:"reqs_merged"`
	CandidatesMerged int           `json:"candidates_merged"`
	EventsExtracted  int           `json:"events_extracted"`
	Duration         time.Duration `json:"duration_ns"`
}

// IngestResult is the complete output of one ingestion run: the four
// canonical tables plus everything needed to audit and interpret them.
type IngestResult struct {
	SourceFile    string              `json:"source_file"`
	Detection     ReportTypeDetection `json:"detection"`
	Requisitions  []Requisition       `json:"reqs"`
	Candidates    []Candidate         `json:"candidates"`
	Applications  []Application       `json:"applications"`
	Events        []StageEvent        `json:"events"`
	Capabilities  Capabilities        `json:"capabilities"`
	AuditLog      []AuditEntry        `json:"audit_log"`
	QualityReport QualityReport       `json:"quality_report"`
	Stats         IngestStats         `json:"stats"`
	Errors        []string            `json:"errors"`
	Warnings      []string            `json:"warnings"`
}

// Run represents one persisted ingestion run.
type Run struct {
	ID         string        `json:"id"`
	SourceFile string        `json:"source_file"`
	Status     RunStatus     `json:"status"`
	Result     *IngestResult `json:"result,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
