package model

import "time"

// AuditAction identifies what structural decision an audit entry records.
type AuditAction string

const (
	AuditBuildRecord AuditAction = "BUILD_RECORD"
	AuditMergeRecord AuditAction = "MERGE_RECORD"
	AuditDropRow     AuditAction = "DROP_ROW"
	AuditEmitEvent   AuditAction = "EMIT_EVENT"
	AuditFlag        AuditAction = "FLAG"
)

// Audit reason codes. Every drop and soft flag carries one so that a human
// can reconstruct why any output row is, or is not, present.
const (
	ReasonMissingReqID             = "MISSING_REQ_ID"
	ReasonMissingCandidateID       = "MISSING_CANDIDATE_ID"
	ReasonMissingTerminalTimestamp = "MISSING_TERMINAL_TIMESTAMP"
	ReasonRowLimitReached          = "ROW_LIMIT_REACHED"
)

// AuditEntry is one append-only ledger record. Entries are never mutated or
// removed, and IDs are monotonic within a single ingestion run.
type AuditEntry struct {
	ID          int64        `json:"id"`
	Action      AuditAction  `json:"action"`
	EntityType  string       `json:"entity_type"`
	EntityID    string       `json:"entity_id,omitempty"`
	RowsIn      int          `json:"rows_in,omitempty"`
	RowsOut     int          `json:"rows_out,omitempty"`
	RowsDropped int          `json:"rows_dropped,omitempty"`
	RowsMerged  int          `json:"rows_merged,omitempty"`
	ReasonCode  string       `json:"reason_code,omitempty"`
	Details     string       `json:"details,omitempty"`
	Trace       *SourceTrace `json:"trace,omitempty"`
	LoggedAt    time.Time    `json:"logged_at"`
}
