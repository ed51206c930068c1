package ingest

import (
	"time"

	"github.com/sells-group/talent-cli/internal/model"
)

// AuditLog is the append-only decision ledger for one ingestion run. Entry
// IDs are monotonic within the run; the log is owned by the run's
// accumulators and never shared across concurrent runs.
type AuditLog struct {
	entries []model.AuditEntry
	nextID  int64
	clock   func() time.Time
}

// NewAuditLog creates an empty ledger.
func NewAuditLog() *AuditLog {
	return &AuditLog{nextID: 1, clock: time.Now}
}

// Log appends one entry and returns its assigned ID. Entries are never
// mutated or removed after this point.
func (l *AuditLog) Log(entry model.AuditEntry) int64 {
	entry.ID = l.nextID
	entry.LoggedAt = l.clock()
	l.nextID++
	l.entries = append(l.entries, entry)
	return entry.ID
}

// DropRow records a row drop with its reason code.
func (l *AuditLog) DropRow(entityType, rowID, reason string, trace *model.SourceTrace) {
	l.Log(model.AuditEntry{
		Action:      model.AuditDropRow,
		EntityType:  entityType,
		EntityID:    rowID,
		RowsIn:      1,
		RowsDropped: 1,
		ReasonCode:  reason,
		Trace:       trace,
	})
}

// Build records a successful record construction.
func (l *AuditLog) Build(entityType, entityID string, trace *model.SourceTrace) {
	l.Log(model.AuditEntry{
		Action:     model.AuditBuildRecord,
		EntityType: entityType,
		EntityID:   entityID,
		RowsIn:     1,
		RowsOut:    1,
		Trace:      trace,
	})
}

// Merge records an identity dedup against an existing record.
func (l *AuditLog) Merge(entityType, entityID string) {
	l.Log(model.AuditEntry{
		Action:     model.AuditMergeRecord,
		EntityType: entityType,
		EntityID:   entityID,
		RowsIn:     1,
		RowsMerged: 1,
	})
}

// Emit records a canonical event emission.
func (l *AuditLog) Emit(entityType, entityID string, trace *model.SourceTrace) {
	l.Log(model.AuditEntry{
		Action:     model.AuditEmitEvent,
		EntityType: entityType,
		EntityID:   entityID,
		RowsOut:    1,
		Trace:      trace,
	})
}

// Flag records a soft data-quality signal that does not drop anything.
func (l *AuditLog) Flag(entityType, entityID, reason, details string) {
	l.Log(model.AuditEntry{
		Action:     model.AuditFlag,
		EntityType: entityType,
		EntityID:   entityID,
		ReasonCode: reason,
		Details:    details,
	})
}

// Entries returns the ledger contents in append order.
func (l *AuditLog) Entries() []model.AuditEntry {
	return l.entries
}

// Len returns the number of entries.
func (l *AuditLog) Len() int {
	return len(l.entries)
}
