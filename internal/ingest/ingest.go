package ingest

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/talent-cli/internal/model"
)

// Document is the tokenizer boundary: a fully tokenized CSV/XLSX snapshot.
// Rows are string-keyed by header.
type Document struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Options bounds one ingestion run.
type Options struct {
	// MaxRows caps how many data rows are processed; 0 means no cap.
	MaxRows int
}

// accumulators is the single mutable state of one ingestion run. Each run
// owns an independent set; sharing across concurrent runs would corrupt
// audit numbering and identity dedup.
type accumulators struct {
	audit        *AuditLog
	reqs         map[string]*model.Requisition
	reqOrder     []string
	candidates   map[string]*model.Candidate
	candOrder    []string
	applications []model.Application
	events       []model.StageEvent
	warnings     []string
	errors       []string
	stats        model.IngestStats
}

func newAccumulators() *accumulators {
	return &accumulators{
		audit:      NewAuditLog(),
		reqs:       make(map[string]*model.Requisition),
		candidates: make(map[string]*model.Candidate),
	}
}

// Ingest processes one complete ATS export snapshot into the canonical
// dataset. Fully synchronous and deterministic: row order is the file's row
// order, and all cross-row effects (requisition dedup, last-activity
// advancement) are functions of that order alone.
func Ingest(doc Document, opts Options) *model.IngestResult {
	start := time.Now()
	now := start.UTC()
	log := zap.L().With(zap.String("source_file", doc.Name))

	acc := newAccumulators()
	detection := DetectReportType(doc.Headers)
	cols := resolveColumns(doc.Headers)

	if detection.Type == model.ReportTypeUnknown {
		acc.warnings = append(acc.warnings, "unrecognized report shape: identity columns not found")
	}
	if !hasStageColumns(doc.Headers) {
		acc.warnings = append(acc.warnings, "no stage-timestamp columns found")
	}

	rows := doc.Rows
	acc.stats.RowsIn = len(rows)
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
		acc.audit.Flag("file", doc.Name, model.ReasonRowLimitReached,
			fmt.Sprintf("processing capped at %d of %d rows", opts.MaxRows, acc.stats.RowsIn))
		acc.warnings = append(acc.warnings, fmt.Sprintf("row cap applied: %d of %d rows processed", opts.MaxRows, acc.stats.RowsIn))
	}

	for i, row := range rows {
		rowID := fmt.Sprintf("row-%d", i+1)
		ingestRow(acc, cols, doc, row, rowID, now)
		acc.stats.RowsProcessed++
	}

	result := &model.IngestResult{
		SourceFile:   doc.Name,
		Detection:    detection,
		Requisitions: orderedReqs(acc),
		Candidates:   orderedCandidates(acc),
		Applications: acc.applications,
		Events:       acc.events,
		AuditLog:     acc.audit.Entries(),
		Warnings:     acc.warnings,
		Errors:       acc.errors,
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}

	result.Capabilities = ComputeCapabilities(result.Events)
	result.QualityReport = GenerateQualityReport(result)

	acc.stats.EventsExtracted = len(result.Events)
	acc.stats.Duration = time.Since(start)
	result.Stats = acc.stats

	log.Info("ingest: run complete",
		zap.Int("rows_in", acc.stats.RowsIn),
		zap.Int("rows_processed", acc.stats.RowsProcessed),
		zap.Int("rows_dropped", acc.stats.RowsDropped),
		zap.Int("reqs", len(result.Requisitions)),
		zap.Int("candidates", len(result.Candidates)),
		zap.Int("applications", len(result.Applications)),
		zap.Int("events", len(result.Events)),
	)

	return result
}

// ingestRow runs the per-row pipeline: extract events, build canonical
// records, dedup identities, advance requisition activity.
func ingestRow(acc *accumulators, cols columnSet, doc Document, row map[string]string, rowID string, now time.Time) {
	req := buildRequisition(cols, row, doc.Name, rowID, acc.audit, now)
	if req == nil {
		acc.stats.RowsDropped++
		return
	}

	events := ExtractStageEvents(row, doc.Headers)

	// Requisition dedup: first successful build wins except that
	// last_activity_at advances as later rows reveal later events.
	existing, seen := acc.reqs[req.ReqID]
	if seen {
		acc.audit.Merge("requisition", req.ReqID)
		acc.stats.ReqsMerged++
		req = existing
	} else {
		acc.reqs[req.ReqID] = req
		acc.reqOrder = append(acc.reqOrder, req.ReqID)
	}
	advanceLastActivity(req, events)

	cand := buildCandidate(cols, row, doc.Name, rowID, acc.audit, now)
	if cand == nil {
		acc.stats.RowsDropped++
		return
	}
	if _, dup := acc.candidates[cand.CandidateID]; dup {
		acc.audit.Merge("candidate", cand.CandidateID)
		acc.stats.CandidatesMerged++
	} else {
		acc.candidates[cand.CandidateID] = cand
		acc.candOrder = append(acc.candOrder, cand.CandidateID)
	}

	app := buildApplication(cols, row, doc.Name, rowID, cand.CandidateID, req.ReqID, events, acc.audit, now)
	acc.applications = append(acc.applications, *app)
	acc.events = append(acc.events, buildEvents(app.ApplicationID, doc.Name, rowID, events, acc.audit, now)...)
}

// advanceLastActivity is the only post-construction mutation on any
// canonical record.
func advanceLastActivity(req *model.Requisition, events []ExtractedEvent) {
	for _, e := range events {
		ts := e.OccurredAt
		if req.LastActivityAt == nil || ts.After(*req.LastActivityAt) {
			req.LastActivityAt = &ts
		}
	}
}

func hasStageColumns(headers []string) bool {
	for _, h := range headers {
		if _, _, ok := classifyColumn(h); ok {
			return true
		}
	}
	return false
}

func orderedReqs(acc *accumulators) []model.Requisition {
	out := make([]model.Requisition, 0, len(acc.reqOrder))
	for _, id := range acc.reqOrder {
		out = append(out, *acc.reqs[id])
	}
	return out
}

func orderedCandidates(acc *accumulators) []model.Candidate {
	out := make([]model.Candidate, 0, len(acc.candOrder))
	for _, id := range acc.candOrder {
		out = append(out, *acc.candidates[id])
	}
	return out
}
