package ingest

import (
	"fmt"
	"time"

	"github.com/sells-group/talent-cli/internal/model"
)

// columnSet holds the per-file resolution of logical fields to actual
// headers. Resolved once per document, not per row.
type columnSet struct {
	reqID           string
	title           string
	department      string
	location        string
	hiringManagerID string
	hiringManager   string
	recruiterID     string
	recruiter       string
	openedAt        string
	closedAt        string

	candidateID   string
	candidateName string
	email         string
	source        string

	status    string
	appliedAt string
}

func resolveColumns(headers []string) columnSet {
	return columnSet{
		reqID:           ResolveColumn(headers, reqIDSynonyms),
		title:           ResolveColumn(headers, titleSynonyms),
		department:      ResolveColumn(headers, departmentSynonyms),
		location:        ResolveColumn(headers, locationSynonyms),
		hiringManagerID: ResolveColumn(headers, hiringManagerIDSyn),
		hiringManager:   ResolveColumn(headers, hiringManagerSyn),
		recruiterID:     ResolveColumn(headers, recruiterIDSynonyms),
		recruiter:       ResolveColumn(headers, recruiterSynonyms),
		openedAt:        ResolveColumn(headers, openedAtSynonyms),
		closedAt:        ResolveColumn(headers, closedAtSynonyms),
		candidateID:     ResolveColumn(headers, candidateIDSynonyms),
		candidateName:   ResolveColumn(headers, candidateNameSyn),
		email:           ResolveColumn(headers, candidateEmailSyn),
		source:          ResolveColumn(headers, sourceSynonyms),
		status:          ResolveColumn(headers, statusSynonyms),
		appliedAt:       ResolveColumn(headers, appliedAtSynonyms),
	}
}

// ApplicationID forms the composite application identity.
func ApplicationID(candidateID, reqID string) string {
	return candidateID + ":" + reqID
}

// buildRequisition constructs the canonical requisition for one row, or
// returns nil after auditing a drop when the row has no requisition
// identity. Status derives solely from the presence of a close timestamp;
// opened_at/closed_at stay nil unless literally present.
func buildRequisition(cols columnSet, row map[string]string, sourceFile, rowID string, audit *AuditLog, now time.Time) *model.Requisition {
	reqID := cellValue(row, cols.reqID)
	if reqID == "" {
		audit.DropRow("requisition", rowID, model.ReasonMissingReqID, &model.SourceTrace{
			SourceFile:   sourceFile,
			SourceRowID:  rowID,
			SourceColumn: cols.reqID,
			IngestedAt:   now,
		})
		return nil
	}

	opened := ParseDate(cellValue(row, cols.openedAt))
	closed := ParseDate(cellValue(row, cols.closedAt))

	status := model.ReqStatusOpen
	if closed.Date != nil {
		status = model.ReqStatusClosed
	}

	req := &model.Requisition{
		ReqID:           reqID,
		Title:           cellValue(row, cols.title),
		Department:      cellValue(row, cols.department),
		Location:        cellValue(row, cols.location),
		HiringManagerID: cellValue(row, cols.hiringManagerID),
		HiringManager:   cellValue(row, cols.hiringManager),
		RecruiterID:     cellValue(row, cols.recruiterID),
		Recruiter:       cellValue(row, cols.recruiter),
		Status:          status,
		OpenedAt:        opened.Date,
		ClosedAt:        closed.Date,
		Confidence: model.Confidence{
			Grade:          model.ConfidenceHigh,
			InferredFields: []string{"status"},
			Reasons:        []string{"status derived from close-date presence"},
		},
		Trace: model.SourceTrace{
			SourceFile:   sourceFile,
			SourceRowID:  rowID,
			SourceColumn: cols.reqID,
			IngestedAt:   now,
			RawValue:     reqID,
		},
	}

	audit.Build("requisition", reqID, &req.Trace)
	return req
}

// buildCandidate constructs the canonical candidate for one row, or returns
// nil after auditing a drop when no candidate identity resolves.
func buildCandidate(cols columnSet, row map[string]string, sourceFile, rowID string, audit *AuditLog, now time.Time) *model.Candidate {
	candidateID := cellValue(row, cols.candidateID)
	if candidateID == "" {
		audit.DropRow("candidate", rowID, model.ReasonMissingCandidateID, &model.SourceTrace{
			SourceFile:   sourceFile,
			SourceRowID:  rowID,
			SourceColumn: cols.candidateID,
			IngestedAt:   now,
		})
		return nil
	}

	conf := model.Confidence{Grade: model.ConfidenceHigh}
	source := cellValue(row, cols.source)
	if cols.source == "" {
		conf = model.Confidence{
			Grade:          model.ConfidenceMedium,
			Reasons:        []string{"source inferred"},
			InferredFields: []string{"source", "source_category"},
		}
	}

	cand := &model.Candidate{
		CandidateID:    candidateID,
		Name:           cellValue(row, cols.candidateName),
		Email:          cellValue(row, cols.email),
		Source:         source,
		SourceCategory: CategorizeSource(source),
		Confidence:     conf,
		Trace: model.SourceTrace{
			SourceFile:   sourceFile,
			SourceRowID:  rowID,
			SourceColumn: cols.candidateID,
			IngestedAt:   now,
			RawValue:     candidateID,
		},
	}

	audit.Build("candidate", candidateID, &cand.Trace)
	return cand
}

// appState is the application reduction state over the sorted event list.
// The terminal transition is monotonic: once set, stage and disposition are
// frozen against later non-terminal events.
type appState struct {
	disposition    model.Disposition
	stage          string
	stageCanonical model.CanonicalStage
	terminal       bool

	hiredAt     *time.Time
	offerSentAt *time.Time
	rejectedAt  *time.Time
	withdrawnAt *time.Time
}

// apply folds one event into the state.
func (s *appState) apply(e ExtractedEvent) {
	ts := e.OccurredAt

	switch e.Type {
	case model.EventHired:
		if s.hiredAt == nil {
			s.hiredAt = &ts
		}
		if !s.terminal {
			s.disposition = model.DispositionHired
			s.stage = string(model.StageHired)
			s.stageCanonical = model.StageHired
			s.terminal = true
		}
	case model.EventRejected:
		if s.rejectedAt == nil {
			s.rejectedAt = &ts
		}
		if !s.terminal {
			s.disposition = model.DispositionRejected
			s.stage = string(model.StageRejected)
			s.stageCanonical = model.StageRejected
			s.terminal = true
		}
	case model.EventWithdrawn:
		if s.withdrawnAt == nil {
			s.withdrawnAt = &ts
		}
		if !s.terminal {
			s.disposition = model.DispositionWithdrawn
			s.stage = string(model.StageWithdrew)
			s.stageCanonical = model.StageWithdrew
			s.terminal = true
		}
	case model.EventOfferSent:
		if s.offerSentAt == nil {
			s.offerSentAt = &ts
		}
		if !s.terminal {
			s.stage = e.Stage
			s.stageCanonical = model.StageOffer
		}
	case model.EventStageEntered:
		if !s.terminal {
			s.stage = e.Stage
			s.stageCanonical = e.StageCanonical
		}
	}
}

// terminalTimestampField names the timestamp field a terminal disposition
// should have been corroborated by.
func terminalTimestampField(d model.Disposition) string {
	switch d {
	case model.DispositionHired:
		return "hired_at"
	case model.DispositionRejected:
		return "rejected_at"
	case model.DispositionWithdrawn:
		return "withdrawn_at"
	}
	return ""
}

// buildApplication reduces the already-sorted event list into the canonical
// application, applying the freeze-on-terminal precedence and the
// status-column fallback for outcomes known without timing.
func buildApplication(cols columnSet, row map[string]string, sourceFile, rowID, candidateID, reqID string, events []ExtractedEvent, audit *AuditLog, now time.Time) *model.Application {
	appID := ApplicationID(candidateID, reqID)

	state := appState{
		disposition:    model.DispositionActive,
		stageCanonical: model.StageApplied,
	}
	for _, e := range events {
		state.apply(e)
	}

	var missingTimestamps []string
	conf := model.Confidence{Grade: model.ConfidenceHigh}

	// A status column can reveal an outcome the event columns never dated.
	rawStatus := cellValue(row, cols.status)
	if rawStatus != "" {
		mapped := MapStatus(rawStatus)
		if mapped.IsTerminal && !state.terminal {
			state.disposition = mapped.Disposition
			state.stage = rawStatus
			state.stageCanonical = mapped.CanonicalStage
			state.terminal = true
			field := terminalTimestampField(mapped.Disposition)
			missingTimestamps = append(missingTimestamps, field)
			audit.Flag("application", appID, model.ReasonMissingTerminalTimestamp,
				fmt.Sprintf("disposition %s inferred from status %q without a matching timestamp", mapped.Disposition, rawStatus))
		} else if !state.terminal {
			// Non-terminal status updates the raw stage label when no
			// event supplied one.
			if state.stage == "" {
				state.stage = rawStatus
				state.stageCanonical = mapped.CanonicalStage
			}
		}
	}

	appliedAt := ParseDate(cellValue(row, cols.appliedAt)).Date
	if appliedAt == nil && len(events) > 0 {
		first := events[0].OccurredAt
		appliedAt = &first
	}

	var firstContactedAt *time.Time
	for _, e := range events {
		if e.Type != model.EventStageEntered || applicationStage(e.Stage) {
			continue
		}
		ts := e.OccurredAt
		firstContactedAt = &ts
		break
	}

	// A status-inferred terminal outcome downgrades to medium even with no
	// events at all: the outcome itself is grounded in a literal cell, only
	// its timing is not.
	switch {
	case len(missingTimestamps) > 0:
		conf = model.Confidence{
			Grade:          model.ConfidenceMedium,
			Reasons:        []string{"terminal disposition inferred from status without timestamp"},
			InferredFields: missingTimestamps,
		}
		if len(events) == 0 {
			conf.Reasons = append(conf.Reasons, "no stage events extracted")
		}
	case len(events) == 0:
		conf = model.Confidence{
			Grade:   model.ConfidenceLow,
			Reasons: []string{"no stage events extracted"},
		}
	}

	app := &model.Application{
		ApplicationID:         appID,
		CandidateID:           candidateID,
		ReqID:                 reqID,
		CurrentStage:          state.stage,
		CurrentStageCanonical: state.stageCanonical,
		Disposition:           state.disposition,
		IsTerminal:            state.terminal,
		AppliedAt:             appliedAt,
		FirstContactedAt:      firstContactedAt,
		OfferSentAt:           state.offerSentAt,
		HiredAt:               state.hiredAt,
		RejectedAt:            state.rejectedAt,
		WithdrawnAt:           state.withdrawnAt,
		MissingTimestamps:     missingTimestamps,
		EventCount:            len(events),
		Confidence:            conf,
		Trace: model.SourceTrace{
			SourceFile:  sourceFile,
			SourceRowID: rowID,
			IngestedAt:  now,
		},
	}

	audit.Build("application", appID, &app.Trace)
	return app
}

// buildEvents produces one canonical event per extracted event, 1:1. Always
// high confidence: a literal timestamp was matched by construction.
func buildEvents(appID, sourceFile, rowID string, events []ExtractedEvent, audit *AuditLog, now time.Time) []model.StageEvent {
	out := make([]model.StageEvent, 0, len(events))
	for i, e := range events {
		ev := model.StageEvent{
			EventID:        fmt.Sprintf("%s:e%d", appID, i),
			ApplicationID:  appID,
			Type:           e.Type,
			Kind:           model.KindPointInTime,
			Stage:          e.Stage,
			StageCanonical: e.StageCanonical,
			OccurredAt:     e.OccurredAt,
			Confidence:     model.Confidence{Grade: model.ConfidenceHigh},
			Trace: model.SourceTrace{
				SourceFile:   sourceFile,
				SourceRowID:  rowID,
				SourceColumn: e.Column,
				IngestedAt:   now,
				RawValue:     e.Raw,
			},
		}
		audit.Emit("event", ev.EventID, &ev.Trace)
		out = append(out, ev)
	}
	return out
}
