package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-cli/internal/model"
)

var testNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func fullHeaders() []string {
	return []string{
		"Requisition ID", "Job Title", "Department", "Status",
		"Person : System ID", "Person : Full Name", "Source",
		"Date Applied",
		"Date First Interviewed: Phone Screen",
		"Date First Interviewed: Onsite",
		"Hire/Rehire Date",
		"Rejected Date",
	}
}

func TestBuildRequisition_MissingReqIDDropsAndAudits(t *testing.T) {
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()

	req := buildRequisition(cols, map[string]string{"Job Title": "Engineer"}, "f.csv", "row-1", audit, testNow)

	assert.Nil(t, req)
	require.Equal(t, 1, audit.Len())
	e := audit.Entries()[0]
	assert.Equal(t, model.AuditDropRow, e.Action)
	assert.Equal(t, model.ReasonMissingReqID, e.ReasonCode)
}

func TestBuildRequisition_StatusFromCloseDate(t *testing.T) {
	headers := append(fullHeaders(), "Date Opened", "Date Closed")
	cols := resolveColumns(headers)
	audit := NewAuditLog()

	open := buildRequisition(cols, map[string]string{
		"Requisition ID": "REQ-1",
		"Date Opened":    "1/5/2024",
	}, "f.csv", "row-1", audit, testNow)
	closed := buildRequisition(cols, map[string]string{
		"Requisition ID": "REQ-2",
		"Date Closed":    "2/1/2024",
	}, "f.csv", "row-2", audit, testNow)

	require.NotNil(t, open)
	require.NotNil(t, closed)
	assert.Equal(t, model.ReqStatusOpen, open.Status)
	assert.NotNil(t, open.OpenedAt)
	assert.Nil(t, open.ClosedAt)
	assert.Equal(t, model.ReqStatusClosed, closed.Status)
	assert.NotNil(t, closed.ClosedAt)
}

func TestBuildRequisition_Trace(t *testing.T) {
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()

	req := buildRequisition(cols, map[string]string{"Requisition ID": "REQ-1"}, "export.csv", "row-4", audit, testNow)

	require.NotNil(t, req)
	assert.Equal(t, "export.csv", req.Trace.SourceFile)
	assert.Equal(t, "row-4", req.Trace.SourceRowID)
	assert.Equal(t, "Requisition ID", req.Trace.SourceColumn)
	assert.Equal(t, "REQ-1", req.Trace.RawValue)
}

func TestBuildCandidate_MissingIDDropsAndAudits(t *testing.T) {
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()

	cand := buildCandidate(cols, map[string]string{"Person : Full Name": "Ada"}, "f.csv", "row-1", audit, testNow)

	assert.Nil(t, cand)
	assert.Equal(t, model.ReasonMissingCandidateID, audit.Entries()[0].ReasonCode)
}

func TestBuildCandidate_SourceCategorized(t *testing.T) {
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()

	cand := buildCandidate(cols, map[string]string{
		"Person : System ID": "C-9",
		"Source":             "LinkedIn",
	}, "f.csv", "row-1", audit, testNow)

	require.NotNil(t, cand)
	assert.Equal(t, "LinkedIn", cand.Source)
	assert.Equal(t, "social", cand.SourceCategory)
	assert.Equal(t, model.ConfidenceHigh, cand.Confidence.Grade)
}

func TestBuildCandidate_NoSourceColumnDowngrades(t *testing.T) {
	cols := resolveColumns([]string{"Person : System ID", "Person : Full Name"})
	audit := NewAuditLog()

	cand := buildCandidate(cols, map[string]string{"Person : System ID": "C-9"}, "f.csv", "row-1", audit, testNow)

	require.NotNil(t, cand)
	assert.Equal(t, model.ConfidenceMedium, cand.Confidence.Grade)
	assert.Contains(t, cand.Confidence.InferredFields, "source")
}

func TestBuildApplication_CleanHire(t *testing.T) {
	headers := fullHeaders()
	cols := resolveColumns(headers)
	audit := NewAuditLog()
	row := map[string]string{
		"Date Applied":                         "3/1/2024",
		"Date First Interviewed: Phone Screen": "3/10/2024",
		"Date First Interviewed: Onsite":       "3/20/2024",
		"Hire/Rehire Date":                     "4/1/2024",
	}
	events := ExtractStageEvents(row, headers)

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", events, audit, testNow)

	require.NotNil(t, app)
	assert.Equal(t, "C-1:REQ-1", app.ApplicationID)
	assert.Equal(t, model.DispositionHired, app.Disposition)
	assert.True(t, app.IsTerminal)
	assert.Equal(t, model.StageHired, app.CurrentStageCanonical)
	require.NotNil(t, app.AppliedAt)
	assert.Equal(t, 1, app.AppliedAt.Day())
	require.NotNil(t, app.HiredAt)
	assert.Equal(t, time.April, app.HiredAt.Month())
	require.NotNil(t, app.FirstContactedAt)
	assert.Equal(t, 10, app.FirstContactedAt.Day())
	assert.Empty(t, app.MissingTimestamps)
	assert.Equal(t, model.ConfidenceHigh, app.Confidence.Grade)
	assert.Equal(t, 3, app.EventCount)
}

func TestBuildApplication_TerminalFreeze(t *testing.T) {
	// A stage event dated after the rejection must not reopen the application.
	headers := fullHeaders()
	cols := resolveColumns(headers)
	audit := NewAuditLog()
	row := map[string]string{
		"Date First Interviewed: Phone Screen": "3/10/2024",
		"Rejected Date":                        "3/15/2024",
		"Date First Interviewed: Onsite":       "3/20/2024",
	}
	events := ExtractStageEvents(row, headers)

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", events, audit, testNow)

	assert.Equal(t, model.DispositionRejected, app.Disposition)
	assert.True(t, app.IsTerminal)
	assert.Equal(t, model.StageRejected, app.CurrentStageCanonical)
	require.NotNil(t, app.RejectedAt)
	assert.Equal(t, 15, app.RejectedAt.Day())
}

func TestBuildApplication_StatusInferredTerminal(t *testing.T) {
	// "Rejected" status with no rejection timestamp anywhere: the outcome is
	// honored, the missing timestamp is recorded, and confidence drops to
	// medium. No date is invented.
	headers := fullHeaders()
	cols := resolveColumns(headers)
	audit := NewAuditLog()
	row := map[string]string{
		"Status":                               "Rejected",
		"Date First Interviewed: Phone Screen": "3/10/2024",
	}
	events := ExtractStageEvents(row, headers)

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", events, audit, testNow)

	assert.Equal(t, model.DispositionRejected, app.Disposition)
	assert.True(t, app.IsTerminal)
	assert.Nil(t, app.RejectedAt)
	assert.Equal(t, []string{"rejected_at"}, app.MissingTimestamps)
	assert.Equal(t, model.ConfidenceMedium, app.Confidence.Grade)

	var flagged bool
	for _, e := range audit.Entries() {
		if e.Action == model.AuditFlag && e.ReasonCode == model.ReasonMissingTerminalTimestamp {
			flagged = true
		}
	}
	assert.True(t, flagged)
}

func TestBuildApplication_StatusInferredTerminalNoEvents(t *testing.T) {
	// Zero events but a literal terminal status: medium, not low. The outcome
	// is grounded in a real cell; only its timing is inferred.
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()
	row := map[string]string{"Status": "Withdrawn"}

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", nil, audit, testNow)

	assert.Equal(t, model.DispositionWithdrawn, app.Disposition)
	assert.Equal(t, model.ConfidenceMedium, app.Confidence.Grade)
	assert.Contains(t, app.Confidence.Reasons, "no stage events extracted")
	assert.Zero(t, app.EventCount)
}

func TestBuildApplication_NoEventsNoTerminalStatusIsLow(t *testing.T) {
	cols := resolveColumns(fullHeaders())
	audit := NewAuditLog()
	row := map[string]string{"Status": "Under Review"}

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", nil, audit, testNow)

	assert.Equal(t, model.DispositionActive, app.Disposition)
	assert.False(t, app.IsTerminal)
	assert.Equal(t, model.ConfidenceLow, app.Confidence.Grade)
	assert.Nil(t, app.AppliedAt)
}

func TestBuildApplication_AppliedAtFallsBackToFirstEvent(t *testing.T) {
	headers := fullHeaders()
	cols := resolveColumns(headers)
	audit := NewAuditLog()
	row := map[string]string{
		"Date First Interviewed: Phone Screen": "3/10/2024",
	}
	events := ExtractStageEvents(row, headers)

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", events, audit, testNow)

	require.NotNil(t, app.AppliedAt)
	assert.Equal(t, 10, app.AppliedAt.Day())
}

func TestBuildApplication_FirstContactSkipsSubmission(t *testing.T) {
	headers := []string{
		"Requisition ID", "Person : System ID",
		"Date First Interviewed: Online Submission",
		"Date First Interviewed: Phone Screen",
	}
	cols := resolveColumns(headers)
	audit := NewAuditLog()
	row := map[string]string{
		"Date First Interviewed: Online Submission": "3/1/2024",
		"Date First Interviewed: Phone Screen":      "3/10/2024",
	}
	events := ExtractStageEvents(row, headers)

	app := buildApplication(cols, row, "f.csv", "row-1", "C-1", "REQ-1", events, audit, testNow)

	require.NotNil(t, app.FirstContactedAt)
	assert.Equal(t, 10, app.FirstContactedAt.Day())
}

func TestBuildEvents_OneToOneHighConfidence(t *testing.T) {
	headers := fullHeaders()
	row := map[string]string{
		"Date First Interviewed: Phone Screen": "3/10/2024",
		"Hire/Rehire Date":                     "4/1/2024",
	}
	extracted := ExtractStageEvents(row, headers)
	audit := NewAuditLog()

	events := buildEvents("C-1:REQ-1", "f.csv", "row-1", extracted, audit, testNow)

	require.Len(t, events, 2)
	assert.Equal(t, "C-1:REQ-1:e0", events[0].EventID)
	assert.Equal(t, "C-1:REQ-1:e1", events[1].EventID)
	for _, e := range events {
		assert.Equal(t, "C-1:REQ-1", e.ApplicationID)
		assert.Equal(t, model.KindPointInTime, e.Kind)
		assert.Equal(t, model.ConfidenceHigh, e.Confidence.Grade)
		assert.NotEmpty(t, e.Trace.RawValue)
		assert.NotEmpty(t, e.Trace.SourceColumn)
	}
	assert.Equal(t, 2, audit.Len())
}

func TestApplicationID(t *testing.T) {
	assert.Equal(t, "C-1:REQ-9", ApplicationID("C-1", "REQ-9"))
}
