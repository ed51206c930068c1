package ingest

import (
	"strings"

	"github.com/sells-group/talent-cli/internal/model"
)

// StatusMapping is the canonical interpretation of one raw ATS status string.
type StatusMapping struct {
	CanonicalStage model.CanonicalStage
	IsTerminal     bool
	Disposition    model.Disposition
	IsUnmapped     bool
	Confidence     model.ConfidenceGrade
}

// statusTable maps known raw ATS statuses. Plain constant data, looked up
// exactly first and case-insensitively second.
var statusTable = map[string]StatusMapping{
	"New Submission":     {CanonicalStage: model.StageApplied, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Applied":            {CanonicalStage: model.StageApplied, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Under Review":       {CanonicalStage: model.StageApplied, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Phone Screen":       {CanonicalStage: model.StageScreen, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Screening":          {CanonicalStage: model.StageScreen, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Interview":          {CanonicalStage: model.StageInterview, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Interviewing":       {CanonicalStage: model.StageInterview, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Onsite Interview":   {CanonicalStage: model.StageOnsite, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Final Interview":    {CanonicalStage: model.StageOnsite, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Offer Extended":     {CanonicalStage: model.StageOffer, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Offer Letter Sent":  {CanonicalStage: model.StageOffer, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Offer Accepted":     {CanonicalStage: model.StageOffer, Disposition: model.DispositionActive, Confidence: model.ConfidenceHigh},
	"Hired":              {CanonicalStage: model.StageHired, IsTerminal: true, Disposition: model.DispositionHired, Confidence: model.ConfidenceHigh},
	"Hired/Started":      {CanonicalStage: model.StageHired, IsTerminal: true, Disposition: model.DispositionHired, Confidence: model.ConfidenceHigh},
	"Rejected":           {CanonicalStage: model.StageRejected, IsTerminal: true, Disposition: model.DispositionRejected, Confidence: model.ConfidenceHigh},
	"Not Selected":       {CanonicalStage: model.StageRejected, IsTerminal: true, Disposition: model.DispositionRejected, Confidence: model.ConfidenceHigh},
	"Declined":           {CanonicalStage: model.StageRejected, IsTerminal: true, Disposition: model.DispositionRejected, Confidence: model.ConfidenceHigh},
	"Withdrawn":          {CanonicalStage: model.StageWithdrew, IsTerminal: true, Disposition: model.DispositionWithdrawn, Confidence: model.ConfidenceHigh},
	"Candidate Withdrew": {CanonicalStage: model.StageWithdrew, IsTerminal: true, Disposition: model.DispositionWithdrawn, Confidence: model.ConfidenceHigh},
	"Self-Withdrew":      {CanonicalStage: model.StageWithdrew, IsTerminal: true, Disposition: model.DispositionWithdrawn, Confidence: model.ConfidenceHigh},
}

// statusTableFolded supports the case-insensitive second pass.
var statusTableFolded = func() map[string]StatusMapping {
	m := make(map[string]StatusMapping, len(statusTable))
	for k, v := range statusTable {
		m[strings.ToLower(k)] = v
	}
	return m
}()

// MapStatus resolves a raw ATS status string. Unrecognized input gets an
// intentionally optimistic fallback (still-active at APPLIED) rather than a
// fabricated terminal outcome, flagged IsUnmapped with low confidence. Never
// an error.
func MapStatus(raw string) StatusMapping {
	trimmed := strings.TrimSpace(raw)
	if m, ok := statusTable[trimmed]; ok {
		return m
	}
	if m, ok := statusTableFolded[strings.ToLower(trimmed)]; ok {
		return m
	}
	return StatusMapping{
		CanonicalStage: model.StageApplied,
		Disposition:    model.DispositionActive,
		IsUnmapped:     true,
		Confidence:     model.ConfidenceLow,
	}
}

// sourceCategories normalizes candidate source names to coarse categories.
// Unknown sources pass through literally rather than being guessed at.
var sourceCategories = map[string]string{
	"linkedin":          "social",
	"indeed":            "job_board",
	"glassdoor":         "job_board",
	"ziprecruiter":      "job_board",
	"company website":   "direct",
	"career site":       "direct",
	"employee referral": "referral",
	"referral":          "referral",
	"agency":            "agency",
	"recruiter":         "agency",
	"university":        "campus",
	"career fair":       "campus",
}

// CategorizeSource maps a raw source name to its category, falling back to
// the literal lowercased source when unrecognized.
func CategorizeSource(raw string) string {
	folded := strings.ToLower(strings.TrimSpace(raw))
	if folded == "" {
		return ""
	}
	if cat, ok := sourceCategories[folded]; ok {
		return cat
	}
	return folded
}
