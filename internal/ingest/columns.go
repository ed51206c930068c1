package ingest

import "strings"

// Logical fields resolved against header synonyms. Synonym order is priority
// order; matching is exact after case folding and whitespace trimming. No
// fuzzy or partial matching: silently binding to an unintended column is
// worse than binding to none.
var (
	reqIDSynonyms       = []string{"Requisition ID", "Req ID", "Job ID", "Requisition Number", "Req #"}
	titleSynonyms       = []string{"Job Title", "Requisition Title", "Title", "Position Title"}
	departmentSynonyms  = []string{"Department", "Department Name", "Business Unit"}
	locationSynonyms    = []string{"Location", "Job Location", "Work Location", "Office"}
	hiringManagerIDSyn  = []string{"Hiring Manager : System ID", "Hiring Manager ID"}
	hiringManagerSyn    = []string{"Hiring Manager", "Hiring Manager Name", "Hiring Manager : Full Name"}
	recruiterIDSynonyms = []string{"Recruiter : System ID", "Recruiter ID"}
	recruiterSynonyms   = []string{"Recruiter", "Recruiter Name", "Recruiter : Full Name"}
	openedAtSynonyms    = []string{"Date Opened", "Open Date", "Requisition Open Date", "Posted Date"}
	closedAtSynonyms    = []string{"Date Closed", "Close Date", "Requisition Close Date"}

	candidateIDSynonyms = []string{"Person : System ID", "Candidate ID", "Person ID", "Applicant ID"}
	candidateNameSyn    = []string{"Person : Full Name", "Candidate Name", "Full Name", "Name"}
	candidateEmailSyn   = []string{"Person : Email", "Email", "Email Address"}
	sourceSynonyms      = []string{"Source", "Candidate Source", "Source Name", "How Heard"}

	statusSynonyms    = []string{"Status", "Candidate Status", "Current Status", "Recruiting Workflow Status"}
	appliedAtSynonyms = []string{"Date Applied", "Application Date", "Applied Date", "Submitted Date"}
)

// hireDateColumn is matched exactly (after folding) by the stage-event
// extractor; listed here so builders and extractor agree on the spelling family.
var hireDateSynonyms = []string{"Hire/Rehire Date", "Hire Date", "Start Date"}

// normalizeHeader folds a header for comparison.
func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// ResolveColumn returns the first header matching any synonym, in synonym
// priority order, or "" when none match.
func ResolveColumn(headers []string, synonyms []string) string {
	folded := make(map[string]string, len(headers))
	for _, h := range headers {
		key := normalizeHeader(h)
		if _, ok := folded[key]; !ok {
			folded[key] = h
		}
	}
	for _, syn := range synonyms {
		if h, ok := folded[normalizeHeader(syn)]; ok {
			return h
		}
	}
	return ""
}

// cellValue returns the trimmed value of a resolved column, or "" when the
// column was not resolved or the cell is empty.
func cellValue(row map[string]string, column string) string {
	if column == "" {
		return ""
	}
	return strings.TrimSpace(row[column])
}
