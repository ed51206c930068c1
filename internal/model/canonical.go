package model

import "time"

// ReqStatus is derived purely from the presence of a close timestamp.
type ReqStatus string

const (
	ReqStatusOpen   ReqStatus = "Open"
	ReqStatusClosed ReqStatus = "Closed"
)

// Requisition is the canonical job-requisition record. Identity is ReqID.
// All records except LastActivityAt are frozen at construction;
// LastActivityAt alone is advanced post-hoc as later rows for the same
// requisition reveal later events.
type Requisition struct {
	ReqID           string      `json:"req_id"`
	Title           string      `json:"title,omitempty"`
	Department      string      `json:"department,omitempty"`
	Location        string      `json:"location,omitempty"`
	HiringManagerID string      `json:"hiring_manager_id,omitempty"`
	HiringManager   string      `json:"hiring_manager,omitempty"`
	RecruiterID     string      `json:"recruiter_id,omitempty"`
	Recruiter       string      `json:"recruiter,omitempty"`
	Status          ReqStatus   `json:"status"`
	OpenedAt        *time.Time  `json:"opened_at,omitempty"`
	ClosedAt        *time.Time  `json:"closed_at,omitempty"`
	LastActivityAt  *time.Time  `json:"last_activity_at,omitempty"`
	Confidence      Confidence  `json:"confidence"`
	Trace           SourceTrace `json:"trace"`
}

// Candidate is the canonical person record. Identity is CandidateID.
// Immutable after construction.
type Candidate struct {
	CandidateID    string      `json:"candidate_id"`
	Name           string      `json:"name,omitempty"`
	Email          string      `json:"email,omitempty"`
	Source         string      `json:"source,omitempty"`
	SourceCategory string      `json:"source_category,omitempty"`
	Confidence     Confidence  `json:"confidence"`
	Trace          SourceTrace `json:"trace"`
}

// Application joins one candidate to one requisition. Identity is the
// CandidateID+ReqID pair; each source row is assumed to yield at most one
// application, so the pair is not independently validated.
type Application struct {
	ApplicationID         string         `json:"application_id"`
	CandidateID           string         `json:"candidate_id"`
	ReqID                 string         `json:"req_id"`
	CurrentStage          string         `json:"current_stage,omitempty"`
	CurrentStageCanonical CanonicalStage `json:"current_stage_canonical"`
	Disposition           Disposition    `json:"disposition"`
	IsTerminal            bool           `json:"is_terminal"`
	AppliedAt             *time.Time     `json:"applied_at,omitempty"`
	FirstContactedAt      *time.Time     `json:"first_contacted_at,omitempty"`
	OfferSentAt           *time.Time     `json:"offer_sent_at,omitempty"`
	HiredAt               *time.Time     `json:"hired_at,omitempty"`
	RejectedAt            *time.Time     `json:"rejected_at,omitempty"`
	WithdrawnAt           *time.Time     `json:"withdrawn_at,omitempty"`
	// MissingTimestamps names terminal timestamp fields whose outcome is
	// known from a status column but whose timing never appeared in the
	// source (e.g. "rejected_at").
	MissingTimestamps []string    `json:"missing_timestamps,omitempty"`
	EventCount        int         `json:"event_count"`
	Confidence        Confidence  `json:"confidence"`
	Trace             SourceTrace `json:"trace"`
}

// StageEvent is one observed funnel transition. Identity is the owning
// application ID plus an ordinal suffix. Events are always built from a
// literal matched timestamp, so confidence is high by construction.
type StageEvent struct {
	EventID        string         `json:"event_id"`
	ApplicationID  string         `json:"application_id"`
	Type           EventType      `json:"type"`
	Kind           EventKind      `json:"kind"`
	Stage          string         `json:"stage,omitempty"`
	StageCanonical CanonicalStage `json:"stage_canonical"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Confidence     Confidence     `json:"confidence"`
	Trace          SourceTrace    `json:"trace"`
}
