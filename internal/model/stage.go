package model

// CanonicalStage is the normalized funnel position that every raw ATS status
// string maps onto.
type CanonicalStage string

const (
	StageApplied   CanonicalStage = "APPLIED"
	StageScreen    CanonicalStage = "SCREEN"
	StageInterview CanonicalStage = "INTERVIEW"
	StageOnsite    CanonicalStage = "ONSITE"
	StageOffer     CanonicalStage = "OFFER"
	StageHired     CanonicalStage = "HIRED"
	StageRejected  CanonicalStage = "REJECTED"
	StageWithdrew  CanonicalStage = "WITHDREW"
)

// stageOrdinals defines a fixed total order over canonical stages. Terminal
// negative outcomes sort last so that same-timestamp ties resolve
// deterministically regardless of column iteration order.
var stageOrdinals = map[CanonicalStage]int{
	StageApplied:   0,
	StageScreen:    1,
	StageInterview: 2,
	StageOnsite:    3,
	StageOffer:     4,
	StageHired:     5,
	StageRejected:  6,
	StageWithdrew:  7,
}

// Ordinal returns the stage's position in the canonical funnel order.
// Unknown stages sort with APPLIED.
func (s CanonicalStage) Ordinal() int {
	return stageOrdinals[s]
}

// Disposition is the terminal or active outcome state of an application.
type Disposition string

const (
	DispositionActive    Disposition = "Active"
	DispositionHired     Disposition = "Hired"
	DispositionRejected  Disposition = "Rejected"
	DispositionWithdrawn Disposition = "Withdrawn"
)

// Terminal reports whether the disposition is a final outcome.
func (d Disposition) Terminal() bool {
	return d == DispositionHired || d == DispositionRejected || d == DispositionWithdrawn
}

// EventType classifies what a stage event represents.
type EventType string

const (
	EventStageEntered EventType = "STAGE_ENTERED"
	EventOfferSent    EventType = "OFFER_SENT"
	EventHired        EventType = "HIRED"
	EventRejected     EventType = "REJECTED"
	EventWithdrawn    EventType = "WITHDRAWN"
)

// EventKind distinguishes how an event's timing was observed. This pipeline
// only produces point-in-time events; snapshot-diff is recognized by the
// capability model for a future richer source that can yield exit/dwell times.
type EventKind string

const (
	KindPointInTime  EventKind = "POINT_IN_TIME"
	KindSnapshotDiff EventKind = "SNAPSHOT_DIFF"
)
