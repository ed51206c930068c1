package ingest

import (
	"sort"
	"strings"
	"time"

	"github.com/sells-group/talent-cli/internal/model"
)

// stageColumnPrefixFolded matches the iCIMS per-stage date columns
// ("Date First Interviewed: <stage>") after header folding.
const stageColumnPrefixFolded = "date first interviewed:"

// ExtractedEvent is one dated funnel observation pulled from a single cell,
// before canonical event records are built from it.
type ExtractedEvent struct {
	Type           model.EventType
	Stage          string
	StageCanonical model.CanonicalStage
	OccurredAt     time.Time
	Column         string
	Raw            string
}

// ExtractStageEvents scans one row's date-bearing columns and returns an
// ordered, typed sequence of real-timestamp events. Cells that are empty or
// unparsable as dates are skipped, never guessed. A single row may emit
// several events of different types from different columns.
func ExtractStageEvents(row map[string]string, headers []string) []ExtractedEvent {
	var events []ExtractedEvent

	for _, header := range headers {
		cell := strings.TrimSpace(row[header])
		if cell == "" {
			continue
		}

		et, stage, ok := classifyColumn(header)
		if !ok {
			continue
		}

		parsed := ParseDate(cell)
		if parsed.Date == nil {
			continue
		}

		events = append(events, ExtractedEvent{
			Type:           et,
			Stage:          stage,
			StageCanonical: canonicalStageFor(et, stage),
			OccurredAt:     *parsed.Date,
			Column:         header,
			Raw:            parsed.Raw,
		})
	}

	// Ascending by timestamp, ties broken by canonical-stage ordinal so the
	// result is deterministic regardless of column iteration order.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].OccurredAt.Equal(events[j].OccurredAt) {
			return events[i].StageCanonical.Ordinal() < events[j].StageCanonical.Ordinal()
		}
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})

	return dedupeEvents(events)
}

// dedupeEvents drops later events identical in type, stage, and timestamp to
// an earlier one. Duplicate export columns should not double-count a
// transition.
func dedupeEvents(events []ExtractedEvent) []ExtractedEvent {
	if len(events) < 2 {
		return events
	}
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, e := range events {
		key := string(e.Type) + "|" + strings.ToLower(e.Stage) + "|" + e.OccurredAt.Format(time.RFC3339)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// classifyColumn decides whether a header carries event timing and of what
// type. Each column maps to exactly one event type.
func classifyColumn(header string) (model.EventType, string, bool) {
	trimmed := strings.TrimSpace(header)
	folded := strings.ToLower(trimmed)

	if strings.HasPrefix(folded, stageColumnPrefixFolded) {
		stage := strings.TrimSpace(trimmed[len(stageColumnPrefixFolded):])
		// Offer-letter stages record the send, not an interview.
		if strings.Contains(strings.ToLower(stage), "offer letter") {
			return model.EventOfferSent, stage, true
		}
		return model.EventStageEntered, stage, true
	}

	for _, syn := range hireDateSynonyms {
		if folded == normalizeHeader(syn) {
			return model.EventHired, "", true
		}
	}

	if strings.Contains(folded, "reject") && strings.Contains(folded, "date") {
		return model.EventRejected, "", true
	}

	if (strings.Contains(folded, "withdraw") || strings.Contains(folded, "withdrew")) &&
		strings.Contains(folded, "date") {
		return model.EventWithdrawn, "", true
	}

	return "", "", false
}

// canonicalStageFor places an event in the fixed funnel order used for
// tie-breaking and stage tracking.
func canonicalStageFor(et model.EventType, stage string) model.CanonicalStage {
	switch et {
	case model.EventOfferSent:
		return model.StageOffer
	case model.EventHired:
		return model.StageHired
	case model.EventRejected:
		return model.StageRejected
	case model.EventWithdrawn:
		return model.StageWithdrew
	}

	folded := strings.ToLower(stage)
	switch {
	case strings.Contains(folded, "apply") || strings.Contains(folded, "submission"):
		return model.StageApplied
	case strings.Contains(folded, "screen") || strings.Contains(folded, "phone"):
		return model.StageScreen
	case strings.Contains(folded, "onsite") || strings.Contains(folded, "final"):
		return model.StageOnsite
	case strings.Contains(folded, "offer"):
		return model.StageOffer
	default:
		return model.StageInterview
	}
}

// applicationStage reports whether a stage name looks like the application or
// submission step itself, which does not count as first contact.
func applicationStage(stage string) bool {
	folded := strings.ToLower(stage)
	return strings.Contains(folded, "apply") || strings.Contains(folded, "submission")
}
