package metrics

import (
	"sort"

	"github.com/sells-group/talent-cli/internal/model"
)

// phaseSumToleranceDays absorbs integer-day truncation at phase boundaries.
// The day-granularity CSV origin cannot justify anything finer.
const phaseSumToleranceDays = 1.0

// ExplainTimeToOffer decomposes time-to-offer into sequential phases per
// application and validates the additive invariant across them.
//
// Inclusion is strict: applied_at, first_contacted_at, and offer_sent_at
// must all be present. A missing first contact means "cannot compute", never
// "assume zero". Negative phases or totals indicate an ordering defect in
// the source and exclude the application from aggregation; phase-sum
// deviations beyond tolerance are recorded but do NOT exclude, so anomalies
// surface without losing signal.
func ExplainTimeToOffer(apps []model.Application) model.TimeToOfferBreakdown {
	breakdown := model.TimeToOfferBreakdown{
		Phases:              []model.PhaseBreakdown{},
		MathInvariantErrors: []model.MathInvariantError{},
	}

	missingFields := 0
	negative := 0

	for _, a := range apps {
		if a.AppliedAt == nil || a.FirstContactedAt == nil || a.OfferSentAt == nil {
			missingFields++
			continue
		}

		phase1 := a.FirstContactedAt.Sub(*a.AppliedAt).Hours() / 24
		phase2 := a.OfferSentAt.Sub(*a.FirstContactedAt).Hours() / 24
		total := a.OfferSentAt.Sub(*a.AppliedAt).Hours() / 24

		if phase1 < 0 || phase2 < 0 || total < 0 {
			negative++
			continue
		}

		p := model.PhaseBreakdown{
			ApplicationID: a.ApplicationID,
			Phase1Days:    phase1,
			Phase2Days:    phase2,
			TotalDays:     total,
		}
		breakdown.Phases = append(breakdown.Phases, p)
		breakdown.IncludedCount++

		deviation := phase1 + phase2 - total
		if deviation > phaseSumToleranceDays || deviation < -phaseSumToleranceDays {
			breakdown.MathInvariantErrors = append(breakdown.MathInvariantErrors, model.MathInvariantError{
				ApplicationID: a.ApplicationID,
				Deviation:     deviation,
			})
		}
	}

	if missingFields > 0 {
		breakdown.ExclusionReasons = append(breakdown.ExclusionReasons, model.ExclusionReason{
			Reason: "missing applied_at, first_contacted_at, or offer_sent_at",
			Count:  missingFields,
		})
	}
	if negative > 0 {
		breakdown.ExclusionReasons = append(breakdown.ExclusionReasons, model.ExclusionReason{
			Reason: "negative phase duration indicates a source ordering defect",
			Count:  negative,
		})
	}
	breakdown.ExcludedCount = missingFields + negative

	if breakdown.IncludedCount > 0 {
		totals := make([]float64, 0, breakdown.IncludedCount)
		phase1s := make([]float64, 0, breakdown.IncludedCount)
		phase2s := make([]float64, 0, breakdown.IncludedCount)
		for _, p := range breakdown.Phases {
			totals = append(totals, p.TotalDays)
			phase1s = append(phase1s, p.Phase1Days)
			phase2s = append(phase2s, p.Phase2Days)
		}
		mt, m1, m2 := median(totals), median(phase1s), median(phase2s)
		breakdown.MedianTotalDays = &mt
		breakdown.MedianPhase1Days = &m1
		breakdown.MedianPhase2Days = &m2
	}

	breakdown.TopDelayContributors = topDelayContributors(breakdown.Phases, 5)

	return breakdown
}

// topDelayContributors returns the n included applications with the largest
// totals, descending.
func topDelayContributors(phases []model.PhaseBreakdown, n int) []model.PhaseBreakdown {
	sorted := make([]model.PhaseBreakdown, len(phases))
	copy(sorted, phases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalDays > sorted[j].TotalDays
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
