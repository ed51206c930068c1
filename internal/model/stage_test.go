package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalStage_OrdinalOrder(t *testing.T) {
	funnel := []CanonicalStage{
		StageApplied, StageScreen, StageInterview, StageOnsite,
		StageOffer, StageHired, StageRejected, StageWithdrew,
	}
	for i := 1; i < len(funnel); i++ {
		assert.Less(t, funnel[i-1].Ordinal(), funnel[i].Ordinal(),
			"%s must precede %s", funnel[i-1], funnel[i])
	}
}

func TestCanonicalStage_UnknownSortsFirst(t *testing.T) {
	assert.Zero(t, CanonicalStage("MYSTERY").Ordinal())
}

func TestDisposition_Terminal(t *testing.T) {
	assert.False(t, DispositionActive.Terminal())
	assert.True(t, DispositionHired.Terminal())
	assert.True(t, DispositionRejected.Terminal())
	assert.True(t, DispositionWithdrawn.Terminal())
}
