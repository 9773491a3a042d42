package fsm

import (
	"cctareport.com/engine/types"
	"github.com/stretchr/testify/assert"
	"testing"
)

var allEvents = []Event{
	EventCalciumModerate,
	EventCalciumSevere,
	EventSignificantLesion,
	EventNonObstructive,
	EventCriticalFinding,
	Event("unknown"),
}

func TestRiskEscalationTransitions(t *testing.T) {
	machine := RiskEscalation()

	assert.Equal(t, types.RiskWarning, machine.Input(EventCalciumModerate, types.RiskNormal))
	assert.Equal(t, types.RiskWarning, machine.Input(EventNonObstructive, types.RiskNormal))
	assert.Equal(t, types.RiskCritical, machine.Input(EventCalciumSevere, types.RiskNormal))
	assert.Equal(t, types.RiskCritical, machine.Input(EventSignificantLesion, types.RiskWarning))
	assert.Equal(t, types.RiskCritical, machine.Input(EventCriticalFinding, types.RiskWarning))
	assert.Equal(t, types.RiskNormal, machine.Input(Event("unknown"), types.RiskNormal))
	assert.Equal(t, types.RiskCritical, machine.Input(EventNonObstructive, types.RiskCritical))
}

func TestRiskEscalationIsMonotonic(t *testing.T) {
	machine := RiskEscalation()
	for _, state := range []types.RiskLevel{types.RiskNormal, types.RiskWarning, types.RiskCritical} {
		for _, event := range allEvents {
			next := machine.Input(event, state)
			assert.GreaterOrEqual(t, next.Rank(), state.Rank(), "%s on %s", state, event)
		}
	}

	// any sequence ends at the maximum of its single-step targets
	assert.Equal(t, types.RiskCritical, machine.Run(types.RiskNormal, EventCalciumSevere, EventNonObstructive))
	assert.Equal(t, types.RiskWarning, machine.Run(types.RiskNormal, EventNonObstructive, EventCalciumModerate))
}

func TestInputPanicsOnUnknownState(t *testing.T) {
	assert.Panics(t, func() {
		RiskEscalation().Input(EventCalciumModerate, types.RiskLevel("bogus"))
	})
}

func TestConditions(t *testing.T) {
	cond := NewDisjointCondition(NewEventCondition(EventCalciumSevere), NewEventCondition(EventCriticalFinding))
	assert.True(t, cond(EventCriticalFinding))
	assert.False(t, cond(EventNonObstructive))
	assert.True(t, AnyCondition(Event("")))
	assert.False(t, NewDisjointCondition()(EventCriticalFinding))
}
