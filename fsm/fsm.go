package fsm

import (
	"cctareport.com/engine/types"
	"errors"
	"fmt"
)

type MachineRule struct {
	Dst  types.RiskLevel
	Cond Condition
}

type Machine map[types.RiskLevel][]MachineRule

func (fsm Machine) Input(event Event, currentState types.RiskLevel) types.RiskLevel {
	rules, isOk := fsm[currentState]
	if !isOk {
		errTxt := fmt.Sprintf("Wrong rule: there is no transitions from '%s' state", currentState)
		panic(errors.New(errTxt))
	}

	for _, rule := range rules {
		if rule.Cond(event) {
			return rule.Dst
		}
	}

	return currentState
}

// Run feeds every event in order, starting from start.
func (fsm Machine) Run(start types.RiskLevel, events ...Event) types.RiskLevel {
	state := start
	for _, event := range events {
		state = fsm.Input(event, state)
	}
	return state
}

// RiskEscalation is the report risk machine. It only moves towards
// critical; critical absorbs every event.
func RiskEscalation() Machine {
	toCritical := NewDisjointCondition(
		NewEventCondition(EventCalciumSevere),
		NewEventCondition(EventSignificantLesion),
		NewEventCondition(EventCriticalFinding),
	)
	toWarning := NewDisjointCondition(
		NewEventCondition(EventCalciumModerate),
		NewEventCondition(EventNonObstructive),
	)

	return Machine{
		types.RiskNormal: {
			{Dst: types.RiskCritical, Cond: toCritical},
			{Dst: types.RiskWarning, Cond: toWarning},
		},
		types.RiskWarning: {
			{Dst: types.RiskCritical, Cond: toCritical},
		},
		types.RiskCritical: {
			{Dst: types.RiskCritical, Cond: AnyCondition},
		},
	}
}
