package fsm

type Event string

const (
	EventCalciumModerate   Event = "calcium-moderate"
	EventCalciumSevere     Event = "calcium-severe"
	EventSignificantLesion Event = "significant-lesion"
	EventNonObstructive    Event = "non-obstructive"
	EventCriticalFinding   Event = "critical-finding"
)

type Condition func(event Event) bool

func AnyCondition(event Event) bool {
	return true
}

func NewEventCondition(expected Event) Condition {
	return func(event Event) bool {
		return event == expected
	}
}

func NewDisjointCondition(conditions ...Condition) Condition {
	return func(event Event) bool {
		for _, cond := range conditions {
			if cond(event) {
				return true
			}
		}

		return false
	}
}
