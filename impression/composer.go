package impression

import (
	"cctareport.com/engine/fsm"
	"cctareport.com/engine/lesion"
	"cctareport.com/engine/types"
	"strings"
)

var criticalFindingTerms = []string{"pulmonary embolism", "thrombus"}

type Impression struct {
	Lines []Line
	Risk  types.RiskLevel
	// Steps holds the risk level reached after each composition step.
	Steps []types.RiskLevel
}

func (i Impression) Text() string {
	return Join(i.Lines)
}

type Composer struct {
	machine fsm.Machine
}

func NewComposer() *Composer {
	return &Composer{machine: fsm.RiskEscalation()}
}

// Compose derives the impression from the current field values only, so
// repeated calls on an unchanged report give the same result.
func (c *Composer) Compose(r *types.Report) Impression {
	var imp Impression
	risk := types.RiskNormal
	step := func(events ...fsm.Event) {
		risk = c.machine.Run(risk, events...)
		imp.Steps = append(imp.Steps, risk)
	}

	// calcium
	total := r.CalciumScores.Total()
	imp.Lines = append(imp.Lines, ScoreLine(total), StaticLine(r.CalciumScores.Risk().Interpretation))
	var calcium []fsm.Event
	if total > 100 {
		calcium = append(calcium, fsm.EventCalciumModerate)
	}
	if total > 400 {
		calcium = append(calcium, fsm.EventCalciumSevere)
	}
	step(calcium...)

	// lesions
	var obstructions []Line
	var lesionEvents []fsm.Event
	diseased := false
	for _, id := range types.ArteryOrder {
		artery := r.Artery(id)
		if artery == nil {
			continue
		}
		for _, l := range artery.Lesions {
			if lesion.CountsAsDisease(l) {
				diseased = true
			}
			if lesion.IsSignificant(l) {
				lesionEvents = append(lesionEvents, fsm.EventSignificantLesion)
			}
			if o, ok := lesion.NewObstruction(l, id); ok {
				obstructions = append(obstructions, LesionLine(o))
			}
		}
	}
	step(lesionEvents...)

	// resolution
	switch {
	case len(obstructions) > 0:
		imp.Lines = append(imp.Lines, obstructions...)
		step()
	case diseased:
		imp.Lines = append(imp.Lines, StaticLine(NonObstructive))
		step(fsm.EventNonObstructive)
	default:
		imp.Lines = append(imp.Lines, StaticLine(NormalCoronaries))
		step()
	}

	// other findings
	var findingEvents []fsm.Event
	if summaries := uniqueSummaries(r.OtherFindings); len(summaries) > 0 {
		imp.Lines = append(imp.Lines, FindingsLine(summaries))
		for _, s := range summaries {
			if isCriticalFinding(s) {
				findingEvents = append(findingEvents, fsm.EventCriticalFinding)
			}
		}
	}
	step(findingEvents...)

	imp.Risk = risk
	return imp
}

func uniqueSummaries(summaries []string) []string {
	seen := make(map[string]bool, len(summaries))
	var out []string
	for _, s := range summaries {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func isCriticalFinding(summary string) bool {
	lower := strings.ToLower(summary)
	for _, term := range criticalFindingTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
