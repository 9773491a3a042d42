package classifier

type CalciumGrade string

const (
	CalciumNone     CalciumGrade = "none"
	CalciumMinimal  CalciumGrade = "minimal"
	CalciumMild     CalciumGrade = "mild"
	CalciumModerate CalciumGrade = "moderate"
	CalciumSevere   CalciumGrade = "severe"
)

type RiskTier string

const (
	TierLow          RiskTier = "low"
	TierModerateHigh RiskTier = "moderate-high"
	TierHigh         RiskTier = "high"
)

type CalciumRisk struct {
	Grade          CalciumGrade
	Tier           RiskTier
	Interpretation string
}

var calciumRisks = map[CalciumGrade]CalciumRisk{
	CalciumNone: {
		Grade:          CalciumNone,
		Tier:           TierLow,
		Interpretation: "Interpretation: No coronary artery calcification detected. Low cardiovascular risk.",
	},
	CalciumMinimal: {
		Grade:          CalciumMinimal,
		Tier:           TierLow,
		Interpretation: "Interpretation: Minimal coronary artery calcification detected. Low cardiovascular risk.",
	},
	CalciumMild: {
		Grade:          CalciumMild,
		Tier:           TierLow,
		Interpretation: "Interpretation: Mild coronary artery calcification detected. Moderate cardiovascular risk.",
	},
	CalciumModerate: {
		Grade:          CalciumModerate,
		Tier:           TierModerateHigh,
		Interpretation: "Interpretation: Moderate coronary artery calcification detected. Moderately high cardiovascular risk.",
	},
	CalciumSevere: {
		Grade:          CalciumSevere,
		Tier:           TierHigh,
		Interpretation: "Interpretation: Severe coronary artery calcification detected. High cardiovascular risk.",
	},
}

// ClassifyCalciumRisk buckets a total Agatston score. Negative totals are
// clamped into the "none" bucket.
func ClassifyCalciumRisk(total int) CalciumRisk {
	switch {
	case total <= 0:
		return calciumRisks[CalciumNone]
	case total <= 10:
		return calciumRisks[CalciumMinimal]
	case total <= 100:
		return calciumRisks[CalciumMild]
	case total <= 400:
		return calciumRisks[CalciumModerate]
	default:
		return calciumRisks[CalciumSevere]
	}
}

// CalciumInterpretations lists every canonical interpretation sentence,
// lowest grade first.
func CalciumInterpretations() []string {
	grades := []CalciumGrade{CalciumNone, CalciumMinimal, CalciumMild, CalciumModerate, CalciumSevere}
	out := make([]string, len(grades))
	for i, g := range grades {
		out[i] = calciumRisks[g].Interpretation
	}
	return out
}
