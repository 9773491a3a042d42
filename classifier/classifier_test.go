package classifier

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func TestClassifyVesselSize(t *testing.T) {
	cases := map[float64]VesselSize{
		0.5: VesselSizeSmall,
		2.9: VesselSizeSmall,
		3.0: VesselSizeMedium,
		4.2: VesselSizeMedium,
		5.0: VesselSizeMedium,
		5.1: VesselSizeLarge,
		-1:  VesselSizeSmall,
	}
	for diameter, expected := range cases {
		assert.Equal(t, expected, ClassifyVesselSize(diameter), "diameter %v", diameter)
	}
	assert.Equal(t, VesselSizeUnknown, ClassifyVesselSize(math.NaN()))
	assert.Equal(t, VesselSizeUnknown, ClassifyVesselSize(math.Inf(1)))
}

func TestParseDiameter(t *testing.T) {
	assert.Equal(t, 4.2, ParseDiameter("4.2"))
	assert.Equal(t, 3.5, ParseDiameter(" 3.5 mm"))
	assert.Equal(t, 4.0, ParseDiameter("4."))
	assert.True(t, math.IsNaN(ParseDiameter("")))
	assert.True(t, math.IsNaN(ParseDiameter("n/a")))
	assert.Equal(t, VesselSizeUnknown, ClassifyVesselSize(ParseDiameter("abc")))
}

func TestClassifyCalciumRiskBoundaries(t *testing.T) {
	cases := []struct {
		total int
		grade CalciumGrade
		tier  RiskTier
	}{
		{-5, CalciumNone, TierLow},
		{0, CalciumNone, TierLow},
		{1, CalciumMinimal, TierLow},
		{10, CalciumMinimal, TierLow},
		{11, CalciumMild, TierLow},
		{100, CalciumMild, TierLow},
		{101, CalciumModerate, TierModerateHigh},
		{400, CalciumModerate, TierModerateHigh},
		{401, CalciumSevere, TierHigh},
		{5000, CalciumSevere, TierHigh},
	}
	for _, c := range cases {
		risk := ClassifyCalciumRisk(c.total)
		assert.Equal(t, c.grade, risk.Grade, "total %d", c.total)
		assert.Equal(t, c.tier, risk.Tier, "total %d", c.total)
		assert.NotEmpty(t, risk.Interpretation)
	}
}

func TestCalciumBucketsAreContiguous(t *testing.T) {
	order := map[CalciumGrade]int{
		CalciumNone: 0, CalciumMinimal: 1, CalciumMild: 2, CalciumModerate: 3, CalciumSevere: 4,
	}
	prev := 0
	for total := 0; total <= 1000; total++ {
		rank := order[ClassifyCalciumRisk(total).Grade]
		require.True(t, rank == prev || rank == prev+1, "gap at total %d", total)
		prev = rank
	}
	assert.Equal(t, 4, prev)
}

func TestCalciumInterpretations(t *testing.T) {
	sentences := CalciumInterpretations()
	require.Len(t, sentences, 5)
	assert.Equal(t, "Interpretation: No coronary artery calcification detected. Low cardiovascular risk.", sentences[0])
	assert.Equal(t, ClassifyCalciumRisk(401).Interpretation, sentences[4])
}

func TestEjectionFraction(t *testing.T) {
	assert.Equal(t, LVEFNormal, ClassifyEjectionFraction(55))
	assert.Equal(t, LVEFNormal, ClassifyEjectionFraction(70))
	assert.Equal(t, LVEFMildlyReduced, ClassifyEjectionFraction(54))
	assert.Equal(t, LVEFMildlyReduced, ClassifyEjectionFraction(45))
	assert.Equal(t, LVEFModeratelyReduced, ClassifyEjectionFraction(44))
	assert.Equal(t, LVEFModeratelyReduced, ClassifyEjectionFraction(35))
	assert.Equal(t, LVEFSeverelyReduced, ClassifyEjectionFraction(34))
	assert.Equal(t, LVEFSeverelyReduced, ClassifyEjectionFraction(-3))

	assert.Equal(t, LVEFNormal, DescribeEjectionFraction("60%"))
	assert.Equal(t, "", DescribeEjectionFraction(""))
	assert.Equal(t, "", DescribeEjectionFraction("unknown"))
}
