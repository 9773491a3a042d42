package classifier

const (
	LVEFNormal            = "Normal left ventricular systolic function"
	LVEFMildlyReduced     = "Mildly reduced left ventricular systolic function"
	LVEFModeratelyReduced = "Moderately reduced left ventricular systolic function"
	LVEFSeverelyReduced   = "Severely reduced left ventricular systolic function"
)

func ClassifyEjectionFraction(ef int) string {
	switch {
	case ef >= 55:
		return LVEFNormal
	case ef >= 45:
		return LVEFMildlyReduced
	case ef >= 35:
		return LVEFModeratelyReduced
	default:
		return LVEFSeverelyReduced
	}
}

// DescribeEjectionFraction classifies a raw LVEF form value; non-numeric
// input yields an empty description.
func DescribeEjectionFraction(raw string) string {
	ef, ok := ParseLeadingInt(raw)
	if !ok {
		return ""
	}
	return ClassifyEjectionFraction(ef)
}
