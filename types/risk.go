package types

import (
	"encoding/json"
	"fmt"
)

type RiskLevel string

const (
	RiskNormal   RiskLevel = "normal"
	RiskWarning  RiskLevel = "warning"
	RiskCritical RiskLevel = "critical"
)

const BadgeTitle = "Report Indicator / Chỉ báo nguy cơ:"

var riskRanks = map[RiskLevel]int{
	RiskNormal:   0,
	RiskWarning:  1,
	RiskCritical: 2,
}

var riskBadges = map[RiskLevel]string{
	RiskNormal:   "Normal / Bình Thường",
	RiskWarning:  "Warning / Thận trọng",
	RiskCritical: "Critical / Nguy cơ cao",
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if _, ok := riskRanks[level]; !ok {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return level, nil
}

func (r RiskLevel) Rank() int {
	return riskRanks[r]
}

// Max returns the more severe of the two levels.
func (r RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Rank() > r.Rank() {
		return other
	}
	return r
}

// Badge is the bilingual indicator text shown on print and export views.
// Anything that is not a known level renders as normal.
func (r RiskLevel) Badge() string {
	if badge, ok := riskBadges[r]; ok {
		return badge
	}
	return riskBadges[RiskNormal]
}

func (r *RiskLevel) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*r = ""
		return nil
	}
	level, err := ParseRiskLevel(s)
	if err != nil {
		return err
	}
	*r = level
	return nil
}
