package lesion

import (
	"cctareport.com/engine/types"
	"strings"
)

const (
	UnspecifiedLocation = "unspecified segment"
	DefaultSeverity     = "Stenosis"
)

var significantKeywords = []string{"moderate", "severe", "occlusion", "cto"}

// IsSignificant reports whether the lesion is obstructive. Only the stenosis
// text is considered; custom lesions are never significant.
func IsSignificant(l types.Lesion) bool {
	if l.IsCustom() {
		return false
	}
	stenosis := strings.ToLower(l.Stenosis.String())
	for _, keyword := range significantKeywords {
		if strings.Contains(stenosis, keyword) {
			return true
		}
	}
	return false
}

// Obstruction is the impression view of a significant lesion.
type Obstruction struct {
	Severity   string
	Percentage string
	Location   string
	Artery     types.ArteryID
}

// String renders "Severe (70-90%) stenosis in the proximal LAD."
func (o Obstruction) String() string {
	return o.Severity + " (" + o.Percentage + ") stenosis in the " + o.Location + " " + o.Artery.Code() + "."
}

// NewObstruction builds the impression line of a lesion found in the given
// artery. ok is false for lesions that are not significant.
func NewObstruction(l types.Lesion, artery types.ArteryID) (Obstruction, bool) {
	if !IsSignificant(l) || l.Stenosis.IsEmpty() {
		return Obstruction{}, false
	}

	o := Obstruction{
		Severity:   DefaultSeverity,
		Percentage: l.Stenosis.Percentage,
		Location:   l.Segment.Label(),
		Artery:     artery,
	}
	if l.Stenosis.Severity != "" {
		o.Severity = capitalize(l.Stenosis.Severity)
	}
	if o.Location == "" {
		o.Location = UnspecifiedLocation
	}
	return o, true
}

// IsNormal reports whether the lesion is a free-text entry describing a
// normal vessel.
func IsNormal(l types.Lesion) bool {
	return l.IsCustom() && strings.Contains(strings.ToLower(l.Custom), "normal")
}

// CountsAsDisease reports whether the lesion makes an otherwise clean
// coronary tree non-obstructive disease.
func CountsAsDisease(l types.Lesion) bool {
	return !l.IsEmpty() && !IsNormal(l)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
