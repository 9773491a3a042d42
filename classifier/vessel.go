// Package classifier maps raw measurements of a CCTA study to the
// categorical descriptors used in report text. Every function is total:
// malformed input falls into an explicit fallback instead of failing.
package classifier

import (
	"math"
	"strconv"
	"strings"
)

type VesselSize string

const (
	VesselSizeUnknown VesselSize = ""
	VesselSizeSmall   VesselSize = "small"
	VesselSizeMedium  VesselSize = "medium"
	VesselSizeLarge   VesselSize = "large"
)

// ClassifyVesselSize buckets a proximal vessel diameter in millimetres.
func ClassifyVesselSize(diameterMm float64) VesselSize {
	switch {
	case math.IsNaN(diameterMm) || math.IsInf(diameterMm, 0):
		return VesselSizeUnknown
	case diameterMm < 3:
		return VesselSizeSmall
	case diameterMm <= 5:
		return VesselSizeMedium
	default:
		return VesselSizeLarge
	}
}

// ParseDiameter reads the leading decimal number of a form value,
// returning NaN when there is none ("4.2 mm" -> 4.2, "n/a" -> NaN).
func ParseDiameter(raw string) float64 {
	s := leadingNumber(strings.TrimSpace(raw), true)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseLeadingInt reads the leading integer of a form value
// ("58%" -> 58, true; "" -> 0, false).
func ParseLeadingInt(raw string) (int, bool) {
	s := leadingNumber(strings.TrimSpace(raw), false)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func leadingNumber(s string, allowFraction bool) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if allowFraction && end < len(s) && s[end] == '.' {
		frac := end + 1
		for frac < len(s) && s[frac] >= '0' && s[frac] <= '9' {
			frac++
		}
		if frac > end+1 {
			digits += frac - end - 1
			end = frac
		}
	}
	if digits == 0 {
		return ""
	}
	return s[:end]
}
