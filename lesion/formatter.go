// Package lesion renders lesion records as report sentences and decides
// which of them are obstructive.
package lesion

import (
	"cctareport.com/engine/types"
	"regexp"
	"strings"
)

var spaces = regexp.MustCompile(`\s+`)

// Format renders a lesion as a findings sentence. Custom lesions are
// returned verbatim.
func Format(l types.Lesion) string {
	if l.IsCustom() {
		return l.Custom
	}

	var parts []string
	if segment := l.Segment.Label(); segment != "" {
		parts = append(parts, "The "+segment+" segment has a")
	} else {
		parts = append(parts, "There is a")
	}

	if l.Type != "" {
		parts = append(parts, l.Type)
	} else {
		parts = append(parts, "lesion")
	}

	if l.Remodeling != "" {
		parts = append(parts, "with features of "+l.Remodeling+".")
	} else {
		parts = append(parts, ".")
	}

	var plaque []string
	for _, desc := range []string{l.Composition, l.Attenuation, l.Texture} {
		if desc != "" {
			plaque = append(plaque, desc)
		}
	}
	if len(plaque) > 0 {
		parts = append(parts, strings.Join(plaque, ", ")+" plaque")
	}

	if stenosis := l.Stenosis.String(); stenosis != "" {
		if strings.Contains(stenosis, "%") || strings.Contains(strings.ToLower(stenosis), "cto") {
			parts = append(parts, "that causes "+stenosis+" narrowing of the lumen.")
		} else {
			parts = append(parts, "with "+stenosis+".")
		}
	}

	sentence := spaces.ReplaceAllString(strings.Join(parts, " "), " ")
	return strings.TrimSpace(strings.Replace(sentence, " .", ".", 1))
}

// FormatAll renders every lesion of an artery in entry order.
func FormatAll(lesions []types.Lesion) []string {
	out := make([]string, len(lesions))
	for i, l := range lesions {
		out[i] = Format(l)
	}
	return out
}
