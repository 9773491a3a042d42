// Package impression composes the English impression of a report and
// derives its risk level.
package impression

import (
	"cctareport.com/engine/lesion"
	"strconv"
	"strings"
)

const (
	CalciumScorePrefix = "Total Coronary Artery Calcium Score: "
	FindingsPrefix     = "Additional findings include "

	NormalCoronaries = "Normal coronary arteries without evidence of significant atherosclerotic disease."
	NonObstructive   = "Mild non-obstructive coronary artery disease."
)

type Kind int

const (
	KindStatic Kind = iota
	KindScore
	KindLesion
	KindFindings
)

func (k Kind) String() string {
	switch k {
	case KindScore:
		return "score"
	case KindLesion:
		return "lesion"
	case KindFindings:
		return "findings"
	}
	return "static"
}

// Line is one impression sentence in its structured form. Only the fields
// of its Kind are set.
type Line struct {
	Kind        Kind
	Text        string
	Score       int
	Obstruction lesion.Obstruction
	Findings    []string
}

func StaticLine(text string) Line {
	return Line{Kind: KindStatic, Text: text}
}

func ScoreLine(total int) Line {
	return Line{Kind: KindScore, Score: total}
}

func LesionLine(o lesion.Obstruction) Line {
	return Line{Kind: KindLesion, Obstruction: o}
}

func FindingsLine(summaries []string) Line {
	return Line{Kind: KindFindings, Findings: summaries}
}

func (l Line) String() string {
	switch l.Kind {
	case KindScore:
		return CalciumScorePrefix + strconv.Itoa(l.Score) + "."
	case KindLesion:
		return l.Obstruction.String()
	case KindFindings:
		return FindingsPrefix + strings.Join(l.Findings, ", ") + "."
	}
	return l.Text
}

// Join renders lines newline separated.
func Join(lines []Line) string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
