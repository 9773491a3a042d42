// Package report derives the generated fields of a report record and lays
// it out for the print and export views.
package report

import (
	"cctareport.com/engine/classifier"
	"cctareport.com/engine/impression"
	"cctareport.com/engine/translation"
	"cctareport.com/engine/types"
	"strings"
)

type Translator interface {
	TranslateLines(lines []impression.Line) string
}

type Generator struct {
	composer   *impression.Composer
	translator Translator
}

// NewGenerator uses the default vocabulary when translator is nil.
func NewGenerator(translator Translator) *Generator {
	if translator == nil {
		translator = translation.NewTranslator(translation.DefaultDictionary())
	}
	return &Generator{
		composer:   impression.NewComposer(),
		translator: translator,
	}
}

// Generate recomputes every derived field of r from its inputs. Running it
// again on an unchanged record gives the same record.
func (g *Generator) Generate(r *types.Report) impression.Impression {
	r.NormalizeArteries()
	for i := range r.Arteries {
		a := &r.Arteries[i]
		a.Size = classifier.ClassifyVesselSize(classifier.ParseDiameter(a.Diameter))
	}
	r.CardiacFunction.LVEFDescription = classifier.DescribeEjectionFraction(r.CardiacFunction.LVEFValue)

	imp := g.composer.Compose(r)
	r.Impression = imp.Text()
	r.ImpressionVI = g.translator.TranslateLines(imp.Lines)
	r.RiskLevel = imp.Risk
	return imp
}

func Generate(r *types.Report, translator Translator) impression.Impression {
	return NewGenerator(translator).Generate(r)
}

// AddOtherFinding inserts a quick finding into the other structures text
// and records its summary for the impression. Summaries are kept once.
func AddOtherFinding(r *types.Report, finding types.OtherFinding) {
	entry := "- " + finding.Text + "\n"
	if r.OtherStructures == types.UnremarkableText || strings.TrimSpace(r.OtherStructures) == "" {
		r.OtherStructures = entry
	} else {
		r.OtherStructures += entry
	}

	summary := strings.TrimSpace(finding.Summary)
	if summary == "" {
		return
	}
	for _, s := range r.OtherFindings {
		if s == summary {
			return
		}
	}
	r.OtherFindings = append(r.OtherFindings, summary)
}
