package types

import (
	"cctareport.com/engine/logger"
)

const DefaultWallMotion = "No regional wall motion abnormalities."

type Medications struct {
	Betaloc bool   `json:"betaloc"`
	Nitro   bool   `json:"nitro"`
	Other   string `json:"other,omitempty"`
}

// List names the administered medications in report order.
func (m Medications) List() []string {
	var meds []string
	if m.Betaloc {
		meds = append(meds, "Betaloc")
	}
	if m.Nitro {
		meds = append(meds, "Nitroglycerine")
	}
	if m.Other != "" {
		meds = append(meds, m.Other)
	}
	return meds
}

type CardiacFunction struct {
	LVEFValue       string `json:"lvef_value,omitempty"`
	LVEFDescription string `json:"lvef_desc,omitempty"`
	WallMotion      string `json:"wall_motion,omitempty"`
}

// Report is the full CCTA report record. Fields marked derived are
// overwritten on every generation pass.
type Report struct {
	ClinicalIndication    string          `json:"clinical_indication,omitempty"`
	TechniqueHeartRate    string          `json:"technique_hr,omitempty"`
	Medications           Medications     `json:"medications"`
	TechnicalQuality      string          `json:"technical_quality,omitempty"`
	CalciumScores         CalciumScores   `json:"calcium_scores"`
	Dominance             string          `json:"dominance,omitempty"`
	Arteries              []Artery        `json:"arteries"`
	CollateralCirculation string          `json:"collateral_circulation,omitempty"`
	CardiacFunction       CardiacFunction `json:"cardiac_function"`
	OtherStructures       string          `json:"other_structures,omitempty"`
	OtherFindings         []string        `json:"other_findings_summaries,omitempty"`
	Recommendation        string          `json:"recommendation,omitempty"`

	// derived
	Impression   string    `json:"impression,omitempty"`
	ImpressionVI string    `json:"impression_vi,omitempty"`
	RiskLevel    RiskLevel `json:"risk_level,omitempty"`
}

func NewReport() *Report {
	r := &Report{
		OtherStructures: UnremarkableText,
		CardiacFunction: CardiacFunction{WallMotion: DefaultWallMotion},
		RiskLevel:       RiskNormal,
	}
	r.NormalizeArteries()
	return r
}

// UnknownArteries lists the artery ids of the record that name no
// coronary artery.
func (r *Report) UnknownArteries() []ArteryID {
	var unknown []ArteryID
	for _, a := range r.Arteries {
		if id := ParseArteryID(string(a.ID)); !id.Valid() {
			unknown = append(unknown, a.ID)
		}
	}
	return unknown
}

// NormalizeArteries rebuilds the artery list in canonical order with one
// entry per artery. Ids are matched case-insensitively, unknown ids are
// dropped with a warning and duplicates merge their lesions in entry order.
func (r *Report) NormalizeArteries() {
	byID := make(map[ArteryID]*Artery, len(ArteryOrder))
	for i := range r.Arteries {
		a := r.Arteries[i]
		a.ID = ParseArteryID(string(a.ID))
		if !a.ID.Valid() {
			reportLogger := logger.NewLogger("Report")
			reportLogger.Warn().
				Str("artery_id", string(r.Arteries[i].ID)).
				Int("lesions", len(a.Lesions)).
				Msg("Dropping artery with unknown id")
			continue
		}
		if existing, ok := byID[a.ID]; ok {
			existing.Lesions = append(existing.Lesions, a.Lesions...)
			continue
		}
		byID[a.ID] = &a
	}
	arteries := make([]Artery, len(ArteryOrder))
	for i, id := range ArteryOrder {
		if a, ok := byID[id]; ok {
			arteries[i] = *a
			continue
		}
		arteries[i] = Artery{ID: id}
	}
	r.Arteries = arteries
}

// Artery returns the findings for id, or nil when the record has none.
func (r *Report) Artery(id ArteryID) *Artery {
	for i := range r.Arteries {
		if r.Arteries[i].ID == id {
			return &r.Arteries[i]
		}
	}
	return nil
}
