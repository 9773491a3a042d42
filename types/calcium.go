package types

import (
	"cctareport.com/engine/classifier"
	"encoding/json"
)

// CalciumScores holds the per-artery Agatston scores. Total and
// interpretation are always derived, never stored.
type CalciumScores struct {
	LAD int `json:"lad"`
	LCX int `json:"lcx"`
	RCA int `json:"rca"`
	LM  int `json:"lm"`
}

func (s CalciumScores) Total() int {
	return s.LAD + s.LCX + s.RCA + s.LM
}

func (s CalciumScores) Risk() classifier.CalciumRisk {
	return classifier.ClassifyCalciumRisk(s.Total())
}

func (s CalciumScores) Score(id ArteryID) int {
	switch id {
	case LAD:
		return s.LAD
	case LCX:
		return s.LCX
	case RCA:
		return s.RCA
	case LM:
		return s.LM
	}
	return 0
}

type calciumScoresJSON struct {
	LAD            int    `json:"lad"`
	LCX            int    `json:"lcx"`
	RCA            int    `json:"rca"`
	LM             int    `json:"lm"`
	Total          int    `json:"total"`
	Interpretation string `json:"interpretation"`
}

func (s CalciumScores) MarshalJSON() ([]byte, error) {
	return json.Marshal(calciumScoresJSON{
		LAD:            s.LAD,
		LCX:            s.LCX,
		RCA:            s.RCA,
		LM:             s.LM,
		Total:          s.Total(),
		Interpretation: s.Risk().Interpretation,
	})
}

func (s *CalciumScores) UnmarshalJSON(b []byte) error {
	var raw calciumScoresJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = CalciumScores{LAD: raw.LAD, LCX: raw.LCX, RCA: raw.RCA, LM: raw.LM}
	return nil
}
