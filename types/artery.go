package types

import (
	"cctareport.com/engine/classifier"
	"encoding/json"
	"strings"
)

type ArteryID string

const (
	LM  ArteryID = "lm"
	LAD ArteryID = "lad"
	LCX ArteryID = "lcx"
	RCA ArteryID = "rca"
)

// ArteryOrder is the canonical order of arteries in findings and impression.
var ArteryOrder = []ArteryID{LM, LAD, LCX, RCA}

var arteryNames = map[ArteryID]string{
	LM:  "Left Main (LM)",
	LAD: "Left Anterior Descending (LAD)",
	LCX: "Left Circumflex (LCX)",
	RCA: "Right Coronary Artery (RCA)",
}

// ParseArteryID accepts an id in any case and with surrounding blanks
// ("LAD", " lad ").
func ParseArteryID(s string) ArteryID {
	return ArteryID(strings.ToLower(strings.TrimSpace(s)))
}

func (id *ArteryID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*id = ParseArteryID(s)
	return nil
}

// Code is the upper-case short code used in impression sentences.
func (id ArteryID) Code() string {
	return strings.ToUpper(string(id))
}

func (id ArteryID) Name() string {
	if name, ok := arteryNames[id]; ok {
		return name
	}
	return id.Code()
}

func (id ArteryID) Valid() bool {
	_, ok := arteryNames[id]
	return ok
}

type Artery struct {
	ID       ArteryID              `json:"id"`
	Diameter string                `json:"diameter,omitempty"`
	Size     classifier.VesselSize `json:"size,omitempty"`
	Anatomy  string                `json:"anatomy,omitempty"`
	Lesions  []Lesion              `json:"lesions,omitempty"`
}

func (a Artery) HasContent() bool {
	return a.Size != classifier.VesselSizeUnknown || a.Diameter != "" || a.Anatomy != "" || len(a.Lesions) > 0
}
