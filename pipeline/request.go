package pipeline

import (
	"cctareport.com/engine/types"
	"github.com/google/uuid"
)

type Request struct {
	Tid    string        `json:"tid"`
	Report *types.Report `json:"report"`

	// Findings are catalog labels to insert before generation.
	Findings []string `json:"findings,omitempty"`
}

type Response struct {
	Tid        string            `json:"tid"`
	Report     *types.Report     `json:"report"`
	Impression []string          `json:"impression_lines"`
	RiskSteps  []types.RiskLevel `json:"risk_steps"`
	Badge      string            `json:"badge"`
	PrintView  string            `json:"print_view"`
}

// NewTid returns a fresh transaction id for requests that come without one.
func NewTid() string {
	return uuid.New().String()
}
