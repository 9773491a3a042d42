package report

import (
	"cctareport.com/engine/types"
	"fmt"
	"strings"
)

const scoreColumnWidth = 34

// PrintView renders the plain-text print layout of a generated report.
func PrintView(r *types.Report) string {
	var b strings.Builder
	for _, block := range Layout(r) {
		switch block.Kind {
		case BlockTitle:
			b.WriteString(block.Text + "\n")
			b.WriteString(strings.Repeat("=", len([]rune(block.Text))) + "\n")
		case BlockHeading:
			b.WriteString("\n" + strings.ToUpper(block.Text) + "\n")
		case BlockSubHeading:
			b.WriteString("\n" + block.Text + "\n")
		case BlockText, BlockNote:
			b.WriteString(block.Text + "\n")
		case BlockLabeled:
			b.WriteString(strings.TrimSpace(block.Label+": "+block.Text) + "\n")
		case BlockBullet:
			b.WriteString("  - " + block.Text + "\n")
		case BlockScoreHeader, BlockScoreRow, BlockScoreTotal:
			b.WriteString(fmt.Sprintf("%-*s %s\n", scoreColumnWidth, block.Label, block.Text))
		case BlockIndicator:
			b.WriteString("\n" + block.Label + " " + block.Text + "\n")
		}
	}
	return b.String()
}
