package report

import (
	"cctareport.com/engine/lesion"
	"cctareport.com/engine/types"
	"fmt"
	"strconv"
	"strings"
)

const (
	Title          = "Coronary Computed Tomography Angiography (CCTA) Report"
	TechniqueText  = "Prospective ECG-gated coronary CTA was performed. Heart rate at the time of acquisition was approximately %s bpm."
	VietnameseHead = "Kết luận"
)

type BlockKind int

const (
	BlockTitle BlockKind = iota
	BlockHeading
	BlockSubHeading
	BlockText
	BlockNote
	BlockLabeled
	BlockBullet
	BlockScoreHeader
	BlockScoreRow
	BlockScoreTotal
	BlockIndicator
)

// Block is one element of the rendered report. Label is the bold lead-in
// of labeled, score and indicator blocks.
type Block struct {
	Kind  BlockKind
	Label string
	Text  string
	Risk  types.RiskLevel
}

// Layout lists the printable blocks of a generated report. Sections
// without content are left out.
func Layout(r *types.Report) []Block {
	blocks := []Block{{Kind: BlockTitle, Text: Title}}
	section := func(heading, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		blocks = append(blocks, Block{Kind: BlockHeading, Text: heading}, Block{Kind: BlockText, Text: text})
	}

	section("Clinical Indication", r.ClinicalIndication)
	section("Technique", techniqueText(r))
	section("Technical Quality", r.TechnicalQuality)

	blocks = append(blocks,
		Block{Kind: BlockHeading, Text: "Findings"},
		Block{Kind: BlockSubHeading, Text: "1. Coronary Artery Calcium Score"},
		Block{Kind: BlockScoreHeader, Label: "Artery", Text: "Agatston Score"},
	)
	for _, id := range []types.ArteryID{types.LAD, types.LCX, types.RCA, types.LM} {
		blocks = append(blocks, Block{Kind: BlockScoreRow, Label: id.Name(), Text: strconv.Itoa(r.CalciumScores.Score(id))})
	}
	blocks = append(blocks,
		Block{Kind: BlockScoreTotal, Label: "TOTAL", Text: strconv.Itoa(r.CalciumScores.Total())},
		Block{Kind: BlockNote, Text: r.CalciumScores.Risk().Interpretation},
		Block{Kind: BlockSubHeading, Text: "2. Coronary Arteries"},
	)

	if r.Dominance != "" {
		blocks = append(blocks, Block{Kind: BlockLabeled, Label: "Dominance", Text: r.Dominance})
	}
	for _, id := range types.ArteryOrder {
		a := r.Artery(id)
		if a == nil || !a.HasContent() {
			continue
		}
		blocks = append(blocks, Block{Kind: BlockLabeled, Label: id.Name(), Text: arteryText(*a)})
		for _, sentence := range lesion.FormatAll(a.Lesions) {
			blocks = append(blocks, Block{Kind: BlockBullet, Text: sentence})
		}
	}

	subsection := func(heading, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		blocks = append(blocks, Block{Kind: BlockSubHeading, Text: heading}, Block{Kind: BlockText, Text: text})
	}
	subsection("3. Collateral Circulation", r.CollateralCirculation)
	subsection("4. Cardiac Function", cardiacText(r.CardiacFunction))
	if other := strings.TrimSpace(r.OtherStructures); other != types.UnremarkableText {
		subsection("5. Other Structures", other)
	}

	section("Impression", r.Impression)
	section(VietnameseHead, r.ImpressionVI)
	section("Recommendation", r.Recommendation)

	return append(blocks, Block{Kind: BlockIndicator, Label: types.BadgeTitle, Text: r.RiskLevel.Badge(), Risk: r.RiskLevel})
}

func techniqueText(r *types.Report) string {
	var lines []string
	if hr := strings.TrimSpace(r.TechniqueHeartRate); hr != "" {
		lines = append(lines, fmt.Sprintf(TechniqueText, hr))
	}
	if meds := r.Medications.List(); len(meds) > 0 {
		lines = append(lines, "Medications administered: "+strings.Join(meds, ", ")+".")
	}
	return strings.Join(lines, "\n")
}

func arteryText(a types.Artery) string {
	var b strings.Builder
	if a.Size != "" {
		b.WriteString(" A " + string(a.Size) + " vessel")
	}
	if a.Diameter != "" {
		b.WriteString(" with proximal diameter of " + a.Diameter + " mm.")
	}
	if a.Anatomy != "" {
		b.WriteString(" " + a.Anatomy)
	}
	return strings.TrimSpace(b.String())
}

// cardiacText hides the default wall motion sentence.
func cardiacText(cf types.CardiacFunction) string {
	var parts []string
	if cf.LVEFValue != "" {
		parts = append(parts, "Estimated LVEF is "+cf.LVEFValue+"%.")
	}
	if cf.LVEFDescription != "" {
		parts = append(parts, cf.LVEFDescription+".")
	}
	text := strings.Join(parts, " ")
	if cf.WallMotion != "" && cf.WallMotion != types.DefaultWallMotion {
		if text != "" {
			text += "\n"
		}
		text += cf.WallMotion
	}
	return text
}
