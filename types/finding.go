package types

import (
	"cctareport.com/engine/logger"
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
	"strings"
)

// UnremarkableText is the default content of the other structures section.
const UnremarkableText = "The pericardium and visualized extracardiac structures are unremarkable."

// OtherFinding is a quick-insert finding: Text goes into the other
// structures section, Summary into the impression.
type OtherFinding struct {
	Label   string `yaml:"label" json:"label"`
	Text    string `yaml:"text" json:"text"`
	Summary string `yaml:"summary" json:"summary"`
}

type FindingCatalog struct {
	Findings []OtherFinding `yaml:"findings" json:"findings"`
}

// Find looks a finding up by its button label, case-insensitively.
func (c FindingCatalog) Find(label string) (OtherFinding, bool) {
	for _, f := range c.Findings {
		if strings.EqualFold(f.Label, label) {
			return f, true
		}
	}
	return OtherFinding{}, false
}

func DefaultFindingCatalog() FindingCatalog {
	return FindingCatalog{Findings: []OtherFinding{
		{"Pericardial Thickening", "Diffuse pericardial thickening is noted, measuring up to [X] mm.", "pericardial thickening"},
		{"Aortic Root Dilatation", "The aortic root is dilated, measuring [X] cm at the sinuses of Valsalva.", "aortic root dilatation"},
		{"Ascending Aorta Dilatation", "The ascending aorta is dilated, measuring [X] cm in maximum diameter.", "ascending aorta dilatation"},
		{"Pericardial Effusion", "A [small/moderate/large], circumferential pericardial effusion is present.", "a pericardial effusion"},
		{"LV Hypertrophy", "There is concentric left ventricular hypertrophy.", "left ventricular hypertrophy"},
		{"Focal LV Hypertrophy", "There is focal hypertrophy of the [interventricular septum].", "focal left ventricular hypertrophy"},
		{"LV Dilatation", "The left ventricle is dilated.", "left ventricular dilatation"},
		{"LAA Thrombus", "A filling defect is noted within the left atrial appendage, suspicious for thrombus.", "a possible left atrial appendage thrombus"},
		{"Patent Ductus Arteriosus", "A patent ductus arteriosus is visualized connecting the proximal descending aorta and the pulmonary artery.", "a patent ductus arteriosus"},
		{"Atrial Septal Defect", "An atrial septal defect (ASD) is noted, likely [secundum/primum] type.", "an atrial septal defect"},
		{"Patent Foramen Ovale", "A patent foramen ovale (PFO) is noted, with evidence of a channel between the left and right atria.", "a patent foramen ovale"},
		{"Pulmonary Embolism", "There is evidence of acute pulmonary embolism, with filling defects noted in the [e.g., right main] pulmonary artery.", "acute pulmonary embolism"},
	}}
}

// LoadFindingCatalog reads a YAML catalog. Entries without a summary are
// skipped. An empty path yields the default catalog.
func LoadFindingCatalog(filePath string) (FindingCatalog, error) {
	if filePath == "" {
		return DefaultFindingCatalog(), nil
	}
	cctaLogger := logger.NewLogger("LoadFindingCatalog").With().Str("path", filePath).Logger()

	buf, err := os.ReadFile(filePath)
	if err != nil {
		return FindingCatalog{}, fmt.Errorf("read findings catalog: %w", err)
	}
	var raw FindingCatalog
	if err := yaml.Unmarshal(buf, &raw); err != nil {
		return FindingCatalog{}, fmt.Errorf("parse findings catalog: %w", err)
	}

	catalog := FindingCatalog{Findings: make([]OtherFinding, 0, len(raw.Findings))}
	for i, f := range raw.Findings {
		f.Summary = strings.TrimSpace(f.Summary)
		if f.Summary == "" {
			cctaLogger.Warn().Int("index", i).Str("label", f.Label).Msg("Skipping finding without summary")
			continue
		}
		if f.Label == "" {
			f.Label = f.Summary
		}
		catalog.Findings = append(catalog.Findings, f)
	}
	cctaLogger.Info().Msgf("Loaded %d findings", len(catalog.Findings))
	return catalog, nil
}
