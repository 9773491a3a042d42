// Package translation renders the English impression in Vietnamese using a
// fixed vocabulary.
package translation

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

const (
	LesionTemplate       = "{{severity}} ({{percentage}}) tại {{location}} {{artery}}."
	CalciumScoreTemplate = "Tổng điểm vôi hóa động mạch vành: {{score}}"

	findingsPrefixKey = "Additional findings include"
)

type Templates struct {
	Lesion       string `yaml:"lesion"`
	CalciumScore string `yaml:"calcium_score"`
}

// Dictionary holds the static vocabulary. Terms are looked up by exact
// phrase, sentences by the whole trimmed line.
type Dictionary struct {
	Templates Templates         `yaml:"templates"`
	Terms     map[string]string `yaml:"terms"`
	Sentences map[string]string `yaml:"sentences"`
}

func DefaultDictionary() Dictionary {
	return Dictionary{
		Templates: Templates{
			Lesion:       LesionTemplate,
			CalciumScore: CalciumScoreTemplate,
		},
		Terms: map[string]string{
			// severity
			"Mild":                          "Hẹp mức độ nhẹ",
			"Mild-moderate":                 "Hẹp mức độ nhẹ-trung bình",
			"Moderate":                      "Hẹp mức độ trung bình",
			"Severe":                        "Hẹp mức độ nặng",
			"Subtotal occlusion":            "Hẹp mức độ tắc gần hoàn toàn",
			"Total occlusion":               "Tắc hoàn toàn",
			"CTO (chronic total occlusion)": "Tắc mạn tính (CTO)",
			// location
			"proximal":            "đoạn gần",
			"mid":                 "đoạn giữa",
			"distal":              "đoạn xa",
			"ostial":              "lỗ vào",
			"proximal to mid":     "đoạn gần đến đoạn giữa",
			"mid to distal":       "đoạn giữa đến đoạn xa",
			"proximal to distal":  "đoạn gần đến đoạn xa",
			"unspecified segment": "phân đoạn không xác định",
			// artery
			"LAD": "động mạch liên thất trước (LAD)",
			"LCX": "động mạch mũ (LCX)",
			"RCA": "động mạch vành phải (RCA)",
			"LM":  "thân chung (LM)",
			// other findings
			"pericardial thickening":                    "dày màng ngoài tim",
			"aortic root dilatation":                    "giãn gốc động mạch chủ",
			"ascending aorta dilatation":                "giãn động mạch chủ lên",
			"a pericardial effusion":                    "tràn dịch màng ngoài tim",
			"left ventricular hypertrophy":              "phì đại thất trái",
			"focal left ventricular hypertrophy":        "phì đại thất trái cục bộ",
			"left ventricular dilatation":               "giãn thất trái",
			"a possible left atrial appendage thrombus": "nghi ngờ huyết khối tiểu nhĩ trái",
			"a patent ductus arteriosus":                "còn ống động mạch",
			"an atrial septal defect":                   "thông liên nhĩ",
			"a patent foramen ovale":                    "còn tồn tại lỗ bầu dục",
			"acute pulmonary embolism":                  "thuyên tắc phổi cấp",
		},
		Sentences: map[string]string{
			"Interpretation: No coronary artery calcification detected. Low cardiovascular risk.":                   "Diễn giải: Không phát hiện vôi hóa động mạch vành. Nguy cơ tim mạch thấp.",
			"Interpretation: Minimal coronary artery calcification detected. Low cardiovascular risk.":              "Diễn giải: Phát hiện vôi hóa động mạch vành tối thiểu. Nguy cơ tim mạch thấp.",
			"Interpretation: Mild coronary artery calcification detected. Moderate cardiovascular risk.":            "Diễn giải: Phát hiện vôi hóa động mạch vành mức độ nhẹ. Nguy cơ tim mạch trung bình.",
			"Interpretation: Moderate coronary artery calcification detected. Moderately high cardiovascular risk.": "Diễn giải: Phát hiện vôi hóa động mạch vành mức độ trung bình. Nguy cơ tim mạch cao vừa phải.",
			"Interpretation: Severe coronary artery calcification detected. High cardiovascular risk.":              "Diễn giải: Phát hiện vôi hóa động mạch vành mức độ nặng. Nguy cơ tim mạch cao.",
			"Normal coronary arteries without evidence of significant atherosclerotic disease.":                     "Các động mạch vành bình thường, không có bằng chứng của bệnh lý xơ vữa có ý nghĩa.",
			"Mild non-obstructive coronary artery disease.":                                                         "Bệnh động mạch vành không tắc nghẽn mức độ nhẹ.",
			findingsPrefixKey: "Các phát hiện khác bao gồm",
		},
	}
}

// LoadDictionary reads a YAML vocabulary and layers it over the default
// one. Missing templates keep their defaults.
func LoadDictionary(filePath string) (Dictionary, error) {
	dict := DefaultDictionary()
	if filePath == "" {
		return dict, nil
	}

	buf, err := os.ReadFile(filePath)
	if err != nil {
		return Dictionary{}, fmt.Errorf("read dictionary: %w", err)
	}
	var extra Dictionary
	if err := yaml.Unmarshal(buf, &extra); err != nil {
		return Dictionary{}, fmt.Errorf("parse dictionary: %w", err)
	}

	if extra.Templates.Lesion != "" {
		dict.Templates.Lesion = extra.Templates.Lesion
	}
	if extra.Templates.CalciumScore != "" {
		dict.Templates.CalciumScore = extra.Templates.CalciumScore
	}
	for k, v := range extra.Terms {
		dict.Terms[k] = v
	}
	for k, v := range extra.Sentences {
		dict.Sentences[k] = v
	}
	return dict, nil
}

// Term translates a phrase, falling back to the phrase itself.
func (d Dictionary) Term(phrase string) string {
	if t, ok := d.Terms[phrase]; ok {
		return t
	}
	return phrase
}

// Sentence translates a whole line, falling back to the line itself.
func (d Dictionary) Sentence(line string) string {
	if t, ok := d.Sentences[line]; ok {
		return t
	}
	return line
}
