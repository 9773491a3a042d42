package types

import (
	"encoding/json"
	"strings"
)

type Segment string

const (
	SegmentUnspecified      Segment = ""
	SegmentProximal         Segment = "proximal"
	SegmentMid              Segment = "mid"
	SegmentDistal           Segment = "distal"
	SegmentOstial           Segment = "ostial"
	SegmentProximalToMid    Segment = "proximal-to-mid"
	SegmentMidToDistal      Segment = "mid-to-distal"
	SegmentProximalToDistal Segment = "proximal-to-distal"
)

// Label is the segment as it reads inside a sentence ("proximal to mid").
// The literal "unspecified" counts as no segment.
func (s Segment) Label() string {
	label := strings.TrimSpace(strings.ReplaceAll(string(s), "-", " "))
	if strings.EqualFold(label, "unspecified") {
		return ""
	}
	return label
}

// Stenosis is the severity micro-format of the lesion form, "70-90% (Severe)",
// held as its parts. A bare keyword such as "CTO" has no severity. Text
// after the closing parenthesis is kept in Suffix.
type Stenosis struct {
	Percentage string
	Severity   string
	Suffix     string
}

// ParseStenosis splits the legacy string form. The severity is everything
// between the first "(" and the last ")" so that nested parentheses are kept.
func ParseStenosis(text string) Stenosis {
	text = strings.TrimSpace(text)
	open := strings.Index(text, "(")
	closing := strings.LastIndex(text, ")")
	if open < 0 || closing < open {
		return Stenosis{Percentage: text}
	}
	return Stenosis{
		Percentage: strings.TrimSpace(text[:open]),
		Severity:   strings.TrimSpace(text[open+1 : closing]),
		Suffix:     strings.TrimSpace(text[closing+1:]),
	}
}

func (s Stenosis) String() string {
	var out string
	switch {
	case s.Severity == "":
		out = s.Percentage
	case s.Percentage == "":
		out = "(" + s.Severity + ")"
	default:
		out = s.Percentage + " (" + s.Severity + ")"
	}
	if s.Suffix != "" {
		out = strings.TrimSpace(out + " " + s.Suffix)
	}
	return out
}

func (s Stenosis) IsEmpty() bool {
	return s.Percentage == "" && s.Severity == "" && s.Suffix == ""
}

func (s Stenosis) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stenosis) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	*s = ParseStenosis(text)
	return nil
}

// Lesion is one entry of an artery's lesion list. When Custom is set the
// lesion is a pre-written sentence and the structured fields are ignored.
type Lesion struct {
	Segment     Segment  `json:"segment,omitempty"`
	Type        string   `json:"type,omitempty"`
	Remodeling  string   `json:"remodeling,omitempty"`
	Composition string   `json:"composition,omitempty"`
	Attenuation string   `json:"attenuation,omitempty"`
	Texture     string   `json:"texture,omitempty"`
	Stenosis    Stenosis `json:"stenosis"`
	Custom      string   `json:"custom,omitempty"`
}

func (l Lesion) IsCustom() bool {
	return l.Custom != ""
}

func (l Lesion) IsEmpty() bool {
	if l.IsCustom() {
		return false
	}
	return l.Segment.Label() == "" &&
		l.Type == "" &&
		l.Remodeling == "" &&
		l.Composition == "" &&
		l.Attenuation == "" &&
		l.Texture == "" &&
		l.Stenosis.IsEmpty()
}
