package translation

import (
	"cctareport.com/engine/impression"
	"regexp"
	"strconv"
	"strings"
)

// The severity may carry its own parentheses, so the percentage is the last
// parenthesised group before "stenosis in the".
var (
	lesionLine   = regexp.MustCompile(`^(?P<severity>.+)\s\((?P<percentage>[^()]*)\)\sstenosis in the\s(?P<location>.*?)\s(?P<artery>LAD|LCX|RCA|LM)\.$`)
	scoreLine    = regexp.MustCompile(`^Total Coronary Artery Calcium Score:\s(?P<score>-?[\d.]+)\.$`)
	findingsLine = regexp.MustCompile(`^Additional findings include\s(?P<findings>.*)\.$`)
)

type Translator struct {
	dict Dictionary
}

func NewTranslator(dict Dictionary) *Translator {
	return &Translator{dict: dict}
}

func (t *Translator) Dictionary() Dictionary {
	return t.dict
}

// TranslateLines renders structured impression lines without re-parsing
// the English text.
func (t *Translator) TranslateLines(lines []impression.Line) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var translated string
		switch line.Kind {
		case impression.KindLesion:
			o := line.Obstruction
			translated = t.lesion(o.Severity, o.Percentage, o.Location, o.Artery.Code())
		case impression.KindScore:
			translated = t.score(strconv.Itoa(line.Score))
		case impression.KindFindings:
			translated = t.findings(line.Findings)
		default:
			text := strings.TrimSpace(line.Text)
			if text == "" {
				continue
			}
			translated = t.dict.Sentence(text)
		}
		out = append(out, translated)
	}
	return strings.Join(out, "\n")
}

// Translate works on rendered English text, line by line. Lines matching
// no known shape and absent from the sentence dictionary stay in English.
func (t *Translator) Translate(english string) string {
	var out []string
	for _, line := range strings.Split(english, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, t.translateLine(line))
	}
	return strings.Join(out, "\n")
}

func (t *Translator) translateLine(line string) string {
	if m := match(lesionLine, line); m != nil {
		return t.lesion(m["severity"], m["percentage"], m["location"], m["artery"])
	}
	if m := match(scoreLine, line); m != nil {
		return t.score(m["score"])
	}
	if m := match(findingsLine, line); m != nil {
		return t.findings(strings.Split(m["findings"], ", "))
	}
	return t.dict.Sentence(line)
}

func (t *Translator) lesion(severity, percentage, location, artery string) string {
	return strings.NewReplacer(
		"{{severity}}", t.dict.Term(strings.TrimSpace(severity)),
		"{{percentage}}", percentage,
		"{{location}}", t.dict.Term(strings.TrimSpace(location)),
		"{{artery}}", t.dict.Term(strings.TrimSpace(artery)),
	).Replace(t.dict.Templates.Lesion)
}

func (t *Translator) score(score string) string {
	return strings.ReplaceAll(t.dict.Templates.CalciumScore, "{{score}}", score)
}

func (t *Translator) findings(items []string) string {
	translated := make([]string, len(items))
	for i, item := range items {
		translated[i] = t.dict.Term(strings.TrimSpace(item))
	}
	return t.dict.Sentence(findingsPrefixKey) + " " + strings.Join(translated, ", ") + "."
}

func match(re *regexp.Regexp, line string) map[string]string {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	groups := make(map[string]string, len(m))
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = m[i]
		}
	}
	return groups
}
