package impression_test

import (
	"cctareport.com/engine/impression"
	"cctareport.com/engine/translation"
	"cctareport.com/engine/types"
	"context"
	"fmt"
	"github.com/cucumber/godog"
	"strings"
	"testing"
)

// scenarioContext holds state for a single scenario
type scenarioContext struct {
	report     *types.Report
	translator *translation.Translator
	result     impression.Impression
	vietnamese string
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	state := &scenarioContext{}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.report = nil
		state.translator = translation.NewTranslator(translation.DefaultDictionary())
		state.result = impression.Impression{}
		state.vietnamese = ""
		return ctx, nil
	})

	sc.Step(`^an empty report$`, state.anEmptyReport)
	sc.Step(`^calcium scores LAD (\d+), LCX (\d+), RCA (\d+), LM (\d+)$`, state.calciumScores)
	sc.Step(`^a lesion in the (LM|LAD|LCX|RCA) with segment "([^"]*)" and stenosis "([^"]*)"$`, state.aLesion)
	sc.Step(`^a custom lesion in the (LM|LAD|LCX|RCA) reading "([^"]*)"$`, state.aCustomLesion)
	sc.Step(`^the other finding "([^"]*)"$`, state.theOtherFinding)
	sc.Step(`^the impression is composed$`, state.theImpressionIsComposed)
	sc.Step(`^the impression should be:$`, state.theImpressionShouldBe)
	sc.Step(`^the impression should contain "([^"]*)"$`, state.theImpressionShouldContain)
	sc.Step(`^the impression should not contain "([^"]*)"$`, state.theImpressionShouldNotContain)
	sc.Step(`^the risk level should be "([^"]*)"$`, state.theRiskLevelShouldBe)
	sc.Step(`^the Vietnamese impression should be:$`, state.theVietnameseImpressionShouldBe)
	sc.Step(`^the Vietnamese impression should contain "([^"]*)"$`, state.theVietnameseImpressionShouldContain)
	sc.Step(`^translating the English impression text gives the same Vietnamese impression$`, state.textTranslationMatches)
}

func (s *scenarioContext) anEmptyReport() error {
	s.report = types.NewReport()
	return nil
}

func (s *scenarioContext) calciumScores(lad, lcx, rca, lm int) error {
	s.report.CalciumScores = types.CalciumScores{LAD: lad, LCX: lcx, RCA: rca, LM: lm}
	return nil
}

func (s *scenarioContext) artery(code string) (*types.Artery, error) {
	a := s.report.Artery(types.ArteryID(strings.ToLower(code)))
	if a == nil {
		return nil, fmt.Errorf("no artery %s in report", code)
	}
	return a, nil
}

func (s *scenarioContext) aLesion(code, segment, stenosis string) error {
	a, err := s.artery(code)
	if err != nil {
		return err
	}
	a.Lesions = append(a.Lesions, types.Lesion{
		Segment:  types.Segment(segment),
		Stenosis: types.ParseStenosis(stenosis),
	})
	return nil
}

func (s *scenarioContext) aCustomLesion(code, text string) error {
	a, err := s.artery(code)
	if err != nil {
		return err
	}
	a.Lesions = append(a.Lesions, types.Lesion{Custom: text})
	return nil
}

func (s *scenarioContext) theOtherFinding(summary string) error {
	s.report.OtherFindings = append(s.report.OtherFindings, summary)
	return nil
}

func (s *scenarioContext) theImpressionIsComposed() error {
	s.result = impression.NewComposer().Compose(s.report)
	s.vietnamese = s.translator.TranslateLines(s.result.Lines)
	return nil
}

func (s *scenarioContext) theImpressionShouldBe(doc *godog.DocString) error {
	if s.result.Text() != doc.Content {
		return fmt.Errorf("expected impression:\n%s\ngot:\n%s", doc.Content, s.result.Text())
	}
	return nil
}

func (s *scenarioContext) theImpressionShouldContain(expected string) error {
	if !strings.Contains(s.result.Text(), expected) {
		return fmt.Errorf("impression does not contain %q\nImpression:\n%s", expected, s.result.Text())
	}
	return nil
}

func (s *scenarioContext) theImpressionShouldNotContain(unexpected string) error {
	if strings.Contains(s.result.Text(), unexpected) {
		return fmt.Errorf("impression contains %q\nImpression:\n%s", unexpected, s.result.Text())
	}
	return nil
}

func (s *scenarioContext) theRiskLevelShouldBe(expected string) error {
	if string(s.result.Risk) != expected {
		return fmt.Errorf("expected risk %s, got %s", expected, s.result.Risk)
	}
	return nil
}

func (s *scenarioContext) theVietnameseImpressionShouldBe(doc *godog.DocString) error {
	if s.vietnamese != doc.Content {
		return fmt.Errorf("expected Vietnamese impression:\n%s\ngot:\n%s", doc.Content, s.vietnamese)
	}
	return nil
}

func (s *scenarioContext) theVietnameseImpressionShouldContain(expected string) error {
	if !strings.Contains(s.vietnamese, expected) {
		return fmt.Errorf("Vietnamese impression does not contain %q\nImpression:\n%s", expected, s.vietnamese)
	}
	return nil
}

func (s *scenarioContext) textTranslationMatches() error {
	fromText := s.translator.Translate(s.result.Text())
	if fromText != s.vietnamese {
		return fmt.Errorf("text translation differs:\n%s\nstructured:\n%s", fromText, s.vietnamese)
	}
	return nil
}
