package pipeline

import (
	"cctareport.com/engine/logger"
	"cctareport.com/engine/report"
	"cctareport.com/engine/translation"
	"cctareport.com/engine/types"
	"errors"
	"fmt"
)

var (
	ErrEmptyReport    = errors.New("request has no report")
	ErrUnknownFinding = errors.New("unknown finding")
	ErrUnknownArtery  = errors.New("unknown artery")
)

type Pipeline func(request Request) (Response, error)

type Params struct {
	FindingCatalogPath string `json:"finding_catalog_path"`
	DictionaryPath     string `json:"dictionary_path"`
}

// Resources are the loaded lookups shared by the pipeline and the API.
type Resources struct {
	Catalog    types.FindingCatalog
	Translator *translation.Translator
}

func LoadResources(params Params) (Resources, error) {
	cctaLogger := logger.NewLogger("Report pipeline")
	errLogger := cctaLogger.With().Caller().Logger()

	catalog, err := types.LoadFindingCatalog(params.FindingCatalogPath)
	if err != nil {
		errLogger.Err(err).
			Str("finding_catalog_path", params.FindingCatalogPath).
			Msg("Failed to load findings catalog")
		return Resources{}, err
	}
	dict, err := translation.LoadDictionary(params.DictionaryPath)
	if err != nil {
		errLogger.Err(err).
			Str("dictionary_path", params.DictionaryPath).
			Msg("Failed to load translation dictionary")
		return Resources{}, err
	}
	return Resources{
		Catalog:    catalog,
		Translator: translation.NewTranslator(dict),
	}, nil
}

func New(params Params) (Pipeline, error) {
	cctaLogger := logger.NewLogger("Report pipeline")
	cctaLogger.Info().
		Interface("params", params).
		Msg("Starting report pipeline (see parameters in 'params' field)")

	resources, err := LoadResources(params)
	if err != nil {
		return nil, err
	}
	return FromResources(resources), nil
}

func FromResources(resources Resources) Pipeline {
	cctaLogger := logger.NewLogger("Report pipeline")
	generator := report.NewGenerator(resources.Translator)

	return func(request Request) (Response, error) {
		pplnLog := cctaLogger.With().Str("tid", request.Tid).Logger()
		errLogger := pplnLog.With().Caller().Logger()

		if request.Report == nil {
			errLogger.Err(ErrEmptyReport).Msg("Rejecting request")
			return Response{}, ErrEmptyReport
		}
		r := request.Report
		if unknown := r.UnknownArteries(); len(unknown) > 0 {
			err := fmt.Errorf("%w: %q", ErrUnknownArtery, unknown)
			errLogger.Err(err).Msg("Rejecting request")
			return Response{}, err
		}

		for _, label := range request.Findings {
			finding, ok := resources.Catalog.Find(label)
			if !ok {
				err := fmt.Errorf("%w: %q", ErrUnknownFinding, label)
				errLogger.Err(err).Msg("Rejecting request")
				return Response{}, err
			}
			report.AddOtherFinding(r, finding)
		}

		pplnLog.Debug().Msg("Generating report")
		imp := generator.Generate(r)

		lines := make([]string, 0, len(imp.Lines))
		for _, line := range imp.Lines {
			if text := line.String(); text != "" {
				lines = append(lines, text)
			}
		}
		pplnLog.Info().
			Str("risk_level", string(imp.Risk)).
			Int("impression_lines", len(lines)).
			Msg("Report generated")

		return Response{
			Tid:        request.Tid,
			Report:     r,
			Impression: lines,
			RiskSteps:  imp.Steps,
			Badge:      r.RiskLevel.Badge(),
			PrintView:  report.PrintView(r),
		}, nil
	}
}
