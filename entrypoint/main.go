package main

import (
	"cctareport.com/engine/api"
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/export"
	"cctareport.com/engine/logger"
	"cctareport.com/engine/pipeline"
	"cctareport.com/engine/redis"
	"cctareport.com/engine/types"
	"cctareport.com/engine/worker"
	"encoding/json"
	"flag"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"net/http"
	"os"
	"time"
)

type Config struct {
	FindingCatalogPath string `envconfig:"CCTA_FINDING_CATALOG_PATH" default:""`
	DictionaryPath     string `envconfig:"CCTA_DICTIONARY_PATH" default:""`
	RestAPIActive      bool   `envconfig:"CCTA_REST_API_ACTIVE" default:"false"`
	RestAPIPort        string `envconfig:"CCTA_REST_API_PORT" default:"10000"`
	WorkerActive       bool   `envconfig:"CCTA_WORKER_ACTIVE" default:"true"`
	// memory or redis
	DraftStore string `envconfig:"CCTA_DRAFT_STORE" default:"memory"`
}

const pipelineStartMaxRetries = 5

func main() {
	logger.SetupLogging()
	cctaLogger := logger.NewLogger("Main")
	fatalErrLogger := cctaLogger.Fatal().Caller()
	render := flag.String("render", "", "render the report JSON file as a print view and exit")
	exportPath := flag.String("export", "", "with -render, also write the packaged workbook to this path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		cctaLogger.Debug().Err(err).Msg("No .env file loaded")
	}
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalErrLogger.Err(err).Msg("Failed to read environment")
		os.Exit(1)
	}
	params := pipeline.Params{
		FindingCatalogPath: config.FindingCatalogPath,
		DictionaryPath:     config.DictionaryPath,
	}

	if *render != "" {
		if err := renderFile(params, *render, *exportPath); err != nil {
			cctaLogger.Err(err).Str("path", *render).Msg("Failed to render report")
			os.Exit(1)
		}
		return
	}

	// retry while resource files are not yet mounted
	var resources pipeline.Resources
	var err error
	for retry := 0; retry < pipelineStartMaxRetries; retry++ {
		resources, err = pipeline.LoadResources(params)
		if err == nil {
			break
		}
		cctaLogger.Err(err).Msg("Failed to load pipeline resources. Retrying in 5 sec")
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		fatalErrLogger.Msg("Could not start pipeline after 5 retries, exiting")
		os.Exit(1)
	}
	ppln := pipeline.FromResources(resources)
	cctaLogger.Info().Msgf("Pipeline loaded with %d findings", len(resources.Catalog.Findings))

	if !config.RestAPIActive && !config.WorkerActive {
		cctaLogger.Warn().Msg("Neither REST API nor worker is active. Exit...")
		return
	}

	if config.RestAPIActive {
		store, err := newDraftStore(config.DraftStore)
		if err != nil {
			fatalErrLogger.Err(err).Msg("Could not create draft store")
			os.Exit(1)
		}
		serve := func() {
			cctaLogger.Info().Msg("Starting API service")
			apiRequest := &api.Request{
				Pipeline:  ppln,
				Resources: resources,
				Drafts:    store,
			}
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			cctaLogger.Info().Msgf("REST API on %s", host)
			err := http.ListenAndServe(host, apiRequest.Routes())
			fatalErrLogger.Err(err).Msg("REST API stopped with error")
		}
		if !config.WorkerActive {
			serve()
			return
		}
		go serve()
	}

	cctaLogger.Info().Msg("Start CCTA Worker")
	for {
		rmqWorker, err := worker.New(ppln)
		if err != nil {
			cctaLogger.Fatal().Err(err).Msg("Could not initialize RMQ worker")
			os.Exit(1)
		}
		err = rmqWorker.StartWorker()
		if err != nil {
			cctaLogger.Err(err).Msg("Worker returned with error. Launching new in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}

func newDraftStore(kind string) (drafts.Store, error) {
	switch kind {
	case "memory":
		return drafts.NewMemoryStore(), nil
	case "redis":
		client, err := redis.NewClient(drafts.DraftsDB)
		if err != nil {
			return nil, err
		}
		return drafts.NewRedisStore(client), nil
	}
	return nil, fmt.Errorf("unknown draft store %q", kind)
}

func renderFile(params pipeline.Params, filePath string, exportPath string) error {
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	report := types.NewReport()
	if err := json.Unmarshal(buf, report); err != nil {
		return fmt.Errorf("parse report: %w", err)
	}
	ppln, err := pipeline.New(params)
	if err != nil {
		return err
	}
	resp, err := ppln(pipeline.Request{Tid: pipeline.NewTid(), Report: report})
	if err != nil {
		return err
	}
	fmt.Println(resp.PrintView)

	if exportPath == "" {
		return nil
	}
	workbook, err := export.Workbook(resp.Report)
	if err != nil {
		return err
	}
	return os.WriteFile(exportPath, workbook, 0644)
}
