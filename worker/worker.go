package worker

import (
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/logger"
	"cctareport.com/engine/pipeline"
	"cctareport.com/engine/redis"
	"cctareport.com/engine/rmq"
	"cctareport.com/engine/s3client"
	"cctareport.com/engine/tasks"
	"fmt"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"time"
)

type Config struct {
	TaskMaxRetries int           `envconfig:"CCTA_RETRY_TASK_COUNT_MAX" default:"3"`
	ArchiveLinkTTL time.Duration `envconfig:"CCTA_ARCHIVE_LINK_TTL" default:"24h"`
}

// Worker turns queued report requests into archived documents.
type Worker struct {
	config     Config
	redis      redisTransactions
	s3         s3Transactions
	rmq        rmqTransactions
	cctaLogger *zerolog.Logger
	ppln       pipeline.Pipeline
}

func New(ppln pipeline.Pipeline) (*Worker, error) {
	cctaLogger := logger.NewLogger("Worker")

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		cctaLogger.Error().Err(err).Msg("Could not read config")
		return nil, err
	}

	worker := Worker{
		config:     config,
		cctaLogger: &cctaLogger,
		ppln:       ppln,
	}
	if err := worker.refreshRMQClient(); err != nil {
		cctaLogger.Error().Err(err).Msg("Could not create RMQ client")
		return nil, err
	}
	if err := worker.refreshS3Client(); err != nil {
		cctaLogger.Error().Err(err).Msg("Could not create S3 client")
		return nil, err
	}
	if err := worker.refreshRedisClients(); err != nil {
		cctaLogger.Error().Err(err).Msg("Could not create Redis client")
		return nil, err
	}
	return &worker, nil
}

func (worker *Worker) StartWorker() error {
	defer worker.Close()
	for {
		select {
		case delivery, ok := <-worker.rmq.getDeliveriesCh():
			if ok {
				go worker.processMessage(&delivery)
				continue
			}
			worker.cctaLogger.Error().Msg("Deliveries channel closed, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"rmq deliveries channel has been closed and refresh returned error: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getRespChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.cctaLogger.Err(rmqErr).Msg("Response connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"response connection received error and refresh failed with: %w",
					err,
				)
			}
		case rmqErr := <-worker.rmq.getReqChanErrorsCh():
			if rmqErr == nil {
				continue
			}
			worker.cctaLogger.Err(rmqErr).Msg("Request connection received error, trying to refresh RMQ client")
			if err := worker.refreshRMQClient(); err != nil {
				return fmt.Errorf(
					"request connection received error and refresh failed with: %w",
					err,
				)
			}
		}
	}
}

func (worker *Worker) Close() {
	worker.redis.close()
	worker.s3.close()
	worker.rmq.close()
}

func (worker *Worker) refreshRedisClients() error {
	worker.cctaLogger.Info().Msg("Refreshing Redis client")
	if oldClient := worker.redis; oldClient != nil {
		defer oldClient.close()
	}
	tasksClient, err := tasks.NewClient()
	if err != nil {
		worker.cctaLogger.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	draftsClient, err := redis.NewClient(drafts.DraftsDB)
	if err != nil {
		tasksClient.Close()
		worker.cctaLogger.Err(err).Msg("Failed to refresh Redis client")
		return err
	}
	worker.redis = &redisClientWrapper{
		tasksClient:  &tasksClient,
		draftsClient: draftsClient,
		drafts:       drafts.NewRedisStore(draftsClient),
	}
	worker.cctaLogger.Info().Msg("Refreshed Redis client")
	return nil
}

func (worker *Worker) refreshRMQClient() error {
	worker.cctaLogger.Info().Msg("Refreshing RMQ client")
	if oldClient := worker.rmq; oldClient != nil {
		defer oldClient.close()
	}
	rmqClient, err := rmq.NewClient()
	if err != nil {
		worker.cctaLogger.Err(err).Msg("Failed to refresh RMQ client")
		return err
	}
	worker.rmq = &rmqClientWrapper{rmqClient}
	worker.cctaLogger.Info().Msg("Refreshed RMQ client")
	return nil
}

func (worker *Worker) refreshS3Client() error {
	worker.cctaLogger.Info().Msg("Refreshing S3 client")
	if oldClient := worker.s3; oldClient != nil {
		defer oldClient.close()
	}
	s3Client, err := s3client.New()
	if err != nil {
		worker.cctaLogger.Err(err).Msg("Failed to refresh S3 client")
		return err
	}
	worker.s3 = &s3ClientWrapper{s3Client}
	worker.cctaLogger.Info().Msg("Refreshed S3 client")
	return nil
}
