package worker

import (
	"cctareport.com/engine/export"
	"cctareport.com/engine/pipeline"
	"cctareport.com/engine/tasks"
	"cctareport.com/engine/types"
	"cctareport.com/engine/utils"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
)

const Sender = "ccta-engine"

var errEmptyReportID = errors.New("message has no report id")

type Message struct {
	ReportID    string           `json:"report_id"`
	Sender      string           `json:"sender"`
	Version     string           `json:"version"`
	Status      tasks.TaskStatus `json:"status,omitempty"`
	RiskLevel   types.RiskLevel  `json:"risk_level,omitempty"`
	DownloadURL string           `json:"download_url,omitempty"`
}

type Task struct {
	delivery   *amqp.Delivery
	job        *tasks.ReportJob
	message    *Message
	reportID   string
	result     taskResult
	cctaLogger *zerolog.Logger
}

type taskResult struct {
	status      tasks.TaskStatus
	archiveKeys []string
	riskLevel   types.RiskLevel
	downloadURL string
}

func (worker *Worker) processMessage(delivery *amqp.Delivery) {
	task, err := worker.createTask(delivery)
	rejectLogger := worker.cctaLogger.With().Str("message_id", delivery.MessageId).Logger()
	if err != nil {
		worker.cctaLogger.Err(err).
			Str("message_id", delivery.MessageId).
			Str("body", string(delivery.Body)).
			Msg("Failed to create task for delivery")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.processTask(task); err != nil {
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.notifyCompletion(task, task.completionMessage()); err != nil {
		task.cctaLogger.Err(err).Msg("Got error while sending message to completion queue")
		worker.rmq.rejectDelivery(delivery, &rejectLogger)
		return
	}
	if err = worker.rmq.acknowledgeDelivery(delivery); err != nil {
		task.cctaLogger.Err(err).Msg("Failed to acknowledge delivery")
	}
	task.cctaLogger.Info().Msg("Finished processing RMQ message")
}

func (worker *Worker) createTask(delivery *amqp.Delivery) (*Task, error) {
	var message Message
	err := json.Unmarshal(delivery.Body, &message)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal message, got error %w", err)
	}
	if message.ReportID == "" {
		return nil, errEmptyReportID
	}
	job, err := worker.redis.getJob(message.ReportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report job for message, got error %w", err)
	}
	taskLogger := worker.cctaLogger.With().Str("report_id", message.ReportID).Logger()
	task := Task{
		delivery:   delivery,
		job:        job,
		reportID:   message.ReportID,
		message:    &message,
		result:     taskResult{status: job.Status, riskLevel: job.RiskLevel, archiveKeys: job.ArchiveKeys},
		cctaLogger: &taskLogger,
	}
	return &task, nil
}

func (task *Task) completionMessage() Message {
	message := *task.message
	message.Sender = Sender
	message.Status = task.result.status
	message.RiskLevel = task.result.riskLevel
	message.DownloadURL = task.result.downloadURL
	return message
}

func (worker *Worker) processTask(task *Task) error {
	shouldPerform, err := worker.shouldPerformTask(task)
	if err != nil {
		task.cctaLogger.Err(err).
			Msg("Got error while trying to decide whether to run task")
		return err
	}
	if !shouldPerform {
		return nil
	}
	if err = worker.redis.onTaskStarted(task); err != nil {
		task.cctaLogger.Err(err).Msg("Failed to update report job")
		return fmt.Errorf("failed to update report job: %w", err)
	}
	if err = worker.runPipeline(task); err != nil {
		task.cctaLogger.Err(err).Msg("Got error while running pipeline")
		task.result.status = tasks.TaskStatusFailed
		if err = worker.redis.onTaskFailedWithError(task, err); err != nil {
			return err
		}
		return nil
	}
	task.cctaLogger.Info().Msg("Saved archive, marking task as complete")
	task.result.status = tasks.TaskStatusCompletedSuccess
	if err = worker.redis.onTaskComplete(task); err != nil {
		task.cctaLogger.Err(err).Msg("Got error while trying to mark task as complete")
		return err
	}
	return nil
}

func (worker *Worker) runPipeline(task *Task) (err error) {
	defer utils.RecoverWithError(&err)
	task.cctaLogger.Info().Msgf("Processing message from RMQ, attempt # %d", task.job.Attempts+1)
	draft, err := worker.redis.getDraft(task)
	if err != nil {
		task.cctaLogger.Err(err).Caller().Msg("Could not load report draft")
		return fmt.Errorf("failed to load draft: %w", err)
	}
	request := pipeline.Request{
		Tid:    task.reportID,
		Report: draft.Report,
	}
	resp, err := worker.ppln(request)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	workbook, err := export.Workbook(resp.Report)
	if err != nil {
		task.cctaLogger.Err(err).Msg("Could not export workbook")
		return fmt.Errorf("export workbook: %w", err)
	}
	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	task.cctaLogger.Info().Msg("Finished pipeline, saving archive to s3")
	files := []archiveFile{
		{key: workbookKey(task.reportID), contentType: export.ContentType, data: workbook},
		{key: archiveKey(task.reportID, ReportFileName), contentType: ReportContentType, data: body},
	}
	keys := make([]string, 0, len(files))
	for _, file := range files {
		if err = worker.s3.saveArchiveFile(task, file); err != nil {
			task.cctaLogger.Err(err).Str("key", file.key).Msg("Got error while trying to save archive file")
			return err
		}
		keys = append(keys, file.key)
	}
	task.result.archiveKeys = keys
	task.result.riskLevel = resp.Report.RiskLevel

	url, err := worker.s3.archiveLink(workbookKey(task.reportID), worker.config.ArchiveLinkTTL)
	if err != nil {
		// archive is already stored, complete without a link
		task.cctaLogger.Warn().Err(err).Msg("Could not sign workbook link")
		return nil
	}
	task.result.downloadURL = url
	return nil
}

func (worker *Worker) shouldPerformTask(task *Task) (bool, error) {
	job := task.job
	taskLogger := task.cctaLogger

	if job.Status == tasks.TaskStatusCanceled {
		taskLogger.Info().Msg("Job was canceled, no need to perform this task. Sending completion.")
		return false, nil
	}
	if job.Status.Complete() {
		taskLogger.Info().Msg("Task is already done. (might indicate issue acking message with RMQ). Sending completion.")
		return false, nil
	}
	if job.Attempts >= worker.config.TaskMaxRetries {
		taskLogger.Info().Msg("Report task has exceeded retries. Sending completion.")
		task.result.status = tasks.TaskStatusCompletedFailure
		err := worker.redis.onTaskExceededRetries(task, worker.config.TaskMaxRetries)
		return false, err
	}
	return true, nil
}
