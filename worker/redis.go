package worker

import (
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/redis"
	"cctareport.com/engine/tasks"
	"errors"
	"fmt"
	"time"
)

type redisTransactions interface {
	getJob(reportID string) (*tasks.ReportJob, error)
	getDraft(task *Task) (*drafts.Draft, error)
	onTaskStarted(task *Task) error
	onTaskExceededRetries(task *Task, maxRetries int) error
	onTaskFailedWithError(task *Task, err error) error
	onTaskComplete(task *Task) error
	close()
}

type redisClientWrapper struct {
	tasksClient  *tasks.Client
	draftsClient redis.Client
	drafts       drafts.Store
}

func (wrapper *redisClientWrapper) close() {
	wrapper.tasksClient.Close()
	_ = wrapper.draftsClient.Close()
}

func (wrapper *redisClientWrapper) onTaskStarted(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(task.reportID, func(job *tasks.ReportJob) {
		job.Status = tasks.TaskStatusStarted
		job.Attempts += 1
		job.StartedAt = tasks.Timestamp(time.Now())
		job.CompletedAt = nil
	})
}

func (wrapper *redisClientWrapper) onTaskExceededRetries(task *Task, maxRetries int) error {
	return wrapper.tasksClient.Jobs.Update(task.reportID, func(job *tasks.ReportJob) {
		job.Status = tasks.TaskStatusCompletedFailure
		job.CompletedAt = tasks.Timestamp(time.Now())
		job.ErrorMessages = append(
			job.ErrorMessages,
			fmt.Sprintf(
				"Task has exceeded retries. (Attempts: %d, max retries: %d )",
				job.Attempts,
				maxRetries,
			),
		)
	})
}

func (wrapper *redisClientWrapper) onTaskFailedWithError(task *Task, err error) error {
	return wrapper.tasksClient.Jobs.Update(task.reportID, func(job *tasks.ReportJob) {
		job.Status = tasks.TaskStatusFailed
		job.CompletedAt = tasks.Timestamp(time.Now())
		job.ErrorMessages = append(job.ErrorMessages, err.Error())
	})
}

func (wrapper *redisClientWrapper) onTaskComplete(task *Task) error {
	return wrapper.tasksClient.Jobs.Update(task.reportID, func(job *tasks.ReportJob) {
		if !job.Status.Complete() {
			job.Status = tasks.TaskStatusCompletedSuccess
		}
		job.CompletedAt = tasks.Timestamp(time.Now())
		job.ArchiveKeys = task.result.archiveKeys
		job.RiskLevel = task.result.riskLevel
	})
}

// getJob returns the stored job, submitting a new one for unknown reports.
func (wrapper *redisClientWrapper) getJob(reportID string) (*tasks.ReportJob, error) {
	job, err := wrapper.tasksClient.Jobs.Get(reportID)
	if errors.Is(err, tasks.ErrJobNotFound) {
		return wrapper.tasksClient.Jobs.Submit(reportID)
	}
	return job, err
}

// Drafts are stored under the report id.
func (wrapper *redisClientWrapper) getDraft(task *Task) (*drafts.Draft, error) {
	draft, err := wrapper.drafts.Load(task.reportID)
	if err != nil {
		return nil, err
	}
	return &draft, nil
}
