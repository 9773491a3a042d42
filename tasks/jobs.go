package tasks

import (
	"cctareport.com/engine/redis"
	"cctareport.com/engine/types"
	"errors"
	"fmt"
	"time"
)

const JobsDB redis.DB = 1

var ErrJobNotFound = errors.New("report job not found")

type TaskStatus string

const (
	TaskStatusSubmitted        TaskStatus = "submitted"
	TaskStatusStarted          TaskStatus = "started"
	TaskStatusFailed           TaskStatus = "failed"
	TaskStatusCompletedSuccess TaskStatus = "completed - success"
	TaskStatusCompletedFailure TaskStatus = "completed - failure"
	TaskStatusCanceled         TaskStatus = "canceled"
)

func (s TaskStatus) Complete() bool {
	return s == TaskStatusCompletedSuccess || s == TaskStatusCompletedFailure || s == TaskStatusCanceled
}

func (s TaskStatus) Submitted() bool {
	return s == TaskStatusSubmitted || s == TaskStatusStarted
}

// ReportJob tracks one report generation request. Other services may add
// their own fields to the stored document; updates keep them.
type ReportJob struct {
	ReportID      string          `json:"report_id"`
	Status        TaskStatus      `json:"status"`
	Attempts      int             `json:"attempts"`
	StartedAt     *string         `json:"started_at"`
	CompletedAt   *string         `json:"completed_at"`
	ArchiveKeys   []string        `json:"archive_keys"`
	RiskLevel     types.RiskLevel `json:"risk_level,omitempty"`
	ErrorMessages []string        `json:"error_messages"`
}

func jobKey(reportID string) string {
	return fmt.Sprintf("report-job:%s", reportID)
}

func Timestamp(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type JobTasks struct {
	client redis.Client
}

func NewJobTasks(client redis.Client) JobTasks {
	return JobTasks{client: client}
}

// Submit registers a job, replacing any earlier job for the same report.
func (tasks JobTasks) Submit(reportID string) (*ReportJob, error) {
	job := ReportJob{ReportID: reportID, Status: TaskStatusSubmitted}
	if err := tasks.client.SaveDoc(jobKey(reportID), &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (tasks JobTasks) Get(reportID string) (*ReportJob, error) {
	var job ReportJob
	err := tasks.client.GetDocument(jobKey(reportID), &job)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Update runs updateFunc on the stored job under the job lock. A job that
// was never submitted is created first.
func (tasks JobTasks) Update(reportID string, updateFunc func(job *ReportJob)) error {
	var job ReportJob
	err := tasks.client.UpdateDocument(jobKey(reportID), &job, func() error {
		updateFunc(&job)
		return nil
	})
	if !errors.Is(err, redis.ErrNotFound) {
		return err
	}
	if _, err := tasks.Submit(reportID); err != nil {
		return err
	}
	return tasks.client.UpdateDocument(jobKey(reportID), &job, func() error {
		updateFunc(&job)
		return nil
	})
}
