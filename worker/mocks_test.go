package worker

import (
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/pipeline"
	"cctareport.com/engine/tasks"
	"cctareport.com/engine/types"
	"errors"
	"github.com/rs/zerolog"
	"github.com/streadway/amqp"
	"time"
)

type failingMethod struct {
	fail bool
}

type withValue struct {
	fail          bool
	returnedValue interface{}
}

type pipelineMock struct {
	ppln   pipeline.Pipeline
	config pipelineMockConfig
	calls  pipelineCall
}

type pipelineMockConfig struct {
	fail  bool
	panics bool
}

type pipelineCall struct {
	pipeline bool
}

type redisMock struct {
	config redisMockConfig
	calls  redisMockCalls
	// completed holds the task passed to onTaskComplete
	completed *Task
}

type redisMockConfig struct {
	getJob                withValue
	getDraft              withValue
	onTaskStarted         failingMethod
	onTaskExceededRetries failingMethod
	onTaskFailedWithError failingMethod
	onTaskComplete        failingMethod
}

type redisMockCalls struct {
	getJob                bool
	getDraft              bool
	onTaskStarted         bool
	onTaskExceededRetries bool
	onTaskFailedWithError bool
	onTaskComplete        bool
}

type rmqMock struct {
	config rmqMockConfig
	calls  rmqMockCalls
	sent   []Message
}

type rmqMockConfig struct {
	notifyCompletion    failingMethod
	acknowledgeDelivery failingMethod
}

type rmqMockCalls struct {
	notifyCompletion    bool
	acknowledgeDelivery bool
	rejectDelivery      bool
}

type s3Mock struct {
	config s3MockConfig
	calls  s3MockCalls
	saved  []archiveFile
}

type s3MockConfig struct {
	saveArchiveFile failingMethod
	archiveLink     failingMethod
}

type s3MockCalls struct {
	saveArchiveFile bool
	archiveLink     bool
}

func (mock *s3Mock) close() {}

func (mock *rmqMock) close() {}

func (mock *redisMock) close() {}

func getPipelineMock(config pipelineMockConfig) *pipelineMock {
	mock := pipelineMock{config: config}
	mock.ppln = func(request pipeline.Request) (pipeline.Response, error) {
		mock.calls.pipeline = true
		if mock.config.panics {
			panic("pipeline exploded")
		}
		if mock.config.fail {
			return pipeline.Response{}, errors.New("pipeline failed")
		}
		request.Report.RiskLevel = types.RiskWarning
		return pipeline.Response{Tid: request.Tid, Report: request.Report}, nil
	}
	return &mock
}

func (mock *redisMock) getJob(reportID string) (*tasks.ReportJob, error) {
	mock.calls.getJob = true
	if mock.config.getJob.fail {
		return nil, errors.New("failed to get report job")
	}
	switch mock.config.getJob.returnedValue.(type) {
	case tasks.ReportJob:
		job := mock.config.getJob.returnedValue.(tasks.ReportJob)
		return &job, nil
	default:
		return &tasks.ReportJob{ReportID: reportID, Status: tasks.TaskStatusSubmitted}, nil
	}
}

func (mock *redisMock) getDraft(task *Task) (*drafts.Draft, error) {
	mock.calls.getDraft = true
	if mock.config.getDraft.fail {
		return nil, drafts.ErrNotFound
	}
	switch mock.config.getDraft.returnedValue.(type) {
	case drafts.Draft:
		draft := mock.config.getDraft.returnedValue.(drafts.Draft)
		return &draft, nil
	default:
		return &drafts.Draft{Report: types.NewReport()}, nil
	}
}

func (mock *redisMock) onTaskStarted(task *Task) error {
	mock.calls.onTaskStarted = true
	if mock.config.onTaskStarted.fail {
		return errors.New("failed to update report job on start")
	}
	return nil
}

func (mock *redisMock) onTaskExceededRetries(task *Task, maxRetries int) error {
	mock.calls.onTaskExceededRetries = true
	if mock.config.onTaskExceededRetries.fail {
		return errors.New("failed to update report job on exceeded retries")
	}
	return nil
}

func (mock *redisMock) onTaskFailedWithError(task *Task, err error) error {
	mock.calls.onTaskFailedWithError = true
	if mock.config.onTaskFailedWithError.fail {
		return errors.New("failed to update report job on fail with error")
	}
	return nil
}

func (mock *redisMock) onTaskComplete(task *Task) error {
	mock.calls.onTaskComplete = true
	mock.completed = task
	if mock.config.onTaskComplete.fail {
		return errors.New("failed to update report job on complete")
	}
	return nil
}

func (mock *rmqMock) rejectDelivery(delivery *amqp.Delivery, cctaLogger *zerolog.Logger) {
	mock.calls.rejectDelivery = true
}

func (mock *rmqMock) getDeliveriesCh() <-chan amqp.Delivery {
	return nil
}

func (mock *rmqMock) getReqChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) getRespChanErrorsCh() <-chan *amqp.Error {
	return nil
}

func (mock *rmqMock) notifyCompletion(task *Task, message Message) error {
	mock.calls.notifyCompletion = true
	if mock.config.notifyCompletion.fail {
		return errors.New("failed to notify completion")
	}
	mock.sent = append(mock.sent, message)
	return nil
}

func (mock *rmqMock) acknowledgeDelivery(delivery *amqp.Delivery) error {
	mock.calls.acknowledgeDelivery = true
	if mock.config.acknowledgeDelivery.fail {
		return errors.New("failed to acknowledge delivery")
	}
	return nil
}

func (mock *s3Mock) saveArchiveFile(task *Task, file archiveFile) error {
	mock.calls.saveArchiveFile = true
	if mock.config.saveArchiveFile.fail {
		return errors.New("failed to upload archive file")
	}
	mock.saved = append(mock.saved, file)
	return nil
}

func (mock *s3Mock) archiveLink(key string, ttl time.Duration) (string, error) {
	mock.calls.archiveLink = true
	if mock.config.archiveLink.fail {
		return "", errors.New("failed to sign link")
	}
	return "https://archive.local/" + key, nil
}
