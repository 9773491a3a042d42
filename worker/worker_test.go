package worker

import (
	"cctareport.com/engine/drafts"
	"cctareport.com/engine/export"
	"cctareport.com/engine/logger"
	"cctareport.com/engine/pipeline"
	"cctareport.com/engine/tasks"
	"cctareport.com/engine/types"
	"encoding/json"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"reflect"
	"testing"
	"time"
)

type mockedClientsConfig struct {
	rmqMockConfig
	redisMockConfig
	s3MockConfig
	pipelineMockConfig
}

type mockedClients struct {
	redis    *redisMock
	rmq      *rmqMock
	s3       *s3Mock
	pipeline *pipelineMock
}

type methodsCalls struct {
	redis    redisMockCalls
	rmq      rmqMockCalls
	s3       s3MockCalls
	pipeline pipelineCall
}

const testMessage = `{"report_id":"r-1","sender":"intake","version":"1"}`

func testConfiguration(t *testing.T, config mockedClientsConfig, expectedCalls methodsCalls) *mockedClients {
	worker, mocks := configureWorker(config)
	worker.processMessage(&amqp.Delivery{
		Body: []byte(testMessage),
	})
	calls := methodsCalls{
		redis:    mocks.redis.calls,
		rmq:      mocks.rmq.calls,
		s3:       mocks.s3.calls,
		pipeline: mocks.pipeline.calls,
	}
	if !reflect.DeepEqual(calls, expectedCalls) {
		t.Errorf("Got unexpected called methods set.\nExpected:\n%+v\nGot:\n%+v", expectedCalls, calls)
	}
	return mocks
}

func configureWorker(config mockedClientsConfig) (*Worker, *mockedClients) {
	redis := &redisMock{config: config.redisMockConfig}
	s3 := &s3Mock{config: config.s3MockConfig}
	rmq := &rmqMock{config: config.rmqMockConfig}
	pplnMock := getPipelineMock(config.pipelineMockConfig)

	cctaLogger := logger.NewLogger("Test Worker")

	return &Worker{
			config:     Config{TaskMaxRetries: 3, ArchiveLinkTTL: time.Hour},
			redis:      redis,
			s3:         s3,
			rmq:        rmq,
			cctaLogger: &cctaLogger,
			ppln:       pplnMock.ppln,
		}, &mockedClients{
			redis:    redis,
			rmq:      rmq,
			s3:       s3,
			pipeline: pplnMock,
		}
}

var (
	successfulRedisCalls = redisMockCalls{getJob: true, getDraft: true, onTaskStarted: true, onTaskComplete: true}
	successfulS3Calls    = s3MockCalls{saveArchiveFile: true, archiveLink: true}
	failedRedisCalls     = redisMockCalls{getJob: true, getDraft: true, onTaskStarted: true, onTaskFailedWithError: true}
	completedRMQCalls    = rmqMockCalls{notifyCompletion: true, acknowledgeDelivery: true}
)

func TestWorker(t *testing.T) {
	t.Run("Successful", testSuccessfulTask)
	t.Run("Message without report id", testMessageWithoutReportID)
	t.Run("Failed to get report job", testGetJobFailed)
	t.Run("Already complete with success", testAlreadyCompleted)
	t.Run("Canceled", testCanceled)
	t.Run("Exceeded attempts", testExceededAttempts)
	t.Run("Failed to update job in onTaskStarted", testFailedToUpdateOnTaskStarted)
	t.Run("Draft not found", testDraftNotFound)
	t.Run("Failed due to pipeline error", testPipelineError)
	t.Run("Recovered from pipeline panic", testPipelinePanic)
	t.Run("Failed to update job in onTaskFailedWithError", testFailedToUpdateOnTaskFailedWithError)
	t.Run("Failed to update job in onTaskComplete", testFailedToUpdateOnTaskComplete)
	t.Run("Failed to save archive to S3", testFailedToSaveToS3)
	t.Run("Failed to sign archive link", testFailedArchiveLink)
	t.Run("Failed to acknowledge delivery", testFailedAckDelivery)
	t.Run("Failed to notify completion", testFailedNotifyCompletion)
}

func testSuccessfulTask(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{},
		methodsCalls{
			redis:    successfulRedisCalls,
			rmq:      completedRMQCalls,
			s3:       successfulS3Calls,
			pipeline: pipelineCall{true},
		},
	)

	require.Len(t, mocks.s3.saved, 2)
	assert.Equal(t, "reports/r-1/CCTA_Report.xlsx", mocks.s3.saved[0].key)
	assert.Equal(t, export.ContentType, mocks.s3.saved[0].contentType)
	assert.NotEmpty(t, mocks.s3.saved[0].data)
	assert.Equal(t, "reports/r-1/report.json", mocks.s3.saved[1].key)

	require.NotNil(t, mocks.redis.completed)
	assert.Equal(t, []string{"reports/r-1/CCTA_Report.xlsx", "reports/r-1/report.json"}, mocks.redis.completed.result.archiveKeys)
	assert.Equal(t, types.RiskWarning, mocks.redis.completed.result.riskLevel)

	require.Len(t, mocks.rmq.sent, 1)
	assert.Equal(t, Message{
		ReportID:    "r-1",
		Sender:      Sender,
		Version:     "1",
		Status:      tasks.TaskStatusCompletedSuccess,
		RiskLevel:   types.RiskWarning,
		DownloadURL: "https://archive.local/reports/r-1/CCTA_Report.xlsx",
	}, mocks.rmq.sent[0])
}

func testMessageWithoutReportID(t *testing.T) {
	worker, mocks := configureWorker(mockedClientsConfig{})
	worker.processMessage(&amqp.Delivery{Body: []byte(`{"sender":"intake"}`)})
	assert.Equal(t, rmqMockCalls{rejectDelivery: true}, mocks.rmq.calls)
	assert.Equal(t, redisMockCalls{}, mocks.redis.calls)
}

func testGetJobFailed(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getJob: withValue{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{getJob: true},
			rmq:   rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testAlreadyCompleted(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJob: withValue{returnedValue: tasks.ReportJob{
					Status:    tasks.TaskStatusCompletedSuccess,
					RiskLevel: types.RiskCritical,
				}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getJob: true},
			rmq:   completedRMQCalls,
		},
	)
	require.Len(t, mocks.rmq.sent, 1)
	assert.Equal(t, tasks.TaskStatusCompletedSuccess, mocks.rmq.sent[0].Status)
	assert.Equal(t, types.RiskCritical, mocks.rmq.sent[0].RiskLevel)
}

func testCanceled(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJob: withValue{returnedValue: tasks.ReportJob{Status: tasks.TaskStatusCanceled}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getJob: true},
			rmq:   completedRMQCalls,
		},
	)
}

func testExceededAttempts(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{
				getJob: withValue{returnedValue: tasks.ReportJob{Status: tasks.TaskStatusFailed, Attempts: 3}},
			},
		},
		methodsCalls{
			redis: redisMockCalls{getJob: true, onTaskExceededRetries: true},
			rmq:   completedRMQCalls,
		},
	)
	require.Len(t, mocks.rmq.sent, 1)
	assert.Equal(t, tasks.TaskStatusCompletedFailure, mocks.rmq.sent[0].Status)
}

func testFailedToUpdateOnTaskStarted(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskStarted: failingMethod{fail: true}},
		},
		methodsCalls{
			redis: redisMockCalls{getJob: true, onTaskStarted: true},
			rmq:   rmqMockCalls{rejectDelivery: true},
		},
	)
}

func testDraftNotFound(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{getDraft: withValue{fail: true}},
		},
		methodsCalls{
			redis: failedRedisCalls,
			rmq:   completedRMQCalls,
		},
	)
	require.Len(t, mocks.rmq.sent, 1)
	assert.Equal(t, tasks.TaskStatusFailed, mocks.rmq.sent[0].Status)
}

func testPipelineError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{fail: true},
		},
		methodsCalls{
			redis:    failedRedisCalls,
			rmq:      completedRMQCalls,
			pipeline: pipelineCall{true},
		},
	)
}

func testPipelinePanic(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{panics: true},
		},
		methodsCalls{
			redis:    failedRedisCalls,
			rmq:      completedRMQCalls,
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToUpdateOnTaskFailedWithError(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			pipelineMockConfig: pipelineMockConfig{fail: true},
			redisMockConfig:    redisMockConfig{onTaskFailedWithError: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    failedRedisCalls,
			rmq:      rmqMockCalls{rejectDelivery: true},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedToUpdateOnTaskComplete(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			redisMockConfig: redisMockConfig{onTaskComplete: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    successfulRedisCalls,
			rmq:      rmqMockCalls{rejectDelivery: true},
			s3:       successfulS3Calls,
			pipeline: pipelineCall{pipeline: true},
		},
	)
}

func testFailedToSaveToS3(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{saveArchiveFile: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    failedRedisCalls,
			rmq:      completedRMQCalls,
			s3:       s3MockCalls{saveArchiveFile: true},
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedArchiveLink(t *testing.T) {
	mocks := testConfiguration(
		t,
		mockedClientsConfig{
			s3MockConfig: s3MockConfig{archiveLink: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    successfulRedisCalls,
			rmq:      completedRMQCalls,
			s3:       successfulS3Calls,
			pipeline: pipelineCall{true},
		},
	)
	require.Len(t, mocks.rmq.sent, 1)
	assert.Empty(t, mocks.rmq.sent[0].DownloadURL)
	assert.Equal(t, tasks.TaskStatusCompletedSuccess, mocks.rmq.sent[0].Status)
}

func testFailedAckDelivery(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{acknowledgeDelivery: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    successfulRedisCalls,
			rmq:      completedRMQCalls,
			s3:       successfulS3Calls,
			pipeline: pipelineCall{true},
		},
	)
}

func testFailedNotifyCompletion(t *testing.T) {
	testConfiguration(
		t,
		mockedClientsConfig{
			rmqMockConfig: rmqMockConfig{notifyCompletion: failingMethod{fail: true}},
		},
		methodsCalls{
			redis:    successfulRedisCalls,
			rmq:      rmqMockCalls{notifyCompletion: true, rejectDelivery: true},
			s3:       successfulS3Calls,
			pipeline: pipelineCall{true},
		},
	)
}

func TestWorkerWithReportPipeline(t *testing.T) {
	ppln, err := pipeline.New(pipeline.Params{})
	require.NoError(t, err)

	report := types.NewReport()
	report.CalciumScores = types.CalciumScores{LAD: 300, RCA: 200}
	worker, mocks := configureWorker(mockedClientsConfig{
		redisMockConfig: redisMockConfig{getDraft: withValue{returnedValue: drafts.Draft{Report: report}}},
	})
	worker.ppln = ppln

	worker.processMessage(&amqp.Delivery{Body: []byte(testMessage)})
	require.Len(t, mocks.s3.saved, 2)

	var resp pipeline.Response
	require.NoError(t, json.Unmarshal(mocks.s3.saved[1].data, &resp))
	assert.Equal(t, "r-1", resp.Tid)
	assert.Equal(t, types.RiskCritical, resp.Report.RiskLevel)
	assert.Contains(t, resp.Impression, "Total Coronary Artery Calcium Score: 500.")
	assert.Equal(t, types.RiskCritical, mocks.rmq.sent[0].RiskLevel)
}
