package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/GoKB/internal/adapter/utils"
	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/domain/jobModel"
	"github.com/akolanti/GoKB/internal/job"
	"github.com/akolanti/GoKB/internal/kb"
	"github.com/akolanti/GoKB/internal/metrics"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service   *job.Service
	kbService kb.Service
}

func InitJobHandler(jobService *job.Service, kbService kb.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, kbService: kbService}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func newJobId() string {
	return utils.GetNewUUID()
}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new ingest job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.CurrentStep = jobModel.IngestInit
	_job.JobPayload.IngestFileName = newJob.documentName
	_job.JobPayload.IngestPath = newJob.documentSource
	_job.JobPayload.CustomMetadata = newJob.customMetadata

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //this is a blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//ingestion involves batch embedding calls which take time - external system call
	//so every ingest job signals the dispatcher, idle workers retire on their own
	//this keeps 1 worker running at most times therefore cutting resource spend
	atomic.AddInt64(&h.service.RequestCount, 1)
	metrics.StartDispatcherSignalCount() //metrics
	h.service.DispatcherChannel <- true
}
