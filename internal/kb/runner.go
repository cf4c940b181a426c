package kb

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/domain/jobModel"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/metrics"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

// Runner is what the worker pool calls. It adapts queued jobs onto the
// facade so the worker stays decoupled from knowledge base internals.
type Runner interface {
	IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job
}

type runner struct {
	kb     Service
	logger *logger_i.Logger
}

func NewRunner(kb Service) Runner {
	return &runner{
		kb:     kb,
		logger: logger_i.NewLogger("Ingest Runner :"),
	}
}

func (r *runner) IngestDocument(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	inMethodLogger := r.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)
	inMethodLogger.Debug("Processing ingest job", "file", job.JobPayload.IngestFileName)

	job.CurrentStep = jobModel.IngestLoading
	docID, err := r.kb.AddDocument(ctx, job.JobPayload.IngestPath, "", job.JobPayload.CustomMetadata)
	if err != nil {
		return r.jobError(job, err, "INGESTION_FAILURE")
	}

	job.JobPayload.DocID = docID
	if rec, ok := r.kb.GetDocumentInfo(docID); ok {
		job.JobPayload.ChunkCount = rec.ChunkCount
	}

	// the upload was spooled to a temp file, done with it now
	if err := os.Remove(job.JobPayload.IngestPath); err != nil {
		inMethodLogger.Error("Error removing uploaded file", "error", err)
	}

	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}

func (r *runner) jobError(job jobModel.Job, err error, message string) jobModel.Job {
	r.logger.Error(message, "error", err)

	job.Error = jobModel.JobError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
		Retry:   retryable(err),
	}
	job.CurrentStep = jobModel.Error
	job.Status = jobModel.JobStatusError
	return job
}

// retryable reports whether re-running the job could help. Bad input and
// configuration mismatches will fail the same way every time.
func retryable(err error) bool {
	switch {
	case errors.Is(err, kbModel.ErrFileNotFound),
		errors.Is(err, kbModel.ErrUnsupportedFormat),
		errors.Is(err, kbModel.ErrIndexConfig):
		return false
	}
	return true
}
