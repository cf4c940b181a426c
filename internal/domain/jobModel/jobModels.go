package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	IngestInit     InternalStatus = "IngestInit"
	IngestLoading  InternalStatus = "Loading"
	IngestChunking InternalStatus = "Chunking"
	IngestCacheHit InternalStatus = "CacheHit"
	IngestIndexing InternalStatus = "Indexing"
	Registered     InternalStatus = "Registered"
	Error          InternalStatus = "Error"

	Complete InternalStatus = "Complete"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	IngestFileName string         `json:"ingest_file_name,omitempty"`
	IngestPath     string         `json:"ingest_path,omitempty"`
	CustomMetadata map[string]any `json:"custom_metadata,omitempty"`

	//populated once ingestion completes
	DocID      string `json:"doc_id,omitempty"`
	ChunkCount int    `json:"chunk_count,omitempty"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
