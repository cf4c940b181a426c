package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type IngestResult struct {
	DocId      string `json:"doc_id"`
	FileName   string `json:"file_name"`
	ChunkCount int    `json:"chunk_count"`
}

type Result struct {
	Status       string        `json:"status"`
	IngestResult *IngestResult `json:"ingest_result,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

type SearchHit struct {
	Content  string            `json:"content"`
	Score    float32           `json:"score"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

type DocumentResponse struct {
	DocId          string         `json:"doc_id"`
	FilePath       string         `json:"file_path"`
	AddedTime      time.Time      `json:"added_time"`
	ChunkCount     int            `json:"chunk_count"`
	CustomMetadata map[string]any `json:"custom_metadata,omitempty"`
}

type DocumentListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type StatsResponse struct {
	TotalDocuments int        `json:"total_documents"`
	TotalChunks    int        `json:"total_chunks"`
	LastUpdated    *time.Time `json:"last_updated,omitempty"`
}

type DeleteResponse struct {
	DocId   string `json:"doc_id"`
	Removed bool   `json:"removed"`
}

// requests---------------------

type SearchRequest struct {
	Query  string            `json:"query" validate:"required"`
	TopK   int               `json:"top_k,omitempty"`
	Filter map[string]string `json:"filter,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
