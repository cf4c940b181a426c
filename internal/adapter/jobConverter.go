package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/GoKB/internal/api"
	"github.com/akolanti/GoKB/internal/domain/jobModel"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:       string(job.Status),
		IngestResult: ToIngestResult(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToIngestResult(payload jobModel.JobPayload) *api.IngestResult {
	if payload.DocID == "" {
		return nil
	}

	return &api.IngestResult{
		DocId:      payload.DocID,
		FileName:   payload.IngestFileName,
		ChunkCount: payload.ChunkCount,
	}
}

func ToSearchResponse(query string, results []kbModel.ScoredChunk) api.SearchResponse {
	hits := make([]api.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, api.SearchHit{
			Content:  r.Chunk.Content,
			Score:    r.Score,
			Metadata: r.Chunk.Metadata,
		})
	}
	return api.SearchResponse{Query: query, Results: hits}
}

func ToDocumentResponse(info kbModel.DocumentInfo) api.DocumentResponse {
	return api.DocumentResponse{
		DocId:          info.DocID,
		FilePath:       info.FilePath,
		AddedTime:      info.AddedTime,
		ChunkCount:     info.ChunkCount,
		CustomMetadata: info.CustomMetadata,
	}
}

func ToDocumentListResponse(infos []kbModel.DocumentInfo) api.DocumentListResponse {
	docs := make([]api.DocumentResponse, 0, len(infos))
	for _, info := range infos {
		docs = append(docs, ToDocumentResponse(info))
	}
	return api.DocumentListResponse{Documents: docs, Total: len(docs)}
}

func ToStatsResponse(stats kbModel.Stats) api.StatsResponse {
	return api.StatsResponse{
		TotalDocuments: stats.TotalDocuments,
		TotalChunks:    stats.TotalChunks,
		LastUpdated:    stats.LastUpdated,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
