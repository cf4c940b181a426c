package kb_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/domain/jobModel"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/kb"
)

func testConfig(t *testing.T) config.KBConfig {
	t.Helper()
	return config.KBConfig{
		CacheDir:     filepath.Join(t.TempDir(), "cache"),
		MetadataFile: filepath.Join(t.TempDir(), "metadata.json"),
		ChunkSize:    config.DefaultChunkSize,
		ChunkOverlap: config.DefaultChunkOverlap,
	}
}

func writeDoc(t *testing.T, dir string, name string, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed writing test file: %v", err)
	}
	return path
}

func TestAddDocument_FullFlow(t *testing.T) {
	mIdx := &MockIndex{}
	s := kb.NewService(testConfig(t), mIdx)
	ctx := context.Background()

	path := writeDoc(t, t.TempDir(), "facts.txt", "Paris is the capital of France.")
	docID, err := s.AddDocument(ctx, path, "", map[string]any{"topic": "geography"})
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if docID == "" {
		t.Fatal("Expected a docId")
	}

	if len(mIdx.Inserted) != 1 || len(mIdx.Inserted[0]) != 1 {
		t.Fatalf("Expected one inserted batch with one chunk: %+v", mIdx.Inserted)
	}
	chunk := mIdx.Inserted[0][0]
	if chunk.Content != "Paris is the capital of France." {
		t.Errorf("Chunk content changed: %q", chunk.Content)
	}
	if chunk.Metadata["doc_id"] != docID {
		t.Errorf("Chunk should carry its docId: %+v", chunk.Metadata)
	}

	rec, ok := s.GetDocumentInfo(docID)
	if !ok {
		t.Fatal("Expected a registry record")
	}
	if rec.Status != kbModel.RecordCommitted || rec.ChunkCount != 1 {
		t.Errorf("Record not committed correctly: %+v", rec)
	}
	if rec.CustomMetadata["topic"] != "geography" {
		t.Errorf("Custom metadata lost: %+v", rec.CustomMetadata)
	}
}

func TestAddDocument_MissingFile(t *testing.T) {
	s := kb.NewService(testConfig(t), &MockIndex{})

	_, err := s.AddDocument(context.Background(), filepath.Join(t.TempDir(), "ghost.txt"), "", nil)
	if !errors.Is(err, kbModel.ErrFileNotFound) {
		t.Errorf("Expected ErrFileNotFound, got %v", err)
	}
}

func TestAddDocument_IndexFailureRollsBack(t *testing.T) {
	mIdx := &MockIndex{
		OnInsert: func(ctx context.Context, chunks []kbModel.Chunk) error {
			return kbModel.ErrEmbedding
		},
	}
	s := kb.NewService(testConfig(t), mIdx)

	path := writeDoc(t, t.TempDir(), "facts.txt", "Paris is the capital of France.")
	_, err := s.AddDocument(context.Background(), path, "", nil)
	if !errors.Is(err, kbModel.ErrEmbedding) {
		t.Fatalf("Expected embedding error, got %v", err)
	}

	if stats := s.GetStats(); stats.TotalDocuments != 0 {
		t.Errorf("Failed ingest must leave no record behind: %+v", stats)
	}
	if len(s.ListDocuments()) != 0 {
		t.Error("Failed ingest must not be listed")
	}
}

func TestAddDocument_SecondLoadSameDayUsesCache(t *testing.T) {
	mIdx := &MockIndex{}
	s := kb.NewService(testConfig(t), mIdx)
	ctx := context.Background()

	dir := t.TempDir()
	path := writeDoc(t, dir, "facts.txt", "Paris is the capital of France.")
	if _, err := s.AddDocument(ctx, path, "", nil); err != nil {
		t.Fatalf("First AddDocument failed: %v", err)
	}

	// rewrite the file; a cache hit means the old chunks get indexed
	writeDoc(t, dir, "facts.txt", "Completely different content now.")
	if _, err := s.AddDocument(ctx, path, "", nil); err != nil {
		t.Fatalf("Second AddDocument failed: %v", err)
	}

	if len(mIdx.Inserted) != 2 {
		t.Fatalf("Expected 2 inserted batches, got %d", len(mIdx.Inserted))
	}
	if got := mIdx.Inserted[1][0].Content; got != "Paris is the capital of France." {
		t.Errorf("Second ingest should serve the day's cached chunks, got %q", got)
	}
}

func TestSearch_DefaultKAndFilter(t *testing.T) {
	results := []kbModel.ScoredChunk{
		{Chunk: kbModel.Chunk{Content: "a", Metadata: map[string]string{"doc_id": "1"}}, Score: 0.9},
		{Chunk: kbModel.Chunk{Content: "b", Metadata: map[string]string{"doc_id": "2"}}, Score: 0.8},
		{Chunk: kbModel.Chunk{Content: "c", Metadata: map[string]string{"doc_id": "1"}}, Score: 0.7},
	}
	mIdx := &MockIndex{
		OnQuery: func(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error) {
			return results, nil
		},
	}
	s := kb.NewService(testConfig(t), mIdx)
	ctx := context.Background()

	got, err := s.Search(ctx, "capital", 0, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if mIdx.LastK != config.DefaultSearchTopK {
		t.Errorf("k=0 should fall back to the default, index saw k=%d", mIdx.LastK)
	}
	if len(got) != 3 {
		t.Errorf("Unfiltered search should pass results through, got %d", len(got))
	}

	got, err = s.Search(ctx, "capital", 4, map[string]string{"doc_id": "1"})
	if err != nil {
		t.Fatalf("Filtered search failed: %v", err)
	}
	if len(got) != 2 || got[0].Chunk.Content != "a" || got[1].Chunk.Content != "c" {
		t.Errorf("Filter should keep doc 1 chunks in rank order: %+v", got)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	s := kb.NewService(testConfig(t), &MockIndex{})

	got, err := s.Search(context.Background(), "anything", 4, nil)
	if err != nil {
		t.Fatalf("Search on empty index should not fail: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no results, got %d", len(got))
	}
}

func TestRemoveDocument(t *testing.T) {
	mIdx := &MockIndex{}
	s := kb.NewService(testConfig(t), mIdx)
	ctx := context.Background()

	removed, err := s.RemoveDocument(ctx, "ghost")
	if err != nil || removed {
		t.Errorf("Unknown doc should report false without error: %v %v", removed, err)
	}

	path := writeDoc(t, t.TempDir(), "facts.txt", "Paris is the capital of France.")
	docID, err := s.AddDocument(ctx, path, "", nil)
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}

	removed, err = s.RemoveDocument(ctx, docID)
	if err != nil || !removed {
		t.Fatalf("Expected removal to succeed: %v %v", removed, err)
	}
	if len(mIdx.Removed) != 1 || mIdx.Removed[0] != docID {
		t.Errorf("Index should be asked to drop the doc: %+v", mIdx.Removed)
	}
	if _, ok := s.GetDocumentInfo(docID); ok {
		t.Error("Record should be gone after removal")
	}
}

func TestGetStats_Aggregates(t *testing.T) {
	s := kb.NewService(testConfig(t), &MockIndex{})
	ctx := context.Background()
	dir := t.TempDir()

	pathA := writeDoc(t, dir, "a.txt", "Paris is the capital of France.")
	pathB := writeDoc(t, dir, "b.txt", "Berlin is the capital of Germany.")
	idA, err := s.AddDocument(ctx, pathA, "", nil)
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	idB, err := s.AddDocument(ctx, pathB, "", nil)
	if err != nil {
		t.Fatalf("AddDocument failed: %v", err)
	}
	if idA == idB {
		t.Fatal("DocIds must be unique")
	}

	recA, _ := s.GetDocumentInfo(idA)
	recB, _ := s.GetDocumentInfo(idB)

	stats := s.GetStats()
	if stats.TotalDocuments != 2 {
		t.Errorf("Expected 2 documents, got %d", stats.TotalDocuments)
	}
	if stats.TotalChunks != recA.ChunkCount+recB.ChunkCount {
		t.Errorf("Chunk total should be the sum over records: %+v", stats)
	}
	if stats.LastUpdated == nil {
		t.Error("LastUpdated should be set")
	}
}

func TestBatchLoad_PerFileIsolation(t *testing.T) {
	mIdx := &MockIndex{
		OnInsert: func(ctx context.Context, chunks []kbModel.Chunk) error {
			for _, c := range chunks {
				if c.Metadata["source"] != "" && filepath.Base(c.Metadata["source"]) == "poison.txt" {
					return kbModel.ErrEmbedding
				}
			}
			return nil
		},
	}
	s := kb.NewService(testConfig(t), mIdx)

	dir := t.TempDir()
	writeDoc(t, dir, "a.txt", "Paris is the capital of France.")
	writeDoc(t, dir, "b.md", "# Berlin\n\nBerlin is the capital of Germany.")
	writeDoc(t, dir, "poison.txt", "this one fails to embed")
	writeDoc(t, dir, "skip.bin", "unsupported format")

	docIDs, err := s.BatchLoad(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("BatchLoad failed: %v", err)
	}
	if len(docIDs) != 2 {
		t.Errorf("Expected 2 ingested docs (bad + unsupported skipped), got %d", len(docIDs))
	}

	if _, err := s.BatchLoad(context.Background(), filepath.Join(dir, "absent"), nil); err == nil {
		t.Error("Unreadable directory should fail")
	}
}

func TestRunner_IngestDocument(t *testing.T) {
	s := kb.NewService(testConfig(t), &MockIndex{})
	runner := kb.NewRunner(s)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	path := writeDoc(t, t.TempDir(), "upload.txt", "Paris is the capital of France.")
	job := jobModel.Job{
		Id: "ingest-job-1",
		JobPayload: jobModel.JobPayload{
			IngestFileName: "upload.txt",
			IngestPath:     path,
		},
	}

	result := runner.IngestDocument(ctx, job)
	if result.Status != jobModel.JobStatusComplete {
		t.Fatalf("Expected complete job, got %s (%+v)", result.Status, result.Error)
	}
	if result.JobPayload.DocID == "" || result.JobPayload.ChunkCount != 1 {
		t.Errorf("Payload should carry the ingest outcome: %+v", result.JobPayload)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Uploaded temp file should be removed after ingest")
	}
}

func TestRunner_IngestFailureMarksJob(t *testing.T) {
	s := kb.NewService(testConfig(t), &MockIndex{})
	runner := kb.NewRunner(s)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")

	job := jobModel.Job{
		Id: "ingest-job-2",
		JobPayload: jobModel.JobPayload{
			IngestFileName: "ghost.txt",
			IngestPath:     filepath.Join(t.TempDir(), "ghost.txt"),
		},
	}

	result := runner.IngestDocument(ctx, job)
	if result.Status != jobModel.JobStatusError {
		t.Fatalf("Expected error status, got %s", result.Status)
	}
	if result.Error.Retry {
		t.Error("A missing file is not retryable")
	}
}
