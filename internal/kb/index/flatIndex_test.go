package index

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

type mockEmbedder struct {
	modelName  string
	vectors    map[string][]float32
	batchErr   error
	batchCalls int
}

func (m *mockEmbedder) Model() string { return m.modelName }

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	return m.vectors[query], nil
}

func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = m.vectors[c]
	}
	return out, nil
}

func newMock() *mockEmbedder {
	return &mockEmbedder{
		modelName: "mock-model",
		vectors: map[string][]float32{
			"Paris is the capital of France.": {1, 0},
			"Berlin is the capital of Germany.": {0, 1},
			"capital of France":               {0.9, 0.1},
		},
	}
}

func chunkFor(content string, docID string) kbModel.Chunk {
	return kbModel.Chunk{
		Content:  content,
		Metadata: map[string]string{"doc_id": docID, "source": "facts.txt"},
	}
}

func TestFlatIndex_QueryRanksByCosine(t *testing.T) {
	idx, err := NewFlatIndex(t.TempDir(), 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	ctx := context.Background()
	chunks := []kbModel.Chunk{
		chunkFor("Paris is the capital of France.", "1"),
		chunkFor("Berlin is the capital of Germany.", "1"),
	}
	if err := idx.Insert(ctx, chunks); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	results, err := idx.Query(ctx, "capital of France", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Chunk.Content != "Paris is the capital of France." {
		t.Errorf("Wrong nearest chunk: %q", results[0].Chunk.Content)
	}
	if results[0].Score <= 0 {
		t.Errorf("Expected positive similarity, got %f", results[0].Score)
	}
}

func TestFlatIndex_EmptyIndexReturnsEmpty(t *testing.T) {
	idx, err := NewFlatIndex(t.TempDir(), 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	results, err := idx.Query(context.Background(), "anything", 4)
	if err != nil {
		t.Fatalf("Query on empty index should not fail: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected empty result set, got %d", len(results))
	}
}

func TestFlatIndex_RejectsNonPositiveK(t *testing.T) {
	idx, err := NewFlatIndex(t.TempDir(), 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	if _, err := idx.Query(context.Background(), "anything", 0); err == nil {
		t.Error("k=0 should be rejected")
	}
	if _, err := idx.Query(context.Background(), "anything", -3); err == nil {
		t.Error("negative k should be rejected")
	}
}

func TestFlatIndex_EmbeddingFailureLeavesNoPartialState(t *testing.T) {
	mock := newMock()
	idx, err := NewFlatIndex(t.TempDir(), 2, mock)
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	ctx := context.Background()
	mock.batchErr = kbModel.ErrEmbedding
	err = idx.Insert(ctx, []kbModel.Chunk{chunkFor("Paris is the capital of France.", "1")})
	if !errors.Is(err, kbModel.ErrEmbedding) {
		t.Fatalf("Expected embedding error, got %v", err)
	}

	mock.batchErr = nil
	results, err := idx.Query(ctx, "capital of France", 4)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Failed insert must not leave entries behind, got %d", len(results))
	}
}

func TestFlatIndex_DimensionMismatchIsConfigError(t *testing.T) {
	idx, err := NewFlatIndex(t.TempDir(), 3, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	err = idx.Insert(context.Background(), []kbModel.Chunk{chunkFor("Paris is the capital of France.", "1")})
	if !errors.Is(err, kbModel.ErrIndexConfig) {
		t.Errorf("Expected ErrIndexConfig for 2-dim vectors in a 3-dim index, got %v", err)
	}
}

func TestFlatIndex_PersistsAcrossReload(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	idx, err := NewFlatIndex(dir, 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}
	if err := idx.Insert(ctx, []kbModel.Chunk{chunkFor("Paris is the capital of France.", "1")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	reloaded, err := NewFlatIndex(dir, 2, newMock())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	results, err := reloaded.Query(ctx, "capital of France", 4)
	if err != nil {
		t.Fatalf("Query after reload failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Metadata["source"] != "facts.txt" {
		t.Errorf("Reloaded index lost data: %+v", results)
	}
}

func TestFlatIndex_ReloadWithDifferentModelFails(t *testing.T) {
	dir := t.TempDir()

	idx, err := NewFlatIndex(dir, 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}
	if err := idx.Insert(context.Background(), []kbModel.Chunk{chunkFor("Paris is the capital of France.", "1")}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	other := newMock()
	other.modelName = "other-model"
	if _, err := NewFlatIndex(dir, 2, other); !errors.Is(err, kbModel.ErrIndexConfig) {
		t.Errorf("Expected ErrIndexConfig on model change, got %v", err)
	}
}

func TestFlatIndex_RemoveByDocID(t *testing.T) {
	idx, err := NewFlatIndex(t.TempDir(), 2, newMock())
	if err != nil {
		t.Fatalf("NewFlatIndex failed: %v", err)
	}

	ctx := context.Background()
	idx.Insert(ctx, []kbModel.Chunk{
		chunkFor("Paris is the capital of France.", "1"),
		chunkFor("Berlin is the capital of Germany.", "2"),
	})

	if err := idx.Remove(ctx, "1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	results, err := idx.Query(ctx, "capital of France", 4)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(results) != 1 || results[0].Chunk.Metadata["doc_id"] != "2" {
		t.Errorf("Remove should only drop doc 1: %+v", results)
	}

	// removing an unknown doc is a no-op
	if err := idx.Remove(ctx, "ghost"); err != nil {
		t.Errorf("Removing unknown doc should not fail: %v", err)
	}
}
