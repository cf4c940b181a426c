package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/kb/embedding"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var flatLogger = logger_i.NewLogger("FlatIndex ")

const indexFileName = "index.json"

type indexEntry struct {
	Vector []float32     `json:"vector"`
	Chunk  kbModel.Chunk `json:"chunk"`
}

// persistedIndex is the on-disk schema. Model and dimension are part of it
// so an index built with one embedder cannot silently serve another.
type persistedIndex struct {
	Model     string       `json:"model"`
	Dimension int          `json:"dimension"`
	Entries   []indexEntry `json:"entries"`
}

// flatIndex is the default backend: everything in memory, cosine ranking
// by brute force, one JSON file on disk. Fine for the corpus sizes a
// single-process knowledge base sees.
type flatIndex struct {
	mu        sync.RWMutex
	path      string
	embedder  embedding.Embedder
	dimension int
	entries   []indexEntry
}

// NewFlatIndex loads the persisted index from persistDir, or starts empty.
// A persisted model or dimension that disagrees with the embedder is fatal.
func NewFlatIndex(persistDir string, dimension int, embedder embedding.Embedder) (VectorIndex, error) {
	if err := os.MkdirAll(persistDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}

	idx := &flatIndex{
		path:      filepath.Join(persistDir, indexFileName),
		embedder:  embedder,
		dimension: dimension,
	}

	data, err := os.ReadFile(idx.path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}

	var stored persistedIndex
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: corrupt index file: %v", kbModel.ErrPersistence, err)
	}
	if stored.Model != embedder.Model() || stored.Dimension != dimension {
		return nil, fmt.Errorf("%w: index built with %s/%d, configured %s/%d",
			kbModel.ErrIndexConfig, stored.Model, stored.Dimension, embedder.Model(), dimension)
	}

	idx.entries = stored.Entries
	flatLogger.Info("Loaded persisted index", "entries", len(idx.entries))
	return idx, nil
}

func (f *flatIndex) Insert(ctx context.Context, chunks []kbModel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := f.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", kbModel.ErrEmbedding, len(vectors), len(chunks))
	}
	for _, v := range vectors {
		if len(v) != f.dimension {
			return fmt.Errorf("%w: embedder returned dimension %d, index expects %d",
				kbModel.ErrIndexConfig, len(v), f.dimension)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	before := len(f.entries)
	for i, c := range chunks {
		f.entries = append(f.entries, indexEntry{Vector: vectors[i], Chunk: c})
	}
	if err := f.persist(); err != nil {
		// the batch is all-or-nothing, drop the appended entries
		f.entries = f.entries[:before]
		return err
	}
	return nil
}

func (f *flatIndex) Query(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}

	f.mu.RLock()
	empty := len(f.entries) == 0
	f.mu.RUnlock()
	if empty {
		return []kbModel.ScoredChunk{}, nil
	}

	queryVec, err := f.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	scored := make([]kbModel.ScoredChunk, 0, len(f.entries))
	for _, e := range f.entries {
		scored = append(scored, kbModel.ScoredChunk{
			Chunk: e.Chunk,
			Score: cosine(queryVec, e.Vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (f *flatIndex) Remove(ctx context.Context, docID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.entries[:0]
	removed := 0
	for _, e := range f.entries {
		if e.Chunk.Metadata["doc_id"] == docID {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return nil
	}
	f.entries = kept

	flatLogger.Debug("Removed chunks from index", "docId", docID, "count", removed)
	return f.persist()
}

// persist writes the whole index via tmp+rename. Callers hold the write
// lock.
func (f *flatIndex) persist() error {
	stored := persistedIndex{
		Model:     f.embedder.Model(),
		Dimension: f.dimension,
		Entries:   f.entries,
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}
	return nil
}

func cosine(a []float32, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
