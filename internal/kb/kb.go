package kb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/kb/cache"
	"github.com/akolanti/GoKB/internal/kb/index"
	"github.com/akolanti/GoKB/internal/kb/loader"
	"github.com/akolanti/GoKB/internal/kb/registry"
	"github.com/akolanti/GoKB/internal/kb/splitter"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------

1. Service (Interface):
  - This is the PUBLIC contract.
  - It defines the "behavior" (what callers can do).
  - We expose this to keep the worker and handlers decoupled from our
    specific logic.

2. service (Private Struct):
  - This is the PRIVATE implementation.
  - It holds the "state" (loader, splitter, cache, index, registry).
  - It is lowercase to prevent external packages from accessing our
    internal dependencies directly.

3. Pointer Receiver (*service):
  - By defining methods on (*service), the struct IMPLICITLY satisfies
    the Service interface.

4. Dependency Injection (NewService):
  - This constructor links the private struct to the public interface.
  - It allows us to swap the real index for mocks during testing without
    changing the callers' code.
*/

// Service is the knowledge base facade. Workers, handlers and the MCP
// surface only ever talk to this.
type Service interface {
	AddDocument(ctx context.Context, path string, typeHint string, customMetadata map[string]any) (string, error)
	Search(ctx context.Context, query string, k int, filter map[string]string) ([]kbModel.ScoredChunk, error)
	ListDocuments() []kbModel.DocumentInfo
	GetDocumentInfo(docID string) (kbModel.DocumentRecord, bool)
	GetStats() kbModel.Stats
	RemoveDocument(ctx context.Context, docID string) (bool, error)
	BatchLoad(ctx context.Context, dir string, customMetadata map[string]any) ([]string, error)
}

type service struct {
	loader   *loader.Loader
	splitter *splitter.Splitter
	cache    *cache.Cache
	registry *registry.Registry
	index    index.VectorIndex
	logger   *logger_i.Logger

	// serializes every mutation of index + registry; searches run
	// concurrently against the index's own read locks
	ingestMu sync.Mutex
}

// NewService constructor
func NewService(cfg config.KBConfig, idx index.VectorIndex) Service {
	return &service{
		loader:   loader.New(),
		splitter: splitter.New(cfg.ChunkSize, cfg.ChunkOverlap),
		cache:    cache.New(cfg.CacheDir),
		registry: registry.Load(cfg.MetadataFile),
		index:    idx,
		logger:   logger_i.NewLogger("KB Service :"),
	}
}

// AddDocument runs the full ingest pipeline for one file and returns the
// docId. The registry record is written pending before the index insert
// and committed after, so an index failure rolls back cleanly.
func (s *service) AddDocument(ctx context.Context, path string, typeHint string, customMetadata map[string]any) (string, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	inMethodLogger := s.logger.With("path", path)

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", kbModel.ErrFileNotFound, path)
	}

	chunks, err := s.resolveChunks(ctx, path, typeHint, inMethodLogger)
	if err != nil {
		return "", err
	}

	docID := kbModel.NewDocID()
	for i := range chunks {
		if chunks[i].Metadata == nil {
			chunks[i].Metadata = make(map[string]string)
		}
		chunks[i].Metadata["doc_id"] = docID
	}

	record := kbModel.DocumentRecord{
		FilePath:       path,
		AddedTime:      time.Now(),
		ChunkCount:     len(chunks),
		CustomMetadata: customMetadata,
		Status:         kbModel.RecordPending,
	}
	if err := s.registry.Add(docID, record); err != nil {
		// a broken metadata file degrades provenance, not retrieval
		inMethodLogger.Error("Failed persisting pending record", "error", err)
	}

	if err := s.indexStep(ctx, chunks); err != nil {
		s.registry.Remove(docID)
		return "", err
	}

	if err := s.registry.Commit(docID); err != nil {
		inMethodLogger.Error("Failed committing record", "docId", docID, "error", err)
	}

	inMethodLogger.Info("Document ingested", "docId", docID, "chunks", len(chunks))
	return docID, nil
}

// Search embeds the query and returns the k best chunks. The metadata
// filter is applied after ranking, so fewer than k results can come back
// for a selective filter.
func (s *service) Search(ctx context.Context, query string, k int, filter map[string]string) ([]kbModel.ScoredChunk, error) {
	if k <= 0 {
		k = config.DefaultSearchTopK
	}

	results, err := s.index.Query(ctx, query, k)
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return results, nil
	}

	filtered := make([]kbModel.ScoredChunk, 0, len(results))
	for _, r := range results {
		if matchesFilter(r.Chunk.Metadata, filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

func (s *service) ListDocuments() []kbModel.DocumentInfo {
	return s.registry.List()
}

func (s *service) GetDocumentInfo(docID string) (kbModel.DocumentRecord, bool) {
	return s.registry.Get(docID)
}

func (s *service) GetStats() kbModel.Stats {
	return s.registry.Stats()
}

// RemoveDocument drops the document's chunks from the index and its
// record from the registry. Unknown docIds report false, not an error.
func (s *service) RemoveDocument(ctx context.Context, docID string) (bool, error) {
	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	if _, ok := s.registry.Get(docID); !ok {
		return false, nil
	}
	if err := s.index.Remove(ctx, docID); err != nil {
		return false, err
	}
	s.registry.Remove(docID)
	return true, nil
}

// BatchLoad ingests every supported file directly under dir. One bad file
// is logged and skipped, the rest of the batch proceeds.
func (s *service) BatchLoad(ctx context.Context, dir string, customMetadata map[string]any) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", kbModel.ErrFileNotFound, dir)
	}

	var docIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if loader.ResolveType(path, "") == kbModel.Unknown {
			continue
		}

		docID, err := s.AddDocument(ctx, path, "", customMetadata)
		if err != nil {
			s.logger.Error("Batch load skipping file", "path", path, "error", err)
			continue
		}
		docIDs = append(docIDs, docID)
	}
	return docIDs, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func matchesFilter(metadata map[string]string, filter map[string]string) bool {
	for k, want := range filter {
		if metadata[k] != want {
			return false
		}
	}
	return true
}
