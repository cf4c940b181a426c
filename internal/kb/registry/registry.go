package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var logger = logger_i.NewLogger("Registry ")

// Registry tracks provenance for every ingested document in one JSON file
// keyed by docId. Every mutation rewrites the file atomically; the mutex
// serializes mutations while reads stay concurrent.
type Registry struct {
	path    string
	mu      sync.RWMutex
	records map[string]kbModel.DocumentRecord
}

// Load reads the metadata file. A missing or corrupt file yields an empty
// registry, never an error. Records still marked pending were interrupted
// mid-ingest and are rolled back.
func Load(path string) *Registry {
	r := &Registry{
		path:    path,
		records: make(map[string]kbModel.DocumentRecord),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("Failed reading metadata file, starting fresh", "path", path, "error", err)
		}
		return r
	}
	if err := json.Unmarshal(data, &r.records); err != nil {
		logger.Error("Corrupt metadata file, starting fresh", "path", path, "error", err)
		r.records = make(map[string]kbModel.DocumentRecord)
		return r
	}

	rolledBack := 0
	for id, rec := range r.records {
		if rec.Status == kbModel.RecordPending {
			delete(r.records, id)
			rolledBack++
		}
	}
	if rolledBack > 0 {
		logger.Info("Rolled back interrupted ingests", "count", rolledBack)
		if err := r.persist(); err != nil {
			logger.Error("Failed persisting rollback", "error", err)
		}
	}
	return r
}

// Add stores a record under docId and persists. The caller decides the
// status; ingestion writes pending first and commits after indexing.
func (r *Registry) Add(docID string, rec kbModel.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[docID] = rec
	return r.persist()
}

// Commit flips a pending record to committed and persists.
func (r *Registry) Commit(docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[docID]
	if !ok {
		return fmt.Errorf("%w: no record for doc %s", kbModel.ErrPersistence, docID)
	}
	rec.Status = kbModel.RecordCommitted
	r.records[docID] = rec
	return r.persist()
}

// Get returns the record for docId.
func (r *Registry) Get(docID string) (kbModel.DocumentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[docID]
	return rec, ok
}

// List returns all committed records ordered by docId. DocIds are
// timestamp-derived so this is insertion order.
func (r *Registry) List() []kbModel.DocumentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]kbModel.DocumentInfo, 0, len(r.records))
	for id, rec := range r.records {
		if rec.Status != kbModel.RecordCommitted {
			continue
		}
		infos = append(infos, kbModel.DocumentInfo{DocID: id, DocumentRecord: rec})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].DocID < infos[j].DocID })
	return infos
}

// Remove deletes the record and persists. Returns false when the docId is
// unknown, which is not an error.
func (r *Registry) Remove(docID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[docID]; !ok {
		return false
	}
	delete(r.records, docID)
	if err := r.persist(); err != nil {
		logger.Error("Failed persisting removal", "docId", docID, "error", err)
	}
	return true
}

// Stats aggregates over committed records. LastUpdated is nil when the
// registry is empty.
func (r *Registry) Stats() kbModel.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats kbModel.Stats
	for _, rec := range r.records {
		if rec.Status != kbModel.RecordCommitted {
			continue
		}
		stats.TotalDocuments++
		stats.TotalChunks += rec.ChunkCount
		if stats.LastUpdated == nil || rec.AddedTime.After(*stats.LastUpdated) {
			t := rec.AddedTime
			stats.LastUpdated = &t
		}
	}
	return stats
}

// persist rewrites the whole file via tmp+rename. Callers hold the write
// lock.
func (r *Registry) persist() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("%w: %v", kbModel.ErrPersistence, err)
	}
	return nil
}
