package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var logger = logger_i.NewLogger("ChunkCache ")

// Cache stores chunked documents as JSON files keyed by file stem and day.
// It is strictly best-effort: a broken cache never blocks ingestion, so Get
// reports a miss on any error and Put only logs failures.
type Cache struct {
	dir string
}

func New(dir string) *Cache {
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("Failed creating cache dir", "dir", dir, "error", err)
	}
	return &Cache{dir: dir}
}

func (c *Cache) path(stem string, day time.Time) string {
	name := fmt.Sprintf("%s_%s.json", filepath.Base(stem), day.Format("20060102"))
	return filepath.Join(c.dir, name)
}

// Get returns the cached chunks for the stem on the given day, or a miss.
func (c *Cache) Get(stem string, day time.Time) ([]kbModel.Chunk, bool) {
	data, err := os.ReadFile(c.path(stem, day))
	if err != nil {
		return nil, false
	}

	var chunks []kbModel.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		logger.Error("Corrupt cache entry, treating as miss", "stem", stem, "error", err)
		return nil, false
	}
	return chunks, true
}

// Put writes the chunk slice for the stem on the given day. Overwriting an
// existing entry is fine, the content is derived purely from the source file.
func (c *Cache) Put(stem string, day time.Time, chunks []kbModel.Chunk) {
	data, err := json.Marshal(chunks)
	if err != nil {
		logger.Error("Failed encoding cache entry", "stem", stem, "error", err)
		return
	}

	target := c.path(stem, day)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		logger.Error("Failed writing cache entry", "stem", stem, "error", err)
		return
	}
	if err := os.Rename(tmp, target); err != nil {
		logger.Error("Failed committing cache entry", "stem", stem, "error", err)
	}
}

// EvictOlderThan removes entries whose mtime is older than the given number
// of days and returns how many were pruned. Meant to run out-of-band.
func (c *Cache) EvictOlderThan(days int) int {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		logger.Error("Failed listing cache dir", "dir", c.dir, "error", err)
		return 0
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	pruned := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, entry.Name())); err != nil {
			logger.Error("Failed pruning cache entry", "name", entry.Name(), "error", err)
			continue
		}
		pruned++
	}
	if pruned > 0 {
		logger.Info("Pruned cache entries", "count", pruned)
	}
	return pruned
}
