package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

func sampleChunks() []kbModel.Chunk {
	return []kbModel.Chunk{
		{Content: "Paris is the capital of France.", Metadata: map[string]string{"source": "facts.txt", "chunk": "0"}},
		{Content: "Berlin is the capital of Germany.", Metadata: map[string]string{"source": "facts.txt", "chunk": "1"}},
	}
}

func TestCache_PutThenGet(t *testing.T) {
	c := New(t.TempDir())
	day := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	c.Put("facts", day, sampleChunks())
	got, ok := c.Get("facts", day)
	if !ok {
		t.Fatal("Expected cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(got))
	}
	if got[0].Content != "Paris is the capital of France." || got[0].Metadata["chunk"] != "0" {
		t.Errorf("Chunk order or content changed: %+v", got[0])
	}
}

func TestCache_MissOnDifferentDay(t *testing.T) {
	c := New(t.TempDir())
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	c.Put("facts", day, sampleChunks())
	if _, ok := c.Get("facts", day.AddDate(0, 0, 1)); ok {
		t.Error("Entry for a different day should be a miss")
	}
	if _, ok := c.Get("other", day); ok {
		t.Error("Entry for a different stem should be a miss")
	}
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	path := filepath.Join(dir, "facts_20260830.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed writing corrupt entry: %v", err)
	}

	if _, ok := c.Get("facts", day); ok {
		t.Error("Corrupt entry should be a miss, not an error")
	}
}

func TestCache_PutIsIdempotent(t *testing.T) {
	c := New(t.TempDir())
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	c.Put("facts", day, sampleChunks())
	c.Put("facts", day, sampleChunks())

	got, ok := c.Get("facts", day)
	if !ok || len(got) != 2 {
		t.Fatalf("Repeated Put broke the entry: ok=%v len=%d", ok, len(got))
	}
}

func TestCache_EvictOlderThan(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	day := time.Now()

	c.Put("fresh", day, sampleChunks())
	c.Put("stale", day, sampleChunks())

	stalePath := filepath.Join(dir, "stale_"+day.Format("20060102")+".json")
	old := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(stalePath, old, old); err != nil {
		t.Fatalf("Failed backdating entry: %v", err)
	}

	if pruned := c.EvictOlderThan(7); pruned != 1 {
		t.Errorf("Expected 1 pruned entry, got %d", pruned)
	}
	if _, ok := c.Get("fresh", day); !ok {
		t.Error("Fresh entry should survive eviction")
	}
	if _, ok := c.Get("stale", day); ok {
		t.Error("Stale entry should be gone")
	}
}
