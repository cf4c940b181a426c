package kb_test

import (
	"context"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// MockIndex implements index.VectorIndex
type MockIndex struct {
	// Control fields to simulate different behaviors
	OnInsert func(ctx context.Context, chunks []kbModel.Chunk) error
	OnQuery  func(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error)
	OnRemove func(ctx context.Context, docID string) error

	Inserted [][]kbModel.Chunk
	Removed  []string
	LastK    int
}

func (m *MockIndex) Insert(ctx context.Context, chunks []kbModel.Chunk) error {
	if m.OnInsert != nil {
		if err := m.OnInsert(ctx, chunks); err != nil {
			return err
		}
	}
	m.Inserted = append(m.Inserted, chunks)
	return nil
}

func (m *MockIndex) Query(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error) {
	m.LastK = k
	if m.OnQuery != nil {
		return m.OnQuery(ctx, text, k)
	}
	return []kbModel.ScoredChunk{}, nil
}

func (m *MockIndex) Remove(ctx context.Context, docID string) error {
	if m.OnRemove != nil {
		if err := m.OnRemove(ctx, docID); err != nil {
			return err
		}
	}
	m.Removed = append(m.Removed, docID)
	return nil
}
