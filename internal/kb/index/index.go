package index

import (
	"context"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
)

// VectorIndex is the retrieval backend. Implementations embed with an
// injected Embedder and never own its lifecycle.
type VectorIndex interface {
	// Insert embeds and stores the chunks as one batch. On any failure
	// nothing from the batch is kept.
	Insert(ctx context.Context, chunks []kbModel.Chunk) error

	// Query returns the k nearest chunks to the text by cosine similarity,
	// best first. An empty index yields an empty slice, k <= 0 an error.
	Query(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error)

	// Remove drops every chunk whose doc_id metadata matches.
	Remove(ctx context.Context, docID string) error
}
