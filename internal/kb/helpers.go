package kb

import (
	"context"
	"time"

	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/metrics"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

// resolveChunks returns the chunk slice for the file, from the day's cache
// when possible. Cache failures never block the pipeline.
func (s *service) resolveChunks(ctx context.Context, path string, typeHint string, log *logger_i.Logger) ([]kbModel.Chunk, error) {
	stem := stemOf(path)
	today := time.Now()

	if chunks, ok := s.cacheStep(stem, today); ok {
		log.Debug("Chunk cache hit", "stem", stem, "chunks", len(chunks))
		return chunks, nil
	}

	units, err := s.loadStep(path, typeHint)
	if err != nil {
		return nil, err
	}

	chunks := s.chunkStep(units)
	s.cache.Put(stem, today, chunks)
	return chunks, nil
}

func (s *service) cacheStep(stem string, day time.Time) ([]kbModel.Chunk, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	return s.cache.Get(stem, day)
}

func (s *service) loadStep(path string, typeHint string) ([]kbModel.TextUnit, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_load", time.Since(start)) }()

	return s.loader.Load(path, typeHint)
}

func (s *service) chunkStep(units []kbModel.TextUnit) []kbModel.Chunk {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunking", time.Since(start)) }()

	return s.splitter.Split(units)
}

func (s *service) indexStep(ctx context.Context, chunks []kbModel.Chunk) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("index_insert", time.Since(start)) }()

	return s.index.Insert(ctx, chunks)
}
