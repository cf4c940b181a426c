package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/kb/embedding"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var qdrantLogger = logger_i.NewLogger("Qdrant")

type qdrantIndex struct {
	client     *qdrant.Client
	collection string
	embedder   embedding.Embedder
	dimension  uint64
}

// NewQdrantIndex connects to qdrant and ensures the chunk collection
// exists. The client is closed when ctx is cancelled.
func NewQdrantIndex(ctx context.Context, cfg config.KBConfig, embedder embedding.Embedder) (VectorIndex, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.QdrantHost,
		Port:     cfg.QdrantPort,
		UseTLS:   cfg.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	idx := &qdrantIndex{
		client:     client,
		collection: config.IndexCollection,
		embedder:   embedder,
		dimension:  uint64(cfg.Dimension),
	}
	if err := idx.createCollection(ctx, idx.collection); err != nil {
		return nil, fmt.Errorf("could not create collection %s: %w", idx.collection, err)
	}

	go closeQdrant(ctx, client)
	return idx, nil
}

func closeQdrant(ctx context.Context, client *qdrant.Client) {
	<-ctx.Done()
	qdrantLogger.Info("Shutting down Qdrant")
	if err := client.Close(); err != nil {
		qdrantLogger.Error("could not close Qdrant: ", "error:", err)
	}
}

func (db *qdrantIndex) Insert(ctx context.Context, chunks []kbModel.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	loggr := qdrantLogger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := db.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: got %d vectors for %d chunks", kbModel.ErrEmbedding, len(vectors), len(chunks))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]any{"content": chunk.Content}
		for k, v := range chunk.Metadata {
			payload[k] = v
		}
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err = db.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: db.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("Error upserting to Qdrant: ", "error:", err)
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *qdrantIndex) Query(ctx context.Context, text string, k int) ([]kbModel.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	loggr := qdrantLogger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	queryVec, err := db.embedder.GetEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	result, err := db.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(queryVec...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		loggr.Error("Error querying Qdrant: ", "error:", err)
		return nil, err
	}

	matches := make([]kbModel.ScoredChunk, 0, len(result))
	for _, hit := range result {
		chunk := kbModel.Chunk{Metadata: make(map[string]string)}
		for key, value := range hit.Payload {
			if key == "content" {
				chunk.Content = value.GetStringValue()
				continue
			}
			chunk.Metadata[key] = value.GetStringValue()
		}
		matches = append(matches, kbModel.ScoredChunk{Chunk: chunk, Score: hit.Score})
	}
	return matches, nil
}

func (db *qdrantIndex) Remove(ctx context.Context, docID string) error {
	loggr := qdrantLogger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	_, err := db.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: db.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("doc_id", docID)},
		}),
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		loggr.Error("Error deleting from Qdrant: ", "docId", docID, "error:", err)
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

func (db *qdrantIndex) createCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
