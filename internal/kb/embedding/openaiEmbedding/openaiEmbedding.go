package openaiEmbedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/akolanti/GoKB/internal/config"
	"github.com/akolanti/GoKB/internal/customHttpClient"
	"github.com/akolanti/GoKB/internal/domain/kbModel"
	"github.com/akolanti/GoKB/internal/kb/embedding"
	"github.com/akolanti/GoKB/pkg/logger_i"
)

var logger *logger_i.Logger
var once sync.Once
var embeddingClient *client

type client struct {
	openAi *openai.Client
	model  string
}

func newOpenAIEmbedder(cfg config.KBConfig) {
	c := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(customHttpClient.Pooled(cfg.EmbedTimeout)),
	)
	embeddingClient = &client{
		openAi: &c,
		model:  cfg.EmbeddingModel,
	}
	logger.Debug("OpenAI Embedding model name: " + cfg.EmbeddingModel)
	logger.Info("OpenAI Embedding client created", "baseUrl", cfg.BaseURL)
}

// GetOpenAIEmbeddingClient returns the shared embedder. The base URL makes
// any OpenAI-compatible endpoint work, not just api.openai.com.
func GetOpenAIEmbeddingClient(cfg config.KBConfig) embedding.Embedder {
	once.Do(func() {
		logger = logger_i.NewLogger("openai_embedding")
		newOpenAIEmbedder(cfg)
	})

	if embeddingClient == nil {
		return nil
	}
	return embeddingClient
}

func (c *client) Model() string {
	return c.model
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	vectors, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: chunks,
		},
		Model: openai.EmbeddingModel(c.model),
	}

	resp, err := c.openAi.Embeddings.New(ctx, params)
	if err != nil {
		logger.Error("Error getting Embeddings from OpenAI", "error", err.Error())
		return nil, fmt.Errorf("%w: %v", kbModel.ErrEmbedding, err)
	}
	if len(resp.Data) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d inputs", kbModel.ErrEmbedding, len(resp.Data), len(chunks))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
