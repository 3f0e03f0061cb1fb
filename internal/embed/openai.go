package embed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/openlearn/compass/internal/vecmath"
)

// OpenAIConfig configures the OpenAI-compatible embedding provider. Any
// endpoint speaking the OpenAI embeddings API works (OpenAI, ollama,
// siliconflow, ...).
type OpenAIConfig struct {
	// BaseURL overrides the API endpoint. Empty means api.openai.com.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the embedding model name. Default: text-embedding-3-small.
	Model string

	// Dimensions is the requested vector size. Default: DefaultDimension.
	Dimensions int
}

// OpenAIEmbedder implements Embedder against an OpenAI-compatible API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIEmbedder creates the production embedder.
func NewOpenAIEmbedder(cfg OpenAIConfig) *OpenAIEmbedder {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}
	dim := cfg.Dimensions
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		dim:    dim,
	}
}

// Embed requests an embedding for text. The response vector is truncated or
// zero-padded to Dimensions() and L2-normalized so every implementation
// produces index-compatible vectors.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dim,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}

	v := vecmath.Resize(resp.Data[0].Embedding, e.dim)
	vecmath.Normalize(v)
	return v, nil
}

// Dimensions returns the configured vector dimension.
func (e *OpenAIEmbedder) Dimensions() int { return e.dim }
