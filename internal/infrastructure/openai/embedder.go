package openai

import (
	"context"
	"fmt"
	"log"

	"github.com/exportlens/backend/internal/domain"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Embedder is an embedding gateway backed by the OpenAI embeddings endpoint
type Embedder struct {
	client      *openai.Client
	model       string
	dimensions  int
	rateLimiter *rate.Limiter
}

// NewEmbedder creates a new OpenAI embedding client
func NewEmbedder(cfg Config) *Embedder {
	model := cfg.EmbeddingModel
	if model == "" {
		model = DefaultEmbeddingModel
	}

	return &Embedder{
		client:      newAPIClient(cfg),
		model:       model,
		dimensions:  cfg.Dimensions,
		rateLimiter: newLimiter(cfg.RequestsPerSecond),
	}
}

// Embed returns the vector for a single text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one request; the result is index-aligned with texts
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if err := e.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrEmbeddingFailure, err)
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(e.model),
		Dimensions: e.dimensions,
	})
	if err != nil {
		log.Printf("[OPENAI] Embedding error for %d texts: %v", len(texts), err)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: %d embeddings for %d texts", domain.ErrEmbeddingFailure, len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) || vectors[item.Index] != nil {
			return nil, fmt.Errorf("%w: bad embedding index %d", domain.ErrEmbeddingFailure, item.Index)
		}
		if len(item.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", domain.ErrEmbeddingFailure, item.Index)
		}
		vector := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vector[j] = float32(v)
		}
		vectors[item.Index] = vector
	}

	return vectors, nil
}

var _ domain.BatchEmbeddingGateway = (*Embedder)(nil)
