package domain

import (
	"context"
	"time"
)

// Cache defines the similarity cache contract shared by embeddings and decisions.
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V, ttl time.Duration)
	GetOrCompute(key string, compute func() (V, error)) (V, error)
}

// EmbeddingGateway converts text into a fixed-dimension vector
type EmbeddingGateway interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// BatchEmbeddingGateway is implemented by gateways that can embed several texts per call.
// The returned slice is index-aligned with texts.
type BatchEmbeddingGateway interface {
	EmbeddingGateway
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMCategorizer assigns products to catalog categories using a language model
type LLMCategorizer interface {
	Categorize(ctx context.Context, products []ProductVariant, catalog []ProductCategory) ([]LLMAssignment, error)
}

// HSCodeRepository provides read access to the HS chapter/heading/subheading hierarchy
type HSCodeRepository interface {
	ListAll(ctx context.Context) ([]HSCode, error)
	Get(ctx context.Context, code string) (*HSCode, error)
	Children(ctx context.Context, code string) ([]HSCode, error)
}
