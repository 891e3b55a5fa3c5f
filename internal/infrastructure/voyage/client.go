package voyage

import (
	"context"
	"fmt"
	"log"

	"github.com/austinfhunter/voyageai"
	"github.com/exportlens/backend/internal/domain"
	"golang.org/x/time/rate"
)

const (
	DefaultModel      = "voyage-3.5-lite"
	DefaultDimensions = 1024
	inputTypeDocument = "document"
)

// Config holds Voyage AI gateway settings
type Config struct {
	APIKey            string
	Model             string
	Dimensions        int
	RequestsPerSecond float64
}

// embedFunc performs one Voyage embedding call for texts
type embedFunc func(texts []string) ([]voyageai.EmbeddingObject, error)

// Client is an embedding gateway backed by the Voyage AI API
type Client struct {
	embed       embedFunc
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Voyage AI embedding client
func NewClient(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	dimensions := cfg.Dimensions
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}

	api := voyageai.NewClient(&voyageai.VoyageClientOpts{Key: cfg.APIKey})
	embed := func(texts []string) ([]voyageai.EmbeddingObject, error) {
		inputType := inputTypeDocument
		resp, err := api.Embed(texts, model, &voyageai.EmbeddingRequestOpts{
			InputType:       &inputType,
			OutputDimension: &dimensions,
		})
		if err != nil {
			return nil, err
		}
		return resp.Data, nil
	}

	return newClient(embed, model, newLimiter(cfg.RequestsPerSecond))
}

func newClient(embed embedFunc, model string, limiter *rate.Limiter) *Client {
	return &Client{
		embed:       embed,
		model:       model,
		rateLimiter: limiter,
	}
}

// newLimiter allows rps requests per second with a small burst
func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		rps = 5
	}
	return rate.NewLimiter(rate.Limit(rps), 2)
}

// SetDebug enables or disables per-request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Embed returns the vector for a single text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in one API call. The SDK call cannot be cancelled, so a
// context deadline abandons it and reports a failure.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		log.Printf("[VOYAGE] Rate limiter error: %v", err)
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrEmbeddingFailure, err)
	}

	type result struct {
		data []voyageai.EmbeddingObject
		err  error
	}
	done := make(chan result, 1)
	go func() {
		data, err := c.embed(texts)
		done <- result{data: data, err: err}
	}()

	var r result
	select {
	case <-ctx.Done():
		log.Printf("[VOYAGE] Request abandoned after %d texts: %v", len(texts), ctx.Err())
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, ctx.Err())
	case r = <-done:
	}

	if r.err != nil {
		log.Printf("[VOYAGE] API error for %d texts: %v", len(texts), r.err)
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, r.err)
	}
	if len(r.data) != len(texts) {
		return nil, fmt.Errorf("%w: %d embeddings for %d texts", domain.ErrEmbeddingFailure, len(r.data), len(texts))
	}

	// Results are placed by their reported index, not by response order
	vectors := make([][]float32, len(texts))
	for _, obj := range r.data {
		if obj.Index < 0 || obj.Index >= len(texts) || vectors[obj.Index] != nil {
			return nil, fmt.Errorf("%w: bad embedding index %d", domain.ErrEmbeddingFailure, obj.Index)
		}
		if len(obj.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", domain.ErrEmbeddingFailure, obj.Index)
		}
		vectors[obj.Index] = obj.Embedding
	}

	if c.debug {
		log.Printf("[VOYAGE] Embedded %d texts with %s (%d dims)", len(texts), c.model, len(vectors[0]))
	}
	return vectors, nil
}

var _ domain.BatchEmbeddingGateway = (*Client)(nil)
