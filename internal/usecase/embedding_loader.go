package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/exportlens/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// EmbeddingConfig holds configuration for embedding retrieval
type EmbeddingConfig struct {
	BatchSize             int
	MaxConcurrentRequests int
	Timeout               time.Duration
	CacheTTL              time.Duration
	// CacheNamespace separates cached vectors of different providers/models
	CacheNamespace string
}

// embeddingLoader fetches one vector per product, concurrently and through the cache
type embeddingLoader struct {
	gateway   domain.EmbeddingGateway
	cache     domain.Cache[[]float32] // nil disables caching
	batchSize int
	limit     int
	timeout   time.Duration
	cacheTTL  time.Duration
	namespace string
	cleaner   *ListingCleaner
}

func newEmbeddingLoader(gateway domain.EmbeddingGateway, cache domain.Cache[[]float32], config EmbeddingConfig) *embeddingLoader {
	batchSize := config.BatchSize
	if batchSize <= 0 {
		batchSize = 16
	}
	limit := config.MaxConcurrentRequests
	if limit <= 0 {
		limit = 4
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}
	namespace := config.CacheNamespace
	if namespace == "" {
		namespace = "default"
	}

	return &embeddingLoader{
		gateway:   gateway,
		cache:     cache,
		batchSize: batchSize,
		limit:     limit,
		timeout:   timeout,
		cacheTTL:  cacheTTL,
		namespace: namespace,
		cleaner:   NewListingCleaner(false),
	}
}

// Load returns vectors keyed by product id. Any gateway failure, timeout or empty
// response fails the whole batch.
func (l *embeddingLoader) Load(ctx context.Context, products []domain.ProductVariant) (map[string][]float32, error) {
	if l.gateway == nil {
		return nil, fmt.Errorf("%w: no embedding gateway configured", domain.ErrEmbeddingFailure)
	}

	// Identical cleaned texts share one embedding
	var texts []string
	idsByText := make(map[string][]string)
	for _, p := range products {
		text := l.cleaner.Clean(p.Text())
		if _, seen := idsByText[text]; !seen {
			texts = append(texts, text)
		}
		idsByText[text] = append(idsByText[text], p.ID)
	}

	vectorsByText := make(map[string][]float32, len(texts))
	var misses []string
	for _, text := range texts {
		if l.cache != nil {
			if vec, ok := l.cache.Get(l.cacheKey(text)); ok {
				vectorsByText[text] = vec
				continue
			}
		}
		misses = append(misses, text)
	}

	if len(misses) > 0 {
		fetched, err := l.fetch(ctx, misses)
		if err != nil {
			return nil, err
		}
		for i, text := range misses {
			vectorsByText[text] = fetched[i]
			if l.cache != nil {
				l.cache.Set(l.cacheKey(text), fetched[i], l.cacheTTL)
			}
		}
	}

	vectors := make(map[string][]float32, len(products))
	for text, ids := range idsByText {
		for _, id := range ids {
			vectors[id] = vectorsByText[text]
		}
	}

	log.Printf("[EMBED] %d products, %d distinct texts, %d fetched", len(products), len(texts), len(misses))
	return vectors, nil
}

// fetch retrieves vectors for texts in batches, at most l.limit batches in flight
func (l *embeddingLoader) fetch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)

	for start := 0; start < len(texts); start += l.batchSize {
		end := min(start+l.batchSize, len(texts))
		g.Go(func() error {
			vecs, err := l.fetchBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(results[start:end], vecs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (l *embeddingLoader) fetchBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if batcher, ok := l.gateway.(domain.BatchEmbeddingGateway); ok {
		callCtx, cancel := context.WithTimeout(ctx, l.timeout)
		defer cancel()

		vecs, err := batcher.EmbedBatch(callCtx, texts)
		if err != nil {
			return nil, gatewayError(err)
		}
		if len(vecs) != len(texts) {
			return nil, fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrEmbeddingFailure, len(vecs), len(texts))
		}
		for _, vec := range vecs {
			if len(vec) == 0 {
				return nil, fmt.Errorf("%w: empty vector in response", domain.ErrEmbeddingFailure)
			}
		}
		return vecs, nil
	}

	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := l.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = vec
	}
	return vecs, nil
}

func (l *embeddingLoader) embedOne(ctx context.Context, text string) ([]float32, error) {
	callCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	vec, err := l.gateway.Embed(callCtx, text)
	if err != nil {
		return nil, gatewayError(err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector for %q", domain.ErrEmbeddingFailure, text)
	}
	return vec, nil
}

func (l *embeddingLoader) cacheKey(text string) string {
	return fmt.Sprintf("embedding:%s:%s", l.namespace, normalizeText(text))
}

// gatewayError marks any gateway error, timeouts included, as an embedding failure
func gatewayError(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
}
