package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/exportlens/backend/config"
	"github.com/exportlens/backend/internal/domain"
	"github.com/exportlens/backend/internal/infrastructure/cache"
	"github.com/exportlens/backend/internal/infrastructure/catalog"
	"github.com/exportlens/backend/internal/infrastructure/hscodes"
	"github.com/exportlens/backend/internal/usecase"
)

// App holds the wired services shared by the HTTP server and the CLI
type App struct {
	Config        *config.Config
	Categories    []domain.ProductCategory
	Consolidation *usecase.ConsolidationService
	HSCodes       *usecase.HSCodeService
	Store         *hscodes.Store

	stop context.CancelFunc
}

// New loads catalogs, opens the HS store (seeding it when empty), and wires the
// usecase layer. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	categories, err := catalog.LoadCategories(cfg.Catalog.CategoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	ctx, stop := context.WithCancel(ctx)
	a := &App{Config: cfg, Categories: categories, Store: store, stop: stop}

	var (
		embeddingCache domain.Cache[[]float32]
		decisionCache  domain.Cache[domain.CategoryMatch]
		hsCache        domain.Cache[[]domain.HSCodeSuggestion]
	)
	if cfg.Cache.Enabled {
		embeddingCache = newCache[[]float32](ctx, cfg, "embeddings", cfg.Cache.EmbeddingTTL)
		decisionCache = newCache[domain.CategoryMatch](ctx, cfg, "decisions", cfg.Cache.ClassificationTTL)
		hsCache = newCache[[]domain.HSCodeSuggestion](ctx, cfg, "hs", cfg.Cache.HSTTL)
		log.Printf("[CACHE] Enabled: max=%d embeddings=%s decisions=%s hs=%s",
			cfg.Cache.MaxEntries, cfg.Cache.EmbeddingTTL, cfg.Cache.ClassificationTTL, cfg.Cache.HSTTL)
	} else {
		log.Printf("[CACHE] Disabled")
	}

	a.Consolidation = usecase.NewConsolidationService(
		categories,
		newEmbeddingGateway(cfg),
		newLLMCategorizer(cfg),
		embeddingCache,
		decisionCache,
		usecase.ConsolidationServiceConfig{
			SimilarityThreshold: cfg.Clustering.SimilarityThreshold,
			ConfidenceThreshold: cfg.Matching.ConfidenceThreshold,
			Embedding: usecase.EmbeddingConfig{
				BatchSize:             cfg.Embedding.BatchSize,
				MaxConcurrentRequests: cfg.Embedding.MaxConcurrentRequests,
				Timeout:               cfg.Embedding.Timeout,
				CacheTTL:              cfg.Cache.EmbeddingTTL,
				CacheNamespace:        cfg.Embedding.Provider + ":" + cfg.Embedding.Model,
			},
			LLMTimeout:         cfg.LLM.Timeout,
			EnableDebugLogging: cfg.Matching.EnableDebugLogging,
		},
	)

	a.HSCodes = usecase.NewHSCodeService(store, categories, hsCache, usecase.HSCodeServiceConfig{
		ConfidenceThreshold:   cfg.HS.ConfidenceThreshold,
		PreferredChapterBoost: cfg.HS.PreferredChapterBoost,
		MaxSuggestions:        cfg.HS.MaxSuggestions,
		EnableDebugLogging:    cfg.Matching.EnableDebugLogging,
	})

	log.Printf("Matching: similarity=%.2f confidence=%.2f hs=%.2f debug=%v",
		cfg.Clustering.SimilarityThreshold,
		cfg.Matching.ConfidenceThreshold,
		cfg.HS.ConfidenceThreshold,
		cfg.Matching.EnableDebugLogging)

	return a, nil
}

// Close stops cache janitors and closes the HS store
func (a *App) Close() error {
	a.stop()
	return a.Store.Close()
}

// OpenStore opens the configured HS database and seeds it when it has no rows
func OpenStore(ctx context.Context, cfg *config.Config) (*hscodes.Store, error) {
	store, err := hscodes.Open(cfg.Catalog.HSDatabasePath)
	if err != nil {
		return nil, err
	}

	n, err := store.Count(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	if n == 0 {
		if err := SeedStore(ctx, store, cfg.Catalog.HSSeedPath); err != nil {
			store.Close()
			return nil, err
		}
	} else {
		log.Printf("[HS] Using %d HS codes from %s", n, cfg.Catalog.HSDatabasePath)
	}
	return store, nil
}

// SeedStore replaces the store contents with the HS seed at path (built-in when empty)
func SeedStore(ctx context.Context, store *hscodes.Store, path string) error {
	codes, err := catalog.LoadHSCodes(path)
	if err != nil {
		return fmt.Errorf("failed to load HS seed: %w", err)
	}
	return store.Seed(ctx, codes)
}

func newCache[V any](ctx context.Context, cfg *config.Config, name string, ttl time.Duration) *cache.MemoryCache[V] {
	c := cache.NewMemoryCache[V](cache.Config{
		MaxEntries: cfg.Cache.MaxEntries,
		DefaultTTL: ttl,
		Name:       name,
	})
	c.StartJanitor(ctx, cfg.Cache.CleanupInterval)
	return c
}
