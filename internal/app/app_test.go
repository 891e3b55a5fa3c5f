package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/exportlens/backend/config"
	"github.com/exportlens/backend/internal/domain"
	"github.com/exportlens/backend/internal/infrastructure/openai"
	"github.com/exportlens/backend/internal/infrastructure/voyage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:     config.ServerConfig{Environment: "test"},
		Embedding:  config.EmbeddingConfig{Provider: config.ProviderNone, BatchSize: 16, MaxConcurrentRequests: 4},
		Clustering: config.ClusteringConfig{SimilarityThreshold: 0.75},
		Matching:   config.MatchingConfig{ConfidenceThreshold: 0.6},
		HS:         config.HSConfig{ConfidenceThreshold: 0.3, PreferredChapterBoost: 0.15, MaxSuggestions: 5},
		Cache: config.CacheConfig{
			Enabled:           true,
			MaxEntries:        100,
			EmbeddingTTL:      time.Hour,
			ClassificationTTL: time.Minute,
			HSTTL:             time.Minute,
			CleanupInterval:   time.Minute,
		},
		Catalog: config.CatalogConfig{HSDatabasePath: filepath.Join(t.TempDir(), "hs.db")},
	}
}

func TestNew_WiresServices(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	n, err := a.Store.Count(ctx)
	require.NoError(t, err)
	assert.Positive(t, n, "empty store should be seeded with the built-in HS codes")

	// No embedding provider: every product goes through the fallback rules
	results, err := a.Consolidation.Consolidate(ctx, []domain.ProductVariant{
		{ID: "p1", Name: "Red Wine"},
		{ID: "p2", Name: "Leather Wallet"},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.SourceFallback, r.Source)
		assert.True(t, r.FallbackUsed)
	}

	suggestions, err := a.HSCodes.GetSuggestedHSCodes(ctx, domain.HSSuggestionRequest{Category: "beverages", Name: "red wine"})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "2204", suggestions[0].Code)
}

func TestOpenStore_KeepsExistingData(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, store.Seed(ctx, []domain.HSCode{{Code: "09", Description: "Coffee, tea, mate and spices"}}))
	require.NoError(t, store.Close())

	store, err = OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_BadCategoriesPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.CategoriesPath = filepath.Join(t.TempDir(), "missing.toml")

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewEmbeddingGateway(t *testing.T) {
	cfg := testConfig(t)

	assert.Nil(t, newEmbeddingGateway(cfg))

	cfg.Embedding.Provider = config.ProviderVoyage
	cfg.Embedding.APIKey = "pa-test-key"
	assert.IsType(t, &voyage.Client{}, newEmbeddingGateway(cfg))

	cfg.Embedding.Provider = config.ProviderOpenAI
	assert.IsType(t, &openai.Embedder{}, newEmbeddingGateway(cfg))
}

func TestNewLLMCategorizer(t *testing.T) {
	cfg := testConfig(t)
	assert.Nil(t, newLLMCategorizer(cfg))

	cfg.LLM = config.LLMConfig{Enabled: true, APIKey: "sk-test", Model: "gpt-4.1-mini"}
	assert.IsType(t, &openai.Categorizer{}, newLLMCategorizer(cfg))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "***", maskKey("short"))
	assert.Equal(t, "sk-12345...", maskKey("sk-1234567890"))

	assert.Equal(t, openai.DefaultEmbeddingModel, openAIEmbeddingModel(""))
	assert.Equal(t, openai.DefaultEmbeddingModel, openAIEmbeddingModel(voyage.DefaultModel))
	assert.Equal(t, "text-embedding-3-large", openAIEmbeddingModel("text-embedding-3-large"))
}
