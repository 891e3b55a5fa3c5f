package usecase

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/exportlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConsolidationService(gw domain.EmbeddingGateway, llm domain.LLMCategorizer) *ConsolidationService {
	return NewConsolidationService(testCatalog(), gw, llm, nil, nil, ConsolidationServiceConfig{})
}

func wineAndWallet() []domain.ProductVariant {
	return []domain.ProductVariant{
		{ID: "cab", Name: "Red Wine Cabernet"},
		{ID: "merlot", Name: "Red Wine Merlot"},
		{ID: "wallet", Name: "Leather Wallet"},
	}
}

// assertPartition checks every input product appears in exactly one result
func assertPartition(t *testing.T, products []domain.ProductVariant, results []domain.CategoryResult) {
	t.Helper()
	seen := make(map[string]int)
	for _, r := range results {
		require.NotEmpty(t, r.Variants)
		for _, v := range r.Variants {
			seen[v.ID]++
		}
	}
	require.Len(t, seen, len(products))
	for _, p := range products {
		assert.Equal(t, 1, seen[p.ID], "product %s", p.ID)
	}
}

func assertSorted(t *testing.T, results []domain.CategoryResult) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Confidence, results[i].Confidence)
	}
}

func TestConsolidate_InputErrors(t *testing.T) {
	svc := newTestConsolidationService(&mockEmbedder{}, nil)
	ctx := context.Background()

	testCases := []struct {
		name     string
		products []domain.ProductVariant
		wantErr  error
	}{
		{name: "nil batch", products: nil, wantErr: domain.ErrEmptyBatch},
		{name: "empty batch", products: []domain.ProductVariant{}, wantErr: domain.ErrEmptyBatch},
		{name: "missing id", products: []domain.ProductVariant{{Name: "Wine"}}, wantErr: domain.ErrInvalidProduct},
		{name: "missing name", products: []domain.ProductVariant{{ID: "1", Name: "  "}}, wantErr: domain.ErrInvalidProduct},
		{
			name:     "duplicate id",
			products: []domain.ProductVariant{{ID: "1", Name: "Wine"}, {ID: "1", Name: "Beer"}},
			wantErr:  domain.ErrDuplicateProduct,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := svc.Consolidate(ctx, tc.products)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.True(t, domain.IsInputError(err))
			assert.Nil(t, results)
		})
	}
}

func TestConsolidate_WineAndWallet(t *testing.T) {
	gw := &mockEmbedder{}
	svc := newTestConsolidationService(gw, nil)
	products := wineAndWallet()

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assertPartition(t, products, results)
	assertSorted(t, results)

	byCategory := make(map[string]domain.CategoryResult)
	for _, r := range results {
		byCategory[r.Category.ID] = r
	}

	wine, ok := byCategory["beverages"]
	require.True(t, ok, "wines matched to beverages")
	assert.Len(t, wine.Variants, 2)
	assert.Equal(t, domain.SourceHeuristic, wine.Source)
	assert.False(t, wine.FallbackUsed)
	assert.InDelta(t, 14.0/61.0+0.05, wine.Confidence, 1e-9)
	assert.Equal(t, domain.StringValue("grape"), wine.Attributes["mainIngredient"])

	wallet, ok := byCategory["leather-goods"]
	require.True(t, ok, "wallet matched separately")
	assert.Equal(t, "wallet", wallet.Variants[0].ID)
	assert.Equal(t, 3, gw.calls())
}

func TestConsolidate_Deterministic(t *testing.T) {
	svc := newTestConsolidationService(&mockEmbedder{}, nil)

	first, err := svc.Consolidate(context.Background(), wineAndWallet())
	require.NoError(t, err)
	second, err := svc.Consolidate(context.Background(), wineAndWallet())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestConsolidate_GatewayDownSingleProduct(t *testing.T) {
	gw := &mockEmbedder{EmbedFunc: func(context.Context, string) ([]float32, error) {
		return []float32{}, nil
	}}
	svc := newTestConsolidationService(gw, nil)
	products := []domain.ProductVariant{{ID: "1", Name: "Red Wine Cabernet"}}

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, products, results[0].Variants)
	assert.Equal(t, 0.2, results[0].Confidence)
	assert.Equal(t, domain.SourceFallback, results[0].Source)
	assert.True(t, results[0].FallbackUsed)
	assert.Equal(t, "Beverages", results[0].Category.Name)
}

func TestConsolidate_GatewayAlwaysFails(t *testing.T) {
	gw := &mockEmbedder{EmbedFunc: func(context.Context, string) ([]float32, error) {
		return nil, errGatewayDown
	}}
	svc := newTestConsolidationService(gw, nil)
	products := append(wineAndWallet(), domain.ProductVariant{ID: "x", Name: "Quantum Widget"})

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, len(products), "one result per product")
	assertPartition(t, products, results)
	for _, r := range results {
		assert.True(t, r.FallbackUsed)
		assert.Equal(t, domain.SourceFallback, r.Source)
	}
}

func TestConsolidate_ClusteringFailureKeepsHeuristicMatching(t *testing.T) {
	gw := &mockEmbedder{EmbedFunc: func(_ context.Context, text string) ([]float32, error) {
		if text == "leather wallet" {
			return []float32{1, 0}, nil
		}
		return []float32{1, 0, 0}, nil
	}}
	svc := newTestConsolidationService(gw, nil)
	products := wineAndWallet()

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, 3, "singleton clusters")
	assertPartition(t, products, results)
	for _, r := range results {
		assert.False(t, r.FallbackUsed)
		assert.NotEqual(t, domain.SourceFallback, r.Source)
	}
}

func TestConsolidate_NonFiniteEmbeddingYieldsSingletons(t *testing.T) {
	gw := &mockEmbedder{EmbedFunc: func(_ context.Context, text string) ([]float32, error) {
		if text == "leather wallet" {
			return []float32{float32(math.NaN()), 1}, nil
		}
		return []float32{1, 0}, nil
	}}
	svc := newTestConsolidationService(gw, nil)
	products := wineAndWallet()

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, 3, "singleton clusters")
	assertPartition(t, products, results)
	for _, r := range results {
		assert.False(t, math.IsNaN(r.Confidence))
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
}

func TestConsolidate_EmptyCatalogUsesFallbackRules(t *testing.T) {
	svc := NewConsolidationService(nil, &mockEmbedder{}, nil, nil, nil, ConsolidationServiceConfig{})
	products := wineAndWallet()

	results, err := svc.Consolidate(context.Background(), products)
	require.NoError(t, err)
	require.Len(t, results, 2, "clusters survive matcher failure")
	assertPartition(t, products, results)
	for _, r := range results {
		assert.True(t, r.FallbackUsed)
	}
}

func TestConsolidate_DefaultCategoryForUnmatched(t *testing.T) {
	svc := newTestConsolidationService(&mockEmbedder{}, nil)

	results, err := svc.Consolidate(context.Background(), []domain.ProductVariant{{ID: "1", Name: "Quantum Widget"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "general", results[0].Category.ID)
	assert.Equal(t, domain.SourceDefault, results[0].Source)
	assert.Equal(t, 0.1, results[0].Confidence)
	assert.False(t, results[0].FallbackUsed)
}

func TestConsolidate_ConfidenceBounds(t *testing.T) {
	names := []string{
		"Red Wine Cabernet", "Red Wine Merlot", "White Wine", "Leather Wallet", "Leather Belt",
		"Espresso Coffee Beans", "Arabica Coffee", "Green Tea", "Quantum Widget", "Wine",
	}
	products := make([]domain.ProductVariant, len(names))
	for i, name := range names {
		products[i] = domain.ProductVariant{ID: fmt.Sprintf("p%d", i), Name: name}
	}

	gateways := map[string]domain.EmbeddingGateway{
		"healthy": &mockEmbedder{},
		"failing": &mockEmbedder{EmbedFunc: func(context.Context, string) ([]float32, error) {
			return nil, errGatewayDown
		}},
	}

	for name, gw := range gateways {
		t.Run(name, func(t *testing.T) {
			svc := newTestConsolidationService(gw, nil)
			results, err := svc.Consolidate(context.Background(), products)
			require.NoError(t, err)
			assertPartition(t, products, results)
			assertSorted(t, results)
			for _, r := range results {
				assert.GreaterOrEqual(t, r.Confidence, 0.0)
				assert.Less(t, r.Confidence, 1.0)
			}
		})
	}
}

func TestConsolidate_DecisionCache(t *testing.T) {
	decisions := newMapCache[domain.CategoryMatch]()
	embeddings := newMapCache[[]float32]()
	gw := &mockEmbedder{}
	svc := NewConsolidationService(testCatalog(), gw, nil, embeddings, decisions, ConsolidationServiceConfig{})

	_, err := svc.Consolidate(context.Background(), wineAndWallet())
	require.NoError(t, err)
	assert.Equal(t, 2, decisions.ComputeCalls)
	assert.Equal(t, 3, gw.calls())

	_, err = svc.Consolidate(context.Background(), wineAndWallet())
	require.NoError(t, err)
	assert.Equal(t, 2, decisions.ComputeCalls, "decisions reused")
	assert.Equal(t, 3, gw.calls(), "embeddings reused")
}

func TestConsolidate_LLM(t *testing.T) {
	ctx := context.Background()
	products := wineAndWallet()

	t.Run("valid assignments are used", func(t *testing.T) {
		gw := &mockEmbedder{}
		llm := &mockLLM{CategorizeFunc: func(_ context.Context, ps []domain.ProductVariant, catalog []domain.ProductCategory) ([]domain.LLMAssignment, error) {
			assert.Len(t, catalog, 4)
			return []domain.LLMAssignment{
				{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
				{ProductID: "merlot", CategoryID: "beverages", Confidence: 0.8},
				{ProductID: "wallet", CategoryID: "leather-goods", Confidence: 1},
			}, nil
		}}
		svc := newTestConsolidationService(gw, llm)

		results, err := svc.Consolidate(ctx, products)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assertPartition(t, products, results)

		assert.Equal(t, "leather-goods", results[0].Category.ID)
		assert.Equal(t, 1.0, results[0].Confidence)
		assert.Equal(t, "beverages", results[1].Category.ID)
		assert.InDelta(t, 0.85, results[1].Confidence, 1e-9)
		for _, r := range results {
			assert.Equal(t, domain.SourceLLM, r.Source)
		}
		assert.Zero(t, gw.calls(), "embeddings skipped")
	})

	invalid := map[string][]domain.LLMAssignment{
		"missing product": {
			{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "merlot", CategoryID: "beverages", Confidence: 0.9},
		},
		"repeated product": {
			{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "wallet", CategoryID: "leather-goods", Confidence: 0.9},
		},
		"unknown product": {
			{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "merlot", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "ghost", CategoryID: "leather-goods", Confidence: 0.9},
		},
		"unknown category": {
			{ProductID: "cab", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "merlot", CategoryID: "spaceships", Confidence: 0.9},
			{ProductID: "wallet", CategoryID: "leather-goods", Confidence: 0.9},
		},
		"confidence out of range": {
			{ProductID: "cab", CategoryID: "beverages", Confidence: 1.5},
			{ProductID: "merlot", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "wallet", CategoryID: "leather-goods", Confidence: 0.9},
		},
	}

	for name, assignments := range invalid {
		t.Run(name+" falls back to heuristic matching", func(t *testing.T) {
			gw := &mockEmbedder{}
			llm := &mockLLM{CategorizeFunc: func(context.Context, []domain.ProductVariant, []domain.ProductCategory) ([]domain.LLMAssignment, error) {
				return assignments, nil
			}}
			svc := newTestConsolidationService(gw, llm)

			results, err := svc.Consolidate(ctx, products)
			require.NoError(t, err)
			assertPartition(t, products, results)
			assert.Equal(t, 1, llm.CallCount)
			assert.Equal(t, 3, gw.calls())
			for _, r := range results {
				assert.NotEqual(t, domain.SourceLLM, r.Source)
			}
		})
	}

	t.Run("collaborator error falls back", func(t *testing.T) {
		llm := &mockLLM{CategorizeFunc: func(context.Context, []domain.ProductVariant, []domain.ProductCategory) ([]domain.LLMAssignment, error) {
			return nil, domain.ErrLLMFailure
		}}
		svc := newTestConsolidationService(&mockEmbedder{}, llm)

		results, err := svc.Consolidate(ctx, products)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assertPartition(t, products, results)
	})
}

func TestRunIDFromContext(t *testing.T) {
	ctx := ContextWithRunID(context.Background(), "run-1")
	assert.Equal(t, "run-1", RunIDFromContext(ctx))

	generated := RunIDFromContext(context.Background())
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, RunIDFromContext(context.Background()))
}
