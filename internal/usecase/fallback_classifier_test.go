package usecase

import (
	"testing"

	"github.com/exportlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackClassifier_ClassifyName(t *testing.T) {
	f := NewFallbackClassifier()

	testCases := []struct {
		name   string
		wantID string
	}{
		{name: "Red Wine Cabernet", wantID: "fallback-beverages"},
		{name: "Greek Yogurt", wantID: "fallback-dairy"},
		{name: "Frozen Shrimp", wantID: "fallback-meat-seafood"},
		{name: "Basmati Rice", wantID: "fallback-bakery-cereals"},
		{name: "Dark Chocolate Bar", wantID: "fallback-confectionery-snacks"},
		{name: "Alphonso Mangoes", wantID: "fallback-fruits-vegetables"},
		{name: "Leather Wallet", wantID: "fallback-leather-goods"},
		{name: "Cotton T-Shirt", wantID: "fallback-apparel-textiles"},
		{name: "USB-C Charger", wantID: "fallback-electronics"},
		{name: "Ceramic Mug", wantID: "fallback-home-kitchen"},
		{name: "Chocolate Milk", wantID: "fallback-dairy"}, // first matching rule wins
		{name: "Quantum Widget", wantID: "other"},
		{name: "", wantID: "other"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			category, _ := f.ClassifyName(tc.name)
			assert.Equal(t, tc.wantID, category.ID)
		})
	}
}

func TestFallbackClassifier_Classify(t *testing.T) {
	f := NewFallbackClassifier()
	products := map[string]domain.ProductVariant{
		"w1": {ID: "w1", Name: "Red Wine"},
		"w2": {ID: "w2", Name: "White Wine"},
		"m":  {ID: "m", Name: "Leather Wallet"},
		"x":  {ID: "x", Name: "Quantum Widget"},
	}

	t.Run("one result per cluster with fixed confidence", func(t *testing.T) {
		results := f.Classify(SingletonClusters([]string{"w1", "m", "x"}), products)
		require.Len(t, results, 3)

		assert.Equal(t, "Beverages", results[0].Category.Name)
		assert.Equal(t, "Leather Goods", results[1].Category.Name)
		assert.Equal(t, "Other", results[2].Category.Name)
		for _, r := range results {
			assert.Equal(t, 0.2, r.Confidence)
			assert.Equal(t, domain.SourceFallback, r.Source)
			assert.True(t, r.FallbackUsed)
			assert.NotNil(t, r.Attributes)
			assert.Len(t, r.Variants, 1)
		}
	})

	t.Run("plurality within a cluster", func(t *testing.T) {
		results := f.Classify([]Cluster{{"m", "w1", "w2"}}, products)
		require.Len(t, results, 1)
		assert.Equal(t, "fallback-beverages", results[0].Category.ID)
		assert.Len(t, results[0].Variants, 3)
	})

	t.Run("tie goes to the earliest member", func(t *testing.T) {
		results := f.Classify([]Cluster{{"m", "w1"}}, products)
		require.Len(t, results, 1)
		assert.Equal(t, "fallback-leather-goods", results[0].Category.ID)
	})
}
