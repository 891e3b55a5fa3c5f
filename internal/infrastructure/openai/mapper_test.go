package openai

import (
	"encoding/json"
	"testing"

	"github.com/exportlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssignments(t *testing.T) {
	t.Run("valid reply", func(t *testing.T) {
		got, err := ParseAssignments(`
			{"assignments":[
				{"productId":" p1 ","categoryId":"beverages","confidence":0.9},
				{"productId":"p2","categoryId":"leather-goods","confidence":0}
			]}`)
		require.NoError(t, err)
		assert.Equal(t, []domain.LLMAssignment{
			{ProductID: "p1", CategoryID: "beverages", Confidence: 0.9},
			{ProductID: "p2", CategoryID: "leather-goods", Confidence: 0},
		}, got)
	})

	t.Run("empty list is structurally valid", func(t *testing.T) {
		got, err := ParseAssignments(`{"assignments":[]}`)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	invalid := []struct {
		name    string
		content string
	}{
		{"prose around json", `Sure! {"assignments":[]}`},
		{"trailing content", `{"assignments":[]} thanks`},
		{"second object", `{"assignments":[]}{"assignments":[]}`},
		{"unknown top-level field", `{"assignments":[],"notes":"x"}`},
		{"unknown assignment field", `{"assignments":[{"productId":"p","categoryId":"c","confidence":1,"reason":"x"}]}`},
		{"missing assignments", `{}`},
		{"null assignments", `{"assignments":null}`},
		{"missing confidence", `{"assignments":[{"productId":"p","categoryId":"c"}]}`},
		{"missing category", `{"assignments":[{"productId":"p","confidence":1}]}`},
		{"wrong type", `{"assignments":[{"productId":1,"categoryId":"c","confidence":1}]}`},
		{"confidence as string", `{"assignments":[{"productId":"p","categoryId":"c","confidence":"high"}]}`},
		{"array instead of object", `[{"productId":"p","categoryId":"c","confidence":1}]`},
		{"empty reply", ``},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAssignments(tc.content)
			assert.ErrorIs(t, err, domain.ErrLLMSchema)
		})
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt, err := buildUserPrompt(
		[]domain.ProductVariant{{ID: "p1", Name: "Red Wine", Description: "Cabernet"}},
		[]domain.ProductCategory{{ID: "beverages", Name: "Beverages", Keywords: []string{"wine"}, Priority: 3}},
	)
	require.NoError(t, err)

	var decoded map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(prompt), &decoded))
	assert.Equal(t, "p1", decoded["products"][0]["id"])
	assert.Equal(t, "Cabernet", decoded["products"][0]["description"])
	assert.Equal(t, "beverages", decoded["categories"][0]["id"])
	assert.NotContains(t, decoded["categories"][0], "priority")
}
