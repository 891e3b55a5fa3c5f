package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/exportlens/backend/internal/domain"
)

var errGatewayDown = errors.New("gateway down")

// mockEmbedder is a single-text embedding gateway with a call counter
type mockEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)

	mu        sync.Mutex
	CallCount int
	Texts     []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.Texts = append(m.Texts, text)
	m.mu.Unlock()

	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return keywordVector(text), nil
}

func (m *mockEmbedder) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// mockBatchEmbedder also implements EmbedBatch
type mockBatchEmbedder struct {
	mockEmbedder
	EmbedBatchFunc func(ctx context.Context, texts []string) ([][]float32, error)

	BatchCalls int
	BatchSizes []int
	inFlight   int
	MaxFlight  int
}

func (m *mockBatchEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.BatchCalls++
	m.BatchSizes = append(m.BatchSizes, len(texts))
	m.inFlight++
	if m.inFlight > m.MaxFlight {
		m.MaxFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.EmbedBatchFunc != nil {
		return m.EmbedBatchFunc(ctx, texts)
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = keywordVector(text)
	}
	return out, nil
}

// keywordVector places texts on axes by the product family they mention
func keywordVector(text string) []float32 {
	text = strings.ToLower(text)
	switch {
	case strings.Contains(text, "cabernet"):
		return []float32{0.95, 0.10, 0.02, 0.01}
	case strings.Contains(text, "merlot"):
		return []float32{0.94, 0.12, 0.03, 0.01}
	case strings.Contains(text, "wine"):
		return []float32{0.90, 0.15, 0.05, 0.02}
	case strings.Contains(text, "wallet"), strings.Contains(text, "leather"):
		return []float32{0.02, 0.05, 0.97, 0.10}
	case strings.Contains(text, "coffee"), strings.Contains(text, "espresso"):
		return []float32{0.10, 0.96, 0.05, 0.02}
	default:
		return []float32{0.05, 0.05, 0.05, 0.99}
	}
}

// mockLLM is an LLM categorizer with a call counter
type mockLLM struct {
	CategorizeFunc func(ctx context.Context, products []domain.ProductVariant, catalog []domain.ProductCategory) ([]domain.LLMAssignment, error)
	CallCount      int
}

func (m *mockLLM) Categorize(ctx context.Context, products []domain.ProductVariant, catalog []domain.ProductCategory) ([]domain.LLMAssignment, error) {
	m.CallCount++
	return m.CategorizeFunc(ctx, products, catalog)
}

// mapCache is a minimal in-memory Cache that ignores TTLs
type mapCache[V any] struct {
	mu           sync.Mutex
	data         map[string]V
	ComputeCalls int
	SetCalls     int
}

func newMapCache[V any]() *mapCache[V] {
	return &mapCache[V]{data: make(map[string]V)}
}

func (c *mapCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

func (c *mapCache[V]) Set(key string, value V, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.SetCalls++
	c.data[key] = value
}

func (c *mapCache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	c.mu.Lock()
	c.ComputeCalls++
	c.mu.Unlock()

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Set(key, v, 0)
	return v, nil
}

// mockHSRepository serves a fixed HS hierarchy and counts calls
type mockHSRepository struct {
	codes []domain.HSCode
	Err   error

	ListAllCalls  int
	GetCalls      int
	ChildrenCalls int
}

func (r *mockHSRepository) ListAll(_ context.Context) ([]domain.HSCode, error) {
	r.ListAllCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	return r.codes, nil
}

func (r *mockHSRepository) Get(_ context.Context, code string) (*domain.HSCode, error) {
	r.GetCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	for _, c := range r.codes {
		if c.Code == code {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrHSCodeNotFound
}

func (r *mockHSRepository) Children(_ context.Context, code string) ([]domain.HSCode, error) {
	r.ChildrenCalls++
	if r.Err != nil {
		return nil, r.Err
	}
	var out []domain.HSCode
	for _, c := range r.codes {
		if c.ParentCode == code {
			out = append(out, c)
		}
	}
	return out, nil
}

func testCatalog() []domain.ProductCategory {
	return []domain.ProductCategory{
		{
			ID:          "general",
			Name:        "General Merchandise",
			Description: "Goods without a more specific category",
		},
		{
			ID:             "beverages",
			Name:           "Beverages",
			Description:    "Wine, beer, spirits and soft drinks",
			Keywords:       []string{"wine", "red", "white", "cabernet", "merlot", "beer", "juice"},
			Examples:       []string{"Red Wine Cabernet"},
			AlternateNames: []string{"Drinks"},
			HSCodeHints:    []string{"22", "2204"},
			Priority:       1,
			AttributeDefinitions: []domain.AttributeDefinition{
				{Name: "mainIngredient", DisplayName: "Main ingredient", Type: domain.AttributeString},
				{Name: "storageType", DisplayName: "Storage", Type: domain.AttributeString},
			},
		},
		{
			ID:             "leather-goods",
			Name:           "Leather Goods",
			Description:    "Wallets, belts and bags made of leather",
			Keywords:       []string{"leather", "wallet", "belt", "handbag"},
			AlternateNames: []string{"Leatherware"},
			HSCodeHints:    []string{"42"},
		},
		{
			ID:          "coffee-tea",
			Name:        "Coffee & Tea",
			Description: "Roasted coffee beans and tea leaves",
			Keywords:    []string{"coffee", "espresso", "tea", "beans", "arabica"},
			HSCodeHints: []string{"09"},
			AttributeDefinitions: []domain.AttributeDefinition{
				{Name: "preparation_method", Type: domain.AttributeString, AllowedValues: []string{"roasted", "dried"}},
			},
		},
	}
}

func testHSCodes() []domain.HSCode {
	codes := []domain.HSCode{
		{Code: "09", Description: "Coffee, tea, mate and spices", Keywords: []string{"coffee", "tea"}},
		{Code: "0901", Description: "Coffee, whether or not roasted or decaffeinated", Keywords: []string{"coffee", "espresso", "beans"}},
		{Code: "090121", Description: "Roasted coffee, not decaffeinated", Keywords: []string{"roasted", "coffee", "beans"}},
		{Code: "18", Description: "Cocoa and cocoa preparations", Keywords: []string{"cocoa", "chocolate"}},
		{Code: "1806", Description: "Chocolate and other food preparations containing cocoa", Keywords: []string{"chocolate", "cocoa", "drink"}},
		{Code: "22", Description: "Beverages, spirits and vinegar", Keywords: []string{"beverages", "drinks"}},
		{Code: "2202", Description: "Waters with added sugar or flavouring", Keywords: []string{"soda", "flavoured", "drink"}},
		{Code: "2204", Description: "Wine of fresh grapes, including fortified wines", Keywords: []string{"wine", "red", "white", "cabernet", "merlot"}},
		{Code: "220421", Description: "Wine in containers holding 2 litres or less", Keywords: []string{"wine", "bottle", "bottled"}},
		{Code: "42", Description: "Articles of leather; handbags and similar containers", Keywords: []string{"leather"}},
		{Code: "4202", Description: "Trunks, suitcases, handbags, wallets and similar containers", Keywords: []string{"wallet", "handbag", "leather"}},
	}
	if err := domain.ValidateHSCodes(codes); err != nil {
		panic(err)
	}
	return codes
}
