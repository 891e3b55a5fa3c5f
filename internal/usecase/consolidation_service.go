package usecase

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/exportlens/backend/internal/domain"
	"github.com/google/uuid"
)

// ConsolidationServiceConfig holds configuration for the consolidation pipeline
type ConsolidationServiceConfig struct {
	SimilarityThreshold float64
	ConfidenceThreshold float64
	Embedding           EmbeddingConfig
	LLMTimeout          time.Duration
	EnableDebugLogging  bool
}

// ConsolidationService groups product listings and assigns each group a catalog category.
// Flow: validate -> LLM (optional) -> embeddings -> clusters -> match -> attributes -> format
type ConsolidationService struct {
	matcher    *CategoryMatcher
	clustering *ClusteringEngine
	extractor  *AttributeExtractor
	fallback   *FallbackClassifier
	embeddings *embeddingLoader
	decisions  domain.Cache[domain.CategoryMatch] // nil disables decision caching
	llm        domain.LLMCategorizer              // nil disables the LLM stage
	llmTimeout time.Duration
}

// NewConsolidationService creates a new consolidation service with dependencies.
// Caches and the LLM categorizer are optional and may be nil.
func NewConsolidationService(
	catalog []domain.ProductCategory,
	gateway domain.EmbeddingGateway,
	llm domain.LLMCategorizer,
	embeddingCache domain.Cache[[]float32],
	decisionCache domain.Cache[domain.CategoryMatch],
	config ConsolidationServiceConfig,
) *ConsolidationService {
	llmTimeout := config.LLMTimeout
	if llmTimeout <= 0 {
		llmTimeout = 20 * time.Second
	}

	return &ConsolidationService{
		matcher: NewCategoryMatcher(catalog, MatchConfig{
			ConfidenceThreshold: config.ConfidenceThreshold,
			EnableDebugLogging:  config.EnableDebugLogging,
		}),
		clustering: NewClusteringEngine(ClusteringConfig{
			SimilarityThreshold: config.SimilarityThreshold,
			EnableDebugLogging:  config.EnableDebugLogging,
		}),
		extractor:  NewAttributeExtractor(),
		fallback:   NewFallbackClassifier(),
		embeddings: newEmbeddingLoader(gateway, embeddingCache, config.Embedding),
		decisions:  decisionCache,
		llm:        llm,
		llmTimeout: llmTimeout,
	}
}

// Catalog returns the category catalog the service matches against
func (s *ConsolidationService) Catalog() []domain.ProductCategory {
	return s.matcher.Catalog()
}

// Consolidate assigns every product to exactly one CategoryResult. Only input errors are
// returned; upstream failures degrade to weaker strategies and show up in Source,
// FallbackUsed and Confidence.
func (s *ConsolidationService) Consolidate(ctx context.Context, products []domain.ProductVariant) ([]domain.CategoryResult, error) {
	if err := validateBatch(products); err != nil {
		return nil, err
	}

	runID := RunIDFromContext(ctx)
	start := time.Now()

	byID := make(map[string]domain.ProductVariant, len(products))
	ids := make([]string, len(products))
	for i, p := range products {
		byID[p.ID] = p
		ids[i] = p.ID
	}

	if s.llm != nil {
		results, err := s.categorizeWithLLM(ctx, products, byID)
		if err == nil {
			log.Printf("[CONSOLIDATE] run=%s products=%d results=%d source=llm took=%s",
				runID, len(products), len(results), time.Since(start))
			return sortResults(results), nil
		}
		log.Printf("[LLM] run=%s categorization failed, using heuristic matcher: %v", runID, err)
	}

	vectors, err := s.embeddings.Load(ctx, products)
	if err != nil {
		log.Printf("[EMBED] run=%s embedding retrieval failed, using singleton clusters and fallback rules: %v", runID, err)
		results := s.fallback.Classify(SingletonClusters(ids), byID)
		s.logRun(runID, len(products), results, start)
		return sortResults(results), nil
	}

	clusters, err := s.clustering.ClusterProducts(ids, vectors)
	if err != nil {
		log.Printf("[CLUSTER] run=%s clustering failed, using singleton clusters: %v", runID, err)
		clusters = SingletonClusters(ids)
	}

	results, err := s.matchClusters(clusters, byID)
	if err != nil {
		log.Printf("[MATCH] run=%s matching failed, using fallback rules: %v", runID, err)
		results = s.fallback.Classify(clusters, byID)
	}

	s.logRun(runID, len(products), results, start)
	return sortResults(results), nil
}

// matchClusters assigns a category to every cluster with the heuristic matcher
func (s *ConsolidationService) matchClusters(clusters []Cluster, byID map[string]domain.ProductVariant) ([]domain.CategoryResult, error) {
	results := make([]domain.CategoryResult, 0, len(clusters))

	for _, cluster := range clusters {
		members := make([]domain.ProductVariant, len(cluster))
		texts := make([]string, len(cluster))
		for i, id := range cluster {
			members[i] = byID[id]
			texts[i] = members[i].Text()
		}

		match, err := s.matchText(strings.Join(texts, " "))
		if err != nil {
			return nil, err
		}

		category, ok := s.matcher.Category(match.CategoryID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidCatalog, match.CategoryID)
		}

		confidence, err := s.matcher.ClusterConfidence(match, members)
		if err != nil {
			return nil, err
		}

		source := domain.SourceHeuristic
		if match.Pass == domain.PassDefault {
			source = domain.SourceDefault
		}

		results = append(results, domain.CategoryResult{
			Category:   category,
			Variants:   members,
			Confidence: confidence,
			Attributes: s.extractor.Extract(category, members),
			Source:     source,
		})
	}

	return results, nil
}

// matchText runs the matcher through the decision cache when one is configured
func (s *ConsolidationService) matchText(text string) (domain.CategoryMatch, error) {
	if s.decisions == nil {
		return s.matcher.MatchText(text)
	}
	return s.decisions.GetOrCompute("match:"+normalizeText(text), func() (domain.CategoryMatch, error) {
		return s.matcher.MatchText(text)
	})
}

// categorizeWithLLM asks the LLM collaborator for assignments and groups them by category.
// Any incomplete or inconsistent answer is rejected as a whole.
func (s *ConsolidationService) categorizeWithLLM(
	ctx context.Context,
	products []domain.ProductVariant,
	byID map[string]domain.ProductVariant,
) ([]domain.CategoryResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	assignments, err := s.llm.Categorize(callCtx, products, s.matcher.Catalog())
	if err != nil {
		return nil, err
	}
	if len(assignments) != len(products) {
		return nil, fmt.Errorf("%w: %d assignments for %d products", domain.ErrLLMSchema, len(assignments), len(products))
	}

	type group struct {
		category   domain.ProductCategory
		variants   []domain.ProductVariant
		confidence float64
	}
	var order []string
	groups := make(map[string]*group)
	assigned := make(map[string]bool, len(products))

	for _, a := range assignments {
		product, ok := byID[a.ProductID]
		if !ok || assigned[a.ProductID] {
			return nil, fmt.Errorf("%w: unexpected or repeated product %q", domain.ErrLLMSchema, a.ProductID)
		}
		category, ok := s.matcher.Category(a.CategoryID)
		if !ok {
			return nil, fmt.Errorf("%w: unknown category %q", domain.ErrLLMSchema, a.CategoryID)
		}
		if a.Confidence < 0 || a.Confidence > 1 {
			return nil, fmt.Errorf("%w: confidence %v out of range", domain.ErrLLMSchema, a.Confidence)
		}
		assigned[a.ProductID] = true

		g, exists := groups[a.CategoryID]
		if !exists {
			g = &group{category: category}
			groups[a.CategoryID] = g
			order = append(order, a.CategoryID)
		}
		g.variants = append(g.variants, product)
		g.confidence += a.Confidence
	}

	results := make([]domain.CategoryResult, 0, len(order))
	for _, id := range order {
		g := groups[id]
		results = append(results, domain.CategoryResult{
			Category:   g.category,
			Variants:   g.variants,
			Confidence: g.confidence / float64(len(g.variants)),
			Attributes: s.extractor.Extract(g.category, g.variants),
			Source:     domain.SourceLLM,
		})
	}
	return results, nil
}

func (s *ConsolidationService) logRun(runID string, products int, results []domain.CategoryResult, start time.Time) {
	fallback := false
	for _, r := range results {
		fallback = fallback || r.FallbackUsed
	}
	log.Printf("[CONSOLIDATE] run=%s products=%d results=%d fallback=%v took=%s",
		runID, products, len(results), fallback, time.Since(start))
}

// validateBatch rejects input-contract violations before any work starts
func validateBatch(products []domain.ProductVariant) error {
	if len(products) == 0 {
		return domain.ErrEmptyBatch
	}

	seen := make(map[string]bool, len(products))
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return fmt.Errorf("%w: product at index %d has no id", domain.ErrInvalidProduct, i)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: product %q has no name", domain.ErrInvalidProduct, p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: %q", domain.ErrDuplicateProduct, p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// sortResults orders by confidence, then category name, then first variant id
func sortResults(results []domain.CategoryResult) []domain.CategoryResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		if results[i].Category.Name != results[j].Category.Name {
			return results[i].Category.Name < results[j].Category.Name
		}
		return results[i].Variants[0].ID < results[j].Variants[0].ID
	})
	return results
}

type runIDKey struct{}

// ContextWithRunID attaches a run id used to correlate log lines
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the attached run id, or a fresh one
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
