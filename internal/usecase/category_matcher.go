package usecase

import (
	"fmt"
	"log"
	"sort"

	"github.com/exportlens/backend/internal/domain"
)

// Scoring parameters. They shape confidence but carry no calibrated meaning.
const (
	defaultConfidenceThreshold = 0.6
	defaultMatchConfidence     = 0.1  // Confidence for the catalog default entry
	fuzzyConfidenceFactor      = 0.6  // Name-only matches count for 60% of their containment
	clusterSizeBonusStep       = 0.05 // Per extra cluster member
	clusterSizeBonusMax        = 0.15
	heuristicConfidenceCeiling = 0.95 // Heuristic matching never claims certainty
	fuzzyEditDistance          = 1
)

// MatchConfig holds configuration for the category matcher
type MatchConfig struct {
	ConfidenceThreshold float64
	EnableDebugLogging  bool
}

// CategoryScore is one ranked catalog candidate
type CategoryScore struct {
	Category domain.ProductCategory
	Score    float64
	order    int
}

// categoryProfile is the pre-tokenized matching target for one catalog entry
type categoryProfile struct {
	category domain.ProductCategory
	tokens   tokenSet
	names    [][]string // name and each alternate name, tokenized
}

// CategoryMatcher scores text against a category catalog using weighted token overlap
type CategoryMatcher struct {
	profiles            []categoryProfile
	byID                map[string]int
	confidenceThreshold float64
	enableDebugLogging  bool
}

// NewCategoryMatcher creates a matcher over a validated catalog
func NewCategoryMatcher(catalog []domain.ProductCategory, config MatchConfig) *CategoryMatcher {
	threshold := config.ConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultConfidenceThreshold
	}

	m := &CategoryMatcher{
		profiles:            make([]categoryProfile, len(catalog)),
		byID:                make(map[string]int, len(catalog)),
		confidenceThreshold: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}

	for i, c := range catalog {
		texts := []string{c.Name, c.Description}
		texts = append(texts, c.Keywords...)
		texts = append(texts, c.Examples...)
		texts = append(texts, c.AlternateNames...)

		names := [][]string{tokenize(c.Name)}
		for _, alt := range c.AlternateNames {
			names = append(names, tokenize(alt))
		}

		m.profiles[i] = categoryProfile{category: c, tokens: newTokenSet(texts...), names: names}
		m.byID[c.ID] = i
	}

	return m
}

// Catalog returns the catalog entries in their original order
func (m *CategoryMatcher) Catalog() []domain.ProductCategory {
	out := make([]domain.ProductCategory, len(m.profiles))
	for i, p := range m.profiles {
		out[i] = p.category
	}
	return out
}

// Category looks up a catalog entry by id
func (m *CategoryMatcher) Category(id string) (domain.ProductCategory, bool) {
	idx, ok := m.byID[id]
	if !ok {
		return domain.ProductCategory{}, false
	}
	return m.profiles[idx].category, true
}

// Rank scores text against every catalog profile, best first.
// Ties resolve by priority, then catalog order.
func (m *CategoryMatcher) Rank(text string) []CategoryScore {
	input := newTokenSet(text)
	scores := make([]CategoryScore, len(m.profiles))
	for i, p := range m.profiles {
		scores[i] = CategoryScore{Category: p.category, Score: weightedJaccard(input, p.tokens), order: i}
		if m.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q | Score: %.3f | Matched: %v",
				text, p.category.ID, scores[i].Score, matchedTokens(input, p.tokens))
		}
	}
	sortScores(scores)
	return scores
}

// RankByName scores text against catalog names and alternate names only
func (m *CategoryMatcher) RankByName(text string) []CategoryScore {
	input := newTokenSet(text)
	scores := make([]CategoryScore, len(m.profiles))
	for i, p := range m.profiles {
		scores[i] = CategoryScore{Category: p.category, Score: m.nameScore(p, input), order: i}
	}
	sortScores(scores)
	return scores
}

// MatchText picks a category for text. The primary overlap pass is tried first, then a
// name-only fuzzy pass, and finally the catalog's first entry as an explicit default.
func (m *CategoryMatcher) MatchText(text string) (domain.CategoryMatch, error) {
	if len(m.profiles) == 0 {
		return domain.CategoryMatch{}, domain.ErrEmptyCatalog
	}

	cutoff := m.confidenceThreshold / 2

	if ranked := m.Rank(text); ranked[0].Score >= cutoff {
		return domain.CategoryMatch{CategoryID: ranked[0].Category.ID, Score: ranked[0].Score, Pass: domain.PassPrimary}, nil
	}

	if ranked := m.RankByName(text); ranked[0].Score >= cutoff {
		return domain.CategoryMatch{CategoryID: ranked[0].Category.ID, Score: ranked[0].Score, Pass: domain.PassFuzzy}, nil
	}

	if m.enableDebugLogging {
		log.Printf("[MATCH] %q: no candidate above %.2f, using default %q", text, cutoff, m.profiles[0].category.ID)
	}
	return domain.CategoryMatch{CategoryID: m.profiles[0].category.ID, Pass: domain.PassDefault}, nil
}

// MemberScore scores one product against the category chosen by match, under the same pass
func (m *CategoryMatcher) MemberScore(match domain.CategoryMatch, product domain.ProductVariant) (float64, error) {
	idx, ok := m.byID[match.CategoryID]
	if !ok {
		return 0, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidCatalog, match.CategoryID)
	}
	p := m.profiles[idx]
	input := newTokenSet(product.Text())

	switch match.Pass {
	case domain.PassPrimary:
		return weightedJaccard(input, p.tokens), nil
	case domain.PassFuzzy:
		return m.nameScore(p, input) * fuzzyConfidenceFactor, nil
	default:
		return defaultMatchConfidence, nil
	}
}

// ClusterConfidence is the mean member score plus a bounded bonus for cluster size,
// capped below certainty. Default assignments keep the fixed default confidence.
func (m *CategoryMatcher) ClusterConfidence(match domain.CategoryMatch, members []domain.ProductVariant) (float64, error) {
	if match.Pass == domain.PassDefault || len(members) == 0 {
		return defaultMatchConfidence, nil
	}

	var total float64
	for _, member := range members {
		score, err := m.MemberScore(match, member)
		if err != nil {
			return 0, err
		}
		total += score
	}
	mean := total / float64(len(members))

	bonus := clusterSizeBonusStep * float64(len(members)-1)
	if bonus > clusterSizeBonusMax {
		bonus = clusterSizeBonusMax
	}

	return clamp(mean+bonus, 0, heuristicConfidenceCeiling), nil
}

// nameScore is the best fuzzy containment over the name and alternate names
func (m *CategoryMatcher) nameScore(p categoryProfile, input tokenSet) float64 {
	best := 0.0
	for _, name := range p.names {
		if score := fuzzyContainment(name, input, fuzzyEditDistance); score > best {
			best = score
		}
	}
	return best
}

func sortScores(scores []CategoryScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].Category.Priority != scores[j].Category.Priority {
			return scores[i].Category.Priority > scores[j].Category.Priority
		}
		return scores[i].order < scores[j].order
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
