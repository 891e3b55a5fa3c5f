package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/exportlens/backend/internal/domain"
)

const (
	defaultHSConfidenceThreshold = 0.3
	defaultPreferredChapterBoost = 0.15
	defaultMaxSuggestions        = 5
	hintChapterConfidence        = 0.5 // Chapter suggested purely from the category's hints
	fallbackChapterCount         = 3
)

// HSCodeServiceConfig holds configuration for HS code suggestions
type HSCodeServiceConfig struct {
	ConfidenceThreshold   float64
	PreferredChapterBoost float64
	MaxSuggestions        int
	EnableDebugLogging    bool
}

// hsProfile is the pre-tokenized matching target for one HS code
type hsProfile struct {
	code   domain.HSCode
	tokens tokenSet
}

// hsIndex is the scored view of the HS hierarchy, built once from the repository
type hsIndex struct {
	byCode     map[string]domain.HSCode
	chapters   []hsProfile
	candidates []hsProfile // headings and subheadings
}

// HSCodeService suggests HS codes for products and navigates the code hierarchy
type HSCodeService struct {
	repo    domain.HSCodeRepository
	catalog []domain.ProductCategory
	cache   domain.Cache[[]domain.HSCodeSuggestion] // nil disables caching

	confidenceThreshold   float64
	preferredChapterBoost float64
	maxSuggestions        int
	enableDebugLogging    bool

	mu    sync.Mutex
	index *hsIndex
}

// NewHSCodeService creates a new HS code service with dependencies
func NewHSCodeService(
	repo domain.HSCodeRepository,
	catalog []domain.ProductCategory,
	cache domain.Cache[[]domain.HSCodeSuggestion],
	config HSCodeServiceConfig,
) *HSCodeService {
	threshold := config.ConfidenceThreshold
	if threshold <= 0 {
		threshold = defaultHSConfidenceThreshold
	}
	boost := config.PreferredChapterBoost
	if boost <= 0 {
		boost = defaultPreferredChapterBoost
	}
	maxSuggestions := config.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = defaultMaxSuggestions
	}

	return &HSCodeService{
		repo:                  repo,
		catalog:               catalog,
		cache:                 cache,
		confidenceThreshold:   threshold,
		preferredChapterBoost: boost,
		maxSuggestions:        maxSuggestions,
		enableDebugLogging:    config.EnableDebugLogging,
	}
}

// GetSuggestedHSCodes ranks HS codes for a product in a category, best first.
// Without product text only the category's hint chapters are returned.
func (s *HSCodeService) GetSuggestedHSCodes(ctx context.Context, req domain.HSSuggestionRequest) ([]domain.HSCodeSuggestion, error) {
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", domain.ErrInvalidRequest)
	}

	category, ok := s.resolveCategory(req.Category)
	if !ok {
		log.Printf("[HS] unknown category %q", req.Category)
		return []domain.HSCodeSuggestion{}, nil
	}

	compute := func() ([]domain.HSCodeSuggestion, error) {
		if !req.HasText() {
			return s.hintChapters(ctx, category)
		}
		return s.suggest(ctx, category, req.Name+" "+req.Description)
	}

	var suggestions []domain.HSCodeSuggestion
	var err error
	if s.cache != nil {
		key := fmt.Sprintf("hs:suggest:%s:%s", category.ID, normalizeText(req.Name+" "+req.Description))
		suggestions, err = s.cache.GetOrCompute(key, compute)
		suggestions = cloneSuggestions(suggestions)
	} else {
		suggestions, err = compute()
	}

	if err != nil {
		// Degraded answers are not cached, the next request retries the store
		log.Printf("[HS] data unavailable for %q, returning hint chapters: %v", category.ID, err)
		return bareChapters(category), nil
	}
	return suggestions, nil
}

// GetChildren returns the codes one level below code. Unknown codes, leaves and
// store errors all yield an empty list.
func (s *HSCodeService) GetChildren(ctx context.Context, code string) []domain.HSCodeSuggestion {
	code = domain.NormalizeHSCode(code)
	if _, err := domain.LevelForCode(code); err != nil {
		return []domain.HSCodeSuggestion{}
	}

	compute := func() ([]domain.HSCodeSuggestion, error) {
		children, err := s.repo.Children(ctx, code)
		if err != nil {
			return nil, err
		}
		out := make([]domain.HSCodeSuggestion, len(children))
		for i, c := range children {
			out[i] = domain.HSCodeSuggestion{Code: c.Code, Description: c.Description, Level: c.Level, Confidence: 1}
		}
		return out, nil
	}

	var children []domain.HSCodeSuggestion
	var err error
	if s.cache != nil {
		children, err = s.cache.GetOrCompute("hs:children:"+code, compute)
		children = cloneSuggestions(children)
	} else {
		children, err = compute()
	}

	if err != nil {
		log.Printf("[HS] children of %q unavailable: %v", code, err)
		return []domain.HSCodeSuggestion{}
	}
	if children == nil {
		return []domain.HSCodeSuggestion{}
	}
	return children
}

// suggest scores headings and subheadings against text
func (s *HSCodeService) suggest(ctx context.Context, category domain.ProductCategory, text string) ([]domain.HSCodeSuggestion, error) {
	idx, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}

	input := newTokenSet(text)
	preferred := make(map[string]bool)
	for _, ch := range category.Chapters() {
		preferred[ch] = true
	}

	var scored []domain.HSCodeSuggestion
	rank := make(map[string]float64) // uncapped score, so the boost still orders capped ties
	for _, p := range idx.candidates {
		raw := weightedContainment(input, p.tokens)
		if raw == 0 {
			continue
		}
		score := raw
		if preferred[p.code.Code[:2]] {
			score += s.preferredChapterBoost
		}
		rank[p.code.Code] = score
		score = clamp(score, 0, heuristicConfidenceCeiling)

		if s.enableDebugLogging {
			log.Printf("[HS] %q vs %s | raw %.3f | score %.3f | Matched: %v",
				text, p.code.Code, raw, score, matchedTokens(input, p.tokens))
		}
		if score < s.confidenceThreshold {
			continue
		}
		scored = append(scored, domain.HSCodeSuggestion{
			Code:        p.code.Code,
			Description: p.code.Description,
			Level:       p.code.Level,
			Confidence:  score,
		})
	}

	if len(scored) == 0 {
		return s.fallbackChapters(idx, category, input), nil
	}

	sortByRank(scored, rank)
	return s.nest(scored, rank), nil
}

// nest moves subheadings under their heading when that heading was also suggested
func (s *HSCodeService) nest(scored []domain.HSCodeSuggestion, rank map[string]float64) []domain.HSCodeSuggestion {
	headings := make(map[string]int)
	var top []domain.HSCodeSuggestion
	for _, sug := range scored {
		if sug.Level == domain.LevelHeading {
			headings[sug.Code] = len(top)
			top = append(top, sug)
		}
	}

	// scored is sorted, so children stay sorted and top-level subheadings keep rank
	var merged []domain.HSCodeSuggestion
	for _, sug := range scored {
		if sug.Level != domain.LevelSubheading {
			continue
		}
		if i, ok := headings[domain.ParentHSCode(sug.Code)]; ok {
			top[i].Children = append(top[i].Children, sug)
			continue
		}
		merged = append(merged, sug)
	}

	top = append(top, merged...)
	sortByRank(top, rank)
	if len(top) > s.maxSuggestions {
		top = top[:s.maxSuggestions]
	}
	return top
}

// fallbackChapters answers at chapter level: the category's hint chapters, or the
// best-scoring chapters when the category has no hints
func (s *HSCodeService) fallbackChapters(idx *hsIndex, category domain.ProductCategory, input tokenSet) []domain.HSCodeSuggestion {
	if hints := category.Chapters(); len(hints) > 0 {
		out := make([]domain.HSCodeSuggestion, 0, len(hints))
		for _, ch := range hints {
			out = append(out, domain.HSCodeSuggestion{
				Code:        ch,
				Description: idx.byCode[ch].Description,
				Level:       domain.LevelChapter,
				Confidence:  hintChapterConfidence,
			})
		}
		return out
	}

	var out []domain.HSCodeSuggestion
	for _, p := range idx.chapters {
		if score := weightedContainment(input, p.tokens); score > 0 {
			out = append(out, domain.HSCodeSuggestion{
				Code:        p.code.Code,
				Description: p.code.Description,
				Level:       domain.LevelChapter,
				Confidence:  clamp(score, 0, heuristicConfidenceCeiling),
			})
		}
	}
	sortSuggestions(out)
	if len(out) > fallbackChapterCount {
		out = out[:fallbackChapterCount]
	}
	if out == nil {
		return []domain.HSCodeSuggestion{}
	}
	return out
}

// hintChapters looks up the category's hint chapters one by one, never touching the index
func (s *HSCodeService) hintChapters(ctx context.Context, category domain.ProductCategory) ([]domain.HSCodeSuggestion, error) {
	out := []domain.HSCodeSuggestion{}
	for _, ch := range category.Chapters() {
		code, err := s.repo.Get(ctx, ch)
		if errors.Is(err, domain.ErrHSCodeNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, domain.HSCodeSuggestion{
			Code:        code.Code,
			Description: code.Description,
			Level:       domain.LevelChapter,
			Confidence:  hintChapterConfidence,
		})
	}
	return out, nil
}

// loadIndex builds the index on first use; failures are retried on the next call
func (s *HSCodeService) loadIndex(ctx context.Context) (*hsIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index, nil
	}

	codes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := &hsIndex{byCode: make(map[string]domain.HSCode, len(codes))}
	for _, c := range codes {
		idx.byCode[c.Code] = c
	}
	for _, c := range codes {
		texts := append([]string{c.Description}, c.Keywords...)
		if chapter, ok := idx.byCode[c.Code[:2]]; ok && c.Level != domain.LevelChapter {
			texts = append(texts, chapter.Description)
		}
		p := hsProfile{code: c, tokens: newTokenSet(texts...)}
		if c.Level == domain.LevelChapter {
			idx.chapters = append(idx.chapters, p)
		} else {
			idx.candidates = append(idx.candidates, p)
		}
	}

	log.Printf("[HS] index loaded: %d chapters, %d headings and subheadings", len(idx.chapters), len(idx.candidates))
	s.index = idx
	return idx, nil
}

func (s *HSCodeService) resolveCategory(ref string) (domain.ProductCategory, bool) {
	for _, c := range s.catalog {
		if c.Matches(ref) {
			return c, true
		}
	}
	return domain.ProductCategory{}, false
}

// bareChapters lists hint chapters without store data
func bareChapters(category domain.ProductCategory) []domain.HSCodeSuggestion {
	out := []domain.HSCodeSuggestion{}
	for _, ch := range category.Chapters() {
		out = append(out, domain.HSCodeSuggestion{Code: ch, Level: domain.LevelChapter, Confidence: hintChapterConfidence})
	}
	return out
}

// cloneSuggestions deep-copies cached suggestions so callers never share backing arrays
func cloneSuggestions(in []domain.HSCodeSuggestion) []domain.HSCodeSuggestion {
	if in == nil {
		return nil
	}
	out := make([]domain.HSCodeSuggestion, len(in))
	for i, sug := range in {
		out[i] = sug
		out[i].Children = cloneSuggestions(sug.Children)
	}
	return out
}

func sortSuggestions(s []domain.HSCodeSuggestion) {
	sortByRank(s, nil)
}

// sortByRank orders by rank, falling back to confidence for codes without one, then by code
func sortByRank(s []domain.HSCodeSuggestion, rank map[string]float64) {
	score := func(sug domain.HSCodeSuggestion) float64 {
		if r, ok := rank[sug.Code]; ok {
			return r
		}
		return sug.Confidence
	}
	sort.SliceStable(s, func(i, j int) bool {
		if si, sj := score(s[i]), score(s[j]); si != sj {
			return si > sj
		}
		return s[i].Code < s[j].Code
	})
}
