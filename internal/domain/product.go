package domain

// ProductVariant is a raw product listing supplied by an exporter.
// The engine only reads it.
type ProductVariant struct {
	ID          string                    `json:"id" toml:"id"`
	Name        string                    `json:"name" toml:"name"`
	Description string                    `json:"description,omitempty" toml:"description"`
	Category    string                    `json:"category,omitempty" toml:"category"`
	Attributes  map[string]AttributeValue `json:"attributes,omitempty" toml:"-"`
}

// Text returns the combined name and description used for embedding and matching.
func (p ProductVariant) Text() string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + " " + p.Description
}

// MatchSource records which strategy produced a category assignment
type MatchSource string

const (
	SourceHeuristic MatchSource = "heuristic"
	SourceDefault   MatchSource = "default"
	SourceLLM       MatchSource = "llm"
	SourceFallback  MatchSource = "fallback"
)

// CategoryResult is one consolidated group of variants assigned to a category
type CategoryResult struct {
	Category     ProductCategory           `json:"category"`
	Variants     []ProductVariant          `json:"variants"`
	Confidence   float64                   `json:"confidence"` // 0-1
	Attributes   map[string]AttributeValue `json:"attributes"`
	Source       MatchSource               `json:"source"`
	FallbackUsed bool                      `json:"fallbackUsed"`
}

// MatchPass identifies which scoring pass selected a category
type MatchPass string

const (
	PassPrimary MatchPass = "primary"
	PassFuzzy   MatchPass = "fuzzy"
	PassDefault MatchPass = "default"
)

// CategoryMatch is a cached category decision for a cluster's aggregate text
type CategoryMatch struct {
	CategoryID string    `json:"categoryId"`
	Score      float64   `json:"score"`
	Pass       MatchPass `json:"pass"`
}

// LLMAssignment is one validated product assignment returned by the LLM categorizer
type LLMAssignment struct {
	ProductID  string  `json:"productId"`
	CategoryID string  `json:"categoryId"`
	Confidence float64 `json:"confidence"`
}
