package usecase

import (
	"strings"

	"github.com/exportlens/backend/internal/domain"
)

// vocabEntry is a candidate attribute value and the terms that signal it
type vocabEntry struct {
	value string
	terms []string
}

// attributeVocabulary holds the fixed candidate values per known attribute, in priority order.
// Keys are attribute names with separators removed.
var attributeVocabulary = map[string][]vocabEntry{
	"mainingredient": {
		{"grape", []string{"wine", "grape", "cabernet", "merlot", "chardonnay", "pinot", "sauvignon", "shiraz", "malbec"}},
		{"cocoa", []string{"chocolate", "cocoa", "cacao"}},
		{"coffee", []string{"coffee", "espresso", "arabica", "robusta"}},
		{"tea", []string{"tea", "matcha", "chai"}},
		{"milk", []string{"milk", "cheese", "yogurt", "butter", "cream", "dairy"}},
		{"beef", []string{"beef", "steak", "veal"}},
		{"chicken", []string{"chicken", "poultry"}},
		{"pork", []string{"pork", "ham", "bacon", "sausage"}},
		{"fish", []string{"fish", "salmon", "tuna", "cod", "sardine", "anchovy"}},
		{"shellfish", []string{"shrimp", "prawn", "crab", "lobster", "mussel", "oyster"}},
		{"wheat", []string{"wheat", "flour", "bread", "pasta", "noodles", "biscuit"}},
		{"rice", []string{"rice", "basmati", "jasmine"}},
		{"corn", []string{"corn", "maize", "tortilla"}},
		{"soy", []string{"soy", "soya", "tofu", "edamame"}},
		{"fruit", []string{"apple", "mango", "banana", "orange", "berry", "strawberry", "pineapple", "lemon"}},
		{"vegetable", []string{"tomato", "potato", "onion", "carrot", "spinach", "pepper", "broccoli"}},
		{"sugar", []string{"sugar", "candy", "honey", "syrup"}},
		{"nuts", []string{"almond", "cashew", "peanut", "walnut", "pistachio", "hazelnut"}},
		{"olive", []string{"olive"}},
		{"leather", []string{"leather", "suede"}},
		{"cotton", []string{"cotton"}},
	},
	"preparationmethod": {
		{"fermented", []string{"fermented", "aged", "brewed", "wine", "beer", "kimchi", "vinegar"}},
		{"smoked", []string{"smoked"}},
		{"roasted", []string{"roasted", "toasted"}},
		{"dried", []string{"dried", "dehydrated", "powder", "powdered"}},
		{"frozen", []string{"frozen"}},
		{"canned", []string{"canned", "tinned", "preserved"}},
		{"pickled", []string{"pickled", "brined"}},
		{"baked", []string{"baked"}},
		{"fried", []string{"fried"}},
		{"cooked", []string{"cooked", "boiled", "steamed", "grilled"}},
		{"fresh", []string{"fresh", "raw"}},
	},
	"storagetype": {
		{"frozen", []string{"frozen", "freezer"}},
		{"chilled", []string{"chilled", "refrigerated", "fresh", "milk", "yogurt", "cheese"}},
		{"ambient", []string{"shelf stable", "ambient", "dried", "canned", "wine", "coffee", "tea", "chocolate", "leather"}},
	},
}

// AttributeExtractor derives representative attribute values for a group of products
type AttributeExtractor struct {
	vocabulary map[string][]vocabEntry
}

// NewAttributeExtractor creates an extractor over the built-in vocabulary
func NewAttributeExtractor() *AttributeExtractor {
	return &AttributeExtractor{vocabulary: attributeVocabulary}
}

// Extract returns a value for each attribute the category declares, chosen by plurality
// over members. Explicit values on a product beat inferred ones. Attributes without a
// clear winner are left out.
func (x *AttributeExtractor) Extract(category domain.ProductCategory, members []domain.ProductVariant) map[string]domain.AttributeValue {
	attributes := make(map[string]domain.AttributeValue)

	for _, def := range category.AttributeDefinitions {
		counts := make(map[string]int)
		values := make(map[string]domain.AttributeValue)

		for _, member := range members {
			value, ok := x.guess(def, member)
			if !ok {
				continue
			}
			key := value.Key()
			counts[key]++
			if _, seen := values[key]; !seen {
				values[key] = value
			}
		}

		if winner, ok := plurality(counts); ok {
			attributes[def.Name] = values[winner]
		}
	}

	return attributes
}

// guess returns the member's explicit value for def, or an inferred one from its text
func (x *AttributeExtractor) guess(def domain.AttributeDefinition, member domain.ProductVariant) (domain.AttributeValue, bool) {
	if explicit, ok := member.Attributes[def.Name]; ok && explicit.Kind == def.Type && !explicit.IsZero() {
		if def.Type != domain.AttributeString || allowed(def, explicit.Str) {
			return explicit, true
		}
	}

	if def.Type != domain.AttributeString {
		return domain.AttributeValue{}, false
	}

	entries := x.vocabulary[vocabularyKey(def.Name)]
	if len(entries) == 0 {
		return domain.AttributeValue{}, false
	}

	text := " " + normalizeText(member.Text()) + " "
	for _, entry := range entries {
		if !allowed(def, entry.value) {
			continue
		}
		for _, term := range entry.terms {
			if strings.Contains(text, " "+term+" ") {
				return domain.StringValue(entry.value), true
			}
		}
	}
	return domain.AttributeValue{}, false
}

// plurality returns the single most frequent key; ties yield no winner
func plurality(counts map[string]int) (string, bool) {
	best, bestCount, tied := "", 0, false
	for key, count := range counts {
		switch {
		case count > bestCount:
			best, bestCount, tied = key, count, false
		case count == bestCount:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return "", false
	}
	return best, true
}

func allowed(def domain.AttributeDefinition, value string) bool {
	if len(def.AllowedValues) == 0 {
		return true
	}
	for _, v := range def.AllowedValues {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func vocabularyKey(name string) string {
	key := strings.ToLower(name)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	return strings.ReplaceAll(key, " ", "")
}
