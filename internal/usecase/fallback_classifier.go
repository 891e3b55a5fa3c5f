package usecase

import (
	"regexp"

	"github.com/exportlens/backend/internal/domain"
)

// fallbackConfidence is fixed for every regex-sourced assignment
const fallbackConfidence = 0.2

// fallbackRule assigns an ad-hoc category when its pattern matches a product name
type fallbackRule struct {
	category domain.ProductCategory
	pattern  *regexp.Regexp
}

// fallbackRules are evaluated in order; the first match wins
var fallbackRules = []fallbackRule{
	{
		category: domain.ProductCategory{ID: "fallback-beverages", Name: "Beverages"},
		pattern:  regexp.MustCompile(`(?i)\b(wines?|beers?|ales?|spirits?|whisk(e)?y|vodka|gin|rum|juices?|sodas?|coffee|teas?|water|drinks?|beverages?|lemonade|kombucha)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-dairy", Name: "Dairy"},
		pattern:  regexp.MustCompile(`(?i)\b(milk|cheeses?|yog(h)?urts?|butter|cream|kefir|ghee|dairy)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-meat-seafood", Name: "Meat & Seafood"},
		pattern:  regexp.MustCompile(`(?i)\b(beef|pork|chicken|lamb|mutton|turkey|ham|bacon|sausages?|fish|salmon|tuna|shrimps?|prawns?|crabs?|lobsters?|seafood|meat)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-bakery-cereals", Name: "Bakery & Cereals"},
		pattern:  regexp.MustCompile(`(?i)\b(bread|biscuits?|crackers?|cakes?|pastr(y|ies)|flour|rice|pasta|noodles|cereals?|oats|wheat)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-confectionery-snacks", Name: "Confectionery & Snacks"},
		pattern:  regexp.MustCompile(`(?i)\b(chocolates?|cand(y|ies)|sweets|toffee|gum|chips|crisps|snacks?|cookies?|nuts|almonds|cashews)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-fruits-vegetables", Name: "Fruits & Vegetables"},
		pattern:  regexp.MustCompile(`(?i)\b(fruits?|vegetables?|apples?|bananas?|mangoes|mangos?|oranges?|berr(y|ies)|tomato(es)?|potato(es)?|onions?|garlic|spinach|carrots?)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-leather-goods", Name: "Leather Goods"},
		pattern:  regexp.MustCompile(`(?i)\b(leather|wallets?|handbags?|belts?|purses?|suede)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-apparel-textiles", Name: "Apparel & Textiles"},
		pattern:  regexp.MustCompile(`(?i)\b(shirts?|t-shirts?|dress(es)?|jackets?|jeans|trousers|sweaters?|scarf|scarves|socks|cotton|silk|wool|fabric|textiles?)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-electronics", Name: "Electronics"},
		pattern:  regexp.MustCompile(`(?i)\b(phones?|smartphones?|laptops?|tablets?|chargers?|cables?|headphones|earbuds|speakers?|batter(y|ies)|electronics?)\b`),
	},
	{
		category: domain.ProductCategory{ID: "fallback-home-kitchen", Name: "Home & Kitchen"},
		pattern:  regexp.MustCompile(`(?i)\b(mugs?|cups?|plates?|bowls?|pans?|pots?|knives|knife|cutlery|towels?|candles?|furniture|chairs?|tables?)\b`),
	},
}

// otherCategory receives products no rule matches
var otherCategory = domain.ProductCategory{ID: "other", Name: "Other", Description: "Products without a rule match"}

// FallbackClassifier categorizes products by ordered regex rules on their names
type FallbackClassifier struct {
	rules []fallbackRule
	other domain.ProductCategory
}

// NewFallbackClassifier creates a classifier over the built-in rules
func NewFallbackClassifier() *FallbackClassifier {
	return &FallbackClassifier{rules: fallbackRules, other: otherCategory}
}

// ClassifyName returns the first rule category matching name and its rule position.
// Unmatched names get the Other category at position len(rules).
func (f *FallbackClassifier) ClassifyName(name string) (domain.ProductCategory, int) {
	for i, rule := range f.rules {
		if rule.pattern.MatchString(name) {
			return rule.category, i
		}
	}
	return f.other, len(f.rules)
}

// Classify produces one result per cluster. A cluster takes the category most of its
// members match; ties go to the category of the earliest member.
func (f *FallbackClassifier) Classify(clusters []Cluster, products map[string]domain.ProductVariant) []domain.CategoryResult {
	results := make([]domain.CategoryResult, 0, len(clusters))

	for _, cluster := range clusters {
		counts := make(map[int]int)
		categories := make(map[int]domain.ProductCategory)
		var firstSeen []int
		variants := make([]domain.ProductVariant, 0, len(cluster))

		for _, id := range cluster {
			product := products[id]
			variants = append(variants, product)
			category, pos := f.ClassifyName(product.Name)
			if _, seen := counts[pos]; !seen {
				firstSeen = append(firstSeen, pos)
			}
			counts[pos]++
			categories[pos] = category
		}

		winner := firstSeen[0]
		for _, pos := range firstSeen[1:] {
			if counts[pos] > counts[winner] {
				winner = pos
			}
		}

		results = append(results, domain.CategoryResult{
			Category:     categories[winner],
			Variants:     variants,
			Confidence:   fallbackConfidence,
			Attributes:   map[string]domain.AttributeValue{},
			Source:       domain.SourceFallback,
			FallbackUsed: true,
		})
	}

	return results
}
