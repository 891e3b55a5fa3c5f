package usecase

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Package-level compiled regex patterns for performance
var (
	punctuationRegex    = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// stopWords includes basic English stop words plus listing noise (units, packaging, marketing)
var stopWords = map[string]bool{
	// Basic English stop words
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "with": true, "by": true, "from": true, "is": true,
	"it": true, "as": true, "be": true, "was": true, "are": true,
	"other": true, "not": true, "than": true, "whether": true,
	// Size/quantity units
	"oz": true, "fl": true, "lb": true, "lbs": true, "ml": true,
	"liter": true, "liters": true, "gram": true, "grams": true, "kg": true,
	// Packaging terms
	"pack": true, "count": true, "ct": true, "pk": true,
	// Marketing/generic terms
	"new": true, "premium": true, "quality": true, "best": true,
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words, single-character and pure numeric tokens.
func tokenize(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	words := strings.Fields(cleaned)

	var tokens []string
	for _, word := range words {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if stopWords[word] {
			continue
		}
		if isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}

	return tokens
}

// normalizeText lowercases, strips punctuation and collapses whitespace.
// Used for cache keys and substring vocabulary lookups.
func normalizeText(s string) string {
	result := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

// tokenSet maps each distinct token to its weight
type tokenSet map[string]float64

// tokenWeight favors longer tokens as a proxy for specificity
func tokenWeight(token string) float64 {
	return float64(utf8.RuneCountInString(token))
}

// newTokenSet tokenizes every text into one weighted set
func newTokenSet(texts ...string) tokenSet {
	set := make(tokenSet)
	for _, text := range texts {
		for _, token := range tokenize(text) {
			set[token] = tokenWeight(token)
		}
	}
	return set
}

// weightedJaccard returns the weighted intersection divided by the weighted union
func weightedJaccard(a, b tokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var intersection, union float64
	for token, weight := range a {
		union += weight
		if _, ok := b[token]; ok {
			intersection += weight
		}
	}
	for token, weight := range b {
		if _, ok := a[token]; !ok {
			union += weight
		}
	}

	if union == 0 {
		return 0
	}
	return intersection / union
}

// weightedContainment returns the share of a's token weight also present in b.
// Unlike Jaccard it does not penalize long targets.
func weightedContainment(a, b tokenSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var found, total float64
	for token, weight := range a {
		total += weight
		if _, ok := b[token]; ok {
			found += weight
		}
	}

	if total == 0 {
		return 0
	}
	return found / total
}

// matchedTokens lists the tokens of a present in b, in sorted order
func matchedTokens(a, b tokenSet) []string {
	var matched []string
	for token := range a {
		if _, ok := b[token]; ok {
			matched = append(matched, token)
		}
	}
	sort.Strings(matched)
	return matched
}

// fuzzyContainment returns the share of name-token weight found in text, allowing
// small edit distances on longer tokens
func fuzzyContainment(nameTokens []string, text tokenSet, maxEdit int) float64 {
	if len(nameTokens) == 0 || len(text) == 0 {
		return 0
	}

	var total, found float64
	for _, nameToken := range nameTokens {
		weight := tokenWeight(nameToken)
		total += weight
		if _, ok := text[nameToken]; ok {
			found += weight
			continue
		}
		for textToken := range text {
			if fuzzyTokenMatch(nameToken, textToken, maxEdit) {
				found += weight
				break
			}
		}
	}

	if total == 0 {
		return 0
	}
	return found / total
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Only apply fuzzy matching to tokens >= 4 chars to avoid false positives
	if len(token1) < 4 || len(token2) < 4 {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len(token1) - len(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
