package usecase

import (
	"log"
	"regexp"
	"strings"
)

// ListingCleaner strips marketplace noise from listing text before it is embedded,
// so "Malbec 750ml, 6 pack" and "Malbec 1.5 L" land near each other.
type ListingCleaner struct {
	enableDebugLogging bool
}

var (
	// "750ml", "12 fl oz", "1.5 liter", "2 lb", "500 g"
	sizeQuantityPattern = regexp.MustCompile(`(?i)\b\d+([.,]\d+)?\s*(fl\s*)?(oz|ounces?|lbs?|pounds?|ml|cl|l|liters?|litres?|gallons?|kg|grams?|g)\b`)

	// "6 pack", "pack of 6", "6-pack", "24 count", "12 bottles"
	packCountPattern = regexp.MustCompile(`(?i)\b\d+[-\s]*(pack|pk|count|ct|pcs)\b|\bpack\s*of\s*\d+\b|\b\d+\s*(cans?|bottles?|pouches?|bars?|pieces?)\b`)

	// Lone numbers left at either end, e.g. "Malbec, 2021 -"
	standaloneNumberPattern = regexp.MustCompile(`[,\-]\s*\d+([.,]\d+)?\s*$|^\d+([.,]\d+)?\s*[,\-]`)

	orphanedPunctuationPattern = regexp.MustCompile(`\s+[,\-;:|/]+\s+`)
	edgePunctuationPattern     = regexp.MustCompile(`^[\s,\-;:|/]+|[\s,\-;:|/]+$`)
)

// listingNoiseWords carry no product identity: marketing, size and packaging words
var listingNoiseWords = map[string]bool{
	// Marketing terms
	"value": true, "bonus": true, "new": true, "improved": true, "premium": true,
	"select": true, "quality": true, "best": true, "great": true, "special": true,
	"sale": true, "offer": true, "deal": true, "bestseller": true, "free": true,
	"shipping": true, "genuine": true, "original": true, "authentic": true,

	// Size descriptors
	"size": true, "large": true, "medium": true, "small": true, "mini": true,
	"jumbo": true, "giant": true, "single": true, "double": true,

	// Packaging terms
	"package": true, "box": true, "bag": true, "carton": true, "sleeve": true,
	"pouch": true, "tube": true, "set": true,
}

// NewListingCleaner creates a new listing cleaner
func NewListingCleaner(enableDebugLogging bool) *ListingCleaner {
	return &ListingCleaner{
		enableDebugLogging: enableDebugLogging,
	}
}

// Clean lowercases text and removes sizes, pack counts and noise words.
// Returns the trimmed input unchanged when cleaning would leave nothing.
func (c *ListingCleaner) Clean(text string) string {
	original := strings.TrimSpace(text)
	if original == "" {
		return ""
	}

	cleaned := sizeQuantityPattern.ReplaceAllString(original, " ")
	cleaned = packCountPattern.ReplaceAllString(cleaned, " ")
	cleaned = standaloneNumberPattern.ReplaceAllString(cleaned, " ")
	cleaned = removeNoiseWords(cleaned)
	cleaned = orphanedPunctuationPattern.ReplaceAllString(cleaned, " ")
	cleaned = edgePunctuationPattern.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(cleaned, " "))

	if cleaned == "" {
		cleaned = strings.ToLower(original)
	}

	if c.enableDebugLogging {
		log.Printf("[EMBED] cleaned %q -> %q", original, cleaned)
	}
	return cleaned
}

func removeNoiseWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	kept := make([]string, 0, len(words))

	for _, word := range words {
		if !listingNoiseWords[strings.Trim(word, ",.!?;:-'\"")] {
			kept = append(kept, word)
		}
	}

	return strings.Join(kept, " ")
}
