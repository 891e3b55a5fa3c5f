package domain

import (
	"fmt"
	"strings"
)

// HSLevel is a depth in the Harmonized System hierarchy
type HSLevel string

const (
	LevelChapter    HSLevel = "chapter"    // 2 digits
	LevelHeading    HSLevel = "heading"    // 4 digits
	LevelSubheading HSLevel = "subheading" // 6 digits
)

// HSCode is one record of the HS catalog
type HSCode struct {
	Code        string   `json:"code" toml:"code"`
	Description string   `json:"description" toml:"description"`
	Level       HSLevel  `json:"level" toml:"-"`
	ParentCode  string   `json:"parentCode,omitempty" toml:"-"`
	Keywords    []string `json:"keywords,omitempty" toml:"keywords"`
}

// HSSuggestionRequest asks for HS codes for a product in a category
type HSSuggestionRequest struct {
	Category    string `json:"category" binding:"required"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// HasText reports whether the request carries any product text
func (r HSSuggestionRequest) HasText() bool {
	return strings.TrimSpace(r.Name) != "" || strings.TrimSpace(r.Description) != ""
}

// HSCodeSuggestion is a ranked HS code candidate
type HSCodeSuggestion struct {
	Code        string             `json:"code"`
	Description string             `json:"description"`
	Level       HSLevel            `json:"level"`
	Confidence  float64            `json:"confidence"`
	Children    []HSCodeSuggestion `json:"children,omitempty"`
}

// NormalizeHSCode strips separators such as "22.04" or "2204 21".
func NormalizeHSCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r == '.' || r == ' ' || r == '-' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LevelForCode derives the hierarchy level from a normalized code's length
func LevelForCode(code string) (HSLevel, error) {
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: HS code %q must be digits", ErrInvalidCatalog, code)
		}
	}
	switch len(code) {
	case 2:
		return LevelChapter, nil
	case 4:
		return LevelHeading, nil
	case 6:
		return LevelSubheading, nil
	default:
		return "", fmt.Errorf("%w: HS code %q must have 2, 4 or 6 digits", ErrInvalidCatalog, code)
	}
}

// ParentHSCode returns the code one level up, or "" for chapters
func ParentHSCode(code string) string {
	if len(code) <= 2 {
		return ""
	}
	return code[:len(code)-2]
}

// ValidateHSCodes normalizes codes in place, fills level and parent, and checks
// that every non-chapter code has its parent somewhere in the set.
func ValidateHSCodes(codes []HSCode) error {
	known := make(map[string]bool, len(codes))
	for i := range codes {
		code := NormalizeHSCode(codes[i].Code)
		level, err := LevelForCode(code)
		if err != nil {
			return err
		}
		if known[code] {
			return fmt.Errorf("%w: duplicate HS code %q", ErrInvalidCatalog, code)
		}
		if strings.TrimSpace(codes[i].Description) == "" {
			return fmt.Errorf("%w: HS code %q has no description", ErrInvalidCatalog, code)
		}
		known[code] = true
		codes[i].Code = code
		codes[i].Level = level
		codes[i].ParentCode = ParentHSCode(code)
	}
	for _, c := range codes {
		if c.ParentCode != "" && !known[c.ParentCode] {
			return fmt.Errorf("%w: HS code %q has no parent %q", ErrInvalidCatalog, c.Code, c.ParentCode)
		}
	}
	return nil
}
