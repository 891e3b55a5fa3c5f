package domain

import (
	"fmt"
	"strings"
)

// AttributeType is the declared type of a category attribute
type AttributeType string

const (
	AttributeString  AttributeType = "string"
	AttributeNumber  AttributeType = "number"
	AttributeBoolean AttributeType = "boolean"
	AttributeArray   AttributeType = "array"
)

// AttributeDefinition declares an attribute the extractor should try to populate
type AttributeDefinition struct {
	Name          string        `json:"name" toml:"name"`
	DisplayName   string        `json:"displayName" toml:"display_name"`
	Type          AttributeType `json:"type" toml:"type"`
	Required      bool          `json:"required" toml:"required"`
	AllowedValues []string      `json:"allowedValues,omitempty" toml:"allowed_values"`
}

// ProductCategory is a read-only catalog entry used as a matching target
type ProductCategory struct {
	ID                   string                `json:"id" toml:"id"`
	Name                 string                `json:"name" toml:"name"`
	Description          string                `json:"description" toml:"description"`
	Examples             []string              `json:"examples" toml:"examples"`
	Keywords             []string              `json:"keywords" toml:"keywords"`
	AlternateNames       []string              `json:"alternateNames" toml:"alternate_names"`
	HSCodeHints          []string              `json:"hsCodeHints" toml:"hs_code_hints"`
	Priority             float64               `json:"priority" toml:"priority"`
	AttributeDefinitions []AttributeDefinition `json:"attributeDefinitions" toml:"attributes"`
}

// Chapters returns the distinct 2-digit HS chapters referenced by the category's hints.
func (c ProductCategory) Chapters() []string {
	seen := make(map[string]bool)
	var chapters []string
	for _, hint := range c.HSCodeHints {
		code := NormalizeHSCode(hint)
		if len(code) < 2 {
			continue
		}
		chapter := code[:2]
		if !seen[chapter] {
			seen[chapter] = true
			chapters = append(chapters, chapter)
		}
	}
	return chapters
}

// Matches reports whether ref names this category by id, name or alternate name.
func (c ProductCategory) Matches(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if strings.EqualFold(c.ID, ref) || strings.EqualFold(c.Name, ref) {
		return true
	}
	for _, alt := range c.AlternateNames {
		if strings.EqualFold(alt, ref) {
			return true
		}
	}
	return false
}

// Validate checks a single catalog entry
func (c ProductCategory) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("%w: category id is required", ErrInvalidCatalog)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: category %q has no name", ErrInvalidCatalog, c.ID)
	}
	for _, hint := range c.HSCodeHints {
		if _, err := LevelForCode(NormalizeHSCode(hint)); err != nil {
			return fmt.Errorf("%w: category %q has bad HS hint %q", ErrInvalidCatalog, c.ID, hint)
		}
	}

	names := make(map[string]bool)
	for _, def := range c.AttributeDefinitions {
		if def.Name == "" {
			return fmt.Errorf("%w: category %q has an unnamed attribute", ErrInvalidCatalog, c.ID)
		}
		if names[def.Name] {
			return fmt.Errorf("%w: category %q declares attribute %q twice", ErrInvalidCatalog, c.ID, def.Name)
		}
		names[def.Name] = true

		switch def.Type {
		case AttributeString, AttributeNumber, AttributeBoolean, AttributeArray:
		default:
			return fmt.Errorf("%w: attribute %q has unknown type %q", ErrInvalidCatalog, def.Name, def.Type)
		}
	}
	return nil
}

// ValidateCatalog checks every entry and id uniqueness
func ValidateCatalog(categories []ProductCategory) error {
	if len(categories) == 0 {
		return ErrEmptyCatalog
	}
	ids := make(map[string]bool, len(categories))
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate category id %q", ErrInvalidCatalog, c.ID)
		}
		ids[c.ID] = true
	}
	return nil
}
