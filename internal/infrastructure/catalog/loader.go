package catalog

import (
	"fmt"
	"log"
	"os"

	"github.com/exportlens/backend/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// categoriesFile is the TOML layout of a category catalog
type categoriesFile struct {
	Categories []domain.ProductCategory `toml:"categories"`
}

// hsCodesFile is the TOML layout of an HS seed file
type hsCodesFile struct {
	Codes []domain.HSCode `toml:"codes"`
}

// LoadCategories reads and validates a category catalog. An empty path returns
// the built-in catalog.
func LoadCategories(path string) ([]domain.ProductCategory, error) {
	if path == "" {
		log.Printf("[CATALOG] No categories file configured, using built-in catalog")
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	categories, err := ParseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("[CATALOG] Loaded %d categories from %s", len(categories), path)
	return categories, nil
}

// ParseCategories decodes and validates TOML category data
func ParseCategories(data []byte) ([]domain.ProductCategory, error) {
	var file categoriesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if err := domain.ValidateCatalog(file.Categories); err != nil {
		return nil, err
	}
	return file.Categories, nil
}

// LoadHSCodes reads and validates an HS seed file. An empty path returns the
// built-in seed.
func LoadHSCodes(path string) ([]domain.HSCode, error) {
	if path == "" {
		log.Printf("[CATALOG] No HS seed file configured, using built-in HS codes")
		return DefaultHSCodes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading HS seed file: %w", err)
	}

	codes, err := ParseHSCodes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("[CATALOG] Loaded %d HS codes from %s", len(codes), path)
	return codes, nil
}

// ParseHSCodes decodes TOML HS data and fills level and parent for every code
func ParseHSCodes(data []byte) ([]domain.HSCode, error) {
	var file hsCodesFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	if len(file.Codes) == 0 {
		return nil, fmt.Errorf("%w: no HS codes", domain.ErrInvalidCatalog)
	}
	if err := domain.ValidateHSCodes(file.Codes); err != nil {
		return nil, err
	}
	return file.Codes, nil
}

// WriteCategories encodes categories as a TOML catalog file
func WriteCategories(path string, categories []domain.ProductCategory) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating categories file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(categoriesFile{Categories: categories}); err != nil {
		return fmt.Errorf("error encoding categories: %w", err)
	}
	return nil
}
