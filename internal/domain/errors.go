package domain

import "errors"

var (
	// ErrEmptyBatch is returned when a consolidation run receives no products
	ErrEmptyBatch = errors.New("product batch is empty")

	// ErrInvalidProduct is returned when a product is missing its id or name
	ErrInvalidProduct = errors.New("invalid product variant")

	// ErrDuplicateProduct is returned when two products in one batch share an id
	ErrDuplicateProduct = errors.New("duplicate product id in batch")

	// ErrDimensionMismatch is returned when embedding vectors in one run differ in length
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyCatalog is returned when matching is attempted against an empty catalog
	ErrEmptyCatalog = errors.New("category catalog is empty")

	// ErrInvalidCatalog is returned when a catalog record fails load-time validation
	ErrInvalidCatalog = errors.New("invalid catalog record")

	// ErrEmbeddingFailure is returned when the embedding gateway fails or times out
	ErrEmbeddingFailure = errors.New("embedding gateway request failed")

	// ErrLLMFailure is returned when the LLM categorizer cannot be reached
	ErrLLMFailure = errors.New("LLM categorization failed")

	// ErrLLMSchema is returned when the LLM response does not match the expected schema
	ErrLLMSchema = errors.New("LLM response schema mismatch")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrHSCodeNotFound is returned when an HS code does not exist in the catalog
	ErrHSCodeNotFound = errors.New("HS code not found")

	// ErrHSDataUnavailable is returned when the HS code store cannot be read
	ErrHSDataUnavailable = errors.New("HS code data unavailable")
)

// IsInputError reports whether err is a caller input-contract violation.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrInvalidProduct) ||
		errors.Is(err, ErrDuplicateProduct) ||
		errors.Is(err, ErrInvalidRequest)
}
