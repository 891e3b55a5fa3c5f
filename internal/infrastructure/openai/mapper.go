package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/exportlens/backend/internal/domain"
)

// assignmentsResponse is the only JSON shape accepted from the model
type assignmentsResponse struct {
	Assignments []assignmentPayload `json:"assignments"`
}

type assignmentPayload struct {
	ProductID  *string  `json:"productId"`
	CategoryID *string  `json:"categoryId"`
	Confidence *float64 `json:"confidence"`
}

// ParseAssignments decodes a model reply. Unknown fields, missing fields, trailing
// content and non-finite confidences are all schema errors.
func ParseAssignments(content string) ([]domain.LLMAssignment, error) {
	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(content)))
	dec.DisallowUnknownFields()

	var payload assignmentsResponse
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLLMSchema, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing content after JSON object", domain.ErrLLMSchema)
	}
	if payload.Assignments == nil {
		return nil, fmt.Errorf("%w: missing assignments", domain.ErrLLMSchema)
	}

	out := make([]domain.LLMAssignment, len(payload.Assignments))
	for i, a := range payload.Assignments {
		if a.ProductID == nil || a.CategoryID == nil || a.Confidence == nil {
			return nil, fmt.Errorf("%w: assignment %d is missing a field", domain.ErrLLMSchema, i)
		}
		if math.IsNaN(*a.Confidence) || math.IsInf(*a.Confidence, 0) {
			return nil, fmt.Errorf("%w: assignment %d has a non-finite confidence", domain.ErrLLMSchema, i)
		}
		out[i] = domain.LLMAssignment{
			ProductID:  strings.TrimSpace(*a.ProductID),
			CategoryID: strings.TrimSpace(*a.CategoryID),
			Confidence: *a.Confidence,
		}
	}
	return out, nil
}

// promptProduct and promptCategory are the compact shapes sent to the model
type promptProduct struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type promptCategory struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// buildUserPrompt serializes the products and catalog for the model
func buildUserPrompt(products []domain.ProductVariant, catalog []domain.ProductCategory) (string, error) {
	ps := make([]promptProduct, len(products))
	for i, p := range products {
		ps[i] = promptProduct{ID: p.ID, Name: p.Name, Description: p.Description}
	}
	cs := make([]promptCategory, len(catalog))
	for i, c := range catalog {
		cs[i] = promptCategory{ID: c.ID, Name: c.Name, Description: c.Description, Keywords: c.Keywords}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(map[string]any{"categories": cs, "products": ps}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
