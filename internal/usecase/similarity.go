package usecase

import (
	"fmt"
	"math"

	"github.com/exportlens/backend/internal/domain"
)

// SimilarityMatrix holds pairwise cosine similarities for one clustering run.
// Rows and columns follow the order of IDs.
type SimilarityMatrix struct {
	IDs    []string
	values [][]float64
}

// Size returns the number of items in the matrix
func (m *SimilarityMatrix) Size() int {
	return len(m.IDs)
}

// At returns the similarity between items i and j
func (m *SimilarityMatrix) At(i, j int) float64 {
	return m.values[i][j]
}

// CosineSimilarity returns dot(a,b) / (|a||b|), or 0 when either norm is zero.
// Vectors of different lengths, and NaN results from non-finite components, are rejected.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", domain.ErrDimensionMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0, fmt.Errorf("%w: similarity is not a number", domain.ErrEmbeddingFailure)
	}
	// Rounding can push identical vectors a hair past 1
	return math.Max(-1, math.Min(1, sim)), nil
}

// BuildSimilarityMatrix computes the symmetric similarity matrix for ids.
// Every id must have a vector and all vectors must share one dimension.
func BuildSimilarityMatrix(ids []string, vectors map[string][]float32) (*SimilarityMatrix, error) {
	n := len(ids)
	dimension := -1
	rows := make([][]float32, n)
	for i, id := range ids {
		vec, ok := vectors[id]
		if !ok {
			return nil, fmt.Errorf("%w: no embedding for product %q", domain.ErrEmbeddingFailure, id)
		}
		if dimension == -1 {
			dimension = len(vec)
		} else if len(vec) != dimension {
			return nil, fmt.Errorf("%w: product %q has %d dimensions, expected %d",
				domain.ErrDimensionMismatch, id, len(vec), dimension)
		}
		for _, v := range vec {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("%w: product %q has a non-finite component", domain.ErrEmbeddingFailure, id)
			}
		}
		rows[i] = vec
	}

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}

	// Upper triangle only, mirrored
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim, err := CosineSimilarity(rows[i], rows[j])
			if err != nil {
				return nil, err
			}
			values[i][j] = sim
			values[j][i] = sim
		}
	}

	return &SimilarityMatrix{IDs: append([]string(nil), ids...), values: values}, nil
}
