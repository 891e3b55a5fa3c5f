package usecase

import (
	"log"
)

const defaultSimilarityThreshold = 0.75

// Cluster is a non-empty set of product ids, kept in input order
type Cluster []string

// ClusteringConfig holds configuration for the clustering engine
type ClusteringConfig struct {
	SimilarityThreshold float64
	EnableDebugLogging  bool
}

// ClusteringEngine groups items by agglomerative average-linkage clustering
type ClusteringEngine struct {
	similarityThreshold float64
	enableDebugLogging  bool
}

// NewClusteringEngine creates a clustering engine with the given configuration
func NewClusteringEngine(config ClusteringConfig) *ClusteringEngine {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}

	return &ClusteringEngine{
		similarityThreshold: threshold,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// ClusterProducts builds the similarity matrix for ids and clusters it.
func (e *ClusteringEngine) ClusterProducts(ids []string, vectors map[string][]float32) ([]Cluster, error) {
	matrix, err := BuildSimilarityMatrix(ids, vectors)
	if err != nil {
		return nil, err
	}
	return e.Cluster(matrix), nil
}

// Cluster starts from one singleton per item and repeatedly merges the most similar
// pair until one cluster remains or the best average linkage drops below the threshold.
// Ties go to the first pair found scanning (i, j) with i < j.
func (e *ClusteringEngine) Cluster(matrix *SimilarityMatrix) []Cluster {
	n := matrix.Size()
	if n == 0 {
		return nil
	}

	// members[i] == nil marks a cluster absorbed by an earlier one
	members := make([][]int, n)
	// linkSum[i][j] is the sum of pairwise similarities between clusters i and j
	linkSum := make([][]float64, n)
	for i := 0; i < n; i++ {
		members[i] = []int{i}
		linkSum[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			linkSum[i][j] = matrix.At(i, j)
		}
	}

	merges := 0
	for active := n; active > 1; active-- {
		bestA, bestB := -1, -1
		bestSim := 0.0
		for i := 0; i < n; i++ {
			if members[i] == nil {
				continue
			}
			for j := i + 1; j < n; j++ {
				if members[j] == nil {
					continue
				}
				avg := linkSum[i][j] / float64(len(members[i])*len(members[j]))
				if bestA == -1 || avg > bestSim {
					bestA, bestB, bestSim = i, j, avg
				}
			}
		}

		if bestSim < e.similarityThreshold {
			break
		}

		if e.enableDebugLogging {
			log.Printf("[CLUSTER] merge %v + %v (avg similarity %.3f)",
				idsFor(matrix, members[bestA]), idsFor(matrix, members[bestB]), bestSim)
		}

		// Fold B into A; sums stay additive under average linkage
		for k := 0; k < n; k++ {
			if members[k] == nil || k == bestA || k == bestB {
				continue
			}
			linkSum[bestA][k] += linkSum[bestB][k]
			linkSum[k][bestA] = linkSum[bestA][k]
		}
		members[bestA] = mergeSorted(members[bestA], members[bestB])
		members[bestB] = nil
		merges++
	}

	clusters := make([]Cluster, 0, n-merges)
	for i := 0; i < n; i++ {
		if members[i] != nil {
			clusters = append(clusters, Cluster(idsFor(matrix, members[i])))
		}
	}
	return clusters
}

// SingletonClusters puts every id in its own cluster
func SingletonClusters(ids []string) []Cluster {
	clusters := make([]Cluster, len(ids))
	for i, id := range ids {
		clusters[i] = Cluster{id}
	}
	return clusters
}

func idsFor(matrix *SimilarityMatrix, indices []int) []string {
	ids := make([]string, len(indices))
	for i, idx := range indices {
		ids[i] = matrix.IDs[idx]
	}
	return ids
}

// mergeSorted merges two ascending index lists
func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
