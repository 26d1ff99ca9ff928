// Package retrieval ranks corpus entries by semantic similarity to a
// query.
package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// Index holds the corpus entries and their embedding matrix in memory.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	entries []*model.KnowledgeEntry
	matrix  [][]float32
	dim     int
}

// NewIndex creates an index over aligned entries and embeddings. An
// empty corpus is a configuration error surfaced here, at startup.
func NewIndex(entries []*model.KnowledgeEntry, matrix [][]float32) (*Index, error) {
	if len(entries) == 0 {
		return nil, helper.NewError("create index", fmt.Errorf("corpus is empty"))
	}
	if len(entries) != len(matrix) {
		return nil, helper.NewError("create index", fmt.Errorf("%d entries but %d embedding rows", len(entries), len(matrix)))
	}

	dim := len(matrix[0])
	for i, row := range matrix {
		if len(row) != dim {
			return nil, helper.NewError("create index", fmt.Errorf("embedding row %d has dimension %d, expected %d", i, len(row), dim))
		}
	}

	return &Index{
		entries: entries,
		matrix:  matrix,
		dim:     dim,
	}, nil
}

// Size returns the number of indexed entries.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// Dimension returns the embedding dimension.
func (idx *Index) Dimension() int {
	return idx.dim
}

// TopK scores every corpus entry against the query vector by cosine
// similarity and returns the min(k, corpus size) best matches, sorted
// strictly descending. Exactly equal similarities keep corpus order
// (stable sort), so ties resolve to the lower row first.
func (idx *Index) TopK(query []float32, k int) ([]*model.RetrievedDocument, error) {
	if k < 1 {
		return nil, helper.NewError("search index", fmt.Errorf("top_k %d must be at least 1", k))
	}
	if len(query) != idx.dim {
		return nil, helper.NewError("search index", fmt.Errorf("query vector has dimension %d, index has %d", len(query), idx.dim))
	}

	docs := make([]*model.RetrievedDocument, len(idx.entries))
	for i, entry := range idx.entries {
		docs[i] = &model.RetrievedDocument{
			Question:   entry.Question,
			Answer:     entry.Answer,
			Intent:     entry.Intent,
			Similarity: cosineSimilarity(query, idx.matrix[i]),
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Similarity > docs[j].Similarity
	})

	if k < len(docs) {
		docs = docs[:k]
	}

	return docs, nil
}

// cosineSimilarity computes the normalized dot product of two vectors in
// float64. A zero vector on either side scores 0.
func cosineSimilarity(a []float32, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
