// Package corpus loads the fixed question/answer/intent corpus and its
// precomputed embedding matrix. Entries and matrix rows are linked by an
// explicit row identifier validated at load time, never by array
// position alone.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// Corpus is the read-only retrieval corpus. Entries[i].Row == i and
// Matrix[i] is the embedding of Entries[i]; both invariants are checked
// on construction. Safe for concurrent reads once built.
type Corpus struct {
	Entries []*model.KnowledgeEntry
	Matrix  [][]float32
}

// embeddingRow is one row of the vectors file.
type embeddingRow struct {
	Row    *int      `json:"row"`
	Vector []float32 `json:"vector"`
}

// New builds a corpus from entries and their embedding matrix and
// validates the alignment. Entries must be sorted by row with rows
// numbered 0..N-1, and all vectors must share one dimension.
func New(entries []*model.KnowledgeEntry, matrix [][]float32) (*Corpus, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("corpus is empty")
	}
	if len(entries) != len(matrix) {
		return nil, fmt.Errorf("corpus has %d entries but embedding matrix has %d rows", len(entries), len(matrix))
	}

	dim := len(matrix[0])
	if dim == 0 {
		return nil, fmt.Errorf("embedding row 0 is empty")
	}

	for i, entry := range entries {
		if entry.Row != i {
			return nil, fmt.Errorf("entry at position %d has row id %d", i, entry.Row)
		}
		if len(matrix[i]) != dim {
			return nil, fmt.Errorf("embedding row %d has dimension %d, expected %d", i, len(matrix[i]), dim)
		}
	}

	return &Corpus{
		Entries: entries,
		Matrix:  matrix,
	}, nil
}

// Load reads the corpus entries and the embedding vectors from two JSON
// files and joins them on the row identifier. Duplicate, missing or
// out-of-range rows on either side are configuration errors.
func Load(entriesPath string, vectorsPath string) (*Corpus, error) {
	entries, err := loadEntries(entriesPath)
	if err != nil {
		return nil, helper.NewError("load corpus entries", err)
	}

	matrix, err := loadVectors(vectorsPath, len(entries))
	if err != nil {
		return nil, helper.NewError("load corpus vectors", err)
	}

	corpus, err := New(entries, matrix)
	if err != nil {
		return nil, helper.NewError("validate corpus", err)
	}

	return corpus, nil
}

// Size returns the number of corpus entries.
func (c *Corpus) Size() int {
	return len(c.Entries)
}

// Dimension returns the embedding dimension.
func (c *Corpus) Dimension() int {
	return len(c.Matrix[0])
}

func loadEntries(path string) ([]*model.KnowledgeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	type rawEntry struct {
		RID      uuid.UUID `json:"rid"`
		Row      *int      `json:"row"`
		Question string    `json:"question"`
		Answer   string    `json:"answer"`
		Intent   string    `json:"intent"`
	}

	var raw []rawEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no entries in %s", path)
	}

	seen := make(map[int]bool, len(raw))
	entries := make([]*model.KnowledgeEntry, 0, len(raw))
	for i, r := range raw {
		if r.Row == nil {
			return nil, fmt.Errorf("entry %d has no row id", i)
		}
		if *r.Row < 0 || *r.Row >= len(raw) {
			return nil, fmt.Errorf("entry %d has row id %d outside [0, %d)", i, *r.Row, len(raw))
		}
		if seen[*r.Row] {
			return nil, fmt.Errorf("duplicate row id %d", *r.Row)
		}
		seen[*r.Row] = true

		if r.Question == "" || r.Answer == "" || r.Intent == "" {
			return nil, fmt.Errorf("entry with row id %d has empty question, answer or intent", *r.Row)
		}

		rid := r.RID
		if rid == uuid.Nil {
			rid = uuid.New()
		}
		entries = append(entries, &model.KnowledgeEntry{
			RID:      rid,
			Row:      *r.Row,
			Question: r.Question,
			Answer:   r.Answer,
			Intent:   r.Intent,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Row < entries[j].Row
	})

	return entries, nil
}

func loadVectors(path string, expected int) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rows []embeddingRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) != expected {
		return nil, fmt.Errorf("%d vectors for %d entries", len(rows), expected)
	}

	matrix := make([][]float32, expected)
	for i, r := range rows {
		if r.Row == nil {
			return nil, fmt.Errorf("vector %d has no row id", i)
		}
		if *r.Row < 0 || *r.Row >= expected {
			return nil, fmt.Errorf("vector %d has row id %d outside [0, %d)", i, *r.Row, expected)
		}
		if matrix[*r.Row] != nil {
			return nil, fmt.Errorf("duplicate vector for row id %d", *r.Row)
		}
		if len(r.Vector) == 0 {
			return nil, fmt.Errorf("vector for row id %d is empty", *r.Row)
		}
		matrix[*r.Row] = r.Vector
	}

	return matrix, nil
}
