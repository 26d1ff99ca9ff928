package model

import "github.com/google/uuid"

// KnowledgeEntry is one curated question/answer/intent triple of the
// corpus. Row is the explicit identifier linking the entry to its row in
// the embedding matrix; the loader validates the link instead of relying
// on array position.
type KnowledgeEntry struct {
	RID      uuid.UUID `json:"rid,omitempty"`
	Row      int       `json:"row"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Intent   string    `json:"intent"`
}

// RetrievedDocument is one ranked retrieval candidate. Similarity is the
// cosine similarity to the query, in [-1, 1].
type RetrievedDocument struct {
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	Intent     string  `json:"intent"`
	Similarity float64 `json:"similarity"`
}
