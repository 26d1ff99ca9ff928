package retrieval

import (
	"fmt"

	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// EmbedFunc is a function that generates embeddings for text. It must
// encode into the same vector space as the index's precomputed matrix.
type EmbedFunc func(text string) ([]float32, error)

// Retriever encodes query text and ranks corpus entries against it.
// Pure function of (text, loaded embeddings, loaded corpus); the corpus
// is never mutated.
type Retriever struct {
	embed EmbedFunc
	index *Index
}

// NewRetriever creates a retriever over an already validated index.
func NewRetriever(embed EmbedFunc, index *Index) (*Retriever, error) {
	if embed == nil {
		return nil, helper.NewError("create retriever", fmt.Errorf("embedding function is nil"))
	}
	if index == nil {
		return nil, helper.NewError("create retriever", fmt.Errorf("index is nil"))
	}
	return &Retriever{
		embed: embed,
		index: index,
	}, nil
}

// Size returns the corpus size of the underlying index.
func (r *Retriever) Size() int {
	return r.index.Size()
}

// Search encodes the text and returns the min(topK, corpus size) most
// similar entries, sorted descending by cosine similarity. Never empty:
// the index rejects empty corpora at construction.
func (r *Retriever) Search(text string, topK int) ([]*model.RetrievedDocument, error) {
	embedding, err := r.embed(text)
	if err != nil {
		return nil, helper.NewError("generate query embedding", err)
	}
	return r.index.TopK(embedding, topK)
}
