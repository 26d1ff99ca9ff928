package retrieval

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRetriever(t *testing.T) {
	index := testIndex(t)
	embed := func(text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	t.Run("Valid retriever", func(t *testing.T) {
		retriever, err := NewRetriever(embed, index)
		require.NoError(t, err)
		assert.Equal(t, 3, retriever.Size())
	})

	t.Run("Nil embedding function", func(t *testing.T) {
		_, err := NewRetriever(nil, index)
		assert.Error(t, err, "Expected error for nil embedding function")
	})

	t.Run("Nil index", func(t *testing.T) {
		_, err := NewRetriever(embed, nil)
		assert.Error(t, err, "Expected error for nil index")
	})
}

func TestSearch(t *testing.T) {
	t.Run("Encodes the query and ranks the corpus", func(t *testing.T) {
		index := testIndex(t)
		var seen string
		embed := func(text string) ([]float32, error) {
			seen = text
			return []float32{0, 1, 0}, nil
		}
		retriever, err := NewRetriever(embed, index)
		require.NoError(t, err)

		docs, err := retriever.Search("quand sont versées les bourses ?", 2)
		require.NoError(t, err)
		assert.Equal(t, "quand sont versées les bourses ?", seen, "Expected the raw text passed to the embedder")
		require.Len(t, docs, 2)
		assert.Equal(t, "q1", docs[0].Question)
	})

	t.Run("Embedding error is wrapped", func(t *testing.T) {
		index := testIndex(t)
		embed := func(text string) ([]float32, error) {
			return nil, fmt.Errorf("onnx runtime unavailable")
		}
		retriever, err := NewRetriever(embed, index)
		require.NoError(t, err)

		_, err = retriever.Search("texte", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "onnx runtime unavailable")
	})

	t.Run("Wrong embedding dimension surfaces as search error", func(t *testing.T) {
		index := testIndex(t)
		embed := func(text string) ([]float32, error) {
			return []float32{1}, nil
		}
		retriever, err := NewRetriever(embed, index)
		require.NoError(t, err)

		_, err = retriever.Search("texte", 1)
		assert.Error(t, err, "Expected error for embedding with the wrong dimension")
	})
}
