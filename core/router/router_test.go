package router

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/um5chat/campuschat/core/classifier"
	"github.com/um5chat/campuschat/core/retrieval"
	"github.com/um5chat/campuschat/core/templates"
	"github.com/um5chat/campuschat/model"
)

var testLabels = []string{"inscription", "bourses", "emploi_du_temps", "bibliotheque"}

var testEntries = []*model.KnowledgeEntry{
	{Row: 0, Question: "Comment s'inscrire ?", Answer: "L'inscription se fait sur le portail.", Intent: "inscription"},
	{Row: 1, Question: "Quand sont versées les bourses ?", Answer: "Les bourses sont versées chaque trimestre.", Intent: "bourses"},
	{Row: 2, Question: "Où est la bibliothèque ?", Answer: "La bibliothèque est au bâtiment central.", Intent: "bibliotheque"},
	{Row: 3, Question: "Question mixte", Answer: "Réponse mixte.", Intent: "inscription"},
}

var testMatrix = [][]float32{
	{1, 0, 0, 0},
	{0, 1, 0, 0},
	{0, 0, 1, 0},
	{1, 1, 1, 1},
}

// newTestRouter wires a router over stub models. probs and embedding are
// the fixed model outputs for every query.
func newTestRouter(t *testing.T, probs []float64, embedding []float32, config model.RouterConfig) (*Router, *int) {
	t.Helper()

	cls, err := classifier.NewClassifier(testLabels, func(text string) ([]float64, error) {
		return probs, nil
	})
	require.NoError(t, err)

	searches := 0
	index, err := retrieval.NewIndex(testEntries, testMatrix)
	require.NoError(t, err)
	ret, err := retrieval.NewRetriever(func(text string) ([]float32, error) {
		searches++
		return embedding, nil
	}, index)
	require.NoError(t, err)

	tmpl, err := templates.NewTemplates(map[string]string{
		"inscription": "Modèle d'inscription.",
		"bourses":     "Modèle des bourses.",
	}, "Modèle par défaut.")
	require.NoError(t, err)

	router, err := NewRouter(cls, ret, tmpl, config, nil)
	require.NoError(t, err)
	return router, &searches
}

func TestNewRouter(t *testing.T) {
	router, _ := newTestRouter(t, []float64{1, 0, 0, 0}, []float32{1, 0, 0, 0}, model.DefaultRouterConfig())
	assert.Equal(t, model.DefaultRouterConfig(), router.Config())

	t.Run("Nil components", func(t *testing.T) {
		_, err := NewRouter(nil, nil, nil, model.DefaultRouterConfig(), nil)
		assert.Error(t, err, "Expected error for nil components")
	})

	t.Run("Invalid configuration", func(t *testing.T) {
		config := model.DefaultRouterConfig()
		config.TopK = 0
		cls, err := classifier.NewClassifier(testLabels, func(text string) ([]float64, error) {
			return []float64{1, 0, 0, 0}, nil
		})
		require.NoError(t, err)
		index, err := retrieval.NewIndex(testEntries, testMatrix)
		require.NoError(t, err)
		ret, err := retrieval.NewRetriever(func(text string) ([]float32, error) {
			return []float32{1, 0, 0, 0}, nil
		}, index)
		require.NoError(t, err)

		_, err = NewRouter(cls, ret, templates.DefaultTemplates(), config, nil)
		assert.Error(t, err, "Expected error for invalid configuration")
	})
}

func TestProcessIntentBranch(t *testing.T) {
	t.Run("Confident classifier answers from the template", func(t *testing.T) {
		// Confidence 0.92 for inscription, well above the 0.6 threshold.
		router, searches := newTestRouter(t, []float64{0.92, 0.04, 0.02, 0.02}, []float32{1, 0, 0, 0}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("Comment s'inscrire ?"))
		require.NoError(t, err)

		assert.Equal(t, model.MethodIntent, response.Method)
		assert.Equal(t, "Modèle d'inscription.", response.Answer)
		assert.Equal(t, 0.92, response.Confidence)
		assert.Equal(t, "inscription", response.Intent)
		assert.Nil(t, response.Sources, "Expected no sources on the intent branch")
		assert.GreaterOrEqual(t, response.LatencyMs, 0.0)
		assert.Equal(t, 0, *searches, "Expected retrieval to be skipped when the classifier is confident")
	})

	t.Run("Confidence exactly at the threshold routes to intent", func(t *testing.T) {
		router, searches := newTestRouter(t, []float64{0.6, 0.4, 0, 0}, []float32{1, 0, 0, 0}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("question limite"))
		require.NoError(t, err)

		assert.Equal(t, model.MethodIntent, response.Method, "Expected >= comparison at the intent threshold")
		assert.Equal(t, 0.6, response.Confidence)
		assert.Equal(t, 0, *searches)
	})

	t.Run("Confident prediction without a dedicated template uses the default", func(t *testing.T) {
		router, _ := newTestRouter(t, []float64{0, 0, 0.9, 0.1}, []float32{1, 0, 0, 0}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("emploi du temps ?"))
		require.NoError(t, err)

		assert.Equal(t, model.MethodIntent, response.Method)
		assert.Equal(t, "Modèle par défaut.", response.Answer)
		assert.Equal(t, "emploi_du_temps", response.Intent)
	})
}

func TestProcessRAGBranch(t *testing.T) {
	t.Run("Unsure classifier with a close match answers from the corpus", func(t *testing.T) {
		// Uniform probabilities keep confidence at 0.25; the query vector
		// matches row 1 exactly.
		router, searches := newTestRouter(t, []float64{0.25, 0.25, 0.25, 0.25}, []float32{0, 1, 0, 0}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("versement des bourses ?"))
		require.NoError(t, err)

		assert.Equal(t, model.MethodRAG, response.Method)
		assert.Equal(t, "Les bourses sont versées chaque trimestre.", response.Answer, "Expected the top answer verbatim")
		assert.Equal(t, 1.0, response.Confidence, "Expected confidence to carry the best similarity")
		assert.Equal(t, "inscription", response.Intent, "Expected the low-confidence prediction to stay in the response")
		require.Len(t, response.Sources, 3, "Expected top_k sources")
		assert.Equal(t, 1, *searches)
	})

	t.Run("Similarity exactly at the threshold routes to rag", func(t *testing.T) {
		// A single-entry corpus with vector [1,1,1,1] and query
		// [1,0,0,0]: dot 1, norms 1 and 2, so the similarity is exactly
		// 0.5 and lands exactly on the lowered threshold.
		config := model.DefaultRouterConfig()
		config.SimilarityThreshold = 0.5

		entries := testEntries[:1]
		matrix := [][]float32{{1, 1, 1, 1}}
		cls, err := classifier.NewClassifier(testLabels, func(text string) ([]float64, error) {
			return []float64{0.25, 0.25, 0.25, 0.25}, nil
		})
		require.NoError(t, err)
		index, err := retrieval.NewIndex(entries, matrix)
		require.NoError(t, err)
		ret, err := retrieval.NewRetriever(func(text string) ([]float32, error) {
			return []float32{1, 0, 0, 0}, nil
		}, index)
		require.NoError(t, err)
		router, err := NewRouter(cls, ret, templates.DefaultTemplates(), config, nil)
		require.NoError(t, err)

		response, err := router.Process(context.Background(), model.NewQuery("question limite"))
		require.NoError(t, err)

		assert.Equal(t, 0.5, response.Confidence, "Expected the exact boundary similarity")
		assert.Equal(t, model.MethodRAG, response.Method, "Expected >= comparison at the similarity threshold")
		assert.Equal(t, testEntries[0].Answer, response.Answer)
	})

	t.Run("Sources are capped at the corpus size", func(t *testing.T) {
		config := model.DefaultRouterConfig()
		config.TopK = 10
		router, _ := newTestRouter(t, []float64{0.25, 0.25, 0.25, 0.25}, []float32{0, 1, 0, 0}, config)

		response, err := router.Process(context.Background(), model.NewQuery("bourses ?"))
		require.NoError(t, err)
		assert.Len(t, response.Sources, len(testEntries))
	})
}

func TestProcessFallbackBranch(t *testing.T) {
	t.Run("Weak signals hedge with a preview and contacts", func(t *testing.T) {
		// The query vector scores at most 0.5 against every row, below
		// the 0.7 threshold.
		router, _ := newTestRouter(t, []float64{0.25, 0.25, 0.25, 0.25}, []float32{1, -1, 1, -1}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("parlez-moi de la cafétéria"))
		require.NoError(t, err)

		assert.Equal(t, model.MethodFallback, response.Method)
		assert.Contains(t, response.Answer, "Je ne suis pas certain de bien comprendre votre question.")
		assert.Contains(t, response.Answer, "info@um5.ac.ma", "Expected contact guidance in the hedge")
		assert.NotNil(t, response.Sources, "Expected sources on the fallback branch")
		assert.Equal(t, "inscription", response.Intent)
		assert.Less(t, response.Confidence, 0.7)
	})

	t.Run("Hedge quotes the best match", func(t *testing.T) {
		router, _ := newTestRouter(t, []float64{0.25, 0.25, 0.25, 0.25}, []float32{1, -1, 1, -1}, model.DefaultRouterConfig())

		response, err := router.Process(context.Background(), model.NewQuery("question inconnue"))
		require.NoError(t, err)

		// Rows 0 and 2 tie at 0.5; the stable sort keeps row 0 first.
		assert.Equal(t, testEntries[0].Answer, response.Sources[0].Answer)
		assert.Contains(t, response.Answer, response.Sources[0].Answer)
	})
}

func TestFallbackAnswer(t *testing.T) {
	t.Run("Short answer is quoted whole", func(t *testing.T) {
		answer := fallbackAnswer("Réponse courte.")
		assert.Contains(t, answer, "Réponse courte.")
		assert.NotContains(t, answer, "Réponse courte....")
	})

	t.Run("Long answer is cut at 200 characters", func(t *testing.T) {
		long := strings.Repeat("é", 250)
		answer := fallbackAnswer(long)

		assert.Contains(t, answer, strings.Repeat("é", fallbackPreviewRunes)+"...")
		assert.NotContains(t, answer, strings.Repeat("é", fallbackPreviewRunes+1), "Expected the preview cut at the rune budget")
	})

	t.Run("Cut is rune safe on multibyte text", func(t *testing.T) {
		long := strings.Repeat("à", fallbackPreviewRunes+1)
		answer := fallbackAnswer(long)
		assert.True(t, strings.Contains(answer, strings.Repeat("à", fallbackPreviewRunes)+"..."), "Expected truncation on rune boundaries")
	})
}

func TestProcessErrors(t *testing.T) {
	t.Run("Empty query is rejected", func(t *testing.T) {
		router, searches := newTestRouter(t, []float64{1, 0, 0, 0}, []float32{1, 0, 0, 0}, model.DefaultRouterConfig())

		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := router.Process(context.Background(), model.NewQuery(text))
			assert.ErrorIs(t, err, ErrEmptyQuery, "Expected ErrEmptyQuery for %q", text)
		}

		_, err := router.Process(context.Background(), nil)
		assert.ErrorIs(t, err, ErrEmptyQuery, "Expected ErrEmptyQuery for nil query")
		assert.Equal(t, 0, *searches)
	})

	t.Run("Classifier error aborts the query", func(t *testing.T) {
		cls, err := classifier.NewClassifier(testLabels, func(text string) ([]float64, error) {
			return nil, fmt.Errorf("inference failed")
		})
		require.NoError(t, err)
		index, err := retrieval.NewIndex(testEntries, testMatrix)
		require.NoError(t, err)
		ret, err := retrieval.NewRetriever(func(text string) ([]float32, error) {
			return []float32{1, 0, 0, 0}, nil
		}, index)
		require.NoError(t, err)
		router, err := NewRouter(cls, ret, templates.DefaultTemplates(), model.DefaultRouterConfig(), nil)
		require.NoError(t, err)

		_, err = router.Process(context.Background(), model.NewQuery("texte"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "inference failed")
	})

	t.Run("Embedding error aborts the query", func(t *testing.T) {
		cls, err := classifier.NewClassifier(testLabels, func(text string) ([]float64, error) {
			return []float64{0.25, 0.25, 0.25, 0.25}, nil
		})
		require.NoError(t, err)
		index, err := retrieval.NewIndex(testEntries, testMatrix)
		require.NoError(t, err)
		ret, err := retrieval.NewRetriever(func(text string) ([]float32, error) {
			return nil, fmt.Errorf("embedding failed")
		}, index)
		require.NoError(t, err)
		router, err := NewRouter(cls, ret, templates.DefaultTemplates(), model.DefaultRouterConfig(), nil)
		require.NoError(t, err)

		_, err = router.Process(context.Background(), model.NewQuery("texte"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding failed")
	})
}

func TestProcessDeterminism(t *testing.T) {
	router, _ := newTestRouter(t, []float64{0.25, 0.25, 0.25, 0.25}, []float32{0, 1, 0, 0}, model.DefaultRouterConfig())

	first, err := router.Process(context.Background(), model.NewQuery("versement des bourses ?"))
	require.NoError(t, err)
	second, err := router.Process(context.Background(), model.NewQuery("versement des bourses ?"))
	require.NoError(t, err)

	assert.Equal(t, first.Method, second.Method, "Expected the same routing decision for the same query")
	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Sources, second.Sources)
}
