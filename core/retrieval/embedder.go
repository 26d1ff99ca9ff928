package retrieval

import (
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/um5chat/campuschat/helper"
)

// DefaultEmbeddingModel encodes questions into the same space as the
// precomputed corpus matrix. Multilingual, 768 dimensions.
const DefaultEmbeddingModel = "sentence-transformers/paraphrase-multilingual-mpnet-base-v2"

// DefaultEmbedder creates an embedder using the default sentence
// transformer model, downloading it on first use.
func DefaultEmbedder() (EmbedFunc, error) {
	return NewHugotEmbedder(DefaultEmbeddingModel)
}

// NewHugotEmbedder creates an embedder running the given sentence
// transformer model locally through hugot.
func NewHugotEmbedder(modelName string) (EmbedFunc, error) {
	// Prepare model (download if needed)
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(text string) ([]float32, error) {
		result, err := sentencePipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to generate embedding: %w", err)
		}

		if len(result.Embeddings) == 0 {
			return nil, fmt.Errorf("no embedding generated")
		}

		return result.Embeddings[0], nil
	}, nil
}
