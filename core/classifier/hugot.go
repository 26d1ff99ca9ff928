package classifier

import (
	"fmt"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

// NewHugotClassifier creates a classifier running the exported intent
// model at modelPath locally through hugot. The model's softmax output
// is mapped back onto the label ordering so ties resolve by label
// ordinal, not by model-reported ranking.
//
// The intent model is a local fine-tune, so unlike the embedder it is
// never downloaded; a missing path fails startup.
func NewHugotClassifier(modelPath string, labels []string) (*Classifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("intent model not found at %s: %w", modelPath, err)
	}

	// Initialize hugot session with Go backend
	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "intent-pipeline",
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
		},
	}
	intentPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create intent pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create intent pipeline: %w", err)
	}

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	probs := func(text string) ([]float64, error) {
		result, err := intentPipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, fmt.Errorf("failed to run intent model: %w", err)
		}
		if len(result.ClassificationOutputs) == 0 {
			return nil, fmt.Errorf("no classification output")
		}

		aligned := make([]float64, len(labels))
		for _, output := range result.ClassificationOutputs[0] {
			i, ok := index[output.Label]
			if !ok {
				return nil, fmt.Errorf("model returned unknown label %q", output.Label)
			}
			aligned[i] = float64(output.Score)
		}
		return aligned, nil
	}

	return NewClassifier(labels, probs)
}
