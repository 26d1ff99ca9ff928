// Package classifier maps query text to an intent label with a
// confidence score.
package classifier

import (
	"fmt"
	"strings"

	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// DefaultMaxTokens is the token budget applied to query text before
// inference. Longer input keeps its prefix.
const DefaultMaxTokens = 128

// ProbabilitiesFunc runs model inference on text and returns one softmax
// probability per label, aligned with the classifier's label ordering.
type ProbabilitiesFunc func(text string) ([]float64, error)

// Classifier wraps a text classification model behind a fixed label set.
// The label set and inference function are set at load time and never
// change, so a Classifier is safe for concurrent use.
type Classifier struct {
	labels    []string
	probs     ProbabilitiesFunc
	maxTokens int
}

// NewClassifier creates a classifier over the given label ordering.
// Both the label set and the inference function are startup
// preconditions; a classifier cannot exist without them.
func NewClassifier(labels []string, probs ProbabilitiesFunc) (*Classifier, error) {
	if len(labels) == 0 {
		return nil, helper.NewError("create classifier", fmt.Errorf("label set is empty"))
	}
	if probs == nil {
		return nil, helper.NewError("create classifier", fmt.Errorf("inference function is nil"))
	}

	copied := make([]string, len(labels))
	copy(copied, labels)

	return &Classifier{
		labels:    copied,
		probs:     probs,
		maxTokens: DefaultMaxTokens,
	}, nil
}

// Labels returns a copy of the label ordering.
func (c *Classifier) Labels() []string {
	labels := make([]string, len(c.labels))
	copy(labels, c.labels)
	return labels
}

// Classify predicts the intent of the text. Input longer than the token
// budget is silently truncated to its prefix. On exactly equal
// probabilities the label with the lower ordinal wins.
func (c *Classifier) Classify(text string) (*model.IntentPrediction, error) {
	truncated := truncateTokens(text, c.maxTokens)

	probs, err := c.probs(truncated)
	if err != nil {
		return nil, helper.NewError("classify intent", err)
	}
	if len(probs) != len(c.labels) {
		return nil, helper.NewError("classify intent", fmt.Errorf("model returned %d probabilities for %d labels", len(probs), len(c.labels)))
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	return &model.IntentPrediction{
		Label:      c.labels[best],
		Confidence: probs[best],
	}, nil
}

// truncateTokens keeps the first max whitespace-delimited tokens. The
// model tokenizer applies its own max length on top of this budget.
func truncateTokens(text string, max int) string {
	fields := strings.Fields(text)
	if len(fields) <= max {
		return text
	}
	return strings.Join(fields[:max], " ")
}
