package model

// IntentPrediction is the classifier's output for one query: the most
// probable label and its softmax probability.
type IntentPrediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
