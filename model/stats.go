package model

// Stats describes the loaded models and thresholds of a running chatbot.
// Exposed read-only through the stats endpoint.
type Stats struct {
	IntentModel         string  `json:"intent_model"`
	EmbeddingModel      string  `json:"embedding_model"`
	CorpusSize          int     `json:"knowledge_base_size"`
	Labels              int     `json:"labels"`
	IntentThreshold     float64 `json:"intent_threshold"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
	TopK                int     `json:"top_k"`
}
