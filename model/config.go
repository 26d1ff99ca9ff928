package model

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// RouterConfig holds the routing thresholds. Values are read once at
// startup and stay immutable for the lifetime of the pipeline.
type RouterConfig struct {
	// IntentThreshold is the minimum classifier confidence for answering
	// from the intent templates directly. Range [0, 1].
	IntentThreshold float64 `json:"intent_threshold"`
	// SimilarityThreshold is the minimum cosine similarity of the best
	// retrieval match for answering from the corpus. Range [-1, 1].
	SimilarityThreshold float64 `json:"similarity_threshold"`
	// TopK is the number of documents the retriever returns on the
	// low-confidence branch. Must be >= 1.
	TopK int `json:"top_k"`
}

// DefaultRouterConfig returns the default thresholds.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		IntentThreshold:     0.6,
		SimilarityThreshold: 0.7,
		TopK:                3,
	}
}

// Validate checks the configuration ranges.
func (c RouterConfig) Validate() error {
	if c.IntentThreshold < 0 || c.IntentThreshold > 1 {
		return fmt.Errorf("intent threshold %v outside [0, 1]", c.IntentThreshold)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold %v outside [-1, 1]", c.SimilarityThreshold)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k %v must be at least 1", c.TopK)
	}
	return nil
}

// RouterConfigFromEnv loads the configuration from environment variables
// (CAMPUSCHAT_INTENT_THRESHOLD, CAMPUSCHAT_SIMILARITY_THRESHOLD,
// CAMPUSCHAT_TOP_K), falling back to the defaults for unset variables.
// A .env file is loaded first if present.
func RouterConfigFromEnv() (RouterConfig, error) {
	// Missing .env is fine, real envs may already be set.
	_ = godotenv.Load()

	config := DefaultRouterConfig()

	if v := os.Getenv("CAMPUSCHAT_INTENT_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return RouterConfig{}, fmt.Errorf("parse CAMPUSCHAT_INTENT_THRESHOLD: %w", err)
		}
		config.IntentThreshold = f
	}
	if v := os.Getenv("CAMPUSCHAT_SIMILARITY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return RouterConfig{}, fmt.Errorf("parse CAMPUSCHAT_SIMILARITY_THRESHOLD: %w", err)
		}
		config.SimilarityThreshold = f
	}
	if v := os.Getenv("CAMPUSCHAT_TOP_K"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil {
			return RouterConfig{}, fmt.Errorf("parse CAMPUSCHAT_TOP_K: %w", err)
		}
		config.TopK = k
	}

	if err := config.Validate(); err != nil {
		return RouterConfig{}, err
	}

	return config, nil
}
