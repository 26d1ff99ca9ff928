// Package campuschat answers natural-language questions about
// university procedures by routing each query through an intent
// classifier and, when the classifier is unsure, a semantic-similarity
// retriever over a fixed question/answer corpus.
package campuschat

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/um5chat/campuschat/core/classifier"
	"github.com/um5chat/campuschat/core/retrieval"
	"github.com/um5chat/campuschat/core/router"
	"github.com/um5chat/campuschat/core/templates"
	"github.com/um5chat/campuschat/corpus"
	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// Chatbot provides a unified interface to the routing pipeline. After
// the models are set, all state is read-only, so one Chatbot serves
// concurrent queries without locking.
type Chatbot struct {
	Corpus    *corpus.Corpus
	Index     *retrieval.Index
	Templates *templates.Templates
	Config    model.RouterConfig

	classifier *classifier.Classifier
	retriever  *retrieval.Retriever
	router     *router.Router

	intentModelName    string
	embeddingModelName string

	log *slog.Logger
}

// New creates a chatbot over a validated corpus. Models are not loaded
// yet; call SetModels or UseDefaultModels before processing queries.
func New(corp *corpus.Corpus, tmpl *templates.Templates, config model.RouterConfig) (*Chatbot, error) {
	logger := helper.NewLogger(os.Stdout, slog.LevelInfo)

	if corp == nil {
		return nil, helper.NewError("create chatbot", fmt.Errorf("corpus is nil"))
	}
	if tmpl == nil {
		tmpl = templates.DefaultTemplates()
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("create chatbot", err)
	}

	index, err := retrieval.NewIndex(corp.Entries, corp.Matrix)
	if err != nil {
		return nil, helper.NewError("create chatbot", err)
	}

	logger.Info("Indexed corpus",
		slog.Int("entries", corp.Size()),
		slog.Int("dimension", corp.Dimension()),
	)

	return &Chatbot{
		Corpus:    corp,
		Index:     index,
		Templates: tmpl,
		Config:    config,
		log:       logger,
	}, nil
}

// SetModels wires the classifier and embedder into the pipeline. Must be
// called exactly once before the first query; model loading and serving
// never overlap.
func (b *Chatbot) SetModels(cls *classifier.Classifier, embed retrieval.EmbedFunc) error {
	ret, err := retrieval.NewRetriever(embed, b.Index)
	if err != nil {
		return helper.NewError("set models", err)
	}

	r, err := router.NewRouter(cls, ret, b.Templates, b.Config, b.log)
	if err != nil {
		return helper.NewError("set models", err)
	}

	b.classifier = cls
	b.retriever = ret
	b.router = r
	if b.intentModelName == "" {
		b.intentModelName = "custom"
	}
	if b.embeddingModelName == "" {
		b.embeddingModelName = "custom"
	}

	b.log.Info("Chatbot ready",
		slog.Int("labels", len(cls.Labels())),
		slog.Int("templates", b.Templates.Size()),
	)

	return nil
}

// UseDefaultModels loads the exported intent model from intentModelPath
// with the label mapping at labelMappingPath, and the default sentence
// transformer embedder (downloaded on first use).
func (b *Chatbot) UseDefaultModels(intentModelPath string, labelMappingPath string) error {
	labels, err := classifier.LoadLabelMapping(labelMappingPath)
	if err != nil {
		return helper.NewError("load default models", err)
	}

	cls, err := classifier.NewHugotClassifier(intentModelPath, labels)
	if err != nil {
		return helper.NewError("load default models", err)
	}

	embed, err := retrieval.DefaultEmbedder()
	if err != nil {
		return helper.NewError("load default models", err)
	}

	b.intentModelName = intentModelPath
	b.embeddingModelName = retrieval.DefaultEmbeddingModel

	return b.SetModels(cls, embed)
}

// Ready reports whether the models are loaded and queries can be served.
func (b *Chatbot) Ready() bool {
	return b.router != nil
}

// Process runs one query through the routing pipeline. It fails fast if
// the models have not been set.
func (b *Chatbot) Process(ctx context.Context, query *model.Query) (*model.ChatResponse, error) {
	if b.router == nil {
		return nil, helper.NewError("process query", fmt.Errorf("models not set, use SetModels() or UseDefaultModels() first"))
	}
	return b.router.Process(ctx, query)
}

// ProcessText is a convenience wrapper around Process with the default
// language tag.
func (b *Chatbot) ProcessText(ctx context.Context, text string) (*model.ChatResponse, error) {
	return b.Process(ctx, model.NewQuery(text))
}

// Stats returns the read-only model and threshold information.
func (b *Chatbot) Stats() *model.Stats {
	labels := 0
	if b.classifier != nil {
		labels = len(b.classifier.Labels())
	}
	return &model.Stats{
		IntentModel:         b.intentModelName,
		EmbeddingModel:      b.embeddingModelName,
		CorpusSize:          b.Corpus.Size(),
		Labels:              labels,
		IntentThreshold:     b.Config.IntentThreshold,
		SimilarityThreshold: b.Config.SimilarityThreshold,
		TopK:                b.Config.TopK,
	}
}
