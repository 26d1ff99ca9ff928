// Package router implements the confidence-gated routing pipeline: it
// trusts the intent classifier when it is confident, falls back to
// similarity retrieval otherwise, and hedges when neither signal is
// strong enough.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/um5chat/campuschat/core/classifier"
	"github.com/um5chat/campuschat/core/retrieval"
	"github.com/um5chat/campuschat/core/templates"
	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
)

// ErrEmptyQuery is returned for empty or whitespace-only query text.
// Degenerate input is rejected before classification.
var ErrEmptyQuery = errors.New("query text is empty")

// fallbackPreviewRunes is how much of the best match's answer is quoted
// in the hedge response.
const fallbackPreviewRunes = 200

// Router is the per-query orchestrator. It holds only read-only state
// after construction and is safe for concurrent use; each Process call
// is independent.
type Router struct {
	classifier *classifier.Classifier
	retriever  *retrieval.Retriever
	templates  *templates.Templates
	config     model.RouterConfig
	log        *slog.Logger
}

// NewRouter wires the pipeline. All components and a valid configuration
// are startup preconditions; the router refuses to exist without them
// rather than produce undefined routing behavior.
func NewRouter(
	cls *classifier.Classifier,
	ret *retrieval.Retriever,
	tmpl *templates.Templates,
	config model.RouterConfig,
	logger *slog.Logger,
) (*Router, error) {
	if cls == nil {
		return nil, helper.NewError("create router", fmt.Errorf("classifier is nil"))
	}
	if ret == nil {
		return nil, helper.NewError("create router", fmt.Errorf("retriever is nil"))
	}
	if tmpl == nil {
		return nil, helper.NewError("create router", fmt.Errorf("templates are nil"))
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("create router", err)
	}

	return &Router{
		classifier: cls,
		retriever:  ret,
		templates:  tmpl,
		config:     config,
		log:        logger,
	}, nil
}

// Config returns the immutable routing configuration.
func (r *Router) Config() model.RouterConfig {
	return r.config
}

// Process runs one query through the pipeline and assembles the routed
// response. Classification always runs first; retrieval only runs when
// the classifier's confidence is below the intent threshold, because the
// branch decision depends on the classification result. Any model error
// aborts the whole query with no partial response and no retry.
func (r *Router) Process(ctx context.Context, query *model.Query) (*model.ChatResponse, error) {
	if query == nil || strings.TrimSpace(query.Text) == "" {
		return nil, helper.NewError("process query", ErrEmptyQuery)
	}

	start := time.Now()

	prediction, err := r.classifier.Classify(query.Text)
	if err != nil {
		return nil, helper.NewError("process query", err)
	}

	if prediction.Confidence >= r.config.IntentThreshold {
		response := &model.ChatResponse{
			Answer:     r.templates.Render(prediction.Label),
			Method:     model.MethodIntent,
			Confidence: prediction.Confidence,
			Intent:     prediction.Label,
			Sources:    nil,
			LatencyMs:  elapsedMs(start),
		}
		r.logDecision(query, response)
		return response, nil
	}

	docs, err := r.retriever.Search(query.Text, r.config.TopK)
	if err != nil {
		return nil, helper.NewError("process query", err)
	}

	// docs is sorted descending, so the first element is the maximum.
	best := docs[0].Similarity

	response := &model.ChatResponse{
		Confidence: best,
		Intent:     prediction.Label,
		Sources:    docs,
	}
	if best >= r.config.SimilarityThreshold {
		response.Method = model.MethodRAG
		response.Answer = docs[0].Answer
	} else {
		response.Method = model.MethodFallback
		response.Answer = fallbackAnswer(docs[0].Answer)
	}
	response.LatencyMs = elapsedMs(start)

	r.logDecision(query, response)
	return response, nil
}

func (r *Router) logDecision(query *model.Query, response *model.ChatResponse) {
	r.log.Debug("Routed query",
		slog.String("method", string(response.Method)),
		slog.String("intent", response.Intent),
		slog.Float64("confidence", response.Confidence),
		slog.Float64("latency_ms", response.LatencyMs),
		slog.String("language", query.Language),
	)
}

// fallbackAnswer hedges with a preview of the closest match plus contact
// guidance. The preview keeps the first 200 characters of the answer.
func fallbackAnswer(bestAnswer string) string {
	preview := bestAnswer
	if runes := []rune(preview); len(runes) > fallbackPreviewRunes {
		preview = string(runes[:fallbackPreviewRunes]) + "..."
	}

	return fmt.Sprintf(`Je ne suis pas certain de bien comprendre votre question.

**Voici ce qui pourrait vous aider :**

%s

📞 **Pour plus d'informations** :
- Email : info@um5.ac.ma
- Téléphone : +212 5XX-XX-XX-XX`, preview)
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1e6
}
