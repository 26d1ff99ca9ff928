package model

// DefaultLanguage is the language tag attached to queries that do not
// specify one. The corpus and templates are French.
const DefaultLanguage = "fr"

// Method identifies which routing branch produced a response. The
// string values are part of the wire format.
type Method string

const (
	// MethodIntent means the classifier was confident and the answer
	// comes from the intent templates.
	MethodIntent Method = "intent"
	// MethodRAG means the classifier was unsure and the best retrieval
	// match was close enough to answer from the corpus.
	MethodRAG Method = "rag"
	// MethodFallback means neither signal was strong enough and the
	// answer hedges with the closest match and contact guidance.
	MethodFallback Method = "fallback"
)

// Query is one user question entering the routing pipeline.
type Query struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// NewQuery creates a query with the default language tag.
func NewQuery(text string) *Query {
	return &Query{
		Text:     text,
		Language: DefaultLanguage,
	}
}

// ChatResponse is the routed answer to one query. Intent is always the
// classifier's prediction, even on the rag and fallback branches where
// it was not trusted. Sources is nil exactly on the intent branch.
type ChatResponse struct {
	Answer     string               `json:"answer"`
	Method     Method               `json:"method"`
	Confidence float64              `json:"confidence"`
	Intent     string               `json:"intent"`
	Sources    []*RetrievedDocument `json:"sources,omitempty"`
	LatencyMs  float64              `json:"latency_ms"`
}
