// Package templates maps intent labels to canned answers.
package templates

import (
	"fmt"

	"github.com/um5chat/campuschat/helper"
)

// Templates is an immutable intent-to-answer lookup table built once at
// startup. Unknown intents resolve to the default template; that is a
// defined fallback, not an error.
type Templates struct {
	byIntent map[string]string
	fallback string
}

// NewTemplates builds a lookup table from the given mapping and default
// answer. The mapping is copied, so later mutation of the input map has
// no effect.
func NewTemplates(byIntent map[string]string, defaultAnswer string) (*Templates, error) {
	if defaultAnswer == "" {
		return nil, helper.NewError("create templates", fmt.Errorf("default template is empty"))
	}

	copied := make(map[string]string, len(byIntent))
	for intent, answer := range byIntent {
		if answer == "" {
			return nil, helper.NewError("create templates", fmt.Errorf("empty template for intent %q", intent))
		}
		copied[intent] = answer
	}

	return &Templates{
		byIntent: copied,
		fallback: defaultAnswer,
	}, nil
}

// Render returns the answer for the intent, or the default template for
// unknown intents.
func (t *Templates) Render(intent string) string {
	if answer, ok := t.byIntent[intent]; ok {
		return answer
	}
	return t.fallback
}

// Has reports whether a dedicated template exists for the intent.
func (t *Templates) Has(intent string) bool {
	_, ok := t.byIntent[intent]
	return ok
}

// Size returns the number of dedicated templates, excluding the default.
func (t *Templates) Size() int {
	return len(t.byIntent)
}
