// Package llm is the gateway through which all generative-model calls are
// issued. Callers pick a model per call; an empty model name falls back to
// DefaultModel.
package llm

import (
	"context"
	"encoding/json"
	"errors"

	"promptforge/prompt"
)

// DefaultModel is the capable general-purpose model used when a call site
// does not pick one. ProModel is the larger model reserved for work that
// needs it (video and image analysis).
const (
	DefaultModel = "gemini-2.5-flash"
	ProModel     = "gemini-2.5-pro"
)

// ErrInvalidJSON reports a structured response whose body could not be
// decoded into the expected shape.
var ErrInvalidJSON = errors.New("llm: invalid JSON from model")

// Part is one element of a request: either text or inline binary media.
type Part struct {
	Text     string
	MIMEType string
	Data     []byte
}

// TextPart wraps s as a text part.
func TextPart(s string) Part { return Part{Text: s} }

// BlobPart wraps raw media bytes with their MIME type.
func BlobPart(mimeType string, data []byte) Part {
	return Part{MIMEType: mimeType, Data: data}
}

// Draft is the structured result of a generate-from-goal call: a starting
// point for all three facets plus a title.
type Draft struct {
	Title string            `json:"title"`
	Field prompt.FacetField `json:"field"`
	Tenor prompt.FacetTenor `json:"tenor"`
	Mode  prompt.FacetMode  `json:"mode"`
}

// Client is the model-gateway contract.
//
// GenerateStream issues one request and reports chunks to onChunk in
// arrival order; the accumulated text is returned. The stream is finite
// and not restartable: calling again issues a new request. ListModels
// never fails visibly; on provider error it returns FallbackModels().
// GenerateFromGoal returns nil when the provider produced empty content;
// a malformed body is a decode failure, not nil.
type Client interface {
	Name() string
	GenerateOnce(ctx context.Context, model string, parts []Part) (string, error)
	GenerateStream(ctx context.Context, model string, parts []Part, onChunk func(chunk string)) (string, error)
	GenerateJSON(ctx context.Context, model string, parts []Part) (json.RawMessage, error)
	GenerateFromGoal(ctx context.Context, model, goal string) (*Draft, error)
	ListModels(ctx context.Context) []string
	Close() error
}

// FallbackModels is the hard-coded list used when model discovery fails.
// Three identifiers known to support generateContent.
func FallbackModels() []string {
	return []string{"gemini-2.5-flash", "gemini-2.5-pro", "gemini-2.5-flash-lite"}
}

// fallbackOnError shields callers from a flaky discovery call: any error
// or an empty listing degrades to the hard-coded set.
func fallbackOnError(models []string, err error) []string {
	if err != nil || len(models) == 0 {
		return FallbackModels()
	}
	return models
}
