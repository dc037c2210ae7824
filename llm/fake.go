package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Call records one gateway invocation made against a Fake.
type Call struct {
	Method string
	Model  string
	Parts  []Part
}

// Fake is a deterministic offline gateway for tests and development.
// Hook fields override the canned behavior per capability; the zero value
// is usable.
type Fake struct {
	GenerateFunc func(model string, parts []Part) (string, error)
	JSONFunc     func(model string, parts []Part) (json.RawMessage, error)
	DraftFunc    func(model, goal string) (*Draft, error)
	ModelNames   []string
	ModelsErr    error

	mu    sync.Mutex
	calls []Call
}

func (f *Fake) Name() string { return "FakeLLM" }
func (f *Fake) Close() error { return nil }

// Calls returns a copy of every recorded invocation, in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *Fake) record(method, model string, parts []Part) {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Method: method, Model: model, Parts: parts})
	f.mu.Unlock()
}

func (f *Fake) GenerateOnce(ctx context.Context, model string, parts []Part) (string, error) {
	f.record("GenerateOnce", model, parts)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.GenerateFunc != nil {
		return f.GenerateFunc(model, parts)
	}
	return fmt.Sprintf("fake response (%d parts, model %s)", len(parts), pick(model)), nil
}

func (f *Fake) GenerateStream(ctx context.Context, model string, parts []Part, onChunk func(chunk string)) (string, error) {
	f.record("GenerateStream", model, parts)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var full string
	if f.GenerateFunc != nil {
		var err error
		full, err = f.GenerateFunc(model, parts)
		if err != nil {
			return "", err
		}
	} else {
		full = fmt.Sprintf("fake response (%d parts, model %s)", len(parts), pick(model))
	}
	// Emit in two chunks so consumers exercise accumulation.
	half := len(full) / 2
	for _, chunk := range []string{full[:half], full[half:]} {
		if chunk == "" {
			continue
		}
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return full, nil
}

func (f *Fake) GenerateJSON(ctx context.Context, model string, parts []Part) (json.RawMessage, error) {
	f.record("GenerateJSON", model, parts)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.JSONFunc != nil {
		return f.JSONFunc(model, parts)
	}
	return json.RawMessage(`{}`), nil
}

func (f *Fake) GenerateFromGoal(ctx context.Context, model, goal string) (*Draft, error) {
	f.record("GenerateFromGoal", model, nil)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.DraftFunc != nil {
		return f.DraftFunc(model, goal)
	}
	d := &Draft{Title: goal}
	d.Field.Topic = goal
	d.Mode.Format = "Markdown"
	return d, nil
}

func (f *Fake) ListModels(ctx context.Context) []string {
	f.record("ListModels", "", nil)
	return fallbackOnError(f.ModelNames, f.ModelsErr)
}

var _ Client = (*Fake)(nil)
