package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	genai "google.golang.org/genai"

	"promptforge/internal/jsonutil"
)

// Gemini is a thin wrapper around the official genai client. It only
// focuses on the API calls themselves; routing and retry policy belong to
// the callers.
type Gemini struct {
	cli *genai.Client
}

// NewGemini builds a gateway against the Gemini API. An empty apiKey lets
// the genai client read GEMINI_API_KEY from the environment; a missing key
// fails here, before any capability is used.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: init gemini client: %w", err)
	}
	return &Gemini{cli: cli}, nil
}

func (g *Gemini) Name() string { return "Gemini" }
func (g *Gemini) Close() error { return nil }

func (g *Gemini) GenerateOnce(ctx context.Context, model string, parts []Part) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, pick(model), contents(parts), nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (g *Gemini) GenerateStream(ctx context.Context, model string, parts []Part, onChunk func(chunk string)) (string, error) {
	var buf strings.Builder
	for resp, err := range g.cli.Models.GenerateContentStream(ctx, pick(model), contents(parts), nil) {
		if err != nil {
			return buf.String(), err
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		buf.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}
	return buf.String(), nil
}

// GenerateJSON requests application/json output and returns the raw body.
// Decoding into a concrete shape is the caller's separate, testable step.
func (g *Gemini) GenerateJSON(ctx context.Context, model string, parts []Part) (json.RawMessage, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, pick(model), contents(parts),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, err
	}
	txt := strings.TrimSpace(resp.Text())
	if txt == "" {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(txt), nil
}

func (g *Gemini) GenerateFromGoal(ctx context.Context, model, goal string) (*Draft, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, pick(model),
		genai.Text(goalInstruction(goal)),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   draftSchema(),
		},
	)
	if err != nil {
		return nil, err
	}
	txt := strings.TrimSpace(resp.Text())
	if txt == "" {
		return nil, nil
	}
	var d Draft
	if err := jsonutil.Unmarshal([]byte(txt), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &d, nil
}

func (g *Gemini) ListModels(ctx context.Context) []string {
	var names []string
	for m, err := range g.cli.Models.All(ctx) {
		if err != nil {
			log.Printf("llm: list models: %v", err)
			return fallbackOnError(nil, err)
		}
		if m == nil {
			continue
		}
		if len(m.SupportedActions) > 0 && !supportsGenerate(m.SupportedActions) {
			continue
		}
		names = append(names, strings.TrimPrefix(m.Name, "models/"))
	}
	return fallbackOnError(names, nil)
}

// IsTooLarge reports whether err is the provider rejecting a request for
// exceeding its input size or token limit.
func IsTooLarge(err error) bool {
	var ae genai.APIError
	if !errors.As(err, &ae) {
		return false
	}
	if ae.Code != 400 && ae.Code != 413 {
		return false
	}
	msg := strings.ToLower(ae.Message)
	return strings.Contains(msg, "token") ||
		strings.Contains(msg, "payload size") ||
		strings.Contains(msg, "request entity too large")
}

func pick(model string) string {
	if strings.TrimSpace(model) == "" {
		return DefaultModel
	}
	return model
}

func supportsGenerate(actions []string) bool {
	for _, a := range actions {
		if a == "generateContent" {
			return true
		}
	}
	return false
}

func contents(parts []Part) []*genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if len(p.Data) > 0 {
			out = append(out, genai.NewPartFromBytes(p.Data, p.MIMEType))
			continue
		}
		if p.Text != "" {
			out = append(out, genai.NewPartFromText(p.Text))
		}
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}
}

func goalInstruction(goal string) string {
	return "Draft a structured prompt specification for the goal below. " +
		"Fill in title, subject-matter field, voice tenor, and output mode. " +
		"Leave a field empty rather than inventing detail.\n\nGOAL:\n" + goal
}

func draftSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": str(),
			"field": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"topic":           str(),
					"taskType":        str(),
					"domainSpecifics": str(),
					"keywords":        str(),
				},
				Required: []string{"topic", "taskType"},
			},
			"tenor": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"persona":  str(),
					"audience": {Type: genai.TypeArray, Items: str()},
					"tone":     str(),
					"stance":   str(),
				},
				Required: []string{"persona", "audience", "tone", "stance"},
			},
			"mode": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"format":     str(),
					"structure":  str(),
					"length":     str(),
					"directives": str(),
				},
				Required: []string{"format"},
			},
		},
		Required: []string{"title", "field", "tenor", "mode"},
	}
}
