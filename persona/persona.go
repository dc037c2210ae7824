// Package persona infers a voice/audience profile from a batch of files
// by combining extracted text and inline media into one structured
// generate call.
package persona

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"promptforge/ingest"
	"promptforge/internal/jsonutil"
	"promptforge/llm"
	"promptforge/prompt"
)

// ErrFilesTooLarge reports that the provider rejected the batch for its
// size. Recoverable: retry with fewer files or a larger-context model.
var ErrFilesTooLarge = errors.New("persona: files too large for this model")

// File is one uploaded sample of the voice to mimic.
type File struct {
	Name     string
	MIMEType string
	Content  []byte
}

const extractWorkers = 4

const instruction = `Study the attached material and infer the voice it is written or spoken in.
Respond with JSON containing exactly these fields:
- "persona": short label for the author's persona
- "audience": list of descriptors for the intended audience
- "tone": one tone descriptor
- "stance": one stance descriptor`

// tenorResponse is the expected shape of the model's JSON body, decoded
// as a separate step so a malformed response is a distinct failure mode.
type tenorResponse struct {
	Persona  string   `json:"persona"`
	Audience []string `json:"audience"`
	Tone     string   `json:"tone"`
	Stance   string   `json:"stance"`
}

// Infer builds one request from all files and asks model for the four
// tenor fields. It returns (nil, nil) when no file contributes content.
// Size-limit rejections come back as ErrFilesTooLarge; every other
// gateway error propagates unchanged.
func Infer(ctx context.Context, cli llm.Client, model string, files []File) (*prompt.FacetTenor, error) {
	parts := buildParts(ctx, files)
	if len(parts) == 0 {
		return nil, nil
	}
	parts = append(parts, llm.TextPart(instruction))

	raw, err := cli.GenerateJSON(ctx, model, parts)
	if err != nil {
		if llm.IsTooLarge(err) {
			return nil, fmt.Errorf("%w: %v", ErrFilesTooLarge, err)
		}
		return nil, err
	}

	var tr tenorResponse
	if err := jsonutil.UnmarshalRaw(raw, &tr); err != nil {
		return nil, fmt.Errorf("persona: decode tenor: %w", err)
	}
	return &prompt.FacetTenor{
		Persona:  tr.Persona,
		Audience: tr.Audience,
		Tone:     tr.Tone,
		Stance:   tr.Stance,
	}, nil
}

// buildParts converts files to request parts, preserving file order.
// Image, audio, and PDF files ride along as inline media; everything else
// goes through local text extraction and contributes a labeled text part.
// Files that extract to nothing are skipped.
func buildParts(ctx context.Context, files []File) []llm.Part {
	slots := make([]llm.Part, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(extractWorkers)
	for i, f := range files {
		if binaryCapable(f.MIMEType) {
			slots[i] = llm.BlobPart(f.MIMEType, f.Content)
			continue
		}
		g.Go(func() error {
			text := strings.TrimSpace(ingest.ExtractText(f.Name, f.MIMEType, f.Content))
			if text != "" {
				slots[i] = llm.TextPart(fmt.Sprintf("Content from %s:\n%s", f.Name, text))
			}
			return nil
		})
	}
	_ = g.Wait()

	parts := make([]llm.Part, 0, len(slots))
	for _, p := range slots {
		if p.Text == "" && len(p.Data) == 0 {
			continue
		}
		parts = append(parts, p)
	}
	return parts
}

func binaryCapable(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(mt, "image/") ||
		strings.HasPrefix(mt, "audio/") ||
		strings.HasPrefix(mt, "application/pdf")
}
