// Package ingest converts uploaded files into plain-text analyses and
// tracks each attachment's lifecycle while that happens.
package ingest

import (
	"context"

	"promptforge/llm"
)

// Ingestor converts one uploaded file into analysis text, selecting a
// strategy from the file name and MIME type.
type Ingestor struct {
	cli llm.Client
}

func NewIngestor(cli llm.Client) *Ingestor {
	return &Ingestor{cli: cli}
}

// Ingest produces the analysis for one file. Content-level problems in
// structured text (bad JSON, unreadable documents) are swallowed into
// descriptive analysis text. Only gateway failures during media analysis
// return an error; the caller converts those into an error status without
// touching other files in the batch.
func (ing *Ingestor) Ingest(ctx context.Context, name, mimeType string, content []byte) (string, error) {
	// Route on the effective MIME type so an upload with no usable
	// declaration still reaches the right extractor. Otherwise a sniffed
	// media file would fall through to plain-text extraction and settle
	// with its raw bytes as the analysis.
	mt := EffectiveMIME(mimeType, content)
	kind := Classify(name, mt)
	if kind.Media() {
		return ing.analyzeMedia(ctx, kind, mt, content)
	}
	return ExtractText(name, mt, content), nil
}
