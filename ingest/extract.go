package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	docx "github.com/fumiama/go-docx"

	"promptforge/internal/jsonutil"
)

// ExtractText runs the local, non-model extraction for a file. Media
// kinds yield an empty string; they need the gateway. Content-level
// problems (malformed JSON, unreadable documents) degrade to descriptive
// text and never surface as errors.
func ExtractText(name, mimeType string, content []byte) string {
	switch Classify(name, mimeType) {
	case KindJSON:
		return extractJSON(content)
	case KindJSONL:
		return extractJSONL(content)
	case KindDocument:
		return extractDocument(content)
	case KindAudio, KindVideo, KindImage, KindPDF:
		return ""
	default:
		return string(content)
	}
}

// extractJSON normalizes a JSON file for use as reference material. A
// parse failure is swallowed into an error-description string; the file
// still ingests successfully.
func extractJSON(content []byte) string {
	var v any
	if err := json.Unmarshal(content, &v); err != nil {
		return fmt.Sprintf("Invalid JSON: %v", err)
	}
	pretty, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return string(content)
	}
	return string(pretty)
}

// extractJSONL parses each non-empty line independently. A bad line
// contributes a per-line marker instead of aborting the file; partial
// success is the policy.
func extractJSONL(content []byte) string {
	lines := strings.Split(string(content), "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
			out = append(out, fmt.Sprintf("[Line %d] Invalid JSON: %s", i+1, trimmed))
			continue
		}
		norm, err := jsonutil.Marshal(v)
		if err != nil {
			out = append(out, trimmed)
			continue
		}
		out = append(out, string(norm))
	}
	return strings.Join(out, "\n")
}

// extractDocument pulls plain text out of a word-processing file. A
// document that parses but has no text yields the "Empty document"
// marker; a document that cannot be parsed yields an empty string.
func extractDocument(content []byte) string {
	doc, err := docx.Parse(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		log.Printf("ingest: document extraction: %v", err)
		return ""
	}
	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch o := item.(type) {
		case *docx.Paragraph:
			writeBlock(&b, o.String())
		case *docx.Table:
			writeBlock(&b, o.String())
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "Empty document"
	}
	return text
}

func writeBlock(b *strings.Builder, s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteByte('\n')
}
