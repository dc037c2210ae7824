package ingest

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"promptforge/prompt"
)

// Kind is the routing decision for one file: which extraction strategy
// ingestion applies. Classification is pure so routing is testable apart
// from any I/O.
type Kind int

const (
	KindText Kind = iota
	KindJSON
	KindJSONL
	KindDocument
	KindAudio
	KindVideo
	KindImage
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindJSONL:
		return "jsonl"
	case KindDocument:
		return "document"
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	case KindPDF:
		return "pdf"
	default:
		return "text"
	}
}

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeDoc  = "application/msword"
	mimePDF  = "application/pdf"
)

// Classify picks the extraction strategy: filename extension first, then
// declared MIME type. Anything unrecognized is treated as plain text.
func Classify(name, mimeType string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return KindJSON
	case ".jsonl":
		return KindJSONL
	}

	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case mt == mimeDocx || mt == mimeDoc:
		return KindDocument
	case strings.HasPrefix(mt, "audio/"):
		return KindAudio
	case strings.HasPrefix(mt, "video/"):
		return KindVideo
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, mimePDF):
		return KindPDF
	}
	return KindText
}

// Media reports whether the kind is dispatched to the model gateway
// rather than extracted locally.
func (k Kind) Media() bool {
	switch k {
	case KindAudio, KindVideo, KindImage, KindPDF:
		return true
	}
	return false
}

// InferType derives the coarse attachment tag shown to the user.
// Priority: audio > video > image > pdf > document/text heuristics > other.
func InferType(name, mimeType string, content []byte) prompt.AttachmentType {
	mt := strings.ToLower(EffectiveMIME(mimeType, content))
	switch {
	case strings.HasPrefix(mt, "audio/"):
		return prompt.TypeAudio
	case strings.HasPrefix(mt, "video/"):
		return prompt.TypeVideo
	case strings.HasPrefix(mt, "image/"):
		return prompt.TypeImage
	case strings.HasPrefix(mt, mimePDF):
		return prompt.TypePDF
	case mt == mimeDocx || mt == mimeDoc:
		return prompt.TypeDocument
	case strings.HasPrefix(mt, "text/"), strings.Contains(mt, "json"):
		return prompt.TypeText
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".jsonl", ".txt", ".md", ".csv", ".xml", ".yaml", ".yml":
		return prompt.TypeText
	case ".docx", ".doc":
		return prompt.TypeDocument
	case ".pdf":
		return prompt.TypePDF
	}
	return prompt.TypeOther
}

// EffectiveMIME returns the declared MIME type, or a sniffed one when the
// upload arrived without a usable declaration.
func EffectiveMIME(declared string, content []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(content) == 0 {
		return declared
	}
	return mimetype.Detect(content).String()
}
