package ingest

import (
	"context"

	"promptforge/llm"
)

// Per-kind analysis instructions sent alongside the inline media bytes.
const (
	audioInstruction = "Transcribe this audio verbatim. Output only the transcription text."
	videoInstruction = "Describe this video completely: narrate what happens visually and transcribe all spoken audio."
	imageInstruction = "Describe this image in detail: subjects, setting, visible text, and notable attributes."
	pdfInstruction   = "Summarize this document thoroughly, preserving key facts, figures, and structure."
)

// mediaRequest maps a media kind to its instruction and model. Video and
// image go to the larger model; audio and PDF to the faster one. This is
// a cost/quality tradeoff, not an accident.
func mediaRequest(kind Kind) (instruction, model string) {
	switch kind {
	case KindAudio:
		return audioInstruction, llm.DefaultModel
	case KindVideo:
		return videoInstruction, llm.ProModel
	case KindImage:
		return imageInstruction, llm.ProModel
	default: // KindPDF
		return pdfInstruction, llm.DefaultModel
	}
}

// analyzeMedia ships the file to the gateway as an inline blob with a
// type-specific instruction. Gateway errors propagate; the state machine
// turns them into per-attachment error status.
func (ing *Ingestor) analyzeMedia(ctx context.Context, kind Kind, mimeType string, content []byte) (string, error) {
	instruction, model := mediaRequest(kind)
	return ing.cli.GenerateOnce(ctx, model, []llm.Part{
		llm.BlobPart(mimeType, content),
		llm.TextPart(instruction),
	})
}
