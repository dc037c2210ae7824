package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	genai "google.golang.org/genai"
)

func TestFallbackOnError(t *testing.T) {
	if got := fallbackOnError(nil, errors.New("listing failed")); len(got) != 3 {
		t.Fatalf("fallback list has %d entries, want 3", len(got))
	}
	if got := fallbackOnError(nil, nil); len(got) != 3 {
		t.Fatalf("empty listing should also degrade, got %v", got)
	}
	models := []string{"m1", "m2"}
	got := fallbackOnError(models, nil)
	if len(got) != 2 || got[0] != "m1" {
		t.Fatalf("healthy listing must pass through, got %v", got)
	}
}

func TestFake_ListModelsNeverFails(t *testing.T) {
	f := &Fake{ModelsErr: errors.New("discovery down")}
	got := f.ListModels(context.Background())
	want := FallbackModels()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("fallback order changed: got %v, want %v", got, want)
		}
	}
}

func TestFake_StreamAccumulates(t *testing.T) {
	f := &Fake{GenerateFunc: func(model string, parts []Part) (string, error) {
		return "hello world", nil
	}}

	var chunks []string
	full, err := f.GenerateStream(context.Background(), "", nil, func(c string) {
		chunks = append(chunks, c)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if full != "hello world" {
		t.Fatalf("accumulated %q", full)
	}
	if strings.Join(chunks, "") != full {
		t.Fatalf("chunks %v do not reassemble into %q", chunks, full)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected incremental chunks, got %d", len(chunks))
	}
}

func TestFake_StreamRecordsOneCall(t *testing.T) {
	f := &Fake{}
	if _, err := f.GenerateStream(context.Background(), "m1", nil, nil); err != nil {
		t.Fatalf("stream: %v", err)
	}
	calls := f.Calls()
	if len(calls) != 1 {
		t.Fatalf("one stream invocation recorded %d calls", len(calls))
	}
	if calls[0].Method != "GenerateStream" {
		t.Fatalf("recorded as %s", calls[0].Method)
	}
}

func TestIsTooLarge(t *testing.T) {
	tooBig := genai.APIError{Code: 400, Message: "The input token count exceeds the maximum allowed"}
	if !IsTooLarge(tooBig) {
		t.Fatalf("token-limit rejection not recognized")
	}
	if !IsTooLarge(fmt.Errorf("call failed: %w", tooBig)) {
		t.Fatalf("wrapped token-limit rejection not recognized")
	}
	if IsTooLarge(genai.APIError{Code: 500, Message: "internal"}) {
		t.Fatalf("server errors are not size rejections")
	}
	if IsTooLarge(errors.New("plain failure")) {
		t.Fatalf("non-provider errors are not size rejections")
	}
}

func TestParts(t *testing.T) {
	p := TextPart("hi")
	if p.Text != "hi" || p.Data != nil {
		t.Fatalf("text part malformed: %+v", p)
	}
	b := BlobPart("image/png", []byte{1, 2})
	if b.MIMEType != "image/png" || len(b.Data) != 2 || b.Text != "" {
		t.Fatalf("blob part malformed: %+v", b)
	}
}

func TestPick(t *testing.T) {
	if pick("") != DefaultModel {
		t.Fatalf("empty model must default")
	}
	if pick(" custom ") != " custom " {
		t.Fatalf("explicit model must pass through untouched")
	}
}
