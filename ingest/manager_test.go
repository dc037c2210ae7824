package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"promptforge/llm"
	"promptforge/prompt"
)

func TestManager_SettlesIndependently(t *testing.T) {
	fake := &llm.Fake{
		GenerateFunc: func(model string, parts []llm.Part) (string, error) {
			for _, p := range parts {
				if p.MIMEType == "audio/mpeg" {
					return "", errors.New("quota exhausted")
				}
			}
			return "described", nil
		},
	}
	m := NewManager(NewIngestor(fake))
	ctx := context.Background()

	bad := m.Attach(ctx, "song.mp3", "audio/mpeg", []byte{1})
	good := m.Attach(ctx, "photo.png", "image/png", []byte{2})
	text := m.Attach(ctx, "notes.txt", "text/plain", []byte("hello"))
	m.Wait()

	rec, _ := m.Get(bad.ID)
	if rec.Status != prompt.StatusError || rec.ErrorMessage == "" {
		t.Fatalf("failed media attachment: status=%s err=%q", rec.Status, rec.ErrorMessage)
	}
	rec, _ = m.Get(good.ID)
	if rec.Status != prompt.StatusDone || rec.Analysis != "described" {
		t.Fatalf("image attachment: status=%s analysis=%q", rec.Status, rec.Analysis)
	}
	rec, _ = m.Get(text.ID)
	if rec.Status != prompt.StatusDone || rec.Analysis != "hello" {
		t.Fatalf("text attachment: status=%s analysis=%q", rec.Status, rec.Analysis)
	}
}

func TestManager_InvalidJSONStillDone(t *testing.T) {
	m := NewManager(NewIngestor(&llm.Fake{}))
	att := m.Attach(context.Background(), "broken.json", "application/json", []byte(`{"x":`))
	m.Wait()

	rec, ok := m.Get(att.ID)
	if !ok {
		t.Fatalf("record missing")
	}
	if rec.Status != prompt.StatusDone {
		t.Fatalf("content-level JSON errors are not ingestion failures, got status %s", rec.Status)
	}
	if !strings.Contains(rec.Analysis, "Invalid JSON") {
		t.Fatalf("analysis should describe the parse failure, got %q", rec.Analysis)
	}
}

func TestManager_RemoveWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	fake := &llm.Fake{
		GenerateFunc: func(model string, parts []llm.Part) (string, error) {
			<-release
			return "late result", nil
		},
	}
	m := NewManager(NewIngestor(fake))

	att := m.Attach(context.Background(), "slow.pdf", "application/pdf", []byte{1, 2})
	if !m.Remove(att.ID) {
		t.Fatalf("remove failed")
	}
	close(release)
	m.Wait()

	if _, ok := m.Get(att.ID); ok {
		t.Fatalf("settlement must not resurrect a removed record")
	}
	if got := len(m.Snapshot()); got != 0 {
		t.Fatalf("expected empty snapshot, got %d records", got)
	}
}

func TestManager_SnapshotKeepsInsertionOrder(t *testing.T) {
	m := NewManager(NewIngestor(&llm.Fake{}))
	ctx := context.Background()
	var ids []string
	for i := 0; i < 5; i++ {
		att := m.Attach(ctx, fmt.Sprintf("f%d.txt", i), "text/plain", []byte("x"))
		ids = append(ids, att.ID)
	}
	m.Wait()

	snap := m.Snapshot()
	if len(snap) != len(ids) {
		t.Fatalf("snapshot size %d, want %d", len(snap), len(ids))
	}
	for i, rec := range snap {
		if rec.ID != ids[i] {
			t.Fatalf("snapshot order broken at %d", i)
		}
		if rec.Status != prompt.StatusDone {
			t.Fatalf("attachment %d not settled: %s", i, rec.Status)
		}
	}
}

func TestManager_UndeclaredMIMETypeAndAnalysisAgree(t *testing.T) {
	fake := &llm.Fake{
		GenerateFunc: func(model string, parts []llm.Part) (string, error) {
			return "a photograph", nil
		},
	}
	m := NewManager(NewIngestor(fake))

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	att := m.Attach(context.Background(), "photo", "", png)
	m.Wait()

	rec, _ := m.Get(att.ID)
	if rec.Type != prompt.TypeImage {
		t.Fatalf("sniffed image tagged %s", rec.Type)
	}
	if rec.Status != prompt.StatusDone || rec.Analysis != "a photograph" {
		t.Fatalf("image tag must mean image analysis: status=%s analysis=%q", rec.Status, rec.Analysis)
	}
	if calls := len(fake.Calls()); calls != 1 {
		t.Fatalf("sniffed media must be dispatched once, saw %d calls", calls)
	}
}

func TestManager_CachesIdenticalContent(t *testing.T) {
	fake := &llm.Fake{
		GenerateFunc: func(model string, parts []llm.Part) (string, error) {
			return "summary", nil
		},
	}
	m := NewManager(NewIngestor(fake))
	ctx := context.Background()

	payload := []byte{9, 9, 9}
	first := m.Attach(ctx, "doc.pdf", "application/pdf", payload)
	m.Wait()
	second := m.Attach(ctx, "doc.pdf", "application/pdf", payload)
	m.Wait()

	for _, id := range []string{first.ID, second.ID} {
		rec, _ := m.Get(id)
		if rec.Status != prompt.StatusDone || rec.Analysis != "summary" {
			t.Fatalf("attachment %s: status=%s analysis=%q", id, rec.Status, rec.Analysis)
		}
	}
	if calls := len(fake.Calls()); calls != 1 {
		t.Fatalf("identical re-attachment should use the cache, gateway called %d times", calls)
	}
}
