package jsonutil

import (
	"strings"
	"testing"
)

func TestMarshal_NoHTMLEscape(t *testing.T) {
	out, err := Marshal(map[string]string{"k": "<b> & </b>"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), `<`) {
		t.Fatalf("angle brackets must not be escaped: %s", out)
	}
}

func TestUnmarshal_Direct(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	if err := Unmarshal([]byte(`{"a":1}`), &v); err != nil || v.A != 1 {
		t.Fatalf("direct decode failed: %v", err)
	}
}

func TestUnmarshal_QuotedPayload(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	// The whole body arrives as a JSON-encoded string of JSON.
	if err := Unmarshal([]byte(`"{\"a\":2}"`), &v); err != nil || v.A != 2 {
		t.Fatalf("quoted payload decode failed: %v (a=%d)", err, v.A)
	}
}

func TestMarshalIndent(t *testing.T) {
	out, err := MarshalIndent(map[string]any{"a": map[string]int{"b": 1}}, "", "  ")
	if err != nil {
		t.Fatalf("marshal indent: %v", err)
	}
	if !strings.Contains(string(out), "\n  ") {
		t.Fatalf("expected indentation: %s", out)
	}
}
