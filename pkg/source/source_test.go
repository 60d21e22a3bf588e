package source

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		kind     SourceKind
		location string
		wantErr  bool
	}{
		{raw: "designs/person.json", kind: KindFile, location: "designs/person.json"},
		{raw: "  ./a/../b.json ", kind: KindFile, location: "b.json"},
		{raw: "https://example.com/openapi.yaml", kind: KindURL, location: "https://example.com/openapi.yaml"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
		{raw: "https:///openapi.yaml", wantErr: true},
	}
	for _, tt := range tests {
		src, err := Parse(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.raw, err)
		}
		if src.Kind() != tt.kind || src.Location() != tt.location {
			t.Errorf("Parse(%q) = %s %q, want %s %q", tt.raw, src.Kind(), src.Location(), tt.kind, tt.location)
		}
	}
}

func TestFromURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com/a.yaml", "http://", "/relative/path"} {
		if _, err := FromURL(raw); err == nil {
			t.Errorf("FromURL(%q): expected error", raw)
		}
	}
	src, err := FromURL("http://localhost:8080/spec.json")
	if err != nil {
		t.Fatalf("FromURL: %v", err)
	}
	if src.Kind() != KindURL {
		t.Fatalf("unexpected kind %s", src.Kind())
	}
}

func TestNewDocumentCopiesPayload(t *testing.T) {
	raw := []byte(`{"type":"object"}`)
	doc, err := NewDocument(FromFile("schema.json"), raw)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	raw[0] = 'x'
	if got := string(doc.Raw()); got != `{"type":"object"}` {
		t.Fatalf("document shares caller buffer: %s", got)
	}
	if doc.Location() != "schema.json" {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	if _, err := NewDocument(nil, raw); err == nil {
		t.Fatal("expected error for nil source")
	}
	if _, err := NewDocument(FromFile("x"), nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestNewLoaderOptions(t *testing.T) {
	opts := NewLoaderOptions(WithHTTPFallback(3*time.Second), nil)
	if !opts.AllowHTTPFallback || opts.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
