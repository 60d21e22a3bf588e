package uischema_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

func TestLoadFS_JSONAndYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/person.json": {Data: []byte(`{"type": "VerticalLayout", "elements": [{"type": "Control", "scope": "#/properties/name"}]}`)},
		"forms/address.yaml": {Data: []byte(`
type: Group
label: Address
options:
  scope: "#/properties/address"
elements:
  - type: Control
    scope: "#/properties/address/properties/street"
`)},
		"README.md": {Data: []byte("ignored")},
	}
	docs, err := uischema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs["person"].Elements[0].Scope != "#/properties/name" {
		t.Fatalf("unexpected person document: %#v", docs["person"])
	}
	address := docs["address"]
	if address.Type != uischema.TypeGroup || address.OptionsScope() != "#/properties/address" {
		t.Fatalf("unexpected address document: %#v", address)
	}
}

func TestLoadFS_DuplicateStem(t *testing.T) {
	fsys := fstest.MapFS{
		"a/person.json": {Data: []byte(`{"type": "VerticalLayout"}`)},
		"b/person.yml":  {Data: []byte("type: VerticalLayout\n")},
	}
	_, err := uischema.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate schema") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadFS_InvalidDocument(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte("type: Spinner\n")},
	}
	if _, err := uischema.LoadFS(fsys); err == nil {
		t.Fatalf("expected unknown type error")
	}
	docs, err := uischema.LoadFS(nil)
	if err != nil || len(docs) != 0 {
		t.Fatalf("expected empty result for nil fs, got %v %v", docs, err)
	}
}
