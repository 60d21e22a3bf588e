package blocks_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gravio-la/forms-designer-sub000/pkg/blocks"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

func TestListAddRemove(t *testing.T) {
	var list blocks.List
	list = list.Add(blocks.Block{Name: "a"})
	next := list.Add(blocks.Block{Name: "b"}).Add(blocks.Block{Name: "c"})

	if diff := cmp.Diff([]string{"a"}, list.Names()); diff != "" {
		t.Fatalf("original list changed (-want +got):\n%s", diff)
	}
	removed, err := next.Remove(1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, removed.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, next.Names()); diff != "" {
		t.Fatalf("source list changed (-want +got):\n%s", diff)
	}
	if _, err := next.Remove(7); !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestDraggableIsDetached(t *testing.T) {
	block := blocks.Block{
		Name:              "Address",
		JSONSchemaElement: map[string]any{"type": "object", "properties": map[string]any{}},
		UISchema:          uischema.NewLayout(uischema.TypeGroup, uischema.NewControl("#/properties/Address/properties/street")),
	}
	drag := block.Draggable()
	drag.JSONSchemaElement["title"] = "changed"
	drag.UISchema.Elements[0].Scope = "#/properties/x"

	if _, ok := block.JSONSchemaElement["title"]; ok {
		t.Fatalf("draggable schema shares maps with the block")
	}
	if block.UISchema.Elements[0].Scope != "#/properties/Address/properties/street" {
		t.Fatalf("draggable UI shares elements with the block")
	}
}

func TestUniqueName(t *testing.T) {
	taken := map[string]bool{"field": true, "field_1": true}
	got := blocks.UniqueName("field", func(name string) bool { return taken[name] })
	if got != "field_2" {
		t.Fatalf("expected field_2, got %s", got)
	}
}
