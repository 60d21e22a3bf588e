package jsonschema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
)

func personSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"name"},
		"properties": map[string]any{
			"name": map[string]any{"type": "string"},
			"address": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"street": map[string]any{"type": "string"},
				},
			},
		},
	}
}

func TestInsertAt_CopyOnWrite(t *testing.T) {
	original := personSchema()
	before := CloneSchema(original)

	out, err := InsertAt(original, []string{"address"}, "city", map[string]any{"type": "string"}, false)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if diff := cmp.Diff(before, original); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
	if got := Lookup(out, []string{"address", "city"}); got == nil || got["type"] != "string" {
		t.Fatalf("expected inserted city, got %#v", got)
	}
	// untouched siblings are shared
	if Properties(out)["name"].(map[string]any)["type"] != "string" {
		t.Fatalf("expected name to survive")
	}
}

func TestInsertAt_EnsurePath(t *testing.T) {
	out, err := InsertAt(EmptyObject(), []string{"a", "b"}, "c", map[string]any{"type": "number"}, true)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	want := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"b": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"c": map[string]any{"type": "number"},
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertAt_MissingPath(t *testing.T) {
	_, err := InsertAt(EmptyObject(), []string{"missing"}, "x", map[string]any{}, false)
	if !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	_, err = InsertAt(personSchema(), []string{"name"}, "x", map[string]any{}, true)
	if !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected non-object parent to be rejected, got %v", err)
	}
}

func TestUpdateAt(t *testing.T) {
	out, err := UpdateAt(personSchema(), []string{"name"}, map[string]any{"title": "Full name", "type": nil})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := map[string]any{"title": "Full name"}
	if diff := cmp.Diff(want, Lookup(out, []string{"name"})); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	if _, err := UpdateAt(personSchema(), []string{"nope"}, map[string]any{}); !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
}

func TestRemoveAt(t *testing.T) {
	out, err := RemoveAt(personSchema(), []string{"name"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := Property(out, "name"); ok {
		t.Fatalf("expected name removed")
	}
	if got := Required(out); len(got) != 0 {
		t.Fatalf("expected required pruned, got %v", got)
	}

	root := personSchema()
	same, err := RemoveAt(root, nil)
	if err != nil {
		t.Fatalf("remove root: %v", err)
	}
	if diff := cmp.Diff(root, same); diff != "" {
		t.Fatalf("expected root removal to be a no-op (-want +got):\n%s", diff)
	}
	if _, err := RemoveAt(root, []string{"ghost", "x"}); !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected missing parent to fail, got %v", err)
	}
}

func TestRenameAt(t *testing.T) {
	out, err := RenameAt(personSchema(), []string{"name"}, "fullName")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, ok := Property(out, "fullName"); !ok {
		t.Fatalf("expected fullName")
	}
	if diff := cmp.Diff([]string{"fullName"}, Required(out)); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	if _, err := RenameAt(personSchema(), []string{"name"}, "address"); !errors.Is(err, editerr.ErrNameCollision) {
		t.Fatalf("expected collision, got %v", err)
	}
	if _, err := RenameAt(personSchema(), []string{"name"}, "name"); err != nil {
		t.Fatalf("self rename should be a no-op, got %v", err)
	}
	if _, err := RenameAt(personSchema(), []string{"address", "zip"}, "postal"); !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected missing property, got %v", err)
	}
}

func TestRewriteRef(t *testing.T) {
	schema := map[string]any{
		"properties": map[string]any{
			"owner": map[string]any{"$ref": "#/definitions/Person"},
			"items": map[string]any{
				"type":  "array",
				"items": map[string]any{"oneOf": []any{map[string]any{"$ref": "#/definitions/Person"}, map[string]any{"$ref": "#/definitions/Other"}}},
			},
			"plain": map[string]any{"type": "string"},
		},
	}
	out := RewriteRef(schema, "#/definitions/Person", "#/definitions/Human")
	refs := CollectRefs(out)
	if diff := cmp.Diff([]string{"#/definitions/Human", "#/definitions/Other"}, refs); diff != "" {
		t.Fatalf("refs mismatch (-want +got):\n%s", diff)
	}
	if CollectRefs(schema)[0] != "#/definitions/Person" {
		t.Fatalf("expected input untouched")
	}
}
