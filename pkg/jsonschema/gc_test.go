package jsonschema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func gcFixture() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string"},
			"email": map[string]any{"type": "string"},
			"address": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"street": map[string]any{"type": "string"},
					"city":   map[string]any{"type": "string"},
				},
			},
			"meta": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"created": map[string]any{"type": "string"},
				},
			},
		},
	}
}

func TestCollectGarbage_KeepsReachableLeaves(t *testing.T) {
	input := gcFixture()
	before := CloneSchema(input)
	out := CollectGarbage(input, Liveness{Controls: []string{
		"#/properties/name",
		"#/properties/address/properties/street",
	}})

	want := map[string]any{
		"type": "object",
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
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("collected schema mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before, input); diff != "" {
		t.Fatalf("input mutated (-before +after):\n%s", diff)
	}
}

func TestCollectGarbage_ControlKeepsSubtree(t *testing.T) {
	out := CollectGarbage(gcFixture(), Liveness{Controls: []string{"#/properties/address"}})
	addr, ok := Property(out, "address")
	if !ok {
		t.Fatalf("expected address kept")
	}
	if len(Properties(addr)) != 2 {
		t.Fatalf("expected whole address subtree kept, got %#v", addr)
	}
	if _, ok := Property(out, "name"); ok {
		t.Fatalf("expected name collected")
	}
}

func TestCollectGarbage_BindingKeepsOnlyNode(t *testing.T) {
	out := CollectGarbage(gcFixture(), Liveness{Bindings: []string{"#/properties/address"}})
	addr, ok := Property(out, "address")
	if !ok {
		t.Fatalf("expected bound address kept")
	}
	if len(Properties(addr)) != 0 {
		t.Fatalf("expected unreferenced children collected, got %#v", Properties(addr))
	}
	if _, ok := Property(out, "meta"); ok {
		t.Fatalf("expected meta collected")
	}
}

func TestCollectGarbage_ArrayItems(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tags": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"color": map[string]any{"type": "string"},
					},
				},
			},
			"flags": map[string]any{"type": "array", "items": map[string]any{"type": "boolean"}},
		},
	}
	out := CollectGarbage(schema, Liveness{Controls: []string{"#/properties/tags/items/properties/label"}})
	items := Lookup(out, []string{"tags", "items"})
	if items == nil {
		t.Fatalf("expected tags items kept")
	}
	if diff := cmp.Diff([]string{"label"}, sortedKeys(Properties(items))); diff != "" {
		t.Fatalf("items properties mismatch (-want +got):\n%s", diff)
	}
	if _, ok := Property(out, "flags"); ok {
		t.Fatalf("expected unreferenced scalar array collected")
	}
}

// Running GC and then resolving each surviving scope must still succeed.
func TestCollectGarbage_ResolvesEveryLiveScope(t *testing.T) {
	scopes := []string{
		"#/properties/email",
		"#/properties/address/properties/city",
		"#/properties/meta",
	}
	out := CollectGarbage(gcFixture(), Liveness{Controls: scopes})
	for _, scope := range scopes {
		if ResolveScope(out, scope) == nil {
			t.Fatalf("scope %s no longer resolves", scope)
		}
	}
}

func TestCollectGarbage_RootScopeIsNotASubtree(t *testing.T) {
	out := CollectGarbage(gcFixture(), Liveness{Controls: []string{"#"}})
	if len(Properties(out)) != 0 {
		t.Fatalf("expected everything collected, got %#v", Properties(out))
	}
	if Type(out) != "object" {
		t.Fatalf("expected root to survive")
	}
}
