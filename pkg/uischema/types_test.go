package uischema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

func TestTypeKinds(t *testing.T) {
	cases := map[uischema.Type]uischema.Kind{
		uischema.TypeControl:          uischema.KindControl,
		uischema.TypeVerticalLayout:   uischema.KindLayout,
		uischema.TypeHorizontalLayout: uischema.KindLayout,
		uischema.TypeGroup:            uischema.KindLayout,
		uischema.TypeCategory:         uischema.KindLayout,
		uischema.TypeCategorization:   uischema.KindLayout,
		uischema.TypeLabel:            uischema.KindPresentation,
		uischema.TypeAlert:            uischema.KindPresentation,
		uischema.Type("Spacer"):       uischema.KindUnknown,
	}
	for typ, want := range cases {
		if got := typ.Kind(); got != want {
			t.Fatalf("%s: expected %s, got %s", typ, want, got)
		}
	}
}

func TestElementJSONRoundTrip(t *testing.T) {
	raw := `{
  "type": "VerticalLayout",
  "elements": [
    {"type": "Control", "scope": "#/properties/name", "label": "Name"},
    {"type": "Group", "label": "Address", "options": {"scope": "#/properties/address"}, "elements": []},
    {"type": "Label", "text": "Hint"}
  ]
}`
	el, err := uischema.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := el.Elements[1].OptionsScope(); got != "#/properties/address" {
		t.Fatalf("expected group binding, got %q", got)
	}

	encoded, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(encoded), `"elements":[]`) {
		t.Fatalf("expected empty layouts to keep their elements array: %s", encoded)
	}
	again, err := uischema.Parse(encoded)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if diff := cmp.Diff(el, again); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestElementUnmarshalRejectsInvalidShapes(t *testing.T) {
	cases := map[string]string{
		"unknown type":       `{"type": "Spacer"}`,
		"scope on layout":    `{"type": "VerticalLayout", "scope": "#/properties/a"}`,
		"children on label":  `{"type": "Label", "elements": [{"type": "Control"}]}`,
		"nested bad element": `{"type": "VerticalLayout", "elements": [{"type": "Nope"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := uischema.Parse([]byte(raw)); err == nil {
				t.Fatalf("expected error for %s", raw)
			}
		})
	}
}

func TestElementLabelFalse(t *testing.T) {
	el, err := uischema.Parse([]byte(`{"type": "Control", "scope": "#/properties/a", "label": false}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if el.Label != "" || !el.HideLabel {
		t.Fatalf("expected a hidden label, got %+v", el)
	}

	raw, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if label, ok := doc["label"]; !ok || label != false {
		t.Fatalf("expected label false to survive encoding, got %s", raw)
	}

	again, err := uischema.Parse(raw)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !again.HideLabel || again.Clone().HideLabel != true {
		t.Fatalf("hidden label lost on round trip: %+v", again)
	}

	again.Label = "Shown"
	raw, err = json.Marshal(again)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"label":"Shown"`) {
		t.Fatalf("explicit label must win over a hidden one, got %s", raw)
	}
}

func TestElementLabelTrueIsIgnored(t *testing.T) {
	el, err := uischema.Parse([]byte(`{"type": "Control", "scope": "#/properties/a", "label": true}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	raw, err := json.Marshal(el)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "label") {
		t.Fatalf("expected no label, got %s", raw)
	}
}

func TestElementCloneIsDeep(t *testing.T) {
	original := uischema.NewLayout(uischema.TypeGroup, uischema.NewControl("#/properties/a"))
	original.Options = map[string]any{"scope": "#/properties/g", "nested": map[string]any{"x": 1}}

	clone := original.Clone()
	clone.Elements[0].Scope = "#/properties/b"
	clone.Options["nested"].(map[string]any)["x"] = 2

	if original.Elements[0].Scope != "#/properties/a" {
		t.Fatalf("child scope leaked into original")
	}
	if original.Options["nested"].(map[string]any)["x"] != 1 {
		t.Fatalf("options leaked into original")
	}
}
