package uischema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
)

// Type names a UI element variant.
type Type string

const (
	TypeControl          Type = "Control"
	TypeVerticalLayout   Type = "VerticalLayout"
	TypeHorizontalLayout Type = "HorizontalLayout"
	TypeGroup            Type = "Group"
	TypeCategory         Type = "Category"
	TypeCategorization   Type = "Categorization"
	TypeLabel            Type = "Label"
	TypeAlert            Type = "Alert"
)

// Kind partitions element types by the data they own.
type Kind int

const (
	KindUnknown Kind = iota
	// KindControl elements bind a schema scope.
	KindControl
	// KindLayout elements own ordered child elements.
	KindLayout
	// KindPresentation elements render static content.
	KindPresentation
)

func (k Kind) String() string {
	switch k {
	case KindControl:
		return "control"
	case KindLayout:
		return "layout"
	case KindPresentation:
		return "presentation"
	default:
		return "unknown"
	}
}

// Kind returns the kind the type belongs to.
func (t Type) Kind() Kind {
	switch t {
	case TypeControl:
		return KindControl
	case TypeVerticalLayout, TypeHorizontalLayout, TypeGroup, TypeCategory, TypeCategorization:
		return KindLayout
	case TypeLabel, TypeAlert:
		return KindPresentation
	default:
		return KindUnknown
	}
}

// Valid reports whether t is one of the supported element types.
func (t Type) Valid() bool {
	return t.Kind() != KindUnknown
}

// ParseType validates a raw type string.
func ParseType(raw string) (Type, error) {
	t := Type(strings.TrimSpace(raw))
	if !t.Valid() {
		return "", fmt.Errorf("uischema: unknown element type %q", raw)
	}
	return t, nil
}

const optionScopeKey = "scope"

// Element is a node of the UI schema tree. Only Control elements carry Scope
// and only layout elements own Elements; a Group may bind an object subschema
// through Options["scope"].
type Element struct {
	Type  Type
	Scope string
	Label string
	// HideLabel records a JSON Forms `label: false`. A non-empty Label
	// takes precedence when encoding.
	HideLabel bool
	Text      string
	Options   map[string]any
	Rule      map[string]any
	Elements  []*Element
}

// NewControl returns a Control bound to scope.
func NewControl(scope string) *Element {
	return &Element{Type: TypeControl, Scope: scope}
}

// NewLayout returns a layout element of type t holding children.
func NewLayout(t Type, children ...*Element) *Element {
	return &Element{Type: t, Elements: append([]*Element{}, children...)}
}

// NewVerticalLayout returns an empty VerticalLayout, the initial tree of every
// definition.
func NewVerticalLayout() *Element {
	return NewLayout(TypeVerticalLayout)
}

// Kind returns the element's kind; nil elements are KindUnknown.
func (e *Element) Kind() Kind {
	if e == nil {
		return KindUnknown
	}
	return e.Type.Kind()
}

// IsLayout reports whether the element owns children.
func (e *Element) IsLayout() bool {
	return e.Kind() == KindLayout
}

// OptionsScope returns the Group binding scope stored in options, if any.
func (e *Element) OptionsScope() string {
	if e == nil || e.Options == nil {
		return ""
	}
	scope, _ := e.Options[optionScopeKey].(string)
	return strings.TrimSpace(scope)
}

// BoundScope returns the scope that ties the element to the schema: the
// Control scope or a Group's options scope.
func (e *Element) BoundScope() string {
	switch {
	case e == nil:
		return ""
	case e.Type == TypeControl:
		return e.Scope
	case e.Type == TypeGroup:
		return e.OptionsScope()
	default:
		return ""
	}
}

// Clone deep-copies the element and its children.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	out := e.shallow()
	out.Options = cloneMap(e.Options)
	out.Rule = cloneMap(e.Rule)
	if e.Elements != nil {
		out.Elements = make([]*Element, len(e.Elements))
		for i, child := range e.Elements {
			out.Elements[i] = child.Clone()
		}
	}
	return out
}

func (e *Element) shallow() *Element {
	out := *e
	return &out
}

// WithOptionsScope returns a shallow copy bound to scope through options.
func (e *Element) WithOptionsScope(scope string) *Element {
	out := e.shallow()
	options := make(map[string]any, len(e.Options)+1)
	for key, value := range e.Options {
		options[key] = value
	}
	options[optionScopeKey] = scope
	out.Options = options
	return out
}

func cloneMap(value map[string]any) map[string]any {
	if value == nil {
		return nil
	}
	return jsonschema.Clone(value).(map[string]any)
}

type wireElement struct {
	Type     Type           `json:"type"`
	Scope    string         `json:"scope,omitempty"`
	Label    any            `json:"label,omitempty"`
	Text     string         `json:"text,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
	Rule     map[string]any `json:"rule,omitempty"`
	Elements []*Element     `json:"elements,omitempty"`
}

// layoutWire always emits the elements array, empty or not.
type layoutWire struct {
	wireElement
	Elements []*Element `json:"elements"`
}

// MarshalJSON encodes the element in the JSON Forms shape.
func (e Element) MarshalJSON() ([]byte, error) {
	wire := wireElement{
		Type:    e.Type,
		Scope:   e.Scope,
		Text:    e.Text,
		Options: e.Options,
		Rule:    e.Rule,
	}
	switch {
	case e.Label != "":
		wire.Label = e.Label
	case e.HideLabel:
		wire.Label = false
	}
	if e.Type.Kind() == KindLayout {
		children := e.Elements
		if children == nil {
			children = []*Element{}
		}
		return json.Marshal(layoutWire{wireElement: wire, Elements: children})
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes an element and rejects unknown types, scopes on
// non-Control elements and children on non-layout elements.
func (e *Element) UnmarshalJSON(data []byte) error {
	var wire wireElement
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	t, err := ParseType(string(wire.Type))
	if err != nil {
		return err
	}
	if wire.Scope != "" && t != TypeControl {
		return fmt.Errorf("uischema: %s element cannot carry scope %q", t, wire.Scope)
	}
	if len(wire.Elements) > 0 && t.Kind() != KindLayout {
		return fmt.Errorf("uischema: %s element cannot own elements", t)
	}
	for idx, child := range wire.Elements {
		if child == nil {
			return fmt.Errorf("uischema: %s element has a null child at index %d", t, idx)
		}
	}

	*e = Element{
		Type:    t,
		Scope:   wire.Scope,
		Text:    wire.Text,
		Options: wire.Options,
		Rule:    wire.Rule,
	}
	// JSON Forms allows `label: false` to hide a label.
	switch label := wire.Label.(type) {
	case string:
		e.Label = label
	case bool:
		e.HideLabel = !label
	}
	if t.Kind() == KindLayout {
		e.Elements = wire.Elements
		if e.Elements == nil {
			e.Elements = []*Element{}
		}
	}
	return nil
}

// Parse decodes a raw UI schema document.
func Parse(raw []byte) (*Element, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("uischema: raw schema is empty")
	}
	var el Element
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, fmt.Errorf("uischema: parse: %w", err)
	}
	return &el, nil
}
