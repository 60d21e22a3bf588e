package editor

import (
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// Locator addresses a UI element by its scope or, when Scope is empty, by
// its label.
type Locator struct {
	Scope string `json:"scope,omitempty"`
	Label string `json:"label,omitempty"`
}

func (l Locator) String() string {
	if l.Scope != "" {
		return l.Scope
	}
	return l.Label
}

// locate returns the path of the first element matching loc.
func (s *Session) locate(op string, loc Locator) (string, error) {
	scope := strings.TrimSpace(loc.Scope)
	label := uischema.SanitizeText(loc.Label)
	if scope == "" && label == "" {
		return "", editerr.New(op, "", editerr.ErrPathNotFound)
	}
	path, ok := uischema.FindPath(s.uiSchema, func(el *uischema.Element) bool {
		if scope != "" {
			return el.BoundScope() == scope
		}
		return strings.EqualFold(strings.TrimSpace(el.Label), label)
	})
	if !ok {
		return "", editerr.New(op, loc.String(), editerr.ErrPathNotFound)
	}
	return path, nil
}

// layoutPath returns the root for an empty label, else the first layout
// carrying label.
func (s *Session) layoutPath(op, label string) (string, *uischema.Element, error) {
	label = uischema.SanitizeText(label)
	if label == "" {
		return "", s.uiSchema, nil
	}
	path, ok := uischema.FindPath(s.uiSchema, func(el *uischema.Element) bool {
		return el.IsLayout() && strings.EqualFold(strings.TrimSpace(el.Label), label)
	})
	if !ok {
		return "", nil, editerr.New(op, label, editerr.ErrPathNotFound)
	}
	el, err := uischema.ElementAt(s.uiSchema, path)
	if err != nil {
		return "", nil, err
	}
	return path, el, nil
}

// AIAddFieldPayload adds a field at the end of the layout labelled
// LayoutLabel, or of the root.
type AIAddFieldPayload struct {
	Name        string         `json:"name"`
	JSONSchema  map[string]any `json:"jsonSchema,omitempty"`
	Label       string         `json:"label,omitempty"`
	LayoutLabel string         `json:"layoutLabel,omitempty"`
}

// AIAddField inserts a schema-backed Control through the regular insert.
func (s *Session) AIAddField(p AIAddFieldPayload) (*Session, error) {
	const op = "editor: ai add field"
	name, err := validateName(op, segmentName(p.Name))
	if err != nil {
		return nil, err
	}
	parentPath, layout, err := s.layoutPath(op, p.LayoutLabel)
	if err != nil {
		return nil, err
	}
	schema := p.JSONSchema
	if schema == nil {
		schema = map[string]any{"type": "string"}
	}
	template, err := address.ChildScope(address.RootScope, name)
	if err != nil {
		return nil, err
	}
	control := uischema.NewControl(template)
	control.Label = uischema.SanitizeText(p.Label)

	return s.insertAt(parentPath, len(layout.Elements), DraggableMeta{
		Name:              name,
		JSONSchemaElement: schema,
		UISchema:          control,
	})
}

// AIAddLayoutPayload adds a layout at the end of the layout labelled
// ParentLabel, or of the root.
type AIAddLayoutPayload struct {
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	ParentLabel string `json:"parentLabel,omitempty"`
}

// AIAddLayout inserts an empty layout element.
func (s *Session) AIAddLayout(p AIAddLayoutPayload) (*Session, error) {
	const op = "editor: ai add layout"
	t, err := layoutType(op, p.Type)
	if err != nil {
		return nil, err
	}
	parentPath, parent, err := s.layoutPath(op, p.ParentLabel)
	if err != nil {
		return nil, err
	}
	layout := uischema.NewLayout(t)
	layout.Label = uischema.SanitizeText(p.Label)
	return s.insertAt(parentPath, len(parent.Elements), DraggableMeta{UISchema: layout})
}

// AIRemoveElementPayload removes the located element.
type AIRemoveElementPayload struct {
	Locator Locator `json:"locator"`
}

// AIRemoveElement removes an element located by scope or label.
func (s *Session) AIRemoveElement(p AIRemoveElementPayload) (*Session, error) {
	path, err := s.locate("editor: ai remove element", p.Locator)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, editerr.New("editor: ai remove element", p.Locator.String(), editerr.ErrPathNotFound)
	}
	return s.RemoveFieldOrLayout(RemoveFieldOrLayoutPayload{ComponentMeta: ComponentMeta{UISchema: UISchemaRef{Path: path}}})
}

// AIUpdateFieldPayload patches the schema behind a Control and, optionally,
// the Control's label and options.
type AIUpdateFieldPayload struct {
	Scope       string         `json:"scope"`
	SchemaPatch map[string]any `json:"schemaPatch,omitempty"`
	Label       *string        `json:"label,omitempty"`
	Options     map[string]any `json:"options,omitempty"`
}

// AIUpdateField shallow-merges SchemaPatch onto the raw node at Scope, so a
// $ref node is patched itself rather than its target.
func (s *Session) AIUpdateField(p AIUpdateFieldPayload) (*Session, error) {
	const op = "editor: ai update field"
	path, err := s.locate(op, Locator{Scope: p.Scope})
	if err != nil {
		return nil, err
	}
	el, err := uischema.ElementAt(s.uiSchema, path)
	if err != nil {
		return nil, err
	}

	schema := s.schema
	if len(p.SchemaPatch) > 0 {
		scope := el.BoundScope()
		if scope == "" || jsonschema.ResolveScopeWithoutRef(s.schema, scope) == nil {
			return nil, editerr.New(op, p.Scope, editerr.ErrPathNotFound)
		}
		schema, err = jsonschema.UpdateAt(s.schema, address.ScopeToSegments(scope), sanitizePatch(p.SchemaPatch))
		if err != nil {
			return nil, err
		}
	}

	ui := s.uiSchema
	if p.Label != nil || len(p.Options) > 0 {
		updated := el.Clone()
		if p.Label != nil {
			updated.Label = uischema.SanitizeText(*p.Label)
		}
		updated.Options = mergeOptions(updated.Options, p.Options)
		ui, err = uischema.ReplaceAt(s.uiSchema, path, updated)
		if err != nil {
			return nil, err
		}
	}

	out := s.clone()
	out.schema = schema
	out.uiSchema = ui
	return out, nil
}

// AIRenameFieldPayload renames the property behind the Control at Scope.
type AIRenameFieldPayload struct {
	Scope   string `json:"scope"`
	NewName string `json:"newName"`
}

// AIRenameField renames a field located by scope.
func (s *Session) AIRenameField(p AIRenameFieldPayload) (*Session, error) {
	path, err := s.locate("editor: ai rename field", Locator{Scope: p.Scope})
	if err != nil {
		return nil, err
	}
	return s.RenameField(RenameFieldPayload{Path: path, NewFieldName: p.NewName})
}

// AIMoveElementPayload moves the located element into the layout labelled
// TargetLayoutLabel, or the root, at Index. A negative or too large index
// appends.
type AIMoveElementPayload struct {
	Locator           Locator `json:"locator"`
	TargetLayoutLabel string  `json:"targetLayoutLabel,omitempty"`
	Index             int     `json:"index"`
}

// AIMoveElement moves an element located by scope or label.
func (s *Session) AIMoveElement(p AIMoveElementPayload) (*Session, error) {
	const op = "editor: ai move element"
	source, err := s.locate(op, p.Locator)
	if err != nil {
		return nil, err
	}
	if source == "" {
		return nil, editerr.New(op, p.Locator.String(), editerr.ErrInvalidMove)
	}
	parentPath, parent, err := s.layoutPath(op, p.TargetLayoutLabel)
	if err != nil {
		return nil, err
	}
	index := p.Index
	if index < 0 || index > len(parent.Elements) {
		index = len(parent.Elements)
	}
	return s.moveTo(source, parentPath, index)
}

// AIUpdateLayoutPayload relabels, retypes or reconfigures the layout
// labelled Label.
type AIUpdateLayoutPayload struct {
	Label    string         `json:"label"`
	NewLabel *string        `json:"newLabel,omitempty"`
	Type     string         `json:"type,omitempty"`
	Options  map[string]any `json:"options,omitempty"`
}

// AIUpdateLayout updates a layout element in place.
func (s *Session) AIUpdateLayout(p AIUpdateLayoutPayload) (*Session, error) {
	const op = "editor: ai update layout"
	if uischema.SanitizeText(p.Label) == "" {
		return nil, editerr.New(op, p.Label, editerr.ErrPathNotFound)
	}
	path, el, err := s.layoutPath(op, p.Label)
	if err != nil {
		return nil, err
	}
	updated := el.Clone()
	if p.Type != "" {
		t, err := layoutType(op, p.Type)
		if err != nil {
			return nil, err
		}
		updated.Type = t
	}
	if p.NewLabel != nil {
		updated.Label = uischema.SanitizeText(*p.NewLabel)
	}
	updated.Options = mergeOptions(updated.Options, p.Options)

	ui, err := uischema.ReplaceAt(s.uiSchema, path, updated)
	if err != nil {
		return nil, err
	}
	out := s.clone()
	out.uiSchema = ui
	return out, nil
}

func layoutType(op, raw string) (uischema.Type, error) {
	t, err := uischema.ParseType(raw)
	if err != nil || t.Kind() != uischema.KindLayout {
		return "", editerr.New(op, raw, editerr.ErrInvalidName)
	}
	return t, nil
}

// mergeOptions overlays patch onto options; nil values delete keys.
func mergeOptions(options, patch map[string]any) map[string]any {
	if len(patch) == 0 {
		return options
	}
	out := make(map[string]any, len(options)+len(patch))
	for key, value := range options {
		out[key] = value
	}
	for key, value := range patch {
		if value == nil {
			delete(out, key)
			continue
		}
		out[key] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sanitizePatch strips markup from the annotation strings an agent sends.
func sanitizePatch(patch map[string]any) map[string]any {
	out := make(map[string]any, len(patch))
	for key, value := range patch {
		switch key {
		case "title", "description":
			if text, ok := value.(string); ok {
				value = uischema.SanitizeText(text)
			}
		}
		out[key] = value
	}
	return out
}
