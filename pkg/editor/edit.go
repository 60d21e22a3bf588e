package editor

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// RenameFieldPayload renames the property behind the Control at Path.
type RenameFieldPayload struct {
	Path         string `json:"path"`
	NewFieldName string `json:"newFieldName"`
}

// RenameField renames a schema property and rewrites the scope of the
// Control that addresses it. Other elements bound below the old name keep
// their scopes.
func (s *Session) RenameField(p RenameFieldPayload) (*Session, error) {
	const op = "editor: rename"
	name, err := validateName(op, p.NewFieldName)
	if err != nil {
		return nil, err
	}
	el, err := uischema.ElementAt(s.uiSchema, p.Path)
	if err != nil {
		return nil, err
	}
	if el.Type != uischema.TypeControl || el.Scope == "" {
		return nil, editerr.New(op, p.Path, editerr.ErrPathNotFound)
	}

	schema, err := jsonschema.RenameAt(s.schema, address.ScopeToSegments(el.Scope), name)
	if err != nil {
		return nil, err
	}
	scope, err := address.RenameLastSegment(el.Scope, name)
	if err != nil {
		return nil, err
	}
	renamed := el.Clone()
	renamed.Scope = scope
	ui, err := uischema.ReplaceAt(s.uiSchema, p.Path, renamed)
	if err != nil {
		return nil, err
	}

	out := s.clone()
	out.schema = schema
	out.uiSchema = ui
	return out, nil
}

// UISchemaRef addresses a UI element by path.
type UISchemaRef struct {
	Path string `json:"path"`
}

// ComponentMeta wraps the UI reference of a removal.
type ComponentMeta struct {
	UISchema UISchemaRef `json:"uiSchema"`
}

// RemoveFieldOrLayoutPayload removes the element at ComponentMeta.UISchema.Path.
type RemoveFieldOrLayoutPayload struct {
	ComponentMeta ComponentMeta `json:"componentMeta"`
}

// RemoveFieldOrLayout deletes a UI element. The schema keeps the property;
// CollectGarbage reclaims it once nothing refers to it.
func (s *Session) RemoveFieldOrLayout(p RemoveFieldOrLayoutPayload) (*Session, error) {
	path := p.ComponentMeta.UISchema.Path
	ui, _, err := uischema.RemoveAt(s.uiSchema, path)
	if err != nil {
		return nil, err
	}
	out := s.clone()
	out.uiSchema = ui
	if selected, ok := s.SelectedPath(); ok && address.IsDescendantPath(selected, path) {
		out.selected = nil
	}
	return out, nil
}

// CollectGarbage prunes schema properties that no Control or Group binding
// of the active UI schema reaches. Removal never collects on its own.
func (s *Session) CollectGarbage() (*Session, error) {
	out := s.clone()
	out.schema = jsonschema.CollectGarbage(s.schema, jsonschema.Liveness{
		Controls: uischema.ControlScopes(s.uiSchema),
		Bindings: uischema.BindingScopes(s.uiSchema),
	})
	return out, nil
}

// SelectPathPayload selects Path; nil clears the selection.
type SelectPathPayload struct {
	Path *string `json:"path,omitempty"`
}

// SelectPath toggles the selection: selecting the selected path clears it.
func (s *Session) SelectPath(p SelectPathPayload) (*Session, error) {
	out := s.clone()
	if p.Path == nil {
		out.selected = nil
		return out, nil
	}
	if current, ok := s.SelectedPath(); ok && current == *p.Path {
		out.selected = nil
		return out, nil
	}
	if _, err := uischema.ElementAt(s.uiSchema, *p.Path); err != nil {
		return nil, err
	}
	path := *p.Path
	out.selected = &path
	return out, nil
}
