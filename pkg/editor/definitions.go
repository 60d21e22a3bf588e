package editor

import (
	"sort"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// SwitchDefinitionPayload names the definition to edit next.
type SwitchDefinitionPayload struct {
	Definition string `json:"definition"`
}

// SwitchDefinition flushes the active pair back under its name, clears the
// selection and loads name, creating an empty pair when it does not exist.
func (s *Session) SwitchDefinition(name string) (*Session, error) {
	const op = "editor: switch definition"
	name, err := validateName(op, name)
	if err != nil {
		return nil, err
	}
	defs, uis := s.withDefinitions()
	defs[s.activeDefinition] = s.schema
	uis[s.activeDefinition] = s.uiSchema

	schema, ok := defs[name]
	if !ok {
		schema = jsonschema.EmptyObject()
	}
	ui, ok := uis[name]
	if !ok || ui == nil {
		ui = uischema.NewVerticalLayout()
	}
	delete(defs, name)
	delete(uis, name)

	out := s.clone()
	out.schema = schema
	out.uiSchema = ui
	out.definitions = defs
	out.uiSchemas = uis
	out.activeDefinition = name
	out.selected = nil
	return out, nil
}

// AddSchemaDefinitionPayload creates a definition.
type AddSchemaDefinitionPayload struct {
	Name       string            `json:"name"`
	Definition map[string]any    `json:"definition,omitempty"`
	UISchema   *uischema.Element `json:"uiSchema,omitempty"`
}

// AddSchemaDefinition stores a new inactive definition. Existing names,
// the active one and Root included, are ErrNameCollision.
func (s *Session) AddSchemaDefinition(p AddSchemaDefinitionPayload) (*Session, error) {
	const op = "editor: add definition"
	name, err := validateName(op, p.Name)
	if err != nil {
		return nil, err
	}
	if s.hasDefinition(name) || name == jsonschema.RootDefinition {
		return nil, editerr.New(op, name, editerr.ErrNameCollision)
	}
	schema := p.Definition
	if schema == nil {
		schema = jsonschema.EmptyObject()
	}
	ui := p.UISchema
	if ui == nil {
		ui = uischema.NewVerticalLayout()
	}

	defs, uis := s.withDefinitions()
	defs[name] = jsonschema.CloneSchema(schema)
	uis[name] = ui.Clone()
	out := s.clone()
	out.definitions = defs
	out.uiSchemas = uis
	return out, nil
}

// RenameSchemaDefinitionPayload renames a definition.
type RenameSchemaDefinitionPayload struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// RenameSchemaDefinition renames a definition and rewrites every $ref to it
// across all schemas. Root cannot be renamed and no definition can take the
// name Root.
func (s *Session) RenameSchemaDefinition(p RenameSchemaDefinitionPayload) (*Session, error) {
	const op = "editor: rename definition"
	newName, err := validateName(op, p.NewName)
	if err != nil {
		return nil, err
	}
	oldName := p.OldName
	if oldName == jsonschema.RootDefinition || newName == jsonschema.RootDefinition {
		return nil, editerr.New(op, oldName, editerr.ErrInvalidName)
	}
	if !s.hasDefinition(oldName) {
		return nil, editerr.New(op, oldName, editerr.ErrPathNotFound)
	}
	if oldName == newName {
		return s.clone(), nil
	}
	if s.hasDefinition(newName) {
		return nil, editerr.New(op, newName, editerr.ErrNameCollision)
	}

	oldRef := jsonschema.RefFor(s.definitionsKey, oldName)
	newRef := jsonschema.RefFor(s.definitionsKey, newName)

	defs, uis := s.withDefinitions()
	out := s.clone()
	if oldName == s.activeDefinition {
		out.activeDefinition = newName
	} else {
		defs[newName] = defs[oldName]
		delete(defs, oldName)
		if ui, ok := uis[oldName]; ok {
			uis[newName] = ui
			delete(uis, oldName)
		}
	}
	for name, def := range defs {
		defs[name] = jsonschema.RewriteRef(def, oldRef, newRef)
	}
	out.schema = jsonschema.RewriteRef(s.schema, oldRef, newRef)
	out.definitions = defs
	out.uiSchemas = uis
	return out, nil
}

// RemoveSchemaDefinitionPayload removes an inactive definition.
type RemoveSchemaDefinitionPayload struct {
	Name string `json:"name"`
}

// RemoveSchemaDefinition deletes an inactive definition. Root and the
// active definition cannot be removed. References left behind are healed by
// the next insert that carries them.
func (s *Session) RemoveSchemaDefinition(p RemoveSchemaDefinitionPayload) (*Session, error) {
	const op = "editor: remove definition"
	if p.Name == jsonschema.RootDefinition || p.Name == s.activeDefinition {
		return nil, editerr.New(op, p.Name, editerr.ErrInvalidName)
	}
	if _, ok := s.definitions[p.Name]; !ok {
		return nil, editerr.New(op, p.Name, editerr.ErrPathNotFound)
	}
	defs, uis := s.withDefinitions()
	delete(defs, p.Name)
	delete(uis, p.Name)
	out := s.clone()
	out.definitions = defs
	out.uiSchemas = uis
	return out, nil
}

// ImportDefinitions adds every definition whose name is still free, each
// with an empty VerticalLayout, and reports the names it added in order.
func (s *Session) ImportDefinitions(imported map[string]map[string]any) (*Session, []string) {
	return s.ImportDefinitionsWithUISchemas(imported, nil)
}

// ImportDefinitionsWithUISchemas is ImportDefinitions where an added
// definition takes the UI schema stored under its name in uis. UI schemas
// for skipped or unknown names are ignored.
func (s *Session) ImportDefinitionsWithUISchemas(imported map[string]map[string]any, uis map[string]*uischema.Element) (*Session, []string) {
	names := make([]string, 0, len(imported))
	for name := range imported {
		names = append(names, name)
	}
	sort.Strings(names)

	defs, layouts := s.withDefinitions()
	var added []string
	for _, name := range names {
		if _, err := validateName("editor: import definitions", name); err != nil {
			continue
		}
		if s.hasDefinition(name) || name == jsonschema.RootDefinition {
			continue
		}
		defs[name] = jsonschema.CloneSchema(imported[name])
		if ui := uis[name]; ui != nil {
			layouts[name] = ui.Clone()
		} else {
			layouts[name] = uischema.NewVerticalLayout()
		}
		added = append(added, name)
	}
	out := s.clone()
	out.definitions = defs
	out.uiSchemas = layouts
	return out, added
}
