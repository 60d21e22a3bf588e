package editor

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/blocks"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// Snapshot is the complete, serialisable session state.
type Snapshot struct {
	JSONSchema         map[string]any               `json:"jsonSchema"`
	Definitions        map[string]map[string]any    `json:"definitions"`
	UISchema           *uischema.Element            `json:"uiSchema"`
	UISchemas          map[string]*uischema.Element `json:"uiSchemas"`
	SelectedDefinition string                       `json:"selectedDefinition"`
	DefinitionsKey     string                       `json:"definitionsKey"`
	SelectedPath       *string                      `json:"selectedPath,omitempty"`
	BuildingBlocks     blocks.List                  `json:"buildingBlocks,omitempty"`
}

// Snapshot captures the session as it is, the active pair unflushed.
func (s *Session) Snapshot() Snapshot {
	defs, uis := s.withDefinitions()
	snap := Snapshot{
		JSONSchema:         s.schema,
		Definitions:        defs,
		UISchema:           s.uiSchema,
		UISchemas:          uis,
		SelectedDefinition: s.activeDefinition,
		DefinitionsKey:     s.definitionsKey,
		BuildingBlocks:     s.blocks,
	}
	if path, ok := s.SelectedPath(); ok {
		snap.SelectedPath = &path
	}
	return snap
}

// FromSnapshot restores a session. Missing parts fall back to the empty
// Root session; a selection that no longer resolves is dropped.
func FromSnapshot(snap Snapshot, opts ...Option) *Session {
	s := New(opts...)
	if jsonschema.IsDefinitionsKey(snap.DefinitionsKey) {
		s.definitionsKey = snap.DefinitionsKey
	}
	if snap.JSONSchema != nil {
		s.schema = snap.JSONSchema
	}
	if snap.UISchema != nil {
		s.uiSchema = snap.UISchema
	}
	if snap.SelectedDefinition != "" {
		s.activeDefinition = snap.SelectedDefinition
	}
	s.definitions = make(map[string]map[string]any, len(snap.Definitions))
	for name, def := range snap.Definitions {
		if name != s.activeDefinition && def != nil {
			s.definitions[name] = def
		}
	}
	s.uiSchemas = make(map[string]*uischema.Element, len(snap.UISchemas))
	for name, ui := range snap.UISchemas {
		if name != s.activeDefinition && ui != nil {
			s.uiSchemas[name] = ui
		}
	}
	s.blocks = snap.BuildingBlocks
	if snap.SelectedPath != nil {
		if _, err := uischema.ElementAt(s.uiSchema, *snap.SelectedPath); err == nil {
			path := *snap.SelectedPath
			s.selected = &path
		}
	}
	return s
}

// Exchange is the export and import document.
type Exchange struct {
	JSONSchema map[string]any               `json:"jsonSchema"`
	UISchema   *uischema.Element            `json:"uiSchema"`
	UISchemas  map[string]*uischema.Element `json:"uiSchemas"`
}

// Export flushes the active pair and emits the Root schema with every
// definition, Root included, merged under the definitions key. UISchema is
// the Root UI schema; UISchemas holds the others.
func (s *Session) Export() Exchange {
	defs := s.allDefinitions()
	_, uis := s.withDefinitions()
	uis[s.activeDefinition] = s.uiSchema

	root, ok := defs[jsonschema.RootDefinition]
	if !ok {
		root = jsonschema.EmptyObject()
	}
	delete(defs, jsonschema.RootDefinition)

	rootUI := uis[jsonschema.RootDefinition]
	if rootUI == nil {
		rootUI = uischema.NewVerticalLayout()
	}
	delete(uis, jsonschema.RootDefinition)

	return Exchange{
		JSONSchema: jsonschema.MergeDefinitions(root, defs, jsonschema.RootDefinition, s.definitionsKey),
		UISchema:   rootUI,
		UISchemas:  uis,
	}
}

// Import replaces the design with an exported document. The definitions
// block is stripped from the schema and becomes the inactive definitions
// (a `Root` entry is ignored), the definitions key is detected from the
// document, and the session returns to Root with nothing selected. Blocks
// and session options are kept.
func (s *Session) Import(ex Exchange) *Session {
	key := jsonschema.DetectDefinitionsKey(ex.JSONSchema)
	schema, defs := jsonschema.SplitDefinitions(ex.JSONSchema, key)
	if schema == nil {
		schema = jsonschema.EmptyObject()
	}
	delete(defs, jsonschema.RootDefinition)

	ui := ex.UISchema
	if ui == nil {
		ui = uischema.NewVerticalLayout()
	}
	uis := make(map[string]*uischema.Element, len(ex.UISchemas))
	for name, el := range ex.UISchemas {
		if name != jsonschema.RootDefinition && el != nil {
			uis[name] = el
		}
	}

	out := s.clone()
	out.schema = schema
	out.uiSchema = ui
	out.definitions = defs
	out.uiSchemas = uis
	out.definitionsKey = key
	out.activeDefinition = jsonschema.RootDefinition
	out.selected = nil
	return out
}

// View is the read model handed to clients after every commit.
type View struct {
	RootJSONSchema            map[string]any               `json:"rootJsonSchema"`
	JSONSchema                map[string]any               `json:"jsonSchema"`
	UISchema                  *uischema.Element            `json:"uiSchema"`
	UISchemas                 map[string]*uischema.Element `json:"uiSchemas"`
	SelectedPath              *string                      `json:"selectedPath"`
	SelectedElementJSONSchema map[string]any               `json:"selectedElementJsonSchema"`
	SelectedDefinition        string                       `json:"selectedDefinition"`
	DefinitionsKey            string                       `json:"definitionsKey"`
	BuildingBlocks            blocks.List                  `json:"buildingBlocks"`
}

// View derives the client read model.
func (s *Session) View() View {
	_, uis := s.withDefinitions()
	v := View{
		RootJSONSchema:            s.RootJSONSchema(),
		JSONSchema:                s.schema,
		UISchema:                  s.uiSchema,
		UISchemas:                 uis,
		SelectedElementJSONSchema: s.SelectedElementJSONSchema(),
		SelectedDefinition:        s.activeDefinition,
		DefinitionsKey:            s.definitionsKey,
		BuildingBlocks:            s.blocks,
	}
	if v.BuildingBlocks == nil {
		v.BuildingBlocks = blocks.List{}
	}
	if path, ok := s.SelectedPath(); ok {
		v.SelectedPath = &path
	}
	return v
}
