// Package editor is the single authority over a form design. A Session holds
// the active JSON Schema and UI schema pair, the inactive definitions, the
// selection, the building block toolbox and the definitions key, and every
// editing intent is an operation that returns a new Session built from
// copy-on-write edits. The receiver is never modified, so readers holding an
// older Session always see a complete tree.
package editor

import (
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/blocks"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// Session is an immutable editor state.
type Session struct {
	schema           map[string]any
	uiSchema         *uischema.Element
	definitions      map[string]map[string]any
	uiSchemas        map[string]*uischema.Element
	selected         *string
	activeDefinition string
	definitionsKey   string
	blocks           blocks.List

	strictRefs  bool
	defaultIcon string
}

// Option configures a new Session.
type Option func(*Session)

// WithDefinitionsKey selects `definitions` or `$defs` as the block key used
// for $ref strings and export. Other values are ignored.
func WithDefinitionsKey(key string) Option {
	return func(s *Session) {
		if jsonschema.IsDefinitionsKey(key) {
			s.definitionsKey = key
		}
	}
}

// WithSchema seeds the Root schema.
func WithSchema(schema map[string]any) Option {
	return func(s *Session) {
		if schema != nil {
			s.schema = schema
		}
	}
}

// WithUISchema seeds the Root UI schema.
func WithUISchema(ui *uischema.Element) Option {
	return func(s *Session) {
		if ui != nil {
			s.uiSchema = ui
		}
	}
}

// WithStrictRefs makes inserts fail with ErrDanglingReference instead of
// synthesising placeholder definitions.
func WithStrictRefs(strict bool) Option {
	return func(s *Session) {
		s.strictRefs = strict
	}
}

// WithDefaultBlockIcon sets the icon used for blocks extracted without one.
func WithDefaultBlockIcon(name string) Option {
	return func(s *Session) {
		s.defaultIcon = name
	}
}

// New returns the empty Root session: an object schema without properties
// and an empty VerticalLayout.
func New(opts ...Option) *Session {
	s := &Session{
		schema:           jsonschema.EmptyObject(),
		uiSchema:         uischema.NewVerticalLayout(),
		definitions:      map[string]map[string]any{},
		uiSchemas:        map[string]*uischema.Element{},
		activeDefinition: jsonschema.RootDefinition,
		definitionsKey:   jsonschema.KeyDefinitions,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// clone copies the struct; maps are copied by the operations that change
// them.
func (s *Session) clone() *Session {
	out := *s
	return &out
}

func (s *Session) withDefinitions() (map[string]map[string]any, map[string]*uischema.Element) {
	defs := make(map[string]map[string]any, len(s.definitions)+1)
	for name, def := range s.definitions {
		defs[name] = def
	}
	uis := make(map[string]*uischema.Element, len(s.uiSchemas)+1)
	for name, ui := range s.uiSchemas {
		uis[name] = ui
	}
	return defs, uis
}

// JSONSchema returns the active schema.
func (s *Session) JSONSchema() map[string]any {
	return s.schema
}

// UISchema returns the active UI schema.
func (s *Session) UISchema() *uischema.Element {
	return s.uiSchema
}

// Definitions returns the inactive definitions.
func (s *Session) Definitions() map[string]map[string]any {
	defs, _ := s.withDefinitions()
	return defs
}

// UISchemas returns the UI schemas of the inactive definitions.
func (s *Session) UISchemas() map[string]*uischema.Element {
	_, uis := s.withDefinitions()
	return uis
}

// ActiveDefinition names the definition bound to the active pair.
func (s *Session) ActiveDefinition() string {
	return s.activeDefinition
}

// DefinitionsKey returns `definitions` or `$defs`.
func (s *Session) DefinitionsKey() string {
	return s.definitionsKey
}

// BuildingBlocks returns the block toolbox.
func (s *Session) BuildingBlocks() blocks.List {
	return s.blocks
}

// RootJSONSchema returns the active schema with every definition, the
// active one included under its own name, merged under the definitions key.
// Scopes and $ref strings resolve against it.
func (s *Session) RootJSONSchema() map[string]any {
	return jsonschema.MergeDefinitions(s.schema, s.definitions, s.activeDefinition, s.definitionsKey)
}

// SelectedPath returns the selected UI path.
func (s *Session) SelectedPath() (string, bool) {
	if s.selected == nil {
		return "", false
	}
	return *s.selected, true
}

// SelectedElement returns the selected element, or nil.
func (s *Session) SelectedElement() *uischema.Element {
	path, ok := s.SelectedPath()
	if !ok {
		return nil
	}
	el, err := uischema.ElementAt(s.uiSchema, path)
	if err != nil {
		return nil
	}
	return el
}

// SelectedElementJSONSchema resolves the selected element's scope. Elements
// without a scope, and scopes that do not resolve, yield nil.
func (s *Session) SelectedElementJSONSchema() map[string]any {
	scope := s.SelectedElement().BoundScope()
	if scope == "" {
		return nil
	}
	return jsonschema.ResolveScope(s.RootJSONSchema(), scope)
}

// hasDefinition reports whether name is the active definition or one of the
// inactive ones.
func (s *Session) hasDefinition(name string) bool {
	if name == s.activeDefinition {
		return true
	}
	_, ok := s.definitions[name]
	return ok
}

// allDefinitions returns every definition, the active pair flushed in.
func (s *Session) allDefinitions() map[string]map[string]any {
	defs, _ := s.withDefinitions()
	defs[s.activeDefinition] = s.schema
	return defs
}

func validateName(op, name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.ContainsAny(trimmed, "./#") {
		return "", editerr.New(op, name, editerr.ErrInvalidName)
	}
	return trimmed, nil
}
