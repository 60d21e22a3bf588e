package editor

import (
	"errors"
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/blocks"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// DefaultFieldName is the base name of a schema-backed draggable that has
// neither a name nor a title.
const DefaultFieldName = "field"

// ErrEmptyDraggable reports an insert payload with neither a schema element
// nor a UI element.
var ErrEmptyDraggable = errors.New("editor: draggable carries neither schema nor ui element")

// DraggableMeta is the payload dragged from the toolbox or from the canvas.
type DraggableMeta = blocks.Draggable

// Child addresses the drop target.
type Child struct {
	Path string `json:"path"`
}

// InsertControlPayload drops a draggable relative to the element at
// Child.Path.
type InsertControlPayload struct {
	Child         Child             `json:"child"`
	Current       *uischema.Element `json:"current,omitempty"`
	DraggableMeta DraggableMeta     `json:"draggableMeta"`
	PlaceBefore   bool              `json:"placeBefore,omitempty"`
}

// InsertControl inserts a draggable. Dropping on the root or on an empty
// layout places it inside that layout; dropping on any other element places
// it next to that element. Schema-backed draggables also get a uniquely named
// property under the nearest Group's scope.
func (s *Session) InsertControl(p InsertControlPayload) (*Session, error) {
	const op = "editor: insert"
	target, err := uischema.ElementAt(s.uiSchema, p.Child.Path)
	if err != nil {
		return nil, err
	}
	if p.Current != nil && p.Current.Type != target.Type {
		return nil, editerr.New(op, p.Child.Path, editerr.ErrPathNotFound)
	}
	parentPath, index, err := dropPosition(s.uiSchema, p.Child.Path, p.PlaceBefore)
	if err != nil {
		return nil, err
	}
	return s.insertAt(parentPath, index, p.DraggableMeta)
}

// dropPosition computes the layout and index a drop on path lands at.
func dropPosition(tree *uischema.Element, path string, before bool) (string, int, error) {
	target, err := uischema.ElementAt(tree, path)
	if err != nil {
		return "", 0, err
	}
	if path == "" || (target.IsLayout() && len(target.Elements) == 0) {
		if before {
			return path, 0, nil
		}
		return path, len(target.Elements), nil
	}
	parent, index, ok := address.ParentPath(path)
	if !ok {
		return "", 0, editerr.New("editor: drop", path, editerr.ErrPathNotFound)
	}
	if before {
		return parent, index, nil
	}
	return parent, index + 1, nil
}

// insertAt splices a draggable into the layout at parentPath.
func (s *Session) insertAt(parentPath string, index int, meta DraggableMeta) (*Session, error) {
	const op = "editor: insert"
	if meta.JSONSchemaElement == nil {
		if meta.UISchema == nil {
			return nil, editerr.New(op, parentPath, ErrEmptyDraggable)
		}
		ui, err := uischema.InsertChild(s.uiSchema, parentPath, index, meta.UISchema.Clone())
		if err != nil {
			return nil, err
		}
		out := s.clone()
		out.uiSchema = ui
		return out, nil
	}

	groupScope := uischema.NearestGroupScope(s.uiSchema, parentPath)
	parentSegments := address.ScopeToSegments(groupScope)

	base := fieldBaseName(meta)
	taken := s.takenKeys(parentSegments)
	key := blocks.UniqueName(base, func(candidate string) bool {
		_, ok := taken[candidate]
		return ok
	})
	scope, err := address.ChildScope(groupScope, key)
	if err != nil {
		return nil, err
	}

	value := jsonschema.CloneSchema(meta.JSONSchemaElement)
	schema, err := jsonschema.InsertAt(s.schema, parentSegments, key, value, true)
	if err != nil {
		return nil, err
	}

	fragment, err := placeFragment(meta, base, scope)
	if err != nil {
		return nil, err
	}
	ui, err := uischema.InsertChild(s.uiSchema, parentPath, index, fragment)
	if err != nil {
		return nil, err
	}

	out := s.clone()
	out.schema = schema
	out.uiSchema = ui
	if err := out.healReferences(value, meta.Definitions); err != nil {
		return nil, err
	}
	return out, nil
}

// fieldBaseName picks the draggable's name, then its schema title, then the
// default, reduced to a valid scope segment.
func fieldBaseName(meta DraggableMeta) string {
	for _, candidate := range []string{meta.Name, jsonschema.ReadString(meta.JSONSchemaElement, "title")} {
		if name := segmentName(candidate); name != "" {
			return name
		}
	}
	return DefaultFieldName
}

func segmentName(raw string) string {
	cleaned := uischema.SanitizeText(raw)
	return strings.NewReplacer(".", "_", "/", "_", "#", "_").Replace(cleaned)
}

// takenKeys collects the last segment of every scope in the UI tree plus the
// properties the target parent already declares.
func (s *Session) takenKeys(parentSegments []string) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, scope := range uischema.CollectScopes(s.uiSchema) {
		if last := address.LastSegment(scope); last != "" {
			taken[last] = struct{}{}
		}
	}
	if parent := jsonschema.Lookup(s.schema, parentSegments); parent != nil {
		for name := range jsonschema.Properties(parent) {
			taken[name] = struct{}{}
		}
	}
	return taken
}

// placeFragment returns the UI element to splice in, with template scopes
// (`#/properties/<base>`) rebased onto scope. Without a UI template the
// fragment is a plain Control.
func placeFragment(meta DraggableMeta, base, scope string) (*uischema.Element, error) {
	if meta.UISchema == nil {
		return uischema.NewControl(scope), nil
	}
	template, err := address.ChildScope(address.RootScope, base)
	if err != nil {
		return nil, err
	}
	fragment := uischema.RewriteScopePrefix(template, scope, meta.UISchema)
	if meta.Name != "" && meta.Name != base {
		if original, err := address.ChildScope(address.RootScope, meta.Name); err == nil {
			fragment = uischema.RewriteScopePrefix(original, scope, fragment)
		}
	}
	return fragment, nil
}

// healReferences makes every definition $ref inside value resolvable: block
// definitions carried by the draggable are added when missing, and any
// other unknown target gets a placeholder object definition.
func (s *Session) healReferences(value map[string]any, carried map[string]map[string]any) error {
	const op = "editor: insert"
	var missing []string
	for name := range carried {
		if !s.hasDefinition(name) {
			missing = append(missing, name)
		}
	}
	refs := jsonschema.CollectRefs(value)
	for _, def := range carried {
		refs = append(refs, jsonschema.CollectRefs(def)...)
	}
	for _, ref := range refs {
		_, name, ok := jsonschema.DefinitionNameFromRef(ref)
		if !ok || s.hasDefinition(name) {
			continue
		}
		if _, ok := carried[name]; ok {
			continue
		}
		if s.strictRefs {
			return editerr.New(op, ref, editerr.ErrDanglingReference)
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return nil
	}

	defs, uis := s.withDefinitions()
	for _, name := range missing {
		if _, done := defs[name]; done {
			continue
		}
		if def, ok := carried[name]; ok {
			defs[name] = jsonschema.CloneSchema(def)
		} else {
			defs[name] = jsonschema.EmptyObject()
		}
		if _, ok := uis[name]; !ok {
			uis[name] = uischema.NewVerticalLayout()
		}
	}
	s.definitions = defs
	s.uiSchemas = uis
	return nil
}
