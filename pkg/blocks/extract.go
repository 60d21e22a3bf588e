package blocks

import (
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// UntitledName is used when a Group has neither label nor binding scope.
const UntitledName = "Untitled"

// Options tunes Extract.
type Options struct {
	// ToolIconName is stored on the block after sanitising.
	ToolIconName string
	// RefRoot resolves $ref strings met while reading the source schema,
	// typically the schema merged with every definition.
	RefRoot map[string]any
	// Definitions is searched for the targets of $ref strings inside the
	// extracted fragment; every transitively referenced entry is copied.
	Definitions map[string]map[string]any
}

// Extract builds a block from group, reading fields from schema. existing
// lists block names already taken.
func Extract(group *uischema.Element, schema map[string]any, existing []string, opts Options) (Block, error) {
	const op = "blocks: extract"
	if group == nil {
		return Block{}, editerr.New(op, "", editerr.ErrPathNotFound)
	}
	if schema == nil {
		return Block{}, editerr.New(op, address.RootScope, editerr.ErrPathNotFound)
	}

	var relative [][]string
	scopes := descendantScopes(group)
	prefix := commonPrefix(scopes)
	if len(scopes) == 0 {
		prefix = address.ScopeToSegments(group.OptionsScope())
	}
	for _, segments := range scopes {
		relative = append(relative, segments[len(prefix):])
	}

	oldPrefix, err := address.SegmentsToScope(prefix)
	if err != nil {
		return Block{}, err
	}
	refRoot := opts.RefRoot
	if refRoot == nil {
		refRoot = schema
	}
	x := extractor{schema: schema, opts: jsonschema.ResolveOptions{RootForRefs: refRoot}}
	source := x.resolve(prefix)
	if source == nil {
		return Block{}, editerr.New(op, oldPrefix, editerr.ErrPathNotFound)
	}
	fragment := x.build(source, prefix, relative)

	taken := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		taken[name] = struct{}{}
	}
	name := UniqueName(baseName(group), func(candidate string) bool {
		_, ok := taken[candidate]
		return ok
	})

	newPrefix, err := address.SegmentsToScope([]string{name})
	if err != nil {
		return Block{}, err
	}
	ui := uischema.RewriteScopePrefix(oldPrefix, newPrefix, group)
	if binding := group.OptionsScope(); binding != "" && !address.HasScopePrefix(binding, oldPrefix) {
		ui = ui.WithOptionsScope(newPrefix)
	}

	return Block{
		Name:              name,
		JSONSchemaElement: fragment,
		UISchema:          ui,
		ToolIconName:      uischema.SanitizeIconName(opts.ToolIconName),
		Definitions:       collectDefinitions(fragment, opts.Definitions),
	}, nil
}

// descendantScopes returns the property segments of every Control scope
// below group. The Group's own binding is a render hint and is skipped.
func descendantScopes(group *uischema.Element) [][]string {
	var out [][]string
	for _, scope := range uischema.ControlScopes(group) {
		segments := address.ScopeToSegments(scope)
		if len(segments) == 0 {
			continue
		}
		out = append(out, segments)
	}
	return out
}

// commonPrefix is the longest shared prefix of each scope's parent segments.
func commonPrefix(scopes [][]string) []string {
	if len(scopes) == 0 {
		return nil
	}
	prefix := scopes[0][:len(scopes[0])-1]
	for _, segments := range scopes[1:] {
		parent := segments[:len(segments)-1]
		n := 0
		for n < len(prefix) && n < len(parent) && prefix[n] == parent[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return append([]string(nil), prefix...)
}

func baseName(group *uischema.Element) string {
	if label := sanitizeName(group.Label); label != "" {
		return label
	}
	if last := sanitizeName(address.LastSegment(group.OptionsScope())); last != "" {
		return last
	}
	return UntitledName
}

// sanitizeName strips markup and replaces characters that cannot appear in
// a scope segment.
func sanitizeName(raw string) string {
	cleaned := uischema.SanitizeText(raw)
	return strings.NewReplacer(".", "_", "/", "_").Replace(cleaned)
}

type extractor struct {
	schema map[string]any
	opts   jsonschema.ResolveOptions
}

func (x extractor) resolve(segments []string) map[string]any {
	scope, err := address.SegmentsToScope(segments)
	if err != nil {
		return nil
	}
	return jsonschema.Resolve(x.schema, scope, x.opts)
}

// build rebuilds the object at abs keeping only the properties on the
// relative paths. A path ending at a key copies that property whole.
func (x extractor) build(source map[string]any, abs []string, relative [][]string) map[string]any {
	out := map[string]any{"type": "object"}
	if title := jsonschema.ReadString(source, "title"); title != "" {
		out["title"] = title
	}

	var order []string
	tails := make(map[string][][]string)
	whole := make(map[string]bool)
	for _, rel := range relative {
		if len(rel) == 0 {
			continue
		}
		key := rel[0]
		if _, ok := tails[key]; !ok {
			order = append(order, key)
			tails[key] = nil
		}
		if len(rel) == 1 {
			whole[key] = true
			continue
		}
		tails[key] = append(tails[key], rel[1:])
	}

	props := make(map[string]any, len(order))
	for _, key := range order {
		if whole[key] {
			if child, ok := jsonschema.Property(source, key); ok {
				props[key] = jsonschema.CloneSchema(child)
			}
			continue
		}
		childAbs := append(append([]string(nil), abs...), key)
		child := x.resolve(childAbs)
		if child == nil {
			continue
		}
		props[key] = x.build(child, childAbs, tails[key])
	}
	out["properties"] = props

	var required []any
	for _, name := range jsonschema.Required(source) {
		if _, ok := props[name]; ok {
			required = append(required, name)
		}
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// collectDefinitions copies every definition reachable through $ref strings
// from fragment, following references inside copied definitions too.
func collectDefinitions(fragment map[string]any, defs map[string]map[string]any) map[string]map[string]any {
	if len(defs) == 0 {
		return nil
	}
	out := make(map[string]map[string]any)
	queue := jsonschema.CollectRefs(fragment)
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]
		_, name, ok := jsonschema.DefinitionNameFromRef(ref)
		if !ok {
			continue
		}
		if _, done := out[name]; done {
			continue
		}
		def, ok := defs[name]
		if !ok {
			continue
		}
		out[name] = jsonschema.CloneSchema(def)
		queue = append(queue, jsonschema.CollectRefs(def)...)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
