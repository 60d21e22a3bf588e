package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
)

const componentsRefPrefix = "#/components/schemas/"

const (
	relationshipsExtension = "x-relationships"
	inverseOfExtension     = "x-inverseOf"
)

// ErrNoComponents reports a document without component schemas.
var ErrNoComponents = errors.New("openapi: document has no component schemas")

// ImportComponents converts every `components.schemas` entry of raw to a
// schema map keyed by component name.
func ImportComponents(ctx context.Context, raw []byte, options ...Option) (map[string]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	opts := NewOptions(options...)

	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = opts.AllowExternalRefs

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if opts.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, ErrNoComponents
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]map[string]any, len(names))
	for _, name := range names {
		node, err := convert(spec.Components.Schemas[name])
		if err != nil {
			return nil, fmt.Errorf("openapi: convert %s: %w", name, err)
		}
		out[name] = node
	}
	for name, node := range out {
		for _, target := range names {
			node = jsonschema.RewriteRef(node, componentsRefPrefix+target, jsonschema.RefFor(opts.DefinitionsKey, target))
		}
		out[name] = annotateInverse(node).(map[string]any)
	}
	return out, nil
}

// convert serialises a schema ref through kin-openapi's own marshaller so
// nested references stay `$ref` nodes instead of being inlined.
func convert(ref *openapi3.SchemaRef) (map[string]any, error) {
	if ref == nil {
		return jsonschema.EmptyObject(), nil
	}
	var raw []byte
	var err error
	if ref.Ref == "" && ref.Value != nil {
		raw, err = json.Marshal(ref.Value)
	} else {
		raw, err = json.Marshal(ref)
	}
	if err != nil {
		return nil, err
	}
	return jsonschema.Parse(raw)
}

// annotateInverse lifts `x-relationships.inverse` to the designer's
// `x-inverseOf` extension where the latter is not set already.
func annotateInverse(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed)+1)
		for key, child := range typed {
			out[key] = annotateInverse(child)
		}
		if _, ok := out[inverseOfExtension]; !ok {
			if rel, ok := typed[relationshipsExtension].(map[string]any); ok {
				if inverse, ok := rel["inverse"].(string); ok && strings.TrimSpace(inverse) != "" {
					out[inverseOfExtension] = strings.TrimSpace(inverse)
				}
			}
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, child := range typed {
			out[i] = annotateInverse(child)
		}
		return out
	default:
		return value
	}
}
