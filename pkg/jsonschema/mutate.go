package jsonschema

import (
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
)

// nodeFunc transforms the node addressed by a segment path.
type nodeFunc func(node map[string]any) (map[string]any, error)

// edit clones the maps along segments, applies fn to the addressed node and
// relinks the clones. A segment steps into `properties.<segment>`, or into
// `items` when the segment is `items` and no such property exists. With
// ensurePath, missing intermediate nodes are synthesised as empty objects.
func edit(op string, node map[string]any, segments []string, ensurePath bool, fn nodeFunc) (map[string]any, error) {
	return editAt(op, node, segments, 0, ensurePath, fn)
}

func editAt(op string, node map[string]any, segments []string, depth int, ensurePath bool, fn nodeFunc) (map[string]any, error) {
	if node == nil {
		return nil, editerr.New(op, strings.Join(segments[:depth], "."), editerr.ErrPathNotFound)
	}
	if depth == len(segments) {
		return fn(node)
	}

	segment := segments[depth]
	if child, ok := Property(node, segment); ok {
		updated, err := editAt(op, child, segments, depth+1, ensurePath, fn)
		if err != nil {
			return nil, err
		}
		out := shallow(node)
		props := shallow(Properties(node))
		props[segment] = updated
		out[keyProperties] = props
		return out, nil
	}

	if segment == keyItems {
		if items, ok := Items(node); ok {
			updated, err := editAt(op, items, segments, depth+1, ensurePath, fn)
			if err != nil {
				return nil, err
			}
			out := shallow(node)
			out[keyItems] = updated
			return out, nil
		}
	}

	if !ensurePath || !acceptsProperties(node) {
		return nil, editerr.New(op, strings.Join(segments[:depth+1], "."), editerr.ErrPathNotFound)
	}
	updated, err := editAt(op, EmptyObject(), segments, depth+1, ensurePath, fn)
	if err != nil {
		return nil, err
	}
	out := shallow(node)
	if Type(out) == "" {
		out[keyType] = typeObject
	}
	props := shallow(Properties(node))
	props[segment] = updated
	out[keyProperties] = props
	return out, nil
}

// InsertAt stores value under key in the object addressed by parent. With
// ensurePath, missing intermediate objects are created; otherwise a missing
// intermediate, or a parent that is not an object schema, is ErrPathNotFound.
func InsertAt(schema map[string]any, parent []string, key string, value map[string]any, ensurePath bool) (map[string]any, error) {
	const op = "jsonschema: insert"
	if strings.TrimSpace(key) == "" {
		return nil, editerr.New(op, key, editerr.ErrInvalidName)
	}
	return edit(op, schema, parent, ensurePath, func(node map[string]any) (map[string]any, error) {
		if !acceptsProperties(node) {
			return nil, editerr.New(op, strings.Join(parent, "."), editerr.ErrPathNotFound)
		}
		out := shallow(node)
		if Type(out) == "" {
			out[keyType] = typeObject
		}
		props := shallow(Properties(node))
		props[key] = value
		out[keyProperties] = props
		return out, nil
	})
}

// UpdateAt shallow-merges patch onto the node addressed by segments. A nil
// patch value deletes the key.
func UpdateAt(schema map[string]any, segments []string, patch map[string]any) (map[string]any, error) {
	return edit("jsonschema: update", schema, segments, false, func(node map[string]any) (map[string]any, error) {
		out := shallow(node)
		for key, value := range patch {
			if value == nil {
				delete(out, key)
				continue
			}
			out[key] = value
		}
		return out, nil
	})
}

// ReplaceAt swaps the node addressed by segments for value.
func ReplaceAt(schema map[string]any, segments []string, value map[string]any) (map[string]any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	return edit("jsonschema: replace", schema, segments, false, func(map[string]any) (map[string]any, error) {
		return value, nil
	})
}

// RemoveAt deletes the leaf property addressed by segments and drops it from
// the parent's required list. Empty segments and absent leaves are no-ops.
func RemoveAt(schema map[string]any, segments []string) (map[string]any, error) {
	if len(segments) == 0 {
		return schema, nil
	}
	parent, leaf := segments[:len(segments)-1], segments[len(segments)-1]
	if owner := lookup(schema, parent); owner != nil {
		if _, ok := Property(owner, leaf); !ok {
			return schema, nil
		}
	}
	return edit("jsonschema: remove", schema, parent, false, func(node map[string]any) (map[string]any, error) {
		return removeProperty(node, leaf), nil
	})
}

func removeProperty(node map[string]any, name string) map[string]any {
	props := shallow(Properties(node))
	delete(props, name)
	out := shallow(node)
	out[keyProperties] = props
	if required := Required(node); len(required) > 0 {
		kept := required[:0]
		for _, entry := range required {
			if entry != name {
				kept = append(kept, entry)
			}
		}
		out = withRequired(out, kept)
	}
	return out
}

// RenameAt moves the property addressed by segments to newName at the same
// level. Renaming onto an existing sibling is ErrNameCollision; renaming a
// property to itself is a no-op.
func RenameAt(schema map[string]any, segments []string, newName string) (map[string]any, error) {
	const op = "jsonschema: rename"
	if len(segments) == 0 {
		return nil, editerr.New(op, "", editerr.ErrPathNotFound)
	}
	if strings.TrimSpace(newName) == "" {
		return nil, editerr.New(op, newName, editerr.ErrInvalidName)
	}
	parent, oldName := segments[:len(segments)-1], segments[len(segments)-1]
	if oldName == newName {
		if owner := lookup(schema, parent); owner != nil {
			if _, ok := Property(owner, oldName); ok {
				return schema, nil
			}
		}
	}
	return edit(op, schema, parent, false, func(node map[string]any) (map[string]any, error) {
		value, ok := Property(node, oldName)
		if !ok {
			return nil, editerr.New(op, strings.Join(segments, "."), editerr.ErrPathNotFound)
		}
		if _, exists := Properties(node)[newName]; exists {
			return nil, editerr.New(op, newName, editerr.ErrNameCollision)
		}
		props := shallow(Properties(node))
		delete(props, oldName)
		props[newName] = value
		out := shallow(node)
		out[keyProperties] = props
		if required := Required(node); len(required) > 0 {
			for i, entry := range required {
				if entry == oldName {
					required[i] = newName
				}
			}
			out = withRequired(out, required)
		}
		return out, nil
	})
}

// Lookup returns the node addressed by property segments without following
// $ref, or nil.
func Lookup(schema map[string]any, segments []string) map[string]any {
	return lookup(schema, segments)
}

func lookup(node map[string]any, segments []string) map[string]any {
	current := node
	for _, segment := range segments {
		if current == nil {
			return nil
		}
		if child, ok := Property(current, segment); ok {
			current = child
			continue
		}
		if segment == keyItems {
			if items, ok := Items(current); ok {
				current = items
				continue
			}
		}
		return nil
	}
	return current
}

// RewriteRef replaces every $ref equal to oldRef with newRef, walking maps and
// arrays. Subtrees without a match are shared with the input.
func RewriteRef(schema map[string]any, oldRef, newRef string) map[string]any {
	if schema == nil || oldRef == newRef {
		return schema
	}
	out, _ := rewriteRef(schema, oldRef, newRef)
	return out.(map[string]any)
}

func rewriteRef(value any, oldRef, newRef string) (any, bool) {
	switch typed := value.(type) {
	case map[string]any:
		var out map[string]any
		for key, child := range typed {
			if key == keyRef {
				if ref, ok := child.(string); ok && ref == oldRef {
					if out == nil {
						out = shallow(typed)
					}
					out[key] = newRef
				}
				continue
			}
			rewritten, changed := rewriteRef(child, oldRef, newRef)
			if !changed {
				continue
			}
			if out == nil {
				out = shallow(typed)
			}
			out[key] = rewritten
		}
		if out == nil {
			return typed, false
		}
		return out, true
	case []any:
		var out []any
		for idx, child := range typed {
			rewritten, changed := rewriteRef(child, oldRef, newRef)
			if !changed {
				continue
			}
			if out == nil {
				out = append([]any(nil), typed...)
			}
			out[idx] = rewritten
		}
		if out == nil {
			return typed, false
		}
		return out, true
	default:
		return value, false
	}
}
