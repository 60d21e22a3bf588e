// Package jsonschema operates on JSON Schema trees held as decoded
// map[string]any payloads. It resolves scopes (following $ref and probing
// oneOf/allOf/anyOf/then/else branches), applies copy-on-write structural
// edits addressed by property segment arrays, rewrites $ref strings and
// prunes fragments that no UI scope references any more.
//
// Maps reachable from a schema handed to this package are never mutated;
// every edit returns a new root that shares untouched subtrees with the input.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	keyType       = "type"
	keyProperties = "properties"
	keyItems      = "items"
	keyRef        = "$ref"
	keyRequired   = "required"
	keyTitle      = "title"

	typeObject = "object"
)

// EmptyObject returns `{type: object, properties: {}}`.
func EmptyObject() map[string]any {
	return map[string]any{
		keyType:       typeObject,
		keyProperties: map[string]any{},
	}
}

// Parse decodes a raw JSON Schema document.
func Parse(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}
	var payload map[string]any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("jsonschema: parse schema: %w", err)
	}
	if payload == nil {
		return nil, errors.New("jsonschema: schema is nil")
	}
	return payload, nil
}

// Clone deep-copies maps and slices.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = Clone(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, val := range typed {
			out[idx] = Clone(val)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

// CloneSchema deep-copies a schema node; nil stays nil.
func CloneSchema(node map[string]any) map[string]any {
	if node == nil {
		return nil
	}
	return Clone(node).(map[string]any)
}

func shallow(node map[string]any) map[string]any {
	out := make(map[string]any, len(node)+1)
	for key, value := range node {
		out[key] = value
	}
	return out
}

// ReadString returns node[key] when it is a string.
func ReadString(node map[string]any, key string) string {
	if node == nil {
		return ""
	}
	str, _ := node[key].(string)
	return str
}

// Ref returns the node's $ref, trimmed.
func Ref(node map[string]any) string {
	return strings.TrimSpace(ReadString(node, keyRef))
}

// Type returns the node's declared type.
func Type(node map[string]any) string {
	return strings.TrimSpace(ReadString(node, keyType))
}

// Properties returns the node's properties map, or nil.
func Properties(node map[string]any) map[string]any {
	if node == nil {
		return nil
	}
	props, _ := node[keyProperties].(map[string]any)
	return props
}

// Property returns the named child schema.
func Property(node map[string]any, name string) (map[string]any, bool) {
	child, ok := Properties(node)[name].(map[string]any)
	return child, ok
}

// Items returns the single items schema of an array node.
func Items(node map[string]any) (map[string]any, bool) {
	if node == nil {
		return nil, false
	}
	items, ok := node[keyItems].(map[string]any)
	return items, ok
}

// Required returns the node's required names.
func Required(node map[string]any) []string {
	if node == nil {
		return nil
	}
	switch typed := node[keyRequired].(type) {
	case []string:
		return append([]string(nil), typed...)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func acceptsProperties(node map[string]any) bool {
	switch Type(node) {
	case "", typeObject:
		return true
	default:
		return false
	}
}

func isVendorExtension(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "x-")
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func withRequired(node map[string]any, names []string) map[string]any {
	out := shallow(node)
	if len(names) == 0 {
		delete(out, keyRequired)
		return out
	}
	list := make([]any, len(names))
	for i, name := range names {
		list[i] = name
	}
	out[keyRequired] = list
	return out
}
