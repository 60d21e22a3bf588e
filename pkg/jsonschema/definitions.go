package jsonschema

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/address"
)

const (
	// KeyDefinitions is the draft-07 definitions block key.
	KeyDefinitions = "definitions"
	// KeyDefs is the 2019-09+ definitions block key.
	KeyDefs = "$defs"
	// RootDefinition names the schema being edited when nothing else is active.
	RootDefinition = "Root"
)

// IsDefinitionsKey reports whether key is one of the supported block keys.
func IsDefinitionsKey(key string) bool {
	return key == KeyDefinitions || key == KeyDefs
}

// DetectDefinitionsKey returns `$defs` when the schema uses it and
// `definitions` otherwise.
func DetectDefinitionsKey(schema map[string]any) string {
	if schema == nil {
		return KeyDefinitions
	}
	if _, ok := schema[KeyDefs].(map[string]any); ok {
		if _, legacy := schema[KeyDefinitions].(map[string]any); !legacy {
			return KeyDefs
		}
	}
	return KeyDefinitions
}

// RefFor builds the $ref string of a named definition.
func RefFor(key, name string) string {
	return "#/" + key + "/" + name
}

// DefinitionNameFromRef extracts the block key and definition name from a
// `#/definitions/Name` or `#/$defs/Name` reference.
func DefinitionNameFromRef(ref string) (string, string, bool) {
	tokens := address.PointerTokens(ref)
	if len(tokens) != 2 || !IsDefinitionsKey(tokens[0]) {
		return "", "", false
	}
	return tokens[0], tokens[1], true
}

// SplitDefinitions returns the schema without its definitions block and the
// named schemas found under key.
func SplitDefinitions(schema map[string]any, key string) (map[string]any, map[string]map[string]any) {
	defs := make(map[string]map[string]any)
	if schema == nil {
		return nil, defs
	}
	out := shallow(schema)
	for _, candidate := range []string{KeyDefinitions, KeyDefs} {
		raw, ok := out[candidate].(map[string]any)
		if !ok {
			continue
		}
		if candidate == key {
			for name, value := range raw {
				if node, ok := value.(map[string]any); ok {
					defs[name] = node
				}
			}
		}
		delete(out, candidate)
	}
	return out, defs
}

// MergeDefinitions builds the virtual root used for resolution: active plus
// a definitions block holding every entry of defs and active itself under
// activeName.
func MergeDefinitions(active map[string]any, defs map[string]map[string]any, activeName, key string) map[string]any {
	out := shallow(active)
	block := make(map[string]any, len(defs)+1)
	for name, def := range defs {
		block[name] = def
	}
	if activeName != "" {
		block[activeName] = active
	}
	out[key] = block
	return out
}

// CollectRefs returns every distinct $ref string in node, in a stable
// traversal order.
func CollectRefs(node any) []string {
	var out []string
	seen := make(map[string]struct{})
	collectRefs(node, seen, &out)
	return out
}

func collectRefs(value any, seen map[string]struct{}, out *[]string) {
	switch typed := value.(type) {
	case map[string]any:
		if ref := Ref(typed); ref != "" {
			if _, ok := seen[ref]; !ok {
				seen[ref] = struct{}{}
				*out = append(*out, ref)
			}
		}
		for _, key := range sortedKeys(typed) {
			collectRefs(typed[key], seen, out)
		}
	case []any:
		for _, entry := range typed {
			collectRefs(entry, seen, out)
		}
	}
}

// IsBareRef reports whether node is `{ "$ref": ... }` with at most
// annotation siblings.
func IsBareRef(node map[string]any) bool {
	if Ref(node) == "" {
		return false
	}
	for key := range node {
		switch key {
		case keyRef, keyTitle, "description", "default":
		default:
			if !isVendorExtension(key) {
				return false
			}
		}
	}
	return true
}
