// Package address converts between the three coordinate systems used by the
// designer: dotted UI paths into nested `elements` arrays
// (`elements.0.elements.1`), JSON Schema scopes
// (`#/properties/address/properties/street`) and property segment arrays
// (`["address", "street"]`). The functions are pure and know nothing about
// tree contents.
package address

import (
	"strconv"
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
)

const (
	// RootScope addresses the schema root.
	RootScope = "#"
	// ElementsKey is the UI path keyword preceding every child index.
	ElementsKey = "elements"

	propertiesKeyword = "properties"
	scopePrefix       = "#/"
)

// PathToSegments splits a dotted UI path. The empty path is the tree root and
// yields an empty slice.
func PathToSegments(path string) []string {
	if path == "" {
		return []string{}
	}
	return strings.Split(path, ".")
}

// SegmentsToPath joins UI path segments with dots.
func SegmentsToPath(segments []string) string {
	return strings.Join(segments, ".")
}

// ChildPath returns the UI path of the index-th child of parent.
func ChildPath(parent string, index int) string {
	child := ElementsKey + "." + strconv.Itoa(index)
	if parent == "" {
		return child
	}
	return parent + "." + child
}

// ParentPath splits a UI element path into the path of its parent layout and
// the index inside the parent's elements. ok is false for the root or for
// malformed paths.
func ParentPath(path string) (string, int, bool) {
	segments := PathToSegments(path)
	if len(segments) < 2 || len(segments)%2 != 0 {
		return "", 0, false
	}
	if segments[len(segments)-2] != ElementsKey {
		return "", 0, false
	}
	index, err := strconv.Atoi(segments[len(segments)-1])
	if err != nil || index < 0 {
		return "", 0, false
	}
	return SegmentsToPath(segments[:len(segments)-2]), index, true
}

// PathIndices decodes a UI path into its child indices.
func PathIndices(path string) ([]int, bool) {
	segments := PathToSegments(path)
	if len(segments)%2 != 0 {
		return nil, false
	}
	indices := make([]int, 0, len(segments)/2)
	for i := 0; i < len(segments); i += 2 {
		if segments[i] != ElementsKey {
			return nil, false
		}
		index, err := strconv.Atoi(segments[i+1])
		if err != nil || index < 0 {
			return nil, false
		}
		indices = append(indices, index)
	}
	return indices, true
}

// IndicesToPath encodes child indices as a dotted UI path.
func IndicesToPath(indices []int) string {
	path := ""
	for _, index := range indices {
		path = ChildPath(path, index)
	}
	return path
}

// IsDescendantPath reports whether path equals ancestor or lies below it.
func IsDescendantPath(path, ancestor string) bool {
	if ancestor == "" {
		return true
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+".")
}

// SegmentsToPointer encodes segments as a JSON pointer. Segments containing a
// slash cannot be represented and are rejected.
func SegmentsToPointer(segments []string) (string, error) {
	var b strings.Builder
	for _, segment := range segments {
		if strings.Contains(segment, "/") {
			return "", editerr.New("address: pointer", segment, editerr.ErrInvalidSegment)
		}
		b.WriteString("/")
		b.WriteString(segment)
	}
	return b.String(), nil
}

// PointerToSegments decodes a JSON pointer, ignoring a leading `#` and empty
// tokens.
func PointerToSegments(pointer string) []string {
	return PointerTokens(pointer)
}

// PointerTokens returns the raw tokens of a scope, pointer or $ref string
// without the literal `#` and without empty tokens.
func PointerTokens(pointer string) []string {
	parts := strings.Split(pointer, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "#" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// SegmentsToScope encodes property segments as a scope of the form
// `#/properties/a/properties/b`. Segments containing a dot are rejected since
// they would not survive a round trip through dotted property paths.
func SegmentsToScope(segments []string) (string, error) {
	if len(segments) == 0 {
		return RootScope, nil
	}
	var b strings.Builder
	b.WriteString(RootScope)
	for _, segment := range segments {
		if segment == "" || strings.Contains(segment, ".") || strings.Contains(segment, "/") {
			return "", editerr.New("address: scope", segment, editerr.ErrInvalidSegment)
		}
		b.WriteString("/" + propertiesKeyword + "/")
		b.WriteString(segment)
	}
	return b.String(), nil
}

// MustScope is SegmentsToScope for segments known to be valid.
func MustScope(segments ...string) string {
	scope, err := SegmentsToScope(segments)
	if err != nil {
		panic(err)
	}
	return scope
}

// ScopeToSegments decodes a scope into property segments. Scopes that do not
// start with `#/` yield an empty slice. Keywords other than `properties`
// (such as `items`) are kept as segments of their own.
func ScopeToSegments(scope string) []string {
	if !strings.HasPrefix(scope, scopePrefix) {
		return []string{}
	}
	tokens := PointerTokens(scope)
	out := make([]string, 0, len(tokens)/2+1)
	for i := 0; i < len(tokens); i++ {
		if tokens[i] == propertiesKeyword && i+1 < len(tokens) {
			out = append(out, tokens[i+1])
			i++
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// LastSegment returns the final property segment of a scope.
func LastSegment(scope string) string {
	segments := ScopeToSegments(scope)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// PropertyPathToScope converts a dotted property path (`address.street`) to a
// scope.
func PropertyPathToScope(path string) (string, error) {
	return SegmentsToScope(PathToSegments(path))
}

// ScopeToPropertyPath converts a scope to a dotted property path.
func ScopeToPropertyPath(scope string) string {
	return SegmentsToPath(ScopeToSegments(scope))
}

// HasScopePrefix reports whether scope equals prefix or continues it at a
// token boundary, so `#/properties/text` is not a prefix of
// `#/properties/textField`.
func HasScopePrefix(scope, prefix string) bool {
	if prefix == "" {
		return false
	}
	if scope == prefix {
		return true
	}
	if prefix == RootScope {
		return strings.HasPrefix(scope, scopePrefix)
	}
	return strings.HasPrefix(scope, prefix+"/")
}

// ReplaceScopePrefix swaps oldPrefix for newPrefix while preserving the
// suffix. ok is false when scope does not start with oldPrefix.
func ReplaceScopePrefix(scope, oldPrefix, newPrefix string) (string, bool) {
	if !HasScopePrefix(scope, oldPrefix) {
		return scope, false
	}
	return newPrefix + strings.TrimPrefix(scope, oldPrefix), true
}

// ChildScope appends a property segment to parent scope.
func ChildScope(parent, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "./") {
		return "", editerr.New("address: scope", name, editerr.ErrInvalidSegment)
	}
	if parent == "" || parent == RootScope {
		return RootScope + "/" + propertiesKeyword + "/" + name, nil
	}
	if !strings.HasPrefix(parent, scopePrefix) {
		return "", editerr.New("address: scope", parent, editerr.ErrInvalidSegment)
	}
	return strings.TrimSuffix(parent, "/") + "/" + propertiesKeyword + "/" + name, nil
}

// RenameLastSegment replaces the final token of scope with name, leaving
// the rest of the scope untouched.
func RenameLastSegment(scope, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "./") {
		return "", editerr.New("address: scope", name, editerr.ErrInvalidSegment)
	}
	idx := strings.LastIndex(scope, "/")
	if !strings.HasPrefix(scope, scopePrefix) || idx < len(RootScope) {
		return "", editerr.New("address: scope", scope, editerr.ErrInvalidSegment)
	}
	return scope[:idx+1] + name, nil
}
