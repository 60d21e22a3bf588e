package jsonschema

import (
	"strconv"

	"github.com/gravio-la/forms-designer-sub000/pkg/address"
)

const defaultMaxRefDepth = 64

// branchKeys lists the combinator keys tried, in priority order, when a
// direct property lookup fails.
var branchKeys = []string{"oneOf", "allOf", "anyOf", "then", "else"}

// ResolveOptions configures scope resolution.
type ResolveOptions struct {
	// RootForRefs is the document $ref strings are resolved against. Defaults
	// to the schema being walked.
	RootForRefs map[string]any
	// SkipRefs returns raw {$ref: ...} nodes instead of their targets.
	SkipRefs bool
	// MaxRefDepth caps the length of $ref chains.
	MaxRefDepth int
}

// Resolve returns the subschema addressed by scope, or nil when the scope
// does not resolve. $ref nodes met along the way are replaced by their
// targets; when a `properties` or `items` step fails the rest of the scope is
// tried against every oneOf, allOf, anyOf, then and else branch.
func Resolve(root map[string]any, scope string, opts ResolveOptions) map[string]any {
	if root == nil {
		return nil
	}
	r := newResolver(root, opts)
	return r.walk(root, address.PointerTokens(scope), 0)
}

// ResolveScope resolves scope with $ref substitution against root itself.
func ResolveScope(root map[string]any, scope string) map[string]any {
	return Resolve(root, scope, ResolveOptions{})
}

// ResolveScopeWithoutRef resolves scope without substituting $ref nodes, so
// callers that need to edit the reference itself receive it.
func ResolveScopeWithoutRef(root map[string]any, scope string) map[string]any {
	return Resolve(root, scope, ResolveOptions{SkipRefs: true})
}

// ResolveRef resolves a bare `#/definitions/Name` style reference.
func ResolveRef(root map[string]any, ref string) map[string]any {
	return Resolve(root, ref, ResolveOptions{})
}

type resolver struct {
	refRoot  map[string]any
	skipRefs bool
	maxDepth int
}

func newResolver(root map[string]any, opts ResolveOptions) *resolver {
	r := &resolver{refRoot: opts.RootForRefs, skipRefs: opts.SkipRefs, maxDepth: opts.MaxRefDepth}
	if r.refRoot == nil {
		r.refRoot = root
	}
	if r.maxDepth <= 0 {
		r.maxDepth = defaultMaxRefDepth
	}
	return r
}

func (r *resolver) walk(node any, tokens []string, depth int) map[string]any {
	current := node
	// owner is the last node a `properties`/`items` step started from, so a
	// property missing from the direct properties can still be found in a
	// branch that declares its own.
	var owner map[string]any
	ownerIdx := -1
	for i := 0; i < len(tokens); i++ {
		if m, ok := current.(map[string]any); ok && !r.skipRefs {
			deref := r.deref(m, depth)
			if deref == nil {
				return nil
			}
			current = deref
		}

		token := tokens[i]
		if m, ok := current.(map[string]any); ok && (token == keyProperties || token == keyItems) {
			owner, ownerIdx = m, i
		}
		if next, ok := step(current, token); ok {
			current = next
			continue
		}

		if owner == nil || ownerIdx < i-1 {
			return nil
		}
		for _, key := range branchKeys {
			for _, branch := range branches(owner[key]) {
				if found := r.walk(branch, tokens[ownerIdx:], depth); found != nil {
					return found
				}
			}
		}
		return nil
	}

	m, ok := current.(map[string]any)
	if !ok {
		return nil
	}
	if r.skipRefs {
		return m
	}
	return r.deref(m, depth)
}

// deref follows a chain of $ref nodes. Cycles and chains longer than the
// configured depth resolve to nil.
func (r *resolver) deref(node map[string]any, depth int) map[string]any {
	seen := map[string]struct{}{}
	current := node
	for {
		ref := Ref(current)
		if ref == "" {
			return current
		}
		if _, loop := seen[ref]; loop || depth+len(seen) >= r.maxDepth {
			return nil
		}
		seen[ref] = struct{}{}
		target := r.walk(r.refRoot, address.PointerTokens(ref), depth+len(seen))
		if target == nil {
			return nil
		}
		current = target
	}
}

func step(node any, token string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		value, ok := typed[token]
		if !ok || value == nil {
			return nil, false
		}
		return value, true
	case []any:
		idx, err := strconv.Atoi(token)
		if err != nil || idx < 0 || idx >= len(typed) {
			return nil, false
		}
		return typed[idx], true
	default:
		return nil, false
	}
}

// branches normalises a combinator value; then/else hold a single schema
// while oneOf/allOf/anyOf hold arrays.
func branches(value any) []map[string]any {
	switch typed := value.(type) {
	case map[string]any:
		return []map[string]any{typed}
	case []any:
		out := make([]map[string]any, 0, len(typed))
		for _, entry := range typed {
			if m, ok := entry.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
