package jsonschema

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/address"
)

// Liveness lists the scopes that keep schema fragments alive. A control scope
// keeps the addressed node, its ancestors and everything below it. A binding
// scope (a Group's options.scope) keeps the addressed node and its ancestors
// but not the properties inside it.
type Liveness struct {
	Controls []string
	Bindings []string
}

type liveSet struct {
	subtrees [][]string
	nodes    [][]string
}

// CollectGarbage marks every leaf property (a node without `properties`),
// unmarks the ones reachable from a live scope, deletes what stays marked and
// prunes object nodes left with empty properties by the deletion. The root is
// never removed.
func CollectGarbage(schema map[string]any, live Liveness) map[string]any {
	if schema == nil {
		return nil
	}
	set := liveSet{}
	for _, scope := range live.Controls {
		set.subtrees = append(set.subtrees, address.ScopeToSegments(scope))
	}
	for _, scope := range live.Bindings {
		set.nodes = append(set.nodes, address.ScopeToSegments(scope))
	}
	out, _ := set.sweep(schema, nil)
	return out
}

// sweep returns the collected node and whether anything was deleted below it.
func (s liveSet) sweep(node map[string]any, path []string) (map[string]any, bool) {
	if items, ok := Items(node); ok && Properties(node) == nil {
		itemsPath := appendPath(path, keyItems)
		if s.keepsSubtree(itemsPath) {
			return node, false
		}
		swept, changed := s.sweep(items, itemsPath)
		if !changed {
			return node, false
		}
		out := shallow(node)
		out[keyItems] = swept
		return out, true
	}

	props := Properties(node)
	if len(props) == 0 {
		return node, false
	}
	var (
		kept    map[string]any
		removed []string
	)
	for _, name := range sortedKeys(props) {
		child, ok := props[name].(map[string]any)
		if !ok {
			continue
		}
		childPath := appendPath(path, name)
		if s.keepsSubtree(childPath) {
			continue
		}

		if isLeaf(child) {
			if !s.reaches(childPath) {
				removed = append(removed, name)
			}
			continue
		}

		swept, changed := s.sweep(child, childPath)
		if !changed {
			continue
		}
		if isEmptied(swept) && !s.reaches(childPath) {
			removed = append(removed, name)
			continue
		}
		if kept == nil {
			kept = shallow(props)
		}
		kept[name] = swept
	}

	if kept == nil && len(removed) == 0 {
		return node, false
	}
	out := shallow(node)
	if kept != nil {
		out[keyProperties] = kept
	}
	for _, name := range removed {
		out = removeProperty(out, name)
	}
	return out, true
}

// keepsSubtree reports whether a control scope addresses path or one of its
// ancestors.
func (s liveSet) keepsSubtree(path []string) bool {
	for _, live := range s.subtrees {
		if hasPrefix(path, live) && len(live) > 0 {
			return true
		}
	}
	return false
}

// reaches reports whether any live scope addresses path or a node below it.
func (s liveSet) reaches(path []string) bool {
	for _, live := range s.subtrees {
		if hasPrefix(live, path) {
			return true
		}
	}
	for _, live := range s.nodes {
		if hasPrefix(live, path) {
			return true
		}
	}
	return false
}

func isLeaf(node map[string]any) bool {
	if _, ok := node[keyProperties]; ok {
		return false
	}
	if items, ok := Items(node); ok {
		return isLeaf(items)
	}
	return true
}

func isEmptied(node map[string]any) bool {
	if items, ok := Items(node); ok && Properties(node) == nil {
		return isEmptied(items)
	}
	return len(Properties(node)) == 0
}

func hasPrefix(path, prefix []string) bool {
	if len(prefix) > len(path) {
		return false
	}
	for i := range prefix {
		if path[i] != prefix[i] {
			return false
		}
	}
	return true
}

func appendPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}
