package uischema

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
)

// VisitFunc transforms one element during MapTree. Returning nil drops the
// element from its parent.
type VisitFunc func(el *Element) *Element

// MapTree rebuilds the tree bottom-up: children are mapped before visit runs
// on their parent. visit receives a shallow copy, so it may modify the node it
// is handed without touching the input tree. A nil tree maps to nil.
func MapTree(el *Element, visit VisitFunc) *Element {
	if el == nil {
		return nil
	}
	node := el.shallow()
	if el.IsLayout() {
		children := make([]*Element, 0, len(el.Elements))
		for _, child := range el.Elements {
			if mapped := MapTree(child, visit); mapped != nil {
				children = append(children, mapped)
			}
		}
		node.Elements = children
	}
	return visit(node)
}

// Walk visits the tree pre-order with each element's dotted path. Returning
// false from fn skips the element's children.
func Walk(el *Element, fn func(path string, el *Element) bool) {
	walk(el, "", fn)
}

func walk(el *Element, path string, fn func(string, *Element) bool) {
	if el == nil {
		return
	}
	if !fn(path, el) || !el.IsLayout() {
		return
	}
	for idx, child := range el.Elements {
		walk(child, address.ChildPath(path, idx), fn)
	}
}

// CollectScopes returns every distinct scope in the tree in traversal order,
// Group binding scopes included.
func CollectScopes(el *Element) []string {
	return collect(el, func(node *Element) string { return node.BoundScope() })
}

// ControlScopes returns the distinct Control scopes of the tree.
func ControlScopes(el *Element) []string {
	return collect(el, func(node *Element) string {
		if node.Type != TypeControl {
			return ""
		}
		return node.Scope
	})
}

// BindingScopes returns the distinct Group options scopes of the tree.
func BindingScopes(el *Element) []string {
	return collect(el, func(node *Element) string {
		if node.Type != TypeGroup {
			return ""
		}
		return node.OptionsScope()
	})
}

func collect(el *Element, pick func(*Element) string) []string {
	var out []string
	seen := make(map[string]struct{})
	Walk(el, func(_ string, node *Element) bool {
		scope := pick(node)
		if scope == "" {
			return true
		}
		if _, ok := seen[scope]; !ok {
			seen[scope] = struct{}{}
			out = append(out, scope)
		}
		return true
	})
	return out
}

// RemoveByScope drops, from every layout, the direct children whose scope
// equals scope.
func RemoveByScope(scope string, tree *Element) *Element {
	return MapTree(tree, func(node *Element) *Element {
		if !node.IsLayout() {
			return node
		}
		kept := node.Elements[:0:0]
		for _, child := range node.Elements {
			if child.Scope != scope {
				kept = append(kept, child)
			}
		}
		node.Elements = kept
		return node
	})
}

// RewriteScopePrefix replaces oldPrefix with newPrefix on every scope and
// Group options scope that continues oldPrefix at a token boundary.
func RewriteScopePrefix(oldPrefix, newPrefix string, tree *Element) *Element {
	return MapTree(tree, func(node *Element) *Element {
		if scope, ok := address.ReplaceScopePrefix(node.Scope, oldPrefix, newPrefix); ok {
			node.Scope = scope
		}
		if node.Type == TypeGroup {
			if scope, ok := address.ReplaceScopePrefix(node.OptionsScope(), oldPrefix, newPrefix); ok {
				node = node.WithOptionsScope(scope)
			}
		}
		return node
	})
}

// ElementAt returns the element addressed by a dotted path.
func ElementAt(tree *Element, path string) (*Element, error) {
	chain, err := Ancestors(tree, path)
	if err != nil {
		return nil, err
	}
	return chain[len(chain)-1], nil
}

// Ancestors returns the elements from the root down to the one at path.
func Ancestors(tree *Element, path string) ([]*Element, error) {
	if tree == nil {
		return nil, notFound("uischema: lookup", path)
	}
	indices, ok := address.PathIndices(path)
	if !ok {
		return nil, notFound("uischema: lookup", path)
	}
	chain := make([]*Element, 0, len(indices)+1)
	current := tree
	chain = append(chain, current)
	for _, idx := range indices {
		if !current.IsLayout() || idx >= len(current.Elements) {
			return nil, notFound("uischema: lookup", path)
		}
		current = current.Elements[idx]
		chain = append(chain, current)
	}
	return chain, nil
}

// ReplaceAt swaps the element at path for el, cloning only the layouts on
// the path.
func ReplaceAt(tree *Element, path string, el *Element) (*Element, error) {
	indices, ok := address.PathIndices(path)
	if !ok || tree == nil {
		return nil, notFound("uischema: replace", path)
	}
	return editAt(tree, indices, "uischema: replace", path, func(*Element) (*Element, error) {
		return el, nil
	})
}

// InsertChild inserts el into the layout at parentPath before position
// index; index equal to the child count appends.
func InsertChild(tree *Element, parentPath string, index int, el *Element) (*Element, error) {
	const op = "uischema: insert"
	indices, ok := address.PathIndices(parentPath)
	if !ok || tree == nil {
		return nil, notFound(op, parentPath)
	}
	return editAt(tree, indices, op, parentPath, func(parent *Element) (*Element, error) {
		if !parent.IsLayout() || index < 0 || index > len(parent.Elements) {
			return nil, notFound(op, address.ChildPath(parentPath, index))
		}
		out := parent.shallow()
		children := make([]*Element, 0, len(parent.Elements)+1)
		children = append(children, parent.Elements[:index]...)
		children = append(children, el)
		children = append(children, parent.Elements[index:]...)
		out.Elements = children
		return out, nil
	})
}

// RemoveAt deletes the element at path and returns the new tree together
// with the removed element. The root cannot be removed.
func RemoveAt(tree *Element, path string) (*Element, *Element, error) {
	const op = "uischema: remove"
	parentPath, index, ok := address.ParentPath(path)
	if !ok {
		return nil, nil, notFound(op, path)
	}
	indices, _ := address.PathIndices(parentPath)
	var removed *Element
	out, err := editAt(tree, indices, op, parentPath, func(parent *Element) (*Element, error) {
		if !parent.IsLayout() || index >= len(parent.Elements) {
			return nil, notFound(op, path)
		}
		removed = parent.Elements[index]
		next := parent.shallow()
		children := make([]*Element, 0, len(parent.Elements)-1)
		children = append(children, parent.Elements[:index]...)
		children = append(children, parent.Elements[index+1:]...)
		next.Elements = children
		return next, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, removed, nil
}

func editAt(node *Element, indices []int, op, path string, fn func(*Element) (*Element, error)) (*Element, error) {
	if node == nil {
		return nil, notFound(op, path)
	}
	if len(indices) == 0 {
		return fn(node)
	}
	idx := indices[0]
	if !node.IsLayout() || idx >= len(node.Elements) {
		return nil, notFound(op, path)
	}
	child, err := editAt(node.Elements[idx], indices[1:], op, path, fn)
	if err != nil {
		return nil, err
	}
	out := node.shallow()
	out.Elements = append([]*Element(nil), node.Elements...)
	out.Elements[idx] = child
	return out, nil
}

// FindPath returns the path of the first element, pre-order, matching match.
func FindPath(tree *Element, match func(*Element) bool) (string, bool) {
	found, ok := "", false
	Walk(tree, func(path string, el *Element) bool {
		if ok {
			return false
		}
		if match(el) {
			found, ok = path, true
			return false
		}
		return true
	})
	return found, ok
}

// NearestGroupScope returns the options scope of the innermost Group that
// encloses path, the element at path included, or the root scope.
func NearestGroupScope(tree *Element, path string) string {
	decorated, ok := ExtendWithPath(tree).Lookup(path)
	if !ok {
		return address.RootScope
	}
	for _, groupPath := range decorated.GroupPaths() {
		group, err := ElementAt(tree, groupPath)
		if err != nil {
			continue
		}
		if scope := group.OptionsScope(); scope != "" {
			return scope
		}
	}
	return address.RootScope
}

func notFound(op, path string) error {
	return editerr.New(op, path, editerr.ErrPathNotFound)
}
