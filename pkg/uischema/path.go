package uischema

import "github.com/gravio-la/forms-designer-sub000/pkg/address"

// StructureStep is one level of a structure path: the type of the element
// at that level and its index inside the parent. The root has Index -1.
type StructureStep struct {
	Type  Type `json:"type"`
	Index int  `json:"index"`
}

// PathElement mirrors an Element with its dotted path and structure path.
type PathElement struct {
	Element       *Element        `json:"element"`
	Path          string          `json:"path"`
	StructurePath []StructureStep `json:"structurePath"`
	Children      []*PathElement  `json:"children,omitempty"`
}

// ExtendWithPath decorates every element of tree without modifying it.
func ExtendWithPath(tree *Element) *PathElement {
	if tree == nil {
		return nil
	}
	return extend(tree, "", []StructureStep{{Type: tree.Type, Index: -1}})
}

func extend(el *Element, path string, structure []StructureStep) *PathElement {
	out := &PathElement{Element: el, Path: path, StructurePath: structure}
	if !el.IsLayout() {
		return out
	}
	out.Children = make([]*PathElement, 0, len(el.Elements))
	for idx, child := range el.Elements {
		steps := make([]StructureStep, len(structure), len(structure)+1)
		copy(steps, structure)
		steps = append(steps, StructureStep{Type: child.Type, Index: idx})
		out.Children = append(out.Children, extend(child, address.ChildPath(path, idx), steps))
	}
	return out
}

// Lookup returns the decorated element at path.
func (p *PathElement) Lookup(path string) (*PathElement, bool) {
	indices, ok := address.PathIndices(path)
	if !ok || p == nil {
		return nil, false
	}
	current := p
	for _, idx := range indices {
		if idx >= len(current.Children) {
			return nil, false
		}
		current = current.Children[idx]
	}
	return current, true
}

// GroupPaths walks the structure path upwards and returns the paths of the
// Groups at or above p, innermost first.
func (p *PathElement) GroupPaths() []string {
	if p == nil || len(p.StructurePath) == 0 {
		return nil
	}
	indices := make([]int, 0, len(p.StructurePath))
	for _, step := range p.StructurePath[1:] {
		indices = append(indices, step.Index)
	}
	var out []string
	for i := len(p.StructurePath) - 1; i >= 0; i-- {
		if p.StructurePath[i].Type == TypeGroup {
			out = append(out, address.IndicesToPath(indices[:i]))
		}
	}
	return out
}
