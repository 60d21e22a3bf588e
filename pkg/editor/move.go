package editor

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// MoveControlPayload moves the element at DraggableMeta.Path relative to the
// element at Child.Path.
type MoveControlPayload struct {
	Child         Child         `json:"child"`
	DraggableMeta DraggableMeta `json:"draggableMeta"`
	PlaceBefore   bool          `json:"placeBefore,omitempty"`
}

// MoveControl relocates a UI element. The schema is untouched: a move only
// changes placement. Dropping an element onto itself or anywhere inside it
// is ErrInvalidMove.
func (s *Session) MoveControl(p MoveControlPayload) (*Session, error) {
	const op = "editor: move"
	source, target := p.DraggableMeta.Path, p.Child.Path
	if source == "" || address.IsDescendantPath(target, source) {
		return nil, editerr.New(op, target, editerr.ErrInvalidMove)
	}
	if _, err := uischema.ElementAt(s.uiSchema, source); err != nil {
		return nil, err
	}
	parentPath, index, err := dropPosition(s.uiSchema, target, p.PlaceBefore)
	if err != nil {
		return nil, err
	}
	return s.moveTo(source, parentPath, index)
}

// moveTo removes the element at source and reinserts it into the layout at
// parentPath, where parentPath and index address the tree before removal.
func (s *Session) moveTo(source, parentPath string, index int) (*Session, error) {
	const op = "editor: move"
	if address.IsDescendantPath(parentPath, source) {
		return nil, editerr.New(op, parentPath, editerr.ErrInvalidMove)
	}
	ui, moved, err := uischema.RemoveAt(s.uiSchema, source)
	if err != nil {
		return nil, err
	}
	parentPath, index = adjustAfterRemoval(source, parentPath, index)
	ui, err = uischema.InsertChild(ui, parentPath, index, moved)
	if err != nil {
		return nil, err
	}

	out := s.clone()
	out.uiSchema = ui
	if path, ok := s.SelectedPath(); ok && address.IsDescendantPath(path, source) {
		out.selected = nil
	}
	return out, nil
}

// adjustAfterRemoval shifts a destination computed before removing source so
// it addresses the same slot afterwards.
func adjustAfterRemoval(source, parentPath string, index int) (string, int) {
	srcIndices, ok := address.PathIndices(source)
	if !ok || len(srcIndices) == 0 {
		return parentPath, index
	}
	dstIndices, ok := address.PathIndices(parentPath)
	if !ok {
		return parentPath, index
	}
	depth := len(srcIndices) - 1
	for i := 0; i < depth; i++ {
		if i >= len(dstIndices) || dstIndices[i] != srcIndices[i] {
			return parentPath, index
		}
	}
	switch {
	case len(dstIndices) == depth:
		// same parent layout
		if index > srcIndices[depth] {
			index--
		}
	case dstIndices[depth] > srcIndices[depth]:
		dstIndices[depth]--
		parentPath = address.IndicesToPath(dstIndices)
	}
	return parentPath, index
}
