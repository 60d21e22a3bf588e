package editor

import (
	"github.com/gravio-la/forms-designer-sub000/pkg/blocks"
	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// AddBuildingBlockPayload extracts a block from a dropped Group. The Group
// is taken from UISchema, or from the active tree at Path when UISchema is
// nil.
type AddBuildingBlockPayload struct {
	UISchema     *uischema.Element `json:"uiSchema,omitempty"`
	Path         *string           `json:"path,omitempty"`
	ToolIconName string            `json:"toolIconName,omitempty"`
}

// AddBuildingBlock appends a block extracted from a Group to the toolbox.
func (s *Session) AddBuildingBlock(p AddBuildingBlockPayload) (*Session, error) {
	const op = "editor: add block"
	group := p.UISchema
	if group == nil {
		if p.Path == nil {
			return nil, editerr.New(op, "", editerr.ErrPathNotFound)
		}
		el, err := uischema.ElementAt(s.uiSchema, *p.Path)
		if err != nil {
			return nil, err
		}
		group = el
	}
	if !group.IsLayout() {
		return nil, editerr.New(op, string(group.Type), editerr.ErrPathNotFound)
	}

	icon := p.ToolIconName
	if icon == "" {
		icon = s.defaultIcon
	}
	block, err := blocks.Extract(group, s.schema, s.blocks.Names(), blocks.Options{
		ToolIconName: icon,
		RefRoot:      s.RootJSONSchema(),
		Definitions:  s.allDefinitions(),
	})
	if err != nil {
		return nil, err
	}
	out := s.clone()
	out.blocks = s.blocks.Add(block)
	return out, nil
}

// RemoveBuildingBlockPayload removes the block at Index.
type RemoveBuildingBlockPayload struct {
	Index int `json:"index"`
}

// RemoveBuildingBlock drops a block from the toolbox.
func (s *Session) RemoveBuildingBlock(p RemoveBuildingBlockPayload) (*Session, error) {
	list, err := s.blocks.Remove(p.Index)
	if err != nil {
		return nil, err
	}
	out := s.clone()
	out.blocks = list
	return out, nil
}
