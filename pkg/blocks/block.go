// Package blocks turns a concrete Group subtree into a reusable building
// block: a minimal schema fragment, a unique name and a UI fragment whose
// scopes are rebased onto `#/properties/<name>` so the block can be dropped
// anywhere through the regular insertion path.
package blocks

import (
	"fmt"
	"strconv"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/jsonschema"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// Block is an extracted, named schema and UI fragment.
type Block struct {
	Name              string                    `json:"name"`
	JSONSchemaElement map[string]any            `json:"jsonSchemaElement"`
	UISchema          *uischema.Element         `json:"uiSchema"`
	ToolIconName      string                    `json:"ToolIconName,omitempty"`
	Definitions       map[string]map[string]any `json:"definitions,omitempty"`
}

// Draggable is the payload a toolbox item or an existing element carries into
// an insert or move. Path is only set for moves.
type Draggable struct {
	Name              string                    `json:"name,omitempty"`
	JSONSchemaElement map[string]any            `json:"jsonSchemaElement,omitempty"`
	UISchema          *uischema.Element         `json:"uiSchema,omitempty"`
	Definitions       map[string]map[string]any `json:"definitions,omitempty"`
	Path              string                    `json:"path,omitempty"`
}

// Draggable returns the insertion payload for the block. The returned value
// shares no maps with the block.
func (b Block) Draggable() Draggable {
	return Draggable{
		Name:              b.Name,
		JSONSchemaElement: jsonschema.CloneSchema(b.JSONSchemaElement),
		UISchema:          b.UISchema.Clone(),
		Definitions:       cloneDefinitions(b.Definitions),
	}
}

// List is the ordered block toolbox. Methods return new lists.
type List []Block

// Add appends b.
func (l List) Add(b Block) List {
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, b)
}

// Remove drops the block at index.
func (l List) Remove(index int) (List, error) {
	if index < 0 || index >= len(l) {
		return nil, editerr.New("blocks: remove", strconv.Itoa(index), editerr.ErrPathNotFound)
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:index]...)
	return append(out, l[index+1:]...), nil
}

// Names lists the block names in order.
func (l List) Names() []string {
	out := make([]string, len(l))
	for i, b := range l {
		out[i] = b.Name
	}
	return out
}

// UniqueName returns base, or base with the first free `_N` suffix, so that
// taken(name) is false.
func UniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", base, i)
		if !taken(candidate) {
			return candidate
		}
	}
}

func cloneDefinitions(defs map[string]map[string]any) map[string]map[string]any {
	if defs == nil {
		return nil
	}
	out := make(map[string]map[string]any, len(defs))
	for name, def := range defs {
		out[name] = jsonschema.CloneSchema(def)
	}
	return out
}
