package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
)

// Action type strings accepted by Dispatch.
const (
	ActionInsertControl          = "insertControl"
	ActionMoveControl            = "moveControl"
	ActionRenameField            = "renameField"
	ActionRemoveFieldOrLayout    = "removeFieldOrLayout"
	ActionSwitchDefinition       = "switchDefinition"
	ActionAddSchemaDefinition    = "addSchemaDefinition"
	ActionRenameSchemaDefinition = "renameSchemaDefinition"
	ActionRemoveSchemaDefinition = "removeSchemaDefinition"
	ActionSelectPath             = "selectPath"
	ActionCollectGarbage         = "collectGarbage"
	ActionAddBuildingBlock       = "addBuildingBlock"
	ActionRemoveBuildingBlock    = "removeBuildingBlock"
	ActionAIAddField             = "aiAddField"
	ActionAIAddLayout            = "aiAddLayout"
	ActionAIRemoveElement        = "aiRemoveElement"
	ActionAIUpdateField          = "aiUpdateField"
	ActionAIRenameField          = "aiRenameField"
	ActionAIMoveElement          = "aiMoveElement"
	ActionAIUpdateLayout         = "aiUpdateLayout"
)

// Action is the JSON envelope of an editing intent.
type Action struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewAction encodes payload into an envelope.
func NewAction(actionType string, payload any) (Action, error) {
	if payload == nil {
		return Action{Type: actionType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Action{}, fmt.Errorf("editor: encode %s payload: %w", actionType, err)
	}
	return Action{Type: actionType, Payload: raw}, nil
}

type handler func(*Session, json.RawMessage) (*Session, error)

// typed adapts an operation taking payload P to a handler.
func typed[P any](fn func(*Session, P) (*Session, error)) handler {
	return func(s *Session, raw json.RawMessage) (*Session, error) {
		var payload P
		if len(bytes.TrimSpace(raw)) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return nil, &DecodeError{Err: err}
			}
		}
		return fn(s, payload)
	}
}

var handlers = map[string]handler{
	ActionInsertControl:          typed((*Session).InsertControl),
	ActionMoveControl:            typed((*Session).MoveControl),
	ActionRenameField:            typed((*Session).RenameField),
	ActionRemoveFieldOrLayout:    typed((*Session).RemoveFieldOrLayout),
	ActionAddSchemaDefinition:    typed((*Session).AddSchemaDefinition),
	ActionRenameSchemaDefinition: typed((*Session).RenameSchemaDefinition),
	ActionRemoveSchemaDefinition: typed((*Session).RemoveSchemaDefinition),
	ActionSelectPath:             typed((*Session).SelectPath),
	ActionAddBuildingBlock:       typed((*Session).AddBuildingBlock),
	ActionRemoveBuildingBlock:    typed((*Session).RemoveBuildingBlock),
	ActionAIAddField:             typed((*Session).AIAddField),
	ActionAIAddLayout:            typed((*Session).AIAddLayout),
	ActionAIRemoveElement:        typed((*Session).AIRemoveElement),
	ActionAIUpdateField:          typed((*Session).AIUpdateField),
	ActionAIRenameField:          typed((*Session).AIRenameField),
	ActionAIMoveElement:          typed((*Session).AIMoveElement),
	ActionAIUpdateLayout:         typed((*Session).AIUpdateLayout),
	ActionSwitchDefinition: typed(func(s *Session, p SwitchDefinitionPayload) (*Session, error) {
		return s.SwitchDefinition(p.Definition)
	}),
	ActionCollectGarbage: func(s *Session, _ json.RawMessage) (*Session, error) {
		return s.CollectGarbage()
	},
}

// DecodeError reports an action payload that does not decode.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("editor: decode payload: %v", e.Err)
	}
	return fmt.Sprintf("editor: decode %s payload: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ActionTypes lists every type Dispatch accepts.
func ActionTypes() []string {
	return []string{
		ActionInsertControl, ActionMoveControl, ActionRenameField,
		ActionRemoveFieldOrLayout, ActionSwitchDefinition, ActionAddSchemaDefinition,
		ActionRenameSchemaDefinition, ActionRemoveSchemaDefinition, ActionSelectPath,
		ActionCollectGarbage, ActionAddBuildingBlock, ActionRemoveBuildingBlock,
		ActionAIAddField, ActionAIAddLayout, ActionAIRemoveElement,
		ActionAIUpdateField, ActionAIRenameField, ActionAIMoveElement,
		ActionAIUpdateLayout,
	}
}

// Dispatch decodes the action payload and applies the matching operation.
func (s *Session) Dispatch(action Action) (*Session, error) {
	h, ok := handlers[action.Type]
	if !ok {
		return nil, editerr.New("editor: dispatch", action.Type, editerr.ErrUnknownAction)
	}
	next, err := h(s, action.Payload)
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		decodeErr.Type = action.Type
	}
	return next, err
}

// Apply dispatches actions in order and stops at the first failure, which
// is reported with its index.
func (s *Session) Apply(actions ...Action) (*Session, error) {
	current := s
	for idx, action := range actions {
		next, err := current.Dispatch(action)
		if err != nil {
			return nil, fmt.Errorf("editor: action %d (%s): %w", idx, action.Type, err)
		}
		current = next
	}
	return current, nil
}
