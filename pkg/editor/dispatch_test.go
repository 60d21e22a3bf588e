package editor_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gravio-la/forms-designer-sub000/pkg/editerr"
	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

func TestDispatch_RoutesEnvelope(t *testing.T) {
	action, err := editor.NewAction(editor.ActionInsertControl, editor.InsertControlPayload{DraggableMeta: stringField("city")})
	if err != nil {
		t.Fatalf("new action: %v", err)
	}
	s := must(t)(editor.New().Dispatch(action))
	if got := scopesOf(s); len(got) != 1 || got[0] != "#/properties/city" {
		t.Fatalf("unexpected scopes %v", got)
	}
}

func TestDispatch_Errors(t *testing.T) {
	s := editor.New()

	if _, err := s.Dispatch(editor.Action{Type: "explode"}); !errors.Is(err, editerr.ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}

	_, err := s.Dispatch(editor.Action{Type: editor.ActionRenameField, Payload: json.RawMessage(`{"path": 3}`)})
	var decodeErr *editor.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if decodeErr.Type != editor.ActionRenameField {
		t.Fatalf("decode error lost the action type: %q", decodeErr.Type)
	}
}

func TestDispatch_EmptyPayloads(t *testing.T) {
	s := insertRoot(t, editor.New(), stringField("a"))
	for _, payload := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(` `)} {
		if _, err := s.Dispatch(editor.Action{Type: editor.ActionCollectGarbage, Payload: payload}); err != nil {
			t.Fatalf("collectGarbage with payload %q: %v", payload, err)
		}
	}
}

func TestActionTypes_AllRouted(t *testing.T) {
	s := editor.New()
	for _, actionType := range editor.ActionTypes() {
		_, err := s.Dispatch(editor.Action{Type: actionType, Payload: json.RawMessage(`{}`)})
		if errors.Is(err, editerr.ErrUnknownAction) {
			t.Fatalf("%s is listed but not routed", actionType)
		}
	}
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	good, _ := editor.NewAction(editor.ActionInsertControl, editor.InsertControlPayload{DraggableMeta: stringField("a")})
	bad, _ := editor.NewAction(editor.ActionRenameField, editor.RenameFieldPayload{Path: "elements.9", NewFieldName: "b"})

	start := editor.New()
	next, err := start.Apply(good, bad, good)
	if next != nil {
		t.Fatalf("a failed script must not return a session")
	}
	if !errors.Is(err, editerr.ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "action 1") {
		t.Fatalf("error should name the failing index: %v", err)
	}
	if len(start.UISchema().Elements) != 0 {
		t.Fatalf("the starting session was modified")
	}
}
