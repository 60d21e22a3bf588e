// Package shell is a prompt-driven editing loop over one session. Every
// menu entry is turned into a regular action envelope and dispatched, so the
// shell exercises exactly the operations the HTTP transport does.
package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gravio-la/forms-designer-sub000/pkg/address"
	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// SaveFunc persists a committed session.
type SaveFunc func(ctx context.Context, session *editor.Session) error

// Shell runs the menu loop.
type Shell struct {
	driver  PromptDriver
	session *editor.Session
	save    SaveFunc
	logger  *slog.Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithSave persists the session after every committed action.
func WithSave(fn SaveFunc) Option {
	return func(s *Shell) {
		s.save = fn
	}
}

// WithLogger injects the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a shell editing session through driver.
func New(driver PromptDriver, session *editor.Session, opts ...Option) *Shell {
	if session == nil {
		session = editor.New()
	}
	s := &Shell{driver: driver, session: session, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Session returns the current session.
func (s *Shell) Session() *editor.Session {
	return s.session
}

const (
	menuShow         = "Show design"
	menuAddField     = "Add field"
	menuAddLayout    = "Add layout"
	menuRename       = "Rename field"
	menuMove         = "Move element"
	menuRemove       = "Remove element"
	menuSwitch       = "Switch definition"
	menuExtractBlock = "Extract building block"
	menuInsertBlock  = "Insert building block"
	menuGC           = "Collect unused schema"
	menuQuit         = "Quit"
)

var menu = []string{
	menuShow, menuAddField, menuAddLayout, menuRename, menuMove, menuRemove,
	menuSwitch, menuExtractBlock, menuInsertBlock, menuGC, menuQuit,
}

var fieldTypes = []string{"string", "number", "integer", "boolean", "object", "array"}

var layoutTypes = []uischema.Type{
	uischema.TypeVerticalLayout, uischema.TypeHorizontalLayout, uischema.TypeGroup,
	uischema.TypeCategorization, uischema.TypeCategory,
}

// Run loops until the user quits or aborts. Rejected actions are reported
// and the loop continues with the previous session.
func (s *Shell) Run(ctx context.Context) error {
	for {
		choice, err := s.driver.Select(ctx, SelectConfig{Message: fmt.Sprintf("[%s] What next?", s.session.ActiveDefinition()), Options: menu})
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice < 0 || choice >= len(menu) || menu[choice] == menuQuit {
			return nil
		}

		action, err := s.build(ctx, menu[choice])
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			if infoErr := s.driver.Info(ctx, "! "+err.Error()); infoErr != nil {
				return infoErr
			}
			continue
		}
		if action == nil {
			continue
		}
		if err := s.apply(ctx, *action); err != nil {
			if infoErr := s.driver.Info(ctx, "! "+err.Error()); infoErr != nil {
				return infoErr
			}
		}
	}
}

func (s *Shell) apply(ctx context.Context, action editor.Action) error {
	next, err := s.session.Dispatch(action)
	if err != nil {
		return err
	}
	if s.save != nil {
		if err := s.save(ctx, next); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	s.logger.Debug("action committed", slog.String("type", action.Type))
	s.session = next
	return nil
}

// build asks the questions of one menu entry. A nil action means nothing to
// dispatch.
func (s *Shell) build(ctx context.Context, entry string) (*editor.Action, error) {
	switch entry {
	case menuShow:
		return nil, s.driver.Info(ctx, Outline(s.session.UISchema()))
	case menuAddField:
		return s.addField(ctx)
	case menuAddLayout:
		return s.addLayout(ctx)
	case menuRename:
		return s.renameField(ctx)
	case menuMove:
		return s.moveElement(ctx)
	case menuRemove:
		return s.removeElement(ctx)
	case menuSwitch:
		return s.switchDefinition(ctx)
	case menuExtractBlock:
		return s.extractBlock(ctx)
	case menuInsertBlock:
		return s.insertBlock(ctx)
	case menuGC:
		return newAction(editor.ActionCollectGarbage, nil)
	default:
		return nil, nil
	}
}

func (s *Shell) addField(ctx context.Context) (*editor.Action, error) {
	name, err := s.driver.Input(ctx, InputConfig{Message: "Field name", Validator: validateFieldName})
	if err != nil {
		return nil, err
	}
	typeIdx, err := s.choose(ctx, SelectConfig{Message: "Type", Options: fieldTypes})
	if err != nil {
		return nil, err
	}
	payload, err := s.dropInto(ctx, "Add to")
	if err != nil {
		return nil, err
	}
	schema := map[string]any{"type": fieldTypes[typeIdx]}
	switch fieldTypes[typeIdx] {
	case "object":
		schema["properties"] = map[string]any{}
	case "array":
		schema["items"] = map[string]any{"type": "string"}
	}
	payload.DraggableMeta = editor.DraggableMeta{Name: strings.TrimSpace(name), JSONSchemaElement: schema}
	return newAction(editor.ActionInsertControl, payload)
}

func (s *Shell) addLayout(ctx context.Context) (*editor.Action, error) {
	names := make([]string, len(layoutTypes))
	for i, t := range layoutTypes {
		names[i] = string(t)
	}
	typeIdx, err := s.choose(ctx, SelectConfig{Message: "Layout type", Options: names})
	if err != nil {
		return nil, err
	}
	label, err := s.driver.Input(ctx, InputConfig{Message: "Label"})
	if err != nil {
		return nil, err
	}
	payload, err := s.dropInto(ctx, "Add to")
	if err != nil {
		return nil, err
	}
	layout := uischema.NewLayout(layoutTypes[typeIdx])
	layout.Label = uischema.SanitizeText(label)
	payload.DraggableMeta = editor.DraggableMeta{UISchema: layout}
	return newAction(editor.ActionInsertControl, payload)
}

func (s *Shell) renameField(ctx context.Context) (*editor.Action, error) {
	path, err := s.pick(ctx, "Field", func(_ string, el *uischema.Element) bool {
		return el.Type == uischema.TypeControl && el.Scope != ""
	})
	if err != nil {
		return nil, err
	}
	el, err := uischema.ElementAt(s.session.UISchema(), path)
	if err != nil {
		return nil, err
	}
	name, err := s.driver.Input(ctx, InputConfig{
		Message:   "New name",
		Default:   address.LastSegment(el.Scope),
		Validator: validateFieldName,
	})
	if err != nil {
		return nil, err
	}
	return newAction(editor.ActionRenameField, editor.RenameFieldPayload{Path: path, NewFieldName: strings.TrimSpace(name)})
}

func (s *Shell) moveElement(ctx context.Context) (*editor.Action, error) {
	source, err := s.pick(ctx, "Element to move", isChild)
	if err != nil {
		return nil, err
	}
	payload, err := s.dropInto(ctx, "Move into")
	if err != nil {
		return nil, err
	}
	return newAction(editor.ActionMoveControl, editor.MoveControlPayload{
		Child:         payload.Child,
		DraggableMeta: editor.DraggableMeta{Path: source},
		PlaceBefore:   payload.PlaceBefore,
	})
}

func (s *Shell) removeElement(ctx context.Context) (*editor.Action, error) {
	path, err := s.pick(ctx, "Element to remove", isChild)
	if err != nil {
		return nil, err
	}
	ok, err := s.driver.Confirm(ctx, ConfirmConfig{Message: "Remove " + path + "?"})
	if err != nil || !ok {
		return nil, err
	}
	return newAction(editor.ActionRemoveFieldOrLayout, editor.RemoveFieldOrLayoutPayload{
		ComponentMeta: editor.ComponentMeta{UISchema: editor.UISchemaRef{Path: path}},
	})
}

const newDefinitionOption = "(new definition)"

func (s *Shell) switchDefinition(ctx context.Context) (*editor.Action, error) {
	names := make([]string, 0, len(s.session.Definitions())+1)
	for name := range s.session.Definitions() {
		names = append(names, name)
	}
	sort.Strings(names)
	names = append(names, newDefinitionOption)

	idx, err := s.choose(ctx, SelectConfig{Message: "Definition", Options: names})
	if err != nil {
		return nil, err
	}
	name := names[idx]
	if name == newDefinitionOption {
		if name, err = s.driver.Input(ctx, InputConfig{Message: "Definition name", Validator: validateFieldName}); err != nil {
			return nil, err
		}
	}
	return newAction(editor.ActionSwitchDefinition, editor.SwitchDefinitionPayload{Definition: strings.TrimSpace(name)})
}

func (s *Shell) extractBlock(ctx context.Context) (*editor.Action, error) {
	path, err := s.pick(ctx, "Group", func(_ string, el *uischema.Element) bool {
		return el.Type == uischema.TypeGroup
	})
	if err != nil {
		return nil, err
	}
	return newAction(editor.ActionAddBuildingBlock, editor.AddBuildingBlockPayload{Path: &path})
}

func (s *Shell) insertBlock(ctx context.Context) (*editor.Action, error) {
	list := s.session.BuildingBlocks()
	if len(list) == 0 {
		return nil, errors.New("no building blocks")
	}
	idx, err := s.choose(ctx, SelectConfig{Message: "Block", Options: list.Names()})
	if err != nil {
		return nil, err
	}
	payload, err := s.dropInto(ctx, "Insert into")
	if err != nil {
		return nil, err
	}
	payload.DraggableMeta = list[idx].Draggable()
	return newAction(editor.ActionInsertControl, payload)
}

// dropInto asks for a layout and returns the drop target that appends to
// it: the layout itself when empty, else its last child.
func (s *Shell) dropInto(ctx context.Context, message string) (editor.InsertControlPayload, error) {
	path, err := s.pick(ctx, message, isLayout)
	if err != nil {
		return editor.InsertControlPayload{}, err
	}
	layout, err := uischema.ElementAt(s.session.UISchema(), path)
	if err != nil {
		return editor.InsertControlPayload{}, err
	}
	if n := len(layout.Elements); n > 0 {
		return editor.InsertControlPayload{Child: editor.Child{Path: address.ChildPath(path, n-1)}}, nil
	}
	return editor.InsertControlPayload{Child: editor.Child{Path: path}}, nil
}

// pick lets the user choose one element matching filter and returns its path.
func (s *Shell) pick(ctx context.Context, message string, filter func(string, *uischema.Element) bool) (string, error) {
	var (
		paths   []string
		options []string
	)
	uischema.Walk(s.session.UISchema(), func(path string, el *uischema.Element) bool {
		if filter(path, el) {
			paths = append(paths, path)
			options = append(options, describe(path, el))
		}
		return true
	})
	if len(paths) == 0 {
		return "", errors.New("nothing to choose from")
	}
	idx, err := s.choose(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	return paths[idx], nil
}

// choose is Select with the answer checked against the options.
func (s *Shell) choose(ctx context.Context, cfg SelectConfig) (int, error) {
	idx, err := s.driver.Select(ctx, cfg)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(cfg.Options) {
		return 0, errors.New("invalid choice")
	}
	return idx, nil
}

func isChild(path string, _ *uischema.Element) bool {
	return path != ""
}

func isLayout(_ string, el *uischema.Element) bool {
	return el.IsLayout()
}

// Outline renders the UI tree one element per line, indented by depth.
func Outline(tree *uischema.Element) string {
	var b strings.Builder
	uischema.Walk(tree, func(path string, el *uischema.Element) bool {
		depth := len(address.PathToSegments(path)) / 2
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(describe(path, el))
		b.WriteString("\n")
		return true
	})
	return strings.TrimRight(b.String(), "\n")
}

func describe(path string, el *uischema.Element) string {
	parts := []string{string(el.Type)}
	if el.Label != "" {
		parts = append(parts, fmt.Sprintf("%q", el.Label))
	}
	if scope := el.BoundScope(); scope != "" {
		parts = append(parts, scope)
	}
	if path == "" {
		path = "root"
	}
	return strings.Join(parts, " ") + " [" + path + "]"
}

func validateFieldName(raw string) error {
	name := strings.TrimSpace(raw)
	if name == "" {
		return errors.New("name is required")
	}
	if strings.ContainsAny(name, "./#") {
		return errors.New("name must not contain '.', '/' or '#'")
	}
	return nil
}

func newAction(actionType string, payload any) (*editor.Action, error) {
	action, err := editor.NewAction(actionType, payload)
	if err != nil {
		return nil, err
	}
	return &action, nil
}
