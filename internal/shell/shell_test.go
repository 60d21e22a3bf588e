package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

type scriptedDriver struct {
	selects  []int
	inputs   []string
	confirms []bool
	infos    []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", ErrAborted
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (d *scriptedDriver) Confirm(context.Context, ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, ErrAborted
	}
	answer := d.confirms[0]
	d.confirms = d.confirms[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, ErrAborted
	}
	answer := d.selects[0]
	d.selects = d.selects[1:]
	if answer >= len(cfg.Options) {
		return 0, errors.New("scripted choice out of range")
	}
	return answer, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func menuIndex(t *testing.T, entry string) int {
	t.Helper()
	for idx, option := range menu {
		if option == entry {
			return idx
		}
	}
	t.Fatalf("menu entry %q not found", entry)
	return -1
}

func TestRunAddsFieldAndSaves(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{menuIndex(t, menuAddField), 0, 0, menuIndex(t, menuQuit)},
		inputs:  []string{"name"},
	}
	saves := 0
	sh := New(driver, editor.New(), WithSave(func(context.Context, *editor.Session) error {
		saves++
		return nil
	}))

	require.NoError(t, sh.Run(context.Background()))

	assert.Equal(t, 1, saves)
	props, ok := sh.Session().JSONSchema()["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, props["name"])
	require.Len(t, sh.Session().UISchema().Elements, 1)
	assert.Equal(t, "#/properties/name", sh.Session().UISchema().Elements[0].Scope)
}

func TestRunAppendsAfterLastChild(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{
			menuIndex(t, menuAddField), 0, 0,
			menuIndex(t, menuAddField), 2, 0,
			menuIndex(t, menuQuit),
		},
		inputs: []string{"first", "second"},
	}
	sh := New(driver, editor.New())

	require.NoError(t, sh.Run(context.Background()))

	elements := sh.Session().UISchema().Elements
	require.Len(t, elements, 2)
	assert.Equal(t, "#/properties/first", elements[0].Scope)
	assert.Equal(t, "#/properties/second", elements[1].Scope)
}

func TestRunReportsRejectedActionAndKeepsSession(t *testing.T) {
	session, err := editor.New().InsertControl(editor.InsertControlPayload{
		DraggableMeta: editor.DraggableMeta{Name: "a", JSONSchemaElement: map[string]any{"type": "string"}},
	})
	require.NoError(t, err)
	session, err = session.InsertControl(editor.InsertControlPayload{
		Child:         editor.Child{Path: "elements.0"},
		DraggableMeta: editor.DraggableMeta{Name: "b", JSONSchemaElement: map[string]any{"type": "number"}},
	})
	require.NoError(t, err)

	driver := &scriptedDriver{
		selects: []int{menuIndex(t, menuRename), 1, menuIndex(t, menuQuit)},
		inputs:  []string{"a"},
	}
	sh := New(driver, session, WithSave(func(context.Context, *editor.Session) error {
		t.Fatal("rejected action must not be saved")
		return nil
	}))

	require.NoError(t, sh.Run(context.Background()))

	require.Len(t, driver.infos, 1)
	assert.Contains(t, driver.infos[0], "!")
	assert.Same(t, session, sh.Session())
}

func TestRunRemovesElementAfterConfirm(t *testing.T) {
	session, err := editor.New().InsertControl(editor.InsertControlPayload{
		DraggableMeta: editor.DraggableMeta{Name: "gone", JSONSchemaElement: map[string]any{"type": "string"}},
	})
	require.NoError(t, err)

	driver := &scriptedDriver{
		selects:  []int{menuIndex(t, menuRemove), 0, menuIndex(t, menuQuit)},
		confirms: []bool{true},
	}
	sh := New(driver, session)

	require.NoError(t, sh.Run(context.Background()))

	assert.Empty(t, sh.Session().UISchema().Elements)
	props := sh.Session().JSONSchema()["properties"].(map[string]any)
	assert.Contains(t, props, "gone")
}

func TestRunSaveFailureKeepsPreviousSession(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{menuIndex(t, menuAddField), 0, 0, menuIndex(t, menuQuit)},
		inputs:  []string{"name"},
	}
	start := editor.New()
	sh := New(driver, start, WithSave(func(context.Context, *editor.Session) error {
		return errors.New("disk full")
	}))

	require.NoError(t, sh.Run(context.Background()))

	assert.Same(t, start, sh.Session())
	require.Len(t, driver.infos, 1)
	assert.Contains(t, driver.infos[0], "disk full")
}

func TestRunSwitchesToNewDefinition(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{menuIndex(t, menuSwitch), 0, menuIndex(t, menuQuit)},
		inputs:  []string{"Address"},
	}
	sh := New(driver, editor.New())

	require.NoError(t, sh.Run(context.Background()))

	assert.Equal(t, "Address", sh.Session().ActiveDefinition())
}

func TestRunInvalidNameIsReported(t *testing.T) {
	driver := &scriptedDriver{
		selects: []int{menuIndex(t, menuAddField), menuIndex(t, menuQuit)},
		inputs:  []string{"a.b"},
	}
	sh := New(driver, editor.New())

	require.NoError(t, sh.Run(context.Background()))

	require.Len(t, driver.infos, 1)
	assert.Contains(t, driver.infos[0], "must not contain")
}

func TestRunAbortEndsCleanly(t *testing.T) {
	sh := New(&scriptedDriver{}, editor.New())
	assert.NoError(t, sh.Run(context.Background()))
}

func TestOutline(t *testing.T) {
	tree := uischema.NewLayout(uischema.TypeVerticalLayout,
		&uischema.Element{Type: uischema.TypeGroup, Label: "Person", Elements: []*uischema.Element{
			uischema.NewControl("#/properties/name"),
		}},
	)

	want := "VerticalLayout [root]\n" +
		"  Group \"Person\" [elements.0]\n" +
		"    Control #/properties/name [elements.0.elements.0]"
	assert.Equal(t, want, Outline(tree))
}
