package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

func TestLoadSessionWithoutSnapshot(t *testing.T) {
	st, err := New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	session, err := st.LoadSession(context.Background(), editor.WithDefinitionsKey("$defs"))
	require.NoError(t, err)
	assert.Equal(t, "Root", session.ActiveDefinition())
	assert.Equal(t, "$defs", session.DefinitionsKey())
}

func TestSaveAndLoadSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	st, err := New(path)
	require.NoError(t, err)

	session, err := editor.New().InsertControl(editor.InsertControlPayload{
		DraggableMeta: editor.DraggableMeta{
			Name:              "textField",
			JSONSchemaElement: map[string]any{"type": "string"},
		},
	})
	require.NoError(t, err)
	session, err = session.AddSchemaDefinition(editor.AddSchemaDefinitionPayload{Name: "Address"})
	require.NoError(t, err)
	require.NoError(t, st.SaveSession(context.Background(), session))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	restored, err := st.LoadSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"#/properties/textField"}, uischema.CollectScopes(restored.UISchema()))
	assert.Contains(t, restored.Definitions(), "Address")
	assert.Equal(t, map[string]any{"type": "string"}, restored.JSONSchema()["properties"].(map[string]any)["textField"])
}

func TestLoadRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	st, err := New(path)
	require.NoError(t, err)

	_, err = st.LoadSession(context.Background())
	assert.Error(t, err)
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
