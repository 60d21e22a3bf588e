// Package testsupport holds fixture and golden helpers shared by the
// package tests.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
)

// LoadActions reads a JSON action script fixture.
func LoadActions(t *testing.T, path string) []editor.Action {
	t.Helper()

	actions, err := LoadActionsFromPath(path)
	if err != nil {
		t.Fatalf("load actions: %v", err)
	}
	return actions
}

// LoadActionsFromPath returns the actions of a script without requiring
// testing.T, so setup code outside a test can use it.
func LoadActionsFromPath(path string) ([]editor.Action, error) {
	if path == "" {
		return nil, errors.New("testsupport: actions path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read actions: %w", err)
	}
	var out []editor.Action
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal actions: %w", err)
	}
	return out, nil
}

// MustLoadExchange loads an export document fixture.
func MustLoadExchange(t *testing.T, path string) editor.Exchange {
	t.Helper()

	var out editor.Exchange
	if err := json.Unmarshal(MustReadGolden(t, path), &out); err != nil {
		t.Fatalf("unmarshal exchange: %v", err)
	}
	return out
}

// Normalize round-trips value through JSON so typed values compare equal to
// decoded fixtures.
func Normalize(t *testing.T, value any) any {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden decodes the golden file at path and returns a diff against
// the JSON form of got. An empty string means equal.
func CompareGolden(t *testing.T, path string, got any) string {
	t.Helper()

	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden %s: %v", path, err)
	}
	return cmp.Diff(want, Normalize(t, got))
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}
