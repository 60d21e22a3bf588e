package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/gravio-la/forms-designer-sub000/pkg/editor"
	"github.com/gravio-la/forms-designer-sub000/pkg/uischema"
)

// scriptAction is one entry of an action script. Payload is decoded
// generically so YAML scripts can be re-encoded as JSON envelopes.
type scriptAction struct {
	Type    string `json:"type" yaml:"type"`
	Payload any    `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// parseActions decodes a JSON or YAML action script. A script is either a
// list of actions or a document with an `actions` list.
func parseActions(data []byte, name string) ([]editor.Action, error) {
	var list []scriptAction
	if err := decodeDocument(data, name, &list); err != nil {
		var doc struct {
			Actions []scriptAction `json:"actions"`
		}
		if docErr := decodeDocument(data, name, &doc); docErr != nil {
			return nil, err
		}
		list = doc.Actions
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: no actions", name)
	}

	out := make([]editor.Action, 0, len(list))
	for idx, entry := range list {
		if strings.TrimSpace(entry.Type) == "" {
			return nil, fmt.Errorf("%s: action %d has no type", name, idx)
		}
		action := editor.Action{Type: entry.Type}
		if entry.Payload != nil {
			raw, err := json.Marshal(entry.Payload)
			if err != nil {
				return nil, fmt.Errorf("%s: action %d payload: %w", name, idx, err)
			}
			action.Payload = raw
		}
		out = append(out, action)
	}
	return out, nil
}

// decodeDocument decodes JSON, or YAML when name has a YAML extension. YAML
// is normalised to JSON first so types with custom JSON decoding apply.
func decodeDocument(data []byte, name string, out any) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("%s: decode yaml: %w", name, err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return fmt.Errorf("%s: convert yaml: %w", name, err)
		}
		data = converted
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode json: %w", name, err)
	}
	return nil
}

// loadUISchemaDir reads the UI schema files under dir keyed by file stem. An
// empty dir yields no UI schemas.
func loadUISchemaDir(dir string) (map[string]*uischema.Element, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ui schema dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ui schema dir: %s is not a directory", dir)
	}
	return uischema.LoadFS(os.DirFS(dir))
}

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeJSONFile(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
