package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks fsys and parses every JSON/YAML UI schema document, keyed by
// file stem (`forms/person.yaml` → `person`). A nil filesystem yields an
// empty map; two files sharing a stem are an error.
func LoadFS(fsys fs.FS) (map[string]*Element, error) {
	out := make(map[string]*Element)
	if fsys == nil {
		return out, nil
	}
	sources := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(file string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(file) {
			return nil
		}

		name := strings.TrimSuffix(path.Base(file), path.Ext(file))
		if name == "" {
			return fmt.Errorf("uischema: file %s has an empty name", file)
		}
		if prev, exists := sources[name]; exists {
			return fmt.Errorf("uischema: duplicate schema %q (files %s and %s)", name, prev, file)
		}

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", file, err)
		}
		el, err := ParseDocument(data, file)
		if err != nil {
			return err
		}
		sources[name] = file
		out[name] = el
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseDocument decodes a JSON or YAML UI schema document. source only
// labels errors.
func ParseDocument(data []byte, source string) (*Element, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("uischema: file %s is empty", source)
	}

	var el Element
	jsonErr := json.Unmarshal(data, &el)
	if jsonErr == nil {
		return &el, nil
	}
	if json.Valid(data) {
		return nil, fmt.Errorf("uischema: parse %s: %w", source, jsonErr)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
	}
	// Round-trip through JSON so YAML documents get the same validation.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	if err := json.Unmarshal(raw, &el); err != nil {
		return nil, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return &el, nil
}

func isSchemaFile(file string) bool {
	switch strings.ToLower(path.Ext(file)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
