// Package catalog loads and builds the artifact files that power mcpmoose:
// objects.json, the flat sorted list of MOOSE object names in Block/Object
// form, and syntax_map.json, the name -> mini-syntax snippet map.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadObjectNames reads objects.json and returns the object name list.
func LoadObjectNames(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read object list %s: %w", path, err)
	}

	var names []string
	if err := json.Unmarshal(content, &names); err != nil {
		return nil, fmt.Errorf("object list %s is not valid JSON: %w", path, err)
	}
	return names, nil
}

// LoadSyntaxMap reads syntax_map.json. An empty map is an error: it means
// the artifacts were never built, and every lookup would fail.
func LoadSyntaxMap(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("syntax map %s not found, run make-objects first: %w", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("syntax map %s is not valid JSON: %w", path, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("syntax map %s is empty", path)
	}
	return m, nil
}
