package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Template layers in the raw dump. These keys group real objects without
// being objects themselves, so the walk recurses through them without
// extending the name chain.
var excludedKeys = map[string]bool{
	"star":           true,
	"actions":        true,
	"subblock_types": true,
}

// Parameters that appear on every object and carry no syntax value.
var noiseParams = map[string]bool{
	"type":     true,
	"active":   true,
	"inactive": true,
}

// Build walks a raw MOOSE `app --json` dump and returns the sorted object
// name list together with the name -> snippet map. Every name in the list
// has a snippet and vice versa.
func Build(raw []byte) ([]string, map[string]string, error) {
	var dump struct {
		Blocks map[string]any `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, nil, fmt.Errorf("raw dump is not valid JSON: %w", err)
	}

	objects := make(map[string]bool)
	syntaxMap := make(map[string]string)
	walk(dump.Blocks, nil, objects, syntaxMap)

	if len(objects) == 0 {
		return nil, nil, fmt.Errorf("no objects discovered, the dump layout may have changed")
	}

	names := make([]string, 0, len(objects))
	for name := range objects {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, syntaxMap, nil
}

// walk is a recursive DFS over the nested block structure. A node holding a
// "parameters" object is a real MOOSE object; its name is the first two
// chain segments joined by "/".
func walk(node any, chain []string, objects map[string]bool, syntaxMap map[string]string) {
	m, ok := node.(map[string]any)
	if !ok {
		return
	}

	for key, sub := range m {
		if excludedKeys[key] {
			walk(sub, chain, objects, syntaxMap)
			continue
		}

		next := append(chain[:len(chain):len(chain)], key)

		if subMap, ok := sub.(map[string]any); ok {
			if params, hasParams := subMap["parameters"]; hasParams && len(next) >= 2 {
				name := strings.Join(next[:2], "/")
				objects[name] = true
				syntaxMap[name] = formatSnippet(next[:2], params)
			}
		}

		walk(sub, next, objects, syntaxMap)
	}
}

// formatSnippet renders the prompt-ready skeleton for one object:
//
//	[Kernels]
//	  type = HeatConduction
//	  variable =
//	[../]
//
// Parameter lines are sorted so rebuilding from the same dump is
// byte-identical regardless of JSON key order.
func formatSnippet(path []string, params any) string {
	category, objName := path[0], path[1]
	lines := []string{fmt.Sprintf("[%s]", category), fmt.Sprintf("  type = %s", objName)}

	if paramMap, ok := params.(map[string]any); ok {
		names := make([]string, 0, len(paramMap))
		for pname := range paramMap {
			if noiseParams[pname] {
				continue
			}
			names = append(names, pname)
		}
		sort.Strings(names)
		for _, pname := range names {
			lines = append(lines, fmt.Sprintf("  %s = ", pname))
		}
	}

	lines = append(lines, "[../]")
	return strings.Join(lines, "\n")
}

// WriteIfChanged writes content to path only when it differs from what is
// already on disk, keeping mtimes stable for CI. Returns true if written.
func WriteIfChanged(path string, content []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && string(existing) == string(content) {
		return false, nil
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// MarshalArtifacts renders the two artifact files in their on-disk form:
// two-space indented JSON, matching what the original builder produced.
func MarshalArtifacts(names []string, syntaxMap map[string]string) (objectsJSON, mapJSON []byte, err error) {
	objectsJSON, err = json.MarshalIndent(names, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal object list: %w", err)
	}
	mapJSON, err = json.MarshalIndent(syntaxMap, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal syntax map: %w", err)
	}
	return objectsJSON, mapJSON, nil
}
