package extractor

import "strings"

// coreBlocks are always offered to the model so it has basics to choose
// from even when the prompt matches nothing.
var coreBlocks = []string{
	"Mesh/",
	"Variables/",
	"Kernels/",
	"AuxKernels/",
	"BCs/",
	"Materials/",
	"Outputs/",
	"Postprocessors/",
}

// Prefilter trims the full object list to the names likely relevant to the
// prompt, shrinking the enum (and the model context window). Heuristics:
//
//   - keep any name whose parent block appears in the prompt;
//   - keep any name whose own identifier appears verbatim;
//   - always keep the core blocks;
//   - pad from the head of the full list up to minKeep if the filter was
//     too aggressive.
//
// The result is deduplicated preserving first-seen order.
func Prefilter(prompt string, allObjects []string, minKeep int) []string {
	promptLC := strings.ToLower(prompt)

	var keep []string
	for _, full := range allObjects {
		parent, child, _ := strings.Cut(full, "/")
		if strings.Contains(promptLC, strings.ToLower(parent)) ||
			(child != "" && strings.Contains(promptLC, strings.ToLower(child))) {
			keep = append(keep, full)
		}
	}

	for _, full := range allObjects {
		if hasCorePrefix(full) {
			keep = append(keep, full)
		}
	}

	if len(keep) < minKeep {
		pad := minKeep - len(keep)
		if pad > len(allObjects) {
			pad = len(allObjects)
		}
		keep = append(keep, allObjects[:pad]...)
	}

	seen := make(map[string]bool, len(keep))
	result := make([]string, 0, len(keep))
	for _, name := range keep {
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result
}

func hasCorePrefix(name string) bool {
	for _, prefix := range coreBlocks {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
