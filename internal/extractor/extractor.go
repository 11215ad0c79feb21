// Package extractor picks the smallest set of MOOSE objects needed to
// satisfy a free-form job description. A cheap prefilter trims the object
// enum before a single enum-constrained LLM tool call, and post-processing
// guarantees the picked set is usable (a mesh generator and an output block
// are always present).
package extractor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Defaults applied when the picked list is missing a required block.
const (
	defaultMeshObject   = "Mesh/GeneratedMeshGenerator"
	defaultOutputObject = "Outputs/CSV"
)

// Picker selects object names for a prompt, constrained to the allowed set.
type Picker interface {
	Pick(ctx context.Context, prompt string, allowed []string) ([]string, error)
}

// Extractor runs the prefilter -> pick -> post-process pipeline.
type Extractor struct {
	picker  Picker
	names   []string
	minKeep int
	logger  *zap.Logger
}

// New creates an Extractor over the full object name list.
func New(picker Picker, names []string, minKeep int, logger *zap.Logger) (*Extractor, error) {
	if picker == nil {
		return nil, fmt.Errorf("picker cannot be nil")
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("object name list is empty")
	}
	if minKeep < 1 {
		return nil, fmt.Errorf("minKeep must be at least 1")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		picker:  picker,
		names:   names,
		minKeep: minKeep,
		logger:  logger,
	}, nil
}

// Extract runs the pipeline and post-processes the picked list: stray names
// outside the allowed set are dropped, and the Mesh/Outputs guarantees are
// applied.
func (e *Extractor) Extract(ctx context.Context, prompt string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt is empty")
	}

	allowed := Prefilter(prompt, e.names, e.minKeep)
	e.logger.Debug("prefiltered object enum",
		zap.Int("total", len(e.names)),
		zap.Int("allowed", len(allowed)))

	picked, err := e.picker.Pick(ctx, prompt, allowed)
	if err != nil {
		return nil, fmt.Errorf("object pick failed: %w", err)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	// Drop strays the model invented despite the enum.
	result := make([]string, 0, len(picked))
	for _, name := range picked {
		if allowedSet[name] {
			result = append(result, name)
		} else {
			e.logger.Warn("dropping object outside allowed set", zap.String("object", name))
		}
	}

	result = ensure("Mesh/", defaultMeshObject, result)
	result = ensure("Outputs/", defaultOutputObject, result)

	return result, nil
}

// ensure appends fallback when no picked name carries the prefix.
func ensure(prefix, fallback string, picked []string) []string {
	for _, name := range picked {
		if strings.HasPrefix(name, prefix) {
			return picked
		}
	}
	return append(picked, fallback)
}
