// Package syntax serves mini-syntax snippets from the pre-built syntax map.
package syntax

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mcpmoose/internal/catalog"
)

// ErrNoObjects is returned when Render is called with an empty list.
var ErrNoObjects = errors.New("empty object list")

// UnknownObjectsError reports names that have no snippet in the map.
type UnknownObjectsError struct {
	Names []string
}

func (e *UnknownObjectsError) Error() string {
	return fmt.Sprintf("objects not found in syntax map: %s", strings.Join(e.Names, ", "))
}

// Service owns the loaded syntax map and renders snippets from it. Reload
// may swap the map at any time, so reads go through an RWMutex.
type Service struct {
	mu     sync.RWMutex
	path   string
	m      map[string]string
	logger *zap.Logger
}

// NewService loads the syntax map from path. Loading fails on a missing
// file, invalid JSON, or an empty map.
func NewService(path string, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	m, err := catalog.LoadSyntaxMap(path)
	if err != nil {
		return nil, err
	}

	logger.Info("loaded syntax map",
		zap.String("path", path),
		zap.Int("snippets", len(m)))

	return &Service{
		path:   path,
		m:      m,
		logger: logger,
	}, nil
}

// Render returns the concatenated snippets for objects, joined by newlines
// in request order.
//
// Returns ErrNoObjects for an empty list and *UnknownObjectsError when any
// name has no snippet.
func (s *Service) Render(objects []string) (string, error) {
	if len(objects) == 0 {
		return "", ErrNoObjects
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var missing []string
	for _, name := range objects {
		if _, ok := s.m[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &UnknownObjectsError{Names: missing}
	}

	snippets := make([]string, len(objects))
	for i, name := range objects {
		snippets[i] = s.m[name]
	}
	return strings.Join(snippets, "\n"), nil
}

// Len returns the number of snippets currently loaded.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Reload re-reads the map file and swaps it in atomically. On failure the
// previous map stays active.
func (s *Service) Reload() error {
	m, err := catalog.LoadSyntaxMap(s.path)
	if err != nil {
		return fmt.Errorf("reload failed, keeping previous map: %w", err)
	}

	s.mu.Lock()
	s.m = m
	s.mu.Unlock()

	s.logger.Info("reloaded syntax map",
		zap.String("path", s.path),
		zap.Int("snippets", len(m)))
	return nil
}
