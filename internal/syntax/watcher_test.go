package syntax

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "syntax_map.json")
	require.NoError(t, os.WriteFile(path, []byte(testMap), 0o644))

	svc, err := NewService(path, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 3, svc.Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = svc.Watch(ctx)
	}()

	// Give the watcher time to register before rewriting the file.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`{"BCs/NeumannBC":"[BCs]\n  type = NeumannBC\n[../]"}`), 0o644))

	require.Eventually(t, func() bool {
		return svc.Len() == 1
	}, 5*time.Second, 50*time.Millisecond, "watcher should reload the rewritten map")

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
