package watch_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/KyleBlankRollins/blueprint-sub003/internal/watch"
)

func tempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestWatcherDebouncesBursts(t *testing.T) {
	themePath := tempFile(t, "theme.yaml", "name: a")

	w, err := watch.New(watch.Config{Paths: []string{themePath}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(themePath, []byte(fmt.Sprintf("name: v%d", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-changes:
		t.Fatal("unexpected second notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	themePath := tempFile(t, "theme.yaml", "name: a")
	other := filepath.Join(filepath.Dir(themePath), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))

	w, err := watch.New(watch.Config{Paths: []string{themePath}, Debounce: 50 * time.Millisecond})
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case <-changes:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherSeesPluginInAnotherDirectory(t *testing.T) {
	themePath := tempFile(t, "theme.yaml", "name: a")
	pluginPath := tempFile(t, "brand.yaml", "id: brand")

	w, err := watch.New(watch.DefaultConfig(themePath, pluginPath))
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(pluginPath, []byte("id: brand2"), 0o644))

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification for the plugin file")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	themePath := tempFile(t, "theme.yaml", "name: a")

	w, err := watch.New(watch.Config{Paths: []string{themePath}, Debounce: 20 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func() error {
			runs.Add(1)
			return nil
		}, nil)
	}()

	require.Eventually(t, func() bool {
		_ = os.WriteFile(themePath, []byte("name: b"), 0o644)
		return runs.Load() > 0
	}, 3*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStartFailureReleasesWatcher(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone", "theme.yaml")

	w, err := watch.New(watch.DefaultConfig(missing))
	require.NoError(t, err)

	_, err = w.Start()
	require.Error(t, err)

	_, err = w.Start()
	require.ErrorIs(t, err, fsnotify.ErrClosed)

	require.NoError(t, w.Stop())
	require.ErrorIs(t, w.Run(context.Background(), func() error { return nil }, nil), fsnotify.ErrClosed)
}

func TestNewRequiresPaths(t *testing.T) {
	_, err := watch.New(watch.Config{})
	require.Error(t, err)
}
