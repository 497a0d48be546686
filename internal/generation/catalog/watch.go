package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// Watch reloads the catalog from path whenever the file changes, until ctx
// is done. The directory is watched rather than the file so that editors
// which save by rename are still seen. A file that fails to parse leaves
// the current tools in place. The returned channel is closed when the
// watcher has stopped.
func (c *Catalog) Watch(ctx context.Context, path string) (<-chan struct{}, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	done := make(chan struct{})
	go c.watchLoop(ctx, w, abs, done)
	return done, nil
}

func (c *Catalog) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, done chan struct{}) {
	defer close(done)
	defer w.Close()

	logger := logging.NewLogger(ctx)
	logger.LogInfof("catalog_watch", "watching path=%s", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.LogError("catalog_watch", err)

		case <-pending:
			pending = nil
			if err := c.reload(path); err != nil {
				logger.LogWarnf("catalog_reload", "keeping previous catalog: %v", err)
				continue
			}
			logger.LogInfof("catalog_reload", "reloaded tools=%d", len(c.List()))
		}
	}
}

func (c *Catalog) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tools, err := Parse(data)
	if err != nil {
		return err
	}
	c.Replace(tools)
	return nil
}
