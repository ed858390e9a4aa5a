package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

// settlePoll is how often the watcher re-checks a growing file's size.
const settlePoll = 2 * time.Second

type implWatcher struct {
	audioDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
}

// Start monitors the audio folder for new session recordings and runs the
// handler for each one. Recordings are handled one at a time: the pipeline
// stages rewrite shared campaign files, so concurrent runs would race on the
// corrections store and the combined document.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Watching %s for new recordings (.wav, .m4a, .flac, .mp3)", w.audioDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isSessionRecording(event.Name) {
				w.logger.Debug(ctx, "Ignoring %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)
			if err := w.waitForSettle(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "Recording %s never settled: %v", event.Name, err)
				continue
			}

			if err := w.handler(ctx, event.Name); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", event.Name, err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// waitForSettle blocks until the file size stops changing between polls.
// Session recordings are copied in over minutes, not milliseconds.
func (w *implWatcher) waitForSettle(ctx context.Context, path string) error {
	lastSize := int64(-1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settlePoll):
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat recording: %w", err)
		}
		if info.Size() == lastSize {
			return nil
		}
		lastSize = info.Size()
	}
}

// isSessionRecording checks for a supported audio extension and skips files
// the pipeline itself produced.
func (w *implWatcher) isSessionRecording(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.Contains(name, "_norm") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range []string{".wav", ".m4a", ".flac", ".mp3"} {
		if ext == supported {
			return true
		}
	}
	return false
}
