package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/snekpodcasts/sessionscribe/internal/logger"
)

// New creates a Watcher over the given audio folder.
func New(audioDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(audioDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		audioDir: audioDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
	}, nil
}
