package watcher

import "context"

// Watcher monitors a campaign's audio folder for new session recordings.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is invoked for each new recording detected
type EventHandler func(ctx context.Context, filePath string) error
