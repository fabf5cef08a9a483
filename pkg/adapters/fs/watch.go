package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/persistor/pkg/core"
)

// Watch reports record changes in dir until ctx is cancelled.
// Only files carrying a record extension are reported; temp files written by
// atomic saves are skipped, so a Persist shows up as a single CREATE or
// MODIFY of the final record. The returned channel is closed when watching
// stops.
func Watch(ctx context.Context, dir string, logger *slog.Logger) (<-chan core.RecordEvent, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.RecordEvent)
	w := &recordWatcher{watcher: watcher, events: events, logger: logger}

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		logger.Error("record watcher stopped", "dir", dir, "error", err)
	}))
	return events, nil
}

type recordWatcher struct {
	watcher *fsnotify.Watcher
	events  chan<- core.RecordEvent
	logger  *slog.Logger
}

func (w *recordWatcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer close(w.events)
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			e, ok := toRecordEvent(event)
			if !ok {
				continue
			}
			w.logger.Debug("record event", "type", e.Type, "id", e.ID, "format", e.Format)
			select {
			case w.events <- e:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// toRecordEvent maps a filesystem event onto the record it concerns.
func toRecordEvent(event fsnotify.Event) (core.RecordEvent, bool) {
	name := filepath.Base(event.Name)
	if isTempFile(name) {
		return core.RecordEvent{}, false
	}

	var format, ext string
	switch {
	case strings.HasSuffix(name, BinaryExt):
		format, ext = "binary", BinaryExt
	case strings.HasSuffix(name, TextExt):
		format, ext = "text", TextExt
	default:
		return core.RecordEvent{}, false
	}
	id := strings.TrimSuffix(name, ext)
	if id == "" {
		return core.RecordEvent{}, false
	}

	var t core.EventType
	switch {
	case event.Has(fsnotify.Create):
		t = core.EventCreate
	case event.Has(fsnotify.Write):
		t = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		t = core.EventDelete
	default:
		return core.RecordEvent{}, false
	}

	return core.RecordEvent{
		Type:      t,
		ID:        id,
		Format:    format,
		Timestamp: time.Now().Unix(),
	}, true
}
