package library

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/picker"
)

// Watcher adds audio files to the library as they appear in a watched
// directory. Removals on disk do not touch the library; stale entries
// surface as playback failures when selected.
type Watcher struct {
	lib     *Library
	pick    *picker.Picker
	watcher *fsnotify.Watcher
	quit    chan struct{}
}

// NewWatcher starts watching dir and feeding new playable files into lib.
func NewWatcher(lib *Library, pick *picker.Picker, dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		lib:     lib,
		pick:    pick,
		watcher: fw,
		quit:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.quit:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) || !w.pick.Playable(event.Name) {
				continue
			}
			// Already known paths are not re-added.
			if w.lib.IndexOf(event.Name) != core.NoTrack {
				continue
			}
			result := w.pick.Pick([]string{event.Name})
			if added := w.lib.AddTracks(result.Data); added > 0 {
				slog.Debug("added file from watch", "path", event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watch error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.quit)
	return w.watcher.Close()
}
