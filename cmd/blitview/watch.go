package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watcher reports changes to a single file. The parent directory is
// watched so files replaced by rename keep being followed.
type watcher struct {
	w       *fsnotify.Watcher
	path    string
	changed chan struct{}
	done    chan struct{}
}

func watchFile(path string, log *slog.Logger) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	w := &watcher{
		w:       fw,
		path:    abs,
		changed: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go w.loop(log)
	return w, nil
}

func (w *watcher) loop(log *slog.Logger) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&fsnotify.Write == fsnotify.Write || ev.Op&fsnotify.Create == fsnotify.Create {
				// Coalesce bursts; one pending reload is enough.
				select {
				case w.changed <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			log.Warn("blitview: watch error", "err", err)
		}
	}
}

// Changed is signaled after the file was written or recreated.
func (w *watcher) Changed() <-chan struct{} { return w.changed }

// Close stops watching and waits for the event loop to exit.
func (w *watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
