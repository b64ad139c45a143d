package thumb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// imageExts are the source extensions the invalidation watcher reacts to.
var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
}

// Watcher invalidates cached thumbnails when their source images change on
// disk.
type Watcher struct {
	cache   *Cache
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// WatchFolders starts watching the given folders for image changes.
func WatchFolders(cache *Cache, folders ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating thumbnail watcher: %w", err)
	}
	for _, folder := range folders {
		if err := fw.Add(folder); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watching %s: %w", folder, err)
		}
	}

	w := &Watcher{
		cache:   cache,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Add watches an additional folder.
func (w *Watcher) Add(folder string) error {
	return w.watcher.Add(folder)
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Remove|fsnotify.Rename|fsnotify.Create) == 0 {
				continue
			}
			if !imageExts[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err == nil {
				w.cache.Invalidate(abs)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
