package logging

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchConfig watches the config file and re-applies the log level when it
// changes. Only the level is live-reloaded; everything else in the config
// is fixed at startup. Returns a stop function.
func WatchConfig(path string, loadLevel func() (string, error)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: editors replace the file on save, which drops
	// a watch registered on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	target, _ := filepath.Abs(path)

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				abs, _ := filepath.Abs(event.Name)
				if abs != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				name, err := loadLevel()
				if err != nil {
					zap.S().Warnw("config reload failed", "error", err)
					continue
				}
				if err := SetLevel(name); err != nil {
					zap.S().Warnw("invalid log level in config", "level", name, "error", err)
					continue
				}
				zap.S().Infow("log level updated", "level", name)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				zap.S().Warnw("config watcher error", "error", err)
			}
		}
	}()

	return func() { watcher.Close() }, nil
}
