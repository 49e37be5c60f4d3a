package song

import (
	"context"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the folder path every time a chart in it is
// written, until ctx is done
func Watch(ctx context.Context, dir string, logger *log.Logger, onChange func(dir string)) error {
	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); nil != err {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsChart(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("chart changed", "file", event.Name, "op", event.Op)
			onChange(dir)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "dir", dir, "err", err)
		}
	}
}
