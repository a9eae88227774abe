package settings

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Weeki513/Kiklet/log"
)

// Watch reloads the store whenever the settings file changes on disk, until
// ctx is cancelled. The parent directory is watched rather than the file
// itself because atomic saves replace the file (rename breaks a file watch).
func (st *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(st.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != st.path {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if err := st.Reload(); err != nil {
					log.Warnf("settings reload: %v", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("settings watch: %v", err)
			}
		}
	}()

	return nil
}
