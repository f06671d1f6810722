package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"practice_automation/domain/entities"
)

// partialSuffixes mark files a browser is still writing.
var partialSuffixes = []string{".part", ".crdownload", ".tmp", ".download"}

// TakeSnapshot - lists the regular files directly inside dir
func TakeSnapshot(dir string) (entities.DirSnapshot, error) {
	snap := entities.DirSnapshot{
		Dir:   dir,
		Taken: time.Now(),
		Files: make(map[string]entities.FileInfo),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return snap, nil
		}
		return snap, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		snap.Files[entry.Name()] = entities.FileInfo{Name: entry.Name(), Size: info.Size()}
	}
	return snap, nil
}

// IsPartialDownload - reports whether name looks like an unfinished download
func IsPartialDownload(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range partialSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// UniquePath - returns dir/name, or dir/base(N).ext when that file already exists
func UniquePath(dir, name string) string {
	name = filepath.Base(name)
	candidate := filepath.Join(dir, name)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s(%d)%s", base, i, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// DirWatcher signals when files in a directory are created or written
type DirWatcher struct {
	watcher *fsnotify.Watcher
	changes chan struct{}
	done    chan struct{}
	logger  *logrus.Logger
}

// WatchDir - starts watching dir; callers must Close the watcher
func WatchDir(dir string, logger *logrus.Logger) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	dw := &DirWatcher{
		watcher: w,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
	go dw.loop()
	return dw, nil
}

// Changes - coalesced notifications, at most one pending at a time
func (d *DirWatcher) Changes() <-chan struct{} {
	return d.changes
}

func (d *DirWatcher) loop() {
	defer close(d.done)
	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			select {
			case d.changes <- struct{}{}:
			default:
			}
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			if d.logger != nil {
				d.logger.Warnf("Directory watcher error: %v", err)
			}
		}
	}
}

// Close - stops watching
func (d *DirWatcher) Close() error {
	err := d.watcher.Close()
	<-d.done
	return err
}
