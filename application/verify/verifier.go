package verify

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"practice_automation/application/wait"
	"practice_automation/domain/entities"
	"practice_automation/infrastructure/storage"
)

const DefaultDownloadTimeout = 15 * time.Second

// TextContains - fails unless observed contains expected
func TextContains(expectation, observed, expected string) error {
	if !strings.Contains(observed, expected) {
		return entities.NewAssertionError(expectation, expected, observed)
	}
	return nil
}

// TextEquals - fails unless observed equals expected after trimming whitespace
func TextEquals(expectation, observed, expected string) error {
	if strings.TrimSpace(observed) != expected {
		return entities.NewAssertionError(expectation, expected, observed)
	}
	return nil
}

// AnyContains - passes when at least one of the observed values contains expected
func AnyContains(expectation, expected string, observed ...string) error {
	for _, o := range observed {
		if strings.Contains(o, expected) {
			return nil
		}
	}
	return entities.NewAssertionError(expectation, expected, strings.Join(observed, " | "))
}

// AtLeast - fails when fewer than want items were observed
func AtLeast(expectation string, observed, want int) error {
	if observed < want {
		return entities.NewAssertionError(expectation, fmt.Sprintf(">= %d", want), fmt.Sprint(observed))
	}
	return nil
}

// FileAppeared returns the path of the single file present in after but not
// in before. Zero or several new files are an assertion failure.
func FileAppeared(before, after entities.DirSnapshot) (string, error) {
	added := before.Diff(after)
	if len(added) != 1 {
		return "", entities.NewAssertionError("exactly one new file in "+after.Dir, "1 new file", describe(added))
	}
	return filepath.Join(after.Dir, added[0].Name), nil
}

// FileNonEmpty - fails unless path is a regular file with content
func FileNonEmpty(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return entities.NewAssertionError("file exists", path, err.Error())
	}
	if !info.Mode().IsRegular() {
		return entities.NewAssertionError("regular file", path, info.Mode().String())
	}
	if info.Size() == 0 {
		return entities.NewAssertionError("non-empty file", "size > 0", "size 0")
	}
	return nil
}

func describe(files []entities.FileInfo) string {
	if len(files) == 0 {
		return "none"
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = fmt.Sprintf("%s (%d bytes)", f.Name, f.Size)
	}
	return strings.Join(names, ", ")
}

// Downloads waits for browser downloads to land in a directory.
type Downloads struct {
	Interval time.Duration
	logger   *logrus.Logger
}

func NewDownloads(interval time.Duration, logger *logrus.Logger) *Downloads {
	if interval <= 0 {
		interval = wait.DefaultInterval
	}
	return &Downloads{Interval: interval, logger: logger}
}

// Await blocks until exactly one new, finished, non-empty file exists in dir
// relative to before, and returns its path. Files still being written are
// ignored until they are renamed or gain content. More than one finished file
// fails immediately.
func (d *Downloads) Await(ctx context.Context, dir string, before entities.DirSnapshot, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}

	var wake <-chan struct{}
	watcher, err := storage.WatchDir(dir, d.logger)
	if err != nil {
		d.debugf("Polling %s without file events: %v", dir, err)
	} else {
		defer watcher.Close()
		wake = watcher.Changes()
	}

	var found string
	err = wait.Poll(ctx, timeout, d.Interval, wake, "download into "+dir, func(ctx context.Context) (bool, string, error) {
		after, err := storage.TakeSnapshot(dir)
		if err != nil {
			return false, "", err
		}
		settled, pending := settle(before, after)
		if len(before.Diff(settled)) == 0 {
			return false, "in progress: " + describe(pending), nil
		}
		found, err = FileAppeared(before, settled)
		return err == nil, "", err
	})
	if err != nil {
		return "", err
	}
	d.debugf("Download finished: %s", found)
	return found, nil
}

// settle drops new files that are still being written from after.
func settle(before, after entities.DirSnapshot) (entities.DirSnapshot, []entities.FileInfo) {
	settled := entities.DirSnapshot{Dir: after.Dir, Taken: after.Taken, Files: make(map[string]entities.FileInfo, len(after.Files))}
	var pending []entities.FileInfo
	for name, f := range after.Files {
		if !before.Has(name) && (storage.IsPartialDownload(name) || f.Size == 0) {
			pending = append(pending, f)
			continue
		}
		settled.Files[name] = f
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].Name < pending[j].Name })
	return settled, pending
}

func (d *Downloads) debugf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Debugf(format, args...)
	}
}
