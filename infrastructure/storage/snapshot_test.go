package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestTakeSnapshot_ListsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello")
	writeFile(t, dir, "b.bin", "")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	snap, err := TakeSnapshot(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "b.bin"}, snap.Names())
	assert.Equal(t, int64(5), snap.Files["a.txt"].Size)
	assert.Equal(t, dir, snap.Dir)
}

func TestTakeSnapshot_MissingDirIsEmpty(t *testing.T) {
	snap, err := TakeSnapshot(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, snap.Files)
}

func TestSnapshotDiff_IsIdempotentWithoutNewFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "existing.txt", "x")

	before, err := TakeSnapshot(dir)
	require.NoError(t, err)
	writeFile(t, dir, "new.jpeg", "jpeg")

	after, err := TakeSnapshot(dir)
	require.NoError(t, err)
	again, err := TakeSnapshot(dir)
	require.NoError(t, err)

	added := before.Diff(after)
	require.Len(t, added, 1)
	assert.Equal(t, "new.jpeg", added[0].Name)

	assert.Empty(t, after.Diff(again))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "sampleFile.jpeg"), UniquePath(dir, "sampleFile.jpeg"))

	writeFile(t, dir, "sampleFile.jpeg", "a")
	assert.Equal(t, filepath.Join(dir, "sampleFile(1).jpeg"), UniquePath(dir, "sampleFile.jpeg"))

	writeFile(t, dir, "sampleFile(1).jpeg", "b")
	assert.Equal(t, filepath.Join(dir, "sampleFile(2).jpeg"), UniquePath(dir, "../sampleFile.jpeg"))
}

func TestIsPartialDownload(t *testing.T) {
	assert.True(t, IsPartialDownload("sampleFile.jpeg.part"))
	assert.True(t, IsPartialDownload("Unconfirmed 1234.CRDOWNLOAD"))
	assert.False(t, IsPartialDownload("sampleFile.jpeg"))
}

func TestWatchDir_SignalsOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := WatchDir(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, dir, "fresh.txt", "data")

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change notification")
	}
}
