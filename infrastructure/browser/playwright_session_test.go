package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice_automation/domain/entities"
)

// gatedDownload saves only once release is closed, like a SaveAs waiting on
// the driver's reply.
type gatedDownload struct {
	playwright.Download
	name    string
	release chan struct{}
}

func (d *gatedDownload) SuggestedFilename() string { return d.name }

func (d *gatedDownload) SaveAs(path string) error {
	<-d.release
	return os.WriteFile(path, []byte("content"), 0644)
}

func newDownloadSession(t *testing.T) (*playwrightSession, string) {
	dir := t.TempDir()
	logger, _ := test.NewNullLogger()
	return &playwrightSession{
		id:     "session-1",
		cfg:    entities.SessionConfig{DownloadDir: dir},
		logger: logger,
	}, dir
}

func TestPlaywrightSession_DownloadHandlerReturnsBeforeSave(t *testing.T) {
	s, dir := newDownloadSession(t)
	d := &gatedDownload{name: "sampleFile.jpeg", release: make(chan struct{})}

	returned := make(chan struct{})
	go func() {
		s.onDownload(d)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("download handler blocked the event loop while saving")
	}

	close(d.release)
	s.stopDownloads()

	assert.FileExists(t, filepath.Join(dir, "sampleFile.jpeg"))
	assert.NoFileExists(t, filepath.Join(dir, "sampleFile.jpeg.part"))
}

func TestPlaywrightSession_DownloadsAfterStopAreIgnored(t *testing.T) {
	s, dir := newDownloadSession(t)
	s.stopDownloads()

	late := &gatedDownload{name: "late.txt", release: make(chan struct{})}
	close(late.release)
	s.onDownload(late)
	s.stopDownloads()

	assert.NoFileExists(t, filepath.Join(dir, "late.txt"))
}

func TestPlaywrightSession_ConcurrentDownloadsGetDistinctNames(t *testing.T) {
	s, dir := newDownloadSession(t)
	release := make(chan struct{})
	for i := 0; i < 3; i++ {
		s.onDownload(&gatedDownload{name: "sampleFile.jpeg", release: release})
	}
	close(release)
	s.stopDownloads()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"sampleFile.jpeg", "sampleFile(1).jpeg", "sampleFile(2).jpeg"}, names)
}
