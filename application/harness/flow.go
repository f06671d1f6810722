package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"practice_automation/application/interaction"
	"practice_automation/application/verify"
	"practice_automation/application/wait"
	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/storage"
)

// ErrIllegalTransition is returned when a scenario skips a pipeline stage,
// e.g. acting on an element located before the last verification.
var ErrIllegalTransition = errors.New("illegal stage transition")

// Flow is the pipeline of one scenario over one session. Every navigation,
// wait, gesture and check goes through it so the stage history is recorded.
type Flow struct {
	session   interfaces.Session
	fixtures  *storage.Fixtures
	waiter    *wait.Waiter
	executor  *interaction.Executor
	downloads *verify.Downloads
	opts      Options
	logger    *logrus.Entry
	result    *entities.ScenarioResult
	stage     entities.Stage
}

func newFlow(session interfaces.Session, env *SuiteEnv, result *entities.ScenarioResult, logger *logrus.Entry) *Flow {
	f := &Flow{
		session:   session,
		fixtures:  env.Fixtures,
		waiter:    env.runner.waiter,
		executor:  env.runner.executor,
		downloads: env.runner.downloads,
		opts:      env.runner.opts,
		logger:    logger,
		result:    result,
		stage:     entities.StageInit,
	}
	result.Stages = append(result.Stages, entities.StageInit)
	return f
}

func (f *Flow) Session() interfaces.Session     { return f.session }
func (f *Flow) Fixtures() *storage.Fixtures     { return f.fixtures }
func (f *Flow) Stage() entities.Stage           { return f.stage }
func (f *Flow) Logger() *logrus.Entry           { return f.logger }
func (f *Flow) Waiter() *wait.Waiter            { return f.waiter }
func (f *Flow) Result() entities.ScenarioResult { return *f.result }

func (f *Flow) advance(next entities.Stage) error {
	if !f.stage.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.stage, next)
	}
	if next != f.stage {
		f.result.Stages = append(f.result.Stages, next)
		f.logger.Debugf("Stage %s -> %s", f.stage, next)
	}
	f.stage = next
	return nil
}

// Observe records a line of diagnostic output in the scenario result.
func (f *Flow) Observe(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	f.result.Observed = append(f.result.Observed, line)
	f.logger.Info(line)
}

// Open navigates to page, resolved against the base URL unless absolute.
func (f *Flow) Open(ctx context.Context, page string) error {
	if err := f.advance(entities.StageNavigated); err != nil {
		return err
	}
	url := page
	if !strings.Contains(page, "://") {
		url = strings.TrimRight(f.opts.BaseURL, "/") + "/" + strings.TrimLeft(page, "/")
	}
	f.logger.Infof("Navigating to %s", url)
	if err := f.session.Navigate(ctx, url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Locate waits for cond and returns the element it matched.
func (f *Flow) Locate(ctx context.Context, cond wait.Condition) (interfaces.Element, error) {
	if err := f.advance(entities.StageLocated); err != nil {
		return nil, err
	}
	return f.waiter.Until(ctx, f.session, cond)
}

// LocateAll returns every element matching sel without waiting.
func (f *Flow) LocateAll(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	if err := f.advance(entities.StageLocated); err != nil {
		return nil, err
	}
	return f.session.FindAll(ctx, sel)
}

func (f *Flow) act(fn func() error) error {
	if err := f.advance(entities.StageActed); err != nil {
		return err
	}
	return fn()
}

func (f *Flow) Click(ctx context.Context, el interfaces.Element) error {
	return f.act(func() error { return f.executor.Click(ctx, el) })
}

func (f *Flow) DoubleClick(ctx context.Context, el interfaces.Element) error {
	return f.act(func() error { return f.executor.DoubleClick(ctx, el) })
}

func (f *Flow) ContextClick(ctx context.Context, el interfaces.Element) error {
	return f.act(func() error { return f.executor.ContextClick(ctx, el) })
}

func (f *Flow) TypeText(ctx context.Context, el interfaces.Element, text string) error {
	return f.act(func() error { return f.executor.TypeText(ctx, el, text) })
}

func (f *Flow) SetFileInput(ctx context.Context, el interfaces.Element, path string) error {
	return f.act(func() error { return f.executor.SetFileInput(ctx, el, path) })
}

func (f *Flow) ClearFileInput(ctx context.Context, el interfaces.Element) error {
	return f.act(func() error { return f.executor.ClearFileInput(ctx, f.session, el) })
}

// Pause sleeps for d, giving page scripts that cannot be waited on time to run.
func (f *Flow) Pause(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Check records the outcome of a verification. A nil err moves the
// pipeline to VERIFIED.
func (f *Flow) Check(err error) error {
	if err != nil {
		return err
	}
	return f.advance(entities.StageVerified)
}

// ExpectText waits until the element matching sel contains substr.
func (f *Flow) ExpectText(ctx context.Context, sel entities.Selector, substr string) error {
	el, err := f.Locate(ctx, wait.TextContains(sel, substr))
	if err != nil {
		return err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return err
	}
	f.Observe("%s: %s", sel, text)
	return f.Check(verify.TextContains("text of "+sel.String(), text, substr))
}

// ExpectTitle waits until the page title contains substr.
func (f *Flow) ExpectTitle(ctx context.Context, substr string) error {
	if _, err := f.Locate(ctx, wait.TitleContains(substr)); err != nil {
		return err
	}
	title, err := f.session.Title(ctx)
	if err != nil {
		return err
	}
	f.Observe("Page title: %s", title)
	return f.Check(verify.TextContains("page title", title, substr))
}

// ExpectTitleEquals checks the current title without waiting.
func (f *Flow) ExpectTitleEquals(ctx context.Context, want string) error {
	if err := f.advance(entities.StageLocated); err != nil {
		return err
	}
	title, err := f.session.Title(ctx)
	if err != nil {
		return err
	}
	f.Observe("Page title: %s", title)
	return f.Check(verify.TextEquals("page title", title, want))
}

// ExpectURL waits until the current URL contains substr.
func (f *Flow) ExpectURL(ctx context.Context, substr string) error {
	if _, err := f.Locate(ctx, wait.URLContains(substr)); err != nil {
		return err
	}
	url, err := f.session.CurrentURL(ctx)
	if err != nil {
		return err
	}
	f.Observe("Current URL: %s", url)
	return f.Check(verify.TextContains("current url", url, substr))
}

// Snapshot lists the session's download directory.
func (f *Flow) Snapshot() (entities.DirSnapshot, error) {
	return storage.TakeSnapshot(f.session.DownloadDir())
}

// AwaitDownload waits for exactly one new non-empty file relative to before
// and returns its path.
func (f *Flow) AwaitDownload(ctx context.Context, before entities.DirSnapshot) (string, error) {
	path, err := f.downloads.Await(ctx, f.session.DownloadDir(), before, f.opts.DownloadWait)
	if err != nil {
		return "", err
	}
	if err := verify.FileNonEmpty(path); err != nil {
		return "", err
	}
	f.Observe("Downloaded file: %s", filepath.Base(path))
	return path, f.advance(entities.StageVerified)
}

// Screenshot writes a PNG of the page to the artifacts directory.
func (f *Flow) Screenshot(ctx context.Context, name string) (string, error) {
	data, err := f.session.Screenshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}
	dir := f.opts.ArtifactsDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create artifacts directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	f.result.Screenshots = append(f.result.Screenshots, path)
	f.logger.Infof("Screenshot saved: %s", path)
	return path, nil
}

// fail moves the pipeline to FAILED and leaves a diagnostic screenshot.
func (f *Flow) fail(ctx context.Context, err error) {
	_ = f.advance(entities.StageFailed)
	f.result.ErrorKind = entities.ClassifyError(err)
	f.result.Error = err.Error()

	if f.session == nil {
		return
	}
	name := fmt.Sprintf("%s_%s_failure.png", f.result.Suite, f.result.Name)
	if _, serr := f.Screenshot(ctx, name); serr != nil {
		f.logger.Warnf("Failed to capture failure screenshot: %v", serr)
	}
}

func (f *Flow) close() {
	_ = f.advance(entities.StageClosed)
}
