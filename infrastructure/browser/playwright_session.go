package browser

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/storage"
)

const (
	playwrightActionTimeout     = 10000
	playwrightNavigationTimeout = 30000
)

// attributeScript mirrors WebDriver's getAttribute: the live property when it
// is a scalar, otherwise the markup attribute.
const attributeScript = `(el, name) => {
	const prop = el[name];
	if (typeof prop === 'boolean') return prop ? 'true' : null;
	if (prop !== undefined && prop !== null && typeof prop !== 'object' && typeof prop !== 'function') return String(prop);
	return el.getAttribute(name);
}`

type playwrightLauncher struct {
	logger *logrus.Logger
}

// NewPlaywrightLauncher - creates a launcher backed by playwright-go
func NewPlaywrightLauncher(logger *logrus.Logger) interfaces.Launcher {
	return &playwrightLauncher{logger: logger}
}

// Open - starts playwright, launches the browser and opens a page
func (l *playwrightLauncher) Open(ctx context.Context, cfg entities.SessionConfig) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, entities.NewEnvironmentError("playwright", err)
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, entities.NewEnvironmentError("playwright", fmt.Errorf("failed to start playwright: %w", err))
	}

	browserType := pw.Firefox
	if cfg.Browser == entities.BrowserChromium {
		browserType = pw.Chromium
	}

	browser, err := browserType.Launch(playwrightLaunchOptions(cfg))
	if err != nil {
		pw.Stop()
		return nil, entities.NewEnvironmentError("playwright", fmt.Errorf("failed to launch %s: %w", cfg.Browser, err))
	}

	browserContext, err := browser.NewContext(playwrightContextOptions(cfg))
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, entities.NewEnvironmentError("playwright", fmt.Errorf("failed to create context: %w", err))
	}
	browserContext.SetDefaultTimeout(playwrightActionTimeout)
	browserContext.SetDefaultNavigationTimeout(playwrightNavigationTimeout)

	page, err := browserContext.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, entities.NewEnvironmentError("playwright", fmt.Errorf("failed to create page: %w", err))
	}

	s := &playwrightSession{
		id:      uuid.New().String(),
		cfg:     cfg,
		logger:  l.logger,
		pw:      pw,
		browser: browser,
		context: browserContext,
		page:    page,
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})
	if cfg.DownloadDir != "" {
		page.OnDownload(s.onDownload)
	}

	s.log().Infof("Playwright %s session started (headless=%t)", cfg.Browser, cfg.Headless)
	return s, nil
}

// playwrightLaunchOptions - browser launch options for cfg
func playwrightLaunchOptions(cfg entities.SessionConfig) playwright.BrowserTypeLaunchOptions {
	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}
	if cfg.BrowserBinary != "" {
		opts.ExecutablePath = playwright.String(cfg.BrowserBinary)
	}

	switch cfg.Browser {
	case entities.BrowserChromium:
		opts.Args = []string{"--disable-popup-blocking", "--disable-dev-shm-usage"}
		if cfg.Window.Mode != entities.WindowFixed {
			opts.Args = append(opts.Args, "--start-maximized")
		}
	default:
		opts.FirefoxUserPrefs = firefoxDownloadPrefs(cfg)
	}
	return opts
}

// playwrightContextOptions - context options for cfg; downloads are always accepted
func playwrightContextOptions(cfg entities.SessionConfig) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		AcceptDownloads: playwright.Bool(true),
	}
	if cfg.Window.Mode == entities.WindowFixed {
		w, h := cfg.WindowSize()
		opts.Viewport = &playwright.Size{Width: w, Height: h}
	} else {
		opts.NoViewport = playwright.Bool(true)
	}
	return opts
}

type playwrightSession struct {
	id     string
	cfg    entities.SessionConfig
	logger *logrus.Logger

	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page

	// trackMu orders downloads.Add against the Wait in Close
	trackMu    sync.Mutex
	downloads  sync.WaitGroup
	downloadMu sync.Mutex

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *playwrightSession) log() *logrus.Entry {
	logger := s.logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithField("session", s.id)
}

func (s *playwrightSession) live(ctx context.Context) error {
	if s.closed.Load() {
		return entities.ErrSessionClosed
	}
	return ctx.Err()
}

// onDownload - runs on the playwright event loop, which must stay free to
// deliver the SaveAs reply, so the save happens on its own goroutine
func (s *playwrightSession) onDownload(download playwright.Download) {
	s.trackMu.Lock()
	defer s.trackMu.Unlock()
	if s.closed.Load() {
		s.log().Warnf("Ignoring download %s: session closing", download.SuggestedFilename())
		return
	}
	s.downloads.Add(1)
	go s.saveDownload(download)
}

// stopDownloads - refuses new downloads and waits for the pending ones
func (s *playwrightSession) stopDownloads() {
	s.trackMu.Lock()
	s.closed.Store(true)
	s.trackMu.Unlock()
	s.downloads.Wait()
}

// saveDownload - saves a finished download under a free name in the download dir
func (s *playwrightSession) saveDownload(download playwright.Download) {
	defer s.downloads.Done()

	s.downloadMu.Lock()
	defer s.downloadMu.Unlock()

	target := storage.UniquePath(s.cfg.DownloadDir, download.SuggestedFilename())
	partial := target + ".part"
	if err := download.SaveAs(partial); err != nil {
		s.log().Warnf("Failed to save download %s: %v", download.SuggestedFilename(), err)
		return
	}
	if err := os.Rename(partial, target); err != nil {
		s.log().Warnf("Failed to move download into place: %v", err)
		return
	}
	s.log().Infof("Download saved: %s", target)
}

func (s *playwrightSession) ID() string { return s.id }

func (s *playwrightSession) DownloadDir() string { return s.cfg.DownloadDir }

// Navigate - navigates to the specified URL
func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if err := s.live(ctx); err != nil {
		return err
	}
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	})
	return err
}

func (s *playwrightSession) Title(ctx context.Context) (string, error) {
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return s.page.Title()
}

func (s *playwrightSession) CurrentURL(ctx context.Context) (string, error) {
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return s.page.URL(), nil
}

// playwrightSelector - translates a selector into a playwright selector engine query
func playwrightSelector(sel entities.Selector) (string, error) {
	if css, ok := sel.CSSQuery(); ok {
		return "css=" + css, nil
	}
	if sel.By == entities.ByXPath {
		return "xpath=" + sel.Value, nil
	}
	return "", fmt.Errorf("unsupported selector strategy %q", sel.By)
}

func (s *playwrightSession) locate(ctx context.Context, sel entities.Selector) (playwright.Locator, int, error) {
	if err := s.live(ctx); err != nil {
		return nil, 0, err
	}
	query, err := playwrightSelector(sel)
	if err != nil {
		return nil, 0, err
	}
	locator := s.page.Locator(query)
	count, err := locator.Count()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s: %w", sel, err)
	}
	return locator, count, nil
}

func (s *playwrightSession) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	locator, count, err := s.locate(ctx, sel)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, sel)
	}
	return &playwrightElement{session: s, locator: locator.First(), selector: sel}, nil
}

func (s *playwrightSession) FindAll(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	locator, count, err := s.locate(ctx, sel)
	if err != nil {
		return nil, err
	}
	elements := make([]interfaces.Element, 0, count)
	for i := 0; i < count; i++ {
		elements = append(elements, &playwrightElement{session: s, locator: locator.Nth(i), selector: sel})
	}
	return elements, nil
}

func (s *playwrightSession) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	return s.page.Evaluate(functionBody(script))
}

// Screenshot - takes a screenshot of the current page
func (s *playwrightSession) Screenshot(ctx context.Context) ([]byte, error) {
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	return s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
}

// Close - waits for pending downloads, then closes the context, the browser and playwright
func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		s.stopDownloads()

		var errs []string
		if err := s.context.Close(); err != nil && !isClosedError(err) {
			errs = append(errs, fmt.Sprintf("failed to close context: %v", err))
		}
		if err := s.browser.Close(); err != nil && !isClosedError(err) {
			errs = append(errs, fmt.Sprintf("failed to close browser: %v", err))
		}
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to stop playwright: %v", err))
		}
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		s.log().Info("Playwright session closed")
	})
	return s.closeErr
}

type playwrightElement struct {
	session  *playwrightSession
	locator  playwright.Locator
	selector entities.Selector
}

func (e *playwrightElement) Selector() entities.Selector { return e.selector }

// Text - rendered text; hidden elements have none
func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	if err := e.session.live(ctx); err != nil {
		return "", err
	}
	visible, err := e.locator.IsVisible()
	if err != nil || !visible {
		return "", err
	}
	text, err := e.locator.InnerText()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.session.live(ctx); err != nil {
		return "", err
	}
	value, err := e.locator.Evaluate(attributeScript, name)
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprint(value), nil
}

func (e *playwrightElement) State(ctx context.Context) (entities.ElementState, error) {
	state := entities.ElementState{Selector: e.selector}
	if err := e.session.live(ctx); err != nil {
		return state, err
	}

	tag, err := e.locator.Evaluate("el => el.tagName.toLowerCase()", nil)
	if err != nil {
		return state, err
	}
	state.TagName, _ = tag.(string)

	if state.IsVisible, err = e.locator.IsVisible(); err != nil {
		return state, err
	}
	if state.IsEnabled, err = e.locator.IsEnabled(); err != nil {
		return state, err
	}
	if state.IsVisible {
		if text, err := e.locator.InnerText(); err == nil {
			state.Text = strings.TrimSpace(text)
		}
	}
	return state, nil
}

func (e *playwrightElement) IsSelected(ctx context.Context) (bool, error) {
	if err := e.session.live(ctx); err != nil {
		return false, err
	}
	selected, err := e.locator.Evaluate("el => !!(el.checked || el.selected)", nil)
	if err != nil {
		return false, err
	}
	b, _ := selected.(bool)
	return b, nil
}

// Click - single left click
func (e *playwrightElement) Click(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.locator.Click()
}

func (e *playwrightElement) DoubleClick(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.locator.Dblclick()
}

func (e *playwrightElement) ContextClick(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.locator.Click(playwright.LocatorClickOptions{
		Button: playwright.MouseButtonRight,
	})
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.locator.Clear()
}

// SendKeys - types text key by key; on a file input text is a path, as with WebDriver
func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	if kind, err := e.Attribute(ctx, "type"); err == nil && kind == "file" {
		return e.SetFiles(ctx, text)
	}
	return e.locator.PressSequentially(text)
}

func (e *playwrightElement) SetFiles(ctx context.Context, paths ...string) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	if paths == nil {
		paths = []string{}
	}
	return e.locator.SetInputFiles(paths)
}
