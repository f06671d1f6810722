package browser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

const defaultDriverPort = 4444

// seleniumAttributeScript has WebDriver getAttribute semantics over the
// W3C protocol, which only exposes markup attributes.
const seleniumAttributeScript = `var el = arguments[0], name = arguments[1];
var prop = el[name];
if (typeof prop === 'boolean') return prop ? 'true' : null;
if (prop !== undefined && prop !== null && typeof prop !== 'object' && typeof prop !== 'function') return String(prop);
return el.getAttribute(name);`

// scrollScript centres an element before pointer gestures.
const scrollScript = `arguments[0].scrollIntoView({block: 'center', inline: 'center'}); return true;`

const centerScript = `var r = arguments[0].getBoundingClientRect();
return [Math.round(r.left + r.width / 2), Math.round(r.top + r.height / 2)];`

type seleniumLauncher struct {
	logger *logrus.Logger
	lookup lookup
}

// NewSeleniumLauncher - creates a launcher that drives geckodriver or chromedriver
func NewSeleniumLauncher(logger *logrus.Logger) interfaces.Launcher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &seleniumLauncher{logger: logger, lookup: systemLookup}
}

// seleniumCapabilities - capabilities for cfg, carrying the download preferences
func seleniumCapabilities(cfg entities.SessionConfig, binary string) selenium.Capabilities {
	if cfg.Browser == entities.BrowserChromium {
		caps := selenium.Capabilities{"browserName": "chrome"}
		chromeCaps := chrome.Capabilities{
			Path:  binary,
			Args:  []string{"--disable-dev-shm-usage", "--disable-popup-blocking"},
			Prefs: chromeDownloadPrefs(cfg),
		}
		if cfg.Headless {
			chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
		}
		if cfg.Window.Mode == entities.WindowFixed {
			w, h := cfg.WindowSize()
			chromeCaps.Args = append(chromeCaps.Args, fmt.Sprintf("--window-size=%d,%d", w, h))
		}
		caps.AddChrome(chromeCaps)
		return caps
	}

	caps := selenium.Capabilities{"browserName": "firefox"}
	firefoxCaps := firefox.Capabilities{
		Binary: binary,
		Prefs:  firefoxDownloadPrefs(cfg),
	}
	if cfg.Headless {
		firefoxCaps.Args = append(firefoxCaps.Args, "-headless")
	}
	caps.AddFirefox(firefoxCaps)
	return caps
}

// Open - starts the driver service and a WebDriver session against it
func (l *seleniumLauncher) Open(ctx context.Context, cfg entities.SessionConfig) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, entities.NewEnvironmentError("selenium", err)
	}

	driverPath, err := l.lookup.findDriver(cfg)
	if err != nil {
		return nil, entities.NewEnvironmentError("selenium", err)
	}
	l.logger.Infof("Using driver at: %s", driverPath)

	binary := l.lookup.findBinary(cfg)
	if binary != "" {
		l.logger.Infof("Using browser binary at: %s", binary)
	}

	port := cfg.DriverPort
	if port <= 0 {
		port = defaultDriverPort
	}

	selenium.SetDebug(l.logger.IsLevelEnabled(logrus.TraceLevel))
	driverLog := l.logger.WriterLevel(logrus.DebugLevel)
	opts := []selenium.ServiceOption{selenium.Output(driverLog)}

	var service *selenium.Service
	if cfg.Browser == entities.BrowserChromium {
		service, err = selenium.NewChromeDriverService(driverPath, port, opts...)
	} else {
		service, err = selenium.NewGeckoDriverService(driverPath, port, opts...)
	}
	if err != nil {
		driverLog.Close()
		return nil, entities.NewEnvironmentError("selenium", fmt.Errorf("failed to start %s: %w", driverPath, err))
	}

	wd, err := selenium.NewRemote(seleniumCapabilities(cfg, binary), fmt.Sprintf("http://localhost:%d", port))
	if err != nil {
		service.Stop()
		driverLog.Close()
		return nil, entities.NewEnvironmentError("selenium", fmt.Errorf("failed to create webdriver: %w", err))
	}

	s := &seleniumSession{
		id:        uuid.New().String(),
		cfg:       cfg,
		logger:    l.logger,
		wd:        wd,
		service:   service,
		driverLog: driverLog,
	}

	if cfg.Window.Mode == entities.WindowFixed {
		w, h := cfg.WindowSize()
		err = wd.ResizeWindow("", w, h)
	} else {
		err = wd.MaximizeWindow("")
	}
	if err != nil {
		s.log().Warnf("Failed to size window: %v", err)
	}

	s.log().Infof("Selenium %s session started (headless=%t)", cfg.Browser, cfg.Headless)
	return s, nil
}

type seleniumSession struct {
	id        string
	cfg       entities.SessionConfig
	logger    *logrus.Logger
	wd        selenium.WebDriver
	service   *selenium.Service
	driverLog io.Closer

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

func (s *seleniumSession) log() *logrus.Entry {
	return s.logger.WithField("session", s.id)
}

func (s *seleniumSession) live(ctx context.Context) error {
	if s.closed.Load() {
		return entities.ErrSessionClosed
	}
	return ctx.Err()
}

func (s *seleniumSession) ID() string { return s.id }

func (s *seleniumSession) DownloadDir() string { return s.cfg.DownloadDir }

// Navigate - navigates browser to specified URL
func (s *seleniumSession) Navigate(ctx context.Context, url string) error {
	if err := s.live(ctx); err != nil {
		return err
	}
	return s.wd.Get(url)
}

func (s *seleniumSession) Title(ctx context.Context) (string, error) {
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return s.wd.Title()
}

func (s *seleniumSession) CurrentURL(ctx context.Context) (string, error) {
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return s.wd.CurrentURL()
}

// seleniumBy - maps a selector strategy onto its WebDriver name
func seleniumBy(sel entities.Selector) (string, error) {
	switch sel.By {
	case entities.ByID:
		return selenium.ByID, nil
	case entities.ByCSS:
		return selenium.ByCSSSelector, nil
	case entities.ByXPath:
		return selenium.ByXPATH, nil
	case entities.ByTagName:
		return selenium.ByTagName, nil
	}
	return "", fmt.Errorf("unsupported selector strategy %q", sel.By)
}

func (s *seleniumSession) findAll(ctx context.Context, sel entities.Selector) ([]selenium.WebElement, error) {
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	by, err := seleniumBy(sel)
	if err != nil {
		return nil, err
	}
	elements, err := s.wd.FindElements(by, sel.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", sel, err)
	}
	return elements, nil
}

func (s *seleniumSession) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	elements, err := s.findAll(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, sel)
	}
	return &seleniumElement{session: s, we: elements[0], selector: sel}, nil
}

func (s *seleniumSession) FindAll(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	elements, err := s.findAll(ctx, sel)
	if err != nil {
		return nil, err
	}
	result := make([]interfaces.Element, 0, len(elements))
	for _, we := range elements {
		result = append(result, &seleniumElement{session: s, we: we, selector: sel})
	}
	return result, nil
}

func (s *seleniumSession) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	return s.wd.ExecuteScript(script, nil)
}

// Screenshot - takes screenshot of current page
func (s *seleniumSession) Screenshot(ctx context.Context) ([]byte, error) {
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	return s.wd.Screenshot()
}

// Close - quits the browser and stops the driver service
func (s *seleniumSession) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		var errs []string
		if err := s.wd.Quit(); err != nil && !isClosedError(err) {
			errs = append(errs, fmt.Sprintf("failed to quit webdriver: %v", err))
		}
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("failed to stop driver: %v", err))
		}
		s.driverLog.Close()
		if len(errs) > 0 {
			s.closeErr = fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		s.log().Info("Selenium session closed")
	})
	return s.closeErr
}

type seleniumElement struct {
	session  *seleniumSession
	we       selenium.WebElement
	selector entities.Selector
}

func (e *seleniumElement) Selector() entities.Selector { return e.selector }

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	if err := e.session.live(ctx); err != nil {
		return "", err
	}
	text, err := e.we.Text()
	return strings.TrimSpace(text), err
}

func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, error) {
	if err := e.session.live(ctx); err != nil {
		return "", err
	}
	value, err := e.session.wd.ExecuteScript(seleniumAttributeScript, []interface{}{e.we, name})
	if err != nil {
		// fall back to the plain attribute endpoint
		attr, aerr := e.we.GetAttribute(name)
		if aerr != nil && strings.Contains(aerr.Error(), "nil return value") {
			return "", nil
		}
		return attr, aerr
	}
	if value == nil {
		return "", nil
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return fmt.Sprint(value), nil
}

func (e *seleniumElement) State(ctx context.Context) (entities.ElementState, error) {
	state := entities.ElementState{Selector: e.selector}
	if err := e.session.live(ctx); err != nil {
		return state, err
	}
	var err error
	if state.TagName, err = e.we.TagName(); err != nil {
		return state, err
	}
	if state.IsVisible, err = e.we.IsDisplayed(); err != nil {
		return state, err
	}
	if state.IsEnabled, err = e.we.IsEnabled(); err != nil {
		return state, err
	}
	if text, err := e.we.Text(); err == nil {
		state.Text = strings.TrimSpace(text)
	}
	return state, nil
}

func (e *seleniumElement) IsSelected(ctx context.Context) (bool, error) {
	if err := e.session.live(ctx); err != nil {
		return false, err
	}
	return e.we.IsSelected()
}

// scrollIntoView - centres the element; failures are only logged
func (e *seleniumElement) scrollIntoView() {
	if _, err := e.session.wd.ExecuteScript(scrollScript, []interface{}{e.we}); err != nil {
		e.session.log().Warnf("Failed to scroll to element: %v", err)
	}
}

// Click - clicks on element after scrolling it into view
func (e *seleniumElement) Click(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	e.scrollIntoView()
	return e.we.Click()
}

// pointer - presses button clicks times at the centre of the element
func (e *seleniumElement) pointer(ctx context.Context, button selenium.MouseButton, clicks int) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	e.scrollIntoView()

	raw, err := e.session.wd.ExecuteScript(centerScript, []interface{}{e.we})
	if err != nil {
		return fmt.Errorf("failed to locate %s: %w", e.selector, err)
	}
	center, err := toPoint(raw)
	if err != nil {
		return fmt.Errorf("failed to locate %s: %w", e.selector, err)
	}

	actions := []selenium.PointerAction{selenium.PointerMoveAction(0, center, selenium.FromViewport)}
	for i := 0; i < clicks; i++ {
		actions = append(actions, selenium.PointerDownAction(button), selenium.PointerUpAction(button))
	}

	wd := e.session.wd
	wd.StorePointerActions("mouse", selenium.MousePointer, actions...)
	defer wd.ReleaseActions()
	return wd.PerformActions()
}

// toPoint - converts a [x, y] script result into a point
func toPoint(raw interface{}) (selenium.Point, error) {
	pair, ok := raw.([]interface{})
	if !ok || len(pair) != 2 {
		return selenium.Point{}, fmt.Errorf("unexpected position %v", raw)
	}
	var coords [2]int
	for i, v := range pair {
		f, ok := v.(float64)
		if !ok {
			return selenium.Point{}, fmt.Errorf("unexpected coordinate %v", v)
		}
		coords[i] = int(f)
	}
	return selenium.Point{X: coords[0], Y: coords[1]}, nil
}

func (e *seleniumElement) DoubleClick(ctx context.Context) error {
	return e.pointer(ctx, selenium.LeftButton, 2)
}

func (e *seleniumElement) ContextClick(ctx context.Context) error {
	return e.pointer(ctx, selenium.RightButton, 1)
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.we.Clear()
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	return e.we.SendKeys(text)
}

// SetFiles - sends the paths to a file input; no paths resets its value
func (e *seleniumElement) SetFiles(ctx context.Context, paths ...string) error {
	if err := e.session.live(ctx); err != nil {
		return err
	}
	if len(paths) == 0 {
		_, err := e.session.wd.ExecuteScript("arguments[0].value = '';", []interface{}{e.we})
		return err
	}
	return e.we.SendKeys(strings.Join(paths, "\n"))
}
