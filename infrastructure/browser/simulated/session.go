package simulated

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/storage"
)

// Launcher opens in-process sessions against a simulated site.
type Launcher struct {
	site          Site
	scriptDelay   time.Duration
	downloadDelay time.Duration
	openErr       error

	mu       sync.Mutex
	sessions []*Session
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithSite replaces the practice site.
func WithSite(site Site) Option {
	return func(l *Launcher) { l.site = site }
}

// WithScriptDelay makes page scripts run asynchronously after d, the way
// the real pages update the DOM after a gesture.
func WithScriptDelay(d time.Duration) Option {
	return func(l *Launcher) { l.scriptDelay = d }
}

// WithDownloadDelay delays the moment a download lands on disk.
func WithDownloadDelay(d time.Duration) Option {
	return func(l *Launcher) { l.downloadDelay = d }
}

// WithOpenError makes every Open fail, as a missing driver would.
func WithOpenError(err error) Option {
	return func(l *Launcher) { l.openErr = err }
}

// NewLauncher - creates a launcher for the practice site
func NewLauncher(opts ...Option) *Launcher {
	l := &Launcher{site: PracticeSite()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Open - starts a simulated session
func (l *Launcher) Open(ctx context.Context, cfg entities.SessionConfig) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, entities.NewEnvironmentError("simulated", err)
	}
	if l.openErr != nil {
		return nil, entities.NewEnvironmentError("simulated", l.openErr)
	}

	s := &Session{
		id:            uuid.New().String(),
		site:          l.site,
		cfg:           cfg,
		scriptDelay:   l.scriptDelay,
		downloadDelay: l.downloadDelay,
	}
	s.loadHTML("about:blank", Page{HTML: "<html><head><title></title></head><body></body></html>"})

	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

// Sessions - every session opened so far
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}

// Session is a simulated browser tab.
type Session struct {
	id            string
	site          Site
	cfg           entities.SessionConfig
	scriptDelay   time.Duration
	downloadDelay time.Duration

	mu         sync.Mutex
	doc        *goquery.Document
	page       Page
	url        string
	generation int
	closed     bool
	closeCalls int
	timers     []*time.Timer
}

var _ interfaces.Session = (*Session)(nil)

func (s *Session) ID() string { return s.id }

// Config - the options the session was opened with
func (s *Session) Config() entities.SessionConfig { return s.cfg }

// CloseCalls - how many times Close was called
func (s *Session) CloseCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCalls
}

// Closed - whether the session has been closed
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) DownloadDir() string { return s.cfg.DownloadDir }

// live must be called with s.mu held.
func (s *Session) live(ctx context.Context) error {
	if s.closed {
		return entities.ErrSessionClosed
	}
	return ctx.Err()
}

func (s *Session) loadHTML(rawURL string, page Page) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		// pages are static strings; a parse failure is a programming error
		panic(fmt.Sprintf("simulated page %s: %v", rawURL, err))
	}
	s.doc = doc
	s.page = page
	s.url = rawURL
	s.generation++
}

// Navigate - loads the page for url, or a 404 page
func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return err
	}
	s.navigateLocked(rawURL)
	return nil
}

func (s *Session) navigateLocked(rawURL string) {
	page, ok := s.site.lookup(rawURL)
	if !ok {
		page = Page{HTML: notFoundHTML}
	}
	s.loadHTML(rawURL, page)
}

func (s *Session) Title(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return strings.TrimSpace(s.doc.Find("title").First().Text()), nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return "", err
	}
	return s.url, nil
}

func (s *Session) query(sel entities.Selector) (*goquery.Selection, error) {
	if css, ok := sel.CSSQuery(); ok {
		return s.doc.Find(css), nil
	}
	if sel.By == entities.ByXPath {
		return s.queryXPath(sel.Value)
	}
	return nil, fmt.Errorf("unsupported selector strategy %q", sel.By)
}

func (s *Session) Find(ctx context.Context, sel entities.Selector) (interfaces.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	matches, err := s.query(sel)
	if err != nil {
		return nil, err
	}
	if matches.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrNoSuchElement, sel)
	}
	return &Element{session: s, node: matches.Nodes[0], generation: s.generation, selector: sel}, nil
}

func (s *Session) FindAll(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	matches, err := s.query(sel)
	if err != nil {
		return nil, err
	}
	elements := make([]interfaces.Element, 0, matches.Length())
	for _, n := range matches.Nodes {
		elements = append(elements, &Element{session: s, node: n, generation: s.generation, selector: sel})
	}
	return elements, nil
}

// ExecuteScript - the simulated page has no JavaScript engine
func (s *Session) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	return nil, fmt.Errorf("%w by the simulated backend", entities.ErrScriptUnsupported)
}

// Screenshot - a blank PNG the size of the configured window
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.live(ctx); err != nil {
		return nil, err
	}
	w, h := s.cfg.WindowSize()
	img := image.NewRGBA(image.Rect(0, 0, w/16, h/16))
	for x := 0; x < img.Bounds().Dx(); x++ {
		for y := 0; y < img.Bounds().Dy(); y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close - idempotent; pending page scripts and downloads are cancelled
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCalls++
	if s.closed {
		return nil
	}
	s.closed = true
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
	return nil
}

// dispatch runs the handlers of the current page that match node.
// Must be called with s.mu held.
func (s *Session) dispatch(event Event, node *html.Node) {
	target := s.doc.FindNodes(node)
	for _, h := range s.page.Handlers {
		if h.Event != event || !target.Is(h.Match) {
			continue
		}
		run := h.Run
		if s.scriptDelay <= 0 {
			run(s.env(), target)
			continue
		}
		gen := s.generation
		s.after(s.scriptDelay, func() {
			if s.generation == gen {
				run(s.env(), s.doc.FindNodes(node))
			}
		})
	}
}

// after schedules fn with s.mu held once the delay elapses.
func (s *Session) after(d time.Duration, fn func()) {
	t := time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		fn()
	})
	s.timers = append(s.timers, t)
}

func (s *Session) env() *Env {
	return &Env{Doc: s.doc, Download: s.download}
}

// download writes content as a partial file first and renames it once
// complete, like a browser does. Must be called with s.mu held.
func (s *Session) download(name string, content []byte) {
	dir := s.cfg.DownloadDir
	if dir == "" {
		return
	}
	write := func() {
		partial := storage.UniquePath(dir, name) + ".part"
		if err := os.WriteFile(partial, content, 0644); err != nil {
			return
		}
		os.Rename(partial, storage.UniquePath(dir, name))
	}
	if s.downloadDelay <= 0 {
		write()
		return
	}
	s.after(s.downloadDelay, write)
}

// submit sends the form owning node and loads its action.
// Must be called with s.mu held.
func (s *Session) submit(node *html.Node) {
	form := s.doc.FindNodes(node).Closest("form")
	if form.Length() == 0 {
		return
	}
	action := form.AttrOr("action", "")
	target := s.url
	if action != "" {
		if base, err := url.Parse(s.url); err == nil {
			if ref, err := url.Parse(action); err == nil {
				target = base.ResolveReference(ref).String()
			}
		}
	}
	s.navigateLocked(target)
}
