package entities

import "time"

// Backend identifies the automation collaborator that drives the browser.
type Backend string

const (
	BackendPlaywright Backend = "playwright"
	BackendSelenium   Backend = "selenium"
	BackendSimulated  Backend = "simulated"
)

// BrowserKind identifies the browser engine a backend launches.
type BrowserKind string

const (
	BrowserFirefox  BrowserKind = "firefox"
	BrowserChromium BrowserKind = "chromium"
)

// WindowMode is how the browser window is sized at session start.
type WindowMode string

const (
	WindowMaximized WindowMode = "maximized"
	WindowFixed     WindowMode = "fixed"
)

// Window describes the window size policy of a session.
type Window struct {
	Mode   WindowMode `json:"mode" yaml:"mode"`
	Width  int        `json:"width,omitempty" yaml:"width,omitempty"`
	Height int        `json:"height,omitempty" yaml:"height,omitempty"`
}

// DefaultAutoSaveMIMETypes are saved to disk without a prompt.
var DefaultAutoSaveMIMETypes = []string{
	"application/octet-stream",
	"text/plain",
	"image/jpeg",
	"application/pdf",
}

// SessionConfig is the set of options a session is opened with.
type SessionConfig struct {
	Backend           Backend       `json:"backend"`
	Browser           BrowserKind   `json:"browser"`
	Headless          bool          `json:"headless"`
	DownloadDir       string        `json:"download_dir,omitempty"`
	AutoSaveMIMETypes []string      `json:"auto_save_mime_types,omitempty"`
	Window            Window        `json:"window"`
	DriverPath        string        `json:"driver_path,omitempty"`
	BrowserBinary     string        `json:"browser_binary,omitempty"`
	DriverPort        int           `json:"driver_port,omitempty"`
	SlowMo            time.Duration `json:"slow_mo,omitempty"`
}

// WithDownloadDir returns a copy of c that saves downloads into dir.
func (c SessionConfig) WithDownloadDir(dir string) SessionConfig {
	c.DownloadDir = dir
	if len(c.AutoSaveMIMETypes) == 0 {
		c.AutoSaveMIMETypes = append([]string(nil), DefaultAutoSaveMIMETypes...)
	}
	return c
}

// WindowSize returns the effective fixed size, falling back to 1280x720.
func (c SessionConfig) WindowSize() (int, int) {
	w, h := c.Window.Width, c.Window.Height
	if w <= 0 {
		w = 1280
	}
	if h <= 0 {
		h = 720
	}
	return w, h
}
