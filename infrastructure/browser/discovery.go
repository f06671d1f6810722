package browser

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"practice_automation/domain/entities"
)

// lookup is the filesystem view discovery runs against.
type lookup struct {
	getenv   func(string) string
	exists   func(string) bool
	lookPath func(string) (string, error)
}

var systemLookup = lookup{
	getenv: os.Getenv,
	exists: func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && !info.IsDir()
	},
	lookPath: exec.LookPath,
}

// executableHints describes where an executable is usually installed.
type executableHints struct {
	envVars []string
	paths   []string
	names   []string
}

func homePath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, elem...)...)
}

func driverHints(kind entities.BrowserKind) executableHints {
	if kind == entities.BrowserChromium {
		return executableHints{
			envVars: []string{"BROWSER_DRIVER_PATH", "CHROMEDRIVER_PATH"},
			paths: []string{
				"/usr/local/bin/chromedriver",
				"/usr/bin/chromedriver",
				"/opt/homebrew/bin/chromedriver",
				homePath("bin", "chromedriver"),
			},
			names: []string{"chromedriver"},
		}
	}
	return executableHints{
		envVars: []string{"BROWSER_DRIVER_PATH", "GECKODRIVER_PATH"},
		paths: []string{
			"/usr/local/bin/geckodriver",
			"/usr/bin/geckodriver",
			"/opt/homebrew/bin/geckodriver",
			homePath("bin", "geckodriver"),
		},
		names: []string{"geckodriver"},
	}
}

func binaryHints(kind entities.BrowserKind) executableHints {
	if kind == entities.BrowserChromium {
		return executableHints{
			envVars: []string{"BROWSER_BINARY_PATH", "CHROME_BINARY_PATH"},
			paths: []string{
				"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
				"/Applications/Chromium.app/Contents/MacOS/Chromium",
				"/usr/bin/google-chrome",
				"/usr/bin/chromium",
				"/usr/bin/chromium-browser",
				`C:\Program Files\Google\Chrome\Application\chrome.exe`,
				`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			},
			names: []string{"google-chrome", "chromium", "chromium-browser"},
		}
	}
	return executableHints{
		envVars: []string{"BROWSER_BINARY_PATH", "FIREFOX_BINARY_PATH"},
		paths: []string{
			"/Applications/Firefox.app/Contents/MacOS/firefox",
			"/usr/bin/firefox",
			"/usr/lib/firefox/firefox",
			"/snap/bin/firefox",
			`C:\Program Files\Mozilla Firefox\firefox.exe`,
		},
		names: []string{"firefox"},
	}
}

// find - explicit path, then environment variables, then well-known paths, then $PATH.
// An explicit path that does not exist is not replaced by a guess.
func (l lookup) find(explicit string, hints executableHints) (string, bool) {
	if explicit != "" {
		return explicit, l.exists(explicit)
	}
	for _, env := range hints.envVars {
		if path := l.getenv(env); path != "" && l.exists(path) {
			return path, true
		}
	}
	for _, path := range hints.paths {
		if path != "" && l.exists(path) {
			return path, true
		}
	}
	for _, name := range hints.names {
		if path, err := l.lookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// findDriver - finds the WebDriver executable for the configured browser
func (l lookup) findDriver(cfg entities.SessionConfig) (string, error) {
	hints := driverHints(cfg.Browser)
	path, ok := l.find(cfg.DriverPath, hints)
	if ok {
		return path, nil
	}
	if cfg.DriverPath != "" {
		return "", fmt.Errorf("driver %s does not exist", cfg.DriverPath)
	}
	return "", fmt.Errorf("%s not found. Please install it or set %s", hints.names[0], hints.envVars[0])
}

// findBinary - finds the browser executable, empty when the driver should decide
func (l lookup) findBinary(cfg entities.SessionConfig) string {
	if path, ok := l.find(cfg.BrowserBinary, binaryHints(cfg.Browser)); ok {
		return path
	}
	return ""
}
