package browser

import (
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"

	"practice_automation/domain/entities"
	"practice_automation/infrastructure/browser/simulated"
)

func downloadConfig(browser entities.BrowserKind) entities.SessionConfig {
	return entities.SessionConfig{Browser: browser, Headless: true}.WithDownloadDir("/tmp/selenium_tests")
}

func TestFirefoxDownloadPrefs(t *testing.T) {
	prefs := firefoxDownloadPrefs(downloadConfig(entities.BrowserFirefox))

	assert.Equal(t, 2, prefs["browser.download.folderList"])
	assert.Equal(t, false, prefs["browser.download.manager.showWhenStarting"])
	assert.Equal(t, "/tmp/selenium_tests", prefs["browser.download.dir"])
	assert.Equal(t, "application/octet-stream,text/plain,image/jpeg,application/pdf", prefs["browser.helperApps.neverAsk.saveToDisk"])

	assert.Nil(t, firefoxDownloadPrefs(entities.SessionConfig{}))
}

func TestChromeDownloadPrefs(t *testing.T) {
	prefs := chromeDownloadPrefs(downloadConfig(entities.BrowserChromium))
	assert.Equal(t, "/tmp/selenium_tests", prefs["download.default_directory"])
	assert.Equal(t, false, prefs["download.prompt_for_download"])
}

func TestIsClosedError(t *testing.T) {
	assert.False(t, isClosedError(nil))
	assert.True(t, isClosedError(errors.New("Target closed")))
	assert.True(t, isClosedError(errors.New("invalid session id")))
	assert.False(t, isClosedError(errors.New("connection refused")))
}

func TestPlaywrightSelector(t *testing.T) {
	cases := map[entities.Selector]string{
		entities.ID("welcomeDiv"):                   "css=#welcomeDiv",
		entities.CSS("label.form-file-label"):       "css=label.form-file-label",
		entities.TagName("button"):                  "css=button",
		entities.XPath("//input[@value='igottwo']"): "xpath=//input[@value='igottwo']",
	}
	for sel, want := range cases {
		got, err := playwrightSelector(sel)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := playwrightSelector(entities.Selector{By: "link text", Value: "x"})
	assert.Error(t, err)
}

func TestPlaywrightOptions(t *testing.T) {
	cfg := downloadConfig(entities.BrowserFirefox)
	cfg.SlowMo = 100 * time.Millisecond
	cfg.BrowserBinary = "/opt/firefox/firefox"

	launch := playwrightLaunchOptions(cfg)
	require.NotNil(t, launch.Headless)
	assert.True(t, *launch.Headless)
	assert.Equal(t, 100.0, *launch.SlowMo)
	assert.Equal(t, "/opt/firefox/firefox", *launch.ExecutablePath)
	assert.Equal(t, "/tmp/selenium_tests", launch.FirefoxUserPrefs["browser.download.dir"])

	ctxOpts := playwrightContextOptions(cfg)
	assert.True(t, *ctxOpts.AcceptDownloads)
	assert.True(t, *ctxOpts.NoViewport)
	assert.Nil(t, ctxOpts.Viewport)

	cfg.Browser = entities.BrowserChromium
	cfg.Window = entities.Window{Mode: entities.WindowFixed, Width: 1024, Height: 768}
	launch = playwrightLaunchOptions(cfg)
	assert.Nil(t, launch.FirefoxUserPrefs)
	assert.NotContains(t, launch.Args, "--start-maximized")
	ctxOpts = playwrightContextOptions(cfg)
	assert.Equal(t, &playwright.Size{Width: 1024, Height: 768}, ctxOpts.Viewport)
}

func TestSeleniumCapabilities(t *testing.T) {
	caps := seleniumCapabilities(downloadConfig(entities.BrowserFirefox), "/usr/bin/firefox")
	assert.Equal(t, "firefox", caps["browserName"])
	ff, ok := caps[firefox.CapabilitiesKey].(firefox.Capabilities)
	require.True(t, ok)
	assert.Equal(t, "/usr/bin/firefox", ff.Binary)
	assert.Contains(t, ff.Args, "-headless")
	assert.Equal(t, "/tmp/selenium_tests", ff.Prefs["browser.download.dir"])

	caps = seleniumCapabilities(downloadConfig(entities.BrowserChromium), "")
	assert.Equal(t, "chrome", caps["browserName"])
	ch, ok := caps[chrome.CapabilitiesKey].(chrome.Capabilities)
	require.True(t, ok)
	assert.Contains(t, ch.Args, "--headless=new")
	assert.Equal(t, "/tmp/selenium_tests", ch.Prefs["download.default_directory"])
}

func TestSeleniumBy(t *testing.T) {
	by, err := seleniumBy(entities.XPath("//div"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByXPATH, by)

	by, err = seleniumBy(entities.ID("check"))
	require.NoError(t, err)
	assert.Equal(t, selenium.ByID, by)

	_, err = seleniumBy(entities.Selector{By: "name", Value: "x"})
	assert.Error(t, err)
}

func TestToPoint(t *testing.T) {
	p, err := toPoint([]interface{}{float64(120), float64(48)})
	require.NoError(t, err)
	assert.Equal(t, selenium.Point{X: 120, Y: 48}, p)

	_, err = toPoint("nope")
	assert.Error(t, err)
	_, err = toPoint([]interface{}{"a", "b"})
	assert.Error(t, err)
}

func fakeLookup(files map[string]bool, env map[string]string, onPath map[string]string) lookup {
	return lookup{
		getenv: func(k string) string { return env[k] },
		exists: func(p string) bool { return files[p] },
		lookPath: func(name string) (string, error) {
			if p, ok := onPath[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
	}
}

func TestFindDriver(t *testing.T) {
	cfg := entities.SessionConfig{Browser: entities.BrowserFirefox}

	l := fakeLookup(map[string]bool{"/env/geckodriver": true, "/usr/bin/geckodriver": true},
		map[string]string{"GECKODRIVER_PATH": "/env/geckodriver"}, nil)
	path, err := l.findDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/env/geckodriver", path)

	l = fakeLookup(map[string]bool{"/usr/bin/geckodriver": true}, nil, nil)
	path, err = l.findDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/geckodriver", path)

	l = fakeLookup(nil, nil, map[string]string{"geckodriver": "/home/u/.local/bin/geckodriver"})
	path, err = l.findDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/home/u/.local/bin/geckodriver", path)

	_, err = fakeLookup(nil, nil, nil).findDriver(cfg)
	assert.ErrorContains(t, err, "geckodriver not found")
}

func TestFindDriver_ExplicitPathWins(t *testing.T) {
	l := fakeLookup(map[string]bool{"/custom/chromedriver": true, "/usr/bin/chromedriver": true}, nil, nil)
	cfg := entities.SessionConfig{Browser: entities.BrowserChromium, DriverPath: "/custom/chromedriver"}
	path, err := l.findDriver(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/custom/chromedriver", path)

	cfg.DriverPath = "/missing/chromedriver"
	_, err = l.findDriver(cfg)
	assert.ErrorContains(t, err, "/missing/chromedriver")
}

func TestFindBinary(t *testing.T) {
	l := fakeLookup(nil, nil, map[string]string{"firefox": "/usr/local/bin/firefox"})
	assert.Equal(t, "/usr/local/bin/firefox", l.findBinary(entities.SessionConfig{Browser: entities.BrowserFirefox}))
	assert.Equal(t, "", fakeLookup(nil, nil, nil).findBinary(entities.SessionConfig{}))
}

func TestNewLauncher(t *testing.T) {
	l, err := NewLauncher(entities.BackendSimulated, nil)
	require.NoError(t, err)
	assert.IsType(t, &simulated.Launcher{}, l)

	l, err = NewLauncher(entities.BackendSelenium, nil)
	require.NoError(t, err)
	assert.IsType(t, &seleniumLauncher{}, l)

	l, err = NewLauncher("", nil)
	require.NoError(t, err)
	assert.IsType(t, &playwrightLauncher{}, l)

	_, err = NewLauncher("webkit", nil)
	assert.ErrorIs(t, err, entities.ErrEnvironment)
}
