package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"practice_automation/domain/entities"
	"practice_automation/infrastructure/storage"
)

// DefaultBaseURL is the practice site every suite targets.
const DefaultBaseURL = "https://www.tutorialspoint.com/selenium/practice"

// Config holds everything a harness run needs.
type Config struct {
	Backend       entities.Backend     `yaml:"backend"`
	Browser       entities.BrowserKind `yaml:"browser"`
	Headless      bool                 `yaml:"headless"`
	DriverPath    string               `yaml:"driver_path"`
	BrowserBinary string               `yaml:"browser_binary"`
	DriverPort    int                  `yaml:"driver_port"`
	SlowMo        time.Duration        `yaml:"slow_mo"`
	Window        entities.Window      `yaml:"window"`
	AutoSaveMIME  []string             `yaml:"auto_save_mime_types"`

	BaseURL      string        `yaml:"base_url"`
	WaitTimeout  time.Duration `yaml:"wait_timeout"`
	PollInterval time.Duration `yaml:"poll_interval"`
	DownloadWait time.Duration `yaml:"download_wait"`

	FixtureDir   string `yaml:"fixture_dir"`
	ArtifactsDir string `yaml:"artifacts_dir"`
	ReportDir    string `yaml:"report_dir"`
	LogLevel     string `yaml:"log_level"`
}

// Default returns the settings the suites were written against: Firefox,
// 10 second waits and downloads under ~/Downloads/selenium_tests.
func Default() Config {
	return Config{
		Backend:      entities.BackendPlaywright,
		Browser:      entities.BrowserFirefox,
		Headless:     true,
		DriverPort:   4444,
		Window:       entities.Window{Mode: entities.WindowMaximized},
		AutoSaveMIME: append([]string(nil), entities.DefaultAutoSaveMIMETypes...),
		BaseURL:      DefaultBaseURL,
		WaitTimeout:  10 * time.Second,
		PollInterval: 250 * time.Millisecond,
		DownloadWait: 15 * time.Second,
		FixtureDir:   storage.DefaultFixtureDir(),
		ArtifactsDir: ".",
		ReportDir:    storage.DefaultReportDir(),
		LogLevel:     "info",
	}
}

// Load reads .env (optional), then the YAML file named by E2E_CONFIG, then
// E2E_* environment overrides, on top of Default. overrides run last, before
// validation.
func Load(overrides ...func(*Config)) (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("E2E_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	for _, override := range overrides {
		override(&cfg)
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = d
		return nil
	}

	var backend, browser, window string
	str("E2E_BACKEND", &backend)
	str("E2E_BROWSER", &browser)
	str("E2E_WINDOW", &window)
	if backend != "" {
		c.Backend = entities.Backend(strings.ToLower(backend))
	}
	if browser != "" {
		c.Browser = entities.BrowserKind(strings.ToLower(browser))
	}
	if window != "" {
		if err := c.parseWindow(window); err != nil {
			return err
		}
	}

	// driver discovery reads the same variables
	str("BROWSER_DRIVER_PATH", &c.DriverPath)
	str("E2E_DRIVER_PATH", &c.DriverPath)
	str("BROWSER_BINARY_PATH", &c.BrowserBinary)
	str("E2E_BROWSER_BINARY", &c.BrowserBinary)
	str("E2E_BASE_URL", &c.BaseURL)
	str("E2E_FIXTURE_DIR", &c.FixtureDir)
	str("E2E_ARTIFACTS_DIR", &c.ArtifactsDir)
	str("E2E_REPORT_DIR", &c.ReportDir)
	str("E2E_LOG_LEVEL", &c.LogLevel)

	if v := strings.TrimSpace(getenv("HEADLESS")); v != "" {
		// HEADLESS=false shows the browser while debugging
		c.Headless = v != "false" && v != "0"
	}
	if v := strings.TrimSpace(getenv("E2E_DRIVER_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid E2E_DRIVER_PORT %q: %w", v, err)
		}
		c.DriverPort = port
	}
	if v := strings.TrimSpace(getenv("E2E_AUTO_SAVE_MIME")); v != "" {
		c.AutoSaveMIME = splitList(v)
	}

	for key, dst := range map[string]*time.Duration{
		"E2E_WAIT_TIMEOUT":  &c.WaitTimeout,
		"E2E_POLL_INTERVAL": &c.PollInterval,
		"E2E_DOWNLOAD_WAIT": &c.DownloadWait,
		"E2E_SLOW_MO":       &c.SlowMo,
	} {
		if err := dur(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// parseWindow accepts "maximized" or "WIDTHxHEIGHT".
func (c *Config) parseWindow(v string) error {
	v = strings.ToLower(v)
	if v == string(entities.WindowMaximized) {
		c.Window = entities.Window{Mode: entities.WindowMaximized}
		return nil
	}
	var w, h int
	if _, err := fmt.Sscanf(v, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("invalid E2E_WINDOW %q: want maximized or WIDTHxHEIGHT", v)
	}
	c.Window = entities.Window{Mode: entities.WindowFixed, Width: w, Height: h}
	return nil
}

// Validate rejects configurations no backend can honour.
func (c Config) Validate() error {
	switch c.Backend {
	case entities.BackendPlaywright, entities.BackendSelenium, entities.BackendSimulated:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	switch c.Browser {
	case entities.BrowserFirefox, entities.BrowserChromium:
	default:
		return fmt.Errorf("unknown browser %q", c.Browser)
	}
	switch c.Window.Mode {
	case entities.WindowMaximized, entities.WindowFixed:
	default:
		return fmt.Errorf("unknown window mode %q", c.Window.Mode)
	}
	if c.WaitTimeout <= 0 || c.PollInterval <= 0 || c.DownloadWait <= 0 {
		return fmt.Errorf("wait_timeout, poll_interval and download_wait must be positive")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	return nil
}

// SessionConfig derives the per-session options.
func (c Config) SessionConfig() entities.SessionConfig {
	return entities.SessionConfig{
		Backend:           c.Backend,
		Browser:           c.Browser,
		Headless:          c.Headless,
		AutoSaveMIMETypes: append([]string(nil), c.AutoSaveMIME...),
		Window:            c.Window,
		DriverPath:        c.DriverPath,
		BrowserBinary:     c.BrowserBinary,
		DriverPort:        c.DriverPort,
		SlowMo:            c.SlowMo,
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
