package terminal

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"practice_automation/application/harness"
	"practice_automation/application/scenarios"
	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/browser"
	"practice_automation/infrastructure/config"
	"practice_automation/infrastructure/storage"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailed      = 1
	ExitEnvironment = 2
)

// Options are the command line flags.
type Options struct {
	Run      string
	Verbose  bool
	List     bool
	FailFast bool
	Backend  string
	Browser  string
}

// ParseFlags - parses args (without the program name)
func ParseFlags(args []string, output io.Writer) (Options, error) {
	var opts Options
	fs := flag.NewFlagSet("practice_automation", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.Run, "run", "", "run only scenarios whose suite/name matches this regular expression")
	fs.BoolVar(&opts.Verbose, "v", false, "verbose output (debug logging)")
	fs.BoolVar(&opts.List, "list", false, "list scenarios and exit")
	fs.BoolVar(&opts.FailFast, "failfast", false, "stop after the first failed scenario")
	fs.StringVar(&opts.Backend, "backend", "", "automation backend: playwright, selenium or simulated")
	fs.StringVar(&opts.Browser, "browser", "", "browser: firefox or chromium")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

type TerminalInterface struct {
	opts     Options
	cfg      config.Config
	filter   *regexp.Regexp
	launcher interfaces.Launcher
	store    interfaces.ReportStore
	logger   *logrus.Logger
	out      io.Writer
	suites   []harness.Suite
}

// NewTerminalInterface - loads configuration and wires the runner. A nil
// launcher selects the one named by the configured backend.
func NewTerminalInterface(opts Options, out, logOut io.Writer, launcher interfaces.Launcher) (*TerminalInterface, error) {
	cfg, err := config.Load(func(c *config.Config) {
		if opts.Backend != "" {
			c.Backend = entities.Backend(strings.ToLower(opts.Backend))
		}
		if opts.Browser != "" {
			c.Browser = entities.BrowserKind(strings.ToLower(opts.Browser))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var filter *regexp.Regexp
	if opts.Run != "" {
		if filter, err = regexp.Compile(opts.Run); err != nil {
			return nil, fmt.Errorf("invalid -run pattern: %w", err)
		}
	}

	// Setup logger
	logger := logrus.New()
	logger.SetOutput(logOut)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if opts.Verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	if launcher == nil {
		if launcher, err = browser.NewLauncher(cfg.Backend, logger); err != nil {
			return nil, err
		}
	}

	store, err := storage.NewReportStore(cfg.ReportDir)
	if err != nil {
		logger.Warnf("Run reports will not be saved: %v", err)
	}

	return &TerminalInterface{
		opts:     opts,
		cfg:      cfg,
		filter:   filter,
		launcher: launcher,
		store:    store,
		logger:   logger,
		out:      out,
		suites:   scenarios.All(),
	}, nil
}

// Run - lists or runs the scenarios and returns the process exit code
func (t *TerminalInterface) Run(ctx context.Context) int {
	if t.opts.List {
		for _, name := range scenarios.Names(t.suites) {
			if t.filter == nil || t.filter.MatchString(name) {
				fmt.Fprintln(t.out, name)
			}
		}
		return ExitOK
	}

	runner := harness.NewRunner(t.launcher, t.cfg.SessionConfig(), harness.Options{
		BaseURL:      t.cfg.BaseURL,
		WaitTimeout:  t.cfg.WaitTimeout,
		PollInterval: t.cfg.PollInterval,
		DownloadWait: t.cfg.DownloadWait,
		ArtifactsDir: t.cfg.ArtifactsDir,
		FixtureDir:   t.cfg.FixtureDir,
		FailFast:     t.opts.FailFast,
		Filter:       t.filter,
	}, t.logger)

	report := runner.Run(ctx, t.suites)
	t.printReport(report)

	if t.store != nil {
		if err := t.store.SaveReport(report); err != nil {
			t.logger.Warnf("Failed to save run report: %v", err)
		}
	}

	switch {
	case report.Aborted != "":
		return ExitEnvironment
	case !report.Succeeded():
		return ExitFailed
	}
	return ExitOK
}

func (t *TerminalInterface) printReport(report entities.RunReport) {
	fmt.Fprintln(t.out)
	for _, res := range report.Results {
		switch res.Status {
		case entities.StatusPassed:
			fmt.Fprintf(t.out, "PASS  %s (%s)\n", res.FullName(), res.Duration.Round(time.Millisecond))
		case entities.StatusSkipped:
			fmt.Fprintf(t.out, "SKIP  %s: %s\n", res.FullName(), res.SkipReason)
		default:
			fmt.Fprintf(t.out, "FAIL  %s [%s]: %s\n", res.FullName(), res.ErrorKind, res.Error)
			for _, shot := range res.Screenshots {
				fmt.Fprintf(t.out, "      screenshot: %s\n", shot)
			}
		}
		if t.opts.Verbose {
			for _, line := range res.Observed {
				fmt.Fprintf(t.out, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(t.out, "\n%d passed, %d failed, %d skipped\n",
		report.Count(entities.StatusPassed), report.Count(entities.StatusFailed), report.Count(entities.StatusSkipped))
	if report.Aborted != "" {
		fmt.Fprintf(t.out, "run aborted: %s\n", report.Aborted)
	}
}

// Main - parses args, runs and returns the exit code
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := ParseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitEnvironment
	}

	termInterface, err := NewTerminalInterface(opts, stdout, stderr, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize: %v\n", err)
		return ExitEnvironment
	}
	return termInterface.Run(ctx)
}
