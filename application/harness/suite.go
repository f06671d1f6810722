package harness

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"practice_automation/application/interaction"
	"practice_automation/application/verify"
	"practice_automation/application/wait"
	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/storage"
)

// Scope decides how long a session lives.
type Scope string

const (
	// ScopeScenario opens a fresh session for every scenario.
	ScopeScenario Scope = "per-scenario"
	// ScopeSuite shares one session across the scenarios of a suite.
	ScopeSuite Scope = "per-suite"
)

// Scenario is one test pipeline. A non-empty Skip reports it as skipped
// without opening a session.
type Scenario struct {
	Name string
	Skip string
	Run  func(ctx context.Context, f *Flow) error
}

// Suite groups scenarios that share setup, teardown and optionally a session.
type Suite struct {
	Name      string
	Scope     Scope
	Setup     func(env *SuiteEnv) error
	Teardown  func(env *SuiteEnv) error
	Scenarios []Scenario
}

// SuiteEnv is what a suite's hooks can reach.
type SuiteEnv struct {
	Suite    string
	Fixtures *storage.Fixtures
	Logger   *logrus.Entry
	runner   *Runner
}

// SkipError reports a scenario that decided at run time not to continue.
type SkipError struct{ Reason string }

func (e *SkipError) Error() string { return "skipped: " + e.Reason }

// Skip stops the current scenario and reports it as skipped.
func Skip(reason string) error { return &SkipError{Reason: reason} }

// Options tune a run.
type Options struct {
	BaseURL      string
	WaitTimeout  time.Duration
	PollInterval time.Duration
	DownloadWait time.Duration
	ArtifactsDir string
	FixtureDir   string
	FailFast     bool
	Filter       *regexp.Regexp
}

// Runner executes suites one scenario at a time.
type Runner struct {
	launcher  interfaces.Launcher
	session   entities.SessionConfig
	opts      Options
	logger    *logrus.Logger
	waiter    *wait.Waiter
	executor  *interaction.Executor
	downloads *verify.Downloads
}

// NewRunner - creates a runner that opens sessions through launcher
func NewRunner(launcher interfaces.Launcher, session entities.SessionConfig, opts Options, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Runner{
		launcher:  launcher,
		session:   session,
		opts:      opts,
		logger:    logger,
		waiter:    wait.NewWaiter(opts.WaitTimeout, opts.PollInterval, logger),
		executor:  interaction.NewExecutor(logger),
		downloads: verify.NewDownloads(opts.PollInterval, logger),
	}
}

// Selected returns the scenarios of suite that pass the run filter.
func (r *Runner) Selected(suite Suite) []Scenario {
	var selected []Scenario
	for _, sc := range suite.Scenarios {
		if r.opts.Filter == nil || r.opts.Filter.MatchString(suite.Name+"/"+sc.Name) {
			selected = append(selected, sc)
		}
	}
	return selected
}

// Run executes every suite in order and returns the report. An
// EnvironmentError or, with FailFast, the first failure stops the run.
func (r *Runner) Run(ctx context.Context, suites []Suite) entities.RunReport {
	report := entities.RunReport{
		ID:        uuid.NewString(),
		Backend:   r.session.Backend,
		Browser:   r.session.Browser,
		StartedAt: time.Now(),
	}
	r.logger.WithField("run", report.ID).Infof("Starting run with %d suites", len(suites))

	for _, suite := range suites {
		results, err := r.RunSuite(ctx, suite)
		report.Results = append(report.Results, results...)
		if entities.IsFatal(err) {
			report.Aborted = err.Error()
			r.logger.Errorf("Run aborted: %v", err)
			break
		}
		if ctx.Err() != nil {
			report.Aborted = ctx.Err().Error()
			r.logger.Warnf("Run interrupted: %v", ctx.Err())
			break
		}
		if err != nil {
			break
		}
	}

	report.FinishedAt = time.Now()
	r.logger.WithField("run", report.ID).Infof("Run finished: %d passed, %d failed, %d skipped",
		report.Count(entities.StatusPassed), report.Count(entities.StatusFailed), report.Count(entities.StatusSkipped))
	return report
}

// errStop ends a suite early after a fail-fast failure.
var errStop = errors.New("stopping after first failure")

// RunSuite runs the selected scenarios of suite. The returned error is
// non-nil when the run must stop: an EnvironmentError, the context ending,
// or errStop under FailFast.
func (r *Runner) RunSuite(ctx context.Context, suite Suite) (results []entities.ScenarioResult, err error) {
	selected := r.Selected(suite)
	if len(selected) == 0 {
		return nil, nil
	}
	logger := r.logger.WithField("suite", suite.Name)

	fixtures, err := storage.NewFixtures(r.opts.FixtureDir)
	if err != nil {
		return nil, entities.NewEnvironmentError("fixtures", err)
	}
	env := &SuiteEnv{Suite: suite.Name, Fixtures: fixtures, Logger: logger, runner: r}

	defer func() {
		if suite.Teardown != nil {
			if terr := protect(func() error { return suite.Teardown(env) }); terr != nil {
				logger.Warnf("Suite teardown failed: %v", terr)
			}
		}
		if cerr := fixtures.Cleanup(); cerr != nil {
			logger.Warnf("Failed to clean up fixtures: %v", cerr)
		}
	}()

	if suite.Setup != nil {
		if serr := protect(func() error { return suite.Setup(env) }); serr != nil {
			if entities.IsFatal(serr) {
				return nil, serr
			}
			serr = fmt.Errorf("suite setup: %w", serr)
			logger.Errorf("%v", serr)
			for _, sc := range selected {
				results = append(results, r.failedResult(suite, sc, serr))
			}
			if r.opts.FailFast {
				return results, errStop
			}
			return results, nil
		}
	}

	cfg := r.session
	if cfg.DownloadDir == "" {
		cfg = cfg.WithDownloadDir(fixtures.Dir())
	}

	// record returns errStop or the fatal error once the run must end.
	record := func(res entities.ScenarioResult, scErr error) error {
		results = append(results, res)
		if entities.IsFatal(scErr) {
			return scErr
		}
		if res.Status == entities.StatusFailed && r.opts.FailFast {
			return errStop
		}
		return nil
	}

	if suite.Scope == ScopeSuite {
		runnable := false
		for _, sc := range selected {
			if sc.Skip == "" {
				runnable = true
			}
		}
		if !runnable {
			for _, sc := range selected {
				results = append(results, r.skippedResult(suite, sc, sc.Skip))
			}
			return results, nil
		}

		opened := false
		openErr := WithSession(ctx, r.launcher, cfg, r.logger, func(s interfaces.Session) error {
			opened = true
			for _, sc := range selected {
				if err := ctx.Err(); err != nil {
					return err
				}
				if sc.Skip != "" {
					results = append(results, r.skippedResult(suite, sc, sc.Skip))
					continue
				}
				res, scErr := r.runScenario(ctx, env, sc, s)
				if stop := record(res, scErr); stop != nil {
					return stop
				}
			}
			return nil
		})
		if openErr != nil && !opened {
			// the shared session never opened
			for _, sc := range selected {
				results = append(results, r.failedResult(suite, sc, openErr))
			}
		}
		return results, openErr
	}

	for _, sc := range selected {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if sc.Skip != "" {
			results = append(results, r.skippedResult(suite, sc, sc.Skip))
			continue
		}
		var (
			res   entities.ScenarioResult
			scErr error
		)
		openErr := WithSession(ctx, r.launcher, cfg, r.logger, func(s interfaces.Session) error {
			res, scErr = r.runScenario(ctx, env, sc, s)
			return nil
		})
		if openErr != nil {
			res, scErr = r.failedResult(suite, sc, openErr), openErr
		}
		if stop := record(res, scErr); stop != nil {
			return results, stop
		}
	}
	return results, nil
}

// runScenario drives one scenario over s. Failures are converted into the
// result; the returned error is the scenario's own failure, if any.
func (r *Runner) runScenario(ctx context.Context, env *SuiteEnv, sc Scenario, s interfaces.Session) (entities.ScenarioResult, error) {
	res := entities.ScenarioResult{
		ID:        uuid.NewString(),
		Suite:     env.Suite,
		Name:      sc.Name,
		SessionID: s.ID(),
		StartedAt: time.Now(),
	}
	logger := env.Logger.WithFields(logrus.Fields{"scenario": sc.Name, "session": s.ID()})
	flow := newFlow(s, env, &res, logger)

	logger.Info("Running scenario")
	err := protect(func() error { return sc.Run(ctx, flow) })
	if err == nil && flow.Stage() != entities.StageVerified {
		err = entities.NewAssertionError("scenario ends verified", string(entities.StageVerified), string(flow.Stage()))
	}

	var skip *SkipError
	switch {
	case errors.As(err, &skip):
		res.Status = entities.StatusSkipped
		res.SkipReason = skip.Reason
		err = nil
		logger.Infof("Scenario skipped: %s", skip.Reason)
	case err != nil:
		res.Status = entities.StatusFailed
		shotCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		flow.fail(shotCtx, err)
		cancel()
		logger.WithField("kind", res.ErrorKind).Errorf("Scenario failed: %v", err)
	default:
		res.Status = entities.StatusPassed
		logger.Info("Scenario passed")
	}

	flow.close()
	res.Duration = time.Since(res.StartedAt)
	return res, err
}

func (r *Runner) skippedResult(suite Suite, sc Scenario, reason string) entities.ScenarioResult {
	r.logger.WithFields(logrus.Fields{"suite": suite.Name, "scenario": sc.Name}).Infof("Scenario skipped: %s", reason)
	return entities.ScenarioResult{
		ID:         uuid.NewString(),
		Suite:      suite.Name,
		Name:       sc.Name,
		Status:     entities.StatusSkipped,
		SkipReason: reason,
		StartedAt:  time.Now(),
	}
}

func (r *Runner) failedResult(suite Suite, sc Scenario, err error) entities.ScenarioResult {
	return entities.ScenarioResult{
		ID:        uuid.NewString(),
		Suite:     suite.Name,
		Name:      sc.Name,
		Status:    entities.StatusFailed,
		Stages:    []entities.Stage{entities.StageInit, entities.StageFailed, entities.StageClosed},
		ErrorKind: entities.ClassifyError(err),
		Error:     err.Error(),
		StartedAt: time.Now(),
	}
}
