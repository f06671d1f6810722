//go:build e2e

package scenarios

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"practice_automation/application/harness"
	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/browser"
	"practice_automation/infrastructure/config"
)

// LiveSuite runs every suite against the real practice site with the
// backend from the environment (E2E_BACKEND, HEADLESS, ...).
type LiveSuite struct {
	suite.Suite
	cfg      config.Config
	launcher interfaces.Launcher
	logger   *logrus.Logger
}

func (s *LiveSuite) SetupSuite() {
	cfg, err := config.Load()
	s.Require().NoError(err)
	if cfg.Backend == entities.BackendSimulated {
		s.T().Skip("E2E_BACKEND=simulated has nothing live to test")
	}
	s.cfg = cfg
	s.cfg.ArtifactsDir = s.T().TempDir()

	s.logger = logrus.New()
	s.logger.SetOutput(os.Stderr)
	s.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	s.launcher, err = browser.NewLauncher(cfg.Backend, s.logger)
	s.Require().NoError(err)
}

func (s *LiveSuite) run(hs harness.Suite) {
	runner := harness.NewRunner(s.launcher, s.cfg.SessionConfig(), harness.Options{
		BaseURL:      s.cfg.BaseURL,
		WaitTimeout:  s.cfg.WaitTimeout,
		PollInterval: s.cfg.PollInterval,
		DownloadWait: s.cfg.DownloadWait,
		ArtifactsDir: s.cfg.ArtifactsDir,
		FixtureDir:   s.cfg.FixtureDir,
	}, s.logger)

	report := runner.Run(context.Background(), []harness.Suite{hs})
	s.Require().Empty(report.Aborted, "browser could not be started")
	for _, res := range report.Results {
		if res.Status == entities.StatusFailed {
			s.Failf("scenario failed", "%s [%s]: %s", res.FullName(), res.ErrorKind, res.Error)
		}
	}
}

func (s *LiveSuite) TestButtons()  { s.run(Buttons()) }
func (s *LiveSuite) TestRadio()    { s.run(Radio()) }
func (s *LiveSuite) TestTextBox()  { s.run(TextBox()) }
func (s *LiveSuite) TestTransfer() { s.run(Transfer()) }

func TestLive(t *testing.T) {
	suite.Run(t, new(LiveSuite))
}
