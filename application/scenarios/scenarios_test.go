package scenarios

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice_automation/application/harness"
	"practice_automation/domain/entities"
	"practice_automation/infrastructure/browser/simulated"
	"practice_automation/infrastructure/config"
)

type fixture struct {
	launcher  *simulated.Launcher
	artifacts string
	downloads string
}

func newFixture(t *testing.T, opts ...simulated.Option) *fixture {
	t.Helper()
	return &fixture{
		launcher:  simulated.NewLauncher(opts...),
		artifacts: t.TempDir(),
		downloads: filepath.Join(t.TempDir(), "selenium_tests"),
	}
}

func (fx *fixture) run(t *testing.T, filter string, suites ...harness.Suite) entities.RunReport {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts := harness.Options{
		BaseURL:      config.DefaultBaseURL,
		WaitTimeout:  2 * time.Second,
		PollInterval: 5 * time.Millisecond,
		DownloadWait: 2 * time.Second,
		ArtifactsDir: fx.artifacts,
		FixtureDir:   fx.downloads,
	}
	if filter != "" {
		opts.Filter = regexp.MustCompile(filter)
	}
	cfg := entities.SessionConfig{Backend: entities.BackendSimulated, Browser: entities.BrowserFirefox}
	return harness.NewRunner(fx.launcher, cfg, opts, logger).Run(context.Background(), suites)
}

func byName(report entities.RunReport) map[string]entities.ScenarioResult {
	out := make(map[string]entities.ScenarioResult)
	for _, res := range report.Results {
		out[res.FullName()] = res
	}
	return out
}

func TestAllSuitesPassAgainstSimulatedSite(t *testing.T) {
	fx := newFixture(t, simulated.WithScriptDelay(20*time.Millisecond), simulated.WithDownloadDelay(30*time.Millisecond))
	report := fx.run(t, "", All()...)

	for _, res := range report.Results {
		if res.Status == entities.StatusFailed {
			t.Errorf("%s failed: %s", res.FullName(), res.Error)
		}
	}
	assert.True(t, report.Succeeded())
	assert.Len(t, report.Results, len(Names(All())))

	results := byName(report)
	rightClick := results["buttons/right_click_me"]
	assert.Equal(t, entities.StatusSkipped, rightClick.Status)
	assert.Equal(t, RightClickSkipReason, rightClick.SkipReason)

	for _, sess := range fx.launcher.Sessions() {
		assert.Equal(t, 1, sess.CloseCalls())
	}
	// buttons and radio and textbox get one session per scenario, transfer shares one
	assert.Len(t, fx.launcher.Sessions(), 4+1+1+1)
}

func TestButtonsSequenceStages(t *testing.T) {
	fx := newFixture(t)
	report := fx.run(t, "^buttons/sequence$", Buttons())
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Equal(t, entities.StatusPassed, res.Status)
	assert.Equal(t, []entities.Stage{
		entities.StageInit, entities.StageNavigated,
		entities.StageLocated, entities.StageActed, entities.StageLocated, entities.StageVerified,
		entities.StageLocated, entities.StageActed, entities.StageLocated, entities.StageVerified,
		entities.StageClosed,
	}, res.Stages)
	assert.Contains(t, res.Observed, "id=doublec: You have Double clicked")
}

func TestTextBoxLeavesSuccessScreenshot(t *testing.T) {
	fx := newFixture(t)
	report := fx.run(t, "^textbox/", TextBox())
	require.Len(t, report.Results, 1)
	assert.Equal(t, entities.StatusPassed, report.Results[0].Status, report.Results[0].Error)
	assert.FileExists(t, filepath.Join(fx.artifacts, FormSuccessCapture))
}

func TestTransferDownloadsBesideFixtures(t *testing.T) {
	fx := newFixture(t, simulated.WithDownloadDelay(20*time.Millisecond))
	report := fx.run(t, "", Transfer())

	for _, res := range report.Results {
		assert.Equal(t, entities.StatusPassed, res.Status, "%s: %s", res.FullName(), res.Error)
	}
	require.Len(t, fx.launcher.Sessions(), 1)

	// fixtures are gone, both downloads stay under collision-free names
	entries, err := os.ReadDir(fx.downloads)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"sampleFile(1).jpeg", "sampleFile(2).jpeg"}, names)
}

func TestMissingMessageFailsWithTimeout(t *testing.T) {
	site := simulated.PracticeSite()
	page := site[ButtonsPage]
	page.Handlers = nil
	site[ButtonsPage] = page

	fx := newFixture(t, simulated.WithSite(site))
	logger, _ := test.NewNullLogger()
	opts := harness.Options{
		BaseURL:      config.DefaultBaseURL,
		WaitTimeout:  50 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
		ArtifactsDir: fx.artifacts,
		FixtureDir:   fx.downloads,
		Filter:       regexp.MustCompile("^buttons/click_me$"),
	}
	cfg := entities.SessionConfig{Backend: entities.BackendSimulated}
	report := harness.NewRunner(fx.launcher, cfg, opts, logger).Run(context.Background(), []harness.Suite{Buttons()})

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.KindTimeout, res.ErrorKind)
	assert.FileExists(t, filepath.Join(fx.artifacts, "buttons_click_me_failure.png"))
}

func TestNames(t *testing.T) {
	names := Names(All())
	assert.Contains(t, names, "buttons/right_click_me")
	assert.Contains(t, names, "transfer/upload_and_download")
	assert.Equal(t, "buttons/title", names[0])
}

func TestRadio_NoOptionSelectedFails(t *testing.T) {
	site := simulated.PracticeSite()
	page := site[RadioPage]
	// this variant selects "No" when its container is clicked
	page.Handlers = append(page.Handlers, simulated.Handler{
		Event: simulated.EventClick,
		Match: "div.form-check:has(#no)",
		Run: func(env *simulated.Env, _ *goquery.Selection) {
			env.Doc.Find("#no").SetAttr("checked", "")
		},
	})
	site[RadioPage] = page

	fx := newFixture(t, simulated.WithSite(site))
	report := fx.run(t, "", Radio())

	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, entities.StatusFailed, res.Status)
	assert.Equal(t, entities.KindAssertion, res.ErrorKind)
	assert.Contains(t, res.Error, `"No" option stays unselected`)
}
