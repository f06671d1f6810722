package interaction

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
	"practice_automation/infrastructure/browser/simulated"
)

const base = "https://www.tutorialspoint.com/selenium/practice/"

func setup(t *testing.T, page string) (interfaces.Session, *Executor, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s, err := simulated.NewLauncher().Open(context.Background(), entities.SessionConfig{})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Navigate(context.Background(), base+page))
	return s, NewExecutor(logger), hook
}

func find(t *testing.T, s interfaces.Session, sel entities.Selector) interfaces.Element {
	t.Helper()
	el, err := s.Find(context.Background(), sel)
	require.NoError(t, err)
	return el
}

func TestExecutor_ClickLogsGesture(t *testing.T) {
	ctx := context.Background()
	s, x, hook := setup(t, "buttons.php")

	require.NoError(t, x.Click(ctx, find(t, s, entities.ID("clickme"))))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, entities.GestureClick, entry.Data["gesture"])
	assert.Equal(t, "id=clickme", entry.Data["selector"])

	text, err := find(t, s, entities.ID("welcomeDiv")).Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "You have done a dynamic click")
}

func TestExecutor_RejectsHiddenTarget(t *testing.T) {
	ctx := context.Background()
	s, x, hook := setup(t, "buttons.php")

	err := x.Click(ctx, find(t, s, entities.ID("doublec")))
	var notInteractable *entities.ElementNotInteractableError
	require.ErrorAs(t, err, &notInteractable)
	assert.Equal(t, entities.GestureClick, notInteractable.Gesture)
	assert.False(t, notInteractable.State.IsVisible)
	assert.Empty(t, hook.AllEntries(), "no gesture is dispatched")
}

func TestExecutor_RejectsDisabledTarget(t *testing.T) {
	ctx := context.Background()
	s, x, _ := setup(t, "radio-button.php")

	no := find(t, s, entities.CSS("input[value='igotfour']"))
	for _, gesture := range []func(context.Context, interfaces.Element) error{x.Click, x.DoubleClick, x.ContextClick} {
		assert.ErrorIs(t, gesture(ctx, no), entities.ErrNotInteractable)
	}
}

func TestExecutor_TypeTextReplacesValue(t *testing.T) {
	ctx := context.Background()
	s, x, _ := setup(t, "text-box.php")

	email := find(t, s, entities.ID("email"))
	require.NoError(t, x.TypeText(ctx, email, "old@example.com"))
	require.NoError(t, x.TypeText(ctx, email, "test@example.com"))

	value, err := email.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", value)
}

func TestExecutor_FileInput(t *testing.T) {
	ctx := context.Background()
	s, x, _ := setup(t, "upload-download.php")
	input := find(t, s, entities.ID("uploadFile"))

	fixture := filepath.Join(t.TempDir(), "sampleFile.jpeg")
	require.NoError(t, os.WriteFile(fixture, []byte{0xff, 0xd8}, 0644))

	require.NoError(t, x.SetFileInput(ctx, input, fixture))
	value, err := input.Attribute(ctx, "value")
	require.NoError(t, err)
	assert.Contains(t, value, "sampleFile.jpeg")

	require.NoError(t, x.ClearFileInput(ctx, s, input))
	value, _ = input.Attribute(ctx, "value")
	assert.Empty(t, value)

	assert.Error(t, x.SetFileInput(ctx, input, filepath.Join(t.TempDir(), "missing.txt")))
}

// scriptSession records page scripts and answers them with result.
type scriptSession struct {
	interfaces.Session
	scripts []string
	result  interface{}
}

func (s *scriptSession) ExecuteScript(ctx context.Context, script string) (interface{}, error) {
	s.scripts = append(s.scripts, script)
	return s.result, nil
}

func TestExecutor_ClearFileInputRunsScript(t *testing.T) {
	ctx := context.Background()
	s, x, hook := setup(t, "upload-download.php")
	input := find(t, s, entities.ID("uploadFile"))

	scripted := &scriptSession{Session: s, result: true}
	require.NoError(t, x.ClearFileInput(ctx, scripted, input))
	require.Len(t, scripted.scripts, 1)
	assert.Contains(t, scripted.scripts[0], `document.querySelector("#uploadFile")`)
	assert.Contains(t, scripted.scripts[0], "el.value = '';")
	assert.Equal(t, entities.GestureClearFile, hook.LastEntry().Data["gesture"])

	scripted.result = false
	assert.ErrorIs(t, x.ClearFileInput(ctx, scripted, input), entities.ErrNoSuchElement)
}

func TestClearValueScript_XPathLiteral(t *testing.T) {
	script, err := clearValueScript(entities.XPath(`//input[@name="upload"]`))
	require.NoError(t, err)
	assert.Contains(t, script, `document.evaluate("//input[@name=\"upload\"]", document`)
}
