package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_CanTransition(t *testing.T) {
	legal := [][2]Stage{
		{StageInit, StageNavigated},
		{StageNavigated, StageLocated},
		{StageLocated, StageActed},
		{StageActed, StageVerified},
		{StageVerified, StageLocated},
		{StageVerified, StageNavigated},
		{StageLocated, StageFailed},
		{StageFailed, StageClosed},
		{StageVerified, StageClosed},
		{StageInit, StageClosed},
	}
	for _, tr := range legal {
		assert.True(t, tr[0].CanTransition(tr[1]), "%s -> %s", tr[0], tr[1])
	}

	illegal := [][2]Stage{
		{StageInit, StageActed},
		{StageNavigated, StageActed},
		{StageVerified, StageActed},
		{StageFailed, StageFailed},
		{StageFailed, StageNavigated},
		{StageClosed, StageNavigated},
		{StageClosed, StageClosed},
	}
	for _, tr := range illegal {
		assert.False(t, tr[0].CanTransition(tr[1]), "%s -> %s", tr[0], tr[1])
	}
}

func TestClassifyError(t *testing.T) {
	env := NewEnvironmentError("geckodriver", errors.New("not found"))
	timeout := &TimeoutError{Condition: "text", LastObserved: "empty"}
	hidden := &ElementNotInteractableError{Gesture: GestureClick, State: ElementState{Selector: ID("doublec")}}
	mismatch := NewAssertionError("title", "Buttons", "Forms")

	assert.Equal(t, KindEnvironment, ClassifyError(fmt.Errorf("open: %w", env)))
	assert.Equal(t, KindTimeout, ClassifyError(timeout))
	assert.Equal(t, KindNotInteractable, ClassifyError(hidden))
	assert.Equal(t, KindAssertion, ClassifyError(mismatch))
	assert.Equal(t, KindOther, ClassifyError(errors.New("boom")))
	assert.Equal(t, ErrorKind(""), ClassifyError(nil))

	assert.True(t, IsFatal(env))
	assert.False(t, IsFatal(timeout))
	assert.Contains(t, timeout.Error(), "last observed: empty")
	assert.Contains(t, hidden.Error(), "id=doublec")
}

func TestGestureType_RequiresPointer(t *testing.T) {
	assert.True(t, GestureClick.RequiresPointer())
	assert.True(t, GestureTypeText.RequiresPointer())
	assert.False(t, GestureSetFile.RequiresPointer())
	assert.False(t, GestureClearFile.RequiresPointer())
}

func TestSelector_CSSQuery(t *testing.T) {
	q, ok := ID("welcomeDiv").CSSQuery()
	assert.True(t, ok)
	assert.Equal(t, "#welcomeDiv", q)

	_, ok = XPath("//button").CSSQuery()
	assert.False(t, ok)
	assert.Equal(t, "xpath=//button", XPath("//button").String())
}

func TestDirSnapshot_Diff(t *testing.T) {
	before := DirSnapshot{Files: map[string]FileInfo{
		"sampleFile.jpeg": {Name: "sampleFile.jpeg", Size: 10},
	}}
	after := DirSnapshot{Files: map[string]FileInfo{
		"sampleFile.jpeg":    {Name: "sampleFile.jpeg", Size: 20},
		"sampleFile(1).jpeg": {Name: "sampleFile(1).jpeg", Size: 10},
	}}

	assert.Empty(t, before.Diff(before))
	assert.Equal(t, []FileInfo{{Name: "sampleFile(1).jpeg", Size: 10}}, before.Diff(after))
	assert.Equal(t, []string{"sampleFile(1).jpeg", "sampleFile.jpeg"}, after.Names())
}

func TestRunReport_Succeeded(t *testing.T) {
	r := RunReport{Results: []ScenarioResult{
		{Status: StatusPassed},
		{Status: StatusSkipped},
	}}
	assert.True(t, r.Succeeded())
	assert.Equal(t, 1, r.Count(StatusSkipped))

	r.Aborted = "environment error"
	assert.False(t, r.Succeeded())

	res := ScenarioResult{Suite: "buttons", Name: "click_me"}
	assert.Equal(t, "buttons/click_me", res.FullName())
	assert.Equal(t, StageInit, res.FinalStage())
}

func TestSessionConfig_WithDownloadDir(t *testing.T) {
	c := SessionConfig{}.WithDownloadDir("/tmp/dl")
	assert.Equal(t, "/tmp/dl", c.DownloadDir)
	assert.Equal(t, DefaultAutoSaveMIMETypes, c.AutoSaveMIMETypes)

	w, h := c.WindowSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}
