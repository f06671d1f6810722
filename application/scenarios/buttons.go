package scenarios

import (
	"context"
	"fmt"

	"practice_automation/application/harness"
	"practice_automation/application/verify"
	"practice_automation/application/wait"
)

// RightClickSkipReason explains the disabled context-click scenario.
const RightClickSkipReason = "context click on the practice page shows no stable message"

// Buttons checks the click, double click and right click buttons. Every
// scenario gets its own browser.
func Buttons() harness.Suite {
	return harness.Suite{
		Name:  "buttons",
		Scope: harness.ScopeScenario,
		Scenarios: []harness.Scenario{
			{Name: "title", Run: buttonsTitle},
			{Name: "click_me", Run: openButtons(clickMe)},
			{Name: "right_click_me", Skip: RightClickSkipReason, Run: openButtons(rightClickMe)},
			{Name: "double_click_me", Run: openButtons(doubleClickMe)},
			{Name: "sequence", Run: openButtons(func(ctx context.Context, f *harness.Flow) error {
				if err := clickMe(ctx, f); err != nil {
					return err
				}
				return doubleClickMe(ctx, f)
			})},
		},
	}
}

func openButtons(step func(ctx context.Context, f *harness.Flow) error) func(ctx context.Context, f *harness.Flow) error {
	return func(ctx context.Context, f *harness.Flow) error {
		if err := f.Open(ctx, ButtonsPage); err != nil {
			return err
		}
		return step(ctx, f)
	}
}

func buttonsTitle(ctx context.Context, f *harness.Flow) error {
	if err := f.Open(ctx, ButtonsPage); err != nil {
		return err
	}
	if _, err := f.Locate(ctx, wait.Present(AnyButton)); err != nil {
		return err
	}
	if err := f.ExpectTitleEquals(ctx, ButtonsTitle); err != nil {
		return err
	}

	buttons, err := f.LocateAll(ctx, AnyButton)
	if err != nil {
		return err
	}
	if len(buttons) < len(ButtonLabels) {
		if buttons, err = f.Session().FindAll(ctx, ButtonLike); err != nil {
			return err
		}
	}
	if err := verify.AtLeast("number of buttons", len(buttons), len(ButtonLabels)); err != nil {
		return err
	}
	f.Observe("Found %d buttons", len(buttons))

	texts := make([]string, 0, len(ButtonLabels))
	for _, btn := range buttons[:len(ButtonLabels)] {
		text, err := btn.Text(ctx)
		if err != nil {
			return err
		}
		texts = append(texts, text)
	}
	for _, label := range ButtonLabels {
		if err := verify.AnyContains(fmt.Sprintf("button labelled %q", label), label, texts...); err != nil {
			return err
		}
	}
	return f.Check(nil)
}

func clickMe(ctx context.Context, f *harness.Flow) error {
	btn, err := f.Locate(ctx, wait.Clickable(ClickMeButton))
	if err != nil {
		return err
	}
	if err := f.Click(ctx, btn); err != nil {
		return err
	}
	return f.ExpectText(ctx, ClickMessage, ClickMessageText)
}

func doubleClickMe(ctx context.Context, f *harness.Flow) error {
	btn, err := f.Locate(ctx, wait.Clickable(DoubleClickMeButton))
	if err != nil {
		return err
	}
	if err := f.DoubleClick(ctx, btn); err != nil {
		return err
	}
	return f.ExpectText(ctx, DoubleClickMessage, DoubleClickMessageText)
}

func rightClickMe(ctx context.Context, f *harness.Flow) error {
	btn, err := f.Locate(ctx, wait.Clickable(RightClickMeButton))
	if err != nil {
		return err
	}
	if err := f.ContextClick(ctx, btn); err != nil {
		return err
	}
	return f.ExpectText(ctx, DoubleClickMessage, "You have")
}
