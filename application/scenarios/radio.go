package scenarios

import (
	"context"

	"practice_automation/application/harness"
	"practice_automation/application/wait"
	"practice_automation/domain/entities"
)

// Radio clicks through the radio options in one pipeline.
func Radio() harness.Suite {
	return harness.Suite{
		Name:  "radio",
		Scope: harness.ScopeScenario,
		Scenarios: []harness.Scenario{
			{Name: "radio_buttons", Run: radioButtons},
		},
	}
}

func radioButtons(ctx context.Context, f *harness.Flow) error {
	if err := f.Open(ctx, RadioPage); err != nil {
		return err
	}

	if err := clickRadio(ctx, f, RadioYes); err != nil {
		return err
	}
	if err := f.ExpectText(ctx, YesMessage, YesMessageText); err != nil {
		return err
	}

	if err := clickRadio(ctx, f, RadioImpressive); err != nil {
		return err
	}
	if err := f.ExpectText(ctx, ImpressiveMsg, ImpressiveMessageText); err != nil {
		return err
	}

	// "No" is disabled on the page: clicking its container selects nothing
	wrapper, err := f.Locate(ctx, wait.Present(RadioNo))
	if err != nil {
		return err
	}
	if err := f.Click(ctx, wrapper); err != nil {
		return err
	}
	no, err := f.Locate(ctx, wait.Present(RadioNoInput))
	if err != nil {
		return err
	}
	selected, err := no.IsSelected(ctx)
	if err != nil {
		return err
	}
	if selected {
		return entities.NewAssertionError("\"No\" option stays unselected", "false", "true")
	}
	f.Observe("\"No\" option is not selectable")
	return f.Check(nil)
}

func clickRadio(ctx context.Context, f *harness.Flow, sel entities.Selector) error {
	radio, err := f.Locate(ctx, wait.Clickable(sel))
	if err != nil {
		return err
	}
	return f.Click(ctx, radio)
}
