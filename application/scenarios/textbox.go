package scenarios

import (
	"context"

	"practice_automation/application/harness"
	"practice_automation/application/wait"
)

// TextBox fills and submits the text box form.
func TextBox() harness.Suite {
	return harness.Suite{
		Name:  "textbox",
		Scope: harness.ScopeScenario,
		Scenarios: []harness.Scenario{
			{Name: "fill_form", Run: fillForm},
		},
	}
}

func fillForm(ctx context.Context, f *harness.Flow) error {
	if err := f.Open(ctx, TextBoxPage); err != nil {
		return err
	}

	for _, field := range FormValues {
		el, err := f.Locate(ctx, wait.Present(field.Field))
		if err != nil {
			return err
		}
		if err := f.TypeText(ctx, el, field.Value); err != nil {
			return err
		}
	}

	submit, err := f.Locate(ctx, wait.Clickable(SubmitButton))
	if err != nil {
		return err
	}
	if err := f.Click(ctx, submit); err != nil {
		return err
	}

	if err := f.ExpectTitle(ctx, SiteTitle); err != nil {
		return err
	}
	if err := f.ExpectURL(ctx, TextBoxPage); err != nil {
		return err
	}
	_, err = f.Screenshot(ctx, FormSuccessCapture)
	return err
}
