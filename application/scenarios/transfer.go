package scenarios

import (
	"context"
	"fmt"
	"strings"

	"practice_automation/application/harness"
	"practice_automation/application/verify"
	"practice_automation/application/wait"
	"practice_automation/domain/entities"
	"practice_automation/domain/interfaces"
)

// Transfer exercises the upload input and the download link. The suite
// shares one browser whose downloads land in the fixture directory, so
// every download check diffs the directory instead of expecting a name.
func Transfer() harness.Suite {
	return harness.Suite{
		Name:  "transfer",
		Scope: harness.ScopeSuite,
		Setup: func(env *harness.SuiteEnv) error {
			if _, err := env.Fixtures.Create(TextFixture, TextFixtureContent); err != nil {
				return err
			}
			_, err := env.Fixtures.Create(ImageFixture, ImageFixtureContent)
			return err
		},
		Scenarios: []harness.Scenario{
			{Name: "download", Run: download},
			{Name: "upload_text", Run: uploadText},
			{Name: "upload_image", Run: uploadImage},
			{Name: "upload_and_download", Run: uploadAndDownload},
		},
	}
}

func fixturePath(f *harness.Flow, name string) (string, error) {
	fixture, ok := f.Fixtures().Get(name)
	if !ok {
		return "", fmt.Errorf("fixture %s was not created", name)
	}
	return fixture.Path, nil
}

func download(ctx context.Context, f *harness.Flow) error {
	if err := f.Open(ctx, UploadDownloadPage); err != nil {
		return err
	}
	if err := f.ExpectTitle(ctx, "Selenium"); err != nil {
		return err
	}
	return clickDownload(ctx, f)
}

func clickDownload(ctx context.Context, f *harness.Flow) error {
	before, err := f.Snapshot()
	if err != nil {
		return err
	}
	btn, err := f.Locate(ctx, wait.Clickable(DownloadButton))
	if err != nil {
		return err
	}
	if err := f.Click(ctx, btn); err != nil {
		return err
	}
	_, err = f.AwaitDownload(ctx, before)
	return err
}

// uploadInput opens the page and returns the file input.
func uploadInput(ctx context.Context, f *harness.Flow) (interfaces.Element, error) {
	if err := f.Open(ctx, UploadDownloadPage); err != nil {
		return nil, err
	}
	return f.Locate(ctx, wait.Present(UploadInput))
}

// expectSelected checks the input now holds name. Browsers report the
// selection as a fake path in the value; the page body is the fallback.
func expectSelected(ctx context.Context, f *harness.Flow, input interfaces.Element, name string) error {
	value, err := input.Attribute(ctx, "value")
	if err != nil {
		return err
	}
	if value != "" {
		f.Observe("File selected: %s", value)
		return f.Check(verify.TextContains("file input value", value, name))
	}

	body, err := f.Session().Find(ctx, PageBody)
	if err != nil {
		return err
	}
	text, err := body.Text(ctx)
	if err != nil {
		return err
	}
	return f.Check(verify.TextContains("page text after upload", text, name))
}

// observeLabel notes the upload label when the page shows the file name.
func observeLabel(ctx context.Context, f *harness.Flow, name string) {
	label, err := f.Session().Find(ctx, UploadLabel)
	if err != nil {
		return
	}
	if text, err := label.Text(ctx); err == nil && strings.Contains(text, name) {
		f.Observe("File shown in label: %s", text)
	}
}

func uploadText(ctx context.Context, f *harness.Flow) error {
	path, err := fixturePath(f, TextFixture)
	if err != nil {
		return err
	}
	input, err := uploadInput(ctx, f)
	if err != nil {
		return err
	}
	if err := f.SetFileInput(ctx, input, path); err != nil {
		return err
	}
	if err := expectSelected(ctx, f, input, TextFixture); err != nil {
		return err
	}
	observeLabel(ctx, f, TextFixture)
	return nil
}

func uploadImage(ctx context.Context, f *harness.Flow) error {
	path, err := fixturePath(f, ImageFixture)
	if err != nil {
		return err
	}
	input, err := uploadInput(ctx, f)
	if err != nil {
		return err
	}
	if err := f.ClearFileInput(ctx, input); err != nil {
		return err
	}
	if err := f.SetFileInput(ctx, input, path); err != nil {
		return err
	}

	value, err := input.Attribute(ctx, "value")
	if err != nil {
		return err
	}
	if value == "" {
		return entities.NewAssertionError("file input holds a selection", ImageFixture, "")
	}
	return expectSelected(ctx, f, input, ImageFixture)
}

func uploadAndDownload(ctx context.Context, f *harness.Flow) error {
	path, err := fixturePath(f, TextFixture)
	if err != nil {
		return err
	}
	input, err := uploadInput(ctx, f)
	if err != nil {
		return err
	}
	if err := f.SetFileInput(ctx, input, path); err != nil {
		return err
	}
	value, err := input.Attribute(ctx, "value")
	if err != nil {
		return err
	}
	if err := f.Check(verify.AnyContains("upload before download", TextFixture, value)); err != nil {
		return err
	}
	return clickDownload(ctx, f)
}
