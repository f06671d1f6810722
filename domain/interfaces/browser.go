package interfaces

import (
	"context"

	"practice_automation/domain/entities"
)

// Launcher opens browser sessions
type Launcher interface {
	// Open starts a browser with the given configuration
	Open(ctx context.Context, cfg entities.SessionConfig) (Session, error)
}

// Session is one browser instance, owned by the scenario or suite that opened it
type Session interface {
	// ID identifies the session in logs and reports
	ID() string

	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Title returns the current page title
	Title(ctx context.Context) (string, error)

	// CurrentURL returns the current page URL
	CurrentURL(ctx context.Context) (string, error)

	// Find locates the first element matching the selector.
	// It returns entities.ErrNoSuchElement when nothing matches.
	Find(ctx context.Context, sel entities.Selector) (Element, error)

	// FindAll locates every element matching the selector
	FindAll(ctx context.Context, sel entities.Selector) ([]Element, error)

	// ExecuteScript runs script as the body of a function in the page;
	// a "return" statement yields the result
	ExecuteScript(ctx context.Context, script string) (interface{}, error)

	// Screenshot captures the viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// DownloadDir is where the session saves downloads, empty if none
	DownloadDir() string

	// Close terminates the browser; safe to call more than once
	Close() error
}

// Element is a handle to a DOM node, valid only while its session is open
type Element interface {
	Selector() entities.Selector

	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	State(ctx context.Context) (entities.ElementState, error)
	IsSelected(ctx context.Context) (bool, error)

	Click(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	ContextClick(ctx context.Context) error
	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error

	// SetFiles injects paths into a file input; no paths clears the selection
	SetFiles(ctx context.Context, paths ...string) error
}
