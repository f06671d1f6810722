package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"practice_automation/domain/entities"
)

// DefaultFixtureDir - returns ~/Downloads/selenium_tests
func DefaultFixtureDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, "Downloads", "selenium_tests")
}

// Fixtures owns the files a suite writes before it runs
type Fixtures struct {
	dir   string
	mu    sync.Mutex
	files map[string]entities.FixtureFile
	order []string
}

// NewFixtures - creates dir if needed and returns an empty fixture set
func NewFixtures(dir string) (*Fixtures, error) {
	if dir == "" {
		dir = DefaultFixtureDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create fixture directory: %w", err)
	}
	return &Fixtures{dir: dir, files: make(map[string]entities.FixtureFile)}, nil
}

// Dir - the directory fixtures are written to
func (f *Fixtures) Dir() string {
	return f.dir
}

// Create - writes content to dir/name, replacing any previous file
func (f *Fixtures) Create(name string, content []byte) (entities.FixtureFile, error) {
	path := filepath.Join(f.dir, filepath.Base(name))
	if err := os.WriteFile(path, content, 0644); err != nil {
		return entities.FixtureFile{}, fmt.Errorf("failed to write fixture %s: %w", name, err)
	}

	fixture := entities.FixtureFile{Name: filepath.Base(name), Path: path, Content: content}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[fixture.Name]; !ok {
		f.order = append(f.order, fixture.Name)
	}
	f.files[fixture.Name] = fixture
	return fixture, nil
}

// Get - returns the fixture called name
func (f *Fixtures) Get(name string) (entities.FixtureFile, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fixture, ok := f.files[name]
	return fixture, ok
}

// Cleanup - removes every created fixture, then the directory if it is empty.
// Files the suite did not create (downloads) are left alone.
func (f *Fixtures) Cleanup() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for _, name := range f.order {
		if err := os.Remove(f.files[name].Path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	f.files = make(map[string]entities.FixtureFile)
	f.order = nil

	if entries, err := os.ReadDir(f.dir); err == nil && len(entries) == 0 {
		if err := os.Remove(f.dir); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
