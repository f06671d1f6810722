package entities

// FixtureFile is a file written before a suite runs and removed afterwards.
type FixtureFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content []byte `json:"-"`
}
