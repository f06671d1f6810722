package entities

import (
	"sort"
	"time"
)

// FileInfo is one file captured in a directory snapshot.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// DirSnapshot is the set of files in a directory at one instant.
type DirSnapshot struct {
	Dir   string              `json:"dir"`
	Taken time.Time           `json:"taken"`
	Files map[string]FileInfo `json:"files"`
}

// Has reports whether the snapshot contains a file called name.
func (s DirSnapshot) Has(name string) bool {
	_, ok := s.Files[name]
	return ok
}

// Names returns the sorted file names.
func (s DirSnapshot) Names() []string {
	names := make([]string, 0, len(s.Files))
	for name := range s.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Diff returns the files present in after but not in s, sorted by name.
// Files that existed before are never reported even if their size changed.
func (s DirSnapshot) Diff(after DirSnapshot) []FileInfo {
	var added []FileInfo
	for name, info := range after.Files {
		if !s.Has(name) {
			added = append(added, info)
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i].Name < added[j].Name })
	return added
}
