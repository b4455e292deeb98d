// ABOUTME: Remembers recently uploaded PDF paths
// ABOUTME: Stored as recent.json in the config directory

package upload

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// MaxRecent is the maximum number of recent files kept
const MaxRecent = 5

// RecentFileName is the file Recent writes under its directory
const RecentFileName = "recent.json"

// Recent manages the list of recently uploaded PDFs
type Recent struct {
	configDir string
	files     []string
}

type recentData struct {
	Files []string `json:"files"`
}

// NewRecent creates a Recent rooted at configDir
func NewRecent(configDir string) *Recent {
	return &Recent{configDir: configDir}
}

func (r *Recent) path() string {
	return filepath.Join(r.configDir, RecentFileName)
}

// Load reads the list from disk, dropping files that no longer exist
func (r *Recent) Load() ([]string, error) {
	data, err := os.ReadFile(r.path())
	if os.IsNotExist(err) {
		r.files = []string{}
		return r.files, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		r.files = []string{}
		return r.files, nil
	}

	r.files = make([]string, 0, len(recent.Files))
	for _, p := range recent.Files {
		if _, err := os.Stat(p); err == nil {
			r.files = append(r.files, p)
		}
	}
	return r.files, nil
}

// Save writes the list, trimmed to MaxRecent
func (r *Recent) Save(files []string) error {
	if err := os.MkdirAll(r.configDir, 0o755); err != nil {
		return err
	}
	if len(files) > MaxRecent {
		files = files[:MaxRecent]
	}
	r.files = files

	data, err := json.MarshalIndent(recentData{Files: files}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path(), data, 0o644)
}

// Add moves path to the front of the list
func (r *Recent) Add(path string) error {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if r.files == nil {
		if _, err := r.Load(); err != nil {
			r.files = []string{}
		}
	}

	next := make([]string, 0, len(r.files)+1)
	next = append(next, path)
	for _, f := range r.files {
		if f != path {
			next = append(next, f)
		}
	}
	return r.Save(next)
}

// List returns the current list, loading it on first use
func (r *Recent) List() []string {
	if r.files == nil {
		r.Load()
	}
	return r.files
}
