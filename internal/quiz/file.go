// ABOUTME: Reads and writes generated QCMs as JSON files
// ABOUTME: Lets `generate --out` and `quiz` work across invocations

package quiz

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

// Load reads a QCM file
func Load(path string) (*client.QCM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var qcm client.QCM
	if err := json.Unmarshal(data, &qcm); err != nil {
		return nil, fmt.Errorf("invalid quiz file %s: %w", path, err)
	}
	if len(qcm.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &qcm, nil
}

// Save writes a QCM file, creating parent directories
func Save(path string, qcm *client.QCM) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(qcm, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
