// ABOUTME: Finds PDF files in a directory for the picker
// ABOUTME: Looks in the working directory or QUIZZ_PDF_DIR

package upload

import (
	"os"
	"path/filepath"
	"sort"
)

// Discover lists the PDF files directly inside dir, sorted by name.
// A missing directory yields an empty list.
func Discover(dir string) ([]File, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []File{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := []File{}
	for _, entry := range entries {
		if entry.IsDir() || !HasPDFExtension(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name: entry.Name(),
			Path: filepath.Join(dir, entry.Name()),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// FindPDFDir picks the directory the picker browses:
// QUIZZ_PDF_DIR when it exists, else basePath
func FindPDFDir(basePath string) string {
	if envPath := os.Getenv("QUIZZ_PDF_DIR"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	return basePath
}
