// ABOUTME: Client-side PDF checks run before any upload request
// ABOUTME: Extension, magic bytes and size; also cleans pasted or dropped paths

package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxSize is the largest PDF the backend accepts
const MaxSize = 10 * humanize.MiByte

// MsgNotPDF is shown for any file that is not a PDF
const MsgNotPDF = "Veuillez sélectionner un fichier PDF"

var pdfMagic = []byte("%PDF-")

// ValidationError is a local rejection; no request was sent
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a local validation failure
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// File is a PDF that passed validation
type File struct {
	Path string
	Name string
	Size int64
}

// HumanSize renders the size for display
func (f *File) HumanSize() string {
	return humanize.IBytes(uint64(f.Size))
}

// Validate checks that path names a readable PDF within MaxSize.
// The extension is checked first, so "notes.txt" is rejected without touching the disk.
func Validate(path string) (*File, error) {
	path = ExpandPath(CleanDroppedPath(path))
	if path == "" {
		return nil, &ValidationError{Reason: MsgNotPDF}
	}
	if !HasPDFExtension(path) {
		return nil, &ValidationError{Path: path, Reason: MsgNotPDF}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ValidationError{Path: path, Reason: "Fichier introuvable : " + path}
		}
		if os.IsPermission(err) {
			return nil, &ValidationError{Path: path, Reason: "Impossible de lire le fichier : permission refusée"}
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, &ValidationError{Path: path, Reason: MsgNotPDF}
	}
	if info.Size() == 0 {
		return nil, &ValidationError{Path: path, Reason: "Le fichier est vide"}
	}
	if info.Size() > MaxSize {
		return nil, &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("Le fichier fait %s, la taille maximale est de %s",
				humanize.IBytes(uint64(info.Size())), humanize.IBytes(MaxSize)),
		}
	}

	if err := checkMagic(path); err != nil {
		return nil, err
	}

	return &File{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

// HasPDFExtension reports whether the name ends in .pdf, any case
func HasPDFExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func checkMagic(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: "Impossible de lire le fichier : " + err.Error()}
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return &ValidationError{Path: path, Reason: MsgNotPDF}
	}
	return nil
}

// CleanDroppedPath normalises a path pasted into a terminal or dropped onto it:
// surrounding quotes, file:// URLs and backslash-escaped spaces
func CleanDroppedPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		if (p[0] == '"' && p[len(p)-1] == '"') || (p[0] == '\'' && p[len(p)-1] == '\'') {
			p = p[1 : len(p)-1]
		}
	}
	if strings.HasPrefix(p, "file://") {
		if u, err := url.Parse(p); err == nil {
			p = u.Path
		}
	}
	return strings.ReplaceAll(p, `\ `, " ")
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	}
	return path
}
