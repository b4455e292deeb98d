// ABOUTME: Tests for upload and pdfs commands
// ABOUTME: Local validation must reject files before any request is sent

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/upload"
)

func writePDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("%PDF-1.4\n%fake body\n"), 0600); err != nil {
		t.Fatalf("failed to write pdf: %v", err)
	}
	return path
}

func TestUploadCommand_Success(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)
	path := writePDF(t, "cours.pdf")

	var out, progress bytes.Buffer
	exitCode := runUpload(context.Background(), d, &out, &progress, path, "")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, out.String())
	}
	if !strings.Contains(out.String(), "File ID:  12") {
		t.Errorf("expected file id, got %s", out.String())
	}
	if !strings.Contains(progress.String(), "Uploading:") {
		t.Errorf("expected progress on the progress writer, got %q", progress.String())
	}

	recent := upload.NewRecent(configDir)
	if _, err := recent.Load(); err != nil {
		t.Fatalf("failed to load recent files: %v", err)
	}
	if files := recent.List(); len(files) != 1 || files[0] != path {
		t.Errorf("expected upload recorded in recent files, got %v", files)
	}
}

func TestUploadCommand_NotPDF(t *testing.T) {
	backend := newFakeBackend()
	d := setupTest(t, backend, userToken)

	var out, progress bytes.Buffer
	exitCode := runUpload(context.Background(), d, &out, &progress, "notes.txt", "")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(out.String(), upload.MsgNotPDF) {
		t.Errorf("expected not-a-PDF message, got %s", out.String())
	}
	if backend.uploads != 0 {
		t.Errorf("no request should be sent, got %d uploads", backend.uploads)
	}
}

func TestUploadCommand_InvalidFolder(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var out, progress bytes.Buffer
	if exitCode := runUpload(context.Background(), d, &out, &progress, writePDF(t, "a.pdf"), "x"); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestPDFsList(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	exitCode := runPDFsList(context.Background(), d, &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "cours.pdf") || !strings.Contains(buf.String(), "2.0 KiB") {
		t.Errorf("unexpected output %s", buf.String())
	}
}

func TestPDFsDelete(t *testing.T) {
	d := setupTest(t, newFakeBackend(), userToken)

	var buf bytes.Buffer
	if exitCode := runPDFsDelete(context.Background(), d, &buf, "12"); exitCode != 0 {
		t.Errorf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	buf.Reset()
	if exitCode := runPDFsDelete(context.Background(), d, &buf, "99"); exitCode != 1 {
		t.Errorf("expected exit code 1 for unknown document, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Fichier non trouvé") {
		t.Errorf("expected backend message, got %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("court", 10); got != "court" {
		t.Errorf("expected unchanged, got %s", got)
	}
	if got := truncate("très long nom", 5); got != "très…" {
		t.Errorf("expected truncated, got %s", got)
	}
}
