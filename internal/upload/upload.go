// ABOUTME: Validated PDF upload with progress reporting
// ABOUTME: Validation always runs before the request is built

package upload

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/JinaneConsulting/pdf-qcm-generator-sub000/internal/client"
)

// Uploader sends a PDF body to the backend
type Uploader interface {
	UploadPDF(ctx context.Context, r io.Reader, opts client.UploadOptions) (*client.UploadResult, error)
}

// Progress is a snapshot of an upload in flight
type Progress struct {
	Sent  int64
	Total int64
}

// Fraction is the completed share in [0, 1]
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Sent) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

func (p Progress) String() string {
	return fmt.Sprintf("%s / %s (%.0f%%)",
		humanize.IBytes(uint64(p.Sent)), humanize.IBytes(uint64(p.Total)), p.Fraction()*100)
}

// Options controls Upload
type Options struct {
	FolderID   client.ID
	OnProgress func(Progress)
}

// Upload validates path and streams it to the backend
func Upload(ctx context.Context, api Uploader, path string, opts Options) (*File, *client.UploadResult, error) {
	file, err := Validate(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(file.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", file.Path, err)
	}
	defer f.Close()

	uo := client.UploadOptions{Filename: file.Name, FolderID: opts.FolderID}
	if opts.OnProgress != nil {
		uo.Progress = func(sent int64) {
			opts.OnProgress(Progress{Sent: sent, Total: file.Size})
		}
	}

	res, err := api.UploadPDF(ctx, f, uo)
	if err != nil {
		return file, nil, err
	}
	return file, res, nil
}
